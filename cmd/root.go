package cmd

import (
	"os"

	"github.com/jsphweid/drumscribe/constants"
	"github.com/jsphweid/drumscribe/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfg *constants.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "drumscribe",
	Short: "Drum notation backend",
	Long:  `Stores drum notes and renders them to sheet music with LilyPond.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = constants.Load()
		if err != nil {
			return err
		}
		log, err = logger.Init(cfg.LogLevel, cfg.LogFormat, os.Stderr)
		return err
	},
	SilenceUsage: true,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
