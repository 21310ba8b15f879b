package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jsphweid/drumscribe/api"
	"github.com/jsphweid/drumscribe/db"
	"github.com/jsphweid/drumscribe/lilypond"
	"github.com/jsphweid/drumscribe/runner"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	port     int
	runner   string
	renderer string
	origin   string
	workDir  string
}

func init() {
	f := serveCmd.Flags()
	f.IntVar(&serveFlags.port, "port", 0, "port to listen on")
	f.StringVar(&serveFlags.runner, "runner", "", "process strategy: async or blocking")
	f.StringVar(&serveFlags.renderer, "renderer", "", "lilypond executable")
	f.StringVar(&serveFlags.origin, "origin", "", "allowed CORS origin")
	f.StringVar(&serveFlags.workDir, "workdir", "", "directory for temporary render files")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the notes API",
	Long:  `Runs the notes API`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd)
	},
}

func applyServeFlags(c *cobra.Command) error {
	f := c.Flags()
	if f.Changed("port") {
		cfg.Port = serveFlags.port
	}
	if f.Changed("runner") {
		cfg.Runner = serveFlags.runner
	}
	if f.Changed("renderer") {
		cfg.Renderer = serveFlags.renderer
	}
	if f.Changed("origin") {
		cfg.AllowedOrigin = serveFlags.origin
	}
	if f.Changed("workdir") {
		cfg.WorkDir = serveFlags.workDir
	}
	return cfg.Validate()
}

func serve(c *cobra.Command) error {
	if err := applyServeFlags(c); err != nil {
		return err
	}

	r, err := runner.New(cfg.Runner)
	if err != nil {
		return err
	}
	store := db.NewNoteStore()
	converter := lilypond.NewConverter(cfg, r, log)
	server := api.New(cfg, store, converter, log)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: server.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Str("runner", cfg.Runner).
			Str("origin", cfg.AllowedOrigin).
			Msg("serving")
		errs <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	server.FlushLive()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
