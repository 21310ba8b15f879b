package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/drumscribe/chord"
	"github.com/jsphweid/drumscribe/constants"
	"github.com/jsphweid/drumscribe/lilypond"
	"github.com/jsphweid/drumscribe/midi"
	"github.com/jsphweid/drumscribe/model"
	"github.com/jsphweid/drumscribe/runner"
	"github.com/spf13/cobra"
)

var renderOut string

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "output", "o", constants.ExportFilename, "where to write the pdf")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render <notes.json|drums.mid>",
	Short: "Renders a notes or midi file to PDF",
	Long:  `Renders a JSON array of notes, or a .mid file transcribed at the configured bpm, to PDF without starting the server.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return render(cmd.Context(), args[0], renderOut)
	},
}

func readNotes(path string) (model.Notes, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Could not read notes file: %w", err)
	}
	var notes model.Notes
	if err := json.Unmarshal(dat, &notes); err != nil {
		return nil, fmt.Errorf("Could not decode notes file: %w", err)
	}
	return notes, nil
}

func loadNotes(path string, bpm float64) (model.Notes, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mid", ".midi":
		s, err := midi.ReadMidiFile(path)
		if err != nil {
			return nil, err
		}
		return chord.Transcribe(midi.Hits(s), bpm), nil
	}
	return readNotes(path)
}

func render(ctx context.Context, in string, out string) error {
	notes, err := loadNotes(in, cfg.Bpm)
	if err != nil {
		return err
	}

	r, err := runner.New(cfg.Runner)
	if err != nil {
		return err
	}
	pdf, err := lilypond.NewConverter(cfg, r, log).Render(ctx, notes)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, pdf, 0644); err != nil {
		return fmt.Errorf("Could not write %s: %w", out, err)
	}
	log.Info().Str("path", out).Int("notes", len(notes)).Msg("wrote pdf")
	return nil
}
