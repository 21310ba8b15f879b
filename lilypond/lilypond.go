// Package lilypond renders notes to PDF by generating a drum-mode LilyPond
// source file and handing it to the lilypond executable.
package lilypond

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/jsphweid/drumscribe/constants"
	"github.com/jsphweid/drumscribe/model"
	"github.com/jsphweid/drumscribe/runner"
	"github.com/jsphweid/drumscribe/util"
	"github.com/rs/zerolog"
)

var ErrMissingOutput = errors.New("PDF created but file not found.")

// RendererError is returned when lilypond exits non-zero.
type RendererError struct {
	ExitCode int
	Stderr   string
}

func (e *RendererError) Error() string {
	return "LilyPond Error: " + e.Stderr
}

// InternalError wraps anything else that went wrong during a render,
// including recovered panics.
type InternalError struct {
	Err   error
	Stack string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("Server Error: %v\n%s", e.Err, e.Stack)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

type Converter struct {
	Renderer string
	WorkDir  string
	Runner   runner.Runner
	Log      zerolog.Logger

	// Timeout of zero lets the renderer run for as long as it needs.
	Timeout time.Duration
}

func NewConverter(cfg *constants.Config, r runner.Runner, log zerolog.Logger) *Converter {
	return &Converter{
		Renderer: cfg.Renderer,
		WorkDir:  cfg.WorkDir,
		Runner:   r,
		Log:      log,
		Timeout:  cfg.RenderTimeout,
	}
}

// Render returns the PDF for notes. The temporary source and output files
// are gone by the time it returns, whatever the outcome.
func (c *Converter) Render(ctx context.Context, notes model.Notes) (pdf []byte, err error) {
	base := constants.TempFilePrefix + uuid.New().String()
	lyPath := filepath.Join(c.WorkDir, base+".ly")
	pdfPath := filepath.Join(c.WorkDir, base+".pdf")
	log := c.Log.With().Str("job", base).Logger()

	defer func() {
		if rmErr := util.RemoveIfExists(lyPath, pdfPath); rmErr != nil {
			log.Warn().Err(rmErr).Msg("could not remove temp files")
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			pdf, err = nil, c.internal(log, fmt.Errorf("panic: %v", r))
		}
	}()

	if rests := countRests(notes); rests > 0 {
		log.Warn().Int("rests", rests).Msg("rest flag is not encoded in notation")
	}

	source, err := Document(notes)
	if err != nil {
		return nil, c.internal(log, err)
	}
	if err := os.WriteFile(lyPath, []byte(source), 0644); err != nil {
		return nil, c.internal(log, fmt.Errorf("could not write %s: %w", lyPath, err))
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	log.Debug().Int("notes", len(notes)).Str("renderer", c.Renderer).Msg("rendering")
	res, err := c.Runner.Run(ctx, runner.Command{
		Name: c.Renderer,
		Args: []string{"--output", base, base + ".ly"},
		Dir:  c.WorkDir,
	})
	if err != nil {
		return nil, c.internal(log, err)
	}

	if res.ExitCode != 0 {
		rerr := &RendererError{ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
		log.Error().Int("exit_code", res.ExitCode).Str("stderr", rerr.Stderr).Msg("lilypond failed")
		return nil, rerr
	}

	pdf, err = os.ReadFile(pdfPath)
	if os.IsNotExist(err) {
		log.Error().Str("path", pdfPath).Msg("lilypond exited cleanly without output")
		return nil, ErrMissingOutput
	}
	if err != nil {
		return nil, c.internal(log, fmt.Errorf("could not read %s: %w", pdfPath, err))
	}

	log.Info().Int("bytes", len(pdf)).Msg("rendered")
	return pdf, nil
}

func (c *Converter) internal(log zerolog.Logger, err error) *InternalError {
	ie := &InternalError{Err: err, Stack: string(debug.Stack())}
	log.Error().Err(err).Str("stack", ie.Stack).Msg("render failed")
	return ie
}

func countRests(notes model.Notes) int {
	var n int
	for _, note := range notes {
		if note.IsRest {
			n++
		}
	}
	return n
}
