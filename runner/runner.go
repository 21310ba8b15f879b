// Package runner runs an external process to completion and captures its
// output. Two strategies are available: Blocking performs a synchronous
// run on a dedicated OS thread, Async starts the process and waits for it
// without tying up a thread of the caller.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/jsphweid/drumscribe/constants"
)

// Result is the same shape for every strategy.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

type Command struct {
	Name string
	Args []string
	Dir  string
}

type Runner interface {
	// Run returns an error only when the process could not be run at all.
	// A process that ran and exited non-zero is reported via Result.ExitCode.
	Run(ctx context.Context, c Command) (Result, error)
}

func New(mode string) (Runner, error) {
	switch mode {
	case constants.RunnerAsync:
		return Async{}, nil
	case constants.RunnerBlocking:
		return Blocking{}, nil
	}
	return nil, fmt.Errorf("unknown runner %q", mode)
}

type Blocking struct{}

func (Blocking) Run(_ context.Context, c Command) (Result, error) {
	type outcome struct {
		res Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		var stdout, stderr bytes.Buffer
		cmd := exec.Command(c.Name, c.Args...)
		cmd.Dir = c.Dir
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		res, err := collect(cmd.Run(), &stdout, &stderr)
		if err != nil {
			err = fmt.Errorf("could not run %s: %w", c.Name, err)
		}
		done <- outcome{res, err}
	}()

	// always waits for the process, cancellation is not observed
	o := <-done
	return o.res, o.err
}

const waitDelay = 2 * time.Second

type Async struct{}

func (Async) Run(ctx context.Context, c Command) (Result, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	// children of a killed process may hold the output pipes open
	cmd.WaitDelay = waitDelay
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("could not start %s: %w", c.Name, err)
	}

	return settle(ctx, c.Name, cmd.Wait(), &stdout, &stderr)
}

// settle blames the context only for a process that did not exit cleanly.
// A context that ends after a clean exit leaves the result intact.
func settle(ctx context.Context, name string, waitErr error, stdout, stderr *bytes.Buffer) (Result, error) {
	if waitErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, fmt.Errorf("%s was interrupted: %w", name, ctxErr)
		}
	}
	return collect(waitErr, stdout, stderr)
}

func collect(err error, stdout, stderr *bytes.Buffer) (Result, error) {
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return res, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, err
}
