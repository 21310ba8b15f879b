package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/jsphweid/drumscribe/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strategies() map[string]Runner {
	return map[string]Runner{
		constants.RunnerAsync:    Async{},
		constants.RunnerBlocking: Blocking{},
	}
}

func requireShell(t *testing.T) string {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func TestNew(t *testing.T) {
	r, err := New(constants.RunnerAsync)
	require.NoError(t, err)
	assert.IsType(t, Async{}, r)

	r, err = New(constants.RunnerBlocking)
	require.NoError(t, err)
	assert.IsType(t, Blocking{}, r)

	_, err = New("threaded")
	assert.Error(t, err)
}

func TestStrategiesCaptureOutputAndExitCode(t *testing.T) {
	sh := requireShell(t)
	for name, r := range strategies() {
		t.Run(name, func(t *testing.T) {
			res, err := r.Run(context.Background(), Command{
				Name: sh,
				Args: []string{"-c", "echo out; echo 'syntax error' >&2; exit 3"},
			})
			require.NoError(t, err)

			assert := assert.New(t)
			assert.Equal(3, res.ExitCode)
			assert.Equal("out\n", string(res.Stdout))
			assert.Equal("syntax error\n", string(res.Stderr))
		})
	}
}

func TestStrategiesRunInDir(t *testing.T) {
	sh := requireShell(t)
	dir := t.TempDir()
	for name, r := range strategies() {
		t.Run(name, func(t *testing.T) {
			res, err := r.Run(context.Background(), Command{Name: sh, Args: []string{"-c", "pwd -P"}, Dir: dir})
			require.NoError(t, err)
			assert.Equal(t, 0, res.ExitCode)
			assert.NotEmpty(t, res.Stdout)
		})
	}
}

func TestStrategiesReportMissingExecutable(t *testing.T) {
	for name, r := range strategies() {
		t.Run(name, func(t *testing.T) {
			_, err := r.Run(context.Background(), Command{Name: "drumscribe-no-such-binary"})
			assert.Error(t, err)
		})
	}
}

func TestAsyncStopsOnCancel(t *testing.T) {
	sh := requireShell(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := Async{}.Run(ctx, Command{Name: sh, Args: []string{"-c", "exec sleep 5"}})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestSettleKeepsCleanExitAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := settle(ctx, "lilypond", nil, bytes.NewBufferString("ok"), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "ok", string(res.Stdout))
}

func TestSettleBlamesContextForKilledProcess(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := settle(ctx, "lilypond", errors.New("signal: killed"), &bytes.Buffer{}, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}
