package constants

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(5000, c.Port)
	assert.Equal("http://localhost:5173", c.AllowedOrigin)
	assert.Equal("lilypond", c.Renderer)
	assert.Equal(RunnerAsync, c.Runner)
	assert.Equal(120.0, c.Bpm)
	assert.Equal(2*time.Second, c.PhraseIdle)
	assert.Equal(time.Duration(0), c.RenderTimeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DRUMSCRIBE_PORT", "8081")
	t.Setenv("DRUMSCRIBE_RUNNER", "Blocking")
	t.Setenv("DRUMSCRIBE_PHRASE_IDLE", "500ms")

	c, err := Load()
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(8081, c.Port)
	assert.Equal(RunnerBlocking, c.Runner)
	assert.Equal(500*time.Millisecond, c.PhraseIdle)
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() Config {
		return Config{Port: 5000, Renderer: "lilypond", Runner: RunnerAsync, Bpm: 120}
	}
	require.NoError(t, func() error { c := base(); return c.Validate() }())

	cases := map[string]func(c *Config){
		"runner":   func(c *Config) { c.Runner = "threads" },
		"bpm":      func(c *Config) { c.Bpm = 0 },
		"port":     func(c *Config) { c.Port = 70000 },
		"renderer": func(c *Config) { c.Renderer = "" },
		"timeout":  func(c *Config) { c.RenderTimeout = -time.Second },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base()
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
