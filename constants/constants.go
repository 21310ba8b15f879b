package constants

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "DRUMSCRIBE"

const (
	RunnerAsync    = "async"
	RunnerBlocking = "blocking"
)

// LilypondVersion is written into every generated source file.
const LilypondVersion = "2.24.0"

const TempFilePrefix = "temp_"

const ExportFilename = "drum-transcription.pdf"

const DefaultPhraseIdle = 2 * time.Second

type Config struct {
	Port          int           `envconfig:"PORT" default:"5000"`
	AllowedOrigin string        `envconfig:"ALLOWED_ORIGIN" default:"http://localhost:5173"`
	Renderer      string        `envconfig:"RENDERER" default:"lilypond"`
	Runner        string        `envconfig:"RUNNER" default:"async"`
	WorkDir       string        `envconfig:"WORK_DIR" default:"."`
	Bpm           float64       `envconfig:"BPM" default:"120"`
	PhraseIdle    time.Duration `envconfig:"PHRASE_IDLE" default:"2s"`
	RenderTimeout time.Duration `envconfig:"RENDER_TIMEOUT" default:"0s"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat     string        `envconfig:"LOG_FORMAT" default:"console"`
}

// Load reads an optional .env file and then the DRUMSCRIBE_* environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	var c Config
	if err := envconfig.Process(EnvPrefix, &c); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}
	return &c, c.Validate()
}

func (c *Config) Validate() error {
	c.Runner = strings.ToLower(c.Runner)
	if c.Runner != RunnerAsync && c.Runner != RunnerBlocking {
		return fmt.Errorf("invalid runner %q: must be %q or %q", c.Runner, RunnerAsync, RunnerBlocking)
	}
	if c.Bpm <= 0 {
		return fmt.Errorf("invalid bpm %v: must be positive", c.Bpm)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Renderer == "" {
		return fmt.Errorf("renderer must not be empty")
	}
	if c.RenderTimeout < 0 {
		return fmt.Errorf("invalid render timeout %v", c.RenderTimeout)
	}
	return nil
}
