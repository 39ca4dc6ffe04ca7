package cfg

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"netsimplify/pkg/geometry"
)

var validate = validator.New()

// Config is the file form of the tunables in this package.
type Config struct {
	Board   BoardConfig   `yaml:"board"`
	Undo    UndoConfig    `yaml:"undo"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type BoardConfig struct {
	// Extent in nanometers, see BoardExtent.
	Extent int64 `yaml:"extent" validate:"gt=0,lte=4000000000"`
}

type UndoConfig struct {
	Limit int `yaml:"limit" validate:"gte=1,lte=10000"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration matching the package defaults.
func Default() Config {
	return Config{
		Board: BoardConfig{Extent: int64(BoardExtent)},
		Undo:  UndoConfig{Limit: UndoLimit},
		Log:   LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads a YAML config file. Fields missing from the file keep their
// defaults. An empty path returns Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (Config, error) {
	c := Default()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]error, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Errorf("config %s: failed %q (%s)", e.Namespace(), e.Tag(), e.Param()))
	}
	return errors.Join(msgs...)
}

// Apply copies the file values into the package-level tunables.
func (c Config) Apply() {
	BoardExtent = geometry.Length(c.Board.Extent)
	UndoLimit = c.Undo.Limit
}

func (c Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
