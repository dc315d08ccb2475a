package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/thalesfsp/bandit"
	"github.com/thalesfsp/bandit/gp"
)

// Config is the file configuration of banditdp. Flags override it.
type Config struct {
	// Prior is the initial state of every solve.
	Prior bandit.State `yaml:"prior"`

	// Trials is the horizon.
	Trials int `yaml:"trials"`

	// Workers values the states of one layer concurrently when > 1.
	Workers int `yaml:"workers"`

	// TieTolerance is handed to bandit.SolverConfig.
	TieTolerance float64 `yaml:"tie_tolerance"`

	// OutputDir receives the rendered HTML charts.
	OutputDir string `yaml:"output_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// GP holds the kernel of the gp demo.
	GP gp.Config `yaml:"gp"`

	// Acquisition holds Beta and Xi of the gp demo.
	Acquisition gp.AcquisitionParams `yaml:"acquisition"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		Prior:        bandit.State{Alpha1: 1, Beta1: 1, Alpha2: 1, Beta2: 1},
		Trials:       10,
		Workers:      1,
		TieTolerance: bandit.DefaultTieTolerance,
		OutputDir:    "charts",
		LogLevel:     "warn",
		GP: gp.Config{
			LengthScale:    1.5,
			SignalVariance: 25,
			Noise:          1e-6,
		},
		Acquisition: gp.AcquisitionParams{
			Beta: 2.0,
			Xi:   0.01,
		},
	}
}

// LoadConfig reads a YAML file over DefaultConfig. Keys absent from the file
// keep their default. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	return config, nil
}

// Validate checks the values the solver and the logger would reject.
func (c Config) Validate() error {
	if err := c.Prior.Validate(); err != nil {
		return err
	}

	if c.Trials < 1 {
		return fmt.Errorf("%w: trials must be >= 1, got %d", bandit.ErrInvalidInput, c.Trials)
	}

	if _, err := c.level(); err != nil {
		return err
	}

	return nil
}

// SolverConfig builds the library configuration.
func (c Config) SolverConfig(logger *slog.Logger) bandit.SolverConfig {
	config := bandit.DefaultConfig()
	config.TieTolerance = c.TieTolerance
	config.Workers = c.Workers
	config.Logger = logger

	return config
}

// Logger builds a text logger writing to w at LogLevel.
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := c.level()
	if err != nil {
		return nil, err
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

func (c Config) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}

	return level, nil
}
