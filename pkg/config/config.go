package config

import (
	"fmt"
	"os"
	"runtime"

	apperrors "github.com/duynguyendang/llm-playbook/pkg/common/errors"
	"gopkg.in/yaml.v3"
)

// MaxWorkers caps the default document parsing parallelism.
const MaxWorkers = 8

// Config holds configuration for a dataset build.
type Config struct {
	// CorpusDir is the directory of markdown source documents.
	CorpusDir string `yaml:"corpusDir"`
	// Output is the path of the JSON artifact.
	Output string `yaml:"output"`
	// Version is stamped into the dataset.
	Version string `yaml:"version"`
	// Workers bounds concurrent document parsing.
	Workers int `yaml:"workers"`
	// LogMode selects the log encoder, "dev" or "prod".
	LogMode string `yaml:"logMode"`
	// Strict fails the build when any document is skipped.
	Strict bool `yaml:"strict"`
	// RenderCacheSize bounds the rendered-body cache.
	RenderCacheSize int `yaml:"renderCacheSize"`
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	workers := runtime.NumCPU()
	if workers > MaxWorkers {
		workers = MaxWorkers
	}
	return Config{
		CorpusDir:       "llm-playbook",
		Output:          "public/data/playbook.json",
		Version:         "1",
		Workers:         workers,
		LogMode:         "dev",
		RenderCacheSize: 512,
	}
}

// Load reads a YAML config file on top of the defaults. Keys absent from
// the file keep their default values.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: failed to read config: %v", apperrors.ErrInvalidConfig, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: failed to parse config %s: %v", apperrors.ErrInvalidConfig, path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects configurations a build cannot run with.
func (c Config) Validate() error {
	switch {
	case c.CorpusDir == "":
		return fmt.Errorf("%w: corpusDir is empty", apperrors.ErrInvalidConfig)
	case c.Output == "":
		return fmt.Errorf("%w: output is empty", apperrors.ErrInvalidConfig)
	case c.Version == "":
		return fmt.Errorf("%w: version is empty", apperrors.ErrInvalidConfig)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be positive, got %d", apperrors.ErrInvalidConfig, c.Workers)
	case c.LogMode != "dev" && c.LogMode != "prod":
		return fmt.Errorf("%w: logMode must be dev or prod, got %q", apperrors.ErrInvalidConfig, c.LogMode)
	}
	return nil
}
