package config

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/duynguyendang/llm-playbook/pkg/common/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "llm-playbook", cfg.CorpusDir)
	assert.Equal(t, "public/data/playbook.json", cfg.Output)
	assert.Equal(t, "1", cfg.Version)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
	assert.LessOrEqual(t, cfg.Workers, MaxWorkers)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playbook.yaml")
	require.NoError(t, os.WriteFile(path, []byte("corpusDir: docs\nstrict: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "docs", cfg.CorpusDir)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "public/data/playbook.json", cfg.Output)
	assert.Equal(t, "1", cfg.Version)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("workers: [1, 2"), 0o644))
	zero := filepath.Join(dir, "zero.yaml")
	require.NoError(t, os.WriteFile(zero, []byte("workers: 0"), 0o644))

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "nope.yaml")},
		{"malformed yaml", bad},
		{"invalid workers", zero},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			assert.ErrorIs(t, err, apperrors.ErrInvalidConfig)
		})
	}
}

func TestValidateLogMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogMode = "verbose"
	assert.ErrorIs(t, cfg.Validate(), apperrors.ErrInvalidConfig)
}
