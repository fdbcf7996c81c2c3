package testsupport

import (
	"path/filepath"
	"testing"

	"stillgen/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test
// and a canvas small enough to composite quickly. Options apply last.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.InputDir = filepath.Join(base, "input")
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.FrameCSVDir = filepath.Join(base, "fbf")
	cfg.Paths.LabALEDir = filepath.Join(base, "ale")
	cfg.Paths.SilverstackCSVDir = filepath.Join(base, "silverstack")
	cfg.Processing.Workers = 2
	cfg.Processing.BatchSize = 1
	cfg.Processing.OutputWidth = 192
	cfg.Processing.OutputHeight = 108
	cfg.Processing.CropLeft = 1
	cfg.Processing.CropRight = 1
	cfg.Processing.CropTop = 1
	cfg.Processing.CropBottom = 1
	cfg.Resources.Font = ""
	cfg.Resources.LogoImage = ""
	cfg.Resources.ToolImage = ""

	for _, opt := range opts {
		opt(&cfg)
	}

	for _, dir := range []string{
		cfg.Paths.InputDir, cfg.Paths.OutputDir, cfg.Paths.FrameCSVDir,
		cfg.Paths.LabALEDir, cfg.Paths.SilverstackCSVDir,
	} {
		MkdirAll(t, dir)
	}
	return &cfg
}
