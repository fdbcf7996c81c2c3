package config

import (
	"fmt"
	"runtime"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeResources(); err != nil {
		return err
	}
	c.normalizeProcessing()
	c.normalizeLogging()
	c.ELZone.LogFormat = strings.ToLower(strings.TrimSpace(c.ELZone.LogFormat))
	if c.ELZone.LogFormat == "" {
		c.ELZone.LogFormat = defaultELZoneLogFormat
	}
	return nil
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		name string
		dst  *string
	}{
		{"input_folder", &c.Paths.InputDir},
		{"output_folder", &c.Paths.OutputDir},
		{"frame_csv_folder", &c.Paths.FrameCSVDir},
		{"lab_ale_folder", &c.Paths.LabALEDir},
		{"silverstack_csv_folder", &c.Paths.SilverstackCSVDir},
	}
	for _, field := range fields {
		expanded, err := ExpandPath(*field.dst)
		if err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
		*field.dst = expanded
	}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		expanded, err := ExpandPath(c.Paths.LogDir)
		if err != nil {
			return fmt.Errorf("log_folder: %w", err)
		}
		c.Paths.LogDir = expanded
	}
	return nil
}

func (c *Config) normalizeResources() error {
	fields := []struct {
		name string
		dst  *string
	}{
		{"ocio_template", &c.Resources.OCIOTemplate},
		{"lut_dir", &c.Resources.LUTDir},
		{"font_path", &c.Resources.Font},
		{"logo_image", &c.Resources.LogoImage},
		{"tool_image", &c.Resources.ToolImage},
	}
	for _, field := range fields {
		expanded, err := ExpandPath(*field.dst)
		if err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
		*field.dst = expanded
	}
	return nil
}

func (c *Config) normalizeProcessing() {
	if c.Processing.Workers <= 0 {
		c.Processing.Workers = runtime.NumCPU()
	}
	if c.Processing.BatchSize <= 0 {
		c.Processing.BatchSize = defaultBatchSize
	}
	if c.Processing.Profile == "" {
		c.Processing.Profile = ProfileFinal
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
