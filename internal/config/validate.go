package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateProcessing(); err != nil {
		return err
	}
	if err := c.validateOverlay(); err != nil {
		return err
	}
	if err := c.validateELZone(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log_format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateProcessing() error {
	if c.Processing.OutputWidth <= 0 || c.Processing.OutputHeight <= 0 {
		return errors.New("output_width and output_height must be positive")
	}
	if c.Processing.CropLeft < 0 || c.Processing.CropRight < 0 || c.Processing.CropTop < 0 || c.Processing.CropBottom < 0 {
		return errors.New("crop values must not be negative")
	}
	if c.Processing.CropLeft+c.Processing.CropRight >= c.Processing.OutputWidth {
		return errors.New("horizontal crop exceeds output width")
	}
	switch c.Processing.Profile {
	case ProfilePreview, ProfileFinal:
	default:
		return fmt.Errorf("profile must be preview or final, got %q", c.Processing.Profile)
	}
	return nil
}

func (c *Config) validateOverlay() error {
	if c.Overlay.FontSizeSmall <= 0 || c.Overlay.FontSizeMedium <= 0 || c.Overlay.FontSizeLarge <= 0 {
		return errors.New("font sizes must be positive")
	}
	if c.Overlay.LogoMaxHeight <= c.Overlay.LogoSpacing {
		return errors.New("logo_max_height must exceed logo_spacing")
	}
	return nil
}

func (c *Config) validateELZone() error {
	switch c.ELZone.LogFormat {
	case "logc4", "slog3", "apple_log", "redlog3", "linear":
		return nil
	default:
		return fmt.Errorf("el_zone_log must be one of logc4, slog3, apple_log, redlog3, linear; got %q", c.ELZone.LogFormat)
	}
}
