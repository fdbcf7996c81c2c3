package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Profile selects the processing quality tier.
type Profile string

const (
	ProfilePreview Profile = "preview"
	ProfileFinal   Profile = "final"
)

// ParseProfile validates a profile name.
func ParseProfile(name string) (Profile, error) {
	switch Profile(strings.ToLower(strings.TrimSpace(name))) {
	case ProfilePreview:
		return ProfilePreview, nil
	case ProfileFinal, "":
		return ProfileFinal, nil
	default:
		return "", fmt.Errorf("profile: unsupported value %q", name)
	}
}

// FastResize reports whether the profile trades resampling quality for speed.
func (p Profile) FastResize() bool { return p == ProfilePreview }

// Paths contains the source folders and run output locations.
type Paths struct {
	InputDir          string
	OutputDir         string
	FrameCSVDir       string
	LabALEDir         string
	SilverstackCSVDir string
	LogDir            string
}

// Resources contains static assets required by the pipeline.
type Resources struct {
	OCIOTemplate string
	LUTDir       string
	Font         string
	LogoImage    string
	ToolImage    string
}

// Processing contains batch execution and geometry settings.
type Processing struct {
	Profile      Profile
	Workers      int
	BatchSize    int
	Resume       bool
	OutputWidth  int
	OutputHeight int
	CropLeft     int
	CropRight    int
	CropTop      int
	CropBottom   int
}

// Overlay contains text and logo layout settings.
type Overlay struct {
	FontSizeSmall  int
	FontSizeMedium int
	FontSizeLarge  int
	TextMargin     int
	TextYTop       int
	TextYBottom    int
	LogoPadding    int
	LogoMaxHeight  int
	LogoSpacing    int
}

// ELZone contains exposure-analysis panel settings.
type ELZone struct {
	Enabled   bool
	LogFormat string
}

// Logging contains log output settings.
type Logging struct {
	Format string
	Level  string
}

// Config encapsulates all configuration values for a stillgen run.
type Config struct {
	Paths      Paths
	Resources  Resources
	Processing Processing
	Overlay    Overlay
	ELZone     ELZone
	Logging    Logging
}

// Load builds a Config from defaults, an optional flat TOML/JSON file, and
// STILLGEN_* environment overrides, in that order. Unrecognized file keys are
// ignored so production config files can carry annotations for other tools.
func Load(path string) (*Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) loadFile(path string) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	values := map[string]any{}
	switch strings.ToLower(filepath.Ext(expanded)) {
	case ".json":
		if err := json.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	default:
		if err := toml.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}

	c.applyFileValues(values)
	return nil
}

// applyFileValues maps recognized flat option names onto the config. The key
// set mirrors the documented option names; anything else is skipped.
func (c *Config) applyFileValues(values map[string]any) {
	for key, raw := range values {
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "input_folder":
			assignString(&c.Paths.InputDir, raw)
		case "output_folder":
			assignString(&c.Paths.OutputDir, raw)
		case "frame_csv_folder":
			assignString(&c.Paths.FrameCSVDir, raw)
		case "lab_ale_folder":
			assignString(&c.Paths.LabALEDir, raw)
		case "silverstack_csv_folder":
			assignString(&c.Paths.SilverstackCSVDir, raw)
		case "log_folder":
			assignString(&c.Paths.LogDir, raw)
		case "ocio_template":
			assignString(&c.Resources.OCIOTemplate, raw)
		case "lut_dir":
			assignString(&c.Resources.LUTDir, raw)
		case "font_path":
			assignString(&c.Resources.Font, raw)
		case "logo_image":
			assignString(&c.Resources.LogoImage, raw)
		case "tool_image":
			assignString(&c.Resources.ToolImage, raw)
		case "profile":
			if p, err := ParseProfile(fmt.Sprint(raw)); err == nil {
				c.Processing.Profile = p
			}
		case "workers":
			assignInt(&c.Processing.Workers, raw)
		case "batch_size":
			assignInt(&c.Processing.BatchSize, raw)
		case "output_width":
			assignInt(&c.Processing.OutputWidth, raw)
		case "output_height":
			assignInt(&c.Processing.OutputHeight, raw)
		case "crop_left":
			assignInt(&c.Processing.CropLeft, raw)
		case "crop_right":
			assignInt(&c.Processing.CropRight, raw)
		case "crop_top":
			assignInt(&c.Processing.CropTop, raw)
		case "crop_bottom":
			assignInt(&c.Processing.CropBottom, raw)
		case "font_size_small":
			assignInt(&c.Overlay.FontSizeSmall, raw)
		case "font_size_medium":
			assignInt(&c.Overlay.FontSizeMedium, raw)
		case "font_size_large":
			assignInt(&c.Overlay.FontSizeLarge, raw)
		case "text_margin":
			assignInt(&c.Overlay.TextMargin, raw)
		case "text_y_top":
			assignInt(&c.Overlay.TextYTop, raw)
		case "text_y_bottom":
			assignInt(&c.Overlay.TextYBottom, raw)
		case "logo_padding":
			assignInt(&c.Overlay.LogoPadding, raw)
		case "logo_max_height":
			assignInt(&c.Overlay.LogoMaxHeight, raw)
		case "logo_spacing":
			assignInt(&c.Overlay.LogoSpacing, raw)
		case "el_zone":
			assignBool(&c.ELZone.Enabled, raw)
		case "el_zone_log":
			assignString(&c.ELZone.LogFormat, raw)
		case "log_format":
			assignString(&c.Logging.Format, raw)
		case "log_level":
			assignString(&c.Logging.Level, raw)
		}
	}
}

// envOverrides are honored after the config file; explicit CLI flags still win.
type envOverrides struct {
	Profile   string `envconfig:"PROFILE"`
	Workers   int    `envconfig:"WORKERS"`
	BatchSize int    `envconfig:"BATCH_SIZE"`
	LogLevel  string `envconfig:"LOG_LEVEL"`
	LogFormat string `envconfig:"LOG_FORMAT"`
	ELZoneLog string `envconfig:"EL_ZONE_LOG"`
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process("stillgen", &env); err != nil {
		return fmt.Errorf("environment overrides: %w", err)
	}
	if env.Profile != "" {
		p, err := ParseProfile(env.Profile)
		if err != nil {
			return err
		}
		c.Processing.Profile = p
	}
	if env.Workers > 0 {
		c.Processing.Workers = env.Workers
	}
	if env.BatchSize > 0 {
		c.Processing.BatchSize = env.BatchSize
	}
	if env.LogLevel != "" {
		c.Logging.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		c.Logging.Format = env.LogFormat
	}
	if env.ELZoneLog != "" {
		c.ELZone.LogFormat = env.ELZoneLog
	}
	return nil
}

func assignString(dst *string, raw any) {
	if s, ok := raw.(string); ok && strings.TrimSpace(s) != "" {
		*dst = strings.TrimSpace(s)
	}
}

func assignInt(dst *int, raw any) {
	switch v := raw.(type) {
	case int64:
		*dst = int(v)
	case int:
		*dst = v
	case float64:
		*dst = int(v)
	}
}

func assignBool(dst *bool, raw any) {
	if b, ok := raw.(bool); ok {
		*dst = b
	}
}

// EnsureDirectories creates the output and log directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.OutputDir}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		dirs = append(dirs, c.Paths.LogDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// OiiotoolBinary returns the external pixel-processing executable name.
func (c *Config) OiiotoolBinary() string {
	return "oiiotool"
}

// ExpandPath resolves ~-prefixed paths and normalizes to an absolute path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
