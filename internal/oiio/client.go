package oiio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"stillgen/internal/ocio"
)

var commandContext = exec.CommandContext

// ErrEngine marks a failed color engine invocation, so callers can tell a
// tool failure from a wiring mistake.
var ErrEngine = errors.New("oiiotool failed")

// ConvertRequest describes one color conversion pass over a single frame.
type ConvertRequest struct {
	InputPath  string
	OutputPath string
	FromSpace  string
	ToSpace    string
	// ConfigPath points the engine at the job's rendered OCIO config.
	ConfigPath string
}

// Client defines the color engine behaviour.
type Client interface {
	ColorConvert(ctx context.Context, req ConvertRequest) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the oiiotool command-line engine.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "oiiotool"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// ColorConvert runs one oiiotool colorconvert pass. A non-zero exit is a
// per-job failure carrying the tool's diagnostic text, never a panic.
func (c *CLI) ColorConvert(ctx context.Context, req ConvertRequest) error {
	if req.InputPath == "" {
		return errors.New("input path required")
	}
	if req.OutputPath == "" {
		return errors.New("output path required")
	}
	if req.FromSpace == "" || req.ToSpace == "" {
		return errors.New("source and target colorspaces required")
	}

	args := []string{req.InputPath, "--colorconvert", req.FromSpace, req.ToSpace, "-o", req.OutputPath}
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	if req.ConfigPath != "" {
		cmd.Env = append(os.Environ(), ocio.EnvVar+"="+req.ConfigPath)
	}

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		diag := strings.TrimSpace(output.String())
		if diag != "" {
			return fmt.Errorf("%w: %s to %s: %v: %s", ErrEngine, req.FromSpace, req.ToSpace, err, diag)
		}
		return fmt.Errorf("%w: %s to %s: %v", ErrEngine, req.FromSpace, req.ToSpace, err)
	}

	if _, err := os.Stat(req.OutputPath); err != nil {
		return fmt.Errorf("oiiotool produced no output at %s: %w", req.OutputPath, err)
	}
	return nil
}

var _ Client = (*CLI)(nil)
