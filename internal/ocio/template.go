package ocio

import (
	"fmt"
	"os"
	"strings"
)

// EnvVar is the environment variable the color engine reads its config from.
const EnvVar = "OCIO"

// Colorspace names defined by the production config template. Input spaces
// come from the camera profile; these are the fixed pipeline endpoints.
const (
	ColorspaceLinear = "linear"
	ColorspaceOutput = "Output_w_Look"
)

// Placeholders the production template carries for per-job substitution.
const (
	cdlPlaceholder        = "cd.cdl"
	searchPathPlaceholder = "search_path: luts"
)

// Template is a production OCIO config with placeholder grade and LUT
// references, loaded once and rendered per job.
type Template struct {
	content string
}

// LoadTemplate reads the config template from disk.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ocio: read template: %w", err)
	}
	content := string(data)
	if !strings.Contains(content, cdlPlaceholder) {
		return nil, fmt.Errorf("ocio: template %s has no %q placeholder", path, cdlPlaceholder)
	}
	return &Template{content: content}, nil
}

// Render substitutes the job's sidecar path and LUT search directory into the
// template.
func (t *Template) Render(cdlPath, lutDir string) string {
	rendered := strings.ReplaceAll(t.content, cdlPlaceholder, cdlPath)
	return strings.ReplaceAll(rendered, searchPathPlaceholder, "search_path: "+lutDir)
}

// WriteConfig renders the template into a temporary .ocio file under dir and
// returns its path. The caller owns cleanup.
func (t *Template) WriteConfig(dir, cdlPath, lutDir string) (string, error) {
	file, err := os.CreateTemp(dir, "stillgen-*.ocio")
	if err != nil {
		return "", fmt.Errorf("ocio: create config: %w", err)
	}
	if _, err := file.WriteString(t.Render(cdlPath, lutDir)); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", fmt.Errorf("ocio: write config: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("ocio: close config: %w", err)
	}
	return file.Name(), nil
}
