package deps

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"stillgen/internal/config"
)

// Requirement defines an external dependency Stillgen relies on.
type Requirement struct {
	Name        string
	Command     string
	Path        string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// ForConfig builds the requirement set of a run: the external color engine
// plus the static resources the pipeline reads.
func ForConfig(cfg *config.Config) []Requirement {
	requirements := []Requirement{
		{Name: "oiiotool", Command: cfg.OiiotoolBinary(), Description: "OpenImageIO color engine"},
		{Name: "OCIO template", Path: cfg.Resources.OCIOTemplate, Description: "color config template"},
		{Name: "LUT directory", Path: cfg.Resources.LUTDir, Description: "output and input LUTs"},
		{Name: "overlay font", Path: cfg.Resources.Font, Description: "overlay text font", Optional: true},
		{Name: "production logo", Path: cfg.Resources.LogoImage, Description: "logo slot image", Optional: true},
		{Name: "tool logo", Path: cfg.Resources.ToolImage, Description: "logo slot image", Optional: true},
	}
	return requirements
}

// Check evaluates the provided requirements and reports availability.
func Check(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		status := Status{
			Name:        req.Name,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		switch {
		case req.Command != "":
			if _, err := exec.LookPath(req.Command); err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", req.Command)
			} else {
				status.Available = true
			}
		case req.Path != "":
			if _, err := os.Stat(req.Path); err != nil {
				status.Detail = fmt.Sprintf("path %q not found", req.Path)
			} else {
				status.Available = true
			}
		default:
			status.Detail = "not configured"
		}
		results = append(results, status)
	}
	return results
}

// MissingRequired lists the unavailable non-optional dependencies.
func MissingRequired(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}
