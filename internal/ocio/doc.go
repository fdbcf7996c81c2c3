// Package ocio renders per-job OCIO configs from the production template,
// substituting the clip's CDL sidecar and the LUT search path.
package ocio
