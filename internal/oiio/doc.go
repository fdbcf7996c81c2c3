// Package oiio wraps the oiiotool command-line image engine. The pipeline
// builds transform specifications and delegates all pixel arithmetic here.
package oiio
