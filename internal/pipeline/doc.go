// Package pipeline executes the per-frame color chain and output geometry:
// an ordered set of engine passes (input space, grade, output look) followed
// by crop, scale and letterbox onto the delivery canvas.
package pipeline
