// Package elzone implements the EL Zone System exposure analysis panel:
// log decode to scene linear, a fixed seventeen-zone false-color palette,
// a vectorscope and a luminance waveform composited as four quadrants.
package elzone
