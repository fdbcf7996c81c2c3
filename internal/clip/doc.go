// Package clip parses frame identities from still filenames and classifies
// them into camera families.
//
// A still is named CLIPNAME-HH_MM_SS_FF.tiff; the clip-name prefix determines
// the camera family via an ordered matcher list, terminating in an explicit
// Unknown family that downstream stages treat as "no crop, default output
// colorspace". Extraction geometry recorded in the lab ALE is parsed here and
// turned into centered crop windows, with per-family fallback geometry for
// the RED U and F sensors.
package clip
