package clip

import "regexp"

// Family identifies a camera family inferred from the clip-name prefix.
type Family string

const (
	FamilyArriAlexa35 Family = "arri_alexa35"
	FamilyRedR        Family = "red_r"
	FamilyRedU        Family = "red_u"
	FamilyRedF        Family = "red_f"
	FamilyUnknown     Family = "unknown"
)

// Profile carries the camera-specific pipeline parameters for one family.
// Profiles are read-only; they are built once and shared by every worker.
type Profile struct {
	Family Family

	// InputColorspace is the OCIO colorspace name of the camera's log encoding.
	InputColorspace string

	// UsesInputLUT marks families whose decode routes through an input LUT
	// baked into the OCIO config rather than a plain colorspace conversion.
	UsesInputLUT bool

	// DefaultExtraction supplies crop geometry when the lab ALE carries no
	// extraction field. Nil means fall back to the configured fixed crop.
	DefaultExtraction *Extraction
}

// matcher classifies a clip name into a family, or reports no match.
type matcher struct {
	pattern *regexp.Regexp
	family  Family
}

// Matchers run in order; the first hit wins. RED family prefixes are checked
// before the generic single-letter ARRI rule so U/F/R reels never fall
// through to the ARRI profile.
var matchers = []matcher{
	{regexp.MustCompile(`^U\d{3}`), FamilyRedU},
	{regexp.MustCompile(`^F\d{3}`), FamilyRedF},
	{regexp.MustCompile(`^R\d{3}`), FamilyRedR},
	{regexp.MustCompile(`^[A-Z]\d{3}`), FamilyArriAlexa35},
}

// Classify maps a clip name to its camera family. It never fails: names that
// match no rule classify as FamilyUnknown.
func Classify(name string) Family {
	for _, m := range matchers {
		if m.pattern.MatchString(name) {
			return m.family
		}
	}
	return FamilyUnknown
}

var profiles = map[Family]Profile{
	FamilyArriAlexa35: {
		Family:          FamilyArriAlexa35,
		InputColorspace: "Arri LogC4",
	},
	FamilyRedR: {
		Family:          FamilyRedR,
		InputColorspace: "REDLog3",
	},
	FamilyRedU: {
		Family:          FamilyRedU,
		InputColorspace: "REDLog3",
		UsesInputLUT:    true,
		DefaultExtraction: &Extraction{
			CameraTag:   "RED",
			Width:       6144,
			Height:      3240,
			Format:      "SPH",
			AspectRatio: 2.39,
			CropPercent: 95,
		},
	},
	FamilyRedF: {
		Family:          FamilyRedF,
		InputColorspace: "REDLog3",
		UsesInputLUT:    true,
		DefaultExtraction: &Extraction{
			CameraTag:   "RED",
			Width:       5120,
			Height:      2700,
			Format:      "SPH",
			AspectRatio: 2.39,
			CropPercent: 100,
		},
	},
	// Unknown clips get no crop and the default output colorspace; downstream
	// stages treat the empty InputColorspace as "already linear".
	FamilyUnknown: {
		Family: FamilyUnknown,
	},
}

// ResolveProfile returns the camera profile for an identity. Resolution is
// pure classification; it never errors, Unknown is an ordinary result.
func ResolveProfile(id Identity) Profile {
	return profiles[id.Family]
}
