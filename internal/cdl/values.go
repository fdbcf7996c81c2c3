package cdl

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Values holds one ASC CDL grade: slope, offset and power per channel plus a
// single saturation. Values are immutable once resolved; replacing a clip's
// grade means inserting a new cache entry, never mutating an existing one.
type Values struct {
	Slope      [3]float64
	Offset     [3]float64
	Power      [3]float64
	Saturation float64
}

// Identity returns the no-op grade used when a clip has no usable CDL.
func Identity() Values {
	return Values{
		Slope:      [3]float64{1, 1, 1},
		Offset:     [3]float64{0, 0, 0},
		Power:      [3]float64{1, 1, 1},
		Saturation: 1,
	}
}

// IsIdentity reports whether the grade would leave pixels untouched.
func (v Values) IsIdentity() bool {
	return v == Identity()
}

// ascSOPPattern matches the lab convention "(s s s)(o o o)(p p p)".
var ascSOPPattern = regexp.MustCompile(`\(([^)]+)\)\s*\(([^)]+)\)\s*\(([^)]+)\)`)

// Parse builds Values from the ALE ASC_SOP and ASC_SAT column contents.
func Parse(ascSOP, ascSAT string) (Values, error) {
	match := ascSOPPattern.FindStringSubmatch(strings.TrimSpace(ascSOP))
	if match == nil {
		return Values{}, fmt.Errorf("cdl: malformed ASC_SOP %q", ascSOP)
	}

	var v Values
	channels := []struct {
		name string
		dst  *[3]float64
	}{
		{"slope", &v.Slope},
		{"offset", &v.Offset},
		{"power", &v.Power},
	}
	for i, channel := range channels {
		parts := strings.Fields(match[i+1])
		if len(parts) != 3 {
			return Values{}, fmt.Errorf("cdl: %s needs 3 components, got %d", channel.name, len(parts))
		}
		for j, part := range parts {
			value, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return Values{}, fmt.Errorf("cdl: non-numeric %s component %q", channel.name, part)
			}
			channel.dst[j] = value
		}
	}

	sat, err := strconv.ParseFloat(strings.TrimSpace(ascSAT), 64)
	if err != nil {
		return Values{}, fmt.Errorf("cdl: non-numeric ASC_SAT %q", ascSAT)
	}
	v.Saturation = sat

	if err := v.Validate(); err != nil {
		return Values{}, err
	}
	return v, nil
}

// Validate rejects grades that no sane lab would issue.
func (v Values) Validate() error {
	check := func(name string, values [3]float64) error {
		for _, value := range values {
			if math.IsNaN(value) || math.IsInf(value, 0) {
				return fmt.Errorf("cdl: non-finite %s value", name)
			}
		}
		return nil
	}
	if err := check("slope", v.Slope); err != nil {
		return err
	}
	if err := check("offset", v.Offset); err != nil {
		return err
	}
	if err := check("power", v.Power); err != nil {
		return err
	}
	for _, s := range v.Slope {
		if s < 0 {
			return fmt.Errorf("cdl: negative slope %v", s)
		}
	}
	for _, p := range v.Power {
		if p <= 0 {
			return fmt.Errorf("cdl: non-positive power %v", p)
		}
	}
	if math.IsNaN(v.Saturation) || math.IsInf(v.Saturation, 0) || v.Saturation < 0 {
		return fmt.Errorf("cdl: invalid saturation %v", v.Saturation)
	}
	return nil
}

func formatTriplet(values [3]float64) string {
	parts := make([]string, 3)
	for i, value := range values {
		parts[i] = strconv.FormatFloat(value, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

// String renders the grade in the ALE column convention.
func (v Values) String() string {
	return fmt.Sprintf("(%s)(%s)(%s) sat=%s",
		formatTriplet(v.Slope),
		formatTriplet(v.Offset),
		formatTriplet(v.Power),
		strconv.FormatFloat(v.Saturation, 'g', -1, 64))
}
