package clip

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Timecode is the frame position parsed from a still filename.
type Timecode struct {
	Hour   int
	Minute int
	Second int
	Frame  int
}

// Key renders the timecode in the HH_MM_SS_FF form used to index per-frame logs.
func (t Timecode) Key() string {
	return fmt.Sprintf("%02d_%02d_%02d_%02d", t.Hour, t.Minute, t.Second, t.Frame)
}

// String renders the timecode in the colon-separated display form.
func (t Timecode) String() string {
	return fmt.Sprintf("%02d:%02d:%02d:%02d", t.Hour, t.Minute, t.Second, t.Frame)
}

// Identity is the immutable identity of one captured frame, parsed from its
// filename. Expected filename form: CLIPNAME-HH_MM_SS_FF.tiff.
type Identity struct {
	Name     string
	Timecode Timecode
	Family   Family
}

var timecodePattern = regexp.MustCompile(`^(\d{2})_(\d{2})_(\d{2})_(\d{2})$`)

// ErrNotRecognized marks a filename that does not carry a clip identity.
// Such files are skipped and reported, never fatal to a run.
var ErrNotRecognized = errors.New("filename not recognized")

// maxFrame bounds the frame field. Productions up to 60fps fit; the per-frame
// log is the authority for the actual rate.
const maxFrame = 59

// ParseIdentity extracts the clip identity from a still file path. The path
// may be absolute; only the base name is inspected.
func ParseIdentity(path string) (Identity, error) {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	name, tcPart, found := strings.Cut(base, "-")
	if !found || name == "" {
		return Identity{}, fmt.Errorf("%w: %q: expected CLIPNAME-HH_MM_SS_FF", ErrNotRecognized, base)
	}

	match := timecodePattern.FindStringSubmatch(tcPart)
	if match == nil {
		return Identity{}, fmt.Errorf("%w: %q: bad timecode %q", ErrNotRecognized, base, tcPart)
	}

	tc := Timecode{
		Hour:   mustAtoi(match[1]),
		Minute: mustAtoi(match[2]),
		Second: mustAtoi(match[3]),
		Frame:  mustAtoi(match[4]),
	}
	if err := tc.validate(); err != nil {
		return Identity{}, fmt.Errorf("filename %q: %w", base, err)
	}

	return Identity{
		Name:     name,
		Timecode: tc,
		Family:   Classify(name),
	}, nil
}

func (t Timecode) validate() error {
	switch {
	case t.Hour > 23:
		return fmt.Errorf("timecode hour %d out of range", t.Hour)
	case t.Minute > 59:
		return fmt.Errorf("timecode minute %d out of range", t.Minute)
	case t.Second > 59:
		return fmt.Errorf("timecode second %d out of range", t.Second)
	case t.Frame > maxFrame:
		return fmt.Errorf("timecode frame %d out of range", t.Frame)
	}
	return nil
}

func mustAtoi(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
