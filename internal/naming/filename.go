package naming

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"stillgen/internal/clip"
	"stillgen/internal/metadata"
)

var (
	nonDigits     = regexp.MustCompile(`[^\d]`)
	separatorRuns = regexp.MustCompile(`[-_]{2,}`)
)

// OutputName derives the destination stem for one frame from its merged
// metadata: episode-slate-take-camera_date_day_unit_look_tcsuffix, with
// empty segments collapsed. The identity timecode backstops a frame log
// without one, keeping names deterministic.
func OutputName(record metadata.Fields, tc clip.Timecode) string {
	episode := record.Value("", "Episode")
	slate := TransformSlate(record.Value("", "Slate"))
	take := record.Value("", "Take")
	camera := record.Value("", "Camera")

	date := formatShootDate(record.Value("", "Shoot Date", "Shooting Date"))
	day := record.Value("", "Shooting Day", "Shoot day", "Shoot Day")
	unit := record.Value("", "Crew Unit")
	look := record.Value("", "Look Name")

	suffix := timecodeSuffix(record.Value("", "Timecode"), tc)

	name := fmt.Sprintf("%s-%s-%s-%s_%s_%s_%s_%s_%s",
		episode, slate, take, camera, date, day, unit, look, suffix)

	name = strings.ReplaceAll(name, "/", "")
	name = strings.ReplaceAll(name, ":", "")
	// Empty segments leave separator runs behind; a run collapses to its
	// last separator so field boundaries survive.
	name = separatorRuns.ReplaceAllStringFunc(name, func(run string) string {
		return run[len(run)-1:]
	})
	name = strings.Trim(name, "-_")

	if name == "" {
		name = "still_" + suffix
	}
	return name
}

// formatShootDate canonicalizes dates to YYYYMMDD; unparseable values keep
// their digits only.
func formatShootDate(date string) string {
	if date == "" || date == "N/A" {
		return ""
	}
	if parsed, err := time.Parse("2006-01-02", date); err == nil {
		return parsed.Format("20060102")
	}
	return nonDigits.ReplaceAllString(date, "")
}

// timecodeSuffix takes the seconds and frames of the frame log timecode,
// falling back to the identity parsed from the filename.
func timecodeSuffix(logTimecode string, tc clip.Timecode) string {
	if len(logTimecode) >= 5 {
		tail := logTimecode[len(logTimecode)-5:]
		tail = strings.NewReplacer(":", "", "/", "", "_", "").Replace(tail)
		if tail != "" {
			return tail
		}
	}
	return fmt.Sprintf("%02d%02d", tc.Second, tc.Frame)
}
