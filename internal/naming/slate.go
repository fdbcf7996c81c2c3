package naming

import (
	"strings"
	"unicode"
)

// TransformSlate rewrites a scripty slate value into the deliverable form:
// the leading character is dropped, P-Z letters are stripped, digits move to
// the front with preceding letters appended and trailing letters hyphenated.
// "143A" becomes "43-A", "1A43B" becomes "43A-B".
func TransformSlate(slate string) string {
	slate = strings.TrimSpace(slate)
	if len(slate) <= 1 {
		return ""
	}
	slate = slate[1:]

	var cleaned []rune
	for _, r := range slate {
		upper := unicode.ToUpper(r)
		if upper >= 'P' && upper <= 'Z' {
			continue
		}
		cleaned = append(cleaned, r)
	}
	if len(cleaned) == 0 {
		return ""
	}

	firstDigit := -1
	for i, r := range cleaned {
		if unicode.IsDigit(r) {
			firstDigit = i
			break
		}
	}
	if firstDigit == -1 {
		return string(cleaned)
	}

	lastDigit := firstDigit
	for i := firstDigit; i < len(cleaned) && unicode.IsDigit(cleaned[i]); i++ {
		lastDigit = i
	}

	digits := string(cleaned[firstDigit : lastDigit+1])
	before := string(cleaned[:firstDigit])
	after := string(cleaned[lastDigit+1:])

	result := digits + before
	if after != "" {
		result += "-" + after
	}
	return result
}
