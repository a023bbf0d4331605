package extract

import (
	"regexp"
	"strings"
)

// junkSectionRe lists section values that mean the cascade latched onto
// something that is not a listing at all.
var junkSectionRe = regexp.MustCompile(`(?i)^(?:tickets?|buy\s+now|see\s+more|show\s+more|view\s+all|sold\s+out|best\s+seats?|lowest\s+price|filters?|sort\s+by)$`)

// validSection is the post-extraction sanity check. A nonsensical
// section (purely numeric junk, a known non-listing phrase, or too
// short to be a name) rejects the listing — unless a row was found
// independently, which is strong evidence the element really is a
// listing whose section merely parsed oddly.
func validSection(section, row string) bool {
	if row != "" {
		return true
	}
	s := strings.TrimSpace(section)
	if len(s) < 3 {
		return false
	}
	if allDigits(s) {
		return false
	}
	if junkSectionRe.MatchString(s) {
		return false
	}
	return true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
