// Package normalize derives display-quality fields from the noisy free text of the
// member source file. Every function is pure and returns a placeholder instead of
// failing on malformed input.
package normalize

import (
	"regexp"
	"strings"

	"github.com/hazyhaar/dpr-registry/pkg/member"
)

const (
	// MaxOrganizations is the number of list segments considered for the summary.
	MaxOrganizations = 3
	// MinOrganizationLen is the shortest trimmed segment kept as an organization.
	MinOrganizationLen = 6
	// FallbackLen caps the raw text returned when no structure was recognized.
	FallbackLen = 100
	// Ellipsis marks a truncated education fallback.
	Ellipsis = "..."
)

// IsBlank reports whether s carries no usable value.
func IsBlank(s string) bool {
	return member.IsBlank(s)
}

// noText reports whether s is blank or a placeholder left by a previous pass, so
// that a summary of a placeholder is the placeholder itself.
func noText(s string) bool {
	return member.IsBlank(s) || member.IsPlaceholder(s)
}

// educationLevel is one entry of the precedence table. Earlier entries win.
type educationLevel struct {
	token string
	re    *regexp.Regexp
}

// educationLevels is ordered from highest to lowest degree: S3 (doctorate) down to
// SD (elementary school). SMA and SMP are high school and middle school.
var educationLevels = compileLevels("S3", "S2", "S1", "DIPLOMA", "SMA", "SMP", "SD")

func compileLevels(tokens ...string) []educationLevel {
	levels := make([]educationLevel, 0, len(tokens))
	for _, tok := range tokens {
		levels = append(levels, educationLevel{
			token: tok,
			re:    regexp.MustCompile(regexp.QuoteMeta(tok) + `[,\s]*([^.]+)`),
		})
	}
	return levels
}

// Education summarizes a free-text education history as "LEVEL - INSTITUTION".
// The level is the first entry of the precedence table found anywhere in the text,
// not the first one to occur.
func Education(text string) string {
	if noText(text) {
		return member.NotAvailable
	}

	upper := strings.ToUpper(text)
	for _, lvl := range educationLevels {
		if !strings.Contains(upper, lvl.token) {
			continue
		}
		m := lvl.re.FindStringSubmatch(upper)
		if m == nil {
			return lvl.token
		}
		institution := strings.TrimSpace(m[1])
		if institution == "" {
			return lvl.token
		}
		return lvl.token + " - " + institution
	}

	return truncate(text, FallbackLen, Ellipsis)
}

var (
	// "1. Org A, 2. Org B" style enumerations.
	organizationSep  = regexp.MustCompile(`[,\d]+\.`)
	// "Sebagai: Ketua Tahun: 2010 - 2015", the end year may be missing.
	organizationRole = regexp.MustCompile(`(?:Sebagai|Role):.*?(?:Tahun|Year):.*?\d{4}\s*-\s*\d{0,4}`)
)

// Organizations keeps the names of the first few organizations of an enumerated
// history, without their role and period.
func Organizations(text string) string {
	if noText(text) {
		return member.NotAvailable
	}

	segments := organizationSep.Split(text, -1)
	if len(segments) > MaxOrganizations {
		segments = segments[:MaxOrganizations]
	}

	var kept []string
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if len([]rune(seg)) < MinOrganizationLen {
			continue
		}
		seg = strings.TrimSpace(organizationRole.ReplaceAllString(seg, ""))
		if seg != "" {
			kept = append(kept, seg)
		}
	}

	if len(kept) == 0 {
		return truncate(text, FallbackLen, "")
	}
	return strings.Join(kept, ", ")
}

// truncate cuts s to n runes and appends marker when something was cut.
func truncate(s string, n int, marker string) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + marker
}
