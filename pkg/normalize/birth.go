package normalize

import (
	"strings"
	"time"

	"github.com/hazyhaar/dpr-registry/pkg/member"
)

// birthSep separates the place from the date in "Jakarta / 17 Agustus 1990".
const birthSep = "/"

// Age bounds, both exclusive.
const (
	minAge = 0
	maxAge = 100
)

// birthDateLayouts are tried in order; the first layout that parses wins.
var birthDateLayouts = []string{
	"2 January 2006",
	"2 Jan 2006",
	"2-1-2006",
	"2/1/2006",
}

// indonesianMonths maps Indonesian month names and abbreviations to the English
// forms understood by time.Parse.
var indonesianMonths = map[string]string{
	"januari":  "January",
	"februari": "February",
	"pebruari": "February",
	"peb":      "Feb",
	"maret":    "March",
	"mei":      "May",
	"juni":     "June",
	"juli":     "July",
	"agustus":  "August",
	"agu":      "Aug",
	"agt":      "Aug",
	"ags":      "Aug",
	"oktober":  "October",
	"okt":      "Oct",
	"nopember": "November",
	"nop":      "Nov",
	"desember": "December",
	"des":      "Dec",
}

// BirthCity returns the place part of a "place / date" field. Input without a
// separator is returned unchanged.
func BirthCity(birthInfo string) string {
	if noText(birthInfo) {
		return member.NotAvailable
	}
	place, _, found := strings.Cut(birthInfo, birthSep)
	if !found {
		return birthInfo
	}
	if place = strings.TrimSpace(place); place == "" {
		return member.NotAvailable
	}
	return place
}

// Age computes the age in years at now from the date after the last separator of
// a "place / date" field. It reports false when the date is absent or unparseable,
// or when the age falls outside (0, 100).
func Age(birthInfo string, now time.Time) (int, bool) {
	if noText(birthInfo) {
		return 0, false
	}
	i := strings.LastIndex(birthInfo, birthSep)
	if i < 0 {
		return 0, false
	}

	born, ok := parseBirthDate(strings.TrimSpace(birthInfo[i+len(birthSep):]))
	if !ok {
		return 0, false
	}
	age := now.Year() - born.Year()
	if age <= minAge || age >= maxAge {
		return 0, false
	}
	return age, true
}

func parseBirthDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	s = englishMonths(s)
	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// englishMonths rewrites Indonesian month words; other words are kept as-is.
func englishMonths(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		if en, ok := indonesianMonths[strings.ToLower(f)]; ok {
			fields[i] = en
		}
	}
	return strings.Join(fields, " ")
}
