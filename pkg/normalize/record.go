package normalize

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/hazyhaar/dpr-registry/pkg/member"
)

// committeeJunk are the list-literal characters left in the committee column.
const committeeJunk = `[]'"`

// Committees turns "['Komisi I','Badan Anggaran']" into "Komisi I, Badan Anggaran".
func Committees(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text) + 8)
	for i, r := range text {
		if strings.ContainsRune(committeeJunk, r) {
			continue
		}
		b.WriteRune(r)
		if r != ',' {
			continue
		}
		next, _ := utf8.DecodeRuneInString(nextKept(text[i+1:]))
		if next != utf8.RuneError && !unicode.IsSpace(next) {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// nextKept skips the junk characters that will be dropped after a comma.
func nextKept(s string) string {
	return strings.TrimLeft(s, committeeJunk)
}

// Derive fills the display fields of r from its raw columns. Stored derivations
// are trusted unless blank, except the organization summary which is always
// recomputed from the raw history. Raw columns are left as they are.
func Derive(r *member.Record, now time.Time) {
	r.OrganizationSummary = Organizations(r.OrganizationHistory)

	if noText(r.EducationSummary) {
		r.EducationSummary = Education(r.Education)
	}
	if noText(r.BirthCity) {
		r.BirthCity = BirthCity(r.BirthInfo)
	}
	if r.Age == nil || *r.Age <= minAge || *r.Age >= maxAge {
		r.Age = nil
		if age, ok := Age(r.BirthInfo, now); ok {
			r.Age = &age
		}
	}
	r.CommitteeList = Committees(r.CommitteeList)
}

// Record derives the display fields of r and fills every required field, so that a
// caller never sees an empty value.
func Record(r *member.Record, now time.Time) {
	Derive(r, now)
	r.ApplyDefaults()
}
