package importer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hazyhaar/dpr-registry/pkg/member"
	"github.com/hazyhaar/dpr-registry/pkg/normalize"
)

const (
	// identifierColumn is the capitalized identifier header of the published export.
	identifierColumn = "Anggota"
	// birthCityColumn is the camel-case birth city header some exports carry.
	birthCityColumn = "kotaLahir"
	// unnamedMarker marks index columns written by spreadsheet and dataframe tools.
	unnamedMarker = "Unnamed"
)

// Drop reasons.
const (
	ReasonBadIdentifier = "identifier is not numeric"
	ReasonDuplicate     = "duplicate identifier"
)

// missingValues are the cell values the export tools write for an absent value.
var missingValues = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true,
	"-1.#QNAN": true, "-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true,
	"<NA>": true, "N/A": true, "NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true,
}

// Drop is a source row left out of the import.
type Drop struct {
	Row    int    `json:"row"` // 1-based, header excluded
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// Cleaned is the outcome of Clean.
type Cleaned struct {
	Records []member.Record
	Dropped []Drop
}

type column struct {
	name  string
	index int
}

// Clean turns the raw source table into member records:
//
//  1. header names are trimmed and unlabeled index columns dropped;
//  2. absent cells become "";
//  3. quotes and surrounding blanks are stripped from the name;
//  4. the education and organization summaries, the birth city (unless a kotaLahir
//     column is present, which is renamed) and the age (unless a usia column is
//     present) are derived;
//  5. the identifier (Anggota, or anggota) is coerced to an integer and rows where
//     that fails are dropped;
//  6. the fixed column schema is projected.
//
// Rows repeating an identifier already seen are dropped too. The display fields of
// every kept record are then derived. Absent columns stay "": placeholders are
// applied when a record is read, never stored, so they cannot match a search.
func Clean(t *Table, now time.Time) (*Cleaned, error) {
	var cols []column
	present := make(map[string]bool)
	for i, h := range t.Header {
		h = strings.TrimSpace(h)
		if h == "" || strings.Contains(h, unnamedMarker) || present[h] {
			continue
		}
		cols = append(cols, column{name: h, index: i})
		present[h] = true
	}

	idCol := identifierColumn
	if !present[idCol] {
		idCol = member.ColMemberID
		if !present[idCol] {
			return nil, ErrNoIdentifier
		}
	}

	out := &Cleaned{Records: make([]member.Record, 0, len(t.Rows))}
	seen := make(map[int64]bool, len(t.Rows))

	for n, raw := range t.Rows {
		row := make(map[string]string, len(cols)+4)
		for _, c := range cols {
			v := ""
			if c.index < len(raw) {
				v = raw[c.index]
			}
			if missingValues[v] {
				v = ""
			}
			row[c.name] = v
		}

		if present[member.ColName] {
			row[member.ColName] = strings.TrimSpace(strings.ReplaceAll(row[member.ColName], `"`, ""))
		}

		if present[member.ColEducation] {
			row[member.ColEducationSummary] = normalize.Education(row[member.ColEducation])
		}
		if present[member.ColOrganizations] {
			row[member.ColOrgSummary] = normalize.Organizations(row[member.ColOrganizations])
		}
		switch {
		case present[birthCityColumn]:
			row[member.ColBirthCity] = row[birthCityColumn]
		case present[member.ColBirthInfo]:
			row[member.ColBirthCity] = normalize.BirthCity(row[member.ColBirthInfo])
		}

		var age *int
		switch {
		case present[member.ColAge]:
			if v, ok := parseInteger(row[member.ColAge]); ok {
				a := int(v)
				age = &a
			}
		case present[member.ColBirthInfo]:
			if a, ok := normalize.Age(row[member.ColBirthInfo], now); ok {
				age = &a
			}
		}

		id, ok := parseInteger(row[idCol])
		if !ok {
			out.Dropped = append(out.Dropped, Drop{Row: n + 1, Value: row[idCol], Reason: ReasonBadIdentifier})
			continue
		}
		if seen[id] {
			out.Dropped = append(out.Dropped, Drop{Row: n + 1, Value: row[idCol], Reason: ReasonDuplicate})
			continue
		}
		seen[id] = true

		rec := member.Record{MemberID: id, Age: age}
		for _, col := range member.Columns {
			if p := rec.Field(col); p != nil {
				*p = row[col]
			}
		}
		normalize.Derive(&rec, now)
		out.Records = append(out.Records, rec)
	}
	return out, nil
}

// parseInteger accepts "42", " 42 " and integral floats such as "42.0".
func parseInteger(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
