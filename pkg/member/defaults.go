package member

import "strings"

// NotAvailable is the generic placeholder for free-text values that could not be derived.
const NotAvailable = "Tidak tersedia"

// FlagDefault is the value of an absent boolean flag column.
const FlagDefault = "0"

// RequiredField pairs a column that must never reach a caller empty with its placeholder.
type RequiredField struct {
	Column      string
	Placeholder string
}

// RequiredFields lists the columns guaranteed to be non-empty on every returned record.
var RequiredFields = []RequiredField{
	{ColName, "Nama tidak tersedia"},
	{ColFaction, "Fraksi tidak tersedia"},
	{ColDistrict, "Dapil tidak tersedia"},
	{ColCommittees, "AKD tidak tersedia"},
	{ColBirthInfo, "TTL tidak tersedia"},
	{ColReligion, "Agama tidak tersedia"},
	{ColBirthCity, "Kota lahir tidak tersedia"},
	{ColAgeCategory, "Kategori usia tidak tersedia"},
	{ColIsCadre, FlagDefault},
	{ColIsCouncilMember, FlagDefault},
	{ColEducation, "Pendidikan tidak tersedia"},
	{ColOccupation, "Pekerjaan tidak tersedia"},
	{ColOrganizations, "Organisasi tidak tersedia"},
	{ColEducationSummary, NotAvailable},
	{ColOrgSummary, NotAvailable},
}

// blankLiterals are values left behind by spreadsheet exports that mean "no value".
var blankLiterals = []string{"nan", "none", "null"}

// IsBlank reports whether s carries no usable value: empty, whitespace only, or
// one of the nan/None/null literals in any case.
func IsBlank(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	for _, lit := range blankLiterals {
		if strings.EqualFold(s, lit) {
			return true
		}
	}
	return false
}

// IsPlaceholder reports whether s is one of the text placeholders written by
// ApplyDefaults. The flag default "0" is a real value and never matches.
func IsPlaceholder(s string) bool {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, NotAvailable) {
		return true
	}
	for _, f := range RequiredFields {
		if f.Placeholder != FlagDefault && strings.EqualFold(s, f.Placeholder) {
			return true
		}
	}
	return false
}

// Placeholder returns the value shown for a blank column: its required-field
// placeholder, or NotAvailable for optional columns.
func Placeholder(column string) string {
	for _, f := range RequiredFields {
		if f.Column == column {
			return f.Placeholder
		}
	}
	return NotAvailable
}

// ApplyDefaults replaces every blank required field with its placeholder.
func (r *Record) ApplyDefaults() {
	for _, f := range RequiredFields {
		p := r.Field(f.Column)
		if IsBlank(*p) {
			*p = f.Placeholder
		}
	}
}

// Missing returns the required columns that are still blank.
func (r *Record) Missing() []string {
	var missing []string
	for _, f := range RequiredFields {
		if IsBlank(*r.Field(f.Column)) {
			missing = append(missing, f.Column)
		}
	}
	return missing
}
