package importer

import (
	"testing"
	"time"

	"github.com/hazyhaar/dpr-registry/pkg/member"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refNow = time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

func sampleTable() *Table {
	return &Table{
		Header: []string{"Unnamed: 0", " Anggota ", "nama", "fraksi", "ttl", "pendidikan", "organisasi", "akd_clean", ""},
		Rows: [][]string{
			{"0", "101", ` "Budi Santoso" `, "PDIP", "Jakarta / 17 Agustus 1990", "S2, Universitas Indonesia.", "1. Partai Golongan Karya,2. Kosgoro 1957", "['Komisi I','Badan Anggaran']", "x"},
			{"1", "abc", "Bad Id", "PKB", "", "", "", "", ""},
			{"2", "103.0", "Citra Dewi", "Gerindra", "Medan / 1 Jan 1980", "SMA Negeri 1.", "", "", ""},
			{"3", "", "No Id", "PKB", "", "", "", "", ""},
			{"4", "101", "Budi Again", "PDIP", "", "", "", "", ""},
			{"5", "104", "Short Row"},
			{"6", "nan", "Nan Id", "PKB", "", "", "", "", ""},
		},
	}
}

func TestClean_DropsExactlyMalformedIdentifiers(t *testing.T) {
	out, err := Clean(sampleTable(), refNow)
	require.NoError(t, err)

	var ids []int64
	for _, r := range out.Records {
		ids = append(ids, r.MemberID)
	}
	assert.Equal(t, []int64{101, 103, 104}, ids)
	assert.Equal(t, []Drop{
		{Row: 2, Value: "abc", Reason: ReasonBadIdentifier},
		{Row: 4, Value: "", Reason: ReasonBadIdentifier},
		{Row: 5, Value: "101", Reason: ReasonDuplicate},
		{Row: 7, Value: "", Reason: ReasonBadIdentifier},
	}, out.Dropped)
}

func TestClean_DerivesFields(t *testing.T) {
	out, err := Clean(sampleTable(), refNow)
	require.NoError(t, err)
	require.Len(t, out.Records, 3)

	budi := out.Records[0]
	assert.Equal(t, "Budi Santoso", budi.Name)
	assert.Equal(t, "Jakarta", budi.BirthCity)
	require.NotNil(t, budi.Age)
	assert.Equal(t, 35, *budi.Age)
	assert.Equal(t, "S2 - UNIVERSITAS INDONESIA", budi.EducationSummary)
	assert.Equal(t, "Partai Golongan Karya, Kosgoro 1957", budi.OrganizationSummary)
	assert.Equal(t, "Komisi I, Badan Anggaran", budi.CommitteeList)

	citra := out.Records[1]
	assert.Equal(t, "SMA - NEGERI 1", citra.EducationSummary)
	require.NotNil(t, citra.Age)
	assert.Equal(t, 45, *citra.Age)
}

func TestClean_StoresNoPlaceholders(t *testing.T) {
	out, err := Clean(sampleTable(), refNow)
	require.NoError(t, err)

	short := out.Records[2]
	assert.Equal(t, "Short Row", short.Name)
	assert.Empty(t, short.Faction)
	assert.Empty(t, short.District)
	assert.Empty(t, short.OrganizationHistory)
	assert.Empty(t, short.IsCouncilMember)
	assert.Empty(t, short.Party)
	assert.Nil(t, short.Age)

	// Display fields are derived even from absent input.
	assert.Equal(t, member.NotAvailable, short.OrganizationSummary)
	assert.Equal(t, member.NotAvailable, short.BirthCity)

	for _, r := range out.Records {
		for _, col := range member.Columns {
			if p := r.Field(col); p != nil && col != member.ColEducationSummary &&
				col != member.ColOrgSummary && col != member.ColBirthCity {
				assert.False(t, member.IsPlaceholder(*p), "record %d %s = %q", r.MemberID, col, *p)
			}
		}
	}
}

func TestClean_LowercaseIdentifierAndExistingColumns(t *testing.T) {
	tbl := &Table{
		Header: []string{"anggota", "nama", "ttl", "kotaLahir", "usia"},
		Rows: [][]string{
			{"7", "Eka", "Bandung / 2 Mei 1970", "Kota Bandung", "54"},
			{"8", "Fajar", "Bogor / 3 Juni 1975", "", "50.0"},
			{"9", "Gita", "", "Depok", "unknown"},
		},
	}
	out, err := Clean(tbl, refNow)
	require.NoError(t, err)
	require.Len(t, out.Records, 3)

	assert.Equal(t, "Kota Bandung", out.Records[0].BirthCity, "kotaLahir is renamed, not derived")
	require.NotNil(t, out.Records[0].Age)
	assert.Equal(t, 54, *out.Records[0].Age, "usia column is kept, not recomputed")

	require.NotNil(t, out.Records[1].Age)
	assert.Equal(t, 50, *out.Records[1].Age)

	assert.Equal(t, "Depok", out.Records[2].BirthCity)
	assert.Nil(t, out.Records[2].Age)
}

func TestClean_NoIdentifier(t *testing.T) {
	_, err := Clean(&Table{Header: []string{"nama"}, Rows: [][]string{{"Budi"}}}, refNow)
	assert.ErrorIs(t, err, ErrNoIdentifier)
}

func TestClean_ProjectsSchemaOnly(t *testing.T) {
	tbl := &Table{
		Header: []string{"anggota", "nama", "hobi"},
		Rows:   [][]string{{"1", "Budi", "catur"}},
	}
	out, err := Clean(tbl, refNow)
	require.NoError(t, err)
	require.Len(t, out.Records, 1)
	for _, col := range member.Columns {
		if p := out.Records[0].Field(col); p != nil {
			assert.NotEqual(t, "catur", *p, col)
		}
	}
}

func TestParseInteger(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"42", 42, true},
		{" 42 ", 42, true},
		{"42.0", 42, true},
		{"-3", -3, true},
		{"42.5", 0, false},
		{"abc", 0, false},
		{"", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseInteger(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseInteger(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
