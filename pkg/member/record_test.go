package member

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumns_Schema(t *testing.T) {
	require.Len(t, Columns, 22)

	seen := make(map[string]bool)
	for _, c := range Columns {
		assert.False(t, seen[c], "duplicate column %q", c)
		seen[c] = true
	}
	assert.Equal(t, ColMemberID, Columns[0])
	assert.Equal(t, ColOrgSummary, Columns[len(Columns)-1])
}

func TestField_CoversStringColumns(t *testing.T) {
	var r Record
	for _, c := range Columns {
		p := r.Field(c)
		switch c {
		case ColMemberID, ColAge:
			assert.Nil(t, p, c)
		default:
			require.NotNil(t, p, c)
			*p = c
		}
	}
	assert.Equal(t, ColName, r.Name)
	assert.Equal(t, ColOrgSummary, r.OrganizationSummary)
	assert.Nil(t, r.Field("unknown"))
}

func TestApplyDefaults(t *testing.T) {
	r := Record{
		Name:     "Puan Maharani",
		District: "   ",
		IsCadre:  "1",
	}
	r.ApplyDefaults()

	assert.Equal(t, "Puan Maharani", r.Name)
	assert.Equal(t, "Fraksi tidak tersedia", r.Faction)
	assert.Equal(t, "Dapil tidak tersedia", r.District)
	assert.Equal(t, "1", r.IsCadre)
	assert.Equal(t, FlagDefault, r.IsCouncilMember)
	assert.Equal(t, NotAvailable, r.EducationSummary)
	assert.Empty(t, r.Missing())

	// Party is searchable but not required.
	assert.Empty(t, r.Party)
}

func TestApplyDefaults_BlankLiterals(t *testing.T) {
	r := Record{
		Name:      "Puan Maharani",
		Faction:   "nan",
		District:  " None ",
		Religion:  "NULL",
		IsCadre:   "nan",
		Education: "S1 Universitas Indonesia",
	}
	r.ApplyDefaults()

	assert.Equal(t, "Fraksi tidak tersedia", r.Faction)
	assert.Equal(t, "Dapil tidak tersedia", r.District)
	assert.Equal(t, "Agama tidak tersedia", r.Religion)
	assert.Equal(t, FlagDefault, r.IsCadre)
	assert.Equal(t, "S1 Universitas Indonesia", r.Education)
	assert.Empty(t, r.Missing())
}

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, IsPlaceholder("Organisasi tidak tersedia"))
	assert.True(t, IsPlaceholder(" tidak tersedia "))
	assert.False(t, IsPlaceholder(FlagDefault))
	assert.False(t, IsPlaceholder("Partai Golkar"))
	assert.False(t, IsPlaceholder(""))
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "Fraksi tidak tersedia", Placeholder(ColFaction))
	assert.Equal(t, FlagDefault, Placeholder(ColIsCadre))
	assert.Equal(t, NotAvailable, Placeholder(ColParty))
}

func TestRequiredFields_DistinctPlaceholders(t *testing.T) {
	seen := make(map[string]string)
	for _, f := range RequiredFields {
		if f.Placeholder == FlagDefault || f.Placeholder == NotAvailable {
			continue
		}
		if prev, ok := seen[f.Placeholder]; ok {
			t.Errorf("placeholder %q shared by %s and %s", f.Placeholder, prev, f.Column)
		}
		seen[f.Placeholder] = f.Column
	}
}

func TestMissing(t *testing.T) {
	r := Record{Name: "A"}
	missing := r.Missing()
	assert.NotContains(t, missing, ColName)
	assert.Contains(t, missing, ColFaction)
	assert.Len(t, missing, len(RequiredFields)-1)
}
