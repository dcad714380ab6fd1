// Package member defines the DPR member record, the fixed import schema and the
// placeholders substituted for missing required fields.
package member

// Column names of the target schema, shared by the source file and the store.
const (
	ColMemberID         = "anggota"
	ColPhotoURL         = "link_foto"
	ColProfileURL       = "link_profil"
	ColName             = "nama"
	ColFaction          = "fraksi"
	ColDistrict         = "dapil"
	ColCommittees       = "akd_clean"
	ColBirthInfo        = "ttl"
	ColReligion         = "agama"
	ColEducation        = "pendidikan"
	ColOccupation       = "pekerjaan"
	ColOrganizations    = "organisasi"
	ColBirthCity        = "kota_lahir"
	ColAge              = "usia"
	ColLastEducation    = "pendidikan_terakhir"
	ColIsCadre          = "is_kader"
	ColIsCouncilMember  = "is_dewan"
	ColAgeCategory      = "usia_kategori"
	ColPartyRank        = "rank_partai"
	ColParty            = "partai"
	ColEducationSummary = "pendidikan_clean"
	ColOrgSummary       = "organisasi_clean"
)

// Columns is the ordered 22-column schema every imported row is projected onto.
var Columns = []string{
	ColMemberID, ColPhotoURL, ColProfileURL, ColName, ColFaction, ColDistrict,
	ColCommittees, ColBirthInfo, ColReligion, ColEducation, ColOccupation, ColOrganizations,
	ColBirthCity, ColAge, ColLastEducation, ColIsCadre, ColIsCouncilMember,
	ColAgeCategory, ColPartyRank, ColParty, ColEducationSummary, ColOrgSummary,
}

// Record is one legislator as returned to callers.
type Record struct {
	MemberID            int64  `json:"member_id"`
	Name                string `json:"name"`
	Faction             string `json:"faction"`
	Party               string `json:"party"`
	District            string `json:"district"`
	CommitteeList       string `json:"committee_list"`
	BirthInfo           string `json:"birth_info"`
	BirthCity           string `json:"birth_city"`
	Age                 *int   `json:"age"`
	Religion            string `json:"religion"`
	Education           string `json:"education"`
	LastEducation       string `json:"last_education"`
	Occupation          string `json:"occupation"`
	OrganizationHistory string `json:"organization_history"`
	EducationSummary    string `json:"education_summary"`
	OrganizationSummary string `json:"organization_summary"`
	IsCadre             string `json:"is_cadre"`
	IsCouncilMember     string `json:"is_council_member"`
	AgeCategory         string `json:"age_category"`
	PartyRank           string `json:"party_rank"`
	PhotoURL            string `json:"photo_url"`
	ProfileURL          string `json:"profile_url"`
}

// Field returns a pointer to the string field stored under column, or nil for
// the numeric columns and unknown names.
func (r *Record) Field(column string) *string {
	switch column {
	case ColPhotoURL:
		return &r.PhotoURL
	case ColProfileURL:
		return &r.ProfileURL
	case ColName:
		return &r.Name
	case ColFaction:
		return &r.Faction
	case ColDistrict:
		return &r.District
	case ColCommittees:
		return &r.CommitteeList
	case ColBirthInfo:
		return &r.BirthInfo
	case ColReligion:
		return &r.Religion
	case ColEducation:
		return &r.Education
	case ColOccupation:
		return &r.Occupation
	case ColOrganizations:
		return &r.OrganizationHistory
	case ColBirthCity:
		return &r.BirthCity
	case ColLastEducation:
		return &r.LastEducation
	case ColIsCadre:
		return &r.IsCadre
	case ColIsCouncilMember:
		return &r.IsCouncilMember
	case ColAgeCategory:
		return &r.AgeCategory
	case ColPartyRank:
		return &r.PartyRank
	case ColParty:
		return &r.Party
	case ColEducationSummary:
		return &r.EducationSummary
	case ColOrgSummary:
		return &r.OrganizationSummary
	}
	return nil
}
