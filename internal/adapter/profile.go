package adapter

import (
	"github.com/jexpert/profile-enrichment/internal/domain"
	"github.com/jexpert/profile-enrichment/internal/orgsvc"
)

// profileFieldMapping is one row of the declarative raw→canonical mapping
// table for profiles (§4.3). present reports whether the upstream payload
// carried a usable value for this field; apply copies it onto the
// canonical profile. Essential rows whose present() is false accumulate
// into an IncompleteDataError rather than being silently skipped.
type profileFieldMapping struct {
	canonicalPath string
	essential     bool
	present       func(raw map[string]interface{}) bool
	apply         func(p *domain.Profile, raw map[string]interface{})
}

func nonEmpty(raw map[string]interface{}, key string) bool {
	return rawGetString(raw, key) != ""
}

var profileMappingTable = []profileFieldMapping{
	{
		canonicalPath: "external_profile_id",
		essential:     true,
		present:       func(raw map[string]interface{}) bool { return nonEmpty(raw, "id") },
		apply:         func(p *domain.Profile, raw map[string]interface{}) { p.ExternalProfileID = rawGetString(raw, "id") },
	},
	{
		canonicalPath: "url",
		essential:     true,
		present: func(raw map[string]interface{}) bool {
			return nonEmpty(raw, "url") || nonEmpty(raw, "profile_url") || nonEmpty(raw, "linkedin_url")
		},
		apply: func(p *domain.Profile, raw map[string]interface{}) {
			for _, key := range []string{"url", "profile_url", "linkedin_url"} {
				if v := rawGetString(raw, key); v != "" {
					p.URL = v
					return
				}
			}
		},
	},
	{
		canonicalPath: "full_name",
		essential:     true,
		present: func(raw map[string]interface{}) bool {
			return nonEmpty(raw, "full_name") || (nonEmpty(raw, "first_name") && nonEmpty(raw, "last_name"))
		},
		apply: func(p *domain.Profile, raw map[string]interface{}) {
			if name := rawGetString(raw, "full_name"); name != "" {
				p.FullName = name
				return
			}
			p.FullName = rawGetString(raw, "first_name") + " " + rawGetString(raw, "last_name")
		},
	},
	{canonicalPath: "public_handle", apply: func(p *domain.Profile, raw map[string]interface{}) { p.PublicHandle = rawGetString(raw, "public_identifier") }},
	{canonicalPath: "urn", apply: func(p *domain.Profile, raw map[string]interface{}) { p.URN = rawGetString(raw, "urn") }},
	{canonicalPath: "first_name", apply: func(p *domain.Profile, raw map[string]interface{}) { p.FirstName = rawGetString(raw, "first_name") }},
	{canonicalPath: "last_name", apply: func(p *domain.Profile, raw map[string]interface{}) { p.LastName = rawGetString(raw, "last_name") }},
	{canonicalPath: "headline", apply: func(p *domain.Profile, raw map[string]interface{}) { p.Headline = rawGetString(raw, "headline") }},
	{canonicalPath: "about", apply: func(p *domain.Profile, raw map[string]interface{}) { p.About = rawGetString(raw, "about") }},
	{canonicalPath: "image_url", apply: func(p *domain.Profile, raw map[string]interface{}) { p.ImageURL = rawGetString(raw, "profile_pic_url") }},
	{canonicalPath: "city", apply: func(p *domain.Profile, raw map[string]interface{}) { p.City = rawGetString(raw, "city") }},
	{canonicalPath: "state", apply: func(p *domain.Profile, raw map[string]interface{}) { p.State = rawGetString(raw, "state") }},
	{canonicalPath: "country", apply: func(p *domain.Profile, raw map[string]interface{}) { p.Country = rawGetString(raw, "country") }},
	{canonicalPath: "location", apply: func(p *domain.Profile, raw map[string]interface{}) { p.Location = rawGetString(raw, "location") }},
	{canonicalPath: "email", apply: func(p *domain.Profile, raw map[string]interface{}) { p.Email = rawGetString(raw, "email") }},
	{canonicalPath: "phone", apply: func(p *domain.Profile, raw map[string]interface{}) { p.Phone = rawGetString(raw, "phone") }},
	{canonicalPath: "certifications", apply: func(p *domain.Profile, raw map[string]interface{}) { p.Certifications = rawGetStringSlice(raw, "certifications") }},
	{canonicalPath: "languages", apply: func(p *domain.Profile, raw map[string]interface{}) { p.Languages = rawGetStringSlice(raw, "languages") }},
	{canonicalPath: "follower_count", apply: func(p *domain.Profile, raw map[string]interface{}) {
		if v := rawGetInt(raw, "follower_count"); v != nil {
			p.FollowerCount = *v
		}
	}},
	{canonicalPath: "connection_count", apply: func(p *domain.Profile, raw map[string]interface{}) {
		if v := rawGetInt(raw, "connection_count"); v != nil {
			p.ConnectionCount = *v
		}
	}},
	{canonicalPath: "premium", apply: func(p *domain.Profile, raw map[string]interface{}) { p.Premium = rawGetBool(raw, "premium") }},
	{canonicalPath: "creator", apply: func(p *domain.Profile, raw map[string]interface{}) { p.Creator = rawGetBool(raw, "creator") }},
	{canonicalPath: "influencer", apply: func(p *domain.Profile, raw map[string]interface{}) { p.Influencer = rawGetBool(raw, "influencer") }},
	{canonicalPath: "verified", apply: func(p *domain.Profile, raw map[string]interface{}) { p.Verified = rawGetBool(raw, "verified") }},
	{canonicalPath: "experiences", apply: func(p *domain.Profile, raw map[string]interface{}) { p.Experiences = mapExperiences(raw) }},
	{canonicalPath: "educations", apply: func(p *domain.Profile, raw map[string]interface{}) { p.Educations = mapEducations(raw) }},
	{canonicalPath: "current_employment", apply: func(p *domain.Profile, raw map[string]interface{}) { p.CurrentEmployment = mapCurrentEmployment(raw) }},
}

// ToProfile maps a raw workflow payload onto a Canonical Profile (§4.3).
// Ordering of experiences/educations is preserved exactly as given by the
// upstream payload — most-recent-first — per §4.3 "Ordering guarantees".
func ToProfile(raw map[string]interface{}) (*domain.Profile, error) {
	var missing []string
	for _, m := range profileMappingTable {
		if m.essential && m.present != nil && !m.present(raw) {
			missing = append(missing, m.canonicalPath)
		}
	}
	if len(missing) > 0 {
		return nil, &IncompleteDataError{Entity: "profile", MissingFields: missing}
	}

	p := domain.NewProfile()
	for _, m := range profileMappingTable {
		m.apply(p, raw)
	}
	if p.URL != "" {
		p.URL = orgsvc.NormalizeURL(p.URL)
	}
	return p, nil
}

func mapExperiences(raw map[string]interface{}) []domain.Experience {
	entries := rawGetMapSlice(raw, "experiences")
	out := make([]domain.Experience, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.Experience{
			Title:            rawGetString(e, "title"),
			OrganizationName: rawGetString(e, "company_name"),
			OrganizationURL:  rawGetString(e, "company_url"),
			Location:         rawGetString(e, "location"),
			StartMonth:       rawGetInt(e, "start_month"),
			StartYear:        rawGetInt(e, "start_year"),
			EndMonth:         rawGetInt(e, "end_month"),
			EndYear:          rawGetInt(e, "end_year"),
			IsCurrent:        rawGetBool(e, "is_current"),
			JobType:          rawGetString(e, "job_type"),
			Skills:           rawGetStringSlice(e, "skills"),
			Description:      rawGetString(e, "description"),
		})
	}
	return out
}

func mapEducations(raw map[string]interface{}) []domain.Education {
	entries := rawGetMapSlice(raw, "educations")
	out := make([]domain.Education, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.Education{
			School:       rawGetString(e, "school"),
			SchoolURL:    rawGetString(e, "school_url"),
			Degree:       rawGetString(e, "degree"),
			FieldOfStudy: rawGetString(e, "field_of_study"),
			StartYear:    rawGetInt(e, "start_year"),
			EndYear:      rawGetInt(e, "end_year"),
			Activities:   rawGetString(e, "activities"),
		})
	}
	return out
}

func mapCurrentEmployment(raw map[string]interface{}) domain.CurrentEmployment {
	current := rawGetMap(raw, "current_company")
	if current == nil {
		return domain.CurrentEmployment{}
	}
	return domain.CurrentEmployment{
		OrganizationName: rawGetString(current, "name"),
		Title:            rawGetString(current, "title"),
		JoinMonth:        rawGetInt(current, "join_month"),
		JoinYear:         rawGetInt(current, "join_year"),
		DurationText:     rawGetString(current, "duration"),
	}
}
