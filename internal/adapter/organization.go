package adapter

import (
	"github.com/jexpert/profile-enrichment/internal/domain"
	"github.com/jexpert/profile-enrichment/internal/orgsvc"
)

type orgFieldMapping struct {
	canonicalPath string
	essential     bool
	present       func(raw map[string]interface{}) bool
	apply         func(o *domain.Organization, raw map[string]interface{})
}

var orgMappingTable = []orgFieldMapping{
	{
		canonicalPath: "name",
		essential:     true,
		present:       func(raw map[string]interface{}) bool { return nonEmpty(raw, "name") },
		apply:         func(o *domain.Organization, raw map[string]interface{}) { o.Name = rawGetString(raw, "name") },
	},
	{canonicalPath: "external_organization_id", apply: func(o *domain.Organization, raw map[string]interface{}) {
		o.ExternalOrganizationID = rawGetString(raw, "id")
	}},
	{canonicalPath: "url", apply: func(o *domain.Organization, raw map[string]interface{}) {
		for _, key := range []string{"url", "linkedin_url"} {
			if v := rawGetString(raw, key); v != "" {
				o.URL = orgsvc.NormalizeURL(v)
				return
			}
		}
	}},
	{canonicalPath: "tagline", apply: func(o *domain.Organization, raw map[string]interface{}) { o.Tagline = rawGetString(raw, "tagline") }},
	{canonicalPath: "description", apply: func(o *domain.Organization, raw map[string]interface{}) { o.Description = rawGetString(raw, "description") }},
	{canonicalPath: "website", apply: func(o *domain.Organization, raw map[string]interface{}) { o.Website = rawGetString(raw, "website") }},
	{canonicalPath: "domain", apply: func(o *domain.Organization, raw map[string]interface{}) { o.Domain = rawGetString(raw, "domain") }},
	{canonicalPath: "logo_url", apply: func(o *domain.Organization, raw map[string]interface{}) { o.LogoURL = rawGetString(raw, "logo_url") }},
	{canonicalPath: "year_founded", apply: func(o *domain.Organization, raw map[string]interface{}) { o.YearFounded = rawGetInt(raw, "year_founded") }},
	{canonicalPath: "industries", apply: func(o *domain.Organization, raw map[string]interface{}) { o.Industries = rawGetStringSlice(raw, "industries") }},
	{canonicalPath: "specialties", apply: func(o *domain.Organization, raw map[string]interface{}) { o.Specialties = rawGetStringSlice(raw, "specialties") }},
	{canonicalPath: "employee_count", apply: func(o *domain.Organization, raw map[string]interface{}) { o.EmployeeCount = rawGetInt(raw, "employee_count") }},
	{canonicalPath: "employee_range", apply: func(o *domain.Organization, raw map[string]interface{}) {
		if v := rawGetString(raw, "employee_range"); domain.KnownEmployeeRanges[v] {
			o.EmployeeRange = v
		}
	}},
	{canonicalPath: "follower_count", apply: func(o *domain.Organization, raw map[string]interface{}) {
		if v := rawGetInt(raw, "follower_count"); v != nil {
			o.FollowerCount = *v
		}
	}},
	{canonicalPath: "headquarters", apply: func(o *domain.Organization, raw map[string]interface{}) { o.Headquarters = mapHeadquarters(raw) }},
	{canonicalPath: "email", apply: func(o *domain.Organization, raw map[string]interface{}) { o.Email = rawGetString(raw, "email") }},
	{canonicalPath: "phone", apply: func(o *domain.Organization, raw map[string]interface{}) { o.Phone = rawGetString(raw, "phone") }},
}

// ToOrganization maps a raw workflow payload onto a Canonical Organization
// (§4.3). Only Name is essential — an organization discovered purely by
// name (no URL) is still a valid candidate for the fuzzy-match step of
// the upsert algorithm (§4.4).
func ToOrganization(raw map[string]interface{}) (*domain.Organization, error) {
	var missing []string
	for _, m := range orgMappingTable {
		if m.essential && m.present != nil && !m.present(raw) {
			missing = append(missing, m.canonicalPath)
		}
	}
	if len(missing) > 0 {
		return nil, &IncompleteDataError{Entity: "organization", MissingFields: missing}
	}

	o := domain.NewOrganization()
	for _, m := range orgMappingTable {
		m.apply(o, raw)
	}
	return o, nil
}

func mapHeadquarters(raw map[string]interface{}) domain.HeadquartersAddress {
	hq := rawGetMap(raw, "headquarters")
	if hq == nil {
		return domain.HeadquartersAddress{}
	}
	return domain.HeadquartersAddress{
		Line1:    rawGetString(hq, "line1"),
		City:     rawGetString(hq, "city"),
		State:    rawGetString(hq, "state"),
		Country:  rawGetString(hq, "country"),
		Rendered: rawGetString(hq, "rendered"),
	}
}
