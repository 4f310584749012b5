package orgsvc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jexpert/profile-enrichment/internal/orgsvc"
)

func TestNormalizeURL_StripsWwwSchemeCaseAndQuery(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://www.linkedin.com/in/janedoe/", "https://linkedin.com/in/janedoe"},
		{"HTTPS://WWW.LinkedIn.com/in/janedoe", "https://linkedin.com/in/janedoe"},
		{"https://www.linkedin.com/in/janedoe/?trk=public_profile", "https://linkedin.com/in/janedoe"},
		{"https://linkedin.com/company/acme/", "https://linkedin.com/company/acme"},
		{"", ""},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, orgsvc.NormalizeURL(c.in), "input: %s", c.in)
	}
}

func TestNormalizeURL_Idempotent(t *testing.T) {
	in := "https://www.linkedin.com/in/JaneDoe/?x=1"
	once := orgsvc.NormalizeURL(in)
	twice := orgsvc.NormalizeURL(once)
	assert.Equal(t, once, twice)
}
