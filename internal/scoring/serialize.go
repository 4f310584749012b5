package scoring

import (
	"fmt"
	"strings"

	"github.com/jexpert/profile-enrichment/internal/domain"
	"github.com/jexpert/profile-enrichment/internal/orgsvc"
)

// SerializeProfile renders a stable, deterministic text block describing
// profile for the LLM prompt (§4.7 step 3): full name, headline, summary,
// ordered experience with organization context where available, education,
// and key metrics.
func SerializeProfile(p *domain.Profile, orgByURL map[string]*domain.Organization) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Name: %s\n", p.FullName)
	if p.Headline != "" {
		fmt.Fprintf(&b, "Headline: %s\n", p.Headline)
	}
	if p.About != "" {
		fmt.Fprintf(&b, "Summary: %s\n", p.About)
	}

	fmt.Fprintf(&b, "Followers: %d\nConnections: %d\n", p.FollowerCount, p.ConnectionCount)

	if len(p.Experiences) > 0 {
		b.WriteString("\nExperience:\n")
		for _, exp := range p.Experiences {
			fmt.Fprintf(&b, "- %s at %s (%s)\n", exp.Title, exp.OrganizationName, formatRange(exp.StartMonth, exp.StartYear, exp.EndMonth, exp.EndYear, exp.IsCurrent))
			if org, ok := orgByURL[orgsvc.NormalizeURL(exp.OrganizationURL)]; ok && org != nil {
				if len(org.Industries) > 0 {
					fmt.Fprintf(&b, "  Industry: %s\n", strings.Join(org.Industries, ", "))
				}
				if org.EmployeeRange != "" {
					fmt.Fprintf(&b, "  Employees: %s\n", org.EmployeeRange)
				}
				if org.Description != "" {
					fmt.Fprintf(&b, "  About: %s\n", truncate(org.Description, 280))
				}
			}
			if exp.Description != "" {
				fmt.Fprintf(&b, "  %s\n", truncate(exp.Description, 200))
			}
		}
	}

	if len(p.Educations) > 0 {
		b.WriteString("\nEducation:\n")
		for _, edu := range p.Educations {
			fmt.Fprintf(&b, "- %s, %s\n", edu.School, edu.Degree)
		}
	}

	return b.String()
}

func formatRange(startMonth, startYear, endMonth, endYear *int, isCurrent bool) string {
	start := formatMonthYear(startMonth, startYear)
	if isCurrent {
		return start + " - present"
	}
	return start + " - " + formatMonthYear(endMonth, endYear)
}

func formatMonthYear(month, year *int) string {
	if year == nil {
		return "unknown"
	}
	if month == nil {
		return fmt.Sprintf("%d", *year)
	}
	return fmt.Sprintf("%d/%d", *month, *year)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
