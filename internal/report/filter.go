package report

import "strings"

// Criteria narrows the admin table. Empty fields match everything.
type Criteria struct {
	Search     string
	RegionID   string
	RegionName string
	MinistryID string
}

// Filter keeps rows whose attendee name or referrer email contains Search
// (case-insensitive) and whose region and ministry match exactly. RegionName
// matches the displayed name, so it also finds fallback registrations.
func Filter(rows []Row, c Criteria) []Row {
	search := strings.ToLower(strings.TrimSpace(c.Search))
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if search != "" &&
			!strings.Contains(strings.ToLower(row.AttendeeName), search) &&
			!strings.Contains(strings.ToLower(row.ReferrerEmail), search) {
			continue
		}
		if c.RegionID != "" && row.RegionID != c.RegionID {
			continue
		}
		if c.RegionName != "" && row.Region != c.RegionName {
			continue
		}
		if c.MinistryID != "" && row.MinistryID != c.MinistryID {
			continue
		}
		out = append(out, row)
	}
	return out
}
