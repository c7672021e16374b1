package rank

import (
	"strings"

	"cmdpal/internal/domain"
)

// MatchSystemCommands matches the query against the fixed system action set
// by substring containment on either the internal name or the display
// label. Matches are ordered exact first, then starts-with, then
// alphabetical, and are merged ahead of app results by the caller.
func MatchSystemCommands(query string) []domain.Candidate {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var out []domain.Candidate
	for _, a := range domain.SystemActions {
		if strings.Contains(a.ID, q) || strings.Contains(strings.ToLower(a.Label), q) {
			out = append(out, domain.Candidate{
				DisplayName: a.Label,
				ActionKey:   a.ID,
				Kind:        domain.CandidateSystem,
			})
		}
	}
	sortByNameMatch(out, q)
	return out
}
