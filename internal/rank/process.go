package rank

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"cmdpal/internal/domain"
)

// rankProcesses filters and orders running-process candidates for the
// switch/quit intents. No fuzzy scoring — these lists are short. An empty
// search term includes everything.
func rankProcesses(raw []domain.Candidate, term string) []domain.Candidate {
	t := strings.ToLower(strings.TrimSpace(term))

	out := make([]domain.Candidate, 0, len(raw))
	for _, c := range raw {
		if t == "" || strings.Contains(strings.ToLower(c.DisplayName), t) {
			out = append(out, c)
		}
	}
	sortByNameMatch(out, t)
	return out
}

// sortByNameMatch orders candidates: exact name match first, then
// starts-with, then alphabetical.
func sortByNameMatch(list []domain.Candidate, term string) {
	tier := func(name string) int {
		n := strings.ToLower(name)
		switch {
		case term != "" && n == term:
			return 0
		case term != "" && strings.HasPrefix(n, term):
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		ti, tj := tier(list[i].DisplayName), tier(list[j].DisplayName)
		if ti != tj {
			return ti < tj
		}
		return lessName(list[i].DisplayName, list[j].DisplayName)
	})
}

// ProcessCandidates converts raw process listings into candidates.
func ProcessCandidates(procs []domain.Process) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(procs))
	for _, p := range procs {
		name := p.Name
		if p.WindowTitle != "" {
			name = p.Name + " — " + p.WindowTitle
		}
		out = append(out, domain.Candidate{
			DisplayName: name,
			ActionKey:   p.Name,
			Kind:        domain.CandidateProcess,
		})
	}
	return out
}

// ClosestName returns the process name with the smallest edit distance to
// the term, for "did you mean" messages when no process matched. Returns
// "" when nothing is reasonably close.
func ClosestName(term string, procs []domain.Process) string {
	t := strings.ToLower(strings.TrimSpace(term))
	if t == "" {
		return ""
	}
	best := ""
	bestDist := len(t)/2 + 1 // anything farther is not a plausible typo
	for _, p := range procs {
		d := levenshtein.ComputeDistance(t, strings.ToLower(p.Name))
		if d < bestDist {
			bestDist = d
			best = p.Name
		}
	}
	return best
}
