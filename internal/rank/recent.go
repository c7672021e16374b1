package rank

import (
	"sort"
	"strings"

	"cmdpal/internal/domain"
)

// ParseRecentQuery splits the remainder of a recent intent into an item
// type filter and a residual search term. "files" and "folders" are
// keywords; everything after them filters by name.
func ParseRecentQuery(remainder string) (domain.RecentFilter, string) {
	rest := strings.TrimSpace(remainder)
	lower := strings.ToLower(rest)
	switch {
	case lower == "files":
		return domain.RecentFiles, ""
	case lower == "folders":
		return domain.RecentFolders, ""
	case strings.HasPrefix(lower, "files "):
		return domain.RecentFiles, strings.TrimSpace(rest[len("files "):])
	case strings.HasPrefix(lower, "folders "):
		return domain.RecentFolders, strings.TrimSpace(rest[len("folders "):])
	default:
		return domain.RecentAll, rest
	}
}

// rankRecent filters recent-item candidates by the residual search term.
// The type filter was already applied when fetching; ordering preserves
// the collaborator's recency order for untyped queries and falls back to
// name order when a term narrows the list.
func rankRecent(raw []domain.Candidate, remainder string) []domain.Candidate {
	_, term := ParseRecentQuery(remainder)
	t := strings.ToLower(term)

	out := make([]domain.Candidate, 0, len(raw))
	for _, c := range raw {
		if t == "" || strings.Contains(strings.ToLower(c.DisplayName), t) {
			out = append(out, c)
		}
	}
	if t != "" {
		sort.SliceStable(out, func(i, j int) bool {
			return lessName(out[i].DisplayName, out[j].DisplayName)
		})
	}
	return out
}

// RecentCandidates converts raw recent items into candidates.
func RecentCandidates(items []domain.RecentItem) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(items))
	for _, it := range items {
		out = append(out, domain.Candidate{
			DisplayName: it.Name,
			ActionKey:   it.Path,
			Kind:        domain.CandidateRecent,
			IsFolder:    it.IsFolder,
		})
	}
	return out
}
