// Package rank turns raw collaborator candidates into the ordered,
// deduplicated suggestion list. Ranking is synchronous and pure: the same
// intent, candidates and query always produce the same ordered list.
package rank

import (
	"sort"
	"strings"

	"cmdpal/internal/domain"
)

// DefaultLimit caps the length of a ranked result list.
const DefaultLimit = 10

// Score tiers for app-name matching. Tiers are disjoint so an exact match
// always outranks a starts-with match, which outranks a contains match,
// which outranks per-word and subsequence matches.
const (
	scoreExact        = 100.0
	scoreStartsBase   = 60.0
	scoreContainsBase = 40.0
	scoreWordBase     = 22.0
	scoreTierWidth    = 20.0
	scoreWordSpan     = 13.0
	scoreWordAllBonus = 5.0
	scoreFuzzySpan    = 20.0
)

// Ranker produces ordered suggestion lists per intent.
type Ranker struct {
	limit int
}

// New creates a ranker with the given result limit (0 means DefaultLimit).
func New(limit int) *Ranker {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Ranker{limit: limit}
}

// Rank orders raw candidates for the given intent and query text.
// System-command matches are always computed from the query and, when the
// intent still allows app suggestions, merged ahead of them. For gated
// intents (unambiguous URL/path/arithmetic input) only system matches
// survive — usually none.
func (r *Ranker) Rank(it domain.Intent, raw []domain.Candidate, queryText string) []domain.Candidate {
	query := strings.TrimSpace(queryText)
	if query == "" {
		return nil
	}

	system := MatchSystemCommands(query)
	if Suppressed(it) {
		return capped(system, r.limit)
	}

	var ranked []domain.Candidate
	switch it.Kind {
	case domain.IntentApp:
		ranked = rankApps(raw, it.Value)
	case domain.IntentSwitch, domain.IntentQuit:
		ranked = rankProcesses(raw, it.Value)
	case domain.IntentRecent:
		ranked = rankRecent(raw, it.Value)
	default:
		return capped(system, r.limit)
	}

	if it.Kind == domain.IntentApp && len(system) > 0 {
		ranked = append(system, ranked...)
	}
	return capped(dedupe(ranked), r.limit)
}

// rankApps scores candidates by tiered name matching and drops zero scores.
func rankApps(raw []domain.Candidate, query string) []domain.Candidate {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	out := make([]domain.Candidate, 0, len(raw))
	for _, c := range raw {
		score := ScoreName(c.DisplayName, q)
		if score <= 0 {
			continue
		}
		c.Score = score
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return lessName(out[i].DisplayName, out[j].DisplayName)
	})
	return out
}

// ScoreName computes the tiered match score of a display name against a
// lowercase query. Zero means no match at all.
func ScoreName(name, query string) float64 {
	n := strings.ToLower(name)
	if n == "" || query == "" {
		return 0
	}
	ratio := float64(len(query)) / float64(len(n))
	if ratio > 1 {
		ratio = 1
	}

	if n == query {
		return scoreExact
	}
	if strings.HasPrefix(n, query) {
		// Tighter matches score higher within the tier
		return scoreStartsBase + scoreTierWidth*ratio
	}
	if strings.Contains(n, query) {
		return scoreContainsBase + scoreTierWidth*ratio
	}
	if s := scoreWords(n, query); s > 0 {
		return s
	}
	return scoreSubsequence(n, query)
}

// scoreWords matches query words against name words: prefix beats
// substring beats reverse-prefix, with a completeness bonus when every
// query word found a partner.
func scoreWords(name, query string) float64 {
	queryWords := strings.Fields(query)
	nameWords := strings.Fields(name)
	if len(queryWords) == 0 || len(nameWords) == 0 {
		return 0
	}

	total := 0.0
	matched := 0
	for _, qw := range queryWords {
		best := 0.0
		for _, nw := range nameWords {
			var s float64
			switch {
			case strings.HasPrefix(nw, qw):
				s = 1.0
			case strings.Contains(nw, qw):
				s = 0.75
			case strings.HasPrefix(qw, nw):
				s = 0.5
			}
			if s > best {
				best = s
			}
		}
		if best > 0 {
			matched++
			total += best
		}
	}
	if matched == 0 {
		return 0
	}

	score := scoreWordBase + scoreWordSpan*(total/float64(len(queryWords)))
	if matched == len(queryWords) {
		score += scoreWordAllBonus
	}
	return score
}

// scoreSubsequence is the fallback fuzzy score: all query characters must
// appear in order within the name; the score is proportional to how much
// of the name the query covers.
func scoreSubsequence(name, query string) float64 {
	idx := 0
	for i := 0; i < len(name) && idx < len(query); i++ {
		if name[i] == query[idx] {
			idx++
		}
	}
	if idx < len(query) {
		return 0
	}
	return scoreFuzzySpan * float64(len(query)) / float64(len(name))
}

// dedupe removes later candidates sharing an action key with an earlier one.
func dedupe(list []domain.Candidate) []domain.Candidate {
	seen := make(map[string]bool, len(list))
	out := list[:0:0]
	for _, c := range list {
		key := string(c.Kind) + "\x00" + c.ActionKey
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

func capped(list []domain.Candidate, limit int) []domain.Candidate {
	if len(list) > limit {
		return list[:limit]
	}
	return list
}

// lessName is the tie-break rule for all alphabetical fallbacks:
// case-insensitive lexical order on display name.
func lessName(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}
