// Package intent classifies free-text palette input into a tagged intent.
// Classification is deterministic, total and side-effect free: every input
// maps to exactly one Intent and the rule order below is load-bearing —
// "quit https://x.com" must be Quit, not URL.
package intent

import (
	"strings"

	"cmdpal/internal/domain"
)

// Confidence levels per rule. Downstream these gate suggestion suppression;
// they are never used as ranking scores.
const (
	ConfidenceExact      = 1.0
	ConfidenceURL        = 0.95
	ConfidencePath       = 0.9
	ConfidenceOpenVerb   = 0.9
	ConfidenceCalculate  = 0.85
	ConfidenceSearch     = 0.7
	ConfidenceAppDefault = 0.6
	ConfidenceAppWeak    = 0.4
)

// maxDefaultAppLen is the input length above which the default-app rule
// stops applying at full confidence.
const maxDefaultAppLen = 50

// Classify maps raw input text to an intent. First matching rule wins.
func Classify(input string) domain.Intent {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return domain.Intent{Kind: domain.IntentUnknown, Value: "", Confidence: 0}
	}

	// 1. Quit: "quit" alone or with a target process name.
	if rest, ok := keywordRemainder(trimmed, "quit"); ok {
		return domain.Intent{Kind: domain.IntentQuit, Value: rest, Confidence: ConfidenceExact}
	}

	// 2. Switch: "sw", "switch" or "focus".
	for _, kw := range []string{"switch", "sw", "focus"} {
		if rest, ok := keywordRemainder(trimmed, kw); ok {
			return domain.Intent{Kind: domain.IntentSwitch, Value: rest, Confidence: ConfidenceExact}
		}
	}

	// 3. Recent: "recent", optionally narrowed to files/folders.
	if rest, ok := keywordRemainder(trimmed, "recent"); ok {
		return domain.Intent{Kind: domain.IntentRecent, Value: rest, Confidence: ConfidenceExact}
	}

	// 4. URL.
	if looksLikeURL(trimmed) {
		return domain.Intent{Kind: domain.IntentURL, Value: trimmed, Confidence: ConfidenceURL}
	}

	// 5. Chat: explicit /chat or /ai prefix.
	lower := strings.ToLower(trimmed)
	for _, prefix := range []string{"/chat", "/ai"} {
		if lower == prefix {
			return domain.Intent{Kind: domain.IntentChat, Value: "", Confidence: ConfidenceExact}
		}
		if strings.HasPrefix(lower, prefix+" ") {
			rest := strings.TrimSpace(trimmed[len(prefix)+1:])
			return domain.Intent{Kind: domain.IntentChat, Value: rest, Confidence: ConfidenceExact}
		}
	}

	// 6. Path: explicit filesystem syntax.
	if looksLikePath(trimmed) {
		return domain.Intent{Kind: domain.IntentPath, Value: trimmed, Confidence: ConfidencePath}
	}

	// 7. Calculate.
	if looksLikeMath(trimmed) {
		return domain.Intent{Kind: domain.IntentCalculate, Value: trimmed, Confidence: ConfidenceCalculate}
	}

	// 8. App with explicit verb.
	for _, verb := range []string{"open", "launch", "start"} {
		if rest, ok := keywordRemainder(trimmed, verb); ok && rest != "" {
			return domain.Intent{Kind: domain.IntentApp, Value: rest, Confidence: ConfidenceOpenVerb}
		}
	}

	// 9. Search: long input containing a search keyword.
	if len(trimmed) > maxDefaultAppLen && hasSearchKeyword(trimmed) {
		return domain.Intent{Kind: domain.IntentSearch, Value: trimmed, Confidence: ConfidenceSearch}
	}

	// 10/11. App search is the highest-frequency action, so it is the
	// fallback for everything else; long inputs get a weaker confidence.
	conf := ConfidenceAppDefault
	if len(trimmed) > maxDefaultAppLen {
		conf = ConfidenceAppWeak
	}
	return domain.Intent{Kind: domain.IntentApp, Value: trimmed, Confidence: conf}
}

// NeedsFetch reports whether the intent requires external candidates.
func NeedsFetch(kind domain.IntentKind) bool {
	switch kind {
	case domain.IntentApp, domain.IntentSwitch, domain.IntentQuit, domain.IntentRecent:
		return true
	default:
		return false
	}
}
