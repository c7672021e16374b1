package intent

import (
	"regexp"
	"strings"
)

var (
	schemeRe    = regexp.MustCompile(`^[a-z][a-z0-9+.-]*://`)
	localhostRe = regexp.MustCompile(`^localhost(:\d+)?(/\S*)?$`)
	// Bare domains are only recognized for an enumerated set of TLDs;
	// anything else is more likely an app name than a URL.
	bareDomainRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*(\.[a-z0-9][a-z0-9-]*)*\.(com|net|org|io|dev|app|co|ai|me|gg|sh)(:\d+)?(/\S*)?$`)

	pureMathRe  = regexp.MustCompile(`^[0-9+\-*/%^().,\s]+$`)
	searchWordRe = regexp.MustCompile(`\b(search|find|lookup|google|bing)\b`)

	driveLetterRe = regexp.MustCompile(`^[a-zA-Z]:[/\\]`)
	relativeDotRe = regexp.MustCompile(`^\.\.?[/\\]`)
)

// looksLikeURL reports whether the input matches a URL-like pattern:
// explicit scheme, localhost with optional port, www. prefix, a bare
// domain with a known TLD, or an embedded scheme separator.
func looksLikeURL(input string) bool {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return false
	}
	if strings.Contains(s, "://") {
		return true
	}
	if schemeRe.MatchString(s) || localhostRe.MatchString(s) || strings.HasPrefix(s, "www.") {
		return true
	}
	// Bare domains never contain spaces
	if strings.ContainsAny(s, " \t") {
		return false
	}
	return bareDomainRe.MatchString(s)
}

// looksLikePath reports whether the input has explicit filesystem path
// syntax: a drive-letter prefix, a UNC prefix, a relative-dot prefix or a
// bare separator, plus at least one separator and a minimum length.
func looksLikePath(input string) bool {
	if len(input) <= 2 {
		return false
	}
	if !strings.ContainsAny(input, `/\`) {
		return false
	}
	return driveLetterRe.MatchString(input) ||
		strings.HasPrefix(input, `\\`) ||
		relativeDotRe.MatchString(input) ||
		strings.HasPrefix(input, "/") ||
		strings.HasPrefix(input, `\`)
}

// looksLikeMath reports whether the input is an arithmetic expression:
// either solely digits/operators/parentheses/whitespace, or an arithmetic
// operator appearing alongside a digit.
func looksLikeMath(input string) bool {
	s := strings.TrimSpace(input)
	if s == "" {
		return false
	}
	hasDigit := strings.ContainsAny(s, "0123456789")
	if !hasDigit {
		return false
	}
	if pureMathRe.MatchString(s) {
		return true
	}
	return strings.ContainsAny(s, "+-*/%^")
}

// hasSearchKeyword reports whether a search keyword appears as a whole word.
func hasSearchKeyword(input string) bool {
	return searchWordRe.MatchString(strings.ToLower(input))
}

// keywordRemainder returns (remainder, true) if the input is exactly the
// keyword or the keyword followed by a space. Matching is case-insensitive.
func keywordRemainder(input, keyword string) (string, bool) {
	lower := strings.ToLower(input)
	if lower == keyword {
		return "", true
	}
	if strings.HasPrefix(lower, keyword+" ") {
		return strings.TrimSpace(input[len(keyword)+1:]), true
	}
	return "", false
}
