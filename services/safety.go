package services

import (
	"bytes"
	"encoding/json"
	"regexp"
)

// Patterns checked against the JSON serialization of a parsed query.
// Grouped for readability only; all of them block.
var unsafePatterns = []*regexp.Regexp{
	// SQL injection markers
	regexp.MustCompile(`(?i)drop\s+table`),
	regexp.MustCompile(`(?i)delete\s+from`),
	regexp.MustCompile(`(?i)insert\s+into`),
	regexp.MustCompile(`(?i)update\s+.*\s+set`),
	regexp.MustCompile(`(?i);\s*drop`),
	regexp.MustCompile(`(?i)union\s+select`),
	regexp.MustCompile(`--`),
	regexp.MustCompile(`/\*`),
	regexp.MustCompile(`(?i)xp_`),
	// XSS markers
	regexp.MustCompile(`(?i)<script`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)onerror=`),
	regexp.MustCompile(`(?i)onclick=`),
	regexp.MustCompile(`(?i)onload=`),
	// Command injection markers
	regexp.MustCompile(`(?i)exec\s*\(`),
	regexp.MustCompile(`(?i)eval\s*\(`),
	regexp.MustCompile(`(?i)system\s*\(`),
	regexp.MustCompile(`(?i)passthru`),
	regexp.MustCompile(`(?i)shell_exec`),
}

// ValidateQuerySafety rejects a parsed query whose serialization carries
// injection markers or whose numeric bounds are out of range. It must run
// before the query reaches any execution layer, and it fails closed: any
// panic during validation counts as unsafe.
func ValidateQuerySafety(parsed ParsedFilterQuery) (safe bool) {
	defer func() {
		if recover() != nil {
			safe = false
		}
	}()

	serialized, err := serializeQuery(parsed)
	if err != nil {
		return false
	}

	for _, pattern := range unsafePatterns {
		if pattern.Match(serialized) {
			return false
		}
	}

	f := parsed.Filters
	if f.MinPrice != nil && (*f.MinPrice < 0 || *f.MinPrice > 10_000_000) {
		return false
	}
	if f.MaxPrice != nil && (*f.MaxPrice < 0 || *f.MaxPrice > 10_000_000) {
		return false
	}
	if f.MinRating != nil && (*f.MinRating < 0 || *f.MinRating > 5) {
		return false
	}
	if parsed.Limit != nil && (*parsed.Limit < 1 || *parsed.Limit > 100) {
		return false
	}

	return true
}

// serializeQuery marshals without HTML escaping so markers like "<script"
// stay literal and the patterns above can see them.
func serializeQuery(parsed ParsedFilterQuery) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(parsed); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
