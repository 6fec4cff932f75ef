package services

import (
	"regexp"
	"strconv"
	"strings"

	"tripbazaar/models"
)

// ─── Parsed query types ──────────────────────────────────────────────────────

// Filters holds the structured constraints extracted from a free-text query.
// Pointer fields distinguish "not mentioned" from zero values so the JSON
// serialization only carries what the text actually asked for.
type Filters struct {
	MinPrice  *int     `json:"minPrice,omitempty"`
	MaxPrice  *int     `json:"maxPrice,omitempty"`
	MinRating *float64 `json:"minRating,omitempty"`
	Stops     *int     `json:"stops,omitempty"`
	ClassType string   `json:"classType,omitempty"`
	BusType   string   `json:"busType,omitempty"`
}

type SortSpec struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

// ParsedFilterQuery is built fresh per request, validated, consumed to build
// one database query and then discarded. It is never persisted.
type ParsedFilterQuery struct {
	Filters Filters   `json:"filters"`
	Sort    *SortSpec `json:"sort,omitempty"`
	Limit   *int      `json:"limit,omitempty"`
}

// ─── Pattern tables ──────────────────────────────────────────────────────────
//
// Rule order is load-bearing. Within one semantic family the first matching
// rule wins and later rules of that family are skipped; distinct families are
// evaluated independently, so one sentence can set a price bound, a class and
// a sort at once. The price-range rule runs after the single-bound rules and
// overwrites them. Sort rules are the exception: every matching sort rule
// assigns unconditionally, so the last match in table order survives.

var (
	maxPriceRe   = regexp.MustCompile(`(?i)(?:under|less than|below|cheaper than)\s*(?:\$|₹|rs\.?)?\s*(\d+)`)
	minPriceRe   = regexp.MustCompile(`(?i)(?:above|more than|over|at least)\s*(?:\$|₹|rs\.?)?\s*(\d+)`)
	priceRangeRe = regexp.MustCompile(`(?i)between\s*(?:\$|₹|rs\.?)?\s*(\d+)\s*(?:and|to)\s*(?:\$|₹|rs\.?)?\s*(\d+)`)
	minRatingRe  = regexp.MustCompile(`(?i)(?:rating|rated)\s*(?:above|over|at least)?\s*([\d.]+)`)
	nonStopRe    = regexp.MustCompile(`(?i)\b(?:non-stop|nonstop|direct)\b`)
	limitRe      = regexp.MustCompile(`(?i)\b(?:top|best|first)\s+(\d+)\b`)
	bareTopRe    = regexp.MustCompile(`(?i)\b(?:top|best)\b`)
)

type keywordRule struct {
	trigger *regexp.Regexp
	value   string
}

// First truthy match wins, in table order.
var flightClassRules = []keywordRule{
	{regexp.MustCompile(`(?i)\b(?:business class|business)\b`), "business"},
	{regexp.MustCompile(`(?i)\b(?:economy class|economy)\b`), "economy"},
	{regexp.MustCompile(`(?i)\b(?:first class|first)\b`), "first"},
}

var busTypeRules = []keywordRule{
	{regexp.MustCompile(`(?i)\bsleeper\b`), "sleeper"},
	{regexp.MustCompile(`(?i)\b(?:semi-sleeper|semi sleeper)\b`), "semi-sleeper"},
	{regexp.MustCompile(`(?i)\b(?:ac|air conditioned|air-conditioned)\b`), "ac"},
}

type sortRule struct {
	trigger *regexp.Regexp
	spec    SortSpec
}

// Every matching entry assigns; the last match in this order wins.
var sortRules = []sortRule{
	{regexp.MustCompile(`(?i)\b(?:cheapest|lowest price|most affordable)\b`), SortSpec{Field: "price", Order: "asc"}},
	{regexp.MustCompile(`(?i)\b(?:most expensive|highest price|priciest)\b`), SortSpec{Field: "price", Order: "desc"}},
	{regexp.MustCompile(`(?i)\b(?:highest rated|best rated|top rated)\b`), SortSpec{Field: "rating", Order: "desc"}},
	{regexp.MustCompile(`(?i)\b(?:fastest|shortest duration|quickest)\b`), SortSpec{Field: "duration", Order: "asc"}},
}

// ─── Parser ──────────────────────────────────────────────────────────────────

// ParseFilterQuery turns a free-text search phrase into a structured
// filter/sort/limit object. Pure function: no I/O, deterministic, safe for
// concurrent use.
func ParseFilterQuery(text string, category models.Category) ParsedFilterQuery {
	query := strings.ToLower(strings.TrimSpace(text))
	parsed := ParsedFilterQuery{}

	if m := maxPriceRe.FindStringSubmatch(query); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			parsed.Filters.MaxPrice = &n
		}
	}

	if m := minPriceRe.FindStringSubmatch(query); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			parsed.Filters.MinPrice = &n
		}
	}

	// Runs last so an explicit range overwrites single bounds.
	if m := priceRangeRe.FindStringSubmatch(query); m != nil {
		lo, err1 := strconv.Atoi(m[1])
		hi, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil {
			parsed.Filters.MinPrice = &lo
			parsed.Filters.MaxPrice = &hi
		}
	}

	if m := minRatingRe.FindStringSubmatch(query); m != nil {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil {
			parsed.Filters.MinRating = &f
		}
	}

	switch category {
	case models.CategoryFlights:
		if nonStopRe.MatchString(query) {
			zero := 0
			parsed.Filters.Stops = &zero
		}
		for _, rule := range flightClassRules {
			if rule.trigger.MatchString(query) {
				parsed.Filters.ClassType = rule.value
				break
			}
		}
	case models.CategoryBuses:
		for _, rule := range busTypeRules {
			if rule.trigger.MatchString(query) {
				parsed.Filters.BusType = rule.value
				break
			}
		}
	}

	for _, rule := range sortRules {
		if rule.trigger.MatchString(query) {
			spec := rule.spec
			parsed.Sort = &spec
		}
	}

	if m := limitRe.FindStringSubmatch(query); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			parsed.Limit = &n
		}
	} else if bareTopRe.MatchString(query) {
		five := 5
		parsed.Limit = &five
	}

	return parsed
}
