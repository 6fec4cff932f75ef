package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateQuerySafety_CleanQuery(t *testing.T) {
	min, max, limit := 100, 5000, 10
	parsed := ParsedFilterQuery{
		Filters: Filters{MinPrice: &min, MaxPrice: &max},
		Limit:   &limit,
	}
	assert.True(t, ValidateQuerySafety(parsed))
}

func TestValidateQuerySafety_EmptyQuery(t *testing.T) {
	assert.True(t, ValidateQuerySafety(ParsedFilterQuery{}))
}

func TestValidateQuerySafety_InjectionMarkers(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"drop table", "x; DROP TABLE flights"},
		{"union select", "1 UNION SELECT password"},
		{"comment dashes", "price -- comment"},
		{"block comment", "a /* b */"},
		{"script tag", "<script>alert(1)</script>"},
		{"javascript scheme", "javascript:alert(1)"},
		{"onerror", "x onerror=steal()"},
		{"eval", "eval(payload)"},
		{"shell exec", "shell_exec"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := ParsedFilterQuery{Filters: Filters{ClassType: tt.value}}
			assert.False(t, ValidateQuerySafety(parsed))
		})
	}
}

func TestValidateQuerySafety_ScriptTagNotMaskedByEscaping(t *testing.T) {
	// JSON HTML escaping would turn "<" into "<" and hide the marker;
	// the serializer must keep it literal.
	parsed := ParsedFilterQuery{Filters: Filters{BusType: "<script>"}}
	assert.False(t, ValidateQuerySafety(parsed))
}

func TestValidateQuerySafety_NumericRanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ParsedFilterQuery)
		safe   bool
	}{
		{"negative minPrice", func(p *ParsedFilterQuery) { n := -1; p.Filters.MinPrice = &n }, false},
		{"huge maxPrice", func(p *ParsedFilterQuery) { n := 10_000_001; p.Filters.MaxPrice = &n }, false},
		{"maxPrice at cap", func(p *ParsedFilterQuery) { n := 10_000_000; p.Filters.MaxPrice = &n }, true},
		{"rating above five", func(p *ParsedFilterQuery) { f := 5.1; p.Filters.MinRating = &f }, false},
		{"rating at five", func(p *ParsedFilterQuery) { f := 5.0; p.Filters.MinRating = &f }, true},
		{"zero limit", func(p *ParsedFilterQuery) { n := 0; p.Limit = &n }, false},
		{"limit above hundred", func(p *ParsedFilterQuery) { n := 101; p.Limit = &n }, false},
		{"limit at hundred", func(p *ParsedFilterQuery) { n := 100; p.Limit = &n }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var parsed ParsedFilterQuery
			tt.mutate(&parsed)
			assert.Equal(t, tt.safe, ValidateQuerySafety(parsed))
		})
	}
}
