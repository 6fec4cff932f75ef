package services

import (
	"testing"

	"tripbazaar/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(n int) *int { return &n }

func TestParseFilterQuery_PriceBounds(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		minPrice *int
		maxPrice *int
	}{
		{"under", "flights under 20000", nil, intp(20000)},
		{"less than", "hotels less than 5000", nil, intp(5000)},
		{"below with rupee", "buses below ₹1500", nil, intp(1500)},
		{"cheaper than", "cheaper than 3000", nil, intp(3000)},
		{"above", "hotels above 2000", intp(2000), nil},
		{"at least", "at least 1000", intp(1000), nil},
		{"range", "hotels between 2000 and 8000", intp(2000), intp(8000)},
		{"range overrides single bound", "under 500 but between 2000 and 8000", intp(2000), intp(8000)},
		{"no price", "best flights to goa", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := ParseFilterQuery(tt.query, models.CategoryHotels)
			assert.Equal(t, tt.minPrice, parsed.Filters.MinPrice)
			assert.Equal(t, tt.maxPrice, parsed.Filters.MaxPrice)
		})
	}
}

func TestParseFilterQuery_Rating(t *testing.T) {
	parsed := ParseFilterQuery("hotels rated above 4.5", models.CategoryHotels)
	require.NotNil(t, parsed.Filters.MinRating)
	assert.Equal(t, 4.5, *parsed.Filters.MinRating)

	parsed = ParseFilterQuery("rating at least 4", models.CategoryActivities)
	require.NotNil(t, parsed.Filters.MinRating)
	assert.Equal(t, 4.0, *parsed.Filters.MinRating)
}

func TestParseFilterQuery_FlightSpecific(t *testing.T) {
	parsed := ParseFilterQuery("non-stop business class flights under 20000", models.CategoryFlights)
	require.NotNil(t, parsed.Filters.Stops)
	assert.Equal(t, 0, *parsed.Filters.Stops)
	assert.Equal(t, "business", parsed.Filters.ClassType)
	require.NotNil(t, parsed.Filters.MaxPrice)
	assert.Equal(t, 20000, *parsed.Filters.MaxPrice)

	// Class keywords only apply to the flights category.
	parsed = ParseFilterQuery("business class", models.CategoryHotels)
	assert.Empty(t, parsed.Filters.ClassType)
}

func TestParseFilterQuery_FlightClassOrder(t *testing.T) {
	// "business" is checked before "first", so a phrase matching both
	// resolves to business.
	parsed := ParseFilterQuery("first business option", models.CategoryFlights)
	assert.Equal(t, "business", parsed.Filters.ClassType)
}

func TestParseFilterQuery_BusTypes(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"sleeper buses to pune", "sleeper"},
		{"semi sleeper bus", "sleeper"}, // "sleeper" rule fires first
		{"ac buses", "ac"},
		{"air conditioned bus", "ac"},
	}
	for _, tt := range tests {
		parsed := ParseFilterQuery(tt.query, models.CategoryBuses)
		assert.Equal(t, tt.want, parsed.Filters.BusType, tt.query)
	}
}

func TestParseFilterQuery_Sort(t *testing.T) {
	tests := []struct {
		query string
		field string
		order string
	}{
		{"cheapest flights", "price", "asc"},
		{"most expensive hotels", "price", "desc"},
		{"highest rated hotels", "rating", "desc"},
		{"fastest buses", "duration", "asc"},
	}
	for _, tt := range tests {
		parsed := ParseFilterQuery(tt.query, models.CategoryFlights)
		require.NotNil(t, parsed.Sort, tt.query)
		assert.Equal(t, tt.field, parsed.Sort.Field, tt.query)
		assert.Equal(t, tt.order, parsed.Sort.Order, tt.query)
	}
}

func TestParseFilterQuery_SortLastMatchWins(t *testing.T) {
	parsed := ParseFilterQuery("cheapest and fastest buses", models.CategoryBuses)
	require.NotNil(t, parsed.Sort)
	assert.Equal(t, "duration", parsed.Sort.Field)
}

func TestParseFilterQuery_Limit(t *testing.T) {
	parsed := ParseFilterQuery("top 3 hotels", models.CategoryHotels)
	require.NotNil(t, parsed.Limit)
	assert.Equal(t, 3, *parsed.Limit)

	// Bare "top"/"best" without a number implies 5.
	parsed = ParseFilterQuery("best hotels in goa", models.CategoryHotels)
	require.NotNil(t, parsed.Limit)
	assert.Equal(t, 5, *parsed.Limit)

	parsed = ParseFilterQuery("hotels in goa", models.CategoryHotels)
	assert.Nil(t, parsed.Limit)
}

func TestParseFilterQuery_CombinedPhrase(t *testing.T) {
	parsed := ParseFilterQuery("top 5 cheapest non-stop flights under 20000", models.CategoryFlights)

	require.NotNil(t, parsed.Filters.MaxPrice)
	assert.Equal(t, 20000, *parsed.Filters.MaxPrice)
	require.NotNil(t, parsed.Filters.Stops)
	assert.Equal(t, 0, *parsed.Filters.Stops)
	require.NotNil(t, parsed.Sort)
	assert.Equal(t, SortSpec{Field: "price", Order: "asc"}, *parsed.Sort)
	require.NotNil(t, parsed.Limit)
	assert.Equal(t, 5, *parsed.Limit)
}

func TestParseFilterQuery_Deterministic(t *testing.T) {
	a := ParseFilterQuery("Top 10 Highest Rated Sleeper Buses Under 2500", models.CategoryBuses)
	b := ParseFilterQuery("top 10 highest rated sleeper buses under 2500", models.CategoryBuses)
	assert.Equal(t, a, b)
}
