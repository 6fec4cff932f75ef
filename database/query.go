package database

import (
	"context"
	"fmt"

	"tripbazaar/models"
	"tripbazaar/services"
)

// priceColumn returns the column carrying the price for a category.
func priceColumn(category models.Category) string {
	if category == models.CategoryHotels {
		return "price_per_night"
	}
	return "price"
}

// categoryHasRating reports whether the category's rating column is
// meaningful for filtering and sorting. Flights and buses default to 0,
// which would make ">= minRating" exclude everything unrated.
func categoryHasRating(category models.Category) bool {
	return category == models.CategoryHotels || category == models.CategoryActivities
}

func selectFor(category models.Category) (table, columns string) {
	switch category {
	case models.CategoryFlights:
		return "flights", flightColumns
	case models.CategoryHotels:
		return "hotels", hotelColumns
	case models.CategoryBuses:
		return "buses", busColumns
	case models.CategoryActivities:
		return "activities", activityColumns
	}
	return "", ""
}

func (s *Store) scanRecords(ctx context.Context, category models.Category, query string, args []any) ([]models.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", category, err)
	}
	defer rows.Close()

	var out []models.Record
	for rows.Next() {
		var rec models.Record
		switch category {
		case models.CategoryFlights:
			rec, err = scanFlight(rows)
		case models.CategoryHotels:
			rec, err = scanHotel(rows)
		case models.CategoryBuses:
			rec, err = scanBus(rows)
		case models.CategoryActivities:
			rec, err = scanActivity(rows)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

const (
	nlQueryDefaultLimit = 20
	nlQueryMaxLimit     = 50
)

// ExecuteFilterQuery runs a validated parsed query against the category's
// table. The parsed query must have passed services.ValidateQuerySafety
// first; this function only consumes its typed fields and never
// interpolates raw text.
func (s *Store) ExecuteFilterQuery(ctx context.Context, category models.Category, parsed services.ParsedFilterQuery) ([]models.Record, error) {
	table, columns := selectFor(category)
	if table == "" {
		return nil, fmt.Errorf("unknown category %q", category)
	}

	b := newConds()
	f := parsed.Filters
	priceCol := priceColumn(category)

	if f.MinPrice != nil {
		b.add(priceCol+" >= "+b.next(), *f.MinPrice)
	}
	if f.MaxPrice != nil {
		b.add(priceCol+" <= "+b.next(), *f.MaxPrice)
	}
	if f.MinRating != nil && categoryHasRating(category) {
		b.add("rating >= "+b.next(), *f.MinRating)
	}
	if category == models.CategoryFlights {
		if f.Stops != nil {
			b.add("stops = "+b.next(), *f.Stops)
		}
		if f.ClassType != "" {
			b.add("class_type = "+b.next(), f.ClassType)
		}
	}
	if category == models.CategoryBuses && f.BusType != "" {
		b.add("bus_type = "+b.next(), f.BusType)
	}

	query := `SELECT ` + columns + ` FROM ` + table + b.where()

	if parsed.Sort != nil {
		if col := sortColumn(category, parsed.Sort.Field); col != "" {
			dir := "DESC"
			if parsed.Sort.Order == "asc" {
				dir = "ASC"
			}
			query += " ORDER BY " + col + " " + dir
		}
	}

	limit := nlQueryDefaultLimit
	if parsed.Limit != nil {
		limit = *parsed.Limit
		if limit > nlQueryMaxLimit {
			limit = nlQueryMaxLimit
		}
	}
	query += " LIMIT " + b.next()
	b.args = append(b.args, limit)

	return s.scanRecords(ctx, category, query, b.args)
}

// sortColumn maps a parsed sort field to a real column, or "" when the
// category cannot be sorted that way.
func sortColumn(category models.Category, field string) string {
	switch field {
	case "price":
		return priceColumn(category)
	case "rating":
		if categoryHasRating(category) {
			return "rating"
		}
	case "duration":
		if category != models.CategoryHotels {
			return "duration"
		}
	}
	return ""
}

// ListCandidates fetches up to 20 in-stock records for recommendation
// scoring, optionally bounded by price.
func (s *Store) ListCandidates(ctx context.Context, category models.Category, minPrice, maxPrice *int) ([]models.Record, error) {
	table, columns := selectFor(category)
	if table == "" {
		return nil, fmt.Errorf("unknown category %q", category)
	}

	availCol := map[models.Category]string{
		models.CategoryFlights:    "available_seats",
		models.CategoryHotels:     "available_rooms",
		models.CategoryBuses:      "available_seats",
		models.CategoryActivities: "available_spots",
	}[category]

	b := newConds()
	b.add(availCol+" >= "+b.next(), 1)
	if minPrice != nil {
		b.add(priceColumn(category)+" >= "+b.next(), *minPrice)
	}
	if maxPrice != nil {
		b.add(priceColumn(category)+" <= "+b.next(), *maxPrice)
	}

	query := `SELECT ` + columns + ` FROM ` + table + b.where() + " LIMIT " + b.next()
	b.args = append(b.args, 20)

	return s.scanRecords(ctx, category, query, b.args)
}
