package database

import (
	"context"
	"testing"

	"tripbazaar/models"
	"tripbazaar/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db, zap.NewNop()), mock
}

func flightRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "airline", "flight_number", "from_city", "to_city", "departure_time",
		"arrival_time", "duration", "price", "available_seats", "class_type",
		"baggage_allowance", "meal_included", "rating", "stops", "created_at",
	})
}

func TestExecuteFilterQuery_FlightsBuildsConditions(t *testing.T) {
	store, mock := newMockStore(t)

	maxPrice, stops, limit := 20000, 0, 5
	parsed := services.ParsedFilterQuery{
		Filters: services.Filters{MaxPrice: &maxPrice, Stops: &stops},
		Sort:    &services.SortSpec{Field: "price", Order: "asc"},
		Limit:   &limit,
	}

	mock.ExpectQuery(`(?s)SELECT .+ FROM flights WHERE price <= \$1 AND stops = \$2 ORDER BY price ASC LIMIT \$3`).
		WithArgs(20000, 0, 5).
		WillReturnRows(flightRows().AddRow(
			1, "IndiGo", "6E-201", "Delhi", "Mumbai", "06:00", "08:15", "2h 15m",
			15000, 25, "economy", "15kg", true, 4.6, 0, sampleTime))

	records, err := store.ExecuteFilterQuery(context.Background(), models.CategoryFlights, parsed)
	require.NoError(t, err)
	require.Len(t, records, 1)

	flight, ok := records[0].(*models.Flight)
	require.True(t, ok)
	assert.Equal(t, "IndiGo", flight.Airline)
	assert.Equal(t, 15000, flight.Price)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteFilterQuery_RatingFilterSkippedForFlights(t *testing.T) {
	store, mock := newMockStore(t)

	rating := 4.0
	parsed := services.ParsedFilterQuery{Filters: services.Filters{MinRating: &rating}}

	// Flights have no meaningful rating column for filtering, so only the
	// default limit remains.
	mock.ExpectQuery(`(?s)SELECT .+ FROM flights LIMIT \$1`).
		WithArgs(20).
		WillReturnRows(flightRows())

	_, err := store.ExecuteFilterQuery(context.Background(), models.CategoryFlights, parsed)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteFilterQuery_LimitClamped(t *testing.T) {
	store, mock := newMockStore(t)

	limit := 99
	parsed := services.ParsedFilterQuery{Limit: &limit}

	mock.ExpectQuery(`(?s)SELECT .+ FROM flights LIMIT \$1`).
		WithArgs(50).
		WillReturnRows(flightRows())

	_, err := store.ExecuteFilterQuery(context.Background(), models.CategoryFlights, parsed)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteFilterQuery_HotelPriceColumn(t *testing.T) {
	store, mock := newMockStore(t)

	maxPrice := 8000
	parsed := services.ParsedFilterQuery{Filters: services.Filters{MaxPrice: &maxPrice}}

	mock.ExpectQuery(`(?s)SELECT .+ FROM hotels WHERE price_per_night <= \$1 LIMIT \$2`).
		WithArgs(8000, 20).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "location", "city", "rating", "price_per_night", "amenities",
			"room_type", "available_rooms", "check_in", "check_out", "created_at",
		}))

	_, err := store.ExecuteFilterQuery(context.Background(), models.CategoryHotels, parsed)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteFilterQuery_UnknownCategory(t *testing.T) {
	store, _ := newMockStore(t)
	_, err := store.ExecuteFilterQuery(context.Background(), "trains", services.ParsedFilterQuery{})
	assert.Error(t, err)
}

func TestListCandidates_RequiresAvailability(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM flights WHERE available_seats >= \$1 LIMIT \$2`).
		WithArgs(1, 20).
		WillReturnRows(flightRows().AddRow(
			2, "Vistara", "UK-810", "Delhi", "Goa", "09:00", "11:30", "2h 30m",
			9500, 12, "economy", "20kg", true, 0, 1, sampleTime))

	records, err := store.ListCandidates(context.Background(), models.CategoryFlights, nil, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
