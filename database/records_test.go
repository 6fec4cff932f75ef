package database

import (
	"context"
	"testing"
	"time"

	"tripbazaar/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleTime = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func TestGetFlight(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM flights WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(flightRows().AddRow(
			1, "IndiGo", "6E-201", "Delhi", "Mumbai", "06:00", "08:15", "2h 15m",
			15000, 25, "economy", "15kg", true, 4.6, 0, sampleTime))

	flight, err := store.GetFlight(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "6E-201", flight.FlightNumber)
	assert.Equal(t, 4.6, flight.Rating)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetFlight_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`(?s)SELECT .+ FROM flights WHERE id = \$1`).
		WithArgs(int64(42)).
		WillReturnRows(flightRows())

	_, err := store.GetFlight(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetHotel_DecodesAmenities(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{
		"id", "name", "location", "city", "rating", "price_per_night", "amenities",
		"room_type", "available_rooms", "check_in", "check_out", "created_at",
	}).AddRow(2, "Taj Palace", "Colaba", "Mumbai", 4.8, 12000,
		[]byte(`["wifi","pool","spa"]`), "deluxe", 8, "14:00", "11:00", sampleTime)

	mock.ExpectQuery(`(?s)SELECT .+ FROM hotels WHERE id = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(rows)

	hotel, err := store.GetHotel(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"wifi", "pool", "spa"}, hotel.Amenities)
}

func TestListFlights_WithFilters(t *testing.T) {
	store, mock := newMockStore(t)

	maxPrice := 20000
	filter := ListFilter{Search: "delhi", MaxPrice: &maxPrice, Limit: 10}

	mock.ExpectQuery(`(?s)SELECT .+ FROM flights WHERE \(from_city ILIKE \$1 OR to_city ILIKE \$2\) AND price <= \$3 ORDER BY created_at DESC LIMIT \$4 OFFSET \$5`).
		WithArgs("%delhi%", "%delhi%", 20000, 10, 0).
		WillReturnRows(flightRows())

	_, err := store.ListFlights(context.Background(), filter)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListFilter_LimitClamps(t *testing.T) {
	assert.Equal(t, 20, ListFilter{}.limit())
	assert.Equal(t, 20, ListFilter{Limit: -5}.limit())
	assert.Equal(t, 100, ListFilter{Limit: 500}.limit())
	assert.Equal(t, 7, ListFilter{Limit: 7}.limit())
}

func TestUpdateRecordFields(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE flights SET price = \$1 WHERE id = \$2`).
		WithArgs(10000, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`(?s)SELECT .+ FROM flights WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(flightRows().AddRow(
			1, "IndiGo", "6E-201", "Delhi", "Mumbai", "06:00", "08:15", "2h 15m",
			10000, 25, "economy", "15kg", true, 4.6, 0, sampleTime))

	record, err := store.UpdateRecordFields(context.Background(), models.TargetFlight,
		1, map[string]any{"price": 10000})
	require.NoError(t, err)

	flight, ok := record.(*models.Flight)
	require.True(t, ok)
	assert.Equal(t, 10000, flight.Price)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRecordFields_RejectsUnknownField(t *testing.T) {
	store, _ := newMockStore(t)

	_, err := store.UpdateRecordFields(context.Background(), models.TargetFlight,
		1, map[string]any{"id": 99})
	assert.Error(t, err)

	_, err = store.UpdateRecordFields(context.Background(), models.TargetFlight,
		1, map[string]any{"price; DROP TABLE flights": 1})
	assert.Error(t, err)
}

func TestUpdateRecordFields_EmptyDelta(t *testing.T) {
	store, _ := newMockStore(t)
	_, err := store.UpdateRecordFields(context.Background(), models.TargetFlight, 1, nil)
	assert.Error(t, err)
}

func TestUpdateRecordFields_NotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE flights SET price = \$1 WHERE id = \$2`).
		WithArgs(10000, int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := store.UpdateRecordFields(context.Background(), models.TargetFlight,
		404, map[string]any{"price": 10000})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRecord(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM buses WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.DeleteRecord(context.Background(), models.TargetBus, 3))
	require.NoError(t, mock.ExpectationsWereMet())
}
