package services

import (
	"testing"

	"tripbazaar/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreRecord_FlightWithinBudget(t *testing.T) {
	// price 15000 against budget 20000 gives ratio 0.75 (+20), rating 4.6
	// adds 69, availability 25 adds 15, direct flight adds 20. The raw sum
	// exceeds 100, so the score clamps.
	flight := &models.Flight{
		ID:             1,
		Price:          15000,
		AvailableSeats: 25,
		Rating:         4.6,
		Stops:          0,
		ClassType:      "economy",
	}
	budget := 20000

	score, reasons := ScoreRecord(flight, RecommendContext{Budget: &budget})
	assert.Equal(t, 100.0, score)
	assert.Contains(t, reasons, "✅ Within budget")
	assert.Contains(t, reasons, "⭐ Highly rated")
	assert.Contains(t, reasons, "✅ Excellent availability")
	assert.Contains(t, reasons, "✈️ Direct flight")
}

func TestScoreRecord_OverBudget(t *testing.T) {
	flight := &models.Flight{ID: 2, Price: 30000, AvailableSeats: 3, Stops: 2}
	budget := 20000

	score, reasons := ScoreRecord(flight, RecommendContext{Budget: &budget})
	// 50 - 10 (over budget) + 0 (availability) + 0 (category)
	assert.Equal(t, 40.0, score)
	assert.Contains(t, reasons, "⚠️ Over budget")
	assert.Contains(t, reasons, "⚠️ Very limited")
}

func TestScoreRecord_NoBudgetTiers(t *testing.T) {
	tests := []struct {
		price  int
		delta  float64
		reason string
	}{
		{4000, 25, "💰 Great value"},
		{10000, 15, "👌 Good price"},
		{60000, 5, "💎 Premium"},
		{20000, 10, ""},
	}
	for _, tt := range tests {
		score, _ := scorePriceFit(tt.price, nil)
		assert.Equal(t, tt.delta, score, "price %d", tt.price)
	}
}

func TestScoreRecord_ClampedAtZero(t *testing.T) {
	// Nothing in the scoring model can push below zero from base 50, but the
	// clamp guards the floor regardless.
	bus := &models.Bus{ID: 3, Price: 900000, AvailableSeats: 0}
	budget := 1000
	score, _ := ScoreRecord(bus, RecommendContext{Budget: &budget})
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 100.0)
}

func TestScoreRecord_HotelAmenities(t *testing.T) {
	hotel := &models.Hotel{
		ID:             4,
		Rating:         3.0,
		PricePerNight:  4000,
		AvailableRooms: 8,
		Amenities:      []string{"wifi", "pool", "gym", "spa", "parking"},
	}
	_, reasons := ScoreRecord(hotel, RecommendContext{})
	assert.Contains(t, reasons, "🏨 Excellent amenities")
}

func TestScoreRecord_ActivityDuration(t *testing.T) {
	activity := &models.Activity{
		ID:              5,
		Price:           3000,
		Rating:          4.0,
		Duration:        "6 hours",
		MaxParticipants: 30,
		AvailableSpots:  15,
	}
	_, reasons := ScoreRecord(activity, RecommendContext{})
	assert.Contains(t, reasons, "⏱️ Perfect duration")
	assert.Contains(t, reasons, "🎉 Popular activity")
}

func TestRankRecords_TopFiveSortedDescending(t *testing.T) {
	var items []models.Record
	for i := 1; i <= 8; i++ {
		items = append(items, &models.Flight{
			ID:             int64(i),
			Price:          i * 4000,
			AvailableSeats: 30,
		})
	}

	recs := RankRecords("user-1", models.CategoryFlights, items, RecommendContext{})
	require.Len(t, recs, 5)
	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Score, recs[i].Score)
	}
	for _, rec := range recs {
		assert.Regexp(t, `^REC_`, rec.ID)
		assert.Equal(t, "user-1", rec.UserID)
		assert.Equal(t, models.CategoryFlights, rec.Category)
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		score   float64
		reasons int
		want    int
	}{
		{85, 0, 80},  // 50 + 30
		{85, 10, 100}, // reason bonus capped at 20
		{65, 2, 76},  // 50 + 20 + 6
		{45, 1, 63},  // 50 + 10 + 3
		{30, 0, 50},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Confidence(tt.score, tt.reasons), "score %.0f reasons %d", tt.score, tt.reasons)
	}
}
