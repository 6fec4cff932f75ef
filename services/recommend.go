package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"tripbazaar/models"

	"github.com/google/uuid"
)

// RecommendContext carries the optional price preferences a recommendation
// request may supply.
type RecommendContext struct {
	Budget   *int `json:"budget,omitempty"`
	MinPrice *int `json:"minPrice,omitempty"`
	MaxPrice *int `json:"maxPrice,omitempty"`
}

// Recommendation is one scored candidate in a response payload.
type Recommendation struct {
	ID         string         `json:"id"`
	UserID     string         `json:"userId"`
	ItemID     int64          `json:"itemId"`
	Category   models.Category `json:"category"`
	Score      float64        `json:"score"`
	Reason     string         `json:"reason"`
	Confidence int            `json:"confidence"`
	Item       models.Record  `json:"item"`
	CreatedAt  time.Time      `json:"createdAt"`
}

const maxRecommendations = 5

// RankRecords scores every candidate, sorts descending by score and returns
// the top 5.
func RankRecords(userID string, category models.Category, items []models.Record, ctx RecommendContext) []Recommendation {
	now := time.Now().UTC()
	recs := make([]Recommendation, 0, len(items))
	for _, item := range items {
		score, reasons := ScoreRecord(item, ctx)
		recs = append(recs, Recommendation{
			ID:         fmt.Sprintf("REC_%s", uuid.New().String()),
			UserID:     userID,
			ItemID:     item.RecordID(),
			Category:   category,
			Score:      score,
			Reason:     joinReasons(reasons),
			Confidence: Confidence(score, len(reasons)),
			Item:       item,
			CreatedAt:  now,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

// ScoreRecord computes the weighted-sum score for one candidate. Base 50,
// each component computed independently and summed, result clamped to
// [0, 100]. Returns the score and the human-readable reasons collected
// along the way.
func ScoreRecord(item models.Record, ctx RecommendContext) (float64, []string) {
	score := 50.0
	var reasons []string

	_, price := item.PriceField()
	priceScore, priceReason := scorePriceFit(price, ctx.Budget)
	score += priceScore
	if priceReason != "" {
		reasons = append(reasons, priceReason)
	}

	if rating, ok := item.RatingValue(); ok {
		score += rating * 15
		if rating >= 4.5 {
			reasons = append(reasons, "⭐ Highly rated")
		} else if rating >= 4.0 {
			reasons = append(reasons, "👍 Good rating")
		}
	}

	availScore, availReason := scoreAvailability(item)
	score += availScore
	if availReason != "" {
		reasons = append(reasons, availReason)
	}

	catScore, catReasons := scoreCategory(item)
	score += catScore
	reasons = append(reasons, catReasons...)

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, reasons
}

func scorePriceFit(price int, budget *int) (float64, string) {
	if budget == nil || *budget <= 0 {
		switch {
		case price < 5000:
			return 25, "💰 Great value"
		case price < 15000:
			return 15, "👌 Good price"
		case price > 50000:
			return 5, "💎 Premium"
		default:
			return 10, ""
		}
	}

	ratio := float64(price) / float64(*budget)
	switch {
	case ratio <= 0.7:
		return 30, "💰 Well under budget"
	case ratio <= 0.9:
		return 20, "✅ Within budget"
	case ratio <= 1.0:
		return 10, "⚖️ At budget limit"
	default:
		return -10, "⚠️ Over budget"
	}
}

func scoreAvailability(item models.Record) (float64, string) {
	_, remaining := item.AvailabilityField()
	switch {
	case remaining > 20:
		return 15, "✅ Excellent availability"
	case remaining > 10:
		return 10, "👍 Good availability"
	case remaining > 5:
		return 5, "⚡ Limited seats"
	default:
		return 0, "⚠️ Very limited"
	}
}

func scoreCategory(item models.Record) (float64, []string) {
	score := 0.0
	var reasons []string

	switch v := item.(type) {
	case *models.Flight:
		if v.Stops == 0 {
			score += 20
			reasons = append(reasons, "✈️ Direct flight")
		}
		if v.MealIncluded {
			score += 10
			reasons = append(reasons, "🍽️ Meals included")
		}
		if v.ClassType == "business" || v.ClassType == "first" {
			score += 15
			reasons = append(reasons, "👔 Premium class")
		}
	case *models.Hotel:
		if len(v.Amenities) >= 5 {
			score += 20
			reasons = append(reasons, "🏨 Excellent amenities")
		} else if len(v.Amenities) >= 3 {
			score += 10
			reasons = append(reasons, "🛎️ Good amenities")
		}
	case *models.Bus:
		if v.BusType == "sleeper" {
			score += 15
			reasons = append(reasons, "🛏️ Sleeper bus")
		} else if v.BusType == "semi-sleeper" {
			score += 10
			reasons = append(reasons, "💺 Semi-sleeper")
		}
	case *models.Activity:
		if hours, ok := leadingInt(v.Duration); ok && hours >= 4 && hours <= 8 {
			score += 15
			reasons = append(reasons, "⏱️ Perfect duration")
		}
		if v.MaxParticipants > 20 {
			score += 10
			reasons = append(reasons, "🎉 Popular activity")
		}
	}

	return score, reasons
}

// Confidence derives a separate 0-100 certainty value from the score tier
// and the number of reasons collected.
func Confidence(score float64, reasonCount int) int {
	confidence := 50
	switch {
	case score >= 80:
		confidence += 30
	case score >= 60:
		confidence += 20
	case score >= 40:
		confidence += 10
	}

	bonus := reasonCount * 3
	if bonus > 20 {
		bonus = 20
	}
	confidence += bonus

	if confidence > 100 {
		confidence = 100
	}
	return confidence
}

func joinReasons(reasons []string) string {
	return strings.Join(reasons, " • ")
}

// leadingInt parses the integer prefix of strings like "6 hours".
func leadingInt(s string) (int, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, false
	}
	return n, true
}
