package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"tripbazaar/database"
	"tripbazaar/metrics"
	"tripbazaar/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SearchRequest struct {
	Category  string   `json:"category" binding:"required"`
	Search    string   `json:"search"`
	MinPrice  *int     `json:"minPrice"`
	MaxPrice  *int     `json:"maxPrice"`
	MinRating *float64 `json:"minRating"`
	ClassType string   `json:"classType"`
	BusType   string   `json:"busType"`
	RoomType  string   `json:"roomType"`
	Limit     int      `json:"limit"`
	Offset    int      `json:"offset"`
}

const searchCacheTTL = 5 * time.Minute

// Search runs a structured cross-category search. Identical requests within
// the TTL are served from cache.
func (a *API) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request: "+err.Error(), CodeValidation)
		return
	}
	if !models.ValidCategory(req.Category) {
		fail(c, http.StatusBadRequest, "category must be one of flights, hotels, buses, activities", CodeValidation)
		return
	}

	metrics.SearchRequests.WithLabelValues(req.Category).Inc()
	ctx := c.Request.Context()

	key := searchCacheKey(req)
	if cached, err := a.cache.Get(ctx, key); err == nil {
		var data json.RawMessage = []byte(cached)
		respond(c, http.StatusOK, data, "")
		return
	}

	filter := database.ListFilter{
		Search:    req.Search,
		MinPrice:  req.MinPrice,
		MaxPrice:  req.MaxPrice,
		MinRating: req.MinRating,
		ClassType: req.ClassType,
		BusType:   req.BusType,
		RoomType:  req.RoomType,
		Limit:     req.Limit,
		Offset:    req.Offset,
	}

	var results any
	var err error
	switch models.Category(req.Category) {
	case models.CategoryFlights:
		results, err = a.store.ListFlights(ctx, filter)
	case models.CategoryHotels:
		results, err = a.store.ListHotels(ctx, filter)
	case models.CategoryBuses:
		results, err = a.store.ListBuses(ctx, filter)
	case models.CategoryActivities:
		results, err = a.store.ListActivities(ctx, filter)
	}
	if err != nil {
		a.internalError(c, "search "+req.Category, err)
		return
	}

	payload := gin.H{"category": req.Category, "results": results}
	if raw, err := json.Marshal(payload); err == nil {
		if err := a.cache.Set(ctx, key, string(raw), searchCacheTTL); err != nil {
			a.log.Warn("search cache write failed", zap.Error(err))
		}
	}

	respond(c, http.StatusOK, payload, "")
}

func searchCacheKey(req SearchRequest) string {
	raw, _ := json.Marshal(req)
	sum := sha256.Sum256(raw)
	return "search:" + hex.EncodeToString(sum[:8])
}
