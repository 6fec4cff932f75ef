package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"tripbazaar/database"
	"tripbazaar/models"

	"github.com/gin-gonic/gin"
)

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		fail(c, http.StatusBadRequest, "invalid id", CodeValidation)
		return 0, false
	}
	return id, true
}

// parseListFilter reads the shared list query surface: ?search, price
// bounds, category-specific equality filters and pagination.
func parseListFilter(c *gin.Context) database.ListFilter {
	filter := database.ListFilter{
		Search:    c.Query("search"),
		ClassType: c.Query("classType"),
		BusType:   c.Query("busType"),
		RoomType:  c.Query("roomType"),
		Category:  c.Query("category"),
	}
	if n, err := strconv.Atoi(c.Query("minPrice")); err == nil {
		filter.MinPrice = &n
	}
	if n, err := strconv.Atoi(c.Query("maxPrice")); err == nil {
		filter.MaxPrice = &n
	}
	if f, err := strconv.ParseFloat(c.Query("minRating"), 64); err == nil {
		filter.MinRating = &f
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return filter
}

func (a *API) getRecord(c *gin.Context, target models.TargetType) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	record, err := a.store.GetRecord(c.Request.Context(), target, id)
	if errors.Is(err, database.ErrNotFound) {
		fail(c, http.StatusNotFound, string(target)+" not found", CodeNotFound)
		return
	}
	if err != nil {
		a.internalError(c, "get "+string(target), err)
		return
	}
	respond(c, http.StatusOK, record, "")
}

func (a *API) updateRecord(c *gin.Context, target models.TargetType) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil || len(fields) == 0 {
		fail(c, http.StatusBadRequest, "request body must be a non-empty JSON object", CodeValidation)
		return
	}
	record, err := a.store.UpdateRecordFields(c.Request.Context(), target, id, fields)
	if errors.Is(err, database.ErrNotFound) {
		fail(c, http.StatusNotFound, string(target)+" not found", CodeNotFound)
		return
	}
	if err != nil {
		// Whitelist rejections surface as 400, everything else is internal.
		fail(c, http.StatusBadRequest, err.Error(), CodeValidation)
		return
	}
	respond(c, http.StatusOK, record, string(target)+" updated")
}

func (a *API) deleteRecord(c *gin.Context, target models.TargetType) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	err := a.store.DeleteRecord(c.Request.Context(), target, id)
	if errors.Is(err, database.ErrNotFound) {
		fail(c, http.StatusNotFound, string(target)+" not found", CodeNotFound)
		return
	}
	if err != nil {
		a.internalError(c, "delete "+string(target), err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id}, string(target)+" deleted")
}

// ─── Flights ─────────────────────────────────────────────────────────────────

func (a *API) ListFlights(c *gin.Context) {
	flights, err := a.store.ListFlights(c.Request.Context(), parseListFilter(c))
	if err != nil {
		a.internalError(c, "list flights", err)
		return
	}
	respond(c, http.StatusOK, gin.H{"flights": flights, "count": len(flights)}, "")
}

func (a *API) GetFlight(c *gin.Context)    { a.getRecord(c, models.TargetFlight) }
func (a *API) UpdateFlight(c *gin.Context) { a.updateRecord(c, models.TargetFlight) }
func (a *API) DeleteFlight(c *gin.Context) { a.deleteRecord(c, models.TargetFlight) }

func (a *API) CreateFlight(c *gin.Context) {
	var f models.Flight
	if err := c.ShouldBindJSON(&f); err != nil {
		fail(c, http.StatusBadRequest, "invalid request: "+err.Error(), CodeValidation)
		return
	}
	switch {
	case f.Airline == "" || f.FlightNumber == "":
		fail(c, http.StatusBadRequest, "airline and flightNumber are required", CodeValidation)
		return
	case f.FromCity == "" || f.ToCity == "":
		fail(c, http.StatusBadRequest, "fromCity and toCity are required", CodeValidation)
		return
	case f.Price <= 0:
		fail(c, http.StatusBadRequest, "price must be positive", CodeValidation)
		return
	case f.AvailableSeats < 0:
		fail(c, http.StatusBadRequest, "availableSeats cannot be negative", CodeValidation)
		return
	}
	if f.ClassType == "" {
		f.ClassType = "economy"
	}
	if err := a.store.CreateFlight(c.Request.Context(), &f); err != nil {
		a.internalError(c, "create flight", err)
		return
	}
	respond(c, http.StatusCreated, &f, "flight created")
}

// ─── Hotels ──────────────────────────────────────────────────────────────────

func (a *API) ListHotels(c *gin.Context) {
	hotels, err := a.store.ListHotels(c.Request.Context(), parseListFilter(c))
	if err != nil {
		a.internalError(c, "list hotels", err)
		return
	}
	respond(c, http.StatusOK, gin.H{"hotels": hotels, "count": len(hotels)}, "")
}

func (a *API) GetHotel(c *gin.Context)    { a.getRecord(c, models.TargetHotel) }
func (a *API) UpdateHotel(c *gin.Context) { a.updateRecord(c, models.TargetHotel) }
func (a *API) DeleteHotel(c *gin.Context) { a.deleteRecord(c, models.TargetHotel) }

func (a *API) CreateHotel(c *gin.Context) {
	var h models.Hotel
	if err := c.ShouldBindJSON(&h); err != nil {
		fail(c, http.StatusBadRequest, "invalid request: "+err.Error(), CodeValidation)
		return
	}
	switch {
	case h.Name == "" || h.City == "":
		fail(c, http.StatusBadRequest, "name and city are required", CodeValidation)
		return
	case h.PricePerNight <= 0:
		fail(c, http.StatusBadRequest, "pricePerNight must be positive", CodeValidation)
		return
	case h.Rating < 0 || h.Rating > 5:
		fail(c, http.StatusBadRequest, "rating must be between 0 and 5", CodeValidation)
		return
	}
	if err := a.store.CreateHotel(c.Request.Context(), &h); err != nil {
		a.internalError(c, "create hotel", err)
		return
	}
	respond(c, http.StatusCreated, &h, "hotel created")
}

// ─── Buses ───────────────────────────────────────────────────────────────────

func (a *API) ListBuses(c *gin.Context) {
	buses, err := a.store.ListBuses(c.Request.Context(), parseListFilter(c))
	if err != nil {
		a.internalError(c, "list buses", err)
		return
	}
	respond(c, http.StatusOK, gin.H{"buses": buses, "count": len(buses)}, "")
}

func (a *API) GetBus(c *gin.Context)    { a.getRecord(c, models.TargetBus) }
func (a *API) UpdateBus(c *gin.Context) { a.updateRecord(c, models.TargetBus) }
func (a *API) DeleteBus(c *gin.Context) { a.deleteRecord(c, models.TargetBus) }

func (a *API) CreateBus(c *gin.Context) {
	var b models.Bus
	if err := c.ShouldBindJSON(&b); err != nil {
		fail(c, http.StatusBadRequest, "invalid request: "+err.Error(), CodeValidation)
		return
	}
	switch {
	case b.Operator == "" || b.BusNumber == "":
		fail(c, http.StatusBadRequest, "operator and busNumber are required", CodeValidation)
		return
	case b.FromCity == "" || b.ToCity == "":
		fail(c, http.StatusBadRequest, "fromCity and toCity are required", CodeValidation)
		return
	case b.Price <= 0:
		fail(c, http.StatusBadRequest, "price must be positive", CodeValidation)
		return
	}
	if err := a.store.CreateBus(c.Request.Context(), &b); err != nil {
		a.internalError(c, "create bus", err)
		return
	}
	respond(c, http.StatusCreated, &b, "bus created")
}

// ─── Activities ──────────────────────────────────────────────────────────────

func (a *API) ListActivities(c *gin.Context) {
	activities, err := a.store.ListActivities(c.Request.Context(), parseListFilter(c))
	if err != nil {
		a.internalError(c, "list activities", err)
		return
	}
	respond(c, http.StatusOK, gin.H{"activities": activities, "count": len(activities)}, "")
}

func (a *API) GetActivity(c *gin.Context)    { a.getRecord(c, models.TargetActivity) }
func (a *API) UpdateActivity(c *gin.Context) { a.updateRecord(c, models.TargetActivity) }
func (a *API) DeleteActivity(c *gin.Context) { a.deleteRecord(c, models.TargetActivity) }

func (a *API) CreateActivity(c *gin.Context) {
	var act models.Activity
	if err := c.ShouldBindJSON(&act); err != nil {
		fail(c, http.StatusBadRequest, "invalid request: "+err.Error(), CodeValidation)
		return
	}
	switch {
	case act.Title == "" || act.City == "":
		fail(c, http.StatusBadRequest, "title and city are required", CodeValidation)
		return
	case act.Price <= 0:
		fail(c, http.StatusBadRequest, "price must be positive", CodeValidation)
		return
	case act.Rating < 0 || act.Rating > 5:
		fail(c, http.StatusBadRequest, "rating must be between 0 and 5", CodeValidation)
		return
	}
	if err := a.store.CreateActivity(c.Request.Context(), &act); err != nil {
		a.internalError(c, "create activity", err)
		return
	}
	respond(c, http.StatusCreated, &act, "activity created")
}
