package handlers

import (
	"errors"
	"net/http"
	"time"

	"tripbazaar/cache"
	"tripbazaar/database"
	"tripbazaar/metrics"
	"tripbazaar/models"
	"tripbazaar/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ─── Natural-language queries ────────────────────────────────────────────────

type NLQueryRequest struct {
	Query    string `json:"query" binding:"required"`
	Category string `json:"category" binding:"required"`
}

// NLQuery parses a free-text search phrase, validates the parsed form and
// executes it against the inventory. Queries failing safety validation are
// rejected before any SQL is built.
func (a *API) NLQuery(c *gin.Context) {
	var req NLQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "query and category are required", CodeValidation)
		return
	}
	if !models.ValidCategory(req.Category) {
		fail(c, http.StatusBadRequest, "category must be one of flights, hotels, buses, activities", CodeValidation)
		return
	}

	category := models.Category(req.Category)
	parsed := services.ParseFilterQuery(req.Query, category)

	if !services.ValidateQuerySafety(parsed) {
		metrics.NLQueries.WithLabelValues(req.Category, "unsafe").Inc()
		a.log.Warn("unsafe query rejected",
			zap.String("category", req.Category), zap.String("query", req.Query))
		fail(c, http.StatusBadRequest, "query failed safety validation", CodeUnsafeQuery)
		return
	}

	results, err := a.store.ExecuteFilterQuery(c.Request.Context(), category, parsed)
	if err != nil {
		metrics.NLQueries.WithLabelValues(req.Category, "error").Inc()
		a.internalError(c, "execute filter query", err)
		return
	}

	metrics.NLQueries.WithLabelValues(req.Category, "ok").Inc()
	respond(c, http.StatusOK, gin.H{
		"id":            "QUERY_" + uuid.New().String(),
		"originalQuery": req.Query,
		"category":      req.Category,
		"parsed":        parsed,
		"isSafe":        true,
		"results":       results,
		"resultsCount":  len(results),
		"createdAt":     time.Now().UTC().Format(time.RFC3339),
	}, "")
}

// ─── Content edits ───────────────────────────────────────────────────────────

type ContentEditRequest struct {
	Command    string `json:"command" binding:"required"`
	TargetType string `json:"targetType" binding:"required"`
	TargetID   int64  `json:"targetId" binding:"required"`
}

// ContentEditPreview parses a plain-language edit command against the live
// record and stores the resulting preview. Nothing is written to the record
// until the caller applies the preview.
func (a *API) ContentEditPreview(c *gin.Context) {
	var req ContentEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "command, targetType and targetId are required", CodeValidation)
		return
	}
	if !models.ValidTargetType(req.TargetType) {
		fail(c, http.StatusBadRequest, "targetType must be one of flight, hotel, bus, activity", CodeValidation)
		return
	}

	ctx := c.Request.Context()
	target := models.TargetType(req.TargetType)

	original, err := a.store.GetRecord(ctx, target, req.TargetID)
	if errors.Is(err, database.ErrNotFound) {
		fail(c, http.StatusNotFound, req.TargetType+" not found", CodeNotFound)
		return
	}
	if err != nil {
		a.internalError(c, "load edit target", err)
		return
	}

	delta := services.ParseEditCommand(req.Command, original)
	if len(delta) == 0 {
		metrics.EditPreviews.WithLabelValues(req.TargetType, "unparsed").Inc()
		fail(c, http.StatusBadRequest, "could not parse edit command", CodeParseError)
		return
	}

	edit, err := services.NewEditPreview(original, delta, req.Command, currentUser(c))
	if err != nil {
		a.internalError(c, "build edit preview", err)
		return
	}
	if err := a.edits.Save(ctx, edit); err != nil {
		a.internalError(c, "save edit preview", err)
		return
	}

	metrics.EditPreviews.WithLabelValues(req.TargetType, "preview").Inc()
	respond(c, http.StatusOK, edit, "")
}

type EditDecisionRequest struct {
	EditID string `json:"editId" binding:"required"`
	Action string `json:"action" binding:"required"`
}

// ContentEditDecision applies or rejects a stored preview. Apply replays the
// stored delta; field maps supplied by the caller are ignored.
func (a *API) ContentEditDecision(c *gin.Context) {
	var req EditDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "editId and action are required", CodeValidation)
		return
	}

	switch req.Action {
	case "apply", "reject":
		// handled below
	case "rollback":
		fail(c, http.StatusNotImplemented, "rollback is not supported", CodeValidation)
		return
	default:
		fail(c, http.StatusBadRequest, "action must be apply, reject or rollback", CodeValidation)
		return
	}

	ctx := c.Request.Context()
	edit, err := a.edits.Get(ctx, req.EditID)
	if errors.Is(err, cache.ErrMiss) {
		fail(c, http.StatusNotFound, "edit preview not found or expired", CodeNotFound)
		return
	}
	if err != nil {
		a.internalError(c, "load edit preview", err)
		return
	}
	if edit.Status != services.EditStatusPreview {
		fail(c, http.StatusConflict, "edit has already been "+edit.Status, CodeValidation)
		return
	}

	if req.Action == "reject" {
		edit.Status = services.EditStatusRejected
		if err := a.edits.Delete(ctx, edit.ID); err != nil {
			a.log.Warn("edit preview delete failed", zap.String("edit_id", edit.ID), zap.Error(err))
		}
		metrics.EditPreviews.WithLabelValues(string(edit.TargetType), "rejected").Inc()
		respond(c, http.StatusOK, edit, "edit rejected")
		return
	}

	record, err := a.store.UpdateRecordFields(ctx, edit.TargetType, edit.TargetID, edit.ChangedFields)
	if errors.Is(err, database.ErrNotFound) {
		fail(c, http.StatusNotFound, string(edit.TargetType)+" not found", CodeNotFound)
		return
	}
	if err != nil {
		a.internalError(c, "apply edit", err)
		return
	}

	edit.Status = services.EditStatusApplied
	if err := a.edits.Delete(ctx, edit.ID); err != nil {
		a.log.Warn("edit preview delete failed", zap.String("edit_id", edit.ID), zap.Error(err))
	}
	metrics.EditPreviews.WithLabelValues(string(edit.TargetType), "applied").Inc()
	respond(c, http.StatusOK, gin.H{"edit": edit, "record": record}, "edit applied")
}

// ─── Recommendations ─────────────────────────────────────────────────────────

type RecommendationsRequest struct {
	Category string `json:"category" binding:"required"`
	Budget   *int   `json:"budget"`
	MinPrice *int   `json:"minPrice"`
	MaxPrice *int   `json:"maxPrice"`
}

// Recommendations scores available inventory against the caller's budget
// and returns the top picks with human-readable reasons.
func (a *API) Recommendations(c *gin.Context) {
	var req RecommendationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "category is required", CodeValidation)
		return
	}
	if !models.ValidCategory(req.Category) {
		fail(c, http.StatusBadRequest, "category must be one of flights, hotels, buses, activities", CodeValidation)
		return
	}

	category := models.Category(req.Category)
	candidates, err := a.store.ListCandidates(c.Request.Context(), category, req.MinPrice, req.MaxPrice)
	if err != nil {
		a.internalError(c, "load recommendation candidates", err)
		return
	}

	recommendations := services.RankRecords(currentUser(c), category, candidates, services.RecommendContext{
		Budget:   req.Budget,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
	})

	respond(c, http.StatusOK, gin.H{
		"recommendations": recommendations,
		"count":           len(recommendations),
	}, "")
}
