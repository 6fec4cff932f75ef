package handlers

import (
	"errors"
	"net/http"
	"time"

	"tripbazaar/database"
	"tripbazaar/models"
	"tripbazaar/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CreateBookingRequest struct {
	BookingType string               `json:"bookingType" binding:"required"`
	ItemID      int64                `json:"itemId" binding:"required"`
	TravelDate  string               `json:"travelDate" binding:"required"`
	Passengers  []models.Passenger   `json:"passengers" binding:"required"`
	Payment     services.PaymentData `json:"payment"`
}

// emailJobPayload is what the send-email worker consumes.
type emailJobPayload struct {
	BookingID int64  `json:"bookingId"`
	Email     string `json:"email"`
}

// CreateBooking verifies the inventory item, captures the mock payment and
// records a confirmed booking. Email confirmation goes through the job
// queue so a slow mail provider never blocks the request.
func (a *API) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request: "+err.Error(), CodeValidation)
		return
	}
	if !models.ValidTargetType(req.BookingType) {
		fail(c, http.StatusBadRequest, "bookingType must be one of flight, hotel, bus, activity", CodeValidation)
		return
	}
	if len(req.Passengers) == 0 {
		fail(c, http.StatusBadRequest, "at least one passenger is required", CodeValidation)
		return
	}
	if _, err := time.Parse("2006-01-02", req.TravelDate); err != nil {
		fail(c, http.StatusBadRequest, "invalid travelDate format, use YYYY-MM-DD", CodeValidation)
		return
	}

	ctx := c.Request.Context()
	userID := currentUser(c)
	target := models.TargetType(req.BookingType)

	item, err := a.store.GetRecord(ctx, target, req.ItemID)
	if errors.Is(err, database.ErrNotFound) {
		fail(c, http.StatusNotFound, req.BookingType+" not found", CodeNotFound)
		return
	}
	if err != nil {
		a.internalError(c, "load booking item", err)
		return
	}

	if _, available := item.AvailabilityField(); available < len(req.Passengers) {
		fail(c, http.StatusConflict, "not enough availability for this booking", CodeValidation)
		return
	}

	_, price := item.PriceField()
	total := price * len(req.Passengers)

	req.Payment.Amount = total
	txnID, err := a.payments.Process(ctx, req.Payment, userID)
	if err != nil {
		fail(c, http.StatusPaymentRequired, err.Error(), CodePayment)
		return
	}

	booking := &models.Booking{
		UserID:        userID,
		BookingType:   target,
		ItemID:        req.ItemID,
		Status:        models.BookingConfirmed,
		TotalAmount:   total,
		PaymentStatus: models.PaymentPaid,
		TransactionID: txnID,
		BookingDate:   time.Now().UTC().Format("2006-01-02"),
		TravelDate:    req.TravelDate,
		Passengers:    req.Passengers,
	}
	if err := a.store.CreateBooking(ctx, booking); err != nil {
		a.internalError(c, "create booking", err)
		return
	}

	// Availability shrinks by the party size; the floor is enforced in
	// the update path.
	field, available := item.AvailabilityField()
	if _, err := a.store.UpdateRecordFields(ctx, target, req.ItemID,
		map[string]any{field: available - len(req.Passengers)}); err != nil {
		a.log.Warn("availability decrement failed",
			zap.Int64("booking_id", booking.ID), zap.Error(err))
	}

	if email := req.Passengers[0].Email; email != "" {
		if _, err := a.queue.Enqueue("send-email", emailJobPayload{
			BookingID: booking.ID,
			Email:     email,
		}); err != nil {
			a.log.Warn("confirmation email enqueue failed",
				zap.Int64("booking_id", booking.ID), zap.Error(err))
		}
	}

	respond(c, http.StatusCreated, booking, "booking confirmed")
}

func (a *API) ListBookings(c *gin.Context) {
	bookings, err := a.store.ListBookings(c.Request.Context(), currentUser(c), 50, 0)
	if err != nil {
		a.internalError(c, "list bookings", err)
		return
	}
	respond(c, http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)}, "")
}

func (a *API) GetBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	booking, err := a.store.GetUserBooking(c.Request.Context(), currentUser(c), id)
	if errors.Is(err, database.ErrNotFound) {
		fail(c, http.StatusNotFound, "booking not found", CodeNotFound)
		return
	}
	if err != nil {
		a.internalError(c, "get booking", err)
		return
	}
	respond(c, http.StatusOK, booking, "")
}

type UpdateBookingRequest struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
}

func (a *API) UpdateBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request: "+err.Error(), CodeValidation)
		return
	}
	if req.Status == "" && req.PaymentStatus == "" {
		fail(c, http.StatusBadRequest, "status or paymentStatus is required", CodeValidation)
		return
	}
	if req.Status != "" && !models.ValidBookingStatus(req.Status) {
		fail(c, http.StatusBadRequest, "invalid status", CodeValidation)
		return
	}
	if req.PaymentStatus != "" && !models.ValidPaymentStatus(req.PaymentStatus) {
		fail(c, http.StatusBadRequest, "invalid paymentStatus", CodeValidation)
		return
	}

	booking, err := a.store.UpdateBookingStatus(c.Request.Context(), currentUser(c), id, req.Status, req.PaymentStatus)
	if errors.Is(err, database.ErrNotFound) {
		fail(c, http.StatusNotFound, "booking not found", CodeNotFound)
		return
	}
	if err != nil {
		a.internalError(c, "update booking", err)
		return
	}
	respond(c, http.StatusOK, booking, "booking updated")
}

// DeleteBooking cancels: the row survives with cancelled/refunded status and
// the payment is refunded through the mock gateway.
func (a *API) DeleteBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	userID := currentUser(c)

	booking, err := a.store.GetUserBooking(ctx, userID, id)
	if errors.Is(err, database.ErrNotFound) {
		fail(c, http.StatusNotFound, "booking not found", CodeNotFound)
		return
	}
	if err != nil {
		a.internalError(c, "get booking", err)
		return
	}
	if booking.Status == models.BookingCancelled {
		fail(c, http.StatusConflict, "booking is already cancelled", CodeValidation)
		return
	}

	paymentStatus := booking.PaymentStatus
	if booking.PaymentStatus == models.PaymentPaid {
		if _, err := a.payments.Refund(ctx, booking.TransactionID, userID); err != nil {
			a.internalError(c, "refund booking", err)
			return
		}
		paymentStatus = models.PaymentRefunded
	}

	updated, err := a.store.UpdateBookingStatus(ctx, userID, id, models.BookingCancelled, paymentStatus)
	if err != nil {
		a.internalError(c, "cancel booking", err)
		return
	}
	respond(c, http.StatusOK, updated, "booking cancelled")
}

// BookingReceipt streams the PDF receipt for one booking.
func (a *API) BookingReceipt(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	booking, err := a.store.GetUserBooking(c.Request.Context(), currentUser(c), id)
	if errors.Is(err, database.ErrNotFound) {
		fail(c, http.StatusNotFound, "booking not found", CodeNotFound)
		return
	}
	if err != nil {
		a.internalError(c, "get booking", err)
		return
	}

	pdf, err := services.GenerateReceiptPDF(*booking)
	if err != nil {
		a.internalError(c, "generate receipt", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="receipt.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ─── Favorites ───────────────────────────────────────────────────────────────

type CreateFavoriteRequest struct {
	ItemType string `json:"itemType" binding:"required"`
	ItemID   int64  `json:"itemId" binding:"required"`
}

func (a *API) CreateFavorite(c *gin.Context) {
	var req CreateFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request: "+err.Error(), CodeValidation)
		return
	}
	if !models.ValidTargetType(req.ItemType) {
		fail(c, http.StatusBadRequest, "itemType must be one of flight, hotel, bus, activity", CodeValidation)
		return
	}

	fav := &models.Favorite{
		UserID:   currentUser(c),
		ItemType: models.TargetType(req.ItemType),
		ItemID:   req.ItemID,
	}
	if err := a.store.CreateFavorite(c.Request.Context(), fav); err != nil {
		a.internalError(c, "create favorite", err)
		return
	}
	respond(c, http.StatusCreated, fav, "added to favorites")
}

func (a *API) ListFavorites(c *gin.Context) {
	favorites, err := a.store.ListFavorites(c.Request.Context(), currentUser(c))
	if err != nil {
		a.internalError(c, "list favorites", err)
		return
	}
	respond(c, http.StatusOK, gin.H{"favorites": favorites, "count": len(favorites)}, "")
}

func (a *API) DeleteFavorite(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	err := a.store.DeleteFavorite(c.Request.Context(), currentUser(c), id)
	if errors.Is(err, database.ErrNotFound) {
		fail(c, http.StatusNotFound, "favorite not found", CodeNotFound)
		return
	}
	if err != nil {
		a.internalError(c, "delete favorite", err)
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id}, "removed from favorites")
}
