package handlers

import (
	"errors"
	"net/http"

	"tripbazaar/database"
	"tripbazaar/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PaymentWebhookEvent struct {
	Type string `json:"type" binding:"required"`
	Data struct {
		TransactionID string `json:"transactionId" binding:"required"`
	} `json:"data"`
}

// PaymentWebhook ingests gateway events and moves the matching booking's
// payment status. Unknown event types are acknowledged and ignored so the
// gateway stops retrying them.
func (a *API) PaymentWebhook(c *gin.Context) {
	var event PaymentWebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		fail(c, http.StatusBadRequest, "invalid webhook payload", CodeValidation)
		return
	}

	var paymentStatus, bookingStatus string
	switch event.Type {
	case "payment_intent.succeeded":
		paymentStatus, bookingStatus = models.PaymentPaid, models.BookingConfirmed
	case "payment_intent.payment_failed":
		paymentStatus, bookingStatus = models.PaymentFailed, models.BookingPending
	case "charge.refunded":
		paymentStatus, bookingStatus = models.PaymentRefunded, models.BookingCancelled
	default:
		a.log.Info("ignoring webhook event", zap.String("type", event.Type))
		respond(c, http.StatusOK, gin.H{"received": true, "handled": false}, "")
		return
	}

	err := a.store.MarkBookingPayment(c.Request.Context(),
		event.Data.TransactionID, paymentStatus, bookingStatus)
	if errors.Is(err, database.ErrNotFound) {
		fail(c, http.StatusNotFound, "no booking for transaction", CodeNotFound)
		return
	}
	if err != nil {
		a.internalError(c, "handle payment webhook", err)
		return
	}

	a.log.Info("payment webhook handled",
		zap.String("type", event.Type),
		zap.String("transaction_id", event.Data.TransactionID),
		zap.String("payment_status", paymentStatus))
	respond(c, http.StatusOK, gin.H{"received": true, "handled": true}, "")
}
