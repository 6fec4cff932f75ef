// Package handlers wires the HTTP surface: CRUD over the four inventory
// categories, bookings with mock payments, favorites, the natural-language
// endpoints and the payment webhook.
package handlers

import (
	"net/http"

	"tripbazaar/cache"
	"tripbazaar/database"
	"tripbazaar/jobs"
	"tripbazaar/ratelimit"
	"tripbazaar/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Error codes carried in the {error, code} envelope.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeRateLimited  = "RATE_LIMITED"
	CodeUnsafeQuery  = "UNSAFE_QUERY"
	CodeParseError   = "PARSE_ERROR"
	CodePayment      = "PAYMENT_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
)

// Deps is everything the handlers need, constructed in main and injected.
type Deps struct {
	Store    *database.Store
	Cache    cache.Store
	Limiter  *ratelimit.Limiter
	Queue    *jobs.Queue
	Edits    *services.EditStore
	Payments *services.PaymentService
	Log      *zap.Logger
}

type API struct {
	store    *database.Store
	cache    cache.Store
	limiter  *ratelimit.Limiter
	queue    *jobs.Queue
	edits    *services.EditStore
	payments *services.PaymentService
	log      *zap.Logger
}

func New(d Deps) *API {
	return &API{
		store:    d.Store,
		cache:    d.Cache,
		limiter:  d.Limiter,
		queue:    d.Queue,
		edits:    d.Edits,
		payments: d.Payments,
		log:      d.Log,
	}
}

// Register mounts every route on the engine.
func (a *API) Register(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(a.RequestLogger(), a.RateLimit())

	api.GET("/health", a.Health)

	api.GET("/flights", a.ListFlights)
	api.GET("/flights/:id", a.GetFlight)
	api.POST("/flights", a.CreateFlight)
	api.PUT("/flights/:id", a.UpdateFlight)
	api.DELETE("/flights/:id", a.DeleteFlight)

	api.GET("/hotels", a.ListHotels)
	api.GET("/hotels/:id", a.GetHotel)
	api.POST("/hotels", a.CreateHotel)
	api.PUT("/hotels/:id", a.UpdateHotel)
	api.DELETE("/hotels/:id", a.DeleteHotel)

	api.GET("/buses", a.ListBuses)
	api.GET("/buses/:id", a.GetBus)
	api.POST("/buses", a.CreateBus)
	api.PUT("/buses/:id", a.UpdateBus)
	api.DELETE("/buses/:id", a.DeleteBus)

	api.GET("/activities", a.ListActivities)
	api.GET("/activities/:id", a.GetActivity)
	api.POST("/activities", a.CreateActivity)
	api.PUT("/activities/:id", a.UpdateActivity)
	api.DELETE("/activities/:id", a.DeleteActivity)

	api.POST("/search", a.Search)

	api.POST("/webhooks/payment", a.PaymentWebhook)

	ai := api.Group("/ai")
	ai.POST("/nl-query", a.NLQuery)
	ai.POST("/content-edit", a.ContentEditPreview)
	ai.PUT("/content-edit", a.ContentEditDecision)
	ai.POST("/recommendations", a.Recommendations)

	authed := api.Group("")
	authed.Use(a.RequireUser())
	authed.GET("/bookings", a.ListBookings)
	authed.GET("/bookings/:id", a.GetBooking)
	authed.GET("/bookings/:id/receipt", a.BookingReceipt)
	authed.POST("/bookings", a.CreateBooking)
	authed.PUT("/bookings/:id", a.UpdateBooking)
	authed.DELETE("/bookings/:id", a.DeleteBooking)

	authed.GET("/favorites", a.ListFavorites)
	authed.POST("/favorites", a.CreateFavorite)
	authed.DELETE("/favorites/:id", a.DeleteFavorite)
}

// respond wraps successful payloads in the {success, data, message} envelope.
func respond(c *gin.Context, status int, data any, message string) {
	body := gin.H{"success": true, "data": data}
	if message != "" {
		body["message"] = message
	}
	c.JSON(status, body)
}

// fail writes the {error, code} envelope.
func fail(c *gin.Context, status int, message, code string) {
	c.JSON(status, gin.H{"error": message, "code": code})
}

func (a *API) internalError(c *gin.Context, action string, err error) {
	a.log.Error(action, zap.Error(err))
	fail(c, http.StatusInternalServerError, "something went wrong, please try again", CodeInternal)
}
