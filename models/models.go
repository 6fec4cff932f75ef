package models

import "time"

// Category identifies one of the four inventory tables. It is the plural
// form used by list/search endpoints ("flights", "hotels", ...).
type Category string

const (
	CategoryFlights    Category = "flights"
	CategoryHotels     Category = "hotels"
	CategoryBuses      Category = "buses"
	CategoryActivities Category = "activities"
)

// TargetType is the singular form used by edit and booking endpoints.
type TargetType string

const (
	TargetFlight   TargetType = "flight"
	TargetHotel    TargetType = "hotel"
	TargetBus      TargetType = "bus"
	TargetActivity TargetType = "activity"
)

// ValidCategory reports whether s names a known inventory category.
func ValidCategory(s string) bool {
	switch Category(s) {
	case CategoryFlights, CategoryHotels, CategoryBuses, CategoryActivities:
		return true
	}
	return false
}

// ValidTargetType reports whether s names a known edit/booking target.
func ValidTargetType(s string) bool {
	switch TargetType(s) {
	case TargetFlight, TargetHotel, TargetBus, TargetActivity:
		return true
	}
	return false
}

// Categories maps target types to their category and back.
func (t TargetType) Category() Category {
	switch t {
	case TargetFlight:
		return CategoryFlights
	case TargetHotel:
		return CategoryHotels
	case TargetBus:
		return CategoryBuses
	case TargetActivity:
		return CategoryActivities
	}
	return ""
}

// Record is the tagged union over the four inventory variants. Field-name
// decisions that vary per category (which column holds the price, which
// holds availability, whether a rating exists at all) are answered by the
// variant itself instead of probing dynamic maps.
type Record interface {
	RecordID() int64
	Target() TargetType

	// PriceField returns the JSON field name carrying the price
	// ("price" or "pricePerNight") together with its current value.
	PriceField() (name string, value int)

	// AvailabilityField returns the JSON field name carrying remaining
	// capacity ("availableSeats", "availableRooms" or "availableSpots")
	// together with its current value.
	AvailabilityField() (name string, value int)

	// RatingValue returns the record's rating and whether the variant
	// carries one. Flights and buses report false unless seeded with a
	// nonzero rating.
	RatingValue() (float64, bool)
}

type Flight struct {
	ID               int64     `json:"id"`
	Airline          string    `json:"airline"`
	FlightNumber     string    `json:"flightNumber"`
	FromCity         string    `json:"fromCity"`
	ToCity           string    `json:"toCity"`
	DepartureTime    string    `json:"departureTime"`
	ArrivalTime      string    `json:"arrivalTime"`
	Duration         string    `json:"duration"`
	Price            int       `json:"price"`
	AvailableSeats   int       `json:"availableSeats"`
	ClassType        string    `json:"classType"`
	BaggageAllowance string    `json:"baggageAllowance,omitempty"`
	MealIncluded     bool      `json:"mealIncluded"`
	Rating           float64   `json:"rating,omitempty"`
	Stops            int       `json:"stops"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (f *Flight) RecordID() int64    { return f.ID }
func (f *Flight) Target() TargetType { return TargetFlight }

func (f *Flight) PriceField() (string, int) { return "price", f.Price }

func (f *Flight) AvailabilityField() (string, int) {
	return "availableSeats", f.AvailableSeats
}

func (f *Flight) RatingValue() (float64, bool) { return f.Rating, f.Rating > 0 }

type Hotel struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Location       string    `json:"location"`
	City           string    `json:"city"`
	Rating         float64   `json:"rating"`
	PricePerNight  int       `json:"pricePerNight"`
	Amenities      []string  `json:"amenities"`
	RoomType       string    `json:"roomType"`
	AvailableRooms int       `json:"availableRooms"`
	CheckIn        string    `json:"checkIn"`
	CheckOut       string    `json:"checkOut"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (h *Hotel) RecordID() int64    { return h.ID }
func (h *Hotel) Target() TargetType { return TargetHotel }

func (h *Hotel) PriceField() (string, int) { return "pricePerNight", h.PricePerNight }

func (h *Hotel) AvailabilityField() (string, int) {
	return "availableRooms", h.AvailableRooms
}

func (h *Hotel) RatingValue() (float64, bool) { return h.Rating, true }

type Bus struct {
	ID             int64     `json:"id"`
	Operator       string    `json:"operator"`
	BusNumber      string    `json:"busNumber"`
	FromCity       string    `json:"fromCity"`
	ToCity         string    `json:"toCity"`
	DepartureTime  string    `json:"departureTime"`
	ArrivalTime    string    `json:"arrivalTime"`
	Duration       string    `json:"duration"`
	Price          int       `json:"price"`
	AvailableSeats int       `json:"availableSeats"`
	BusType        string    `json:"busType"`
	Amenities      []string  `json:"amenities"`
	Rating         float64   `json:"rating,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (b *Bus) RecordID() int64    { return b.ID }
func (b *Bus) Target() TargetType { return TargetBus }

func (b *Bus) PriceField() (string, int) { return "price", b.Price }

func (b *Bus) AvailabilityField() (string, int) {
	return "availableSeats", b.AvailableSeats
}

func (b *Bus) RatingValue() (float64, bool) { return b.Rating, b.Rating > 0 }

type Activity struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Location        string    `json:"location"`
	City            string    `json:"city"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Duration        string    `json:"duration"`
	Price           int       `json:"price"`
	Rating          float64   `json:"rating"`
	MaxParticipants int       `json:"maxParticipants"`
	AvailableSpots  int       `json:"availableSpots"`
	Includes        []string  `json:"includes"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (a *Activity) RecordID() int64    { return a.ID }
func (a *Activity) Target() TargetType { return TargetActivity }

func (a *Activity) PriceField() (string, int) { return "price", a.Price }

func (a *Activity) AvailabilityField() (string, int) {
	return "availableSpots", a.AvailableSpots
}

func (a *Activity) RatingValue() (float64, bool) { return a.Rating, true }

// Booking is one purchased item of any category.
type Booking struct {
	ID             int64          `json:"id"`
	UserID         string         `json:"userId"`
	BookingType    TargetType     `json:"bookingType"`
	ItemID         int64          `json:"itemId"`
	BookingDetails map[string]any `json:"bookingDetails,omitempty"`
	Status         string         `json:"status"`
	TotalAmount    int            `json:"totalAmount"`
	PaymentStatus  string         `json:"paymentStatus"`
	TransactionID  string         `json:"transactionId,omitempty"`
	BookingDate    string         `json:"bookingDate"`
	TravelDate     string         `json:"travelDate"`
	Passengers     []Passenger    `json:"passengers,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// Booking lifecycle values.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"

	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
	PaymentFailed   = "failed"
)

func ValidBookingStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefunded, PaymentFailed:
		return true
	}
	return false
}

type Passenger struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	Age            int    `json:"age,omitempty"`
	PassportNumber string `json:"passportNumber,omitempty"`
}

type Favorite struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"userId"`
	ItemType  TargetType `json:"itemType"`
	ItemID    int64      `json:"itemId"`
	CreatedAt time.Time  `json:"createdAt"`
}
