package database

import (
	"context"
	"fmt"

	"tripbazaar/models"

	"go.uber.org/zap"
)

// SeedIfEmpty loads a small starter inventory so a fresh deployment has
// something to search. No-op once any flights exist.
func (s *Store) SeedIfEmpty(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM flights`).Scan(&count); err != nil {
		return fmt.Errorf("seed check: %w", err)
	}
	if count > 0 {
		return nil
	}

	flights := []*models.Flight{
		{Airline: "IndiGo", FlightNumber: "6E-201", FromCity: "Delhi", ToCity: "Mumbai",
			DepartureTime: "06:00", ArrivalTime: "08:15", Duration: "2h 15m",
			Price: 4500, AvailableSeats: 42, ClassType: "economy",
			BaggageAllowance: "15kg", MealIncluded: false, Rating: 4.2, Stops: 0},
		{Airline: "Air India", FlightNumber: "AI-864", FromCity: "Delhi", ToCity: "Mumbai",
			DepartureTime: "09:30", ArrivalTime: "11:50", Duration: "2h 20m",
			Price: 6200, AvailableSeats: 18, ClassType: "economy",
			BaggageAllowance: "25kg", MealIncluded: true, Rating: 4.0, Stops: 0},
		{Airline: "Vistara", FlightNumber: "UK-995", FromCity: "Mumbai", ToCity: "Bengaluru",
			DepartureTime: "14:00", ArrivalTime: "15:45", Duration: "1h 45m",
			Price: 18500, AvailableSeats: 8, ClassType: "business",
			BaggageAllowance: "35kg", MealIncluded: true, Rating: 4.6, Stops: 0},
		{Airline: "SpiceJet", FlightNumber: "SG-412", FromCity: "Chennai", ToCity: "Kolkata",
			DepartureTime: "17:20", ArrivalTime: "20:05", Duration: "2h 45m",
			Price: 5100, AvailableSeats: 56, ClassType: "economy",
			BaggageAllowance: "15kg", MealIncluded: false, Rating: 3.9, Stops: 1},
	}
	for _, f := range flights {
		if err := s.CreateFlight(ctx, f); err != nil {
			return fmt.Errorf("seed flight %s: %w", f.FlightNumber, err)
		}
	}

	hotels := []*models.Hotel{
		{Name: "The Grand Palace", Location: "Marine Drive", City: "Mumbai",
			Rating: 4.7, PricePerNight: 12000, RoomType: "deluxe", AvailableRooms: 25,
			CheckIn: "14:00", CheckOut: "11:00",
			Amenities: []string{"wifi", "pool", "spa", "gym", "restaurant", "bar"}},
		{Name: "City Comfort Inn", Location: "Connaught Place", City: "Delhi",
			Rating: 4.1, PricePerNight: 4200, RoomType: "standard", AvailableRooms: 14,
			CheckIn: "12:00", CheckOut: "10:00",
			Amenities: []string{"wifi", "breakfast", "parking"}},
		{Name: "Lakeside Retreat", Location: "Ulsoor", City: "Bengaluru",
			Rating: 4.4, PricePerNight: 7800, RoomType: "suite", AvailableRooms: 6,
			CheckIn: "13:00", CheckOut: "11:00",
			Amenities: []string{"wifi", "pool", "restaurant", "gym"}},
	}
	for _, h := range hotels {
		if err := s.CreateHotel(ctx, h); err != nil {
			return fmt.Errorf("seed hotel %s: %w", h.Name, err)
		}
	}

	buses := []*models.Bus{
		{Operator: "VRL Travels", BusNumber: "VRL-330", FromCity: "Bengaluru", ToCity: "Hyderabad",
			DepartureTime: "21:00", ArrivalTime: "06:30", Duration: "9h 30m",
			Price: 1400, AvailableSeats: 32, BusType: "sleeper", Rating: 4.3,
			Amenities: []string{"charging", "blanket", "water"}},
		{Operator: "KSRTC", BusNumber: "KA-1123", FromCity: "Bengaluru", ToCity: "Chennai",
			DepartureTime: "22:30", ArrivalTime: "05:00", Duration: "6h 30m",
			Price: 900, AvailableSeats: 40, BusType: "semi-sleeper", Rating: 4.0,
			Amenities: []string{"charging", "water"}},
		{Operator: "Orange Tours", BusNumber: "OT-207", FromCity: "Hyderabad", ToCity: "Mumbai",
			DepartureTime: "19:00", ArrivalTime: "09:00", Duration: "14h",
			Price: 1800, AvailableSeats: 12, BusType: "ac", Rating: 4.1,
			Amenities: []string{"charging", "blanket", "snacks", "wifi"}},
	}
	for _, b := range buses {
		if err := s.CreateBus(ctx, b); err != nil {
			return fmt.Errorf("seed bus %s: %w", b.BusNumber, err)
		}
	}

	activities := []*models.Activity{
		{Title: "Old City Heritage Walk", Location: "Chandni Chowk", City: "Delhi",
			Description: "Guided walking tour through the lanes of Old Delhi.",
			Category: "culture", Duration: "4 hours", Price: 1200, Rating: 4.8,
			MaxParticipants: 25, AvailableSpots: 18,
			Includes: []string{"guide", "snacks", "rickshaw ride"}},
		{Title: "Elephanta Caves Ferry Tour", Location: "Gateway of India", City: "Mumbai",
			Description: "Ferry trip and guided tour of the Elephanta cave temples.",
			Category: "sightseeing", Duration: "6 hours", Price: 2500, Rating: 4.5,
			MaxParticipants: 30, AvailableSpots: 22,
			Includes: []string{"ferry", "guide", "entry tickets"}},
		{Title: "Nandi Hills Sunrise Cycling", Location: "Nandi Hills", City: "Bengaluru",
			Description: "Early morning cycle climb with breakfast at the summit.",
			Category: "adventure", Duration: "5 hours", Price: 1800, Rating: 4.6,
			MaxParticipants: 15, AvailableSpots: 4,
			Includes: []string{"cycle", "helmet", "breakfast"}},
	}
	for _, a := range activities {
		if err := s.CreateActivity(ctx, a); err != nil {
			return fmt.Errorf("seed activity %s: %w", a.Title, err)
		}
	}

	s.log.Info("seeded starter inventory",
		zap.Int("flights", len(flights)), zap.Int("hotels", len(hotels)),
		zap.Int("buses", len(buses)), zap.Int("activities", len(activities)))
	return nil
}
