package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"tripbazaar/models"
)

// ErrNotFound is returned when a record id does not exist.
var ErrNotFound = errors.New("database: record not found")

const (
	flightColumns = `id, airline, flight_number, from_city, to_city, departure_time,
		arrival_time, duration, price, available_seats, class_type,
		baggage_allowance, meal_included, rating, stops, created_at`
	hotelColumns = `id, name, location, city, rating, price_per_night, amenities,
		room_type, available_rooms, check_in, check_out, created_at`
	busColumns = `id, operator, bus_number, from_city, to_city, departure_time,
		arrival_time, duration, price, available_seats, bus_type, amenities,
		rating, created_at`
	activityColumns = `id, title, location, city, description, category, duration,
		price, rating, max_participants, available_spots, includes, created_at`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlight(row rowScanner) (*models.Flight, error) {
	var f models.Flight
	err := row.Scan(&f.ID, &f.Airline, &f.FlightNumber, &f.FromCity, &f.ToCity,
		&f.DepartureTime, &f.ArrivalTime, &f.Duration, &f.Price, &f.AvailableSeats,
		&f.ClassType, &f.BaggageAllowance, &f.MealIncluded, &f.Rating, &f.Stops,
		&f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func scanHotel(row rowScanner) (*models.Hotel, error) {
	var h models.Hotel
	var amenities []byte
	err := row.Scan(&h.ID, &h.Name, &h.Location, &h.City, &h.Rating, &h.PricePerNight,
		&amenities, &h.RoomType, &h.AvailableRooms, &h.CheckIn, &h.CheckOut, &h.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(amenities) > 0 {
		if err := json.Unmarshal(amenities, &h.Amenities); err != nil {
			return nil, fmt.Errorf("decode hotel %d amenities: %w", h.ID, err)
		}
	}
	return &h, nil
}

func scanBus(row rowScanner) (*models.Bus, error) {
	var b models.Bus
	var amenities []byte
	err := row.Scan(&b.ID, &b.Operator, &b.BusNumber, &b.FromCity, &b.ToCity,
		&b.DepartureTime, &b.ArrivalTime, &b.Duration, &b.Price, &b.AvailableSeats,
		&b.BusType, &amenities, &b.Rating, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(amenities) > 0 {
		if err := json.Unmarshal(amenities, &b.Amenities); err != nil {
			return nil, fmt.Errorf("decode bus %d amenities: %w", b.ID, err)
		}
	}
	return &b, nil
}

func scanActivity(row rowScanner) (*models.Activity, error) {
	var a models.Activity
	var includes []byte
	err := row.Scan(&a.ID, &a.Title, &a.Location, &a.City, &a.Description, &a.Category,
		&a.Duration, &a.Price, &a.Rating, &a.MaxParticipants, &a.AvailableSpots,
		&includes, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(includes) > 0 {
		if err := json.Unmarshal(includes, &a.Includes); err != nil {
			return nil, fmt.Errorf("decode activity %d includes: %w", a.ID, err)
		}
	}
	return &a, nil
}

// ─── Get by id ───────────────────────────────────────────────────────────────

// GetRecord resolves one inventory record by target type and id.
func (s *Store) GetRecord(ctx context.Context, target models.TargetType, id int64) (models.Record, error) {
	switch target {
	case models.TargetFlight:
		return s.GetFlight(ctx, id)
	case models.TargetHotel:
		return s.GetHotel(ctx, id)
	case models.TargetBus:
		return s.GetBus(ctx, id)
	case models.TargetActivity:
		return s.GetActivity(ctx, id)
	}
	return nil, fmt.Errorf("unknown target type %q", target)
}

func (s *Store) GetFlight(ctx context.Context, id int64) (*models.Flight, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+flightColumns+` FROM flights WHERE id = $1`, id)
	f, err := scanFlight(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return f, err
}

func (s *Store) GetHotel(ctx context.Context, id int64) (*models.Hotel, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+hotelColumns+` FROM hotels WHERE id = $1`, id)
	h, err := scanHotel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return h, err
}

func (s *Store) GetBus(ctx context.Context, id int64) (*models.Bus, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+busColumns+` FROM buses WHERE id = $1`, id)
	b, err := scanBus(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *Store) GetActivity(ctx context.Context, id int64) (*models.Activity, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE id = $1`, id)
	a, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

// ─── List with filters ───────────────────────────────────────────────────────

// ListFilter is the common GET-list query surface: free-text city search,
// price bounds, category-specific equality filters, pagination.
type ListFilter struct {
	Search    string
	MinPrice  *int
	MaxPrice  *int
	MinRating *float64
	ClassType string // flights
	BusType   string // buses
	RoomType  string // hotels
	Category  string // activities
	Limit     int
	Offset    int
}

func (f ListFilter) limit() int {
	if f.Limit <= 0 {
		return 20
	}
	if f.Limit > 100 {
		return 100
	}
	return f.Limit
}

// conds accumulates WHERE clauses with ordinal placeholders. next reserves
// the next placeholder; add records the clause and its arguments.
type conds struct {
	exprs []string
	args  []any
	n     int
}

func newConds() *conds { return &conds{} }

func (c *conds) next() string {
	c.n++
	return fmt.Sprintf("$%d", c.n)
}

func (c *conds) add(expr string, args ...any) {
	c.exprs = append(c.exprs, expr)
	c.args = append(c.args, args...)
}

func (c *conds) where() string {
	if len(c.exprs) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.exprs, " AND ")
}

func limitOffset(f ListFilter, c *conds) string {
	lim := c.next()
	c.args = append(c.args, f.limit())
	off := c.next()
	c.args = append(c.args, f.Offset)
	return " LIMIT " + lim + " OFFSET " + off
}

func (s *Store) ListFlights(ctx context.Context, filter ListFilter) ([]*models.Flight, error) {
	b := newConds()
	if filter.Search != "" {
		b.add("(from_city ILIKE "+b.next()+" OR to_city ILIKE "+b.next()+")",
			"%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if filter.ClassType != "" {
		b.add("class_type = "+b.next(), filter.ClassType)
	}
	if filter.MinPrice != nil {
		b.add("price >= "+b.next(), *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		b.add("price <= "+b.next(), *filter.MaxPrice)
	}

	query := `SELECT ` + flightColumns + ` FROM flights` + b.where() +
		` ORDER BY created_at DESC` + limitOffset(filter, b)

	rows, err := s.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("list flights: %w", err)
	}
	defer rows.Close()

	var out []*models.Flight
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *Store) ListHotels(ctx context.Context, filter ListFilter) ([]*models.Hotel, error) {
	b := newConds()
	if filter.Search != "" {
		b.add("(name ILIKE "+b.next()+" OR city ILIKE "+b.next()+")",
			"%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if filter.RoomType != "" {
		b.add("room_type = "+b.next(), filter.RoomType)
	}
	if filter.MinRating != nil {
		b.add("rating >= "+b.next(), *filter.MinRating)
	}
	if filter.MinPrice != nil {
		b.add("price_per_night >= "+b.next(), *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		b.add("price_per_night <= "+b.next(), *filter.MaxPrice)
	}

	query := `SELECT ` + hotelColumns + ` FROM hotels` + b.where() +
		` ORDER BY created_at DESC` + limitOffset(filter, b)

	rows, err := s.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	defer rows.Close()

	var out []*models.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *Store) ListBuses(ctx context.Context, filter ListFilter) ([]*models.Bus, error) {
	b := newConds()
	if filter.Search != "" {
		b.add("(from_city ILIKE "+b.next()+" OR to_city ILIKE "+b.next()+")",
			"%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if filter.BusType != "" {
		b.add("bus_type = "+b.next(), filter.BusType)
	}
	if filter.MinPrice != nil {
		b.add("price >= "+b.next(), *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		b.add("price <= "+b.next(), *filter.MaxPrice)
	}

	query := `SELECT ` + busColumns + ` FROM buses` + b.where() +
		` ORDER BY created_at DESC` + limitOffset(filter, b)

	rows, err := s.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("list buses: %w", err)
	}
	defer rows.Close()

	var out []*models.Bus
	for rows.Next() {
		bus, err := scanBus(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, bus)
	}
	return out, rows.Err()
}

func (s *Store) ListActivities(ctx context.Context, filter ListFilter) ([]*models.Activity, error) {
	b := newConds()
	if filter.Search != "" {
		b.add("(title ILIKE "+b.next()+" OR city ILIKE "+b.next()+")",
			"%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if filter.Category != "" {
		b.add("category = "+b.next(), filter.Category)
	}
	if filter.MinRating != nil {
		b.add("rating >= "+b.next(), *filter.MinRating)
	}
	if filter.MinPrice != nil {
		b.add("price >= "+b.next(), *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		b.add("price <= "+b.next(), *filter.MaxPrice)
	}

	query := `SELECT ` + activityColumns + ` FROM activities` + b.where() +
		` ORDER BY created_at DESC` + limitOffset(filter, b)

	rows, err := s.db.QueryContext(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var out []*models.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ─── Create / Update / Delete ────────────────────────────────────────────────

func (s *Store) CreateFlight(ctx context.Context, f *models.Flight) error {
	return s.db.QueryRowContext(ctx, `
		INSERT INTO flights (airline, flight_number, from_city, to_city,
			departure_time, arrival_time, duration, price, available_seats,
			class_type, baggage_allowance, meal_included, rating, stops)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING id, created_at`,
		f.Airline, f.FlightNumber, f.FromCity, f.ToCity, f.DepartureTime,
		f.ArrivalTime, f.Duration, f.Price, f.AvailableSeats, f.ClassType,
		f.BaggageAllowance, f.MealIncluded, f.Rating, f.Stops).
		Scan(&f.ID, &f.CreatedAt)
}

func (s *Store) CreateHotel(ctx context.Context, h *models.Hotel) error {
	amenities, err := json.Marshal(h.Amenities)
	if err != nil {
		return err
	}
	return s.db.QueryRowContext(ctx, `
		INSERT INTO hotels (name, location, city, rating, price_per_night,
			amenities, room_type, available_rooms, check_in, check_out)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at`,
		h.Name, h.Location, h.City, h.Rating, h.PricePerNight, amenities,
		h.RoomType, h.AvailableRooms, h.CheckIn, h.CheckOut).
		Scan(&h.ID, &h.CreatedAt)
}

func (s *Store) CreateBus(ctx context.Context, b *models.Bus) error {
	amenities, err := json.Marshal(b.Amenities)
	if err != nil {
		return err
	}
	return s.db.QueryRowContext(ctx, `
		INSERT INTO buses (operator, bus_number, from_city, to_city,
			departure_time, arrival_time, duration, price, available_seats,
			bus_type, amenities, rating)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id, created_at`,
		b.Operator, b.BusNumber, b.FromCity, b.ToCity, b.DepartureTime,
		b.ArrivalTime, b.Duration, b.Price, b.AvailableSeats, b.BusType,
		amenities, b.Rating).
		Scan(&b.ID, &b.CreatedAt)
}

func (s *Store) CreateActivity(ctx context.Context, a *models.Activity) error {
	includes, err := json.Marshal(a.Includes)
	if err != nil {
		return err
	}
	return s.db.QueryRowContext(ctx, `
		INSERT INTO activities (title, location, city, description, category,
			duration, price, rating, max_participants, available_spots, includes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at`,
		a.Title, a.Location, a.City, a.Description, a.Category, a.Duration,
		a.Price, a.Rating, a.MaxParticipants, a.AvailableSpots, includes).
		Scan(&a.ID, &a.CreatedAt)
}

// Columns that field deltas may touch, by target type. JSON field name on
// the left, column on the right. Anything else in a delta is rejected.
var updatableColumns = map[models.TargetType]map[string]string{
	models.TargetFlight: {
		"airline": "airline", "flightNumber": "flight_number",
		"fromCity": "from_city", "toCity": "to_city",
		"departureTime": "departure_time", "arrivalTime": "arrival_time",
		"duration": "duration", "price": "price",
		"availableSeats": "available_seats", "classType": "class_type",
		"baggageAllowance": "baggage_allowance", "mealIncluded": "meal_included",
		"rating": "rating", "stops": "stops",
	},
	models.TargetHotel: {
		"name": "name", "location": "location", "city": "city",
		"rating": "rating", "pricePerNight": "price_per_night",
		"roomType": "room_type", "availableRooms": "available_rooms",
		"checkIn": "check_in", "checkOut": "check_out",
	},
	models.TargetBus: {
		"operator": "operator", "busNumber": "bus_number",
		"fromCity": "from_city", "toCity": "to_city",
		"departureTime": "departure_time", "arrivalTime": "arrival_time",
		"duration": "duration", "price": "price",
		"availableSeats": "available_seats", "busType": "bus_type",
		"rating": "rating",
	},
	models.TargetActivity: {
		"title": "title", "location": "location", "city": "city",
		"description": "description", "category": "category",
		"duration": "duration", "price": "price", "rating": "rating",
		"maxParticipants": "max_participants", "availableSpots": "available_spots",
	},
}

func tableFor(target models.TargetType) string {
	switch target {
	case models.TargetFlight:
		return "flights"
	case models.TargetHotel:
		return "hotels"
	case models.TargetBus:
		return "buses"
	case models.TargetActivity:
		return "activities"
	}
	return ""
}

// UpdateRecordFields applies a field→value delta to one record. Field names
// must appear in the per-target whitelist; the updated record is returned.
func (s *Store) UpdateRecordFields(ctx context.Context, target models.TargetType, id int64, fields map[string]any) (models.Record, error) {
	table := tableFor(target)
	columns := updatableColumns[target]
	if table == "" {
		return nil, fmt.Errorf("unknown target type %q", target)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty field delta for %s %d", target, id)
	}

	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for field, value := range fields {
		col, ok := columns[field]
		if !ok {
			return nil, fmt.Errorf("field %q is not updatable on %s", field, target)
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
		table, strings.Join(sets, ", "), len(args))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update %s %d: %w", target, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}

	return s.GetRecord(ctx, target, id)
}

// DeleteRecord removes one record by target type and id.
func (s *Store) DeleteRecord(ctx context.Context, target models.TargetType, id int64) error {
	table := tableFor(target)
	if table == "" {
		return fmt.Errorf("unknown target type %q", target)
	}
	res, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", target, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
