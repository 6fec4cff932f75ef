package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"tripbazaar/models"
)

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	var details, passengers []byte
	err := row.Scan(&b.ID, &b.UserID, &b.BookingType, &b.ItemID, &details,
		&b.Status, &b.TotalAmount, &b.PaymentStatus, &b.TransactionID,
		&b.BookingDate, &b.TravelDate, &passengers, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &b.BookingDetails); err != nil {
			return nil, fmt.Errorf("decode booking %d details: %w", b.ID, err)
		}
	}
	if len(passengers) > 0 {
		if err := json.Unmarshal(passengers, &b.Passengers); err != nil {
			return nil, fmt.Errorf("decode booking %d passengers: %w", b.ID, err)
		}
	}
	return &b, nil
}

const bookingColumns = `id, user_id, booking_type, item_id, booking_details,
	status, total_amount, payment_status, transaction_id, booking_date,
	travel_date, passengers, created_at`

func (s *Store) CreateBooking(ctx context.Context, b *models.Booking) error {
	details, err := json.Marshal(b.BookingDetails)
	if err != nil {
		return err
	}
	passengers, err := json.Marshal(b.Passengers)
	if err != nil {
		return err
	}
	return s.db.QueryRowContext(ctx, `
		INSERT INTO bookings (user_id, booking_type, item_id, booking_details,
			status, total_amount, payment_status, transaction_id,
			booking_date, travel_date, passengers)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at`,
		b.UserID, b.BookingType, b.ItemID, details, b.Status, b.TotalAmount,
		b.PaymentStatus, b.TransactionID, b.BookingDate, b.TravelDate, passengers).
		Scan(&b.ID, &b.CreatedAt)
}

func (s *Store) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

// GetUserBooking resolves a booking only when it belongs to the user.
func (s *Store) GetUserBooking(ctx context.Context, userID string, id int64) (*models.Booking, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 AND user_id = $2`, id, userID)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *Store) ListBookings(ctx context.Context, userID string, limit, offset int) ([]*models.Booking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+bookingColumns+` FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var out []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateBookingStatus updates status and/or payment status; empty strings
// leave the column unchanged.
func (s *Store) UpdateBookingStatus(ctx context.Context, userID string, id int64, status, paymentStatus string) (*models.Booking, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE bookings
		SET status = COALESCE(NULLIF($1, ''), status),
		    payment_status = COALESCE(NULLIF($2, ''), payment_status)
		WHERE id = $3 AND user_id = $4`,
		status, paymentStatus, id, userID)
	if err != nil {
		return nil, fmt.Errorf("update booking %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return s.GetUserBooking(ctx, userID, id)
}

// MarkBookingPayment is the webhook path: looks a booking up by transaction
// id and sets its payment state.
func (s *Store) MarkBookingPayment(ctx context.Context, transactionID, paymentStatus, bookingStatus string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE bookings SET payment_status = $1, status = $2
		WHERE transaction_id = $3`,
		paymentStatus, bookingStatus, transactionID)
	if err != nil {
		return fmt.Errorf("mark payment %s: %w", transactionID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteBooking(ctx context.Context, userID string, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM bookings WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete booking %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ─── Favorites ───────────────────────────────────────────────────────────────

func scanFavorite(row rowScanner) (*models.Favorite, error) {
	var f models.Favorite
	if err := row.Scan(&f.ID, &f.UserID, &f.ItemType, &f.ItemID, &f.CreatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *Store) CreateFavorite(ctx context.Context, f *models.Favorite) error {
	// ON CONFLICT keeps the call idempotent per (user, item).
	return s.db.QueryRowContext(ctx, `
		INSERT INTO favorites (user_id, item_type, item_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, item_type, item_id)
		DO UPDATE SET item_id = favorites.item_id
		RETURNING id, created_at`,
		f.UserID, f.ItemType, f.ItemID).
		Scan(&f.ID, &f.CreatedAt)
}

func (s *Store) ListFavorites(ctx context.Context, userID string) ([]*models.Favorite, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, item_type, item_id, created_at
		FROM favorites WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	var out []*models.Favorite
	for rows.Next() {
		f, err := scanFavorite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *Store) DeleteFavorite(ctx context.Context, userID string, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete favorite %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
