package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"matchpoint/internal/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const bookingColumns = "id, user_id, coach_id, court, type, start_time, end_time, status, coach_confirmed, manager_confirmed, notes, created_at, updated_at"

func scanBooking(row interface{ Scan(...any) error }) (model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.UserID, &b.CoachID, &b.Court, &b.Type, &b.StartTime,
		&b.EndTime, &b.Status, &b.CoachConfirmed, &b.ManagerConfirmed, &b.Notes,
		&b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// CreateBooking inserts a booking and its participants in one transaction.
// The conflict check and the insert share the transaction so two concurrent
// requests cannot both pass the check; the bookings exclusion constraint is
// the final arbiter and surfaces as ErrBookingConflict as well.
func (r *DatabaseRepository) CreateBooking(ctx context.Context, b model.Booking, participants []model.BookingParticipant) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var conflictID uuid.UUID
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM bookings
		WHERE court = $1
		  AND status <> 'cancelled'
		  AND manager_confirmed
		  AND start_time < $3
		  AND end_time > $2
		LIMIT 1
		FOR UPDATE`,
		b.Court, b.StartTime, b.EndTime).Scan(&conflictID)
	if err == nil {
		return ErrBookingConflict
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check booking conflicts: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		b.ID, b.UserID, b.CoachID, b.Court, b.Type, b.StartTime, b.EndTime,
		b.Status, b.CoachConfirmed, b.ManagerConfirmed, b.Notes, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if isPgErr(err, pgExclusionViolation) {
			return ErrBookingConflict
		}
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	for _, p := range participants {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO booking_participants (id, booking_id, user_id, full_name, email, is_registered, participant_type, order_index)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			p.ID, p.BookingID, p.UserID, p.FullName, p.Email, p.IsRegistered,
			p.ParticipantType, p.OrderIndex)
		if err != nil {
			return fmt.Errorf("failed to insert booking participant: %w", err)
		}
	}

	return tx.Commit()
}

func (r *DatabaseRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Booking{}, ErrBookingNotFound
		}
		return model.Booking{}, err
	}

	b.Participants, err = r.participantsByBookingIDs(ctx, []uuid.UUID{id})
	if err != nil {
		return model.Booking{}, err
	}
	return b, nil
}

// ListBookings returns bookings matching the filter, with participants merged
// in from a single IN query rather than one query per booking.
func (r *DatabaseRepository) ListBookings(ctx context.Context, filter BookingFilter) ([]model.Booking, error) {
	query := "SELECT " + bookingColumns + " FROM bookings WHERE 1=1"
	args := []any{}
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if filter.CoachID != nil {
		args = append(args, *filter.CoachID)
		query += fmt.Sprintf(" AND coach_id = $%d", len(args))
	}
	query += " ORDER BY start_time DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []model.Booking
	var ids []uuid.UUID
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return bookings, nil
	}

	participants, err := r.participantsByBookingIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byBooking := make(map[uuid.UUID][]model.BookingParticipant, len(bookings))
	for _, p := range participants {
		byBooking[p.BookingID] = append(byBooking[p.BookingID], p)
	}
	for i := range bookings {
		bookings[i].Participants = byBooking[bookings[i].ID]
	}
	return bookings, nil
}

func (r *DatabaseRepository) participantsByBookingIDs(ctx context.Context, ids []uuid.UUID) ([]model.BookingParticipant, error) {
	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, booking_id, user_id, full_name, email, is_registered, participant_type, order_index
		FROM booking_participants
		WHERE booking_id = ANY($1)
		ORDER BY booking_id, order_index`,
		pq.Array(idStrings))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []model.BookingParticipant
	for rows.Next() {
		var p model.BookingParticipant
		if err := rows.Scan(&p.ID, &p.BookingID, &p.UserID, &p.FullName, &p.Email,
			&p.IsRegistered, &p.ParticipantType, &p.OrderIndex); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// ListCourtConflicts returns non-cancelled, manager-confirmed bookings on the
// court overlapping [start, end), optionally excluding one booking (used when
// rescheduling).
func (r *DatabaseRepository) ListCourtConflicts(ctx context.Context, court string, start, end time.Time, excludeID *uuid.UUID) ([]model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + ` FROM bookings
		WHERE court = $1
		  AND status <> 'cancelled'
		  AND manager_confirmed
		  AND start_time < $3
		  AND end_time > $2`
	args := []any{court, start, end}
	if excludeID != nil {
		args = append(args, *excludeID)
		query += fmt.Sprintf(" AND id <> $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *DatabaseRepository) UpdateBooking(ctx context.Context, b model.Booking) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET coach_id = $1, court = $2, type = $3, start_time = $4, end_time = $5,
		    status = $6, coach_confirmed = $7, manager_confirmed = $8, notes = $9,
		    updated_at = NOW()
		WHERE id = $10`,
		b.CoachID, b.Court, b.Type, b.StartTime, b.EndTime, b.Status,
		b.CoachConfirmed, b.ManagerConfirmed, b.Notes, b.ID)
	if err != nil {
		if isPgErr(err, pgExclusionViolation) {
			return ErrBookingConflict
		}
		return fmt.Errorf("failed to update booking: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *DatabaseRepository) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	// Participants go with the booking (ON DELETE CASCADE).
	result, err := r.db.ExecContext(ctx, "DELETE FROM bookings WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrBookingNotFound
	}
	return nil
}
