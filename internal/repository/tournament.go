package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"matchpoint/internal/model"

	"github.com/google/uuid"
)

const tournamentColumns = "id, title, description, start_date, tournament_type, max_participants, status, category, level, created_at, updated_at"

func scanTournament(row interface{ Scan(...any) error }) (model.Tournament, error) {
	var t model.Tournament
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.StartDate, &t.Type,
		&t.MaxParticipants, &t.Status, &t.Category, &t.Level, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *DatabaseRepository) CreateTournament(ctx context.Context, t model.Tournament) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tournaments (`+tournamentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.Title, t.Description, t.StartDate, t.Type, t.MaxParticipants,
		t.Status, t.Category, t.Level, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (r *DatabaseRepository) GetTournamentByID(ctx context.Context, id uuid.UUID) (model.Tournament, error) {
	t, err := scanTournament(r.db.QueryRowContext(ctx,
		"SELECT "+tournamentColumns+" FROM tournaments WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Tournament{}, ErrTournamentNotFound
		}
		return model.Tournament{}, err
	}
	return t, nil
}

func (r *DatabaseRepository) ListTournaments(ctx context.Context, status *model.TournamentStatus) ([]model.Tournament, error) {
	query := "SELECT " + tournamentColumns + " FROM tournaments"
	args := []any{}
	if status != nil {
		args = append(args, *status)
		query += " WHERE status = $1"
	}
	query += " ORDER BY start_date DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tournaments []model.Tournament
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, err
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

func (r *DatabaseRepository) UpdateTournament(ctx context.Context, t model.Tournament) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE tournaments
		SET title = $1, description = $2, start_date = $3, tournament_type = $4,
		    max_participants = $5, status = $6, category = $7, level = $8, updated_at = NOW()
		WHERE id = $9`,
		t.Title, t.Description, t.StartDate, t.Type, t.MaxParticipants,
		t.Status, t.Category, t.Level, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update tournament: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrTournamentNotFound
	}
	return nil
}

func (r *DatabaseRepository) DeleteTournament(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM tournaments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete tournament: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrTournamentNotFound
	}
	return nil
}

// EnrollParticipant checks tournament status and capacity and inserts the
// enrollment in one transaction. The tournament row is locked for the
// duration so the capacity count cannot go stale; the unique index on
// (tournament_id, user_id) rejects duplicate enrollments.
func (r *DatabaseRepository) EnrollParticipant(ctx context.Context, p model.TournamentParticipant) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var maxParticipants int
	var status model.TournamentStatus
	err = tx.QueryRowContext(ctx,
		"SELECT max_participants, status FROM tournaments WHERE id = $1 FOR UPDATE",
		p.TournamentID).Scan(&maxParticipants, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to lock tournament: %w", err)
	}

	if status != model.TournamentStatusAperto {
		return ErrTournamentClosed
	}

	var count int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tournament_participants WHERE tournament_id = $1",
		p.TournamentID).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count participants: %w", err)
	}
	if count >= maxParticipants {
		return ErrTournamentFull
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tournament_participants (id, tournament_id, user_id, status, enrolled_at)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.TournamentID, p.UserID, p.Status, p.EnrolledAt)
	if err != nil {
		if isPgErr(err, pgUniqueViolation) {
			return ErrAlreadyEnrolled
		}
		return fmt.Errorf("failed to insert participant: %w", err)
	}

	return tx.Commit()
}

func (r *DatabaseRepository) UnenrollParticipant(ctx context.Context, tournamentID, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM tournament_participants WHERE tournament_id = $1 AND user_id = $2",
		tournamentID, userID)
	if err != nil {
		return fmt.Errorf("failed to unenroll participant: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrEnrollmentNotFound
	}
	return nil
}

func (r *DatabaseRepository) ListParticipants(ctx context.Context, tournamentID uuid.UUID) ([]model.TournamentParticipant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tournament_id, user_id, status, enrolled_at
		FROM tournament_participants
		WHERE tournament_id = $1
		ORDER BY enrolled_at`,
		tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []model.TournamentParticipant
	for rows.Next() {
		var p model.TournamentParticipant
		if err := rows.Scan(&p.ID, &p.TournamentID, &p.UserID, &p.Status, &p.EnrolledAt); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *DatabaseRepository) CountParticipants(ctx context.Context, tournamentID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tournament_participants WHERE tournament_id = $1",
		tournamentID).Scan(&count)
	return count, err
}

const matchColumns = "id, tournament_id, player1_id, player2_id, winner_id, status, scheduled_time, sets, created_at"

func (r *DatabaseRepository) CreateMatch(ctx context.Context, m model.TournamentMatch) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tournament_matches (`+matchColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.TournamentID, m.Player1ID, m.Player2ID, m.WinnerID, m.Status,
		m.ScheduledTime, m.Sets, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

func (r *DatabaseRepository) UpdateMatch(ctx context.Context, m model.TournamentMatch) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE tournament_matches
		SET player1_id = $1, player2_id = $2, winner_id = $3, status = $4,
		    scheduled_time = $5, sets = $6
		WHERE id = $7`,
		m.Player1ID, m.Player2ID, m.WinnerID, m.Status, m.ScheduledTime, m.Sets, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update match: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func (r *DatabaseRepository) GetMatchByID(ctx context.Context, id uuid.UUID) (model.TournamentMatch, error) {
	var m model.TournamentMatch
	err := r.db.QueryRowContext(ctx,
		"SELECT "+matchColumns+" FROM tournament_matches WHERE id = $1", id).
		Scan(&m.ID, &m.TournamentID, &m.Player1ID, &m.Player2ID, &m.WinnerID,
			&m.Status, &m.ScheduledTime, &m.Sets, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.TournamentMatch{}, ErrMatchNotFound
		}
		return model.TournamentMatch{}, err
	}
	return m, nil
}

func (r *DatabaseRepository) ListMatches(ctx context.Context, tournamentID uuid.UUID) ([]model.TournamentMatch, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+matchColumns+" FROM tournament_matches WHERE tournament_id = $1 ORDER BY scheduled_time NULLS LAST, created_at",
		tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []model.TournamentMatch
	for rows.Next() {
		var m model.TournamentMatch
		if err := rows.Scan(&m.ID, &m.TournamentID, &m.Player1ID, &m.Player2ID,
			&m.WinnerID, &m.Status, &m.ScheduledTime, &m.Sets, &m.CreatedAt); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
