package integration

import (
	"testing"
	"time"

	"matchpoint/internal/model"
	"matchpoint/internal/repository"
	"matchpoint/tests/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingConflicts_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	repo := repository.NewDatabaseRepository(db)
	testutil.CleanupTestDB(t, db)

	atleta := testutil.CreateTestProfile(t, repo, model.RoleAtleta)

	day := time.Now().Add(48 * time.Hour).Truncate(time.Hour)
	newBooking := func(court string, start, end time.Time, confirmed bool) model.Booking {
		now := time.Now()
		status := model.BookingStatusPending
		if confirmed {
			status = model.BookingStatusConfirmed
		}
		return model.Booking{
			ID:               uuid.New(),
			UserID:           atleta.ID,
			Court:            court,
			Type:             model.BookingTypeCampo,
			StartTime:        start,
			EndTime:          end,
			Status:           status,
			ManagerConfirmed: confirmed,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
	}

	confirmed := newBooking("Campo 1", day, day.Add(time.Hour), true)
	require.NoError(t, repo.CreateBooking(t.Context(), confirmed, nil))

	t.Run("overlap with a confirmed booking is rejected", func(t *testing.T) {
		overlapping := newBooking("Campo 1", day.Add(30*time.Minute), day.Add(90*time.Minute), false)
		err := repo.CreateBooking(t.Context(), overlapping, nil)
		assert.ErrorIs(t, err, repository.ErrBookingConflict)
	})

	t.Run("adjacent slot on the same court is free", func(t *testing.T) {
		adjacent := newBooking("Campo 1", day.Add(time.Hour), day.Add(2*time.Hour), false)
		assert.NoError(t, repo.CreateBooking(t.Context(), adjacent, nil))
	})

	t.Run("same slot on another court is free", func(t *testing.T) {
		elsewhere := newBooking("Campo 2", day, day.Add(time.Hour), false)
		assert.NoError(t, repo.CreateBooking(t.Context(), elsewhere, nil))
	})

	t.Run("exclusion constraint blocks a conflicting confirmation", func(t *testing.T) {
		// Created in a free slot, then rescheduled onto the confirmed one
		// with manager confirmation; the constraint is the last line.
		pending := newBooking("Campo 1", day.Add(5*time.Hour), day.Add(6*time.Hour), false)
		require.NoError(t, repo.CreateBooking(t.Context(), pending, nil))

		pending.StartTime = day.Add(30 * time.Minute)
		pending.EndTime = day.Add(90 * time.Minute)
		pending.ManagerConfirmed = true
		pending.Status = model.BookingStatusConfirmed

		err := repo.UpdateBooking(t.Context(), pending)
		assert.ErrorIs(t, err, repository.ErrBookingConflict)
	})

	t.Run("cancelled bookings do not block the slot", func(t *testing.T) {
		cancelled := newBooking("Campo 3", day, day.Add(time.Hour), true)
		require.NoError(t, repo.CreateBooking(t.Context(), cancelled, nil))

		cancelled.Status = model.BookingStatusCancelled
		cancelled.ManagerConfirmed = false
		require.NoError(t, repo.UpdateBooking(t.Context(), cancelled))

		replacement := newBooking("Campo 3", day, day.Add(time.Hour), true)
		assert.NoError(t, repo.CreateBooking(t.Context(), replacement, nil))
	})
}
