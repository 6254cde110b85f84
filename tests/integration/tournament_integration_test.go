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

func enrollment(tournamentID, userID uuid.UUID) model.TournamentParticipant {
	return model.TournamentParticipant{
		ID:           uuid.New(),
		TournamentID: tournamentID,
		UserID:       userID,
		Status:       "active",
		EnrolledAt:   time.Now(),
	}
}

func TestTournamentEnrollment_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	repo := repository.NewDatabaseRepository(db)
	testutil.CleanupTestDB(t, db)

	tournament := testutil.CreateTestTournament(t, repo, 2)
	first := testutil.CreateTestProfile(t, repo, model.RoleAtleta)
	second := testutil.CreateTestProfile(t, repo, model.RoleAtleta)
	third := testutil.CreateTestProfile(t, repo, model.RoleAtleta)

	t.Run("enrollment up to capacity succeeds", func(t *testing.T) {
		require.NoError(t, repo.EnrollParticipant(t.Context(), enrollment(tournament.ID, first.ID)))
		require.NoError(t, repo.EnrollParticipant(t.Context(), enrollment(tournament.ID, second.ID)))

		count, err := repo.CountParticipants(t.Context(), tournament.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("enrollment beyond capacity is rejected", func(t *testing.T) {
		err := repo.EnrollParticipant(t.Context(), enrollment(tournament.ID, third.ID))
		assert.ErrorIs(t, err, repository.ErrTournamentFull)

		count, err := repo.CountParticipants(t.Context(), tournament.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, count, "rejected enrollment must not leave a row behind")
	})

	t.Run("duplicate enrollment is rejected by the unique index", func(t *testing.T) {
		roomy := testutil.CreateTestTournament(t, repo, 16)
		require.NoError(t, repo.EnrollParticipant(t.Context(), enrollment(roomy.ID, first.ID)))

		err := repo.EnrollParticipant(t.Context(), enrollment(roomy.ID, first.ID))
		assert.ErrorIs(t, err, repository.ErrAlreadyEnrolled)
	})

	t.Run("closed tournament rejects enrollment", func(t *testing.T) {
		closed := testutil.CreateTestTournament(t, repo, 16)
		closed.Status = model.TournamentStatusChiuso
		require.NoError(t, repo.UpdateTournament(t.Context(), closed))

		err := repo.EnrollParticipant(t.Context(), enrollment(closed.ID, second.ID))
		assert.ErrorIs(t, err, repository.ErrTournamentClosed)
	})

	t.Run("unknown tournament reports not found", func(t *testing.T) {
		err := repo.EnrollParticipant(t.Context(), enrollment(uuid.New(), first.ID))
		assert.ErrorIs(t, err, repository.ErrTournamentNotFound)
	})

	t.Run("unenroll frees a slot", func(t *testing.T) {
		require.NoError(t, repo.UnenrollParticipant(t.Context(), tournament.ID, first.ID))
		require.NoError(t, repo.EnrollParticipant(t.Context(), enrollment(tournament.ID, third.ID)))
	})
}
