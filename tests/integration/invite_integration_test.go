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

func TestInviteCodeConsumption_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	repo := repository.NewDatabaseRepository(db)
	testutil.CleanupTestDB(t, db)

	admin := testutil.CreateTestProfile(t, repo, model.RoleAdmin)

	newCode := func(code string, uses *int, expiresAt *time.Time) model.InviteCode {
		invite := model.InviteCode{
			ID:            uuid.New(),
			Code:          code,
			Role:          model.RoleAtleta,
			MaxUses:       uses,
			UsesRemaining: uses,
			ExpiresAt:     expiresAt,
			CreatedBy:     admin.ID,
			CreatedAt:     time.Now(),
		}
		require.NoError(t, repo.CreateInviteCode(t.Context(), invite))
		return invite
	}

	t.Run("single-use code admits exactly one consumer", func(t *testing.T) {
		one := 1
		newCode("benvenuto-2026", &one, nil)

		consumed, err := repo.ConsumeInviteCode(t.Context(), "benvenuto-2026")
		require.NoError(t, err)
		require.NotNil(t, consumed.UsesRemaining)
		assert.Equal(t, 0, *consumed.UsesRemaining)

		_, err = repo.ConsumeInviteCode(t.Context(), "benvenuto-2026")
		assert.ErrorIs(t, err, repository.ErrInviteCodeExhausted)
	})

	t.Run("restoring a use makes the code consumable again", func(t *testing.T) {
		one := 1
		newCode("riprova-2026", &one, nil)

		_, err := repo.ConsumeInviteCode(t.Context(), "riprova-2026")
		require.NoError(t, err)

		require.NoError(t, repo.RestoreInviteCodeUse(t.Context(), "riprova-2026"))

		consumed, err := repo.ConsumeInviteCode(t.Context(), "riprova-2026")
		require.NoError(t, err)
		require.NotNil(t, consumed.UsesRemaining)
		assert.Equal(t, 0, *consumed.UsesRemaining)
	})

	t.Run("unlimited code survives repeated consumption", func(t *testing.T) {
		newCode("open-doors", nil, nil)

		for range 3 {
			consumed, err := repo.ConsumeInviteCode(t.Context(), "open-doors")
			require.NoError(t, err)
			assert.Nil(t, consumed.UsesRemaining)
		}
	})

	t.Run("expired code is rejected", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		newCode("scaduto", nil, &past)

		_, err := repo.ConsumeInviteCode(t.Context(), "scaduto")
		assert.ErrorIs(t, err, repository.ErrInviteCodeExhausted)
	})

	t.Run("unknown code reports not found", func(t *testing.T) {
		_, err := repo.ConsumeInviteCode(t.Context(), "mai-esistito")
		assert.ErrorIs(t, err, repository.ErrInviteCodeNotFound)
	})
}
