package testutil

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"matchpoint/internal/database"
	"matchpoint/internal/model"
	"matchpoint/internal/repository"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

// SetupTestDB connects to the database named by TEST_DATABASE_URL, applies
// the schema and returns the connection. Tests that need a database are
// skipped when the variable is unset.
func SetupTestDB(t *testing.T) database.Database {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database-backed test")
	}

	db, err := sql.Open("postgres", url)
	require.NoError(t, err, "Failed to open test database")
	require.NoError(t, db.Ping(), "Failed to ping test database")

	m, err := migrate.New("file://../../migrations", url)
	require.NoError(t, err, "Failed to load migrations")
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return database.Database{DB: db}
}

// CleanupTestDB truncates all application tables between tests.
func CleanupTestDB(t *testing.T, db database.Database) {
	t.Helper()
	for _, table := range []string{
		"email_logs", "activity_log", "video_lessons", "news", "announcements",
		"notifications", "invite_codes", "tournament_matches",
		"tournament_participants", "tournaments", "booking_participants",
		"bookings", "profiles",
	} {
		_, err := db.Exec("TRUNCATE TABLE " + table + " CASCADE")
		require.NoError(t, err, "Failed to truncate %s", table)
	}
}

// CreateTestProfile inserts a profile with the given role and returns it.
func CreateTestProfile(t *testing.T, repo repository.Repository, role model.Role) model.Profile {
	t.Helper()
	now := time.Now()
	profile := model.Profile{
		ID:           uuid.New(),
		Email:        UniqueEmail(string(role)),
		FullName:     "Profilo Test",
		PasswordHash: "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.CreateProfile(t.Context(), profile), "Failed to create test profile")
	return profile
}

// CreateTestTournament inserts an open tournament with the given capacity.
func CreateTestTournament(t *testing.T, repo repository.Repository, maxParticipants int) model.Tournament {
	t.Helper()
	now := time.Now()
	tournament := model.Tournament{
		ID:              uuid.New(),
		Title:           "Torneo Test",
		StartDate:       now.Add(7 * 24 * time.Hour),
		Type:            model.TournamentTypeEliminazioneDiretta,
		MaxParticipants: maxParticipants,
		Status:          model.TournamentStatusAperto,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, repo.CreateTournament(t.Context(), tournament), "Failed to create test tournament")
	return tournament
}

// UniqueEmail generates a unique email for testing.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@test.example.com", prefix, time.Now().UnixNano())
}
