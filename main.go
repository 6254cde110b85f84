package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"time"

	"matchpoint/internal/api"
	"matchpoint/internal/config"
	"matchpoint/internal/database"
	"matchpoint/internal/logger"
	"matchpoint/internal/middleware"
	"matchpoint/internal/monitoring"
	"matchpoint/internal/repository"
	"matchpoint/internal/service"
	"matchpoint/internal/storage"
	"matchpoint/internal/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/session"
	fiberpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	cfg := config.NewConfig()
	logger.New(cfg)

	telemetry, err := monitoring.NewOpenTelemetry(cfg.Telemetry)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(ctx); err != nil {
			slog.Error("Failed to shut down telemetry", "error", err)
		}
	}()

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := runMigrations(cfg); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	store := session.New(session.Config{
		Storage: fiberpostgres.New(fiberpostgres.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			Database: cfg.Database.Name,
			Username: cfg.Database.User,
			Password: cfg.Database.Password,
			Table:    "sessions",
			Reset:    false,
		}),
		KeyLookup:      "cookie:session_id",
		CookiePath:     "/",
		CookieSecure:   cfg.Server.Environment == "production",
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		Expiration:     cfg.Server.SessionExpiration,
	})

	mediaStore, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	repo := repository.NewDatabaseRepository(db)
	rateLimiter := service.NewRateLimiter(redisClient)
	activity := service.NewActivityService(repo)
	notifier := service.NewNotifier(repo)
	sender := service.NewSMTPSender(cfg.SMTP)

	svcs := api.Services{
		Auth:        service.NewAuthService(repo, rateLimiter, sender, activity),
		Profiles:    service.NewProfileService(repo, mediaStore, activity),
		Bookings:    service.NewBookingService(repo, notifier, activity, telemetry),
		Tournaments: service.NewTournamentService(repo, notifier, activity, telemetry),
		Invites:     service.NewInviteService(repo, activity),
		Notifier:    notifier,
		Email:       service.NewEmailService(repo, sender, telemetry),
		Content:     service.NewContentService(repo, mediaStore, activity),
	}
	handler := api.NewHandler(store, repo, validator.New(), svcs, cfg.Cron.Secret)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(monitoring.FiberMiddleware(cfg.Telemetry.ServiceName))
	app.Use(middleware.RequestMetadata())

	// Per-IP throttle on the unauthenticated auth endpoints; the per-user
	// redis limiter covers authenticated write paths.
	authLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: 15 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many attempts. Please try again later.",
			})
		},
	})

	registerRoutes(app, handler, store, repo, rateLimiter, authLimiter)

	if cfg.Storage.Type == "local" || cfg.Storage.Type == "" {
		app.Static("/files", cfg.Storage.LocalPath)
	}

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	slog.Info("Starting server", "addr", addr, "environment", cfg.Server.Environment)
	log.Panic(app.Listen(addr))
}

func registerRoutes(app *fiber.App, h *api.Handler, store *session.Store, repo repository.Repository, rateLimiter *service.RateLimiter, authLimiter fiber.Handler) {
	writeLimit := middleware.WriteRateLimit(rateLimiter, 60, time.Minute)

	app.Get("/api/health", h.Health)

	// Public endpoints.
	app.Post("/api/auth/register", authLimiter, h.Register)
	app.Post("/api/auth/login", authLimiter, h.Login)
	app.Get("/api/invite-codes/validate", h.ValidateInviteCode)

	// Scheduler endpoint, guarded by the shared secret header.
	app.Post("/api/cron/retry-emails", h.RetryFailedEmails)

	// Authenticated endpoints.
	auth := app.Group("/api", middleware.Authenticated(store, repo))
	auth.Post("/auth/logout", h.Logout)

	auth.Get("/profile", h.GetProfile)
	auth.Put("/profile", writeLimit, h.UpdateProfile)
	auth.Post("/profile/avatar", writeLimit, h.UploadAvatar)

	auth.Get("/bookings", h.GetBookings)
	auth.Post("/bookings", writeLimit, h.CreateBooking)
	auth.Put("/bookings", writeLimit, h.UpdateBooking)
	auth.Delete("/bookings", writeLimit, h.DeleteBooking)

	auth.Get("/tournaments", h.GetTournaments)
	auth.Post("/tournament-participants", writeLimit, h.EnrollTournament)
	auth.Delete("/tournament-participants", writeLimit, h.UnenrollTournament)
	auth.Get("/tournament-participants", h.GetTournamentParticipants)
	auth.Get("/tournament-matches", h.GetTournamentMatches)

	auth.Get("/notifications", h.GetNotifications)
	auth.Put("/notifications", writeLimit, h.MarkNotificationRead)

	auth.Get("/announcements", h.GetAnnouncements)
	auth.Get("/news", h.GetNews)
	auth.Get("/video-lessons", h.GetVideoLessons)
	auth.Get("/video-lessons/url", h.GetVideoLessonURL)
	auth.Post("/video-lessons", writeLimit, h.CreateVideoLesson)

	// Staff endpoints.
	staff := auth.Group("", middleware.RequireStaff())
	staff.Post("/tournaments", writeLimit, h.CreateTournament)
	staff.Put("/tournaments", writeLimit, h.UpdateTournament)
	staff.Delete("/tournaments", writeLimit, h.DeleteTournament)
	staff.Post("/tournament-matches", writeLimit, h.CreateTournamentMatch)
	staff.Put("/tournament-matches", writeLimit, h.UpdateTournamentMatch)

	staff.Post("/notifications", writeLimit, h.SendNotifications)

	staff.Post("/announcements", writeLimit, h.CreateAnnouncement)
	staff.Put("/announcements", writeLimit, h.UpdateAnnouncement)
	staff.Delete("/announcements", writeLimit, h.DeleteAnnouncement)
	staff.Post("/news", writeLimit, h.CreateNews)
	staff.Put("/news", writeLimit, h.UpdateNews)
	staff.Delete("/news", writeLimit, h.DeleteNews)
	staff.Delete("/video-lessons", writeLimit, h.DeleteVideoLesson)

	admin := staff.Group("/admin")
	admin.Get("/users", h.GetUsers)
	admin.Put("/users", writeLimit, h.ChangeUserRole)
	admin.Delete("/users", writeLimit, h.DeleteUser)
	admin.Get("/invite-codes", h.GetInviteCodes)
	admin.Post("/invite-codes", writeLimit, h.CreateInviteCode)
	admin.Delete("/invite-codes", writeLimit, h.DeleteInviteCode)
	admin.Post("/send-email", writeLimit, h.SendEmailCampaign)
	admin.Get("/email-stats", h.GetEmailStats)
}

// runMigrations applies pending schema migrations at boot.
func runMigrations(cfg *config.Config) error {
	m, err := migrate.New("file://migrations", cfg.Database.URL())
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	slog.Info("Database migrations applied")
	return nil
}
