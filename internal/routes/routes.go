package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ilumina/ilumina/internal/auth"
	"github.com/ilumina/ilumina/internal/config"
	"github.com/ilumina/ilumina/internal/identity"
	"github.com/ilumina/ilumina/internal/middleware"
	"github.com/ilumina/ilumina/internal/notification"
	"github.com/ilumina/ilumina/internal/team"
	"github.com/ilumina/ilumina/internal/ticket"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
	// Notifier overrides the notifier chosen from configuration.
	Notifier notification.Notifier
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDevelopment() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	var (
		userRepo   identity.Repository
		tokenRepo  auth.TokenRepository
		teamRepo   team.Repository
		ticketRepo ticket.Repository
	)
	if d.DB != nil {
		userRepo = identity.NewPostgresRepository(d.DB)
		tokenRepo = auth.NewPostgresTokenRepository(d.DB)
		teamRepo = team.NewPostgresRepository(d.DB)
		ticketRepo = ticket.NewPostgresRepository(d.DB)
	} else {
		d.Logger.Warn("no database configured, using in-memory storage")
		userRepo = identity.NewMemoryRepository()
		tokenRepo = auth.NewMemoryTokenRepository()
		teamRepo = team.NewMemoryRepository()
		ticketRepo = ticket.NewMemoryRepository()
	}

	notifier, err := selectNotifier(d)
	if err != nil {
		return err
	}
	codec, err := auth.NewSessionCodec(d.Cfg.SessionSecret, d.Cfg.SessionTTL)
	if err != nil {
		return err
	}

	identitySvc := identity.NewService(userRepo)
	authSvc := auth.NewService(tokenRepo, identitySvc, notifier, codec, d.Cfg.OTPTTL, d.Logger)
	teamSvc := team.NewService(teamRepo)
	ticketSvc := ticket.NewService(ticketRepo, teamSvc)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals(middleware.LocalRequestID).(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	guards := newGuards(d.Cfg, codec)

	RegisterAuthRoutes(api, auth.NewHandler(authSvc, d.Logger), middleware.OTPRateLimit(d.Cache, d.Cfg.OTPRateLimit, d.Logger))
	RegisterTicketRoutes(api, ticket.NewHandler(ticketSvc), guards,
		middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	RegisterTeamRoutes(api, team.NewHandler(teamSvc, userRepo), guards)
	RegisterUserRoutes(api, identity.NewHandler(identitySvc), guards)

	return nil
}

// selectNotifier prefers an explicit notifier, then the WhatsApp gateway. The
// logging notifier is only acceptable in development.
func selectNotifier(d Deps) (notification.Notifier, error) {
	switch {
	case d.Notifier != nil:
		return d.Notifier, nil
	case d.Cfg.UltraMsgConfigured():
		return notification.NewUltraMsg(d.Cfg.UltraMsgBaseURL, d.Cfg.UltraMsgID, d.Cfg.UltraMsgToken, d.Logger), nil
	case d.Cfg.IsDevelopment():
		d.Logger.Warn("whatsapp gateway not configured, login codes will only be logged")
		return notification.NewLoggerNotifier(d.Logger), nil
	default:
		return nil, fmt.Errorf("ULTRAMSG_INSTANCE_ID and ULTRAMSG_TOKEN are required when APP_ENV=%s", d.Cfg.AppEnv)
	}
}

// guards holds the session middlewares. Both are pass-through unless
// REQUIRE_SESSION_AUTH is enabled.
type guards struct {
	session fiber.Handler
	staff   fiber.Handler
}

func newGuards(cfg config.Config, codec *auth.SessionCodec) guards {
	if !cfg.RequireSessionAuth {
		next := func(c *fiber.Ctx) error { return c.Next() }
		return guards{session: next, staff: next}
	}
	return guards{
		session: middleware.SessionAuth(codec),
		staff:   middleware.SessionAuth(codec, identity.RoleManager, identity.RoleAdmin),
	}
}
