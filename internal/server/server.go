package server

import (
	"errors"
	"log"

	"backend-teamugly/internal/auth"
	"backend-teamugly/internal/config"
	"backend-teamugly/internal/db"
	"backend-teamugly/internal/mailer"
	"backend-teamugly/internal/notify"
	"backend-teamugly/internal/ride"
	"backend-teamugly/internal/roster"
	"backend-teamugly/internal/signup"
	"backend-teamugly/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     db.Querier
	Redis  *redis.Client
	Stream *stream.Hub
	Auth   *auth.Service
}

// NewServer wires every service onto one fiber app. pg may be nil while the
// database is unreachable; store-backed routes then fail per request.
func NewServer(cfg config.Config, pg db.Querier, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Use(recover.New())
	app.Use(logger.New())

	hash, err := auth.ResolveHash(cfg.AdminPasswordHash, cfg.AdminPassword)
	if err != nil {
		log.Printf("admin password not usable, admin views stay locked: %v", err)
	}

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     pg,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
		Auth:   auth.NewService(cfg.JWTSecret, hash, cfg.AdminSessionTTL, redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	s.App.Use(auth.LoadSession(s.Auth))

	rides := ride.NewService(s.DB, s.Stream)
	signups := signup.NewService(s.DB, rides, mailer.New(s.Cfg), s.Stream, signup.Options{
		AppTitle: s.Cfg.AppTitle,
		AppURL:   s.Cfg.AppURL,
		Timezone: s.Cfg.TimezoneLabel,
	})
	notifications := notify.NewService(rides, s.Cfg.ContactsCSV, notify.Links{
		TeamName:   s.Cfg.TeamName,
		SignupLink: s.Cfg.SignupLink,
		JoinLink:   s.Cfg.JoinLink,
	})

	ride.RegisterRoutes(s.App.Group("/rides"), rides, auth.RequireAdmin)
	signup.RegisterRoutes(s.App, signups)

	admin := s.App.Group("/admin")
	auth.RegisterRoutes(admin, s.Auth)
	roster.RegisterRoutes(admin, roster.NewService(s.DB), auth.IsAdmin)
	notify.RegisterRoutes(admin, notifications, auth.RequireAdmin)

	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)

	info := func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"title":       s.Cfg.AppTitle,
			"app_url":     s.Cfg.AppURL,
			"timezone":    s.Cfg.TimezoneLabel,
			"signup_link": s.Cfg.SignupLink,
			"join_link":   s.Cfg.JoinLink,
		})
	}
	s.App.Get("/info", info)
	s.App.Get("/", info)
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
