package server

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/printo/RiderPro-sub006/internal/analytics"
	"github.com/printo/RiderPro-sub006/internal/auth"
	"github.com/printo/RiderPro-sub006/internal/config"
	"github.com/printo/RiderPro-sub006/internal/geofence"
	"github.com/printo/RiderPro-sub006/internal/shipment"
	"github.com/printo/RiderPro-sub006/internal/stream"
	"github.com/printo/RiderPro-sub006/internal/tracking"
)

type Server struct {
	App      *fiber.App
	Cfg      config.Config
	DB       *pgxpool.Pool
	Redis    *redis.Client
	Stream   *stream.Hub
	Geofence *geofence.Monitor
	Log      zerolog.Logger
}

func NewServer(cfg config.Config, db *pgxpool.Pool, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())

	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "riderpro").Logger()

	geoCfg := geofence.DefaultConfig()
	geoCfg.RadiusM = cfg.GeofenceRadiusM
	geoCfg.MinSessionDurationSeconds = cfg.MinSessionDurationSec
	geoCfg.MinDistanceKm = cfg.MinDistanceKm
	geoCfg = geoCfg.Normalize()

	s := &Server{
		App:      app,
		Cfg:      cfg,
		DB:       db,
		Redis:    redisClient,
		Stream:   stream.NewHub(redisClient, log),
		Geofence: geofence.NewMonitor(geoCfg, log),
		Log:      log,
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)

	tracks := tracking.NewService(s.DB, s.Stream, s.Geofence, s.Log)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB))
	tracking.RegisterRoutes(s.App.Group("/tracking"), tracks, jwtMiddleware)
	shipment.RegisterRoutes(s.App.Group("/shipments"), shipment.NewService(s.DB, tracks, s.Log), jwtMiddleware)
	analytics.RegisterRoutes(s.App.Group("/analytics"), analytics.NewService(s.DB, s.Log), jwtMiddleware)
	geofence.RegisterRoutes(s.App.Group("/geofence"), s.Geofence, jwtMiddleware, auth.RequireRole(auth.RoleDispatcher))
	stream.RegisterRoutes(s.App.Group("/stream"), s.Stream)
}
