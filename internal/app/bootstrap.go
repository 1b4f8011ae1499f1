package app

import (
	"backend/internal/app/board"
	"backend/internal/app/health"
	"backend/internal/app/session"
	"backend/internal/app/user"
	"backend/internal/config"
	"backend/internal/db"
	"backend/internal/db/seeder"
	"backend/internal/gateways/websocket"
	"backend/internal/middleware"
	"backend/internal/providers/redis"
	"backend/internal/providers/screenshot"
	"backend/internal/router"
	"backend/internal/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Application struct {
	Router *router.Router
	DB     *gorm.DB
}

func Bootstrap(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	dbConn, err := db.Connect(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dbConn, logger); err != nil {
		return nil, err
	}

	seed := seeder.NewSeeder(dbConn, logger)
	if err := seed.Seed(); err != nil {
		logger.Warn("Failed to run seeders", zap.Error(err))
	}

	redisProvider := redis.NewRedisProvider(cfg.RedisURL, logger, cfg.RedisTTL)
	screenshotProvider := screenshot.NewProvider(cfg.ScreenshotURL, logger)
	eventBus := utils.NewEventBus()

	userRepo := user.NewRepository(dbConn)
	sessionRepo := session.NewRepository(dbConn)
	boardRepo := board.NewRepository(dbConn)

	userService := user.NewService(userRepo)
	sessionService := session.NewService(sessionRepo, userRepo, redisProvider)
	boardService := board.NewService(boardRepo, userService, redisProvider, eventBus, logger)

	hub := websocket.NewHub(logger, eventBus)
	go hub.Run()
	gateway := websocket.NewGateway(hub, sessionService, boardService)

	healthHandler := health.NewHandler(&utils.HealthChecker{
		DB:    dbConn,
		Redis: redisProvider.Client,
	})
	sessionHandler := session.NewHandler(sessionService)
	boardHandler := board.NewHandler(boardService, screenshotProvider)

	optionalAuth := middleware.Authenticate(sessionService, false)
	requireAuth := middleware.Authenticate(sessionService, true)

	r := router.NewRouter(logger)

	r.RegisterHealthRoutes(healthHandler)
	r.RegisterWebSocketRoutes(gateway)
	r.RegisterSessionRoutes(sessionHandler)
	r.RegisterBoardRoutes(boardHandler, optionalAuth, requireAuth)

	return &Application{
		Router: r,
		DB:     dbConn,
	}, nil
}
