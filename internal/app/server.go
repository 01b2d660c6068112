// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"

	"tracksafe-service/internal/config"
	"tracksafe-service/internal/db"
	authHandler "tracksafe-service/internal/handlers/auth"
	contactHandler "tracksafe-service/internal/handlers/contact"
	locationHandler "tracksafe-service/internal/handlers/location"
	wsHandler "tracksafe-service/internal/handlers"
	"tracksafe-service/internal/middleware"
	"tracksafe-service/internal/pkg/jwt"
	"tracksafe-service/internal/pkg/session"
	"tracksafe-service/internal/repository/postgres"
	authUsecase "tracksafe-service/internal/service/auth"
	contactUsecase "tracksafe-service/internal/service/contact"
	locationUsecase "tracksafe-service/internal/service/location"
	"tracksafe-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.Default()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start() error {
	ctx := context.Background()

	if !s.cfg.Configured() {
		return fmt.Errorf("DATABASE_URL is not set: backend is not configured")
	}

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB()
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	// ----- Redis -----
	redisCfg := db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	}

	redisClient, err := db.NewRedisClient(redisCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("[REDIS] connected")

	// ----- Logger -----
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	s.logger = logger

	// ----- JWT Manager -----
	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT manager: %w", err)
	}

	// ----- Repositories -----
	accountRepo := postgres.NewAccountRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	contactRepo := postgres.NewContactRepository(pool)

	// ----- Session Manager & Rate Limiter -----
	sessionManager := session.NewManager(redisClient, accountRepo, logger)
	rateLimiter := session.NewRateLimiter(redisClient)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(jwtManager.Verifier, sessionManager)
	go hub.Run(context.Background())

	// ----- Services (Usecases) -----
	authService := authUsecase.NewAuthService(
		accountRepo,
		profileRepo,
		jwtManager,
		sessionManager,
		rateLimiter,
		hub,
		logger,
	)
	locationService := locationUsecase.NewLocationService(
		locationRepo,
		locationUsecase.NewStaticDirectory(),
		hub,
		logger,
	)
	contactService := contactUsecase.NewContactService(contactRepo, logger)

	// ----- Handlers -----
	authHandlerInst := authHandler.NewAuthHandler(authService, logger)
	locationHandlerInst := locationHandler.NewLocationHandler(locationService, logger)
	contactHandlerInst := contactHandler.NewContactHandler(contactService, logger)
	wsHandlerInst := wsHandler.NewWebSocketHandler(hub, logger)

	// ----- Middlewares -----
	authMiddleware := middleware.NewAuthMiddleware(authService)

	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		AuthHandler:     authHandlerInst,
		LocationHandler: locationHandlerInst,
		ContactHandler:  contactHandlerInst,
		WSHandler:       wsHandlerInst,
		AuthMiddleware:  authMiddleware,
	}
	SetupRouter(s.engine, logger, handlers)

	// ----- Start HTTP -----
	log.Printf("Server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}
