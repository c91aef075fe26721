// @title Kikoba API
// @version 1.0
// @description Member loans, repayments and monthly contributions of savings groups.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dafibh/kikoba/kikoba-backend/db"
	"github.com/dafibh/kikoba/kikoba-backend/internal/config"
	"github.com/dafibh/kikoba/kikoba-backend/internal/handler"
	"github.com/dafibh/kikoba/kikoba-backend/internal/metrics"
	"github.com/dafibh/kikoba/kikoba-backend/internal/middleware"
	"github.com/dafibh/kikoba/kikoba-backend/internal/repository/postgres"
	"github.com/dafibh/kikoba/kikoba-backend/internal/repository/storage"
	"github.com/dafibh/kikoba/kikoba-backend/internal/service"
	"github.com/dafibh/kikoba/kikoba-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()

	// Connect to database
	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()
	log.Info().Msg("Connected to database")

	if cfg.RunMigrations {
		if err := postgres.ApplyMigrations(ctx, pool, db.Migrations); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
	}

	// Initialize repositories
	tx := postgres.NewTransactor(pool)
	groupRepo := postgres.NewGroupRepository(pool)
	memberRepo := postgres.NewMemberRepository(pool)
	loanRepo := postgres.NewLoanRepository(pool)
	repaymentRepo := postgres.NewLoanRepaymentRepository(pool)
	contributionRepo := postgres.NewContributionRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)

	// Avatar storage is optional
	var objectStore storage.ObjectStore
	if cfg.S3.Enabled() {
		s3Store, err := storage.NewS3Store(ctx, cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 storage")
		}
		objectStore = s3Store
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Avatar storage enabled")
	} else {
		log.Warn().Msg("S3_BUCKET not set, avatar uploads disabled")
	}

	// Initialize services
	authService := service.NewAuthService(tx, groupRepo, memberRepo)
	memberService := service.NewMemberService(memberRepo, service.NewAvatarService(objectStore))
	loanService := service.NewLoanService(loanRepo, memberRepo, repaymentRepo)
	repaymentService := service.NewRepaymentService(tx, loanRepo, repaymentRepo)
	contributionService := service.NewContributionService(tx, memberRepo, contributionRepo)
	settingsService := service.NewSettingsService(tx, settingsRepo)
	reportService := service.NewReportService(memberRepo, loanRepo, repaymentRepo, contributionRepo, settingsService)

	// Real-time updates go to every open client of the group
	hub := websocket.NewHubWithLimit(cfg.WSMaxClientsPerGroup)
	var publisher websocket.EventPublisher = hub
	if !cfg.RealtimeEnabled {
		publisher = &websocket.NoOpPublisher{}
		log.Warn().Msg("REALTIME_ENABLED=false, websocket events disabled")
	}
	memberService.SetEventPublisher(publisher)
	loanService.SetEventPublisher(publisher)
	repaymentService.SetEventPublisher(publisher)
	contributionService.SetEventPublisher(publisher)
	settingsService.SetEventPublisher(publisher)

	// One Auth0 validator serves the API and the websocket upgrade
	tokenValidator, err := middleware.NewAuth0Validator(cfg.Auth0Domain, cfg.Auth0Audience)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token validator")
	}
	authMiddleware := middleware.NewAuthMiddlewareWithValidator(tokenValidator, authService)
	wsValidator := websocket.NewGroupTokenValidator(tokenValidator, authService)

	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)

	// Initialize handlers
	handlers := handler.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Member:       handler.NewMemberHandler(memberService),
		Loan:         handler.NewLoanHandler(loanService),
		Repayment:    handler.NewRepaymentHandler(repaymentService),
		Contribution: handler.NewContributionHandler(contributionService),
		Settings:     handler.NewSettingsHandler(settingsService),
		Report:       handler.NewReportHandler(reportService),
	}
	wsHandler := handler.NewWebSocketHandler(hub, wsValidator, handler.WebSocketConfig{
		AllowedOrigins: cfg.CORSOrigins,
	})
	metrics.RegisterWebSocketClients(hub.TotalClientCount)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		Skipper: func(c echo.Context) bool {
			// swagger UI loads inline scripts
			return strings.HasPrefix(c.Path(), "/swagger")
		},
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":     "ok",
			"ws_clients": hub.TotalClientCount(),
		})
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// API documentation
	if !cfg.IsProduction() {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}
	servers := []handler.Server{{URL: "http://localhost:" + cfg.Port + "/api/v1", Description: "Local development"}}
	if cfg.PublicURL != "" {
		servers = append([]handler.Server{{URL: cfg.PublicURL + "/api/v1", Description: "Public"}}, servers...)
	}
	e.GET("/openapi.json", handler.NewOpenAPIHandler(servers...).Serve)

	if cfg.RealtimeEnabled {
		e.GET("/ws", wsHandler.HandleWS)
	}

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, handlers)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("currency", cfg.Currency).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hub.CloseAll()
	rateLimiter.Stop()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
