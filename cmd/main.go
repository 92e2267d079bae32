package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "foundernet/docs"
	"foundernet/pkg/admin"
	"foundernet/pkg/auth"
	"foundernet/pkg/chat"
	"foundernet/pkg/config"
	"foundernet/pkg/db"
	"foundernet/pkg/logger"
	"foundernet/pkg/metrics"
	"foundernet/pkg/middleware"
	"foundernet/pkg/passwordreset"
	"foundernet/pkg/pitchdecks"
	"foundernet/pkg/posts"
	"foundernet/pkg/profiles"
	"foundernet/pkg/response"
	"foundernet/pkg/sendemail"
	"foundernet/pkg/startups"
	"foundernet/pkg/uploads"
	"foundernet/pkg/users"
)

// @title           FounderNet API
// @version         1.0
// @description     REST and websocket API connecting startup founders with investors

// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

// @schemes   http https

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	appLogger := logger.New(cfg.Env)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = randomSecret()
		appLogger.Warn("JWT_SECRET not set, using an ephemeral secret; tokens will not survive a restart")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Database, appLogger)
	if err != nil {
		appLogger.Error("database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	router, err := newRouter(cfg, pool, appLogger)
	if err != nil {
		appLogger.Error("router setup", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("server starting", "port", cfg.Port, "tls", cfg.TLS.Enabled, "env", cfg.Env)
		if err := serve(srv, cfg); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("listen", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server forced to shutdown", "error", err)
	}

	appLogger.Info("server exiting")
}

func newRouter(cfg config.Config, pool *pgxpool.Pool, appLogger *slog.Logger) (*gin.Engine, error) {
	m := metrics.New()
	emailService := sendemail.NewEmailService(cfg.Email, appLogger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)
	authMW := auth.NewMiddleware(tokens, auth.CookieSettings{
		Name:   cfg.Auth.CookieName,
		Secure: cfg.Auth.CookieSecure || cfg.TLS.Enabled,
		Domain: cfg.Auth.CookieDomain,
	})

	usersRepo := users.NewPostgresUserRepository(pool)
	usersService := users.NewUserService(usersRepo, emailService, m, appLogger)
	usersHandler := users.NewUserHandler(usersService, authMW)

	profilesService := profiles.NewProfileService(profiles.NewPostgresProfileRepository(pool))
	profilesHandler := profiles.NewProfileHandler(profilesService, authMW)

	startupsService := startups.NewStartupService(startups.NewPostgresStartupRepository(pool))
	startupsHandler := startups.NewStartupHandler(startupsService, authMW)

	decksService := pitchdecks.NewPitchDeckService(pitchdecks.NewPostgresPitchDeckRepository(pool), startupsService)
	decksHandler := pitchdecks.NewPitchDeckHandler(decksService, authMW)

	postsService := posts.NewPostService(posts.NewPostgresPostRepository(pool), m)
	postsHandler := posts.NewPostHandler(postsService, authMW)

	resetService := passwordreset.NewResetService(passwordreset.NewPostgresResetRepository(pool), usersRepo, emailService, appLogger)
	resetHandler := passwordreset.NewResetHandler(resetService)

	store, err := uploads.NewStore(cfg.Uploads.Dir, cfg.Uploads.PublicBaseURL)
	if err != nil {
		return nil, err
	}
	uploadsHandler := uploads.NewUploadHandler(store, authMW, cfg.Uploads.MaxBytes)

	adminHandler := admin.NewAdminHandler(admin.NewPostgresStatsRepository(pool), authMW, appLogger)

	chatManager := chat.NewConnectionManager(m)
	chatHandler := chat.NewHandler(chatManager, chat.NewPostgresMessageStore(pool), authMW, m, appLogger, cfg.CORSOrigins)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(appLogger), m.GinMiddleware())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: cfg.CORSAllowCreds,
		MaxAge:           12 * time.Hour,
	}))

	loginLimiter := middleware.NewRateLimiter(cfg.Auth.LoginRateRPS, cfg.Auth.LoginRateBurst)
	resetLimiter := middleware.NewRateLimiter(cfg.Auth.LoginRateRPS, cfg.Auth.LoginRateBurst)
	uploadLimiter := middleware.NewRateLimiter(cfg.Auth.LoginRateRPS, cfg.Auth.LoginRateBurst)

	usersHandler.RegisterRoutes(router, loginLimiter.Handler())
	resetHandler.RegisterRoutes(router, resetLimiter.Handler())
	profilesHandler.RegisterRoutes(router)
	startupsHandler.RegisterRoutes(router)
	decksHandler.RegisterRoutes(router)
	postsHandler.RegisterRoutes(router)
	uploadsHandler.RegisterRoutes(router, uploadLimiter.Handler())
	adminHandler.RegisterRoutes(router)
	chatHandler.RegisterRoutes(router)

	router.GET("/healthz", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			response.SendAPIResponse(c, http.StatusServiceUnavailable, false, "database unavailable", nil)
			return
		}
		response.SendAPIResponse(c, http.StatusOK, true, "ok", nil)
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router, nil
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatalf("generate secret: %v", err)
	}
	return hex.EncodeToString(b)
}
