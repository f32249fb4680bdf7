package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/alenbi/worknest-clienthub-52-sub000/internal/auth"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/chat"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/config"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/database"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/handler"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/health"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/jobs"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/middleware"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/realtime"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/redis"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/repository"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/service"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/stream"
)

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	figure.NewFigure("worknest", "", true).Print()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("FLY_APP_NAME") != ""
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(pingCtx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	listener, err := database.NewListener(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start postgres listener")
	}
	defer listener.Close()

	store := realtime.NewRedisStore(redisClient)
	realtimeHealth := health.New()

	// Initial probe decides which backend chat starts on. A failure here is
	// not fatal; the relational fallback carries the load until a later
	// probe succeeds.
	probeCtx, cancel := context.WithTimeout(context.Background(), config.ProbeTimeout)
	health.Probe(probeCtx, store, realtimeHealth, config.ProbeTimeout)
	cancel()

	userRepo := repository.NewUserRepository(db.DB)
	sessionRepo := repository.NewSessionRepository(db.DB)
	clientRepo := repository.NewClientRepository(db.DB)
	taskRepo := repository.NewTaskRepository(db.DB)
	roleRepo := repository.NewRoleRepository(db.DB)
	msgRepo := repository.NewChatMessageRepository(db.DB)
	attachRepo := repository.NewAttachmentRepository(db.DB)
	resourceRepo := repository.NewResourceRepository(db.DB)
	videoRepo := repository.NewVideoRepository(db.DB)
	offerRepo := repository.NewOfferRepository(db.DB)
	updateRepo := repository.NewUpdateRepository(db.DB)
	weeklyRepo := repository.NewWeeklyProductRepository(db.DB)

	resolver, err := auth.NewResolver(cfg, roleRepo, clientRepo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure role policy")
	}

	authService := auth.NewService(
		userRepo, sessionRepo, clientRepo, resolver,
		time.Duration(cfg.SessionTTLHours)*time.Hour,
	)
	tickets := auth.NewTicketIssuer(cfg.StreamTicketSecret, config.StreamTicketTTL)

	chatService := chat.NewService(store, msgRepo, attachRepo, realtimeHealth, listener, cfg.PublicBaseURL)
	defer chatService.Close()

	hub := stream.NewHub(chatService)
	defer hub.Close()

	clientService := service.NewClientService(clientRepo)
	taskService := service.NewTaskService(taskRepo, clientRepo)
	contentService := service.NewContentService(resourceRepo, videoRepo, offerRepo, updateRepo, weeklyRepo)

	authMw := middleware.NewAuthMiddleware(authService, "/login")
	adminAuthMw := middleware.NewAuthMiddleware(authService, "/admin/login")
	rateLimitMw := middleware.NewRedisRateLimitMiddleware(redisClient.Client)
	bodyLimitMw := middleware.NewBodyLimitMiddleware(0)
	securityHeadersMw := middleware.NewSecurityHeadersMiddleware(isProduction)

	authHandler := handler.NewAuthHandler(authService, tickets, authMw)
	chatHandler := handler.NewChatHandler(chatService, authMw)
	adminHandler := handler.NewAdminHandler(clientService, taskService, contentService)
	portalHandler := handler.NewPortalHandler(taskService, contentService)
	eventsHandler := handler.NewEventsHandler(hub, tickets)
	wsHandler := handler.NewWSHandler(hub, tickets)
	filesHandler := handler.NewFilesHandler(store, attachRepo, realtimeHealth)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(securityHeadersMw.Handler)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"service": "worknest-clienthub",
			"status":  "running",
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"realtime":  realtimeHealth.Available(),
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
		r.Use(bodyLimitMw.Handler)
		r.Mount("/", authHandler.Routes())
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
		r.Use(bodyLimitMw.Handler)
		r.Use(adminAuthMw.Handler)
		r.Use(adminAuthMw.RequireRole(model.RoleAdmin))
		r.Use(rateLimitMw.Handler)
		r.Post("/system/probe", func(w http.ResponseWriter, r *http.Request) {
			ok := health.Probe(r.Context(), store, realtimeHealth, config.ProbeTimeout)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]bool{"realtime": ok})
		})
		r.Mount("/", adminHandler.Routes())
	})

	r.Route("/api/client", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
		r.Use(bodyLimitMw.Handler)
		r.Use(authMw.Handler)
		r.Use(authMw.RequireRole(model.RoleClient))
		r.Use(rateLimitMw.Handler)
		r.Mount("/", portalHandler.Routes())
	})

	// Streams outlive the request timeout and uploads exceed the body
	// limit, so the chat tree carries neither.
	r.Route("/api/chat", func(r chi.Router) {
		r.Get("/stream", eventsHandler.ServeHTTP)
		r.Get("/ws", wsHandler.ServeHTTP)
		r.Mount("/", chatHandler.Routes())
	})

	r.Mount("/files", filesHandler.Routes())

	cleanupJob := jobs.NewCleanupJob(sessionRepo, config.CleanupJobInterval)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	probeJob := jobs.NewProbeJob(store, realtimeHealth, config.ProbeJobInterval, config.ProbeTimeout)
	probeJob.Start()
	defer probeJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
