package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"bomberquiz/internal/config"
	"bomberquiz/internal/handlers"
	"bomberquiz/internal/logger"
	"bomberquiz/internal/models"
	"bomberquiz/internal/repository"
	"bomberquiz/internal/repository/db"
	"bomberquiz/internal/repository/memory"
	"bomberquiz/internal/server"
	"bomberquiz/internal/service"
	"bomberquiz/internal/session"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// @title                       BomberQuiz API
// @version                     1.0
// @description                 User and military rank management with JWT authentication.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel, logger.FormatConsole).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos, closeDB := openRepository(ctx, cfg, log)
	defer closeDB()

	sessions, closeSessions := openSessionStore(ctx, cfg, log)
	defer closeSessions()

	// wire dependencies
	services := service.NewService(repos, sessions, service.AuthOptions{
		SigningKey: cfg.Auth.SigningKey,
		TokenTTL:   cfg.Auth.TokenTTL,
	}, log)
	bootstrapAdmin(ctx, services, cfg.Admin, log)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	apiHandler := handlers.NewHandler(services, log, handlers.Options{
		CookieName:   cfg.Auth.CookieName,
		CookieSecure: cfg.Auth.CookieSecure,
		LoginRate:    cfg.Auth.LoginRate,
		LoginBurst:   cfg.Auth.LoginBurst,
		Registry:     registry,

		TrustedProxies: cfg.Server.TrustedProxies,
	})

	// start HTTP server
	srv := server.New(server.Options{
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	})
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, cfg, log)
}

// openRepository picks the storage driver from config.
func openRepository(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repository.Repository, func()) {
	if cfg.DB.Driver == config.DriverMemory {
		log.Infow("storage_memory", "note", "data is lost on restart")
		return memory.NewRepository(), func() {}
	}

	conn, err := db.InitDB(ctx, cfg.DB.Path, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.DB.Path, "err", err)
	}
	return repository.NewRepository(conn), func() { closeDB(conn, log) }
}

func closeDB(conn *sql.DB, log *logger.Logger) {
	if err := conn.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}

// openSessionStore uses Redis when redis.addr is set, otherwise an in-process store.
func openSessionStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (session.Store, func()) {
	if cfg.Redis.Addr == "" {
		return session.NewMemoryStore(), func() {}
	}
	store, err := session.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalw("failed to connect to redis", "addr", cfg.Redis.Addr, "err", err)
	}
	log.Infow("session_store_redis", "addr", cfg.Redis.Addr)
	return store, func() {
		if err := store.Close(); err != nil {
			log.Errorw("failed to close redis", "err", err)
		}
	}
}

func bootstrapAdmin(ctx context.Context, services *service.Service, admin config.AdminConfig, log *logger.Logger) {
	if !admin.Enabled() {
		return
	}
	created, err := services.Users.Bootstrap(ctx, models.CreateUserInput{
		Name:                 admin.Name,
		Email:                admin.Email,
		Phone:                admin.Phone,
		Birthdate:            admin.Birthdate,
		Password:             admin.Password,
		PasswordConfirmation: admin.Password,
	})
	if err != nil {
		log.Fatalw("failed to bootstrap admin", "email", admin.Email, "err", err)
	}
	if created {
		log.Infow("admin_bootstrapped", "email", admin.Email)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http_server_starting", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, cfg *config.Config, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
