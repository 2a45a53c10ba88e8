package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amirk1998/project-tracker/internal/audit"
	"github.com/amirk1998/project-tracker/internal/backup"
	"github.com/amirk1998/project-tracker/internal/config"
	"github.com/amirk1998/project-tracker/internal/database"
	"github.com/amirk1998/project-tracker/internal/ratelimit"
	"github.com/amirk1998/project-tracker/internal/repository"
	"github.com/amirk1998/project-tracker/internal/service"
	"github.com/amirk1998/project-tracker/internal/session"
	"github.com/amirk1998/project-tracker/internal/web"
)

type Application struct {
	config       *config.Config
	db           *sql.DB
	sessionStore *session.MemoryStore
	auditLogger  *audit.Logger
	auditMonitor *audit.Monitor
	backupMgr    *backup.Manager
	rateLimiter  *ratelimit.RateLimiter
	server       *http.Server
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("[Shutdown] Received shutdown signal...")
		cancel()
	}()

	// Start automated backups in background
	go app.backupMgr.StartAutomatedBackups(ctx, cfg.BackupInterval)

	// Start rate limiter cleanup worker
	go app.rateLimiter.StartCleanupWorker(ctx, 1*time.Hour)

	// Sweep expired sessions so the store does not grow without bound
	go app.sessionStore.StartCleanupWorker(ctx, 10*time.Minute, cfg.SessionInactivityLimit)

	// Start security monitoring in background
	go app.startSecurityMonitoring(ctx)

	// Shut the HTTP server down when the context is cancelled
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := app.server.Shutdown(shutdownCtx); err != nil {
			log.Printf("[Shutdown] HTTP server shutdown error: %v", err)
		}
	}()

	log.Printf("Project tracker listening on %s", cfg.ListenAddr)
	if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("HTTP server failed: %v", err)
	}
}

// initializeApplication sets up all application components
func initializeApplication(cfg *config.Config) (*Application, error) {
	// Connect to encrypted database
	dbConfig := database.Config{
		Path:          cfg.DBPath,
		EncryptionKey: cfg.DBEncryptionKey,
		MaxOpenConns:  25,
		MaxIdleConns:  5,
		MaxLifetime:   1 * time.Hour,
		MaxIdleTime:   10 * time.Minute,
	}

	db, err := database.Connect(dbConfig)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize audit logger and security monitor
	auditLogger, err := audit.NewLogger(db, cfg.AuditLogPath, cfg.AuditAsyncMode)
	if err != nil {
		db.Close()
		return nil, err
	}
	auditMonitor := audit.NewMonitor(auditLogger)

	// Initialize rate limiter
	rateLimiter := ratelimit.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)

	// Initialize session manager with the in-memory store
	sessionStore := session.NewMemoryStore()
	sessionMgr := session.NewManager(sessionStore, cfg.SessionCookieName, cfg.SessionInactivityLimit)

	// Initialize services
	authService := service.NewAuthService(userRepo, rateLimiter, auditLogger,
		cfg.LockoutThreshold, cfg.LockoutWindow)
	projectService := service.NewProjectService(projectRepo, auditLogger)
	searchService := service.NewSearchService(projectRepo, auditLogger)

	// Initialize backup manager
	backupMgr, err := backup.NewManager(db, cfg.BackupDir, cfg.BackupEncryptionKey, cfg.BackupRetentionDays)
	if err != nil {
		db.Close()
		auditLogger.Close()
		return nil, err
	}

	// Build the HTTP server
	webServer := web.NewServer(sessionMgr, authService, projectService, searchService, auditLogger)
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           webServer.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Application{
		config:       cfg,
		db:           db,
		sessionStore: sessionStore,
		auditLogger:  auditLogger,
		auditMonitor: auditMonitor,
		backupMgr:    backupMgr,
		rateLimiter:  rateLimiter,
		server:       httpServer,
	}, nil
}

// cleanup performs cleanup operations
func (app *Application) cleanup() {
	log.Println("[Cleanup] Shutting down gracefully...")

	if app.auditLogger != nil {
		app.auditLogger.Close()
	}

	if app.db != nil {
		app.db.Close()
	}

	log.Println("[Cleanup] Done")
}

// startSecurityMonitoring runs security monitoring in background
func (app *Application) startSecurityMonitoring(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := app.auditMonitor.DetectSuspiciousActivity(); err != nil {
				log.Printf("[Security] Monitoring error: %v", err)
			}
		}
	}
}
