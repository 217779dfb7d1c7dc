package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"techweave_backend/internal/config"
	"techweave_backend/internal/httpserver"
	"techweave_backend/internal/security"
	"techweave_backend/internal/store/mysql"
	"techweave_backend/internal/store/sqlite"
	"techweave_backend/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var db *sql.DB
	switch cfg.DBDriver {
	case "sqlite":
		db, err = sqlite.Open(cfg.SQLitePath)
		if err == nil {
			err = sqlite.Migrate(db)
		}
	default:
		db, err = mysql.Open(cfg.MySQLDSN)
		if err == nil {
			err = mysql.Migrate(db)
		}
	}
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	repos := httpserver.NewRepos(cfg.DBDriver, db)

	// General Chat (group 1) must exist before any signup completes; every
	// verified user is auto-joined to it.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := repos.Groups.EnsureGeneralChat(ctx); err != nil {
		cancel()
		log.Fatalf("failed to provision General Chat: %v", err)
	}
	cancel()

	tokenSvc := security.NewTokenService(
		cfg.JWTSecret,
		time.Duration(cfg.AccessTokenDays)*24*time.Hour,
		time.Duration(cfg.ResetTokenMinutes)*time.Minute,
	)
	passwordHasher := security.NewPasswordHasher(0)

	hub := ws.NewHub()

	router := httpserver.NewRouter(cfg, repos, hub, tokenSvc, passwordHasher)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("TechWeave server started on %s (db: %s)", cfg.HTTPAddr(), cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
