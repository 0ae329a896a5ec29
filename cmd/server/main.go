package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"chemworld/internal/config"
	"chemworld/internal/db"
	"chemworld/internal/db/mock"
	applog "chemworld/internal/log"
	"chemworld/internal/server"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	applog.SetLevel(cfg.Logging.Level)
	if cfg.Logging.JSON {
		applog.UseJSON()
	}

	database := openDatabase(cfg)

	srv, err := server.New(server.Config{
		Addr: cfg.Server.Addr,
		Session: server.SessionConfig{
			Lifetime:     cfg.Session.Lifetime,
			CookieName:   cfg.Session.CookieName,
			CookieDomain: cfg.Session.CookieDomain,
			CookieSecure: cfg.Session.CookieSecure,
		},
		Database: database,
	})
	if err != nil {
		log.Fatalf("initialize server: %v", err)
	}

	go func() {
		applog.Info(context.Background(), "starting http server", "addr", cfg.Server.Addr)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server encountered an error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	<-sigCh

	applog.Info(context.Background(), "shutting down http server")
	if err := srv.Stop(); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
}

func openDatabase(cfg config.Config) *gorm.DB {
	if cfg.Database.UseMock {
		database, err := mock.New(context.Background())
		if err != nil {
			log.Fatalf("initialize mock database: %v", err)
		}
		applog.Info(context.Background(), "using in-memory mock database")
		return database
	}

	database, err := db.Configure(cfg.Database)
	if err != nil {
		log.Fatalf("initialize database: %v", err)
	}
	return database
}
