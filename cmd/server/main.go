package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/contaflow/backoffice/internal/clients"
	"github.com/contaflow/backoffice/internal/config"
	"github.com/contaflow/backoffice/internal/db"
	"github.com/contaflow/backoffice/internal/importer"
	"github.com/contaflow/backoffice/internal/middleware"
	"github.com/contaflow/backoffice/internal/repository"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	if err := db.RunMigrations(cfg.Database, cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	clientRepo := repository.NewClientRepository(conn.Pool)
	importLogRepo := repository.NewImportLogRepository(conn.Pool)

	importService := importer.NewService(clientRepo, importLogRepo, log)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	logging := middleware.Logging(log)

	mux := http.NewServeMux()
	mux.Handle("/imports/clients", importer.NewUploadHandler(importService))
	mux.Handle("/imports/logs", importer.NewLogsHandler(importLogRepo))
	mux.Handle("/clients", clients.NewHTTPHandler(clientRepo))

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      corsHandler.Handler(logging(mux)),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("starting back-office server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("server exited")
}
