package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/config"
	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/db"
	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/product"
	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/productapi"
)

func main() {
	cfg := config.LoadProductService()

	logger := log.New(os.Stdout, "[product-service] ", log.LstdFlags|log.Lshortfile)

	if err := db.RunMigrations(cfg.DBDSN, "product", logger); err != nil {
		logger.Fatalf("migrations: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), cfg.DBDSN)
	if err != nil {
		logger.Fatalf("open pgx pool: %v", err)
	}
	defer pool.Close()

	repo := product.NewPostgresRepository(pool)
	handler := productapi.NewHandler(repo, logger)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      productapi.NewRouter(handler),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Printf("product-service listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
