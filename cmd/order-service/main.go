package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/config"
	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/db"
	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/events"
	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/order"
	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/orderapi"
	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/productclient"
)

func main() {
	cfg := config.LoadOrderService()

	logger := log.New(os.Stdout, "[order-service] ", log.LstdFlags|log.Lshortfile)

	if err := db.RunMigrations(cfg.DBDSN, "order", logger); err != nil {
		logger.Fatalf("migrations: %v", err)
	}

	database := db.MustOpen(cfg.DBDSN)
	defer database.Close()
	orderRepo := order.NewRepository(database)

	inventory := productclient.New(cfg.ProductBaseURL, &http.Client{}, cfg.RemoteTimeout)
	workflow := order.NewWorkflow(orderRepo, inventory, logger)

	var publisher orderapi.Publisher
	rabbitConn, err := events.Dial(cfg.RabbitURL)
	if err != nil {
		logger.Fatalf("rabbitmq: %v", err)
	}
	if rabbitConn != nil {
		defer rabbitConn.Close()
		pub, err := events.NewPublisher(rabbitConn)
		if err != nil {
			logger.Fatalf("rabbitmq publisher: %v", err)
		}
		defer pub.Close()
		publisher = pub
	}

	handler := orderapi.NewHandler(workflow, orderRepo, publisher, logger)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      orderapi.NewRouter(handler),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Printf("order-service listening on %s", cfg.HTTPAddr)
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
