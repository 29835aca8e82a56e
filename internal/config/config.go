// Package config provides runtime configuration for the service binaries.
package config

import (
	"os"
	"strconv"
	"time"
)

// OrderService holds the knobs for the order service binary.
type OrderService struct {
	HTTPAddr        string
	DBDSN           string
	ProductBaseURL  string
	RabbitURL       string
	RemoteTimeout   time.Duration
	ShutdownTimeout time.Duration
}

// ProductService holds the knobs for the product service binary.
type ProductService struct {
	HTTPAddr        string
	DBDSN           string
	ShutdownTimeout time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durenvs(key string, defSec int) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return time.Duration(defSec) * time.Second
	}
	sec, err := strconv.Atoi(v)
	if err != nil {
		return time.Duration(defSec) * time.Second
	}
	return time.Duration(sec) * time.Second
}

// LoadOrderService collects order-service configuration from the environment.
// ORDER_DB_DSN has no usable default and is validated by the caller on open.
func LoadOrderService() OrderService {
	return OrderService{
		HTTPAddr:        getenv("ORDER_HTTP_ADDR", ":8082"),
		DBDSN:           os.Getenv("ORDER_DB_DSN"),
		ProductBaseURL:  getenv("PRODUCT_SERVICE_URL", "http://localhost:8081"),
		RabbitURL:       getenv("RABBITMQ_URL", ""),
		RemoteTimeout:   durenvs("REMOTE_CALL_TIMEOUT", 5),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 5),
	}
}

// LoadProductService collects product-service configuration from the environment.
func LoadProductService() ProductService {
	return ProductService{
		HTTPAddr:        getenv("PRODUCT_HTTP_ADDR", ":8081"),
		DBDSN:           os.Getenv("PRODUCT_DB_DSN"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 5),
	}
}
