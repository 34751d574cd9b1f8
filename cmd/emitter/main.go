package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	segmentio "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/AdamDragMarqo/stock-mate/internal/adapters/httpapi"
	kaf "github.com/AdamDragMarqo/stock-mate/internal/adapters/kafka"
	"github.com/AdamDragMarqo/stock-mate/internal/config"
	"github.com/AdamDragMarqo/stock-mate/internal/logging"
)

func main() {
	cfg := config.Load()
	logging.InitLogger()
	logging.LogInfo("starting event-emitter", logrus.Fields{
		"pid":  os.Getpid(),
		"port": cfg.HTTP.Port,
	})

	prod := kaf.NewProducer(kaf.ProducerConfig{
		Brokers:                cfg.Kafka.Brokers,
		RequiredAcks:           segmentio.RequireAll,
		WriteTimeout:           5 * time.Second,
		AllowAutoTopicCreation: true,
	})
	defer prod.Close()

	h := httpapi.NewEmitterHandlers(prod)

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.StripSlashes, middleware.Timeout(5*time.Second))
	r.Get("/health", httpapi.HealthHandler)
	r.Post("/product", h.CreateProduct)
	r.Post("/customer", h.CreateCustomer)
	r.Post("/supplier", h.CreateSupplier)
	r.Post("/purchase-order", h.CreatePurchaseOrder)
	r.Post("/inventory", h.CreateInventory)
	r.Post("/sales-order", h.CreateSalesOrder)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logging.LogInfo("http server listening", logrus.Fields{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.LogError("http server ListenAndServe failed", err, logrus.Fields{"addr": srv.Addr})
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	logging.LogInfo("shutdown signal received", logrus.Fields{"signal": sig.String()})

	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logging.LogError("http server shutdown failed", err, logrus.Fields{})
	}
	logging.LogInfo("bye", logrus.Fields{})
}
