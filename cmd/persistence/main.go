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

	"github.com/AdamDragMarqo/stock-mate/internal/adapters/cache"
	kaf "github.com/AdamDragMarqo/stock-mate/internal/adapters/kafka"
	"github.com/AdamDragMarqo/stock-mate/internal/config"
	"github.com/AdamDragMarqo/stock-mate/internal/logging"
	"github.com/AdamDragMarqo/stock-mate/internal/pipeline"
	"github.com/AdamDragMarqo/stock-mate/internal/provider"
)

func main() {
	cfg := config.Load()
	logging.InitLogger()
	logging.LogInfo("starting persistence-service", logrus.Fields{
		"pid":    os.Getpid(),
		"topics": cfg.Kafka.Topics,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	prov := provider.New()
	defer prov.Reset()

	gw, err := prov.Gateway(ctx)
	if err != nil {
		logging.LogError("gateway setup failed", err, logrus.Fields{})
		os.Exit(1)
	}
	router, err := prov.Router()
	if err != nil {
		logging.LogError("router setup failed", err, logrus.Fields{})
		os.Exit(1)
	}

	var seen cache.SeenCache
	if cfg.App.CacheBackend == "redis" {
		rc := cache.NewRedisSeen(cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			TTL:      cfg.Redis.TTL,
		})
		defer rc.Close()
		seen = rc
		logging.LogInfo("redis dedup cache enabled", logrus.Fields{"addr": cfg.Redis.Addr, "ttl": cfg.Redis.TTL.String()})
	} else {
		seen = cache.NewLRUSeen(10000)
		logging.LogInfo("lru dedup cache enabled", logrus.Fields{"capacity": 10000})
	}

	ingestor := pipeline.NewIngestor(router, gw, seen)

	consumer := kaf.NewConsumer(kaf.ConsumerConfig{
		Brokers:           cfg.Kafka.Brokers,
		ClientID:          "persistence-service",
		MinBytes:          1 << 10,
		MaxBytes:          10 << 20,
		MaxWait:           100 * time.Millisecond,
		SessionTimeout:    10 * time.Second,
		RebalanceTimeout:  10 * time.Second,
		HeartbeatInterval: 3 * time.Second,
		StartOffset:       segmentio.FirstOffset,
		BatchSize:         25,
		BatchWindow:       250 * time.Millisecond,
		MaxRetries:        5,
		Backoff:           200 * time.Millisecond,
	})

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		logging.LogInfo("kafka consumer subscribing", logrus.Fields{
			"topics": cfg.Kafka.Topics, "group": cfg.Kafka.Group, "brokers": cfg.Kafka.Brokers,
		})

		err := consumer.Subscribe(ctx, cfg.Kafka.Topics, cfg.Kafka.Group, func(ctx context.Context, msgs []kaf.Message) error {
			env := pipeline.Envelope{Records: make([]pipeline.Notification, 0, len(msgs))}
			for _, m := range msgs {
				env.Records = append(env.Records, pipeline.Notification{
					Body:        string(m.Value),
					OriginTopic: m.Topic,
				})
			}
			// Only transient outcomes surface as an error here, which
			// keeps the batch uncommitted for redelivery.
			_, err := ingestor.Handle(ctx, env)
			return err
		})
		if err != nil {
			logging.LogError("kafka consumer stopped", err, logrus.Fields{"group": cfg.Kafka.Group})
			cancel()
			return
		}
		logging.LogInfo("kafka consumer exited gracefully", logrus.Fields{"group": cfg.Kafka.Group})
	}()

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Timeout(5*time.Second))
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Get("/ready", func(w http.ResponseWriter, req *http.Request) {
		if err := gw.Ping(req.Context()); err != nil {
			logging.LogError("readiness: db not ready", err, logrus.Fields{})
			http.Error(w, "db not ready: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

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
	select {
	case sig := <-stop:
		logging.LogInfo("shutdown signal received", logrus.Fields{"signal": sig.String()})
	case <-consumerDone:
		logging.LogInfo("consumer finished, shutting down", logrus.Fields{})
	}
	cancel()

	if err := consumer.Close(); err != nil {
		logging.LogError("kafka consumer close failed", err, logrus.Fields{})
	}

	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logging.LogError("http server shutdown failed", err, logrus.Fields{})
	}
	logging.LogInfo("bye", logrus.Fields{})
}
