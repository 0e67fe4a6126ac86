// cmd/assistant-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"workorder-assistant/internal/audit"
	"workorder-assistant/internal/common/config"
	"workorder-assistant/internal/common/database"
	"workorder-assistant/internal/common/logger"
	"workorder-assistant/internal/common/observability"
	"workorder-assistant/internal/dispatch"
	"workorder-assistant/internal/erp"
	"workorder-assistant/internal/nlp"
	"workorder-assistant/internal/report"
	"workorder-assistant/internal/server"
	"workorder-assistant/internal/workorder"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting assistant server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("assistant-server")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Audit Sink (optionally mirrored to Elasticsearch) ---
	sink := audit.NewSink(pg.DB, log)
	if cfg.Database.Elasticsearch.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		sink = sink.WithIndexer(audit.NewESIndexer(esClient, cfg.Database.Elasticsearch.Index, log))
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Core pipeline ---
	gateway := erp.NewClient(cfg.Odoo, log)
	err = retryWithBackoff(func() error {
		return gateway.Authenticate(ctx)
	}, 10, 2*time.Second, zapLog, "ERP authentication")
	if err != nil {
		zapLog.Fatal("erp authentication failed after retries", zap.Error(err))
	}
	zapLog.Info("ERP gateway authenticated successfully")

	var resolver nlp.Resolver = nlp.NewHTTPResolver(cfg.NLP, log)
	if cfg.NLP.CacheTTL > 0 {
		resolver = nlp.NewCachedResolver(resolver, rdb, time.Duration(cfg.NLP.CacheTTL)*time.Second, log)
	}

	svc := workorder.NewService(gateway, log)
	composer := report.NewComposer()
	authorizer := dispatch.NewIntentAllowlist(cfg.Auth.AllowedIntents)
	dispatcher := dispatch.NewDispatcher(resolver, svc, composer, authorizer, sink, log)

	sessions := server.NewSessionStore(rdb, time.Duration(cfg.Server.SessionTTL)*time.Second, log)
	srv := server.New(cfg, dispatcher, resolver, svc, sessions, sink, log)

	go func() {
		if err := srv.Start(); err != nil {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down http server", zap.Error(err))
	}

	zapLog.Info("Assistant server stopped gracefully")
}
