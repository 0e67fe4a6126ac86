// cmd/assistant/main.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"workorder-assistant/internal/audit"
	"workorder-assistant/internal/common/config"
	"workorder-assistant/internal/common/database"
	"workorder-assistant/internal/common/logger"
	"workorder-assistant/internal/dispatch"
	"workorder-assistant/internal/erp"
	"workorder-assistant/internal/nlp"
	"workorder-assistant/internal/report"
	"workorder-assistant/internal/workorder"
)

const welcomeBanner = `Work Order Assistant
Type a question about a work order, or "help" for commands.`

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

const helpText = `Commands:
  help        show this message
  analytics   per-intent usage over the last 7 days
  quit        exit

Everything else is treated as a question, for example:
  show me the finances of work order WO/2024/0042
  what papers do we have for WO/2024/0042
  get work orders for January 2024`

func main() {
	zapLog := logger.New("warn", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	ctx := context.Background()

	// The CLI stays usable without its side stores. Audit and the NLP
	// cache are skipped when their backends are unreachable.
	var sink *audit.Sink
	if pg, err := database.NewPostgres(cfg.Database.Postgres); err == nil && pg.Ping(ctx) == nil {
		defer pg.Close()
		sink = audit.NewSink(pg.DB, log)
	} else {
		log.Warn("audit store unreachable, queries will not be recorded", map[string]interface{}{})
	}

	var resolver nlp.Resolver = nlp.NewHTTPResolver(cfg.NLP, log)
	if rdb, err := database.NewRedis(cfg.Database.Redis); err == nil && rdb.Ping(ctx) == nil {
		defer rdb.Close()
		if cfg.NLP.CacheTTL > 0 {
			resolver = nlp.NewCachedResolver(resolver, rdb, time.Duration(cfg.NLP.CacheTTL)*time.Second, log)
		}
	} else {
		log.Warn("redis unreachable, intent cache disabled", map[string]interface{}{})
	}

	gateway := erp.NewClient(cfg.Odoo, log)
	err = retryWithBackoff(func() error {
		return gateway.Authenticate(ctx)
	}, 5, 2*time.Second, zapLog, "ERP authentication")
	if err != nil {
		zapLog.Fatal("erp authentication failed after retries", zap.Error(err))
	}

	svc := workorder.NewService(gateway, log)
	authorizer := dispatch.NewIntentAllowlist(cfg.Auth.AllowedIntents)

	var notifier dispatch.Notifier
	if sink != nil {
		notifier = sink
	}
	dispatcher := dispatch.NewDispatcher(resolver, svc, report.NewComposer(), authorizer, notifier, log)

	sessionID := uuid.NewString()
	if sink != nil {
		if err := sink.StartSession(ctx, sessionID, cfg.Auth.AdminUser); err != nil {
			log.WithError(err).Warn("session audit failed", map[string]interface{}{})
		}
	}

	fmt.Println(welcomeBanner)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit":
			fmt.Println("Goodbye.")
			return
		case "help":
			fmt.Println(helpText)
			continue
		case "analytics":
			printAnalytics(ctx, sink)
			continue
		}

		resp := dispatcher.ProcessText(ctx, sessionID, cfg.Auth.AdminUser, line)
		fmt.Println(resp.Text)
	}
}

func printAnalytics(ctx context.Context, sink *audit.Sink) {
	if sink == nil {
		fmt.Println("Analytics unavailable: audit store is not connected.")
		return
	}

	stats, err := sink.Analytics(ctx, 7)
	if err != nil {
		fmt.Println("Analytics unavailable:", err)
		return
	}
	if len(stats) == 0 {
		fmt.Println("No queries recorded in the last 7 days.")
		return
	}

	fmt.Println("Usage over the last 7 days:")
	for _, stat := range stats {
		fmt.Printf("  %-22s %5d queries, %.0f%% success, avg %.0f ms\n",
			stat.Intent, stat.Count, stat.SuccessRate*100, stat.AvgLatencyMs)
	}
}
