// souschef — a hands-free cooking assistant service.
//
// Usage:
//
//	souschef [-addr :8080] [-db souschef.db]
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hammamikhairi/souschef/internal/config"
	"github.com/hammamikhairi/souschef/internal/conversation"
	"github.com/hammamikhairi/souschef/internal/engine"
	"github.com/hammamikhairi/souschef/internal/extract"
	"github.com/hammamikhairi/souschef/internal/ingest"
	"github.com/hammamikhairi/souschef/internal/llm"
	"github.com/hammamikhairi/souschef/internal/logger"
	"github.com/hammamikhairi/souschef/internal/metrics"
	"github.com/hammamikhairi/souschef/internal/server"
	"github.com/hammamikhairi/souschef/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	addr := flag.String("addr", cfg.Addr, "listen address")
	dbPath := flag.String("db", cfg.DBPath, "path to the SQLite database")
	ollamaURL := flag.String("ollama", cfg.OllamaURL, "Ollama base URL")
	model := flag.String("model", cfg.Model, "preferred model")
	flag.Parse()

	log := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	db, err := storage.Open(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *dbPath).Msg("open database")
	}
	defer db.Close()
	store := storage.NewStore(db)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	chat := llm.NewClient(*ollamaURL, logger.WithComponent(log, "llm"),
		llm.WithDefaultModel(*model),
		llm.WithTimeout(cfg.ChatTimeout),
		llm.WithLatencyObserver(m.ChatLatency))

	interp := conversation.New(logger.WithComponent(log, "conversation"))
	eng := engine.New(store, chat, interp, logger.WithComponent(log, "engine"),
		engine.WithModel(*model))

	ex := extract.New(chat, logger.WithComponent(log, "extract"),
		extract.WithMaxRetries(cfg.MaxRetries),
		extract.WithFallbackModels(cfg.FallbackModels),
		extract.WithCounters(m.ExtractionAttempts, m.ExtractionFailures))

	srv := server.New(eng, ex, store, logger.WithComponent(log, "http"),
		server.WithModel(*model),
		server.WithHealthChecker(chat),
		server.WithTranscriptSource(ingest.NewHTTPSource(cfg.TranscriptURL, logger.WithComponent(log, "ingest"))),
		server.WithMetrics(m, reg))

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", *addr).Str("model", *model).Msg("listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}
}
