package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/scoutnotes/internal/config"
	"github.com/kailas-cloud/scoutnotes/internal/db"
	dbRedis "github.com/kailas-cloud/scoutnotes/internal/db/redis"
	"github.com/kailas-cloud/scoutnotes/internal/domain"
	logpkg "github.com/kailas-cloud/scoutnotes/internal/logger"
	"github.com/kailas-cloud/scoutnotes/internal/metrics"
	convorepo "github.com/kailas-cloud/scoutnotes/internal/repository/convo"
	"github.com/kailas-cloud/scoutnotes/internal/repository/embcache"
	notesrepo "github.com/kailas-cloud/scoutnotes/internal/repository/notes"
	playersrepo "github.com/kailas-cloud/scoutnotes/internal/repository/players"
	searchrepo "github.com/kailas-cloud/scoutnotes/internal/repository/search"
	chiTransport "github.com/kailas-cloud/scoutnotes/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/scoutnotes/internal/transport/openai"
	assistantuc "github.com/kailas-cloud/scoutnotes/internal/usecase/assistant"
	embeddinguc "github.com/kailas-cloud/scoutnotes/internal/usecase/embedding"
	generationuc "github.com/kailas-cloud/scoutnotes/internal/usecase/generation"
	healthuc "github.com/kailas-cloud/scoutnotes/internal/usecase/health"
	notesuc "github.com/kailas-cloud/scoutnotes/internal/usecase/notes"
	playersuc "github.com/kailas-cloud/scoutnotes/internal/usecase/players"
	retrievaluc "github.com/kailas-cloud/scoutnotes/internal/usecase/retrieval"
	seeduc "github.com/kailas-cloud/scoutnotes/internal/usecase/seed"
	"github.com/kailas-cloud/scoutnotes/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting scoutnotes API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRetrievalMetrics()

	embedder := buildEmbedder(cfg.Embedding, store, logger)
	logger.Info("Embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	chatClient := openaiTransport.NewChatClient(&openaiTransport.ChatConfig{
		APIKey:      cfg.Chat.APIKey,
		BaseURL:     cfg.Chat.BaseURL,
		Model:       cfg.Chat.Model,
		Temperature: cfg.Chat.Temperature,
		MaxTokens:   cfg.Chat.MaxTokens,
		Logger:      logger,
	})

	// Repositories (domain-native, no adapters)
	playerRepo := playersrepo.New(store)
	noteRepo := notesrepo.New(store)
	searchRepo := searchrepo.New(store, searchrepo.IndexConfig{
		Dimensions:  cfg.Embedding.Dimensions,
		HNSWM:       cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	})
	convoRepo := convorepo.New(store)

	if err := searchRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure search index", zap.Error(err))
	}

	// Use case services
	notesSvc := notesuc.New(noteRepo, playerRepo, searchRepo, embedder, logger)
	playersSvc := playersuc.New(playerRepo, notesSvc, logger)
	retrievalSvc := retrievaluc.New(searchRepo, embedder, retrievaluc.Config{
		LexicalFetchSize: cfg.Retrieval.LexicalFetchSize,
		KNNFetchSize:     cfg.Retrieval.KNNFetchSize,
		ExcerptLength:    cfg.Retrieval.ExcerptLength,
		PhaseTimeout:     time.Duration(cfg.Retrieval.PhaseTimeoutSec) * time.Second,
	}, logger)
	generationSvc := generationuc.New(retrievalSvc, chatClient, logger)
	assistantSvc := assistantuc.New(convoRepo, chatClient, playersSvc, notesSvc, retrievalSvc, cfg.Chat.MaxSteps, logger)
	seedSvc := seeduc.New(playersSvc, notesSvc, logger)
	healthSvc := healthuc.New(store, searchRepo, newEmbeddingHealthChecker(embedder))

	server := chiTransport.NewServer(
		retrievalSvc, generationSvc, playersSvc, notesSvc,
		assistantSvc, seedSvc, healthSvc, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		// Write timeout must cover a full assistant run streamed over SSE.
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented.
func buildEmbedder(cfg config.EmbeddingConfig, store db.Store, logger *zap.Logger) domain.Embedder {
	base := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if store != nil {
		embedder = embcache.New(base, store, metrics.EmbeddingCacheTotal, logger)
	}

	return embeddinguc.NewInstrumentedEmbedder(embedder, "openai", cfg.Model, logger)
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
