// Package scoutnotes provides an embedded Go client for the scouting
// notes engine backed by Redis with search modules. It wires the same
// storage, indexing and hybrid retrieval pipeline the HTTP service
// uses, without the HTTP layer in between.
//
//	client, _ := scoutnotes.New(ctx,
//	    scoutnotes.WithRedis("localhost:6379", ""),
//	    scoutnotes.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	)
//	defer client.Close()
//
//	p, _ := client.CreatePlayer(ctx, "Stephen Curry", "Golden State Warriors", "PG")
//	_, _ = client.CreateNote(ctx, scoutnotes.NoteInput{
//	    PlayerID: p.ID,
//	    Title:    "Shooting form",
//	    Content:  "Exceptional 3-point shooting off the dribble.",
//	})
//	res, _ := client.Search(ctx, scoutnotes.SearchRequest{Query: "three point shooting"})
package scoutnotes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/scoutnotes/internal/db"
	dbRedis "github.com/kailas-cloud/scoutnotes/internal/db/redis"
	"github.com/kailas-cloud/scoutnotes/internal/domain"
	"github.com/kailas-cloud/scoutnotes/internal/domain/note"
	"github.com/kailas-cloud/scoutnotes/internal/domain/player"
	domret "github.com/kailas-cloud/scoutnotes/internal/domain/retrieval"
	notesrepo "github.com/kailas-cloud/scoutnotes/internal/repository/notes"
	playersrepo "github.com/kailas-cloud/scoutnotes/internal/repository/players"
	searchrepo "github.com/kailas-cloud/scoutnotes/internal/repository/search"
	openaiTransport "github.com/kailas-cloud/scoutnotes/internal/transport/openai"
	healthuc "github.com/kailas-cloud/scoutnotes/internal/usecase/health"
	notesuc "github.com/kailas-cloud/scoutnotes/internal/usecase/notes"
	playersuc "github.com/kailas-cloud/scoutnotes/internal/usecase/players"
	retrievaluc "github.com/kailas-cloud/scoutnotes/internal/usecase/retrieval"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces so tests can swap the services out.
type playersUseCase interface {
	Create(ctx context.Context, name, team, position string) (player.Player, error)
	Get(ctx context.Context, id int64) (player.Player, error)
	List(ctx context.Context) ([]player.Player, error)
	Update(ctx context.Context, id int64, name, team, position string) (player.Player, error)
	Delete(ctx context.Context, id int64) error
}

type notesUseCase interface {
	Create(ctx context.Context, in notesuc.CreateInput) (note.Indexed, error)
	Get(ctx context.Context, id int64) (note.Indexed, error)
	List(ctx context.Context, playerID int64) ([]note.Indexed, error)
	Update(ctx context.Context, id int64, u note.Update) (note.Indexed, error)
	Delete(ctx context.Context, id int64) error
	Reindex(ctx context.Context, id int64) (note.Indexed, error)
}

type retrievalUseCase interface {
	Retrieve(ctx context.Context, req domret.Request) (domret.Result, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the scoutnotes SDK entry point.
type Client struct {
	store     db.Store
	players   playersUseCase
	notes     notesUseCase
	retrieval retrievalUseCase
	health    healthUseCase
}

// New creates a scoutnotes Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("scoutnotes: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("scoutnotes: create store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("scoutnotes: database not ready: %w", err)
	}

	c, err := wireClient(ctx, store, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig) (*Client, error) {
	embedder := cfg.embedder
	if embedder == nil && cfg.openaiAPIKey != "" {
		embedder = newOpenAIEmbedder(cfg)
	}
	if embedder == nil {
		embedder = &noopEmbedder{}
	}
	adapted := &embedderAdapter{inner: embedder}

	playerRepo := playersrepo.New(store)
	noteRepo := notesrepo.New(store)
	searchRepo := searchrepo.New(store, searchrepo.IndexConfig{
		Dimensions:  cfg.vectorDimensions,
		HNSWM:       cfg.hnswM,
		EFConstruct: cfg.hnswEFConstruct,
	})

	if err := searchRepo.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("scoutnotes: ensure search index: %w", err)
	}

	notesSvc := notesuc.New(noteRepo, playerRepo, searchRepo, adapted, cfg.logger)
	playersSvc := playersuc.New(playerRepo, notesSvc, cfg.logger)
	retrievalSvc := retrievaluc.New(searchRepo, adapted, retrievaluc.Config{}, cfg.logger)
	healthSvc := healthuc.New(store, searchRepo, nil)

	return &Client{
		store:     store,
		players:   playersSvc,
		notes:     notesSvc,
		retrieval: retrievalSvc,
		health:    healthSvc,
	}, nil
}

// Close releases the database connection.
func (c *Client) Close() {
	c.store.Close()
}

// Health checks the health of the store and the search index.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.health.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// Embedder converts text to vector embeddings. Required for semantic
// search; without one, lexical search still works in degraded mode.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// embedderAdapter bridges the public Embedder to the internal contract.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{
		Embedding:    res.Embedding,
		PromptTokens: res.PromptTokens,
		TotalTokens:  res.TotalTokens,
	}, nil
}

// noopEmbedder rejects embedding calls when no embedder is configured.
type noopEmbedder struct{}

func (n *noopEmbedder) Embed(context.Context, string) (EmbeddingResult, error) {
	return EmbeddingResult{}, fmt.Errorf("scoutnotes: embedder not configured (use WithEmbedder or WithOpenAI): %w",
		domain.ErrEmbeddingProviderError)
}

// openaiEmbedder wraps the internal OpenAI transport behind the public interface.
type openaiEmbedder struct {
	inner domain.Embedder
}

func (o *openaiEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	res, err := o.inner.Embed(ctx, text)
	if err != nil {
		return EmbeddingResult{}, err
	}
	return EmbeddingResult{
		Embedding:    res.Embedding,
		PromptTokens: res.PromptTokens,
		TotalTokens:  res.TotalTokens,
	}, nil
}

func newOpenAIEmbedder(cfg *clientConfig) Embedder {
	return &openaiEmbedder{inner: openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.openaiAPIKey,
		BaseURL:    cfg.openaiBaseURL,
		Model:      cfg.openaiModel,
		Dimensions: cfg.vectorDimensions,
		Logger:     cfg.logger,
	})}
}

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	embedder Embedder

	openaiAPIKey  string
	openaiBaseURL string
	openaiModel   string

	vectorDimensions int
	hnswM            int
	hnswEFConstruct  int

	logger *zap.Logger
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		openaiModel:      "text-embedding-3-small",
		vectorDimensions: 1536,
		hnswM:            16,
		hnswEFConstruct:  200,
		logger:           zap.NewNop(),
	}
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithEmbedder plugs in a custom embedding provider.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithOpenAI configures the built-in OpenAI-compatible embedding
// provider. Ignored when WithEmbedder is also given.
func WithOpenAI(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openaiAPIKey = apiKey
	})
}

// WithOpenAIModel overrides the embedding model used by WithOpenAI.
func WithOpenAIModel(model string, dimensions int) Option {
	return optionFunc(func(c *clientConfig) {
		c.openaiModel = model
		c.vectorDimensions = dimensions
	})
}

// WithOpenAIBaseURL points WithOpenAI at an OpenAI-compatible endpoint.
func WithOpenAIBaseURL(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openaiBaseURL = baseURL
	})
}

// WithHNSW tunes the vector index build parameters.
func WithHNSW(m, efConstruct int) Option {
	return optionFunc(func(c *clientConfig) {
		c.hnswM = m
		c.hnswEFConstruct = efConstruct
	})
}

// WithLogger attaches a logger to the SDK internals.
func WithLogger(logger *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = logger
	})
}
