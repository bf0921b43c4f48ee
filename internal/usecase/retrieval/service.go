// Package retrieval implements hybrid note search: a BM25 lexical leg
// and a cosine-similarity semantic leg fused into one ranked list.
package retrieval

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/scoutnotes/internal/domain"
	domret "github.com/kailas-cloud/scoutnotes/internal/domain/retrieval"
	"github.com/kailas-cloud/scoutnotes/internal/metrics"
	"github.com/kailas-cloud/scoutnotes/internal/repository/search"
)

// Config bounds the per-leg fetch sizes, the per-phase timeout and the
// excerpt window.
type Config struct {
	LexicalFetchSize int
	KNNFetchSize     int
	ExcerptLength    int
	PhaseTimeout     time.Duration
}

// Service runs hybrid retrieval over the note index.
type Service struct {
	searcher Searcher
	embed    Embedder
	cfg      Config
	logger   *zap.Logger
}

// New creates a retrieval service.
func New(searcher Searcher, embed Embedder, cfg Config, logger *zap.Logger) *Service {
	if cfg.LexicalFetchSize <= 0 {
		cfg.LexicalFetchSize = 50
	}
	if cfg.KNNFetchSize <= 0 {
		cfg.KNNFetchSize = 20
	}
	if cfg.ExcerptLength <= 0 {
		cfg.ExcerptLength = 200
	}
	if cfg.PhaseTimeout <= 0 {
		cfg.PhaseTimeout = 5 * time.Second
	}
	return &Service{searcher: searcher, embed: embed, cfg: cfg, logger: logger}
}

// Retrieve runs both legs in parallel, fuses the results and truncates
// to the requested top K. A single failed leg degrades the result and
// is reported in Result.Degraded; both legs failing is an error.
func (s *Service) Retrieve(ctx context.Context, req domret.Request) (domret.Result, error) {
	start := time.Now()

	var (
		lexHits, semHits []search.Hit
		lexErr, semErr   error
	)

	// The legs are independent; one failing must not cancel the other,
	// so errors are collected per leg instead of through Wait. Each leg
	// runs under its own timeout.
	var g errgroup.Group
	g.Go(func() error {
		legCtx, cancel := context.WithTimeout(ctx, s.cfg.PhaseTimeout)
		defer cancel()
		lexHits, lexErr = s.searcher.Lexical(legCtx, req.Query(), req.PlayerID(), req.Team(), s.cfg.LexicalFetchSize)
		return nil
	})
	g.Go(func() error {
		legCtx, cancel := context.WithTimeout(ctx, s.cfg.PhaseTimeout)
		defer cancel()
		semHits, semErr = s.semanticLeg(legCtx, req)
		return nil
	})
	_ = g.Wait()

	if lexErr != nil && semErr != nil {
		s.logger.Error("Both retrieval phases failed",
			zap.Error(lexErr), zap.NamedError("semantic_error", semErr))
		metrics.RetrievalRequestsTotal.WithLabelValues("error").Inc()
		return domret.Result{}, domain.ErrRetrievalUnavailable
	}

	var degraded []domret.Phase
	if lexErr != nil {
		s.logger.Warn("Lexical phase failed, degrading to semantic-only", zap.Error(lexErr))
		metrics.RetrievalPhaseFailures.WithLabelValues(string(domret.PhaseLexical)).Inc()
		degraded = append(degraded, domret.PhaseLexical)
	}
	if semErr != nil {
		s.logger.Warn("Semantic phase failed, degrading to lexical-only", zap.Error(semErr))
		metrics.RetrievalPhaseFailures.WithLabelValues(string(domret.PhaseSemantic)).Inc()
		degraded = append(degraded, domret.PhaseSemantic)
	}

	fused := fuse(lexHits, semHits, req.KeywordWeight(), req.SemanticWeight())
	metrics.RetrievalCandidates.Observe(float64(len(fused)))

	if len(fused) > req.TopK() {
		fused = fused[:req.TopK()]
	}

	snippets := make([]domret.Snippet, 0, len(fused))
	for _, c := range fused {
		snippets = append(snippets, domret.NewSnippet(
			c.hit.NoteID, c.hit.PlayerID, c.hit.PlayerName, c.hit.Title,
			Excerpt(c.hit.Content, req.Query(), s.cfg.ExcerptLength),
			c.finalScore, c.keywordScore, c.semanticScore,
			c.hit.GameDate, c.hit.Tags,
		))
	}

	status := "ok"
	if len(degraded) > 0 {
		status = "degraded"
	}
	metrics.RetrievalRequestsTotal.WithLabelValues(status).Inc()
	metrics.RetrievalDuration.Observe(time.Since(start).Seconds())

	return domret.Result{Snippets: snippets, Degraded: degraded}, nil
}

// semanticLeg embeds the query and runs KNN. An embedding failure is a
// semantic-phase failure, indistinguishable from the index being down.
func (s *Service) semanticLeg(ctx context.Context, req domret.Request) ([]search.Hit, error) {
	embResult, err := s.embed.Embed(ctx, req.Query())
	if err != nil {
		return nil, err
	}
	return s.searcher.Semantic(ctx, embResult.Embedding, req.PlayerID(), req.Team(), s.cfg.KNNFetchSize)
}
