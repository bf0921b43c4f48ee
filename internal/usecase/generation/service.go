// Package generation synthesizes grounded answers over retrieved
// scouting notes, with bracketed citations back into the context block.
package generation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/scoutnotes/internal/domain"
	"github.com/kailas-cloud/scoutnotes/internal/domain/answer"
	domret "github.com/kailas-cloud/scoutnotes/internal/domain/retrieval"
)

const noNotesAnswer = "I don't have any scouting notes to answer this question."

// Result is a generated answer together with the retrieval context it
// was grounded on.
type Result struct {
	Answer   answer.Answer
	Snippets []domret.Snippet
	Degraded []domret.Phase
}

// Service generates grounded answers.
type Service struct {
	retriever Retriever
	completer Completer
	logger    *zap.Logger
}

// New creates a generation service.
func New(retriever Retriever, completer Completer, logger *zap.Logger) *Service {
	return &Service{retriever: retriever, completer: completer, logger: logger}
}

// Generate retrieves relevant notes and asks the model for an answer
// grounded in them. Retrieval failures propagate; model failures are
// absorbed into a low-confidence answer because synthesis is a
// best-effort feature on top of retrieval.
func (s *Service) Generate(ctx context.Context, req domret.Request) (Result, error) {
	retrieved, err := s.retriever.Retrieve(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("retrieve notes: %w", err)
	}

	snippets := retrieved.Snippets
	if len(snippets) == 0 {
		return Result{
			Answer: answer.Answer{
				Text:       noNotesAnswer,
				Citations:  []answer.Citation{},
				Confidence: answer.ConfidenceLow,
			},
			Snippets: snippets,
			Degraded: retrieved.Degraded,
		}, nil
	}

	prompt := buildPrompt(req.Query(), snippets)
	msg, err := s.completer.Complete(ctx, []domain.ChatMessage{
		{Role: domain.RoleUser, Content: prompt},
	})
	if err != nil {
		s.logger.Warn("Answer generation failed", zap.Error(err))
		return Result{
			Answer: answer.Answer{
				Text:       fmt.Sprintf("Error generating answer: %v. Please try again later.", err),
				Citations:  []answer.Citation{},
				Confidence: answer.ConfidenceLow,
			},
			Snippets: snippets,
			Degraded: retrieved.Degraded,
		}, nil
	}

	text := strings.TrimSpace(msg.Content)
	citations := extractCitations(text, snippets)

	return Result{
		Answer: answer.Answer{
			Text:                     text,
			Citations:                citations,
			HasSufficientInformation: !strings.Contains(strings.ToLower(text), refusalPhrase),
			Confidence:               assessConfidence(text, len(citations), len(snippets)),
		},
		Snippets: snippets,
		Degraded: retrieved.Degraded,
	}, nil
}
