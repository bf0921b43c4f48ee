package retrieval

// Phase identifies one of the two independent retrieval signals.
type Phase string

// Retrieval phases.
const (
	PhaseLexical  Phase = "lexical"
	PhaseSemantic Phase = "semantic"
)

// Result is the outcome of a hybrid retrieval. Degraded lists the
// phases that failed: the snippets were computed from the surviving
// signal only. An empty Degraded means both phases contributed.
type Result struct {
	Snippets []Snippet
	Degraded []Phase
}

// IsDegraded reports whether any phase failed.
func (r *Result) IsDegraded() bool { return len(r.Degraded) > 0 }
