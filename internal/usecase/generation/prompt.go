package generation

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/kailas-cloud/scoutnotes/internal/domain/answer"
	domret "github.com/kailas-cloud/scoutnotes/internal/domain/retrieval"
)

// refusalPhrase is the fixed sentence fragment the prompt instructs the
// model to emit when the notes cannot answer the question. The
// confidence heuristic keys off it, so prompt and parser must agree.
const refusalPhrase = "don't have enough information"

const promptHeader = `You are an expert NBA scout assistant. Your job is to answer questions about players based ONLY on the provided scouting notes.

STRICT RULES:
1. Only use information from the notes below
2. Cite every claim using [1], [2], etc. notation
3. If the notes don't contain enough information to answer, say: "I don't have enough information in the scouting notes to answer this question."
4. Do not make up or infer information not explicitly in the notes
5. If asked about a player not in the notes, say you don't have notes on them`

var citationMarker = regexp.MustCompile(`\[(\d+)\]`)

// buildPrompt assembles the grounding prompt: rules, a numbered
// context block (1-based, matching citation markers), the question.
func buildPrompt(query string, snippets []domret.Snippet) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\n\nSCOUTING NOTES:\n")

	for i := range snippets {
		s := &snippets[i]
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%d] Player: %s\n", i+1, s.PlayerName())
		fmt.Fprintf(&b, "    Title: %s\n", s.Title())
		fmt.Fprintf(&b, "    Content: %s\n", s.Excerpt())
		fmt.Fprintf(&b, "    Game Date: %s\n", orNA(s.GameDate()))
		fmt.Fprintf(&b, "    Tags: %s", orNA(strings.Join(s.Tags(), ", ")))
	}

	fmt.Fprintf(&b, "\n\nQUESTION: %s\n\nANSWER (with citations):", query)
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// extractCitations parses bracketed numeric markers from the answer,
// deduplicates them, drops out-of-range references and maps the rest
// back to their snippets in ascending order.
func extractCitations(text string, snippets []domret.Snippet) []answer.Citation {
	seen := map[int]bool{}
	for _, m := range citationMarker.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n >= 1 && n <= len(snippets) {
			seen[n] = true
		}
	}

	refs := make([]int, 0, len(seen))
	for n := range seen {
		refs = append(refs, n)
	}
	sort.Ints(refs)

	citations := make([]answer.Citation, 0, len(refs))
	for _, n := range refs {
		s := &snippets[n-1]
		citations = append(citations, answer.Citation{
			NoteID:          s.NoteID(),
			PlayerName:      s.PlayerName(),
			Title:           s.Title(),
			Excerpt:         s.Excerpt(),
			ReferenceNumber: n,
		})
	}
	return citations
}

// assessConfidence grades the answer: a refusal or hedge is low, three
// or more citations over three or more snippets is high, any citation
// at all is medium.
func assessConfidence(text string, citationCount, snippetCount int) answer.Confidence {
	lower := strings.ToLower(text)

	if strings.Contains(lower, refusalPhrase) {
		return answer.ConfidenceLow
	}
	if strings.Contains(lower, "i don't have") || strings.Contains(lower, "no information") {
		return answer.ConfidenceLow
	}
	if citationCount >= 3 && snippetCount >= 3 {
		return answer.ConfidenceHigh
	}
	if citationCount >= 1 {
		return answer.ConfidenceMedium
	}
	return answer.ConfidenceLow
}
