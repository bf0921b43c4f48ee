// Package answer holds the synthesized answer types.
package answer

// Confidence grades how well-grounded a synthesized answer is.
type Confidence string

// Confidence levels.
const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Citation links a claim in the answer back to a retrieved note.
// ReferenceNumber is the 1-based position of the note in the context
// block given to the model.
type Citation struct {
	NoteID          int64
	PlayerName      string
	Title           string
	Excerpt         string
	ReferenceNumber int
}

// Answer is a grounded answer synthesized from retrieved snippets.
type Answer struct {
	Text                     string
	Citations                []Citation
	HasSufficientInformation bool
	Confidence               Confidence
}
