package note

// IndexStatus describes the search-index state of a note after a write.
type IndexStatus string

// Index outcomes. A note whose embedding or index write failed is
// stored but will not surface in retrieval until reindexed.
const (
	StatusIndexed         IndexStatus = "indexed"
	StatusEmbeddingFailed IndexStatus = "embedding_failed"
	StatusWriteFailed     IndexStatus = "write_failed"
)

// IsValid reports whether s is a known index status.
func (s IndexStatus) IsValid() bool {
	switch s {
	case StatusIndexed, StatusEmbeddingFailed, StatusWriteFailed:
		return true
	}
	return false
}

// Searchable reports whether notes with this status appear in retrieval.
func (s IndexStatus) Searchable() bool { return s == StatusIndexed }

// Indexed pairs a note with its current index status.
type Indexed struct {
	Note   Note
	Status IndexStatus
}
