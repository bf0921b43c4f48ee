package db

// TagFilter is an exact-match pre-filter on a TAG field. Multiple
// filters combine with AND semantics.
type TagFilter struct {
	Field string
	Value string
}

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Filters      []TagFilter
	Vector       []float32
	K            int
	ReturnFields []string
}

// TextQuery is the input for BM25 full-text search.
type TextQuery struct {
	IndexName    string
	Query        string
	Filters      []TagFilter
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
