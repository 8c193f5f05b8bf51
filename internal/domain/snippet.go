package domain

// Snippet is one retrieved text fragment together with the query that
// produced it
type Snippet struct {
	Text        string `json:"text"`
	Source      string `json:"source,omitempty"`
	SourceQuery string `json:"source_query,omitempty"`
}

// Document is an ingested record prior to chunking and indexing
type Document struct {
	Text   string
	Source string
}
