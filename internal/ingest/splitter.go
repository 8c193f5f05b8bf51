package ingest

import (
	"strings"

	"github.com/Rrens/hospital-chat/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultChunkSize and DefaultChunkOverlap are measured in characters
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	// DefaultMaxChunks caps the total index size across all documents
	DefaultMaxChunks = 2000
)

// Splitter cuts documents into overlapping chunks on line boundaries.
// A document shorter than ChunkSize passes through unchanged.
type Splitter struct {
	ChunkSize    int
	ChunkOverlap int
	MaxChunks    int
}

func NewSplitter(size, overlap, maxChunks int) *Splitter {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
	}
	if maxChunks <= 0 {
		maxChunks = DefaultMaxChunks
	}
	return &Splitter{ChunkSize: size, ChunkOverlap: overlap, MaxChunks: maxChunks}
}

// Split chunks every document, preserving source attribution, until the
// chunk cap is reached. Hitting the cap logs a warning and drops the rest.
func (s *Splitter) Split(docs []domain.Document) []domain.Document {
	var chunks []domain.Document
	for _, doc := range docs {
		for _, piece := range s.splitText(doc.Text) {
			if len(chunks) >= s.MaxChunks {
				log.Warn().Int("max_chunks", s.MaxChunks).Msg("chunk cap reached, truncating knowledge base")
				return chunks
			}
			chunks = append(chunks, domain.Document{Text: piece, Source: doc.Source})
		}
	}
	return chunks
}

// splitText greedily packs newline-separated segments into chunks of at
// most ChunkSize characters, carrying ChunkOverlap trailing characters into
// the next chunk. A single line longer than ChunkSize is hard-cut.
func (s *Splitter) splitText(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= s.ChunkSize {
		return []string{text}
	}

	var chunks []string
	current := ""

	emit := func() {
		chunk := strings.TrimSpace(current)
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		current = ""
		if s.ChunkOverlap > 0 && len(chunk) > s.ChunkOverlap {
			current = chunk[len(chunk)-s.ChunkOverlap:] + "\n"
		}
	}

	for _, line := range strings.Split(text, "\n") {
		for len(line) > s.ChunkSize {
			if current != "" {
				emit()
				current = ""
			}
			chunks = append(chunks, line[:s.ChunkSize])
			line = line[s.ChunkSize:]
		}
		if len(current)+len(line) > s.ChunkSize {
			emit()
			// drop the overlap seed when it cannot fit alongside the line
			if len(current)+len(line) > s.ChunkSize {
				current = ""
			}
		}
		current += line + "\n"
	}
	emit()

	return chunks
}
