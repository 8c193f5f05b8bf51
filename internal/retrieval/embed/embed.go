// Package embed turns text into dense vectors for the in-memory index.
package embed

import "context"

// Embedder produces an embedding vector per input text. Implementations
// should return vectors of a stable dimension for a given model.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
