package embed

import (
	"context"
	"fmt"

	"github.com/Rrens/hospital-chat/internal/config"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// batchSize bounds one EmbedContent batch request
const batchSize = 100

// GeminiEmbedder implements Embedder on the Gemini embedding API
type GeminiEmbedder struct {
	apiKey string
	model  string
}

// NewGeminiEmbedder creates a Gemini-backed embedder
func NewGeminiEmbedder(cfg config.GeminiConfig) *GeminiEmbedder {
	model := cfg.EmbeddingModel
	if model == "" {
		model = "text-embedding-004"
	}
	return &GeminiEmbedder{apiKey: cfg.APIKey, model: model}
}

// Embed returns one vector per input text, preserving input order.
func (e *GeminiEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if e.apiKey == "" {
		return nil, fmt.Errorf("gemini embedder is not configured (missing API key)")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(e.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	em := client.EmbeddingModel(e.model)

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch := em.NewBatch()
		for _, t := range texts[start:end] {
			batch.AddContent(genai.Text(t))
		}

		resp, err := em.BatchEmbedContents(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("gemini embedding error: %w", err)
		}
		if len(resp.Embeddings) != end-start {
			return nil, fmt.Errorf("gemini returned %d embeddings for %d inputs", len(resp.Embeddings), end-start)
		}
		for _, emb := range resp.Embeddings {
			vectors = append(vectors, emb.Values)
		}
	}

	return vectors, nil
}
