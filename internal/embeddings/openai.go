package embeddings

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no embedding model is configured.
const DefaultModel = "text-embedding-3-small"

// batchLimit is the most inputs sent per embeddings request. A full
// dictionary can run to thousands of fields, so Embed chunks its input.
const batchLimit = 100

// OpenAIEmbedder embeds field texts through the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbedder creates an embedder for the given model, falling back
// to DefaultModel when model is empty.
func NewOpenAIEmbedder(apiKey, model string) *OpenAIEmbedder {
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIEmbedder{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (e *OpenAIEmbedder) Model() string { return e.model }

func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vecs := make([][]float32, len(texts))
	for start := 0; start < len(texts); start += batchLimit {
		end := min(start+batchLimit, len(texts))
		chunk := texts[start:end]

		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: chunk,
			Model: openai.EmbeddingModel(e.model),
		})
		if err != nil {
			return nil, fmt.Errorf("embedding %d texts with %s: %w", len(chunk), e.model, err)
		}
		if len(resp.Data) != len(chunk) {
			return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(resp.Data), len(chunk))
		}
		for i, d := range resp.Data {
			vecs[start+i] = d.Embedding
		}
	}
	return vecs, nil
}
