// Package embeddings turns field descriptions into vectors for the
// semantic field index.
package embeddings

import (
	"context"

	chromem "github.com/philippgille/chromem-go"
)

// Embedder converts texts into embedding vectors, one vector per input.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
}

// ToChromemFunc adapts an Embedder to chromem's single-text signature.
func ToChromemFunc(e Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		vecs, err := e.Embed(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		if len(vecs) == 0 {
			return nil, nil
		}
		return vecs[0], nil
	}
}
