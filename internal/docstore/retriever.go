package docstore

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"studypal/internal/metrics"
	"studypal/models"
	"studypal/provider"
)

// Retriever embeds queries and documents through the provider and searches
// the store. Provider failures during query surface as models.ErrEmbedding
// so the orchestrator can degrade instead of failing the turn.
type Retriever struct {
	store        *Store
	provider     provider.Provider
	chunkSize    int
	chunkOverlap int
	hybrid       bool
	logger       *log.Logger
}

func NewRetriever(store *Store, p provider.Provider, chunkSize, chunkOverlap int, hybrid bool, logger *log.Logger) *Retriever {
	if logger == nil {
		logger = log.Default()
	}
	return &Retriever{
		store:        store,
		provider:     p,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		hybrid:       hybrid,
		logger:       logger,
	}
}

// Index splits each document into chunks, embeds them, and stores them.
// sources may be shorter than docs; missing entries get a positional label.
func (r *Retriever) Index(ctx context.Context, docs []string, sources []string) ([]string, error) {
	if r.provider == nil {
		return nil, models.ErrNotConfigured
	}
	if len(docs) == 0 {
		return nil, nil
	}

	var texts []string
	var labels []string
	for i, doc := range docs {
		label := fmt.Sprintf("document-%d", i+1)
		if i < len(sources) && sources[i] != "" {
			label = sources[i]
		}
		for _, piece := range SplitText(doc, r.chunkSize, r.chunkOverlap) {
			texts = append(texts, piece)
			labels = append(labels, label)
		}
	}
	if len(texts) == 0 {
		return nil, nil
	}

	vecs, err := r.provider.CreateEmbedding(ctx, texts)
	if err != nil {
		metrics.ProviderCalls.WithLabelValues("embedding", "error").Inc()
		return nil, fmt.Errorf("%w: %v", models.ErrEmbedding, err)
	}
	metrics.ProviderCalls.WithLabelValues("embedding", "ok").Inc()

	chunks := make([]models.Chunk, len(texts))
	ids := make([]string, len(texts))
	for i := range texts {
		id := uuid.NewString()
		chunks[i] = models.Chunk{ID: id, Text: texts[i], Source: labels[i], Embedding: vecs[i]}
		ids[i] = id
	}
	if err := r.store.Add(chunks); err != nil {
		return nil, fmt.Errorf("index chunks: %w", err)
	}
	r.logger.Printf("indexed %d chunks from %d documents", len(chunks), len(docs))
	return ids, nil
}

// Query embeds text and returns the top-k most similar chunks. With hybrid
// enabled, the vector ranking is fused with a keyword ranking over the same
// store.
func (r *Retriever) Query(ctx context.Context, text string, k int) ([]models.RetrievalResult, error) {
	if r.provider == nil {
		return nil, models.ErrNotConfigured
	}

	vecs, err := r.provider.CreateEmbedding(ctx, []string{text})
	if err != nil {
		metrics.ProviderCalls.WithLabelValues("embedding", "error").Inc()
		return nil, fmt.Errorf("%w: %v", models.ErrEmbedding, err)
	}
	metrics.ProviderCalls.WithLabelValues("embedding", "ok").Inc()
	if len(vecs) != 1 {
		return nil, fmt.Errorf("%w: expected 1 query vector, got %d", models.ErrEmbedding, len(vecs))
	}

	results := r.store.Retrieve(vecs[0], k)
	if !r.hybrid {
		return results, nil
	}

	keyword, err := r.store.KeywordSearch(text, k)
	if err != nil {
		// vector results are still usable on their own
		r.logger.Printf("keyword search failed, using vector results only: %v", err)
		return results, nil
	}
	return FuseRRF(results, keyword, k), nil
}
