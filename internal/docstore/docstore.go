package docstore

import (
	"math"
	"sort"
	"sync"

	"github.com/blevesearch/bleve"

	"studypal/models"
)

const rrfK = 60 // reciprocal-rank-fusion constant

// Store holds indexed chunks and their embeddings in memory, plus a keyword
// index over the same chunks for hybrid retrieval. Reads may run
// concurrently; indexing takes the write lock. Chunks are immutable once
// added and survive only for the process lifetime.
type Store struct {
	mu      sync.RWMutex
	chunks  []models.Chunk
	keyword bleve.Index
}

func New() (*Store, error) {
	index, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, err
	}
	return &Store{keyword: index}, nil
}

// Add stores the chunks in insertion order and indexes their text for
// keyword search.
func (s *Store) Add(chunks []models.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chunks {
		if err := s.keyword.Index(c.ID, map[string]string{"text": c.Text, "source": c.Source}); err != nil {
			return err
		}
		s.chunks = append(s.chunks, c)
	}
	return nil
}

// Len reports the number of indexed chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// Retrieve returns the min(k, len) chunks most similar to the query
// embedding, descending by cosine score. Ties keep insertion order, earliest
// chunk first. An empty store yields an empty result, not an error.
func (s *Store) Retrieve(query []float32, k int) []models.RetrievalResult {
	if k <= 0 {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]models.RetrievalResult, 0, len(s.chunks))
	for _, c := range s.chunks {
		results = append(results, models.RetrievalResult{Chunk: c, Score: cosine(query, c.Embedding)})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > k {
		results = results[:k]
	}
	return results
}

// KeywordSearch runs a full-text query against the keyword index and maps
// hits back to chunks. Used only when hybrid retrieval is enabled.
func (s *Store) KeywordSearch(q string, k int) ([]models.RetrievalResult, error) {
	if k <= 0 {
		return nil, nil
	}

	query := bleve.NewQueryStringQuery(q)
	req := bleve.NewSearchRequestOptions(query, k, 0, false)
	res, err := s.keyword.Search(req)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	byID := make(map[string]models.Chunk, len(s.chunks))
	for _, c := range s.chunks {
		byID[c.ID] = c
	}

	var out []models.RetrievalResult
	for _, hit := range res.Hits {
		c, ok := byID[hit.ID]
		if !ok {
			continue
		}
		out = append(out, models.RetrievalResult{Chunk: c, Score: hit.Score})
		if len(out) >= k {
			break
		}
	}
	return out, nil
}

// FuseRRF merges two ranked result lists with reciprocal-rank fusion and
// returns the top k of the fused ranking.
func FuseRRF(a, b []models.RetrievalResult, k int) []models.RetrievalResult {
	type agg struct {
		item  models.RetrievalResult
		score float64
	}
	order := make([]string, 0, len(a)+len(b))
	m := map[string]*agg{}
	add := func(list []models.RetrievalResult) {
		for rank, r := range list {
			x, ok := m[r.Chunk.ID]
			if !ok {
				x = &agg{item: r}
				m[r.Chunk.ID] = x
				order = append(order, r.Chunk.ID)
			}
			x.score += 1.0 / float64(rrfK+rank+1)
		}
	}
	add(a)
	add(b)

	fused := make([]models.RetrievalResult, 0, len(order))
	for _, id := range order {
		x := m[id]
		fused = append(fused, models.RetrievalResult{Chunk: x.item.Chunk, Score: x.score})
	}
	sort.SliceStable(fused, func(i, j int) bool { return fused[i].Score > fused[j].Score })
	if len(fused) > k {
		fused = fused[:k]
	}
	return fused
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		ai := float64(a[i])
		bi := float64(b[i])
		dot += ai * bi
		na += ai * ai
		nb += bi * bi
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
