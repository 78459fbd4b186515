package tutor_test

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/edumentor/edumentor/internal/config"
	"github.com/edumentor/edumentor/internal/domain/commonModels"
)

// MockVectorDB implements vectorDB.DataProcessor
type MockVectorDB struct {
	OnQuery            func(ctx context.Context, vectorVal []float32, k uint64) ([]commonModels.ScoredChunk, error)
	OnGetCachedTurn    func(ctx context.Context, queryVector []float32) (commonModels.ConversationTurn, bool, error)
	OnSaveTurnToCache  func(ctx context.Context, id string, vector []float32, turn commonModels.ConversationTurn) error
	OnCreateCollection func(ctx context.Context, name string) error
	OnUpsertDocument   func(ctx context.Context, name string, chunks []commonModels.Chunk, vectors [][]float32) error
	OnDropCorpus       func(ctx context.Context) error
}

func (m *MockVectorDB) Query(ctx context.Context, v []float32, k uint64) ([]commonModels.ScoredChunk, error) {
	if m.OnQuery != nil {
		return m.OnQuery(ctx, v, k)
	}
	return nil, nil
}

func (m *MockVectorDB) GetCachedTurn(ctx context.Context, v []float32) (commonModels.ConversationTurn, bool, error) {
	if m.OnGetCachedTurn != nil {
		return m.OnGetCachedTurn(ctx, v)
	}
	return commonModels.ConversationTurn{}, false, nil
}

func (m *MockVectorDB) SaveTurnToCache(ctx context.Context, id string, v []float32, turn commonModels.ConversationTurn) error {
	if m.OnSaveTurnToCache != nil {
		return m.OnSaveTurnToCache(ctx, id, v, turn)
	}
	return nil
}

func (m *MockVectorDB) CreateCollection(ctx context.Context, name string) error {
	if m.OnCreateCollection != nil {
		return m.OnCreateCollection(ctx, name)
	}
	return nil
}

func (m *MockVectorDB) UpsertDocument(ctx context.Context, name string, chunks []commonModels.Chunk, vectors [][]float32) error {
	if m.OnUpsertDocument != nil {
		return m.OnUpsertDocument(ctx, name, chunks, vectors)
	}
	return nil
}

func (m *MockVectorDB) DropCorpus(ctx context.Context) error {
	if m.OnDropCorpus != nil {
		return m.OnDropCorpus(ctx)
	}
	return nil
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, text string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{0.1}, nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks)
	}
	return make([][]float32, len(chunks)), nil
}

// MockLLM implements llm.Provider
type MockLLM struct {
	OnGenerate func(ctx context.Context, prompt string, system string, temperature float32) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, prompt string, system string, temperature float32) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, prompt, system, temperature)
	}
	return `{"answer": "mocked answer"}`, nil
}

const embedderDims = 512

var (
	wordsPattern   = regexp.MustCompile(`\w+`)
	chunkIdPattern = regexp.MustCompile(`\[([0-9a-f\-]{36})\]`)
)

// extractChunkIds pulls the excerpt ids out of a grounded prompt.
func extractChunkIds(prompt string) []string {
	var ids []string
	for _, m := range chunkIdPattern.FindAllStringSubmatch(prompt, -1) {
		ids = append(ids, m[1])
	}
	return ids
}

// wordEmbedder maps each distinct word to its own dimension, so similarity
// is plain word overlap and the flow tests stay deterministic.
type wordEmbedder struct {
	mu   sync.Mutex
	dims map[string]int
}

func newWordEmbedder() *wordEmbedder {
	return &wordEmbedder{dims: make(map[string]int)}
}

func (e *wordEmbedder) vector(text string) []float32 {
	e.mu.Lock()
	defer e.mu.Unlock()

	v := make([]float32, embedderDims)
	for _, w := range wordsPattern.FindAllString(strings.ToLower(text), -1) {
		idx, ok := e.dims[w]
		if !ok {
			idx = len(e.dims) % embedderDims
			e.dims[w] = idx
		}
		v[idx]++
	}

	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range v {
			v[i] *= scale
		}
	}
	return v
}

func (e *wordEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return e.vector(query), nil
}

func (e *wordEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))
	for i, c := range chunks {
		vectors[i] = e.vector(c)
	}
	return vectors, nil
}

type cachedEntry struct {
	vector []float32
	turn   commonModels.ConversationTurn
}

// memoryIndex is a cosine index over whatever the ingestion path upserts,
// standing in for the real vector database in flow tests.
type memoryIndex struct {
	mu      sync.Mutex
	chunks  []commonModels.Chunk
	vectors [][]float32
	cache   []cachedEntry
}

func cosine(a, b []float32) float64 {
	var dot float64
	for i := range a {
		if i >= len(b) {
			break
		}
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

func (m *memoryIndex) Query(ctx context.Context, v []float32, k uint64) ([]commonModels.ScoredChunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var scored []commonModels.ScoredChunk
	for i, chunk := range m.chunks {
		score := cosine(v, m.vectors[i])
		if score <= 0 {
			continue
		}
		scored = append(scored, commonModels.ScoredChunk{Chunk: chunk, Score: score})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if uint64(len(scored)) > k {
		scored = scored[:k]
	}
	return scored, nil
}

func (m *memoryIndex) GetCachedTurn(ctx context.Context, v []float32) (commonModels.ConversationTurn, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, entry := range m.cache {
		if cosine(v, entry.vector) >= config.CacheSimilarityCutoff {
			return entry.turn, true, nil
		}
	}
	return commonModels.ConversationTurn{}, false, nil
}

func (m *memoryIndex) SaveTurnToCache(ctx context.Context, id string, v []float32, turn commonModels.ConversationTurn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache = append(m.cache, cachedEntry{vector: v, turn: turn})
	return nil
}

func (m *memoryIndex) CreateCollection(ctx context.Context, name string) error { return nil }

func (m *memoryIndex) UpsertDocument(ctx context.Context, name string, chunks []commonModels.Chunk, vectors [][]float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = append(m.chunks, chunks...)
	m.vectors = append(m.vectors, vectors...)
	return nil
}

func (m *memoryIndex) DropCorpus(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = nil
	m.vectors = nil
	m.cache = nil
	return nil
}

func (m *memoryIndex) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chunks)
}
