package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"alfredoptarigan/document-parser/internal/models"
)

type stubEmbedder struct {
	mu     sync.Mutex
	inputs []string
	err    error
}

func (s *stubEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = append(s.inputs, text)
	if s.err != nil {
		return nil, s.err
	}
	return []float32{float32(len(text)), 1}, nil
}

type stubIndex struct {
	mu       sync.Mutex
	chunks   map[string][]IndexedChunk
	deleted  []string
	results  []SearchResult
	lastUser string
	lastK    int
}

func newStubIndex() *stubIndex {
	return &stubIndex{chunks: map[string][]IndexedChunk{}}
}

func (s *stubIndex) InitCollection(ctx context.Context) error { return nil }

func (s *stubIndex) UpsertChunks(ctx context.Context, chunks []IndexedChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chunks {
		s.chunks[c.DocumentID] = append(s.chunks[c.DocumentID], c)
	}
	return nil
}

func (s *stubIndex) SearchSimilar(ctx context.Context, q []float32, username string, limit int) ([]SearchResult, error) {
	s.lastUser, s.lastK = username, limit
	return s.results, nil
}

func (s *stubIndex) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	delete(s.chunks, id)
	return nil
}

func TestChunkTextRespectsLimitAndOverlap(t *testing.T) {
	chunker := NewTextChunker()
	text := strings.Repeat("a", 40) + "\n" + strings.Repeat("b", 40) + "\n\n" + strings.Repeat("c", 40)

	chunks := chunker.ChunkText(text, 100, 10)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %q", len(chunks), chunks)
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > 100 {
			t.Fatalf("chunk %d has %d runes", i, n)
		}
	}
	if !strings.HasPrefix(chunks[1], strings.Repeat("b", 10)+"\n") {
		t.Fatalf("second chunk should start with overlap, got %q", chunks[1])
	}
}

func TestChunkTextSplitsLongLines(t *testing.T) {
	chunks := NewTextChunker().ChunkText(strings.Repeat("x", 250), 100, 0)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[2] != strings.Repeat("x", 50) {
		t.Fatalf("unexpected tail chunk %q", chunks[2])
	}
}

func TestChunkTextEmpty(t *testing.T) {
	if chunks := NewTextChunker().ChunkText(" \n\n ", 100, 10); len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %q", chunks)
	}
}

func TestIndexDocumentReplacesChunks(t *testing.T) {
	embedder := &stubEmbedder{}
	index := newStubIndex()
	indexer := NewDocumentIndexer(embedder, index, nil, nil)

	doc := &models.DocumentRecord{
		ID:           uuid.New(),
		Username:     "alice",
		DocumentType: models.TypeDegree,
		OCRText:      "Bachelor of Science\nComputer Science",
	}

	if err := indexer.IndexDocument(context.Background(), doc); err != nil {
		t.Fatalf("index: %v", err)
	}

	chunks := index.chunks[doc.ID.String()]
	if len(chunks) != 1 {
		t.Fatalf("expected one chunk, got %d", len(chunks))
	}
	if chunks[0].Username != "alice" || chunks[0].DocumentType != models.TypeDegree || chunks[0].ChunkIndex != 0 {
		t.Fatalf("unexpected chunk payload %+v", chunks[0])
	}
	if len(index.deleted) != 1 || index.deleted[0] != doc.ID.String() {
		t.Fatalf("previous chunks should be cleared first, deleted=%v", index.deleted)
	}
}

func TestIndexDocumentEmbeddingFailure(t *testing.T) {
	indexer := NewDocumentIndexer(&stubEmbedder{err: errors.New("quota")}, newStubIndex(), nil, nil)

	err := indexer.IndexDocument(context.Background(), &models.DocumentRecord{ID: uuid.New(), OCRText: "some text here"})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestSearchDedupesDocumentsAndClampsLimit(t *testing.T) {
	index := newStubIndex()
	index.results = []SearchResult{
		{DocumentID: "a", Username: "alice", Score: 0.9, Text: "first chunk of a"},
		{DocumentID: "a", Username: "alice", Score: 0.8, Text: "second chunk of a"},
		{DocumentID: "b", Username: "alice", Score: 0.7, Text: "chunk of b"},
	}
	embedder := &stubEmbedder{}
	indexer := NewDocumentIndexer(embedder, index, nil, nil)

	hits, err := indexer.Search(context.Background(), "  python   internship ", "alice", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 2 || hits[0].DocumentID != "a" || hits[0].Snippet != "first chunk of a" || hits[1].DocumentID != "b" {
		t.Fatalf("unexpected hits %+v", hits)
	}
	if index.lastUser != "alice" || index.lastK != DefaultSearchLimit*searchOverfetch {
		t.Fatalf("unexpected query args user=%q k=%d", index.lastUser, index.lastK)
	}
	if embedder.inputs[0] != "python internship" {
		t.Fatalf("query should be normalized, got %q", embedder.inputs[0])
	}

	if _, err := indexer.Search(context.Background(), "q", "", 1000); err != nil {
		t.Fatal(err)
	}
	if index.lastK != MaxSearchLimit*searchOverfetch {
		t.Fatalf("limit should be clamped, got %d", index.lastK)
	}
}

func TestDisabledIndexer(t *testing.T) {
	indexer := NewDisabledIndexer()
	if indexer.Enabled() {
		t.Fatal("disabled indexer reports enabled")
	}
	if _, err := indexer.Search(context.Background(), "q", "", 5); !errors.Is(err, ErrSearchDisabled) {
		t.Fatalf("expected ErrSearchDisabled, got %v", err)
	}
	if err := indexer.IndexDocument(context.Background(), &models.DocumentRecord{}); err != nil {
		t.Fatalf("indexing should be a no-op, got %v", err)
	}
}

func TestChunkPointIDIsDeterministic(t *testing.T) {
	if ChunkPointID("doc", 1) != ChunkPointID("doc", 1) {
		t.Fatal("point id must be stable")
	}
	if ChunkPointID("doc", 1) == ChunkPointID("doc", 2) {
		t.Fatal("chunks must get distinct ids")
	}
	if _, err := uuid.Parse(ChunkPointID("doc", 0)); err != nil {
		t.Fatalf("point id must be a uuid: %v", err)
	}
}

type memoryStore struct {
	mu      sync.Mutex
	docs    map[uuid.UUID]*models.DocumentRecord
	indexed chan uuid.UUID
}

func (m *memoryStore) FindByID(id uuid.UUID) (*models.DocumentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, errors.New("document not found")
	}
	copied := *doc
	return &copied, nil
}

func (m *memoryStore) FindUnindexed(limit int) ([]models.DocumentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.DocumentRecord
	for _, doc := range m.docs {
		if !doc.Indexed && len(out) < limit {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (m *memoryStore) MarkIndexed(id uuid.UUID) error {
	m.mu.Lock()
	m.docs[id].Indexed = true
	m.mu.Unlock()
	m.indexed <- id
	return nil
}

func TestIndexWorkerIndexesEnqueuedAndPolledDocuments(t *testing.T) {
	enqueued := uuid.New()
	backlog := uuid.New()
	store := &memoryStore{
		docs: map[uuid.UUID]*models.DocumentRecord{
			enqueued: {ID: enqueued, OCRText: "Workshop on Kubernetes"},
			backlog:  {ID: backlog, OCRText: "Training in Docker"},
		},
		indexed: make(chan uuid.UUID, 4),
	}
	index := newStubIndex()

	w := NewIndexWorker(store, NewDocumentIndexer(&stubEmbedder{}, index, nil, nil), 2, nil).(*indexWorker)
	w.pollInterval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Stop()

	w.EnqueueDocument(enqueued)

	seen := map[uuid.UUID]bool{}
	deadline := time.After(2 * time.Second)
	for len(seen) < 2 {
		select {
		case id := <-store.indexed:
			seen[id] = true
		case <-deadline:
			t.Fatalf("timed out, indexed so far: %v", seen)
		}
	}

	index.mu.Lock()
	defer index.mu.Unlock()
	if len(index.chunks[enqueued.String()]) == 0 || len(index.chunks[backlog.String()]) == 0 {
		t.Fatalf("both documents should have chunks: %v", index.chunks)
	}
}

func TestIndexWorkerDisabledIsNoop(t *testing.T) {
	w := NewIndexWorker(&memoryStore{}, NewDisabledIndexer(), 1, nil)
	w.Start(context.Background())
	w.EnqueueDocument(uuid.New())
	w.Stop()
}
