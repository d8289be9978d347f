package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"alfredoptarigan/document-parser/internal/logger"
	"alfredoptarigan/document-parser/internal/models"
)

const (
	DefaultSearchLimit = 5
	MaxSearchLimit     = 50
	snippetLength      = 200
	// searchOverfetch widens the chunk query so several chunks of one
	// document still leave room for limit distinct documents.
	searchOverfetch = 3
)

var ErrSearchDisabled = errors.New("document search is not configured")

type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type DocumentIndexer interface {
	IndexDocument(ctx context.Context, doc *models.DocumentRecord) error
	Search(ctx context.Context, query, username string, limit int) ([]models.SearchHit, error)
	Delete(ctx context.Context, documentID string) error
	Enabled() bool
}

type documentIndexer struct {
	embedder      Embedder
	index         DocumentIndex
	chunker       TextChunker
	promptBuilder *PromptBuilder
	logger        *zap.Logger
}

func NewDocumentIndexer(embedder Embedder, index DocumentIndex, chunker TextChunker, log *zap.Logger) DocumentIndexer {
	if chunker == nil {
		chunker = NewTextChunker()
	}
	return &documentIndexer{
		embedder:      embedder,
		index:         index,
		chunker:       chunker,
		promptBuilder: NewPromptBuilder(),
		logger:        logger.OrNop(log),
	}
}

// NewDisabledIndexer is used when either the vector store or the embedding
// backend is missing. Indexing is a no-op and search reports ErrSearchDisabled.
func NewDisabledIndexer() DocumentIndexer {
	return disabledIndexer{}
}

func (i *documentIndexer) Enabled() bool { return true }

// IndexDocument replaces every indexed chunk of doc with freshly embedded ones.
func (i *documentIndexer) IndexDocument(ctx context.Context, doc *models.DocumentRecord) error {
	documentID := doc.ID.String()

	if err := i.index.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("failed to clear previous chunks: %w", err)
	}

	pieces := i.chunker.ChunkText(doc.OCRText, defaultChunkSize, defaultChunkOverlap)
	chunks := make([]IndexedChunk, 0, len(pieces))
	for idx, piece := range pieces {
		embedding, err := i.embedder.GenerateEmbedding(ctx, piece)
		if err != nil {
			return fmt.Errorf("failed to embed chunk %d: %w", idx, err)
		}

		chunks = append(chunks, IndexedChunk{
			DocumentID:   documentID,
			Username:     doc.Username,
			DocumentType: doc.DocumentType,
			ChunkIndex:   idx,
			Text:         piece,
			Embedding:    embedding,
		})
	}

	if err := i.index.UpsertChunks(ctx, chunks); err != nil {
		return err
	}

	i.logger.Debug("document indexed", zap.String("document_id", documentID), zap.Int("chunks", len(chunks)))
	return nil
}

// Search returns at most limit documents, each represented by its best chunk.
func (i *documentIndexer) Search(ctx context.Context, query, username string, limit int) ([]models.SearchHit, error) {
	query = i.promptBuilder.BuildSearchQuery(query)
	if query == "" {
		return []models.SearchHit{}, nil
	}
	limit = clampSearchLimit(limit)

	embedding, err := i.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := i.index.SearchSimilar(ctx, embedding, username, limit*searchOverfetch)
	if err != nil {
		return nil, err
	}

	hits := make([]models.SearchHit, 0, limit)
	seen := make(map[string]struct{}, limit)
	for _, r := range results {
		if _, dup := seen[r.DocumentID]; dup {
			continue
		}
		seen[r.DocumentID] = struct{}{}

		hits = append(hits, models.SearchHit{
			DocumentID:   r.DocumentID,
			Username:     r.Username,
			DocumentType: r.DocumentType,
			Score:        r.Score,
			Snippet:      logger.TruncateForLog(r.Text, snippetLength),
		})
		if len(hits) == limit {
			break
		}
	}

	return hits, nil
}

func (i *documentIndexer) Delete(ctx context.Context, documentID string) error {
	return i.index.DeleteDocument(ctx, documentID)
}

func clampSearchLimit(limit int) int {
	if limit <= 0 {
		return DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		return MaxSearchLimit
	}
	return limit
}

type disabledIndexer struct{}

func (disabledIndexer) IndexDocument(context.Context, *models.DocumentRecord) error { return nil }

func (disabledIndexer) Search(context.Context, string, string, int) ([]models.SearchHit, error) {
	return nil, ErrSearchDisabled
}

func (disabledIndexer) Delete(context.Context, string) error { return nil }

func (disabledIndexer) Enabled() bool { return false }
