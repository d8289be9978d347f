package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"

	"alfredoptarigan/document-parser/internal/logger"
)

// embeddingDimensions matches the text-embedding-004 output size.
const embeddingDimensions = 768

// IndexedChunk is one embedded slice of a document's extracted text.
type IndexedChunk struct {
	DocumentID   string
	Username     string
	DocumentType string
	ChunkIndex   int
	Text         string
	Embedding    []float32
}

type SearchResult struct {
	DocumentID   string
	Username     string
	DocumentType string
	ChunkIndex   int
	Text         string
	Score        float32
}

type DocumentIndex interface {
	InitCollection(ctx context.Context) error
	UpsertChunks(ctx context.Context, chunks []IndexedChunk) error
	SearchSimilar(ctx context.Context, queryEmbedding []float32, username string, limit int) ([]SearchResult, error)
	DeleteDocument(ctx context.Context, documentID string) error
}

type qdrantIndex struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
	logger         *zap.Logger
}

func NewQdrantIndex(urlStr, apiKey, collectionName string, log *zap.Logger) (DocumentIndex, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	// gRPC port unless the URL names one
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   parsed.Hostname(),
		Port:   port,
		APIKey: apiKey,
		UseTLS: parsed.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantIndex{
		client:         client,
		collectionName: collectionName,
		vectorSize:     embeddingDimensions,
		logger:         logger.OrNop(log).With(zap.String("collection", collectionName)),
	}, nil
}

func (q *qdrantIndex) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		q.logger.Debug("qdrant collection already exists")
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	q.logger.Info("qdrant collection created")
	return nil
}

func (q *qdrantIndex) UpsertChunks(ctx context.Context, chunks []IndexedChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for _, chunk := range chunks {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(ChunkPointID(chunk.DocumentID, chunk.ChunkIndex)),
			Vectors: qdrant.NewVectors(chunk.Embedding...),
			Payload: qdrant.NewValueMap(chunkPayload(chunk)),
		})
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	return nil
}

func (q *qdrantIndex) SearchSimilar(ctx context.Context, queryEmbedding []float32, username string, limit int) ([]SearchResult, error) {
	var filter *qdrant.Filter
	if username != "" {
		filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("username", username),
			},
		}
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]SearchResult, 0, len(points))
	for _, point := range points {
		result := searchResultFromPayload(point.Payload)
		result.Score = point.Score
		results = append(results, result)
	}

	return results, nil
}

func (q *qdrantIndex) DeleteDocument(ctx context.Context, documentID string) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: &qdrant.Filter{
					Must: []*qdrant.Condition{
						qdrant.NewMatch("doc_id", documentID),
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete document points: %w", err)
	}

	return nil
}

// ChunkPointID derives a stable point id so re-indexing a document
// overwrites its earlier points.
func ChunkPointID(documentID string, chunkIndex int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s#%d", documentID, chunkIndex))).String()
}

func chunkPayload(chunk IndexedChunk) map[string]any {
	return map[string]any{
		"doc_id":        chunk.DocumentID,
		"username":      chunk.Username,
		"document_type": chunk.DocumentType,
		"chunk_index":   int64(chunk.ChunkIndex),
		"text":          chunk.Text,
	}
}

func searchResultFromPayload(payload map[string]*qdrant.Value) SearchResult {
	return SearchResult{
		DocumentID:   payload["doc_id"].GetStringValue(),
		Username:     payload["username"].GetStringValue(),
		DocumentType: payload["document_type"].GetStringValue(),
		ChunkIndex:   int(payload["chunk_index"].GetIntegerValue()),
		Text:         payload["text"].GetStringValue(),
	}
}
