package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/document-parser/internal/logger"
	"alfredoptarigan/document-parser/internal/models"
)

const (
	indexQueueSize     = 100
	indexPollInterval  = 10 * time.Second
	indexPollBatchSize = 10
)

// IndexStore is the slice of the document repository the index worker needs.
type IndexStore interface {
	FindByID(id uuid.UUID) (*models.DocumentRecord, error)
	FindUnindexed(limit int) ([]models.DocumentRecord, error)
	MarkIndexed(id uuid.UUID) error
}

// IndexWorker embeds stored documents into the vector index in the background.
type IndexWorker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueDocument(id uuid.UUID)
}

type indexWorker struct {
	store        IndexStore
	indexer      DocumentIndexer
	queue        chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	wg           sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
	logger       *zap.Logger

	// inflight dedupes ids queued by both the upload path and the poller.
	mu       sync.Mutex
	inflight map[uuid.UUID]struct{}
}

func NewIndexWorker(store IndexStore, indexer DocumentIndexer, concurrency int, log *zap.Logger) IndexWorker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &indexWorker{
		store:        store,
		indexer:      indexer,
		queue:        make(chan uuid.UUID, indexQueueSize),
		concurrency:  concurrency,
		pollInterval: indexPollInterval,
		stopChan:     make(chan struct{}),
		logger:       logger.OrNop(log).With(zap.String("component", "index_worker")),
		inflight:     make(map[uuid.UUID]struct{}),
	}
}

func (w *indexWorker) Start(ctx context.Context) {
	if !w.indexer.Enabled() {
		w.logger.Info("document search disabled, index worker not started")
		return
	}

	w.logger.Info("starting index worker", zap.Int("concurrency", w.concurrency))

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processQueue(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollUnindexed(ctx)
}

func (w *indexWorker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("stopping index worker")
		close(w.stopChan)
		w.wg.Wait()
		w.logger.Info("index worker stopped")
	})
}

// EnqueueDocument never blocks the caller. A full queue is left to the poller.
func (w *indexWorker) EnqueueDocument(id uuid.UUID) {
	if !w.indexer.Enabled() {
		return
	}

	w.mu.Lock()
	if _, queued := w.inflight[id]; queued {
		w.mu.Unlock()
		return
	}
	w.inflight[id] = struct{}{}
	w.mu.Unlock()

	select {
	case w.queue <- id:
		w.logger.Debug("document enqueued for indexing", zap.String("document_id", id.String()))
	case <-w.stopChan:
		w.release(id)
	default:
		w.release(id)
		w.logger.Warn("index queue full, deferring to poller", zap.String("document_id", id.String()))
	}
}

func (w *indexWorker) release(id uuid.UUID) {
	w.mu.Lock()
	delete(w.inflight, id)
	w.mu.Unlock()
}

func (w *indexWorker) processQueue(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case id := <-w.queue:
			w.indexOne(ctx, workerID, id)
			w.release(id)
		}
	}
}

func (w *indexWorker) indexOne(ctx context.Context, workerID int, id uuid.UUID) {
	log := w.logger.With(zap.Int("worker", workerID), zap.String("document_id", id.String()))

	doc, err := w.store.FindByID(id)
	if err != nil {
		log.Warn("failed to load document for indexing", zap.Error(err))
		return
	}
	if doc.Indexed {
		return
	}

	if err := w.indexer.IndexDocument(ctx, doc); err != nil {
		log.Error("failed to index document", zap.Error(err))
		return
	}

	if err := w.store.MarkIndexed(id); err != nil {
		log.Error("failed to mark document indexed", zap.Error(err))
		return
	}

	log.Info("document indexed")
}

func (w *indexWorker) pollUnindexed(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			docs, err := w.store.FindUnindexed(indexPollBatchSize)
			if err != nil {
				w.logger.Warn("failed to fetch unindexed documents", zap.Error(err))
				continue
			}

			if len(docs) > 0 {
				w.logger.Debug("found unindexed documents", zap.Int("count", len(docs)))
			}
			for _, doc := range docs {
				w.EnqueueDocument(doc.ID)
			}
		}
	}
}
