package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/edumentor/edumentor/internal/config"
	"github.com/edumentor/edumentor/internal/domain/commonModels"
	"github.com/edumentor/edumentor/internal/domain/jobModel"
	"github.com/edumentor/edumentor/internal/tutor/embedding"
	"github.com/edumentor/edumentor/internal/tutor/vectorDB"
	"github.com/edumentor/edumentor/pkg/logger_i"
)

var logger *logger_i.Logger

// ProcessDocumentIngestion runs the write path: hash, dedup check, clean,
// chunk, embed, upsert. The upsert is one waited batch per document, so the
// retriever never sees a partially indexed document. The returned error keeps
// its taxonomy wrapping so the caller can classify it as retryable.
func ProcessDocumentIngestion(ctx context.Context, job jobModel.Job, e embedding.Embedder, vectorDatabase vectorDB.DataProcessor, ledger jobModel.DocumentLedger) (jobModel.Job, error) {
	logger = logger_i.NewLogger("Document Ingestion")
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	docName := job.JobPayload.IngestDocName
	log.Debug("Processing document", "name", docName)

	job.CurrentStep = jobModel.IngestProcessing
	if err := vectorDatabase.CreateCollection(ctx, config.CourseCollectionName); err != nil {
		log.Error("Error creating collection", "error", err)
		job.Status = jobModel.JobStatusError
		return job, err
	}

	cleaned := CleanText(job.JobPayload.IngestText)
	contentHash := HashContent(cleaned)

	seen, err := ledger.Seen(ctx, contentHash)
	if err != nil {
		log.Error("Ledger lookup failed", "error", err)
		job.Status = jobModel.JobStatusError
		return job, err
	}
	if seen {
		log.Info("Unchanged document, skipping re-ingestion", "hash", contentHash)
		job.JobPayload.IngestSummary = &jobModel.IngestSummary{Skipped: 1}
		job.JobPayload.IngestText = ""
		job.Status = jobModel.JobStatusComplete
		return job, nil
	}

	doc := commonModels.Document{
		ContentHash: contentHash,
		Name:        docName,
		IngestedAt:  time.Now(),
	}

	size := config.EnvInt("CHUNK_SIZE", config.ChunkSize)
	overlap := config.EnvInt("CHUNK_OVERLAP", config.ChunkOverlap)
	chunks, err := SplitDocument(doc, cleaned, size, overlap)
	if err != nil {
		log.Error("Chunking rejected configuration", "error", err)
		job.Status = jobModel.JobStatusError
		job.Error.Message = err.Error()
		return job, err
	}
	log.Debug("Processing document", "number of chunks", len(chunks))

	if err := EmbedAndUpsert(ctx, chunks, vectorDatabase, e); err != nil {
		log.Error("Error indexing document", "error", err)
		job.Status = jobModel.JobStatusError
		return job, err
	}

	// Only a fully indexed document is recorded; a failed run stays
	// re-ingestable.
	if err := ledger.Record(ctx, contentHash, docName); err != nil {
		log.Error("Error recording content hash", "error", err)
	}

	job.JobPayload.IngestSummary = &jobModel.IngestSummary{Ingested: 1, TotalChunks: len(chunks)}
	job.JobPayload.IngestText = ""
	job.Status = jobModel.JobStatusComplete
	return job, nil
}

// EmbedAndUpsert embeds every chunk of one document and writes them as a
// single atomic batch.
func EmbedAndUpsert(ctx context.Context, chunks []commonModels.Chunk, vectorDatabase vectorDB.DataProcessor, embedder embedding.Embedder) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Text)
	}

	vectors, err := embedder.BatchEmbedding(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding batch failed: %w", err)
	}

	if err := vectorDatabase.UpsertDocument(ctx, config.CourseCollectionName, chunks, vectors); err != nil {
		return fmt.Errorf("upserting document failed: %w", err)
	}
	return nil
}
