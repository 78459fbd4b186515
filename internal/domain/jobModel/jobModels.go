package jobModel

import (
	"context"
	"time"

	"github.com/edumentor/edumentor/internal/domain/commonModels"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	AskInit          InternalStatus = "Init"
	CacheCall        InternalStatus = "CacheCall"
	RetrievalCall    InternalStatus = "Retrieval"
	LLMCall          InternalStatus = "LLM"
	VectorDBCall     InternalStatus = "VectorDB"
	EmbeddingAPICall InternalStatus = "EmbeddingAPI"
	SessionCall      InternalStatus = "Session"

	IngestInit       InternalStatus = "IngestInit"
	IngestProcessing InternalStatus = "IngestProcessing"
	QuizInit         InternalStatus = "QuizInit"
	QuizGeneration   InternalStatus = "QuizGeneration"
	Error            InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	JobTypeAsk    JobType = "Ask"
	JobTypeIngest JobType = "Ingest"
	JobTypeQuiz   JobType = "Quiz"
)

type Job struct {
	Id          string         `json:"id"`
	SessionId   string         `json:"session_id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

type JobPayload struct {
	//ask path
	Question      string                         `json:"question,omitempty"`
	ExplainSimply bool                           `json:"explain_simply,omitempty"`
	Verbosity     string                         `json:"verbosity,omitempty"`
	Turn          *commonModels.ConversationTurn `json:"turn,omitempty"`

	//ingest path - raw text only, binary extraction lives outside this service
	IngestDocName string         `json:"ingest_doc_name,omitempty"`
	IngestText    string         `json:"ingest_text,omitempty"`
	IngestSummary *IngestSummary `json:"ingest_summary,omitempty"`

	//quiz path
	TopicQuery string                      `json:"topic_query,omitempty"`
	ItemCount  int                         `json:"item_count,omitempty"`
	ItemTypes  []commonModels.QuizItemType `json:"item_types,omitempty"`
	Quiz       *commonModels.Quiz          `json:"quiz,omitempty"`
}

// IngestSummary mirrors what the upload tab shows after ingestion.
type IngestSummary struct {
	Ingested    int `json:"ingested"`
	Skipped     int `json:"skipped"`
	TotalChunks int `json:"total_chunks"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

// SessionStore holds the single active learner's state: profile and the
// running conversation. Reset on session teardown.
type SessionStore interface {
	GetProfile(ctx context.Context) (commonModels.LearnerProfile, error)
	SaveProfile(ctx context.Context, profile commonModels.LearnerProfile) error
	AppendTurn(ctx context.Context, turn commonModels.ConversationTurn) error
	RecentTurns(ctx context.Context) ([]commonModels.ConversationTurn, error)
	Reset(ctx context.Context) error
}

// DocumentLedger tracks content hashes of ingested documents so unchanged
// re-uploads are detected before re-chunking.
type DocumentLedger interface {
	Seen(ctx context.Context, contentHash string) (bool, error)
	Record(ctx context.Context, contentHash string, docName string) error
	Clear(ctx context.Context) error
}
