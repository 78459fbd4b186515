package api

import (
	"time"

	"github.com/edumentor/edumentor/internal/domain/commonModels"
)

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	SessionId string            `json:"session_id" example:"session_550"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type AnswerResponse struct {
	Question      string   `json:"question"`
	Answer        string   `json:"answer"`
	CitedChunkIds []string `json:"cited_chunk_ids,omitempty"`
	FollowUps     []string `json:"follow_ups,omitempty"`
	Confidence    float64  `json:"confidence"`
	Hedged        bool     `json:"hedged"`
	Degraded      bool     `json:"degraded,omitempty"`
}

type IngestResponse struct {
	DocumentName string `json:"document_name"`
	Ingested     int    `json:"ingested"`
	Skipped      int    `json:"skipped"`
	TotalChunks  int    `json:"total_chunks"`
}

type QuizResponse struct {
	Topic     string                  `json:"topic"`
	Items     []commonModels.QuizItem `json:"items"`
	Shortfall int                     `json:"shortfall,omitempty"`
}

type Result struct {
	Status string          `json:"status"`
	Answer *AnswerResponse `json:"answer,omitempty"`
	Ingest *IngestResponse `json:"ingest,omitempty"`
	Quiz   *QuizResponse   `json:"quiz,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

// requests---------------------

type AskRequest struct {
	Question      string `json:"question" validate:"required"`
	SessionID     string `json:"sessionID,omitempty"`
	ExplainSimply bool   `json:"explain_simply,omitempty"`
	Verbosity     string `json:"verbosity,omitempty"`
}

type QuizRequest struct {
	Topic     string                      `json:"topic" validate:"required"`
	ItemCount int                         `json:"item_count,omitempty"`
	ItemTypes []commonModels.QuizItemType `json:"item_types,omitempty"`
}

type GradeRequest struct {
	Quiz     commonModels.Quiz          `json:"quiz" validate:"required"`
	Attempts []commonModels.QuizAttempt `json:"attempts" validate:"required"`
}

type GradeResponse struct {
	Results []commonModels.GradeResult `json:"results"`
}

type FlashcardRequest struct {
	Topic string `json:"topic" validate:"required"`
	Count int    `json:"count,omitempty"`
}

type FlashcardResponse struct {
	Cards []commonModels.Flashcard `json:"cards"`
}

type SummaryRequest struct {
	Topic string `json:"topic" validate:"required"`
}

type SummaryResponse struct {
	Topic   string `json:"topic"`
	Summary string `json:"summary"`
}

type ProfileRequest struct {
	Name       string `json:"name,omitempty"`
	Course     string `json:"course,omitempty"`
	SkillLevel string `json:"skill_level,omitempty"`
	Goals      string `json:"goals,omitempty"`
}

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}

type IngestDocumentRequest struct {
	DocumentName string `json:"document_name" validate:"required"`
}
