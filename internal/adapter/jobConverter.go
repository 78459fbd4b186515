package adapter

import (
	"fmt"
	"time"

	"github.com/edumentor/edumentor/internal/api"
	"github.com/edumentor/edumentor/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status: string(job.Status),
		Answer: toAnswerResponse(job.JobPayload),
		Ingest: toIngestResponse(job.JobPayload),
		Quiz:   toQuizResponse(job.JobPayload),
	}

	return api.JobResponse{
		Id:        job.Id,
		SessionId: job.SessionId,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func toAnswerResponse(payload jobModel.JobPayload) *api.AnswerResponse {
	if payload.Turn == nil {
		return nil
	}
	return &api.AnswerResponse{
		Question:      payload.Turn.Question,
		Answer:        payload.Turn.Answer,
		CitedChunkIds: payload.Turn.CitedChunkIds,
		FollowUps:     payload.Turn.FollowUps,
		Confidence:    payload.Turn.Confidence,
		Hedged:        payload.Turn.Hedged,
		Degraded:      payload.Turn.Degraded,
	}
}

func toIngestResponse(payload jobModel.JobPayload) *api.IngestResponse {
	if payload.IngestSummary == nil {
		return nil
	}
	return &api.IngestResponse{
		DocumentName: payload.IngestDocName,
		Ingested:     payload.IngestSummary.Ingested,
		Skipped:      payload.IngestSummary.Skipped,
		TotalChunks:  payload.IngestSummary.TotalChunks,
	}
}

func toQuizResponse(payload jobModel.JobPayload) *api.QuizResponse {
	if payload.Quiz == nil {
		return nil
	}
	return &api.QuizResponse{
		Topic:     payload.Quiz.Topic,
		Items:     payload.Quiz.Items,
		Shortfall: payload.Quiz.Shortfall,
	}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		SessionId: "",
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
