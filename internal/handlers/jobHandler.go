package handlers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/edumentor/edumentor/internal/api"
	"github.com/edumentor/edumentor/internal/config"
	"github.com/edumentor/edumentor/internal/domain/commonModels"
	"github.com/edumentor/edumentor/internal/domain/jobModel"
	"github.com/edumentor/edumentor/internal/job"
	"github.com/edumentor/edumentor/internal/metrics"
	"github.com/edumentor/edumentor/internal/tutor"
	"github.com/edumentor/edumentor/pkg/logger_i"
)

var (
	handlerInstance *JobHandler //private singleton
	once            sync.Once
	logJH           *logger_i.Logger
)

type JobHandler struct {
	service *job.Service
	tutor   tutor.Service
	session jobModel.SessionStore
}

func InitJobHandler(jobService *job.Service, tutorService tutor.Service, sessionStore jobModel.SessionStore) {
	once.Do(func() {
		handlerInstance = &JobHandler{service: jobService, tutor: tutorService, session: sessionStore}

		logJH = logger_i.NewLogger("JobHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logJH.Info("Starting job handler")
	})

}

func CreateNewJob(newJob newJobData) {
	logJH.With("traceId", newJob.traceId, "job id", newJob.id)
	logJH.Info("To create new job")
	handlerInstance.pushToJobChannel(newJob)
}

func GetJobStatus(id string, traceId string) (result jobModel.Job, isFound bool) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	if handlerInstance != nil {
		return handlerInstance.service.JobStore.GetJob(ctxC, id)
	}
	return result, false
}

func ValidateAskRequest(askReq api.AskRequest) bool {
	if handlerInstance == nil {
		return false
	}
	if askReq.Question == "" {
		return false
	}
	switch askReq.Verbosity {
	case "", "short", "normal", "long":
		return true
	}
	return false
}

func ValidateQuizRequest(quizReq api.QuizRequest) bool {
	if handlerInstance == nil {
		return false
	}
	if quizReq.Topic == "" || quizReq.ItemCount < 0 {
		return false
	}
	for _, t := range quizReq.ItemTypes {
		if t != commonModels.QuizItemMCQ && t != commonModels.QuizItemShortAnswer {
			return false
		}
	}
	return true
}

// private methods
func (h *JobHandler) pushToJobChannel(newJob newJobData) {

	_job := jobModel.Job{}
	_job.Id = newJob.id
	_job.SessionId = newJob.sessionId
	_job.CreatedTime = time.Now()
	_job.TraceId = newJob.traceId
	_job.Status = jobModel.JobStatusQueued
	_job.JobType = newJob.jobType

	switch newJob.jobType {
	case jobModel.JobTypeIngest:
		_job.CurrentStep = jobModel.IngestInit
		_job.JobPayload.IngestDocName = newJob.documentName
		_job.JobPayload.IngestText = newJob.documentText

	case jobModel.JobTypeQuiz:
		_job.CurrentStep = jobModel.QuizInit
		_job.JobPayload.TopicQuery = newJob.topic
		_job.JobPayload.ItemCount = newJob.itemCount
		_job.JobPayload.ItemTypes = newJob.itemTypes

	default:
		_job.CurrentStep = jobModel.AskInit
		_job.JobPayload.Question = newJob.question
		_job.JobPayload.ExplainSimply = newJob.explainSimply
		_job.JobPayload.Verbosity = newJob.verbosity
	}

	//metrics
	metrics.IncrementJobsInQueue()

	h.service.JobChannel <- _job //blocking send to prevent the system from being overwhelmed
	logJH.Info("Created new job")

	//a new worker every 10 requests, and always for ingest and quiz jobs:
	//both involve batch external calls which might take time, and idle
	//workers retire on their own
	accurateCount := atomic.AddInt64(&h.service.RequestCount, 1)
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || _job.JobType != jobModel.JobTypeAsk {
		metrics.StartDispatcherSignalCount() //metrics
		logJH.Debug("Worker count ", accurateCount)
		h.service.DispatcherChannel <- true
	}
}
