package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/edumentor/edumentor/internal/adapter"
	"github.com/edumentor/edumentor/internal/adapter/utils"
	"github.com/edumentor/edumentor/internal/api"
	"github.com/edumentor/edumentor/internal/config"
	"github.com/edumentor/edumentor/internal/domain/commonModels"
	"github.com/edumentor/edumentor/internal/domain/jobModel"
	"github.com/edumentor/edumentor/pkg/logger_i"
)

var logRH *logger_i.Logger

type newJobData struct {
	id            string
	sessionId     string
	traceId       string
	jobType       jobModel.JobType
	question      string
	explainSimply bool
	verbosity     string
	documentName  string
	documentText  string
	topic         string
	itemCount     int
	itemTypes     []commonModels.QuizItemType
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// AskHandler godoc
// @Summary      Ask a question about the course material
// @Description  Accepts a question, initializes a background answering job, and returns a job ID to track status.
// @Tags         Tutoring
// @Accept       json
// @Produce      json
// @Param        request  body      api.AskRequest       true  "Question and optional session ID"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Invalid request data"
// @Router       /ask [post]
func AskHandler(w http.ResponseWriter, request *http.Request) {

	if validateContext(request.Context()) {

		var requestData api.AskRequest
		defer closeBody(request.Body)
		if err := json.NewDecoder(request.Body).Decode(&requestData); err != nil || !ValidateAskRequest(requestData) {
			logRH.Warn("Bad Ask Request: ", "error:", err, "request data:", requestData)
			WriteErrorResponse(w, http.StatusBadRequest, requestData.SessionID, "Bad Request")
			return
		}

		sessionID := requestData.SessionID
		if sessionID == "" {
			sessionID = utils.GetNewUUID()
		}

		newJob := newJobData{
			id:            utils.GetNewUUID(),
			sessionId:     sessionID,
			traceId:       request.Context().Value(config.TRACE_ID_KEY).(string),
			jobType:       jobModel.JobTypeAsk,
			question:      requestData.Question,
			explainSimply: requestData.ExplainSimply,
			verbosity:     requestData.Verbosity,
		}
		acceptJob(w, newJob)
		return
	}
	logRH.Warn("Invalid Context by request ", request.RemoteAddr)
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific job using its ID.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse  "The current status of the job"
// @Failure      404  {object}  api.JobResponse  "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}

// PostIngestHandler godoc
// @Summary      Upload a document for ingestion
// @Description  Receives a plain-text file via multipart/form-data and queues an ingestion job.
// @Tags         Ingestion
// @Accept       multipart/form-data
// @Produce      json
// @Param        document_name  formData  string  true  "The display name of the document"
// @Param        document       formData  file    true  "The plain-text file to upload"
// @Success      202  {object}  api.InitJobResponse  "Accepted - returns job id and status URL"
// @Failure      400  {object}  api.JobResponse      "Bad Request - Missing fields or file too large"
// @Router       /ingest [post]
func PostIngestHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		const maxUploadSize = 32 << 20 //32mb
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
			return
		}

		docName := r.FormValue("document_name")
		if docName == "" {
			WriteErrorResponse(w, http.StatusBadRequest, "", "document_name is required")
			return
		}

		fileReader, _, err := r.FormFile("document")
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, docName, "Could not retrieve file")
			return
		}
		defer fileReader.Close()

		text, err := io.ReadAll(io.LimitReader(fileReader, maxUploadSize))
		if err != nil || len(text) == 0 {
			WriteErrorResponse(w, http.StatusBadRequest, docName, "Could not read file")
			return
		}

		newJob := newJobData{
			id:           utils.GetNewUUID(),
			traceId:      r.Context().Value(config.TRACE_ID_KEY).(string),
			jobType:      jobModel.JobTypeIngest,
			documentName: docName,
			documentText: string(text),
		}
		acceptJob(w, newJob)
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// PostQuizHandler godoc
// @Summary      Generate a quiz on a topic
// @Description  Queues a quiz generation job over the ingested material and returns a job ID to track status.
// @Tags         Quizzing
// @Accept       json
// @Produce      json
// @Param        request  body      api.QuizRequest      true  "Topic, optional item count and item types"
// @Success      202      {object}  api.InitJobResponse  "Job successfully created"
// @Failure      400      {object}  api.JobResponse      "Invalid request data"
// @Router       /quiz [post]
func PostQuizHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		var requestData api.QuizRequest
		defer closeBody(r.Body)
		if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil || !ValidateQuizRequest(requestData) {
			logRH.Warn("Bad Quiz Request: ", "error:", err, "request data:", requestData)
			WriteErrorResponse(w, http.StatusBadRequest, "", "Bad Request")
			return
		}

		newJob := newJobData{
			id:        utils.GetNewUUID(),
			traceId:   r.Context().Value(config.TRACE_ID_KEY).(string),
			jobType:   jobModel.JobTypeQuiz,
			topic:     requestData.Topic,
			itemCount: requestData.ItemCount,
			itemTypes: requestData.ItemTypes,
		}
		acceptJob(w, newJob)
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

func acceptJob(w http.ResponseWriter, newJob newJobData) {
	CreateNewJob(newJob)
	res := adapter.ToInitJobResponse(newJob.id)
	writeJsonResponse(w, http.StatusAccepted, res)
}
