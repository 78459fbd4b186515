package middleware

import (
	"net/http"
	"strconv"

	"github.com/edumentor/edumentor/internal/handlers"
	"github.com/edumentor/edumentor/internal/metrics"
	"github.com/edumentor/edumentor/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
	id           string
}

var GetHandler = Wrap(handlers.GetHandler)

var AskHandler = Wrap(handlers.AskHandler)
var GetStatusHandler = Wrap(handlers.GetStatusHandler)
var PostIngestHandler = Wrap(handlers.PostIngestHandler)
var PostQuizHandler = Wrap(handlers.PostQuizHandler)
var PostGradeHandler = Wrap(handlers.PostGradeHandler)
var PostFlashcardsHandler = Wrap(handlers.PostFlashcardsHandler)
var PostSummaryHandler = Wrap(handlers.PostSummaryHandler)
var GetProfileHandler = Wrap(handlers.GetProfileHandler)
var PutProfileHandler = Wrap(handlers.PutProfileHandler)
var GetMetricsExportHandler = Wrap(handlers.GetMetricsExportHandler)
var PostResetHandler = Wrap(handlers.PostResetHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}
func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Info("New request received")
	re = injectTrace(re)
	re = authenticate(re)
	if re.badRequest.isBadRequest {
		return re //stop if auth fails
	}
	re = rateLimiter(re)
	return re
}
