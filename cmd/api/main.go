// @title           EduMentor Study API
// @version         1.0
// @description     Retrieval-grounded study assistant: grounded answers, quizzes and grading over uploaded course material.
// @termsOfService  http://swagger.io/terms/

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/edumentor/edumentor/internal/config"
	"github.com/edumentor/edumentor/internal/data/redisStore"
	"github.com/edumentor/edumentor/internal/data/store"
	jobmodel "github.com/edumentor/edumentor/internal/domain/jobModel"
	"github.com/edumentor/edumentor/internal/handlers"
	"github.com/edumentor/edumentor/internal/job"
	"github.com/edumentor/edumentor/internal/server"
	"github.com/edumentor/edumentor/internal/tutor"
	"github.com/edumentor/edumentor/internal/tutor/embedding"
	"github.com/edumentor/edumentor/internal/tutor/embedding/googleEmbedding"
	"github.com/edumentor/edumentor/internal/tutor/embedding/openaiEmbedding"
	"github.com/edumentor/edumentor/internal/tutor/llm"
	"github.com/edumentor/edumentor/internal/tutor/llm/gemini"
	"github.com/edumentor/edumentor/internal/tutor/llm/openaiLLM"
	"github.com/edumentor/edumentor/internal/tutor/vectorDB/qdrantDB"
	"github.com/edumentor/edumentor/internal/worker"
	"github.com/edumentor/edumentor/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//stores, with in-memory fallback for offline redis
	var jobStore jobmodel.JobStore
	var sessionStore jobmodel.SessionStore
	var ledger jobmodel.DocumentLedger

	if redisStore.GetRedisStore(serviceContext, config.RedisJobStore) != nil {
		jobStore = store.GetRedisJobStore(serviceContext)
		sessionStore = store.GetRedisSessionStore(serviceContext)
		ledger = store.GetRedisDocumentLedger(serviceContext)
	} else if config.FALLBACK_REDIS_TO_INTERNALSTORE {
		logger.Error("Redis is offline, using in-memory stores")
		jobStore = store.InitInMemoryJobStore()
		sessionStore = store.InitInMemorySessionStore()
		ledger = store.InitInMemoryDocumentLedger()
	} else {
		logger.Error("Redis is offline and fallback is disabled. Shutting down.")
		return
	}

	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		JobStore:          jobStore,
	}
	logger.Info("Starting job service")
	service := job.InitJobService(serviceConfig)

	vectorDB := qdrantDB.GetQdrantClient(serviceContext)

	var llmProvider llm.Provider
	var embeddingService embedding.Embedder
	switch config.Provider() {
	case "openai":
		llmProvider = openaiLLM.GetOpenAIClient(config.OpenAIModelName, config.OpenAIAPIKey())
		embeddingService = openaiEmbedding.GetOpenAIEmbeddingClient(config.OpenAIEmbeddingModel, config.OpenAIAPIKey())
	default:
		llmProvider = gemini.GetGeminiClient(serviceContext, config.GeminiModelName, config.GoogleAPIKey())
		embeddingService = googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GoogleAPIKey())
	}

	if vectorDB == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", vectorDB != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	tutorService := tutor.NewService(vectorDB, llmProvider, embeddingService, sessionStore, ledger)

	handlers.InitJobHandler(service, tutorService, sessionStore)

	//init worker pool
	worker.InitServices(service, tutorService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}
