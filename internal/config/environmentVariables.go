package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

const (
	IS_PROD                         = false
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = true //if redis init fails, fall back to in-memory session stores
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5

	NoAuthBypass = true //single-learner local deployment; flip off before exposing the API
	AuthToken    = ""

	//chunking - overlap must stay below size, ingest rejects the pair otherwise
	ChunkSize    = 1000 //characters per chunk
	ChunkOverlap = 200

	//retrieval
	TopK                  = 5
	ConfidenceThreshold   = 0.3
	CacheSimilarityCutoff = 0.97

	EmbeddingOutputDimensionality int32 = 1536
	CourseCollectionName                = "course-material"
	AnswerCacheCollectionName           = "answer-cache"

	//quiz + grading
	QuizItemCount      = 4
	QuizRetryBudget    = 2 //regeneration passes after the first one comes up short
	GradeScoreMin      = 0.0
	GradeScoreMax      = 1.0
	FlashcardCount     = 10
	AnswerParseRetries = 1
	ServiceRetryBudget = 3

	ConversationHistoryDepth = 5

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = ""
	QdrantPort              = 6333 //http
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false
	QdrantPoolSize          = 1
	QdrantKeepAliveTimeout  = 30 * time.Second

	//generative models
	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIModelName      = "gpt-4o-mini"
	OpenAIEmbeddingModel = "text-embedding-3-small"

	ModelTemperature  float32 = 0.3
	GraderTemperature float32 = 0.1

	//external call discipline
	ExternalCallTimeout = 30 * time.Second
	RetryInitialDelay   = 200 * time.Millisecond
	RetryMaxDelay       = 5 * time.Second

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	//redis has 16 DBs we can use
	RedisJobStore       = 0
	RedisSessionStore   = 1
	RedisDocumentLedger = 2

	//redis timeouts
	RedisJobStoreTTL     = 24 * time.Hour
	RedisSessionStoreTTL = 24 * time.Hour
)

// Skill levels, ordered Beginner < Intermediate < Advanced.
const (
	SkillBeginner     = "Beginner"
	SkillIntermediate = "Intermediate"
	SkillAdvanced     = "Advanced"
)

// Provider selects which generative/embedding backend gets wired up at boot.
// Retrieval and scoring never see the difference.
func Provider() string {
	if p := os.Getenv("LLM_PROVIDER"); p != "" {
		return p
	}
	return "gemini"
}

func GoogleAPIKey() string { return os.Getenv("GOOGLE_API_KEY") }
func OpenAIAPIKey() string { return os.Getenv("OPENAI_API_KEY") }

// EnvInt reads a deployment override for tunables like CHUNK_SIZE or TOP_K.
func EnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func EnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
