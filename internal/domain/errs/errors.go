package errs

import "errors"

// Failure taxonomy for the tutoring pipeline. Transient service errors are
// retried inside the owning component; only exhausted retries surface to the
// caller, as a degraded result rather than a crash.
var (
	// ErrInvalidConfig: bad chunking parameters. Fatal, the caller must fix
	// the configuration before ingesting.
	ErrInvalidConfig = errors.New("invalid chunking configuration")

	// Retryable transient failures.
	ErrIndexUnavailable  = errors.New("vector index unavailable")
	ErrEmbeddingService  = errors.New("embedding service failure")
	ErrGenerationService = errors.New("generation service failure")
	ErrGradingService    = errors.New("grading service failure")

	// ErrMalformedOutput: generative output failed schema validation after
	// the bounded regeneration retry.
	ErrMalformedOutput = errors.New("malformed model output")
)

// Retryable reports whether the error belongs to the transient class.
func Retryable(err error) bool {
	return errors.Is(err, ErrIndexUnavailable) ||
		errors.Is(err, ErrEmbeddingService) ||
		errors.Is(err, ErrGenerationService) ||
		errors.Is(err, ErrGradingService)
}
