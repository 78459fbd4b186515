package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/edumentor/edumentor/internal/config"
	"github.com/edumentor/edumentor/internal/domain/commonModels"
	"github.com/edumentor/edumentor/internal/domain/jobModel"
	"github.com/edumentor/edumentor/internal/job"
	"github.com/edumentor/edumentor/internal/tutor/eval"
	"github.com/edumentor/edumentor/pkg/logger_i"
)

// MockTutorService counts executed jobs
type MockTutorService struct {
	ProcessedCount int32
}

func (m *MockTutorService) ProcessQuestion(ctx context.Context, j jobModel.Job) jobModel.Job {
	atomic.AddInt32(&m.ProcessedCount, 1)
	return j
}

func (m *MockTutorService) IngestDocument(ctx context.Context, j jobModel.Job) jobModel.Job {
	atomic.AddInt32(&m.ProcessedCount, 1)
	return j
}

func (m *MockTutorService) GenerateQuiz(ctx context.Context, j jobModel.Job) jobModel.Job {
	atomic.AddInt32(&m.ProcessedCount, 1)
	return j
}

func (m *MockTutorService) Grade(ctx context.Context, q commonModels.Quiz, attempts []commonModels.QuizAttempt) ([]commonModels.GradeResult, error) {
	return nil, nil
}

func (m *MockTutorService) GenerateFlashcards(ctx context.Context, topic string, count int) ([]commonModels.Flashcard, error) {
	return nil, nil
}

func (m *MockTutorService) Summarize(ctx context.Context, topic string) (string, error) {
	return "", nil
}

func (m *MockTutorService) ResetCorpus(ctx context.Context) error { return nil }

func (m *MockTutorService) Quality() *eval.MetricLog { return eval.NewMetricLog() }

type MockJobStore struct {
	OnSaveJob func(ctx context.Context, job jobModel.Job) error
}

func (m *MockJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	return jobModel.Job{}, false
}

func (m *MockJobStore) DeleteJob(ctx context.Context, jobID string) {}

func (m *MockJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	if m.OnSaveJob != nil {
		return m.OnSaveJob(ctx, j)
	}
	return nil
}

func TestWorkerPool_Flow(t *testing.T) {
	jobSvc := &job.Service{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          &MockJobStore{},
	}
	mockTutor := &MockTutorService{}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	InitServices(jobSvc, mockTutor)
	InitWorkerPool(stopChan, wg)

	// Reset global state for test
	atomic.StoreInt64(&currentWorkerCount, 0)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		jobSvc.DispatcherChannel <- true

		time.Sleep(50 * time.Millisecond)

		count := atomic.LoadInt64(&currentWorkerCount)
		if count < 1 {
			t.Errorf("Expected at least 1 worker, got %d", count)
		}
	})

	t.Run("Worker processes a job", func(t *testing.T) {
		testJob := jobModel.Job{Id: "test-1", JobType: jobModel.JobTypeAsk}
		jobSvc.JobChannel <- testJob

		time.Sleep(50 * time.Millisecond)

		processed := atomic.LoadInt32(&mockTutor.ProcessedCount)
		if processed != 1 {
			t.Errorf("Expected 1 job processed, got %d", processed)
		}
	})

	t.Run("Worker routes ingest and quiz jobs", func(t *testing.T) {
		jobSvc.JobChannel <- jobModel.Job{Id: "test-2", JobType: jobModel.JobTypeIngest}
		jobSvc.JobChannel <- jobModel.Job{Id: "test-3", JobType: jobModel.JobTypeQuiz}

		time.Sleep(50 * time.Millisecond)

		processed := atomic.LoadInt32(&mockTutor.ProcessedCount)
		if processed != 3 {
			t.Errorf("Expected 3 jobs processed, got %d", processed)
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		close(stopChan)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			// Success
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}

func TestExecuteJob_ErrorStatusSurvives(t *testing.T) {
	var finalStatus jobModel.JobStatus
	var mu sync.Mutex

	jobSvc := &job.Service{
		JobStore: &MockJobStore{
			OnSaveJob: func(ctx context.Context, j jobModel.Job) error {
				mu.Lock()
				finalStatus = j.Status
				mu.Unlock()
				return nil
			},
		},
	}

	failing := &failingTutorService{}
	logger = logger_i.NewLogger("TestWorker")
	InitServices(jobSvc, failing)

	executeJob(jobModel.Job{Id: "fail-1", JobType: jobModel.JobTypeAsk})

	mu.Lock()
	defer mu.Unlock()
	if finalStatus != jobModel.JobStatusError {
		t.Errorf("final save must preserve the error status, got %q", finalStatus)
	}
}

// failingTutorService marks every job failed
type failingTutorService struct {
	MockTutorService
}

func (f *failingTutorService) ProcessQuestion(ctx context.Context, j jobModel.Job) jobModel.Job {
	j.Status = jobModel.JobStatusError
	return j
}

func TestWorker_IdleTimeout(t *testing.T) {
	if testing.Short() {
		t.Skip("idle retirement waits out the full timeout")
	}

	atomic.StoreInt64(&currentWorkerCount, 0)
	logger = logger_i.NewLogger("TestWorkerPool")
	jobSvc := &job.Service{
		JobChannel: make(chan jobModel.Job),
	}
	InitServices(jobSvc, &MockTutorService{})

	wg := &sync.WaitGroup{}
	stopChan := make(chan bool)
	workerWaitGroup = wg
	stopWorkerChannel = stopChan

	createWorker()
	createWorker()
	time.Sleep(config.IdleWorkerTimeout)

	time.Sleep(100 * time.Millisecond)
	count := atomic.LoadInt64(&currentWorkerCount)
	if count != config.MinWorkerCount {
		t.Errorf("idle pool should shrink to the minimum of %d, but count is %d", config.MinWorkerCount, count)
	}

	close(stopChan)
}
