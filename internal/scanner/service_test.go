package scanner

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scanmatch-utils/internal/config"
	"scanmatch-utils/internal/logging"
	"scanmatch-utils/internal/store"
	"scanmatch-utils/pkg/models"
	"scanmatch-utils/pkg/utils"
)

type stubEngine struct {
	analysis *models.Analysis
	err      error
}

func (e *stubEngine) Analyze(ctx context.Context, resumeText, jobDescriptionText string) (*models.Analysis, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.analysis, nil
}

type stubExtractor struct {
	text string
	err  error
}

func (e *stubExtractor) ExtractText(data []byte) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return e.text, nil
}

func stubAnalysis(totalScore int) *models.Analysis {
	return &models.Analysis{
		ID: "5de4911d-77e4-4b8c-8fb3-3e5b4a7ee0cd",
		Overall: models.OverallAnalysis{
			TotalScore:           models.MustScore(totalScore),
			CriticalImprovements: []string{},
			KeyStrengths:         []string{"Go"},
		},
		CreatedAt: time.Now().UTC(),
	}
}

func newTestService(t *testing.T, engine AnalysisEngine, extractor *stubExtractor) (*Service, *store.MemoryJobStore) {
	t.Helper()

	cfg := &config.Config{}
	cfg.BackgroundTasks.MaxConcurrentTasks = 4
	cfg.BackgroundTasks.TaskTimeout = 5 * time.Second
	cfg.Storage.CleanupInterval = 0

	jobStore := store.NewMemoryJobStore(time.Hour)
	svc := NewService(cfg, jobStore, engine, extractor, logging.NewMultiLogger())

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = svc.Stop(ctx)
	})

	return svc, jobStore
}

func validRequest() *models.AnalyzeRequest {
	return &models.AnalyzeRequest{
		ResumeFile:     []byte("%PDF-1.4 fake document body"),
		FileName:       "candidate.pdf",
		JobDescription: strings.Repeat("We are hiring a backend engineer to build Go services. ", 3),
	}
}

func extractedResumeText() string {
	return strings.Repeat("Seasoned backend engineer with Go and distributed systems experience. ", 5)
}

// waitForTerminal polls until the job leaves the processing state
func waitForTerminal(t *testing.T, svc *Service, jobID string) *models.JobStatusResponse {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		status, err := svc.GetStatus(context.Background(), jobID)
		require.NoError(t, err)
		if status.Status != models.JobStatusProcessing {
			return status
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("job %s never reached a terminal state", jobID)
	return nil
}

func assertCustomErrorCode(t *testing.T, err error, code int) {
	t.Helper()
	var custom *utils.CustomError
	require.ErrorAs(t, err, &custom)
	assert.Equal(t, code, custom.Code)
}

func TestSubmitRejectsInvalidRequests(t *testing.T) {
	svc, jobStore := newTestService(t, &stubEngine{analysis: stubAnalysis(80)}, &stubExtractor{text: extractedResumeText()})

	tests := []struct {
		name   string
		mutate func(*models.AnalyzeRequest)
	}{
		{"missing resume file", func(r *models.AnalyzeRequest) { r.ResumeFile = nil }},
		{"missing job description", func(r *models.AnalyzeRequest) { r.JobDescription = "" }},
		{"oversized file", func(r *models.AnalyzeRequest) { r.ResumeFile = make([]byte, models.MaxResumeFileSize+1) }},
		{"not a pdf", func(r *models.AnalyzeRequest) { r.ResumeFile = []byte("plain text resume") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := svc.Submit(context.Background(), req)
			assertCustomErrorCode(t, err, http.StatusBadRequest)
		})
	}

	assert.Equal(t, 0, jobStore.Len(), "rejected submissions must not create jobs")
}

func TestSubmitReturnsProcessingJobImmediately(t *testing.T) {
	svc, _ := newTestService(t, &stubEngine{analysis: stubAnalysis(80)}, &stubExtractor{text: extractedResumeText()})

	accepted, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NoError(t, models.ValidateJobID(accepted.JobID))
	assert.Equal(t, models.JobStatusProcessing, accepted.Status)
	assert.False(t, accepted.CreatedAt.IsZero())
}

func TestSubmitCompletesJobWithResult(t *testing.T) {
	svc, _ := newTestService(t, &stubEngine{analysis: stubAnalysis(88)}, &stubExtractor{text: extractedResumeText()})

	accepted, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	status := waitForTerminal(t, svc, accepted.JobID)
	assert.Equal(t, models.JobStatusCompleted, status.Status)
	assert.Empty(t, status.ErrorMessage)
	require.NotNil(t, status.CompletedAt)
	require.NotNil(t, status.Result)
	assert.Equal(t, 88, status.Result.Overall.TotalScore.Value())
}

func TestSubmitRecordsExtractionFailure(t *testing.T) {
	svc, _ := newTestService(t, &stubEngine{analysis: stubAnalysis(80)}, &stubExtractor{err: errors.New("encrypted document")})

	accepted, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	status := waitForTerminal(t, svc, accepted.JobID)
	assert.Equal(t, models.JobStatusError, status.Status)
	assert.Contains(t, status.ErrorMessage, "Text extraction failed")
	assert.Contains(t, status.ErrorMessage, "encrypted document")
	assert.Nil(t, status.Result)
}

func TestSubmitRecordsEmptyExtractedText(t *testing.T) {
	svc, _ := newTestService(t, &stubEngine{analysis: stubAnalysis(80)}, &stubExtractor{text: "   \n\t "})

	accepted, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	status := waitForTerminal(t, svc, accepted.JobID)
	assert.Equal(t, models.JobStatusError, status.Status)
	assert.Contains(t, status.ErrorMessage, "empty resume text extracted")
}

func TestSubmitRejectsShortResumeContent(t *testing.T) {
	svc, _ := newTestService(t, &stubEngine{analysis: stubAnalysis(80)}, &stubExtractor{text: "too short"})

	accepted, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	status := waitForTerminal(t, svc, accepted.JobID)
	assert.Equal(t, models.JobStatusError, status.Status)
	assert.Contains(t, status.ErrorMessage, "invalid resume content")
}

func TestSubmitRejectsShortJobDescription(t *testing.T) {
	svc, _ := newTestService(t, &stubEngine{analysis: stubAnalysis(80)}, &stubExtractor{text: extractedResumeText()})

	req := validRequest()
	req.JobDescription = "short posting"

	accepted, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)

	status := waitForTerminal(t, svc, accepted.JobID)
	assert.Equal(t, models.JobStatusError, status.Status)
	assert.Contains(t, status.ErrorMessage, "invalid job description content")
}

func TestSubmitRecordsAnalysisFailure(t *testing.T) {
	svc, _ := newTestService(t, &stubEngine{err: errors.New("analysis failed after 3 attempts: provider down")}, &stubExtractor{text: extractedResumeText()})

	accepted, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	status := waitForTerminal(t, svc, accepted.JobID)
	assert.Equal(t, models.JobStatusError, status.Status)
	assert.Contains(t, status.ErrorMessage, "Resume analysis failed")
}

// blockingEngine parks in Analyze until released or the context ends
type blockingEngine struct {
	started chan struct{}
	release chan struct{}
}

func (e *blockingEngine) Analyze(ctx context.Context, resumeText, jobDescriptionText string) (*models.Analysis, error) {
	e.started <- struct{}{}
	select {
	case <-e.release:
		return stubAnalysis(80), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestStopPersistsTerminalStateForInFlightAndQueuedJobs(t *testing.T) {
	// Buffered so the queued job can also pass through the engine without
	// a receiver once shutdown begins
	engine := &blockingEngine{
		started: make(chan struct{}, 2),
		release: make(chan struct{}),
	}

	cfg := &config.Config{}
	cfg.BackgroundTasks.MaxConcurrentTasks = 1
	cfg.BackgroundTasks.TaskTimeout = 5 * time.Second
	cfg.Storage.CleanupInterval = 0

	jobStore := store.NewMemoryJobStore(time.Hour)
	svc := NewService(cfg, jobStore, engine, &stubExtractor{text: extractedResumeText()}, logging.NewMultiLogger())

	// First job occupies the single slot inside the engine call
	inFlight, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	select {
	case <-engine.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first job never reached the engine")
	}

	// Second job queues on the semaphore behind the first
	queued, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, svc.Stop(stopCtx))

	// Neither job may be stranded in the processing state after shutdown
	for _, jobID := range []string{inFlight.JobID, queued.JobID} {
		status, err := svc.GetStatus(context.Background(), jobID)
		require.NoError(t, err)
		assert.Equal(t, models.JobStatusError, status.Status, "job %s must reach a terminal state", jobID)
		assert.NotEmpty(t, status.ErrorMessage)
	}
}

func TestGetStatusUnknownJob(t *testing.T) {
	svc, _ := newTestService(t, &stubEngine{analysis: stubAnalysis(80)}, &stubExtractor{text: extractedResumeText()})

	_, err := svc.GetStatus(context.Background(), "1fc4ff9a-51a2-4be7-b2d0-6a19b8c9e001")
	assertCustomErrorCode(t, err, http.StatusNotFound)
}

func TestGetStatusMalformedJobID(t *testing.T) {
	svc, _ := newTestService(t, &stubEngine{analysis: stubAnalysis(80)}, &stubExtractor{text: extractedResumeText()})

	_, err := svc.GetStatus(context.Background(), "not-a-uuid")
	assertCustomErrorCode(t, err, http.StatusBadRequest)
}

func TestDeleteJob(t *testing.T) {
	svc, _ := newTestService(t, &stubEngine{analysis: stubAnalysis(80)}, &stubExtractor{text: extractedResumeText()})

	accepted, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	waitForTerminal(t, svc, accepted.JobID)

	require.NoError(t, svc.DeleteJob(context.Background(), accepted.JobID))

	_, err = svc.GetStatus(context.Background(), accepted.JobID)
	assertCustomErrorCode(t, err, http.StatusNotFound)

	assert.Error(t, svc.DeleteJob(context.Background(), "not-a-uuid"))
}
