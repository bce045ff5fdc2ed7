// Package scanner implements the resume analysis use cases: accepting a
// submission, running the evaluation in the background and serving status
// polls. All background outcomes funnel back through the job store; the
// submitting caller only ever sees the returned job handle.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"scanmatch-utils/internal/config"
	"scanmatch-utils/internal/extractor"
	"scanmatch-utils/internal/logging"
	"scanmatch-utils/internal/store"
	"scanmatch-utils/pkg/models"
	"scanmatch-utils/pkg/utils"
)

// AnalysisEngine is the capability the orchestrator requires from the
// analysis engine
type AnalysisEngine interface {
	Analyze(ctx context.Context, resumeText, jobDescriptionText string) (*models.Analysis, error)
}

// Service orchestrates analysis jobs and serves status queries
type Service struct {
	store     store.JobStore
	engine    AnalysisEngine
	extractor extractor.TextExtractor
	logger    logging.Logger

	taskTimeout     time.Duration
	cleanupInterval time.Duration

	// semaphore bounding concurrent background evaluations
	slots  chan struct{}
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewService creates the analysis service
func NewService(cfg *config.Config, jobStore store.JobStore, engine AnalysisEngine, textExtractor extractor.TextExtractor, logger logging.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	maxConcurrent := cfg.BackgroundTasks.MaxConcurrentTasks
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	return &Service{
		store:           jobStore,
		engine:          engine,
		extractor:       textExtractor,
		logger:          logger,
		taskTimeout:     cfg.BackgroundTasks.TaskTimeout,
		cleanupInterval: cfg.Storage.CleanupInterval,
		slots:           make(chan struct{}, maxConcurrent),
		ctx:             ctx,
		cancel:          cancel,
	}
}

// Start launches the periodic expired-job sweep
func (s *Service) Start() {
	if s.cleanupInterval > 0 {
		s.wg.Add(1)
		go s.cleanupRoutine()
	}
}

// Stop waits for in-flight background evaluations to finish, up to the
// deadline of the given context
func (s *Service) Stop(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timed out waiting for background tasks: %w", ctx.Err())
	}
}

// Submit validates the request, persists a new processing job, launches the
// background evaluation and returns the job handle immediately. The caller
// never blocks on the external analysis call.
func (s *Service) Submit(ctx context.Context, req *models.AnalyzeRequest) (*models.AnalyzeAcceptedResponse, error) {
	if len(req.ResumeFile) == 0 {
		return nil, utils.NewValidationError("resume file is required")
	}
	if req.JobDescription == "" {
		return nil, utils.NewValidationError("job description is required")
	}
	if len(req.ResumeFile) > models.MaxResumeFileSize {
		return nil, utils.NewValidationError("resume file too large")
	}
	if !extractor.IsPDF(req.ResumeFile) {
		return nil, utils.NewValidationError("file is not a valid PDF format")
	}

	job := models.NewJob(time.Now())
	if err := s.store.Save(ctx, job); err != nil {
		s.logger.Error("Failed to persist new job", map[string]interface{}{
			"job_id": job.ID,
			"error":  err.Error(),
		})
		return nil, utils.NewStorageError(err.Error())
	}

	s.logger.Info("Analysis job accepted", map[string]interface{}{
		"job_id":    job.ID,
		"file_name": req.FileName,
		"file_size": len(req.ResumeFile),
	})

	s.wg.Add(1)
	go s.processJob(job, req.ResumeFile, req.JobDescription, req.FileName)

	return models.CreateAnalyzeAcceptedResponse(job), nil
}

// GetStatus looks up a job and projects it into its polling view. Expired
// and unknown ids are reported identically as not found.
func (s *Service) GetStatus(ctx context.Context, idText string) (*models.JobStatusResponse, error) {
	if err := models.ValidateJobID(idText); err != nil {
		return nil, utils.NewValidationError("invalid job id format")
	}

	job, err := s.store.FindByID(ctx, idText)
	if err != nil {
		if !errors.Is(err, store.ErrJobNotFound) {
			s.logger.Error("Job lookup failed", map[string]interface{}{
				"job_id": idText,
				"error":  err.Error(),
			})
		}
		return nil, utils.NewJobNotFoundError(idText)
	}

	return models.CreateJobStatusResponse(job), nil
}

// DeleteJob removes a job record. Operator capability; the core flow relies
// on TTL eviction instead.
func (s *Service) DeleteJob(ctx context.Context, idText string) error {
	if err := models.ValidateJobID(idText); err != nil {
		return utils.NewValidationError("invalid job id format")
	}

	if err := s.store.Delete(ctx, idText); err != nil {
		return utils.NewStorageError(err.Error())
	}
	return nil
}

// processJob runs the background phase for one job: extract text, validate
// content, analyze, and make exactly one terminal persist. Errors are never
// propagated to the submitter; they land in the job record.
func (s *Service) processJob(job *models.Job, resumeBytes []byte, jobDescriptionText, fileName string) {
	defer s.wg.Done()

	select {
	case s.slots <- struct{}{}:
		defer func() { <-s.slots }()
	case <-s.ctx.Done():
		// A job still queued on the semaphore at shutdown gets a terminal
		// record instead of lingering as processing until TTL eviction
		s.failJob(job, "analysis canceled: service shutting down")
		return
	}

	ctx := s.ctx
	if s.taskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(s.ctx, s.taskTimeout)
		defer cancel()
	}

	startTime := time.Now()

	resumeText, err := s.extractor.ExtractText(resumeBytes)
	if err != nil {
		s.failJob(job, utils.NewExtractionError(err.Error()).Error())
		return
	}

	resume := models.NewResume(utils.GenerateRequestID(), resumeText, fileName, time.Now())
	jobDescription := models.NewJobDescription(jobDescriptionText)

	if resume.IsEmpty() {
		s.failJob(job, utils.NewExtractionError("empty resume text extracted").Error())
		return
	}
	if !resume.HasValidContent() {
		s.failJob(job, "invalid resume content")
		return
	}
	if jobDescription.IsEmpty() || !jobDescription.HasValidContent() {
		s.failJob(job, "invalid job description content")
		return
	}

	analysis, err := s.engine.Analyze(ctx, resume.Content, jobDescription.Content)
	if err != nil {
		s.failJob(job, utils.NewAnalysisError(err.Error()).Error())
		return
	}

	if err := job.MarkCompleted(analysis); err != nil {
		// Double transition would be an orchestration defect
		s.logger.Error("Illegal job transition", map[string]interface{}{
			"job_id": job.ID,
			"error":  err.Error(),
		})
		return
	}

	persistCtx, cancel := s.terminalCtx()
	err = s.store.Update(persistCtx, job)
	cancel()
	if err != nil {
		s.logger.Error("Failed to persist completed job", map[string]interface{}{
			"job_id": job.ID,
			"error":  err.Error(),
		})
		return
	}

	s.logger.Info("Analysis job completed", map[string]interface{}{
		"job_id":          job.ID,
		"total_score":     analysis.Overall.TotalScore.Value(),
		"processing_time": utils.FormatDuration(time.Since(startTime)),
	})
}

// failJob transitions the job to the error state and persists it. A failed
// persist is logged and swallowed; the job then remains processing until
// TTL eviction.
func (s *Service) failJob(job *models.Job, message string) {
	s.logger.Warn("Analysis job failed", map[string]interface{}{
		"job_id": job.ID,
		"error":  message,
	})

	if err := job.MarkError(message); err != nil {
		s.logger.Error("Illegal job transition", map[string]interface{}{
			"job_id": job.ID,
			"error":  err.Error(),
		})
		return
	}

	persistCtx, cancel := s.terminalCtx()
	defer cancel()
	if err := s.store.Update(persistCtx, job); err != nil {
		s.logger.Error("Failed to persist job error state", map[string]interface{}{
			"job_id": job.ID,
			"error":  err.Error(),
		})
	}
}

// terminalCtx returns the context for terminal persists. It survives both
// the per-task deadline and service shutdown, so a timed-out or canceled
// job still records its final state; the deadline keeps a hung store from
// blocking shutdown indefinitely.
func (s *Service) terminalCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(s.ctx), 10*time.Second)
}

// cleanupRoutine periodically purges expired jobs. Sweep failures are
// logged, never fatal.
func (s *Service) cleanupRoutine() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if err := s.store.Cleanup(context.Background()); err != nil {
				s.logger.Error("Failed to cleanup expired jobs", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}
