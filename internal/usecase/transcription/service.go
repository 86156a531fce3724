package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
	"github.com/meetscribe/meetscribe/internal/domain/repositories"
	pkgai "github.com/meetscribe/meetscribe/pkg/ai"
	"github.com/meetscribe/meetscribe/pkg/config"
	"github.com/meetscribe/meetscribe/pkg/jobcontext"
)

// ErrInvalidSignature is returned when a webhook fails authentication.
var ErrInvalidSignature = fmt.Errorf("invalid webhook signature")

// Service drives media through the external transcription provider.
type Service interface {
	SubmitJob(ctx context.Context, mediaURI string) (*entities.TranscribeJob, error)
	GetJob(ctx context.Context, id uuid.UUID) (*entities.TranscribeJob, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	StartWorkerPool(ctx context.Context, workerCount int) error
	StopWorkerPool() error
}

type service struct {
	jobs      repositories.JobStore
	sdkClient *aai.Client
	cfg       *config.Config
	logger    *zap.Logger

	workerStopChan      chan struct{}
	workerWg            sync.WaitGroup
	isWorkerPoolRunning bool
	workerMutex         sync.Mutex
}

// NewService constructs a transcription service backed by the AssemblyAI SDK.
func NewService(jobs repositories.JobStore, cfg *config.Config, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		jobs:           jobs,
		sdkClient:      aai.NewClient(cfg.Assembly.APIKey),
		cfg:            cfg,
		logger:         logger,
		workerStopChan: make(chan struct{}),
	}
}

// SubmitJob records a pending job and submits it to the provider. Submission
// failures leave the job pending for the worker to retry.
func (s *service) SubmitJob(ctx context.Context, mediaURI string) (*entities.TranscribeJob, error) {
	if mediaURI == "" {
		return nil, fmt.Errorf("media URI is required")
	}

	job := entities.NewTranscribeJob(mediaURI)
	if err := s.jobs.SaveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	if err := s.submit(ctx, job); err != nil {
		s.logger.Warn("initial submission failed, worker will retry",
			zap.String("job_id", job.ID.String()),
			zap.Error(err))
	}
	return job, nil
}

// GetJob returns the current job state.
func (s *service) GetJob(ctx context.Context, id uuid.UUID) (*entities.TranscribeJob, error) {
	return s.jobs.GetJob(ctx, id)
}

// submit sends one job to the provider with exponential backoff on
// transient failures. The external ID is persisted inside the retry
// closure, before the webhook can possibly arrive.
func (s *service) submit(ctx context.Context, job *entities.TranscribeJob) error {
	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	}
	if s.cfg.Assembly.WebhookBaseURL != "" {
		webhookURL := s.cfg.Assembly.WebhookBaseURL + "/v1/webhooks/assemblyai"
		params.WebhookURL = &webhookURL
		if s.cfg.Assembly.WebhookSecret != "" {
			params.WebhookAuthHeaderName = aai.String("X-Webhook-Secret")
			params.WebhookAuthHeaderValue = aai.String(s.cfg.Assembly.WebhookSecret)
		}
	}

	submitFn := func() error {
		transcript, err := s.sdkClient.Transcripts.SubmitFromURL(ctx, job.MediaURI, params)
		if err != nil {
			s.logger.Error("transcription submission failed",
				zap.String("job_id", job.ID.String()),
				zap.Error(err))
			return err
		}

		if transcript.ID != nil {
			job.ExternalJobID = *transcript.ID
		}
		now := time.Now()
		job.Status = entities.TranscribeJobStatusSubmitted
		job.StartedAt = &now

		// external ID must be stored before the webhook can reference it
		if err := s.jobs.SaveJob(ctx, job); err != nil {
			return fmt.Errorf("failed to persist external job id: %w", err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(submitFn, backoff.WithContext(bo, ctx)); err != nil {
		job.RetryCount++
		job.LastError = err.Error()
		if job.RetryCount >= job.MaxRetries {
			job.Status = entities.TranscribeJobStatusFailed
		}
		if saveErr := s.jobs.SaveJob(ctx, job); saveErr != nil {
			s.logger.Error("failed to record submission failure",
				zap.String("job_id", job.ID.String()),
				zap.Error(saveErr))
		}
		return err
	}

	s.logger.Info("✅ transcription job submitted",
		zap.String("job_id", job.ID.String()),
		zap.String("transcript_id", job.ExternalJobID))
	return nil
}

// webhookEvent is the provider's completion notification.
type webhookEvent struct {
	TranscriptID string `json:"transcript_id"`
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
}

// HandleWebhook processes a provider callback. The transcript text is
// always re-fetched from the API; the webhook body only names the job.
func (s *service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.cfg.Assembly.WebhookSecret != "" {
		if signature != s.cfg.Assembly.WebhookSecret && !pkgai.VerifyHMAC(s.cfg.Assembly.WebhookSecret, payload, signature) {
			return ErrInvalidSignature
		}
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to parse webhook payload: %w", err)
	}
	if event.TranscriptID == "" {
		return fmt.Errorf("webhook payload missing transcript_id")
	}

	job, err := s.jobs.GetJobByExternalID(ctx, event.TranscriptID)
	if err != nil {
		return fmt.Errorf("unknown transcript %s: %w", event.TranscriptID, err)
	}

	s.logger.Info("📨 transcription webhook received",
		zap.String("job_id", job.ID.String()),
		zap.String("transcript_id", event.TranscriptID),
		zap.String("status", event.Status))

	switch event.Status {
	case "completed":
		return s.finalizeJob(ctx, job)
	case "error":
		return s.failJob(ctx, job, event.Error)
	default:
		job.Status = entities.TranscribeJobStatusProcessing
		return s.jobs.SaveJob(ctx, job)
	}
}

// finalizeJob fetches the finished transcript and marks the job completed.
func (s *service) finalizeJob(ctx context.Context, job *entities.TranscribeJob) error {
	transcript, err := s.sdkClient.Transcripts.Get(ctx, job.ExternalJobID)
	if err != nil {
		return fmt.Errorf("failed to fetch transcript %s: %w", job.ExternalJobID, err)
	}
	if transcript.Text != nil {
		job.Transcript = *transcript.Text
	}
	if transcript.LanguageCode != "" {
		job.Language = string(transcript.LanguageCode)
	}

	now := time.Now()
	job.Status = entities.TranscribeJobStatusCompleted
	job.CompletedAt = &now
	if err := s.jobs.SaveJob(ctx, job); err != nil {
		return fmt.Errorf("failed to persist completed job: %w", err)
	}

	s.logger.Info("✅ transcription completed",
		zap.String("job_id", job.ID.String()),
		zap.Int("transcript_chars", len(job.Transcript)))
	return nil
}

func (s *service) failJob(ctx context.Context, job *entities.TranscribeJob, reason string) error {
	job.Status = entities.TranscribeJobStatusFailed
	job.LastError = reason
	if err := s.jobs.SaveJob(ctx, job); err != nil {
		return fmt.Errorf("failed to persist failed job: %w", err)
	}

	s.logger.Error("❌ transcription failed",
		zap.String("job_id", job.ID.String()),
		zap.String("reason", reason))
	return nil
}

// StartWorkerPool starts the background workers: pending-job submitters
// plus one poller that covers lost webhooks.
func (s *service) StartWorkerPool(ctx context.Context, workerCount int) error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if s.isWorkerPoolRunning {
		return fmt.Errorf("worker pool already running")
	}
	s.isWorkerPoolRunning = true
	s.workerStopChan = make(chan struct{})

	s.logger.Info("🚀 starting transcription worker pool",
		zap.Int("worker_count", workerCount))

	for i := 0; i < workerCount; i++ {
		s.workerWg.Add(1)
		go s.pendingJobWorker(ctx, i)
	}

	s.workerWg.Add(1)
	go s.pollingWorker(ctx)

	return nil
}

// StopWorkerPool signals all workers and waits for them to exit.
func (s *service) StopWorkerPool() error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if !s.isWorkerPoolRunning {
		return fmt.Errorf("worker pool not running")
	}

	close(s.workerStopChan)
	s.workerWg.Wait()
	s.isWorkerPoolRunning = false

	s.logger.Info("transcription worker pool stopped")
	return nil
}

// pendingJobWorker periodically resubmits jobs stuck in pending, and
// retries failed jobs that still have attempts left.
func (s *service) pendingJobWorker(parentCtx context.Context, workerID int) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	s.logger.Info("👷 pending job worker started", zap.Int("worker_id", workerID))

	for {
		select {
		case <-s.workerStopChan:
			s.logger.Info("👷 pending job worker stopping", zap.Int("worker_id", workerID))
			return

		case <-ticker.C:
			pending, err := s.jobs.ListJobsByStatus(parentCtx, entities.TranscribeJobStatusPending)
			if err != nil {
				s.logger.Error("failed to poll pending jobs", zap.Error(err))
				continue
			}
			failed, err := s.jobs.ListJobsByStatus(parentCtx, entities.TranscribeJobStatusFailed)
			if err != nil {
				s.logger.Error("failed to poll failed jobs", zap.Error(err))
				continue
			}
			for _, j := range failed {
				if j.IsRetryable() {
					pending = append(pending, j)
				}
			}

			for i := range pending {
				job := pending[i]
				jobCtx, cancel := jobcontext.JobBegin(parentCtx, job.ID, "transcribe_submit", workerID)
				err := jobcontext.JobEnd(jobCtx, func(ctx context.Context) error {
					return s.submit(ctx, &job)
				})
				cancel()
				if err != nil {
					s.logger.Error("job submission exhausted retries",
						zap.String("job_id", job.ID.String()),
						zap.Error(err))
				}
			}
		}
	}
}

// pollingWorker covers webhook loss: any job submitted or processing for
// longer than the poll interval is checked directly against the API.
func (s *service) pollingWorker(parentCtx context.Context) {
	defer s.workerWg.Done()

	interval := s.cfg.Assembly.PollInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("👷 transcript polling worker started")

	for {
		select {
		case <-s.workerStopChan:
			s.logger.Info("👷 transcript polling worker stopping")
			return

		case <-ticker.C:
			for _, status := range []entities.TranscribeJobStatus{
				entities.TranscribeJobStatusSubmitted,
				entities.TranscribeJobStatusProcessing,
			} {
				jobs, err := s.jobs.ListJobsByStatus(parentCtx, status)
				if err != nil {
					s.logger.Error("failed to poll in-flight jobs", zap.Error(err))
					continue
				}
				for i := range jobs {
					if s.expireJob(parentCtx, &jobs[i]) {
						continue
					}
					s.pollJob(parentCtx, &jobs[i])
				}
			}
		}
	}
}

// expireJob fails a job that has been in flight longer than the poll
// timeout, so a provider that never answers cannot be polled forever. The
// job is made terminal: timeouts are not resubmitted.
func (s *service) expireJob(ctx context.Context, job *entities.TranscribeJob) bool {
	timeout := s.cfg.Assembly.PollTimeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	if job.StartedAt == nil || time.Since(*job.StartedAt) < timeout {
		return false
	}

	job.RetryCount = job.MaxRetries
	if err := s.failJob(ctx, job, fmt.Sprintf("no result from provider within %s", timeout)); err != nil {
		s.logger.Error("failed to expire stale job",
			zap.String("job_id", job.ID.String()),
			zap.Error(err))
	}
	return true
}

func (s *service) pollJob(ctx context.Context, job *entities.TranscribeJob) {
	if job.ExternalJobID == "" {
		return
	}

	transcript, err := s.sdkClient.Transcripts.Get(ctx, job.ExternalJobID)
	if err != nil {
		s.logger.Error("failed to poll transcript",
			zap.String("job_id", job.ID.String()),
			zap.Error(err))
		return
	}

	switch transcript.Status {
	case aai.TranscriptStatusCompleted:
		if err := s.finalizeJob(ctx, job); err != nil {
			s.logger.Error("failed to finalize polled job",
				zap.String("job_id", job.ID.String()),
				zap.Error(err))
		}
	case aai.TranscriptStatusError:
		reason := "transcription error"
		if transcript.Error != nil {
			reason = *transcript.Error
		}
		if err := s.failJob(ctx, job, reason); err != nil {
			s.logger.Error("failed to mark polled job failed",
				zap.String("job_id", job.ID.String()),
				zap.Error(err))
		}
	case aai.TranscriptStatusProcessing:
		if job.Status != entities.TranscribeJobStatusProcessing {
			job.Status = entities.TranscribeJobStatusProcessing
			if err := s.jobs.SaveJob(ctx, job); err != nil {
				s.logger.Error("failed to update polled job",
					zap.String("job_id", job.ID.String()),
					zap.Error(err))
			}
		}
	}
}
