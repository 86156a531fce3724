package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
	"github.com/meetscribe/meetscribe/internal/usecase/transcription"
)

// stubTranscriptionService returns canned webhook outcomes.
type stubTranscriptionService struct {
	webhookErr    error
	lastSignature string
	lastPayload   []byte
}

func (s *stubTranscriptionService) SubmitJob(ctx context.Context, mediaURI string) (*entities.TranscribeJob, error) {
	return entities.NewTranscribeJob(mediaURI), nil
}

func (s *stubTranscriptionService) GetJob(ctx context.Context, id uuid.UUID) (*entities.TranscribeJob, error) {
	return nil, entities.ErrJobNotFound
}

func (s *stubTranscriptionService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	s.lastPayload = payload
	s.lastSignature = signature
	return s.webhookErr
}

func (s *stubTranscriptionService) StartWorkerPool(ctx context.Context, workerCount int) error {
	return nil
}

func (s *stubTranscriptionService) StopWorkerPool() error {
	return nil
}

func postWebhook(t *testing.T, svc transcription.Service, body, secret string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewWebhook(svc, zap.NewNop())

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/assemblyai", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("X-Webhook-Secret", secret)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.AssemblyAI(c); err != nil {
		t.Fatalf("AssemblyAI returned error: %v", err)
	}
	return rec
}

func TestWebhookAck(t *testing.T) {
	svc := &stubTranscriptionService{}
	rec := postWebhook(t, svc, `{"transcript_id":"abc","status":"completed"}`, "s3cret")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastSignature != "s3cret" {
		t.Errorf("signature not forwarded, got %q", svc.lastSignature)
	}
	if !strings.Contains(string(svc.lastPayload), "abc") {
		t.Errorf("payload not forwarded: %s", svc.lastPayload)
	}
}

func TestWebhookInvalidSignature(t *testing.T) {
	svc := &stubTranscriptionService{webhookErr: transcription.ErrInvalidSignature}
	rec := postWebhook(t, svc, `{"transcript_id":"abc","status":"completed"}`, "wrong")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestWebhookUnknownJobStillAcked(t *testing.T) {
	svc := &stubTranscriptionService{webhookErr: fmt.Errorf("no job for transcript abc")}
	rec := postWebhook(t, svc, `{"transcript_id":"abc","status":"completed"}`, "s3cret")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 ack, got %d", rec.Code)
	}
}
