package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

func postTranscription(t *testing.T, h *Transcription, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/v1/transcriptions", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Submit(c); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	return rec
}

func TestTranscriptionSubmitFromURL(t *testing.T) {
	h := NewTranscription(&stubTranscriptionService{}, newStubStore(), testConfig(), zap.NewNop())

	rec := postTranscription(t, h, `{"media_url":"https://cdn.example.com/standup.mp3"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			JobID  string `json:"job_id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if _, err := uuid.Parse(resp.Data.JobID); err != nil {
		t.Errorf("job id is not a UUID: %q", resp.Data.JobID)
	}
	if resp.Data.Status != string(entities.TranscribeJobStatusPending) {
		t.Errorf("expected pending status, got %q", resp.Data.Status)
	}
}

func TestTranscriptionSubmitRejectsBothSources(t *testing.T) {
	h := NewTranscription(&stubTranscriptionService{}, newStubStore(), testConfig(), zap.NewNop())

	rec := postTranscription(t, h, `{"media_url":"https://cdn.example.com/a.mp3","media_key":"uploads/a.mp3"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = postTranscription(t, h, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTranscriptionSubmitFromKeyPresigns(t *testing.T) {
	h := NewTranscription(&stubTranscriptionService{}, newStubStore(), testConfig(), zap.NewNop())

	rec := postTranscription(t, h, `{"media_key":"uploads/a.mp3"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTranscriptionGetBadID(t *testing.T) {
	h := NewTranscription(&stubTranscriptionService{}, newStubStore(), testConfig(), zap.NewNop())

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/v1/transcriptions/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	if err := h.Get(c); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTranscriptionGetNotFound(t *testing.T) {
	h := NewTranscription(&stubTranscriptionService{}, newStubStore(), testConfig(), zap.NewNop())

	e := newTestEcho()
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/v1/transcriptions/"+id, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)

	if err := h.Get(c); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
