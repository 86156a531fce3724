package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/meetscribe/meetscribe/pkg/config"
)

// stubStore is a minimal in-memory object store for handler tests.
type stubStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newStubStore() *stubStore {
	return &stubStore{objects: make(map[string][]byte)}
}

func (s *stubStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *stubStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objects[key], nil
}

func (s *stubStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *stubStore) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for k := range s.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (s *stubStore) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "http://localhost:9000/media/" + key, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{
			Bucket:     "media",
			PresignTTL: time.Hour,
		},
	}
}

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write file content: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestUploadCreate(t *testing.T) {
	store := newStubStore()
	h := NewUpload(store, testConfig(), zap.NewNop())

	body, contentType := multipartUpload(t, "standup.mp3", []byte("fake audio bytes"))

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/v1/uploads", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Key      string `json:"key"`
			MediaURL string `json:"media_url"`
			Size     int64  `json:"size"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !strings.HasPrefix(resp.Data.Key, "uploads/") || !strings.HasSuffix(resp.Data.Key, ".mp3") {
		t.Errorf("unexpected object key %q", resp.Data.Key)
	}
	if resp.Data.MediaURL == "" {
		t.Error("expected a presigned media URL")
	}

	stored, _ := store.Get(context.Background(), resp.Data.Key)
	if string(stored) != "fake audio bytes" {
		t.Errorf("stored content mismatch: %q", stored)
	}
}

func TestUploadCreateUnsupportedExtension(t *testing.T) {
	h := NewUpload(newStubStore(), testConfig(), zap.NewNop())

	body, contentType := multipartUpload(t, "notes.txt", []byte("plain text"))

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/v1/uploads", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rec.Code)
	}
}

func TestUploadCreateMissingFile(t *testing.T) {
	h := NewUpload(newStubStore(), testConfig(), zap.NewNop())

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/v1/uploads", strings.NewReader(""))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestFilePresign(t *testing.T) {
	h := NewUpload(newStubStore(), testConfig(), zap.NewNop())

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/v1/files/presign?key=uploads/a.mp3", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Presign(c); err != nil {
		t.Fatalf("Presign returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "uploads/a.mp3") {
		t.Errorf("presigned URL missing key: %s", rec.Body.String())
	}
}

func TestFilePresignMissingKey(t *testing.T) {
	h := NewUpload(newStubStore(), testConfig(), zap.NewNop())

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/v1/files/presign", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Presign(c); err != nil {
		t.Fatalf("Presign returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
