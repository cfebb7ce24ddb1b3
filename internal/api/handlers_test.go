package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/kdimtricp/formcheck/internal/database"
	"github.com/kdimtricp/formcheck/internal/models"
	"github.com/kdimtricp/formcheck/internal/session"
	"github.com/kdimtricp/formcheck/internal/storage"
	"github.com/kdimtricp/formcheck/internal/store"
)

type offlineClient struct{}

func (offlineClient) Available() bool { return false }
func (offlineClient) Submit(ctx context.Context, payload []byte, mimeType, prompt, model string) (string, error) {
	return "", nil
}

func setupApp(t *testing.T) (*App, http.Handler) {
	t.Helper()

	db, err := database.NewDB(database.Config{
		Type:       "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	blobs, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	controller := session.NewController(
		store.NewDurableStore(database.NewMediaRepo(db), blobs),
		offlineClient{},
		session.Config{ReprocessDelay: time.Hour},
	)

	app := &App{Controller: controller, MaxUploadSize: 10 << 20}
	return app, NewRouter(app)
}

func multipartCapture(t *testing.T, kind string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("media", "capture.webm")
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	part.Write(payload)
	writer.WriteField("kind", kind)
	writer.Close()

	return &buf, writer.FormDataContentType()
}

func uploadCapture(t *testing.T, router http.Handler, kind string, payload []byte) models.MediaRecord {
	t.Helper()

	body, contentType := multipartCapture(t, kind, payload)
	req := httptest.NewRequest("POST", "/api/captures", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var rec models.MediaRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &rec); err != nil {
		t.Fatalf("Failed to decode record: %v", err)
	}
	return rec
}

func TestCaptureHandler(t *testing.T) {
	_, router := setupApp(t)

	rec := uploadCapture(t, router, "video", []byte("webm payload"))
	if rec.ID == "" {
		t.Error("expected record id")
	}
	if rec.Kind != models.KindVideo {
		t.Errorf("expected video kind, got %s", rec.Kind)
	}
	if rec.StorageKey == "" {
		t.Error("expected storage key after persisted upload")
	}
	if rec.Analysis != nil {
		t.Error("expected no annotation while inference is unconfigured")
	}
}

func TestCaptureHandler_BadRequests(t *testing.T) {
	_, router := setupApp(t)

	t.Run("invalid kind", func(t *testing.T) {
		body, contentType := multipartCapture(t, "audio", []byte("x"))
		req := httptest.NewRequest("POST", "/api/captures", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rr.Code)
		}
	})

	t.Run("missing media field", func(t *testing.T) {
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		writer.WriteField("kind", "video")
		writer.Close()

		req := httptest.NewRequest("POST", "/api/captures", &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rr.Code)
		}
	})
}

func TestListAndGetHandlers(t *testing.T) {
	_, router := setupApp(t)

	first := uploadCapture(t, router, "photo", []byte("jpeg"))

	req := httptest.NewRequest("GET", "/api/captures", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	var list []models.MediaRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("Failed to decode list: %v", err)
	}
	if len(list) != 1 || list[0].ID != first.ID {
		t.Errorf("unexpected list contents: %+v", list)
	}

	req = httptest.NewRequest("GET", "/api/captures/"+first.ID, nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rr.Code)
	}

	req = httptest.NewRequest("GET", "/api/captures/missing", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown id, got %d", rr.Code)
	}
}

func TestStreamMediaHandler_RangeRequests(t *testing.T) {
	_, router := setupApp(t)

	payload := bytes.Repeat([]byte("frame"), 1000)
	rec := uploadCapture(t, router, "video", payload)

	t.Run("full content", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/captures/"+rec.ID+"/media", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rr.Code)
		}
		if rr.Header().Get("Content-Type") != "video/webm" {
			t.Errorf("Expected video/webm, got %s", rr.Header().Get("Content-Type"))
		}
		if !bytes.Equal(rr.Body.Bytes(), payload) {
			t.Error("payload mismatch")
		}
	})

	t.Run("range request", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/captures/"+rec.ID+"/media", nil)
		req.Header.Set("Range", "bytes=0-1023")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		if rr.Code != http.StatusPartialContent {
			t.Fatalf("Expected 206, got %d", rr.Code)
		}
		if rr.Body.Len() != 1024 {
			t.Errorf("Expected 1024 bytes, got %d", rr.Body.Len())
		}
	})
}

func TestDeleteAndClearHandlers(t *testing.T) {
	_, router := setupApp(t)

	rec := uploadCapture(t, router, "photo", []byte("jpeg"))

	req := httptest.NewRequest("DELETE", "/api/captures/"+rec.ID, nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rr.Code)
	}

	req = httptest.NewRequest("GET", "/api/captures/"+rec.ID, nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", rr.Code)
	}

	uploadCapture(t, router, "photo", []byte("a"))
	uploadCapture(t, router, "video", []byte("b"))

	req = httptest.NewRequest("DELETE", "/api/captures", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rr.Code)
	}

	req = httptest.NewRequest("GET", "/api/captures", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	var list []models.MediaRecord
	json.Unmarshal(rr.Body.Bytes(), &list)
	if len(list) != 0 {
		t.Errorf("Expected empty list after clear, got %d", len(list))
	}
}

func TestReprocessHandler(t *testing.T) {
	_, router := setupApp(t)

	req := httptest.NewRequest("POST", "/api/captures/reprocess", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	var result map[string]int
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if result["updated"] != 0 {
		t.Errorf("Expected 0 updated, got %d", result["updated"])
	}
}
