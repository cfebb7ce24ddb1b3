package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kdimtricp/formcheck/internal/models"
	"github.com/kdimtricp/formcheck/internal/session"
)

type App struct {
	Controller    *session.Controller
	MaxUploadSize int64
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

// CaptureHandler accepts one captured artifact from the browser client as
// multipart form data: the bytes under "media" and the kind under "kind".
func (app *App) CaptureHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, app.MaxUploadSize)

	if err := r.ParseMultipartForm(app.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "Upload too large")
		return
	}

	file, _, err := r.FormFile("media")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing media field")
		return
	}
	defer file.Close()

	kind := models.MediaKind(r.FormValue("kind"))
	if !kind.Valid() {
		respondError(w, http.StatusBadRequest, "Kind must be photo or video")
		return
	}

	payload, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read media")
		return
	}
	if len(payload) == 0 {
		respondError(w, http.StatusBadRequest, "Empty media payload")
		return
	}

	rec := app.Controller.CreateFromPayload(payload, kind)
	app.Controller.Add(r.Context(), rec)

	stored, _ := app.Controller.Get(rec.ID)
	respondJSON(w, http.StatusCreated, stored)
}

func (app *App) ListCapturesHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, app.Controller.List())
}

func (app *App) GetCaptureHandler(w http.ResponseWriter, r *http.Request) {
	rec, ok := app.Controller.Get(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "Capture not found")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

// StreamMediaHandler serves the raw payload. ServeContent handles Range
// requests, which video playback relies on for seeking.
func (app *App) StreamMediaHandler(w http.ResponseWriter, r *http.Request) {
	rec, ok := app.Controller.Get(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "Capture not found")
		return
	}
	if len(rec.Payload) == 0 {
		respondError(w, http.StatusNotFound, "Payload unavailable")
		return
	}

	w.Header().Set("Content-Type", rec.Kind.MimeType())
	http.ServeContent(w, r, rec.DisplayName, rec.CreatedAt, bytes.NewReader(rec.Payload))
}

func (app *App) DeleteCaptureHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := app.Controller.Get(id); !ok {
		respondError(w, http.StatusNotFound, "Capture not found")
		return
	}
	app.Controller.Remove(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

func (app *App) ClearCapturesHandler(w http.ResponseWriter, r *http.Request) {
	app.Controller.ClearAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (app *App) ReprocessHandler(w http.ResponseWriter, r *http.Request) {
	updated := app.Controller.ReprocessUnparsed(r.Context())
	respondJSON(w, http.StatusOK, map[string]int{"updated": updated})
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
