package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/bnema/minute/internal/adapter/http/validation"
	"github.com/bnema/minute/internal/domain"
	"github.com/bnema/minute/internal/infrastructure/logger"
)

// TranscriptionService is the slice of the orchestrator the handlers use.
type TranscriptionService interface {
	Submit(filename string, file io.Reader, opts domain.TranscribeOptions) (*domain.Job, error)
	Get(id string) (*domain.Job, error)
	List(limit int) ([]*domain.Job, int, error)
	Delete(id string) error
}

type Handlers struct {
	svc             TranscriptionService
	maxSizeMB       int
	defaultLanguage string
	version         string
}

func NewHandlers(svc TranscriptionService, maxSizeMB int, defaultLanguage, version string) *Handlers {
	return &Handlers{
		svc:             svc,
		maxSizeMB:       maxSizeMB,
		defaultLanguage: defaultLanguage,
		version:         version,
	}
}

func (h *Handlers) CreateJob() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		maxBytes := int64(h.maxSizeMB) * 1024 * 1024
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		if err := r.ParseMultipartForm(maxBytes); err != nil {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "Missing file field")
			return
		}
		defer file.Close() //nolint:errcheck

		opts := domain.TranscribeOptions{
			LanguageCode: formValue(r, "language_code", h.defaultLanguage),
			MinSpeakers:  formInt(r, "min_speakers", 2),
			MaxSpeakers:  formInt(r, "max_speakers", 5),
			KeepAudio:    formBool(r, "keep_audio"),
		}

		job, err := h.svc.Submit(header.Filename, file, opts)
		if err != nil {
			if errors.Is(err, domain.ErrUnsupportedFormat) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			logger.Error.Printf("submit failed for %s: %v", logger.SanitizeForLog(header.Filename), err)
			writeError(w, http.StatusInternalServerError, "Failed to create transcription job")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"job_id":  job.ID,
			"message": "Transcription job created successfully",
			"status":  job.Status,
		})
	}
}

func (h *Handlers) GetJob() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := h.svc.Get(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "Job not found")
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

func (h *Handlers) ListJobs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 10
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, "Invalid limit")
				return
			}
			limit = n
		}

		jobs, total, err := h.svc.List(limit)
		if err != nil {
			logger.Error.Printf("list jobs failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to list jobs")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"jobs":  jobs,
			"total": total,
		})
	}
}

func (h *Handlers) DownloadResult() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := h.svc.Get(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "Job not found")
			return
		}

		if job.Status != domain.JobStatusCompleted {
			writeError(w, http.StatusNotFound, "Transcription not completed yet")
			return
		}

		if job.ResultFile == "" {
			writeError(w, http.StatusNotFound, "Result file not found")
			return
		}
		if _, err := os.Stat(job.ResultFile); err != nil {
			writeError(w, http.StatusNotFound, "Result file not found on disk")
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", validation.AttachmentDisposition(job.Filename+"_transcription.txt"))
		http.ServeFile(w, r, job.ResultFile)
	}
}

func (h *Handlers) DeleteJob() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.svc.Delete(r.PathValue("id")); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Job not found")
				return
			}
			logger.Error.Printf("delete failed: %v", err)
			writeError(w, http.StatusInternalServerError, "Delete failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "Job deleted successfully"})
	}
}

func (h *Handlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "healthy",
			"service": "minute",
			"version": h.version,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func formValue(r *http.Request, key, fallback string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return fallback
}

func formInt(r *http.Request, key string, fallback int) int {
	n, err := strconv.Atoi(r.FormValue(key))
	if err != nil {
		return fallback
	}
	return n
}

func formBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.FormValue(key))
	if err != nil {
		return false
	}
	return v
}
