package http

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/minute/internal/domain"
)

type fakeService struct {
	jobs map[string]*domain.Job

	submitted struct {
		filename string
		content  string
		opts     domain.TranscribeOptions
	}
	submitErr error
}

func newFakeService() *fakeService {
	return &fakeService{jobs: make(map[string]*domain.Job)}
}

func (f *fakeService) Submit(filename string, file io.Reader, opts domain.TranscribeOptions) (*domain.Job, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	data, _ := io.ReadAll(file)
	f.submitted.filename = filename
	f.submitted.content = string(data)
	f.submitted.opts = opts

	job := domain.NewJob(filename, domain.DetectMediaKind(filename), opts)
	f.jobs[job.ID] = job
	return job.Clone(), nil
}

func (f *fakeService) Get(id string) (*domain.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return job.Clone(), nil
}

func (f *fakeService) List(limit int) ([]*domain.Job, int, error) {
	var out []*domain.Job
	for _, job := range f.jobs {
		out = append(out, job.Clone())
	}
	total := len(out)
	if limit < total {
		out = out[:limit]
	}
	return out, total, nil
}

func (f *fakeService) Delete(id string) error {
	if _, ok := f.jobs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.jobs, id)
	return nil
}

func newTestServer(svc TranscriptionService) *Server {
	return NewServer(svc, 10, "en-US", "test")
}

func multipartBody(t *testing.T, filename string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte("media bytes"))
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	return &body, mw.FormDataContentType()
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCreateJob(t *testing.T) {
	svc := newFakeService()
	server := newTestServer(svc)

	body, contentType := multipartBody(t, "meeting.mp4", map[string]string{
		"language_code": "fr-FR",
		"min_speakers":  "3",
		"max_speakers":  "6",
		"keep_audio":    "true",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON(t, rec)
	assert.Equal(t, "queued", resp["status"])
	assert.NotEmpty(t, resp["job_id"])

	assert.Equal(t, "meeting.mp4", svc.submitted.filename)
	assert.Equal(t, "media bytes", svc.submitted.content)
	assert.Equal(t, domain.TranscribeOptions{
		LanguageCode: "fr-FR",
		MinSpeakers:  3,
		MaxSpeakers:  6,
		KeepAudio:    true,
	}, svc.submitted.opts)
}

func TestCreateJob_Defaults(t *testing.T) {
	svc := newFakeService()
	server := newTestServer(svc)

	body, contentType := multipartBody(t, "call.mp3", nil)

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.TranscribeOptions{
		LanguageCode: "en-US",
		MinSpeakers:  2,
		MaxSpeakers:  5,
		KeepAudio:    false,
	}, svc.submitted.opts)
}

func TestCreateJob_UnsupportedFormat(t *testing.T) {
	svc := newFakeService()
	svc.submitErr = domain.ErrUnsupportedFormat
	server := newTestServer(svc)

	body, contentType := multipartBody(t, "report.xyz", nil)

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeJSON(t, rec)["detail"], "unsupported")
}

func TestCreateJob_MissingFile(t *testing.T) {
	server := newTestServer(newFakeService())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("language_code", "en-US"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetJob(t *testing.T) {
	svc := newFakeService()
	server := newTestServer(svc)

	job, err := svc.Submit("call.mp3", bytes.NewReader(nil), domain.TranscribeOptions{})
	require.NoError(t, err)
	svc.jobs[job.ID].MarkAsCompleted("Speaker 1:\nhello world\n\n", "/tmp/out.txt")

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/"+job.ID, nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON(t, rec)
	assert.Equal(t, job.ID, resp["job_id"])
	assert.Equal(t, "completed", resp["status"])
	assert.Equal(t, "Speaker 1:\nhello world\n\n", resp["transcription"])
	assert.NotEmpty(t, resp["completed_at"])
}

func TestGetJob_NotFound(t *testing.T) {
	server := newTestServer(newFakeService())

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/unknown", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListJobs(t *testing.T) {
	svc := newFakeService()
	server := newTestServer(svc)

	for range 3 {
		_, err := svc.Submit("call.mp3", bytes.NewReader(nil), domain.TranscribeOptions{})
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/jobs?limit=2", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON(t, rec)
	assert.Equal(t, float64(3), resp["total"])
	assert.Len(t, resp["jobs"], 2)
}

func TestListJobs_InvalidLimit(t *testing.T) {
	server := newTestServer(newFakeService())

	req := httptest.NewRequest(http.MethodGet, "/api/jobs?limit=potato", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadResult(t *testing.T) {
	svc := newFakeService()
	server := newTestServer(svc)

	resultFile := filepath.Join(t.TempDir(), "result.txt")
	require.NoError(t, os.WriteFile(resultFile, []byte("Speaker 1:\nhello world\n\n"), 0644))

	job, err := svc.Submit("call.mp3", bytes.NewReader(nil), domain.TranscribeOptions{})
	require.NoError(t, err)
	svc.jobs[job.ID].MarkAsCompleted("Speaker 1:\nhello world\n\n", resultFile)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/"+job.ID+"/download", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Speaker 1:\nhello world\n\n", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "call.mp3_transcription.txt")
}

func TestDownloadResult_NotCompleted(t *testing.T) {
	svc := newFakeService()
	server := newTestServer(svc)

	job, err := svc.Submit("call.mp3", bytes.NewReader(nil), domain.TranscribeOptions{})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/"+job.ID+"/download", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadResult_MissingFile(t *testing.T) {
	svc := newFakeService()
	server := newTestServer(svc)

	job, err := svc.Submit("call.mp3", bytes.NewReader(nil), domain.TranscribeOptions{})
	require.NoError(t, err)
	svc.jobs[job.ID].MarkAsCompleted("text", filepath.Join(t.TempDir(), "gone.txt"))

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/"+job.ID+"/download", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteJob(t *testing.T) {
	svc := newFakeService()
	server := newTestServer(svc)

	job, err := svc.Submit("call.mp3", bytes.NewReader(nil), domain.TranscribeOptions{})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/jobs/"+job.ID, nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/jobs/"+job.ID, nil)
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	server := newTestServer(newFakeService())

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON(t, rec)
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "minute", resp["service"])
}
