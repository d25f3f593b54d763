package domain

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// TranscribeOptions carries the per-job recognition parameters.
type TranscribeOptions struct {
	LanguageCode string
	MinSpeakers  int
	MaxSpeakers  int
	KeepAudio    bool
}

type Job struct {
	ID            string            `json:"job_id"`
	Status        JobStatus         `json:"status"`
	Progress      string            `json:"progress"`
	Filename      string            `json:"filename"`
	Kind          MediaKind         `json:"file_type"`
	UploadPath    string            `json:"-"`
	Options       TranscribeOptions `json:"-"`
	Transcription string            `json:"transcription,omitempty"`
	ResultFile    string            `json:"result_file,omitempty"`
	ErrorMessage  string            `json:"error,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty"`
}

func NewJob(filename string, kind MediaKind, opts TranscribeOptions) *Job {
	return &Job{
		ID:        uuid.NewString(),
		Status:    JobStatusQueued,
		Progress:  "File uploaded, queued for processing",
		Filename:  filename,
		Kind:      kind,
		Options:   opts,
		CreatedAt: time.Now(),
	}
}

// IsTerminal reports whether the job can no longer change status.
func (j *Job) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

func (j *Job) MarkAsCompleted(transcription, resultFile string) {
	j.Status = JobStatusCompleted
	j.Progress = "Transcription completed successfully"
	j.Transcription = transcription
	j.ResultFile = resultFile
	now := time.Now()
	j.CompletedAt = &now
}

func (j *Job) MarkAsFailed(err error) {
	j.Status = JobStatusFailed
	j.Progress = "Error: " + err.Error()
	j.ErrorMessage = err.Error()
	now := time.Now()
	j.CompletedAt = &now
}

// Clone returns a copy safe to hand out to readers while the pipeline
// keeps mutating the stored record.
func (j *Job) Clone() *Job {
	c := *j
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}
