package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/minute/internal/domain"
	"github.com/bnema/minute/internal/infrastructure/logger"
	"github.com/bnema/minute/internal/port"
)

// Transcriber is what the pipeline needs from the remote transcription
// round trip.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, opts domain.TranscribeOptions) (string, error)
}

// TranscriptionService owns the job table and runs one pipeline goroutine
// per submitted job. All status reads and writes go through the store; the
// goroutines share nothing else.
type TranscriptionService struct {
	jobs        port.JobStore
	extractor   port.AudioExtractor
	transcriber Transcriber
	uploadDir   string
	resultsDir  string

	wg sync.WaitGroup
}

func NewTranscriptionService(jobs port.JobStore, extractor port.AudioExtractor, transcriber Transcriber, dataDir string) *TranscriptionService {
	return &TranscriptionService{
		jobs:        jobs,
		extractor:   extractor,
		transcriber: transcriber,
		uploadDir:   filepath.Join(dataDir, "uploads"),
		resultsDir:  filepath.Join(dataDir, "results"),
	}
}

// Submit stages the upload, records the job as queued and kicks off its
// pipeline goroutine. It returns as soon as the row exists; everything slow
// happens in the background.
func (s *TranscriptionService) Submit(filename string, file io.Reader, opts domain.TranscribeOptions) (*domain.Job, error) {
	kind := domain.DetectMediaKind(filename)
	if kind == domain.MediaKindUnknown {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(filename))
	}

	job := domain.NewJob(filename, kind, opts)

	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	uploadPath := filepath.Join(s.uploadDir, job.ID+filepath.Ext(filename))
	dst, err := os.Create(uploadPath)
	if err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}
	if _, err := io.Copy(dst, file); err != nil {
		_ = dst.Close()
		removeFile(uploadPath)
		return nil, fmt.Errorf("stage upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		removeFile(uploadPath)
		return nil, fmt.Errorf("stage upload: %w", err)
	}
	job.UploadPath = uploadPath

	if err := s.jobs.Insert(job); err != nil {
		removeFile(uploadPath)
		return nil, fmt.Errorf("insert job: %w", err)
	}

	logger.Info.Printf("job %s queued: filename=%s, type=%s, language=%s, speakers=%d-%d",
		job.ID, logger.SanitizeForLog(filename), kind, opts.LanguageCode, opts.MinSpeakers, opts.MaxSpeakers)

	s.wg.Add(1)
	go s.process(job.Clone())

	return job.Clone(), nil
}

// process is the background unit for one job. The recover guard is what
// keeps a buggy stage from leaving the job in processing forever.
func (s *TranscriptionService) process(job *domain.Job) {
	defer s.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			logger.Error.Printf("job %s: pipeline panic: %v", job.ID, r)
			_ = s.jobs.MarkFailed(job.ID, fmt.Errorf("internal error: %v", r))
		}
	}()

	if err := s.runPipeline(context.Background(), job); err != nil {
		logger.Error.Printf("job %s failed: %v", job.ID, err)
		// MarkFailed on a job deleted mid-flight returns ErrNotFound; the
		// result is simply discarded.
		_ = s.jobs.MarkFailed(job.ID, err)
	}
}

func (s *TranscriptionService) runPipeline(ctx context.Context, job *domain.Job) error {
	if err := s.jobs.MarkProcessing(job.ID, "Analyzing file..."); err != nil {
		return nil // deleted before the pipeline started
	}

	needsExtraction := job.Kind == domain.MediaKindVideo

	if probe, err := s.extractor.Probe(ctx, job.UploadPath); err == nil {
		logger.Info.Printf("job %s: input duration %s, %d stream(s)",
			job.ID, domain.FormatDuration(probe.DurationSeconds()), len(probe.Streams))
		if a := probe.AudioStream(); a != nil {
			logger.Debug.Printf("job %s: audio stream %s, %s Hz, %d channel(s)",
				job.ID, a.CodecName, a.SampleRate, a.Channels)
		}
		// A video extension on an audio-only container has nothing to strip.
		if needsExtraction && !probe.HasVideoStream() {
			needsExtraction = false
		}
	}

	audioPath := job.UploadPath
	extractedAudio := false

	if needsExtraction {
		_ = s.jobs.SetProgress(job.ID, "Extracting audio from video...")
		extracted, err := s.extractor.Extract(ctx, job.UploadPath, "mp3")
		if err != nil {
			return err
		}
		audioPath = extracted
		extractedAudio = true
	} else {
		_ = s.jobs.SetProgress(job.ID, "Processing audio file...")
	}

	_ = s.jobs.SetProgress(job.ID, "Transcribing with speaker diarization...")
	transcription, err := s.transcriber.Transcribe(ctx, audioPath, job.Options)
	if err != nil {
		return err
	}

	resultPath, err := s.writeResult(job.ID, transcription)
	if err != nil {
		return err
	}

	if extractedAudio && !job.Options.KeepAudio {
		removeFile(audioPath)
	}
	removeFile(job.UploadPath)

	if err := s.jobs.MarkCompleted(job.ID, transcription, resultPath); err != nil {
		// Deleted while transcribing; drop the orphaned result file.
		removeFile(resultPath)
		return nil
	}

	logger.Info.Printf("job %s completed", job.ID)
	return nil
}

func (s *TranscriptionService) writeResult(jobID, transcription string) (string, error) {
	if err := os.MkdirAll(s.resultsDir, 0755); err != nil {
		return "", fmt.Errorf("create results directory: %w", err)
	}

	resultPath := filepath.Join(s.resultsDir, jobID+"_transcription.txt")
	if err := os.WriteFile(resultPath, []byte(transcription), 0644); err != nil {
		return "", fmt.Errorf("write result file: %w", err)
	}
	return resultPath, nil
}

func (s *TranscriptionService) Get(id string) (*domain.Job, error) {
	return s.jobs.Get(id)
}

func (s *TranscriptionService) List(limit int) ([]*domain.Job, int, error) {
	return s.jobs.List(limit)
}

// Delete removes the job row and its files. An in-flight pipeline is not
// interrupted; its later store updates hit ErrNotFound and are dropped.
func (s *TranscriptionService) Delete(id string) error {
	job, err := s.jobs.Get(id)
	if err != nil {
		return err
	}

	if err := s.jobs.Delete(id); err != nil {
		return err
	}

	removeFile(job.UploadPath)
	removeFile(job.ResultFile)

	logger.Info.Printf("job %s deleted", id)
	return nil
}

// Drain waits for in-flight pipelines to finish, up to the context
// deadline. Used at shutdown; jobs are not durable, so anything still
// running past the deadline is simply lost.
func (s *TranscriptionService) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// removeFile is best-effort cleanup: a leftover scratch file must never fail
// a job that otherwise succeeded.
func removeFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn.Printf("cleanup failed for %s: %v", path, err)
	}
}
