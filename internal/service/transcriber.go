package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bnema/minute/internal/domain"
	"github.com/bnema/minute/internal/infrastructure/logger"
	"github.com/bnema/minute/internal/port"
)

// RemoteTranscriber drives one batch recognition round trip: upload the
// audio, start the remote operation, poll until terminal, then download and
// format the results.
type RemoteTranscriber struct {
	objects      port.ObjectStore
	recognizer   port.Recognizer
	pollInterval time.Duration
	maxWait      time.Duration
}

func NewRemoteTranscriber(objects port.ObjectStore, recognizer port.Recognizer, pollInterval, maxWait time.Duration) *RemoteTranscriber {
	return &RemoteTranscriber{
		objects:      objects,
		recognizer:   recognizer,
		pollInterval: pollInterval,
		maxWait:      maxWait,
	}
}

func (t *RemoteTranscriber) Transcribe(ctx context.Context, audioPath string, opts domain.TranscribeOptions) (string, error) {
	// Timestamped keys keep concurrent jobs from clobbering each other in
	// the shared bucket.
	timestamp := time.Now().Unix()
	base := filepath.Base(audioPath)
	audioKey := fmt.Sprintf("audio-files/%d_%s", timestamp, base)
	outputPrefix := fmt.Sprintf("transcripts/%d_%s", timestamp, strings.TrimSuffix(base, filepath.Ext(base)))

	audioURI, err := t.objects.Upload(ctx, audioPath, audioKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	logger.Info.Printf("uploaded audio to %s", audioURI)

	operation, err := t.recognizer.Start(ctx, audioURI, t.objects.URI(outputPrefix), opts)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrRecognitionFailed, err)
	}
	logger.Info.Printf("batch recognition started: %s", operation)

	if err := t.awaitCompletion(ctx, operation); err != nil {
		return "", err
	}

	return t.fetchAndFormat(ctx, outputPrefix)
}

// awaitCompletion polls the operation at a fixed interval until it reports
// done or the deadline passes. The deadline only abandons the job locally;
// the remote operation keeps running on Google's side.
func (t *RemoteTranscriber) awaitCompletion(ctx context.Context, operation string) error {
	deadline := time.Now().Add(t.maxWait)

	for {
		done, err := t.recognizer.Poll(ctx, operation)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrRecognitionFailed, err)
		}
		if done {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: operation %s still running after %s", domain.ErrTimeout, operation, t.maxWait)
		}

		select {
		case <-time.After(t.pollInterval):
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", domain.ErrRecognitionFailed, ctx.Err())
		}
	}
}

func (t *RemoteTranscriber) fetchAndFormat(ctx context.Context, outputPrefix string) (string, error) {
	keys, err := t.objects.List(ctx, outputPrefix)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrParseFailed, err)
	}

	var segments []domain.Segment
	for _, key := range keys {
		if !strings.HasSuffix(key, ".json") {
			continue
		}
		data, err := t.objects.Download(ctx, key)
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrParseFailed, err)
		}
		segs, err := t.recognizer.ParseResult(data)
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrParseFailed, err)
		}
		segments = append(segments, segs...)
	}

	return domain.FormatTranscript(segments), nil
}
