// Package google adapts the Speech-to-Text V2 batch API to the Recognizer
// port. Recognition runs against the chirp_3 model with speaker diarization
// and writes structured results to Cloud Storage.
package google

import (
	"context"
	"fmt"

	speech "cloud.google.com/go/speech/apiv2"
	"cloud.google.com/go/speech/apiv2/speechpb"
	"google.golang.org/api/option"

	"github.com/bnema/minute/internal/domain"
	"github.com/bnema/minute/internal/port"
)

const model = "chirp_3"

type Recognizer struct {
	client    *speech.Client
	projectID string
	location  string
}

func NewRecognizer(ctx context.Context, projectID, location, endpoint string) (*Recognizer, error) {
	client, err := speech.NewClient(ctx, option.WithEndpoint(endpoint))
	if err != nil {
		return nil, fmt.Errorf("create speech client: %w", err)
	}

	return &Recognizer{
		client:    client,
		projectID: projectID,
		location:  location,
	}, nil
}

func (r *Recognizer) Start(ctx context.Context, audioURI, outputURI string, opts domain.TranscribeOptions) (string, error) {
	req := &speechpb.BatchRecognizeRequest{
		Recognizer: fmt.Sprintf("projects/%s/locations/%s/recognizers/_", r.projectID, r.location),
		Config: &speechpb.RecognitionConfig{
			DecodingConfig: &speechpb.RecognitionConfig_AutoDecodingConfig{
				AutoDecodingConfig: &speechpb.AutoDetectDecodingConfig{},
			},
			Model:         model,
			LanguageCodes: []string{opts.LanguageCode},
			Features: &speechpb.RecognitionFeatures{
				EnableAutomaticPunctuation: true,
				DiarizationConfig: &speechpb.SpeakerDiarizationConfig{
					MinSpeakerCount: int32(opts.MinSpeakers),
					MaxSpeakerCount: int32(opts.MaxSpeakers),
				},
			},
		},
		Files: []*speechpb.BatchRecognizeFileMetadata{
			{
				AudioSource: &speechpb.BatchRecognizeFileMetadata_Uri{Uri: audioURI},
			},
		},
		RecognitionOutputConfig: &speechpb.RecognitionOutputConfig{
			Output: &speechpb.RecognitionOutputConfig_GcsOutputConfig{
				GcsOutputConfig: &speechpb.GcsOutputConfig{Uri: outputURI},
			},
		},
	}

	op, err := r.client.BatchRecognize(ctx, req)
	if err != nil {
		return "", fmt.Errorf("batch recognize %s: %w", audioURI, err)
	}

	return op.Name(), nil
}

func (r *Recognizer) Poll(ctx context.Context, operation string) (bool, error) {
	op := r.client.BatchRecognizeOperation(operation)
	if _, err := op.Poll(ctx); err != nil {
		return false, fmt.Errorf("poll %s: %w", operation, err)
	}
	return op.Done(), nil
}

func (r *Recognizer) Close() error {
	return r.client.Close()
}

var _ port.Recognizer = (*Recognizer)(nil)
