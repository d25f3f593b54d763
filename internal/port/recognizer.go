package port

import (
	"context"

	"github.com/bnema/minute/internal/domain"
)

type Recognizer interface {
	// Start submits a long-running batch recognition request for the audio
	// at audioURI, writing structured results under outputURI. It returns an
	// opaque operation name usable with Poll.
	Start(ctx context.Context, audioURI, outputURI string, opts domain.TranscribeOptions) (string, error)

	// Poll reports whether the operation has reached a terminal state.
	Poll(ctx context.Context, operation string) (bool, error)

	// ParseResult decodes one structured result document into
	// speaker-labeled segments in chronological order.
	ParseResult(data []byte) ([]domain.Segment, error)
}
