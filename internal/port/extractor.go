package port

import (
	"context"

	"github.com/bnema/minute/internal/domain"
)

type AudioExtractor interface {
	// Extract converts a video container into a standalone audio file in the
	// given format, returning the output path. The output path is a pure
	// function of the input path and format, so re-running overwrites.
	Extract(ctx context.Context, videoPath, format string) (string, error)

	Probe(ctx context.Context, path string) (*domain.ProbeResult, error)
}
