package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bnema/minute/internal/domain"
	"github.com/bnema/minute/internal/port"
)

var (
	ErrEmptyPath   = errors.New("path is empty")
	ErrInvalidPath = errors.New("path contains invalid characters")
)

// audioCodecs maps output formats to the ffmpeg encoder to use.
var audioCodecs = map[string]string{
	"mp3":  "libmp3lame",
	"wav":  "pcm_s16le",
	"flac": "flac",
	"aac":  "aac",
	"m4a":  "aac",
	"ogg":  "libvorbis",
}

type Extractor struct{}

func NewExtractor() port.AudioExtractor {
	return &Extractor{}
}

// Extract strips the video stream and encodes the audio mono at 16 kHz,
// which is plenty for speech recognition. The output path is the input path
// with its extension swapped for the target format, and -y makes re-runs
// overwrite it.
func (e *Extractor) Extract(ctx context.Context, videoPath, format string) (string, error) {
	if err := validatePath(videoPath); err != nil {
		return "", fmt.Errorf("invalid input path: %w", err)
	}

	codec, ok := audioCodecs[strings.ToLower(format)]
	if !ok {
		codec = "libmp3lame"
		format = "mp3"
	}

	outputPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + "." + format

	args := []string{
		"-i", videoPath,
		"-vn",
		"-acodec", codec,
		"-ab", "96k",
		"-ar", "16000",
		"-ac", "1",
		"-y",
		outputPath,
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrExtractionFailed, ffmpegError(stderr.String(), err))
	}

	return outputPath, nil
}

func (e *Extractor) Probe(ctx context.Context, path string) (*domain.ProbeResult, error) {
	if err := validatePath(path); err != nil {
		return nil, fmt.Errorf("invalid input path: %w", err)
	}

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}

	cmd := exec.CommandContext(ctx, "ffprobe", args...)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var result domain.ProbeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	return &result, nil
}

// ffmpegError condenses ffmpeg's chatty stderr into the tail lines that
// actually name the failure.
func ffmpegError(stderr string, err error) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return err.Error()
	}
	if len(lines) > 3 {
		lines = lines[len(lines)-3:]
	}
	return strings.Join(lines, "; ")
}

func validatePath(path string) error {
	if path == "" {
		return ErrEmptyPath
	}
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}
	return nil
}

var _ port.AudioExtractor = (*Extractor)(nil)
