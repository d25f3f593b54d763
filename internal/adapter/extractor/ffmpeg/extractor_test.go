package ffmpeg

import (
	"errors"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{
			name:    "valid path",
			path:    "/tmp/meeting.mp4",
			wantErr: nil,
		},
		{
			name:    "valid path with spaces",
			path:    "/tmp/team meeting.mp4",
			wantErr: nil,
		},
		{
			name:    "empty path",
			path:    "",
			wantErr: ErrEmptyPath,
		},
		{
			name:    "null byte in path",
			path:    "/tmp/\x00meeting.mp4",
			wantErr: ErrInvalidPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePath(tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validatePath(%q) = %v, want %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestExtract_PathValidation(t *testing.T) {
	e := &Extractor{}

	_, err := e.Extract(t.Context(), "", "mp3")
	if err == nil {
		t.Fatal("Extract() with empty path expected error, got nil")
	}

	_, err = e.Extract(t.Context(), "/tmp/\x00clip.mp4", "mp3")
	if err == nil {
		t.Fatal("Extract() with null byte expected error, got nil")
	}
}

func TestFfmpegError(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   string
	}{
		{
			name:   "empty stderr falls back to exec error",
			stderr: "",
			want:   "exit status 1",
		},
		{
			name:   "short stderr kept whole",
			stderr: "input.mp4: No such file or directory",
			want:   "input.mp4: No such file or directory",
		},
		{
			name:   "long stderr trimmed to tail",
			stderr: "line1\nline2\nline3\nline4\nline5",
			want:   "line3; line4; line5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ffmpegError(tt.stderr, errors.New("exit status 1"))
			if got != tt.want {
				t.Errorf("ffmpegError() = %q, want %q", got, tt.want)
			}
		})
	}
}
