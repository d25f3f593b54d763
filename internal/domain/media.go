package domain

import (
	"path/filepath"
	"strings"
)

type MediaKind string

const (
	MediaKindVideo   MediaKind = "video"
	MediaKindAudio   MediaKind = "audio"
	MediaKindUnknown MediaKind = "unknown"
)

var videoExts = map[string]bool{
	".mp4": true, ".avi": true, ".mov": true, ".mkv": true,
	".flv": true, ".wmv": true, ".webm": true, ".m4v": true,
	".mpg": true, ".mpeg": true, ".3gp": true, ".ogv": true,
}

var audioExts = map[string]bool{
	".mp3": true, ".wav": true, ".flac": true, ".m4a": true,
	".aac": true, ".ogg": true, ".wma": true, ".opus": true,
	".amr": true,
}

// DetectMediaKind classifies a filename by extension. Anything outside the
// allow-lists is MediaKindUnknown and must be rejected at submission.
func DetectMediaKind(filename string) MediaKind {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case videoExts[ext]:
		return MediaKindVideo
	case audioExts[ext]:
		return MediaKindAudio
	default:
		return MediaKindUnknown
	}
}
