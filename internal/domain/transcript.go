package domain

import "strings"

// Segment is one run of words attributed to a single speaker, in
// chronological order.
type Segment struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// FormatTranscript renders speaker-labeled segments as plain text, merging
// consecutive segments from the same speaker into one block:
//
//	Speaker 1:
//	hello world
//
// Words without a diarization label fall back to "Speaker 1".
func FormatTranscript(segments []Segment) string {
	merged := MergeSegments(segments)
	if len(merged) == 0 {
		return "No transcription results found."
	}

	var sb strings.Builder
	for _, seg := range merged {
		speaker := seg.Speaker
		if speaker == "" {
			speaker = "1"
		}
		sb.WriteString("Speaker ")
		sb.WriteString(speaker)
		sb.WriteString(":\n")
		sb.WriteString(seg.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// MergeSegments collapses adjacent segments that share a speaker.
func MergeSegments(segments []Segment) []Segment {
	var merged []Segment
	for _, seg := range segments {
		if seg.Text == "" {
			continue
		}
		if n := len(merged); n > 0 && merged[n-1].Speaker == seg.Speaker {
			merged[n-1].Text += " " + seg.Text
			continue
		}
		merged = append(merged, seg)
	}
	return merged
}
