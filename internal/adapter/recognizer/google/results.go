package google

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bnema/minute/internal/domain"
)

// batchResult mirrors the JSON documents BatchRecognize writes to the output
// bucket. Only the fields the transcript needs are decoded.
type batchResult struct {
	Results []struct {
		Alternatives []struct {
			Words []resultWord `json:"words"`
		} `json:"alternatives"`
	} `json:"results"`
}

type resultWord struct {
	Word string `json:"word"`
	// chirp models emit speakerLabel; older configs emit numeric speakerTag.
	SpeakerLabel string      `json:"speakerLabel"`
	SpeakerTag   json.Number `json:"speakerTag"`
}

func (w resultWord) speaker() string {
	if w.SpeakerLabel != "" {
		return w.SpeakerLabel
	}
	return w.SpeakerTag.String()
}

// ParseResult walks the first alternative of each result and groups
// consecutive words by speaker. Words without any speaker attribution land
// under speaker "1".
func (r *Recognizer) ParseResult(data []byte) ([]domain.Segment, error) {
	var result batchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode batch result: %w", err)
	}

	var segments []domain.Segment
	for _, res := range result.Results {
		if len(res.Alternatives) == 0 {
			continue
		}

		current := ""
		var words []string
		for _, w := range res.Alternatives[0].Words {
			speaker := w.speaker()
			if speaker == "" {
				speaker = "1"
			}
			if speaker != current {
				if len(words) > 0 {
					segments = append(segments, domain.Segment{Speaker: current, Text: strings.Join(words, " ")})
				}
				current = speaker
				words = words[:0]
			}
			if w.Word != "" {
				words = append(words, w.Word)
			}
		}
		if len(words) > 0 {
			segments = append(segments, domain.Segment{Speaker: current, Text: strings.Join(words, " ")})
		}
	}

	return segments, nil
}
