package scorer

import (
	"encoding/json"
	"fmt"
	"strings"

	"cfpscout/internal/domain/entity"
	"cfpscout/internal/utils/text"
)

// parseReply extracts the score and justification from a model reply.
// The reply is expected to be a JSON object with keys "score" and
// "justification"; a surrounding markdown code fence or prose is tolerated
// by locating the outermost object. Anything else is a scoring failure for
// that record.
func parseReply(raw string) (*entity.Relevance, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("reply contains no JSON object: %q", truncateForError(raw))
	}

	var payload struct {
		Score         json.Number `json:"score"`
		Justification string      `json:"justification"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return nil, fmt.Errorf("decode reply JSON: %w", err)
	}

	if payload.Score == "" {
		return nil, fmt.Errorf("reply is missing the score key")
	}

	score, err := payload.Score.Int64()
	if err != nil {
		// Some models answer with "8.0" for an integer scale.
		f, ferr := payload.Score.Float64()
		if ferr != nil || f != float64(int64(f)) {
			return nil, fmt.Errorf("score %q is not an integer", payload.Score.String())
		}
		score = int64(f)
	}

	return &entity.Relevance{
		Score:         int(score),
		Justification: strings.TrimSpace(payload.Justification),
	}, nil
}

// truncateForError keeps error messages readable when a model replies with
// a long non-JSON answer.
func truncateForError(raw string) string {
	return text.Truncate(raw, 120, "...")
}
