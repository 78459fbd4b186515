package answer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/edumentor/edumentor/internal/domain/errs"
)

// Payload is the structured shape the model is asked to produce.
type Payload struct {
	Answer        string   `json:"answer"`
	CitedChunkIds []string `json:"cited_chunk_ids"`
	FollowUps     []string `json:"follow_ups"`
}

// ParsePayload decodes a model completion into a Payload. Models routinely
// wrap JSON in markdown fences, so those are stripped before decoding.
func ParsePayload(raw string) (Payload, error) {
	var p Payload

	cleaned := StripCodeFence(raw)
	if err := json.Unmarshal([]byte(cleaned), &p); err != nil {
		return p, fmt.Errorf("%w: %v", errs.ErrMalformedOutput, err)
	}
	if strings.TrimSpace(p.Answer) == "" {
		return p, fmt.Errorf("%w: empty answer field", errs.ErrMalformedOutput)
	}
	return p, nil
}

// StripCodeFence removes a surrounding ```json ... ``` (or bare ```) fence.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// drop the language tag line
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
