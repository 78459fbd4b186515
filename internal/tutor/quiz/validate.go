package quiz

import (
	"fmt"
	"strings"

	"github.com/edumentor/edumentor/internal/domain/commonModels"
)

// ValidateItem enforces the structural rules a quiz item must satisfy before
// it is ever shown to a learner. retrieved is the set of chunk ids the item
// was generated from; grounding outside that set means the model invented it.
func ValidateItem(item commonModels.QuizItem, retrieved map[string]bool) error {
	if strings.TrimSpace(item.Prompt) == "" {
		return fmt.Errorf("empty prompt")
	}
	if strings.TrimSpace(item.AnswerKey) == "" {
		return fmt.Errorf("empty answer key")
	}

	switch item.Type {
	case commonModels.QuizItemMCQ:
		if err := validateOptions(item); err != nil {
			return err
		}
	case commonModels.QuizItemShortAnswer:
		if len(item.Options) != 0 {
			return fmt.Errorf("short answer item carries options")
		}
	default:
		return fmt.Errorf("unknown item type %q", item.Type)
	}

	if len(item.GroundingChunkIds) == 0 {
		return fmt.Errorf("item has no grounding")
	}
	for _, id := range item.GroundingChunkIds {
		if !retrieved[id] {
			return fmt.Errorf("grounding id %q not in retrieved set", id)
		}
	}
	return nil
}

func validateOptions(item commonModels.QuizItem) error {
	if len(item.Options) < 2 {
		return fmt.Errorf("MCQ needs at least two options, got %d", len(item.Options))
	}

	seen := make(map[string]bool)
	keyMatches := 0
	for _, opt := range item.Options {
		norm := strings.TrimSpace(opt)
		if norm == "" {
			return fmt.Errorf("blank option")
		}
		if seen[norm] {
			return fmt.Errorf("duplicate option %q", norm)
		}
		seen[norm] = true
		if norm == strings.TrimSpace(item.AnswerKey) {
			keyMatches++
		}
	}
	if keyMatches != 1 {
		return fmt.Errorf("answer key must match exactly one option, matched %d", keyMatches)
	}
	return nil
}
