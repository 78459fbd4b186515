package personalize

import (
	"fmt"
	"strings"

	"github.com/edumentor/edumentor/internal/config"
	"github.com/edumentor/edumentor/internal/domain/commonModels"
)

// Directives describe how an answer should be shaped for one learner. They
// are data, not prose: the composer renders them into prompt rules so the
// mapping from profile to instruction stays testable.
type Directives struct {
	VocabularyTier string
	Background     bool
	WorkedExamples bool
	Concise        bool
	Reinforce      []string
	Verbosity      string
	ExplainSimply  bool
}

// Adapt is a total function over the known skill levels. Unknown levels get
// the intermediate treatment rather than an error, so a stale profile never
// blocks an answer.
func Adapt(profile commonModels.LearnerProfile) Directives {
	d := Directives{Verbosity: "normal"}

	switch profile.SkillLevel {
	case config.SkillBeginner:
		d.VocabularyTier = "simple"
		d.Background = true
	case config.SkillAdvanced:
		d.VocabularyTier = "technical"
		d.Concise = true
	default:
		d.VocabularyTier = "standard"
		d.WorkedExamples = true
	}

	d.Reinforce = WeakConcepts(profile.QuizScores)
	return d
}

// Overrides are per-question requests from the learner. They win over the
// profile-derived directives for that one answer only.
type Overrides struct {
	ExplainSimply bool
	Verbosity     string
}

// WithOverrides folds per-question overrides into the directives.
func (d Directives) WithOverrides(o Overrides) Directives {
	if o.ExplainSimply {
		d.ExplainSimply = true
	}
	if o.Verbosity != "" {
		d.Verbosity = o.Verbosity
	}
	return d
}

// WeakConcepts flags any concept scored under half marks at least twice.
// One bad quiz is noise; two is a pattern worth reinforcing.
func WeakConcepts(scores []commonModels.QuizScore) []string {
	lowCount := make(map[string]int)
	var order []string
	for _, s := range scores {
		if s.MaxScore <= 0 {
			continue
		}
		if s.Score/s.MaxScore < 0.5 {
			if lowCount[s.Concept] == 0 {
				order = append(order, s.Concept)
			}
			lowCount[s.Concept]++
		}
	}

	var weak []string
	for _, c := range order {
		if lowCount[c] >= 2 {
			weak = append(weak, c)
		}
	}
	return weak
}

// PromptRules renders the directives as numbered instructions for the model.
func PromptRules(d Directives) string {
	var rules []string

	switch d.VocabularyTier {
	case "simple":
		rules = append(rules, "Use simple, everyday vocabulary and avoid jargon.")
	case "technical":
		rules = append(rules, "Use precise technical vocabulary.")
	default:
		rules = append(rules, "Use standard vocabulary appropriate for a student.")
	}
	if d.Background {
		rules = append(rules, "Include brief background context before the main explanation.")
	}
	if d.WorkedExamples {
		rules = append(rules, "Include a worked example where it helps understanding.")
	}
	if d.Concise {
		rules = append(rules, "Be concise and skip introductory filler.")
	}
	if len(d.Reinforce) > 0 {
		rules = append(rules, fmt.Sprintf("Where relevant, reinforce these concepts the learner has struggled with: %s.", strings.Join(d.Reinforce, ", ")))
	}
	switch d.Verbosity {
	case "short":
		rules = append(rules, "Keep the answer under four sentences.")
	case "long":
		rules = append(rules, "Give a thorough, detailed answer.")
	}
	if d.ExplainSimply {
		rules = append(rules, "Re-explain the core idea as you would to a complete beginner.")
	}

	var b strings.Builder
	for i, r := range rules {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r)
	}
	return b.String()
}
