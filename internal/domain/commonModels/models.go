package commonModels

import "time"

// Document is one ingested source file. The content hash uniquely identifies
// the content; re-ingesting identical content is a no-op.
type Document struct {
	ContentHash string    `json:"content_hash"`
	Name        string    `json:"doc_name"`
	IngestedAt  time.Time `json:"ingested_at"`
}

// Chunk is a contiguous segment of a Document's text. Offsets are rune
// offsets into the cleaned document text. SeqIndex orders chunks within the
// document; together with the document hash it forms the stable chunk key.
type Chunk struct {
	Doc      Document `json:"doc"`
	ChunkId  string   `json:"chunk_id"`
	Text     string   `json:"content"`
	Start    int      `json:"start_offset"`
	End      int      `json:"end_offset"`
	SeqIndex int      `json:"seq_index"`
}

// ScoredChunk pairs a retrieved chunk with its normalized [0,1] score.
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// RetrievalResult is the outcome of one retrieval query. Chunks are ordered
// by descending score, ties broken by document hash then sequence index.
// Confidence is the top-1 normalized score; Fallback is set when it falls
// below the configured threshold, telling the composer to hedge.
type RetrievalResult struct {
	Chunks     []ScoredChunk `json:"chunks"`
	Confidence float64       `json:"confidence"`
	Fallback   bool          `json:"fallback"`
}

// ChunkIds returns the set of retrieved chunk ids, the universe that
// citations and quiz grounding must stay inside.
func (r RetrievalResult) ChunkIds() map[string]bool {
	ids := make(map[string]bool, len(r.Chunks))
	for _, sc := range r.Chunks {
		ids[sc.Chunk.ChunkId] = true
	}
	return ids
}

// LearnerProfile is the active learner's adaptation state, scoped to the
// session and mutated only by explicit profile updates.
type LearnerProfile struct {
	Name       string      `json:"name"`
	Course     string      `json:"course"`
	SkillLevel string      `json:"skill_level"`
	Goals      string      `json:"goals"`
	QuizScores []QuizScore `json:"quiz_scores,omitempty"`
}

// QuizScore is one entry in the learner's quiz history summary.
type QuizScore struct {
	Concept   string    `json:"concept"`
	Score     float64   `json:"score"`
	MaxScore  float64   `json:"max_score"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationTurn is one question/answer exchange. CitedChunkIds reference
// only chunks present in the turn's retrieval result.
type ConversationTurn struct {
	Question      string   `json:"question"`
	Answer        string   `json:"answer"`
	CitedChunkIds []string `json:"cited_chunk_ids,omitempty"`
	FollowUps     []string `json:"follow_ups,omitempty"`
	Confidence    float64  `json:"confidence"`
	Hedged        bool     `json:"hedged"`
	Degraded      bool     `json:"degraded,omitempty"`
}

type QuizItemType string

const (
	QuizItemMCQ         QuizItemType = "MCQ"
	QuizItemShortAnswer QuizItemType = "ShortAnswer"
)

// QuizItem is one generated question. For MCQ items the answer key equals
// exactly one option; GroundingChunkIds is non-empty and a subset of the
// retrieval result the quiz was generated from.
type QuizItem struct {
	Id                string       `json:"id"`
	Type              QuizItemType `json:"type"`
	Prompt            string       `json:"prompt"`
	Options           []string     `json:"options,omitempty"`
	AnswerKey         string       `json:"answer_key"`
	Difficulty        string       `json:"difficulty,omitempty"`
	Explanation       string       `json:"explanation,omitempty"`
	GroundingChunkIds []string     `json:"grounding_chunk_ids"`
}

// Quiz is an ordered sequence of validated items. Shortfall reports how many
// requested items could not be produced; the quiz is never silently padded.
type Quiz struct {
	Topic     string     `json:"topic"`
	Items     []QuizItem `json:"items"`
	Shortfall int        `json:"shortfall,omitempty"`
}

// QuizAttempt is the learner's response to one QuizItem.
type QuizAttempt struct {
	ItemId string `json:"item_id"`
	Answer string `json:"answer"`
}

// GradeResult is immutable once produced. Score always lies within the
// configured bounds. Ungraded marks exhausted grading retries; the score is
// never fabricated in that case.
type GradeResult struct {
	ItemId    string  `json:"item_id"`
	Score     float64 `json:"score"`
	MaxScore  float64 `json:"max_score"`
	Correct   bool    `json:"is_correct"`
	Rationale string  `json:"rationale"`
	Hint      string  `json:"hint,omitempty"`
	Ungraded  bool    `json:"ungraded,omitempty"`
}

// Flashcard is a front/back study card generated from retrieved chunks.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}
