package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"

	"github.com/edumentor/edumentor/internal/domain/commonModels"
	"github.com/edumentor/edumentor/internal/domain/errs"
	"github.com/google/uuid"
)

var (
	pageNumberLine = regexp.MustCompile(`(?m)^\s*(Page\s*)?\d{1,4}\s*$`)
	blankLineRuns  = regexp.MustCompile(`\n{3,}`)
	spaceRuns      = regexp.MustCompile(` {2,}`)
	trimEdges      = regexp.MustCompile(`^\s+|\s+$`)
)

// CleanText strips the noise that survives text export from course
// material: page-number-only lines, runs of blank lines, runs of spaces.
func CleanText(text string) string {
	text = pageNumberLine.ReplaceAllString(text, "")
	text = blankLineRuns.ReplaceAllString(text, "\n\n")
	text = spaceRuns.ReplaceAllString(text, " ")
	return trimEdges.ReplaceAllString(text, "")
}

// HashContent identifies a Document by its content. Identical uploads hash
// identically regardless of file name.
func HashContent(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// ChunkKey derives the stable chunk identity from the document content hash
// and the chunk's sequence index. Re-chunking the same content yields the
// same ids, which is what makes re-ingestion idempotent at the index level.
func ChunkKey(contentHash string, seqIndex int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(contentHash+":"+strconv.Itoa(seqIndex))).String()
}

// SplitDocument cuts cleaned document text into fixed-size rune windows.
// Consecutive chunks share exactly `overlap` runes; together the chunks
// cover every offset of the text with no gaps. Boundaries depend only on
// the text and the (size, overlap) pair, so chunking is idempotent.
func SplitDocument(doc commonModels.Document, text string, size int, overlap int) ([]commonModels.Chunk, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: size=%d overlap=%d", errs.ErrInvalidConfig, size, overlap)
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	step := size - overlap
	var chunks []commonModels.Chunk
	for start, seq := 0, 0; ; start, seq = start+step, seq+1 {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, commonModels.Chunk{
			Doc:      doc,
			ChunkId:  ChunkKey(doc.ContentHash, seq),
			Text:     string(runes[start:end]),
			Start:    start,
			End:      end,
			SeqIndex: seq,
		})
		if end == len(runes) {
			break
		}
	}
	return chunks, nil
}
