// Package transcript assembles answered interview questions into an
// ordered, book-shaped list of content blocks.
//
// Assembly is a derived view: it is rebuilt wholesale from the outline and
// answer snapshots on every run and never patched incrementally. Output
// order is the outline's structural order restricted to the subset with
// transcribed content, so repeated runs over the same inputs are
// identical.
package transcript

import (
	"errors"

	"github.com/voxtale/voxtale/internal/answer"
	"github.com/voxtale/voxtale/internal/outline"
)

// ErrNoTranscribableContent is returned when assembly finds no transcribed
// answer text at all. It is recoverable: the caller should leave the
// project untouched and report "nothing to show yet" rather than mark the
// interview complete. It is deliberately distinct from a successful empty
// transcript, which assembly never produces.
var ErrNoTranscribableContent = errors.New("transcript: no transcribable content")

// BlockKind discriminates the content block variants.
type BlockKind string

const (
	BlockChapterHeader BlockKind = "chapter_header"
	BlockSectionHeader BlockKind = "section_header"
	BlockParagraph     BlockKind = "paragraph"
)

// Block is one unit of the assembled transcript.
type Block struct {
	Kind BlockKind

	// Text is the header title or the normalized paragraph text.
	Text string

	// ChapterID is set on every block.
	ChapterID string

	// SectionID is set on section headers and paragraphs.
	SectionID string

	// QuestionID and AnswerID reference the originating question and answer
	// record. Set on paragraphs only.
	QuestionID string
	AnswerID   string
}

// Normalizer cleans one answer's raw transcribed text into paragraphs.
// [textnorm.Normalizer] is the production implementation.
type Normalizer interface {
	Normalize(raw string) []string
}

// Assemble walks the outline in structural order and emits a chapter
// header, section headers, and normalized paragraph blocks for every
// question that has a transcribed answer.
//
// Only records in [answer.StateTranscribed] contribute; a failed
// transcription is silently skipped so one bad recording never blocks the
// rest of the book. Headers are emitted lazily, on the first paragraph
// beneath them — a chapter or section whose questions produced no
// paragraphs appears nowhere in the output. Omitted chapters, sections,
// and questions are excluded along with their subtrees.
//
// Returns [ErrNoTranscribableContent] when no paragraph at all could be
// produced.
func Assemble(o *outline.Outline, answers *answer.Set, norm Normalizer) ([]Block, error) {
	if answers.TranscribedCount() == 0 {
		return nil, ErrNoTranscribableContent
	}

	var blocks []Block
	for _, ch := range o.Chapters() {
		if ch.Omitted {
			continue
		}
		chapterEmitted := false

		for _, sec := range o.SectionsOf(ch.ID) {
			if sec.Omitted {
				continue
			}
			sectionEmitted := false

			for _, q := range o.QuestionsOf(sec.ID) {
				if q.Omitted {
					continue
				}
				rec, ok := answers.Transcribed(q.ID)
				if !ok {
					continue
				}

				paragraphs := norm.Normalize(rec.Text)
				if len(paragraphs) == 0 {
					continue
				}

				if !chapterEmitted {
					blocks = append(blocks, Block{
						Kind:      BlockChapterHeader,
						Text:      ch.Title,
						ChapterID: ch.ID,
					})
					chapterEmitted = true
				}
				if !sectionEmitted {
					blocks = append(blocks, Block{
						Kind:      BlockSectionHeader,
						Text:      sec.Title,
						ChapterID: ch.ID,
						SectionID: sec.ID,
					})
					sectionEmitted = true
				}
				for _, p := range paragraphs {
					blocks = append(blocks, Block{
						Kind:       BlockParagraph,
						Text:       p,
						ChapterID:  ch.ID,
						SectionID:  sec.ID,
						QuestionID: q.ID,
						AnswerID:   rec.ID,
					})
				}
			}
		}
	}

	// Every transcribed answer may still normalize to nothing (filler-only
	// recordings); an all-header or empty result is no transcript either.
	if len(blocks) == 0 {
		return nil, ErrNoTranscribableContent
	}
	return blocks, nil
}
