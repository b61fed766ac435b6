// Package progression decides which question an interviewee should be
// asked next.
//
// It is pure computation over an [outline.Outline] arena and an
// [answer.Set] snapshot: [Build] produces the ordered queue of currently
// askable questions, [InsertFollowUps] splices freshly generated follow-ups
// into a live queue, and [Eligible] is the single predicate both operations
// (and any polling surface) share, so the definition of "askable" cannot
// drift between call sites.
//
// Called twice against unchanged snapshots, [Build] returns identical
// output — clients may poll it freely.
package progression

import (
	"github.com/voxtale/voxtale/internal/answer"
	"github.com/voxtale/voxtale/internal/outline"
)

// Eligible reports whether q should currently be offered to the user.
//
// A question is eligible when its chapter and section are not omitted, the
// question itself is neither omitted nor skipped, it has not been answered,
// and — when speechMode is set — its prompt audio is ready.
func Eligible(o *outline.Outline, q *outline.Question, answers *answer.Set, speechMode bool) bool {
	if q.Omitted || q.Skipped {
		return false
	}
	sec := o.SectionOf(q)
	if sec.Omitted {
		return false
	}
	if o.ChapterOf(q).Omitted {
		return false
	}
	if answers.Answered(q.ID) {
		return false
	}
	if speechMode && q.AudioState != outline.AudioReady {
		return false
	}
	return true
}

// Urgent reports whether q is an urgent follow-up: a follow-up whose parent
// question is already answered. Urgent follow-ups jump to the front of the
// queue so a clarification is asked while its context is fresh. A follow-up
// whose parent is still unanswered keeps its base-order position — there is
// nothing to clarify yet.
func Urgent(q *outline.Question, answers *answer.Set) bool {
	return q.IsFollowUp && q.ParentQuestionID != "" && answers.Answered(q.ParentQuestionID)
}

// Build walks the outline in structural order and returns the askable
// questions: base order is (chapter.Ord, section.Ord, question.Ord) with
// creation order breaking ties, then every urgent follow-up is moved to the
// front, keeping relative base order within both partitions.
//
// An outline with no eligible questions yields an empty (non-nil) queue;
// that is a normal outcome, not an error.
func Build(o *outline.Outline, answers *answer.Set, speechMode bool) []*outline.Question {
	urgent := make([]*outline.Question, 0, 4)
	rest := make([]*outline.Question, 0, o.QuestionCount())

	// The arena's structural walk already yields base order; splitting into
	// two append-only partitions is the stable sort.
	o.EachQuestion(func(_ *outline.Chapter, _ *outline.Section, q *outline.Question) {
		if !Eligible(o, q, answers, speechMode) {
			return
		}
		if Urgent(q, answers) {
			urgent = append(urgent, q)
			return
		}
		rest = append(rest, q)
	})

	return append(urgent, rest...)
}

// InsertFollowUps returns a queue with followUps spliced in immediately
// after the end of parentID's existing run — the last queue element that is
// either the parent itself or an already-queued follow-up of it. The new
// follow-ups keep their own relative order.
//
// When the parent is absent from the queue the original queue is returned
// unchanged. That race is expected: the parent may have been answered and
// dropped from the queue in the same cycle that generated its follow-ups,
// and the next [Build] will place them correctly. An empty batch also
// returns the queue unchanged.
//
// The operation is purely structural; it trusts the caller to pass only
// already-eligible follow-ups and re-checks nothing.
func InsertFollowUps(queue []*outline.Question, parentID string, followUps []*outline.Question) []*outline.Question {
	if len(followUps) == 0 {
		return queue
	}

	at := -1
	for i, q := range queue {
		if q.ID == parentID || q.ParentQuestionID == parentID {
			at = i
		}
	}
	if at < 0 {
		return queue
	}

	out := make([]*outline.Question, 0, len(queue)+len(followUps))
	out = append(out, queue[:at+1]...)
	out = append(out, followUps...)
	out = append(out, queue[at+1:]...)
	return out
}
