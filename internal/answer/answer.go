// Package answer tracks per-question audio responses and their
// transcription outcome.
//
// A question counts as answered once any of its records reaches a
// post-upload state ([StateSuccess], [StateTranscribed], or
// [StateTranscriptionFailed]) — a successfully received upload answers the
// question even when transcription later fails; failure only withholds
// transcript text. Records move forward through their states and are never
// reopened.
//
// The [Set] type is the bulk answered-state lookup the progression engine
// consults once per outline question on every queue build; it is built from
// a single store read so the whole build stays O(outline size).
package answer

import "time"

// State is the upload/transcription state of a [Record].
type State string

const (
	// StatePending means the upload slot was created but no audio has
	// arrived yet.
	StatePending State = "pending"

	// StateUploading means an upload is in flight.
	StateUploading State = "uploading"

	// StateSuccess means the audio was received but not yet transcribed.
	StateSuccess State = "success"

	// StateTranscribed means usable transcript text exists for the record.
	StateTranscribed State = "transcribed"

	// StateTranscriptionFailed means the audio was received but
	// transcription failed. The question stays answered; it just
	// contributes no transcript paragraph.
	StateTranscriptionFailed State = "transcription_failed"
)

// IsValid reports whether s is a recognised record state.
func (s State) IsValid() bool {
	switch s {
	case StatePending, StateUploading, StateSuccess, StateTranscribed, StateTranscriptionFailed:
		return true
	}
	return false
}

// Answers reports whether a record in state s makes its question count as
// answered. All three post-upload states qualify: the audio was received,
// so the question is not asked again even when transcription failed.
func (s State) Answers() bool {
	switch s {
	case StateSuccess, StateTranscribed, StateTranscriptionFailed:
		return true
	}
	return false
}

// Record associates one uploaded audio response with a question.
type Record struct {
	ID         string
	ProjectID  string
	QuestionID string
	State      State

	// Text is the transcribed text. Only meaningful in [StateTranscribed].
	Text string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Set is an immutable answered-state snapshot for one project, keyed by
// question id. Build it once per engine call with [NewSet].
type Set struct {
	answered    map[string]struct{}
	transcribed map[string]*Record
}

// NewSet indexes records into a [Set]. When a question has several
// transcribed records the most recently updated one wins; ties keep the
// later record in input order, which store reads return in creation order.
func NewSet(records []Record) *Set {
	s := &Set{
		answered:    make(map[string]struct{}, len(records)),
		transcribed: make(map[string]*Record, len(records)),
	}
	for i := range records {
		r := &records[i]
		if r.State.Answers() {
			s.answered[r.QuestionID] = struct{}{}
		}
		if r.State == StateTranscribed {
			prev, ok := s.transcribed[r.QuestionID]
			if !ok || !r.UpdatedAt.Before(prev.UpdatedAt) {
				s.transcribed[r.QuestionID] = r
			}
		}
	}
	return s
}

// Answered reports whether the question has at least one record in
// [StateSuccess] or [StateTranscribed].
func (s *Set) Answered(questionID string) bool {
	_, ok := s.answered[questionID]
	return ok
}

// Transcribed returns the question's current transcribed record, if any.
func (s *Set) Transcribed(questionID string) (*Record, bool) {
	r, ok := s.transcribed[questionID]
	return r, ok
}

// TranscribedCount returns the number of questions with transcribed text.
func (s *Set) TranscribedCount() int { return len(s.transcribed) }
