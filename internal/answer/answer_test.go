package answer_test

import (
	"testing"
	"time"

	"github.com/voxtale/voxtale/internal/answer"
)

func TestState_Answers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state answer.State
		want  bool
	}{
		{answer.StatePending, false},
		{answer.StateUploading, false},
		{answer.StateSuccess, true},
		{answer.StateTranscribed, true},
		{answer.StateTranscriptionFailed, true},
	}
	for _, tt := range tests {
		if got := tt.state.Answers(); got != tt.want {
			t.Errorf("State(%q).Answers() = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestState_IsValid(t *testing.T) {
	t.Parallel()

	for _, s := range []answer.State{
		answer.StatePending, answer.StateUploading, answer.StateSuccess,
		answer.StateTranscribed, answer.StateTranscriptionFailed,
	} {
		if !s.IsValid() {
			t.Errorf("State(%q).IsValid() = false, want true", s)
		}
	}
	if answer.State("done").IsValid() {
		t.Error(`State("done").IsValid() = true, want false`)
	}
}

func TestNewSet_AnsweredAndTranscribed(t *testing.T) {
	t.Parallel()

	set := answer.NewSet([]answer.Record{
		{ID: "r1", QuestionID: "q1", State: answer.StateTranscribed, Text: "first answer"},
		{ID: "r2", QuestionID: "q2", State: answer.StateSuccess},
		{ID: "r3", QuestionID: "q3", State: answer.StateTranscriptionFailed},
		{ID: "r4", QuestionID: "q4", State: answer.StatePending},
	})

	for id, want := range map[string]bool{
		"q1": true, "q2": true, "q3": true, "q4": false, "q-missing": false,
	} {
		if got := set.Answered(id); got != want {
			t.Errorf("Answered(%q) = %v, want %v", id, got, want)
		}
	}

	rec, ok := set.Transcribed("q1")
	if !ok {
		t.Fatal("Transcribed(q1) = _, false, want record")
	}
	if rec.Text != "first answer" {
		t.Errorf("Transcribed(q1).Text = %q, want %q", rec.Text, "first answer")
	}
	if _, ok := set.Transcribed("q2"); ok {
		t.Error("Transcribed(q2) = _, true for an untranscribed record, want false")
	}
	if got := set.TranscribedCount(); got != 1 {
		t.Errorf("TranscribedCount() = %d, want 1", got)
	}
}

func TestNewSet_NewestTranscriptionWins(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	set := answer.NewSet([]answer.Record{
		{ID: "old", QuestionID: "q1", State: answer.StateTranscribed, Text: "take one", UpdatedAt: base},
		{ID: "new", QuestionID: "q1", State: answer.StateTranscribed, Text: "take two", UpdatedAt: base.Add(time.Minute)},
	})

	rec, ok := set.Transcribed("q1")
	if !ok {
		t.Fatal("Transcribed(q1) = _, false, want record")
	}
	if rec.ID != "new" {
		t.Errorf("Transcribed(q1).ID = %q, want %q", rec.ID, "new")
	}
	if got := set.TranscribedCount(); got != 1 {
		t.Errorf("TranscribedCount() = %d, want 1", got)
	}
}

func TestNewSet_Empty(t *testing.T) {
	t.Parallel()

	set := answer.NewSet(nil)
	if set.Answered("q1") {
		t.Error("Answered on empty set = true, want false")
	}
	if got := set.TranscribedCount(); got != 0 {
		t.Errorf("TranscribedCount() = %d, want 0", got)
	}
}
