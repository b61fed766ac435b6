package interview_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/voxtale/voxtale/internal/answer"
	"github.com/voxtale/voxtale/internal/interview"
	"github.com/voxtale/voxtale/internal/observe"
	"github.com/voxtale/voxtale/internal/outline"
	"github.com/voxtale/voxtale/internal/transcript"
	"github.com/voxtale/voxtale/pkg/provider/generate"
	genmock "github.com/voxtale/voxtale/pkg/provider/generate/mock"
	"github.com/voxtale/voxtale/pkg/provider/synthesis"
	synthmock "github.com/voxtale/voxtale/pkg/provider/synthesis/mock"
)

// ---------------------------------------------------------------------------
// Test helpers — in-memory stores
// ---------------------------------------------------------------------------

// fakeOutlineStore keeps the outline tree in slices and rebuilds the arena
// on every Load, like the real store does from its queries.
type fakeOutlineStore struct {
	mu        sync.Mutex
	project   *outline.Project
	chapters  []outline.Chapter
	sections  []outline.Section
	questions []outline.Question

	loadErr       error
	appendErr     error
	nextID        int
	audioStates   map[string]outline.AudioState
	audioStateErr error
}

var _ outline.Store = (*fakeOutlineStore)(nil)

func (f *fakeOutlineStore) Project(_ context.Context, projectID string) (*outline.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.project == nil || f.project.ID != projectID {
		return nil, nil
	}
	p := *f.project
	return &p, nil
}

func (f *fakeOutlineStore) Load(context.Context, string) (*outline.Outline, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return outline.New(f.chapters, f.sections, f.questions)
}

func (f *fakeOutlineStore) AppendFollowUps(_ context.Context, _, parentID string, drafts []outline.FollowUpDraft) ([]outline.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return nil, f.appendErr
	}

	var sectionID string
	for _, q := range f.questions {
		if q.ID == parentID {
			sectionID = q.SectionID
		}
	}
	if sectionID == "" {
		return nil, fmt.Errorf("parent %q not found", parentID)
	}

	created := make([]outline.Question, 0, len(drafts))
	for _, d := range drafts {
		f.nextID++
		q := outline.Question{
			ID:               fmt.Sprintf("fu-%d", f.nextID),
			SectionID:        sectionID,
			Text:             d.Text,
			Ord:              d.Ord,
			IsFollowUp:       true,
			ParentQuestionID: parentID,
		}
		f.questions = append(f.questions, q)
		created = append(created, q)
	}
	return created, nil
}

func (f *fakeOutlineStore) SetOmitted(_ context.Context, _ outline.NodeKind, nodeID string, omitted bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.questions {
		if f.questions[i].ID == nodeID {
			f.questions[i].Omitted = omitted
			return nil
		}
	}
	return fmt.Errorf("node %q not found", nodeID)
}

func (f *fakeOutlineStore) SetSkipped(_ context.Context, questionID string, skipped bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.questions {
		if f.questions[i].ID == questionID {
			f.questions[i].Skipped = skipped
			return nil
		}
	}
	return fmt.Errorf("question %q not found", questionID)
}

func (f *fakeOutlineStore) SetAudioState(_ context.Context, questionID string, state outline.AudioState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.audioStateErr != nil {
		return f.audioStateErr
	}
	if f.audioStates == nil {
		f.audioStates = make(map[string]outline.AudioState)
	}
	f.audioStates[questionID] = state
	for i := range f.questions {
		if f.questions[i].ID == questionID {
			f.questions[i].AudioState = state
			return nil
		}
	}
	return fmt.Errorf("question %q not found", questionID)
}

// fakeAnswerStore serves a fixed record list; the service only reads.
type fakeAnswerStore struct {
	records []answer.Record
	listErr error
}

var _ answer.Store = (*fakeAnswerStore)(nil)

func (f *fakeAnswerStore) ListByProject(context.Context, string) ([]answer.Record, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]answer.Record, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeAnswerStore) Create(context.Context, *answer.Record) error      { return nil }
func (f *fakeAnswerStore) MarkUploading(context.Context, string) error       { return nil }
func (f *fakeAnswerStore) MarkUploaded(context.Context, string) error        { return nil }
func (f *fakeAnswerStore) MarkTranscribed(context.Context, string, string) error {
	return nil
}
func (f *fakeAnswerStore) MarkTranscriptionFailed(context.Context, string) error {
	return nil
}

// newTestMetrics builds a Metrics instance on an isolated meter provider so
// parallel tests never share counters.
func newTestMetrics(t *testing.T) *observe.Metrics {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			t.Errorf("meter provider shutdown: %v", err)
		}
	})
	m, err := observe.NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m
}

// newFixture returns stores pre-loaded with the standard two-chapter
// project:
//
//	Childhood → Early Years → q1, q2
//	Career    → First Job   → q3
func newFixture(speech bool) (*fakeOutlineStore, *fakeAnswerStore) {
	outlines := &fakeOutlineStore{
		project: &outline.Project{ID: "proj-1", Title: "My Memoir", SpeechInterview: speech},
		chapters: []outline.Chapter{
			{ID: "ch1", Title: "Childhood", Ord: 1},
			{ID: "ch2", Title: "Career", Ord: 2},
		},
		sections: []outline.Section{
			{ID: "sec1", ChapterID: "ch1", Title: "Early Years", Ord: 1},
			{ID: "sec2", ChapterID: "ch2", Title: "First Job", Ord: 1},
		},
		questions: []outline.Question{
			{ID: "q1", SectionID: "sec1", Text: "Where did you grow up?", Ord: 1, AudioState: outline.AudioReady},
			{ID: "q2", SectionID: "sec1", Text: "What do you remember most?", Ord: 2, AudioState: outline.AudioPending},
			{ID: "q3", SectionID: "sec2", Text: "What was your first job?", Ord: 1},
		},
	}
	return outlines, &fakeAnswerStore{}
}

func newService(t *testing.T, outlines outline.Store, answers answer.Store, opts ...interview.Option) *interview.Service {
	t.Helper()
	opts = append(opts, interview.WithMetrics(newTestMetrics(t)))
	return interview.NewService(outlines, answers, opts...)
}

func queueIDs(queue []*outline.Question) []string {
	out := make([]string, len(queue))
	for i, q := range queue {
		out[i] = q.ID
	}
	return out
}

func assertQueue(t *testing.T, got []*outline.Question, want ...string) {
	t.Helper()
	g := queueIDs(got)
	if len(g) != len(want) {
		t.Fatalf("queue = %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("queue = %v, want %v", g, want)
		}
	}
}

// ---------------------------------------------------------------------------
// Service tests
// ---------------------------------------------------------------------------

func TestService_Snapshot(t *testing.T) {
	t.Parallel()

	t.Run("loads project outline and answers", func(t *testing.T) {
		t.Parallel()
		outlines, answers := newFixture(false)
		answers.records = []answer.Record{
			{ID: "rec-1", QuestionID: "q1", State: answer.StateTranscribed, Text: "hello"},
		}
		svc := newService(t, outlines, answers)

		snap, err := svc.Snapshot(context.Background(), "proj-1")
		if err != nil {
			t.Fatalf("Snapshot() unexpected error: %v", err)
		}
		if snap.Project.Title != "My Memoir" {
			t.Errorf("Project.Title = %q, want 'My Memoir'", snap.Project.Title)
		}
		if got := snap.Outline.QuestionCount(); got != 3 {
			t.Errorf("QuestionCount() = %d, want 3", got)
		}
		if !snap.Answers.Answered("q1") {
			t.Error("Answers.Answered(q1) = false, want true")
		}
		if snap.SpeechMode() {
			t.Error("SpeechMode() = true for a text project")
		}
	})

	t.Run("unknown project", func(t *testing.T) {
		t.Parallel()
		outlines, answers := newFixture(false)
		svc := newService(t, outlines, answers)

		_, err := svc.Snapshot(context.Background(), "proj-ghost")
		if !errors.Is(err, interview.ErrProjectNotFound) {
			t.Errorf("Snapshot() error = %v, want ErrProjectNotFound", err)
		}
	})

	t.Run("store error propagates", func(t *testing.T) {
		t.Parallel()
		outlines, answers := newFixture(false)
		outlines.loadErr = errors.New("connection refused")
		svc := newService(t, outlines, answers)

		_, err := svc.Snapshot(context.Background(), "proj-1")
		if err == nil || !strings.Contains(err.Error(), "connection refused") {
			t.Errorf("Snapshot() error = %v, want wrapped store error", err)
		}
	})
}

func TestService_Queue(t *testing.T) {
	t.Parallel()

	t.Run("base order", func(t *testing.T) {
		t.Parallel()
		outlines, answers := newFixture(false)
		svc := newService(t, outlines, answers)

		queue, err := svc.Queue(context.Background(), "proj-1")
		if err != nil {
			t.Fatalf("Queue() unexpected error: %v", err)
		}
		assertQueue(t, queue, "q1", "q2", "q3")
	})

	t.Run("answered questions drop out", func(t *testing.T) {
		t.Parallel()
		outlines, answers := newFixture(false)
		answers.records = []answer.Record{
			{ID: "rec-1", QuestionID: "q1", State: answer.StateSuccess},
		}
		svc := newService(t, outlines, answers)

		queue, err := svc.Queue(context.Background(), "proj-1")
		if err != nil {
			t.Fatalf("Queue() unexpected error: %v", err)
		}
		assertQueue(t, queue, "q2", "q3")
	})

	t.Run("speech mode gates on audio readiness", func(t *testing.T) {
		t.Parallel()
		outlines, answers := newFixture(true)
		svc := newService(t, outlines, answers)

		queue, err := svc.Queue(context.Background(), "proj-1")
		if err != nil {
			t.Fatalf("Queue() unexpected error: %v", err)
		}
		assertQueue(t, queue, "q1")
	})
}

func TestService_NextQuestion(t *testing.T) {
	t.Parallel()

	t.Run("head of queue", func(t *testing.T) {
		t.Parallel()
		outlines, answers := newFixture(false)
		svc := newService(t, outlines, answers)

		q, err := svc.NextQuestion(context.Background(), "proj-1")
		if err != nil {
			t.Fatalf("NextQuestion() unexpected error: %v", err)
		}
		if q == nil || q.ID != "q1" {
			t.Errorf("NextQuestion() = %v, want q1", q)
		}
	})

	t.Run("exhausted interview", func(t *testing.T) {
		t.Parallel()
		outlines, answers := newFixture(false)
		answers.records = []answer.Record{
			{ID: "r1", QuestionID: "q1", State: answer.StateSuccess},
			{ID: "r2", QuestionID: "q2", State: answer.StateSuccess},
			{ID: "r3", QuestionID: "q3", State: answer.StateSuccess},
		}
		svc := newService(t, outlines, answers)

		q, err := svc.NextQuestion(context.Background(), "proj-1")
		if err != nil {
			t.Fatalf("NextQuestion() unexpected error: %v", err)
		}
		if q != nil {
			t.Errorf("NextQuestion() = %v, want nil for empty queue", q)
		}
	})
}

func TestService_QueueDiff(t *testing.T) {
	t.Parallel()

	outlines, answers := newFixture(false)
	svc := newService(t, outlines, answers)

	diff, err := svc.QueueDiff(context.Background(), "proj-1", []string{"q1", "q3"})
	if err != nil {
		t.Fatalf("QueueDiff() unexpected error: %v", err)
	}
	assertQueue(t, diff, "q2")

	// A client that knows everything gets an empty diff, not an error.
	diff, err = svc.QueueDiff(context.Background(), "proj-1", []string{"q1", "q2", "q3"})
	if err != nil {
		t.Fatalf("QueueDiff() unexpected error: %v", err)
	}
	if len(diff) != 0 {
		t.Errorf("QueueDiff() = %v, want empty", queueIDs(diff))
	}
}

func TestService_RecordFollowUps(t *testing.T) {
	t.Parallel()

	drafts := []outline.FollowUpDraft{
		{Text: "Can you say more about that?", Ord: 10},
		{Text: "When did that happen?", Ord: 11},
	}

	t.Run("persists and splices", func(t *testing.T) {
		t.Parallel()
		outlines, answers := newFixture(false)
		svc := newService(t, outlines, answers)

		queue, err := svc.Queue(context.Background(), "proj-1")
		if err != nil {
			t.Fatalf("Queue() unexpected error: %v", err)
		}

		created, updated, err := svc.RecordFollowUps(context.Background(), "proj-1", "q1", drafts, queue)
		if err != nil {
			t.Fatalf("RecordFollowUps() unexpected error: %v", err)
		}
		if len(created) != 2 {
			t.Fatalf("created %d follow-ups, want 2", len(created))
		}
		assertQueue(t, updated, "q1", created[0].ID, created[1].ID, "q2", "q3")

		// The rows must be persisted: a fresh queue build sees them too.
		fresh, err := svc.Queue(context.Background(), "proj-1")
		if err != nil {
			t.Fatalf("Queue() unexpected error: %v", err)
		}
		assertQueue(t, fresh, "q1", "q2", created[0].ID, created[1].ID, "q3")
	})

	t.Run("dangling parent keeps queue and persists rows", func(t *testing.T) {
		t.Parallel()
		outlines, answers := newFixture(false)
		answers.records = []answer.Record{
			{ID: "rec-1", QuestionID: "q1", State: answer.StateTranscribed, Text: "done"},
		}
		svc := newService(t, outlines, answers)

		// q1 is answered and therefore absent from the live queue.
		queue, err := svc.Queue(context.Background(), "proj-1")
		if err != nil {
			t.Fatalf("Queue() unexpected error: %v", err)
		}
		assertQueue(t, queue, "q2", "q3")

		created, updated, err := svc.RecordFollowUps(context.Background(), "proj-1", "q1", drafts, queue)
		if err != nil {
			t.Fatalf("RecordFollowUps() unexpected error: %v", err)
		}
		if len(created) != 2 {
			t.Fatalf("created %d follow-ups, want 2", len(created))
		}
		assertQueue(t, updated, "q2", "q3")

		// Next build surfaces them as urgent follow-ups at the front.
		fresh, err := svc.Queue(context.Background(), "proj-1")
		if err != nil {
			t.Fatalf("Queue() unexpected error: %v", err)
		}
		assertQueue(t, fresh, created[0].ID, created[1].ID, "q2", "q3")
	})

	t.Run("empty drafts are a no-op", func(t *testing.T) {
		t.Parallel()
		outlines, answers := newFixture(false)
		svc := newService(t, outlines, answers)

		queue, _ := svc.Queue(context.Background(), "proj-1")
		created, updated, err := svc.RecordFollowUps(context.Background(), "proj-1", "q1", nil, queue)
		if err != nil {
			t.Fatalf("RecordFollowUps() unexpected error: %v", err)
		}
		if created != nil {
			t.Errorf("created = %v, want nil", created)
		}
		assertQueue(t, updated, "q1", "q2", "q3")
	})

	t.Run("store error propagates with queue unchanged", func(t *testing.T) {
		t.Parallel()
		outlines, answers := newFixture(false)
		outlines.appendErr = errors.New("deadlock")
		svc := newService(t, outlines, answers)

		queue := []*outline.Question{{ID: "q1"}}
		_, updated, err := svc.RecordFollowUps(context.Background(), "proj-1", "q1", drafts, queue)
		if err == nil {
			t.Fatal("RecordFollowUps() expected error, got nil")
		}
		assertQueue(t, updated, "q1")
	})
}

func TestService_GenerateFollowUps(t *testing.T) {
	t.Parallel()

	t.Run("requests drafts with parent context", func(t *testing.T) {
		t.Parallel()
		outlines, answers := newFixture(false)
		answers.records = []answer.Record{
			{ID: "rec-1", QuestionID: "q1", State: answer.StateTranscribed, Text: "I grew up on a farm."},
		}
		gen := &genmock.Provider{Drafts: []generate.Draft{
			{Text: "What was the farm like?", Ord: 10},
		}}
		svc := newService(t, outlines, answers, interview.WithGenerator(gen))

		queue, _ := svc.Queue(context.Background(), "proj-1")
		created, updated, err := svc.GenerateFollowUps(context.Background(), "proj-1", "q1", queue)
		if err != nil {
			t.Fatalf("GenerateFollowUps() unexpected error: %v", err)
		}
		if len(created) != 1 || created[0].Text != "What was the farm like?" {
			t.Fatalf("created = %+v, want the generated draft", created)
		}
		assertQueue(t, updated, created[0].ID, "q2", "q3")

		if len(gen.Calls) != 1 {
			t.Fatalf("generator called %d times, want 1", len(gen.Calls))
		}
		req := gen.Calls[0]
		if req.ParentText != "Where did you grow up?" {
			t.Errorf("ParentText = %q, want the parent question text", req.ParentText)
		}
		if req.AnswerText != "I grew up on a farm." {
			t.Errorf("AnswerText = %q, want the transcribed answer", req.AnswerText)
		}
		if req.MaxFollowUps != 3 {
			t.Errorf("MaxFollowUps = %d, want 3", req.MaxFollowUps)
		}
	})

	t.Run("caps oversized batches", func(t *testing.T) {
		t.Parallel()
		outlines, answers := newFixture(false)
		gen := &genmock.Provider{Drafts: []generate.Draft{
			{Text: "one", Ord: 1}, {Text: "two", Ord: 2}, {Text: "three", Ord: 3},
		}}
		svc := newService(t, outlines, answers,
			interview.WithGenerator(gen),
			interview.WithMaxFollowUps(2),
		)

		queue, _ := svc.Queue(context.Background(), "proj-1")
		created, _, err := svc.GenerateFollowUps(context.Background(), "proj-1", "q1", queue)
		if err != nil {
			t.Fatalf("GenerateFollowUps() unexpected error: %v", err)
		}
		if len(created) != 2 {
			t.Errorf("created %d follow-ups, want capped 2", len(created))
		}
	})

	t.Run("empty generation leaves everything unchanged", func(t *testing.T) {
		t.Parallel()
		outlines, answers := newFixture(false)
		gen := &genmock.Provider{}
		svc := newService(t, outlines, answers, interview.WithGenerator(gen))

		queue, _ := svc.Queue(context.Background(), "proj-1")
		created, updated, err := svc.GenerateFollowUps(context.Background(), "proj-1", "q1", queue)
		if err != nil {
			t.Fatalf("GenerateFollowUps() unexpected error: %v", err)
		}
		if created != nil {
			t.Errorf("created = %v, want nil", created)
		}
		assertQueue(t, updated, "q1", "q2", "q3")
	})

	t.Run("no generator configured", func(t *testing.T) {
		t.Parallel()
		outlines, answers := newFixture(false)
		svc := newService(t, outlines, answers)

		_, _, err := svc.GenerateFollowUps(context.Background(), "proj-1", "q1", nil)
		if !errors.Is(err, interview.ErrNoGenerator) {
			t.Errorf("GenerateFollowUps() error = %v, want ErrNoGenerator", err)
		}
	})

	t.Run("unknown parent", func(t *testing.T) {
		t.Parallel()
		outlines, answers := newFixture(false)
		gen := &genmock.Provider{}
		svc := newService(t, outlines, answers, interview.WithGenerator(gen))

		_, _, err := svc.GenerateFollowUps(context.Background(), "proj-1", "q-ghost", nil)
		if err == nil {
			t.Fatal("GenerateFollowUps() expected error for unknown parent")
		}
		if len(gen.Calls) != 0 {
			t.Errorf("generator called %d times for unknown parent, want 0", len(gen.Calls))
		}
	})

	t.Run("generator error propagates", func(t *testing.T) {
		t.Parallel()
		outlines, answers := newFixture(false)
		gen := &genmock.Provider{Err: errors.New("rate limited")}
		svc := newService(t, outlines, answers, interview.WithGenerator(gen))

		_, _, err := svc.GenerateFollowUps(context.Background(), "proj-1", "q1", nil)
		if err == nil || !strings.Contains(err.Error(), "rate limited") {
			t.Errorf("GenerateFollowUps() error = %v, want wrapped generator error", err)
		}
	})
}

func TestService_RefreshSpeechAudio(t *testing.T) {
	t.Parallel()

	t.Run("persists ready and failed transitions", func(t *testing.T) {
		t.Parallel()
		outlines, answers := newFixture(true)
		synth := &synthmock.Provider{
			Statuses: map[string]synthesis.Status{
				"q2": synthesis.StatusReady,
				"q3": synthesis.StatusFailed,
			},
		}
		svc := newService(t, outlines, answers, interview.WithSynthesis(synth))

		changed, err := svc.RefreshSpeechAudio(context.Background(), "proj-1")
		if err != nil {
			t.Fatalf("RefreshSpeechAudio() unexpected error: %v", err)
		}
		if changed != 2 {
			t.Errorf("changed = %d, want 2", changed)
		}
		if outlines.audioStates["q2"] != outline.AudioReady {
			t.Errorf("q2 audio state = %q, want ready", outlines.audioStates["q2"])
		}
		if outlines.audioStates["q3"] != outline.AudioFailed {
			t.Errorf("q3 audio state = %q, want failed", outlines.audioStates["q3"])
		}
		// q1 was already ready and must not be probed.
		for _, id := range synth.Calls {
			if id == "q1" {
				t.Error("probed q1, which is already ready")
			}
		}
	})

	t.Run("unchanged states write nothing", func(t *testing.T) {
		t.Parallel()
		outlines, answers := newFixture(true)
		synth := &synthmock.Provider{Default: synthesis.StatusPending}
		svc := newService(t, outlines, answers, interview.WithSynthesis(synth))

		changed, err := svc.RefreshSpeechAudio(context.Background(), "proj-1")
		if err != nil {
			t.Fatalf("RefreshSpeechAudio() unexpected error: %v", err)
		}
		// q2 is already pending; q3 moves none -> pending.
		if changed != 1 {
			t.Errorf("changed = %d, want 1", changed)
		}
	})

	t.Run("no provider configured", func(t *testing.T) {
		t.Parallel()
		outlines, answers := newFixture(true)
		svc := newService(t, outlines, answers)

		_, err := svc.RefreshSpeechAudio(context.Background(), "proj-1")
		if !errors.Is(err, interview.ErrNoSynthesis) {
			t.Errorf("RefreshSpeechAudio() error = %v, want ErrNoSynthesis", err)
		}
	})

	t.Run("probe error aborts before writes", func(t *testing.T) {
		t.Parallel()
		outlines, answers := newFixture(true)
		synth := &synthmock.Provider{Err: errors.New("synthesis backend down")}
		svc := newService(t, outlines, answers, interview.WithSynthesis(synth))

		changed, err := svc.RefreshSpeechAudio(context.Background(), "proj-1")
		if err == nil {
			t.Fatal("RefreshSpeechAudio() expected error, got nil")
		}
		if changed != 0 {
			t.Errorf("changed = %d, want 0", changed)
		}
		if len(outlines.audioStates) != 0 {
			t.Errorf("audio states written despite probe failure: %v", outlines.audioStates)
		}
	})
}

func TestService_AssembleTranscript(t *testing.T) {
	t.Parallel()

	t.Run("builds blocks from transcribed answers", func(t *testing.T) {
		t.Parallel()
		outlines, answers := newFixture(false)
		answers.records = []answer.Record{
			{ID: "rec-1", QuestionID: "q1", State: answer.StateTranscribed, Text: "um so I think, you know, it was great"},
		}
		svc := newService(t, outlines, answers)

		blocks, err := svc.AssembleTranscript(context.Background(), "proj-1")
		if err != nil {
			t.Fatalf("AssembleTranscript() unexpected error: %v", err)
		}
		want := []struct {
			kind transcript.BlockKind
			text string
		}{
			{transcript.BlockChapterHeader, "Childhood"},
			{transcript.BlockSectionHeader, "Early Years"},
			{transcript.BlockParagraph, "So I think it was great."},
		}
		if len(blocks) != len(want) {
			t.Fatalf("got %d blocks, want %d: %+v", len(blocks), len(want), blocks)
		}
		for i, w := range want {
			if blocks[i].Kind != w.kind || blocks[i].Text != w.text {
				t.Errorf("block[%d] = {%s %q}, want {%s %q}", i, blocks[i].Kind, blocks[i].Text, w.kind, w.text)
			}
		}
	})

	t.Run("nothing transcribed", func(t *testing.T) {
		t.Parallel()
		outlines, answers := newFixture(false)
		svc := newService(t, outlines, answers)

		_, err := svc.AssembleTranscript(context.Background(), "proj-1")
		if !errors.Is(err, transcript.ErrNoTranscribableContent) {
			t.Errorf("AssembleTranscript() error = %v, want ErrNoTranscribableContent", err)
		}
	})

	t.Run("unknown project", func(t *testing.T) {
		t.Parallel()
		outlines, answers := newFixture(false)
		svc := newService(t, outlines, answers)

		_, err := svc.AssembleTranscript(context.Background(), "proj-ghost")
		if !errors.Is(err, interview.ErrProjectNotFound) {
			t.Errorf("AssembleTranscript() error = %v, want ErrProjectNotFound", err)
		}
	})
}
