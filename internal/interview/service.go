// Package interview wires the progression and assembly engines to their
// stores and collaborators behind one facade.
//
// Every operation works on an immutable [Snapshot] read at call time: the
// engines themselves are pure functions, so two calls over unchanged data
// return identical results and concurrent readers never observe torn
// state. The service holds no state of its own beyond its injected
// dependencies.
package interview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/voxtale/voxtale/internal/answer"
	"github.com/voxtale/voxtale/internal/observe"
	"github.com/voxtale/voxtale/internal/outline"
	"github.com/voxtale/voxtale/internal/progression"
	"github.com/voxtale/voxtale/internal/transcript"
	"github.com/voxtale/voxtale/internal/transcript/textnorm"
	"github.com/voxtale/voxtale/pkg/provider/generate"
	"github.com/voxtale/voxtale/pkg/provider/synthesis"
)

// ErrProjectNotFound is returned when the requested project does not exist.
var ErrProjectNotFound = errors.New("interview: project not found")

// ErrNoGenerator is returned by [Service.GenerateFollowUps] when no content
// generator is configured.
var ErrNoGenerator = errors.New("interview: no content generator configured")

// ErrNoSynthesis is returned by [Service.RefreshSpeechAudio] when no
// speech-synthesis provider is configured.
var ErrNoSynthesis = errors.New("interview: no synthesis provider configured")

// Snapshot is one project's progression state as read at a single point in
// time. All engine calls derive from it and never mutate it.
type Snapshot struct {
	Project *outline.Project
	Outline *outline.Outline
	Answers *answer.Set
}

// SpeechMode reports whether the snapshot's project runs in speech mode.
func (s *Snapshot) SpeechMode() bool { return s.Project.SpeechInterview }

// Option is a functional option for [NewService].
type Option func(*Service)

// WithGenerator attaches the content-generation collaborator used by
// [Service.GenerateFollowUps]. When nil (the default), that operation
// returns [ErrNoGenerator].
func WithGenerator(g generate.Provider) Option {
	return func(s *Service) { s.generator = g }
}

// WithSynthesis attaches the speech-synthesis collaborator used by
// [Service.RefreshSpeechAudio]. When nil (the default), that operation
// returns [ErrNoSynthesis].
func WithSynthesis(p synthesis.Provider) Option {
	return func(s *Service) { s.synth = p }
}

// WithNormalizer replaces the transcript text normalizer. Defaults to
// [textnorm.New] with its built-in thresholds.
func WithNormalizer(n transcript.Normalizer) Option {
	return func(s *Service) { s.norm = n }
}

// WithMetrics replaces the metrics instance. Defaults to
// [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithMaxFollowUps caps the follow-up batch requested from the generator
// for one answered question. Default: 3.
func WithMaxFollowUps(n int) Option {
	return func(s *Service) { s.maxFollowUps = n }
}

// WithSynthesisConcurrency bounds the parallel readiness probes issued by
// [Service.RefreshSpeechAudio]. Default: 4.
func WithSynthesisConcurrency(n int) Option {
	return func(s *Service) { s.synthConcurrency = n }
}

// Service exposes the interview progression and transcript assembly
// operations. It is safe for concurrent use: all state lives in the stores
// and every call works on its own snapshot.
type Service struct {
	outlines outline.Store
	answers  answer.Store

	generator generate.Provider
	synth     synthesis.Provider

	norm    transcript.Normalizer
	metrics *observe.Metrics

	maxFollowUps     int
	synthConcurrency int
}

// NewService constructs a [Service] over the given stores with the supplied
// options.
func NewService(outlines outline.Store, answers answer.Store, opts ...Option) *Service {
	s := &Service{
		outlines:         outlines,
		answers:          answers,
		maxFollowUps:     3,
		synthConcurrency: 4,
	}
	for _, o := range opts {
		o(s)
	}
	if s.norm == nil {
		s.norm = textnorm.New()
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}
	return s
}

// Snapshot reads the project, its outline, and its answer records
// concurrently and returns them as one immutable snapshot. Returns
// [ErrProjectNotFound] when the project does not exist.
func (s *Service) Snapshot(ctx context.Context, projectID string) (*Snapshot, error) {
	ctx, span := observe.StartSpan(ctx, "interview.Snapshot")
	defer span.End()

	var (
		project *outline.Project
		tree    *outline.Outline
		records []answer.Record
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		project, err = s.outlines.Project(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		tree, err = s.outlines.Load(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.answers.ListByProject(gctx, projectID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("interview: snapshot %q: %w", projectID, err)
	}
	if project == nil {
		return nil, fmt.Errorf("%w: %q", ErrProjectNotFound, projectID)
	}

	return &Snapshot{
		Project: project,
		Outline: tree,
		Answers: answer.NewSet(records),
	}, nil
}

// Queue returns the full ordered queue of currently askable questions. An
// empty queue means the interview has nothing left to ask right now.
func (s *Service) Queue(ctx context.Context, projectID string) ([]*outline.Question, error) {
	ctx, span := observe.StartSpan(ctx, "interview.Queue")
	defer span.End()

	start := time.Now()
	snap, err := s.Snapshot(ctx, projectID)
	if err != nil {
		return nil, err
	}

	queue := progression.Build(snap.Outline, snap.Answers, snap.SpeechMode())
	s.metrics.RecordQueueBuild(ctx, time.Since(start).Seconds(), len(queue))

	urgent := 0
	for _, q := range queue {
		if !progression.Urgent(q, snap.Answers) {
			break
		}
		urgent++
	}
	if urgent > 0 {
		s.metrics.UrgentFollowUps.Add(ctx, int64(urgent))
	}
	return queue, nil
}

// NextQuestion returns the question the user should answer next, or
// (nil, nil) when the queue is empty.
func (s *Service) NextQuestion(ctx context.Context, projectID string) (*outline.Question, error) {
	queue, err := s.Queue(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(queue) == 0 {
		return nil, nil
	}
	return queue[0], nil
}

// QueueDiff returns the askable questions the caller does not know about
// yet, in queue order. It is the polling surface for clients holding a
// stale queue and is built from the same eligibility pass as [Service.Queue]
// so the two can never disagree about what is askable.
func (s *Service) QueueDiff(ctx context.Context, projectID string, knownIDs []string) ([]*outline.Question, error) {
	queue, err := s.Queue(ctx, projectID)
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(knownIDs))
	for _, id := range knownIDs {
		known[id] = struct{}{}
	}

	diff := make([]*outline.Question, 0, len(queue))
	for _, q := range queue {
		if _, ok := known[q.ID]; !ok {
			diff = append(diff, q)
		}
	}
	return diff, nil
}

// RecordFollowUps persists drafts as follow-up questions under parentID and
// splices them into liveQueue. It returns the created questions and the
// updated queue.
//
// When the parent is no longer in liveQueue the splice is a silent no-op
// and the original queue is returned: the rows are persisted either way and
// the next queue build will surface them as urgent follow-ups.
func (s *Service) RecordFollowUps(ctx context.Context, projectID, parentID string, drafts []outline.FollowUpDraft, liveQueue []*outline.Question) ([]outline.Question, []*outline.Question, error) {
	ctx, span := observe.StartSpan(ctx, "interview.RecordFollowUps")
	defer span.End()

	if len(drafts) == 0 {
		return nil, liveQueue, nil
	}

	created, err := s.outlines.AppendFollowUps(ctx, projectID, parentID, drafts)
	if err != nil {
		s.metrics.RecordStoreError(ctx, "outline", "append_follow_ups")
		return nil, liveQueue, err
	}

	refs := make([]*outline.Question, len(created))
	for i := range created {
		refs[i] = &created[i]
	}

	updated := progression.InsertFollowUps(liveQueue, parentID, refs)
	if len(updated) == len(liveQueue) {
		// Parent already answered and gone from the queue — an expected
		// race, not an error.
		observe.Logger(ctx).Warn("follow-up parent absent from live queue",
			"project_id", projectID,
			"parent_question_id", parentID,
			"follow_ups", len(created),
		)
		s.metrics.RecordFollowUpInsertion(ctx, "dangling_parent", len(created))
		return created, liveQueue, nil
	}

	s.metrics.RecordFollowUpInsertion(ctx, "spliced", len(created))
	return created, updated, nil
}

// GenerateFollowUps asks the content-generation collaborator for follow-up
// drafts to the parent question's transcribed answer, persists them, and
// splices them into liveQueue. A generator returning zero drafts leaves
// everything unchanged.
func (s *Service) GenerateFollowUps(ctx context.Context, projectID, parentID string, liveQueue []*outline.Question) ([]outline.Question, []*outline.Question, error) {
	if s.generator == nil {
		return nil, liveQueue, ErrNoGenerator
	}

	ctx, span := observe.StartSpan(ctx, "interview.GenerateFollowUps")
	defer span.End()

	snap, err := s.Snapshot(ctx, projectID)
	if err != nil {
		return nil, liveQueue, err
	}
	parent, ok := snap.Outline.Question(parentID)
	if !ok {
		return nil, liveQueue, fmt.Errorf("interview: generate follow-ups: question %q not found in project %q", parentID, projectID)
	}

	req := generate.Request{
		ProjectID:        projectID,
		ParentQuestionID: parentID,
		ParentText:       parent.Text,
		MaxFollowUps:     s.maxFollowUps,
	}
	if rec, ok := snap.Answers.Transcribed(parentID); ok {
		req.AnswerText = rec.Text
	}

	draftsOut, err := s.generator.FollowUps(ctx, req)
	if err != nil {
		return nil, liveQueue, fmt.Errorf("interview: generate follow-ups for %q: %w", parentID, err)
	}
	if len(draftsOut) == 0 {
		return nil, liveQueue, nil
	}
	if len(draftsOut) > s.maxFollowUps {
		draftsOut = draftsOut[:s.maxFollowUps]
	}

	drafts := make([]outline.FollowUpDraft, len(draftsOut))
	for i, d := range draftsOut {
		drafts[i] = outline.FollowUpDraft{Text: d.Text, Ord: d.Ord}
	}
	return s.RecordFollowUps(ctx, projectID, parentID, drafts, liveQueue)
}

// RefreshSpeechAudio probes the synthesis collaborator for every question
// whose prompt audio is not ready yet and persists the transitions. It
// returns the number of questions whose state changed.
//
// Probes run with bounded concurrency; state writes happen sequentially
// after all probes finish so a failed probe never leaves a half-applied
// batch ordering.
func (s *Service) RefreshSpeechAudio(ctx context.Context, projectID string) (int, error) {
	if s.synth == nil {
		return 0, ErrNoSynthesis
	}

	ctx, span := observe.StartSpan(ctx, "interview.RefreshSpeechAudio")
	defer span.End()

	tree, err := s.outlines.Load(ctx, projectID)
	if err != nil {
		return 0, err
	}

	var pending []*outline.Question
	tree.EachQuestion(func(ch *outline.Chapter, sec *outline.Section, q *outline.Question) {
		if ch.Omitted || sec.Omitted || q.Omitted {
			return
		}
		if q.AudioState != outline.AudioReady {
			pending = append(pending, q)
		}
	})
	if len(pending) == 0 {
		return 0, nil
	}

	states := make([]outline.AudioState, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.synthConcurrency)
	for i, q := range pending {
		g.Go(func() error {
			status, err := s.synth.AudioStatus(gctx, q.ID)
			if err != nil {
				return fmt.Errorf("interview: audio status for %q: %w", q.ID, err)
			}
			states[i] = audioStateOf(status)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	changed := 0
	for i, q := range pending {
		if states[i] == "" || states[i] == q.AudioState {
			continue
		}
		if err := s.outlines.SetAudioState(ctx, q.ID, states[i]); err != nil {
			s.metrics.RecordStoreError(ctx, "outline", "set_audio_state")
			return changed, err
		}
		changed++
	}
	return changed, nil
}

// audioStateOf maps a collaborator status onto the persisted audio state.
func audioStateOf(status synthesis.Status) outline.AudioState {
	switch status {
	case synthesis.StatusReady:
		return outline.AudioReady
	case synthesis.StatusFailed:
		return outline.AudioFailed
	case synthesis.StatusPending:
		return outline.AudioPending
	}
	return ""
}

// AssembleTranscript builds the ordered content-block transcript for a
// project. [transcript.ErrNoTranscribableContent] passes through untouched
// so callers can distinguish "nothing to show yet" from real failures.
func (s *Service) AssembleTranscript(ctx context.Context, projectID string) ([]transcript.Block, error) {
	ctx, span := observe.StartSpan(ctx, "interview.AssembleTranscript")
	defer span.End()

	start := time.Now()
	snap, err := s.Snapshot(ctx, projectID)
	if err != nil {
		s.metrics.RecordAssembleRun(ctx, "error")
		return nil, err
	}

	blocks, err := transcript.Assemble(snap.Outline, snap.Answers, s.norm)
	s.metrics.AssembleDuration.Record(ctx, time.Since(start).Seconds())
	switch {
	case errors.Is(err, transcript.ErrNoTranscribableContent):
		s.metrics.RecordAssembleRun(ctx, "no_content")
		return nil, err
	case err != nil:
		s.metrics.RecordAssembleRun(ctx, "error")
		return nil, err
	}
	s.metrics.RecordAssembleRun(ctx, "ok")
	return blocks, nil
}
