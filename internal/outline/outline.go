// Package outline defines the chapter → section → question tree for one
// interview project, together with the in-memory arena the progression and
// assembly engines walk.
//
// The tree has a fixed three-level shape. Nodes are created in bulk by the
// content-generation collaborator and are never deleted afterwards; they are
// only flag-mutated (omitted, skipped) or extended with follow-up questions
// appended under an existing parent. The [Outline] arena is rebuilt from a
// flat store read on every engine call — there is no lazy traversal and no
// shared mutable state between callers.
package outline

import (
	"fmt"
	"sort"
	"time"
)

// AudioState describes the synthesized prompt audio for a question, supplied
// by the speech-synthesis collaborator. Speech-mode interviews only present
// questions whose audio is [AudioReady].
type AudioState string

const (
	// AudioNone means synthesis has not been requested for the question.
	AudioNone AudioState = "none"

	// AudioPending means synthesis was requested but has not completed.
	AudioPending AudioState = "pending"

	// AudioReady means a playable audio artifact exists for the question.
	AudioReady AudioState = "ready"

	// AudioFailed means synthesis failed; the question stays ineligible in
	// speech mode until a retry succeeds.
	AudioFailed AudioState = "failed"
)

// IsValid reports whether s is a recognised audio state.
func (s AudioState) IsValid() bool {
	switch s {
	case AudioNone, AudioPending, AudioReady, AudioFailed:
		return true
	}
	return false
}

// Project is the interview a single outline belongs to.
type Project struct {
	ID    string
	Title string

	// SpeechInterview selects speech-mode eligibility: questions are only
	// presented once their prompt audio is [AudioReady].
	SpeechInterview bool

	CreatedAt time.Time
}

// Chapter is a top-level outline node. An omitted chapter excludes its whole
// subtree from progression and from the transcript.
type Chapter struct {
	ID        string
	ProjectID string
	Title     string

	// Ord orders the chapter among its siblings. Not globally unique.
	Ord int

	Omitted   bool
	CreatedAt time.Time
}

// Section is a mid-level outline node owned by a chapter.
type Section struct {
	ID        string
	ChapterID string
	Title     string
	Ord       int
	Omitted   bool
	CreatedAt time.Time
}

// Question is a leaf outline node owned by a section.
type Question struct {
	ID        string
	SectionID string
	Text      string
	Ord       int

	// Omitted excludes the question from progression and the transcript.
	Omitted bool

	// Skipped excludes the question from progression only. Unlike Omitted it
	// implies nothing about any other node.
	Skipped bool

	// IsFollowUp marks a question generated in response to a prior answer.
	IsFollowUp bool

	// ParentQuestionID links a follow-up to the question it clarifies. Empty
	// for base questions. The parent always lives in the same section and is
	// never itself a follow-up of this question.
	ParentQuestionID string

	// AudioState is the synthesized prompt audio state for speech interviews.
	AudioState AudioState

	CreatedAt time.Time
}

// Outline is the id-keyed arena for one project's tree. It is built once per
// engine call from a flat read and is immutable afterwards; sibling slices
// are kept in presentation order (Ord ascending, creation order breaking
// ties).
type Outline struct {
	chapters []*Chapter

	chapterByID  map[string]*Chapter
	sectionByID  map[string]*Section
	questionByID map[string]*Question

	sectionsByChapter  map[string][]*Section
	questionsBySection map[string][]*Question
}

// New builds an [Outline] arena from flat node slices, as read from the
// store. Slice order is taken as creation order and is preserved for
// siblings with equal Ord.
//
// New validates referential integrity: every section must reference a known
// chapter, every question a known section, and every follow-up a parent
// question in the same section that is not itself a follow-up. A violation
// is a data-integrity failure of the outline store and is returned as an
// error the caller should treat as fatal.
func New(chapters []Chapter, sections []Section, questions []Question) (*Outline, error) {
	o := &Outline{
		chapters:           make([]*Chapter, 0, len(chapters)),
		chapterByID:        make(map[string]*Chapter, len(chapters)),
		sectionByID:        make(map[string]*Section, len(sections)),
		questionByID:       make(map[string]*Question, len(questions)),
		sectionsByChapter:  make(map[string][]*Section, len(chapters)),
		questionsBySection: make(map[string][]*Question, len(sections)),
	}

	for i := range chapters {
		ch := &chapters[i]
		if _, dup := o.chapterByID[ch.ID]; dup {
			return nil, fmt.Errorf("outline: duplicate chapter id %q", ch.ID)
		}
		o.chapterByID[ch.ID] = ch
		o.chapters = append(o.chapters, ch)
	}

	for i := range sections {
		sec := &sections[i]
		if _, dup := o.sectionByID[sec.ID]; dup {
			return nil, fmt.Errorf("outline: duplicate section id %q", sec.ID)
		}
		if _, ok := o.chapterByID[sec.ChapterID]; !ok {
			return nil, fmt.Errorf("outline: section %q references unknown chapter %q", sec.ID, sec.ChapterID)
		}
		o.sectionByID[sec.ID] = sec
		o.sectionsByChapter[sec.ChapterID] = append(o.sectionsByChapter[sec.ChapterID], sec)
	}

	for i := range questions {
		q := &questions[i]
		if _, dup := o.questionByID[q.ID]; dup {
			return nil, fmt.Errorf("outline: duplicate question id %q", q.ID)
		}
		if _, ok := o.sectionByID[q.SectionID]; !ok {
			return nil, fmt.Errorf("outline: question %q references unknown section %q", q.ID, q.SectionID)
		}
		o.questionByID[q.ID] = q
		o.questionsBySection[q.SectionID] = append(o.questionsBySection[q.SectionID], q)
	}

	// Parent links are checked after all questions are indexed because a
	// follow-up row may precede its parent in the flat read.
	for _, q := range o.questionByID {
		if q.ParentQuestionID == "" {
			continue
		}
		parent, ok := o.questionByID[q.ParentQuestionID]
		if !ok {
			return nil, fmt.Errorf("outline: follow-up %q references unknown parent question %q", q.ID, q.ParentQuestionID)
		}
		if parent.SectionID != q.SectionID {
			return nil, fmt.Errorf("outline: follow-up %q and parent %q are in different sections", q.ID, q.ParentQuestionID)
		}
		if parent.ParentQuestionID == q.ID {
			return nil, fmt.Errorf("outline: follow-up cycle between %q and %q", q.ID, q.ParentQuestionID)
		}
	}

	sort.SliceStable(o.chapters, func(i, j int) bool {
		return o.chapters[i].Ord < o.chapters[j].Ord
	})
	for id := range o.sectionsByChapter {
		secs := o.sectionsByChapter[id]
		sort.SliceStable(secs, func(i, j int) bool { return secs[i].Ord < secs[j].Ord })
	}
	for id := range o.questionsBySection {
		qs := o.questionsBySection[id]
		sort.SliceStable(qs, func(i, j int) bool { return qs[i].Ord < qs[j].Ord })
	}

	return o, nil
}

// Chapters returns the chapters in presentation order. The returned slice
// must not be modified.
func (o *Outline) Chapters() []*Chapter { return o.chapters }

// SectionsOf returns the sections of a chapter in presentation order.
func (o *Outline) SectionsOf(chapterID string) []*Section {
	return o.sectionsByChapter[chapterID]
}

// QuestionsOf returns the questions of a section in presentation order.
func (o *Outline) QuestionsOf(sectionID string) []*Question {
	return o.questionsBySection[sectionID]
}

// Question looks up a question by id.
func (o *Outline) Question(id string) (*Question, bool) {
	q, ok := o.questionByID[id]
	return q, ok
}

// SectionOf returns the section owning q. The section always exists for a
// question obtained from this outline.
func (o *Outline) SectionOf(q *Question) *Section {
	return o.sectionByID[q.SectionID]
}

// ChapterOf returns the chapter owning q's section.
func (o *Outline) ChapterOf(q *Question) *Chapter {
	return o.chapterByID[o.sectionByID[q.SectionID].ChapterID]
}

// QuestionCount returns the number of questions in the outline.
func (o *Outline) QuestionCount() int { return len(o.questionByID) }

// EachQuestion walks every question in structural order — chapters by Ord,
// their sections by Ord, their questions by Ord — and calls fn with the
// question and its ancestors. This is the one traversal order every engine
// component derives its output order from.
func (o *Outline) EachQuestion(fn func(ch *Chapter, sec *Section, q *Question)) {
	for _, ch := range o.chapters {
		for _, sec := range o.sectionsByChapter[ch.ID] {
			for _, q := range o.questionsBySection[sec.ID] {
				fn(ch, sec, q)
			}
		}
	}
}
