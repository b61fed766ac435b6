package outline

import "context"

// FollowUpDraft is a follow-up question to append under an existing parent,
// as produced by the content-generation collaborator. Text is opaque to the
// engine; Ord is the collaborator's ordering hint among the drafts of one
// batch.
type FollowUpDraft struct {
	Text string
	Ord  int
}

// Store reads and extends the persisted outline tree for a project.
// Implementations must be safe for concurrent use.
//
// Nodes are never deleted: omission and skipping are flag updates, and the
// only structural mutation is appending follow-up questions.
type Store interface {
	// Project retrieves a project by id. Returns (nil, nil) if not found.
	Project(ctx context.Context, projectID string) (*Project, error)

	// Load reads the full outline tree for a project and returns it as an
	// [Outline] arena. Sibling order within each returned level is
	// (Ord, creation time, id) so that arena construction sees a stable
	// creation order.
	Load(ctx context.Context, projectID string) (*Outline, error)

	// AppendFollowUps atomically creates follow-up question rows under
	// parentID, in draft order, and returns the created questions. The
	// parent must exist, belong to the project, and must not itself be a
	// follow-up-of-a-follow-up chain violation — each draft's parent link
	// points directly at parentID.
	AppendFollowUps(ctx context.Context, projectID, parentID string, drafts []FollowUpDraft) ([]Question, error)

	// SetOmitted flags a chapter, section, or question as omitted (or clears
	// the flag). kind selects the node table.
	SetOmitted(ctx context.Context, kind NodeKind, nodeID string, omitted bool) error

	// SetSkipped flags a question as skipped (or clears the flag).
	SetSkipped(ctx context.Context, questionID string, skipped bool) error

	// SetAudioState records the synthesized prompt audio state for a
	// question.
	SetAudioState(ctx context.Context, questionID string, state AudioState) error
}

// NodeKind selects an outline node table for flag updates.
type NodeKind string

const (
	KindChapter  NodeKind = "chapter"
	KindSection  NodeKind = "section"
	KindQuestion NodeKind = "question"
)

// IsValid reports whether k is a recognised node kind.
func (k NodeKind) IsValid() bool {
	return k == KindChapter || k == KindSection || k == KindQuestion
}
