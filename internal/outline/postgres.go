package outline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Schema is the SQL DDL for the outline tables. Execute it via
// [PostgresStore.Migrate] or apply it manually during deployment.
const Schema = `
CREATE TABLE IF NOT EXISTS projects (
    id                  TEXT PRIMARY KEY,
    title               TEXT NOT NULL,
    is_speech_interview BOOLEAN NOT NULL DEFAULT FALSE,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS chapters (
    id         TEXT PRIMARY KEY,
    project_id TEXT NOT NULL REFERENCES projects(id),
    title      TEXT NOT NULL,
    ord        INTEGER NOT NULL,
    omitted    BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS sections (
    id         TEXT PRIMARY KEY,
    chapter_id TEXT NOT NULL REFERENCES chapters(id),
    title      TEXT NOT NULL,
    ord        INTEGER NOT NULL,
    omitted    BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS questions (
    id                 TEXT PRIMARY KEY,
    section_id         TEXT NOT NULL REFERENCES sections(id),
    text               TEXT NOT NULL,
    ord                INTEGER NOT NULL,
    omitted            BOOLEAN NOT NULL DEFAULT FALSE,
    skipped            BOOLEAN NOT NULL DEFAULT FALSE,
    is_follow_up       BOOLEAN NOT NULL DEFAULT FALSE,
    parent_question_id TEXT REFERENCES questions(id),
    audio_state        TEXT NOT NULL DEFAULT 'none',
    created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_chapters_project ON chapters(project_id, ord);
CREATE INDEX IF NOT EXISTS idx_sections_chapter ON sections(chapter_id, ord);
CREATE INDEX IF NOT EXISTS idx_questions_section ON questions(section_id, ord);
CREATE INDEX IF NOT EXISTS idx_questions_parent ON questions(parent_question_id);
`

// DB is the database interface used by [PostgresStore]. Both *pgxpool.Pool
// and *pgx.Conn satisfy this interface.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresStore is a [Store] backed by a PostgreSQL database.
type PostgresStore struct {
	db DB
}

// Compile-time interface check.
var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a new [PostgresStore] that uses the given database
// connection or pool. The caller is responsible for calling
// [PostgresStore.Migrate] to ensure the schema exists before issuing queries.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate executes the [Schema] DDL against the database, creating the
// outline tables and indexes if they do not already exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("outline: migrate: %w", err)
	}
	return nil
}

// Project retrieves a project by id. It returns (nil, nil) if no project
// with the given id exists.
func (s *PostgresStore) Project(ctx context.Context, projectID string) (*Project, error) {
	const query = `
		SELECT id, title, is_speech_interview, created_at
		FROM projects
		WHERE id = $1`

	var p Project
	err := s.db.QueryRow(ctx, query, projectID).Scan(&p.ID, &p.Title, &p.SpeechInterview, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("outline: project %q: %w", projectID, err)
	}
	return &p, nil
}

// Load reads the project's full tree in three ordered queries and builds the
// [Outline] arena. Sibling order is (ord, created_at, id) so equal-ord nodes
// keep creation order, which [New] preserves through its stable sort.
func (s *PostgresStore) Load(ctx context.Context, projectID string) (*Outline, error) {
	chapters, err := s.loadChapters(ctx, projectID)
	if err != nil {
		return nil, err
	}
	sections, err := s.loadSections(ctx, projectID)
	if err != nil {
		return nil, err
	}
	questions, err := s.loadQuestions(ctx, projectID)
	if err != nil {
		return nil, err
	}

	o, err := New(chapters, sections, questions)
	if err != nil {
		return nil, fmt.Errorf("outline: load project %q: %w", projectID, err)
	}
	return o, nil
}

func (s *PostgresStore) loadChapters(ctx context.Context, projectID string) ([]Chapter, error) {
	const query = `
		SELECT id, project_id, title, ord, omitted, created_at
		FROM chapters
		WHERE project_id = $1
		ORDER BY ord, created_at, id`

	rows, err := s.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("outline: load chapters: %w", err)
	}
	defer rows.Close()

	var out []Chapter
	for rows.Next() {
		var ch Chapter
		if err := rows.Scan(&ch.ID, &ch.ProjectID, &ch.Title, &ch.Ord, &ch.Omitted, &ch.CreatedAt); err != nil {
			return nil, fmt.Errorf("outline: scan chapter: %w", err)
		}
		out = append(out, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("outline: load chapters: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) loadSections(ctx context.Context, projectID string) ([]Section, error) {
	const query = `
		SELECT s.id, s.chapter_id, s.title, s.ord, s.omitted, s.created_at
		FROM sections s
		JOIN chapters c ON c.id = s.chapter_id
		WHERE c.project_id = $1
		ORDER BY s.ord, s.created_at, s.id`

	rows, err := s.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("outline: load sections: %w", err)
	}
	defer rows.Close()

	var out []Section
	for rows.Next() {
		var sec Section
		if err := rows.Scan(&sec.ID, &sec.ChapterID, &sec.Title, &sec.Ord, &sec.Omitted, &sec.CreatedAt); err != nil {
			return nil, fmt.Errorf("outline: scan section: %w", err)
		}
		out = append(out, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("outline: load sections: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) loadQuestions(ctx context.Context, projectID string) ([]Question, error) {
	const query = `
		SELECT q.id, q.section_id, q.text, q.ord, q.omitted, q.skipped,
		       q.is_follow_up, COALESCE(q.parent_question_id, ''), q.audio_state, q.created_at
		FROM questions q
		JOIN sections s ON s.id = q.section_id
		JOIN chapters c ON c.id = s.chapter_id
		WHERE c.project_id = $1
		ORDER BY q.ord, q.created_at, q.id`

	rows, err := s.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("outline: load questions: %w", err)
	}
	defer rows.Close()

	var out []Question
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.SectionID, &q.Text, &q.Ord, &q.Omitted, &q.Skipped,
			&q.IsFollowUp, &q.ParentQuestionID, &q.AudioState, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("outline: scan question: %w", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("outline: load questions: %w", err)
	}
	return out, nil
}

// AppendFollowUps creates follow-up question rows under parentID inside a
// single transaction. The parent is validated first: it must exist, belong
// to projectID, and must not itself be a follow-up (follow-ups are created
// one level at a time, so a follow-up parent indicates a caller bug).
func (s *PostgresStore) AppendFollowUps(ctx context.Context, projectID, parentID string, drafts []FollowUpDraft) ([]Question, error) {
	if len(drafts) == 0 {
		return nil, nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("outline: append follow-ups: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const parentQuery = `
		SELECT q.section_id, q.is_follow_up
		FROM questions q
		JOIN sections s ON s.id = q.section_id
		JOIN chapters c ON c.id = s.chapter_id
		WHERE q.id = $1 AND c.project_id = $2`

	var sectionID string
	var parentIsFollowUp bool
	err = tx.QueryRow(ctx, parentQuery, parentID, projectID).Scan(&sectionID, &parentIsFollowUp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("outline: append follow-ups: parent question %q not found in project %q", parentID, projectID)
		}
		return nil, fmt.Errorf("outline: append follow-ups: %w", err)
	}
	if parentIsFollowUp {
		return nil, fmt.Errorf("outline: append follow-ups: parent question %q is itself a follow-up", parentID)
	}

	const insert = `
		INSERT INTO questions (id, section_id, text, ord, is_follow_up, parent_question_id, audio_state)
		VALUES ($1, $2, $3, $4, TRUE, $5, $6)
		RETURNING created_at`

	created := make([]Question, 0, len(drafts))
	for _, d := range drafts {
		q := Question{
			ID:               uuid.NewString(),
			SectionID:        sectionID,
			Text:             d.Text,
			Ord:              d.Ord,
			IsFollowUp:       true,
			ParentQuestionID: parentID,
			AudioState:       AudioNone,
		}
		if err := tx.QueryRow(ctx, insert, q.ID, q.SectionID, q.Text, q.Ord, parentID, q.AudioState).Scan(&q.CreatedAt); err != nil {
			return nil, fmt.Errorf("outline: append follow-up under %q: %w", parentID, err)
		}
		created = append(created, q)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("outline: append follow-ups: commit: %w", err)
	}
	return created, nil
}

// SetOmitted flags a node as omitted or clears the flag.
func (s *PostgresStore) SetOmitted(ctx context.Context, kind NodeKind, nodeID string, omitted bool) error {
	var query string
	switch kind {
	case KindChapter:
		query = `UPDATE chapters SET omitted = $2 WHERE id = $1`
	case KindSection:
		query = `UPDATE sections SET omitted = $2 WHERE id = $1`
	case KindQuestion:
		query = `UPDATE questions SET omitted = $2 WHERE id = $1`
	default:
		return fmt.Errorf("outline: set omitted: unknown node kind %q", kind)
	}

	tag, err := s.db.Exec(ctx, query, nodeID, omitted)
	if err != nil {
		return fmt.Errorf("outline: set omitted %s %q: %w", kind, nodeID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("outline: set omitted: %s %q not found", kind, nodeID)
	}
	return nil
}

// SetSkipped flags a question as skipped or clears the flag.
func (s *PostgresStore) SetSkipped(ctx context.Context, questionID string, skipped bool) error {
	tag, err := s.db.Exec(ctx, `UPDATE questions SET skipped = $2 WHERE id = $1`, questionID, skipped)
	if err != nil {
		return fmt.Errorf("outline: set skipped %q: %w", questionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("outline: set skipped: question %q not found", questionID)
	}
	return nil
}

// SetAudioState records the synthesized prompt audio state for a question.
func (s *PostgresStore) SetAudioState(ctx context.Context, questionID string, state AudioState) error {
	if !state.IsValid() {
		return fmt.Errorf("outline: set audio state: invalid state %q", state)
	}
	tag, err := s.db.Exec(ctx, `UPDATE questions SET audio_state = $2 WHERE id = $1`, questionID, state)
	if err != nil {
		return fmt.Errorf("outline: set audio state %q: %w", questionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("outline: set audio state: question %q not found", questionID)
	}
	return nil
}
