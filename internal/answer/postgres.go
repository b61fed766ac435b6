package answer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrStateConflict is returned by state-transition methods when the record
// is not in the state the transition expects. Transitions are forward-only;
// a conflict usually means two background jobs raced, and the caller should
// re-read the record rather than retry blindly.
var ErrStateConflict = errors.New("answer: record not in expected state")

// Schema is the SQL DDL for the answer_records table. Execute it via
// [PostgresStore.Migrate] or apply it manually during deployment.
const Schema = `
CREATE TABLE IF NOT EXISTS answer_records (
    id          TEXT PRIMARY KEY,
    project_id  TEXT NOT NULL,
    question_id TEXT NOT NULL REFERENCES questions(id),
    state       TEXT NOT NULL DEFAULT 'pending',
    text        TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_answer_records_project ON answer_records(project_id);
CREATE INDEX IF NOT EXISTS idx_answer_records_question ON answer_records(question_id);
`

// DB is the database interface used by [PostgresStore]. Both *pgxpool.Pool
// and *pgx.Conn satisfy this interface.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore is a [Store] backed by a PostgreSQL database.
type PostgresStore struct {
	db DB
}

// Compile-time interface check.
var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a new [PostgresStore] that uses the given
// database connection or pool.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate executes the [Schema] DDL against the database.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("answer: migrate: %w", err)
	}
	return nil
}

// ListByProject returns every answer record for a project ordered by
// creation, so [NewSet] sees a stable creation order.
func (s *PostgresStore) ListByProject(ctx context.Context, projectID string) ([]Record, error) {
	const query = `
		SELECT id, project_id, question_id, state, text, created_at, updated_at
		FROM answer_records
		WHERE project_id = $1
		ORDER BY created_at, id`

	rows, err := s.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("answer: list project %q: %w", projectID, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.ProjectID, &r.QuestionID, &r.State, &r.Text, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("answer: scan record: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("answer: list project %q: %w", projectID, err)
	}
	return out, nil
}

// Create inserts a new record in [StatePending]. An empty rec.ID is
// replaced with a generated uuid. rec is updated in place with the id and
// timestamps assigned by the database.
func (s *PostgresStore) Create(ctx context.Context, rec *Record) error {
	if rec.ProjectID == "" || rec.QuestionID == "" {
		return errors.New("answer: create: project id and question id are required")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.State = StatePending

	const query = `
		INSERT INTO answer_records (id, project_id, question_id, state)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := s.db.QueryRow(ctx, query, rec.ID, rec.ProjectID, rec.QuestionID, rec.State).
		Scan(&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("answer: create record for question %q: %w", rec.QuestionID, err)
	}
	return nil
}

// MarkUploading moves a pending record to [StateUploading].
func (s *PostgresStore) MarkUploading(ctx context.Context, recordID string) error {
	return s.transition(ctx, recordID, StateUploading, "", StatePending)
}

// MarkUploaded moves an uploading or pending record to [StateSuccess].
func (s *PostgresStore) MarkUploaded(ctx context.Context, recordID string) error {
	return s.transition(ctx, recordID, StateSuccess, "", StatePending, StateUploading)
}

// MarkTranscribed moves a successful record to [StateTranscribed] and
// stores the transcript text.
func (s *PostgresStore) MarkTranscribed(ctx context.Context, recordID, text string) error {
	return s.transition(ctx, recordID, StateTranscribed, text, StateSuccess)
}

// MarkTranscriptionFailed moves a successful record to
// [StateTranscriptionFailed].
func (s *PostgresStore) MarkTranscriptionFailed(ctx context.Context, recordID string) error {
	return s.transition(ctx, recordID, StateTranscriptionFailed, "", StateSuccess)
}

// transition applies a guarded forward state change. The WHERE clause on
// the current state is what makes transitions race-safe: a concurrent job
// that already moved the record leaves RowsAffected at zero and the caller
// gets [ErrStateConflict].
func (s *PostgresStore) transition(ctx context.Context, recordID string, to State, text string, from ...State) error {
	fromStrs := make([]string, len(from))
	for i, st := range from {
		fromStrs[i] = string(st)
	}

	const query = `
		UPDATE answer_records
		SET state = $2, text = CASE WHEN $3 <> '' THEN $3 ELSE text END, updated_at = now()
		WHERE id = $1 AND state = ANY($4)`

	tag, err := s.db.Exec(ctx, query, recordID, to, text, fromStrs)
	if err != nil {
		return fmt.Errorf("answer: mark %q %s: %w", recordID, to, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("answer: mark %q %s: %w", recordID, to, ErrStateConflict)
	}
	return nil
}
