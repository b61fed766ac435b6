package answer

import "context"

// Store persists answer records. Implementations must be safe for
// concurrent use.
//
// State transitions are forward-only; a transition method that finds the
// record in an unexpected state reports [ErrStateConflict].
type Store interface {
	// ListByProject returns every answer record for a project in creation
	// order.
	ListByProject(ctx context.Context, projectID string) ([]Record, error)

	// Create inserts a new record in [StatePending] and returns it. When
	// rec.ID is empty an id is generated.
	Create(ctx context.Context, rec *Record) error

	// MarkUploading moves a pending record to [StateUploading].
	MarkUploading(ctx context.Context, recordID string) error

	// MarkUploaded moves an uploading (or pending, for single-shot uploads)
	// record to [StateSuccess].
	MarkUploaded(ctx context.Context, recordID string) error

	// MarkTranscribed moves a successful record to [StateTranscribed] and
	// stores the transcript text.
	MarkTranscribed(ctx context.Context, recordID, text string) error

	// MarkTranscriptionFailed moves a successful record to
	// [StateTranscriptionFailed].
	MarkTranscriptionFailed(ctx context.Context, recordID string) error
}
