// Package synthesis defines the contract for the speech-synthesis
// collaborator that produces spoken prompt audio for questions.
//
// Speech-mode interviews only present a question once its prompt audio is
// ready; this package supplies the readiness flag the progression engine's
// eligibility predicate consumes. Audio generation and storage happen
// entirely outside this repository.
package synthesis

import "context"

// Status is the readiness of a question's synthesized prompt audio.
type Status string

const (
	// StatusPending means synthesis is queued or running.
	StatusPending Status = "pending"

	// StatusReady means a playable artifact exists.
	StatusReady Status = "ready"

	// StatusFailed means synthesis failed and needs a retry.
	StatusFailed Status = "failed"
)

// Provider reports per-question prompt-audio readiness.
// Implementations must be safe for concurrent use.
type Provider interface {
	// AudioStatus returns the current synthesis status for a question's
	// prompt audio.
	AudioStatus(ctx context.Context, questionID string) (Status, error)
}
