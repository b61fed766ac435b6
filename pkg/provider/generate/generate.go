// Package generate defines the contract for the content-generation
// collaborator that invents follow-up question text.
//
// The engine consumes its output as opaque text plus ordering hints and
// never interprets it. The production backend (an LLM service) lives
// outside this repository; tests and local runs use
// [github.com/voxtale/voxtale/pkg/provider/generate/mock].
package generate

import "context"

// Draft is one generated follow-up question. Ord orders the drafts of a
// single batch relative to each other.
type Draft struct {
	Text string
	Ord  int
}

// Request carries the context the generator needs to invent follow-ups for
// one just-answered question.
type Request struct {
	// ProjectID identifies the interview.
	ProjectID string

	// ParentQuestionID is the answered question the follow-ups clarify.
	ParentQuestionID string

	// ParentText is the parent question's text.
	ParentText string

	// AnswerText is the transcribed answer that prompted the follow-ups.
	// Empty when the answer has not been transcribed yet.
	AnswerText string

	// MaxFollowUps caps the batch size. Zero means the provider's default.
	MaxFollowUps int
}

// Provider produces follow-up question drafts for an answered question.
// Implementations must be safe for concurrent use.
type Provider interface {
	// FollowUps returns zero or more drafts for req, in presentation order.
	// An empty result means the answer needs no clarification and is not an
	// error.
	FollowUps(ctx context.Context, req Request) ([]Draft, error)
}
