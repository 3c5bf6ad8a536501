package genai

import (
	"context"
)

// GenerationKind tells the provider what shape of content to produce.
type GenerationKind string

const (
	KindCourseOutline GenerationKind = "course_outline"
	KindSlideDeck     GenerationKind = "slide_deck"
	KindAgentPersona  GenerationKind = "agent_persona"
)

// Request carries the parameters of one generation call.
type Request struct {
	Kind            GenerationKind
	Topic           string
	DurationMinutes int // for courses and agent sessions
	SlideCount      int // for decks
}

// Provider is the contract for any generation backend. Generate is a single
// fallible external call; its success or failure is the sole input to the
// caller's commit/refund decision.
type Provider interface {
	// Generate returns the produced content as a JSON document.
	Generate(ctx context.Context, req Request) ([]byte, error)
}
