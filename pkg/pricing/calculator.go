package pricing

// ActionKind identifies a priced AI-generation action.
type ActionKind string

const (
	ActionCourse       ActionKind = "course"
	ActionVoiceAgent   ActionKind = "voice_agent"
	ActionPresentation ActionKind = "presentation"
)

// Rule holds the pricing constants for one action family.
// Cost is computed as max(Base + ceil(duration/Unit), Minimum).
// All constants must be positive integers.
type Rule struct {
	Base        int
	Unit        int // duration minutes covered per extra credit
	Minimum     int
	MinDuration int
	MaxDuration int
}

// rules is the per-kind pricing table. Course and voice-agent creation share
// the duration-based family; presentations bill per slide count expressed as
// a duration-equivalent with their own constants.
var rules = map[ActionKind]Rule{
	ActionCourse:       {Base: 2, Unit: 10, Minimum: 3, MinDuration: 5, MaxDuration: 120},
	ActionVoiceAgent:   {Base: 2, Unit: 10, Minimum: 3, MinDuration: 5, MaxDuration: 120},
	ActionPresentation: {Base: 1, Unit: 5, Minimum: 2, MinDuration: 1, MaxDuration: 60},
}

// RuleFor returns the pricing rule for the given kind.
func RuleFor(kind ActionKind) (Rule, bool) {
	r, ok := rules[kind]
	return r, ok
}

// ValidDuration reports whether duration falls inside the rule's allowed range.
// Callers must reject out-of-range durations before calling Cost.
func (r Rule) ValidDuration(duration int) bool {
	return duration >= r.MinDuration && duration <= r.MaxDuration
}

// Cost computes the credit cost for a pre-validated duration.
// It is total over the valid input range and never returns below Minimum.
func (r Rule) Cost(duration int) int {
	cost := r.Base + ceilDiv(duration, r.Unit)
	if cost < r.Minimum {
		return r.Minimum
	}
	return cost
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
