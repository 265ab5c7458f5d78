// Package shaper turns generation results into the text shown to the user.
// Successful replies are held to a word budget. Failures are mapped to fixed
// fallback messages so a turn always ends with something displayable.
package shaper

import (
	"strings"
)

// DefaultMaxWords is the word budget applied to generated replies.
const DefaultMaxWords = 100

// Ellipsis is appended to replies cut at the word budget.
const Ellipsis = "..."

// FailureReason classifies a failed generation call.
type FailureReason string

const (
	FailureNone       FailureReason = ""
	FailureRecitation FailureReason = "recitation"
	FailureSafety     FailureReason = "safety"
	FailureQuota      FailureReason = "quota"
	FailureOther      FailureReason = "other"
)

// Fixed fallback texts, one per failure reason.
const (
	RecitationText = "Sorry, I can't provide that specific content. Could you ask me something else or rephrase your question?"
	SafetyText     = "I can't respond to that request for safety reasons. Please try asking something else."
	QuotaText      = "I'm experiencing high traffic right now. Please try again in a moment."
	GenericText    = "I'm having some technical difficulties right now. Could you try asking your question again or rephrasing it?"
)

// Outcome is the display text for one generation result.
type Outcome struct {
	Text      string
	Truncated bool
	WordCount int
	Failure   FailureReason
}

// Shaper enforces a word budget on generated text.
type Shaper struct {
	maxWords int
}

// New creates a Shaper. A non-positive maxWords selects DefaultMaxWords.
func New(maxWords int) *Shaper {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}
	return &Shaper{maxWords: maxWords}
}

// MaxWords returns the word budget.
func (s *Shaper) MaxWords() int {
	return s.maxWords
}

// Shape trims text to the word budget. Text within budget is returned as is.
func (s *Shaper) Shape(text string) (string, bool) {
	words := strings.Fields(text)
	if len(words) <= s.maxWords {
		return text, false
	}
	return strings.Join(words[:s.maxWords], " ") + Ellipsis, true
}

// Resolve produces the display text for a generation result. A non-nil err
// is classified and replaced by its fallback text; it is never returned.
func (s *Shaper) Resolve(text string, err error) Outcome {
	if err != nil {
		reason := ClassifyFailure(err)
		return Outcome{Text: FailureText(reason), Failure: reason}
	}

	shaped, truncated := s.Shape(text)
	return Outcome{
		Text:      shaped,
		Truncated: truncated,
		WordCount: len(strings.Fields(text)),
	}
}

// Shape trims text to DefaultMaxWords.
func Shape(text string) (string, bool) {
	return New(DefaultMaxWords).Shape(text)
}

// ClassifyFailure maps a generation error to a FailureReason by the markers in
// its message. Recitation wins over safety, which wins over quota.
func ClassifyFailure(err error) FailureReason {
	if err == nil {
		return FailureNone
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "RECITATION"):
		return FailureRecitation
	case strings.Contains(msg, "SAFETY"):
		return FailureSafety
	case containsFold(msg, "quota"), containsFold(msg, "limit"):
		return FailureQuota
	default:
		return FailureOther
	}
}

// FailureText returns the fixed display text for reason.
func FailureText(reason FailureReason) string {
	switch reason {
	case FailureRecitation:
		return RecitationText
	case FailureSafety:
		return SafetyText
	case FailureQuota:
		return QuotaText
	default:
		return GenericText
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
