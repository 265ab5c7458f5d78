// Package classifier decides, from free text alone, whether a chat turn should
// end the conversation or be declined without calling the model.
package classifier

import (
	"strings"
)

// terminationPhrases end a conversation when found anywhere in a message.
var terminationPhrases = []string{
	"bye", "goodbye", "exit", "quit", "done", "stop", "end", "close",
	"thanks", "thank you", "that's all", "nothing else", "see you",
}

// TerminationPhrases returns a copy of the phrases that end a conversation.
func TerminationPhrases() []string {
	out := make([]string, len(terminationPhrases))
	copy(out, terminationPhrases)
	return out
}

// ShouldTerminate reports whether message asks to end the conversation.
//
// Matching is by substring on the trimmed, lowercased message, so "weekend"
// matches "end" and "I'm done figuring this out" matches "done". Ending early
// is cheap for the user, and callers rely on this exact behavior.
func ShouldTerminate(message string) bool {
	normalized := strings.ToLower(strings.TrimSpace(message))
	for _, phrase := range terminationPhrases {
		if normalized == phrase || strings.Contains(normalized, phrase) {
			return true
		}
	}
	return false
}
