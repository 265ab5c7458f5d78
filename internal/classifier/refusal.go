package classifier

import (
	"strings"
)

// RefusalText is returned in place of a model reply for long-form requests.
const RefusalText = "I'd love to help, but I'm configured to give brief responses to save resources. " +
	"Could you ask for a specific aspect or a summary instead? " +
	"For example: 'What's the main purpose of life?' or 'Give me 3 key life tips.'"

// longFormTriggers mark a request as asking for long-form content.
var longFormTriggers = []string{
	"essay", "article", "story", "biography", "detailed explanation",
	"comprehensive", "full analysis", "complete guide", "entire", "whole",
	"long list", "detailed list", "write me a", "give me a full",
	"provide me a whole", "tell me everything about", "explain in detail",
}

// LongFormTriggers returns a copy of the long-form trigger phrases.
func LongFormTriggers() []string {
	out := make([]string, len(longFormTriggers))
	copy(out, longFormTriggers)
	return out
}

// ShouldRefuse reports whether message is a long-form request that should get
// RefusalText instead of a generated reply.
func ShouldRefuse(message string) bool {
	lower := strings.ToLower(message)
	for _, trigger := range longFormTriggers {
		if strings.Contains(lower, strings.ToLower(trigger)) {
			return true
		}
	}
	return false
}
