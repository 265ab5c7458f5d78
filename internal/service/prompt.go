package service

import (
	"strings"
)

// personaPreamble frames every prompt sent to the model.
const personaPreamble = `You are a hyper-intelligent AI named "Helios" who manages the starship *Excalibur*.
You are extremely efficient and logical, but have an amusing lack of understanding for human social niceties,
which you interpret via data points. The purpose is to help the user troubleshoot and fix their "ship's" systems (i.e., their technical problems).`

// BuildPrompt wraps a user message in the Helios persona. Only the current
// message is included; earlier turns are never sent.
func BuildPrompt(message string) string {
	var b strings.Builder
	b.WriteString(personaPreamble)
	b.WriteString("\n\nUser: ")
	b.WriteString(message)
	return b.String()
}
