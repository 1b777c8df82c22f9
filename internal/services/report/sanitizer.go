package report

import "strings"

// emphasisMarker is the bold markup the model is told not to produce
const emphasisMarker = "**"

// Sanitize removes every "**" from generated text. Applying it twice gives
// the same result as applying it once.
func Sanitize(text string) string {
	return strings.ReplaceAll(text, emphasisMarker, "")
}
