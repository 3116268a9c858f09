package notify

import "strings"

// appleScript builds the osascript "display notification" statement.
func appleScript(n Notification) string {
	script := "display notification " + appleQuote(n.Body) + " with title " + appleQuote(n.Title)
	if n.Sound {
		script += ` sound name "default"`
	}
	return script
}

// appleQuote returns s as an AppleScript string literal.
func appleQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
