// Package normalize post-processes raw decoder output into the text callers
// receive. Every normalizer is idempotent.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"draftsmith/internal/task"
)

// Email framing added when the model leaves it out.
const (
	DefaultGreeting = "Dear Manager,"
	DefaultSignOff  = "Best regards,\n[Your Name]"
)

var (
	// Bullets ("- x", "• x", "* x", or a bare bullet line) and numbered
	// markers ("1.", "2)") at line start.
	listMarker  = regexp.MustCompile(`(?m)^\s*(?:[-•*]+(?:[^\S\n]+|$)|[-•\d]+\s*[\.\)]\s*)`)
	blankRuns   = regexp.MustCompile(`\n{3,}`)
	hasGreeting = regexp.MustCompile(`(?i)^(Dear|Hello|Hi)\b`)
	hasSignOff  = regexp.MustCompile(`(?i)\b(Sincerely|Best regards|Kind regards|Regards)\b`)
)

// Func is a normalizer.
type Func func(string) string

// For returns the normalizer of a task. Unknown tasks only trim.
func For(name task.Name) Func {
	if name == task.Email {
		return Email
	}
	return Trim
}

// Trim strips leading and trailing whitespace.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// Email repairs a leave email: bullet and numbered markers at line starts are
// removed, runs of blank lines collapse to one, and a greeting and sign-off
// are added when missing.
func Email(s string) string {
	text := strings.TrimSpace(s)
	// Removing one marker can expose another ("1. 2. x"), so strip until stable.
	for {
		next := strings.TrimSpace(listMarker.ReplaceAllString(text, ""))
		if next == text {
			break
		}
		text = next
	}
	text = strings.TrimSpace(blankRuns.ReplaceAllString(text, "\n\n"))

	if !hasGreeting.MatchString(text) {
		text = DefaultGreeting + "\n\n" + text
	}
	if !hasSignOff.MatchString(text) {
		text = strings.TrimRightFunc(text, unicode.IsSpace) + "\n\n" + DefaultSignOff
	}
	return text
}
