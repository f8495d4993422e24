// Package prompt builds the single instruction string each task sends to its
// model. Builders are pure: the same record always yields the same prompt.
package prompt

import (
	"fmt"
	"strings"

	"draftsmith/internal/task"
)

const noKeywords = "None"

// Placeholders used in leave drafts when the caller left a date out.
const (
	StartDatePlaceholder  = "[start date]"
	ReturnDatePlaceholder = "[return date]"
	DefaultReason         = "personal reasons"
	noHandover            = "N/A"
)

// Blog builds the creative-write prompt.
func Blog(f task.BlogFields) string {
	kw := noKeywords
	if len(f.Keywords) > 0 {
		trimmed := make([]string, len(f.Keywords))
		for i, k := range f.Keywords {
			trimmed[i] = strings.TrimSpace(k)
		}
		kw = strings.Join(trimmed, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "### Task: Write a blog post\n")
	fmt.Fprintf(&b, "### Topic: %s\n", f.Topic)
	fmt.Fprintf(&b, "### Keywords: %s\n", kw)
	fmt.Fprintf(&b, "### Tone: %s\n", f.Tone)
	b.WriteString("### Requirements: 3–6 short paragraphs, clear structure, no preamble.\n\n")
	b.WriteString("Blog post:\n")
	return b.String()
}

// Summary wraps the source text verbatim. Truncation is left to the engine.
func Summary(f task.SummaryFields) string {
	return "Summarize this text clearly and concisely:\n\n" + f.Text + "\n\nSummary:"
}

// HandoverClause is the sentence naming who covers during the leave, or "" when
// neither a name nor a contact was given.
func HandoverClause(name, contact string) string {
	switch {
	case name != "" && contact != "":
		return fmt.Sprintf("%s (%s) will cover urgent matters in my absence.", name, contact)
	case name != "":
		return fmt.Sprintf("%s will cover urgent matters in my absence.", name)
	case contact != "":
		return fmt.Sprintf("A colleague at %s will cover urgent matters in my absence.", contact)
	default:
		return ""
	}
}

// Email builds the leave-request prompt. The return date must already be
// resolved by the caller; an empty one becomes a placeholder.
func Email(f task.EmailFields) string {
	recipient := orDefault(f.Recipient, task.DefaultRecipient)
	reason := orDefault(f.Reason, DefaultReason)
	start := orDefault(f.StartDate, StartDatePlaceholder)
	ret := orDefault(f.ReturnDate, ReturnDatePlaceholder)
	subject := orDefault(f.Subject, task.DefaultSubject)
	tone := orDefault(f.Tone, task.DefaultTone)

	durationLine := ""
	if f.DurationDays != "" {
		durationLine = fmt.Sprintf(" for %s days", f.DurationDays)
	}
	handover := orDefault(HandoverClause(f.HandoverName, f.HandoverContact), noHandover)

	var b strings.Builder
	fmt.Fprintf(&b, "Write a %s leave request email.\n", tone)
	fmt.Fprintf(&b, "Subject: %s\n", subject)
	fmt.Fprintf(&b, "To: %s\n", recipient)
	fmt.Fprintf(&b, "Reason: %s\n", reason)
	fmt.Fprintf(&b, "Start date: %s\n", start)
	fmt.Fprintf(&b, "Duration (days): %s\n", f.DurationDays)
	fmt.Fprintf(&b, "Expected return date: %s\n", ret)
	fmt.Fprintf(&b, "Handover: %s\n", handover)
	b.WriteString("Constraints:\n")
	b.WriteString("- Two short paragraphs (no bullets, no numbered lists, no attachments).\n")
	fmt.Fprintf(&b, "- Include reason, start date, expected return date%s, and explicit approval request.\n", durationLine)
	b.WriteString("- Offer to provide handover/support; include the handover sentence if provided.\n")
	b.WriteString("- Professional tone; 120–180 words.\n")
	fmt.Fprintf(&b, "- Start with 'Dear %s,' and end with a polite sign-off.\n\n", recipient)
	b.WriteString("Email:\n")
	return b.String()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
