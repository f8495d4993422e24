package task

import "strings"

// Field keys accepted from callers.
const (
	KeyTopic           = "topic"
	KeyKeywords        = "keywords"
	KeyTone            = "tone"
	KeyText            = "text"
	KeyRecipientName   = "recipient_name"
	KeyReason          = "reason"
	KeyStartDate       = "start_date"
	KeyDurationDays    = "duration_days"
	KeyReturnDate      = "return_date"
	KeyHandoverName    = "handover_name"
	KeyHandoverContact = "handover_contact"
)

// Keys lists every accepted field key.
var Keys = []string{
	KeyTopic, KeyKeywords, KeyTone, KeyText,
	KeyRecipientName, KeyReason, KeyStartDate, KeyDurationDays, KeyReturnDate,
	KeyHandoverName, KeyHandoverContact,
}

// Defaults applied when a field is absent or blank.
const (
	DefaultTone      = "professional"
	DefaultSubject   = "Leave Application"
	DefaultRecipient = "Manager"
)

// Fields is the flat string mapping a caller supplies for a task.
// Missing keys read as the empty string; nothing is validated.
type Fields map[string]string

// Get returns the value for key, or "" when absent.
func (f Fields) Get(key string) string {
	if f == nil {
		return ""
	}
	return f[key]
}

// Or returns the value for key, or def when the value is empty.
func (f Fields) Or(key, def string) string {
	if v := f.Get(key); v != "" {
		return v
	}
	return def
}

// BlogFields are the inputs of the creative-write task.
type BlogFields struct {
	Topic    string
	Keywords []string
	Tone     string
}

// SummaryFields are the inputs of the summarize task.
type SummaryFields struct {
	Text string
}

// EmailFields are the inputs of the structured-draft (leave request) task.
// Empty strings mean "not supplied"; prompt building picks placeholders for them.
type EmailFields struct {
	Subject         string
	Tone            string
	Recipient       string
	Reason          string
	StartDate       string
	DurationDays    string
	ReturnDate      string
	HandoverName    string
	HandoverContact string
}

// Blog builds the creative-write record.
// keywords is split on "," in order; an empty value yields no keywords.
func (f Fields) Blog() BlogFields {
	var keywords []string
	if raw := f.Get(KeyKeywords); raw != "" {
		keywords = strings.Split(raw, ",")
	}
	return BlogFields{
		Topic:    f.Get(KeyTopic),
		Keywords: keywords,
		Tone:     f.Or(KeyTone, DefaultTone),
	}
}

// Summary builds the summarize record.
func (f Fields) Summary() SummaryFields {
	return SummaryFields{Text: f.Get(KeyText)}
}

// Email builds the structured-draft record.
func (f Fields) Email() EmailFields {
	return EmailFields{
		Subject:         f.Or(KeyTopic, DefaultSubject),
		Tone:            f.Or(KeyTone, DefaultTone),
		Recipient:       f.Or(KeyRecipientName, DefaultRecipient),
		Reason:          f.Get(KeyReason),
		StartDate:       f.Get(KeyStartDate),
		DurationDays:    f.Get(KeyDurationDays),
		ReturnDate:      f.Get(KeyReturnDate),
		HandoverName:    f.Get(KeyHandoverName),
		HandoverContact: f.Get(KeyHandoverContact),
	}
}
