// Package leave holds the date arithmetic behind leave-request drafts.
package leave

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date format produced by the resolver.
const DateLayout = "2006-01-02"

// inputLayout also accepts unpadded months and days ("2024-3-1").
const inputLayout = "2006-1-2"

// maxDurationDays keeps start+duration inside the four-digit year range.
const maxDurationDays = 3652059

// ReturnDate is either a resolved calendar date or unknown.
// The zero value is unknown.
type ReturnDate struct {
	date     time.Time
	resolved bool
}

// Unknown is the unresolved return date.
var Unknown = ReturnDate{}

// Resolved builds a known return date.
func Resolved(d time.Time) ReturnDate {
	return ReturnDate{date: d, resolved: true}
}

// Date returns the resolved date and whether it is known.
func (r ReturnDate) Date() (time.Time, bool) {
	return r.date, r.resolved
}

// IsKnown reports whether the date was resolved.
func (r ReturnDate) IsKnown() bool {
	return r.resolved
}

// String renders the date in DateLayout, or "" when unknown.
func (r ReturnDate) String() string {
	if !r.resolved {
		return ""
	}
	return r.date.Format(DateLayout)
}

// ResolveReturnDate computes start + duration days.
// Blank input, a malformed date, a non-integer or negative duration, or a
// result past year 9999 all yield Unknown.
func ResolveReturnDate(startDate, durationDays string) ReturnDate {
	startDate = strings.TrimSpace(startDate)
	durationDays = strings.TrimSpace(durationDays)
	if startDate == "" || durationDays == "" {
		return Unknown
	}

	start, err := time.Parse(inputLayout, startDate)
	if err != nil {
		return Unknown
	}
	days, err := strconv.Atoi(durationDays)
	if err != nil || days < 0 || days > maxDurationDays {
		return Unknown
	}

	ret := start.AddDate(0, 0, days)
	if ret.Year() > 9999 {
		return Unknown
	}
	return Resolved(ret)
}

// Window is the leave period of one request. It is computed per request and
// never stored.
type Window struct {
	StartDate    string
	DurationDays string
	ReturnDate   string
}

// Complete fills ReturnDate from the start date and duration when the caller
// left it blank. A supplied return date is kept as is; an unresolvable one
// stays blank.
func (w Window) Complete() Window {
	if w.ReturnDate != "" || w.StartDate == "" || w.DurationDays == "" {
		return w
	}
	w.ReturnDate = ResolveReturnDate(w.StartDate, w.DurationDays).String()
	return w
}
