package leave

import (
	"strconv"
	"testing"
	"time"

	"pgregory.net/rapid"
)

func TestResolveReturnDate(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		duration string
		want     string
	}{
		{"simple", "2024-03-01", "5", "2024-03-06"},
		{"zero days", "2024-03-01", "0", "2024-03-01"},
		{"leap day", "2024-02-28", "1", "2024-02-29"},
		{"year rollover", "2023-12-30", "3", "2024-01-02"},
		{"whitespace", " 2024-03-01 ", " 5 ", "2024-03-06"},
		{"unpadded date", "2024-3-1", "5", "2024-03-06"},
		{"unpadded day", "2024-12-9", "1", "2024-12-10"},
		{"three-digit month", "2024-003-01", "1", ""},
		{"blank start", "", "5", ""},
		{"blank duration", "2024-03-01", "", ""},
		{"malformed date", "03/01/2024", "5", ""},
		{"impossible date", "2024-02-30", "1", ""},
		{"non-integer", "2024-03-01", "five", ""},
		{"fractional", "2024-03-01", "2.5", ""},
		{"negative", "2024-03-01", "-2", ""},
		{"past year 9999", "9999-12-31", "1", ""},
		{"overflowing duration", "2024-03-01", "99999999999999999999", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveReturnDate(tt.start, tt.duration)
			if got.String() != tt.want {
				t.Errorf("ResolveReturnDate(%q, %q) = %q, want %q", tt.start, tt.duration, got, tt.want)
			}
			if got.IsKnown() != (tt.want != "") {
				t.Errorf("IsKnown() = %v for %q", got.IsKnown(), tt.want)
			}
		})
	}
}

func TestUnknownZeroValue(t *testing.T) {
	var r ReturnDate
	if r.IsKnown() || r.String() != "" {
		t.Fatalf("zero ReturnDate should be unknown, got %q", r)
	}
	if _, ok := Unknown.Date(); ok {
		t.Fatal("Unknown.Date() reported a known date")
	}
}

func TestProperty_WellFormedInputAddsDays(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
		offset := rapid.IntRange(0, 3_000_000).Draw(t, "start_offset")
		start := base.AddDate(0, 0, offset)
		days := rapid.IntRange(0, 20_000).Draw(t, "duration_days")

		got := ResolveReturnDate(start.Format(DateLayout), strconv.Itoa(days))
		d, ok := got.Date()
		if !ok {
			t.Fatalf("start=%s days=%d should resolve", start.Format(DateLayout), days)
		}
		if diff := d.Sub(start); diff != time.Duration(days)*24*time.Hour {
			t.Fatalf("return date %s is %v after %s, want %d days", got, diff, start.Format(DateLayout), days)
		}
		if _, err := time.Parse(DateLayout, got.String()); err != nil {
			t.Fatalf("result %q does not round-trip the date layout: %v", got, err)
		}
	})
}

func TestProperty_MalformedInputIsUnknown(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		start := rapid.SampledFrom([]string{"", "2024-03-01", "not a date", "2024/03/01", "01-03-2024"}).Draw(t, "start")
		duration := rapid.OneOf(
			rapid.Just(""),
			rapid.StringMatching(`[a-z]{1,6}`),
			rapid.StringMatching(`-[1-9][0-9]{0,3}`),
			rapid.StringMatching(`[0-9]{1,3}\.[0-9]{1,2}`),
		).Draw(t, "duration")

		if got := ResolveReturnDate(start, duration); got.IsKnown() {
			t.Fatalf("ResolveReturnDate(%q, %q) = %q, want unknown", start, duration, got)
		}
	})
}

func TestWindowComplete(t *testing.T) {
	w := Window{StartDate: "2024-03-01", DurationDays: "5"}.Complete()
	if w.ReturnDate != "2024-03-06" {
		t.Errorf("ReturnDate = %q, want 2024-03-06", w.ReturnDate)
	}

	w = Window{StartDate: "2024-03-01", DurationDays: "5", ReturnDate: "2024-03-11"}.Complete()
	if w.ReturnDate != "2024-03-11" {
		t.Errorf("explicit return date overwritten: %q", w.ReturnDate)
	}

	w = Window{StartDate: "soon", DurationDays: "5"}.Complete()
	if w.ReturnDate != "" {
		t.Errorf("unresolvable window produced %q", w.ReturnDate)
	}
}
