// Package task defines the generation tasks draftsmith understands, the model
// family each one runs on, and the typed field records built from the loosely
// typed form input.
package task

// Name is the external name of a generation task as sent by callers.
type Name string

const (
	Blog    Name = "blog"    // creative-write
	Summary Name = "summary" // summarize
	Email   Name = "email"   // structured-draft
)

// Family selects the model pair a task runs on.
type Family string

const (
	FamilyCreative  Family = "creative"
	FamilySummarize Family = "summarize"
	FamilyDraft     Family = "draft"
)

// Families lists every family in registry order.
var Families = []Family{FamilyCreative, FamilySummarize, FamilyDraft}

// Parse maps an external task name to a known task.
// The second result is false for anything that is not one of the three tasks.
func Parse(s string) (Name, bool) {
	switch Name(s) {
	case Blog, Summary, Email:
		return Name(s), true
	default:
		return "", false
	}
}

// Family returns the model family for the task.
func (n Name) Family() Family {
	switch n {
	case Blog:
		return FamilyCreative
	case Summary:
		return FamilySummarize
	case Email:
		return FamilyDraft
	default:
		return ""
	}
}

// Valid reports whether the family is one of the fixed three.
func (f Family) Valid() bool {
	switch f {
	case FamilyCreative, FamilySummarize, FamilyDraft:
		return true
	default:
		return false
	}
}
