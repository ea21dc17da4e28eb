package attachment

import (
	"fmt"
	"strings"
)

// Reason explains why an attachment was not kept.
type Reason string

const (
	ReasonType  Reason = "unsupported type"
	ReasonSize  Reason = "too large"
	ReasonLimit Reason = "limit reached"
)

// Rejection records an attachment that Merge dropped.
type Rejection struct {
	Attachment *Attachment
	Reason     Reason
}

// ValidationError is returned when an entire selection was rejected. It is a
// warning for the user; the held set is left untouched.
type ValidationError struct {
	Rejected []Rejection
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Rejected))
	for _, r := range e.Rejected {
		parts = append(parts, fmt.Sprintf("%s (%s)", r.Attachment.Name, r.Reason))
	}
	return "no attachment added: " + strings.Join(parts, ", ")
}

// Check reports whether a single attachment satisfies the type and size rules.
func Check(a *Attachment) (Reason, bool) {
	if !strings.HasPrefix(a.MimeType, MimePrefix) {
		return ReasonType, false
	}
	if a.Size > MaxBytes {
		return ReasonSize, false
	}
	return "", true
}

// Merge concatenates held and candidates in encounter order, drops items that
// fail Check, and keeps the first MaxCount survivors. The result is
// deterministic: earlier items always win.
func Merge(held, candidates []*Attachment) ([]*Attachment, []Rejection) {
	kept := make([]*Attachment, 0, MaxCount)
	var rejected []Rejection

	all := make([]*Attachment, 0, len(held)+len(candidates))
	all = append(all, held...)
	all = append(all, candidates...)

	for _, a := range all {
		if reason, ok := Check(a); !ok {
			rejected = append(rejected, Rejection{Attachment: a, Reason: reason})
			continue
		}
		if len(kept) == MaxCount {
			rejected = append(rejected, Rejection{Attachment: a, Reason: ReasonLimit})
			continue
		}
		kept = append(kept, a)
	}
	return kept, rejected
}
