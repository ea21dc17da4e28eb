package attachment

import (
	"fmt"
	"log/slog"
	"slices"
)

// Buffer is the held set of a message being composed. It owns its items until
// Take hands them over to a sent message.
type Buffer struct {
	items []*Attachment
}

// NewBuffer returns an empty composition buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Add validates a new selection against the held set. Rejected candidates are
// returned for display. If the selection was non-empty and nothing from it
// survived, the held set is unchanged and a *ValidationError is returned.
func (b *Buffer) Add(candidates ...*Attachment) ([]Rejection, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	kept, rejected := Merge(b.items, candidates)

	survivors := 0
	for _, a := range kept {
		if slices.Contains(candidates, a) {
			survivors++
		}
	}
	for _, r := range rejected {
		if err := r.Attachment.Release(); err != nil {
			slog.Warn("release rejected attachment", "name", r.Attachment.Name, "error", err)
		}
	}
	if survivors == 0 {
		return rejected, &ValidationError{Rejected: rejected}
	}

	b.items = kept
	if len(rejected) > 0 {
		slog.Debug("attachments dropped", "kept", len(kept), "rejected", len(rejected))
	}
	return rejected, nil
}

// Remove drops the attachment at position i and releases its preview. The
// remaining items are not re-validated.
func (b *Buffer) Remove(i int) error {
	if i < 0 || i >= len(b.items) {
		return fmt.Errorf("no attachment at position %d", i+1)
	}
	removed := b.items[i]
	b.items = slices.Delete(b.items, i, i+1)
	return removed.Release()
}

// Take empties the buffer and transfers ownership of its items to the caller.
// Previews are kept alive.
func (b *Buffer) Take() []*Attachment {
	items := b.items
	b.items = nil
	return items
}

// Release discards every held attachment and its preview.
func (b *Buffer) Release() error {
	items := b.items
	b.items = nil
	return ReleaseAll(items)
}

// Items returns a copy of the held set in order.
func (b *Buffer) Items() []*Attachment {
	return slices.Clone(b.items)
}

// Len is the number of held attachments.
func (b *Buffer) Len() int {
	return len(b.items)
}
