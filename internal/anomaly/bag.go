package anomaly

import (
	"errors"

	"github.com/vovakirdan/anomaly-exit/internal/rng"
)

// ErrEmptyBag is returned by Dequeue when no slots are left.
var ErrEmptyBag = errors.New("anomaly: bag is empty")

// Bag hands out slots in a shuffled order without repeats until refilled.
type Bag struct {
	rnd   rng.Source
	items []*Slot
}

// NewBag creates an empty bag.
func NewBag(src rng.Source) *Bag {
	return &Bag{rnd: src}
}

// Fill replaces the contents with a uniform permutation of slots.
func (b *Bag) Fill(slots []*Slot) {
	b.items = make([]*Slot, len(slots))
	copy(b.items, slots)
	rng.Shuffle(b.rnd, len(b.items), func(i, j int) {
		b.items[i], b.items[j] = b.items[j], b.items[i]
	})
}

// Dequeue removes and returns the front slot.
func (b *Bag) Dequeue() (*Slot, error) {
	if len(b.items) == 0 {
		return nil, ErrEmptyBag
	}
	s := b.items[0]
	b.items[0] = nil
	b.items = b.items[1:]
	return s, nil
}

// Count returns how many slots remain.
func (b *Bag) Count() int {
	return len(b.items)
}

// IsEmpty reports whether the bag has no slots left.
func (b *Bag) IsEmpty() bool {
	return len(b.items) == 0
}
