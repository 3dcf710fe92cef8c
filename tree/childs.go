package tree

import (
	"fmt"
	"iter"
)

// Childs is an ordered child collection with a capacity fixed at creation.
// Slot order is layout order and hit-test order. A nil *Childs behaves as
// an empty collection that accepts nothing.
type Childs[T comparable] struct {
	items    []T
	capacity int
}

// NewChilds returns an empty collection that holds at most capacity items.
func NewChilds[T comparable](capacity int) (*Childs[T], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: capacity %d", ErrCapacity, capacity)
	}
	return &Childs[T]{items: make([]T, 0, capacity), capacity: capacity}, nil
}

// Add appends v. It fails without changing the collection when full.
func (c *Childs[T]) Add(v T) error {
	if c == nil {
		return fmt.Errorf("%w: no child slots", ErrCapacity)
	}
	if len(c.items) >= c.capacity {
		return fmt.Errorf("%w: %d/%d slots used", ErrCapacity, len(c.items), c.capacity)
	}
	c.items = append(c.items, v)
	return nil
}

// Remove deletes the first occurrence of v, keeping the order of the rest.
func (c *Childs[T]) Remove(v T) bool {
	i := c.Index(v)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

// Index returns the slot of v, or -1.
func (c *Childs[T]) Index(v T) int {
	if c == nil {
		return -1
	}
	for i, it := range c.items {
		if it == v {
			return i
		}
	}
	return -1
}

// Contains reports whether v is in the collection.
func (c *Childs[T]) Contains(v T) bool { return c.Index(v) >= 0 }

// Len returns the live count.
func (c *Childs[T]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Cap returns the declared capacity.
func (c *Childs[T]) Cap() int {
	if c == nil {
		return 0
	}
	return c.capacity
}

// At returns the item in slot i.
func (c *Childs[T]) At(i int) T { return c.items[i] }

// All iterates the live items in slot order.
func (c *Childs[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if c == nil {
			return
		}
		for i, it := range c.items {
			if !yield(i, it) {
				return
			}
		}
	}
}
