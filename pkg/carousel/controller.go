// Package carousel keeps the position of a slide viewer in step with the
// viewer itself.
//
// The controller owns the authoritative index. Navigation requested by the
// caller (Prev, Next, Reset) commands the viewer to seek and updates the
// index in one locked step; positions reported by the viewer
// (OnExternalSlide) are adopted without seeking back, which would otherwise
// echo the move.
package carousel

import "sync"

// Viewer is the externally driven widget that displays the items.
type Viewer interface {
	SeekTo(index int)
}

// ViewerFunc adapts a function to the Viewer interface.
type ViewerFunc func(index int)

func (f ViewerFunc) SeekTo(index int) { f(index) }

// Controller tracks the current index over a list of items.
type Controller[T any] struct {
	mu     sync.Mutex
	items  []T
	index  int
	viewer Viewer
}

// New returns a controller positioned at 0. viewer may be nil.
func New[T any](viewer Viewer, items ...T) *Controller[T] {
	return &Controller[T]{items: items, viewer: viewer}
}

// Prev moves one item back, stopping at the first item.
func (c *Controller[T]) Prev() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.moveLocked(max(c.index-1, 0))
}

// Next moves one item forward, stopping at the last item.
func (c *Controller[T]) Next() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.moveLocked(min(c.index+1, c.lastLocked()))
}

// OnExternalSlide records a position change made by the viewer. Out of range
// positions are clamped.
func (c *Controller[T]) OnExternalSlide(index int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = c.clampLocked(index)
	return c.index
}

// Reset replaces the items and rewinds the viewer to the first one.
func (c *Controller[T]) Reset(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	c.index = 0
	if c.viewer != nil {
		c.viewer.SeekTo(0)
	}
}

// Index returns the current position.
func (c *Controller[T]) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Len returns the number of items.
func (c *Controller[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Items returns a copy of the items.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Current returns the item at the current position; ok is false when there
// are no items.
func (c *Controller[T]) Current() (item T, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return item, false
	}
	return c.items[c.index], true
}

// AtStart reports whether Prev would not move.
func (c *Controller[T]) AtStart() bool {
	return c.Index() == 0
}

// AtEnd reports whether Next would not move.
func (c *Controller[T]) AtEnd() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index == c.lastLocked()
}

func (c *Controller[T]) moveLocked(next int) int {
	if c.viewer != nil {
		c.viewer.SeekTo(next)
	}
	c.index = next
	return c.index
}

func (c *Controller[T]) lastLocked() int {
	return max(len(c.items)-1, 0)
}

func (c *Controller[T]) clampLocked(i int) int {
	return min(max(i, 0), c.lastLocked())
}
