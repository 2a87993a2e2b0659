package fetcher

import (
	"context"
	"sync"
)

// DisplaySlot binds at most one outstanding image handle for a single display
// position. Rebinding releases the previous handle; a fetch result arriving
// after the slot was closed is released and discarded, so a late network
// round trip never resurrects a torn-down view.
type DisplaySlot struct {
	mu     sync.Mutex
	handle *Handle
	closed bool
}

func NewDisplaySlot() *DisplaySlot {
	return &DisplaySlot{}
}

// Bind installs a handle, releasing whatever was bound before. It returns
// false when the slot is already closed, in which case the handle is released
// on the caller's behalf (stale-result discard).
func (s *DisplaySlot) Bind(h *Handle) bool {
	if h == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		h.Release()
		return false
	}

	if s.handle != nil {
		s.handle.Release()
	}
	s.handle = h
	return true
}

// Display fetches the reference and binds the result. An empty reference is
// skipped without a network attempt.
func (s *DisplaySlot) Display(ctx context.Context, f *Fetcher, reference string) error {
	if reference == "" {
		return ErrEmptyReference
	}

	handle, err := f.Fetch(ctx, reference)
	if err != nil {
		return err
	}

	s.Bind(handle)
	return nil
}

// Handle returns the currently bound handle, or nil.
func (s *DisplaySlot) Handle() *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

// Close tears the slot down, releasing any bound handle. Safe to call more
// than once.
func (s *DisplaySlot) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle != nil {
		s.handle.Release()
		s.handle = nil
	}
	s.closed = true
}
