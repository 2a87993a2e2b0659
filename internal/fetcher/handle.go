package fetcher

import "sync"

// Handle is a locally dereferenceable image resource. It must be released
// exactly once when the image is no longer displayed; Release is safe against
// double calls but a forgotten one leaks the bytes for the process lifetime.
type Handle struct {
	mu          sync.Mutex
	data        []byte
	contentType string
	released    bool
}

// Bytes returns the image data, or nil after release.
func (h *Handle) Bytes() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.data
}

// ContentType returns the Content-Type reported by the image server.
func (h *Handle) ContentType() string {
	return h.contentType
}

// Release frees the image data.
func (h *Handle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.data = nil
	h.released = true
}

// Released reports whether the handle has been released.
func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}
