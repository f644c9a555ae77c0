package hook

import "sync"

// Entry is a single watch request: notify Target whenever Key goes down or
// up while Target holds focus, provided at least one modifier in Mods is
// active (a zero mask matches unconditionally). Block additionally
// suppresses the keystroke from the rest of the system.
//
// Entries compare by value on all four fields; two equal entries are
// interchangeable.
type Entry struct {
	Target Window
	Key    uint32
	Mods   Modifiers
	Block  bool
}

// Registry is the deduplicated, insertion-ordered collection of watch
// entries. Registration may happen from any goroutine while the hook
// callback scans; scans operate on the slice snapshot taken under the read
// lock, so they see either the pre- or post-registration set.
//
// Entries persist for the life of the registry. There is deliberately no
// removal operation; a subscriber's effect ends only when the hook itself
// is uninstalled.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds e unless a value-equal entry already exists. Idempotent.
func (r *Registry) Register(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, have := range r.entries {
		if have == e {
			return
		}
	}
	r.entries = append(r.entries, e)
}

// Matches returns, in insertion order, every entry whose target is focus and
// whose key code is key. The returned slice is a copy owned by the caller.
func (r *Registry) Matches(focus Window, key uint32) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Entry
	for _, e := range r.entries {
		if e.Target == focus && e.Key == key {
			out = append(out, e)
		}
	}
	return out
}

// Entries returns a copy of all registered entries in insertion order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
