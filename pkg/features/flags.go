// Package features holds named runtime feature flags.
package features

import (
	"maps"
	"slices"
	"sync"
)

// Flags is a set of registered boolean flags. Only registered names can be
// enabled, disabled or toggled; Load registers whatever it is given.
type Flags struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// New returns an empty flag set.
func New() *Flags {
	return &Flags{flags: make(map[string]bool)}
}

// FromMap returns a flag set loaded from m.
func FromMap(m map[string]bool) *Flags {
	f := New()
	f.Load(m)
	return f
}

// Register adds name with a default value, overwriting any current value.
func (f *Flags) Register(name string, def bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flags[name] = def
}

// Get reports whether name is enabled. Unknown names are disabled.
func (f *Flags) Get(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.flags[name]
}

// Has reports whether name is registered.
func (f *Flags) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.flags[name]
	return ok
}

// Names returns the registered names in sorted order.
func (f *Flags) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Sorted(maps.Keys(f.flags))
}

// Enable turns name on. It returns false if name is not registered.
func (f *Flags) Enable(name string) bool {
	return f.set(name, true)
}

// Disable turns name off. It returns false if name is not registered.
func (f *Flags) Disable(name string) bool {
	return f.set(name, false)
}

// Toggle flips name and returns its new value. ok is false if name is not
// registered.
func (f *Flags) Toggle(name string) (enabled, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.flags[name]
	if !ok {
		return false, false
	}
	f.flags[name] = !cur
	return !cur, true
}

// Load registers every entry of m with its value.
func (f *Flags) Load(m map[string]bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	maps.Copy(f.flags, m)
}

// Export returns a copy of all flags.
func (f *Flags) Export() map[string]bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return maps.Clone(f.flags)
}

func (f *Flags) set(name string, on bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.flags[name]; !ok {
		return false
	}
	f.flags[name] = on
	return true
}
