package properties

import (
	"os"
	"slices"
)

// Origin identifies the resolution layer that produced a value.
type Origin string

const (
	// OriginFlag marks a value supplied by the invocation stack.
	OriginFlag Origin = "flag"
	// OriginEnv marks a value read from the process environment.
	OriginEnv Origin = "env"
	// OriginStore marks a value from the persisted configuration store.
	OriginStore Origin = "store"
	// OriginCallback marks a value computed by a property callback.
	OriginCallback Origin = "callback"
	// OriginDefault marks the property's static default.
	OriginDefault Origin = "default"
)

// Resolution is the diagnostic view of a resolve: the raw value, the layer
// that produced it, and whether any layer produced one at all.
type Resolution struct {
	Value  string
	Origin Origin
	Found  bool
}

// stopLayer bounds how deep a resolve descends. The shallower bounds let
// IsExplicitlySet and listing visibility distinguish user-supplied values
// from derived and default ones.
type stopLayer int

const (
	throughStore    stopLayer = iota // stack, environment, store
	throughCallback                  // plus the callback chain
	throughDefault                   // plus the static default
)

// resolve computes a property's effective value by consulting, in order: the
// invocation stack from most- to least-recently pushed (skipping entries with
// no recorded value), the process environment, the persisted store, the
// callbacks in registration order, and the static default. Nothing is cached;
// the result is a pure function of those layers at the moment of the call.
//
// The stack and callback list are snapshotted under the read lock, then the
// layers run unlocked: the store may touch the filesystem and callbacks may
// resolve other properties.
func (r *Registry) resolve(p *Property, through stopLayer) (string, Origin, bool) {
	r.mu.RLock()
	var stackVal *string
	for i := len(r.stack) - 1; i >= 0; i-- {
		if e, ok := r.stack[i].entries[p]; ok && e.value != nil {
			stackVal = e.value
			break
		}
	}
	callbacks := slices.Clone(p.callbacks)
	def := p.def
	r.mu.RUnlock()

	if stackVal != nil {
		return *stackVal, OriginFlag, true
	}

	if v, ok := os.LookupEnv(r.envName(p)); ok {
		return v, OriginEnv, true
	}

	if v, ok := r.persistedValue(p); ok {
		return v, OriginStore, true
	}

	if through >= throughCallback {
		for _, cb := range callbacks {
			if v, ok := cb.fn(); ok {
				return v, OriginCallback, true
			}
		}
	}

	if through >= throughDefault && def != nil {
		return *def, OriginDefault, true
	}

	return "", "", false
}

// persistedValue probes the persisted store alone. Listing visibility relies
// on it: only an actual persisted value makes a hidden property visible, not
// an environment or stack override.
func (r *Registry) persistedValue(p *Property) (string, bool) {
	if r.store == nil {
		return "", false
	}
	return r.store.Get(p.section, p.name)
}

// flagFor reports the flag recorded for p nearest the top of the invocation
// stack. Entries recorded with a flag but no value still count; the hint is
// for RequiredPropertyError messages.
func (r *Registry) flagFor(p *Property) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.stack) - 1; i >= 0; i-- {
		if e, ok := r.stack[i].entries[p]; ok && e.flag != "" {
			return e.flag
		}
	}
	return ""
}
