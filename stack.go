package properties

import "fmt"

// frameEntry records an override value and the flag that supplied it. A nil
// value records the flag binding alone: resolution skips the entry, but the
// flag still feeds RequiredPropertyError hints.
type frameEntry struct {
	value *string
	flag  string
}

// invocationFrame is one scope of property overrides, tied to one active
// command invocation.
type invocationFrame struct {
	entries map[*Property]frameEntry
}

func newInvocationFrame() *invocationFrame {
	return &invocationFrame{entries: make(map[*Property]frameEntry)}
}

// PushInvocation opens a new override frame. Every push must be matched by
// exactly one PopInvocation, on every exit path; prefer WithInvocation, which
// guarantees the pairing.
func (r *Registry) PushInvocation() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stack = append(r.stack, newInvocationFrame())
}

// PopInvocation discards the top override frame. The process-level frame is
// never popped; an unbalanced pop is a programming error and panics.
func (r *Registry) PopInvocation() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stack) == 1 {
		panic("properties: unbalanced invocation pop")
	}
	r.stack = r.stack[:len(r.stack)-1]
}

// WithInvocation runs fn inside a fresh invocation frame, popping it on
// every exit path including panics. Later commands in the same process must
// never observe overrides from a finished invocation.
func (r *Registry) WithInvocation(fn func() error) error {
	r.PushInvocation()
	defer r.PopInvocation()
	return fn()
}

// InvocationDepth returns the number of frames above the process-level
// frame.
func (r *Registry) InvocationDepth() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stack) - 1
}

// SetInvocationValue records an override for p in the top frame, tagged with
// the flag that supplied it (empty when none). The value is canonicalized to
// string form on entry; a nil value records only the flag binding, so error
// messages can suggest the flag even though no value arrived.
func (r *Registry) SetInvocationValue(p *Property, value any, flagName string) error {
	var vp *string
	if value != nil {
		s, err := canonicalString(value)
		if err != nil {
			return fmt.Errorf("invocation value for [%s]: %w", p, err)
		}
		vp = &s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	top := r.stack[len(r.stack)-1]
	top.entries[p] = frameEntry{value: vp, flag: flagName}
	return nil
}
