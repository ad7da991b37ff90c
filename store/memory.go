package store

import (
	"fmt"
	"sync"

	"github.com/stratoctl/properties"
)

// Memory is a map-backed Store for tests and embedding. It keeps the same
// two-layer model as File and records every write attempt, so callers can
// verify that a failed operation never reached the store.
type Memory struct {
	mu       sync.Mutex
	user     map[string]string
	install  map[string]string
	attempts []string

	// InstallationWritable enables the installation scope. Set it before
	// first use.
	InstallationWritable bool
}

// NewMemory returns an empty in-memory store with the installation scope
// disabled.
func NewMemory() *Memory {
	return &Memory{
		user:    make(map[string]string),
		install: make(map[string]string),
	}
}

func key(section, name string) string { return section + "/" + name }

// Get returns the effective value: the user layer first, then installation.
func (m *Memory) Get(section, name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.user[key(section, name)]; ok {
		return v, true
	}
	v, ok := m.install[key(section, name)]
	return v, ok
}

// Set writes one scope, recording the attempt either way.
func (m *Memory) Set(section, name, value string, scope properties.Scope) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.attempts = append(m.attempts, fmt.Sprintf("set %s=%s@%s", key(section, name), value, scope))
	switch scope {
	case properties.ScopeUser:
		m.user[key(section, name)] = value
		return nil
	case properties.ScopeInstallation:
		if !m.InstallationWritable {
			return fmt.Errorf("%w: memory store has no installation layer", properties.ErrMissingInstallationConfig)
		}
		m.install[key(section, name)] = value
		return nil
	}
	return fmt.Errorf("unknown scope %v", scope)
}

// Delete removes one scope's value, recording the attempt.
func (m *Memory) Delete(section, name string, scope properties.Scope) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.attempts = append(m.attempts, fmt.Sprintf("delete %s@%s", key(section, name), scope))
	switch scope {
	case properties.ScopeUser:
		delete(m.user, key(section, name))
		return nil
	case properties.ScopeInstallation:
		if !m.InstallationWritable {
			return fmt.Errorf("%w: memory store has no installation layer", properties.ErrMissingInstallationConfig)
		}
		delete(m.install, key(section, name))
		return nil
	}
	return fmt.Errorf("unknown scope %v", scope)
}

// Attempts returns a copy of the recorded write attempts, oldest first.
func (m *Memory) Attempts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.attempts))
	copy(out, m.attempts)
	return out
}
