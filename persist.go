package properties

import (
	"fmt"
	"os"
	"strings"
)

// Scope selects the durable layer a persist targets.
type Scope int

const (
	// ScopeUser writes into the currently active named configuration
	// profile. It is the default scope.
	ScopeUser Scope = iota
	// ScopeInstallation writes into the shared, installation-wide store.
	ScopeInstallation
)

func (s Scope) String() string {
	switch s {
	case ScopeUser:
		return "user"
	case ScopeInstallation:
		return "installation"
	}
	return fmt.Sprintf("scope(%d)", int(s))
}

// ParseScope maps the CLI spelling onto a Scope. The empty string selects
// the default user scope.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(s) {
	case "", "user":
		return ScopeUser, nil
	case "installation":
		return ScopeInstallation, nil
	}
	return 0, fmt.Errorf("invalid scope %q (want user or installation)", s)
}

// Store is the persisted configuration collaborator. Get returns the
// effective persisted value, the user profile overlaying installation
// defaults. Set and Delete write exactly one scope; implementations signal a
// missing installation root with an error wrapping
// ErrMissingInstallationConfig.
type Store interface {
	Get(section, name string) (value string, ok bool)
	Set(section, name, value string, scope Scope) error
	Delete(section, name string, scope Scope) error
}

// Persist validates value, then writes it durably at the given scope. The
// store stays untouched when validation fails. After a successful write, a
// live environment override for the same property logs a non-fatal warning:
// the write stands, only its visible effect is shadowed until the variable
// is cleared.
func (r *Registry) Persist(p *Property, value string, scope Scope) error {
	if err := p.Validate(value); err != nil {
		return err
	}
	if r.store == nil {
		return fmt.Errorf("persist [%s]: %w", p, ErrNoStore)
	}
	if err := r.store.Set(p.section, p.name, value, scope); err != nil {
		return fmt.Errorf("persist [%s]: %w", p, err)
	}

	if env, ok := os.LookupEnv(r.envName(p)); ok {
		r.log().Warn("environment override shadows the persisted value",
			"property", p.String(),
			"env", r.envName(p),
			"env_value", env,
			"persisted_value", value,
			"scope", scope.String())
	}
	return nil
}

// PersistDelete removes the durable value for p at the given scope. Deleting
// a value that was never set is not an error.
func (r *Registry) PersistDelete(p *Property, scope Scope) error {
	if r.store == nil {
		return fmt.Errorf("unset [%s]: %w", p, ErrNoStore)
	}
	if err := r.store.Delete(p.section, p.name, scope); err != nil {
		return fmt.Errorf("unset [%s]: %w", p, err)
	}
	return nil
}
