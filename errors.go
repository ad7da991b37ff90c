package properties

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSuchSection is returned when a property path names an unknown section.
	ErrNoSuchSection = errors.New("no such section")

	// ErrNoSuchProperty is returned when a property path names an unknown
	// property within a known section.
	ErrNoSuchProperty = errors.New("no such property")

	// ErrMissingInstallationConfig is returned when a persist targets the
	// installation scope but no installation store root is available.
	ErrMissingInstallationConfig = errors.New("installation configuration is not available")

	// ErrInvalidPropertyPath is returned when a property path is not of the
	// form "section/name".
	ErrInvalidPropertyPath = errors.New("invalid property path")

	// ErrNoStore is returned when a persist runs against a registry built
	// without a store.
	ErrNoStore = errors.New("no persisted store configured")
)

// InvalidValueError reports a value rejected by a property's validator or by
// typed coercion. The message always names the property and the offending
// value.
type InvalidValueError struct {
	Property string // "section/name"
	Value    string
	Reason   string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %q for property [%s]: %s", e.Value, e.Property, e.Reason)
}

// RequiredPropertyError reports a required property that resolved to no value
// at any layer. The message carries actionable remediation: the originating
// flag when the current invocation recorded one, the persist command, and the
// environment variable override.
type RequiredPropertyError struct {
	Property string // "section/name"
	Flag     string // e.g. "--zone", empty when no flag binding was recorded
	EnvVar   string // e.g. "STRATO_COMPUTE_ZONE"
}

func (e *RequiredPropertyError) Error() string {
	msg := fmt.Sprintf("required property [%s] is not set", e.Property)
	if e.Flag != "" {
		msg += fmt.Sprintf("; pass the [%s] flag for this command only", e.Flag)
	}
	msg += fmt.Sprintf("; set it with [stratocfg config set %s VALUE] or the [%s] environment variable",
		e.Property, e.EnvVar)
	return msg
}
