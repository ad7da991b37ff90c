package properties

import (
	"errors"
	"fmt"
	"os"
	"slices"
)

// Kind classifies a property's value space. Coercion to the typed form
// happens once, at the getter boundary; the engine stores canonical strings
// everywhere else.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
)

// Callback supplies a fallback value when no higher-precedence layer yields
// one. Callbacks run on every resolution that reaches them, so they must be
// side-effect-free and cheap. ok=false means the callback has nothing to
// offer and the next callback (or the default) is consulted.
type Callback func() (value string, ok bool)

// CallbackHandle identifies one callback registration. Go function values
// are not comparable, so removal keys on the handle AddCallback returned
// rather than on the callback itself.
type CallbackHandle uint64

type callbackEntry struct {
	handle CallbackHandle
	fn     Callback
}

// Validator checks a canonical value before it is accepted. Validators must
// reject, not normalize; they never see an absent value.
type Validator func(value string) error

// Property is one named setting. It is immutable after construction except
// for its callback list, and it never stores a resolved value: every read
// recomputes through the Registry's precedence layers.
type Property struct {
	reg     *Registry
	section string
	name    string

	kind      Kind
	help      string
	hidden    bool
	internal  bool
	def       *string
	choices   []string
	validator Validator

	callbacks    []callbackEntry
	lastCallback CallbackHandle
}

// PropertyOption configures a property at construction time.
type PropertyOption func(*Property)

// WithHelp sets the property's help text.
func WithHelp(text string) PropertyOption {
	return func(p *Property) { p.help = text }
}

// WithDefault sets the static default, canonicalized to string form.
// The catalog is static data, so an unconvertible default panics.
func WithDefault(v any) PropertyOption {
	return func(p *Property) {
		s, err := canonicalString(v)
		if err != nil {
			panic(fmt.Sprintf("properties: bad default for [%s/%s]: %v", p.section, p.name, err))
		}
		p.def = &s
	}
}

// WithValidator sets the validator, replacing any previously installed one.
func WithValidator(fn Validator) PropertyOption {
	return func(p *Property) { p.validator = fn }
}

// WithChoices records the enumerated value set and installs a membership
// validator for it. A later WithValidator replaces that validator while the
// choice list stays for help and completion.
func WithChoices(choices ...string) PropertyOption {
	return func(p *Property) {
		p.choices = choices
		p.validator = choiceValidator(choices)
	}
}

// WithCallback appends a construction-time callback. Callbacks wired this
// way are part of the property's permanent shape; use AddCallback when the
// registration must be removable.
func WithCallback(fn Callback) PropertyOption {
	return func(p *Property) { p.appendCallback(fn) }
}

// Hidden omits the property from listings unless it has been explicitly
// persisted or the listing requests hidden entries.
func Hidden() PropertyOption {
	return func(p *Property) { p.hidden = true }
}

// Internal marks implementation-only state, excluded from every listing.
func Internal() PropertyOption {
	return func(p *Property) {
		p.internal = true
		p.hidden = true
	}
}

// Section returns the owning section's name.
func (p *Property) Section() string { return p.section }

// Name returns the property's name within its section.
func (p *Property) Name() string { return p.name }

// String returns the property path "section/name".
func (p *Property) String() string { return p.section + "/" + p.name }

// Kind returns the property's declared value kind.
func (p *Property) Kind() Kind { return p.kind }

// Help returns the help text.
func (p *Property) Help() string { return p.help }

// IsHidden reports whether the property is omitted from plain listings.
func (p *Property) IsHidden() bool { return p.hidden }

// IsInternal reports whether the property is implementation-only state.
func (p *Property) IsInternal() bool { return p.internal }

// Default returns the static default, if any.
func (p *Property) Default() (string, bool) {
	if p.def == nil {
		return "", false
	}
	return *p.def, true
}

// Choices returns the enumerated value set, if any.
func (p *Property) Choices() []string { return slices.Clone(p.choices) }

// EnvironmentName returns the environment variable consulted for this
// property: PREFIX + upper(section) + "_" + upper(name). The derivation is a
// stable public contract; external scripts depend on it.
func (p *Property) EnvironmentName() string { return p.reg.envName(p) }

// AddCallback appends a callback to the resolution chain and returns the
// handle that removes it again. Callbacks run in registration order.
func (p *Property) AddCallback(fn Callback) CallbackHandle {
	p.reg.mu.Lock()
	defer p.reg.mu.Unlock()
	return p.appendCallback(fn)
}

// RemoveCallback drops the registration identified by handle. Removing a
// handle twice, or one this property never issued, is a no-op.
func (p *Property) RemoveCallback(handle CallbackHandle) {
	p.reg.mu.Lock()
	defer p.reg.mu.Unlock()
	p.callbacks = slices.DeleteFunc(p.callbacks, func(e callbackEntry) bool {
		return e.handle == handle
	})
}

// appendCallback issues the next handle. Callers hold the registry lock.
func (p *Property) appendCallback(fn Callback) CallbackHandle {
	p.lastCallback++
	p.callbacks = append(p.callbacks, callbackEntry{handle: p.lastCallback, fn: fn})
	return p.lastCallback
}

// Validate runs the configured validator, if any, against value. It never
// normalizes; canonicalization happens before values reach the validator.
// Validator failures always surface as *InvalidValueError naming the
// property and the offending value.
func (p *Property) Validate(value string) error {
	if p.validator == nil {
		return nil
	}
	err := p.validator(value)
	if err == nil {
		return nil
	}
	var ive *InvalidValueError
	if errors.As(err, &ive) {
		return err
	}
	return &InvalidValueError{Property: p.String(), Value: value, Reason: err.Error()}
}

// Get resolves the property through the full precedence chain and validates
// the result. ok reports whether any layer produced a value; on a validation
// failure the value is discarded and the error returned.
func (p *Property) Get() (value string, ok bool, err error) {
	v, _, found := p.reg.resolve(p, throughDefault)
	if !found {
		return "", false, nil
	}
	if err := p.Validate(v); err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Require is Get for properties that must have a value. Absence fails with
// *RequiredPropertyError carrying the flag, persist and environment hints.
func (p *Property) Require() (string, error) {
	v, ok, err := p.Get()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", p.requiredError()
	}
	return v, nil
}

// GetBool resolves the property and coerces the result through the fixed
// boolean synonym table. Unlike Get it does not run the validator; stored
// legacy values are deliberately given the lenient reading.
func (p *Property) GetBool() (value bool, ok bool, err error) {
	v, _, found := p.reg.resolve(p, throughDefault)
	if !found {
		return false, false, nil
	}
	b, recognized := parseBool(v)
	if !recognized {
		return false, false, &InvalidValueError{
			Property: p.String(),
			Value:    v,
			Reason:   "not a recognized boolean (" + boolSynonyms() + ")",
		}
	}
	return b, true, nil
}

// RequireBool is GetBool for properties that must have a value.
func (p *Property) RequireBool() (bool, error) {
	b, ok, err := p.GetBool()
	if err != nil {
		return false, err
	}
	if !ok {
		return false, p.requiredError()
	}
	return b, nil
}

// GetInt resolves the property, validates the result, and parses it as an
// integer.
func (p *Property) GetInt() (value int, ok bool, err error) {
	v, _, found := p.reg.resolve(p, throughDefault)
	if !found {
		return 0, false, nil
	}
	if err := p.Validate(v); err != nil {
		return 0, false, err
	}
	n, err := parseInt(v)
	if err != nil {
		return 0, false, &InvalidValueError{
			Property: p.String(),
			Value:    v,
			Reason:   "not an integer",
		}
	}
	return n, true, nil
}

// RequireInt is GetInt for properties that must have a value.
func (p *Property) RequireInt() (int, error) {
	n, ok, err := p.GetInt()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, p.requiredError()
	}
	return n, nil
}

// Resolve reports the raw resolved value and the layer that produced it,
// without validation or coercion. Listing and diagnostics use it to show
// what is configured rather than what would be accepted.
func (p *Property) Resolve() Resolution {
	v, origin, found := p.reg.resolve(p, throughDefault)
	return Resolution{Value: v, Origin: origin, Found: found}
}

// IsExplicitlySet reports whether the property has a value from the
// invocation stack, the environment, or the persisted store. Callback and
// default values do not count as explicit.
func (p *Property) IsExplicitlySet() bool {
	_, _, found := p.reg.resolve(p, throughStore)
	return found
}

// Set validates value and binds it to the property's environment variable.
// The binding is process-scoped: it does not survive exit and does not touch
// the persisted store. Unset removes the binding.
func (p *Property) Set(value string) error {
	if err := p.Validate(value); err != nil {
		return err
	}
	return os.Setenv(p.EnvironmentName(), value)
}

// Unset removes the process-scoped environment binding for this property.
func (p *Property) Unset() error {
	return os.Unsetenv(p.EnvironmentName())
}

func (p *Property) requiredError() error {
	return &RequiredPropertyError{
		Property: p.String(),
		Flag:     p.reg.flagFor(p),
		EnvVar:   p.EnvironmentName(),
	}
}

// choiceValidator enforces membership in an enumerated value set.
func choiceValidator(choices []string) Validator {
	return func(value string) error {
		if slices.Contains(choices, value) {
			return nil
		}
		return fmt.Errorf("must be one of: %v", choices)
	}
}

// booleanValidator rejects values outside the boolean synonym tables. The
// boolean factory installs it so that persisting a malformed boolean fails
// fast, even though GetBool itself stays lenient about validation.
func booleanValidator() Validator {
	return func(value string) error {
		if _, ok := parseBool(value); !ok {
			return fmt.Errorf("not a recognized boolean (%s)", boolSynonyms())
		}
		return nil
	}
}

// integerValidator rejects values that do not parse as integers.
func integerValidator() Validator {
	return func(value string) error {
		if _, err := parseInt(value); err != nil {
			return fmt.Errorf("not an integer")
		}
		return nil
	}
}
