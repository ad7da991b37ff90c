package properties

import (
	"fmt"
)

// Section is a namespace grouping related properties. Properties keep their
// registration order; sections themselves list in name order.
type Section struct {
	reg    *Registry
	name   string
	hidden bool
	order  []string
	props  map[string]*Property
}

// Name returns the section name.
func (s *Section) Name() string { return s.name }

// IsHidden reports whether the whole section is hidden. Hidden sections force
// every member property hidden.
func (s *Section) IsHidden() bool { return s.hidden }

// Add registers a string-kind property under this section. Registration is
// init-time wiring, so a duplicate or malformed name panics, the same way the
// flag package treats duplicate flag registration.
func (s *Section) Add(name string, opts ...PropertyOption) *Property {
	return s.add(name, KindString, nil, opts)
}

// AddBool registers a boolean property. The factory installs the true/false
// choice set and the boolean synonym validator, so persisting a malformed
// boolean fails fast.
func (s *Section) AddBool(name string, opts ...PropertyOption) *Property {
	shape := func(p *Property) {
		p.choices = []string{"true", "false"}
		p.validator = booleanValidator()
	}
	return s.add(name, KindBool, shape, opts)
}

// AddInt registers an integer property with the integer validator installed.
func (s *Section) AddInt(name string, opts ...PropertyOption) *Property {
	shape := func(p *Property) {
		p.validator = integerValidator()
	}
	return s.add(name, KindInt, shape, opts)
}

func (s *Section) add(name string, kind Kind, shape PropertyOption, opts []PropertyOption) *Property {
	if !isValidName(name) {
		panic(fmt.Sprintf("properties: invalid property name %q in section %q", name, s.name))
	}

	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	if _, exists := s.props[name]; exists {
		panic(fmt.Sprintf("properties: property %q already registered in section %q", name, s.name))
	}

	p := &Property{
		reg:     s.reg,
		section: s.name,
		name:    name,
		kind:    kind,
	}
	if shape != nil {
		shape(p)
	}
	for _, opt := range opts {
		opt(p)
	}
	s.forceHidden(p)

	s.props[name] = p
	s.order = append(s.order, name)
	return p
}

// forceHidden propagates section hidden-ness; a property cannot opt out of a
// hidden section.
func (s *Section) forceHidden(p *Property) {
	if s.hidden {
		p.hidden = true
	}
}

// Lookup returns the named property or an error wrapping ErrNoSuchProperty.
func (s *Section) Lookup(name string) (*Property, error) {
	s.reg.mu.RLock()
	defer s.reg.mu.RUnlock()

	p, ok := s.props[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNoSuchProperty, s.name, name)
	}
	return p, nil
}

// AllProperties returns the property names in registration order. Hidden
// properties are included only on request; internal names never appear.
func (s *Section) AllProperties(includeHidden bool) []string {
	s.reg.mu.RLock()
	defer s.reg.mu.RUnlock()

	names := make([]string, 0, len(s.order))
	for _, name := range s.order {
		p := s.props[name]
		if p.internal {
			continue
		}
		if p.hidden && !includeHidden {
			continue
		}
		names = append(names, name)
	}
	return names
}

// ListOptions controls AllValues visibility.
type ListOptions struct {
	// IncludeHidden lists hidden properties even when nothing set them.
	IncludeHidden bool
	// ListUnset lists visible properties that resolve to no value.
	ListUnset bool
}

// PropertyValue is one row of a listing: a property name plus its resolution.
type PropertyValue struct {
	Name string
	Resolution
}

// AllValues resolves every listable property of the section, in registration
// order. Internal properties never appear. Hidden properties appear when
// requested, or when the persisted store holds an explicit value for them so
// the user can see what they configured; environment and invocation-stack
// values do not lift hiding.
func (s *Section) AllValues(opts ListOptions) []PropertyValue {
	var out []PropertyValue
	for _, p := range s.snapshot() {
		if p.internal {
			continue
		}
		if p.hidden && !opts.IncludeHidden {
			if _, set := s.reg.persistedValue(p); !set {
				continue
			}
		}
		res := p.Resolve()
		if !res.Found && !opts.ListUnset {
			continue
		}
		out = append(out, PropertyValue{Name: p.name, Resolution: res})
	}
	return out
}

// snapshot returns the properties in registration order without holding the
// registry lock during later resolution.
func (s *Section) snapshot() []*Property {
	s.reg.mu.RLock()
	defer s.reg.mu.RUnlock()

	props := make([]*Property, 0, len(s.order))
	for _, name := range s.order {
		props = append(props, s.props[name])
	}
	return props
}

// isValidName reports whether a section or property name is well formed:
// lowercase alphanumerics and underscores, starting with a letter. The shape
// keeps names usable as environment variable fragments and file keys.
func isValidName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r == '_' && i > 0:
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
