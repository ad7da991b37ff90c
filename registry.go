package properties

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// DefaultEnvPrefix is the environment namespace for property overrides. A
// property (section, name) binds to DefaultEnvPrefix + SECTION + "_" + NAME,
// upper-cased.
const DefaultEnvPrefix = "STRATO_"

// Registry owns the sections, the invocation stack, and the collaborators
// resolution consults. Construct one per process and pass it to command
// handlers; there is no package-level instance.
type Registry struct {
	mu        sync.RWMutex
	envPrefix string
	sections  map[string]*Section
	stack     []*invocationFrame
	store     Store
	logger    *slog.Logger
	noCatalog bool

	// Typed handles for the standard catalog, nil with WithoutCatalog.
	Core         *CoreProperties
	Compute      *ComputeProperties
	Experimental *ExperimentalProperties
	Metrics      *MetricsProperties
}

// Option configures a Registry at construction.
type Option func(*Registry)

// WithStore wires the persisted configuration store consulted by resolution
// and written by Persist. Without it the store layer resolves to nothing and
// Persist fails.
func WithStore(s Store) Option {
	return func(r *Registry) { r.store = s }
}

// WithLogger pins the logger used for the persist shadow warning. Without it
// the registry follows slog.Default at emit time, so re-leveling the process
// logger after construction still takes effect.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithEnvPrefix overrides the environment namespace, trailing separator
// included. The default is DefaultEnvPrefix.
func WithEnvPrefix(prefix string) Option {
	return func(r *Registry) { r.envPrefix = prefix }
}

// WithoutCatalog builds a bare registry with no standard sections, for
// library consumers that define their own.
func WithoutCatalog() Option {
	return func(r *Registry) { r.noCatalog = true }
}

// NewRegistry builds a registry with the standard catalog installed (unless
// WithoutCatalog) and the process-level invocation frame in place.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		envPrefix: DefaultEnvPrefix,
		sections:  make(map[string]*Section),
		stack:     []*invocationFrame{newInvocationFrame()},
	}
	for _, opt := range opts {
		opt(r)
	}
	if !r.noCatalog {
		r.installCatalog()
	}
	return r
}

// AddSection registers a visible section. Section registration is init-time
// wiring, so a duplicate or malformed name panics.
func (r *Registry) AddSection(name string) *Section {
	return r.addSection(name, false)
}

// AddHiddenSection registers a section whose members are all forced hidden.
func (r *Registry) AddHiddenSection(name string) *Section {
	return r.addSection(name, true)
}

func (r *Registry) addSection(name string, hidden bool) *Section {
	if !isValidName(name) {
		panic(fmt.Sprintf("properties: invalid section name %q", name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sections[name]; exists {
		panic(fmt.Sprintf("properties: section %q already registered", name))
	}

	s := &Section{
		reg:    r,
		name:   name,
		hidden: hidden,
		props:  make(map[string]*Property),
	}
	r.sections[name] = s
	return s
}

// LookupSection returns the named section or an error wrapping
// ErrNoSuchSection.
func (r *Registry) LookupSection(name string) (*Section, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchSection, name)
	}
	return s, nil
}

// Lookup resolves a "section/name" path to its property.
func (r *Registry) Lookup(path string) (*Property, error) {
	section, name, ok := strings.Cut(path, "/")
	if !ok || section == "" || name == "" {
		return nil, fmt.Errorf("%w: %q (want section/name)", ErrInvalidPropertyPath, path)
	}
	s, err := r.LookupSection(section)
	if err != nil {
		return nil, err
	}
	return s.Lookup(name)
}

// Sections returns all sections in name order, for deterministic listings.
func (r *Registry) Sections() []*Section {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Section, 0, len(r.sections))
	for _, s := range r.sections {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// envName derives the environment variable for a property. The derivation is
// part of the public surface; scripts and CI systems rely on it.
func (r *Registry) envName(p *Property) string {
	return r.envPrefix + strings.ToUpper(p.section) + "_" + strings.ToUpper(p.name)
}

// log returns the pinned logger, or the current process default when none
// was configured. Resolved per call, not at construction.
func (r *Registry) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}
