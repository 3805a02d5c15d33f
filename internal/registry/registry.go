package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	// ErrEmptyName is returned when a test is registered without a name.
	ErrEmptyName = errors.New("test name must not be empty")
	// ErrNilBlock is returned when a test is registered without a body.
	ErrNilBlock = errors.New("test block must not be nil")
	// ErrDuplicateName is returned when a name is already taken in the suite.
	ErrDuplicateName = errors.New("test already registered")
	// ErrClosed is returned for registrations after discovery has begun.
	ErrClosed = errors.New("registry is closed")
)

// State is the lifecycle phase of a Registry.
type State int

const (
	// Uninitialized means nothing has been registered or enumerated yet.
	Uninitialized State = iota
	// Registering means registrations are being accepted.
	Registering
	// Closed means discovery has run; the table is read-only.
	Closed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Registering:
		return "registering"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Registry holds the ordered registrations of a single suite. C is the test
// context type handed to every block.
type Registry[C any] struct {
	mu      sync.RWMutex
	suite   string
	state   State
	entries []*EntryPoint[C]
	byName  map[string]*EntryPoint[C]
	logger  *slog.Logger
}

// New creates an empty registry for the named suite.
func New[C any](suite string) *Registry[C] {
	return &Registry[C]{
		suite:  suite,
		byName: make(map[string]*EntryPoint[C]),
		logger: slog.Default(),
	}
}

// SetLogger replaces the logger used for registration events.
func (r *Registry[C]) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Suite returns the name of the owning suite.
func (r *Registry[C]) Suite() string { return r.suite }

// State returns the current lifecycle phase.
func (r *Registry[C]) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Register appends a test backed by block and returns its entry point. The
// correlation id is derived from the suite and test names.
func (r *Registry[C]) Register(name string, block func(C)) (*EntryPoint[C], error) {
	return r.add(name, "", false, block)
}

// RegisterWithID is Register with an explicit correlation id. The id is a
// secondary key and does not take part in name uniqueness.
func (r *Registry[C]) RegisterWithID(name, correlationID string, block func(C)) (*EntryPoint[C], error) {
	return r.add(name, correlationID, false, block)
}

// RegisterStatic records a test that the owning type declares statically.
func (r *Registry[C]) RegisterStatic(name string, block func(C)) (*EntryPoint[C], error) {
	return r.add(name, "", true, block)
}

func (r *Registry[C]) add(name, correlationID string, static bool, block func(C)) (*EntryPoint[C], error) {
	if name == "" {
		return nil, fmt.Errorf("suite %q: %w", r.suite, ErrEmptyName)
	}
	if block == nil {
		return nil, fmt.Errorf("suite %q, test %q: %w", r.suite, name, ErrNilBlock)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == Closed {
		return nil, fmt.Errorf("suite %q, test %q: %w", r.suite, name, ErrClosed)
	}
	if _, exists := r.byName[name]; exists {
		return nil, fmt.Errorf("suite %q, test %q: %w", r.suite, name, ErrDuplicateName)
	}

	ep := &EntryPoint[C]{
		Suite:         r.suite,
		Name:          name,
		CorrelationID: correlationID,
		ExplicitID:    correlationID != "",
		Index:         len(r.entries),
		Static:        static,
		block:         block,
	}
	if !ep.ExplicitID {
		ep.CorrelationID = DefaultCorrelationID(r.suite, name)
	}

	r.entries = append(r.entries, ep)
	r.byName[name] = ep
	r.state = Registering

	r.logger.Debug("Registering test.", "suite", r.suite, "test", name, "correlation_id", ep.CorrelationID, "static", static)
	return ep, nil
}

// Enumerate returns every entry point in registration order and closes the
// registry. It is idempotent; the returned slice is a copy.
func (r *Registry[C]) Enumerate() []*EntryPoint[C] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Closed {
		r.state = Closed
		r.logger.Debug("Registry closed for discovery.", "suite", r.suite, "tests", len(r.entries))
	}

	out := make([]*EntryPoint[C], len(r.entries))
	copy(out, r.entries)
	return out
}

// Lookup returns the entry point registered under name.
func (r *Registry[C]) Lookup(name string) (*EntryPoint[C], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ep, ok := r.byName[name]
	return ep, ok
}

// Names returns the registered names in order without closing the registry.
func (r *Registry[C]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.entries))
	for i, ep := range r.entries {
		names[i] = ep.Name
	}
	return names
}

// Len returns the number of registrations.
func (r *Registry[C]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
