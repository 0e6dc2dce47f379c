package params

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrUnknownParameter is returned when no parameter has the given name.
	ErrUnknownParameter = errors.New("params: unknown parameter")
	// ErrKindMismatch is returned when a parameter has an unexpected kind.
	ErrKindMismatch = errors.New("params: kind mismatch")
)

// Change describes one value transition.
type Change struct {
	Parameter *Parameter
	Old, New  float64
}

// Store owns a fixed set of parameters. The set never changes after
// NewStore, so lookups need no locking.
type Store struct {
	params []*Parameter
	byName map[string]*Parameter

	mu        sync.Mutex
	listeners []listener
	nextID    uint64
}

type listener struct {
	id uint64
	fn func(Change)
}

// NewStore validates specs and builds one parameter per row. Names must be
// unique.
func NewStore(specs []Spec) (*Store, error) {
	s := &Store{
		params:    make([]*Parameter, 0, len(specs)),
		byName:    make(map[string]*Parameter, len(specs)),
	}

	for i, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("params: row %d: %w", i, err)
		}
		if _, dup := s.byName[spec.Name]; dup {
			return nil, fmt.Errorf("params: row %d: %w: duplicate name %q", i, errInvalidSpec, spec.Name)
		}

		spec.Choices = append([]Choice(nil), spec.Choices...)

		p := newParameter(spec, s)
		s.params = append(s.params, p)
		s.byName[spec.Name] = p
	}

	return s, nil
}

// Get returns the parameter called name, or nil.
func (s *Store) Get(name string) *Parameter {
	return s.byName[name]
}

// Lookup returns the parameter called name.
func (s *Store) Lookup(name string) (*Parameter, error) {
	p, ok := s.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}

	return p, nil
}

// LookupKind returns the parameter called name and checks its kind.
func (s *Store) LookupKind(name string, kind Kind) (*Parameter, error) {
	p, err := s.Lookup(name)
	if err != nil {
		return nil, err
	}

	if p.Kind() != kind {
		return nil, fmt.Errorf("%w: %q is %s, want %s", ErrKindMismatch, name, p.Kind(), kind)
	}

	return p, nil
}

// MustGet is like Get but panics for unknown names. Use it only with names
// from a static table.
func (s *Store) MustGet(name string) *Parameter {
	p, err := s.Lookup(name)
	if err != nil {
		panic(err)
	}

	return p
}

// All returns the parameters in registration order.
func (s *Store) All() []*Parameter {
	return append([]*Parameter(nil), s.params...)
}

// Len returns the number of parameters.
func (s *Store) Len() int { return len(s.params) }

// ResetDefaults restores every parameter to its default.
func (s *Store) ResetDefaults() {
	for _, p := range s.params {
		p.Reset()
	}
}

// Subscribe registers fn for every value change and returns a function that
// removes it. fn runs on the goroutine that called Set, after the store lock
// is released, so it may set other parameters or subscribe. Listeners are
// called in subscription order.
func (s *Store) Subscribe(fn func(Change)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.listeners = slices.DeleteFunc(s.listeners, func(l listener) bool { return l.id == id })
			s.mu.Unlock()
		})
	}
}

func (s *Store) notify(c Change) {
	s.mu.Lock()
	if len(s.listeners) == 0 {
		s.mu.Unlock()
		return
	}
	fns := make([]func(Change), len(s.listeners))
	for i, l := range s.listeners {
		fns[i] = l.fn
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}
