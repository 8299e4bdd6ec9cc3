package ledgerstore

/*
 * Dual-licensed under Apache-2.0 and MIT.
 *
 * You can get a copy of the Apache License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * You can also get a copy of the MIT License at
 *
 * http://opensource.org/licenses/MIT
 *
 * @wcgcyx - https://github.com/wcgcyx
 */

import (
	"context"
	"fmt"

	"github.com/ipfs/go-datastore"
)

// Sandbox stages writes on top of a parent view without touching it.
// Reads fall through to the parent unless the path has been written or deleted locally.
// Staged changes reach the parent only when Apply is called.
// A sandbox can itself be the parent of another sandbox.
type Sandbox struct {
	// parent view
	parent View

	// staged writes (key -> value)
	writes map[string][]byte

	// staged deletions
	deletions map[string]bool

	// original paths of staged keys
	paths map[string][]interface{}

	// whether the sandbox has been applied or discarded
	closed bool
}

// NewSandbox creates a new sandbox on top of a parent view.
//
// @input - parent view.
//
// @output - sandbox.
func NewSandbox(parent View) *Sandbox {
	return &Sandbox{
		parent:    parent,
		writes:    make(map[string][]byte),
		deletions: make(map[string]bool),
		paths:     make(map[string][]interface{}),
	}
}

// Get gets the value for a given path.
//
// @input - context, path.
//
// @output - value, error.
func (s *Sandbox) Get(ctx context.Context, path ...interface{}) ([]byte, error) {
	key, err := getDSKey(path...)
	if err != nil {
		return nil, err
	}
	if s.deletions[key.String()] {
		return nil, datastore.ErrNotFound
	}
	if val, ok := s.writes[key.String()]; ok {
		res := make([]byte, len(val))
		copy(res, val)
		return res, nil
	}
	return s.parent.Get(ctx, path...)
}

// Has checks if given path exists.
//
// @input - context, path.
//
// @output - boolean indicating if given path exists, error.
func (s *Sandbox) Has(ctx context.Context, path ...interface{}) (bool, error) {
	key, err := getDSKey(path...)
	if err != nil {
		return false, err
	}
	if s.deletions[key.String()] {
		return false, nil
	}
	if _, ok := s.writes[key.String()]; ok {
		return true, nil
	}
	return s.parent.Has(ctx, path...)
}

// Put puts the value for a given path.
//
// @input - context, value, path.
//
// @output - error.
func (s *Sandbox) Put(ctx context.Context, value []byte, path ...interface{}) error {
	if s.closed {
		return fmt.Errorf("sandbox has been closed")
	}
	key, err := getDSKey(path...)
	if err != nil {
		return err
	}
	val := make([]byte, len(value))
	copy(val, value)
	delete(s.deletions, key.String())
	s.writes[key.String()] = val
	s.paths[key.String()] = path
	return nil
}

// Delete deletes a given path.
//
// @input - context, path.
//
// @output - error.
func (s *Sandbox) Delete(ctx context.Context, path ...interface{}) error {
	if s.closed {
		return fmt.Errorf("sandbox has been closed")
	}
	key, err := getDSKey(path...)
	if err != nil {
		return err
	}
	delete(s.writes, key.String())
	s.deletions[key.String()] = true
	s.paths[key.String()] = path
	return nil
}

// Apply pushes all staged changes to the parent view and closes the sandbox.
//
// @input - context.
//
// @output - error.
func (s *Sandbox) Apply(ctx context.Context) error {
	if s.closed {
		return fmt.Errorf("sandbox has been closed")
	}
	s.closed = true
	for key := range s.deletions {
		if err := s.parent.Delete(ctx, s.paths[key]...); err != nil {
			return err
		}
	}
	for key, val := range s.writes {
		if err := s.parent.Put(ctx, val, s.paths[key]...); err != nil {
			return err
		}
	}
	return nil
}

// Discard drops all staged changes and closes the sandbox.
func (s *Sandbox) Discard() {
	s.closed = true
	s.writes = make(map[string][]byte)
	s.deletions = make(map[string]bool)
	s.paths = make(map[string][]interface{})
}

// Dirty checks if the sandbox has staged changes.
//
// @output - boolean indicating if there is any staged change.
func (s *Sandbox) Dirty() bool {
	return len(s.writes) > 0 || len(s.deletions) > 0
}
