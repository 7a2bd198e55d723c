package store

import (
	"github.com/on-the-ground/smemo_go/smemo/internal/cachekey"
)

// Store holds the cached outcomes of one session.
//
// B is the binding identity and O the outcome type. Outcomes of calls with
// arguments live in a two-level map; bindings without arguments use a flat
// map holding the raw value.
//
// this is safe only in a single goroutine – NEVER share across goroutines
type Store[B comparable, O any] struct {
	general  map[B]map[cachekey.Key]O
	simple   map[B]any
	disabled bool
}

func New[B comparable, O any]() *Store[B, O] {
	return &Store[B, O]{
		general: make(map[B]map[cachekey.Key]O),
		simple:  make(map[B]any),
	}
}

// SetDisabled switches writes off (or back on) and returns the previous state.
// Reads are unaffected.
func (s *Store[B, O]) SetDisabled(disabled bool) (previous bool) {
	previous, s.disabled = s.disabled, disabled
	return
}

func (s *Store[B, O]) Disabled() bool {
	return s.disabled
}

// Put stores o for (b, key). It reports whether the write happened.
func (s *Store[B, O]) Put(b B, key cachekey.Key, o O) bool {
	if s.disabled {
		return false
	}
	entries, ok := s.general[b]
	if !ok {
		entries = make(map[cachekey.Key]O)
		s.general[b] = entries
	}
	entries[key] = o
	return true
}

// PutSimple stores the raw value of a binding without arguments.
func (s *Store[B, O]) PutSimple(b B, v any) bool {
	if s.disabled {
		return false
	}
	s.simple[b] = v
	return true
}

func (s *Store[B, O]) Lookup(b B, key cachekey.Key) (o O, ok bool) {
	entries, found := s.general[b]
	if !found {
		return
	}
	o, ok = entries[key]
	return
}

func (s *Store[B, O]) LookupSimple(b B) (v any, ok bool) {
	v, ok = s.simple[b]
	return
}

func (s *Store[B, O]) Remove(b B, key cachekey.Key) {
	entries, ok := s.general[b]
	if !ok {
		return
	}
	delete(entries, key)
	if len(entries) == 0 {
		delete(s.general, b)
	}
}

func (s *Store[B, O]) RemoveSimple(b B) {
	delete(s.simple, b)
}

// RemoveAll drops both paths for every binding matching pred and returns how
// many bindings were dropped.
func (s *Store[B, O]) RemoveAll(pred func(B) bool) int {
	dropped := make(map[B]struct{})
	for b := range s.general {
		if pred(b) {
			delete(s.general, b)
			dropped[b] = struct{}{}
		}
	}
	for b := range s.simple {
		if pred(b) {
			delete(s.simple, b)
			dropped[b] = struct{}{}
		}
	}
	return len(dropped)
}

// Bindings returns the number of bindings with at least one entry.
func (s *Store[B, O]) Bindings() int {
	n := len(s.general)
	for b := range s.simple {
		if _, ok := s.general[b]; !ok {
			n++
		}
	}
	return n
}

// Entries returns the number of entries stored for b on both paths.
func (s *Store[B, O]) Entries(b B) int {
	n := len(s.general[b])
	if _, ok := s.simple[b]; ok {
		n++
	}
	return n
}
