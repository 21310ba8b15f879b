// Package db holds the in-memory note collection. Nothing is persisted;
// the collection lives as long as the process.
package db

import (
	"sync"

	"github.com/jsphweid/drumscribe/model"
	"golang.org/x/exp/slices"
)

type NoteStore struct {
	mu    sync.RWMutex
	notes model.Notes
}

func NewNoteStore() *NoteStore {
	return &NoteStore{notes: make(model.Notes, 0)}
}

func (s *NoteStore) Append(notes ...model.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range notes {
		n.Types = slices.Clone(n.Types)
		s.notes = append(s.notes, n)
	}
}

// List returns a copy of the collection in insertion order. The copy is
// never nil so it always encodes as a JSON array.
func (s *NoteStore) List() model.Notes {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make(model.Notes, len(s.notes))
	for i, n := range s.notes {
		n.Types = slices.Clone(n.Types)
		res[i] = n
	}
	return res
}

func (s *NoteStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = make(model.Notes, 0)
}

func (s *NoteStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}
