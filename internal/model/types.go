// Package model defines shared data structures.
package model

import (
	"sort"
	"time"
)

// Config defines practice settings.
type Config struct {
	Tool            string
	TransitionDelay time.Duration
	Seed            int64
	CatalogDir      string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Tool        string
	CurveWindow int
}

// KeyCombinationSpec is one valid set of logical keys that answers a shortcut.
// Order is irrelevant; tokens are normalized by the keyboard package.
type KeyCombinationSpec []string

// Shortcut is a practice item.
type Shortcut struct {
	ID              string
	Tool            string
	Description     string
	KeyCombinations []KeyCombinationSpec
	IsAvailable     bool
}

// Tool groups the shortcuts of one application.
type Tool struct {
	Name      string
	Shortcuts []Shortcut
}

// IDs returns the shortcut ids of the tool in catalog order.
func (t Tool) IDs() []string {
	ids := make([]string, len(t.Shortcuts))
	for i, s := range t.Shortcuts {
		ids[i] = s.ID
	}
	return ids
}

// AnsweredHistory maps a shortcut id to its results, oldest first.
type AnsweredHistory map[string][]bool

// Clone returns a deep copy.
func (h AnsweredHistory) Clone() AnsweredHistory {
	out := make(AnsweredHistory, len(h))
	for id, results := range h {
		out[id] = append([]bool(nil), results...)
	}
	return out
}

// IDSet is a set of shortcut ids.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids.
func NewIDSet(ids ...string) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in ascending order.
func (s IDSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Run summarizes one practice process.
type Run struct {
	ID        string
	Tool      string
	StartedAt time.Time
	EndedAt   time.Time
	Correct   int
	Wrong     int
}
