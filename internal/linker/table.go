// Package linker assigns numeric point identifiers and resolves symbolic
// point references. It runs in two passes over a node document: Assign
// defines every point in a fixed traversal order, then Resolve rewrites the
// component references using the symbols defined by Assign.
package linker

import (
	"sort"
)

// SlotKind describes what an allocated ID is used for
type SlotKind int

const (
	// SlotPoint is a named point
	SlotPoint SlotKind = iota
	// SlotIORegister is the synthetic IO register of a card channel
	SlotIORegister
	// SlotInitial is the synthetic setter holding a point's initial value
	SlotInitial
)

// String returns the string representation of the slot kind
func (k SlotKind) String() string {
	switch k {
	case SlotPoint:
		return "point"
	case SlotIORegister:
		return "ioRegister"
	case SlotInitial:
		return "initial"
	default:
		return "unknown"
	}
}

// Slot is one allocated point ID. Synthetic slots carry the name of the
// point that owns them.
type Slot struct {
	ID    int
	Name  string
	Kind  SlotKind
	Owner string
}

// Named reports whether the slot is a named (non-synthetic) point
func (s Slot) Named() bool {
	return s.Kind == SlotPoint
}

// Table is the result of the assignment pass: the symbol-to-ID map plus the
// ordered list of every allocated ID. IDs are dense and start at zero, so a
// slot's index in Slots() equals its ID.
type Table struct {
	ids   map[string]int
	slots []Slot
}

// NewTable creates an empty point table
func NewTable() *Table {
	return &Table{ids: make(map[string]int)}
}

// define allocates the next ID for a named point. The previous ID of a
// redefined symbol is returned with redefined set.
func (t *Table) define(symbol string) (id, previous int, redefined bool) {
	previous, redefined = t.ids[symbol]
	id = t.next(Slot{Name: symbol, Kind: SlotPoint})
	t.ids[symbol] = id
	return id, previous, redefined
}

// synthetic allocates the next ID for an anonymous slot owned by owner
func (t *Table) synthetic(kind SlotKind, owner string) int {
	return t.next(Slot{Kind: kind, Owner: owner})
}

func (t *Table) next(s Slot) int {
	s.ID = len(t.slots)
	t.slots = append(t.slots, s)
	return s.ID
}

// Lookup returns the ID assigned to symbol
func (t *Table) Lookup(symbol string) (int, bool) {
	id, ok := t.ids[symbol]
	return id, ok
}

// Slots returns every allocated slot in ID order
func (t *Table) Slots() []Slot {
	return t.slots
}

// Len returns the total number of allocated IDs
func (t *Table) Len() int {
	return len(t.slots)
}

// NamedCount returns the number of named (non-synthetic) slots
func (t *Table) NamedCount() int {
	n := 0
	for _, s := range t.slots {
		if s.Named() {
			n++
		}
	}
	return n
}

// Symbols returns the defined symbols, sorted
func (t *Table) Symbols() []string {
	names := make([]string, 0, len(t.ids))
	for name := range t.ids {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
