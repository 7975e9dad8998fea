// Package store models the shared data bank of the vector system. The bank
// has a single port: across all calculation units, at most one read or write
// transaction is served per clock.
package store

import (
	"sort"

	"github.com/Bogdan-Zinovij/pzks/util"
)

// OpKind is the kind of a port transaction.
type OpKind int

const (
	Read OpKind = iota
	Write
)

// String returns the short name used in exported traces.
func (k OpKind) String() string {
	switch k {
	case Read:
		return "R"
	case Write:
		return "W"
	default:
		panic("invalid operation kind")
	}
}

// MarshalText encodes the kind as "R" or "W".
func (k OpKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes "R" or "W".
func (k *OpKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "R":
		*k = Read
	case "W":
		*k = Write
	default:
		return &UnknownKindError{Kind: string(text)}
	}

	return nil
}

// UnknownKindError is returned when decoding an unknown operation kind.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return "unknown store operation kind " + e.Kind
}

// Entry is a value held by the bank, keyed by the id of the node that
// produced it.
type Entry struct {
	TaskID int    `json:"taskId"`
	Value  string `json:"value"`
}

// Operation records a port transaction.
type Operation struct {
	Clock  int    `json:"clock"`
	Kind   OpKind `json:"type"`
	TaskID int    `json:"taskId"`
}

// Store is the single-port shared data bank.
type Store struct {
	constants map[int]string
	results   []Entry
	index     map[int]int
	ops       []Operation
	clock     int

	throttledReadConsumesPort bool
}

// Clock returns the current clock. The clock starts at 1.
func (s *Store) Clock() int {
	return s.clock
}

// IsAvailable reports whether the port is still free in the current clock.
func (s *Store) IsAvailable() bool {
	if len(s.ops) == 0 {
		return true
	}

	return s.ops[len(s.ops)-1].Clock != s.clock
}

// Has reports whether id resolves to a constant or a written result.
func (s *Store) Has(id int) bool {
	if _, ok := s.constants[id]; ok {
		return true
	}

	_, ok := s.index[id]

	return ok
}

// IsConstant reports whether id is a pre-loaded constant.
func (s *Store) IsConstant(id int) bool {
	_, ok := s.constants[id]
	return ok
}

// Write stores the result of a task. It fails, recording nothing, if the port
// has already served a transaction in this clock.
func (s *Store) Write(taskID int, value string) bool {
	if !s.IsAvailable() {
		util.Trace("Store",
			"Behavior", "WriteRejected",
			"Clock", s.clock,
			"Task", taskID,
		)

		return false
	}

	if i, ok := s.index[taskID]; ok {
		s.results[i].Value = value
	} else {
		s.index[taskID] = len(s.results)
		s.results = append(s.results, Entry{TaskID: taskID, Value: value})
	}

	s.record(Write, taskID)

	return true
}

// Read returns the requested values on behalf of the requester task.
//
// Constants are always delivered. When both requested ids are computed
// results, only the first one is returned and the port slot is left free
// unless the store was built WithThrottledReadConsumesPort(true). Any other
// combination takes the port slot. A busy port yields nothing.
func (s *Store) Read(ids []int, requester int) []Entry {
	if !s.IsAvailable() {
		util.Trace("Store",
			"Behavior", "ReadRejected",
			"Clock", s.clock,
			"Requester", requester,
		)

		return nil
	}

	found := make([]Entry, 0, len(ids))
	computed := make([]Entry, 0, len(ids))

	for _, id := range ids {
		if v, ok := s.constants[id]; ok {
			found = append(found, Entry{TaskID: id, Value: v})
			continue
		}

		if i, ok := s.index[id]; ok {
			computed = append(computed, s.results[i])
		}
	}

	if len(ids) == 2 && len(computed) == 2 {
		if s.throttledReadConsumesPort {
			s.record(Read, requester)
		}

		util.Trace("Store",
			"Behavior", "ReadThrottled",
			"Clock", s.clock,
			"Requester", requester,
			"Delivered", computed[0].TaskID,
		)

		return computed[:1]
	}

	s.record(Read, requester)

	return append(found, computed...)
}

// Tick advances the clock of the store.
func (s *Store) Tick() {
	s.clock++
}

// Constants returns the pre-loaded constants in id order.
func (s *Store) Constants() []Entry {
	entries := make([]Entry, 0, len(s.constants))
	for id, v := range s.constants {
		entries = append(entries, Entry{TaskID: id, Value: v})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].TaskID < entries[j].TaskID
	})

	return entries
}

// Results returns the written results in write order.
func (s *Store) Results() []Entry {
	return append([]Entry(nil), s.results...)
}

// Operations returns the port transaction log.
func (s *Store) Operations() []Operation {
	return append([]Operation(nil), s.ops...)
}

func (s *Store) record(kind OpKind, taskID int) {
	s.ops = append(s.ops, Operation{Clock: s.clock, Kind: kind, TaskID: taskID})

	util.Trace("Store",
		"Behavior", kind.String(),
		"Clock", s.clock,
		"Task", taskID,
	)
}
