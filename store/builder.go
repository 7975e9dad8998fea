package store

// Builder can create new stores.
type Builder struct {
	constants                 []Entry
	throttledReadConsumesPort bool
}

// MakeBuilder creates a builder with the reference port behavior.
func MakeBuilder() Builder {
	return Builder{}
}

// WithConstants sets the values pre-loaded before the simulation starts.
func (b Builder) WithConstants(constants []Entry) Builder {
	b.constants = constants
	return b
}

// WithThrottledReadConsumesPort makes a read that delivers only one of two
// computed operands take the port slot like every other transaction.
func (b Builder) WithThrottledReadConsumesPort(consumes bool) Builder {
	b.throttledReadConsumesPort = consumes
	return b
}

// Build creates a store.
func (b Builder) Build() *Store {
	s := &Store{
		constants:                 make(map[int]string, len(b.constants)),
		index:                     make(map[int]int),
		clock:                     1,
		throttledReadConsumesPort: b.throttledReadConsumesPort,
	}

	for _, c := range b.constants {
		s.constants[c.TaskID] = c.Value
	}

	return s
}
