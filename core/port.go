package core

import (
	"github.com/Bogdan-Zinovij/pzks/store"
)

// A DataPort is the unit's connection to the shared store. Both calls may be
// refused when another unit already used the port in the current clock.
type DataPort interface {
	// Read requests the values of the given ids on behalf of a task. An empty
	// answer means the port was busy.
	Read(ids []int, requester int) []store.Entry

	// Write publishes the result of a task. It returns false when the port
	// was busy.
	Write(taskID int, value string) bool
}
