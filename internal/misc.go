package internal

import (
	"sync/atomic"
)

var (
	CurrentVersion = "0.1.0"
)

var (
	id atomic.Int64 // default value is 0
)

// NextId returns a unique integer (for the given process), used to give every task a stable
// creation sequence number alongside its UUID. This function is thread-safe.
func NextId() int64 {
	return id.Add(1)
}
