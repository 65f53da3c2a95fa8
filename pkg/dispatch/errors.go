package dispatch

import (
	"errors"
	"fmt"
)

// ErrNotReferenceable is returned by Connect when weak holding is
// requested for a receiver that cannot be weakly tracked. Callers must
// either use a pointer receiver or connect with WithWeak(false).
var ErrNotReferenceable = errors.New("dispatch: receiver is not weakly referenceable")

// PanicError carries a panic recovered from a receiver during SendRobust.
// Send never recovers; a panicking receiver unwinds through the publisher
// exactly like any other panic.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("dispatch: receiver panicked: %v", e.Value)
}
