// Package weakref tracks values without extending their lifetime.
//
// A Ref holds a weak handle to a pointer-shaped target. Once the target's
// last strong owner is gone, the Ref resolves to absent and, if requested,
// an unreachability callback fires. Callbacks run on the runtime's cleanup
// goroutine, so consumers must treat them as asynchronous and take their
// own locks before mutating shared state.
package weakref

import (
	"errors"
	"reflect"
	"runtime"
	"unsafe"
	"weak"
)

// ErrNotReferenceable is returned by Track when the target cannot be
// weakly tracked. Only non-nil pointer values own a heap allocation the
// runtime can watch; funcs, maps, channels and plain values do not.
var ErrNotReferenceable = errors.New("weakref: target is not weakly referenceable")

// Ref is a resolvable weak handle produced by Track.
type Ref struct {
	ptr weak.Pointer[byte]
	typ reflect.Type // pointee type, used to rebuild the target on resolve
}

// Track wraps target in a weak handle. If onUnreachable is non-nil it is
// invoked with the returned Ref some time after the target becomes
// unreachable.
func Track(target any, onUnreachable func(*Ref)) (*Ref, error) {
	rv := reflect.ValueOf(target)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, ErrNotReferenceable
	}

	p := (*byte)(rv.UnsafePointer())
	r := &Ref{
		ptr: weak.Make(p),
		typ: rv.Type().Elem(),
	}
	if onUnreachable != nil {
		// The cleanup argument must not strongly reference the target;
		// Ref only carries the weak pointer and type metadata.
		runtime.AddCleanup(p, onUnreachable, r)
	}
	return r, nil
}

// Value resolves the handle. It returns the original target and true while
// the target is still reachable, or (nil, false) once it has been
// reclaimed or queued for cleanup.
func (r *Ref) Value() (any, bool) {
	p := r.ptr.Value()
	if p == nil {
		return nil, false
	}
	return reflect.NewAt(r.typ, unsafe.Pointer(p)).Interface(), true
}

// SameTarget reports whether two handles were created for the same target
// object. Distinct Refs for one target compare as the same target, which
// lets registries purge every handle of a reclaimed value at once.
func (r *Ref) SameTarget(other *Ref) bool {
	return other != nil && r.ptr == other.ptr
}
