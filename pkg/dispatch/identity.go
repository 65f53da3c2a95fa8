package dispatch

import "reflect"

// receiverID is the registration identity of a receiver, computed once at
// connect/disconnect time. Bound (pointer) receivers combine the instance
// pointer with the code pointer of their Receive implementation; plain
// funcs use their code pointer alone.
type receiverID struct {
	instance uintptr
	fn       uintptr
}

// senderID is the registration identity of a sender. The zero value is
// the any-sender sentinel: a subscription carrying it matches every
// dispatch, and a nil (or typed-nil) sender maps to it.
type senderID struct {
	ptr uintptr
	val any
}

var anySender = senderID{}

// lookupKey identifies one subscription for deduplication and disconnect.
// When a dispatch UID is supplied it replaces the receiver identity.
type lookupKey struct {
	uid      string
	receiver receiverID
	sender   senderID
}

// receiverKey derives the identity of a receiver.
func receiverKey(r Receiver) receiverID {
	if r == nil {
		return receiverID{}
	}
	if f, ok := r.(ReceiverFunc); ok {
		return receiverID{fn: reflect.ValueOf(f).Pointer()}
	}

	rv := reflect.ValueOf(r)
	var id receiverID
	if m, ok := rv.Type().MethodByName("Receive"); ok {
		id.fn = m.Func.Pointer()
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan, reflect.Func:
		id.instance = rv.Pointer()
	default:
		// Value receivers have no stable instance identity; they dedupe
		// by implementation alone. Callers needing distinct value-receiver
		// registrations must supply dispatch UIDs.
	}
	return id
}

// senderKey derives the identity of a sender. Pointer-shaped senders are
// identified by address, comparable values by equality. Senders of an
// uncomparable value type are not supported and panic on key comparison,
// the same way they would as map keys.
func senderKey(sender any) senderID {
	if sender == nil {
		return anySender
	}
	rv := reflect.ValueOf(sender)
	switch rv.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return anySender
		}
		return senderID{ptr: rv.Pointer()}
	default:
		return senderID{val: sender}
	}
}
