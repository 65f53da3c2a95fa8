package dispatch

import "context"

// Kwargs is the keyword-style payload a sender broadcasts with an event.
// Signals declare the argument names they intend to provide, but the set
// is advisory and never enforced at dispatch time.
type Kwargs map[string]any

// Event is what every receiver is invoked with: the signal the event
// arrived on, the sender it was published for, and the payload.
type Event struct {
	Signal *Signal
	Sender any
	Kwargs Kwargs
}

// Receiver is a subscriber invoked on dispatch.
//
// Pointer implementations are the bound-method analog: their registration
// identity combines the instance pointer with the Receive implementation,
// so the same object reconnecting is deduplicated while two instances of
// one type stay distinct. Pointer receivers are also the only form that
// can be held weakly.
type Receiver interface {
	Receive(ctx context.Context, e Event) (any, error)
}

// ReceiverFunc adapts a plain function to the Receiver interface. Func
// values own no watchable allocation, so they must be connected with
// WithWeak(false). Two closures over the same function literal share a
// code pointer and therefore a registration identity; use dispatch UIDs
// to keep such registrations distinct.
type ReceiverFunc func(ctx context.Context, e Event) (any, error)

// Receive invokes the function.
func (f ReceiverFunc) Receive(ctx context.Context, e Event) (any, error) {
	return f(ctx, e)
}

// Register connects r to sig and hands it back unchanged, so a receiver
// can be declared and subscribed in one assignment:
//
//	onSave, err := dispatch.Register(postSave, &auditLog{}, dispatch.WithSender(model))
func Register[R Receiver](sig *Signal, r R, opts ...Option) (R, error) {
	if err := sig.Connect(r, opts...); err != nil {
		return r, err
	}
	return r, nil
}
