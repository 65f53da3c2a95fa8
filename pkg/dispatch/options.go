package dispatch

// Option configures a Connect or Disconnect call.
type Option func(*callOptions)

type callOptions struct {
	sender any
	weak   bool
	uid    string
}

func defaultCallOptions() callOptions {
	return callOptions{weak: true}
}

// WithSender restricts the subscription to events published for the given
// sender. Without it the receiver matches every sender.
func WithSender(sender any) Option {
	return func(o *callOptions) {
		o.sender = sender
	}
}

// WithWeak controls how the receiver is held. Weak holding is the default;
// pass false to hold a strong reference, which is required for
// ReceiverFunc values. Disconnect accepts the option for interface
// symmetry but ignores it, since holding mode never enters the lookup key.
func WithWeak(weak bool) Option {
	return func(o *callOptions) {
		o.weak = weak
	}
}

// WithDispatchUID sets a caller-supplied identifier used in place of the
// receiver identity for deduplication and disconnect lookup.
func WithDispatchUID(uid string) Option {
	return func(o *callOptions) {
		o.uid = uid
	}
}
