// Package dispatch provides in-process publish/subscribe signals.
//
// A Signal is a named broadcast channel. Receivers attach with Connect,
// optionally filtered by sender and optionally held weakly so that a
// subscription never extends a receiver's lifetime: once a weakly held
// receiver becomes unreachable its registry entry is reaped
// automatically. Send broadcasts an event to every matching receiver in
// subscription order and collects their results, failing fast on the
// first receiver error; SendRobust isolates failures per receiver and
// always completes the full list.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sigbus/sigbus/pkg/logger"
	"github.com/sigbus/sigbus/pkg/weakref"
)

// entry is one registration. Exactly one of ref and strong is set.
type entry struct {
	key    lookupKey
	ref    *weakref.Ref
	strong Receiver
}

// Signal is the receiver registry and dispatch engine for one named
// event channel. Signals are independently constructible and disposable;
// there is no process-wide registry behind them.
type Signal struct {
	name          string
	providingArgs map[string]struct{}

	mu        sync.Mutex
	receivers []entry // insertion order is dispatch order

	// nonEmpty mirrors len(receivers) > 0 so the dispatch fast path can
	// skip the lock entirely on idle signals.
	nonEmpty atomic.Bool
}

// New creates a signal. providingArgs declares the keyword arguments the
// signal promises to pass along with each event; the set is advisory and
// never enforced during dispatch.
func New(name string, providingArgs ...string) *Signal {
	s := &Signal{
		name:          name,
		providingArgs: make(map[string]struct{}, len(providingArgs)),
	}
	for _, arg := range providingArgs {
		s.providingArgs[arg] = struct{}{}
	}
	return s
}

// Name returns the signal's name.
func (s *Signal) Name() string { return s.name }

// ProvidingArgs returns the declared payload argument names.
func (s *Signal) ProvidingArgs() []string {
	args := make([]string, 0, len(s.providingArgs))
	for arg := range s.providingArgs {
		args = append(args, arg)
	}
	return args
}

// ReceiverCount returns the number of registered entries, including weak
// entries whose targets have died but have not been reaped yet.
func (s *Signal) ReceiverCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.receivers)
}

// Connect registers r to receive events from this signal.
//
// By default the receiver is matched against every sender and held
// weakly; use WithSender, WithWeak and WithDispatchUID to adjust. Weak
// holding requires a pointer receiver and fails with ErrNotReferenceable
// otherwise. Connecting an already-registered key is a no-op that keeps
// the existing entry.
//
// Senders must be pointer-shaped or comparable values.
func (s *Signal) Connect(r Receiver, opts ...Option) error {
	o := defaultCallOptions()
	for _, opt := range opts {
		opt(&o)
	}
	key := s.keyFor(r, o)

	ent := entry{key: key}
	if o.weak {
		ref, err := weakref.Track(r, s.reap)
		if err != nil {
			if errors.Is(err, weakref.ErrNotReferenceable) {
				err = ErrNotReferenceable
			}
			return fmt.Errorf("dispatch: connect %q: %w", s.name, err)
		}
		ent.ref = ref
	} else {
		ent.strong = r
	}

	s.mu.Lock()
	for _, existing := range s.receivers {
		if existing.key == key {
			// Duplicate key: the first registration wins and the new
			// handle is silently dropped.
			s.mu.Unlock()
			return nil
		}
	}
	s.receivers = append(s.receivers, ent)
	s.nonEmpty.Store(true)
	count := len(s.receivers)
	s.mu.Unlock()

	metricsRecorder().RecordConnect(s.name, o.weak)
	metricsRecorder().RecordReceivers(s.name, count)
	logger.Debug("receiver connected", "signal", s.name, "weak", o.weak, "receivers", count)
	return nil
}

// Disconnect removes the subscription registered under the same
// receiver/sender pair or dispatch UID used at connect time. Removing a
// subscription that does not exist, or that has already been reaped, is
// a no-op.
func (s *Signal) Disconnect(r Receiver, opts ...Option) {
	o := defaultCallOptions()
	for _, opt := range opts {
		opt(&o)
	}
	key := s.keyFor(r, o)

	s.mu.Lock()
	removed := false
	for i, existing := range s.receivers {
		if existing.key == key {
			s.receivers = append(s.receivers[:i], s.receivers[i+1:]...)
			removed = true
			break
		}
	}
	s.nonEmpty.Store(len(s.receivers) > 0)
	count := len(s.receivers)
	s.mu.Unlock()

	if removed {
		metricsRecorder().RecordDisconnect(s.name)
		metricsRecorder().RecordReceivers(s.name, count)
		logger.Debug("receiver disconnected", "signal", s.name, "receivers", count)
	}
}

// Send broadcasts an event for sender to all matching receivers in
// subscription order and returns their (receiver, result) pairs.
//
// Send is fail-fast: the first receiver error is returned verbatim,
// together with the responses accumulated so far, and the remaining
// receivers are not invoked. Receiver panics are not recovered.
func (s *Signal) Send(ctx context.Context, sender any, kwargs Kwargs) ([]Response, error) {
	if !s.nonEmpty.Load() {
		return nil, nil
	}

	start := time.Now()
	live := s.liveReceivers(senderKey(sender))
	ev := Event{Signal: s, Sender: sender, Kwargs: kwargs}

	responses := make([]Response, 0, len(live))
	for _, r := range live {
		value, err := r.Receive(ctx, ev)
		if err != nil {
			metricsRecorder().RecordReceiverError(s.name, "send")
			metricsRecorder().RecordDispatch(s.name, "send", len(responses), time.Since(start))
			return responses, err
		}
		responses = append(responses, Response{Receiver: r, Value: value})
	}

	metricsRecorder().RecordDispatch(s.name, "send", len(responses), time.Since(start))
	return responses, nil
}

// SendRobust broadcasts an event like Send but isolates failures: a
// receiver error, or a recovered receiver panic surfaced as *PanicError,
// becomes that receiver's result and dispatch continues. The returned
// slice always covers every live receiver.
func (s *Signal) SendRobust(ctx context.Context, sender any, kwargs Kwargs) []Response {
	if !s.nonEmpty.Load() {
		return nil
	}

	start := time.Now()
	live := s.liveReceivers(senderKey(sender))
	ev := Event{Signal: s, Sender: sender, Kwargs: kwargs}

	responses := make([]Response, 0, len(live))
	for _, r := range live {
		value, err := invokeRecovering(ctx, r, ev)
		if err != nil {
			metricsRecorder().RecordReceiverError(s.name, "send_robust")
		}
		responses = append(responses, Response{Receiver: r, Value: value, Err: err})
	}

	metricsRecorder().RecordDispatch(s.name, "send_robust", len(responses), time.Since(start))
	return responses
}

// Response pairs a receiver with its dispatch outcome. Err is only set
// by SendRobust.
type Response struct {
	Receiver Receiver
	Value    any
	Err      error
}

// keyFor computes the lookup key for a connect/disconnect call.
func (s *Signal) keyFor(r Receiver, o callOptions) lookupKey {
	if o.uid != "" {
		return lookupKey{uid: o.uid, sender: senderKey(o.sender)}
	}
	return lookupKey{receiver: receiverKey(r), sender: senderKey(o.sender)}
}

// liveReceivers snapshots the registry under the lock, then resolves the
// snapshot outside it: entries are kept when their sender identity is the
// any-sender sentinel or the publishing sender, weak handles are resolved
// to their targets, and handles whose targets have died are dropped
// silently. Registry order is preserved.
func (s *Signal) liveReceivers(sender senderID) []Receiver {
	s.mu.Lock()
	snapshot := make([]entry, len(s.receivers))
	copy(snapshot, s.receivers)
	s.mu.Unlock()

	live := make([]Receiver, 0, len(snapshot))
	for _, e := range snapshot {
		if e.key.sender != anySender && e.key.sender != sender {
			continue
		}
		if e.ref == nil {
			live = append(live, e.strong)
			continue
		}
		target, ok := e.ref.Value()
		if !ok {
			continue
		}
		live = append(live, target.(Receiver))
	}
	return live
}

// reap removes every entry holding a handle to the now-dead target. It is
// invoked by the weakref adapter from outside the signal's own call
// stack, so it takes the guard itself and must stay safe against
// concurrent Connect/Disconnect/Send.
func (s *Signal) reap(dead *weakref.Ref) {
	s.mu.Lock()
	kept := s.receivers[:0]
	for _, e := range s.receivers {
		if e.ref != nil && e.ref.SameTarget(dead) {
			continue
		}
		kept = append(kept, e)
	}
	reaped := len(s.receivers) - len(kept)
	for i := len(kept); i < len(s.receivers); i++ {
		s.receivers[i] = entry{} // release dropped handles
	}
	s.receivers = kept
	s.nonEmpty.Store(len(s.receivers) > 0)
	count := len(s.receivers)
	s.mu.Unlock()

	if reaped > 0 {
		metricsRecorder().RecordReaped(s.name, reaped)
		metricsRecorder().RecordReceivers(s.name, count)
		logger.Debug("dead receivers reaped", "signal", s.name, "reaped", reaped, "receivers", count)
	}
}

// invokeRecovering invokes a receiver and converts a panic into a
// *PanicError result.
func invokeRecovering(ctx context.Context, r Receiver, ev Event) (value any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &PanicError{Value: rec, Stack: debug.Stack()}
		}
	}()
	return r.Receive(ctx, ev)
}
