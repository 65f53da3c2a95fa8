package weakref

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	id int
}

func TestTrack_ResolvesWhileReachable(t *testing.T) {
	target := &payload{id: 7}

	ref, err := Track(target, nil)
	require.NoError(t, err)

	got, ok := ref.Value()
	require.True(t, ok)
	require.Same(t, target, got.(*payload))
	runtime.KeepAlive(target)
}

func TestTrack_RejectsNonPointers(t *testing.T) {
	cases := map[string]any{
		"nil":         nil,
		"func":        func() {},
		"value":       payload{id: 1},
		"string":      "hello",
		"nil pointer": (*payload)(nil),
	}
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Track(target, nil)
			assert.ErrorIs(t, err, ErrNotReferenceable)
		})
	}
}

func TestRef_SameTarget(t *testing.T) {
	target := &payload{id: 1}
	other := &payload{id: 2}

	ref1, err := Track(target, nil)
	require.NoError(t, err)
	ref2, err := Track(target, nil)
	require.NoError(t, err)
	ref3, err := Track(other, nil)
	require.NoError(t, err)

	assert.True(t, ref1.SameTarget(ref2), "distinct refs to one target must match")
	assert.True(t, ref1.SameTarget(ref1))
	assert.False(t, ref1.SameTarget(ref3), "refs to different targets must not match")
	assert.False(t, ref1.SameTarget(nil))
	runtime.KeepAlive(target)
	runtime.KeepAlive(other)
}

func TestTrack_UnreachableCallback(t *testing.T) {
	unreachable := make(chan *Ref, 1)

	ref := trackTransient(t, unreachable)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	var dead *Ref
	for dead == nil {
		runtime.GC()
		select {
		case dead = <-unreachable:
		case <-time.After(10 * time.Millisecond):
		case <-ctx.Done():
			t.Fatal("unreachable callback never fired")
		}
	}

	require.True(t, ref.SameTarget(dead), "callback must report the dying handle's target")
	_, ok := ref.Value()
	assert.False(t, ok, "a dead handle must resolve to absent")
}

// trackTransient tracks a target whose last strong reference dies when
// this helper returns.
func trackTransient(t *testing.T, unreachable chan *Ref) *Ref {
	t.Helper()
	target := &payload{id: 99}
	ref, err := Track(target, func(r *Ref) { unreachable <- r })
	require.NoError(t, err)

	got, ok := ref.Value()
	require.True(t, ok)
	require.Equal(t, 99, got.(*payload).id)
	return ref
}
