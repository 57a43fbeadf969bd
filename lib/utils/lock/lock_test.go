package lock

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestKeyLock(t *testing.T) {
	t.Run(`free key runs the code`, func(t *testing.T) {
		l := NewKeyLock(time.Millisecond)
		called := false
		ok, err := l.WithDelay(context.TODO(), "k1", time.Second, func() error {
			called = true
			return nil
		})
		require.Nil(t, err)
		require.True(t, ok)
		require.True(t, called)
	})

	t.Run(`busy key times out`, func(t *testing.T) {
		l := NewKeyLock(time.Millisecond)
		entered := make(chan struct{})
		release := make(chan struct{})
		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _ = l.WithDelay(context.TODO(), "k2", time.Second, func() error {
				close(entered)
				<-release
				return nil
			})
		}()
		<-entered
		called := false
		ok, err := l.WithDelay(context.TODO(), "k2", 20*time.Millisecond, func() error {
			called = true
			return nil
		})
		require.Nil(t, err)
		require.False(t, ok)
		require.False(t, called)
		close(release)
		<-done

		ok, err = l.WithDelay(context.TODO(), "k2", time.Second, func() error { return nil })
		require.Nil(t, err)
		require.True(t, ok)
	})

	t.Run(`error from code is returned and key released`, func(t *testing.T) {
		l := NewKeyLock(time.Millisecond)
		ok, err := l.WithDelay(context.TODO(), "k3", time.Second, func() error {
			return errors.New("boom")
		})
		require.True(t, ok)
		require.EqualError(t, err, "boom")
		ok, err = l.WithDelay(context.TODO(), "k3", time.Second, func() error { return nil })
		require.True(t, ok)
		require.Nil(t, err)
	})
}
