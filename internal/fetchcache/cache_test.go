package fetchcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache() *Cache {
	return New(2*time.Second, nil)
}

func TestGetOrFetch_HitSuppressesFetch(t *testing.T) {
	t.Parallel()
	c := newTestCache()
	var calls int32
	fn := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return "payload", nil
	}

	for i := 0; i < 5; i++ {
		v, err := c.GetOrFetch(context.Background(), "k", time.Minute, fn)
		require.NoError(t, err)
		assert.Equal(t, "payload", v)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second call within TTL must not hit upstream")
}

func TestGetOrFetch_ExpiryTriggersRefetch(t *testing.T) {
	t.Parallel()
	c := newTestCache()
	now := time.Now()
	c.now = func() time.Time { return now }

	var calls int32
	fn := func(ctx context.Context) (any, error) {
		return atomic.AddInt32(&calls, 1), nil
	}

	v, err := c.GetOrFetch(context.Background(), "k", time.Minute, fn)
	require.NoError(t, err)
	assert.Equal(t, int32(1), v)

	now = now.Add(61 * time.Second)
	v, err = c.GetOrFetch(context.Background(), "k", time.Minute, fn)
	require.NoError(t, err)
	assert.Equal(t, int32(2), v)
}

func TestGetOrFetch_CoalescesConcurrentCallers(t *testing.T) {
	t.Parallel()
	c := newTestCache()

	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	fn := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		close(started)
		<-release
		return "shared", nil
	}

	const n = 10
	results := make([]any, n)
	errs := make([]error, n)
	var wg sync.WaitGroup

	// First caller starts the fetch; block inside it so the rest pile up.
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = c.GetOrFetch(context.Background(), "k", time.Minute, fn)
	}()
	<-started

	for i := 1; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.GetOrFetch(context.Background(), "k", time.Minute, fn)
		}(i)
	}
	// Give the late callers a moment to reach the in-flight wait.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "exactly one upstream call")
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "shared", results[i], "caller %d must see the shared value", i)
	}
}

func TestGetOrFetch_StaleOnError(t *testing.T) {
	t.Parallel()
	c := newTestCache()
	now := time.Now()
	c.now = func() time.Time { return now }

	fail := false
	fn := func(ctx context.Context) (any, error) {
		if fail {
			return nil, errors.New("upstream 429")
		}
		return "good", nil
	}

	v, err := c.GetOrFetch(context.Background(), "k", time.Minute, fn)
	require.NoError(t, err)
	require.Equal(t, "good", v)

	// TTL elapses, upstream breaks: the stale value is served, not the error.
	now = now.Add(2 * time.Minute)
	fail = true
	v, err = c.GetOrFetch(context.Background(), "k", time.Minute, fn)
	require.NoError(t, err)
	assert.Equal(t, "good", v)

	// And the failure was not cached: recovery is picked up on the next call.
	fail = false
	now = now.Add(time.Second)
	v, err = c.GetOrFetch(context.Background(), "k", time.Minute, fn)
	require.NoError(t, err)
	assert.Equal(t, "good", v)
}

func TestGetOrFetch_ColdStartErrorPropagates(t *testing.T) {
	t.Parallel()
	c := newTestCache()
	wantErr := errors.New("boom")

	_, err := c.GetOrFetch(context.Background(), "k", time.Minute, func(ctx context.Context) (any, error) {
		return nil, wantErr
	})
	require.ErrorIs(t, err, wantErr)
}

func TestGetOrFetch_KeysAreIndependent(t *testing.T) {
	t.Parallel()
	c := newTestCache()
	var calls int32
	fn := func(ctx context.Context) (any, error) {
		return atomic.AddInt32(&calls, 1), nil
	}

	a, err := c.GetOrFetch(context.Background(), "a", time.Minute, fn)
	require.NoError(t, err)
	b, err := c.GetOrFetch(context.Background(), "b", time.Minute, fn)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestGetOrFetch_TimeoutClearsInflight(t *testing.T) {
	t.Parallel()
	c := New(100*time.Millisecond, nil)

	hang := func(ctx context.Context) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	_, err := c.GetOrFetch(context.Background(), "k", time.Minute, hang)
	require.Error(t, err)

	// The slot must be free again: a healthy fetch succeeds.
	v, err := c.GetOrFetch(context.Background(), "k", time.Minute, func(ctx context.Context) (any, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestGetOrFetch_CallerContextCancel(t *testing.T) {
	t.Parallel()
	c := newTestCache()

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_, _ = c.GetOrFetch(context.Background(), "k", time.Minute, func(ctx context.Context) (any, error) {
			close(started)
			<-release
			return "late", nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.GetOrFetch(ctx, "k", time.Minute, nil)
	require.ErrorIs(t, err, context.Canceled)
	close(release)
}

func TestInvalidate(t *testing.T) {
	t.Parallel()
	c := newTestCache()
	var calls int32
	fn := func(ctx context.Context) (any, error) {
		return atomic.AddInt32(&calls, 1), nil
	}

	_, err := c.GetOrFetch(context.Background(), "k", time.Minute, fn)
	require.NoError(t, err)
	c.Invalidate("k")
	v, err := c.GetOrFetch(context.Background(), "k", time.Minute, fn)
	require.NoError(t, err)
	assert.Equal(t, int32(2), v)
}

func TestFetch_TypedWrapper(t *testing.T) {
	t.Parallel()
	c := newTestCache()

	got, err := Fetch(context.Background(), c, "k", time.Minute, func(ctx context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	// Same key read with a different type is a programming error, not a panic.
	_, err = Fetch(context.Background(), c, "k", time.Minute, func(ctx context.Context) (int, error) {
		return 0, nil
	})
	require.Error(t, err)
}
