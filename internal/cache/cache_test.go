package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCachesValue(t *testing.T) {
	c := New(Options{})
	ctx := context.Background()
	var calls atomic.Int32

	load := func(context.Context) (any, error) {
		calls.Add(1)
		return "v1", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.Get(ctx, UsersKey(), load)
		require.NoError(t, err)
		assert.Equal(t, "v1", v)
	}
	assert.Equal(t, int32(1), calls.Load(), "repeated reads must not refetch")
}

func TestConcurrentGetsShareOneFetch(t *testing.T) {
	c := New(Options{})
	ctx := context.Background()

	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	load := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return "shared", nil
	}

	const n = 8
	var wg sync.WaitGroup
	results := make([]any, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Get(ctx, StatsKey(), load)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	<-started
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "concurrent reads must coalesce into one fetch")
	for _, v := range results {
		assert.Equal(t, "shared", v)
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	c := New(Options{})
	ctx := context.Background()
	var calls atomic.Int32

	load := func(context.Context) (any, error) {
		return calls.Add(1), nil
	}

	v, err := c.Get(ctx, UsersKey(), load)
	require.NoError(t, err)
	assert.Equal(t, int32(1), v)

	c.Invalidate(UsersKey())
	v, err = c.Get(ctx, UsersKey(), load)
	require.NoError(t, err)
	assert.Equal(t, int32(2), v)
}

func TestLaterGenerationWins(t *testing.T) {
	c := New(Options{Attempts: 1})
	ctx := context.Background()
	key := WalletKey("a@chapa.com")

	oldStarted := make(chan struct{})
	oldRelease := make(chan struct{})
	oldDone := make(chan struct{})

	go func() {
		defer close(oldDone)
		v, err := c.Get(ctx, key, func(context.Context) (any, error) {
			close(oldStarted)
			<-oldRelease
			return "old", nil
		})
		// The superseded caller still gets what it fetched.
		assert.NoError(t, err)
		assert.Equal(t, "old", v)
	}()

	<-oldStarted
	c.Invalidate(key)

	v, err := c.Get(ctx, key, func(context.Context) (any, error) {
		return "new", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "new", v)

	close(oldRelease)
	<-oldDone

	// The old in-flight result must not have overwritten the newer one.
	v, err = c.Get(ctx, key, func(context.Context) (any, error) {
		t.Fatal("unexpected refetch")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "new", v)
}

func TestStaleWhileError(t *testing.T) {
	c := New(Options{Attempts: 1})
	ctx := context.Background()
	key := TransactionsKey()

	v, err := c.Get(ctx, key, func(context.Context) (any, error) { return "good", nil })
	require.NoError(t, err)
	assert.Equal(t, "good", v)

	c.Invalidate(key)
	boom := errors.New("backend down")
	v, err = c.Get(ctx, key, func(context.Context) (any, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "good", v, "failed refresh keeps the last known-good value")

	state := c.StateOf(key)
	assert.True(t, state.HasValue)
	assert.ErrorIs(t, state.Err, boom)
}

func TestErrorWithoutPriorValue(t *testing.T) {
	c := New(Options{Attempts: 1})
	boom := errors.New("backend down")

	v, err := c.Get(context.Background(), PaymentSummaryKey(), func(context.Context) (any, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, v)
}

func TestBoundedRetries(t *testing.T) {
	c := New(Options{Attempts: 3})
	var calls atomic.Int32
	boom := errors.New("flaky")

	_, err := c.Get(context.Background(), StatsKey(), func(context.Context) (any, error) {
		calls.Add(1)
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(3), calls.Load())

	calls.Store(0)
	c.Invalidate(StatsKey())
	v, err := c.Get(context.Background(), StatsKey(), func(context.Context) (any, error) {
		if calls.Add(1) < 2 {
			return nil, boom
		}
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
	assert.Equal(t, int32(2), calls.Load(), "retry stops at first success")
}

func TestInvalidateResource(t *testing.T) {
	c := New(Options{})
	ctx := context.Background()
	var calls atomic.Int32
	load := func(context.Context) (any, error) { return calls.Add(1), nil }

	_, err := c.Get(ctx, CompanyUsersKey("a@chapa.com"), load)
	require.NoError(t, err)
	_, err = c.Get(ctx, CompanyUsersKey("b@chapa.com"), load)
	require.NoError(t, err)

	c.InvalidateResource(ResourceCompanyUsers)

	v, err := c.Get(ctx, CompanyUsersKey("a@chapa.com"), load)
	require.NoError(t, err)
	assert.Equal(t, int32(3), v)
}

func TestGetAsTyped(t *testing.T) {
	c := New(Options{})

	v, err := GetAs(context.Background(), c, WalletKey("a@chapa.com"),
		func(context.Context) (float64, error) { return 42.5, nil })
	require.NoError(t, err)
	assert.Equal(t, 42.5, v)
}
