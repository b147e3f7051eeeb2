package locks

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockSerializesSameKey(t *testing.T) {
	k := NewKeyed()
	ctx := context.Background()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := k.Lock(ctx, "alice")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, 0, k.Len())
}

func TestLockDistinctKeysDoNotBlock(t *testing.T) {
	k := NewKeyed()
	ctx := context.Background()

	unlockA, err := k.Lock(ctx, "a")
	require.NoError(t, err)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB, err := k.Lock(ctx, "b")
		if err == nil {
			unlockB()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on distinct key blocked")
	}
}

func TestLockHonoursContext(t *testing.T) {
	k := NewKeyed()

	unlock, err := k.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = k.Lock(ctx, "a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, k.Len())
}

func TestUnlockIsIdempotent(t *testing.T) {
	k := NewKeyed()

	unlock, err := k.Lock(context.Background(), "a")
	require.NoError(t, err)
	unlock()
	unlock()

	assert.Equal(t, 0, k.Len())

	unlock, err = k.Lock(context.Background(), "a")
	require.NoError(t, err)
	unlock()
}

func TestSetLockNameIgnoresCase(t *testing.T) {
	s := NewSet()

	unlock, err := s.LockName(context.Background(), "Bob")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = s.LockName(ctx, "BOB")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLockNamesIgnoresCaseAndDuplicates(t *testing.T) {
	s := NewSet()
	ctx := context.Background()

	unlock, err := s.LockNames(ctx, "Alice", "ALICE", "carol")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Names.Len())

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = s.LockName(short, "alice")
	assert.Error(t, err)

	unlock()
	assert.Equal(t, 0, s.Names.Len())
}

func TestLockNamesReleasesOnFailure(t *testing.T) {
	s := NewSet()
	ctx := context.Background()

	held, err := s.LockName(ctx, "carol")
	require.NoError(t, err)
	defer held()

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = s.LockNames(short, "alice", "carol")
	require.Error(t, err)

	// alice was taken first and must have been given back
	unlock, err := s.LockName(ctx, "alice")
	require.NoError(t, err)
	unlock()
}

func TestLockNamesCrossedOrderDoesNotDeadlock(t *testing.T) {
	s := NewSet()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		pair := []string{"alice", "carol"}
		if i%2 == 1 {
			pair = []string{"carol", "alice"}
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := s.LockNames(ctx, pair...)
			if !assert.NoError(t, err) {
				return
			}
			time.Sleep(100 * time.Microsecond)
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, s.Names.Len())
}
