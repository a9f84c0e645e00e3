package hash

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/hoard/fileops"
	"go.hackfix.me/hoard/store"
	"go.hackfix.me/hoard/store/blob"
	"go.hackfix.me/hoard/timing"
)

func newBlobStore(t *testing.T, fops fileops.FileOps) *blob.Store {
	t.Helper()
	b, err := blob.New("/tmp/test", fops)
	require.NoError(t, err)
	return b
}

func TestStoreStandalone(t *testing.T) {
	t.Parallel()

	s := New(nil)

	_, ok, err := s.Get("foo")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put("foo", "store"))
	for i := 0; i < 3; i++ {
		val, ok, err := s.Get("foo")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "store", val)
	}

	require.NoError(t, s.Put("foo", "store2"))
	val, _, err := s.Get("foo")
	require.NoError(t, err)
	assert.Equal(t, "store2", val)
	assert.Equal(t, 1, s.Len())

	_, _, err = s.Get("")
	assert.ErrorIs(t, err, store.ErrEmptyKey)
	assert.ErrorIs(t, s.Put("", "x"), store.ErrEmptyKey)
}

func TestStoreBackend(t *testing.T) {
	t.Parallel()

	t.Run("ok/put_get", func(t *testing.T) {
		t.Parallel()

		fops := fileops.NewFake()
		b := newBlobStore(t, fops)
		s := New(b)

		_, ok, err := s.Get("key")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, s.Put("key", "value"))
		val, ok, err := s.Get("key")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "value", val)

		require.NoError(t, s.Put("key", "value2"))
		val, _, err = s.Get("key")
		require.NoError(t, err)
		assert.Equal(t, "value2", val)

		// Writes go through to the durable store.
		dval, ok, err := store.GetString(b, "key")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "value2", dval)
	})

	t.Run("ok/fallback", func(t *testing.T) {
		t.Parallel()

		b := newBlobStore(t, fileops.NewFake())
		require.NoError(t, store.PutString(b, "key", "durable"))

		s := New(b)
		assert.Equal(t, 0, s.Len())

		val, ok, err := s.Get("key")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "durable", val)
		assert.Equal(t, 1, s.Len())

		// The cache shadows the durable store from now on.
		require.NoError(t, store.PutString(b, "key", "changed"))
		val, _, err = s.Get("key")
		require.NoError(t, err)
		assert.Equal(t, "durable", val)

		require.NoError(t, s.Put("key", "cached"))
		val, _, err = s.Get("key")
		require.NoError(t, err)
		assert.Equal(t, "cached", val)
	})

	t.Run("ok/survives_new_instance", func(t *testing.T) {
		t.Parallel()

		b := newBlobStore(t, fileops.NewFake())
		require.NoError(t, New(b).Put("key", "value"))

		val, ok, err := New(b).Get("key")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "value", val)
	})
}

type errBackend struct {
	getErr, putErr error
}

func (b *errBackend) Get(store.Kind, string) ([]byte, bool, error) {
	return nil, false, b.getErr
}

func (b *errBackend) Put(store.Kind, string, []byte) error {
	return b.putErr
}

func TestStoreBackendErrors(t *testing.T) {
	t.Parallel()

	ioErr := errors.New("permission denied")
	s := New(&errBackend{getErr: ioErr, putErr: ioErr})

	err := s.Put("key", "value")
	assert.ErrorIs(t, err, ioErr)
	assert.Equal(t, 0, s.Len())

	_, ok, err := s.Get("key")
	assert.ErrorIs(t, err, ioErr)
	assert.False(t, ok)
}

func TestStoreConcurrent(t *testing.T) {
	t.Parallel()

	s := New(newBlobStore(t, fileops.NewFake()))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", i)
			val := fmt.Sprintf("value%d", i)
			assert.NoError(t, s.Put(key, val))
			got, ok, err := s.Get(key)
			assert.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, val, got)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, s.Len())
}

func TestStoreTiming(t *testing.T) {
	t.Parallel()

	now := time.Unix(0, 0)
	tm := timing.New(func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	})

	b, err := blob.New("/tmp/test", fileops.NewFake(), blob.WithTiming(tm))
	require.NoError(t, err)
	s := New(b, WithTiming(tm))

	// Each call reads the clock once at the start and once at the end, so
	// time spent in the backend is also part of the cache's total.
	require.NoError(t, s.Put("key", "value"))
	assert.Equal(t, map[string]time.Duration{
		"blob": 1 * time.Millisecond,
		"hash": 3 * time.Millisecond,
	}, tm.Totals())

	// A cache hit doesn't reach the backend.
	_, ok, err := s.Get("key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, map[string]time.Duration{
		"blob": 1 * time.Millisecond,
		"hash": 4 * time.Millisecond,
	}, tm.Totals())
}
