package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetMissing(t *testing.T) {
	m := NewMemory()
	_, err := m.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryOverwriteAndGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Overwrite(ctx, "a/b", []byte(`{"v":1}`)))
	data, err := m.Get(ctx, "a/b")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(data))

	require.NoError(t, m.Overwrite(ctx, "a/b", []byte(`{"v":2}`)))
	data, err = m.Get(ctx, "a/b")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(data), "overwrite replaces, never merges")
}

func TestMemorySubscribeDeliversCurrentAndUpdates(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Overwrite(ctx, "doc", []byte("one")))

	var seen []string
	unsub, err := m.Subscribe(ctx, "doc", func(data []byte) {
		seen = append(seen, string(data))
	})
	require.NoError(t, err)
	defer unsub()

	require.NoError(t, m.Overwrite(ctx, "doc", []byte("two")))
	assert.Equal(t, []string{"one", "two"}, seen)

	unsub()
	require.NoError(t, m.Overwrite(ctx, "doc", []byte("three")))
	assert.Equal(t, []string{"one", "two"}, seen, "no delivery after unsubscribe")
}

func TestMemorySubscribeMissingDocDeliversNothing(t *testing.T) {
	m := NewMemory()
	called := false
	unsub, err := m.Subscribe(context.Background(), "ghost", func([]byte) { called = true })
	require.NoError(t, err)
	defer unsub()
	assert.False(t, called)
}

func TestMemoryUpdateReadModifyWrite(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	// First update sees nil.
	err := m.Update(ctx, "counter", func(old []byte) ([]byte, error) {
		require.Nil(t, old)
		return []byte("1"), nil
	})
	require.NoError(t, err)

	err = m.Update(ctx, "counter", func(old []byte) ([]byte, error) {
		require.Equal(t, "1", string(old))
		return []byte("2"), nil
	})
	require.NoError(t, err)

	data, err := m.Get(ctx, "counter")
	require.NoError(t, err)
	assert.Equal(t, "2", string(data))
}

func TestMemoryUpdateErrorLeavesDocUntouched(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Overwrite(ctx, "doc", []byte("keep")))

	boom := errors.New("boom")
	err := m.Update(ctx, "doc", func([]byte) ([]byte, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	data, err := m.Get(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}

func TestMemoryUpdateNotifiesSubscribers(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var seen []string
	unsub, err := m.Subscribe(ctx, "doc", func(data []byte) { seen = append(seen, string(data)) })
	require.NoError(t, err)
	defer unsub()

	require.NoError(t, m.Update(ctx, "doc", func([]byte) ([]byte, error) { return []byte("x"), nil }))
	assert.Equal(t, []string{"x"}, seen)
}

func TestMemoryDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Overwrite(ctx, "doc", []byte("x")))
	require.NoError(t, m.Delete(ctx, "doc"))
	_, err := m.Get(ctx, "doc")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, m.Delete(ctx, "doc"), "deleting a missing doc is not an error")
}

func TestMemoryDeleteNotifiesSubscribers(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Overwrite(ctx, "doc", []byte("x")))

	var snapshots [][]byte
	unsub, err := m.Subscribe(ctx, "doc", func(data []byte) { snapshots = append(snapshots, data) })
	require.NoError(t, err)
	defer unsub()

	require.NoError(t, m.Delete(ctx, "doc"))
	require.Len(t, snapshots, 2)
	assert.Nil(t, snapshots[1], "delete must deliver a nil tombstone")

	require.NoError(t, m.Delete(ctx, "doc"))
	assert.Len(t, snapshots, 2, "deleting a missing doc notifies nobody")
}

func TestMemoryStoredBytesAreIsolated(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	buf := []byte("abc")
	require.NoError(t, m.Overwrite(ctx, "doc", buf))
	buf[0] = 'z'

	data, err := m.Get(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data), "store must not alias caller buffers")
}
