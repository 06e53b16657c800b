package presence

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runetable/internal/docstore"
)

func readDoc(t *testing.T, store docstore.Store, uid string) Doc {
	t.Helper()
	data, err := store.Get(context.Background(), PathFor(uid))
	require.NoError(t, err)
	var doc Doc
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestTrackerHeartbeat(t *testing.T) {
	store := docstore.NewMemory()
	tracker := NewTracker(store, logrus.NewEntry(logrus.New()), "u1", "Ana", time.Hour)

	tracker.Start(context.Background())

	doc := readDoc(t, store, "u1")
	assert.True(t, doc.Online)
	assert.Equal(t, "Ana", doc.Username)
	assert.NotZero(t, doc.LastSeen)

	tracker.Stop()
	doc = readDoc(t, store, "u1")
	assert.False(t, doc.Online, "stop must mark the user offline")
}

func TestStopWithoutStart(t *testing.T) {
	store := docstore.NewMemory()
	tracker := NewTracker(store, logrus.NewEntry(logrus.New()), "u1", "Ana", 0)
	tracker.Stop() // must not panic

	_, err := store.Get(context.Background(), PathFor("u1"))
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}
