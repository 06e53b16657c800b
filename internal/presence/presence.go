// Package presence publishes per-user online heartbeats through the
// document store so lobby lists can show who is around. Liveness is
// inferred from lastSeen; a crashed client simply goes stale.
package presence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"runetable/internal/docstore"
)

// Doc is the per-user presence document.
type Doc struct {
	Online   bool   `json:"online"`
	Username string `json:"username,omitempty"`
	LastSeen int64  `json:"lastSeen"` // unix millis
}

// PathFor returns the presence document path for a uid.
func PathFor(uid string) string {
	return "presence/" + uid
}

// DefaultInterval is the heartbeat period.
const DefaultInterval = 30 * time.Second

// Tracker maintains one user's heartbeat. Start it once per connected
// client; Stop marks the user offline.
type Tracker struct {
	store    docstore.Store
	log      *logrus.Entry
	uid      string
	username string
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewTracker creates a tracker for a user. A zero interval uses
// DefaultInterval.
func NewTracker(store docstore.Store, log *logrus.Entry, uid, username string, interval time.Duration) *Tracker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Tracker{
		store:    store,
		log:      log.WithField("uid", uid),
		uid:      uid,
		username: username,
		interval: interval,
	}
}

// Start writes an immediate online heartbeat and keeps refreshing it
// until Stop or context cancellation.
func (t *Tracker) Start(ctx context.Context) {
	ctx, t.cancel = context.WithCancel(ctx)
	t.done = make(chan struct{})
	t.beat(ctx, true)
	go func() {
		defer close(t.done)
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.beat(ctx, true)
			}
		}
	}()
}

// Stop halts the heartbeat and writes a final offline document.
func (t *Tracker) Stop() {
	if t.cancel == nil {
		return
	}
	t.cancel()
	<-t.done
	// A fresh context: the loop's is already cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	t.beat(ctx, false)
}

func (t *Tracker) beat(ctx context.Context, online bool) {
	data, err := json.Marshal(Doc{
		Online:   online,
		Username: t.username,
		LastSeen: time.Now().UnixMilli(),
	})
	if err != nil {
		return
	}
	if err := t.store.Overwrite(ctx, PathFor(t.uid), data); err != nil {
		t.log.WithError(err).Warn("presence write failed")
	}
}
