package web

import (
	"context"
	"encoding/json"
	"testing"

	"runetable/internal/docstore"
)

// A store callback can fire after the read loop ends: the unsubscribes
// are deferred past the handler body, and stores snapshot their
// listener set before fan-out. A send landing in that window runs on
// the writing peer's goroutine, so it must be dropped, never allowed
// to panic on a closed channel.
func TestBridgeDropsSendsAfterShutdown(t *testing.T) {
	store := docstore.NewMemory()
	bridge := &wsBridge{out: make(chan ServerMessage, 4)}
	ctx := context.Background()

	unsub, err := store.Subscribe(ctx, "doc", func(data []byte) {
		bridge.send(ServerMessage{Type: "state", Doc: json.RawMessage(data)})
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer unsub()

	if err := store.Overwrite(ctx, "doc", []byte(`{"v":1}`)); err != nil {
		t.Fatal(err)
	}
	if got := <-bridge.out; got.Type != "state" {
		t.Fatalf("message before shutdown = %+v", got)
	}

	bridge.shutdown()

	// The subscription is still live; this write fans out to the bridge
	// on this goroutine and must be a silent no-op.
	if err := store.Overwrite(ctx, "doc", []byte(`{"v":2}`)); err != nil {
		t.Fatal(err)
	}

	if _, open := <-bridge.out; open {
		t.Error("out delivered a message after shutdown")
	}
	bridge.shutdown() // second shutdown must not close out twice
}

func TestBridgeDropsWhenConsumerIsSlow(t *testing.T) {
	bridge := &wsBridge{out: make(chan ServerMessage, 1)}
	bridge.send(ServerMessage{Type: "state"})
	bridge.send(ServerMessage{Type: "lobby"})

	got := <-bridge.out
	if got.Type != "state" {
		t.Fatalf("kept message = %+v", got)
	}
	select {
	case extra := <-bridge.out:
		t.Errorf("overflow message was queued: %+v", extra)
	default:
	}
}
