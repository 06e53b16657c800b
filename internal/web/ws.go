package web

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/coder/websocket"

	"runetable/internal/board"
	"runetable/internal/lobby"
	"runetable/internal/log"
	"runetable/internal/match"
	"runetable/internal/presence"
)

// handleWebSocket attaches one browser to a match session. The first
// client message must be a join; after that the bridge forwards shared
// document snapshots down and board operations up.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.log.WithError(err).Warn("websocket accept")
		return
	}
	defer wsConn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_, joinData, err := wsConn.Read(ctx)
	if err != nil {
		return
	}
	var join ClientMessage
	if err := json.Unmarshal(joinData, &join); err != nil || join.Type != "join" || join.LobbyID == "" || join.UID == "" {
		wsConn.Close(websocket.StatusPolicyViolation, "expected join message")
		return
	}

	bridge := &wsBridge{
		server: s,
		conn:   wsConn,
		out:    make(chan ServerMessage, 64),
		watch:  make(map[string]func()),
	}

	session := match.New(match.Config{
		Store:   s.store,
		Catalog: s.cat,
		Decks:   s.decks,
		Events:  log.NewMemoryLogger(),
		Log:     s.log,
		LobbyID: join.LobbyID,
		User:    match.User{UID: join.UID, Username: join.Username},
		Seed:    s.seed,
	})
	if err := session.Start(ctx); err != nil {
		s.log.WithError(err).Warn("session start")
		wsConn.Close(websocket.StatusInternalError, "session start failed")
		return
	}
	defer session.Close()
	bridge.session = session

	tracker := presence.NewTracker(s.store, s.log, join.UID, join.Username, 0)
	tracker.Start(ctx)
	defer tracker.Stop()

	// Raw document feeds for the browser. The session keeps its own
	// subscriptions; these exist only to render.
	unsubLobby, err := s.store.Subscribe(ctx, lobby.PathFor(join.LobbyID), func(data []byte) {
		bridge.send(ServerMessage{Type: "lobby", Doc: json.RawMessage(data)})
	})
	if err != nil {
		wsConn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer unsubLobby()
	unsubState, err := s.store.Subscribe(ctx, lobby.MatchStatePath(join.LobbyID), func(data []byte) {
		bridge.send(ServerMessage{Type: "state", Doc: json.RawMessage(data)})
	})
	if err != nil {
		wsConn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer unsubState()
	defer bridge.unwatchAll()

	bridge.send(ServerMessage{
		Type: "joined",
		Role: session.Role().String(),
		Seat: session.MySeat().String(),
	})

	// Single writer: all outbound messages funnel through out.
	writeDone := make(chan struct{})
	go func() {
		defer close(writeDone)
		for msg := range bridge.out {
			data, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			if err := wsConn.Write(ctx, websocket.MessageText, data); err != nil {
				cancel()
				return
			}
		}
	}()

	for {
		_, data, err := wsConn.Read(ctx)
		if err != nil {
			break
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			bridge.send(ServerMessage{Type: "error", Error: "bad message"})
			continue
		}
		bridge.handle(ctx, msg)
	}

	bridge.shutdown()
	<-writeDone
	wsConn.Close(websocket.StatusNormalClosure, "bye")
}

// wsBridge is the per-connection state of the websocket bridge.
type wsBridge struct {
	server  *Server
	conn    *websocket.Conn
	session *match.Session
	out     chan ServerMessage
	watch   map[string]func() // overlay key → unsubscribe

	mu     sync.Mutex
	closed bool
}

// send queues an outbound message. Subscription callbacks keep calling
// this from other goroutines until their unsubscribes run, which is
// after the handler returns; sends after shutdown are dropped rather
// than allowed to hit a closed channel.
func (b *wsBridge) send(msg ServerMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	select {
	case b.out <- msg:
	default:
		// Slow consumer: drop. The next full snapshot catches them up.
	}
}

// shutdown stops the writer goroutine. The mutex excludes in-flight
// sends, so closing out here cannot race a send.
func (b *wsBridge) shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.out)
}

func (b *wsBridge) handle(ctx context.Context, msg ClientMessage) {
	switch msg.Type {
	case "op":
		b.handleOp(msg)
	case "watchCardState":
		b.watchCardState(ctx, msg.Key)
	case "unwatchCardState":
		if unsub, ok := b.watch[msg.Key]; ok {
			unsub()
			delete(b.watch, msg.Key)
		}
	default:
		b.send(ServerMessage{Type: "error", Error: "unknown message type " + msg.Type})
	}
}

// watchCardState feeds one overlay document to the browser. Overlay keys
// are client-chosen; watching a key with no document yields nothing
// until someone writes it.
func (b *wsBridge) watchCardState(ctx context.Context, key string) {
	if key == "" || b.watch[key] != nil {
		return
	}
	path := lobby.CardStatePath(b.session.LobbyID(), key)
	unsub, err := b.server.store.Subscribe(ctx, path, func(data []byte) {
		b.send(ServerMessage{Type: "cardState", Key: key, Doc: json.RawMessage(data)})
	})
	if err != nil {
		b.send(ServerMessage{Type: "error", Error: "watch failed"})
		return
	}
	b.watch[key] = unsub
}

func (b *wsBridge) unwatchAll() {
	for _, unsub := range b.watch {
		unsub()
	}
	b.watch = nil
}

// handleOp dispatches a board operation. The seat check is advisory:
// spectators and unseated viewers are turned away here, but seated
// players are trusted with the whole board.
func (b *wsBridge) handleOp(msg ClientMessage) {
	if b.session.MySeat() == board.SeatNone {
		b.send(ServerMessage{Type: "error", Error: "spectators cannot act"})
		return
	}
	sess := b.session
	switch msg.Op {
	case OpMoveCard:
		from, err1 := board.ParseZoneID(msg.From)
		to, err2 := board.ParseZoneID(msg.To)
		if err1 != nil || err2 != nil {
			b.send(ServerMessage{Type: "error", Error: "bad zone id"})
			return
		}
		sess.MoveCard(from, msg.Index, to)
	case OpSendToDiscard:
		from, err1 := board.ParseZoneID(msg.From)
		to, err2 := board.ParseZoneID(msg.To)
		if err1 != nil || err2 != nil {
			b.send(ServerMessage{Type: "error", Error: "bad zone id"})
			return
		}
		sess.SendToDiscard(from, msg.Index, to)
	case OpSendToBottomOfDeck:
		from, err1 := board.ParseZoneID(msg.From)
		to, err2 := board.ParseZoneID(msg.To)
		if err1 != nil || err2 != nil {
			b.send(ServerMessage{Type: "error", Error: "bad zone id"})
			return
		}
		sess.SendToBottomOfDeck(from, msg.Index, to)
	case OpDiscardToBottomOfDeck:
		from, err := board.ParseZoneID(msg.From)
		if err != nil {
			b.send(ServerMessage{Type: "error", Error: "bad zone id"})
			return
		}
		sess.DiscardToBottomOfDeck(from, msg.Index)
	case OpDiscardToHand:
		from, err := board.ParseZoneID(msg.From)
		if err != nil {
			b.send(ServerMessage{Type: "error", Error: "bad zone id"})
			return
		}
		sess.DiscardToHand(from, msg.Index)
	case OpDrawFromDeck:
		sess.DrawFromDeck(board.ParseSeat(msg.Seat))
	case OpDrawRune:
		sess.DrawRune(board.ParseSeat(msg.Seat))
	case OpShuffleMainDeck:
		sess.ShuffleMainDeck(board.ParseSeat(msg.Seat))
	case OpShuffleRuneDeck:
		sess.ShuffleRuneDeck(board.ParseSeat(msg.Seat))
	case OpSyncReveals:
		sess.SyncReveals(board.ParseSeat(msg.Seat), msg.Count)
	case OpClearReveals:
		sess.ClearReveals(board.ParseSeat(msg.Seat))
	case OpIncrementScore:
		sess.IncrementScore(board.ParseSeat(msg.Seat))
	case OpDecrementScore:
		sess.DecrementScore(board.ParseSeat(msg.Seat))
	case OpSetRotation:
		zone, err := board.ParseZoneID(msg.Zone)
		if err != nil {
			b.send(ServerMessage{Type: "error", Error: "bad zone id"})
			return
		}
		sess.SetRotation(zone, msg.CardID, msg.Index, msg.Angle)
	case OpSetHidden:
		zone, err := board.ParseZoneID(msg.Zone)
		if err != nil {
			b.send(ServerMessage{Type: "error", Error: "bad zone id"})
			return
		}
		sess.SetHidden(zone, msg.CardID, msg.Index, msg.Hidden)
	case OpClearCardState:
		zone, err := board.ParseZoneID(msg.Zone)
		if err != nil {
			b.send(ServerMessage{Type: "error", Error: "bad zone id"})
			return
		}
		sess.ClearCardState(zone, msg.CardID, msg.Index)
	default:
		b.send(ServerMessage{Type: "error", Error: "unknown op " + msg.Op})
	}
}
