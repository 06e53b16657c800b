package web

import "encoding/json"

// Message types for the JSON protocol over the browser websocket.

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages. The
// first message must be a "join"; everything after is an "op" or a
// cardState watch request.
type ClientMessage struct {
	Type string `json:"type"`

	// For "join"
	LobbyID  string `json:"lobbyId,omitempty"`
	UID      string `json:"uid,omitempty"`
	Username string `json:"username,omitempty"`

	// For "op"
	Op     string `json:"op,omitempty"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	Zone   string `json:"zone,omitempty"`
	Index  int    `json:"index,omitempty"`
	Seat   string `json:"seat,omitempty"`
	CardID string `json:"cardId,omitempty"`
	Count  int    `json:"count,omitempty"`
	Angle  int    `json:"angle,omitempty"`
	Hidden bool   `json:"hidden,omitempty"`

	// For "watchCardState" / "unwatchCardState"
	Key string `json:"key,omitempty"`
}

// Op names accepted in "op" messages.
const (
	OpMoveCard              = "moveCard"
	OpSendToDiscard         = "sendToDiscard"
	OpSendToBottomOfDeck    = "sendToBottomOfDeck"
	OpDiscardToBottomOfDeck = "discardToBottomOfDeck"
	OpDiscardToHand         = "discardToHand"
	OpDrawFromDeck          = "drawFromDeck"
	OpDrawRune              = "drawRune"
	OpShuffleMainDeck       = "shuffleMainDeck"
	OpShuffleRuneDeck       = "shuffleRuneDeck"
	OpSyncReveals           = "syncReveals"
	OpClearReveals          = "clearReveals"
	OpIncrementScore        = "incrementScore"
	OpDecrementScore        = "decrementScore"
	OpSetRotation           = "setRotation"
	OpSetHidden             = "setHidden"
	OpClearCardState        = "clearCardState"
)

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "joined"
	Role string `json:"role,omitempty"`
	Seat string `json:"seat,omitempty"`

	// For "lobby" and "state": the raw shared document.
	Doc json.RawMessage `json:"doc,omitempty"`

	// For "cardState"
	Key string `json:"key,omitempty"`

	// For "error"
	Error string `json:"error,omitempty"`
}
