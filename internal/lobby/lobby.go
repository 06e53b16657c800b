// Package lobby manages the shared lobby documents that drive match
// navigation: who holds which seat, readiness, chosen decks, and the
// status the session controller keys its lifecycle off.
package lobby

// Status is the lobby lifecycle state.
type Status string

const (
	StatusOpen           Status = "open"
	StatusSelectingDecks Status = "selecting-decks"
	StatusInGame         Status = "in-game"
	StatusClosed         Status = "closed"
)

// Member is a user occupying a seat or spectating.
type Member struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
}

// Rules are the match rules agreed in the lobby.
type Rules struct {
	BestOf    int  `json:"bestOf"`
	Sideboard bool `json:"sideboard"`
}

// Lobby is the shared lobby document.
type Lobby struct {
	ID           string   `json:"id"`
	HostUID      string   `json:"hostUid"`
	HostUsername string   `json:"hostUsername"`
	Status       Status   `json:"status"`
	P1           *Member  `json:"p1,omitempty"`
	P2           *Member  `json:"p2,omitempty"`
	Spectators   []Member `json:"spectators,omitempty"`
	P1Ready      bool     `json:"p1Ready"`
	P2Ready      bool     `json:"p2Ready"`
	Rules        Rules    `json:"rules"`
	P1Deck       string   `json:"p1Deck,omitempty"`
	P2Deck       string   `json:"p2Deck,omitempty"`
}

// SeatOf returns which seat a uid occupies: "p1", "p2", or "".
func (l *Lobby) SeatOf(uid string) string {
	if l.P1 != nil && l.P1.UID == uid {
		return "p1"
	}
	if l.P2 != nil && l.P2.UID == uid {
		return "p2"
	}
	return ""
}

// BothReady reports whether both seats are filled and ready.
func (l *Lobby) BothReady() bool {
	return l.P1 != nil && l.P2 != nil && l.P1Ready && l.P2Ready
}
