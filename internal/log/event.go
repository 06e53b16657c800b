package log

// EventType enumerates all observable tabletop events.
type EventType int

const (
	EventSessionStart EventType = iota
	EventSessionEnd
	EventPhaseChange
	EventDecksLoaded
	EventDeal
	EventDraw
	EventDrawRune
	EventMove
	EventDiscard
	EventToBottomOfDeck
	EventReturnToHand
	EventShuffle
	EventReveal
	EventRevealClear
	EventScore
	EventRotate
	EventHide
)

func (e EventType) String() string {
	switch e {
	case EventSessionStart:
		return "SessionStart"
	case EventSessionEnd:
		return "SessionEnd"
	case EventPhaseChange:
		return "PhaseChange"
	case EventDecksLoaded:
		return "DecksLoaded"
	case EventDeal:
		return "Deal"
	case EventDraw:
		return "Draw"
	case EventDrawRune:
		return "DrawRune"
	case EventMove:
		return "Move"
	case EventDiscard:
		return "Discard"
	case EventToBottomOfDeck:
		return "ToBottomOfDeck"
	case EventReturnToHand:
		return "ReturnToHand"
	case EventShuffle:
		return "Shuffle"
	case EventReveal:
		return "Reveal"
	case EventRevealClear:
		return "RevealClear"
	case EventScore:
		return "Score"
	case EventRotate:
		return "Rotate"
	case EventHide:
		return "Hide"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a match session.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Seat    string    // acting seat ("p1", "p2", "" for session-level)
	Type    EventType // event type
	Card    string    // card name (if applicable)
	Zone    string    // zone id (if applicable)
	Details string    // human-readable detail string
}
