package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging match events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	seat := e.Seat
	if seat == "" {
		seat = "--"
	}
	return fmt.Sprintf("#%-3d %-2s %-14s| %s", e.Seq, seat, e.Type, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewSessionStartEvent(lobbyID string) GameEvent {
	return GameEvent{
		Type:    EventSessionStart,
		Details: fmt.Sprintf("session started for lobby %s", lobbyID),
	}
}

func NewSessionEndEvent(lobbyID string) GameEvent {
	return GameEvent{
		Type:    EventSessionEnd,
		Details: fmt.Sprintf("session ended for lobby %s", lobbyID),
	}
}

func NewPhaseChangeEvent(phase string) GameEvent {
	return GameEvent{
		Type:    EventPhaseChange,
		Details: fmt.Sprintf("phase → %s", phase),
	}
}

func NewDecksLoadedEvent(seat string, size int) GameEvent {
	return GameEvent{
		Seat:    seat,
		Type:    EventDecksLoaded,
		Details: fmt.Sprintf("%s deck materialized (%d cards)", seat, size),
	}
}

func NewDealEvent(seat, legend, champion string) GameEvent {
	return GameEvent{
		Seat:    seat,
		Type:    EventDeal,
		Details: fmt.Sprintf("%s dealt legend=%s champion=%s", seat, orNone(legend), orNone(champion)),
	}
}

func NewDrawEvent(seat, cardName string) GameEvent {
	return GameEvent{
		Seat:    seat,
		Type:    EventDraw,
		Card:    cardName,
		Details: fmt.Sprintf("%s draws %s", seat, cardName),
	}
}

func NewDrawRuneEvent(seat, cardName string) GameEvent {
	return GameEvent{
		Seat:    seat,
		Type:    EventDrawRune,
		Card:    cardName,
		Details: fmt.Sprintf("%s channels rune %s", seat, cardName),
	}
}

func NewMoveEvent(seat, cardName, from, to string) GameEvent {
	return GameEvent{
		Seat:    seat,
		Type:    EventMove,
		Card:    cardName,
		Zone:    to,
		Details: fmt.Sprintf("%s moves %s: %s → %s", seat, cardName, from, to),
	}
}

func NewDiscardEvent(seat, cardName, from string) GameEvent {
	return GameEvent{
		Seat:    seat,
		Type:    EventDiscard,
		Card:    cardName,
		Zone:    from,
		Details: fmt.Sprintf("%s discards %s from %s", seat, cardName, from),
	}
}

func NewToBottomOfDeckEvent(seat, cardName, from string) GameEvent {
	return GameEvent{
		Seat:    seat,
		Type:    EventToBottomOfDeck,
		Card:    cardName,
		Zone:    from,
		Details: fmt.Sprintf("%s returns %s to bottom of deck", seat, cardName),
	}
}

func NewReturnToHandEvent(seat, cardName string) GameEvent {
	return GameEvent{
		Seat:    seat,
		Type:    EventReturnToHand,
		Card:    cardName,
		Details: fmt.Sprintf("%s returns %s to hand", seat, cardName),
	}
}

func NewShuffleEvent(seat, which string) GameEvent {
	return GameEvent{
		Seat:    seat,
		Type:    EventShuffle,
		Details: fmt.Sprintf("%s shuffles %s", seat, which),
	}
}

func NewRevealEvent(seat string, count int) GameEvent {
	return GameEvent{
		Seat:    seat,
		Type:    EventReveal,
		Details: fmt.Sprintf("%s reveals top %d of deck", seat, count),
	}
}

func NewRevealClearEvent(seat string) GameEvent {
	return GameEvent{
		Seat:    seat,
		Type:    EventRevealClear,
		Details: fmt.Sprintf("%s clears reveals", seat),
	}
}

func NewScoreEvent(seat string, score int) GameEvent {
	return GameEvent{
		Seat:    seat,
		Type:    EventScore,
		Details: fmt.Sprintf("%s score → %d", seat, score),
	}
}

func NewRotateEvent(seat, cardName, zone string, angle int) GameEvent {
	return GameEvent{
		Seat:    seat,
		Type:    EventRotate,
		Card:    cardName,
		Zone:    zone,
		Details: fmt.Sprintf("%s rotates %s in %s to %d°", seat, cardName, zone, angle),
	}
}

func NewHideEvent(seat, cardName, zone string, hidden bool) GameEvent {
	face := "face-up"
	if hidden {
		face = "face-down"
	}
	return GameEvent{
		Seat:    seat,
		Type:    EventHide,
		Card:    cardName,
		Zone:    zone,
		Details: fmt.Sprintf("%s turns %s in %s %s", seat, cardName, zone, face),
	}
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
