package lobby

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runetable/internal/docstore"
)

func newTestService(t *testing.T) (*Service, *Lobby) {
	t.Helper()
	svc := NewService(docstore.NewMemory())
	l, err := svc.Create(context.Background(), "host-1", "Hostess")
	require.NoError(t, err)
	return svc, l
}

func TestCreateAndGet(t *testing.T) {
	svc, l := newTestService(t)

	got, err := svc.Get(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, "host-1", got.HostUID)
	assert.Equal(t, StatusOpen, got.Status)
	assert.Equal(t, 1, got.Rules.BestOf)
	assert.Nil(t, got.P1)
	assert.Nil(t, got.P2)
}

func TestGetMissingLobby(t *testing.T) {
	svc := NewService(docstore.NewMemory())
	_, err := svc.Get(context.Background(), "no-such-lobby")
	assert.ErrorIs(t, err, ErrLobbyMissing)
}

func TestClaimSeat(t *testing.T) {
	svc, l := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.ClaimSeat(ctx, l.ID, "p1", Member{UID: "u1", Username: "Ana"}))

	got, err := svc.Get(ctx, l.ID)
	require.NoError(t, err)
	require.NotNil(t, got.P1)
	assert.Equal(t, "u1", got.P1.UID)
	assert.Equal(t, "p1", got.SeatOf("u1"))
}

func TestClaimSeatConflict(t *testing.T) {
	svc, l := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.ClaimSeat(ctx, l.ID, "p1", Member{UID: "u1"}))
	err := svc.ClaimSeat(ctx, l.ID, "p1", Member{UID: "u2"})
	assert.ErrorIs(t, err, ErrSeatTaken)

	// The loser keeps nothing; the winner keeps the seat.
	got, err := svc.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.P1.UID)
	assert.Equal(t, "", got.SeatOf("u2"))
}

func TestClaimOwnSeatIsNoOp(t *testing.T) {
	svc, l := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.ClaimSeat(ctx, l.ID, "p2", Member{UID: "u1"}))
	require.NoError(t, svc.ClaimSeat(ctx, l.ID, "p2", Member{UID: "u1"}))

	got, err := svc.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.P2.UID)
}

func TestClaimOtherSeatVacatesFirst(t *testing.T) {
	svc, l := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.ClaimSeat(ctx, l.ID, "p1", Member{UID: "u1"}))
	require.NoError(t, svc.SetReady(ctx, l.ID, "u1", true))
	require.NoError(t, svc.ClaimSeat(ctx, l.ID, "p2", Member{UID: "u1"}))

	got, err := svc.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Nil(t, got.P1, "old seat must be vacated")
	assert.False(t, got.P1Ready, "old seat's ready flag must clear")
	assert.Equal(t, "p2", got.SeatOf("u1"))
}

func TestLeaveSeatClearsState(t *testing.T) {
	svc, l := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.ClaimSeat(ctx, l.ID, "p1", Member{UID: "u1"}))
	require.NoError(t, svc.SetReady(ctx, l.ID, "u1", true))
	require.NoError(t, svc.SetDeck(ctx, l.ID, "u1", "deck-9"))
	require.NoError(t, svc.LeaveSeat(ctx, l.ID, "u1"))

	got, err := svc.Get(ctx, l.ID)
	require.NoError(t, err)
	assert.Nil(t, got.P1)
	assert.False(t, got.P1Ready)
	assert.Empty(t, got.P1Deck)

	assert.ErrorIs(t, svc.LeaveSeat(ctx, l.ID, "u1"), ErrNotInSeat)
}

func TestReadyAndDeckRequireSeat(t *testing.T) {
	svc, l := newTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.SetReady(ctx, l.ID, "stranger", true), ErrNotInSeat)
	assert.ErrorIs(t, svc.SetDeck(ctx, l.ID, "stranger", "deck-1"), ErrNotInSeat)
}

func TestStatusLifecycle(t *testing.T) {
	svc, l := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.SetStatus(ctx, l.ID, StatusSelectingDecks))
	require.NoError(t, svc.SetStatus(ctx, l.ID, StatusInGame))
	require.NoError(t, svc.SetStatus(ctx, l.ID, StatusClosed))

	// Closed is terminal.
	assert.ErrorIs(t, svc.SetStatus(ctx, l.ID, StatusOpen), ErrLobbyClosed)
	assert.ErrorIs(t, svc.ClaimSeat(ctx, l.ID, "p1", Member{UID: "u1"}), ErrLobbyClosed)
}

func TestAddSpectator(t *testing.T) {
	svc, l := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.ClaimSeat(ctx, l.ID, "p1", Member{UID: "seated"}))
	require.NoError(t, svc.AddSpectator(ctx, l.ID, Member{UID: "watcher"}))
	require.NoError(t, svc.AddSpectator(ctx, l.ID, Member{UID: "watcher"}))
	require.NoError(t, svc.AddSpectator(ctx, l.ID, Member{UID: "seated"}))

	got, err := svc.Get(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, got.Spectators, 1, "no duplicates, seated users never spectate")
	assert.Equal(t, "watcher", got.Spectators[0].UID)
}

func TestSubscribeDecodes(t *testing.T) {
	svc, l := newTestService(t)
	ctx := context.Background()

	var statuses []Status
	unsub, err := svc.Subscribe(ctx, l.ID, func(snap *Lobby) {
		statuses = append(statuses, snap.Status)
	})
	require.NoError(t, err)
	defer unsub()

	require.NoError(t, svc.SetStatus(ctx, l.ID, StatusInGame))
	assert.Equal(t, []Status{StatusOpen, StatusInGame}, statuses)
}

func TestBothReady(t *testing.T) {
	svc, l := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.ClaimSeat(ctx, l.ID, "p1", Member{UID: "u1"}))
	require.NoError(t, svc.ClaimSeat(ctx, l.ID, "p2", Member{UID: "u2"}))
	require.NoError(t, svc.SetReady(ctx, l.ID, "u1", true))

	got, _ := svc.Get(ctx, l.ID)
	assert.False(t, got.BothReady())

	require.NoError(t, svc.SetReady(ctx, l.ID, "u2", true))
	got, _ = svc.Get(ctx, l.ID)
	assert.True(t, got.BothReady())
}
