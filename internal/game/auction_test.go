package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuctionRoom(t *testing.T, secrets map[string]int) *Room {
	t.Helper()
	r := newStartedRoom(t)
	selectAll(t, r, secrets)
	require.NoError(t, r.OpenAuction())
	return r
}

func requireBid(t *testing.T, r *Room, want int) {
	t.Helper()
	bid, ok := r.CurrentBid()
	require.True(t, ok, "expected an open bid")
	require.Equal(t, want, bid)
}

func TestOpenAuction(t *testing.T) {
	t.Parallel()
	r := newAuctionRoom(t, map[string]int{"p1": 1, "p2": 2, "p3": 3})

	assert.Equal(t, PhaseAuction, r.Phase())
	requireBid(t, r, OpeningBid)
	assert.Equal(t, "p1", r.Active().ID)
	assert.Len(t, r.Alive(), 3)
}

func TestAuctionScenario(t *testing.T) {
	t.Parallel()
	r := newAuctionRoom(t, map[string]int{"p1": 2, "p2": 5, "p3": 3})

	steps := []struct {
		player string
		action BidAction
		bid    int
		next   string
	}{
		{"p1", Raise, 2, "p2"},
		{"p2", Raise, 3, "p3"},
		{"p3", Pass, 3, "p1"},
		{"p1", Raise, 4, "p2"},
	}
	for _, step := range steps {
		require.NoError(t, r.Act(step.player, step.action), "%s %s", step.player, step.action)
		requireBid(t, r, step.bid)
		require.Equal(t, step.next, r.Active().ID, "after %s %s", step.player, step.action)
	}
	assert.Len(t, r.Alive(), 2)

	require.NoError(t, r.Pass("p2"))
	assert.Equal(t, PhaseResolution, r.Phase())
	require.Len(t, r.Alive(), 1)
	assert.Equal(t, "p1", r.Alive()[0].ID)

	result, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "p1", result.WinnerID)
	assert.Equal(t, 10, result.TrueSum)
	assert.Equal(t, 4, result.Paid)
	assert.Equal(t, 6, result.Delta)

	p1, _ := r.Player("p1")
	p2, _ := r.Player("p2")
	p3, _ := r.Player("p3")
	assert.Equal(t, 6, p1.Score)
	assert.Zero(t, p2.Score)
	assert.Zero(t, p3.Score)
}

// A pass must hand the turn to the next seat still in the auction
func TestPassAdvancesTurnToNextAlivePlayer(t *testing.T) {
	t.Parallel()
	r := newAuctionRoom(t, map[string]int{"p1": 1, "p2": 2, "p3": 3})

	require.NoError(t, r.Pass("p1"))
	require.Equal(t, "p2", r.Active().ID)
	require.NoError(t, r.Raise("p2"))
	require.Equal(t, "p3", r.Active().ID)
	require.NoError(t, r.Raise("p3"))
	require.Equal(t, "p2", r.Active().ID, "p1 passed and must be skipped")
	requireBid(t, r, 3)
}

func TestRejectedActionsDoNotMutate(t *testing.T) {
	t.Parallel()
	r := newAuctionRoom(t, map[string]int{"p1": 1, "p2": 2, "p3": 3})
	require.NoError(t, r.Pass("p1"))

	tests := []struct {
		name   string
		player string
		action BidAction
		err    error
	}{
		{"not on turn", "p3", Raise, ErrNotYourTurn},
		{"not on turn pass", "p3", Pass, ErrNotYourTurn},
		{"already passed raise", "p1", Raise, ErrAlreadyPassed},
		{"already passed pass", "p1", Pass, ErrAlreadyPassed},
		{"stranger", "p9", Raise, ErrNotSeated},
	}
	for _, tt := range tests {
		err := r.Act(tt.player, tt.action)
		assert.ErrorIs(t, err, tt.err, tt.name)
		requireBid(t, r, 1)
		assert.Equal(t, "p2", r.Active().ID, tt.name)
		assert.Len(t, r.Alive(), 2, tt.name)
		assert.Equal(t, PhaseAuction, r.Phase(), tt.name)
	}
}

func TestActionsOutsideAuction(t *testing.T) {
	t.Parallel()
	r := newStartedRoom(t)
	assert.ErrorIs(t, r.Raise("p1"), ErrWrongPhase)
	assert.ErrorIs(t, r.Pass("p1"), ErrWrongPhase)
	assert.Nil(t, r.Active())
}

func TestBidRisesByOnePerRaise(t *testing.T) {
	t.Parallel()
	r := newAuctionRoom(t, map[string]int{"p1": 6, "p2": 6, "p3": 6})

	last := OpeningBid
	for i := 0; i < 20; i++ {
		require.NoError(t, r.Raise(r.Active().ID))
		bid, ok := r.CurrentBid()
		require.True(t, ok)
		require.Equal(t, last+1, bid)
		last = bid
	}
}

func TestParseBidAction(t *testing.T) {
	t.Parallel()
	a, err := ParseBidAction("raise")
	require.NoError(t, err)
	assert.Equal(t, Raise, a)

	a, err = ParseBidAction("pass")
	require.NoError(t, err)
	assert.Equal(t, Pass, a)

	_, err = ParseBidAction("fold")
	assert.ErrorIs(t, err, ErrInvalidAction)
}
