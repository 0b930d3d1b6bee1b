package bot

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blindbid/internal/game"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestBounds(t *testing.T) {
	t.Parallel()
	for secret := game.MinChoice; secret <= game.MaxChoice; secret++ {
		lo, hi := Bounds(secret)
		assert.Equal(t, secret+2, lo)
		assert.Equal(t, secret+12, hi)
		assert.Equal(t, secret+7, Target(secret))
	}
}

func TestDecideStopsAtTarget(t *testing.T) {
	t.Parallel()
	h := NewHeuristic(testLogger())

	// Secret 1: target 8, ceiling 13
	for bid := 1; bid < 8; bid++ {
		assert.Equal(t, game.Raise, h.Decide(1, bid), "bid %d", bid)
	}
	for bid := 8; bid <= 14; bid++ {
		assert.Equal(t, game.Pass, h.Decide(1, bid), "bid %d", bid)
	}
}

func TestDecideTable(t *testing.T) {
	t.Parallel()
	tests := []struct {
		secret, bid int
		want        game.BidAction
	}{
		{6, 1, game.Raise},
		{6, 12, game.Raise},
		{6, 13, game.Pass},
		{3, 9, game.Raise},
		{3, 10, game.Pass},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Decide(tt.secret, tt.bid), "secret %d bid %d", tt.secret, tt.bid)
	}
}

func TestChooseSecretPicksLowestUnused(t *testing.T) {
	t.Parallel()
	h := NewHeuristic(testLogger())

	r := game.NewRoom("room-1")
	for i := 0; i < game.MaxPlayers; i++ {
		_, err := r.AddAutomated()
		require.NoError(t, err)
	}
	require.NoError(t, r.Start())

	for round := 1; round <= game.Rounds; round++ {
		for _, p := range r.Players() {
			n := h.ChooseSecret(p)
			assert.Equal(t, round, n, "deterministic pick for %s", p.ID)
			require.NoError(t, r.SelectSecret(p.ID, n))
		}
		require.NoError(t, r.OpenAuction())
		for r.Phase() == game.PhaseAuction {
			active := r.Active()
			bid, _ := r.CurrentBid()
			require.NoError(t, r.Act(active.ID, h.Decide(active.Secret, bid)))
		}
		_, err := r.Resolve()
		require.NoError(t, err)
	}
	assert.Equal(t, game.PhaseFinished, r.Phase())
}

func TestReasoning(t *testing.T) {
	t.Parallel()
	assert.Contains(t, Reasoning(1, 3), "under target 8")
	assert.Contains(t, Reasoning(1, 8), "at or over target 8")
}
