package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSeatedRoom returns a lobby room with p1, p2 and p3 seated in order
func newSeatedRoom(t *testing.T) *Room {
	t.Helper()
	r := NewRoom("room-1")
	require.NoError(t, r.Join("p1", "Alice"))
	require.NoError(t, r.Join("p2", "Bob"))
	require.NoError(t, r.Join("p3", "Charlie"))
	return r
}

// newStartedRoom returns a room in round 1 secret selection
func newStartedRoom(t *testing.T) *Room {
	t.Helper()
	r := newSeatedRoom(t)
	require.NoError(t, r.Start())
	return r
}

// selectAll picks the given secrets, keyed by player ID
func selectAll(t *testing.T, r *Room, secrets map[string]int) {
	t.Helper()
	for id, n := range secrets {
		require.NoError(t, r.SelectSecret(id, n), "select %d for %s", n, id)
	}
}

// passOut has every seat on turn pass until the auction is decided
func passOut(t *testing.T, r *Room) {
	t.Helper()
	for r.Phase() == PhaseAuction {
		require.NoError(t, r.Pass(r.Active().ID))
	}
}

func TestJoin(t *testing.T) {
	t.Parallel()

	t.Run("seats players in join order", func(t *testing.T) {
		t.Parallel()
		r := newSeatedRoom(t)
		players := r.Players()
		require.Len(t, players, 3)
		assert.Equal(t, "p1", players[0].ID)
		assert.Equal(t, "p2", players[1].ID)
		assert.Equal(t, "p3", players[2].ID)
		assert.Equal(t, "Alice", players[0].Name)
		assert.False(t, players[0].IsAutomated)
	})

	t.Run("rejects duplicate identity", func(t *testing.T) {
		t.Parallel()
		r := NewRoom("room-1")
		require.NoError(t, r.Join("p1", "Alice"))
		assert.ErrorIs(t, r.Join("p1", "Alice again"), ErrAlreadyJoined)
		assert.Len(t, r.Players(), 1)
	})

	t.Run("rejects a fourth seat", func(t *testing.T) {
		t.Parallel()
		r := newSeatedRoom(t)
		assert.ErrorIs(t, r.Join("p4", "Dave"), ErrRoomFull)
		_, err := r.AddAutomated()
		assert.ErrorIs(t, err, ErrRoomFull)
		assert.Len(t, r.Players(), 3)
	})
}

func TestAddAutomatedNamesBotsInOrder(t *testing.T) {
	t.Parallel()
	r := NewRoom("room-1")
	require.NoError(t, r.Join("p1", "Alice"))

	b1, err := r.AddAutomated()
	require.NoError(t, err)
	b2, err := r.AddAutomated()
	require.NoError(t, err)

	assert.Equal(t, "bot-1", b1.ID)
	assert.Equal(t, "Bot 1", b1.Name)
	assert.Equal(t, "bot-2", b2.ID)
	assert.Equal(t, "Bot 2", b2.Name)
	assert.True(t, b1.IsAutomated)
}

func TestAddAutomatedSkipsIDsHeldByHumans(t *testing.T) {
	t.Parallel()
	r := NewRoom("room-1")
	require.NoError(t, r.Join("bot-1", "Mallory"))

	b1, err := r.AddAutomated()
	require.NoError(t, err)
	b2, err := r.AddAutomated()
	require.NoError(t, err)
	require.NoError(t, r.Start())

	assert.Equal(t, "bot-2", b1.ID)
	assert.Equal(t, "bot-3", b2.ID)

	seen := make(map[string]bool)
	for _, p := range r.Players() {
		assert.False(t, seen[p.ID], "duplicate seat %s", p.ID)
		seen[p.ID] = true
	}
	assert.Len(t, seen, MaxPlayers)

	human, ok := r.Player("bot-1")
	require.True(t, ok)
	assert.False(t, human.IsAutomated)
	assert.Equal(t, "Mallory", human.Name)
}

func TestStartRequiresExactlyThreePlayers(t *testing.T) {
	t.Parallel()

	for _, seats := range []int{0, 1, 2} {
		r := NewRoom("room-1")
		for i := 0; i < seats; i++ {
			_, err := r.AddAutomated()
			require.NoError(t, err)
		}
		assert.ErrorIs(t, r.Start(), ErrWrongPlayerCount, "%d seats", seats)
		assert.Equal(t, PhaseLobby, r.Phase(), "%d seats", seats)
	}
}

func TestStartOpensRoundOne(t *testing.T) {
	t.Parallel()
	r := newStartedRoom(t)

	assert.Equal(t, PhaseSecretSelection, r.Phase())
	assert.Equal(t, 1, r.Round())
	assert.Equal(t, "p1", r.Starter().ID)
	_, ok := r.CurrentBid()
	assert.False(t, ok, "no bid before the auction")
	assert.ErrorIs(t, r.Start(), ErrGameInProgress)
}

func TestSelectSecret(t *testing.T) {
	t.Parallel()

	t.Run("rejects out of range numbers", func(t *testing.T) {
		t.Parallel()
		r := newStartedRoom(t)
		assert.ErrorIs(t, r.SelectSecret("p1", 0), ErrInvalidNumber)
		assert.ErrorIs(t, r.SelectSecret("p1", 7), ErrInvalidNumber)
		p, _ := r.Player("p1")
		assert.False(t, p.HasSecret())
	})

	t.Run("rejects a second choice in the same round", func(t *testing.T) {
		t.Parallel()
		r := newStartedRoom(t)
		require.NoError(t, r.SelectSecret("p1", 3))
		assert.ErrorIs(t, r.SelectSecret("p1", 4), ErrSecretAlreadyChosen)
		p, _ := r.Player("p1")
		assert.Equal(t, 3, p.Secret)
	})

	t.Run("rejects numbers used in earlier rounds", func(t *testing.T) {
		t.Parallel()
		r := newStartedRoom(t)
		selectAll(t, r, map[string]int{"p1": 2, "p2": 5, "p3": 3})
		require.NoError(t, r.OpenAuction())
		passOut(t, r)
		_, err := r.Resolve()
		require.NoError(t, err)

		assert.ErrorIs(t, r.SelectSecret("p1", 2), ErrNumberAlreadyUsed)
		p, _ := r.Player("p1")
		assert.False(t, p.HasSecret(), "rejected choice must not set the secret")
		assert.NoError(t, r.SelectSecret("p1", 1))
	})

	t.Run("rejects strangers and the wrong phase", func(t *testing.T) {
		t.Parallel()
		r := newSeatedRoom(t)
		assert.ErrorIs(t, r.SelectSecret("p1", 1), ErrWrongPhase)
		assert.ErrorIs(t, r.SelectSecret("nobody", 1), ErrNotSeated)
	})
}

func TestFillMissingSecretsAssignsLowestUnused(t *testing.T) {
	t.Parallel()
	r := newStartedRoom(t)

	// Two rounds in which p3 spends 1 and 2
	for _, n := range []int{1, 2} {
		selectAll(t, r, map[string]int{"p1": n, "p2": n, "p3": n})
		require.NoError(t, r.OpenAuction())
		passOut(t, r)
		_, err := r.Resolve()
		require.NoError(t, err)
	}

	p3, _ := r.Player("p3")
	require.Equal(t, []int{1, 2}, p3.UsedNumbers())

	selectAll(t, r, map[string]int{"p1": 6, "p2": 6})
	assert.False(t, r.AllSelected())

	filled := r.FillMissingSecrets()
	require.Len(t, filled, 1)
	assert.Equal(t, "p3", filled[0].ID)
	assert.Equal(t, 3, p3.Secret)
	assert.True(t, r.AllSelected())
	assert.NoError(t, r.OpenAuction())
	assert.Equal(t, PhaseAuction, r.Phase())
}

func TestOpenAuctionRequiresAllSecrets(t *testing.T) {
	t.Parallel()
	r := newStartedRoom(t)
	require.NoError(t, r.SelectSecret("p1", 1))
	assert.ErrorIs(t, r.OpenAuction(), ErrWrongPhase)
	assert.Equal(t, PhaseSecretSelection, r.Phase())
}

func TestResetReturnsToLobby(t *testing.T) {
	t.Parallel()
	r := newStartedRoom(t)
	selectAll(t, r, map[string]int{"p1": 1, "p2": 2, "p3": 3})
	require.NoError(t, r.OpenAuction())

	r.Reset()
	assert.Equal(t, PhaseLobby, r.Phase())
	assert.Empty(t, r.Players())
	assert.Equal(t, 1, r.Round())
	_, ok := r.CurrentBid()
	assert.False(t, ok)
}
