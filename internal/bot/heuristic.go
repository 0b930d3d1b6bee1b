package bot

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lox/blindbid/internal/game"
)

// Heuristic bids towards the midpoint of the possible sums. With its own
// secret s the sum lies between s+2 (both others picked 1) and s+12 (both
// picked 6), so it keeps raising while the bid is under s+7.
type Heuristic struct {
	logger *log.Logger
}

// NewHeuristic creates a new Heuristic instance
func NewHeuristic(logger *log.Logger) *Heuristic {
	return &Heuristic{logger: logger.WithPrefix("bot")}
}

// ChooseSecret always spends the lowest number still available
func (h *Heuristic) ChooseSecret(p *game.Player) int {
	return p.LowestUnused()
}

// Decide raises while the bid is below the target and the ceiling
func (h *Heuristic) Decide(secret, bid int) game.BidAction {
	action := Decide(secret, bid)
	h.logger.Debug("Decided", "secret", secret, "bid", bid, "action", action, "reasoning", Reasoning(secret, bid))
	return action
}

// Bounds returns the smallest and largest sum possible given a secret
func Bounds(secret int) (lo, hi int) {
	others := game.MaxPlayers - 1
	return secret + others*game.MinChoice, secret + others*game.MaxChoice
}

// Target is the bid at which the heuristic stops raising
func Target(secret int) int {
	lo, hi := Bounds(secret)
	return (lo + hi) / 2
}

// Decide is the stateless form of Heuristic.Decide
func Decide(secret, bid int) game.BidAction {
	_, hi := Bounds(secret)
	if bid < Target(secret) && bid < hi {
		return game.Raise
	}
	return game.Pass
}

// Reasoning explains a decision in a short human-readable line
func Reasoning(secret, bid int) string {
	lo, hi := Bounds(secret)
	target := Target(secret)
	if Decide(secret, bid) == game.Raise {
		return fmt.Sprintf("bid %d under target %d (sum in %d..%d)", bid, target, lo, hi)
	}
	return fmt.Sprintf("bid %d at or over target %d (sum in %d..%d)", bid, target, lo, hi)
}
