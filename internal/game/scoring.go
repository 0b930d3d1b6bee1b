package game

import (
	"cmp"
	"slices"
)

// Reveal is one seat's secret shown at resolution
type Reveal struct {
	PlayerID string
	Name     string
	Secret   int
}

// Standing is a seat's score at a point in the game
type Standing struct {
	PlayerID string
	Name     string
	Score    int
}

// RoundResult describes a resolved round
type RoundResult struct {
	Round    int
	Secrets  []Reveal // Seating order
	TrueSum  int
	Paid     int
	Delta    int
	WinnerID string
	Winner   string
	Scores   []Standing // Seating order, after this round

	Final     bool
	Standings []Standing // Podium, only set when Final
}

// Resolve settles the auction: the last seat standing pays the bid and
// collects the sum of all secrets. The room then either opens the next
// round or finishes the game.
func (r *Room) Resolve() (RoundResult, error) {
	if r.phase != PhaseResolution {
		return RoundResult{}, ErrWrongPhase
	}

	winner := r.players[r.order[r.turn]]
	result := RoundResult{
		Round:    r.round,
		Paid:     r.bid,
		WinnerID: winner.ID,
		Winner:   winner.Name,
	}

	for _, p := range r.Players() {
		result.Secrets = append(result.Secrets, Reveal{PlayerID: p.ID, Name: p.Name, Secret: p.Secret})
		result.TrueSum += p.Secret
	}
	result.Delta = result.TrueSum - result.Paid
	winner.Score += result.Delta

	for _, p := range r.players {
		p.markUsed(p.Secret)
	}
	result.Scores = r.scores()
	r.bid = 0

	if r.round >= Rounds {
		r.phase = PhaseFinished
		result.Final = true
		result.Standings = Standings(r.Players())
		return result, nil
	}

	r.round++
	r.starter = (r.starter + 1) % len(r.order)
	r.beginRound()
	return result, nil
}

func (r *Room) scores() []Standing {
	scores := make([]Standing, 0, len(r.order))
	for _, p := range r.Players() {
		scores = append(scores, Standing{PlayerID: p.ID, Name: p.Name, Score: p.Score})
	}
	return scores
}

// Standings ranks players by descending score. Ties keep the order the
// players were given in.
func Standings(players []*Player) []Standing {
	podium := make([]Standing, 0, len(players))
	for _, p := range players {
		podium = append(podium, Standing{PlayerID: p.ID, Name: p.Name, Score: p.Score})
	}
	slices.SortStableFunc(podium, func(a, b Standing) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return podium
}
