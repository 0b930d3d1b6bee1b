package game

import "slices"

// Player represents one seat in a room
type Player struct {
	ID          string
	Name        string
	IsAutomated bool
	Score       int
	Secret      int  // 0 while unselected
	Passed      bool // Passed in the current auction

	used map[int]bool
}

// NewPlayer creates a player with an empty number history
func NewPlayer(id, name string, automated bool) *Player {
	return &Player{
		ID:          id,
		Name:        name,
		IsAutomated: automated,
		used:        make(map[int]bool, MaxChoice),
	}
}

// HasSecret reports whether the player holds a secret for this round
func (p *Player) HasSecret() bool {
	return p.Secret != 0
}

// Used reports whether n was already spent in an earlier round
func (p *Player) Used(n int) bool {
	return p.used[n]
}

// UsedNumbers returns the spent numbers in ascending order
func (p *Player) UsedNumbers() []int {
	numbers := make([]int, 0, len(p.used))
	for n := range p.used {
		numbers = append(numbers, n)
	}
	slices.Sort(numbers)
	return numbers
}

// LowestUnused returns the smallest choice not yet spent, or 0 once all
// choices are exhausted.
func (p *Player) LowestUnused() int {
	for n := MinChoice; n <= MaxChoice; n++ {
		if !p.used[n] {
			return n
		}
	}
	return 0
}

func (p *Player) markUsed(n int) {
	if n == 0 {
		return
	}
	p.used[n] = true
}

func (p *Player) clearRound() {
	p.Secret = 0
	p.Passed = false
}
