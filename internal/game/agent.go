package game

// Agent plays an automated seat. Agents see only what the seat itself
// knows: its own history, its own secret and the bid on the table.
type Agent interface {
	// ChooseSecret picks the seat's hidden number for the round
	ChooseSecret(p *Player) int
	// Decide returns the seat's move given its secret and the current bid
	Decide(secret, bid int) BidAction
}
