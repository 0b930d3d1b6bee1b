package server

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/blindbid/internal/game"
)

// Choice values sent back by transports
const (
	ChoiceRaise = "raise"
	ChoicePass  = "pass"
)

func secretChoices(p *game.Player) []Choice {
	choices := make([]Choice, 0, game.MaxChoice)
	for n := game.MinChoice; n <= game.MaxChoice; n++ {
		c := Choice{Label: strconv.Itoa(n), Value: strconv.Itoa(n)}
		if p.Used(n) {
			c.Label += " ×"
			c.Disabled = true
		}
		choices = append(choices, c)
	}
	return choices
}

func auctionChoices() []Choice {
	return []Choice{
		{Label: "Raise (+1)", Value: ChoiceRaise},
		{Label: "Pass", Value: ChoicePass},
	}
}

func newGameText() string {
	return fmt.Sprintf("New table for %d players is open.\nCommands: join, bot (add an automated player), start.", game.MaxPlayers)
}

func joinedText(name string, seated int) string {
	return fmt.Sprintf("%s joined (%d/%d).", name, seated, game.MaxPlayers)
}

func roundStartText(round int, starter *game.Player) string {
	return fmt.Sprintf("Round %d/%d. %s opens the bidding.\nHumans pick privately, bots pick on their own.", round, game.Rounds, starter.Name)
}

func selectPromptText(round int) string {
	return fmt.Sprintf("Round %d. Pick your secret number (%d-%d). Each number can be used once per game.", round, game.MinChoice, game.MaxChoice)
}

func unreachableText(name string) string {
	return fmt.Sprintf("%s, I can't reach you privately. Open a direct channel so you can pick your number.", name)
}

func lockedInText(n int) string {
	return fmt.Sprintf("Number locked in: %d. Waiting for the others.", n)
}

func pickedText(name string, picked, total int) string {
	return fmt.Sprintf("%s has picked (%d/%d).", name, picked, total)
}

func timeoutText(filled []*game.Player) string {
	names := make([]string, len(filled))
	for i, p := range filled {
		names[i] = p.Name
	}
	return fmt.Sprintf("Not everyone picked in time. Assigned the lowest unused number to: %s.", strings.Join(names, ", "))
}

func assignedText(n int) string {
	return fmt.Sprintf("Time is up. You were given %d.", n)
}

func statusText(r *game.Room) string {
	bid, _ := r.CurrentBid()
	alive := r.Alive()
	names := make([]string, len(alive))
	for i, p := range alive {
		names[i] = p.Name
	}
	active := ""
	if p := r.Active(); p != nil {
		active = p.Name
	}
	return fmt.Sprintf("Bid: %d • In: %s • To act: %s", bid, strings.Join(names, ", "), active)
}

func auctionOpenText(r *game.Room) string {
	return "Numbers are locked. Opening bid: " + strconv.Itoa(game.OpeningBid) + "\n" + statusText(r)
}

func actionLine(name string, action game.BidAction, bid int) string {
	if action == game.Raise {
		return fmt.Sprintf("%s: raise to %d", name, bid)
	}
	return fmt.Sprintf("%s: pass", name)
}

func resultText(res game.RoundResult) string {
	secrets := make([]string, len(res.Secrets))
	for i, s := range res.Secrets {
		secrets[i] = strconv.Itoa(s.Secret)
	}
	scores := make([]string, len(res.Scores))
	for i, s := range res.Scores {
		scores[i] = fmt.Sprintf("%s: %d", s.Name, s.Score)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Reveal: %s = %d\n", strings.Join(secrets, " + "), res.TrueSum)
	fmt.Fprintf(&b, "Winner: %s. Paid %d. Round score: %+d\n", res.Winner, res.Paid, res.Delta)
	fmt.Fprintf(&b, "Scores: %s", strings.Join(scores, ", "))
	return b.String()
}

func podiumText(standings []game.Standing) string {
	var b strings.Builder
	b.WriteString("Game over.")
	for i, s := range standings {
		fmt.Fprintf(&b, "\n%d. %s - %d", i+1, s.Name, s.Score)
	}
	return b.String()
}

func rejectionText(err error) string {
	switch game.Code(err) {
	case "room_full":
		return "The table is full."
	case "already_joined":
		return "You are already seated."
	case "wrong_player_count":
		return fmt.Sprintf("Exactly %d players (humans and/or bots) are needed.", game.MaxPlayers)
	case "game_in_progress":
		return "A game is already running. Start a new game to reset the table."
	case "not_your_turn":
		return "It's not your turn."
	case "already_passed":
		return "You have already passed."
	case "secret_already_chosen":
		return "Your number is already chosen."
	case "number_already_used":
		return "That number was already used earlier in the game."
	case "invalid_number":
		return fmt.Sprintf("Pick a number from %d to %d.", game.MinChoice, game.MaxChoice)
	case "not_seated":
		return "You are not seated at this table."
	case "wrong_phase":
		return "That can't be done right now."
	default:
		return "Request rejected: " + err.Error()
	}
}
