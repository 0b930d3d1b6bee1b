// Package game implements the blind sum auction played by three seats.
//
// Each round every seat picks a hidden number from 1 to 6 that it has not
// used earlier in the game. An ascending auction then runs from a bid of 1:
// the seat on turn either raises by one or passes. When a single seat is
// left it buys the sum of the three hidden numbers at the current bid, and
// its score moves by the difference. Six rounds make a game.
//
// # Basic Usage
//
//	r := game.NewRoom("session-1")
//	_ = r.Join("alice", "Alice")
//	_, _ = r.AddAutomated()
//	_, _ = r.AddAutomated()
//	_ = r.Start()
//	_ = r.SelectSecret("alice", 4)
//	// ...automated seats select, then
//	r.OpenAuction()
//	_ = r.Raise(r.Active().ID)
//
// # Architecture
//
// Room is a plain state machine with no clock, locking or I/O. Callers are
// expected to serialize access to a Room and to drive the timing-dependent
// transitions themselves:
//   - FillMissingSecrets when the selection window closes
//   - OpenAuction once every seat holds a secret
//   - Resolve once the auction reaches PhaseResolution
//
// Automated seats are played by an Agent; the heuristic lives in the bot
// package so that the rules here stay free of strategy.
package game
