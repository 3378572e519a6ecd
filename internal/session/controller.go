package session

import (
	"errors"
	"fmt"

	"ctchen222/Solo-Tic-Tac-Toe/internal/bot"
	"ctchen222/Solo-Tic-Tac-Toe/internal/game"
)

// ErrInvariant is returned when the computer is asked to move but its policy
// cannot produce a legal cell. Under correct sequencing this never happens.
var ErrInvariant = errors.New("controller invariant violated")

// MoveCalculator defines an interface for an agent that can calculate the computer's move.
type MoveCalculator interface {
	CalculateNextMove(board game.Board, difficulty bot.Difficulty) int
}

// State is the phase of the current game.
type State string

const (
	AwaitingHumanMove    State = "awaiting_human"
	AwaitingComputerMove State = "awaiting_computer"
	Finished             State = "finished"
)

// Score is the running tally for the session. It survives board resets.
type Score struct {
	PlayerWins   int `json:"player"`
	OpponentWins int `json:"computer"`
	Draws        int `json:"draws"`
}

// Snapshot is a read-only copy of everything the presentation layer renders.
type Snapshot struct {
	Board      game.Board
	State      State
	Result     game.Result
	Score      Score
	Difficulty bot.Difficulty
	Generation uint64
	Status     string
}

// Controller is the turn-order state machine for one human-versus-computer
// game. It is not safe for concurrent use; Session serialises all calls.
type Controller struct {
	board      game.Board
	state      State
	result     game.Result
	score      Score
	difficulty bot.Difficulty
	generation uint64
	calculator MoveCalculator
}

// NewController starts a fresh game with the human (X) to move.
func NewController(calculator MoveCalculator, difficulty bot.Difficulty) *Controller {
	return &Controller{
		state:      AwaitingHumanMove,
		difficulty: difficulty,
		calculator: calculator,
	}
}

// HumanPlays places X at cell. Moves out of turn, off the board, or onto an
// occupied cell are ignored and report false.
func (c *Controller) HumanPlays(cell int) bool {
	if c.state != AwaitingHumanMove || !game.ValidCell(cell) || c.board[cell] != game.None {
		return false
	}

	c.board[cell] = game.PlayerX
	if c.settle() {
		return true
	}
	c.state = AwaitingComputerMove
	return true
}

// Tick plays the computer's move if the controller is still waiting for it
// and no reset happened since generation was observed. It reports whether a
// move was applied.
func (c *Controller) Tick(generation uint64) (bool, error) {
	if c.state != AwaitingComputerMove || generation != c.generation {
		return false, nil
	}

	cell := c.calculator.CalculateNextMove(c.board, c.difficulty)
	if !game.ValidCell(cell) || c.board[cell] != game.None {
		return false, fmt.Errorf("%w: %s policy returned cell %d for board %s", ErrInvariant, c.difficulty, cell, c.board)
	}

	c.board[cell] = game.PlayerO
	if c.settle() {
		return true, nil
	}
	c.state = AwaitingHumanMove
	return true, nil
}

// settle evaluates the board after a move and records a finished game.
func (c *Controller) settle() bool {
	res := game.Evaluate(c.board)
	if !res.IsOver() {
		return false
	}

	c.result = res
	c.state = Finished
	switch {
	case res.Status == game.Draw:
		c.score.Draws++
	case res.Winner == game.PlayerX:
		c.score.PlayerWins++
	case res.Winner == game.PlayerO:
		c.score.OpponentWins++
	}
	return true
}

// Reset discards the board and starts a new game. The score is kept.
func (c *Controller) Reset() {
	c.board = game.Board{}
	c.state = AwaitingHumanMove
	c.result = game.Result{}
	c.generation++
}

// ResetScore zeroes the score and starts a new game.
func (c *Controller) ResetScore() {
	c.score = Score{}
	c.Reset()
}

// ChangeDifficulty switches the computer's policy and abandons the current game.
func (c *Controller) ChangeDifficulty(d bot.Difficulty) {
	c.difficulty = d
	c.Reset()
}

// ActiveMark returns the mark whose turn it is, or None once the game is over.
func (c *Controller) ActiveMark() game.PlayerMark {
	switch c.state {
	case AwaitingHumanMove:
		return game.PlayerX
	case AwaitingComputerMove:
		return game.PlayerO
	default:
		return game.None
	}
}

// GameActive reports whether moves are still accepted in the current game.
func (c *Controller) GameActive() bool {
	return c.state != Finished
}

func (c *Controller) State() State               { return c.state }
func (c *Controller) Generation() uint64         { return c.generation }
func (c *Controller) Difficulty() bot.Difficulty { return c.difficulty }

func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Board:      c.board,
		State:      c.state,
		Result:     c.result,
		Score:      c.score,
		Difficulty: c.difficulty,
		Generation: c.generation,
		Status:     c.statusText(),
	}
}

func (c *Controller) statusText() string {
	switch c.state {
	case AwaitingHumanMove:
		return "You are X, your move"
	case AwaitingComputerMove:
		return "Computer is O, thinking..."
	}

	switch {
	case c.result.Status == game.Draw:
		return "Draw!"
	case c.result.Winner == game.PlayerX:
		return "You win!"
	default:
		return "Computer wins!"
	}
}
