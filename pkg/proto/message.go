package proto

import "ctchen222/Solo-Tic-Tac-Toe/internal/game"

// Client message types.
const (
	TypeMove       = "move"
	TypeReset      = "reset"
	TypeResetScore = "reset_score"
	TypeDifficulty = "difficulty"
	TypeDelay      = "delay"
)

// TypeUpdate is the only message the server sends.
const TypeUpdate = "update"

// ClientToServerMessage represents a command from the presentation layer.
type ClientToServerMessage struct {
	Type       string `json:"type" validate:"required,oneof=move reset reset_score difficulty delay"`
	Cell       *int   `json:"cell,omitempty" validate:"required_if=Type move"`
	Difficulty string `json:"difficulty,omitempty" validate:"required_if=Type difficulty"`
	Delay      string `json:"delay,omitempty"`
}

// ScoreMessage mirrors the session score.
type ScoreMessage struct {
	Player   int `json:"player"`
	Computer int `json:"computer"`
	Draws    int `json:"draws"`
}

// ServerToClientMessage carries everything the client needs to redraw the
// board after a transition.
type ServerToClientMessage struct {
	Type        string          `json:"type" validate:"required"`
	SessionID   string          `json:"sessionId,omitempty"`
	Board       game.Board      `json:"board"`
	State       string          `json:"state"`
	Status      string          `json:"status"`
	Next        game.PlayerMark `json:"next,omitempty"`
	Winner      game.PlayerMark `json:"winner,omitempty"`
	WinningLine []int           `json:"winningLine,omitempty"`
	Score       ScoreMessage    `json:"score"`
	Difficulty  string          `json:"difficulty"`
	DelayMs     int64           `json:"delayMs"`
}
