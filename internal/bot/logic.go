package bot

import (
	"math"
	"math/rand/v2"

	"ctchen222/Solo-Tic-Tac-Toe/internal/game"
)

// NoMove is returned by a Policy when the board has no empty cell left.
const NoMove = -1

// Policy picks the cell the computer (PlayerO) plays next.
type Policy interface {
	Pick(board game.Board) int
}

// Rand is the source of randomness a policy draws from. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

type globalRand struct{}

func (globalRand) IntN(n int) int   { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

// MoveCalculator implements session.MoveCalculator.
type MoveCalculator struct {
	rng Rand
}

// NewMoveCalculator creates a calculator drawing from rng, or from the
// package-level generator when rng is nil.
func NewMoveCalculator(rng Rand) *MoveCalculator {
	if rng == nil {
		rng = globalRand{}
	}
	return &MoveCalculator{rng: rng}
}

// CalculateNextMove determines the computer's next cell based on the specified difficulty.
func (c *MoveCalculator) CalculateNextMove(board game.Board, difficulty Difficulty) int {
	return PolicyFor(difficulty, c.rng).Pick(board)
}

// PolicyFor returns the policy played at difficulty d. Anything outside the
// known difficulties plays randomly.
func PolicyFor(d Difficulty, rng Rand) Policy {
	if rng == nil {
		rng = globalRand{}
	}
	switch d {
	case Easy:
		return &RandomPolicy{rng: rng}
	case Medium:
		return NewHybridPolicy(rng)
	case Hard:
		return MinimaxPolicy{}
	default:
		return &RandomPolicy{rng: rng}
	}
}

// RandomPolicy makes a completely random move.
type RandomPolicy struct {
	rng Rand
}

func NewRandomPolicy(rng Rand) *RandomPolicy {
	if rng == nil {
		rng = globalRand{}
	}
	return &RandomPolicy{rng: rng}
}

func (p *RandomPolicy) Pick(board game.Board) int {
	availableMoves := board.EmptyCells()
	if len(availableMoves) == 0 {
		return NoMove
	}
	return availableMoves[p.rng.IntN(len(availableMoves))]
}

// HybridPolicy plays the minimax move half of the time and a random move
// otherwise, so Medium stays beatable.
type HybridPolicy struct {
	rng    Rand
	best   Policy
	random Policy
}

func NewHybridPolicy(rng Rand) *HybridPolicy {
	if rng == nil {
		rng = globalRand{}
	}
	return &HybridPolicy{
		rng:    rng,
		best:   MinimaxPolicy{},
		random: &RandomPolicy{rng: rng},
	}
}

func (p *HybridPolicy) Pick(board game.Board) int {
	if p.rng.Float64() < 0.5 {
		return p.best.Pick(board)
	}
	return p.random.Pick(board)
}

// MinimaxPolicy searches the full remaining game tree and plays the move
// with the best guaranteed outcome for PlayerO. Ties keep the lowest index.
type MinimaxPolicy struct{}

// Pick works on its own copy of board; the caller's board is never touched.
func (MinimaxPolicy) Pick(board game.Board) int {
	bestScore := math.MinInt
	bestMove := NoMove

	for i := range board {
		if board[i] != game.None {
			continue
		}
		board[i] = game.PlayerO
		score := minimax(&board, 0, false)
		board[i] = game.None

		if score > bestScore {
			bestScore = score
			bestMove = i
		}
	}

	return bestMove
}

// minimax scores board from PlayerO's point of view. Quicker wins and
// slower losses score higher.
func minimax(board *game.Board, depth int, maximizing bool) int {
	switch res := game.Evaluate(*board); res.Status {
	case game.Win:
		if res.Winner == game.PlayerO {
			return 10 - depth
		}
		return depth - 10
	case game.Draw:
		return 0
	}

	if maximizing {
		bestScore := math.MinInt
		for i := range board {
			if board[i] != game.None {
				continue
			}
			board[i] = game.PlayerO
			bestScore = max(bestScore, minimax(board, depth+1, false))
			board[i] = game.None
		}
		return bestScore
	}

	bestScore := math.MaxInt
	for i := range board {
		if board[i] != game.None {
			continue
		}
		board[i] = game.PlayerX
		bestScore = min(bestScore, minimax(board, depth+1, true))
		board[i] = game.None
	}
	return bestScore
}
