package game

import "strings"

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

const (
	// Player marks
	None    PlayerMark = ""
	PlayerX PlayerMark = "X" // the human, always moves first
	PlayerO PlayerMark = "O" // the computer

	// Board boundaries
	CellMin   = 0
	CellMax   = 8
	CellCount = 9
)

// Board is a 3x3 board stored row-major: index i is row i/3, column i%3.
type Board [CellCount]PlayerMark

// WinLines holds every index triple that wins the game, scanned rows first,
// then columns, then diagonals.
var WinLines = [8][3]int{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// columns
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diagonals
	{0, 4, 8}, {2, 4, 6},
}

// Status is the coarse outcome of a position.
type Status int

const (
	InProgress Status = iota
	Win
	Draw
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return "unknown"
	}
}

// Result is the evaluation of a board. Winner and Line are only set when
// Status is Win.
type Result struct {
	Status Status
	Winner PlayerMark
	Line   [3]int
}

// IsOver reports whether the game has left the in-progress state.
func (r Result) IsOver() bool {
	return r.Status != InProgress
}

// ValidCell reports whether i addresses a cell on the board.
func ValidCell(i int) bool {
	return i >= CellMin && i <= CellMax
}

// Opponent returns the other player's mark.
func Opponent(mark PlayerMark) PlayerMark {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// Evaluate reports whether a player has completed a line, the board is full,
// or play continues. It never modifies b.
func Evaluate(b Board) Result {
	for _, line := range WinLines {
		a := b[line[0]]
		if a != None && a == b[line[1]] && a == b[line[2]] {
			return Result{Status: Win, Winner: a, Line: line}
		}
	}

	if b.IsFull() {
		return Result{Status: Draw}
	}

	return Result{Status: InProgress}
}

// EmptyCells returns the indices of all empty cells in increasing order.
func (b Board) EmptyCells() []int {
	cells := make([]int, 0, CellCount)
	for i, cell := range b {
		if cell == None {
			cells = append(cells, i)
		}
	}
	return cells
}

// IsFull checks if every cell of the board is occupied.
func (b Board) IsFull() bool {
	for _, cell := range b {
		if cell == None {
			return false
		}
	}
	return true
}

// String renders the board as three rows, using '.' for empty cells.
func (b Board) String() string {
	var sb strings.Builder
	for i, cell := range b {
		if cell == None {
			sb.WriteByte('.')
		} else {
			sb.WriteString(string(cell))
		}
		if i%3 == 2 && i != CellMax {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// ParseBoard builds a board from its String form. Unknown characters are
// read as empty cells.
func ParseBoard(s string) Board {
	var b Board
	i := 0
	for _, r := range s {
		if r == '/' {
			continue
		}
		if i >= CellCount {
			break
		}
		switch mark := PlayerMark(string(r)); mark {
		case PlayerX, PlayerO:
			b[i] = mark
		}
		i++
	}
	return b
}
