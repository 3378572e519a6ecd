package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		board string
		want  Result
	}{
		{
			name:  "No winner - empty board",
			board: ".../.../...",
			want:  Result{Status: InProgress},
		},
		{
			name:  "No winner - partial board",
			board: "X../.O./...",
			want:  Result{Status: InProgress},
		},
		{
			name:  "X wins - first row",
			board: "XXX/.O./..O",
			want:  Result{Status: Win, Winner: PlayerX, Line: [3]int{0, 1, 2}},
		},
		{
			name:  "O wins - second column",
			board: "XO./XO./.O.",
			want:  Result{Status: Win, Winner: PlayerO, Line: [3]int{1, 4, 7}},
		},
		{
			name:  "X wins - main diagonal",
			board: "X../.X./..X",
			want:  Result{Status: Win, Winner: PlayerX, Line: [3]int{0, 4, 8}},
		},
		{
			name:  "O wins - anti-diagonal",
			board: "..O/.O./O..",
			want:  Result{Status: Win, Winner: PlayerO, Line: [3]int{2, 4, 6}},
		},
		{
			name:  "X wins on a full board",
			board: "XOX/OXO/OXX",
			want:  Result{Status: Win, Winner: PlayerX, Line: [3]int{0, 4, 8}},
		},
		{
			name:  "Full board without a line is a draw",
			board: "XOX/XOO/OXX",
			want:  Result{Status: Draw},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(ParseBoard(tt.board)); got != tt.want {
				t.Errorf("Evaluate() got = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEvaluate_ScanOrderPicksRowBeforeColumn(t *testing.T) {
	// Not reachable in play, but the highlighted line must be deterministic.
	b := ParseBoard("XXX/X../X..")
	got := Evaluate(b)
	assert.Equal(t, [3]int{0, 1, 2}, got.Line)
}

func TestEvaluate_EveryWinLine(t *testing.T) {
	for _, mark := range []PlayerMark{PlayerX, PlayerO} {
		for _, line := range WinLines {
			var b Board
			for _, i := range line {
				b[i] = mark
			}
			got := Evaluate(b)
			assert.Equal(t, Result{Status: Win, Winner: mark, Line: line}, got)
		}
	}
}

func TestEvaluate_IsPureAndIdempotent(t *testing.T) {
	b := ParseBoard("XO./.X./..O")
	before := b

	first := Evaluate(b)
	second := Evaluate(b)

	assert.Equal(t, first, second)
	assert.Equal(t, before, b)
}

func TestEvaluate_DrawIffFullWithoutLine(t *testing.T) {
	// Walk every reachable position and compare Draw against the definition.
	var walk func(b Board, turn PlayerMark)
	walk = func(b Board, turn PlayerMark) {
		res := Evaluate(b)
		lineFound := false
		for _, line := range WinLines {
			if b[line[0]] != None && b[line[0]] == b[line[1]] && b[line[1]] == b[line[2]] {
				lineFound = true
				break
			}
		}
		if (res.Status == Draw) != (b.IsFull() && !lineFound) {
			t.Fatalf("Evaluate(%s) = %v, full=%v line=%v", b, res.Status, b.IsFull(), lineFound)
		}
		if res.IsOver() {
			return
		}
		for _, i := range b.EmptyCells() {
			b[i] = turn
			walk(b, Opponent(turn))
			b[i] = None
		}
	}
	walk(Board{}, PlayerX)
}

func TestIsFull(t *testing.T) {
	tests := []struct {
		name  string
		board string
		want  bool
	}{
		{name: "Empty board is not full", board: ".../.../...", want: false},
		{name: "Partial board is not full", board: "X../.O./...", want: false},
		{name: "Full board is full", board: "XOX/XOO/OXX", want: true},
		{name: "Full board with winner is full", board: "XXX/OOX/OXO", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseBoard(tt.board).IsFull(); got != tt.want {
				t.Errorf("IsFull() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEmptyCells(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, Board{}.EmptyCells())
	assert.Equal(t, []int{2, 5}, ParseBoard("XO./OX./XOX").EmptyCells())
	assert.Empty(t, ParseBoard("XOX/XOO/OXX").EmptyCells())
}

func TestBoardString(t *testing.T) {
	b := Board{PlayerX, None, None, None, PlayerO, None, None, None, PlayerX}
	assert.Equal(t, "X../.O./..X", b.String())
	assert.Equal(t, b, ParseBoard(b.String()))
}

func TestValidCell(t *testing.T) {
	assert.True(t, ValidCell(0))
	assert.True(t, ValidCell(8))
	assert.False(t, ValidCell(-1))
	assert.False(t, ValidCell(9))
}
