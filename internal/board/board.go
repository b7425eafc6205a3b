package board

import (
	"fmt"
	"strings"

	"othello/internal/core"
)

const (
	Size = 8

	InitialNotation = "8/8/8/3wb3/3bw3/8/8/8"
)

// Board is an 8x8 grid of cells. It is an array value: assignment copies every
// cell, so a Board never shares state with the board it was derived from.
type Board [Size][Size]core.Color

// Initial returns the canonical four-disc starting position
func Initial() Board {
	var b Board
	b[3][3] = core.ColorWhite
	b[3][4] = core.ColorBlack
	b[4][3] = core.ColorBlack
	b[4][4] = core.ColorWhite
	return b
}

func (b Board) At(p core.Position) core.Color {
	if !p.InBounds() {
		return core.ColorEmpty
	}
	return b[p.Row][p.Col]
}

// With returns a copy of the board with one cell replaced
func (b Board) With(p core.Position, c core.Color) Board {
	if p.InBounds() {
		b[p.Row][p.Col] = c
	}
	return b
}

func (b Board) Count(c core.Color) int {
	n := 0
	for r := 0; r < Size; r++ {
		for f := 0; f < Size; f++ {
			if b[r][f] == c {
				n++
			}
		}
	}
	return n
}

// Parse reads the compact notation: 8 rows separated by '/', 'b' black,
// 'w' white, digits 1-8 for runs of empty cells. Row 0 comes first.
func Parse(notation string) (Board, error) {
	var b Board

	rows := strings.Split(strings.TrimSpace(notation), "/")
	if len(rows) != Size {
		return b, fmt.Errorf("invalid board: expected %d rows, got %d", Size, len(rows))
	}

	for r := 0; r < Size; r++ {
		col := 0
		for _, ch := range rows[r] {
			switch {
			case ch >= '1' && ch <= '8':
				col += int(ch - '0')
				continue
			case ch == 'b' || ch == 'B':
				if col >= Size {
					return b, fmt.Errorf("invalid board: too many cells in row %d", r+1)
				}
				b[r][col] = core.ColorBlack
			case ch == 'w' || ch == 'W':
				if col >= Size {
					return b, fmt.Errorf("invalid board: too many cells in row %d", r+1)
				}
				b[r][col] = core.ColorWhite
			default:
				return b, fmt.Errorf("invalid board: unexpected %q in row %d", ch, r+1)
			}
			col++
		}
		if col != Size {
			return b, fmt.Errorf("invalid board: row %d has %d cells", r+1, col)
		}
	}

	return b, nil
}

// Notation is the inverse of Parse
func (b Board) Notation() string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for f := 0; f < Size; f++ {
			if b[r][f] == core.ColorEmpty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(b[r][f].Symbol())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	return sb.String()
}

// ToASCII creates an ASCII representation of the board
func (b Board) ToASCII() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 0; r < Size; r++ {
		sb.WriteString(fmt.Sprintf("%d ", r+1))
		for f := 0; f < Size; f++ {
			sb.WriteString(fmt.Sprintf("%c ", b[r][f].Symbol()))
		}
		sb.WriteString(fmt.Sprintf("%d\n", r+1))
	}
	sb.WriteString("  a b c d e f g h")

	return sb.String()
}
