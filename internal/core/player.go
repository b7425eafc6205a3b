package core

import (
	"fmt"
	"strings"
)

// Player identifies a side. Two logical players exist; compare with Equal, never by pointer.
type Player struct {
	ID    string `json:"id"`
	Color Color  `json:"color"`
}

var (
	PlayerBlack = Player{ID: "player-black", Color: ColorBlack}
	PlayerWhite = Player{ID: "player-white", Color: ColorWhite}
)

// PlayerFor returns the canonical player value for a side
func PlayerFor(c Color) Player {
	if c == ColorWhite {
		return PlayerWhite
	}
	return PlayerBlack
}

func (p Player) Equal(other Player) bool {
	return p.Color == other.Color
}

func (p Player) Opponent() Player {
	return PlayerFor(OppositeColor(p.Color))
}

// Position is a (row, col) board coordinate, each in [0,7]
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < 8 && p.Col >= 0 && p.Col < 8
}

// String formats the position as column letter plus 1-based row, e.g. (2,3) -> "d3"
func (p Position) String() string {
	if !p.InBounds() {
		return "--"
	}
	return fmt.Sprintf("%c%d", 'a'+p.Col, p.Row+1)
}

func ParsePosition(s string) (Position, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 2 {
		return Position{}, fmt.Errorf("invalid position %q: expected column a-h and row 1-8", s)
	}
	if s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Position{}, fmt.Errorf("invalid position %q: expected column a-h and row 1-8", s)
	}
	return Position{Row: int(s[1] - '1'), Col: int(s[0] - 'a')}, nil
}

// Score is the disc count per side
type Score struct {
	Black int `json:"black"`
	White int `json:"white"`
}

func (s Score) Of(c Color) int {
	if c == ColorWhite {
		return s.White
	}
	return s.Black
}

// Credits is the hint balance per side
type Credits struct {
	Black int `json:"black"`
	White int `json:"white"`
}

func (c Credits) Of(side Color) int {
	if side == ColorWhite {
		return c.White
	}
	return c.Black
}

// Add returns a copy with delta applied to one side
func (c Credits) Add(side Color, delta int) Credits {
	switch side {
	case ColorBlack:
		c.Black += delta
	case ColorWhite:
		c.White += delta
	}
	return c
}
