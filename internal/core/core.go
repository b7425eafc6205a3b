package core

import (
	"fmt"
	"strings"
)

// Color marks both board occupancy and the identity of a side
type Color byte

const (
	ColorEmpty Color = iota
	ColorBlack
	ColorWhite
)

func (c Color) String() string {
	switch c {
	case ColorBlack:
		return "black"
	case ColorWhite:
		return "white"
	default:
		return "empty"
	}
}

// Symbol is the single-character board notation for a cell
func (c Color) Symbol() byte {
	switch c {
	case ColorBlack:
		return 'b'
	case ColorWhite:
		return 'w'
	default:
		return '.'
	}
}

// MarshalText encodes the color as its name so JSON carries "black"/"white"/"empty"
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(data []byte) error {
	parsed, err := ParseColor(string(data))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black", "b":
		return ColorBlack, nil
	case "white", "w":
		return ColorWhite, nil
	case "empty", "", ".", "none":
		return ColorEmpty, nil
	default:
		return ColorEmpty, fmt.Errorf("invalid color: %q", s)
	}
}

// OppositeColor returns the other side; empty stays empty
func OppositeColor(c Color) Color {
	switch c {
	case ColorBlack:
		return ColorWhite
	case ColorWhite:
		return ColorBlack
	default:
		return ColorEmpty
	}
}

type GameMode int

const (
	ModeHumanVsHuman GameMode = iota
	ModeHumanVsAI
	ModeAIVsAI
)

func (m GameMode) String() string {
	switch m {
	case ModeHumanVsAI:
		return "human_vs_ai"
	case ModeAIVsAI:
		return "ai_vs_ai"
	default:
		return "human_vs_human"
	}
}

func ParseGameMode(s string) (GameMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "human_vs_human", "hvh", "pvp":
		return ModeHumanVsHuman, nil
	case "human_vs_ai", "hva", "pvc":
		return ModeHumanVsAI, nil
	case "ai_vs_ai", "ava", "cvc":
		return ModeAIVsAI, nil
	default:
		return ModeHumanVsHuman, fmt.Errorf("invalid game mode: %q", s)
	}
}

// IsAIControlled reports whether the given side is played by the computer in this mode.
// In human_vs_ai the human always holds black.
func (m GameMode) IsAIControlled(side Color) bool {
	switch m {
	case ModeHumanVsAI:
		return side == ColorWhite
	case ModeAIVsAI:
		return side == ColorBlack || side == ColorWhite
	default:
		return false
	}
}

type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return "easy"
	}
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy, nil
	case "medium":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	default:
		return DifficultyEasy, fmt.Errorf("invalid difficulty: %q", s)
	}
}
