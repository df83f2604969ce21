package bot

import (
	"fmt"
	"strings"
)

// BotLevel selects a strategy.
type BotLevel int

const (
	BotLevelStandard BotLevel = iota
	BotLevelSmart
)

func (l BotLevel) String() string {
	switch l {
	case BotLevelStandard:
		return "standard"
	case BotLevelSmart:
		return "smart"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseBotLevel maps a configured difficulty name to a level.
// An empty name selects the standard level.
func ParseBotLevel(name string) (BotLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "standard", "easy":
		return BotLevelStandard, nil
	case "smart", "hard":
		return BotLevelSmart, nil
	default:
		return 0, fmt.Errorf("unknown bot level: %q", name)
	}
}

// NewBrain creates a new AI brain based on the specified level.
func NewBrain(level BotLevel) (Brain, error) {
	switch level {
	case BotLevelStandard:
		return &StandardBot{}, nil
	case BotLevelSmart:
		return NewSmartBot(), nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}
