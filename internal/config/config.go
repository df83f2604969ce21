package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// DefaultBaseBet applies when no tier matches or no config is loaded.
const DefaultBaseBet int64 = 100

type BetTier struct {
	ID      string `json:"id"`
	BaseBet int64  `json:"base_bet"`
}

type GameConfig struct {
	DefaultTier         string    `json:"default_tier"`
	Tiers               []BetTier `json:"tiers"`
	TurnDurationSeconds int       `json:"turn_duration_seconds"`
	// BotLevel is "standard" or "smart" for bots without a configured difficulty.
	BotLevel           string `json:"bot_level"`
	BotMinDelaySeconds int    `json:"bot_min_delay_seconds"`
	BotMaxDelaySeconds int    `json:"bot_max_delay_seconds"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before adding bots to a solo human lobby.
	BotAutoFillDelaySeconds int `json:"bot_auto_fill_delay_seconds"`
}

var (
	cfg      *GameConfig
	cfgMu    sync.RWMutex
	loadOnce sync.Once
	loadErr  error
)

// Default returns the configuration used when no file is present.
func Default() GameConfig {
	return GameConfig{
		DefaultTier:             "casual",
		Tiers:                   []BetTier{{ID: "casual", BaseBet: DefaultBaseBet}},
		TurnDurationSeconds:     30,
		BotLevel:                "standard",
		BotMinDelaySeconds:      1,
		BotMaxDelaySeconds:      3,
		BotAutoFillDelaySeconds: 5,
	}
}

// Parse decodes a config file body. Missing or invalid fields fall back to Default.
func Parse(data []byte) (*GameConfig, error) {
	c := Default()
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	def := Default()
	if c.BotMinDelaySeconds <= 0 {
		c.BotMinDelaySeconds = def.BotMinDelaySeconds
	}
	if c.BotMaxDelaySeconds < c.BotMinDelaySeconds {
		c.BotMaxDelaySeconds = c.BotMinDelaySeconds
	}
	if c.BotAutoFillDelaySeconds < 0 {
		c.BotAutoFillDelaySeconds = def.BotAutoFillDelaySeconds
	}
	if len(c.Tiers) == 0 {
		c.Tiers = def.Tiers
	}
	return &c, nil
}

// LoadGameConfig loads the game configuration from the given path once.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}
		c, err := Parse(data)
		if err != nil {
			loadErr = err
			return
		}
		SetGameConfig(c)
	})
	return loadErr
}

// SetGameConfig replaces the global configuration.
func SetGameConfig(c *GameConfig) {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	cfg = c
}

// GetGameConfig returns the global game configuration, or Default when none is loaded.
func GetGameConfig() GameConfig {
	cfgMu.RLock()
	defer cfgMu.RUnlock()
	if cfg == nil {
		return Default()
	}
	return *cfg
}

// BaseBet returns the base bet for a tier, falling back to the default tier.
func (c GameConfig) BaseBet(tierID string) int64 {
	target := tierID
	if target == "" {
		target = c.DefaultTier
	}
	for _, tier := range c.Tiers {
		if tier.ID == target && tier.BaseBet > 0 {
			return tier.BaseBet
		}
	}
	for _, tier := range c.Tiers {
		if tier.ID == c.DefaultTier && tier.BaseBet > 0 {
			return tier.BaseBet
		}
	}
	return DefaultBaseBet
}

// GetBaseBet returns the base bet for a given tier ID from the global config.
func GetBaseBet(tierID string) int64 {
	return GetGameConfig().BaseBet(tierID)
}
