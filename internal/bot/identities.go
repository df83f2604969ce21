package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/heroiclabs/nakama-common/runtime"
)

// BotIdentity is a configured bot account.
type BotIdentity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"` // "standard" or "smart"
}

var (
	identitiesMu  sync.RWMutex
	botIdentities []BotIdentity
	botByID       map[string]BotIdentity
	loadOnce      sync.Once
	provisionOnce sync.Once
	loadErr       error
)

// LoadIdentities loads the bot profiles from the given path once.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}

		var identities []BotIdentity
		if err := json.Unmarshal(data, &identities); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}
		SetIdentities(identities)
	})
	return loadErr
}

// SetIdentities replaces the bot pool.
func SetIdentities(identities []BotIdentity) {
	identitiesMu.Lock()
	defer identitiesMu.Unlock()

	botIdentities = append([]BotIdentity(nil), identities...)
	botByID = make(map[string]BotIdentity, len(identities))
	for _, identity := range botIdentities {
		if identity.UserID != "" {
			botByID[identity.UserID] = identity
		}
	}
}

// ProvisionBots ensures every identity with a device id has a Nakama account.
func ProvisionBots(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) {
	provisionOnce.Do(func() {
		identitiesMu.RLock()
		pending := append([]BotIdentity(nil), botIdentities...)
		identitiesMu.RUnlock()

		for i := range pending {
			identity := &pending[i]
			if identity.DeviceID == "" {
				continue
			}

			userID, username, _, err := nk.AuthenticateDevice(ctx, identity.DeviceID, identity.Username, true)
			if err != nil {
				logger.Error("ProvisionBots: Failed to authenticate bot %s: %v", identity.Username, err)
				continue
			}
			identity.UserID = userID
			identity.Username = username

			metadata := map[string]interface{}{
				"is_bot":     true,
				"difficulty": identity.Difficulty,
			}
			if err := nk.AccountUpdateId(ctx, userID, username, metadata, identity.DisplayName, "", "", "", ""); err != nil {
				logger.Warn("ProvisionBots: Failed to update bot account %s: %v", userID, err)
			}
			logger.Info("ProvisionBots: Bot %s (%s) is ready. Difficulty: %s", identity.DisplayName, userID, identity.Difficulty)
		}

		SetIdentities(pending)
	})
}

// GetBotIdentity returns an identity for a bot by index (mod pool size).
func GetBotIdentity(index int) BotIdentity {
	identitiesMu.RLock()
	defer identitiesMu.RUnlock()

	if len(botIdentities) == 0 {
		return BotIdentity{
			UserID:      fmt.Sprintf("bot-%d", index),
			DisplayName: fmt.Sprintf("AI Player %d", index+1),
		}
	}
	return botIdentities[index%len(botIdentities)]
}

// IsBot reports whether the given user id belongs to the bot pool or is a
// generated bot id.
func IsBot(userID string) bool {
	identitiesMu.RLock()
	defer identitiesMu.RUnlock()

	if _, ok := botByID[userID]; ok {
		return true
	}
	rest, ok := strings.CutPrefix(userID, "bot-")
	if !ok {
		return false
	}
	_, err := strconv.ParseUint(rest, 10, 32)
	return err == nil
}

// GetBotDisplayName returns the display name for a bot id, or an empty string.
func GetBotDisplayName(userID string) string {
	identitiesMu.RLock()
	defer identitiesMu.RUnlock()

	identity, ok := botByID[userID]
	if !ok {
		return ""
	}
	if identity.DisplayName != "" {
		return identity.DisplayName
	}
	return identity.Username
}
