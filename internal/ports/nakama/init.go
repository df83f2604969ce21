package nakama

import (
	"context"
	"database/sql"

	"github.com/heroiclabs/nakama-common/runtime"

	"doudizhu/internal/bot"
	"doudizhu/internal/config"
)

// InitModule wires RPCs and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadGameConfig(gameConfigPath); err != nil {
		logger.Warn("InitModule: Could not load game config, using defaults: %v", err)
	}
	if err := bot.LoadIdentities(botIdentitiesPath); err != nil {
		logger.Warn("InitModule: Could not load bot identities: %v", err)
	}
	bot.ProvisionBots(ctx, nk, logger)

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	voiceService = newVoiceServiceFromEnv(env)
	if !voiceService.Configured() {
		logger.Warn("InitModule: Voice chat credentials missing, %s RPC will be unavailable.", RpcVoiceToken)
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameDouDiZhu, NewMatch); err != nil {
		return err
	}

	logger.Info("Dou Di Zhu Go module loaded.")
	return nil
}
