package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/heroiclabs/nakama-common/runtime"

	"doudizhu/internal/app"
)

// voiceService is configured from the runtime env in InitModule.
var voiceService *app.VoiceService

type voiceTokenRequest struct {
	Action  string `json:"action"`
	MatchID string `json:"match_id"`
}

type voiceTokenResponse struct {
	Token   string `json:"token"`
	Channel string `json:"channel,omitempty"`
}

func newVoiceServiceFromEnv(env map[string]string) *app.VoiceService {
	return app.NewVoiceService(env[envVoiceSecret], env[envVoiceIssuer], env[envVoiceDomain])
}

// rpcVoiceToken signs a login token, or a join token for the channel of a
// table the caller is seated at.
// Payload: {"action": "login" | "join", "match_id": "..."}
func rpcVoiceToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("authentication required", 16) // UNAUTHENTICATED
	}

	var req voiceTokenRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("invalid payload", 3) // INVALID_ARGUMENT
	}
	if req.Action == "" {
		req.Action = app.VoiceActionLogin
	}

	token, err := voiceService.Token(userID, req.Action, req.MatchID)
	switch {
	case errors.Is(err, app.ErrVoiceNotConfigured):
		logger.Error("rpcVoiceToken: voice chat is not configured")
		return "", runtime.NewError("voice chat unavailable", 14) // UNAVAILABLE
	case err != nil:
		return "", runtime.NewError(err.Error(), 3)
	}

	resp := voiceTokenResponse{Token: token}
	if req.Action == app.VoiceActionJoin {
		reply, err := nk.MatchSignal(ctx, req.MatchID, signalSeated+userID)
		if err != nil {
			logger.Debug("rpcVoiceToken: Match %s unavailable: %v", req.MatchID, err)
			return "", runtime.NewError("match not found", 5) // NOT_FOUND
		}
		if reply != signalYes {
			return "", runtime.NewError("not seated at this table", 7) // PERMISSION_DENIED
		}
		resp.Channel = app.TableChannel(req.MatchID)
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return "", runtime.NewError("internal error", 13) // INTERNAL
	}
	return string(b), nil
}
