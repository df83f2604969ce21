package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"

	"doudizhu/internal/domain"
)

// QuickMatchResponse is the payload returned to clients when requesting a lobby-capable match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// QuickMatchRequest optionally selects a bet tier.
type QuickMatchRequest struct {
	Tier string `json:"tier"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcVoiceToken, rpcVoiceToken)
}

// quickMatchQuery finds our lobbies with at least one open seat.
func quickMatchQuery() string {
	return fmt.Sprintf("+label.%s:%s +label.%s:%s +label.%s:>=1",
		MatchLabelKey_Game, GameLabel,
		MatchLabelKey_Phase, labelPhaseLobby,
		MatchLabelKey_OpenSeats)
}

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req QuickMatchRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("invalid payload", 3) // INVALID_ARGUMENT
		}
	}

	limit := 10
	authoritative := true
	minSize := 1
	maxSize := domain.Seats - 1

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, quickMatchQuery())
	if err != nil {
		logger.Error("MatchList error: %v", err)
		return "", err
	}

	if len(matches) > 0 {
		return quickMatchResponse(QuickMatchResponse{MatchID: matches[0].MatchId, IsNew: false})
	}

	// Seat and owner assignment happens in MatchJoin (server-authoritative).
	params := map[string]interface{}{}
	if req.Tier != "" {
		params["tier"] = req.Tier
	}
	matchID, err := nk.MatchCreate(ctx, MatchNameDouDiZhu, params)
	if err != nil {
		logger.Error("MatchCreate error: %v", err)
		return "", err
	}
	return quickMatchResponse(QuickMatchResponse{MatchID: matchID, IsNew: true})
}

func quickMatchResponse(resp QuickMatchResponse) (string, error) {
	b, err := json.Marshal(resp)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
