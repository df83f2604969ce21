package nakama

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"doudizhu/internal/app"
	"doudizhu/internal/domain"
)

// encodeFields marshals a flat field map as protojson of a structpb.Struct.
// Values must be structpb-compatible: slices are []any, numbers plain ints.
func encodeFields(fields map[string]any) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("build payload: %w", err)
	}
	return protojson.Marshal(s)
}

// decodeFields parses a client message body. An empty body is an empty struct.
func decodeFields(data []byte) (*structpb.Struct, error) {
	s := &structpb.Struct{}
	if len(data) == 0 {
		return s, nil
	}
	if err := protojson.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return s, nil
}

func intField(s *structpb.Struct, key string) (int, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %q is not a number", key)
	}
	return int(n.NumberValue), nil
}

func intListField(s *structpb.Struct, key string) ([]int, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return nil, nil
	}
	list := v.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("field %q is not a list", key)
	}
	out := make([]int, 0, len(list.GetValues()))
	for _, item := range list.GetValues() {
		n, ok := item.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return nil, fmt.Errorf("field %q holds a non-number", key)
		}
		out = append(out, int(n.NumberValue))
	}
	return out, nil
}

func cardsToValue(cards []domain.Card) []any {
	out := make([]any, len(cards))
	for i, c := range cards {
		out[i] = map[string]any{
			"id":    c.ID,
			"rank":  int(c.Rank),
			"suit":  int(c.Suit),
			"label": c.String(),
		}
	}
	return out
}

func intsToValue(values []int) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// eventFields maps an app event to its op code and wire fields.
func eventFields(ev app.Event) (int64, map[string]any, error) {
	switch p := ev.Payload.(type) {
	case app.GameStartedPayload:
		return OpGameStarted, map[string]any{
			"game_id":      p.GameID.String(),
			"phase":        string(p.Phase),
			"first_bidder": p.FirstBidderUserID,
		}, nil
	case app.HandDealtPayload:
		return OpHandDealt, map[string]any{
			"user_id": p.UserID,
			"hand":    cardsToValue(p.Hand),
		}, nil
	case app.BidPlacedPayload:
		return OpBidPlaced, map[string]any{
			"user_id":     p.UserID,
			"bid":         p.Bid,
			"highest_bid": p.HighestBid,
			"next_turn":   p.NextTurnUserID,
		}, nil
	case app.LandlordChosenPayload:
		return OpLandlordChosen, map[string]any{
			"user_id":     p.UserID,
			"bid":         p.Bid,
			"bonus":       cardsToValue(p.Bonus),
			"hand_counts": intsToValue(p.HandCounts[:]),
		}, nil
	case app.CardPlayedPayload:
		return OpCardPlayed, map[string]any{
			"user_id":         p.UserID,
			"cards":           cardsToValue(p.Cards),
			"hand_type":       p.Result.Type.String(),
			"rank":            int(p.Result.Rank),
			"cards_remaining": p.CardsRemaining,
			"multiplier":      p.Multiplier,
			"next_turn":       p.NextTurnUserID,
		}, nil
	case app.TurnPassedPayload:
		return OpTurnPassed, map[string]any{
			"user_id":       p.UserID,
			"table_cleared": p.TableCleared,
			"next_turn":     p.NextTurnUserID,
		}, nil
	case app.GameEndedPayload:
		hands := make([]any, len(p.Hands))
		for i, h := range p.Hands {
			hands[i] = cardsToValue(h)
		}
		return OpGameEnded, map[string]any{
			"game_id":      p.GameID.String(),
			"winner":       p.WinnerUserID,
			"winning_side": string(p.WinningSide),
			"multiplier":   p.Multiplier,
			"hands":        hands,
		}, nil
	default:
		return 0, nil, fmt.Errorf("unknown event kind: %v", ev.Kind)
	}
}
