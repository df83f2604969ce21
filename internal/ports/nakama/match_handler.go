package nakama

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"doudizhu/internal/app"
	"doudizhu/internal/bot"
	"doudizhu/internal/config"
	"doudizhu/internal/domain"
	"doudizhu/internal/ports"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats                [domain.Seats]string        `json:"seats"`                   // user ids, empty string means seat is empty
	OwnerSeat            int                         `json:"owner_seat"`              // seat index of the match owner
	Tick                 int64                       `json:"tick"`
	Presences            map[string]runtime.Presence `json:"-"`                       // user id -> presence for targeted messaging
	Away                 map[string]bool             `json:"-"`                       // humans who left mid-game; autopilot plays for them
	App                  *app.Service                `json:"-"`
	Game                 *app.Game                   `json:"-"`                       // nil while in lobby
	BaseBet              int64                       `json:"base_bet"`
	TurnDuration         int                         `json:"turn_duration"`           // seconds a human has before autopilot acts
	TurnDeadline         int64                       `json:"turn_deadline"`           // tick at which autopilot acts for a human
	BotsEnabled          bool                        `json:"bots_enabled"`            // whether AI players are allowed
	BotLevel             string                      `json:"bot_level"`               // difficulty for bots without one
	BotMinDelay          int                         `json:"bot_min_delay"`           // min seconds a bot waits
	BotMaxDelay          int                         `json:"bot_max_delay"`           // max seconds a bot waits
	BotAutoFillDelay     int                         `json:"bot_auto_fill_delay"`     // seconds before auto-filling with bots
	BotWaitUntil         int64                       `json:"bot_wait_until"`          // tick when the bot should act
	LastSinglePlayerTick int64                       `json:"last_single_player_tick"`
	Bots                 map[string]*bot.Agent       `json:"-"`
	Economy              ports.EconomyPort           `json:"-"`
	rng                  *rand.Rand
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	return domain.Seats - ms.GetOpenSeatsCount()
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !isBotUserId(seat) {
			count++
		}
	}
	return count
}

func (ms *MatchState) seatOf(userID string) int {
	for i, seat := range ms.Seats {
		if seat != "" && seat == userID {
			return i
		}
	}
	return domain.NoSeat
}

// labelPhase is "lobby" between games and the game phase otherwise.
func (ms *MatchState) labelPhase() string {
	if ms.Game == nil {
		return labelPhaseLobby
	}
	return string(ms.Game.State.Phase)
}

// autopiloted reports whether the server plays the seat's turns.
func (ms *MatchState) autopiloted(userID string) bool {
	return isBotUserId(userID) || ms.Away[userID]
}

// isBotUserId reports whether the given user id represents a bot seat.
func isBotUserId(userId string) bool {
	return bot.IsBot(userId)
}

// isHumanSeat reports whether the seat index belongs to a human player.
func isHumanSeat(seats []string, seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= len(seats) {
		return false
	}
	userId := seats[seatIndex]
	return userId != "" && !isBotUserId(userId)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userId := range seats {
		if userId != "" && !isBotUserId(userId) {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans returns true when no connected human remains.
func shouldTerminateNoHumans(seats []string, away map[string]bool) bool {
	for _, userId := range seats {
		if userId != "" && !isBotUserId(userId) && !away[userId] {
			return false
		}
	}
	return true
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// newMatchState builds lobby state from the loaded game config.
func newMatchState(economy ports.EconomyPort) *MatchState {
	cfg := config.GetGameConfig()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &MatchState{
		OwnerSeat:        -1,
		Presences:        make(map[string]runtime.Presence),
		Away:             make(map[string]bool),
		App:              app.NewService(rng, nil),
		BaseBet:          cfg.BaseBet(""),
		TurnDuration:     cfg.TurnDurationSeconds,
		BotsEnabled:      true,
		BotLevel:         cfg.BotLevel,
		BotMinDelay:      cfg.BotMinDelaySeconds,
		BotMaxDelay:      cfg.BotMaxDelaySeconds,
		BotAutoFillDelay: cfg.BotAutoFillDelaySeconds,
		Bots:             make(map[string]*bot.Agent),
		Economy:          economy,
		rng:              rng,
	}
}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	state := newMatchState(NewNakamaEconomyAdapter(nk))
	state.Tick = time.Now().Unix()
	if tier, ok := params["tier"].(string); ok {
		state.BaseBet = config.GetBaseBet(tier)
	}

	// Environment overrides for bot configuration
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if val, ok := env[envBotsEnabled]; ok {
			state.BotsEnabled = val == "true"
		}
		overrideInt(env, envBotMinDelay, &state.BotMinDelay)
		overrideInt(env, envBotMaxDelay, &state.BotMaxDelay)
		overrideInt(env, envBotAutoFillDelay, &state.BotAutoFillDelay)
	}
	if state.BotMaxDelay < state.BotMinDelay {
		state.BotMaxDelay = state.BotMinDelay
	}

	label, err := matchLabel(state)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1 // one tick per second; delays and timers count ticks
	return state, tickRate, label
}

func overrideInt(env map[string]string, key string, target *int) {
	if val, ok := env[key]; ok {
		if i, err := strconv.Atoi(val); err == nil && i >= 0 {
			*target = i
		}
	}
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// A player returning to a game in progress takes their seat back.
	if matchState.Away[presence.GetUserId()] {
		return state, true, ""
	}

	// Allow join if there is an empty seat or a bot to replace while in lobby
	if matchState.GetOpenSeatsCount() <= 0 {
		hasBot := false
		if matchState.Game == nil {
			for _, seat := range matchState.Seats {
				if isBotUserId(seat) {
					hasBot = true
					break
				}
			}
		}
		if !hasBot {
			return state, false, "Match full"
		}
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		matchState.Presences[userID] = p

		if matchState.Away[userID] {
			delete(matchState.Away, userID)
			logger.Info("MatchJoin: User %s returned to seat %d", userID, matchState.seatOf(userID))
			mh.resendHand(matchState, dispatcher, logger, userID)
			continue
		}
		if matchState.seatOf(userID) != domain.NoSeat {
			continue
		}

		// Assign seat: try empty seats first, then bots while in lobby
		assigned := false
		for i, seatUserId := range matchState.Seats {
			if seatUserId == "" {
				matchState.Seats[i] = userID
				assigned = true
				break
			}
		}

		if !assigned && matchState.Game == nil {
			for i, seatUserId := range matchState.Seats {
				if isBotUserId(seatUserId) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserId, userID, i)
					delete(matchState.Bots, seatUserId)
					matchState.Seats[i] = userID
					assigned = true
					break
				}
			}
		}

		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no seat (empty or bot) was available.", userID)
		}
	}

	// Ensure owner seat is assigned to a human player only.
	if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to human seat %d.", matchState.OwnerSeat)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(ctx, matchState, dispatcher, logger, OpPlayerJoined)

	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		userID := p.GetUserId()
		delete(matchState.Presences, userID)

		seat := matchState.seatOf(userID)
		if seat == domain.NoSeat {
			continue
		}
		if matchState.Game != nil {
			// The seat stays in the game; autopilot plays it until the user returns.
			matchState.Away[userID] = true
			logger.Debug("MatchLeave: User %s left mid-game, seat %d on autopilot.", userID, seat)
			continue
		}
		matchState.Seats[seat] = ""
		logger.Debug("MatchLeave: User %s left, seat %d freed.", userID, seat)
	}

	if shouldTerminateNoHumans(matchState.Seats[:], matchState.Away) {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) || matchState.Away[matchState.Seats[matchState.OwnerSeat]] {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
		logger.Debug("MatchLeave: Owner set to seat %d.", matchState.OwnerSeat)
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastMatchState(ctx, matchState, dispatcher, logger, OpPlayerLeft)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpBid:
			mh.handleBid(ctx, matchState, dispatcher, logger, msg)
		case OpPlayCards:
			mh.handlePlayCards(ctx, matchState, dispatcher, logger, msg)
		case OpPassTurn:
			mh.handlePassTurn(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	mh.processBots(ctx, matchState, dispatcher, logger)
	mh.processTurnTimer(ctx, matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// Auto-fill the lobby with bots once a lone human has waited long enough
	if state.Game == nil {
		if !state.BotsEnabled || state.GetHumanPlayerCount() != 1 {
			state.LastSinglePlayerTick = 0
			return
		}
		if state.LastSinglePlayerTick == 0 {
			state.LastSinglePlayerTick = state.Tick
			logger.Debug("processBots: Single player detected, starting auto-fill timer.")
		}
		if state.Tick-state.LastSinglePlayerTick < int64(state.BotAutoFillDelay) {
			return
		}

		added := false
		for i, seat := range state.Seats {
			if seat != "" {
				continue
			}
			identity := bot.GetBotIdentity(i)
			if identity.Difficulty == "" {
				identity.Difficulty = state.BotLevel
			}
			agent, err := bot.NewAgent(identity)
			if err != nil {
				logger.Error("processBots: Failed to create bot agent for %s: %v", identity.UserID, err)
				continue
			}
			state.Seats[i] = identity.UserID
			state.Bots[identity.UserID] = agent
			logger.Info("processBots: Added bot %s (%s) to seat %d", identity.DisplayName, identity.UserID, i)
			added = true
		}
		if added {
			mh.updateLabel(state, dispatcher, logger)
			mh.broadcastMatchState(ctx, state, dispatcher, logger, OpPlayerJoined)
		}
		state.LastSinglePlayerTick = 0
		return
	}

	// Bot and autopilot turns in-game
	seat := state.Game.State.CurrentTurn
	userID := state.Seats[seat]
	if !state.autopiloted(userID) {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		delay := state.BotMinDelay
		if span := state.BotMaxDelay - state.BotMinDelay; span > 0 {
			delay += state.rng.Intn(span + 1)
		}
		state.BotWaitUntil = state.Tick + int64(delay)
		logger.Debug("processBots: %s (seat %d) will act at tick %d (current %d)", userID, seat, state.BotWaitUntil, state.Tick)
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0
	mh.actForSeat(ctx, state, dispatcher, logger, seat)
}

// processTurnTimer lets autopilot act for a human whose turn ran out.
func (mh *matchHandler) processTurnTimer(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game == nil || state.TurnDuration <= 0 || state.TurnDeadline == 0 {
		return
	}
	seat := state.Game.State.CurrentTurn
	if state.autopiloted(state.Seats[seat]) || state.Tick < state.TurnDeadline {
		return
	}
	logger.Info("processTurnTimer: Seat %d timed out, autopilot acts.", seat)
	mh.actForSeat(ctx, state, dispatcher, logger, seat)
}

// agentFor returns the agent for a bot seat or an autopilot for a human seat.
func (mh *matchHandler) agentFor(state *MatchState, userID string) (*bot.Agent, error) {
	if agent, ok := state.Bots[userID]; ok {
		return agent, nil
	}
	agent, err := bot.NewAgent(bot.BotIdentity{UserID: userID, DisplayName: displayName(state, userID), Difficulty: state.BotLevel})
	if err != nil {
		return nil, err
	}
	state.Bots[userID] = agent
	return agent, nil
}

func (mh *matchHandler) actForSeat(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, seat int) {
	userID := state.Seats[seat]
	agent, err := mh.agentFor(state, userID)
	if err != nil {
		logger.Error("actForSeat: Failed to create agent for %s: %v", userID, err)
		return
	}

	game := *state.Game
	var (
		next   app.Game
		events []app.Event
	)
	switch game.State.Phase {
	case domain.PhaseBidding:
		next, events, err = state.App.PlaceBid(game, userID, agent.Bid(game.State, seat))
	case domain.PhasePlaying:
		var move bot.Move
		move, err = agent.Play(game.State, seat)
		if err != nil {
			logger.Error("actForSeat: %s failed to calculate move: %v", userID, err)
			return
		}
		if move.Pass {
			next, events, err = state.App.PassTurn(game, userID)
		} else {
			next, events, err = state.App.PlayCards(game, userID, app.CardIDs(move.Cards))
		}
	default:
		return
	}
	if err != nil {
		logger.Error("actForSeat: %s move rejected: %v", userID, err)
		return
	}
	mh.applyResult(ctx, state, dispatcher, logger, next, events)
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := state.seatOf(senderID)

	logger.Info("StartGame: Request received from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	if state.Game != nil {
		mh.sendError(state, dispatcher, logger, senderID, errorCode(domain.ErrWrongPhase), "game already in progress")
		return
	}
	if senderSeat != state.OwnerSeat {
		logger.Warn("StartGame: User %s tried to start game but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		mh.sendError(state, dispatcher, logger, senderID, 403, "only the owner can start the game")
		return
	}
	if state.GetOpenSeatsCount() > 0 {
		logger.Warn("StartGame: Cannot start with %d players. Need %d.", state.GetOccupiedSeatCount(), domain.Seats)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(app.ErrTooFewPlayers), app.ErrTooFewPlayers.Error())
		return
	}

	players := make([]app.PlayerInfo, 0, domain.Seats)
	for _, userID := range state.Seats {
		players = append(players, app.PlayerInfo{UserID: userID, Name: displayName(state, userID)})
	}

	game, events, err := state.App.StartGame(players)
	if err != nil {
		logger.Error("StartGame: Failed to start game: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
		return
	}
	mh.applyResult(ctx, state, dispatcher, logger, game, events)
	logger.Info("StartGame: Game %s started.", game.ID)
}

func (mh *matchHandler) handleBid(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Game == nil {
		mh.sendError(state, dispatcher, logger, senderID, errorCode(domain.ErrWrongPhase), "game not started")
		return
	}

	request, err := decodeFields(msg.GetData())
	if err != nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	value, err := intField(request, "bid")
	if err != nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	game, events, err := state.App.PlaceBid(*state.Game, senderID, value)
	if err != nil {
		logger.Warn("handleBid: User %s failed to bid %d: %v", senderID, value, err)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
		return
	}
	mh.applyResult(ctx, state, dispatcher, logger, game, events)
}

func (mh *matchHandler) handlePlayCards(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Game == nil {
		logger.Warn("handlePlayCards: Game not started.")
		mh.sendError(state, dispatcher, logger, senderID, errorCode(domain.ErrWrongPhase), "game not started")
		return
	}

	request, err := decodeFields(msg.GetData())
	if err != nil {
		logger.Error("handlePlayCards: Failed to decode request: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
	cardIDs, err := intListField(request, "card_ids")
	if err != nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	game, events, err := state.App.PlayCards(*state.Game, senderID, cardIDs)
	if err != nil {
		logger.Warn("handlePlayCards: User %s failed to play cards %v: %v", senderID, cardIDs, err)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
		return
	}
	mh.applyResult(ctx, state, dispatcher, logger, game, events)
}

func (mh *matchHandler) handlePassTurn(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Game == nil {
		logger.Warn("handlePassTurn: Game not started.")
		mh.sendError(state, dispatcher, logger, senderID, errorCode(domain.ErrWrongPhase), "game not started")
		return
	}

	game, events, err := state.App.PassTurn(*state.Game, senderID)
	if err != nil {
		logger.Warn("handlePassTurn: User %s failed to pass turn: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, errorCode(err), err.Error())
		return
	}
	mh.applyResult(ctx, state, dispatcher, logger, game, events)
}

// applyResult stores the next game, dispatches its events and returns the
// match to the lobby once the game is finished.
func (mh *matchHandler) applyResult(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, game app.Game, events []app.Event) {
	state.Game = &game
	state.BotWaitUntil = 0
	state.TurnDeadline = 0
	if state.TurnDuration > 0 {
		state.TurnDeadline = state.Tick + int64(state.TurnDuration)
	}

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}

	if game.State.Phase == domain.PhaseFinished {
		state.Game = nil
		state.TurnDeadline = 0
		for userID := range state.Away {
			if seat := state.seatOf(userID); seat != domain.NoSeat {
				state.Seats[seat] = ""
			}
			delete(state.Bots, userID)
		}
		state.Away = make(map[string]bool)
		mh.broadcastMatchState(ctx, state, dispatcher, logger, OpPlayerLeft)
	}
	mh.updateLabel(state, dispatcher, logger)
}

// broadcastEvent converts an app event to its wire payload and dispatches it.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, fields, err := eventFields(ev)
	if err != nil {
		logger.Warn("broadcastEvent: %v", err)
		return
	}

	if ev.Kind == app.EventGameEnded && state.Game != nil {
		fields["payouts"] = mh.settle(ctx, state, logger)
	}

	data, err := encodeFields(fields)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast)
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		// Intended recipients that are not connected (bots, away players)
		// must not turn a private message into a broadcast.
		if len(recipients) == 0 {
			return
		}
	}

	if err := dispatcher.BroadcastMessage(opCode, data, recipients, nil, true); err != nil {
		logger.Error("broadcastEvent: Failed to send %v: %v", ev.Kind, err)
	}
}

// settle computes payouts for the finished game and applies human wallet changes.
func (mh *matchHandler) settle(ctx context.Context, state *MatchState, logger runtime.Logger) []any {
	payouts, err := state.App.Settle(*state.Game, state.BaseBet)
	if err != nil {
		logger.Error("settle: %v", err)
		return nil
	}

	matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
	updates := make([]ports.WalletUpdate, 0, len(payouts))
	out := make([]any, 0, len(payouts))
	for _, p := range payouts {
		out = append(out, map[string]any{
			"user_id": p.UserID,
			"role":    string(p.Role),
			"amount":  p.Amount,
		})
		if isBotUserId(p.UserID) {
			continue
		}
		updates = append(updates, ports.WalletUpdate{
			UserID: p.UserID,
			Amount: p.Amount,
			Metadata: ports.SettlementMetadata(matchID, state.Game.ID.String()),
		})
	}

	if state.Economy != nil && len(updates) > 0 {
		if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
			logger.Error("Failed to update balances: %v", err)
		}
	}
	return out
}

// broadcastMatchState sends the seat snapshot to every presence.
func (mh *matchHandler) broadcastMatchState(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64) {
	seats := make([]any, len(state.Seats))
	players := make([]any, 0, domain.Seats)
	for i, userID := range state.Seats {
		seats[i] = userID
		if userID == "" {
			continue
		}

		cardsRemaining := 0
		if state.Game != nil {
			cardsRemaining = len(state.Game.State.Players[i].Hand)
		}

		var balance int64
		if state.Economy != nil {
			b, err := state.Economy.GetBalance(ctx, userID)
			if err != nil {
				logger.Debug("broadcastMatchState: No balance for %s: %v", userID, err)
			}
			balance = b
		}

		players = append(players, map[string]any{
			"user_id":         userID,
			"seat":            i,
			"is_owner":        i == state.OwnerSeat,
			"is_bot":          isBotUserId(userID),
			"away":            state.Away[userID],
			"display_name":    displayName(state, userID),
			"cards_remaining": cardsRemaining,
			"balance":         balance,
		})
	}

	data, err := encodeFields(map[string]any{
		"seats":      seats,
		"owner_seat": state.OwnerSeat,
		"tick":       state.Tick,
		"phase":      state.labelPhase(),
		"base_bet":   state.BaseBet,
		"players":    players,
	})
	if err != nil {
		logger.Error("broadcastMatchState: Failed to marshal snapshot: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, data, nil, nil, true); err != nil {
		logger.Error("broadcastMatchState: Failed to send: %v", err)
	}
}

// resendHand gives a returning player their current hand.
func (mh *matchHandler) resendHand(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string) {
	if state.Game == nil {
		return
	}
	seat := state.seatOf(userID)
	if seat == domain.NoSeat {
		return
	}
	data, err := encodeFields(map[string]any{
		"user_id": userID,
		"hand":    cardsToValue(state.Game.State.Players[seat].Hand),
	})
	if err != nil {
		logger.Error("resendHand: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpHandDealt, data, []runtime.Presence{state.Presences[userID]}, nil, true); err != nil {
		logger.Error("resendHand: Failed to send: %v", err)
	}
}

// sendError sends a game error to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	data, err := encodeFields(map[string]any{"code": code, "message": message})
	if err != nil {
		logger.Error("Failed to marshal game error: %v", err)
		return
	}
	if err := dispatcher.BroadcastMessage(OpGameError, data, []runtime.Presence{presence}, nil, true); err != nil {
		logger.Error("sendError: Failed to send: %v", err)
	}
}

// errorCode maps rule and service errors to client error codes.
func errorCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotYourTurn), errors.Is(err, app.ErrUnknownPlayer):
		return 403
	case errors.Is(err, domain.ErrWrongPhase), errors.Is(err, app.ErrTooFewPlayers):
		return 409
	default:
		return 400
	}
}

func displayName(state *MatchState, userID string) string {
	if p, ok := state.Presences[userID]; ok && p.GetUsername() != "" {
		return p.GetUsername()
	}
	if name := bot.GetBotDisplayName(userID); name != "" {
		return name
	}
	return userID
}

func matchLabel(state *MatchState) (string, error) {
	data, err := encodeFields(map[string]any{
		MatchLabelKey_Game:      GameLabel,
		MatchLabelKey_OpenSeats: state.GetOpenSeatsCount(),
		MatchLabelKey_Phase:     state.labelPhase(),
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label, err := matchLabel(state)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(label); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	logger.Debug("MatchTerminate: Match terminated, grace %d seconds", graceSeconds)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, ""
	}
	if userID, ok := strings.CutPrefix(data, signalSeated); ok && userID != "" {
		if matchState.seatOf(userID) != domain.NoSeat {
			return state, signalYes
		}
	}
	return state, ""
}
