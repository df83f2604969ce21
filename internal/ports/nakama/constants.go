package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"
	// RpcVoiceToken signs a voice chat token for the caller.
	RpcVoiceToken = "voice_token"

	// MatchNameDouDiZhu is the authoritative match handler name registered with Nakama.
	MatchNameDouDiZhu = "doudizhu_match"

	// GameLabel identifies our matches in the label index.
	GameLabel = "doudizhu"
)

// Match label keys.
const (
	MatchLabelKey_Game      = "game"
	MatchLabelKey_OpenSeats = "open"
	MatchLabelKey_Phase     = "phase"

	labelPhaseLobby = "lobby"
)

// Match signals. A "seated:<user id>" signal is answered with signalYes when
// that user holds a seat.
const (
	signalSeated = "seated:"
	signalYes    = "1"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame int64 = 1
	OpBid       int64 = 2
	OpPlayCards int64 = 3
	OpPassTurn  int64 = 4

	// Server -> Client events
	OpPlayerJoined   int64 = 101
	OpPlayerLeft     int64 = 102
	OpGameStarted    int64 = 103
	OpHandDealt      int64 = 104 // send privately
	OpBidPlaced      int64 = 105
	OpLandlordChosen int64 = 106
	OpCardPlayed     int64 = 107
	OpTurnPassed     int64 = 108
	OpGameEnded      int64 = 109
	OpGameError      int64 = 110
)

// Runtime environment keys.
const (
	envBotsEnabled      = "ddz_bots_enabled"
	envBotMinDelay      = "ddz_bot_min_delay_sec"
	envBotMaxDelay      = "ddz_bot_max_delay_sec"
	envBotAutoFillDelay = "ddz_bot_auto_fill_delay_sec"
	envVoiceSecret      = "vivox_secret"
	envVoiceIssuer      = "vivox_issuer"
	envVoiceDomain      = "vivox_domain"

	gameConfigPath    = "data/game_config.json"
	botIdentitiesPath = "data/bot_identities.json"
)
