package main

import (
	"fmt"
	"io"
	"math/rand"

	"go.uber.org/zap"

	"doudizhu/internal/app"
	"doudizhu/internal/bot"
	"doudizhu/internal/config"
	"doudizhu/internal/domain"
)

// maxTurns bounds a single game; a stuck bot is reported instead of looping.
const maxTurns = 500

type simOptions struct {
	games      int
	seed       int64
	level      string
	configPath string
	tier       string
	verbose    bool
}

type simSummary struct {
	Games        int
	LandlordWins int
	FarmerWins   int
	NoBidGames   int
	Bombs        int
	Turns        int
	// Net is the settled total per seat across all games.
	Net [domain.Seats]int64
}

func simulate(opts simOptions, logger *zap.Logger) (simSummary, error) {
	if opts.games <= 0 {
		return simSummary{}, fmt.Errorf("games must be positive, got %d", opts.games)
	}

	cfg := config.Default()
	if opts.configPath != "" {
		if err := config.LoadGameConfig(opts.configPath); err != nil {
			return simSummary{}, err
		}
		cfg = config.GetGameConfig()
	}
	levelName := opts.level
	if levelName == "" {
		levelName = cfg.BotLevel
	}
	level, err := bot.ParseBotLevel(levelName)
	if err != nil {
		return simSummary{}, err
	}
	brain, err := bot.NewBrain(level)
	if err != nil {
		return simSummary{}, err
	}
	baseBet := cfg.BaseBet(opts.tier)

	svc := app.NewService(rand.New(rand.NewSource(opts.seed)), logger)
	players := make([]app.PlayerInfo, domain.Seats)
	for i := range players {
		identity := bot.GetBotIdentity(i)
		players[i] = app.PlayerInfo{UserID: identity.UserID, Name: identity.DisplayName}
	}

	var summary simSummary
	for n := 0; n < opts.games; n++ {
		game, turns, err := playGame(svc, brain, players)
		if err != nil {
			return summary, fmt.Errorf("game %d: %w", n+1, err)
		}
		payouts, err := svc.Settle(game, baseBet)
		if err != nil {
			return summary, fmt.Errorf("game %d: %w", n+1, err)
		}

		summary.Games++
		summary.Turns += turns
		if game.State.HighestBid == 0 {
			summary.NoBidGames++
		}
		for m := game.State.Multiplier; m > 1; m /= 2 {
			summary.Bombs++
		}
		if game.State.WinningSide() == domain.RoleLandlord {
			summary.LandlordWins++
		} else {
			summary.FarmerWins++
		}
		for i, p := range payouts {
			summary.Net[i] += p.Amount
		}

		logger.Debug("game finished",
			zap.String("game_id", game.ID.String()),
			zap.Int("landlord", game.State.LandlordIndex),
			zap.Int("bid", game.State.HighestBid),
			zap.Int("winner", game.State.Winner),
			zap.Int("multiplier", game.State.Multiplier),
			zap.Int("turns", turns))
	}
	return summary, nil
}

// playGame runs one game to completion with the same brain in every seat.
func playGame(svc *app.Service, brain bot.Brain, players []app.PlayerInfo) (app.Game, int, error) {
	game, _, err := svc.StartGame(players)
	if err != nil {
		return game, 0, err
	}

	for game.State.Phase == domain.PhaseBidding {
		seat := game.State.CurrentTurn
		bid := brain.Bid(game.State.Players[seat].Hand, game.State.HighestBid)
		if game, _, err = svc.PlaceBid(game, players[seat].UserID, bid); err != nil {
			return game, 0, err
		}
	}

	turns := 0
	for ; game.State.Phase == domain.PhasePlaying; turns++ {
		if turns >= maxTurns {
			return game, turns, fmt.Errorf("no winner after %d turns", maxTurns)
		}
		seat := game.State.CurrentTurn
		move, err := brain.CalculateMove(game.State, seat)
		if err != nil {
			return game, turns, err
		}
		if move.Pass {
			game, _, err = svc.PassTurn(game, players[seat].UserID)
		} else {
			game, _, err = svc.PlayCards(game, players[seat].UserID, app.CardIDs(move.Cards))
		}
		if err != nil {
			return game, turns, err
		}
	}
	return game, turns, nil
}

func (s simSummary) print(w io.Writer) {
	pct := func(n int) float64 { return 100 * float64(n) / float64(s.Games) }
	fmt.Fprintf(w, "games:         %d\n", s.Games)
	fmt.Fprintf(w, "landlord wins: %d (%.1f%%)\n", s.LandlordWins, pct(s.LandlordWins))
	fmt.Fprintf(w, "farmer wins:   %d (%.1f%%)\n", s.FarmerWins, pct(s.FarmerWins))
	fmt.Fprintf(w, "no-bid deals:  %d\n", s.NoBidGames)
	fmt.Fprintf(w, "bombs/rockets: %d\n", s.Bombs)
	fmt.Fprintf(w, "avg turns:     %.1f\n", float64(s.Turns)/float64(s.Games))
	for i, net := range s.Net {
		fmt.Fprintf(w, "seat %d net:    %d\n", i, net)
	}
}
