// Command simulate plays many independent tables in parallel against an
// in-memory escrow and checks that no chips are created or lost.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"

	"github.com/niqqow96/Backend-PKROnchain/internal/service/escrow"
	"github.com/niqqow96/Backend-PKROnchain/internal/service/game"
	appErr "github.com/niqqow96/Backend-PKROnchain/pkg/errors"
	"github.com/niqqow96/Backend-PKROnchain/pkg/logger"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

type options struct {
	tables   int
	players  int
	hands    int
	workers  int
	seed     int64
	buyIn    uint64
	bigBlind uint64
}

func main() {
	var opts options
	flag.IntVar(&opts.tables, "tables", 50, "number of tables to simulate")
	flag.IntVar(&opts.players, "players", 6, "players per table (2-9)")
	flag.IntVar(&opts.hands, "hands", 100, "maximum hands per table")
	flag.IntVar(&opts.workers, "workers", 8, "tables played concurrently")
	flag.Int64Var(&opts.seed, "seed", 1, "base seed")
	flag.Uint64Var(&opts.buyIn, "buy-in", 1000, "buy-in per seat")
	flag.Uint64Var(&opts.bigBlind, "big-blind", 10, "big blind")
	flag.Parse()

	logger.InitLogger("debug")
	defer logger.Log.Sync()

	ctx := context.Background()
	p := pool.New().WithMaxGoroutines(opts.workers).WithErrors()
	for i := 0; i < opts.tables; i++ {
		p.Go(func() error {
			played, err := playTable(ctx, fmt.Sprintf("sim-%d", i), opts.seed+int64(i), opts)
			if err != nil {
				return fmt.Errorf("table sim-%d: %w", i, err)
			}
			logger.Log.Debug("table done", zap.Int("table", i), zap.Int("hands", played))
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		logger.Log.Fatal("simulation failed", zap.Error(err))
	}
	logger.Log.Info("simulation finished",
		zap.Int("tables", opts.tables),
		zap.Int("playersPerTable", opts.players))
}

// playTable runs hands until one player is left or the hand limit is hit,
// then cashes everyone out and checks the ledger balances.
func playTable(ctx context.Context, tableID string, seed int64, opts options) (int, error) {
	rng := rand.New(rand.NewSource(seed))
	ledger := escrow.NewMemoryLedger()
	players := make([]string, opts.players)
	for i := range players {
		players[i] = fmt.Sprintf("%s-p%d", tableID, i)
		ledger.Fund(players[i], opts.buyIn)
	}
	funded := uint64(len(players)) * opts.buyIn

	auth, err := game.NewAuthority("simulator", 0)
	if err != nil {
		return 0, err
	}
	t, err := game.CreateTable(ctx, auth, players[0], game.CreateParams{
		ID:         tableID,
		BuyIn:      opts.buyIn,
		SmallBlind: opts.bigBlind / 2,
		BigBlind:   opts.bigBlind,
		MaxPlayers: opts.players,
	}, ledger)
	if err != nil {
		return 0, err
	}
	for _, p := range players[1:] {
		if _, err := t.Join(ctx, p, ledger); err != nil {
			return 0, err
		}
	}

	played := 0
	for played < opts.hands {
		for _, p := range players {
			if seat := t.Seats[p]; seat != nil && seat.IsActive && seat.Chips < t.BigBlind {
				if _, err := t.Leave(ctx, p, ledger); err != nil {
					return played, err
				}
			}
		}
		if t.PlayerCount < game.MinSeats {
			break
		}
		if err := playHand(t, rng); err != nil {
			return played, err
		}
		played++
		if err := checkVault(t, ledger); err != nil {
			return played, err
		}
		if err := t.Reset(t.Host); err != nil {
			return played, err
		}
	}

	for _, p := range players {
		if t.IndexOf(p) < 0 {
			continue
		}
		if _, err := t.Leave(ctx, p, ledger); err != nil {
			return played, err
		}
	}
	var total uint64
	for _, p := range players {
		total += ledger.Balance(p)
	}
	if total != funded || ledger.VaultBalance(game.VaultID(tableID)) != 0 {
		return played, fmt.Errorf("%w: wallets hold %d of %d funded", appErr.ErrIntegrityViolation, total, funded)
	}
	return played, nil
}

func playHand(t *game.Table, rng *rand.Rand) error {
	if err := t.Start(t.Host, rng.Uint64()); err != nil {
		return err
	}
	for t.Status == game.StatusPlaying && t.Round != game.RoundShowdown {
		player := t.Players[t.CurrentPlayerIndex]
		if _, err := t.Apply(player, choose(t, t.Seats[player], rng)); err != nil {
			return fmt.Errorf("%s in %s: %w", player, t.Round, err)
		}
	}
	if t.Status == game.StatusPlaying {
		if _, err := t.Showdown(t.Host, game.StandardEvaluator{}); err != nil {
			if errors.Is(err, appErr.ErrNoWinners) {
				logger.Integrity("showdown without winners", err, zap.String("tableID", t.ID))
			}
			return err
		}
	}
	return nil
}

// choose is a loose calling station: it mostly checks or calls, sometimes
// raises by a big blind and sometimes folds to a bet.
func choose(t *game.Table, seat *game.Seat, rng *rand.Rand) game.Action {
	owed := t.HighestBet - seat.CurrentBet
	switch roll := rng.Intn(10); {
	case roll == 0 && owed > 0:
		return game.Action{Kind: game.ActionFold}
	case roll == 1 && seat.Chips > owed+t.BigBlind:
		return game.Action{Kind: game.ActionBet, Amount: t.HighestBet + t.BigBlind}
	case owed == 0:
		return game.Action{Kind: game.ActionCheck}
	default:
		return game.Action{Kind: game.ActionCall}
	}
}

func checkVault(t *game.Table, ledger *escrow.MemoryLedger) error {
	chips, err := t.TotalChips()
	if err != nil {
		return err
	}
	if vault := ledger.VaultBalance(game.VaultID(t.ID)); vault != chips {
		return fmt.Errorf("%w: vault %d, table %d", appErr.ErrIntegrityViolation, vault, chips)
	}
	return nil
}
