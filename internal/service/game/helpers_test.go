package game_test

import (
	"context"
	"testing"

	"github.com/niqqow96/Backend-PKROnchain/internal/service/escrow"
	"github.com/niqqow96/Backend-PKROnchain/internal/service/game"
)

const (
	testBuyIn = 1000
	testSB    = 5
	testBB    = 10
)

// seatedTable creates a waiting table hosted by players[0] with the rest
// joined in order. Every player starts with 10x the buy-in in escrow.
func seatedTable(t *testing.T, maxPlayers int, players ...string) (*game.Table, *escrow.MemoryLedger) {
	t.Helper()

	ctx := context.Background()
	ledger := escrow.NewMemoryLedger()
	for _, p := range players {
		ledger.Fund(p, 10*testBuyIn)
	}
	auth, err := game.NewAuthority("operator", 2)
	if err != nil {
		t.Fatalf("new authority failed: %v", err)
	}
	tbl, err := game.CreateTable(ctx, auth, players[0], game.CreateParams{
		ID:         "table-1",
		BuyIn:      testBuyIn,
		SmallBlind: testSB,
		BigBlind:   testBB,
		MaxPlayers: maxPlayers,
	}, ledger)
	if err != nil {
		t.Fatalf("create table failed: %v", err)
	}
	for _, p := range players[1:] {
		if _, err := tbl.Join(ctx, p, ledger); err != nil {
			t.Fatalf("join %s failed: %v", p, err)
		}
	}
	return tbl, ledger
}

// startedTable is seatedTable plus Start(seed 0): dealer at seat 0, small
// blind seat 1, big blind seat 2 (heads-up: big blind is the dealer).
func startedTable(t *testing.T, players ...string) (*game.Table, *escrow.MemoryLedger) {
	t.Helper()
	tbl, ledger := seatedTable(t, 6, players...)
	if err := tbl.Start(players[0], 0); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	return tbl, ledger
}

// manualTable builds a Playing table directly from seats; a nil seat is an
// empty slot. The first occupied seat hosts.
func manualTable(round game.Round, bigBlind uint64, seats ...*game.Seat) *game.Table {
	tbl := &game.Table{
		ID:         "manual",
		BuyIn:      bigBlind * 100,
		SmallBlind: bigBlind / 2,
		BigBlind:   bigBlind,
		MaxPlayers: len(seats),
		Status:     game.StatusPlaying,
		Round:      round,
		Players:    make([]string, len(seats)),
		Seats:      make(map[string]*game.Seat),
	}
	for i, s := range seats {
		if s == nil {
			continue
		}
		s.IsActive = true
		tbl.Players[i] = s.Player
		tbl.Seats[s.Player] = s
		tbl.PlayerCount++
		if tbl.Host == "" {
			tbl.Host = s.Player
		}
	}
	return tbl
}

func totalChips(t *testing.T, tbl *game.Table) uint64 {
	t.Helper()
	total, err := tbl.TotalChips()
	if err != nil {
		t.Fatalf("total chips failed: %v", err)
	}
	return total
}

func mustAct(t *testing.T, tbl *game.Table, player string, action game.Action) game.Outcome {
	t.Helper()
	out, err := tbl.Apply(player, action)
	if err != nil {
		t.Fatalf("%s %s failed: %v", player, action.Kind, err)
	}
	return out
}

var (
	check = game.Action{Kind: game.ActionCheck}
	call  = game.Action{Kind: game.ActionCall}
	fold  = game.Action{Kind: game.ActionFold}
)

func bet(amount uint64) game.Action {
	return game.Action{Kind: game.ActionBet, Amount: amount}
}
