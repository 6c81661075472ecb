package game_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/niqqow96/Backend-PKROnchain/internal/model"
	"github.com/niqqow96/Backend-PKROnchain/internal/service/escrow"
	"github.com/niqqow96/Backend-PKROnchain/internal/service/game"
	"github.com/niqqow96/Backend-PKROnchain/internal/service/lock"
	appErr "github.com/niqqow96/Backend-PKROnchain/pkg/errors"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const startingBalance = 5000

type serviceEnv struct {
	db     *gorm.DB
	game   *game.Service
	escrow *escrow.Service
	locker *lock.LocalLocker
}

func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"), name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("failed to migrate models: %v", err)
	}
	return db
}

func newServiceEnv(t *testing.T, players ...string) *serviceEnv {
	t.Helper()

	db := openTestDB(t, "main")
	if err := db.Create(&model.GameAuthority{ID: 1, Owner: "operator", FeePercentage: 2}).Error; err != nil {
		t.Fatalf("failed to seed authority: %v", err)
	}

	escrowSvc := escrow.NewService(db)
	for _, p := range players {
		if _, err := escrowSvc.AdminSetWallet(context.Background(), p, startingBalance); err != nil {
			t.Fatalf("failed to fund %s: %v", p, err)
		}
	}
	locker := lock.NewLocalLocker()
	ledger := func(tx *gorm.DB) game.EscrowGateway { return escrowSvc.Ledger(tx) }
	return &serviceEnv{
		db:     db,
		game:   game.NewService(db, locker, ledger, nil),
		escrow: escrowSvc,
		locker: locker,
	}
}

func (e *serviceEnv) createTable(t *testing.T, id, host string, private bool, joiners ...string) {
	t.Helper()
	ctx := context.Background()
	_, err := e.game.CreateTable(ctx, host, game.CreateParams{
		ID:         id,
		BuyIn:      testBuyIn,
		SmallBlind: testSB,
		BigBlind:   testBB,
		MaxPlayers: 6,
		IsPrivate:  private,
	})
	if err != nil {
		t.Fatalf("create table failed: %v", err)
	}
	for _, p := range joiners {
		if _, err := e.game.Join(ctx, id, p); err != nil {
			t.Fatalf("join %s failed: %v", p, err)
		}
	}
}

func (e *serviceEnv) walletBalance(t *testing.T, identity string) uint64 {
	t.Helper()
	w, err := e.escrow.GetWallet(context.Background(), identity)
	if err != nil {
		t.Fatalf("get wallet failed: %v", err)
	}
	return w.Balance
}

func (e *serviceEnv) vaultBalance(t *testing.T, tableID string) uint64 {
	t.Helper()
	v, err := e.escrow.GetVault(context.Background(), tableID)
	if err != nil {
		t.Fatalf("get vault failed: %v", err)
	}
	return v.Balance
}

func viewChips(v *game.TableView) uint64 {
	total := v.Pot
	for _, s := range v.Seats {
		total += s.Chips
	}
	return total
}

func TestServiceFullHand(t *testing.T) {
	ctx := context.Background()
	env := newServiceEnv(t, "a", "b")
	env.createTable(t, "t1", "a", false, "b")

	if _, err := env.game.Start(ctx, "t1", "a", 0); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, _, err := env.game.Act(ctx, "t1", "b", call); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	view, err := env.game.GetTable(ctx, "t1", "")
	if err != nil {
		t.Fatalf("get table failed: %v", err)
	}
	for view.Round != game.RoundShowdown {
		var current string
		for _, s := range view.Seats {
			if s.Index == view.CurrentPlayerIndex {
				current = s.Player
			}
		}
		if _, view, err = env.game.Act(ctx, "t1", current, check); err != nil {
			t.Fatalf("%s check failed: %v", current, err)
		}
	}

	if _, _, err := env.game.Showdown(ctx, "t1", "b"); !errors.Is(err, appErr.ErrNotTableHost) {
		t.Fatalf("expected not host, got: %v", err)
	}
	res, view, err := env.game.Showdown(ctx, "t1", "a")
	if err != nil {
		t.Fatalf("showdown failed: %v", err)
	}
	if len(res.Winners) == 0 || len(res.Hands) != 2 {
		t.Fatalf("unexpected showdown result %+v", res)
	}
	if view.Status != game.StatusFinished || view.Pot != 0 {
		t.Fatalf("expected settled table, got %s pot %d", view.Status, view.Pot)
	}
	for _, s := range view.Seats {
		if len(s.HoleCards) != 2 {
			t.Fatalf("expected hands revealed after showdown")
		}
	}

	if got := env.vaultBalance(t, "t1"); got != viewChips(view) || got != 2*testBuyIn {
		t.Fatalf("vault %d does not match table chips %d", got, viewChips(view))
	}

	if _, err := env.game.Reset(ctx, "t1", "a"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	for _, p := range []string{"a", "b"} {
		if _, err := env.game.Leave(ctx, "t1", p); err != nil {
			t.Fatalf("leave %s failed: %v", p, err)
		}
	}
	if total := env.walletBalance(t, "a") + env.walletBalance(t, "b"); total != 2*startingBalance {
		t.Fatalf("wallets hold %d after cash out, want %d", total, 2*startingBalance)
	}
	if got := env.vaultBalance(t, "t1"); got != 0 {
		t.Fatalf("vault not drained: %d", got)
	}

	var logs int64
	env.db.Model(&model.ActionLog{}).Where("table_id = ?", "t1").Count(&logs)
	if logs == 0 {
		t.Fatalf("expected action log entries")
	}
}

func TestServiceRejectedActionLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	env := newServiceEnv(t, "a", "b", "c")
	env.createTable(t, "t1", "a", false, "b", "c")
	if _, err := env.game.Start(ctx, "t1", "a", 0); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	var before int64
	env.db.Model(&model.ActionLog{}).Count(&before)

	// seed 0 puts a first to act.
	if _, _, err := env.game.Act(ctx, "t1", "b", call); !errors.Is(err, appErr.ErrNotPlayerTurn) {
		t.Fatalf("expected not player turn, got: %v", err)
	}
	if _, _, err := env.game.Act(ctx, "t1", "a", bet(12)); !errors.Is(err, appErr.ErrBetTooSmall) {
		t.Fatalf("expected bet too small, got: %v", err)
	}

	var after int64
	env.db.Model(&model.ActionLog{}).Count(&after)
	if after != before {
		t.Fatalf("rejected actions were logged")
	}
	view, err := env.game.GetTable(ctx, "t1", "a")
	if err != nil {
		t.Fatalf("get table failed: %v", err)
	}
	if view.Pot != testSB+testBB || view.CurrentPlayerIndex != 0 {
		t.Fatalf("rejected actions changed the table: pot %d turn %d", view.Pot, view.CurrentPlayerIndex)
	}
}

func TestServiceCreateErrors(t *testing.T) {
	ctx := context.Background()
	env := newServiceEnv(t, "a", "b")
	env.createTable(t, "t1", "a", false)

	_, err := env.game.CreateTable(ctx, "b", game.CreateParams{
		ID: "t1", BuyIn: testBuyIn, SmallBlind: testSB, BigBlind: testBB, MaxPlayers: 2,
	})
	if !errors.Is(err, appErr.ErrTableExists) {
		t.Fatalf("expected table exists, got: %v", err)
	}
	if got := env.walletBalance(t, "b"); got != startingBalance {
		t.Fatalf("rejected create moved funds: %d", got)
	}

	if _, err := env.game.Join(ctx, "missing", "b"); !errors.Is(err, appErr.ErrTableNotFound) {
		t.Fatalf("expected table not found, got: %v", err)
	}

	bare := openTestDB(t, "bare")
	escrowSvc := escrow.NewService(bare)
	svc := game.NewService(bare, lock.NewLocalLocker(), func(tx *gorm.DB) game.EscrowGateway {
		return escrowSvc.Ledger(tx)
	}, nil)
	_, err = svc.CreateTable(ctx, "a", game.CreateParams{
		ID: "t2", BuyIn: testBuyIn, SmallBlind: testSB, BigBlind: testBB, MaxPlayers: 2,
	})
	if !errors.Is(err, appErr.ErrAuthorityNotInitialized) {
		t.Fatalf("expected authority not initialized, got: %v", err)
	}

	var auth model.GameAuthority
	env.db.First(&auth, 1)
	if auth.TotalGamesPlayed != 1 {
		t.Fatalf("expected one game on the authority, got %d", auth.TotalGamesPlayed)
	}
}

func TestServiceTableBusy(t *testing.T) {
	ctx := context.Background()
	env := newServiceEnv(t, "a", "b")
	env.createTable(t, "t1", "a", false)

	unlock, err := env.locker.TryLock(ctx, lock.TableKey("t1"))
	if err != nil {
		t.Fatalf("lock failed: %v", err)
	}
	if _, err := env.game.Join(ctx, "t1", "b"); !errors.Is(err, appErr.ErrTableBusy) {
		t.Fatalf("expected table busy, got: %v", err)
	}
	unlock()
	if _, err := env.game.Join(ctx, "t1", "b"); err != nil {
		t.Fatalf("join after unlock failed: %v", err)
	}
}

func TestServiceListTablesHidesPrivate(t *testing.T) {
	ctx := context.Background()
	env := newServiceEnv(t, "a", "b", "c")
	env.createTable(t, "open-1", "a", false)
	env.createTable(t, "secret", "b", true)
	env.createTable(t, "open-2", "c", false)

	res, err := env.game.ListTables(ctx, 1, 10)
	if err != nil {
		t.Fatalf("list tables failed: %v", err)
	}
	if res.Total != 2 || len(res.Items) != 2 {
		t.Fatalf("expected 2 public tables, got %d/%d", res.Total, len(res.Items))
	}
	for _, item := range res.Items {
		if item.ID == "secret" {
			t.Fatalf("private table listed")
		}
	}

	page, err := env.game.ListTables(ctx, 2, 1)
	if err != nil {
		t.Fatalf("list page 2 failed: %v", err)
	}
	if page.Total != 2 || len(page.Items) != 1 {
		t.Fatalf("unexpected second page %+v", page)
	}

	if _, err := env.game.GetTable(ctx, "secret", ""); err != nil {
		t.Fatalf("private table should be reachable by id: %v", err)
	}
}

func TestServiceViewMasksHoleCards(t *testing.T) {
	ctx := context.Background()
	env := newServiceEnv(t, "a", "b")
	env.createTable(t, "t1", "a", false, "b")
	if _, err := env.game.Start(ctx, "t1", "a", 3); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	view, err := env.game.GetTable(ctx, "t1", "a")
	if err != nil {
		t.Fatalf("get table failed: %v", err)
	}
	for _, s := range view.Seats {
		if s.Player == "a" && len(s.HoleCards) != 2 {
			t.Fatalf("viewer should see own cards")
		}
		if s.Player == "b" && len(s.HoleCards) != 0 {
			t.Fatalf("viewer should not see opponent cards")
		}
	}
	if len(view.CommunityCards) != 0 {
		t.Fatalf("no community cards before the flop, got %v", view.CommunityCards)
	}

	spectator, err := env.game.GetTable(ctx, "t1", "")
	if err != nil {
		t.Fatalf("get table failed: %v", err)
	}
	for _, s := range spectator.Seats {
		if len(s.HoleCards) != 0 {
			t.Fatalf("spectator saw hole cards")
		}
	}
}

func TestServiceStateFeed(t *testing.T) {
	ctx := context.Background()
	env := newServiceEnv(t, "a", "b")
	env.createTable(t, "t1", "a", false)

	ch, err := env.game.Subscribe(ctx, "t1", "a")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer env.game.Unsubscribe("t1", "a", ch)

	first := <-ch
	if first.Type != "state" || first.Seq != 1 {
		t.Fatalf("unexpected initial message %+v", first)
	}

	if _, err := env.game.Join(ctx, "t1", "b"); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	next := <-ch
	view, ok := next.Data.(game.TableView)
	if !ok || view.PlayerCount != 2 || next.Seq != 2 {
		t.Fatalf("unexpected update %+v", next)
	}

	if _, err := env.game.Subscribe(ctx, "missing", "a"); !errors.Is(err, appErr.ErrTableNotFound) {
		t.Fatalf("expected table not found, got: %v", err)
	}
}
