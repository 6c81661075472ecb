package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/niqqow96/Backend-PKROnchain/internal/model"
	"github.com/niqqow96/Backend-PKROnchain/internal/service/lock"
	appErr "github.com/niqqow96/Backend-PKROnchain/pkg/errors"
	"github.com/niqqow96/Backend-PKROnchain/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LedgerFactory binds an EscrowGateway to the transaction of one table
// transition.
type LedgerFactory func(tx *gorm.DB) EscrowGateway

// Service runs table transitions against the database. Every transition
// holds the table's lock, runs inside one transaction and is applied to a
// clone of the stored table, so a rejected action leaves nothing behind.
type Service struct {
	db        *gorm.DB
	locker    lock.Locker
	ledger    LedgerFactory
	evaluator HandEvaluator
	hub       *Hub
	now       func() time.Time
}

func NewService(db *gorm.DB, locker lock.Locker, ledger LedgerFactory, hub *Hub) *Service {
	if hub == nil {
		hub = NewHub(0)
	}
	return &Service{
		db:        db,
		locker:    locker,
		ledger:    ledger,
		evaluator: StandardEvaluator{},
		hub:       hub,
		now:       time.Now,
	}
}

// WithEvaluator swaps the hand evaluator.
func (s *Service) WithEvaluator(e HandEvaluator) *Service {
	s.evaluator = e
	return s
}

func (s *Service) Hub() *Hub { return s.hub }

// change is what a transition reports back to the shared commit path.
type change struct {
	result  interface{}
	amount  uint64
	funded  uint64 // chips that entered the table from escrow
	release uint64 // chips that left the table to escrow
	handID  string
}

type transition func(ctx context.Context, t *Table, escrow EscrowGateway) (change, error)

func (s *Service) CreateTable(ctx context.Context, host string, p CreateParams) (*TableView, error) {
	unlock, err := s.locker.TryLock(ctx, lock.TableKey(p.ID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var created *Table
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&model.Table{}).Where("id = ?", p.ID).Count(&exists).Error; err != nil {
			return err
		}
		if exists > 0 {
			return appErr.ErrTableExists
		}
		auth, authRec, err := loadAuthority(tx)
		if err != nil {
			return err
		}

		t, err := CreateTable(ctx, auth, host, p, s.ledger(tx))
		if err != nil {
			return err
		}
		now := s.now()
		if err := saveTable(tx, t, "", true, now); err != nil {
			return err
		}
		if err := tx.Model(authRec).Updates(map[string]interface{}{
			"total_games_played": auth.TotalGamesPlayed,
			"updated_at":         now,
		}).Error; err != nil {
			return err
		}
		created = t
		return tx.Create(&model.ActionLog{
			TableID:    t.ID,
			Player:     host,
			Action:     "create",
			Amount:     t.BuyIn,
			Round:      string(t.Round),
			ResultJSON: mustJSON(p),
			CreatedAt:  now,
		}).Error
	})
	if err != nil {
		s.logRejected("create", p.ID, host, err)
		return nil, err
	}

	logger.Log.Info("table created",
		zap.String("tableID", created.ID),
		zap.String("host", host),
		zap.Uint64("buyIn", created.BuyIn),
		zap.Int("maxPlayers", created.MaxPlayers))
	view := created.View(host)
	return &view, nil
}

func (s *Service) Join(ctx context.Context, tableID, player string) (*TableView, error) {
	t, _, err := s.run(ctx, tableID, player, "join", func(ctx context.Context, t *Table, escrow EscrowGateway) (change, error) {
		idx, err := t.Join(ctx, player, escrow)
		if err != nil {
			return change{}, err
		}
		return change{result: map[string]int{"seat": idx}, amount: t.BuyIn, funded: t.BuyIn}, nil
	})
	if err != nil {
		return nil, err
	}
	view := t.View(player)
	return &view, nil
}

func (s *Service) Start(ctx context.Context, tableID, caller string, seed uint64) (*TableView, error) {
	t, _, err := s.run(ctx, tableID, caller, "start", func(_ context.Context, t *Table, _ EscrowGateway) (change, error) {
		if err := t.Start(caller, seed); err != nil {
			return change{}, err
		}
		return change{
			result: map[string]interface{}{"seed": seed, "dealer": t.DealerIndex},
			handID: uuid.NewString(),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	view := t.View(caller)
	return &view, nil
}

// Act applies bet, check, call or fold for player.
func (s *Service) Act(ctx context.Context, tableID, player string, action Action) (Outcome, *TableView, error) {
	t, res, err := s.run(ctx, tableID, player, string(action.Kind), func(_ context.Context, t *Table, _ EscrowGateway) (change, error) {
		out, err := t.Apply(player, action)
		if err != nil {
			return change{}, err
		}
		return change{result: out, amount: out.Paid}, nil
	})
	if err != nil {
		return Outcome{}, nil, err
	}
	view := t.View(player)
	return res.(Outcome), &view, nil
}

type ShowdownResult struct {
	Settlement
	Hands map[int]string `json:"hands"`
}

func (s *Service) Showdown(ctx context.Context, tableID, caller string) (*ShowdownResult, *TableView, error) {
	t, res, err := s.run(ctx, tableID, caller, "showdown", func(_ context.Context, t *Table, _ EscrowGateway) (change, error) {
		settlement, err := t.Showdown(caller, s.evaluator)
		if err != nil {
			return change{}, err
		}
		out := &ShowdownResult{Settlement: settlement, Hands: make(map[int]string)}
		for i := range t.Players {
			seat := t.SeatAt(i)
			if seat == nil || seat.IsFolded {
				continue
			}
			cards, _ := t.HandCards(i)
			if desc, err := DescribeHand(cards[:]); err == nil {
				out.Hands[i] = desc
			}
		}
		return change{result: out, amount: settlement.Share*uint64(len(settlement.Winners)) + settlement.Remainder}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	view := t.View(caller)
	return res.(*ShowdownResult), &view, nil
}

func (s *Service) Reset(ctx context.Context, tableID, caller string) (*TableView, error) {
	t, _, err := s.run(ctx, tableID, caller, "reset", func(_ context.Context, t *Table, _ EscrowGateway) (change, error) {
		return change{}, t.Reset(caller)
	})
	if err != nil {
		return nil, err
	}
	view := t.View(caller)
	return &view, nil
}

func (s *Service) Leave(ctx context.Context, tableID, player string) (LeaveResult, error) {
	_, res, err := s.run(ctx, tableID, player, "leave", func(ctx context.Context, t *Table, escrow EscrowGateway) (change, error) {
		out, err := t.Leave(ctx, player, escrow)
		if err != nil {
			return change{}, err
		}
		return change{result: out, amount: out.Refunded, release: out.Refunded}, nil
	})
	if err != nil {
		return LeaveResult{}, err
	}
	out := res.(LeaveResult)
	if out.Vacant {
		logger.Log.Info("table vacant", zap.String("tableID", tableID))
	}
	return out, nil
}

// run is the shared commit path: lock, load, apply on a clone, verify chip
// conservation, persist, log, then publish.
func (s *Service) run(ctx context.Context, tableID, player, action string, fn transition) (*Table, interface{}, error) {
	unlock, err := s.locker.TryLock(ctx, lock.TableKey(tableID))
	if err != nil {
		return nil, nil, err
	}
	defer unlock()

	var (
		committed *Table
		result    interface{}
		handNo    uint64
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, rec, err := loadTable(tx, tableID)
		if err != nil {
			return err
		}
		next := current.Clone()
		ch, err := fn(ctx, next, s.ledger(tx))
		if err != nil {
			return err
		}
		if err := checkConservation(current, next, ch); err != nil {
			return err
		}

		handID := rec.HandID
		if ch.handID != "" {
			handID = ch.handID
		}
		now := s.now()
		if err := saveTable(tx, next, handID, false, now); err != nil {
			return err
		}
		if err := tx.Create(&model.ActionLog{
			TableID:    tableID,
			HandNo:     next.HandNo,
			HandID:     handID,
			Player:     player,
			Action:     action,
			Amount:     ch.amount,
			Round:      string(current.Round),
			ResultJSON: mustJSON(ch.result),
			CreatedAt:  now,
		}).Error; err != nil {
			return err
		}
		committed, result, handNo = next, ch.result, next.HandNo
		return nil
	})
	if err != nil {
		s.logRejected(action, tableID, player, err)
		return nil, nil, err
	}

	logger.Log.Info("table action",
		zap.String("tableID", tableID),
		zap.Uint64("handNo", handNo),
		zap.String("player", player),
		zap.String("action", action),
		zap.String("status", string(committed.Status)),
		zap.String("round", string(committed.Round)),
		zap.Uint64("pot", committed.Pot))
	s.hub.Publish(committed)
	return committed, result, nil
}

// checkConservation requires pot plus seat balances to move only by what
// escrow moved in or out.
func checkConservation(before, after *Table, ch change) error {
	prev, err := before.TotalChips()
	if err != nil {
		return err
	}
	got, err := after.TotalChips()
	if err != nil {
		return err
	}
	want, err := addChips(prev, ch.funded)
	if err != nil {
		return err
	}
	if want, err = subChips(want, ch.release); err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%w: chips moved from %d to %d, expected %d", appErr.ErrIntegrityViolation, prev, got, want)
	}
	return nil
}

func (s *Service) logRejected(action, tableID, player string, err error) {
	fields := []zap.Field{
		zap.String("tableID", tableID),
		zap.String("player", player),
		zap.String("action", action),
	}
	if appErr.IsIntegrity(err) {
		logger.Integrity("table action failed integrity check", err, fields...)
		return
	}
	if errors.Is(err, appErr.ErrTableBusy) {
		logger.Log.Debug("table busy", fields...)
		return
	}
	logger.Log.Info("table action rejected", append(fields, zap.Error(err))...)
}

func (s *Service) GetTable(ctx context.Context, tableID, viewer string) (*TableView, error) {
	var t *Table
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		t, _, err = loadTable(tx, tableID)
		return err
	})
	if err != nil {
		return nil, err
	}
	view := t.View(viewer)
	return &view, nil
}

type TableSummary struct {
	ID          string `json:"id"`
	Host        string `json:"host"`
	BuyIn       uint64 `json:"buyIn"`
	SmallBlind  uint64 `json:"smallBlind"`
	BigBlind    uint64 `json:"bigBlind"`
	MaxPlayers  int    `json:"maxPlayers"`
	PlayerCount int    `json:"playerCount"`
	Status      string `json:"status"`
}

type ListResult struct {
	Items []TableSummary
	Total int64
}

// ListTables pages through public tables, newest first.
func (s *Service) ListTables(ctx context.Context, page, size int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}

	public := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&model.Table{}).Where("is_private = ?", false)
	}
	var total int64
	if err := public().Count(&total).Error; err != nil {
		return nil, err
	}

	items := make([]TableSummary, 0)
	if total > 0 {
		var rows []model.Table
		if err := public().Order("created_at DESC").
			Limit(size).
			Offset((page - 1) * size).
			Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			items = append(items, TableSummary{
				ID:          r.ID,
				Host:        r.Host,
				BuyIn:       r.BuyIn,
				SmallBlind:  r.SmallBlind,
				BigBlind:    r.BigBlind,
				MaxPlayers:  r.MaxPlayers,
				PlayerCount: r.PlayerCount,
				Status:      r.Status,
			})
		}
	}
	return &ListResult{Items: items, Total: total}, nil
}

// Subscribe opens a state feed for viewer and queues the current view.
func (s *Service) Subscribe(ctx context.Context, tableID, viewer string) (chan OutgoingMessage, error) {
	view, err := s.GetTable(ctx, tableID, viewer)
	if err != nil {
		return nil, err
	}
	ch := s.hub.Subscribe(tableID, viewer)
	s.hub.Send(tableID, viewer, OutgoingMessage{Type: "state", Data: view})
	return ch, nil
}

func (s *Service) Unsubscribe(tableID, viewer string, ch chan OutgoingMessage) {
	s.hub.Unsubscribe(tableID, viewer, ch)
}
