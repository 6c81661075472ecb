package game

import (
	"context"
	"fmt"

	appErr "github.com/niqqow96/Backend-PKROnchain/pkg/errors"
)

// EscrowGateway moves value between player wallets and table vaults. The
// engine only computes amounts; custody lives behind this interface.
type EscrowGateway interface {
	Deposit(ctx context.Context, from, vault string, amount uint64) error
	// Withdraw releases funds from vault; authority must be the identity
	// that owns the vault.
	Withdraw(ctx context.Context, vault, to string, amount uint64, authority string) error
}

// VaultID names the escrow vault holding a table's buy-ins.
func VaultID(tableID string) string {
	return "vault:" + tableID
}

const MaxFeePercentage = 10

// Authority is the process-wide bookkeeping record. Only initialization and
// table creation change it.
type Authority struct {
	Owner              string `json:"owner"`
	FeePercentage      uint8  `json:"feePercentage"`
	TotalGamesPlayed   uint64 `json:"totalGamesPlayed"`
	TotalFeesCollected uint64 `json:"totalFeesCollected"`
}

func NewAuthority(owner string, feePercentage uint8) (*Authority, error) {
	if feePercentage > MaxFeePercentage {
		return nil, fmt.Errorf("%w: %d > %d", appErr.ErrFeeTooHigh, feePercentage, MaxFeePercentage)
	}
	return &Authority{Owner: owner, FeePercentage: feePercentage}, nil
}

// CreateTable validates p, moves the host's buy-in into the new table's vault
// and seats the host at index 0.
func CreateTable(ctx context.Context, auth *Authority, host string, p CreateParams, escrow EscrowGateway) (*Table, error) {
	if auth == nil {
		return nil, appErr.ErrAuthorityNotInitialized
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if host == "" {
		return nil, appErr.ErrUnauthorized
	}
	played, err := addChips(auth.TotalGamesPlayed, 1)
	if err != nil {
		return nil, err
	}

	if err := escrow.Deposit(ctx, host, VaultID(p.ID), p.BuyIn); err != nil {
		return nil, fmt.Errorf("deposit buy-in: %w", err)
	}

	t := &Table{
		ID:         p.ID,
		Host:       host,
		BuyIn:      p.BuyIn,
		SmallBlind: p.SmallBlind,
		BigBlind:   p.BigBlind,
		MaxPlayers: p.MaxPlayers,
		IsPrivate:  p.IsPrivate,
		Status:     StatusWaiting,
		Round:      RoundNotStarted,
		Players:    make([]string, p.MaxPlayers),
		Seats:      make(map[string]*Seat),
	}
	t.seatPlayer(0, host)
	auth.TotalGamesPlayed = played
	return t, nil
}

func (t *Table) seatPlayer(idx int, player string) {
	t.Players[idx] = player
	t.PlayerCount++
	t.Seats[player] = &Seat{Player: player, Chips: t.BuyIn, IsActive: true}
}

// Join seats player in the lowest empty slot after escrowing the buy-in.
func (t *Table) Join(ctx context.Context, player string, escrow EscrowGateway) (int, error) {
	if t.Status != StatusWaiting {
		return -1, appErr.ErrTableNotWaiting
	}
	if player == "" {
		return -1, appErr.ErrUnauthorized
	}
	if t.IndexOf(player) >= 0 {
		return -1, appErr.ErrAlreadySeated
	}
	if t.PlayerCount >= t.MaxPlayers {
		return -1, appErr.ErrTableFull
	}
	idx := -1
	for i, p := range t.Players {
		if p == "" {
			idx = i
			break
		}
	}
	if idx < 0 {
		return -1, appErr.ErrTableFull
	}

	if err := escrow.Deposit(ctx, player, VaultID(t.ID), t.BuyIn); err != nil {
		return -1, fmt.Errorf("deposit buy-in: %w", err)
	}
	t.seatPlayer(idx, player)
	return idx, nil
}

// Start deals a new hand from seed. The dealer is the (seed mod seat
// count)-th occupied seat; blinds and the first actor follow it in seat
// order.
func (t *Table) Start(caller string, seed uint64) error {
	if t.Status != StatusWaiting {
		return appErr.ErrTableNotWaiting
	}
	if t.PlayerCount < MinSeats {
		return appErr.ErrNotEnoughPlayers
	}
	if caller != t.Host {
		return appErr.ErrNotTableHost
	}

	seats := t.occupiedSeats()
	dealer := seats[seed%uint64(len(seats))]
	sb, _ := t.nextSeat(dealer, t.occupied)
	bb, _ := t.nextSeat(sb, t.occupied)
	first, _ := t.nextSeat(bb, t.occupied)

	sbSeat, bbSeat := t.SeatAt(sb), t.SeatAt(bb)
	if sbSeat.Chips < t.SmallBlind {
		return fmt.Errorf("%w: seat %d cannot post small blind", appErr.ErrInsufficientChips, sb)
	}
	if bbSeat.Chips < t.BigBlind {
		return fmt.Errorf("%w: seat %d cannot post big blind", appErr.ErrInsufficientChips, bb)
	}
	sbChips, err := subChips(sbSeat.Chips, t.SmallBlind)
	if err != nil {
		return err
	}
	bbChips, err := subChips(bbSeat.Chips, t.BigBlind)
	if err != nil {
		return err
	}
	blinds, err := addChips(t.SmallBlind, t.BigBlind)
	if err != nil {
		return err
	}
	pot, err := addChips(t.Pot, blinds)
	if err != nil {
		return err
	}
	handNo, err := addChips(t.HandNo, 1)
	if err != nil {
		return err
	}

	hole, community := Deal(Shuffle(seed), seats)
	for _, idx := range seats {
		seat := t.SeatAt(idx)
		seat.IsFolded = false
		seat.IsAllIn = false
		seat.CurrentBet = 0
		seat.HasActed = false
		seat.HoleCards = hole[idx]
	}
	sbSeat.Chips = sbChips
	sbSeat.CurrentBet = t.SmallBlind
	bbSeat.Chips = bbChips
	bbSeat.CurrentBet = t.BigBlind

	t.CommunityCards = community
	t.DealerIndex = dealer
	t.CurrentPlayerIndex = first
	t.Pot = pot
	t.HighestBet = t.BigBlind
	t.HandNo = handNo
	t.Status = StatusPlaying
	t.Round = RoundPreFlop
	return nil
}

// Reset returns a finished table to Waiting. Balances carry over.
func (t *Table) Reset(caller string) error {
	if t.Status != StatusFinished {
		return appErr.ErrGameNotFinished
	}
	if caller != t.Host {
		return appErr.ErrNotTableHost
	}
	if t.Pot != 0 {
		return fmt.Errorf("%w: %d chips left in pot", appErr.ErrPotNotSettled, t.Pot)
	}

	for _, seat := range t.Seats {
		if !seat.IsActive {
			continue
		}
		seat.IsFolded = false
		seat.IsAllIn = false
		seat.CurrentBet = 0
		seat.HasActed = false
	}
	t.Status = StatusWaiting
	t.Round = RoundNotStarted
	t.HighestBet = 0
	return nil
}

type LeaveResult struct {
	Seat     int    `json:"seat"`
	Refunded uint64 `json:"refunded"`
	NewHost  string `json:"newHost,omitempty"`
	Vacant   bool   `json:"vacant"`
}

// Leave vacates the player's seat and returns its whole balance through
// escrow. Only allowed between hands.
func (t *Table) Leave(ctx context.Context, player string, escrow EscrowGateway) (LeaveResult, error) {
	if t.Status != StatusWaiting && t.Status != StatusFinished {
		return LeaveResult{}, appErr.ErrCannotLeaveActiveGame
	}
	idx := t.IndexOf(player)
	if idx < 0 {
		return LeaveResult{}, appErr.ErrPlayerNotAtTable
	}
	seat := t.Seats[player]
	refund := seat.Chips

	if refund > 0 {
		if err := escrow.Withdraw(ctx, VaultID(t.ID), player, refund, t.ID); err != nil {
			return LeaveResult{}, fmt.Errorf("withdraw chips: %w", err)
		}
	}

	t.Players[idx] = ""
	t.PlayerCount--
	seat.Chips = 0
	seat.IsActive = false

	res := LeaveResult{Seat: idx, Refunded: refund, Vacant: t.PlayerCount == 0}
	if player == t.Host && t.PlayerCount > 0 {
		for _, p := range t.Players {
			if p != "" {
				t.Host = p
				res.NewHost = p
				break
			}
		}
	}
	return res, nil
}

// VaultOwner returns the table id that may authorize withdrawals from vault.
func VaultOwner(vault string) (string, bool) {
	const prefix = "vault:"
	if len(vault) <= len(prefix) || vault[:len(prefix)] != prefix {
		return "", false
	}
	return vault[len(prefix):], true
}
