package errors

import (
	"errors"
	"fmt"
)

// Configuration
var (
	ErrFeeTooHigh         = errors.New("fee percentage too high")
	ErrInvalidPlayerCount = errors.New("max players must be between 2 and 9")
	ErrInvalidBlinds      = errors.New("big blind must be >= small blind")
	ErrBuyInTooSmall      = errors.New("buy-in must be at least 10x big blind")
	ErrTableIDTooLong     = errors.New("table id too long")
	ErrInvalidTableID     = errors.New("table id is required")
)

// Table and authority state
var (
	ErrTableNotFound           = errors.New("table not found")
	ErrTableExists             = errors.New("table already exists")
	ErrTableNotWaiting         = errors.New("table is not waiting for players")
	ErrTableFull               = errors.New("table is full")
	ErrNotEnoughPlayers        = errors.New("not enough players")
	ErrGameNotInProgress       = errors.New("game not in progress")
	ErrGameNotFinished         = errors.New("game not finished")
	ErrCannotLeaveActiveGame   = errors.New("cannot leave during an active game")
	ErrNotShowdownRound        = errors.New("not showdown round")
	ErrBettingClosed           = errors.New("betting is closed until showdown")
	ErrAuthorityNotInitialized = errors.New("game authority not initialized")
	ErrAuthorityExists         = errors.New("game authority already initialized")
	ErrTableBusy               = errors.New("table is busy, retry")
)

// Authorization
var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotTableHost  = errors.New("only the table host can do this")
	ErrNotPlayerTurn = errors.New("not player's turn")
)

// Player state
var (
	ErrPlayerFolded     = errors.New("player has folded")
	ErrPlayerNotActive  = errors.New("player not active")
	ErrPlayerAllIn      = errors.New("player is all-in")
	ErrPlayerNotAtTable = errors.New("player not at table")
	ErrAlreadySeated    = errors.New("player already seated at table")
)

// Monetary
var (
	ErrInsufficientChips     = errors.New("insufficient chips")
	ErrBetTooSmall           = errors.New("bet too small")
	ErrCannotCheck           = errors.New("cannot check, must call or raise")
	ErrInsufficientBalance   = errors.New("insufficient wallet balance")
	ErrInvalidVaultAuthority = errors.New("invalid vault authority")
	ErrInvalidWalletPayload  = errors.New("invalid wallet payload")
)

// Operators
var (
	ErrAdminNotFound        = errors.New("admin not found")
	ErrAdminDisabled        = errors.New("admin disabled")
	ErrInvalidAdminPassword = errors.New("invalid admin credentials")
)

// ErrIntegrityViolation is the root of every error that signals a logic
// defect rather than a bad request. Match with errors.Is.
var ErrIntegrityViolation = errors.New("integrity violation")

var (
	ErrArithmeticOverflow  = fmt.Errorf("%w: arithmetic overflow", ErrIntegrityViolation)
	ErrArithmeticUnderflow = fmt.Errorf("%w: arithmetic underflow", ErrIntegrityViolation)
	ErrNoWinners           = fmt.Errorf("%w: no eligible winners", ErrIntegrityViolation)
	ErrPotNotSettled       = fmt.Errorf("%w: pot not settled", ErrIntegrityViolation)
)

func IsIntegrity(err error) bool {
	return errors.Is(err, ErrIntegrityViolation)
}
