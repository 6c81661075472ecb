package api

import (
	"errors"
	"net/http"

	appErr "github.com/niqqow96/Backend-PKROnchain/pkg/errors"
	"github.com/niqqow96/Backend-PKROnchain/pkg/response"

	"github.com/gin-gonic/gin"
)

// statusFor maps the error taxonomy onto HTTP: configuration 400, state 409,
// authorization 403, monetary 422, integrity 500.
func statusFor(err error) int {
	switch {
	case appErr.IsIntegrity(err):
		return http.StatusInternalServerError
	case errors.Is(err, appErr.ErrTableBusy):
		return http.StatusTooManyRequests
	case errors.Is(err, appErr.ErrTableNotFound):
		return http.StatusNotFound
	case errors.Is(err, appErr.ErrAdminNotFound), errors.Is(err, appErr.ErrInvalidAdminPassword):
		return http.StatusUnauthorized
	case anyOf(err,
		appErr.ErrFeeTooHigh, appErr.ErrInvalidPlayerCount, appErr.ErrInvalidBlinds,
		appErr.ErrBuyInTooSmall, appErr.ErrTableIDTooLong, appErr.ErrInvalidTableID,
		appErr.ErrInvalidWalletPayload):
		return http.StatusBadRequest
	case anyOf(err,
		appErr.ErrUnauthorized, appErr.ErrNotTableHost, appErr.ErrNotPlayerTurn,
		appErr.ErrAdminDisabled, appErr.ErrInvalidVaultAuthority):
		return http.StatusForbidden
	case anyOf(err,
		appErr.ErrInsufficientChips, appErr.ErrBetTooSmall, appErr.ErrCannotCheck,
		appErr.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity
	case anyOf(err,
		appErr.ErrTableExists, appErr.ErrTableNotWaiting, appErr.ErrTableFull,
		appErr.ErrNotEnoughPlayers, appErr.ErrGameNotInProgress, appErr.ErrGameNotFinished,
		appErr.ErrCannotLeaveActiveGame, appErr.ErrNotShowdownRound, appErr.ErrBettingClosed,
		appErr.ErrAuthorityNotInitialized, appErr.ErrAuthorityExists,
		appErr.ErrPlayerFolded, appErr.ErrPlayerNotActive, appErr.ErrPlayerAllIn,
		appErr.ErrPlayerNotAtTable, appErr.ErrAlreadySeated):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func anyOf(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError && !appErr.IsIntegrity(err) {
		msg = "internal error"
	}
	response.Error(c, status, msg)
}
