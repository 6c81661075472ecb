package api

import (
	"net/http"

	"github.com/niqqow96/Backend-PKROnchain/internal/service/game"
	"github.com/niqqow96/Backend-PKROnchain/pkg/response"
	"github.com/niqqow96/Backend-PKROnchain/pkg/utils/random"

	"github.com/gin-gonic/gin"
)

const generatedTableIDLength = 10

type createTableBody struct {
	ID         string `json:"id" binding:"omitempty,max=32"`
	BuyIn      uint64 `json:"buyIn" binding:"required,min=1"`
	SmallBlind uint64 `json:"smallBlind" binding:"required,min=1"`
	BigBlind   uint64 `json:"bigBlind" binding:"required,min=1"`
	MaxPlayers int    `json:"maxPlayers" binding:"required"`
	IsPrivate  bool   `json:"isPrivate"`
}

type startBody struct {
	Seed *uint64 `json:"seed"`
}

// betBody carries the target total bet for the round. Zero is accepted and
// acts as a check when nothing has been bet yet.
type betBody struct {
	Amount *uint64 `json:"amount" binding:"required"`
}

func (h *Handler) CreateTable(c *gin.Context) {
	var body createTableBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	id := body.ID
	if id == "" {
		id = random.TableID(generatedTableIDLength)
	}

	view, err := h.services.Game.CreateTable(c.Request.Context(), currentPlayer(c), game.CreateParams{
		ID:         id,
		BuyIn:      body.BuyIn,
		SmallBlind: body.SmallBlind,
		BigBlind:   body.BigBlind,
		MaxPlayers: body.MaxPlayers,
		IsPrivate:  body.IsPrivate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, view)
}

func (h *Handler) ListTables(c *gin.Context) {
	page, err := parsePositiveIntQuery(c, "page", 1)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	size, err := parsePositiveIntQuery(c, "size", 20)
	if err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.services.Game.ListTables(c.Request.Context(), page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Page(c, result.Items, result.Total, page, size)
}

func (h *Handler) GetTable(c *gin.Context) {
	view, err := h.services.Game.GetTable(c.Request.Context(), c.Param("id"), currentPlayer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, view)
}

func (h *Handler) JoinTable(c *gin.Context) {
	view, err := h.services.Game.Join(c.Request.Context(), c.Param("id"), currentPlayer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, view)
}

// StartGame deals a hand. Without an explicit seed one is drawn from the
// system CSPRNG.
func (h *Handler) StartGame(c *gin.Context) {
	var body startBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	var seed uint64
	if body.Seed != nil {
		seed = *body.Seed
	} else {
		var err error
		if seed, err = random.Seed(); err != nil {
			response.Error(c, http.StatusInternalServerError, err.Error())
			return
		}
	}

	view, err := h.services.Game.Start(c.Request.Context(), c.Param("id"), currentPlayer(c), seed)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, view)
}

func (h *Handler) PlaceBet(c *gin.Context) {
	var body betBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	h.act(c, game.Action{Kind: game.ActionBet, Amount: *body.Amount})
}

func (h *Handler) Check(c *gin.Context) {
	h.act(c, game.Action{Kind: game.ActionCheck})
}

func (h *Handler) Call(c *gin.Context) {
	h.act(c, game.Action{Kind: game.ActionCall})
}

func (h *Handler) Fold(c *gin.Context) {
	h.act(c, game.Action{Kind: game.ActionFold})
}

func (h *Handler) act(c *gin.Context, action game.Action) {
	outcome, view, err := h.services.Game.Act(c.Request.Context(), c.Param("id"), currentPlayer(c), action)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"outcome": outcome, "table": view})
}

func (h *Handler) Showdown(c *gin.Context) {
	result, view, err := h.services.Game.Showdown(c.Request.Context(), c.Param("id"), currentPlayer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"result": result, "table": view})
}

func (h *Handler) ResetGame(c *gin.Context) {
	view, err := h.services.Game.Reset(c.Request.Context(), c.Param("id"), currentPlayer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, view)
}

func (h *Handler) LeaveTable(c *gin.Context) {
	result, err := h.services.Game.Leave(c.Request.Context(), c.Param("id"), currentPlayer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, result)
}
