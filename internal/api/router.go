package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/niqqow96/Backend-PKROnchain/internal/config"
	"github.com/niqqow96/Backend-PKROnchain/internal/middleware"
	"github.com/niqqow96/Backend-PKROnchain/internal/service"
	"github.com/niqqow96/Backend-PKROnchain/internal/ws"
	pkgAuth "github.com/niqqow96/Backend-PKROnchain/pkg/auth"
	"github.com/niqqow96/Backend-PKROnchain/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	services *service.Container
}

func RegisterRoutes(r *gin.Engine, services *service.Container) {
	handler := &Handler{services: services}
	wsHandler := ws.NewHandler(services.Game)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong"})
	})

	v1 := r.Group("/v1")
	{
		if config.GlobalConfig != nil && config.GlobalConfig.Game.DevTokens {
			v1.POST("/auth/dev-token", handler.DevToken)
		}

		v1.GET("/tables", handler.ListTables)

		player := v1.Group("/")
		player.Use(middleware.PlayerAuthRequired())
		{
			player.GET("/wallet", handler.GetWallet)

			player.POST("/tables", handler.CreateTable)
			player.GET("/tables/:id", handler.GetTable)
			player.POST("/tables/:id/join", handler.JoinTable)
			player.POST("/tables/:id/start", handler.StartGame)
			player.POST("/tables/:id/bet", handler.PlaceBet)
			player.POST("/tables/:id/check", handler.Check)
			player.POST("/tables/:id/call", handler.Call)
			player.POST("/tables/:id/fold", handler.Fold)
			player.POST("/tables/:id/showdown", handler.Showdown)
			player.POST("/tables/:id/reset", handler.ResetGame)
			player.POST("/tables/:id/leave", handler.LeaveTable)
		}
	}

	adminGroup := r.Group("/admin")
	{
		adminGroup.POST("/auth/login", handler.AdminLogin)

		protected := adminGroup.Group("/")
		protected.Use(middleware.AdminAuthRequired())
		{
			protected.GET("/authority", handler.AdminGetAuthority)
			protected.POST("/authority", handler.AdminInitializeAuthority)
			protected.PUT("/wallets/:identity", handler.AdminSetWallet)
			protected.GET("/tables/:id/vault", handler.AdminGetVault)
		}
	}

	r.GET("/ws/tables/:id", wsHandler.HandleTableWS)
}

type devTokenBody struct {
	Identity string `json:"identity" binding:"required,max=64"`
}

type adminLoginBody struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type initAuthorityBody struct {
	Owner         string `json:"owner" binding:"required"`
	FeePercentage *uint8 `json:"feePercentage" binding:"required"`
}

type adminSetWalletBody struct {
	Balance *uint64 `json:"balance" binding:"required"`
}

// DevToken issues a player token for any identity. Only registered when
// game.devTokens is set.
func (h *Handler) DevToken(c *gin.Context) {
	var body devTokenBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	token, expireAt, err := pkgAuth.GenerateToken(body.Identity)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, gin.H{"token": token, "expireAt": expireAt, "identity": body.Identity})
}

func (h *Handler) GetWallet(c *gin.Context) {
	wallet, err := h.services.Escrow.GetWallet(c.Request.Context(), currentPlayer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, wallet)
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var body adminLoginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.services.Admin.Login(c.Request.Context(), body.Username, body.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, resp)
}

func (h *Handler) AdminGetAuthority(c *gin.Context) {
	auth, err := h.services.Admin.GetAuthority(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, auth)
}

func (h *Handler) AdminInitializeAuthority(c *gin.Context) {
	var body initAuthorityBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	auth, err := h.services.Admin.InitializeAuthority(c.Request.Context(), body.Owner, *body.FeePercentage)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, auth)
}

func (h *Handler) AdminSetWallet(c *gin.Context) {
	var body adminSetWalletBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	wallet, err := h.services.Escrow.AdminSetWallet(c.Request.Context(), c.Param("identity"), *body.Balance)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, wallet)
}

func (h *Handler) AdminGetVault(c *gin.Context) {
	vault, err := h.services.Escrow.GetVault(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, vault)
}

func parsePositiveIntQuery(c *gin.Context, key string, defaultVal int) (int, error) {
	val := c.Query(key)
	if val == "" {
		return defaultVal, nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return parsed, nil
}

func currentPlayer(c *gin.Context) string {
	return c.GetString(middleware.ContextPlayerKey)
}
