package ws

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/niqqow96/Backend-PKROnchain/internal/middleware"
	"github.com/niqqow96/Backend-PKROnchain/internal/service/game"
	pkgAuth "github.com/niqqow96/Backend-PKROnchain/pkg/auth"
	appErr "github.com/niqqow96/Backend-PKROnchain/pkg/errors"
	"github.com/niqqow96/Backend-PKROnchain/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler serves the read-only table feed. Actions go through the HTTP
// routes; the socket only carries state pushes.
type Handler struct {
	gameSvc *game.Service
}

func NewHandler(gameSvc *game.Service) *Handler {
	return &Handler{gameSvc: gameSvc}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

func (h *Handler) HandleTableWS(c *gin.Context) {
	tableID := strings.TrimSpace(c.Param("id"))
	if tableID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid table id"})
		return
	}

	token, err := getTokenFromRequest(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	claims, err := pkgAuth.ParsePlayerToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	viewer := claims.Identity

	outbound, err := h.gameSvc.Subscribe(c.Request.Context(), tableID, viewer)
	if err != nil {
		if errors.Is(err, appErr.ErrTableNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load table"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.gameSvc.Unsubscribe(tableID, viewer, outbound)
		logger.Log.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	logger.Log.Info("New WebSocket connection",
		zap.String("tableID", tableID),
		zap.String("viewer", viewer),
	)

	client := newClient(conn, h.gameSvc, viewer, tableID, outbound)
	client.run()
}

func getTokenFromRequest(c *gin.Context) (string, error) {
	token := strings.TrimSpace(c.Query("token"))
	if token != "" {
		return token, nil
	}
	if header := c.GetHeader("Authorization"); header != "" {
		if token, err := middleware.ExtractBearerToken(header); err == nil && token != "" {
			return token, nil
		}
	}
	return "", errors.New("missing token")
}

type client struct {
	conn      *websocket.Conn
	gameSvc   *game.Service
	viewer    string
	tableID   string
	outbound  chan game.OutgoingMessage
	done      chan struct{}
	pingEvery time.Duration
}

func newClient(conn *websocket.Conn, gameSvc *game.Service, viewer, tableID string, outbound chan game.OutgoingMessage) *client {
	conn.SetReadLimit(1 << 12)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	return &client{
		conn:      conn,
		gameSvc:   gameSvc,
		viewer:    viewer,
		tableID:   tableID,
		outbound:  outbound,
		done:      make(chan struct{}),
		pingEvery: 25 * time.Second,
	}
}

func (c *client) run() {
	go c.writePump()
	c.readPump()
}

// readPump only drains the socket so control frames are processed and a
// closed connection is noticed.
func (c *client) readPump() {
	defer func() {
		close(c.done)
		c.gameSvc.Unsubscribe(c.tableID, c.viewer, c.outbound)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			logger.Log.Info("WS read error", zap.Error(err), zap.String("viewer", c.viewer), zap.String("tableID", c.tableID))
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(c.pingEvery)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.outbound:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(msg); err != nil {
				logger.Log.Info("WS write error", zap.Error(err), zap.String("viewer", c.viewer), zap.String("tableID", c.tableID))
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
