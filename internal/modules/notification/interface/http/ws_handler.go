package handler

import (
	"net/http"

	"RepairDesk/internal/middleware/jwt"
	"RepairDesk/pkg/ws"
	"RepairDesk/pkg/zlog"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WsHandler 站内通知实时推送，只下行
type WsHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

func NewWsHandler(hub *ws.Hub, allowedOrigins []string) *WsHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &WsHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				return allowed[r.Header.Get("Origin")]
			},
		},
	}
}

// Connect 需挂在 jwt.Auth 之后，token 通过 ?token= 传入
func (h *WsHandler) Connect(c *gin.Context) {
	userID := c.GetString(jwt.CtxUUID)
	if userID == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zlog.Warn("websocket upgrade failed", zap.String("user_id", userID), zap.Error(err))
		return
	}

	client := ws.NewClient(userID, conn)
	if !h.hub.Register(client) {
		client.Close()
		return
	}
	zlog.Debug("websocket connected", zap.String("user_id", userID), zap.Int("connections", h.hub.Online(userID)))
	defer h.hub.Unregister(client)

	go client.WritePump()
	client.ReadPump(nil)
}
