package ws

import (
	"sync"
	"time"

	"RepairDesk/pkg/zlog"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4 << 10
	sendBuffer     = 64
)

// Hub 按用户维护在线连接，同一用户可以有多个连接
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	closed  bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) bool {
	if c == nil || c.userID == "" {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	set := h.clients[c.userID]
	if set == nil {
		set = make(map[*Client]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
	return true
}

func (h *Hub) Unregister(c *Client) {
	if c == nil || c.userID == "" {
		return
	}
	h.mu.Lock()
	if set := h.clients[c.userID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.userID)
		}
	}
	h.mu.Unlock()
	c.Close()
}

// Send 推送给用户的所有连接；至少一个连接接收成功时返回 true。
// 发送缓冲已满的连接视为卡死，直接断开
func (h *Hub) Send(userID string, payload []byte) bool {
	if userID == "" || len(payload) == 0 {
		return false
	}

	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	ok := false
	for _, c := range targets {
		if c.enqueue(payload) {
			ok = true
			continue
		}
		zlog.Warn("websocket client too slow, disconnecting", zap.String("user_id", userID))
		h.Unregister(c)
	}
	return ok
}

// Online 用户当前的连接数
func (h *Hub) Online(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Close 断开所有连接，之后的 Register 都会失败
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	all := h.clients
	h.clients = make(map[string]map[*Client]struct{})
	h.mu.Unlock()

	for _, set := range all {
		for c := range set {
			c.Close()
		}
	}
}

type Client struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte

	mu     sync.Mutex
	closed bool
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}
}

func (c *Client) UserID() string { return c.userID }

func (c *Client) enqueue(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// WritePump 串行写出消息并定时 ping，send 关闭后退出
func (c *Client) WritePump() {
	if c.conn == nil {
		return
	}
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				zlog.Debug("websocket write failed", zap.String("user_id", c.userID), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump 只用来感知断线和 pong，客户端发来的内容交给 onMessage（可为 nil）
func (c *Client) ReadPump(onMessage func(data []byte)) {
	if c.conn == nil {
		return
	}
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zlog.Debug("websocket closed unexpectedly", zap.String("user_id", c.userID), zap.Error(err))
			}
			return
		}
		if onMessage != nil {
			onMessage(data)
		}
	}
}
