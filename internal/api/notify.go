package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"war-map/internal/logger"
	"war-map/internal/refresh"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

// Event：推送给订阅者的通知
type Event struct {
	Type       string `json:"type"`
	Generation uint64 `json:"generation,omitempty"`
	Shard      string `json:"shard,omitempty"`
	ID         string `json:"id,omitempty"`
}

// 文档注释：快照发布通知中心
// 背景：客户端通过 /ws 订阅，收到通知后自行拉取图层；只推送元数据，不推送图层本体。
// 约束：发送缓冲满时丢弃该条通知（客户端可凭代数号补拉）；连接断开即注销。
// 跨源握手只接受 origins 中的主机模式（path.Match 语法），为空时仅允许同源。
type Hub struct {
	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	origins []string
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub(originPatterns ...string) *Hub {
	return &Hub{clients: make(map[*wsClient]struct{}), origins: originPatterns}
}

// Published：作为发布回调注册到 Refresher
func (h *Hub) Published(s *refresh.Snapshot) {
	h.Broadcast(Event{Type: "snapshot", Generation: s.Generation, Shard: string(s.Shard), ID: s.ID.String()})
}

func (h *Hub) Broadcast(ev Event) {
	b, err := json.Marshal(ev)
	if err != nil {
		logger.L().Error("ws_marshal_error", "err", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			logger.L().Warn("ws_send_buffer_full")
		}
	}
}

// Len：当前连接数
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(c *wsClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(c *wsClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// ServeWS：升级连接并阻塞到断开；hello 为连接建立后立即发送的首条事件
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, hello *Event) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.origins})
	if err != nil {
		logger.L().Debug("ws_accept_error", "err", err)
		return
	}
	c := &wsClient{conn: conn, send: make(chan []byte, sendBuffer)}
	if hello != nil {
		if b, err := json.Marshal(hello); err == nil {
			c.send <- b
		}
	}
	h.add(c)
	defer h.remove(c)
	logger.L().Debug("ws_connected", "remote", r.RemoteAddr)

	// 客户端不发送业务消息；CloseRead 负责处理控制帧并在断开时取消 ctx
	ctx := conn.CloseRead(r.Context())
	c.writePump(ctx)
}

func (c *wsClient) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()
	for {
		select {
		case msg := <-c.send:
			wctx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(wctx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				logger.L().Debug("ws_write_error", "err", err)
				return
			}
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pctx)
			cancel()
			if err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
