package ws

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/d60-Lab/post-feed/pkg/logger"
)

// envelope 推送帧，与客户端约定 {event, data}
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub 在线连接注册表 + 全量扇出。注册表只在 Run 协程内被改写，
// 对外通过 channel 交互，不加锁。
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run 事件循环；在独立协程中执行，Shutdown 后退出并断开所有连接
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			logger.Info("observer connected", zap.Int("online", len(h.clients)))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			logger.Info("observer disconnected", zap.Int("online", len(h.clients)))
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// 慢消费者直接踢掉，不做背压
					delete(h.clients, c)
					close(c.send)
				}
			}
		case <-h.done:
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return
		}
	}
}

func (h *Hub) Shutdown() { close(h.done) }

// Broadcast 尽力而为：序列化一次，投递给所有在线连接；失败只记日志
func (h *Hub) Broadcast(event string, payload any) {
	msg, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		logger.Error("marshal broadcast", zap.String("event", event), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}
