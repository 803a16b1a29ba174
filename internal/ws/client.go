package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/d60-Lab/post-feed/internal/auth"
	"github.com/d60-Lab/post-feed/internal/service"
	"github.com/d60-Lab/post-feed/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	opTimeout      = 5 * time.Second
	sendQueueSize  = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// inbound 客户端帧 {event, data}；data 形状随事件而异，延迟解码
type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Client 一条持久连接。身份在 authenticate 帧后挂到连接上，
// 每次变更前仍会用原始令牌重查注销集合（中途 logout 即刻生效）。
type Client struct {
	hub          *Hub
	conn         *websocket.Conn
	send         chan []byte
	gate         *auth.Gate
	interactions service.InteractionService

	userID   string
	rawToken string
}

// Serve 把 GET /ws 升级为持久连接
func Serve(hub *Hub, gate *auth.Gate, interactions service.InteractionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}
		client := &Client{
			hub:          hub,
			conn:         conn,
			send:         make(chan []byte, sendQueueSize),
			gate:         gate,
			interactions: interactions,
		}
		hub.register <- client
		go client.writePump()
		client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var msg inbound
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read", zap.Error(err))
			}
			return
		}
		c.dispatch(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

// dispatch 持久通道为 fire-and-forget：失败只记日志，不回传给发起方
func (c *Client) dispatch(msg inbound) {
	if msg.Event == "authenticate" {
		c.authenticate(msg.Data)
		return
	}
	userID, ok := c.identity()
	if !ok {
		logger.Warn("ws op without identity", zap.String("event", msg.Event))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var err error
	switch msg.Event {
	case "likePost":
		var postID string
		if err = json.Unmarshal(msg.Data, &postID); err == nil {
			_, err = c.interactions.Like(ctx, userID, postID)
		}
	case "unlikePost":
		var postID string
		if err = json.Unmarshal(msg.Data, &postID); err == nil {
			_, err = c.interactions.Unlike(ctx, userID, postID)
		}
	case "addComment":
		var req struct {
			PostID string `json:"postId"`
			Text   string `json:"text"`
		}
		if err = json.Unmarshal(msg.Data, &req); err == nil {
			_, err = c.interactions.AddComment(ctx, userID, req.PostID, req.Text)
		}
	case "replyToComment":
		var req struct {
			PostID    string `json:"postId"`
			CommentID string `json:"commentId"`
			Text      string `json:"text"`
		}
		if err = json.Unmarshal(msg.Data, &req); err == nil {
			_, err = c.interactions.AddReply(ctx, userID, req.PostID, req.CommentID, req.Text)
		}
	case "deleteComment":
		var req struct {
			PostID    string `json:"postId"`
			CommentID string `json:"commentId"`
		}
		if err = json.Unmarshal(msg.Data, &req); err == nil {
			err = c.interactions.DeleteComment(ctx, userID, req.PostID, req.CommentID)
		}
	case "deleteReply":
		var req struct {
			CommentID string `json:"commentId"`
			ReplyID   string `json:"replyId"`
		}
		if err = json.Unmarshal(msg.Data, &req); err == nil {
			err = c.interactions.DeleteReply(ctx, userID, req.CommentID, req.ReplyID)
		}
	default:
		logger.Warn("ws unknown event", zap.String("event", msg.Event))
		return
	}
	if err != nil {
		logger.Warn("ws op failed", zap.String("event", msg.Event), zap.String("user", userID), zap.Error(err))
	}
}

// authenticate data 兼容裸字符串与 {"token": "..."} 两种形状
func (c *Client) authenticate(data json.RawMessage) {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		var req struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(data, &req); err != nil {
			logger.Warn("ws authenticate: bad payload")
			return
		}
		raw = req.Token
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	claims, err := c.gate.Authorize(ctx, raw)
	if err != nil {
		logger.Warn("ws authenticate failed", zap.Error(err))
		return
	}
	c.userID = claims.UserID()
	c.rawToken = raw
	logger.Info("ws authenticated", zap.String("user", c.userID))
}

// identity 每次变更前重查注销集合，令牌中途注销则连接退回未认证
func (c *Client) identity() (string, bool) {
	if c.userID == "" {
		return "", false
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if _, err := c.gate.Authorize(ctx, c.rawToken); err != nil {
		logger.Warn("ws identity no longer valid", zap.String("user", c.userID), zap.Error(err))
		c.userID = ""
		c.rawToken = ""
		return "", false
	}
	return c.userID, true
}
