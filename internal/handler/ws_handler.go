package handler

import (
	"context"
	"encoding/json"
	"log"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"

	"github.com/Luizhcrs/orb/internal/service"
	"github.com/Luizhcrs/orb/internal/service/agent"
	"github.com/Luizhcrs/orb/internal/service/llm"
)

// wsInbound 客户端消息
type wsInbound struct {
	Type      string `json:"type"`
	Message   string `json:"message,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	ImageData string `json:"image_data,omitempty"`
}

// wsOutbound 服务端消息
type wsOutbound struct {
	Type  string          `json:"type"`
	Data  *agent.Response `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// WSHandler WebSocket 处理器
// 与 HTTP 入口消费同一条消息管线
type WSHandler struct {
	svc *service.Services
}

// NewWSHandler 创建 WebSocket 处理器
func NewWSHandler(svc *service.Services) *WSHandler {
	return &WSHandler{svc: svc}
}

// Serve 升级连接并处理消息循环
func (h *WSHandler) Serve(c *gin.Context) {
	ws, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		log.Printf("Warning: failed to accept websocket: %v", err)
		return
	}
	defer ws.Close(websocket.StatusNormalClosure, "session ended")

	ctx := c.Request.Context()
	if err := h.writeJSON(ctx, ws, wsOutbound{Type: "connected"}); err != nil {
		return
	}

	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				log.Printf("Warning: websocket read error: %v", err)
			}
			return
		}

		var inbound wsInbound
		if err := json.Unmarshal(data, &inbound); err != nil {
			if err := h.writeJSON(ctx, ws, wsOutbound{Type: "error", Error: "invalid message format"}); err != nil {
				return
			}
			continue
		}

		switch inbound.Type {
		case "message":
			if err := h.handleMessage(ctx, ws, &inbound); err != nil {
				return
			}
		case "ping":
			if err := h.writeJSON(ctx, ws, wsOutbound{Type: "pong"}); err != nil {
				return
			}
		default:
			if err := h.writeJSON(ctx, ws, wsOutbound{Type: "error", Error: "unknown message type"}); err != nil {
				return
			}
		}
	}
}

func (h *WSHandler) handleMessage(ctx context.Context, ws *websocket.Conn, inbound *wsInbound) error {
	if inbound.Message == "" {
		return h.writeJSON(ctx, ws, wsOutbound{Type: "error", Error: "message is required"})
	}

	if err := h.writeJSON(ctx, ws, wsOutbound{Type: "processing"}); err != nil {
		return err
	}

	resp, err := h.svc.Agent.ProcessMessage(ctx, &agent.Input{
		Message:   inbound.Message,
		SessionID: inbound.SessionID,
		ImageData: inbound.ImageData,
	})
	if err != nil {
		if _, ok := err.(*llm.ConfigurationError); ok {
			return h.writeJSON(ctx, ws, wsOutbound{Type: "error", Error: err.Error()})
		}
		return h.writeJSON(ctx, ws, wsOutbound{Type: "error", Error: "internal error"})
	}

	return h.writeJSON(ctx, ws, wsOutbound{Type: "response", Data: resp})
}

func (h *WSHandler) writeJSON(ctx context.Context, ws *websocket.Conn, v wsOutbound) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return ws.Write(ctx, websocket.MessageText, data)
}
