package websocket

import (
	"encoding/json"
	"errors"
	"time"

	"portfolio-be/internal/dto"
	"portfolio-be/internal/pkg/logger"
	"portfolio-be/internal/session"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256
)

// Client is a middleman between the websocket connection and a UI session.
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	logger logger.ILogger
}

func newClient(conn *websocket.Conn, log logger.ILogger) *Client {
	return &Client{
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		logger: log,
	}
}

// Send implements session.Sink. A client that cannot keep up loses the
// message; the next state push resynchronizes it.
func (c *Client) Send(msg dto.SessionMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("WS", "Failed to encode session message", map[string]interface{}{"type": msg.Type, "error": err.Error()})
		return
	}
	select {
	case c.send <- data:
	default:
		c.logger.Warn("WS", "Client send buffer full, dropping message", map[string]interface{}{"type": msg.Type})
	}
}

// readPump decodes commands and applies them to s until the connection
// fails or s is closed by a newer connection.
func (c *Client) readPump(s *session.Session) {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("WS", "Unexpected close", map[string]interface{}{"session": s.ID().String(), "error": err.Error()})
			}
			return
		}

		var cmd dto.SessionCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			c.Send(dto.SessionMessage{
				Type:  dto.MsgError,
				Error: &dto.SessionError{Code: session.CodeBadCommand, Message: "Comando inválido"},
			})
			continue
		}

		if err := s.Dispatch(cmd); errors.Is(err, session.ErrClosed) {
			return
		}
	}
}

// closeTakenOver tells the peer its session moved to another connection
// and closes this one. It is safe to call while the pumps run.
func (c *Client) closeTakenOver() {
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session resumed elsewhere"),
		time.Now().Add(writeWait))
	_ = c.conn.Close()
}

// writePump drains send to the connection and keeps it alive with pings.
// It returns once send is closed.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
