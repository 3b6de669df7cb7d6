package websocket

import (
	"portfolio-be/internal/pkg/logger"
	"portfolio-be/internal/session"

	"github.com/gofiber/websocket/v2"
)

// ServeSession runs one UI session over c until the peer goes away.
func ServeSession(manager *session.Manager, c *websocket.Conn, resumeID string, log logger.ILogger) {
	client := newClient(c, log)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		client.writePump()
	}()

	s, resumed := manager.Open(resumeID, client)
	log.Info("WS", "Session connected", map[string]interface{}{
		"session": s.ID().String(),
		"resumed": resumed,
	})

	readDone := make(chan struct{})
	go func() {
		select {
		case <-s.Done():
			// A reconnect took over the session id; unblock readPump.
			client.closeTakenOver()
		case <-readDone:
		}
	}()

	client.readPump(s)
	close(readDone)

	// Release waits for the session to stop, so nothing sends after this.
	manager.Release(s)
	close(client.send)
	<-writerDone

	log.Info("WS", "Session disconnected", map[string]interface{}{"session": s.ID().String()})
}
