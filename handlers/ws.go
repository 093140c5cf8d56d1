package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"arm-control/broadcast"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler streams state snapshots to websocket clients. Each
// connection gets its own broadcaster subscription; the subscription's
// buffering and drop policy isolate a stalled socket from everyone else.
type WSHandler struct {
	broadcaster *broadcast.Broadcaster
	logger      *slog.Logger
}

// NewWSHandler creates a new instance of WSHandler.
func NewWSHandler(broadcaster *broadcast.Broadcaster, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		broadcaster: broadcaster,
		logger:      logger.With("component", "ws_handler"),
	}
}

// Stream upgrades the connection and forwards snapshots until the client
// disconnects or the broadcaster drops the subscription.
func (h *WSHandler) Stream(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error("Websocket upgrade failed", slog.Any("error", err))
		return err
	}
	defer ws.Close()

	sub := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(sub)

	// Read pump: clients send nothing we use, but reading is how we
	// notice the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snap, ok := <-sub.C:
			if !ok {
				// Dropped by the broadcaster; tell the client why.
				ws.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "subscription dropped"),
					timeoutDeadline())
				return nil
			}
			if err := ws.WriteJSON(snap); err != nil {
				h.logger.Info("Websocket client disconnected", slog.Any("error", err))
				return nil
			}
		case <-done:
			return nil
		}
	}
}

func timeoutDeadline() time.Time {
	return time.Now().Add(time.Second)
}
