package httphandler

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/pixelgrid-network/pixelgrid/modules/canvas/fanout"
	"github.com/pixelgrid-network/pixelgrid/pkg/logger"
	"github.com/pixelgrid-network/pixelgrid/pkg/logger/slogx"
)

const liveEventBufferSize = 64

// live streams canvas events to one websocket viewer until it disconnects.
// Missed events are dropped rather than buffered without bound; a viewer
// recovers by refetching the canvas snapshot.
func (h *HttpHandler) live(conn *websocket.Conn) {
	events := make(chan fanout.Event, liveEventBufferSize)
	sub := h.fanout.Subscribe(events)
	defer sub.Unsubscribe()

	// The read loop exists only to detect the peer going away. Incoming
	// payloads are ignored.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case err := <-sub.Err():
			logger.Error("realtime subscription failed", slogx.Error(err))
			return
		case event := <-events:
			if err := conn.WriteJSON(event); err != nil {
				logger.Debug("dropping realtime viewer", slogx.Error(err))
				return
			}
		}
	}
}
