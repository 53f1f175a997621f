package http

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/prash240303/Globetrotter/internal/app"
)

// FeedHandler streams leaderboard snapshots to websocket clients whenever
// a best score changes.
type FeedHandler struct {
	directory *app.Directory
	upgrader  websocket.Upgrader
	log       zerolog.Logger
}

func NewFeedHandler(directory *app.Directory, log zerolog.Logger) *FeedHandler {
	return &FeedHandler{
		directory: directory,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// ServeWS upgrades the request and pushes snapshots until the client leaves.
func (h *FeedHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	updates, cancel, err := h.directory.Subscribe(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("subscribe failed")
		return
	}
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			// Clients only listen on this feed; reads just detect the close.
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(snapshot); err != nil {
				h.log.Debug().Err(err).Msg("ws write error")
				return
			}
		case <-closed:
			return
		}
	}
}
