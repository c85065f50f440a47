package websocket

import (
	"io"
	"net"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/ingwaz/models"
	"golang.org/x/net/websocket"
)

func handleConnect(conn *websocket.Conn, w *models.World) {
	instrumentConnect(w.Name)

	req := conn.Request()
	logs.WithTag("world", w.UUID).
		WithTag("remote_addr", req.RemoteAddr).
		WithTag("user_agent", req.UserAgent()).
		Info("debug stream client connected")
}

func handleDisconnect(conn *websocket.Conn, w *models.World, stats streamStats) {
	instrumentDisconnect(w.Name)

	logs.WithTag("world", w.UUID).
		WithTag("remote_addr", conn.Request().RemoteAddr).
		WithTag("stats", stats).
		Info("debug stream client disconnected")
}

func logStreamError(conn *websocket.Conn, err error) {
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return
	}

	logs.WithTag("remote_addr", conn.Request().RemoteAddr).
		Warn(err)
}
