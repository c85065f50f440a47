package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/ingwaz/models"
	"github.com/segmentio/encoding/json"
	"golang.org/x/net/websocket"
)

const (
	sendChanSize = 16
	writeTimeout = time.Second * 5

	MsgTypeSnapshot = "snapshot"
	MsgTypeError    = "error"

	// The requested world does not exist.
	ErrTypeWorldNotFound = "ws-world-not-found"
	ErrTypeEncode        = "ws-encode"
	ErrTypeSend          = "ws-send"
)

// Msg is a message sent to debug stream clients.
type Msg struct {
	Type     string                `json:"type"`
	Snapshot *models.WorldSnapshot `json:"snapshot,omitempty"`
	Error    string                `json:"error,omitempty"`
}

// Handler streams the snapshots of a world to WebSocket clients. The world is
// selected with the world query parameter, holding the world UUID.
type Handler struct {
	Worlds *models.WorldStore

	// The number of frames between two snapshots. Defaults to 1.
	Interval int
}

// Server returns a WebSocket server that serves the handler.
func (h Handler) Server() websocket.Server {
	return websocket.Server{
		Handshake: func(c *websocket.Config, r *http.Request) error {
			return nil
		},
		Handler: h.Handle,
	}
}

// Handle streams snapshots to the given connection until the client
// disconnects.
func (h Handler) Handle(conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(conn.Request().Context())
	defer cancel()

	worldID := conn.Request().URL.Query().Get("world")
	world, ok := h.Worlds.Get(worldID)
	if !ok {
		err := errors.New("world not found").
			WithType(ErrTypeWorldNotFound).
			WithTag("world", worldID)
		logStreamError(conn, err)
		sendMsg(conn, Msg{Type: MsgTypeError, Error: err.Error()})
		return
	}

	interval := h.Interval
	if interval <= 0 {
		interval = 1
	}

	s := &stream{
		conn:     conn,
		world:    world,
		interval: interval,
		sendChan: make(chan Msg, sendChanSize),
	}
	s.run(ctx, cancel)
}

type stream struct {
	conn     *websocket.Conn
	world    *models.World
	interval int
	sendChan chan Msg

	mutex   sync.Mutex
	frames  int
	sent    int
	dropped int
}

func (s *stream) run(ctx context.Context, cancel func()) {
	handleConnect(s.conn, s.world)
	defer func() {
		handleDisconnect(s.conn, s.world, s.stats())
	}()

	stopFrames := s.world.HandleFrame(s.handleFrame)
	defer stopFrames()
	s.push(s.snapshot())

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		s.startSending(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		s.startReceiving(ctx)
	}()

	<-ctx.Done()
	s.conn.Close()
	wg.Wait()
}

func (s *stream) handleFrame(r models.FrameReport) {
	s.mutex.Lock()
	s.frames++
	due := s.frames%s.interval == 0
	s.mutex.Unlock()

	if due {
		s.push(s.snapshot())
	}
}

func (s *stream) snapshot() Msg {
	snapshot := s.world.Snapshot()
	return Msg{
		Type:     MsgTypeSnapshot,
		Snapshot: &snapshot,
	}
}

// push queues msg without blocking the frame loop. Messages are dropped when
// the client does not keep up.
func (s *stream) push(msg Msg) bool {
	select {
	case s.sendChan <- msg:
		return true

	default:
		s.mutex.Lock()
		s.dropped++
		s.mutex.Unlock()
		instrumentDroppedSnapshot(s.world.Name)
		return false
	}
}

func (s *stream) startSending(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case msg := <-s.sendChan:
			if err := sendMsg(s.conn, msg); err != nil {
				instrumentSendError(s.world.Name, err)
				logStreamError(s.conn, err)
				return
			}

			s.mutex.Lock()
			s.sent++
			s.mutex.Unlock()
			instrumentSentSnapshot(s.world.Name)
		}
	}
}

// startReceiving discards the client messages and returns when the
// connection is closed.
func (s *stream) startReceiving(ctx context.Context) {
	for ctx.Err() == nil {
		var msg []byte
		if err := websocket.Message.Receive(s.conn, &msg); err != nil {
			return
		}
	}
}

func (s *stream) stats() streamStats {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return streamStats{
		Frames:  s.frames,
		Sent:    s.sent,
		Dropped: s.dropped,
	}
}

type streamStats struct {
	Frames  int `json:"frames"`
	Sent    int `json:"sent"`
	Dropped int `json:"dropped"`
}

func sendMsg(conn *websocket.Conn, msg Msg) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return errors.New("encoding message failed").
			WithType(ErrTypeEncode).
			Wrap(err)
	}

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := websocket.Message.Send(conn, b); err != nil {
		return errors.New("sending message failed").
			WithType(ErrTypeSend).
			Wrap(err)
	}
	return nil
}
