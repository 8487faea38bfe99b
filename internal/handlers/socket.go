package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/AnshRaj112/coffeemates-backend/internal/feed"
	"github.com/AnshRaj112/coffeemates-backend/internal/models"
	"github.com/AnshRaj112/coffeemates-backend/internal/realtime"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxCommandSize = 4096
)

// Frame types pushed to socket clients.
const (
	frameFeed     = "feed"
	frameChats    = "chats"
	frameMessages = "messages"
	frameError    = "error"
	framePong     = "pong"
)

// clientCommand is what socket clients send.
type clientCommand struct {
	Type   string `json:"type"` // "tab", "query", "search", "ping"
	Tab    string `json:"tab,omitempty"`
	Query  string `json:"query,omitempty"`
	Search string `json:"search,omitempty"`
}

// serverFrame is one full snapshot (or an error) pushed to a client. Snapshot
// lists are pointers so an empty snapshot still carries its key as [].
type serverFrame struct {
	Type     string             `json:"type"`
	Page     *feed.Page         `json:"page,omitempty"`
	Chats    *[]*models.Chat    `json:"chats,omitempty"`
	Messages *[]*models.Message `json:"messages,omitempty"`
	Message  string             `json:"message,omitempty"`
}

func chatsFrame(chats []*models.Chat) serverFrame {
	if chats == nil {
		chats = []*models.Chat{}
	}
	return serverFrame{Type: frameChats, Chats: &chats}
}

func messagesFrame(msgs []*models.Message) serverFrame {
	if msgs == nil {
		msgs = []*models.Message{}
	}
	return serverFrame{Type: frameMessages, Messages: &msgs}
}

// socketAction is what a client command asks the socket loop to do next.
type socketAction int

const (
	actionNone socketAction = iota
	actionRender
	actionReload
)

// snapshotSocket pushes a full snapshot to one client whenever one of its
// subscriptions fires, and re-renders local state on client commands. Only
// the run loop writes to the connection.
type snapshotSocket struct {
	name string
	conn *websocket.Conn
	subs []*realtime.Subscription
	log  logrus.FieldLogger

	// reload re-reads the remote state; render builds the frame to push.
	reload    func(ctx context.Context) error
	render    func() serverFrame
	onCommand func(cmd clientCommand, request func(socketAction))

	reloads chan struct{}
	renders chan struct{}
	pongs   chan struct{}
}

func newSnapshotSocket(name string, conn *websocket.Conn, log logrus.FieldLogger, subs ...*realtime.Subscription) *snapshotSocket {
	return &snapshotSocket{
		name:    name,
		conn:    conn,
		subs:    subs,
		log:     log.WithField("socket", name),
		reloads: make(chan struct{}, 1),
		renders: make(chan struct{}, 1),
		pongs:   make(chan struct{}, 1),
	}
}

func signal(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (s *snapshotSocket) request(a socketAction) {
	switch a {
	case actionReload:
		signal(s.reloads)
	case actionRender:
		signal(s.renders)
	}
}

// run serves the connection until the client leaves or ctx is done. It
// closes the connection and the subscriptions on return.
func (s *snapshotSocket) run(ctx context.Context) {
	openSockets.WithLabelValues(s.name).Inc()
	defer openSockets.WithLabelValues(s.name).Dec()

	for _, sub := range s.subs {
		defer sub.Close()
	}

	// Teardown runs bottom-up: cancel, close the connection so the reader
	// unblocks, then wait for the helpers.
	var wg sync.WaitGroup
	defer wg.Wait()
	defer s.conn.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for _, sub := range s.subs {
		wg.Add(1)
		go func(sub *realtime.Subscription) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-sub.C:
					signal(s.reloads)
				}
			}
		}(sub)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		s.readLoop()
	}()

	if !s.reloadAndPush(ctx) {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.reloads:
			if !s.reloadAndPush(ctx) {
				return
			}
		case <-s.renders:
			if err := s.write(s.render()); err != nil {
				return
			}
		case <-s.pongs:
			if err := s.write(serverFrame{Type: framePong}); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// reloadAndPush refreshes the snapshot and pushes it. A failed reload ends
// the socket with an error frame; the client reconnects when it wants to.
func (s *snapshotSocket) reloadAndPush(ctx context.Context) bool {
	if err := s.reload(ctx); err != nil {
		if ctx.Err() != nil {
			return false
		}
		s.log.WithError(err).Error("failed to load snapshot")
		_ = s.write(serverFrame{Type: frameError, Message: genericErrorMessage})
		return false
	}
	return s.write(s.render()) == nil
}

func (s *snapshotSocket) write(f serverFrame) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(f); err != nil {
		return err
	}
	framesPushed.WithLabelValues(s.name, f.Type).Inc()
	return nil
}

func (s *snapshotSocket) readLoop() {
	s.conn.SetReadLimit(maxCommandSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.WithError(err).Debug("socket closed")
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))

		var cmd clientCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			continue
		}

		if cmd.Type == "ping" {
			signal(s.pongs)
			continue
		}
		if s.onCommand != nil {
			s.onCommand(cmd, s.request)
		}
	}
}
