package handlers

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/coffeemates-backend/internal/middleware"
	"github.com/AnshRaj112/coffeemates-backend/internal/models"
	"github.com/AnshRaj112/coffeemates-backend/internal/realtime"
)

// ChatsSocket streams the signed-in user's conversation list. The list is
// pushed on connect and whenever one of the conversations changes. Clients
// narrow it with {"type":"search","search":"..."}.
func (h *Handler) ChatsSocket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	var (
		mu     sync.Mutex
		search = r.URL.Query().Get("search")
		chats  []*models.Chat
	)

	sock := newSnapshotSocket("chats", conn, h.log, h.hub.Subscribe(realtime.ChatsTopic(userID)))
	sock.reload = func(ctx context.Context) error {
		mu.Lock()
		q := search
		mu.Unlock()

		list, err := h.chats.ListChats(ctx, userID, q)
		if err != nil {
			return err
		}

		mu.Lock()
		chats = list
		mu.Unlock()
		return nil
	}
	sock.render = func() serverFrame {
		mu.Lock()
		defer mu.Unlock()
		return chatsFrame(chats)
	}
	sock.onCommand = func(cmd clientCommand, request func(socketAction)) {
		if cmd.Type != "search" {
			return
		}
		mu.Lock()
		search = cmd.Search
		mu.Unlock()
		request(actionReload)
	}

	sock.run(ctx)
}

// MessagesSocket streams the messages of one conversation. Leaving the
// conversation closes the socket; opening another one opens a new socket.
func (h *Handler) MessagesSocket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.UserID(ctx)
	chatID := chi.URLParam(r, "id")

	// Membership is checked before the upgrade so errors get a status code.
	if _, err := h.chats.Messages(ctx, chatID, userID); err != nil {
		h.fail(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	var (
		mu   sync.Mutex
		msgs []*models.Message
	)

	sock := newSnapshotSocket("messages", conn, h.log, h.hub.Subscribe(realtime.MessagesTopic(chatID)))
	sock.reload = func(ctx context.Context) error {
		list, err := h.chats.Messages(ctx, chatID, userID)
		if err != nil {
			return err
		}
		mu.Lock()
		msgs = list
		mu.Unlock()
		return nil
	}
	sock.render = func() serverFrame {
		mu.Lock()
		defer mu.Unlock()
		return messagesFrame(msgs)
	}

	sock.run(ctx)
}
