package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/AnshRaj112/coffeemates-backend/internal/feed"
	"github.com/AnshRaj112/coffeemates-backend/internal/middleware"
	"github.com/AnshRaj112/coffeemates-backend/internal/realtime"
	"github.com/AnshRaj112/coffeemates-backend/pkg/utils"
)

// queryDebounce is the quiet period before a typed author query is applied.
const queryDebounce = 250 * time.Millisecond

// Feed renders one cohort of the feed for the signed-in user.
// Query params:
//
//	tab (friends|others, default friends)
//	q   (author name filter, friends tab only)
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	tab, err := feed.ParseTab(r.URL.Query().Get("tab"))
	if err != nil {
		h.fail(w, r, &utils.ValidationError{Field: "tab", Message: "tab must be friends or others"})
		return
	}

	ctx := r.Context()
	page, err := h.feed.Page(ctx, middleware.UserID(ctx), middleware.Token(ctx), tab, r.URL.Query().Get("q"), nil)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"feed":    page,
	})
}

// FeedSocket streams the feed. A full page is pushed on connect, whenever a
// post or the viewer's coffeemate list changes, and after tab or query
// commands from the client.
func (h *Handler) FeedSocket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, token := middleware.UserID(ctx), middleware.Token(ctx)

	v, err := h.feed.Viewer(ctx, userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	session := feed.NewSession(v, nil)
	debounce := realtime.NewDebouncer(queryDebounce)
	defer debounce.Stop()

	sock := newSnapshotSocket("feed", conn, h.log,
		h.hub.Subscribe(realtime.TopicPosts),
		h.hub.Subscribe(realtime.UserTopic(userID)),
	)
	sock.reload = func(ctx context.Context) error {
		v, err := h.feed.Viewer(ctx, userID)
		if err != nil {
			return err
		}
		items, err := h.feed.Snapshot(ctx, v, token)
		if err != nil {
			return err
		}
		session.SetViewer(v)
		session.SetSnapshot(items)
		return nil
	}
	sock.render = func() serverFrame {
		page := session.Page()
		return serverFrame{Type: frameFeed, Page: &page}
	}
	sock.onCommand = func(cmd clientCommand, request func(socketAction)) {
		switch cmd.Type {
		case "tab":
			tab, err := feed.ParseTab(cmd.Tab)
			if err != nil {
				return
			}
			session.SetTab(tab)
			request(actionRender)
		case "query":
			q := cmd.Query
			debounce.Call(func() {
				session.SetQuery(q)
				request(actionRender)
			})
		}
	}

	sock.run(ctx)
}
