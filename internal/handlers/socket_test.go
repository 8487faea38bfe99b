package handlers_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/AnshRaj112/coffeemates-backend/internal/models"
	"github.com/AnshRaj112/coffeemates-backend/internal/realtime"
)

type frame struct {
	Type string `json:"type"`
	Page *struct {
		Tab   string `json:"tab"`
		Query string `json:"query"`
		Posts []struct {
			ID string `json:"id"`
		} `json:"posts"`
	} `json:"page"`
	Chats []struct {
		ID string `json:"id"`
	} `json:"chats"`
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

func (f frame) postIDs() []string {
	ids := []string{}
	if f.Page == nil {
		return ids
	}
	for _, p := range f.Page.Posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func dial(t *testing.T, srv *httptest.Server, path, token string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path + "?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func next(t *testing.T, conn *websocket.Conn) frame {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestFeedSocket(t *testing.T) {
	f := newFixture(t, "")
	token := f.login(t, "user_mia")

	var mu sync.Mutex
	posts := pool()
	f.users.EXPECT().GetUser(gomock.Any(), "user_mia").Return(mia(), nil).AnyTimes()
	f.posts.EXPECT().ListPosts(gomock.Any()).DoAndReturn(func(context.Context) ([]*models.Post, error) {
		mu.Lock()
		defer mu.Unlock()
		return posts, nil
	}).AnyTimes()

	srv := httptest.NewServer(f.router)
	defer srv.Close()

	conn := dial(t, srv, "/ws/feed", token)

	first := next(t, conn)
	assert.Equal(t, "feed", first.Type)
	assert.Equal(t, []string{"marie-post-1"}, first.postIDs())

	mu.Lock()
	posts = append([]*models.Post{{ID: "alex-post-1", AuthorID: "user_alex", AuthorName: "Alex", CafeName: "Harbor Roasters", Text: "V60", Rating: 4.8}}, posts...)
	mu.Unlock()
	require.NoError(t, f.hub.Publish(context.Background(), realtime.TopicPosts))

	second := next(t, conn)
	assert.ElementsMatch(t, []string{"alex-post-1", "marie-post-1"}, second.postIDs())

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "tab", "tab": "others"}))
	others := next(t, conn)
	assert.Equal(t, "others", others.Page.Tab)
	assert.Equal(t, []string{"hq-post-1"}, others.postIDs())

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "tab", "tab": "friends"}))
	next(t, conn)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "query", "query": "ale"}))
	filtered := next(t, conn)
	assert.Equal(t, "ale", filtered.Page.Query)
	assert.Equal(t, []string{"alex-post-1"}, filtered.postIDs())

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))
	assert.Equal(t, "pong", next(t, conn).Type)
}

func TestMessagesSocket(t *testing.T) {
	f := newFixture(t, "")
	token := f.login(t, "user_mia")

	chat := &models.Chat{ID: "hq_user_mia", Members: []string{"user_mia", models.HQUserID}, IsSystem: true}
	f.chats.EXPECT().GetChat(gomock.Any(), chat.ID).Return(chat, nil).AnyTimes()

	var mu sync.Mutex
	msgs := []*models.Message{{ID: "m1", ChatID: chat.ID, SenderID: models.HQUserID, Text: "Welcome"}}
	f.chats.EXPECT().ListMessages(gomock.Any(), chat.ID).DoAndReturn(func(context.Context, string) ([]*models.Message, error) {
		mu.Lock()
		defer mu.Unlock()
		return msgs, nil
	}).AnyTimes()

	srv := httptest.NewServer(f.router)
	defer srv.Close()

	conn := dial(t, srv, "/ws/chats/"+chat.ID, token)
	first := next(t, conn)
	assert.Equal(t, "messages", first.Type)
	require.Len(t, first.Messages, 1)

	mu.Lock()
	msgs = append(msgs, &models.Message{ID: "m2", ChatID: chat.ID, SenderID: "user_mia", Text: "Hi!"})
	mu.Unlock()
	require.NoError(t, f.hub.Publish(context.Background(), realtime.MessagesTopic(chat.ID)))

	second := next(t, conn)
	require.Len(t, second.Messages, 2)
	assert.Equal(t, "m2", second.Messages[1].ID)
}

func TestMessagesSocket_ForeignChat(t *testing.T) {
	f := newFixture(t, "")
	token := f.login(t, "user_mia")

	f.chats.EXPECT().GetChat(gomock.Any(), "dm_user_alex_user_marie").Return(&models.Chat{
		ID:      "dm_user_alex_user_marie",
		Members: []string{"user_alex", "user_marie"},
	}, nil)

	srv := httptest.NewServer(f.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chats/dm_user_alex_user_marie?token=" + token
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestMessagesSocket_EmptyChatCarriesList(t *testing.T) {
	f := newFixture(t, "")
	token := f.login(t, "user_mia")

	chat := &models.Chat{ID: "dm_user_alex_user_mia", Members: []string{"user_alex", "user_mia"}}
	f.chats.EXPECT().GetChat(gomock.Any(), chat.ID).Return(chat, nil).AnyTimes()
	f.chats.EXPECT().ListMessages(gomock.Any(), chat.ID).Return(nil, nil).AnyTimes()

	srv := httptest.NewServer(f.router)
	defer srv.Close()

	conn := dial(t, srv, "/ws/chats/"+chat.ID, token)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	var raw map[string]json.RawMessage
	require.NoError(t, conn.ReadJSON(&raw))
	assert.JSONEq(t, `"messages"`, string(raw["type"]))
	require.Contains(t, raw, "messages")
	assert.JSONEq(t, `[]`, string(raw["messages"]))
}

func TestChatsSocket_EmptyListCarriesList(t *testing.T) {
	f := newFixture(t, "")
	token := f.login(t, "user_mia")

	f.chats.EXPECT().ListChats(gomock.Any(), "user_mia").Return(nil, nil).AnyTimes()

	srv := httptest.NewServer(f.router)
	defer srv.Close()

	conn := dial(t, srv, "/ws/chats", token)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	var raw map[string]json.RawMessage
	require.NoError(t, conn.ReadJSON(&raw))
	assert.JSONEq(t, `"chats"`, string(raw["type"]))
	require.Contains(t, raw, "chats")
	assert.JSONEq(t, `[]`, string(raw["chats"]))
}
