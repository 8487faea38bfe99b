package feed

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_EmptyPool(t *testing.T) {
	s := NewSession(mia, rand.New(rand.NewSource(1)))
	s.SetSnapshot(nil)

	p := s.Page()
	assert.Equal(t, TabFriends, p.Tab)
	assert.Empty(t, p.Posts)
	assert.Equal(t, EmptyFriendsText, p.EmptyText)

	s.SetTab(TabOthers)
	p = s.Page()
	assert.Empty(t, p.Posts)
	assert.Equal(t, EmptyOthersText, p.EmptyText)
}

func TestSession_Tabs(t *testing.T) {
	s := NewSession(mia, rand.New(rand.NewSource(1)))
	s.SetSnapshot(pool())

	p := s.Page()
	assert.Equal(t, []string{"marie-post-1", "alex-post-1", "mia-post-1"}, ids(p.Posts))
	assert.Empty(t, p.EmptyText)
	for _, it := range p.Posts {
		assert.True(t, it.IsFriend)
	}

	s.SetTab(TabOthers)
	p = s.Page()
	assert.Equal(t, []string{"hq-post-1"}, ids(p.Posts))
	assert.False(t, p.Posts[0].IsFriend)
}

func TestSession_QueryFiltersFriendsOnly(t *testing.T) {
	s := NewSession(mia, rand.New(rand.NewSource(1)))
	s.SetSnapshot(pool())

	s.SetQuery("alex")
	assert.Equal(t, []string{"alex-post-1"}, ids(s.Page().Posts))

	s.SetQuery("coffeemates")
	p := s.Page()
	assert.Empty(t, p.Posts)
	assert.Equal(t, EmptyFriendsText, p.EmptyText)

	s.SetTab(TabOthers)
	assert.Equal(t, []string{"hq-post-1"}, ids(s.Page().Posts))
}

func TestSession_SetViewerRepartitions(t *testing.T) {
	s := NewSession(mia, rand.New(rand.NewSource(1)))
	s.SetSnapshot(pool())

	s.SetViewer(Viewer{ID: "user_mia", CoffeemateIDs: []string{"user_marie"}})
	assert.Equal(t, []string{"marie-post-1", "mia-post-1"}, ids(s.Page().Posts))

	s.SetTab(TabOthers)
	others := s.Page().Posts
	require.Len(t, others, 2)
	assert.ElementsMatch(t, []string{"alex-post-1", "hq-post-1"}, ids(others))
}

func TestSession_SnapshotIsCopied(t *testing.T) {
	items := pool()
	s := NewSession(Viewer{ID: "user_hq"}, rand.New(rand.NewSource(1)))
	s.SetSnapshot(items)

	for _, it := range items {
		assert.False(t, it.IsFriend)
	}
}

func TestParseTab(t *testing.T) {
	tab, err := ParseTab("")
	require.NoError(t, err)
	assert.Equal(t, TabFriends, tab)

	tab, err = ParseTab("others")
	require.NoError(t, err)
	assert.Equal(t, TabOthers, tab)

	_, err = ParseTab("all")
	assert.Error(t, err)
}
