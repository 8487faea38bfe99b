package feed

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// Tab selects the visible cohort.
type Tab string

const (
	TabFriends Tab = "friends"
	TabOthers  Tab = "others"
)

const (
	EmptyFriendsText = "No posts from your coffeemates yet. Maybe post the first one ☕"
	EmptyOthersText  = "No other posts yet."
)

// ParseTab maps a query value to a tab; empty means friends.
func ParseTab(s string) (Tab, error) {
	switch Tab(s) {
	case "", TabFriends:
		return TabFriends, nil
	case TabOthers:
		return TabOthers, nil
	default:
		return "", fmt.Errorf("unknown tab %q", s)
	}
}

// Page is what a viewer sees for the selected cohort.
type Page struct {
	Tab       Tab    `json:"tab"`
	Query     string `json:"query"`
	Posts     []Item `json:"posts"`
	EmptyText string `json:"emptyText,omitempty"`
}

// Session keeps the cohort state of one connected viewer. It is safe for
// concurrent use; snapshot deliveries and client commands arrive on
// different goroutines.
type Session struct {
	mu sync.Mutex

	rng    *rand.Rand
	viewer Viewer
	pool   []Item
	tab    Tab
	query  string

	friends []Item
	others  []Item
}

// NewSession creates a session on the friends tab. A nil rng is seeded from the clock.
func NewSession(v Viewer, rng *rand.Rand) *Session {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Session{rng: rng, viewer: v, tab: TabFriends}
}

// SetSnapshot replaces the post pool with a fresh full snapshot.
func (s *Session) SetSnapshot(items []Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pool = make([]Item, len(items))
	copy(s.pool, items)
	s.repartition()
}

// SetViewer applies a changed coffeemate list.
func (s *Session) SetViewer(v Viewer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.viewer = v
	s.repartition()
}

// SetTab switches the visible cohort. Selecting the other cohort anew reshuffles it.
func (s *Session) SetTab(t Tab) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tab == t {
		return
	}
	s.tab = t
	s.others = Shuffle(s.others, s.rng)
}

// SetQuery changes the author filter of the friend cohort.
func (s *Session) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = q
}

// Viewer returns the current viewer.
func (s *Session) Viewer() Viewer {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.viewer
}

// Page renders the selected cohort.
func (s *Session) Page() Page {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Page{Tab: s.tab, Query: s.query}
	if s.tab == TabOthers {
		p.Posts = s.others
		if len(p.Posts) == 0 {
			p.EmptyText = EmptyOthersText
		}
		return p
	}

	p.Posts = FilterByAuthor(s.friends, s.query)
	if len(p.Posts) == 0 {
		p.EmptyText = EmptyFriendsText
	}
	return p
}

func (s *Session) repartition() {
	// IsFriend was computed for the viewer at mapping time; refresh it for the current one.
	for i := range s.pool {
		s.pool[i].IsFriend = s.viewer.IsFriendPost(s.pool[i].AuthorID)
	}
	friends, others := Partition(s.pool, s.viewer)
	s.friends = friends
	s.others = Shuffle(others, s.rng)
}
