// Package feed splits the home feed into the viewer's friend and other cohorts.
package feed

import (
	"math/rand"
	"strings"
)

// Viewer is the part of a profile the partition depends on.
type Viewer struct {
	ID            string
	CoffeemateIDs []string
}

// IsFriendPost reports whether a post by authorID belongs to the friend cohort:
// the viewer's own posts and posts by any coffeemate.
func (v Viewer) IsFriendPost(authorID string) bool {
	if authorID == v.ID {
		return true
	}
	for _, id := range v.CoffeemateIDs {
		if id == authorID {
			return true
		}
	}
	return false
}

// Partition splits items into the friend and other cohorts. Every item lands in
// exactly one of them and the snapshot order is kept in both.
func Partition(items []Item, v Viewer) (friends, others []Item) {
	friends = make([]Item, 0, len(items))
	others = make([]Item, 0, len(items))
	for _, it := range items {
		if v.IsFriendPost(it.AuthorID) {
			friends = append(friends, it)
			continue
		}
		others = append(others, it)
	}
	return friends, others
}

// Shuffle returns a uniformly permuted copy of items.
func Shuffle(items []Item, rng *rand.Rand) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// FilterByAuthor keeps items whose author name contains query, ignoring case.
// A blank query keeps everything.
func FilterByAuthor(items []Item, query string) []Item {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}

	out := make([]Item, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.AuthorName), q) {
			out = append(out, it)
		}
	}
	return out
}
