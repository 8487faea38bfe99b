package models

import (
	"math"
	"strings"
	"time"

	"github.com/AnshRaj112/coffeemates-backend/pkg/utils"
)

const (
	MinRating = 0
	MaxRating = 5
)

// Comment is embedded in its post, in creation order.
type Comment struct {
	ID         string    `bson:"id" json:"id"`
	AuthorID   string    `bson:"authorId" json:"authorId"`
	AuthorName string    `bson:"authorName" json:"authorName"`
	Text       string    `bson:"text" json:"text"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// Post is a café review stored in the posts collection.
type Post struct {
	ID              string    `bson:"_id" json:"id"`
	AuthorID        string    `bson:"authorId" json:"authorId"`
	AuthorName      string    `bson:"authorName" json:"authorName"`
	AuthorAvatarURL string    `bson:"authorAvatarUrl" json:"authorAvatarUrl"`
	CafeName        string    `bson:"cafeName" json:"cafeName"`
	Text            string    `bson:"text" json:"text"`
	Rating          float64   `bson:"rating" json:"rating"`
	GooglePlaceID   string    `bson:"googlePlaceId,omitempty" json:"googlePlaceId,omitempty"`
	ImageURL        string    `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	LikeCount       int       `bson:"likeCount" json:"likeCount"`
	LikedBy         []string  `bson:"likedBy" json:"-"`
	Comments        []Comment `bson:"comments" json:"comments"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
}

// IsLikedBy reports whether viewerID has liked the post.
func (p *Post) IsLikedBy(viewerID string) bool {
	for _, id := range p.LikedBy {
		if id == viewerID {
			return true
		}
	}
	return false
}

// ToggleLike flips the viewer's like. Liking adds one to LikeCount, unliking
// subtracts one floored at zero; the counter and the flag always move together.
// It returns the new liked state.
func (p *Post) ToggleLike(viewerID string) bool {
	if p.IsLikedBy(viewerID) {
		out := p.LikedBy[:0:0]
		for _, id := range p.LikedBy {
			if id != viewerID {
				out = append(out, id)
			}
		}
		p.LikedBy = out
		if p.LikeCount > 0 {
			p.LikeCount--
		}
		return false
	}

	p.LikedBy = append(p.LikedBy, viewerID)
	p.LikeCount++
	return true
}

// FindComment returns the comment with id, if present.
func (p *Post) FindComment(id string) (Comment, bool) {
	for _, c := range p.Comments {
		if c.ID == id {
			return c, true
		}
	}
	return Comment{}, false
}

// PostDraft is the user-entered part of a new post.
type PostDraft struct {
	CafeName      string  `json:"cafeName"`
	Text          string  `json:"text"`
	Rating        float64 `json:"rating"`
	GooglePlaceID string  `json:"googlePlaceId,omitempty"`
	ImageURL      string  `json:"imageUrl,omitempty"`
}

// Normalize trims the draft and checks it the way the create-post form does,
// so invalid drafts never reach the store.
func (d PostDraft) Normalize() (PostDraft, error) {
	d.CafeName = strings.TrimSpace(d.CafeName)
	d.Text = strings.TrimSpace(d.Text)
	d.GooglePlaceID = strings.TrimSpace(d.GooglePlaceID)

	if math.IsNaN(d.Rating) || d.Rating < MinRating || d.Rating > MaxRating {
		return d, &utils.ValidationError{Field: "rating", Message: "Rating must be between 0 and 5."}
	}
	if d.CafeName == "" {
		return d, &utils.ValidationError{Field: "cafeName", Message: "Please enter a café name."}
	}
	if d.Text == "" {
		return d, &utils.ValidationError{Field: "text", Message: "Please write something about the coffee."}
	}

	return d, nil
}
