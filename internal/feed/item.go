package feed

import (
	"time"

	"github.com/AnshRaj112/coffeemates-backend/internal/models"
)

// CommentItem is a comment as one viewer sees it.
type CommentItem struct {
	models.Comment
	IsOwner bool `json:"isOwner"`
}

// Item is a post as one viewer sees it.
type Item struct {
	ID                   string        `json:"id"`
	AuthorID             string        `json:"authorId"`
	AuthorName           string        `json:"authorName"`
	AuthorAvatarURL      string        `json:"authorAvatarUrl"`
	CafeName             string        `json:"cafeName"`
	Text                 string        `json:"text"`
	Rating               float64       `json:"rating"`
	GooglePlaceID        string        `json:"googlePlaceId,omitempty"`
	ImageURL             string        `json:"imageUrl,omitempty"`
	LikeCount            int           `json:"likeCount"`
	CreatedAt            time.Time     `json:"createdAt"`
	IsFriend             bool          `json:"isFriend"`
	IsLikedByCurrentUser bool          `json:"isLikedByCurrentUser"`
	IsSavedByCurrentUser bool          `json:"isSavedByCurrentUser"`
	Comments             []CommentItem `json:"comments"`
}

// NewItem maps a stored post into the viewer's view of it.
func NewItem(p *models.Post, v Viewer, saved map[string]bool) Item {
	comments := make([]CommentItem, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, CommentItem{Comment: c, IsOwner: c.AuthorID == v.ID})
	}

	return Item{
		ID:                   p.ID,
		AuthorID:             p.AuthorID,
		AuthorName:           p.AuthorName,
		AuthorAvatarURL:      p.AuthorAvatarURL,
		CafeName:             p.CafeName,
		Text:                 p.Text,
		Rating:               p.Rating,
		GooglePlaceID:        p.GooglePlaceID,
		ImageURL:             p.ImageURL,
		LikeCount:            p.LikeCount,
		CreatedAt:            p.CreatedAt,
		IsFriend:             v.IsFriendPost(p.AuthorID),
		IsLikedByCurrentUser: p.IsLikedBy(v.ID),
		IsSavedByCurrentUser: saved[p.ID],
		Comments:             comments,
	}
}

// NewItems maps a snapshot, keeping its order.
func NewItems(posts []*models.Post, v Viewer, saved map[string]bool) []Item {
	out := make([]Item, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewItem(p, v, saved))
	}
	return out
}
