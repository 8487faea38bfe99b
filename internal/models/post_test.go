package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/coffeemates-backend/pkg/utils"
)

func TestPost_ToggleLike(t *testing.T) {
	p := &Post{ID: "marie-post-1", LikeCount: 3}

	liked := p.ToggleLike("user_mia")
	assert.True(t, liked)
	assert.Equal(t, 4, p.LikeCount)
	assert.True(t, p.IsLikedBy("user_mia"))

	liked = p.ToggleLike("user_mia")
	assert.False(t, liked)
	assert.Equal(t, 3, p.LikeCount)
	assert.False(t, p.IsLikedBy("user_mia"))
}

func TestPost_ToggleLike_FloorsAtZero(t *testing.T) {
	p := &Post{LikeCount: 0, LikedBy: []string{"user_alex"}}

	liked := p.ToggleLike("user_alex")
	assert.False(t, liked)
	assert.Equal(t, 0, p.LikeCount)
	assert.Empty(t, p.LikedBy)
}

func TestPost_ToggleLike_KeepsOtherLikers(t *testing.T) {
	p := &Post{LikeCount: 2, LikedBy: []string{"user_alex", "user_mia"}}
	original := p.LikedBy

	p.ToggleLike("user_alex")
	assert.Equal(t, []string{"user_mia"}, p.LikedBy)
	assert.Equal(t, []string{"user_alex", "user_mia"}, original)
}

func TestPostDraft_Normalize(t *testing.T) {
	tt := []struct {
		name  string
		draft PostDraft
		field string
	}{
		{name: "ok", draft: PostDraft{CafeName: " Café Lune ", Text: "Great flat white", Rating: 4.5}},
		{name: "missing cafe", draft: PostDraft{CafeName: "  ", Text: "x", Rating: 3}, field: "cafeName"},
		{name: "missing text", draft: PostDraft{CafeName: "Lune", Text: "", Rating: 3}, field: "text"},
		{name: "rating too high", draft: PostDraft{CafeName: "Lune", Text: "x", Rating: 5.5}, field: "rating"},
		{name: "negative rating", draft: PostDraft{CafeName: "Lune", Text: "x", Rating: -1}, field: "rating"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			d, err := tc.draft.Normalize()
			if tc.field == "" {
				require.NoError(t, err)
				assert.Equal(t, "Café Lune", d.CafeName)
				return
			}

			var verr *utils.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}
