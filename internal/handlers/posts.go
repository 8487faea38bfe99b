package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/coffeemates-backend/internal/feed"
	"github.com/AnshRaj112/coffeemates-backend/internal/middleware"
	"github.com/AnshRaj112/coffeemates-backend/internal/models"
	"github.com/AnshRaj112/coffeemates-backend/internal/realtime"
	"github.com/AnshRaj112/coffeemates-backend/internal/services"
	"github.com/AnshRaj112/coffeemates-backend/pkg/utils"
)

type CreatePostRequest struct {
	CafeName      string  `json:"cafeName"`
	Text          string  `json:"text"`
	Rating        float64 `json:"rating"`
	GooglePlaceID string  `json:"googlePlaceId"`
	ImageURL      string  `json:"imageUrl"`
}

type CommentRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}

// CreatePost publishes a review. The body is JSON, or multipart form fields
// with an optional "image" file.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	draft, image, err := h.readPostDraft(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if image != nil {
		defer image.Close()
	}

	// Validate before anything is written, the upload included.
	draft, err = draft.Normalize()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if image != nil {
		url, err := h.uploader.Upload(ctx, image, services.FolderPosts)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		draft.ImageURL = url
	}

	p, err := h.posts.CreatePost(ctx, middleware.UserID(ctx), draft)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.writePost(w, r, http.StatusCreated, p)
}

func (h *Handler) readPostDraft(w http.ResponseWriter, r *http.Request) (models.PostDraft, multipart.File, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		var req CreatePostRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return models.PostDraft{}, nil, err
		}
		return models.PostDraft{
			CafeName:      req.CafeName,
			Text:          req.Text,
			Rating:        req.Rating,
			GooglePlaceID: req.GooglePlaceID,
			ImageURL:      req.ImageURL,
		}, nil, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		return models.PostDraft{}, nil, &utils.ValidationError{Field: "body", Message: "Invalid form data"}
	}

	rating, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("rating")), 64)
	if err != nil {
		return models.PostDraft{}, nil, &utils.ValidationError{Field: "rating", Message: "Rating must be a number"}
	}

	draft := models.PostDraft{
		CafeName:      r.FormValue("cafeName"),
		Text:          r.FormValue("text"),
		Rating:        rating,
		GooglePlaceID: r.FormValue("googlePlaceId"),
	}

	file, _, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return draft, nil, nil
	}
	if err != nil {
		return models.PostDraft{}, nil, &utils.ValidationError{Field: "image", Message: "Invalid image"}
	}
	return draft, file, nil
}

// GetPost returns one post as the viewer sees it.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	p, err := h.posts.GetPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writePost(w, r, http.StatusOK, p)
}

// ToggleLike likes or unlikes a post for the viewer.
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, liked, err := h.posts.ToggleLike(ctx, chi.URLParam(r, "id"), middleware.UserID(ctx))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"liked":     liked,
		"likeCount": p.LikeCount,
	})
}

// ToggleSave adds the post to, or removes it from, the session's saved set.
func (h *Handler) ToggleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	postID := chi.URLParam(r, "id")

	if _, err := h.posts.GetPost(ctx, postID); err != nil {
		h.fail(w, r, err)
		return
	}

	saved, err := h.saved.Toggle(ctx, middleware.Token(ctx), postID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.hub.PublishAll(ctx, realtime.UserTopic(middleware.UserID(ctx)))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"saved":   saved,
	})
}

// Saved lists the session's saved posts, newest first.
func (h *Handler) Saved(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	items, err := h.feed.SavedPosts(ctx, middleware.UserID(ctx), middleware.Token(ctx))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"posts":   items,
	})
}

// AddComment appends a comment by the viewer.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req CommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	ctx := r.Context()
	p, err := h.posts.AddComment(ctx, chi.URLParam(r, "id"), middleware.UserID(ctx), req.Text)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writePost(w, r, http.StatusCreated, p)
}

// DeleteComment removes one of the viewer's own comments.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := h.posts.DeleteComment(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "commentID"), middleware.UserID(ctx))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writePost(w, r, http.StatusOK, p)
}

func (h *Handler) writePost(w http.ResponseWriter, r *http.Request, status int, p *models.Post) {
	ctx := r.Context()

	v, err := h.feed.Viewer(ctx, middleware.UserID(ctx))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	saved, err := h.saved.Set(ctx, middleware.Token(ctx))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, status, map[string]interface{}{
		"success": true,
		"post":    feed.NewItem(p, v, saved),
	})
}
