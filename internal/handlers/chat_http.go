package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/coffeemates-backend/internal/middleware"
	"github.com/AnshRaj112/coffeemates-backend/internal/services"
	"github.com/AnshRaj112/coffeemates-backend/pkg/utils"
)

type OpenChatRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type SendMessageRequest struct {
	Text string `json:"text" validate:"max=4000"`
}

// ListChats returns the signed-in user's conversations.
// Query params:
//
//	search (optional, matches the other member's name)
func (h *Handler) ListChats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	chats, err := h.chats.ListChats(ctx, middleware.UserID(ctx), r.URL.Query().Get("search"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"chats":   chats,
	})
}

// OpenChat returns the direct conversation with another user, creating it
// when that user's privacy setting allows.
func (h *Handler) OpenChat(w http.ResponseWriter, r *http.Request) {
	var req OpenChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	viewer, err := h.currentUser(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	c, err := h.chats.OpenDirectChat(r.Context(), viewer, req.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"chat":    c,
	})
}

// Messages returns a conversation's messages, oldest first.
func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	msgs, err := h.chats.Messages(ctx, chi.URLParam(r, "id"), middleware.UserID(ctx))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"messages": msgs,
	})
}

// SendMessage posts a message. The body is JSON {text}, or multipart with a
// "text" field and an optional "image" file.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	in, closeImage, err := readMessageInput(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer closeImage()

	ctx := r.Context()
	m, c, err := h.chats.SendMessage(ctx, chi.URLParam(r, "id"), middleware.UserID(ctx), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": m,
		"chat":    c,
	})
}

func readMessageInput(w http.ResponseWriter, r *http.Request) (services.MessageInput, func(), error) {
	noop := func() {}

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		var req SendMessageRequest
		if err := decodeJSON(w, r, &req); err != nil {
			return services.MessageInput{}, noop, err
		}
		return services.MessageInput{Text: req.Text}, noop, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		return services.MessageInput{}, noop, &utils.ValidationError{Field: "body", Message: "Invalid form data"}
	}

	in := services.MessageInput{Text: r.FormValue("text")}
	file, _, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return in, noop, nil
	}
	if err != nil {
		return services.MessageInput{}, noop, &utils.ValidationError{Field: "image", Message: "Invalid image"}
	}

	in.Image = file
	return in, func() { file.Close() }, nil
}

// MarkRead marks every message of a conversation as read by the signed-in user.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.chats.MarkRead(ctx, chi.URLParam(r, "id"), middleware.UserID(ctx)); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}
