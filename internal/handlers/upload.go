package handlers

import (
	"net/http"

	"github.com/AnshRaj112/coffeemates-backend/internal/services"
	"github.com/AnshRaj112/coffeemates-backend/pkg/utils"
)

var uploadFolders = map[string]string{
	"":        services.FolderPosts,
	"posts":   services.FolderPosts,
	"chat":    services.FolderChat,
	"avatars": services.FolderAvatars,
	"covers":  services.FolderCovers,
}

type UploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
}

// UploadFile stores an image and returns its URL.
// Query params:
//
//	folder (posts|chat|avatars|covers, default posts)
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	folder, ok := uploadFolders[r.URL.Query().Get("folder")]
	if !ok {
		h.fail(w, r, &utils.ValidationError{Field: "folder", Message: "Unknown upload folder"})
		return
	}

	file, err := readImage(w, r, "file")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer file.Close()

	url, err := h.uploader.Upload(r.Context(), file, folder)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		Success: true,
		Message: "File uploaded successfully",
		URL:     url,
	})
}
