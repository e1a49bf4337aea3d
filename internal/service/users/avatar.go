package users

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/legitsearch/platform/internal/auth"
	"github.com/legitsearch/platform/internal/server"
)

// avatarURLPrefix is where the router serves uploaded files from.
const avatarURLPrefix = "/uploads/avatars/"

var allowedAvatarExts = map[string]struct{}{
	"jpg": {}, "jpeg": {}, "png": {}, "gif": {}, "webp": {}, "bmp": {}, "svg": {},
}

// HandleUploadAvatar stores an avatar image and points the profile at
// it. The stored filename carries a UUID so re-uploads never collide
// with stale browser caches of the old file.
func (s *Service) HandleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserID(r.Context())

	profile, err := s.profileRepo.GetByUserID(r.Context(), userID)
	if err != nil {
		server.Error(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.appCtx.Cfg.Upload.MaxBytes)
	if err := r.ParseMultipartForm(s.appCtx.Cfg.Upload.MaxBytes); err != nil {
		server.BadRequest(w, "upload too large or malformed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		server.BadRequest(w, "file field is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	if _, ok := allowedAvatarExts[ext]; !ok {
		server.BadRequest(w, "file type not allowed")
		return
	}

	if err := os.MkdirAll(s.appCtx.Cfg.Upload.Dir, 0o755); err != nil {
		server.Error(w, err)
		return
	}

	filename := "user_" + uuid.NewString() + "." + ext
	dst, err := os.Create(filepath.Join(s.appCtx.Cfg.Upload.Dir, filename))
	if err != nil {
		server.Error(w, err)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		server.Error(w, err)
		return
	}

	avatarURL := avatarURLPrefix + filename
	profile.ProfilePicture = &avatarURL
	if err := s.profileRepo.Update(r.Context(), profile); err != nil {
		server.Error(w, err)
		return
	}

	s.appCtx.Logger.Info("avatar uploaded", "user_id", userID, "file", filename)
	server.JSON(w, http.StatusOK, map[string]string{
		"message":    "avatar uploaded successfully",
		"avatar_url": avatarURL,
	})
}
