package services

import (
	"fmt"

	"github.com/kartia-app/kartia-server/models"
	"github.com/kartia-app/kartia-server/storage"
)

// populateUserAvatarURL fills the public AvatarURL from the stored
// object key. Users without an avatar keep a nil URL.
func populateUserAvatarURL(user *models.User, uploader storage.FileUploader) {
	if user == nil || user.AvatarKey == nil || *user.AvatarKey == "" {
		return
	}
	url := uploader.GetPublicURL(*user.AvatarKey)
	user.AvatarURL = &url
}

func extensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/webp":
		return ".webp", nil
	case "image/gif":
		return ".gif", nil
	case "video/mp4":
		return ".mp4", nil
	case "video/quicktime":
		return ".mov", nil
	case "video/webm":
		return ".webm", nil
	default:
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}
}
