package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ThumbVariant is the only derived-image size the client asks for today.
const ThumbVariant = "90x90"

// AssetResolver owns the media fallback chain used by every surface:
// locally-materialized derived artifact first, then the stored remote
// reference, then a fixed placeholder. The chain is defined here once so no
// call site re-implements it.
type AssetResolver struct {
	UploadsPath string
	BaseURL     string
}

func NewAssetResolver(uploadsPath, baseURL string) AssetResolver {
	return AssetResolver{
		UploadsPath: uploadsPath,
		BaseURL:     strings.TrimRight(baseURL, "/"),
	}
}

func (a AssetResolver) localExists(parts ...string) bool {
	path := filepath.Join(append([]string{a.UploadsPath}, parts...)...)
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func derivedName(id int64, variant string) string {
	return fmt.Sprintf("%d_%s.png", id, variant)
}

func (a AssetResolver) UserAvatarURL(userID int64, stored *string) string {
	name := derivedName(userID, ThumbVariant)
	if a.localExists("avatars", name) {
		return a.BaseURL + "/get_image/user/" + name
	}
	if stored != nil && strings.TrimSpace(*stored) != "" {
		return *stored
	}
	return a.BaseURL + "/uploads/avatars/default_" + ThumbVariant + ".png"
}

func (a AssetResolver) ProjectThumbnailURL(projectID int64, stored string) string {
	name := derivedName(projectID, ThumbVariant)
	if a.localExists("thumbnails", name) {
		return a.BaseURL + "/uploads/thumbnails/" + name
	}
	if strings.TrimSpace(stored) != "" {
		return stored
	}
	return a.DefaultThumbnailURL()
}

func (a AssetResolver) StudioThumbnailURL(studioID int64) string {
	name := derivedName(studioID, ThumbVariant)
	if a.localExists("studios", "thumbnails", name) {
		return a.BaseURL + "/uploads/studios/thumbnails/" + name
	}
	return a.BaseURL + "/uploads/studios/thumbnails/default_" + ThumbVariant + ".png"
}

func (a AssetResolver) DefaultThumbnailURL() string {
	return a.BaseURL + "/uploads/thumbnails/default_" + ThumbVariant + ".png"
}

// ContentAsset resolves a content-addressed media object (md5 hash plus the
// original extension, e.g. "abcd1234.svg"). Absence is reported, never an
// error, and the content type comes purely from the extension suffix.
func (a AssetResolver) ContentAsset(md5ext string) (path, contentType string, found bool) {
	if md5ext == "" || md5ext != filepath.Base(md5ext) || strings.Contains(md5ext, "..") {
		return "", "", false
	}
	path = filepath.Join(a.UploadsPath, "assets", md5ext)
	if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
		return "", "", false
	}
	return path, ContentTypeForExtension(md5ext), true
}

// ProjectBlob resolves the stored project bundle for the player.
func (a AssetResolver) ProjectBlob(projectID int64) (path string, found bool) {
	path = filepath.Join(a.UploadsPath, fmt.Sprintf("%d.sb3", projectID))
	info, err := os.Stat(path)
	return path, err == nil && info.Mode().IsRegular()
}

func ContentTypeForExtension(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mpeg"
	default:
		return "application/octet-stream"
	}
}
