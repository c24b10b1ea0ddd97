package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestAsset(t *testing.T, dir string, parts ...string) string {
	t.Helper()
	path := filepath.Join(append([]string{dir}, parts...)...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestUserAvatarURLFallbackChain(t *testing.T) {
	dir := t.TempDir()
	resolver := NewAssetResolver(dir, "http://localhost:3000/")

	// No local derivation, no stored reference: default placeholder.
	assert.Equal(t, "http://localhost:3000/uploads/avatars/default_90x90.png",
		resolver.UserAvatarURL(7, nil))

	// Stored reference wins over the placeholder.
	stored := "https://cdn.example.com/u7.png"
	assert.Equal(t, stored, resolver.UserAvatarURL(7, &stored))

	// A materialized local derivation wins over everything.
	writeTestAsset(t, dir, "avatars", "7_90x90.png")
	assert.Equal(t, "http://localhost:3000/get_image/user/7_90x90.png",
		resolver.UserAvatarURL(7, &stored))
}

func TestProjectThumbnailURLFallbackChain(t *testing.T) {
	dir := t.TempDir()
	resolver := NewAssetResolver(dir, "http://localhost:3000")

	assert.Equal(t, resolver.DefaultThumbnailURL(), resolver.ProjectThumbnailURL(3, ""))
	assert.Equal(t, "https://cdn.example.com/p3.png",
		resolver.ProjectThumbnailURL(3, "https://cdn.example.com/p3.png"))

	writeTestAsset(t, dir, "thumbnails", "3_90x90.png")
	assert.Equal(t, "http://localhost:3000/uploads/thumbnails/3_90x90.png",
		resolver.ProjectThumbnailURL(3, "https://cdn.example.com/p3.png"))
}

func TestStudioThumbnailURL(t *testing.T) {
	dir := t.TempDir()
	resolver := NewAssetResolver(dir, "http://localhost:3000")

	assert.Equal(t, "http://localhost:3000/uploads/studios/thumbnails/default_90x90.png",
		resolver.StudioThumbnailURL(9))

	writeTestAsset(t, dir, "studios", "thumbnails", "9_90x90.png")
	assert.Equal(t, "http://localhost:3000/uploads/studios/thumbnails/9_90x90.png",
		resolver.StudioThumbnailURL(9))
}

func TestContentAsset(t *testing.T) {
	dir := t.TempDir()
	resolver := NewAssetResolver(dir, "http://localhost:3000")

	_, _, found := resolver.ContentAsset("missing.svg")
	assert.False(t, found)

	wanted := writeTestAsset(t, dir, "assets", "abc123.svg")
	path, contentType, found := resolver.ContentAsset("abc123.svg")
	require.True(t, found)
	assert.Equal(t, wanted, path)
	assert.Equal(t, "image/svg+xml", contentType)

	// Traversal attempts never resolve.
	_, _, found = resolver.ContentAsset("../assets/abc123.svg")
	assert.False(t, found)
	_, _, found = resolver.ContentAsset("")
	assert.False(t, found)
}

func TestProjectBlob(t *testing.T) {
	dir := t.TempDir()
	resolver := NewAssetResolver(dir, "http://localhost:3000")

	_, found := resolver.ProjectBlob(12)
	assert.False(t, found)

	writeTestAsset(t, dir, "12.sb3")
	path, found := resolver.ProjectBlob(12)
	require.True(t, found)
	assert.Equal(t, filepath.Join(dir, "12.sb3"), path)
}

func TestContentTypeForExtension(t *testing.T) {
	assert.Equal(t, "image/svg+xml", ContentTypeForExtension("a.svg"))
	assert.Equal(t, "image/png", ContentTypeForExtension("a.PNG"))
	assert.Equal(t, "audio/wav", ContentTypeForExtension("a.wav"))
	assert.Equal(t, "audio/mpeg", ContentTypeForExtension("a.mp3"))
	assert.Equal(t, "application/octet-stream", ContentTypeForExtension("a.gif"))
	assert.Equal(t, "application/octet-stream", ContentTypeForExtension("noext"))
}
