package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remixlab-backend-go/internal/config"
	"remixlab-backend-go/internal/services"
	"remixlab-backend-go/internal/testdb"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Config{
		JWTSecret:         "test-secret",
		JWTIssuer:         "remixlab-test",
		AccessTTLSeconds:  3600,
		RefreshTTLSeconds: 86400,
		UploadsPath:       t.TempDir(),
		PublicBaseURL:     "http://localhost:3000",
	}
	return NewServer(testdb.New(t), cfg, services.NewMetricsHub())
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	payload := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
	return payload
}

func registerUser(t *testing.T, handler http.Handler, username string) (accessToken string) {
	t.Helper()
	recorder := doJSON(t, handler, http.MethodPost, "/accounts/register/", "", map[string]string{
		"username": username,
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)
	payload := decodeBody(t, recorder)
	token, _ := payload["accessToken"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestLoginStatusSplit(t *testing.T) {
	server := newTestServer(t)
	router := server.Router()
	registerUser(t, router, "renat")

	// Unknown username is 404.
	recorder := doJSON(t, router, http.MethodPost, "/accounts/login/", "", map[string]string{
		"username": "nobody", "password": "hunter22",
	})
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "User not found", decodeBody(t, recorder)["message"])

	// Known username with the wrong password is 401, same body shape.
	recorder = doJSON(t, router, http.MethodPost, "/accounts/login/", "", map[string]string{
		"username": "renat", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, decodeBody(t, recorder), "message")

	recorder = doJSON(t, router, http.MethodPost, "/accounts/login/", "", map[string]string{
		"username": "renat", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeBody(t, recorder)
	assert.Equal(t, "renat", payload["username"])
	assert.NotEmpty(t, payload["accessToken"])
	assert.NotEmpty(t, payload["refreshToken"])
}

func TestLoginIsCaseSensitive(t *testing.T) {
	server := newTestServer(t)
	router := server.Router()
	registerUser(t, router, "Renat")

	recorder := doJSON(t, router, http.MethodPost, "/accounts/login/", "", map[string]string{
		"username": "renat", "password": "hunter22",
	})
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCheckUsername(t *testing.T) {
	server := newTestServer(t)
	router := server.Router()
	registerUser(t, router, "renat")

	recorder := doJSON(t, router, http.MethodGet, "/accounts/checkusername/renat", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeBody(t, recorder)
	assert.Equal(t, false, payload["success"])
	assert.Equal(t, "username exists", payload["msg"])

	// The availability probe is case-insensitive.
	recorder = doJSON(t, router, http.MethodGet, "/accounts/checkusername/RENAT", "", nil)
	payload = decodeBody(t, recorder)
	assert.Equal(t, false, payload["success"])

	recorder = doJSON(t, router, http.MethodGet, "/accounts/checkusername/fresh", "", nil)
	payload = decodeBody(t, recorder)
	assert.Equal(t, true, payload["success"])
}

func TestUserProfileShape(t *testing.T) {
	server := newTestServer(t)
	router := server.Router()
	registerUser(t, router, "renat")

	recorder := doJSON(t, router, http.MethodGet, "/users/renat/", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeBody(t, recorder)
	assert.Equal(t, "renat", payload["username"])
	profile, ok := payload["profile"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, profile, "avatar")
	assert.Contains(t, profile, "bio")
	assert.Contains(t, profile, "status")
	history, ok := payload["history"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, history, "joined")

	recorder = doJSON(t, router, http.MethodGet, "/users/nobody/", "", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestProjectLifecycle(t *testing.T) {
	server := newTestServer(t)
	router := server.Router()
	token := registerUser(t, router, "renat")

	recorder := doJSON(t, router, http.MethodPost, "/projects/", "", map[string]interface{}{
		"title": "Platformer",
		"author": map[string]interface{}{
			"id":       1,
			"username": "renat",
		},
	})
	require.Equal(t, http.StatusCreated, recorder.Code)
	created := decodeBody(t, recorder)
	projectID := int64(created["id"].(float64))
	require.Greater(t, projectID, int64(0))

	recorder = doJSON(t, router, http.MethodGet, "/projects/1", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	detail := decodeBody(t, recorder)
	assert.Equal(t, "Platformer", detail["title"])
	assert.Equal(t, "local-token", detail["project_token"])
	stats, ok := detail["stats"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, stats, "remixes")

	// Patch only the title; the rest holds.
	recorder = doJSON(t, router, http.MethodPatch, "/projects/1", "", map[string]string{"title": "Renamed"})
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Renamed", decodeBody(t, recorder)["title"])

	// An empty patch is a client error.
	recorder = doJSON(t, router, http.MethodPatch, "/projects/1", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// Loves require auth.
	recorder = doJSON(t, router, http.MethodPost, "/projects/1/loves", "", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = doJSON(t, router, http.MethodPost, "/projects/1/loves", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	recorder = doJSON(t, router, http.MethodPost, "/projects/1/loves", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = doJSON(t, router, http.MethodGet, "/projects/1", "", nil)
	detail = decodeBody(t, recorder)
	stats = detail["stats"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["loves"])

	recorder = doJSON(t, router, http.MethodGet, "/projects/count/all", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, float64(1), decodeBody(t, recorder)["count"])
}

func TestRemixEndpoint(t *testing.T) {
	server := newTestServer(t)
	router := server.Router()
	token := registerUser(t, router, "renat")

	recorder := doJSON(t, router, http.MethodPost, "/projects/", "", map[string]interface{}{
		"title":  "Root",
		"author": map[string]interface{}{"id": 1, "username": "renat"},
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = doJSON(t, router, http.MethodPost, "/projects/1/remixes", token, nil)
	require.Equal(t, http.StatusCreated, recorder.Code)
	remix := decodeBody(t, recorder)
	assert.Equal(t, "Root remix", remix["title"])

	recorder = doJSON(t, router, http.MethodGet, "/projects/1/remixes", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &items))
	assert.Len(t, items, 1)
}

func TestStudioEndpoints(t *testing.T) {
	server := newTestServer(t)
	router := server.Router()
	token := registerUser(t, router, "renat")

	// Creation requires auth.
	recorder := doJSON(t, router, http.MethodPost, "/studios/", "", map[string]string{"title": "Physics"})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = doJSON(t, router, http.MethodPost, "/studios/", token, map[string]string{"title": "Physics"})
	require.Equal(t, http.StatusCreated, recorder.Code)
	created := decodeBody(t, recorder)
	assert.Equal(t, "Physics", created["title"])

	recorder = doJSON(t, router, http.MethodGet, "/studios/1", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	detail := decodeBody(t, recorder)
	host, ok := detail["host"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "renat", host["username"])
	assert.Equal(t, detail["image"], detail["thumbnail_url"])

	recorder = doJSON(t, router, http.MethodGet, "/studios/99", "", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	// Add a curator by username, list, then remove by id.
	registerUser(t, router, "guest")
	recorder = doJSON(t, router, http.MethodPost, "/studios/1/curators", "", map[string]string{"username": "guest"})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = doJSON(t, router, http.MethodGet, "/studios/1/curators", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var curators []map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &curators))
	require.Len(t, curators, 1)
	assert.Equal(t, "guest", curators[0]["username"])

	recorder = doJSON(t, router, http.MethodDelete, "/studios/1/curators/2", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	recorder = doJSON(t, router, http.MethodGet, "/studios/1/curators", "", nil)
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &curators))
	assert.Empty(t, curators)
}

func TestStudioCommentsEndpoint(t *testing.T) {
	server := newTestServer(t)
	router := server.Router()
	token := registerUser(t, router, "renat")

	recorder := doJSON(t, router, http.MethodPost, "/studios/", token, map[string]string{"title": "Physics"})
	require.Equal(t, http.StatusCreated, recorder.Code)

	// Posting without a token is rejected.
	recorder = doJSON(t, router, http.MethodPost, "/proxy/comments/studio/1", "", map[string]string{"content": "hi"})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = doJSON(t, router, http.MethodPost, "/proxy/comments/studio/1", token, map[string]string{"content": "hi"})
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = doJSON(t, router, http.MethodPost, "/proxy/comments/studio/1", token, map[string]string{"content": "  "})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = doJSON(t, router, http.MethodGet, "/proxy/comments/studio/1", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeBody(t, recorder)
	comments, ok := payload["comments"].([]interface{})
	require.True(t, ok)
	require.Len(t, comments, 1)
	comment := comments[0].(map[string]interface{})
	assert.Equal(t, "hi", comment["content"])
	assert.Equal(t, "visible", comment["visibility"])
	author := comment["author"].(map[string]interface{})
	assert.Equal(t, "1", author["id"])
	assert.Equal(t, "renat", author["username"])
	assert.Equal(t, false, payload["more"])
}

func TestFeaturedEndpointShape(t *testing.T) {
	server := newTestServer(t)
	router := server.Router()

	recorder := doJSON(t, router, http.MethodGet, "/proxy/featured", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeBody(t, recorder)
	for _, key := range []string{
		"community_featured_projects",
		"community_featured_studios",
		"community_most_loved_projects",
		"community_most_remixed_projects",
		"community_newest_projects",
	} {
		slice, ok := payload[key].([]interface{})
		require.True(t, ok, key)
		assert.Empty(t, slice)
	}
}

func TestFollowEndpoints(t *testing.T) {
	server := newTestServer(t)
	router := server.Router()
	token := registerUser(t, router, "renat")
	registerUser(t, router, "guest")

	recorder := doJSON(t, router, http.MethodPost, "/users/guest/followers", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	// Self-follow is rejected at the service.
	recorder = doJSON(t, router, http.MethodPost, "/users/renat/followers", token, nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = doJSON(t, router, http.MethodDelete, "/users/guest/followers", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestStubSurfaces(t *testing.T) {
	server := newTestServer(t)
	router := server.Router()
	registerUser(t, router, "renat")

	recorder := doJSON(t, router, http.MethodGet, "/users/renat/messages/count", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, float64(0), decodeBody(t, recorder)["msg_count"])

	recorder = doJSON(t, router, http.MethodGet, "/users/renat/activity/count", "", nil)
	assert.Equal(t, float64(0), decodeBody(t, recorder)["count"])

	recorder = doJSON(t, router, http.MethodGet, "/news", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var news []map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &news))
	assert.Len(t, news, 2)

	recorder = doJSON(t, router, http.MethodGet, "/csrf_token/", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.NotEmpty(t, decodeBody(t, recorder)["token"])
}
