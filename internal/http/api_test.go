package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"noteful-server/internal/auth"
	"noteful-server/internal/domain"
	"noteful-server/internal/repository/sqlite"
	"noteful-server/internal/service"
)

type testServer struct {
	router *gin.Engine
	tokens *auth.TokenService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	userRepo := sqlite.NewUserRepository(db)
	folderRepo := sqlite.NewFolderRepository(db)
	noteRepo := sqlite.NewNoteRepository(db)
	require.NoError(t, userRepo.Init(ctx))
	require.NoError(t, folderRepo.Init(ctx))
	require.NoError(t, noteRepo.Init(ctx))

	tokens := auth.NewTokenService("test-secret", time.Hour)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(
		service.NewUserService(userRepo, bcrypt.MinCost),
		service.NewFolderService(folderRepo),
		service.NewNoteService(noteRepo, folderRepo),
		tokens,
		logger,
	)
	handler.RegisterRoutes(router)

	return &testServer{router: router, tokens: tokens}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// register + login, returning the bearer token.
func (s *testServer) signup(t *testing.T, username string) string {
	t.Helper()

	w := s.do(t, http.MethodPost, "/api/users", "", gin.H{
		"username": username,
		"password": "examplePass",
		"fullname": "Example User",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPost, "/api/login", "", gin.H{
		"username": username,
		"password": "examplePass",
	})
	require.Equal(t, http.StatusOK, w.Code)
	return decode(t, w)["authToken"].(string)
}

func TestCreateUser(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/users", "", gin.H{
		"username": "exampleUser",
		"password": "examplePass",
		"fullname": "Example User",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	require.Len(t, body, 3) // exactly id, username, fullname
	require.NotEmpty(t, body["id"])
	require.Equal(t, "exampleUser", body["username"])
	require.Equal(t, "Example User", body["fullname"])
}

func TestCreateUser_Duplicate(t *testing.T) {
	srv := newTestServer(t)
	srv.signup(t, "exampleUser")

	w := srv.do(t, http.MethodPost, "/api/users", "", gin.H{
		"username": "exampleUser",
		"password": "anotherPass",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "username already exists", decode(t, w)["message"])
}

func TestCreateUser_Validation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name     string
		payload  gin.H
		message  string
		location string
	}{
		{"missing username", gin.H{"password": "examplePass"}, "Missing field", "username"},
		{"missing password", gin.H{"username": "exampleUser"}, "Missing field", "password"},
		{"non-string username", gin.H{"username": 1, "password": "examplePass"}, "Incorrect field type: expected string", "username"},
		{"non-trimmed username", gin.H{"username": " untrimmed", "password": "examplePass"}, "Cannot start or end with whitespace", "username"},
		{"empty username", gin.H{"username": "", "password": "examplePass"}, "Must be at least 1 characters long", "username"},
		{"short password", gin.H{"username": "exampleUser", "password": "short"}, "Must be at least 8 characters long", "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := srv.do(t, http.MethodPost, "/api/users", "", tt.payload)
			require.Equal(t, http.StatusUnprocessableEntity, w.Code)

			body := decode(t, w)
			require.Equal(t, float64(http.StatusUnprocessableEntity), body["code"])
			require.Equal(t, "ValidationError", body["reason"])
			require.Equal(t, tt.message, body["message"])
			require.Equal(t, tt.location, body["location"])
		})
	}
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)
	srv.signup(t, "exampleUser")

	w := srv.do(t, http.MethodPost, "/api/login", "", gin.H{
		"username": "exampleUser",
		"password": "examplePass",
	})
	require.Equal(t, http.StatusOK, w.Code)

	token := decode(t, w)["authToken"].(string)
	identity, err := srv.tokens.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "exampleUser", identity.Username)
}

func TestLogin_Failures(t *testing.T) {
	srv := newTestServer(t)
	srv.signup(t, "exampleUser")

	// no credentials at all
	w := srv.do(t, http.MethodPost, "/api/login", "", gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Bad Request", decode(t, w)["message"])

	// wrong password and unknown user are the same 401
	w = srv.do(t, http.MethodPost, "/api/login", "", gin.H{"username": "exampleUser", "password": "wrongPassword"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Unauthorized", decode(t, w)["message"])

	w = srv.do(t, http.MethodPost, "/api/login", "", gin.H{"username": "wrongUser", "password": "examplePass"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Unauthorized", decode(t, w)["message"])
}

func TestRefresh(t *testing.T) {
	srv := newTestServer(t)
	token := srv.signup(t, "exampleUser")

	w := srv.do(t, http.MethodPost, "/api/refresh", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	refreshed := decode(t, w)["authToken"].(string)
	identity, err := srv.tokens.Verify(refreshed)
	require.NoError(t, err)
	require.Equal(t, "exampleUser", identity.Username)

	w = srv.do(t, http.MethodPost, "/api/refresh", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	expired, err := auth.NewTokenService("test-secret", -time.Minute).Issue(identity)
	require.NoError(t, err)
	w = srv.do(t, http.MethodPost, "/api/refresh", expired, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestResources_RequireAuth(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/api/folders", "/api/notes"} {
		w := srv.do(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, "Unauthorized", decode(t, w)["message"])
	}

	forged, err := auth.NewTokenService("other-secret", time.Hour).Issue(&domain.User{
		ID:       "00000000-0000-4000-8000-000000000000",
		Username: "forger",
	})
	require.NoError(t, err)
	w := srv.do(t, http.MethodGet, "/api/folders", forged, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFolders_CRUD(t *testing.T) {
	srv := newTestServer(t)
	token := srv.signup(t, "exampleUser")

	w := srv.do(t, http.MethodPost, "/api/folders", token, gin.H{"name": "Work"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode(t, w)
	id := created["id"].(string)
	require.Equal(t, "Work", created["name"])
	require.NotEmpty(t, created["userId"])

	// duplicate name for the same owner
	w = srv.do(t, http.MethodPost, "/api/folders", token, gin.H{"name": "Work"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Folder name already exists", decode(t, w)["message"])

	// missing name
	w = srv.do(t, http.MethodPost, "/api/folders", token, gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Missing `name` in request body", decode(t, w)["message"])

	// list is sorted by name
	w = srv.do(t, http.MethodPost, "/api/folders", token, gin.H{"name": "Archive"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = srv.do(t, http.MethodGet, "/api/folders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeList(t, w)
	require.Len(t, list, 2)
	require.Equal(t, "Archive", list[0]["name"])
	require.Equal(t, "Work", list[1]["name"])

	// get
	w = srv.do(t, http.MethodGet, "/api/folders/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// invalid id
	w = srv.do(t, http.MethodGet, "/api/folders/NOT-A-VALID-ID", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "The `id` is not valid", decode(t, w)["message"])

	// rename
	w = srv.do(t, http.MethodPut, "/api/folders/"+id, token, gin.H{"name": "Renamed"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Renamed", decode(t, w)["name"])

	// renaming onto an existing name
	w = srv.do(t, http.MethodPut, "/api/folders/"+id, token, gin.H{"name": "Archive"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Folder name already exists", decode(t, w)["message"])

	// delete
	w = srv.do(t, http.MethodDelete, "/api/folders/"+id, token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = srv.do(t, http.MethodGet, "/api/folders/"+id, token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Not Found", decode(t, w)["message"])
}

func TestFolders_CrossTenant(t *testing.T) {
	srv := newTestServer(t)
	tokenA := srv.signup(t, "userA")
	tokenB := srv.signup(t, "userB")

	w := srv.do(t, http.MethodPost, "/api/folders", tokenA, gin.H{"name": "Private"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["id"].(string)

	// same name under another owner is allowed
	w = srv.do(t, http.MethodPost, "/api/folders", tokenB, gin.H{"name": "Private"})
	require.Equal(t, http.StatusCreated, w.Code)

	// reads and updates answer 404 as if the folder did not exist
	w = srv.do(t, http.MethodGet, "/api/folders/"+id, tokenB, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	w = srv.do(t, http.MethodPut, "/api/folders/"+id, tokenB, gin.H{"name": "Stolen"})
	require.Equal(t, http.StatusNotFound, w.Code)

	// delete no-ops with 204 and leaves the folder count unchanged
	w = srv.do(t, http.MethodDelete, "/api/folders/"+id, tokenB, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = srv.do(t, http.MethodGet, "/api/folders", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeList(t, w), 1)
}

func TestNotes_CRUD(t *testing.T) {
	srv := newTestServer(t)
	token := srv.signup(t, "exampleUser")

	w := srv.do(t, http.MethodPost, "/api/folders", token, gin.H{"name": "Work"})
	require.Equal(t, http.StatusCreated, w.Code)
	folderID := decode(t, w)["id"].(string)

	w = srv.do(t, http.MethodPost, "/api/notes", token, gin.H{
		"title":    "first",
		"content":  "hello",
		"folderId": folderID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode(t, w)
	noteID := created["id"].(string)
	require.Equal(t, folderID, created["folderId"])

	// missing title
	w = srv.do(t, http.MethodPost, "/api/notes", token, gin.H{"content": "no title"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Missing `title` in request body", decode(t, w)["message"])

	// duplicate titles are fine for notes
	w = srv.do(t, http.MethodPost, "/api/notes", token, gin.H{"title": "first"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = srv.do(t, http.MethodGet, "/api/notes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeList(t, w), 2)

	w = srv.do(t, http.MethodPut, "/api/notes/"+noteID, token, gin.H{"title": "renamed", "content": "hello"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode(t, w)
	require.Equal(t, "renamed", updated["title"])
	require.Nil(t, updated["folderId"])

	w = srv.do(t, http.MethodDelete, "/api/notes/"+noteID, token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = srv.do(t, http.MethodGet, "/api/notes/"+noteID, token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotes_ForeignFolderRef(t *testing.T) {
	srv := newTestServer(t)
	tokenA := srv.signup(t, "userA")
	tokenB := srv.signup(t, "userB")

	w := srv.do(t, http.MethodPost, "/api/folders", tokenA, gin.H{"name": "Private"})
	require.Equal(t, http.StatusCreated, w.Code)
	folderID := decode(t, w)["id"].(string)

	w = srv.do(t, http.MethodPost, "/api/notes", tokenB, gin.H{
		"title":    "intruder",
		"folderId": folderID,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "The `folderId` is not valid", decode(t, w)["message"])
}

func TestFolderDelete_DetachesNotes(t *testing.T) {
	srv := newTestServer(t)
	token := srv.signup(t, "exampleUser")

	w := srv.do(t, http.MethodPost, "/api/folders", token, gin.H{"name": "Doomed"})
	require.Equal(t, http.StatusCreated, w.Code)
	folderID := decode(t, w)["id"].(string)

	w = srv.do(t, http.MethodPost, "/api/notes", token, gin.H{"title": "survivor", "folderId": folderID})
	require.Equal(t, http.StatusCreated, w.Code)
	noteID := decode(t, w)["id"].(string)

	w = srv.do(t, http.MethodDelete, "/api/folders/"+folderID, token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = srv.do(t, http.MethodGet, "/api/notes/"+noteID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Nil(t, decode(t, w)["folderId"])
}

func TestListUsers_Sanitized(t *testing.T) {
	srv := newTestServer(t)
	srv.signup(t, "exampleUser")

	w := srv.do(t, http.MethodGet, "/api/users", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	users := decodeList(t, w)
	require.Len(t, users, 1)
	require.Len(t, users[0], 3) // id, username, fullname only
	require.NotContains(t, w.Body.String(), "password")
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	w := srv.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
