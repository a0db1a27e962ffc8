package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"noteful-server/internal/auth"
	"noteful-server/internal/domain"
	"noteful-server/internal/service"
	"noteful-server/internal/validate"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users   service.UserService
	folders service.FolderService
	notes   service.NoteService
	tokens  *auth.TokenService
	logger  *logrus.Logger
}

func NewHandler(users service.UserService, folders service.FolderService, notes service.NoteService, tokens *auth.TokenService, logger *logrus.Logger) *Handler {
	return &Handler{
		users:   users,
		folders: folders,
		notes:   notes,
		tokens:  tokens,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.POST("/login", h.login)
		api.POST("/refresh", h.requireAuth(), h.refresh)
		api.POST("/users", h.createUser)
		api.GET("/users", h.listUsers)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		folders := api.Group("/folders", h.requireAuth())
		{
			folders.GET("", h.listFolders)
			folders.POST("", h.createFolder)
			folders.GET("/:id", h.getFolder)
			folders.PUT("/:id", h.updateFolder)
			folders.DELETE("/:id", h.deleteFolder)
		}

		notes := api.Group("/notes", h.requireAuth())
		{
			notes.GET("", h.listNotes)
			notes.POST("", h.createNote)
			notes.GET("/:id", h.getNote)
			notes.PUT("/:id", h.updateNote)
			notes.DELETE("/:id", h.deleteNote)
		}
	}
}

// respondError maps domain failures to their response shape. Anything
// unanticipated is logged server-side and answered with an opaque 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"message": "The `id` is not valid"})
	case errors.Is(err, domain.ErrInvalidFolderRef):
		c.JSON(http.StatusBadRequest, gin.H{"message": "The `folderId` is not valid"})
	case errors.Is(err, domain.ErrDuplicateFolderName):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Folder name already exists"})
	case errors.Is(err, domain.ErrDuplicateUsername):
		c.JSON(http.StatusBadRequest, gin.H{"message": "username already exists"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
	default:
		h.logger.WithError(err).Error("internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
	}
}

// --- auth ---

func (h *Handler) login(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bad Request"})
		return
	}

	username, okU := payload["username"].(string)
	password, okP := payload["password"].(string)
	if !okU || !okP || username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bad Request"})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"authToken": token})
}

func (h *Handler) refresh(c *gin.Context) {
	token, err := h.tokens.Refresh(currentUser(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authToken": token})
}

// --- users ---

var userPayloadSpec = validate.Spec{
	Order: []string{"username", "password", "fullname"},
	Fields: map[string]validate.FieldSpec{
		"username": {Required: true, Trimmed: true, MinLength: 1},
		"password": {Required: true, Trimmed: true, MinLength: 8, MaxLength: 72},
		"fullname": {},
	},
}

func (h *Handler) createUser(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Bad Request"})
		return
	}

	if fieldErr := validate.Apply(payload, userPayloadSpec); fieldErr != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"code":     http.StatusUnprocessableEntity,
			"reason":   "ValidationError",
			"message":  fieldErr.Message,
			"location": fieldErr.Field,
		})
		return
	}

	username := payload["username"].(string)
	password := payload["password"].(string)
	fullName, _ := payload["fullname"].(string)

	user, err := h.users.Register(c.Request.Context(), username, password, fullName)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Location", c.Request.URL.Path+"/"+user.ID)
	c.JSON(http.StatusCreated, userToResponse(user))
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(&users[i])
	}
	c.JSON(http.StatusOK, resp)
}

// --- folders ---

type folderRequest struct {
	Name string `json:"name"`
}

func (h *Handler) listFolders(c *gin.Context) {
	folders, err := h.folders.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]FolderResponse, len(folders))
	for i := range folders {
		resp[i] = folderToResponse(folders[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getFolder(c *gin.Context) {
	folder, err := h.folders.Get(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, folderToResponse(*folder))
}

func (h *Handler) createFolder(c *gin.Context) {
	var req folderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing `name` in request body"})
		return
	}

	folder, err := h.folders.Create(c.Request.Context(), currentUser(c).ID, req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Location", c.Request.URL.Path+"/"+folder.ID)
	c.JSON(http.StatusCreated, folderToResponse(*folder))
}

func (h *Handler) updateFolder(c *gin.Context) {
	var req folderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing `name` in request body"})
		return
	}

	folder, err := h.folders.Update(c.Request.Context(), currentUser(c).ID, c.Param("id"), req.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, folderToResponse(*folder))
}

func (h *Handler) deleteFolder(c *gin.Context) {
	if err := h.folders.Delete(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- notes ---

type noteRequest struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	FolderID *string `json:"folderId"`
}

func (h *Handler) listNotes(c *gin.Context) {
	notes, err := h.notes.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]NoteResponse, len(notes))
	for i := range notes {
		resp[i] = noteToResponse(notes[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getNote(c *gin.Context) {
	note, err := h.notes.Get(c.Request.Context(), currentUser(c).ID, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, noteToResponse(*note))
}

func (h *Handler) createNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing `title` in request body"})
		return
	}

	note, err := h.notes.Create(c.Request.Context(), currentUser(c).ID, req.Title, req.Content, req.FolderID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Location", c.Request.URL.Path+"/"+note.ID)
	c.JSON(http.StatusCreated, noteToResponse(*note))
}

func (h *Handler) updateNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing `title` in request body"})
		return
	}

	note, err := h.notes.Update(c.Request.Context(), currentUser(c).ID, c.Param("id"), req.Title, req.Content, req.FolderID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, noteToResponse(*note))
}

func (h *Handler) deleteNote(c *gin.Context) {
	if err := h.notes.Delete(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- responses ---

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullname"`
}

type FolderResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UserID    string `json:"userId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type NoteResponse struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	FolderID  *string `json:"folderId"`
	UserID    string  `json:"userId"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName,
	}
}

func folderToResponse(folder domain.Folder) FolderResponse {
	return FolderResponse{
		ID:        folder.ID,
		Name:      folder.Name,
		UserID:    folder.OwnerID,
		CreatedAt: folder.CreatedAt.Format(time.RFC3339),
		UpdatedAt: folder.UpdatedAt.Format(time.RFC3339),
	}
}

func noteToResponse(note domain.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		FolderID:  note.FolderID,
		UserID:    note.OwnerID,
		CreatedAt: note.CreatedAt.Format(time.RFC3339),
		UpdatedAt: note.UpdatedAt.Format(time.RFC3339),
	}
}
