package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ndemidov/campusforum/internal/services"
	"github.com/ndemidov/campusforum/pkg/response"
)

// ThreadHandler exposes thread creation and listing.
type ThreadHandler struct {
	forum *services.ForumService
}

// NewThreadHandler constructs a ThreadHandler.
func NewThreadHandler(forum *services.ForumService) (*ThreadHandler, error) {
	if forum == nil {
		return nil, errors.New("thread handler: forum service is required")
	}
	return &ThreadHandler{forum: forum}, nil
}

type createThreadRequest struct {
	Title string `json:"title" validate:"required,max=200"`
}

// POST /api/threads (authenticated)
func (h *ThreadHandler) Create(c *gin.Context) {
	var req createThreadRequest
	if !bindAndValidate(c, &req) {
		return
	}

	thread, err := h.forum.CreateThread(c.Request.Context(), req.Title)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, thread)
}

// GET /api/threads (public)
func (h *ThreadHandler) List(c *gin.Context) {
	threads, err := h.forum.ListThreads(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, threads)
}
