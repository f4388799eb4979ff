package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ndemidov/campusforum/internal/realtime"
	"github.com/ndemidov/campusforum/internal/services"
	apperrors "github.com/ndemidov/campusforum/pkg/errors"
	"github.com/ndemidov/campusforum/pkg/response"
)

// MessageHandler exposes message creation, listing, and the live stream.
type MessageHandler struct {
	forum *services.ForumService
	hub   *realtime.Hub
}

// NewMessageHandler constructs a MessageHandler. The hub may be nil when
// realtime streaming is disabled.
func NewMessageHandler(forum *services.ForumService, hub *realtime.Hub) (*MessageHandler, error) {
	if forum == nil {
		return nil, errors.New("message handler: forum service is required")
	}
	return &MessageHandler{forum: forum, hub: hub}, nil
}

type createMessageRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

// POST /api/threads/:id/messages (authenticated)
func (h *MessageHandler) Create(c *gin.Context) {
	threadID, ok := threadIDParam(c)
	if !ok {
		response.Error(c, services.ErrThreadNotFound)
		return
	}

	var req createMessageRequest
	if !bindAndValidate(c, &req) {
		return
	}

	message, err := h.forum.CreateMessage(c.Request.Context(), threadID, req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, message)
}

// GET /api/threads/:id/messages (public)
func (h *MessageHandler) List(c *gin.Context) {
	threadID, ok := threadIDParam(c)
	if !ok {
		response.Error(c, services.ErrThreadNotFound)
		return
	}

	messages, err := h.forum.ListMessages(c.Request.Context(), threadID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, messages)
}

// GET /api/threads/:id/ws (public)
// Upgrades to a websocket delivering message.created events for the thread.
func (h *MessageHandler) Stream(c *gin.Context) {
	threadID, ok := threadIDParam(c)
	if !ok {
		response.Error(c, services.ErrThreadNotFound)
		return
	}

	if err := h.forum.ThreadExists(c.Request.Context(), threadID); err != nil {
		response.Error(c, err)
		return
	}

	if h.hub == nil {
		response.Error(c, apperrors.ErrNotFound)
		return
	}

	h.hub.Serve(threadID, c.Writer, c.Request)
}
