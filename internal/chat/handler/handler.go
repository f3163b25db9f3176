package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ruffo_chat_backend/internal/chat/transport"
	"ruffo_chat_backend/platform/httpkit"
	"ruffo_chat_backend/platform/validator"
)

// ChatService is the chat surface the handler needs.
type ChatService interface {
	HandleMessage(ctx context.Context, threadID, channel, message string) (string, error)
}

// Handler handles HTTP chat requests.
type Handler struct {
	svc ChatService
	val *validator.Validator
}

// New creates a new chat handler.
func New(svc ChatService, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// PostMessage handles one chat turn.
// POST /api/v1/chat
func (h *Handler) PostMessage(c *gin.Context) {
	var req transport.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	threadID := req.ThreadID
	if threadID == "" {
		threadID = uuid.New().String()
	}

	reply, err := h.svc.HandleMessage(c.Request.Context(), threadID, "http", req.Message)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ChatResponse{Response: reply, ThreadID: threadID})
}
