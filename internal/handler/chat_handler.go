package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/z1shivam/blocklift/internal/chat"
	"github.com/z1shivam/blocklift/internal/logger"
	"github.com/z1shivam/blocklift/internal/logic"
)

// ChatHandler serves AI assistant sessions and streaming replies.
type ChatHandler struct {
	chat     *chat.Service
	sessions *logic.ChatSessionLogic
}

// NewChatHandler creates the chat handler.
func NewChatHandler(chatSvc *chat.Service, sessions *logic.ChatSessionLogic) *ChatHandler {
	return &ChatHandler{chat: chatSvc, sessions: sessions}
}

// CreateSession mints a fresh chat session ID.
func (h *ChatHandler) CreateSession(c *gin.Context) {
	session, err := h.sessions.CreateSession()
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to create chat session")
		return
	}
	SuccessResponse(c, http.StatusCreated, "Chat session created", gin.H{"id": session.ID})
}

type chatMessageRequest struct {
	Message string         `json:"message"`
	History []chat.Message `json:"history"`
}

// SendMessage streams the assistant's reply as newline-delimited JSON
// token chunks.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	sessionID := c.Param("id")
	if err := h.sessions.TouchSession(sessionID); err != nil {
		if errors.Is(err, logic.ErrSessionNotFound) {
			ErrorResponse(c, http.StatusNotFound, "Chat session not found")
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "Failed to load chat session")
		return
	}

	var req chatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		ErrorResponse(c, http.StatusBadRequest, "Message is required")
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		ErrorResponse(c, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	c.Header("Cache-Control", "no-store")
	c.Status(http.StatusOK)

	enc := json.NewEncoder(c.Writer)
	err := h.chat.Stream(c.Request.Context(), req.History, req.Message, func(token string) error {
		if err := enc.Encode(gin.H{"token": token}); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		// Headers are already sent, signal the failure in-stream.
		logger.Error("Chat stream for session %s failed: %v", sessionID, err)
		enc.Encode(gin.H{"error": "stream interrupted"})
		flusher.Flush()
	}
}
