package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"studypal/internal/chat"
	"studypal/models"
)

// Chatter is the chat orchestration surface the handler needs.
type Chatter interface {
	Ready() bool
	Chat(ctx context.Context, message, conversationID string) (chat.Turn, error)
	History(ctx context.Context, id string) ([]models.Message, error)
}

// Indexer accepts raw documents for the retrieval store.
type Indexer interface {
	Index(ctx context.Context, docs []string, sources []string) ([]string, error)
}

// ChatHandler serves the RAG chat endpoints.
type ChatHandler struct {
	Orch  Chatter
	Index Indexer
}

func (h *ChatHandler) Register(g *echo.Group) {
	g.POST("", h.chat)
	g.POST("/index-documents", h.indexDocuments)
	g.GET("/conversations/:id", h.conversation)
}

func (h *ChatHandler) chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message required")
	}

	turn, err := h.Orch.Chat(c.Request().Context(), req.Message, req.ConversationID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotConfigured):
			return echo.NewHTTPError(http.StatusServiceUnavailable, "RAG chatbot is not initialized, check the provider API key configuration")
		case errors.Is(err, models.ErrGeneration):
			return echo.NewHTTPError(http.StatusServiceUnavailable, "language model is unavailable, try again later")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	sources := turn.Sources
	if sources == nil {
		sources = []string{}
	}
	return c.JSON(http.StatusOK, ChatResponse{
		Response:       turn.Response,
		ConversationID: turn.ConversationID,
		Sources:        sources,
	})
}

func (h *ChatHandler) indexDocuments(c echo.Context) error {
	if !h.Orch.Ready() {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "RAG chatbot is not initialized, check the provider API key configuration")
	}

	var docs []string
	if err := c.Bind(&docs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.Index.Index(c.Request().Context(), docs, nil); err != nil {
		switch {
		case errors.Is(err, models.ErrNotConfigured), errors.Is(err, models.ErrEmbedding):
			return echo.NewHTTPError(http.StatusServiceUnavailable, "document indexing is not available: "+err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, IndexResponse{Message: fmt.Sprintf("Successfully indexed %d documents", len(docs))})
}

func (h *ChatHandler) conversation(c echo.Context) error {
	id := c.Param("id")
	msgs, err := h.Orch.History(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return c.JSON(http.StatusOK, ConversationResponse{ConversationID: id, Messages: msgs})
}
