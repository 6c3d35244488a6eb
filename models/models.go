package models

import (
	"errors"
	"time"
)

// ErrNotConfigured is returned when the LLM provider credential is missing
// and a chat or indexing operation is attempted.
var ErrNotConfigured = errors.New("llm provider not configured")

// ErrEmbedding is returned when the embedding provider rejects or times out.
// Callers are expected to degrade to context-free generation rather than
// failing the whole chat turn.
var ErrEmbedding = errors.New("embedding provider failure")

// ErrGeneration is returned when the completion provider errors, is
// rate-limited, or times out. Not locally recoverable.
var ErrGeneration = errors.New("generation provider failure")

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry in a conversation history.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is an append-only message history addressed by an opaque id.
type Conversation struct {
	ID       string    `json:"id"`
	Messages []Message `json:"messages"`
}

// Chunk is the atomic retrieval unit: a window of indexed text together with
// its embedding and the label of the document it came from. Immutable once
// indexed.
type Chunk struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Source    string    `json:"source"`
	Embedding []float32 `json:"-"`
}

// RetrievalResult pairs a chunk with its similarity score for one query.
// Ephemeral; never persisted.
type RetrievalResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}
