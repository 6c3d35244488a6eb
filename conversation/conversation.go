package conversation

import (
	"context"

	"studypal/models"
)

// Store holds per-conversation message history keyed by an opaque id.
//
// Unknown ids are never an error: addressing one creates a fresh empty
// conversation under that id. Appends within one conversation are serialized
// in arrival order; operations on different conversations run independently.
type Store interface {
	// EnsureConversation returns the conversation for id, creating it if
	// needed. An empty id mints a fresh unique one.
	EnsureConversation(ctx context.Context, id string) (models.Conversation, error)
	// Append adds the messages to the conversation in order, as one
	// serialized step. The conversation is created if it does not exist.
	Append(ctx context.Context, id string, msgs ...models.Message) error
	// History returns the messages of a conversation in arrival order.
	// Unknown ids yield an empty history.
	History(ctx context.Context, id string) ([]models.Message, error)
}
