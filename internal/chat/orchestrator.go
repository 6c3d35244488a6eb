package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"studypal/conversation"
	"studypal/internal/docstore"
	"studypal/internal/metrics"
	"studypal/models"
	"studypal/provider"
)

const sourceSnippetLimit = 200

// Turn is the outcome of one chat exchange.
type Turn struct {
	Response       string
	ConversationID string
	Sources        []string
}

// Orchestrator runs a chat turn end to end: resolve the conversation,
// retrieve context, build the prompt, generate, persist the exchange.
//
// An embedding failure degrades the turn to context-free generation; a
// generation failure fails the turn and persists nothing.
type Orchestrator struct {
	conversations conversation.Store
	retriever     *docstore.Retriever
	provider      provider.Provider
	topK          int
	historyWindow int
	logger        *log.Logger
}

func NewOrchestrator(conversations conversation.Store, retriever *docstore.Retriever, p provider.Provider, topK, historyWindow int, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.New(log.Writer(), "[CHAT] ", log.LstdFlags)
	}
	return &Orchestrator{
		conversations: conversations,
		retriever:     retriever,
		provider:      p,
		topK:          topK,
		historyWindow: historyWindow,
		logger:        logger,
	}
}

// Ready reports whether the provider credential was configured.
func (o *Orchestrator) Ready() bool { return o.provider != nil }

// History returns the stored messages of a conversation.
func (o *Orchestrator) History(ctx context.Context, id string) ([]models.Message, error) {
	return o.conversations.History(ctx, id)
}

// Chat runs one turn. conversationID may be empty, in which case a fresh
// conversation is created and its id returned.
func (o *Orchestrator) Chat(ctx context.Context, message, conversationID string) (Turn, error) {
	if o.provider == nil {
		return Turn{}, models.ErrNotConfigured
	}

	conv, err := o.conversations.EnsureConversation(ctx, conversationID)
	if err != nil {
		return Turn{}, fmt.Errorf("resolve conversation: %w", err)
	}

	results, err := o.retriever.Query(ctx, message, o.topK)
	if err != nil {
		if !errors.Is(err, models.ErrEmbedding) {
			return Turn{}, err
		}
		// degraded mode: answer without retrieval context
		o.logger.Printf("retrieval failed for conversation %s, proceeding context-free: %v", conv.ID, err)
		metrics.DegradedTurns.Inc()
		results = nil
	}

	prompt := buildMessages(conv.Messages, results, message, o.historyWindow)

	answer, err := o.provider.ChatCompletion(ctx, prompt)
	if err != nil {
		metrics.ProviderCalls.WithLabelValues("completion", "error").Inc()
		return Turn{}, fmt.Errorf("%w: %v", models.ErrGeneration, err)
	}
	metrics.ProviderCalls.WithLabelValues("completion", "ok").Inc()

	now := time.Now().UTC()
	err = o.conversations.Append(ctx, conv.ID,
		models.Message{Role: models.RoleUser, Content: message, Timestamp: now},
		models.Message{Role: models.RoleAssistant, Content: answer, Timestamp: now},
	)
	if err != nil {
		return Turn{}, fmt.Errorf("persist exchange: %w", err)
	}

	sources := make([]string, 0, len(results))
	for _, r := range results {
		sources = append(sources, snippet(r.Chunk.Text, sourceSnippetLimit))
	}
	return Turn{Response: answer, ConversationID: conv.ID, Sources: sources}, nil
}
