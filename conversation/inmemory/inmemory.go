package inmemory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"studypal/conversation"
	"studypal/models"
)

type entry struct {
	mu       sync.Mutex
	messages []models.Message
}

// Store keeps conversations in process memory. Each conversation carries its
// own mutex so appends serialize per id while distinct conversations proceed
// in parallel.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func NewStore() conversation.Store {
	return &Store{entries: make(map[string]*entry)}
}

func (s *Store) ensure(id string) (string, *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		id = uuid.NewString()
	}
	e, ok := s.entries[id]
	if !ok {
		e = &entry{}
		s.entries[id] = e
	}
	return id, e
}

func (s *Store) EnsureConversation(ctx context.Context, id string) (models.Conversation, error) {
	id, e := s.ensure(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	msgs := make([]models.Message, len(e.messages))
	copy(msgs, e.messages)
	return models.Conversation{ID: id, Messages: msgs}, nil
}

func (s *Store) Append(ctx context.Context, id string, msgs ...models.Message) error {
	_, e := s.ensure(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.messages = append(e.messages, msgs...)
	return nil
}

func (s *Store) History(ctx context.Context, id string) ([]models.Message, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	msgs := make([]models.Message, len(e.messages))
	copy(msgs, e.messages)
	return msgs, nil
}
