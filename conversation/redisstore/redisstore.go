package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"studypal/conversation"
	"studypal/models"
)

const conversationKeyPrefix = "conversation:"

// Store persists conversations in Redis, one list per conversation with one
// JSON-encoded message per element. RPUSH of a whole turn is a single
// command, so appends within a conversation keep arrival order without any
// client-side locking.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) conversation.Store {
	return &Store{client: client}
}

// Conn opens and pings a Redis connection.
func Conn(ctx context.Context, host, port, pass string, db int, timeout time.Duration) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%s", host, port),
		DialTimeout: timeout,
		Password:    pass,
		DB:          db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed (%s:%s): %w", host, port, err)
	}
	return client, nil
}

func key(id string) string { return conversationKeyPrefix + id }

func (s *Store) EnsureConversation(ctx context.Context, id string) (models.Conversation, error) {
	if id == "" {
		id = uuid.NewString()
	}
	msgs, err := s.History(ctx, id)
	if err != nil {
		return models.Conversation{}, err
	}
	return models.Conversation{ID: id, Messages: msgs}, nil
}

func (s *Store) Append(ctx context.Context, id string, msgs ...models.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(msgs))
	for _, m := range msgs {
		data, err := json.Marshal(m)
		if err != nil {
			return err
		}
		values = append(values, data)
	}
	return s.client.RPush(ctx, key(id), values...).Err()
}

func (s *Store) History(ctx context.Context, id string) ([]models.Message, error) {
	raw, err := s.client.LRange(ctx, key(id), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	msgs := make([]models.Message, 0, len(raw))
	for _, item := range raw {
		var m models.Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}
