package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/avask/greenroom/internal/domain"
)

// RedisGateway keeps the room state under interview:{key}:* keys:
// a plain string for the latest code snapshot, a list of JSON records for
// the chat transcript and a string for the admission status.
type RedisGateway struct {
	rdb *redis.Client
}

func NewRedisGateway(addr string) (*RedisGateway, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().Str("module", "store.redis").Str("addr", addr).Msg("connected")
	return &RedisGateway{rdb: rdb}, nil
}

func codeKey(room domain.RoomKey) string {
	return fmt.Sprintf("interview:%s:code", room)
}

func chatKey(room domain.RoomKey) string {
	return fmt.Sprintf("interview:%s:chat", room)
}

func admissionKey(room domain.RoomKey) string {
	return fmt.Sprintf("interview:%s:admission", room)
}

func (g *RedisGateway) SaveCodeSnapshot(ctx context.Context, room domain.RoomKey, code string) error {
	if err := g.rdb.Set(ctx, codeKey(room), code, 0).Err(); err != nil {
		return fmt.Errorf("save code snapshot: %w", err)
	}
	return nil
}

func (g *RedisGateway) LoadCodeSnapshot(ctx context.Context, room domain.RoomKey) (string, error) {
	code, err := g.rdb.Get(ctx, codeKey(room)).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load code snapshot: %w", err)
	}
	return code, nil
}

type chatRecord struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
	SentAt string `json:"sent_at"`
}

func (g *RedisGateway) AppendChatMessage(ctx context.Context, msg domain.ChatMessage) error {
	b, err := json.Marshal(chatRecord{Sender: msg.Sender, Text: msg.Text, SentAt: msg.SentAt})
	if err != nil {
		return err
	}
	if err := g.rdb.RPush(ctx, chatKey(msg.Room), b).Err(); err != nil {
		return fmt.Errorf("append chat: %w", err)
	}
	return nil
}

func (g *RedisGateway) SetAdmissionStatus(ctx context.Context, room domain.RoomKey, status domain.AdmissionStatus) error {
	if err := g.rdb.Set(ctx, admissionKey(room), string(status), 0).Err(); err != nil {
		return fmt.Errorf("set admission status: %w", err)
	}
	return nil
}

func (g *RedisGateway) Close() error {
	return g.rdb.Close()
}
