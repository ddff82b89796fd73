package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"finquiz/internal/quiz"
)

const keyPrefix = "quiz:session:"

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisStore keeps sessions as JSON values that expire after the TTL of
// inactivity. It lets several service instances share quiz progress.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (r *RedisStore) LoadSession(ctx context.Context, key quiz.SessionKey) (quiz.Session, bool, error) {
	raw, err := r.client.Get(ctx, sessionKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return quiz.Session{}, false, nil
	}
	if err != nil {
		return quiz.Session{}, false, err
	}

	s, err := decodeSession(raw)
	if err != nil {
		return quiz.Session{}, false, err
	}
	return s, true, nil
}

func (r *RedisStore) SaveSession(ctx context.Context, key quiz.SessionKey, s quiz.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKey(key), raw, r.ttl).Err()
}

func (r *RedisStore) DeleteSession(ctx context.Context, key quiz.SessionKey) error {
	return r.client.Del(ctx, sessionKey(key)).Err()
}

func (r *RedisStore) CurrentQuiz(ctx context.Context, sessionID string) (string, bool, error) {
	quizID, err := r.client.Get(ctx, currentKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return quizID, true, nil
}

func (r *RedisStore) SetCurrentQuiz(ctx context.Context, sessionID, quizID string) error {
	return r.client.Set(ctx, currentKey(sessionID), quizID, r.ttl).Err()
}

func sessionKey(key quiz.SessionKey) string {
	return keyPrefix + key.SessionID + ":quiz:" + key.QuizID
}

func currentKey(sessionID string) string {
	return keyPrefix + sessionID + ":current"
}

func decodeSession(raw []byte) (quiz.Session, error) {
	var s quiz.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return quiz.Session{}, fmt.Errorf("decode quiz session: %w", err)
	}
	if s.Answers == nil {
		s.Answers = make(map[string]int)
	}
	return s, nil
}
