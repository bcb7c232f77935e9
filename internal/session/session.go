// Package session реализует серверное хранилище сессий поверх redis.
//
// Сессия — подтверждение аутентификации браузера: создается при входе,
// удаляется при выходе или по TTL. Хранилище передается во все потоки
// явно через интерфейс Store и никогда не используется как глобальное состояние.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/home-inventory/internal/config"
)

// ErrNotFound возвращается, когда сессия отсутствует в хранилище или истекла.
var ErrNotFound = errors.New("session not found")

// keyPrefix префикс ключей сессий в redis.
const keyPrefix = "session:"

// Data содержит минимальную идентичность, связанную с сессией.
type Data struct {
	UserUID string `json:"user_uid"`
	Email   string `json:"email"`
	Name    string `json:"name"`
}

// Store описывает контракт серверного хранилища сессий.
type Store interface {
	// Create создает новую сессию с указанной идентичностью и возвращает ее ID.
	Create(ctx context.Context, data Data) (string, error)

	// Get возвращает данные сессии или ErrNotFound.
	Get(ctx context.Context, id string) (*Data, error)

	// Delete удаляет сессию. Удаление несуществующей сессии не является ошибкой.
	Delete(ctx context.Context, id string) error
}

// RedisStore реализует Store поверх redis-клиента.
type RedisStore struct {
	db  *redis.Client
	ttl time.Duration
}

// New подключается к redis и возвращает готовое хранилище сессий.
func New(ctx context.Context, cfg config.RedisConnection, ttl time.Duration) (*RedisStore, error) {
	const op = "session.New"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &RedisStore{db: db, ttl: ttl}, nil
}

// NewWithClient оборачивает уже созданный redis-клиент, используется в тестах.
func NewWithClient(db *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{db: db, ttl: ttl}
}

// Create создает сессию с новым непредсказуемым ID и сроком жизни ttl.
func (s *RedisStore) Create(ctx context.Context, data Data) (string, error) {
	const op = "session.Create"
	id := uuid.NewString()
	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.db.Set(ctx, keyPrefix+id, jsonData, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// Get возвращает данные сессии по ее ID.
func (s *RedisStore) Get(ctx context.Context, id string) (*Data, error) {
	const op = "session.Get"
	val, err := s.db.Get(ctx, keyPrefix+id).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var data Data
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &data, nil
}

// Delete удаляет сессию, операция идемпотентна.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	const op = "session.Delete"
	if err := s.db.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает соединение с redis.
func (s *RedisStore) Close() error {
	return s.db.Close()
}
