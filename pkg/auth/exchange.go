package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GlebRadaev/freelancehub/internal/domain"
)

const exchangeKeyPrefix = "exchange:"

var ErrExchangeTokenNotFound = errors.New("exchange token not found or expired")

type ExchangeStoreInterface interface {
	Issue(ctx context.Context, principal domain.Principal) (string, error)
	Redeem(ctx context.Context, token string) (domain.Principal, error)
}

type redisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	GetDel(ctx context.Context, key string) *redis.StringCmd
}

// ExchangeStore keeps one-time login exchange tokens in Redis. A token
// lives for ttl and is deleted by the first successful Redeem, so any
// instance behind the load balancer can complete the exchange.
type ExchangeStore struct {
	client redisClient
	ttl    time.Duration
}

func NewExchangeStore(client redisClient, ttl time.Duration) *ExchangeStore {
	return &ExchangeStore{client: client, ttl: ttl}
}

type exchangePayload struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (s *ExchangeStore) Issue(ctx context.Context, principal domain.Principal) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("can't generate exchange token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	value, err := json.Marshal(exchangePayload{UserID: principal.ID.String(), Role: string(principal.Role)})
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, exchangeKeyPrefix+token, value, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("can't store exchange token: %w", err)
	}
	return token, nil
}

func (s *ExchangeStore) Redeem(ctx context.Context, token string) (domain.Principal, error) {
	raw, err := s.client.GetDel(ctx, exchangeKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Principal{}, ErrExchangeTokenNotFound
	}
	if err != nil {
		return domain.Principal{}, fmt.Errorf("can't redeem exchange token: %w", err)
	}

	var payload exchangePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.Principal{}, fmt.Errorf("corrupt exchange token payload: %w", err)
	}
	claims := Claims{UserID: payload.UserID, Role: payload.Role}
	return claims.Principal()
}
