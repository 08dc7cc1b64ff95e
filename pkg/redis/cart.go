package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/swara2402/Trenzy/pkg/models"
)

// cartTTL keeps abandoned carts around for a day before Redis reclaims them.
const cartTTL = 24 * time.Hour

// CartStore is the durable backing for per-session carts. The record is a
// JSON list of {product_id, quantity} pairs; JSON rather than a hash because
// the list keeps the cart's display order, which a hash would lose.
type CartStore struct {
	client *redis.Client
}

func NewCartStore(client *redis.Client) *CartStore {
	return &CartStore{client: client}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}

func (s *CartStore) SaveLines(ctx context.Context, sessionID string, lines []models.PersistedCartLine) error {
	if len(lines) == 0 {
		// An emptied cart deletes the record instead of storing "[]".
		return s.DeleteLines(ctx, sessionID)
	}

	payload, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to marshal cart %s: %w", sessionID, err)
	}

	if err := s.client.Set(ctx, cartKey(sessionID), payload, cartTTL).Err(); err != nil {
		return fmt.Errorf("failed to save cart %s: %w", sessionID, err)
	}
	return nil
}

// LoadLines returns (nil, nil) when no record exists for the session.
func (s *CartStore) LoadLines(ctx context.Context, sessionID string) ([]models.PersistedCartLine, error) {
	payload, err := s.client.Get(ctx, cartKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart %s: %w", sessionID, err)
	}

	var lines []models.PersistedCartLine
	if err := json.Unmarshal([]byte(payload), &lines); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart %s: %w", sessionID, err)
	}
	return lines, nil
}

func (s *CartStore) DeleteLines(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart %s: %w", sessionID, err)
	}
	return nil
}
