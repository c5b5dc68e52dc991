// Package casher provides the Redis-backed cache of published forms,
// keyed by shareable link so public reads can skip the document store.
package casher

import (
	"context"
	"fmt"
	"time"

	"github.com/formforge/form-service/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// PUBLIC_FORM_KEY_TEMPLATE namespaces cached forms under "public_form:".
const PUBLIC_FORM_KEY_TEMPLATE = "public_form:%s"

// Casher handles caching operations using Redis as the backend.
type Casher struct {
	client *redis.Client
	logger *logger.Logger
	ttl    time.Duration
}

// Init creates a new Casher. Entries expire after ttl; a zero ttl
// keeps them until explicit invalidation.
func Init(client *redis.Client, logger *logger.Logger, ttl time.Duration) *Casher {
	return &Casher{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

func (c *Casher) Close() error {
	return c.client.Close()
}

func (c *Casher) IsHealthy() bool {
	return c.client.Ping(context.Background()).Err() == nil
}

// AddToCash stores payload under the shareable link key.
func (c *Casher) AddToCash(ctx context.Context, key string, payload any) error {
	res := c.client.Set(ctx, fmt.Sprintf(PUBLIC_FORM_KEY_TEMPLATE, key), payload, c.ttl)

	if err := res.Err(); err != nil {
		c.logger.Error("failed to cash payload",
			zap.String("key", key),
			zap.Error(err),
		)
		return err
	}

	return nil
}

// GetCashFor retrieves the cached bytes for a shareable link. A miss
// is returned as an error from the client.
func (c *Casher) GetCashFor(ctx context.Context, key string) ([]byte, error) {
	res := c.client.Get(ctx, fmt.Sprintf(PUBLIC_FORM_KEY_TEMPLATE, key))
	if err := res.Err(); err != nil {
		return nil, err
	}

	data, err := res.Bytes()
	if err != nil {
		c.logger.Error("error get cashed bytes",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, err
	}

	return data, nil
}

// RemoveFromCash invalidates the entry for a shareable link.
func (c *Casher) RemoveFromCash(ctx context.Context, key string) error {
	res := c.client.Del(ctx, fmt.Sprintf(PUBLIC_FORM_KEY_TEMPLATE, key))

	if err := res.Err(); err != nil {
		c.logger.Error("error delete from redis",
			zap.String("key", key),
			zap.Error(err))
		return err
	}

	return nil
}
