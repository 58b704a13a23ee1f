// internal/service/cart/infrastructure/redis_repository.go
package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"mycelium/internal/service/cart/domain"
)

const cartKeyPrefix = "mycelium:cart:"

// RedisCartRepository 每个购物车一个 hash，field 是商品 ID，value 是行的 JSON
type RedisCartRepository struct {
	rdb goredis.Cmdable
	ttl time.Duration
}

func NewRedisCartRepository(rdb goredis.Cmdable, ttl time.Duration) *RedisCartRepository {
	return &RedisCartRepository{rdb: rdb, ttl: ttl}
}

func cartKey(cartID string) string {
	return cartKeyPrefix + cartID
}

func (r *RedisCartRepository) Load(ctx context.Context, cartID string) (*domain.Cart, error) {
	fields, err := r.rdb.HGetAll(ctx, cartKey(cartID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load cart %s: %w", cartID, err)
	}
	lines := make([]domain.Line, 0, len(fields))
	for field, raw := range fields {
		var line domain.Line
		if err := json.Unmarshal([]byte(raw), &line); err != nil {
			return nil, fmt.Errorf("corrupt cart line %s/%s: %w", cartID, field, err)
		}
		lines = append(lines, line)
	}
	return domain.NewCart(cartID, lines...), nil
}

// Save 整体覆盖购物车并刷新过期时间；空购物车直接删除 key
func (r *RedisCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	key := cartKey(cart.ID)
	if cart.IsEmpty() {
		return r.rdb.Del(ctx, key).Err()
	}

	values := make(map[string]interface{}, len(cart.Lines))
	for _, line := range cart.Lines {
		raw, err := json.Marshal(line)
		if err != nil {
			return err
		}
		values[strconv.FormatInt(line.ProductID, 10)] = raw
	}

	_, err := r.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, values)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save cart %s: %w", cart.ID, err)
	}
	return nil
}

func (r *RedisCartRepository) Delete(ctx context.Context, cartID string) error {
	return r.rdb.Del(ctx, cartKey(cartID)).Err()
}
