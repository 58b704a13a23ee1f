// internal/pkg/redis/client.go
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Client 对 go-redis 做了一层薄封装，统一连接参数和健康检查
type Client struct {
	rdb *goredis.Client
}

// NewClient 创建客户端并立即 PING 一次，连接失败时直接返回错误
func NewClient(ctx context.Context, addr, password string, db int) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	log.Info().Str("addr", addr).Msg("Connected to Redis.")
	return &Client{rdb: rdb}, nil
}

// GetClient 暴露底层客户端，供需要 pipeline / 事务的适配器使用
func (c *Client) GetClient() *goredis.Client {
	return c.rdb
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
