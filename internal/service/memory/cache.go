// Package memory 提供会话上下文的进程内缓存
// 数据库是持久层，这里只是热路径的快照，丢失可从数据库重建
package memory

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// 每个会话最多缓存的消息数
	maxCachedMessages = 20
	// 缓存在 Redis 中的过期时间
	cacheTTL = 24 * time.Hour
	// Redis key 前缀
	cacheKeyPrefix = "orb:context:"
)

// Message 缓存中的一条消息
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Cache 会话上下文缓存
// redis 客户端可为 nil，此时只使用进程内存
type Cache struct {
	mu     sync.RWMutex
	memory map[string][]Message
	redis  *redis.Client
}

// NewCache 创建上下文缓存
func NewCache(redisClient *redis.Client) *Cache {
	return &Cache{
		memory: make(map[string][]Message),
		redis:  redisClient,
	}
}

// Get 获取会话的缓存消息（时间升序副本）
// 进程内未命中时尝试从 Redis 恢复
func (c *Cache) Get(ctx context.Context, sessionID string) []Message {
	c.mu.RLock()
	cached, ok := c.memory[sessionID]
	c.mu.RUnlock()

	if !ok && c.redis != nil {
		if restored := c.loadFromRedis(ctx, sessionID); restored != nil {
			c.mu.Lock()
			c.memory[sessionID] = restored
			c.mu.Unlock()
			cached = restored
		}
	}

	out := make([]Message, len(cached))
	copy(out, cached)
	return out
}

// Append 追加消息，超出上限时淘汰最旧的
func (c *Cache) Append(ctx context.Context, sessionID string, msgs ...Message) {
	c.mu.Lock()
	cached := append(c.memory[sessionID], msgs...)
	if len(cached) > maxCachedMessages {
		cached = cached[len(cached)-maxCachedMessages:]
	}
	c.memory[sessionID] = cached
	snapshot := make([]Message, len(cached))
	copy(snapshot, cached)
	c.mu.Unlock()

	if c.redis != nil {
		if err := c.saveToRedis(ctx, sessionID, snapshot); err != nil {
			log.Printf("Warning: failed to mirror context to redis: %v", err)
		}
	}
}

// Replace 用数据库加载的消息整体替换缓存
func (c *Cache) Replace(ctx context.Context, sessionID string, msgs []Message) {
	if len(msgs) > maxCachedMessages {
		msgs = msgs[len(msgs)-maxCachedMessages:]
	}
	snapshot := make([]Message, len(msgs))
	copy(snapshot, msgs)

	c.mu.Lock()
	c.memory[sessionID] = snapshot
	c.mu.Unlock()

	if c.redis != nil {
		if err := c.saveToRedis(ctx, sessionID, snapshot); err != nil {
			log.Printf("Warning: failed to mirror context to redis: %v", err)
		}
	}
}

// Clear 清除会话缓存
func (c *Cache) Clear(ctx context.Context, sessionID string) {
	c.mu.Lock()
	delete(c.memory, sessionID)
	c.mu.Unlock()

	if c.redis != nil {
		if err := c.redis.Del(ctx, cacheKeyPrefix+sessionID).Err(); err != nil {
			log.Printf("Warning: failed to delete context from redis: %v", err)
		}
	}
}

// Len 会话当前缓存的消息数
func (c *Cache) Len(sessionID string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.memory[sessionID])
}

func (c *Cache) loadFromRedis(ctx context.Context, sessionID string) []Message {
	data, err := c.redis.Get(ctx, cacheKeyPrefix+sessionID).Result()
	if err != nil {
		return nil
	}
	var msgs []Message
	if err := json.Unmarshal([]byte(data), &msgs); err != nil {
		return nil
	}
	return msgs
}

func (c *Cache) saveToRedis(ctx context.Context, sessionID string, msgs []Message) error {
	data, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, cacheKeyPrefix+sessionID, data, cacheTTL).Err()
}
