// Package service 组装业务服务
package service

import (
	"github.com/redis/go-redis/v9"

	"github.com/Luizhcrs/orb/internal/config"
	"github.com/Luizhcrs/orb/internal/repository"
	"github.com/Luizhcrs/orb/internal/secret"
	"github.com/Luizhcrs/orb/internal/service/agent"
	"github.com/Luizhcrs/orb/internal/service/chat"
	"github.com/Luizhcrs/orb/internal/service/llm"
	"github.com/Luizhcrs/orb/internal/service/memory"
	"github.com/Luizhcrs/orb/internal/service/settings"
	"github.com/Luizhcrs/orb/internal/service/tool"
)

// Services 服务集合，进程内唯一实例，由 main 构造后注入各处理器
type Services struct {
	Agent    *agent.Agent
	Chat     *chat.Service
	Settings *settings.Service
	Cache    *memory.Cache
}

// NewServices 创建所有服务
// redisClient 可为 nil（缓存退化为纯进程内）
func NewServices(cfg *config.Config, repos *repository.Repositories, cipher *secret.Cipher, redisClient *redis.Client) *Services {
	cache := memory.NewCache(redisClient)

	resolver := llm.NewResolver(repos.Config, cipher, &cfg.AI)
	selector := tool.NewSelector(tool.NewEmptyRegistry(), nil)

	agentSvc := agent.New(repos.Chat, resolver, selector, cache, &cfg.AI)
	chatSvc := chat.NewService(repos.Chat, cache)
	settingsSvc := settings.NewService(repos.Config, cipher, agentSvc.Invalidate)

	return &Services{
		Agent:    agentSvc,
		Chat:     chatSvc,
		Settings: settingsSvc,
		Cache:    cache,
	}
}
