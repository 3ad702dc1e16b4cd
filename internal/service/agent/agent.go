// Package agent 实现消息处理管线
// 单次请求的状态流：received → session_validated → context_loaded →
// tool_checked → response_generated → context_saved → done
package agent

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Luizhcrs/orb/internal/config"
	"github.com/Luizhcrs/orb/internal/model"
	"github.com/Luizhcrs/orb/internal/repository"
	"github.com/Luizhcrs/orb/internal/service/llm"
	"github.com/Luizhcrs/orb/internal/service/memory"
	"github.com/Luizhcrs/orb/internal/service/tool"
)

const (
	// 加载的历史消息上限
	contextWindow = 20
	// 送入模型的最近轮数
	generationWindow = 10
	// 会话标题最大长度
	titleMaxRunes = 50

	// 管线级失败的兜底文案
	pipelineApology = "Desculpe, ocorreu um erro ao processar sua mensagem. Tente novamente."
)

// Input 一次入站消息
type Input struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
	ImageData string `json:"image_data,omitempty"`
}

// Response 统一响应信封
type Response struct {
	Content      string  `json:"content"`
	SessionID    string  `json:"session_id"`
	Timestamp    string  `json:"timestamp"`
	ModelUsed    string  `json:"model_used,omitempty"`
	Provider     string  `json:"provider,omitempty"`
	ToolUsed     *string `json:"tool_used"`
	Reasoning    *string `json:"reasoning"`
	Error        string  `json:"error,omitempty"`
	PipelineStep string  `json:"pipeline_step,omitempty"`
}

// Agent 会话编排器
// 构造便宜，重资源（厂商网关）在首次处理消息时初始化
type Agent struct {
	chatRepo repository.ChatRepository
	resolver *llm.Resolver
	selector *tool.Selector
	cache    *memory.Cache
	ai       *config.AIConfig

	mu      sync.Mutex
	gateway *llm.Gateway
}

// New 创建会话编排器
func New(chatRepo repository.ChatRepository, resolver *llm.Resolver, selector *tool.Selector, cache *memory.Cache, ai *config.AIConfig) *Agent {
	return &Agent{
		chatRepo: chatRepo,
		resolver: resolver,
		selector: selector,
		cache:    cache,
		ai:       ai,
	}
}

// ensureReady 幂等初始化厂商网关
// 凭证缺失（ConfigurationError）会向上抛给请求方
func (a *Agent) ensureReady(ctx context.Context) (*llm.Gateway, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.gateway != nil {
		return a.gateway, nil
	}

	resolved, err := a.resolver.Resolve()
	if err != nil {
		return nil, err
	}

	gateway, err := llm.NewGateway(ctx, resolved, a.ai)
	if err != nil {
		return nil, err
	}

	log.Printf("LLM gateway ready: provider=%s model=%s source=%s", gateway.Provider(), gateway.Model(), resolved.Source)
	a.gateway = gateway
	return gateway, nil
}

// Invalidate 丢弃已初始化的网关，下次请求按新配置重建
func (a *Agent) Invalidate() {
	a.mu.Lock()
	a.gateway = nil
	a.mu.Unlock()
}

// ProcessMessage 处理一条用户消息
// 返回 error 仅当配置不可用（*llm.ConfigurationError）；
// 其余失败都被吸收为信封内的降级内容
func (a *Agent) ProcessMessage(ctx context.Context, input *Input) (resp *Response, err error) {
	sessionID := validateSessionID(input.SessionID)

	// 管线级兜底：任何未捕获的 panic 都转成 error 信封
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Error: message pipeline panicked (session=%s): %v", sessionID, r)
			resp = errorResponse(sessionID, pipelineApology, "internal pipeline failure")
			err = nil
		}
	}()

	gateway, err := a.ensureReady(ctx)
	if err != nil {
		if _, ok := err.(*llm.ConfigurationError); ok {
			return nil, err
		}
		log.Printf("Error: gateway initialization failed: %v", err)
		return errorResponse(sessionID, pipelineApology, err.Error()), nil
	}

	// context_loaded
	history := a.loadContext(ctx, sessionID)
	contextType := classifyContext(len(history))
	keywords := extractKeywords(input.Message)
	log.Printf("Processing message: session=%s context=%s keywords=%v history=%d",
		sessionID, contextType, keywords, len(history))

	// tool_checked
	decision := a.checkTool(ctx, input.Message)

	// response_generated
	content := gateway.Generate(ctx, &llm.Request{
		SystemPrompt: llm.SystemPrompt,
		History:      recentTurns(history, generationWindow),
		UserInput:    input.Message,
		ImageData:    input.ImageData,
	})

	// context_saved：持久化失败只记日志，进程内镜像和响应照常
	a.persistTurn(sessionID, input, content, decision)
	a.mirrorTurn(ctx, sessionID, input.Message, content)

	resp = &Response{
		Content:   content,
		SessionID: sessionID,
		Timestamp: time.Now().Format(time.RFC3339),
		ModelUsed: gateway.Model(),
		Provider:  gateway.Provider(),
	}
	if decision.Tool != tool.None {
		resp.ToolUsed = &decision.Tool
	}
	if decision.Reasoning != "" {
		resp.Reasoning = &decision.Reasoning
	}
	return resp, nil
}

// Status 编排器状态
func (a *Agent) Status() map[string]any {
	a.mu.Lock()
	gateway := a.gateway
	a.mu.Unlock()

	status := map[string]any{
		"agent": "orb",
		"ready": gateway != nil,
	}
	if gateway != nil {
		status["provider"] = gateway.Provider()
		status["model"] = gateway.Model()
	}
	return status
}

// ResetSession 丢弃会话的进程内上下文，数据库历史不受影响
func (a *Agent) ResetSession(ctx context.Context, sessionID string) {
	a.cache.Clear(ctx, strings.TrimSpace(sessionID))
}

// validateSessionID 规范化会话标识
// 空白标识生成新的，非空标识去掉首尾空白后原样接受
func validateSessionID(id string) string {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return uuid.New().String()
	}
	return trimmed
}

// loadContext 加载会话上下文
// 数据库失败或为空时回退到进程内缓存
func (a *Agent) loadContext(ctx context.Context, sessionID string) []memory.Message {
	messages, err := a.chatRepo.GetRecentMessages(sessionID, contextWindow)
	if err != nil {
		log.Printf("Warning: failed to load history from store, using in-memory cache: %v", err)
		return a.cache.Get(ctx, sessionID)
	}
	if len(messages) == 0 {
		return a.cache.Get(ctx, sessionID)
	}

	history := make([]memory.Message, len(messages))
	for i, m := range messages {
		history[i] = memory.Message{Role: m.Role, Content: m.Content, Timestamp: m.CreatedAt}
	}
	return history
}

// checkTool 工具选择，失败吸收为"无工具"
func (a *Agent) checkTool(ctx context.Context, userInput string) (decision tool.Decision) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Warning: tool selection panicked, proceeding without tools: %v", r)
			decision = tool.Decision{Tool: tool.None}
		}
	}()
	return a.selector.Select(ctx, userInput)
}

// persistTurn 持久化一轮对话：建会话、首条消息定标题、先用户后助手
func (a *Agent) persistTurn(sessionID string, input *Input, assistantContent string, decision tool.Decision) {
	if err := a.chatRepo.CreateSession(&model.ChatSession{ID: sessionID, Title: "Nova Conversa"}); err != nil {
		log.Printf("Warning: failed to create session %s: %v", sessionID, err)
		return
	}

	info, err := a.chatRepo.GetSessionInfo(sessionID)
	if err != nil {
		log.Printf("Warning: failed to read session %s: %v", sessionID, err)
		return
	}
	if info != nil && info.MessageCount == 0 {
		if err := a.chatRepo.SetTitle(sessionID, truncateTitle(input.Message, titleMaxRunes)); err != nil {
			log.Printf("Warning: failed to set title for session %s: %v", sessionID, err)
		}
	}

	userMsg := &model.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Role:      "user",
		Content:   input.Message,
	}
	if input.ImageData != "" {
		userMsg.SetExtra(model.MessageExtra{ImageData: input.ImageData})
	}
	if err := a.chatRepo.AppendMessage(userMsg); err != nil {
		log.Printf("Warning: failed to persist user message: %v", err)
		return
	}

	assistantMsg := &model.ChatMessage{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Role:      "assistant",
		Content:   assistantContent,
	}
	if decision.Tool != tool.None {
		assistantMsg.SetExtra(model.MessageExtra{ToolUsed: decision.Tool})
	}
	if err := a.chatRepo.AppendMessage(assistantMsg); err != nil {
		log.Printf("Warning: failed to persist assistant message: %v", err)
	}
}

// mirrorTurn 把本轮写入进程内缓存
func (a *Agent) mirrorTurn(ctx context.Context, sessionID, userContent, assistantContent string) {
	now := time.Now()
	a.cache.Append(ctx, sessionID,
		memory.Message{Role: "user", Content: userContent, Timestamp: now},
		memory.Message{Role: "assistant", Content: assistantContent, Timestamp: now},
	)
}

// recentTurns 取最近 N 条历史转成模型轮次
func recentTurns(history []memory.Message, limit int) []llm.Turn {
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	turns := make([]llm.Turn, len(history))
	for i, m := range history {
		turns[i] = llm.Turn{Role: m.Role, Content: m.Content}
	}
	return turns
}

func errorResponse(sessionID, content, errMsg string) *Response {
	return &Response{
		Content:      content,
		SessionID:    sessionID,
		Timestamp:    time.Now().Format(time.RFC3339),
		Error:        errMsg,
		PipelineStep: "error",
	}
}
