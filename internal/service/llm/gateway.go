package llm

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/Luizhcrs/orb/internal/config"
)

// 支持的厂商
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderDemo      = "demo"
)

// Turn 历史对话中的一轮
type Turn struct {
	Role    string
	Content string
}

// Request 一次生成请求的完整上下文
type Request struct {
	SystemPrompt string
	History      []Turn
	UserInput    string
	ImageData    string // base64 编码的 JPEG，可为空
}

// Gateway 厂商网关
// 凭证缺失或厂商未知时降级为演示模型，初始化永不因缺凭证失败
type Gateway struct {
	chatModel model.BaseChatModel
	provider  string
	modelName string
}

// NewGateway 按解析出的运行配置创建厂商网关
func NewGateway(ctx context.Context, resolved *ResolvedConfig, ai *config.AIConfig) (*Gateway, error) {
	if resolved.APIKey == "" {
		log.Printf("Warning: no API key for provider %q, using demo mode", resolved.Provider)
		return newDemoGateway(resolved.Model), nil
	}

	temperature := float32(ai.Temperature)
	maxTokens := ai.MaxTokens

	switch resolved.Provider {
	case ProviderOpenAI:
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      resolved.APIKey,
			BaseURL:     ai.OpenAI.BaseURL,
			Model:       resolved.Model,
			Temperature: &temperature,
			MaxTokens:   &maxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create openai chat model: %w", err)
		}
		return &Gateway{chatModel: cm, provider: ProviderOpenAI, modelName: resolved.Model}, nil

	case ProviderAnthropic:
		claudeCfg := &claude.Config{
			APIKey:      resolved.APIKey,
			Model:       resolved.Model,
			MaxTokens:   maxTokens,
			Temperature: &temperature,
		}
		if ai.Anthropic.BaseURL != "" {
			claudeCfg.BaseURL = &ai.Anthropic.BaseURL
		}
		cm, err := claude.NewChatModel(ctx, claudeCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create claude chat model: %w", err)
		}
		return &Gateway{chatModel: cm, provider: ProviderAnthropic, modelName: resolved.Model}, nil

	default:
		log.Printf("Warning: unsupported provider %q, using demo mode", resolved.Provider)
		return newDemoGateway(resolved.Model), nil
	}
}

func newDemoGateway(modelName string) *Gateway {
	return &Gateway{chatModel: NewDemoChatModel(), provider: ProviderDemo, modelName: modelName}
}

// Provider 当前生效的厂商（降级后为 demo）
func (g *Gateway) Provider() string {
	return g.provider
}

// Model 当前模型名
func (g *Gateway) Model() string {
	return g.modelName
}

// Generate 生成回复
// 厂商调用失败时返回兜底文案，不向上层抛错
func (g *Gateway) Generate(ctx context.Context, req *Request) string {
	messages := buildMessages(req)

	resp, err := g.chatModel.Generate(ctx, messages)
	if err != nil {
		log.Printf("Error: chat model generate failed (provider=%s model=%s): %v", g.provider, g.modelName, err)
		return GenerateApology
	}
	return resp.Content
}

// buildMessages 把请求上下文转换为模型消息序列
// 带图片的用户输入转为多模态消息，图片以 data URL 传递
func buildMessages(req *Request) []*schema.Message {
	messages := make([]*schema.Message, 0, len(req.History)+2)
	messages = append(messages, schema.SystemMessage(req.SystemPrompt))

	for _, turn := range req.History {
		switch turn.Role {
		case "assistant":
			messages = append(messages, schema.AssistantMessage(turn.Content, nil))
		default:
			messages = append(messages, schema.UserMessage(turn.Content))
		}
	}

	if req.ImageData == "" {
		return append(messages, schema.UserMessage(req.UserInput))
	}

	return append(messages, &schema.Message{
		Role: schema.User,
		MultiContent: []schema.ChatMessagePart{
			{Type: schema.ChatMessagePartTypeText, Text: req.UserInput},
			{
				Type: schema.ChatMessagePartTypeImageURL,
				ImageURL: &schema.ChatMessageImageURL{
					URL:      "data:image/jpeg;base64," + req.ImageData,
					MIMEType: "image/jpeg",
				},
			},
		},
	})
}
