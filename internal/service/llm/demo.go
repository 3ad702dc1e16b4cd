package llm

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// demoResponses 演示模式的轮换回复
var demoResponses = []string{
	"Olá! Eu sou o Agente ORB, seu assistente de IA flutuante. Como posso ajudá-lo hoje?",
	"Interessante! Para usar o assistente AI real, configure uma chave de API no arquivo .env.",
	"Entendi! Atualmente estou no modo demonstração. Configure OPENAI_API_KEY ou ANTHROPIC_API_KEY para ativar o assistente AI.",
	"Mensagem recebida! Estou pronto para ajudar assim que você configurar as credenciais de API!",
	"Para respostas inteligentes, adicione suas chaves de API no arquivo .env.",
	"Você pode configurar OpenAI ou Anthropic para ter acesso completo ao assistente AI.",
	"Estou funcionando no modo demonstração. Configure suas API keys para funcionalidade completa.",
}

const demoImageResponse = "📸 Imagem recebida! No modo demonstração, não posso analisar imagens. " +
	"Configure suas chaves de API para análise completa de imagens com OpenAI GPT-4V ou Claude 3."

// demoChatModel 无凭证时的演示模型
// 同一输入永远得到同一回复，便于前端联调和测试
type demoChatModel struct{}

// NewDemoChatModel 创建演示模型
func NewDemoChatModel() model.BaseChatModel {
	return &demoChatModel{}
}

// Generate 生成演示回复
func (m *demoChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	return schema.AssistantMessage(demoReply(lastUserMessage(input)), nil), nil
}

// Stream 以单块流的形式返回演示回复
func (m *demoChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// lastUserMessage 取最后一条用户消息
func lastUserMessage(input []*schema.Message) *schema.Message {
	for i := len(input) - 1; i >= 0; i-- {
		if input[i] != nil && input[i].Role == schema.User {
			return input[i]
		}
	}
	return nil
}

// demoReply 按关键词和输入长度确定性地选择回复
func demoReply(msg *schema.Message) string {
	if msg == nil {
		return demoResponses[0]
	}

	text := msg.Content
	for _, part := range msg.MultiContent {
		switch part.Type {
		case schema.ChatMessagePartTypeImageURL:
			return demoImageResponse
		case schema.ChatMessagePartTypeText:
			if text == "" {
				text = part.Text
			}
		}
	}

	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, "olá", "oi", "hello", "hi"):
		return demoResponses[0]
	case containsAny(lower, "ajuda", "help", "como"):
		return "Posso ajudá-lo com várias tarefas! Configure suas chaves de API (OpenAI ou Anthropic) " +
			"no arquivo .env para funcionalidade completa, incluindo análise de imagens."
	case containsAny(lower, "configurar", "config", "api", "chave"):
		return "Para configurar: 1) Copie env.example para .env, 2) Adicione suas chaves de API " +
			"(OPENAI_API_KEY ou ANTHROPIC_API_KEY), 3) Reinicie o servidor."
	default:
		return demoResponses[len([]rune(text))%len(demoResponses)]
	}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
