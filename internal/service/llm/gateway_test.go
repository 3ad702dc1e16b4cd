package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// failingChatModel 永远失败的模型，用于验证兜底路径
type failingChatModel struct{}

func (m *failingChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	return nil, errors.New("vendor unavailable")
}

func (m *failingChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("vendor unavailable")
}

func TestGatewayDegradesToDemoWithoutCredential(t *testing.T) {
	for _, provider := range []string{"openai", "anthropic", "unknown-vendor"} {
		resolved := &ResolvedConfig{Provider: provider, Model: "any-model", APIKey: ""}
		gw, err := NewGateway(context.Background(), resolved, testAIConfig())
		if err != nil {
			t.Fatalf("NewGateway(%s) failed: %v", provider, err)
		}
		if gw.Provider() != ProviderDemo {
			t.Fatalf("provider %s without key: got %q, want demo", provider, gw.Provider())
		}
	}
}

func TestGatewayDegradesToDemoForUnknownProvider(t *testing.T) {
	resolved := &ResolvedConfig{Provider: "cohere", Model: "command", APIKey: "some-key"}
	gw, err := NewGateway(context.Background(), resolved, testAIConfig())
	if err != nil {
		t.Fatalf("NewGateway failed: %v", err)
	}
	if gw.Provider() != ProviderDemo {
		t.Fatalf("unknown provider: got %q, want demo", gw.Provider())
	}
}

func TestGatewayGenerateViaDemo(t *testing.T) {
	gw := newDemoGateway("gpt-4o-mini")

	content := gw.Generate(context.Background(), &Request{
		SystemPrompt: SystemPrompt,
		UserInput:    "Olá! Como você está?",
	})
	if content == "" {
		t.Fatal("demo generate must return non-empty content")
	}
}

func TestGatewayGenerateFailureReturnsApology(t *testing.T) {
	gw := &Gateway{chatModel: &failingChatModel{}, provider: ProviderOpenAI, modelName: "gpt-4o-mini"}

	content := gw.Generate(context.Background(), &Request{
		SystemPrompt: SystemPrompt,
		UserInput:    "oi",
	})
	if content != GenerateApology {
		t.Fatalf("content = %q, want fixed apology", content)
	}
}

func TestBuildMessagesTextOnly(t *testing.T) {
	messages := buildMessages(&Request{
		SystemPrompt: SystemPrompt,
		History: []Turn{
			{Role: "user", Content: "oi"},
			{Role: "assistant", Content: "olá!"},
		},
		UserInput: "tudo bem?",
	})

	if len(messages) != 4 {
		t.Fatalf("got %d messages, want 4", len(messages))
	}
	if messages[0].Role != schema.System {
		t.Fatalf("first message role = %v, want system", messages[0].Role)
	}
	if messages[1].Role != schema.User || messages[2].Role != schema.Assistant {
		t.Fatal("history roles not preserved")
	}
	last := messages[len(messages)-1]
	if last.Role != schema.User || last.Content != "tudo bem?" {
		t.Fatalf("last message = %+v", last)
	}
}

func TestBuildMessagesWithImage(t *testing.T) {
	messages := buildMessages(&Request{
		SystemPrompt: SystemPrompt,
		UserInput:    "o que há aqui?",
		ImageData:    "aW1hZ2U=",
	})

	last := messages[len(messages)-1]
	if len(last.MultiContent) != 2 {
		t.Fatalf("got %d content parts, want 2", len(last.MultiContent))
	}
	if last.MultiContent[0].Type != schema.ChatMessagePartTypeText {
		t.Fatal("first part must be text")
	}
	imagePart := last.MultiContent[1]
	if imagePart.Type != schema.ChatMessagePartTypeImageURL {
		t.Fatal("second part must be image")
	}
	if !strings.HasPrefix(imagePart.ImageURL.URL, "data:image/jpeg;base64,") {
		t.Fatalf("image URL = %q, want data URL", imagePart.ImageURL.URL)
	}
}
