package tool

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// Decision 工具选择结果，Tool 为 "none" 表示不使用工具
type Decision struct {
	Tool      string         `json:"tool"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Reasoning string         `json:"reasoning,omitempty"`
}

// None 表示不使用任何工具
const None = "none"

// DecideFunc 针对候选工具做出选择，返回 JSON 文本
// 输出可能不是严格合法的 JSON，由解析侧修复
type DecideFunc func(ctx context.Context, userInput string, candidates []Info) (string, error)

// Selector 工具选择器
// 任何阶段失败都退化为 "不使用工具"，绝不阻断消息管线
type Selector struct {
	registry Registry
	decide   DecideFunc
}

// NewSelector 创建工具选择器，decide 可为 nil（仅关键词预筛）
func NewSelector(registry Registry, decide DecideFunc) *Selector {
	return &Selector{registry: registry, decide: decide}
}

// Select 为用户输入选择工具
func (s *Selector) Select(ctx context.Context, userInput string) Decision {
	candidates := s.matchCandidates(userInput)
	if len(candidates) == 0 {
		return Decision{Tool: None}
	}

	if s.decide == nil {
		// 无决策函数时只取首个关键词命中
		return Decision{Tool: candidates[0].Name, Reasoning: "keyword match"}
	}

	raw, err := s.decide(ctx, userInput, candidates)
	if err != nil {
		log.Printf("Warning: tool decision failed, proceeding without tools: %v", err)
		return Decision{Tool: None}
	}

	decision, ok := parseDecision(raw)
	if !ok {
		log.Printf("Warning: unparseable tool decision, proceeding without tools")
		return Decision{Tool: None}
	}

	// 选择了未注册的工具按无工具处理
	if decision.Tool != None {
		if _, registered := s.registry.GetToolMetadata(decision.Tool); !registered {
			return Decision{Tool: None}
		}
	}
	return decision
}

// matchCandidates 按触发关键词预筛候选工具
func (s *Selector) matchCandidates(userInput string) []Info {
	lower := strings.ToLower(userInput)
	var candidates []Info
	for _, t := range s.registry.ListTools() {
		for _, kw := range t.TriggerKeywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				candidates = append(candidates, t)
				break
			}
		}
	}
	return candidates
}

// parseDecision 解析模型输出的选择结果
// 先尝试直接解析，失败后剥离代码围栏并用 jsonrepair 修复
func parseDecision(raw string) (Decision, bool) {
	var d Decision
	if err := json.Unmarshal([]byte(raw), &d); err == nil && d.Tool != "" {
		return d, true
	}

	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	repaired, err := jsonrepair.JSONRepair(s)
	if err != nil {
		return Decision{}, false
	}
	if err := json.Unmarshal([]byte(repaired), &d); err != nil || d.Tool == "" {
		return Decision{}, false
	}
	return d, true
}
