package agent

import "strings"

// 上下文分类
const (
	contextNew     = "new_conversation"
	contextEarly   = "early_conversation"
	contextOngoing = "ongoing_conversation"
)

// classifyContext 按历史消息数给会话分类
// 仅作为提示信息，不影响管线分支
func classifyContext(historyLen int) string {
	switch {
	case historyLen == 0:
		return contextNew
	case historyLen < 3:
		return contextEarly
	default:
		return contextOngoing
	}
}

// extractKeywords 朴素关键词提取
func extractKeywords(userInput string) []string {
	lower := strings.ToLower(userInput)
	var keywords []string

	if strings.Contains(lower, "ajuda") || strings.Contains(lower, "help") {
		keywords = append(keywords, "help_request")
	}
	if strings.Contains(lower, "obrigado") || strings.Contains(lower, "obrigada") || strings.Contains(lower, "thanks") {
		keywords = append(keywords, "thanks")
	}
	if strings.Contains(userInput, "?") {
		keywords = append(keywords, "question")
	}

	return keywords
}

// truncateTitle 从首条消息派生会话标题
func truncateTitle(message string, maxRunes int) string {
	runes := []rune(strings.TrimSpace(message))
	if len(runes) <= maxRunes {
		return string(runes)
	}
	return string(runes[:maxRunes])
}
