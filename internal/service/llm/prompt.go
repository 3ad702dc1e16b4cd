package llm

// SystemPrompt 智能体人设，回复固定使用巴西葡萄牙语
const SystemPrompt = "Você é o Agente ORB, um assistente de IA flutuante útil e amigável. " +
	"Responda sempre em português brasileiro de forma concisa e clara."

// GenerateApology 生成失败时返回给用户的兜底文案
const GenerateApology = "Desculpe, ocorreu um erro ao gerar a resposta."
