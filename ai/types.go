package ai

import (
	"time"

	"chatbot-evaluation/backend/internal/models"
)

// Chat roles understood by the inference endpoint
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message of the conversation sent to the model
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ScopeConfig is the resolved condition of the evaluation or chat session
// that owns the conversation.
type ScopeConfig struct {
	Model       models.LanguageModel
	UseCase     models.UseCase
	PromptStyle models.PromptStyle
}

// ScopeFromCondition converts a stored condition into a ScopeConfig
func ScopeFromCondition(c models.Condition) ScopeConfig {
	return ScopeConfig{Model: c.LanguageModel, UseCase: c.UseCase, PromptStyle: c.PromptStyle}
}

// Result is the outcome of one chat turn. Failures are reported here and
// never returned as errors.
type Result struct {
	Success   bool      `json:"success"`
	Content   string    `json:"content,omitempty"`
	Reasoning *string   `json:"reasoning,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatRequest is the body posted to the inference endpoint
type ChatRequest struct {
	Model    string `json:"model"`
	Messages []Turn `json:"messages"`
	Stream   bool   `json:"stream"`
	Options  Params `json:"options"`
}

// ChatResponse is the subset of the endpoint's reply the gateway reads
type ChatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// HistoryFromMessages maps stored transcript entries to model turns
func HistoryFromMessages(msgs []models.ChatMessage) []Turn {
	turns := make([]Turn, 0, len(msgs))
	for _, msg := range msgs {
		role := RoleAssistant
		if msg.Sender == models.SenderUser {
			role = RoleUser
		}
		turns = append(turns, Turn{Role: role, Content: msg.Content})
	}
	return turns
}

// BuildMessages prepends the system prompt and appends the new user turn
func BuildMessages(systemPrompt string, history []Turn, userMessage string) []Turn {
	messages := make([]Turn, 0, len(history)+2)
	messages = append(messages, Turn{Role: RoleSystem, Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, Turn{Role: RoleUser, Content: userMessage})
	return messages
}
