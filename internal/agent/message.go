package agent

import "encoding/json"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// ToolCall is one model-requested tool invocation. Arguments hold the raw
// JSON object the model produced.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

// ToolResult carries a finished tool invocation back to the model.
type ToolResult struct {
	CallID  string
	Content string
	IsError bool
}

// Message is one turn of the conversation. Assistant turns may carry tool
// calls; tool turns carry exactly one result.
type Message struct {
	Role       Role
	Content    string
	ToolCalls  []ToolCall
	ToolResult *ToolResult
}

// UserMessage is a convenience constructor.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// AssistantMessage is a convenience constructor.
func AssistantMessage(text string, calls ...ToolCall) Message {
	return Message{Role: RoleAssistant, Content: text, ToolCalls: calls}
}

// ToolResultMessage wraps a tool result as a conversation turn.
func ToolResultMessage(callID, content string, isError bool) Message {
	return Message{
		Role:       RoleTool,
		ToolResult: &ToolResult{CallID: callID, Content: content, IsError: isError},
	}
}
