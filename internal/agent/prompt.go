package agent

// SystemPrompt frames the model as a simulation copilot over the tool
// surface the server exposes.
const SystemPrompt = "You are a FlexSim simulation assistant. Use the available tools to control and query FlexSim simulations. Be concise and helpful."

// ToolSpec describes one callable tool in the provider-neutral function
// schema convention. Parameters is a JSON Schema object.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// Prompt is one complete model request: model override, conversation and
// the tool surface the model may call into.
type Prompt struct {
	Model    string
	Messages []Message
	Tools    []ToolSpec
}

// WithSystem prepends the standard system turn unless one is already
// present.
func WithSystem(messages []Message) []Message {
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			return messages
		}
	}
	out := make([]Message, 0, len(messages)+1)
	out = append(out, Message{Role: RoleSystem, Content: SystemPrompt})
	return append(out, messages...)
}
