package contract

import "time"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Tool names exposed to the model. Their argument names are part of the
// front-end contract because form_data mirrors them.
const (
	ToolLogInteraction        = "log_interaction"
	ToolEditInteraction       = "edit_interaction"
	ToolGetInteractionHistory = "get_interaction_history"
	ToolGetHCPProfile         = "get_hcp_profile"
	ToolCheckSampleStock      = "check_sample_stock"
	ToolCheckCompliance       = "check_compliance"
)

type TurnRequest struct {
	SystemPrompt string    `json:"system_prompt"`
	UserMessage  string    `json:"user_message"`
	Now          time.Time `json:"now"`
}

// Transcript is every message of one turn in order, ending with the final
// assistant message.
type Transcript []Message

type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

type ToolCall struct {
	ID      string         `json:"id,omitempty"`
	Name    string         `json:"name"`
	Args    map[string]any `json:"args,omitempty"`
	RawArgs string         `json:"raw_args,omitempty"`
}

type ToolRequest struct {
	CallID  string `json:"call_id,omitempty"`
	Tool    string `json:"tool"`
	RawArgs string `json:"raw_args,omitempty"`
}

// ToolResult carries the text handed back to the model. Failures are text too.
type ToolResult struct {
	CallID string `json:"call_id,omitempty"`
	Tool   string `json:"tool"`
	Output string `json:"output"`
}

// FinalReply returns the content of the last message, or "" for an empty transcript.
func (t Transcript) FinalReply() string {
	if len(t) == 0 {
		return ""
	}
	return t[len(t)-1].Content
}

// ToolCalls flattens the tool calls of all messages in order.
func (t Transcript) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, msg := range t {
		calls = append(calls, msg.ToolCalls...)
	}
	return calls
}

type ChatReply struct {
	Response string         `json:"response"`
	FormData map[string]any `json:"form_data,omitempty"`
}
