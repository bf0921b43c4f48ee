package domain

import (
	"context"
	"encoding/json"
)

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ChatMessage is a transport-neutral chat turn.
type ChatMessage struct {
	Role       string
	Content    string
	ToolCallID string         // set on tool-result messages
	ToolName   string         // set on tool-result messages
	ToolCalls  []ChatToolCall // set when the model requests tool calls
}

// ChatToolCall is a model request to invoke a tool.
type ChatToolCall struct {
	ID        string
	Name      string
	Arguments string // raw JSON arguments
}

// ToolSpec describes a callable tool for the model.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  json.RawMessage // JSON Schema
}

// ChatCompleter is the shared chat completion contract between layers.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []ChatMessage) (ChatMessage, error)
	CompleteWithTools(ctx context.Context, messages []ChatMessage, tools []ToolSpec) (ChatMessage, error)
}
