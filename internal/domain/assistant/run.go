package assistant

import "time"

// Run and step statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Step types.
const (
	StepThinking = "thinking"
	StepToolCall = "tool_call"
	StepResponse = "response"
	StepError    = "error"
)

// Step is one unit of agent progress within a run. Persisted as JSON
// and streamed to the client as it happens.
type Step struct {
	ID          int       `json:"id"`
	StepNumber  int       `json:"step_number"`
	StepType    string    `json:"step_type"`
	Description string    `json:"description"`
	ToolName    string    `json:"tool_name,omitempty"`
	ToolInput   string    `json:"tool_input,omitempty"`
	ToolOutput  string    `json:"tool_output,omitempty"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Run is a single agent execution against one user message.
type Run struct {
	ID                int64      `json:"id"`
	ConversationID    int64      `json:"conversation_id"`
	UserMessage       string     `json:"user_message"`
	AssistantResponse string     `json:"assistant_response,omitempty"`
	Status            string     `json:"status"`
	ErrorMessage      string     `json:"error_message,omitempty"`
	Steps             []Step     `json:"steps"`
	CreatedAt         time.Time  `json:"created_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

// Conversation groups related runs so follow-up messages carry history.
type Conversation struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title,omitempty"`
	RunIDs    []int64   `json:"run_ids"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
