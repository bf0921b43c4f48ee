package assistant

// Event types streamed to the client over SSE.
const (
	EventRunStarted    = "run_started"
	EventStep          = "step"
	EventFinalResponse = "final_response"
	EventDone          = "done"
	EventError         = "error"
)

// Event is a single streamed agent update.
type Event struct {
	Type           string `json:"type"`
	RunID          int64  `json:"run_id,omitempty"`
	ConversationID int64  `json:"conversation_id,omitempty"`
	Step           *Step  `json:"step,omitempty"`
	Response       string `json:"response,omitempty"`
	Status         string `json:"status,omitempty"`
	Error          string `json:"error,omitempty"`
}
