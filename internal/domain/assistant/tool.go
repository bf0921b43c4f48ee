// Package assistant holds the scouting assistant's conversation,
// run and tool types.
package assistant

import "fmt"

// ToolKind is the closed set of tools the assistant model may call.
// Dispatch is an explicit switch over this set; a model request for
// anything else is rejected, never executed dynamically.
type ToolKind string

// Assistant tools.
const (
	ToolSearchPlayers    ToolKind = "search_players"
	ToolGetPlayerDetails ToolKind = "get_player_details"
	ToolSearchNotes      ToolKind = "search_notes"
	ToolCreateNote       ToolKind = "create_note"
	ToolUpdateNote       ToolKind = "update_note"
	ToolCreatePlayer     ToolKind = "create_player"
)

// ParseToolKind maps a model-supplied tool name onto the closed set.
func ParseToolKind(name string) (ToolKind, error) {
	switch k := ToolKind(name); k {
	case ToolSearchPlayers, ToolGetPlayerDetails, ToolSearchNotes,
		ToolCreateNote, ToolUpdateNote, ToolCreatePlayer:
		return k, nil
	}
	return "", fmt.Errorf("%q: unknown tool", name)
}

// All returns every tool in the closed set, in declaration order.
func All() []ToolKind {
	return []ToolKind{
		ToolSearchPlayers, ToolGetPlayerDetails, ToolSearchNotes,
		ToolCreateNote, ToolUpdateNote, ToolCreatePlayer,
	}
}
