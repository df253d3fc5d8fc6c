package types

import "github.com/clanops/squad-roster-backend/internal/engine"

// ClientMessage is what an editing client sends over the channel. A
// publish carries the full squad list, never a diff.
type ClientMessage struct {
	Type   string         `json:"type"` // "Publish"
	Squads []engine.Squad `json:"squads,omitempty"`
}

// ServerMessage is delivered to every subscriber of an event.
type ServerMessage struct {
	Type    string         `json:"type"` // "Snapshot" | "Error"
	Version int            `json:"version,omitempty"`
	Squads  []engine.Squad `json:"squads,omitempty"`
	Error   string         `json:"error,omitempty"`
}
