package models

import "time"

// AgentRequest is the payload coming from the frontend into /api/agent/ask.
type AgentRequest struct {
	SessionID string `json:"session_id"` // room session identifier
	Text      string `json:"text"`       // user's message (voice->text or typed)
}

// AgentAction is a single follow-up action returned alongside a reply.
type AgentAction struct {
	Label       string `json:"label"`             // text on the button
	Type        string `json:"type"`              // e.g. "book", "list_slots", "chat"
	SlotID      string `json:"slot_id,omitempty"` // when booking a listed slot
	Description string `json:"description,omitempty"`
}

// AgentResponse is what the handler returns to the frontend.
type AgentResponse struct {
	Intent       string        `json:"intent"`   // "screen", "schedule", or "chat"
	ResponseText string        `json:"response"` // natural-language reply
	Actions      []AgentAction `json:"actions,omitempty"`
}

// AgentContext is the per-session conversational state kept in Redis.
// Slots maps the short slot IDs from the most recent listing to their
// start instants so the user can book by code.
type AgentContext struct {
	Slots    map[string]time.Time `json:"slots,omitempty"`
	ListedAt time.Time            `json:"listedAt,omitzero"`
}
