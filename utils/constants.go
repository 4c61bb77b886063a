// File: utils/constants.go
package utils

import "time"

// AgentCtxPrefix is the prefix used for Redis agent-context keys.
const AgentCtxPrefix = "agent:ctx:"

// AgentCtxTTL is the time-to-live for agent conversation context entries.
const AgentCtxTTL = 30 * time.Minute

// Data-channel topics used between the room frontend and the agent.
const (
	TopicScreenFrame = "screen-frame" // client-published snapshot frames (JPEG bytes)
	TopicChat        = "chat"         // user text questions
	TopicAgentReply  = "agent-reply"  // agent answers and the greeting
)
