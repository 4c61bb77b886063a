package handlers

import (
	"net/http"

	"screenqa/models"
	agentsvc "screenqa/services/agent"
	"screenqa/utils"

	"github.com/gin-gonic/gin"
)

// AgentHandler exposes the conversational agent over HTTP for frontends
// that do not speak the room data channel.
type AgentHandler struct {
	Svc agentsvc.AgentService
}

func NewAgentHandler(svc agentsvc.AgentService) *AgentHandler {
	return &AgentHandler{Svc: svc}
}

// AskHandler takes a text question and returns the agent's reply.
func (h *AgentHandler) AskHandler(c *gin.Context) {
	var req models.AgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid agent request", err.Error())
		return
	}
	if req.Text == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid agent request", "text is required")
		return
	}
	if req.SessionID == "" {
		req.SessionID = c.ClientIP()
	}

	resp, err := h.Svc.ProcessUserInput(c.Request.Context(), req)
	if err != nil {
		utils.JSONError(c, http.StatusBadGateway, "agent failed to answer", err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}
