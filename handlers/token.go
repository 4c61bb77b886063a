package handlers

import (
	"net/http"
	"time"

	"screenqa/config"
	"screenqa/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// JoinTokenRequest asks for a LiveKit join token. An empty identity gets a
// generated guest one.
type JoinTokenRequest struct {
	Room     string `json:"room"`
	Identity string `json:"identity"`
}

// JoinTokenHandler mints a join token so a participant can enter the agent's
// room from the frontend.
func JoinTokenHandler(c *gin.Context) {
	var req JoinTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid token request", err.Error())
		return
	}
	room := req.Room
	if room == "" {
		room = config.AppConfig.LiveKitRoom
	}
	identity := req.Identity
	if identity == "" {
		identity = "guest-" + uuid.NewString()
	}
	token, err := utils.BuildJoinToken(room, identity, 6*time.Hour)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to build join token", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "room": room, "identity": identity, "url": config.AppConfig.LiveKitURL})
}
