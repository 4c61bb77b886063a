package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle aggregates the handlers the route registrar wires up.
type HandlerBundle struct {
	// Agent endpoints.
	AskHandler gin.HandlerFunc
	STTHandler gin.HandlerFunc

	// Calendar endpoints.
	ListSlotsHandler gin.HandlerFunc
	BookSlotHandler  gin.HandlerFunc

	// Room endpoints.
	JoinTokenHandler gin.HandlerFunc
}
