package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/travoiq/callrelay/internal/api/handlers"
)

type Deps struct {
	Call    *handlers.CallHandler
	Control *handlers.ControlHandler
	WS      *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// no template layer is mounted; the root serves a JSON placeholder
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "UI not available"})
	})
	r.GET("/api/health-check", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/details/:call_id", d.Call.Details)
	r.GET("/latest-call", d.Call.Latest)

	api := r.Group("/api")
	api.POST("/incoming-call", d.Call.IncomingCall)
	// /api/calls/start and /api/calls/{contactId}/end share a catch-all;
	// see ControlHandler.DispatchCalls.
	api.POST("/calls/*action", d.Control.DispatchCalls)
	api.GET("/agent/:agent_id/status", d.Control.AgentStatus)
	api.POST("/agent/:agent_id/status", d.Control.UpdateAgentStatus)

	// /ws/{callId}, /ws/agent/{agentId} and /ws/incoming-calls share a
	// catch-all; see WSHandler.Dispatch.
	r.GET("/ws/*path", d.WS.Dispatch)
}
