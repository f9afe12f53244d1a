package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/travoiq/callrelay/internal/providers/telephony"
	"github.com/travoiq/callrelay/internal/utils"
)

// ControlHandler fronts the telephony backend's call-control operations.
type ControlHandler struct {
	backend telephony.Provider
	log     *logrus.Logger
}

func NewControlHandler(backend telephony.Provider, log *logrus.Logger) *ControlHandler {
	return &ControlHandler{backend: backend, log: log}
}

// DispatchCalls routes /api/calls/start and /api/calls/{contactId}/end.
// Both live under one catch-all because gin's router cannot hold a param
// segment next to a static one at the same level.
func (h *ControlHandler) DispatchCalls(c *gin.Context) {
	action := strings.Trim(c.Param("action"), "/")
	if action == "start" {
		h.startCall(c)
		return
	}
	contactID := strings.TrimSuffix(action, "/end")
	if contactID != action && contactID != "" && !strings.Contains(contactID, "/") {
		h.endCall(c, contactID)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"detail": "not found"})
}

type StartCallRequest struct {
	AgentID     string `json:"agent_id"`
	PhoneNumber string `json:"phone_number"`
}

func (h *ControlHandler) startCall(c *gin.Context) {
	const op = "ControlHandler.StartCall"

	var req StartCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "agent_id and phone_number are required", err))
		return
	}
	if req.AgentID == "" || req.PhoneNumber == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "agent_id and phone_number are required", nil))
		return
	}

	contactID, err := h.backend.StartOutboundCall(c.Request.Context(), req.AgentID, req.PhoneNumber)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contact_id": contactID, "status": "initiated"})
}

func (h *ControlHandler) endCall(c *gin.Context, contactID string) {
	if err := h.backend.StopCall(c.Request.Context(), contactID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "call_ended"})
}

func (h *ControlHandler) AgentStatus(c *gin.Context) {
	d, err := h.backend.AgentStatus(c.Request.Context(), c.Param("agent_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

type UpdateAgentStatusRequest struct {
	StatusID string `json:"status_id"`
}

func (h *ControlHandler) UpdateAgentStatus(c *gin.Context) {
	const op = "ControlHandler.UpdateAgentStatus"

	var req UpdateAgentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.StatusID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "status_id is required", err))
		return
	}

	if err := h.backend.SetAgentStatus(c.Request.Context(), c.Param("agent_id"), req.StatusID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
