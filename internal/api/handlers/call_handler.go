package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/travoiq/callrelay/internal/models"
	"github.com/travoiq/callrelay/internal/services"
	"github.com/travoiq/callrelay/internal/utils"
)

// CallHandler serves call ingestion and discovery.
type CallHandler struct {
	svc services.CallService
	log *logrus.Logger
}

func NewCallHandler(svc services.CallService, log *logrus.Logger) *CallHandler {
	return &CallHandler{svc: svc, log: log}
}

func (h *CallHandler) Details(c *gin.Context) {
	callID := c.Param("call_id")
	h.log.WithField("call_id", callID).Info("fetching call details")

	d, err := h.svc.GetDetails(c.Request.Context(), callID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *CallHandler) Latest(c *gin.Context) {
	d, err := h.svc.LatestCall(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contactId": d.ContactID})
}

func (h *CallHandler) IncomingCall(c *gin.Context) {
	var req models.IncomingCall
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CallHandler.IncomingCall", "contactId is required", err))
		return
	}

	rec, err := h.svc.RecordIncomingCall(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "created", "contactId": rec.ContactID})
}
