package cron

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/subcycle/subcycle/internal/logger"
	"github.com/subcycle/subcycle/internal/service"
)

// SubscriptionHandler exposes the lifecycle batch jobs for manual runs.
// The jobs are idempotent, so an operator re-trigger after a scheduler
// miss is safe.
type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
	logger              *logger.Logger
}

// NewSubscriptionHandler creates a new subscription cron handler
func NewSubscriptionHandler(
	subscriptionService service.SubscriptionService,
	logger *logger.Logger,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		logger:              logger,
	}
}

func (h *SubscriptionHandler) ProcessRenewals(c *gin.Context) {
	response, err := h.subscriptionService.ProcessRenewals(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to process renewals", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *SubscriptionHandler) ProcessDelinquencies(c *gin.Context) {
	response, err := h.subscriptionService.ProcessDelinquencies(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to process delinquencies", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *SubscriptionHandler) ProcessSuspensions(c *gin.Context) {
	response, err := h.subscriptionService.ProcessSuspensions(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to process suspensions", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *SubscriptionHandler) ProcessExpirations(c *gin.Context) {
	response, err := h.subscriptionService.ProcessExpirations(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to process expirations", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}
