package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/summitaiAU/invoice-lockd/internal/domain/entity"
	domainerr "github.com/summitaiAU/invoice-lockd/internal/domain/error"
	coreport "github.com/summitaiAU/invoice-lockd/internal/domain/port/core"
	"github.com/summitaiAU/invoice-lockd/internal/domain/port/usecase"
	"github.com/summitaiAU/invoice-lockd/internal/infrastructure/adapter/api/dto"
	"github.com/summitaiAU/invoice-lockd/internal/infrastructure/adapter/api/middleware"
)

// PresenceHandler handles presence HTTP requests. Presence is advisory, so
// channel trouble never turns into a user-facing error here: the use case
// swallows it and these endpoints report what the roster currently shows.
type PresenceHandler struct {
	presenceUseCase usecase.PresenceUseCase
	logger          coreport.Logger
}

// NewPresenceHandler creates a new presence handler instance
func NewPresenceHandler(
	presenceUseCase usecase.PresenceUseCase,
	logger coreport.Logger,
) *PresenceHandler {
	return &PresenceHandler{
		presenceUseCase: presenceUseCase,
		logger:          logger,
	}
}

// UpdatePresence handles the PUT /presence endpoint
func (h *PresenceHandler) UpdatePresence(c *gin.Context) {
	user, _ := middleware.CallerIdentity(c)

	var req dto.PresenceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidPresenceStatus),
			Message: "Status must be one of: viewing, editing, idle",
		})
		return
	}

	if err := h.presenceUseCase.Join(c.Request.Context(), user); err != nil {
		h.logger.Error("Error joining presence channel", map[string]any{
			"user_id": user.UserID,
			"error":   err.Error(),
		})
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInternalServer),
			Message: "Internal server error",
		})
		return
	}

	status := entity.PresenceStatus(req.Status)
	if err := h.presenceUseCase.Update(c.Request.Context(), user, req.InvoiceID, status); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: "Status must be one of: viewing, editing, idle",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// SuspendPresence handles the POST /presence/suspend endpoint. Clients call
// it when the tab goes hidden or starts unloading; the prior claim is kept
// server-side for a later resume.
func (h *PresenceHandler) SuspendPresence(c *gin.Context) {
	user, _ := middleware.CallerIdentity(c)
	h.presenceUseCase.Suspend(c.Request.Context(), user)
	c.Status(http.StatusNoContent)
}

// ResumePresence handles the POST /presence/resume endpoint, re-announcing
// the claim that was current before the suspend
func (h *PresenceHandler) ResumePresence(c *gin.Context) {
	user, _ := middleware.CallerIdentity(c)
	h.presenceUseCase.Resume(c.Request.Context(), user)
	c.Status(http.StatusNoContent)
}

// LeavePresence handles the DELETE /presence endpoint
func (h *PresenceHandler) LeavePresence(c *gin.Context) {
	user, _ := middleware.CallerIdentity(c)
	h.presenceUseCase.Leave(c.Request.Context(), user)
	c.Status(http.StatusNoContent)
}

// GetRoster handles the GET /invoices/{invoiceId}/presence endpoint
func (h *PresenceHandler) GetRoster(c *gin.Context) {
	invoiceID := c.Param("invoiceId")
	user, _ := middleware.CallerIdentity(c)

	entries := h.presenceUseCase.UsersOnInvoice(invoiceID, user.UserID)
	users := make([]dto.PresenceEntryResponse, 0, len(entries))
	for _, entry := range entries {
		users = append(users, dto.PresenceEntryResponse{
			UserID:       entry.UserID,
			UserEmail:    entry.UserEmail,
			InvoiceID:    entry.CurrentInvoiceID,
			Status:       string(entry.Status),
			LastActivity: entry.LastActivity,
		})
	}

	c.JSON(http.StatusOK, dto.PresenceRosterResponse{
		InvoiceID:   invoiceID,
		Users:       users,
		BeingEdited: h.presenceUseCase.IsInvoiceBeingEdited(invoiceID, user.UserID),
	})
}
