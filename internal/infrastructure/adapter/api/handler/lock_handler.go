package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/summitaiAU/invoice-lockd/internal/domain/entity"
	domainerr "github.com/summitaiAU/invoice-lockd/internal/domain/error"
	coreport "github.com/summitaiAU/invoice-lockd/internal/domain/port/core"
	"github.com/summitaiAU/invoice-lockd/internal/domain/port/usecase"
	"github.com/summitaiAU/invoice-lockd/internal/infrastructure/adapter/api/dto"
	"github.com/summitaiAU/invoice-lockd/internal/infrastructure/adapter/api/middleware"
)

// LockHandler handles invoice lock HTTP requests
type LockHandler struct {
	lockUseCase usecase.LockUseCase
	logger      coreport.Logger
}

// NewLockHandler creates a new lock handler instance
func NewLockHandler(
	lockUseCase usecase.LockUseCase,
	logger coreport.Logger,
) *LockHandler {
	return &LockHandler{
		lockUseCase: lockUseCase,
		logger:      logger,
	}
}

// GetLock handles the GET /invoices/{invoiceId}/lock endpoint
func (h *LockHandler) GetLock(c *gin.Context) {
	invoiceID := c.Param("invoiceId")

	lock, err := h.lockUseCase.Get(c.Request.Context(), invoiceID)
	if err != nil {
		h.respondError(c, invoiceID, "Error reading lock", err)
		return
	}

	c.JSON(http.StatusOK, dto.LockStateResponse{
		Locked: lock != nil,
		Lock:   toLockResponse(lock),
	})
}

// AcquireLock handles the POST /invoices/{invoiceId}/lock endpoint
func (h *LockHandler) AcquireLock(c *gin.Context) {
	invoiceID := c.Param("invoiceId")
	user, _ := middleware.CallerIdentity(c)

	result, err := h.lockUseCase.AcquireOrRefresh(c.Request.Context(), invoiceID, user)
	if err != nil {
		h.respondError(c, invoiceID, "Error acquiring lock", err)
		return
	}

	status := http.StatusOK
	if !result.Success {
		// A conflict still carries the full payload so the caller can show
		// who holds the lock
		status = http.StatusConflict
	}
	c.JSON(status, dto.AcquireLockResponse{
		Success: result.Success,
		Lock:    toLockResponse(result.Lock),
		Holder:  toLockResponse(result.Holder),
	})
}

// ReleaseLock handles the DELETE /invoices/{invoiceId}/lock endpoint
func (h *LockHandler) ReleaseLock(c *gin.Context) {
	invoiceID := c.Param("invoiceId")
	user, _ := middleware.CallerIdentity(c)

	if err := h.lockUseCase.Release(c.Request.Context(), invoiceID, user); err != nil {
		h.respondError(c, invoiceID, "Error releasing lock", err)
		return
	}

	c.JSON(http.StatusOK, dto.ReleaseLockResponse{Released: true})
}

// ForceTakeover handles the POST /invoices/{invoiceId}/lock/takeover endpoint
func (h *LockHandler) ForceTakeover(c *gin.Context) {
	invoiceID := c.Param("invoiceId")
	user, _ := middleware.CallerIdentity(c)

	var req dto.TakeoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrTakeoverReasonRequired),
			Message: "Takeover requires a non-empty reason",
		})
		return
	}

	result, err := h.lockUseCase.ForceTake(c.Request.Context(), invoiceID, user, req.Reason)
	if err != nil {
		h.respondError(c, invoiceID, "Error taking over lock", err)
		return
	}

	c.JSON(http.StatusOK, dto.AcquireLockResponse{
		Success: result.Success,
		Lock:    toLockResponse(result.Lock),
		Holder:  toLockResponse(result.Holder),
	})
}

// VerifyOwnership handles the POST /invoices/{invoiceId}/lock/verify endpoint
func (h *LockHandler) VerifyOwnership(c *gin.Context) {
	invoiceID := c.Param("invoiceId")
	user, _ := middleware.CallerIdentity(c)

	if err := h.lockUseCase.VerifyOwnership(c.Request.Context(), invoiceID, user); err != nil {
		if errors.Is(err, domainerr.ErrNotLockHolder) {
			c.JSON(http.StatusConflict, dto.VerifyOwnershipResponse{Owned: false})
			return
		}
		h.respondError(c, invoiceID, "Error verifying lock ownership", err)
		return
	}

	c.JSON(http.StatusOK, dto.VerifyOwnershipResponse{Owned: true})
}

// respondError maps domain errors to HTTP status codes
func (h *LockHandler) respondError(c *gin.Context, invoiceID, logMessage string, err error) {
	statusCode := http.StatusInternalServerError
	errorMessage := "Internal server error"

	switch {
	case errors.Is(err, domainerr.ErrInvalidInvoiceID):
		statusCode = http.StatusBadRequest
		errorMessage = "Invalid invoice ID"
	case errors.Is(err, domainerr.ErrInvalidIdentity):
		statusCode = http.StatusBadRequest
		errorMessage = "Invalid user identity"
	case errors.Is(err, domainerr.ErrTakeoverReasonRequired):
		statusCode = http.StatusBadRequest
		errorMessage = "Takeover requires a non-empty reason"
	case errors.Is(err, domainerr.ErrInsufficientRole):
		statusCode = http.StatusForbidden
		errorMessage = "Takeover requires an admin or manager role"
	case errors.Is(err, domainerr.ErrNotLockHolder):
		statusCode = http.StatusConflict
		errorMessage = "Lock is not held by the caller"
	}

	if statusCode == http.StatusInternalServerError {
		h.logger.Error(logMessage, map[string]any{
			"invoice_id": invoiceID,
			"error":      err.Error(),
		})
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: errorMessage,
	})
}

// toLockResponse converts a lock entity to its wire form, passing nil through
func toLockResponse(lock *entity.Lock) *dto.LockResponse {
	if lock == nil {
		return nil
	}
	return &dto.LockResponse{
		InvoiceID:      lock.InvoiceID,
		LockedByUserID: lock.LockedByUserID,
		LockedByEmail:  lock.LockedByEmail,
		LockedAt:       lock.LockedAt,
	}
}
