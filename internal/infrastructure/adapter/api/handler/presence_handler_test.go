package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/summitaiAU/invoice-lockd/internal/domain/entity"
	domainerr "github.com/summitaiAU/invoice-lockd/internal/domain/error"
	"github.com/summitaiAU/invoice-lockd/internal/infrastructure/adapter/api/dto"
	"github.com/summitaiAU/invoice-lockd/internal/infrastructure/adapter/api/middleware"
	mcore "github.com/summitaiAU/invoice-lockd/mocks/port/core"
	muc "github.com/summitaiAU/invoice-lockd/mocks/port/usecase"
)

func newPresenceRouter(uc *muc.MockPresenceUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)

	logger := new(mcore.MockLogger)
	logger.On("Info", mock.Anything, mock.Anything).Maybe()
	logger.On("Error", mock.Anything, mock.Anything).Maybe()
	logger.On("Warn", mock.Anything, mock.Anything).Maybe()
	logger.On("Debug", mock.Anything, mock.Anything).Maybe()

	h := NewPresenceHandler(uc, logger)

	router := gin.New()
	authenticated := router.Group("/", middleware.Identity())
	authenticated.PUT("/presence", h.UpdatePresence)
	authenticated.DELETE("/presence", h.LeavePresence)
	authenticated.POST("/presence/suspend", h.SuspendPresence)
	authenticated.POST("/presence/resume", h.ResumePresence)
	authenticated.GET("/invoices/:invoiceId/presence", h.GetRoster)
	return router
}

func doPresenceRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderUserID, "user-1")
	req.Header.Set(middleware.HeaderUserEmail, "user1@example.com")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUpdatePresence(t *testing.T) {
	caller := entity.Identity{UserID: "user-1", Email: "user1@example.com"}

	t.Run("joins and announces the claim", func(t *testing.T) {
		uc := new(muc.MockPresenceUseCase)
		uc.On("Join", mock.Anything, caller).Return(nil)
		uc.On("Update", mock.Anything, caller, "INV-001", entity.StatusEditing).Return(nil)

		w := doPresenceRequest(newPresenceRouter(uc), http.MethodPut, "/presence",
			dto.PresenceUpdateRequest{InvoiceID: "INV-001", Status: "editing"})

		assert.Equal(t, http.StatusNoContent, w.Code)
		uc.AssertExpectations(t)
	})

	t.Run("rejects an unknown status at the binding", func(t *testing.T) {
		uc := new(muc.MockPresenceUseCase)

		w := doPresenceRequest(newPresenceRouter(uc), http.MethodPut, "/presence",
			map[string]string{"invoice_id": "INV-001", "status": "typing"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, domainerr.CodeInvalidPresenceStatus, resp.Code)
		uc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects requests without identity headers", func(t *testing.T) {
		uc := new(muc.MockPresenceUseCase)
		router := newPresenceRouter(uc)

		payload, _ := json.Marshal(dto.PresenceUpdateRequest{Status: "idle"})
		req := httptest.NewRequest(http.MethodPut, "/presence", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		uc.AssertNotCalled(t, "Join", mock.Anything, mock.Anything)
	})
}

func TestLeavePresence(t *testing.T) {
	caller := entity.Identity{UserID: "user-1", Email: "user1@example.com"}

	uc := new(muc.MockPresenceUseCase)
	uc.On("Leave", mock.Anything, caller).Return()

	w := doPresenceRequest(newPresenceRouter(uc), http.MethodDelete, "/presence", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	uc.AssertExpectations(t)
}

func TestSuspendResumePresence(t *testing.T) {
	caller := entity.Identity{UserID: "user-1", Email: "user1@example.com"}

	t.Run("suspend parks the caller's claim", func(t *testing.T) {
		uc := new(muc.MockPresenceUseCase)
		uc.On("Suspend", mock.Anything, caller).Return()

		w := doPresenceRequest(newPresenceRouter(uc), http.MethodPost, "/presence/suspend", nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		uc.AssertExpectations(t)
	})

	t.Run("resume restores it", func(t *testing.T) {
		uc := new(muc.MockPresenceUseCase)
		uc.On("Resume", mock.Anything, caller).Return()

		w := doPresenceRequest(newPresenceRouter(uc), http.MethodPost, "/presence/resume", nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		uc.AssertExpectations(t)
	})
}

func TestGetRoster(t *testing.T) {
	lastActivity := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("returns the other users on the invoice", func(t *testing.T) {
		uc := new(muc.MockPresenceUseCase)
		uc.On("UsersOnInvoice", "INV-001", "user-1").Return([]entity.PresenceEntry{
			{
				UserID:           "user-2",
				UserEmail:        "user2@example.com",
				CurrentInvoiceID: "INV-001",
				Status:           entity.StatusEditing,
				LastActivity:     lastActivity,
			},
		})
		uc.On("IsInvoiceBeingEdited", "INV-001", "user-1").Return(true)

		w := doPresenceRequest(newPresenceRouter(uc), http.MethodGet, "/invoices/INV-001/presence", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var resp dto.PresenceRosterResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "INV-001", resp.InvoiceID)
		require.Len(t, resp.Users, 1)
		assert.Equal(t, "user-2", resp.Users[0].UserID)
		assert.Equal(t, "editing", resp.Users[0].Status)
		assert.True(t, resp.BeingEdited)
	})

	t.Run("returns an empty roster for an untouched invoice", func(t *testing.T) {
		uc := new(muc.MockPresenceUseCase)
		uc.On("UsersOnInvoice", "INV-001", "user-1").Return(nil)
		uc.On("IsInvoiceBeingEdited", "INV-001", "user-1").Return(false)

		w := doPresenceRequest(newPresenceRouter(uc), http.MethodGet, "/invoices/INV-001/presence", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var resp dto.PresenceRosterResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.Users)
		assert.False(t, resp.BeingEdited)
	})
}
