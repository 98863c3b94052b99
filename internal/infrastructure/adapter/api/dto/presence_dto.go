package dto

import "time"

// PresenceUpdateRequest represents the API request for a presence announce.
// InvoiceID is empty when the user is not on any invoice.
type PresenceUpdateRequest struct {
	InvoiceID string `json:"invoiceId"`
	Status    string `json:"status" binding:"required,oneof=viewing editing idle"`
}

// PresenceEntryResponse represents one user's presence claim on the wire
type PresenceEntryResponse struct {
	UserID       string    `json:"userId"`
	UserEmail    string    `json:"userEmail"`
	InvoiceID    string    `json:"invoiceId,omitempty"`
	Status       string    `json:"status"`
	LastActivity time.Time `json:"lastActivity"`
}

// PresenceRosterResponse represents the roster for one invoice, excluding
// the requesting user
type PresenceRosterResponse struct {
	InvoiceID   string                  `json:"invoiceId"`
	Users       []PresenceEntryResponse `json:"users"`
	BeingEdited bool                    `json:"beingEdited"`
}
