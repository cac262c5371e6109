package domain

import "time"

// RecoveryActionType is the channel used for a collection attempt.
type RecoveryActionType string

const (
	ActionPhoneCall RecoveryActionType = "phone_call"
	ActionEmail     RecoveryActionType = "email"
	ActionLetter    RecoveryActionType = "letter"
	ActionVisit     RecoveryActionType = "visit"
	ActionLegal     RecoveryActionType = "legal"
)

// Valid reports whether t is a known action type.
func (t RecoveryActionType) Valid() bool {
	switch t {
	case ActionPhoneCall, ActionEmail, ActionLetter, ActionVisit, ActionLegal:
		return true
	}
	return false
}

// RecoveryAction logs one collection attempt against a client's invoice.
type RecoveryAction struct {
	ID          string             `json:"id"`
	InvoiceID   string             `json:"invoiceId"`
	ClientID    string             `json:"clientId"`
	Type        RecoveryActionType `json:"type"`
	Note        string             `json:"note,omitempty"`
	Result      string             `json:"result,omitempty"`
	ActionDate  time.Time          `json:"actionDate"`
	PerformedBy string             `json:"performedBy"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}
