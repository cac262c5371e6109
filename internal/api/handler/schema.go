package handler

import (
	"time"

	"github.com/recoverydesk/collections-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error            string   `json:"error"`
	Errors           []string `json:"errors,omitempty"`
	RemainingBalance *float64 `json:"remainingBalance,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required,notblank,max=120"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,oneof=agent manager admin"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	User      *domain.User `json:"user"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// --- Users ---

type updateUserRequest struct {
	Name  *string `json:"name"  validate:"omitnil,notblank,max=120"`
	Email *string `json:"email" validate:"omitnil,email"`
	Role  *string `json:"role"  validate:"omitempty,oneof=agent manager admin"`
}

// --- Clients ---

type createClientRequest struct {
	Name    string `json:"name"    validate:"required,notblank,min=2,max=100"`
	Email   string `json:"email"   validate:"omitempty,email"`
	Phone   string `json:"phone"   validate:"omitempty,max=50"`
	Address string `json:"address" validate:"omitempty,max=500"`
}

// updateClientRequest accepts an empty email, which clears the stored one.
type updateClientRequest struct {
	Name    *string `json:"name"    validate:"omitnil,notblank,min=2,max=100"`
	Email   *string `json:"email"   validate:"omitempty,email"`
	Phone   *string `json:"phone"   validate:"omitempty,max=50"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}

// --- Invoices ---

type createInvoiceRequest struct {
	InvoiceNumber string   `json:"invoiceNumber" validate:"required,notblank,max=64"`
	ClientID      string   `json:"clientId"      validate:"required"`
	Amount        *float64 `json:"amount"        validate:"required,gte=0"`
	DueDate       string   `json:"dueDate"       validate:"required"`
}

type updateInvoiceRequest struct {
	InvoiceNumber *string  `json:"invoiceNumber" validate:"omitnil,notblank,max=64"`
	ClientID      *string  `json:"clientId"      validate:"omitnil,notblank"`
	Amount        *float64 `json:"amount"        validate:"omitempty,gte=0"`
	DueDate       *string  `json:"dueDate"`
	Status        *string  `json:"status"        validate:"omitempty,oneof=unpaid partially_paid paid overdue"`
}

// invoiceResponse adds the derived balance and overdue flag to an invoice.
type invoiceResponse struct {
	*domain.Invoice
	RemainingBalance float64 `json:"remainingBalance"`
	IsOverdue        bool    `json:"isOverdue"`
}

func newInvoiceResponse(inv *domain.Invoice, now time.Time) invoiceResponse {
	return invoiceResponse{
		Invoice:          inv,
		RemainingBalance: inv.RemainingBalance(),
		IsOverdue:        inv.IsOverdue(now),
	}
}

func newInvoiceResponses(invoices []*domain.Invoice, now time.Time) []invoiceResponse {
	out := make([]invoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, newInvoiceResponse(inv, now))
	}
	return out
}

// --- Payments ---

// createPaymentRequest leaves the invoice id, amount and method unchecked
// here so the reconciliation engine reports them in its own order: amount,
// method, then a missing invoice.
type createPaymentRequest struct {
	InvoiceID   string  `json:"invoiceId"`
	Amount      float64 `json:"amount"`
	Method      string  `json:"method"`
	PaymentDate string  `json:"paymentDate"`
	Note        string  `json:"note"        validate:"omitempty,max=500"`
}

type paymentResponse struct {
	Payment          *domain.Payment      `json:"payment"`
	InvoiceStatus    domain.InvoiceStatus `json:"invoiceStatus"`
	AmountPaid       float64              `json:"amountPaid"`
	RemainingBalance float64              `json:"remainingBalance"`
}

// --- Recovery actions ---

type createRecoveryActionRequest struct {
	InvoiceID  string `json:"invoiceId"  validate:"required"`
	ClientID   string `json:"clientId"   validate:"required"`
	Type       string `json:"type"       validate:"required,oneof=phone_call email letter visit legal"`
	Note       string `json:"note"       validate:"omitempty,max=1000"`
	Result     string `json:"result"     validate:"omitempty,max=500"`
	ActionDate string `json:"actionDate"`
}

type updateRecoveryActionRequest struct {
	Type       *string `json:"type"       validate:"omitempty,oneof=phone_call email letter visit legal"`
	Note       *string `json:"note"       validate:"omitempty,max=1000"`
	Result     *string `json:"result"     validate:"omitempty,max=500"`
	ActionDate *string `json:"actionDate"`
}
