package domain

import "time"

// Overview is the dashboard headline figures.
type Overview struct {
	Users            int64   `json:"users"`
	Clients          int64   `json:"clients"`
	Invoices         int64   `json:"invoices"`
	Payments         int64   `json:"payments"`
	RecoveryActions  int64   `json:"recoveryActions"`
	OverdueInvoices  int64   `json:"overdueInvoices"`
	TotalAmount      float64 `json:"totalAmount"`
	TotalPaid        float64 `json:"totalPaid"`
	TotalOutstanding float64 `json:"totalOutstanding"`
}

// StatusTotal aggregates the invoices sharing one status.
type StatusTotal struct {
	Status      InvoiceStatus `json:"status"`
	Count       int64         `json:"count"`
	TotalAmount float64       `json:"totalAmount"`
	TotalPaid   float64       `json:"totalPaid"`
}

// OverdueInvoice is an outstanding invoice past its due date.
type OverdueInvoice struct {
	ID               string        `json:"id"`
	InvoiceNumber    string        `json:"invoiceNumber"`
	ClientID         string        `json:"clientId"`
	ClientName       string        `json:"clientName"`
	Amount           float64       `json:"amount"`
	AmountPaid       float64       `json:"amountPaid"`
	RemainingBalance float64       `json:"remainingBalance"`
	DueDate          time.Time     `json:"dueDate"`
	Status           InvoiceStatus `json:"status"`
}

// InvoiceStats groups invoice totals by status and lists overdue invoices.
type InvoiceStats struct {
	ByStatus []StatusTotal    `json:"byStatus"`
	Overdue  []OverdueInvoice `json:"overdue"`
}

// AgentActions counts the recovery actions performed by one user.
type AgentActions struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Count  int64  `json:"count"`
}

// AgentCollections sums the payments recorded by one user.
type AgentCollections struct {
	UserID          string  `json:"userId"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Role            Role    `json:"role"`
	Payments        int64   `json:"payments"`
	AmountCollected float64 `json:"amountCollected"`
}

// AgentStats is the per-user activity report.
type AgentStats struct {
	RecoveryActions []AgentActions     `json:"recoveryActions"`
	Collections     []AgentCollections `json:"collections"`
}
