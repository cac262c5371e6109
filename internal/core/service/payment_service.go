package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/recoverydesk/collections-api/internal/core/domain"
	"github.com/recoverydesk/collections-api/internal/core/ports"
)

// PaymentService is the only path that records payments and moves an
// invoice's paid amount.
type PaymentService struct {
	payments ports.PaymentRepository
	invoices ports.InvoiceRepository
	locker   ports.Locker
	logger   zerolog.Logger
}

func NewPaymentService(
	payments ports.PaymentRepository,
	invoices ports.InvoiceRepository,
	locker ports.Locker,
	logger zerolog.Logger,
) *PaymentService {
	return &PaymentService{payments: payments, invoices: invoices, locker: locker, logger: logger}
}

// Apply reconciles a payment against its invoice. Checks run in order and the
// first failure wins: amount, method, invoice existence, settled invoice,
// remaining balance. The invoice is re-read under its lock, so a concurrent
// payment that lost the race is judged against the fresh balance.
func (s *PaymentService) Apply(ctx context.Context, in ports.ApplyPaymentInput) (*ports.PaymentResult, error) {
	if err := domain.ValidatePaymentAmount(in.Amount); err != nil {
		return nil, err
	}
	if !in.Method.Valid() {
		return nil, domain.ErrInvalidMethod
	}

	unlock, err := lockInvoice(ctx, s.locker, in.InvoiceID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	inv, err := s.invoices.FindByID(ctx, in.InvoiceID)
	if err != nil {
		return nil, err
	}

	previousPaid := inv.AmountPaid
	amount := domain.RoundMoney(in.Amount)
	if err := inv.ApplyPayment(amount); err != nil {
		s.logger.Debug().Err(err).
			Str("invoice_id", in.InvoiceID).
			Float64("amount", amount).
			Msg("payment rejected")
		return nil, err
	}

	now := time.Now().UTC()
	paymentDate := in.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = now
	}
	inv.UpdatedAt = now

	payment, err := s.payments.Record(ctx, &domain.Payment{
		InvoiceID:    inv.ID,
		Amount:       amount,
		PaymentDate:  paymentDate.UTC(),
		Method:       in.Method,
		Note:         in.Note,
		Confirmation: in.Method.NewConfirmation(),
		RecordedBy:   in.RecordedBy,
		CreatedAt:    now,
	}, inv, previousPaid)
	if err != nil {
		s.logger.Error().Err(err).Str("invoice_id", inv.ID).Msg("failed to record payment")
		return nil, err
	}

	s.logger.Info().
		Str("payment_id", payment.ID).
		Str("invoice_id", inv.ID).
		Str("method", string(payment.Method)).
		Float64("amount", payment.Amount).
		Str("status", string(inv.Status)).
		Msg("payment recorded")

	return &ports.PaymentResult{
		Payment:          payment,
		InvoiceStatus:    inv.Status,
		AmountPaid:       inv.AmountPaid,
		RemainingBalance: inv.RemainingBalance(),
	}, nil
}

func (s *PaymentService) List(ctx context.Context) ([]*domain.Payment, error) {
	return s.payments.List(ctx)
}

func (s *PaymentService) Get(ctx context.Context, id string) (*domain.Payment, error) {
	return s.payments.FindByID(ctx, id)
}

// ListByInvoice returns the ledger of an existing invoice.
func (s *PaymentService) ListByInvoice(ctx context.Context, invoiceID string) ([]*domain.Payment, error) {
	if _, err := s.invoices.FindByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.payments.ListByInvoice(ctx, invoiceID)
}
