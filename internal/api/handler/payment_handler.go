package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/recoverydesk/collections-api/internal/api/metrics"
	"github.com/recoverydesk/collections-api/internal/core/domain"
	"github.com/recoverydesk/collections-api/internal/core/ports"
)

type PaymentHandler struct {
	service ports.PaymentService
}

func NewPaymentHandler(service ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// Create handles POST /api/payments: it reconciles the payment against its
// invoice and returns the invoice's new state.
//
// @Summary      Record a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      createPaymentRequest  true  "Payment details"
// @Success      201   {object}  paymentResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /api/payments [post]
func (h *PaymentHandler) Create(c echo.Context) error {
	current, err := actor(c)
	if err != nil {
		return err
	}

	var req createPaymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	paymentDate, err := parseDate("paymentDate", req.PaymentDate)
	if err != nil {
		return err
	}

	result, err := h.service.Apply(c.Request().Context(), ports.ApplyPaymentInput{
		InvoiceID:   req.InvoiceID,
		Amount:      req.Amount,
		Method:      domain.PaymentMethod(strings.ToLower(strings.TrimSpace(req.Method))),
		PaymentDate: paymentDate,
		Note:        req.Note,
		RecordedBy:  current.ID,
	})
	if err != nil {
		metrics.PaymentsRejectedTotal.WithLabelValues(metrics.RejectionReason(err)).Inc()
		return err
	}

	method := string(result.Payment.Method)
	metrics.PaymentsRecordedTotal.WithLabelValues(method, string(result.InvoiceStatus)).Inc()
	metrics.PaymentsAmountTotal.WithLabelValues(method).Add(result.Payment.Amount)

	return c.JSON(http.StatusCreated, paymentResponse{
		Payment:          result.Payment,
		InvoiceStatus:    result.InvoiceStatus,
		AmountPaid:       result.AmountPaid,
		RemainingBalance: result.RemainingBalance,
	})
}

// List handles GET /api/payments.
//
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Security     CookieAuth
// @Success      200  {array}  domain.Payment
// @Router       /api/payments [get]
func (h *PaymentHandler) List(c echo.Context) error {
	payments, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payments)
}

// Get handles GET /api/payments/:id.
//
// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  domain.Payment
// @Failure      404  {object}  errorResponse
// @Router       /api/payments/{id} [get]
func (h *PaymentHandler) Get(c echo.Context) error {
	payment, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payment)
}

// ListByInvoice handles GET /api/payments/invoice/:invoiceId.
//
// @Summary      List an invoice's payments
// @Tags         payments
// @Produce      json
// @Security     CookieAuth
// @Param        invoiceId  path      string  true  "Invoice ID"
// @Success      200        {array}   domain.Payment
// @Failure      404        {object}  errorResponse
// @Router       /api/payments/invoice/{invoiceId} [get]
func (h *PaymentHandler) ListByInvoice(c echo.Context) error {
	payments, err := h.service.ListByInvoice(c.Request().Context(), c.Param("invoiceId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payments)
}
