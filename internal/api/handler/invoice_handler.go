package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/recoverydesk/collections-api/internal/core/domain"
	"github.com/recoverydesk/collections-api/internal/core/ports"
)

type InvoiceHandler struct {
	service ports.InvoiceService
	now     func() time.Time
}

func NewInvoiceHandler(service ports.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service, now: time.Now}
}

// List handles GET /api/invoices.
//
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Security     CookieAuth
// @Param        status    query     string  false  "unpaid, partially_paid, paid or overdue"
// @Param        clientId  query     string  false  "Client ID"
// @Success      200       {array}   invoiceResponse
// @Failure      400       {object}  errorResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c echo.Context) error {
	invoices, err := h.service.List(c.Request().Context(), ports.InvoiceFilter{
		ClientID: c.QueryParam("clientId"),
		Status:   domain.InvoiceStatus(c.QueryParam("status")),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newInvoiceResponses(invoices, h.now()))
}

// Get handles GET /api/invoices/:id.
//
// @Summary      Get an invoice
// @Tags         invoices
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  invoiceResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) Get(c echo.Context) error {
	inv, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newInvoiceResponse(inv, h.now()))
}

// ListByClient handles GET /api/invoices/client/:clientId.
//
// @Summary      List a client's invoices
// @Tags         invoices
// @Produce      json
// @Security     CookieAuth
// @Param        clientId  path      string  true  "Client ID"
// @Success      200       {array}   invoiceResponse
// @Failure      404       {object}  errorResponse
// @Router       /api/invoices/client/{clientId} [get]
func (h *InvoiceHandler) ListByClient(c echo.Context) error {
	invoices, err := h.service.ListByClient(c.Request().Context(), c.Param("clientId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newInvoiceResponses(invoices, h.now()))
}

// Create handles POST /api/invoices.
//
// @Summary      Create an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      createInvoiceRequest  true  "Invoice details"
// @Success      201   {object}  invoiceResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c echo.Context) error {
	current, err := actor(c)
	if err != nil {
		return err
	}

	var req createInvoiceRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	dueDate, err := parseDate("dueDate", req.DueDate)
	if err != nil {
		return err
	}

	inv, err := h.service.Create(c.Request().Context(), ports.CreateInvoiceInput{
		InvoiceNumber: req.InvoiceNumber,
		ClientID:      req.ClientID,
		Amount:        *req.Amount,
		DueDate:       dueDate,
		CreatedBy:     current.ID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newInvoiceResponse(inv, h.now()))
}

// Update handles PUT /api/invoices/:id. The paid amount cannot be edited;
// it only moves through payments.
//
// @Summary      Update an invoice
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string                true  "Invoice ID"
// @Param        body  body      updateInvoiceRequest  true  "Fields to change"
// @Success      200   {object}  invoiceResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /api/invoices/{id} [put]
func (h *InvoiceHandler) Update(c echo.Context) error {
	var req updateInvoiceRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	dueDate, err := parseOptionalDate("dueDate", req.DueDate)
	if err != nil {
		return err
	}

	in := ports.UpdateInvoiceInput{
		InvoiceNumber: req.InvoiceNumber,
		ClientID:      req.ClientID,
		Amount:        req.Amount,
		DueDate:       dueDate,
	}
	if req.Status != nil {
		status := domain.InvoiceStatus(*req.Status)
		in.Status = &status
	}

	inv, err := h.service.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newInvoiceResponse(inv, h.now()))
}

// Delete handles DELETE /api/invoices/:id.
//
// @Summary      Delete an invoice without payments or recovery actions
// @Tags         invoices
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "invoice deleted"})
}
