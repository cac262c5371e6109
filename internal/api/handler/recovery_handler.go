package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/recoverydesk/collections-api/internal/core/domain"
	"github.com/recoverydesk/collections-api/internal/core/ports"
)

type RecoveryActionHandler struct {
	service ports.RecoveryActionService
}

func NewRecoveryActionHandler(service ports.RecoveryActionService) *RecoveryActionHandler {
	return &RecoveryActionHandler{service: service}
}

func (h *RecoveryActionHandler) list(c echo.Context, filter ports.RecoveryActionFilter) error {
	actions, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, actions)
}

// List handles GET /api/recovery-actions.
//
// @Summary      List recovery actions
// @Tags         recovery-actions
// @Produce      json
// @Security     CookieAuth
// @Success      200  {array}  domain.RecoveryAction
// @Router       /api/recovery-actions [get]
func (h *RecoveryActionHandler) List(c echo.Context) error {
	return h.list(c, ports.RecoveryActionFilter{})
}

// ListByClient handles GET /api/recovery-actions/client/:clientId.
//
// @Summary      List a client's recovery actions
// @Tags         recovery-actions
// @Produce      json
// @Security     CookieAuth
// @Param        clientId  path      string  true  "Client ID"
// @Success      200       {array}   domain.RecoveryAction
// @Failure      404       {object}  errorResponse
// @Router       /api/recovery-actions/client/{clientId} [get]
func (h *RecoveryActionHandler) ListByClient(c echo.Context) error {
	return h.list(c, ports.RecoveryActionFilter{ClientID: c.Param("clientId")})
}

// ListByInvoice handles GET /api/recovery-actions/invoice/:invoiceId.
//
// @Summary      List an invoice's recovery actions
// @Tags         recovery-actions
// @Produce      json
// @Security     CookieAuth
// @Param        invoiceId  path      string  true  "Invoice ID"
// @Success      200        {array}   domain.RecoveryAction
// @Failure      404        {object}  errorResponse
// @Router       /api/recovery-actions/invoice/{invoiceId} [get]
func (h *RecoveryActionHandler) ListByInvoice(c echo.Context) error {
	return h.list(c, ports.RecoveryActionFilter{InvoiceID: c.Param("invoiceId")})
}

// Get handles GET /api/recovery-actions/:id.
//
// @Summary      Get a recovery action
// @Tags         recovery-actions
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Recovery action ID"
// @Success      200  {object}  domain.RecoveryAction
// @Failure      404  {object}  errorResponse
// @Router       /api/recovery-actions/{id} [get]
func (h *RecoveryActionHandler) Get(c echo.Context) error {
	action, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, action)
}

// Create handles POST /api/recovery-actions.
//
// @Summary      Log a recovery action
// @Tags         recovery-actions
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      createRecoveryActionRequest  true  "Action details"
// @Success      201   {object}  domain.RecoveryAction
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/recovery-actions [post]
func (h *RecoveryActionHandler) Create(c echo.Context) error {
	current, err := actor(c)
	if err != nil {
		return err
	}

	var req createRecoveryActionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	actionDate, err := parseDate("actionDate", req.ActionDate)
	if err != nil {
		return err
	}

	action, err := h.service.Create(c.Request().Context(), ports.CreateRecoveryActionInput{
		InvoiceID:   req.InvoiceID,
		ClientID:    req.ClientID,
		Type:        domain.RecoveryActionType(req.Type),
		Note:        req.Note,
		Result:      req.Result,
		ActionDate:  actionDate,
		PerformedBy: current.ID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, action)
}

// Update handles PUT /api/recovery-actions/:id.
//
// @Summary      Update a recovery action
// @Tags         recovery-actions
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string                       true  "Recovery action ID"
// @Param        body  body      updateRecoveryActionRequest  true  "Fields to change"
// @Success      200   {object}  domain.RecoveryAction
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/recovery-actions/{id} [put]
func (h *RecoveryActionHandler) Update(c echo.Context) error {
	var req updateRecoveryActionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	actionDate, err := parseOptionalDate("actionDate", req.ActionDate)
	if err != nil {
		return err
	}

	in := ports.UpdateRecoveryActionInput{
		Note:       req.Note,
		Result:     req.Result,
		ActionDate: actionDate,
	}
	if req.Type != nil {
		t := domain.RecoveryActionType(*req.Type)
		in.Type = &t
	}

	action, err := h.service.Update(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, action)
}

// Delete handles DELETE /api/recovery-actions/:id.
//
// @Summary      Delete a recovery action
// @Tags         recovery-actions
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Recovery action ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/recovery-actions/{id} [delete]
func (h *RecoveryActionHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "recovery action deleted"})
}
