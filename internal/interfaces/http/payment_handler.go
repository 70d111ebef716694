package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/servicios-api/internal/application/dto"
	"github.com/jhoicas/servicios-api/internal/application/payments"
	"github.com/jhoicas/servicios-api/internal/domain"
)

// PaymentHandler maneja pagos, cancelaciones y reembolsos de períodos.
type PaymentHandler struct {
	uc *payments.PaymentUseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *payments.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// mapPaymentError traduce los errores del procesador de pagos. Comparten
// el mismo catálogo todos los endpoints del handler.
func mapPaymentError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "período o servicio no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos de pago inválidos"})
	case errors.Is(err, domain.ErrNonPositiveAmount):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NON_POSITIVE_AMOUNT", Message: "el importe debe ser mayor a cero"})
	case errors.Is(err, domain.ErrPaymentDateInFuture):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "FUTURE_DATE", Message: "la fecha de pago no puede ser futura"})
	case errors.Is(err, domain.ErrPaymentDateBeforePeriodStart):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "DATE_BEFORE_PERIOD", Message: "la fecha de pago es anterior al inicio del período"})
	case errors.Is(err, domain.ErrPeriodNotPayable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_PAYABLE", Message: "el período no admite pagos en su estado actual"})
	case errors.Is(err, domain.ErrPeriodNotCancellable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_CANCELLABLE", Message: "el período no admite cancelación en su estado actual"})
	case errors.Is(err, domain.ErrPeriodNotRefundable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_REFUNDABLE", Message: "solo se reembolsan períodos pagados"})
	case errors.Is(err, domain.ErrNonPositiveRefund):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NON_POSITIVE_REFUND", Message: "el importe a reembolsar debe ser mayor a cero"})
	case errors.Is(err, domain.ErrRefundExceedsRemaining):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "REFUND_EXCEEDS", Message: "el reembolso supera el saldo restante"})
	case errors.Is(err, domain.ErrOverlappingPeriod):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "OVERLAP", Message: "el período se solapa con uno existente"})
	case errors.Is(err, domain.ErrServiceInactive):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "SERVICE_INACTIVE", Message: "el servicio está dado de baja"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// Pay registra el pago de un período pagable.
// POST /api/periods/:id/pay
func (h *PaymentHandler) Pay(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	var in dto.ProcessPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	payDate, err := parseDate(in.PaymentDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "payment_date debe ser YYYY-MM-DD"})
	}
	if payDate == nil {
		now := time.Now()
		payDate = &now
	}
	period, err := h.uc.ProcessPayment(c.Context(), tenantID, c.Params("id"), payments.PaymentInput{
		Amount:          in.Amount,
		PaymentDate:     *payDate,
		PaymentMethod:   in.PaymentMethod,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
	})
	if err != nil {
		return mapPaymentError(c, err)
	}
	return c.JSON(dto.NewPeriodResponse(period))
}

// PayAndExtend crea y paga el siguiente período en una sola transacción.
// POST /api/services/:id/pay-extend
func (h *PaymentHandler) PayAndExtend(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	var in dto.PayAndExtendRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	payDate, err := parseDate(in.PaymentDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "payment_date debe ser YYYY-MM-DD"})
	}
	if payDate == nil {
		now := time.Now()
		payDate = &now
	}
	period, err := h.uc.CreatePaymentAndExtend(c.Context(), tenantID, c.Params("id"), payments.ExtendInput{
		Amount:          in.Amount,
		PaymentMethod:   in.PaymentMethod,
		PaymentDate:     *payDate,
		ExtendMonths:    in.ExtendMonths,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
	})
	if err != nil {
		return mapPaymentError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewPeriodResponse(period))
}

// Cancel cancela un período no pagado y resincroniza el end_date.
// POST /api/periods/:id/cancel
func (h *PaymentHandler) Cancel(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	var in dto.CancelPeriodRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	period, err := h.uc.Cancel(c.Context(), tenantID, c.Params("id"), in.Reason)
	if err != nil {
		return mapPaymentError(c, err)
	}
	return c.JSON(dto.NewPeriodResponse(period))
}

// Refund reembolsa parcial o totalmente un período pagado.
// POST /api/periods/:id/refund
func (h *PaymentHandler) Refund(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	var in dto.RefundRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	period, err := h.uc.Refund(c.Context(), tenantID, c.Params("id"), in.Amount, in.Reason)
	if err != nil {
		return mapPaymentError(c, err)
	}
	return c.JSON(dto.NewPeriodResponse(period))
}

// SuggestedAmount calcula el importe prorrateado sugerido del período.
// GET /api/periods/:id/suggested-amount
func (h *PaymentHandler) SuggestedAmount(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	amount, err := h.uc.CalculateSuggestedAmount(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return mapPaymentError(c, err)
	}
	return c.JSON(dto.SuggestedAmountResponse{Amount: amount})
}

// History lista todos los períodos del servicio, el más reciente primero.
// GET /api/services/:id/payments
func (h *PaymentHandler) History(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	items, err := h.uc.GetPaymentHistory(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return mapPaymentError(c, err)
	}
	return c.JSON(dto.NewPeriodListResponse(items))
}

// Timing clasifica la cadencia de pagos del servicio.
// GET /api/services/:id/payment-timing
func (h *PaymentHandler) Timing(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	timing, err := h.uc.AnalyzePaymentTiming(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return mapPaymentError(c, err)
	}
	return c.JSON(dto.PaymentTimingResponse{
		AvgDaysBetweenPayments: timing.AvgDaysBetweenPayments,
		Frequency:              timing.Frequency,
		LastPaymentDaysAgo:     timing.LastPaymentDaysAgo,
	})
}
