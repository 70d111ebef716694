package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrNodeNotFound = errors.New("línea de negocio no encontrada en la ruta")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Motor de períodos
	ErrInvalidRange           = errors.New("la fecha de inicio debe ser anterior a la fecha de fin")
	ErrOverlappingPeriod      = errors.New("el período se solapa con un período existente")
	ErrNonIncreasingExtension = errors.New("la nueva fecha de fin debe ser posterior a la fecha actual")

	// Procesador de pagos
	ErrPeriodNotPayable             = errors.New("el período no puede recibir pagos en su estado actual")
	ErrNonPositiveAmount            = errors.New("el importe debe ser mayor a cero")
	ErrPaymentDateInFuture          = errors.New("la fecha de pago no puede ser futura")
	ErrPaymentDateBeforePeriodStart = errors.New("la fecha de pago no puede ser anterior al inicio del período")
	ErrPeriodNotCancellable         = errors.New("el período no puede cancelarse en su estado actual")
	ErrPeriodNotRefundable          = errors.New("solo se pueden reembolsar períodos pagados")
	ErrNonPositiveRefund            = errors.New("el importe a reembolsar debe ser mayor a cero")
	ErrRefundExceedsRemaining       = errors.New("el importe a reembolsar supera el saldo restante del pago")

	// Remanentes
	ErrAdjustmentNotConfigured = errors.New("la línea de negocio no tiene habilitado ese tipo de remanente")
	ErrZeroAdjustment          = errors.New("el remanente no puede ser cero")
	ErrCategoryNotBlack        = errors.New("los remanentes solo aplican a servicios de categoría BLACK")

	// Clientes y servicios
	ErrClientInactive      = errors.New("el cliente está inactivo")
	ErrClientAlreadyActive = errors.New("el cliente ya está activo")
	ErrServiceInactive     = errors.New("el servicio está inactivo")
	ErrMaxLevelExceeded    = errors.New("el nivel máximo permitido es 3")
)
