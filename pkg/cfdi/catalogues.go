// Package cfdi contiene catálogos y validaciones alineados al Anexo 20 del
// SAT (México) para CFDI 4.0, en la medida mínima que necesita esta API demo.
package cfdi

// =============================================================================
// Motivos de cancelación (catálogo c_MotivoCancelacion, SAT)
// =============================================================================

const (
	CancelReasonErroresConRelacion = "01" // Comprobante emitido con errores con relación
	CancelReasonErroresSinRelacion = "02" // Comprobante emitido con errores sin relación
	CancelReasonNoSeLlevoACabo     = "03" // No se llevó a cabo la operación
	CancelReasonFacturaGlobal      = "04" // Operación nominativa relacionada en factura global
)

// ValidCancelReasons motivos de cancelación aceptados por el PAC.
var ValidCancelReasons = map[string]bool{
	CancelReasonErroresConRelacion: true,
	CancelReasonErroresSinRelacion: true,
	CancelReasonNoSeLlevoACabo:     true,
	CancelReasonFacturaGlobal:      true,
}

// IsValidCancelReason indica si el motivo pertenece al catálogo c_MotivoCancelacion.
func IsValidCancelReason(motivo string) bool {
	return ValidCancelReasons[motivo]
}

// =============================================================================
// Monedas (catálogo c_Moneda) - la regla de negocio relevante es MXN vs resto:
// MXN exige TipoCambio = 1; cualquier otra moneda exige TipoCambio > 0.
// =============================================================================

const (
	CurrencyMXN = "MXN" // Peso mexicano (moneda nacional)
	CurrencyUSD = "USD" // Dólar estadounidense
	CurrencyEUR = "EUR" // Euro
)

// =============================================================================
// Forma de pago (catálogo c_FormaPago) - códigos de uso frecuente
// =============================================================================

const (
	PaymentFormEfectivo      = "01" // Efectivo
	PaymentFormChequeNominal = "02" // Cheque nominativo
	PaymentFormTransferencia = "03" // Transferencia electrónica de fondos
	PaymentFormTarjetaCred   = "04" // Tarjeta de crédito
	PaymentFormPorDefinir    = "99" // Por definir
)

// =============================================================================
// Método de pago (catálogo c_MetodoPago)
// =============================================================================

const (
	PaymentMethodPUE = "PUE" // Pago en una sola exhibición
	PaymentMethodPPD = "PPD" // Pago en parcialidades o diferido
)

// =============================================================================
// Estados del PAC al consultar un comprobante timbrado (QueryStatus)
// =============================================================================

const (
	SATStatusVigente   = "vigente"
	SATStatusCancelado = "cancelado"
)
