package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de la factura frente al PAC.
// Las transiciones válidas son monótonas:
//
//	pending → stamped | failed
//	stamped → cancel_accepted | cancel_rejected
//
// failed, cancel_accepted y cancel_rejected son terminales.
const (
	StatusPending        = "pending"         // Persistida, timbrado aún no concluye
	StatusStamped        = "stamped"         // Timbrada por el PAC, UUID asignado
	StatusFailed         = "failed"          // El PAC falló o expiró el timeout; no se reintenta solo
	StatusCancelAccepted = "cancel_accepted" // Cancelación aceptada por el PAC
	StatusCancelRejected = "cancel_rejected" // Cancelación rechazada por el PAC
)

// validTransitions tabla de transiciones permitidas del estado de la factura.
var validTransitions = map[string][]string{
	StatusPending: {StatusStamped, StatusFailed},
	StatusStamped: {StatusCancelAccepted, StatusCancelRejected},
}

// CanTransition indica si el cambio de estado from → to es válido.
// Ningún estado puede regresar a pending ni salir de un estado terminal.
func CanTransition(from, to string) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal indica si el estado ya no admite transiciones.
func IsTerminal(status string) bool {
	return len(validTransitions[status]) == 0
}

// Invoice representa una factura recibida para timbrado.
// IdempotencyKey es única: dos POST con la misma llave convergen al mismo registro.
// UUID es el folio fiscal asignado por el PAC al timbrar; único cuando no está vacío.
type Invoice struct {
	ID             string
	IdempotencyKey string
	Status         string
	UUID           string // Folio fiscal (UUID de timbrado); vacío hasta stamped
	XMLURL         string // Ruta del XML timbrado; vacío hasta stamped
	XMLContent     string // XML del comprobante generado al timbrar
	PACErrors      string          // Mensajes de error del PAC (vacío si OK)
	Payload        []byte          // Submission original validada, JSON crudo (auditoría/replay)
	SubTotal       decimal.Decimal // Importe antes de descuentos, fijado al crear
	Total          decimal.Decimal // Importe neto del comprobante
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
