package billing

import (
	"context"

	"github.com/jhoicas/cfdi-api/internal/domain/cfdi"
	"github.com/jhoicas/cfdi-api/internal/domain/entity"
)

// StampResult respuesta del PAC al timbrar un comprobante.
type StampResult struct {
	UUID string // Folio fiscal asignado por el PAC
}

// CancelResult veredicto del PAC ante una solicitud de cancelación.
type CancelResult struct {
	Accepted bool
}

// QueryResult estado de un comprobante según el PAC.
type QueryResult struct {
	Status string // "vigente" | "cancelado"
}

// PACClient es el puerto hacia el proveedor autorizado de certificación.
// El manager lo trata como lento y falible: toda llamada va acotada por
// context y un error se absorbe como transición de estado, nunca se reintenta.
type PACClient interface {
	Stamp(ctx context.Context, xml []byte) (*StampResult, error)
	Cancel(ctx context.Context, uuid, motivo, sustituto string) (*CancelResult, error)
	QueryStatus(ctx context.Context, uuid string) (*QueryResult, error)
}

// CFDIBuilder genera el XML del comprobante a partir de la submission validada.
type CFDIBuilder interface {
	Build(c *cfdi.Comprobante) ([]byte, error)
}

// InvoicePDFGenerator genera la representación impresa de una factura timbrada.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, comprobante *cfdi.Comprobante) ([]byte, error)
}
