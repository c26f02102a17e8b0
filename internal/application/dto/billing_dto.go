package dto

import "github.com/jhoicas/cfdi-api/internal/domain/entity"

// InvoiceResponse proyección de la factura para las respuestas de la API.
// errors siempre va presente (lista vacía si no hay errores del PAC).
type InvoiceResponse struct {
	ID     string   `json:"id"`
	Status string   `json:"status"`
	UUID   string   `json:"uuid,omitempty"`
	XMLURL string   `json:"xml_url,omitempty"`
	Errors []string `json:"errors"`
}

// ToInvoiceResponse construye la proyección desde la entidad.
func ToInvoiceResponse(inv *entity.Invoice) *InvoiceResponse {
	if inv == nil {
		return nil
	}
	errs := []string{}
	if inv.PACErrors != "" {
		errs = append(errs, inv.PACErrors)
	}
	return &InvoiceResponse{
		ID:     inv.ID,
		Status: inv.Status,
		UUID:   inv.UUID,
		XMLURL: inv.XMLURL,
		Errors: errs,
	}
}

// CancelInvoiceRequest body para POST /invoices/:uuid/cancel.
// motivo: catálogo c_MotivoCancelacion ("01".."04").
// uuidSustituto: requerido por el SAT cuando motivo = 01.
type CancelInvoiceRequest struct {
	Motivo        string `json:"motivo"`
	UUIDSustituto string `json:"uuidSustituto,omitempty"`
}

// CancelInvoiceResponse resultado de la cancelación.
type CancelInvoiceResponse struct {
	UUID   string `json:"uuid"`
	Status string `json:"status"`
}
