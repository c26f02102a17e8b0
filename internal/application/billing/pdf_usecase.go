package billing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/cfdi-api/internal/domain"
	"github.com/jhoicas/cfdi-api/internal/domain/cfdi"
	"github.com/jhoicas/cfdi-api/internal/domain/entity"
	"github.com/jhoicas/cfdi-api/internal/domain/repository"
)

// PDFUseCase genera la representación impresa (PDF) de una factura timbrada.
// Solo se permite generar el PDF si la factura ya tiene folio fiscal (UUID).
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	generator   InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(invoiceRepo repository.InvoiceRepository, generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{invoiceRepo: invoiceRepo, generator: generator}
}

// DownloadInvoicePDF recupera la factura, verifica que ya está timbrada y
// genera el PDF con la representación impresa del CFDI.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrConflict         si la factura aún no está timbrada.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if inv.Status != entity.StatusStamped || inv.UUID == "" {
		return nil, "", fmt.Errorf("%w: la factura está en estado %s, espere a que sea timbrada antes de descargar el PDF",
			domain.ErrConflict, inv.Status)
	}

	var comp cfdi.Comprobante
	if err := json.Unmarshal(inv.Payload, &comp); err != nil {
		return nil, "", fmt.Errorf("pdf: payload de la factura corrupto: %w", err)
	}

	bytes, err := uc.generator.GenerateInvoicePDF(ctx, inv, &comp)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar: %w", err)
	}
	return bytes, fmt.Sprintf("factura-%s.pdf", inv.UUID), nil
}
