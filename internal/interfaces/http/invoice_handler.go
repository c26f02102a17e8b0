package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cfdi-api/internal/application/billing"
	"github.com/jhoicas/cfdi-api/internal/application/dto"
	"github.com/jhoicas/cfdi-api/internal/domain"
	"github.com/jhoicas/cfdi-api/internal/domain/cfdi"
)

// Header de idempotencia para la creación de facturas.
const HeaderIdempotencyKey = "idempotency-key"

// InvoiceHandler maneja las peticiones HTTP de facturación.
type InvoiceHandler struct {
	lifecycle *billing.InvoiceLifecycle
	pdfUC     *billing.PDFUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(lifecycle *billing.InvoiceLifecycle, pdfUC *billing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{lifecycle: lifecycle, pdfUC: pdfUC}
}

// Create godoc
// @Summary      Emitir factura (idempotente por header idempotency-key)
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        idempotency-key  header  string           true  "llave de idempotencia del cliente"
// @Param        body             body    cfdi.Comprobante true  "comprobante a timbrar"
// @Success      202  {object}  dto.InvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	key := c.Get(HeaderIdempotencyKey)
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "header idempotency-key requerido"})
	}

	var comp cfdi.Comprobante
	if err := c.BodyParser(&comp); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := cfdi.ValidateComprobante(&comp); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	inv, err := h.lifecycle.CreateInvoice(c.Context(), key, &comp)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	// 202: la emisión se acepta; el timbrado puede seguir en curso (async).
	return c.Status(fiber.StatusAccepted).JSON(dto.ToInvoiceResponse(inv))
}

// GetByID godoc
// @Summary      Consultar factura por ID interno
// @Tags         invoices
// @Produce      json
// @Param        id  path  string  true  "ID interno de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	inv, err := h.lifecycle.GetInvoice(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.ToInvoiceResponse(inv))
}

// GetByUUID godoc
// @Summary      Consultar factura por folio fiscal (UUID)
// @Tags         invoices
// @Produce      json
// @Param        uuid  path  string  true  "folio fiscal asignado por el PAC"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /invoices/by-uuid/{uuid} [get]
func (h *InvoiceHandler) GetByUUID(c *fiber.Ctx) error {
	certUUID := c.Params("uuid")
	if certUUID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "uuid requerido"})
	}
	inv, err := h.lifecycle.GetInvoiceByUUID(c.Context(), certUUID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.ToInvoiceResponse(inv))
}

// List godoc
// @Summary      Listar facturas (más recientes primero)
// @Tags         invoices
// @Produce      json
// @Param        limit   query  int  false  "máximo de registros (default 20, tope 100)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.InvoiceResponse
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de paginación inválidos"})
	}
	page.DefaultPage()

	invoices, err := h.lifecycle.ListInvoices(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, dto.ToInvoiceResponse(inv))
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Solicitar cancelación de una factura timbrada
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        uuid  path  string                    true  "folio fiscal de la factura"
// @Param        body  body  dto.CancelInvoiceRequest  true  "motivo (01..04) y uuidSustituto"
// @Success      200  {object}  dto.CancelInvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /invoices/{uuid}/cancel [post]
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	certUUID := c.Params("uuid")
	if certUUID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "uuid requerido"})
	}
	var in dto.CancelInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	inv, err := h.lifecycle.CancelInvoice(c.Context(), certUUID, in.Motivo, in.UUIDSustituto)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		case errors.Is(err, domain.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
		case errors.Is(err, domain.ErrProviderFailure):
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "PAC_UNAVAILABLE", Message: "el PAC no pudo procesar la cancelación"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.CancelInvoiceResponse{UUID: inv.UUID, Status: inv.Status})
}

// GetXML godoc
// @Summary      Descargar el XML timbrado
// @Tags         invoices
// @Produce      xml
// @Param        id  path  string  true  "ID interno de la factura"
// @Success      200  {string}  string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /invoices/{id}/xml [get]
func (h *InvoiceHandler) GetXML(c *fiber.Ctx) error {
	id := c.Params("id")
	xmlContent, err := h.lifecycle.GetInvoiceXML(c.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		case errors.Is(err, domain.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")
	return c.SendString(xmlContent)
}

// GetPDF godoc
// @Summary      Descargar la representación impresa (PDF)
// @Tags         invoices
// @Produce      application/pdf
// @Param        id  path  string  true  "ID interno de la factura"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /invoices/{id}/pdf [get]
func (h *InvoiceHandler) GetPDF(c *fiber.Ctx) error {
	id := c.Params("id")
	pdfBytes, filename, err := h.pdfUC.DownloadInvoicePDF(c.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		case errors.Is(err, domain.ErrConflict):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdfBytes)
}
