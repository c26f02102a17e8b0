package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cfdi-api/internal/application/auth"
	"github.com/jhoicas/cfdi-api/internal/application/billing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Lifecycle *billing.InvoiceLifecycle
	PDFUC     *billing.PDFUseCase
	AuthUC    *auth.AuthUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
//
// Escrituras (emitir, cancelar) y el listado requieren Bearer Token; las
// consultas individuales quedan abiertas para que el emisor comparta el enlace
// de verificación con el receptor.
func Router(app *fiber.App, deps RouterDeps) {
	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	app.Post("/auth/login", authHandler.Login)

	invoiceHandler := NewInvoiceHandler(deps.Lifecycle, deps.PDFUC)
	protected := AuthMiddleware(deps.JWTSecret)

	// Invoices
	invoices := app.Group("/invoices")
	invoices.Post("/", protected, invoiceHandler.Create)
	invoices.Get("/", protected, invoiceHandler.List)
	// by-uuid va antes que :id para que Fiber no lo capture como parámetro.
	invoices.Get("/by-uuid/:uuid", invoiceHandler.GetByUUID)
	invoices.Post("/:uuid/cancel", protected, invoiceHandler.Cancel)
	invoices.Get("/:id/xml", invoiceHandler.GetXML)
	invoices.Get("/:id/pdf", invoiceHandler.GetPDF)
	invoices.Get("/:id", invoiceHandler.GetByID)
}
