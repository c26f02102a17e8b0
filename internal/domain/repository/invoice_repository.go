package repository

import (
	"context"

	"github.com/jhoicas/cfdi-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice.
// Dos implementaciones: postgres (durable) y memory (tests / dev sin DB).
type InvoiceRepository interface {
	// Create persiste la factura. Retorna domain.ErrDuplicate si ya existe un
	// registro con la misma idempotency_key (o uuid); el caller resuelve la
	// carrera re-consultando por llave.
	Create(ctx context.Context, invoice *entity.Invoice) error
	// Update actualiza status, uuid, xml y errores PAC; refresca updated_at.
	Update(ctx context.Context, invoice *entity.Invoice) error
	// GetByID retorna (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetByIdempotencyKey retorna (nil, nil) si no existe.
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.Invoice, error)
	// GetByUUID busca por folio fiscal del PAC. Retorna (nil, nil) si no existe.
	GetByUUID(ctx context.Context, uuid string) (*entity.Invoice, error)
	// List retorna facturas ordenadas por created_at descendente.
	List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error)
}
