package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cfdi-api/internal/domain"
	"github.com/jhoicas/cfdi-api/internal/domain/entity"
	"github.com/jhoicas/cfdi-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación durable de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	id, idempotency_key, status,
	COALESCE(uuid, ''), COALESCE(xml_url, ''), COALESCE(xml_content, ''), COALESCE(pac_errors, ''),
	payload, subtotal, total, created_at, updated_at`

// Create persiste la factura. La unicidad de idempotency_key (y de uuid) la
// impone la base; la violación se traduce a domain.ErrDuplicate para que el
// manager resuelva la carrera re-consultando por llave.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, idempotency_key, status, uuid, xml_url, xml_content, pac_errors, payload, subtotal, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.IdempotencyKey, invoice.Status,
		nullIfEmpty(invoice.UUID), nullIfEmpty(invoice.XMLURL), nullIfEmpty(invoice.XMLContent), nullIfEmpty(invoice.PACErrors),
		invoice.Payload, invoice.SubTotal, invoice.Total, invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %v", domain.ErrDuplicate, err)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// Update actualiza estado, uuid, xml y errores del PAC; refresca updated_at.
func (r *InvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET status      = $2,
		    uuid        = COALESCE($3, uuid),
		    xml_url     = COALESCE($4, xml_url),
		    xml_content = COALESCE($5, xml_content),
		    pac_errors  = COALESCE($6, pac_errors),
		    updated_at  = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.Status,
		nullIfEmpty(invoice.UUID), nullIfEmpty(invoice.XMLURL), nullIfEmpty(invoice.XMLContent), nullIfEmpty(invoice.PACErrors),
		invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %v", domain.ErrDuplicate, err)
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID interno. Retorna (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetByIdempotencyKey obtiene una factura por llave de idempotencia.
func (r *InvoiceRepo) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE idempotency_key = $1`, key)
}

// GetByUUID obtiene una factura por folio fiscal del PAC.
func (r *InvoiceRepo) GetByUUID(ctx context.Context, uuid string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE uuid = $1`, uuid)
}

// List retorna facturas ordenadas por created_at descendente, paginadas.
func (r *InvoiceRepo) List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

func (r *InvoiceRepo) getOne(ctx context.Context, query string, arg any) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// rowScanner cubre pgx.Row y pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.IdempotencyKey, &inv.Status,
		&inv.UUID, &inv.XMLURL, &inv.XMLContent, &inv.PACErrors,
		&inv.Payload, &inv.SubTotal, &inv.Total, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
