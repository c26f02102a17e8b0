// Package memory implementa el puerto de persistencia sobre mapas en memoria.
// Mismo contrato que el adaptador de PostgreSQL (unicidad por idempotency_key
// y por uuid); se usa en tests y en arranques sin base de datos.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/cfdi-api/internal/domain"
	"github.com/jhoicas/cfdi-api/internal/domain/entity"
	"github.com/jhoicas/cfdi-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo repositorio de facturas en memoria, seguro para concurrencia.
type InvoiceRepo struct {
	mu     sync.RWMutex
	byID   map[string]*entity.Invoice
	byKey  map[string]string // idempotency_key -> id
	byUUID map[string]string // uuid -> id
}

// NewInvoiceRepository construye el repositorio vacío.
func NewInvoiceRepository() *InvoiceRepo {
	return &InvoiceRepo{
		byID:   make(map[string]*entity.Invoice),
		byKey:  make(map[string]string),
		byUUID: make(map[string]string),
	}
}

// Create persiste la factura. Retorna domain.ErrDuplicate si la llave de
// idempotencia (o el uuid) ya existe, igual que el constraint en PostgreSQL.
func (r *InvoiceRepo) Create(_ context.Context, invoice *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byKey[invoice.IdempotencyKey]; ok {
		return domain.ErrDuplicate
	}
	if invoice.UUID != "" {
		if _, ok := r.byUUID[invoice.UUID]; ok {
			return domain.ErrDuplicate
		}
	}
	cp := *invoice
	r.byID[cp.ID] = &cp
	r.byKey[cp.IdempotencyKey] = cp.ID
	if cp.UUID != "" {
		r.byUUID[cp.UUID] = cp.ID
	}
	return nil
}

// Update reemplaza el registro y mantiene el índice por uuid.
func (r *InvoiceRepo) Update(_ context.Context, invoice *entity.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[invoice.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if invoice.UUID != "" && invoice.UUID != stored.UUID {
		if _, dup := r.byUUID[invoice.UUID]; dup {
			return domain.ErrDuplicate
		}
		r.byUUID[invoice.UUID] = invoice.ID
	}
	cp := *invoice
	r.byID[cp.ID] = &cp
	return nil
}

// GetByID retorna una copia o (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyOf(r.byID[id]), nil
}

// GetByIdempotencyKey retorna una copia o (nil, nil) si no existe.
func (r *InvoiceRepo) GetByIdempotencyKey(_ context.Context, key string) (*entity.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byKey[key]
	if !ok {
		return nil, nil
	}
	return copyOf(r.byID[id]), nil
}

// GetByUUID retorna una copia o (nil, nil) si no existe.
func (r *InvoiceRepo) GetByUUID(_ context.Context, uuid string) (*entity.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUUID[uuid]
	if !ok {
		return nil, nil
	}
	return copyOf(r.byID[id]), nil
}

// List retorna la página ordenada por created_at descendente.
func (r *InvoiceRepo) List(_ context.Context, limit, offset int) ([]*entity.Invoice, error) {
	r.mu.RLock()
	all := make([]*entity.Invoice, 0, len(r.byID))
	for _, inv := range r.byID {
		all = append(all, copyOf(inv))
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID // orden estable ante timestamps iguales
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// Count retorna el total de facturas almacenadas (apoyo para tests).
func (r *InvoiceRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func copyOf(inv *entity.Invoice) *entity.Invoice {
	if inv == nil {
		return nil
	}
	cp := *inv
	if inv.Payload != nil {
		cp.Payload = append([]byte(nil), inv.Payload...)
	}
	return &cp
}
