package memory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cfdi-api/internal/domain"
	"github.com/jhoicas/cfdi-api/internal/domain/entity"
	"github.com/jhoicas/cfdi-api/internal/infrastructure/memory"
)

func newInvoice(id, key string) *entity.Invoice {
	now := time.Now().UTC()
	return &entity.Invoice{
		ID:             id,
		IdempotencyKey: key,
		Status:         entity.StatusPending,
		Payload:        []byte(`{"folio":"1"}`),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestCreate_LlaveDuplicada_RetornaErrDuplicate(t *testing.T) {
	repo := memory.NewInvoiceRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newInvoice("id-1", "key-1")))

	err := repo.Create(ctx, newInvoice("id-2", "key-1"))
	assert.ErrorIs(t, err, domain.ErrDuplicate,
		"la segunda inserción con la misma llave debe fallar")
	assert.Equal(t, 1, repo.Count())
}

// La unicidad debe sostenerse también bajo inserciones concurrentes.
func TestCreate_CarreraConcurrente_UnSoloGanador(t *testing.T) {
	repo := memory.NewInvoiceRepository()
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	okCount := 0
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			err := repo.Create(ctx, newInvoice(fmt.Sprintf("id-%d", n), "misma-llave"))
			if err == nil {
				mu.Lock()
				okCount++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, okCount, "exactamente un escritor debe ganar")
	assert.Equal(t, 1, repo.Count())
}

func TestGetByIdempotencyKey_Inexistente_RetornaNilNil(t *testing.T) {
	repo := memory.NewInvoiceRepository()

	inv, err := repo.GetByIdempotencyKey(context.Background(), "no-existe")
	require.NoError(t, err)
	assert.Nil(t, inv, "ausencia se modela como (nil, nil), no como error")
}

func TestUpdate_MantieneIndicePorUUID(t *testing.T) {
	repo := memory.NewInvoiceRepository()
	ctx := context.Background()

	inv := newInvoice("id-1", "key-1")
	require.NoError(t, repo.Create(ctx, inv))

	inv.Status = entity.StatusStamped
	inv.UUID = "uuid-1"
	require.NoError(t, repo.Update(ctx, inv))

	found, err := repo.GetByUUID(ctx, "uuid-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "id-1", found.ID)
	assert.Equal(t, entity.StatusStamped, found.Status)
}

func TestUpdate_Inexistente_RetornaErrNotFound(t *testing.T) {
	repo := memory.NewInvoiceRepository()

	err := repo.Update(context.Background(), newInvoice("fantasma", "key-x"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Las lecturas devuelven copias: mutar el resultado no debe afectar lo almacenado.
func TestGet_DevuelveCopiaDefensiva(t *testing.T) {
	repo := memory.NewInvoiceRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newInvoice("id-1", "key-1")))

	read, err := repo.GetByID(ctx, "id-1")
	require.NoError(t, err)
	read.Status = entity.StatusFailed
	read.Payload[0] = 'X'

	again, err := repo.GetByID(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, again.Status)
	assert.Equal(t, byte('{'), again.Payload[0])
}

func TestList_OrdenYPaginacion(t *testing.T) {
	repo := memory.NewInvoiceRepository()
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		inv := newInvoice(fmt.Sprintf("id-%d", i), fmt.Sprintf("key-%d", i))
		inv.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Create(ctx, inv))
	}

	page, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "id-4", page[0].ID, "el más reciente va primero")
	assert.Equal(t, "id-3", page[1].ID)

	next, err := repo.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, next, 2)
	assert.Equal(t, "id-2", next[0].ID)

	empty, err := repo.List(ctx, 10, 99)
	require.NoError(t, err)
	assert.Empty(t, empty, "offset más allá del total retorna vacío")
}
