package pac_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cfdi-api/internal/infrastructure/pac"
)

func TestStamp_DevuelveFolioFiscalValido(t *testing.T) {
	client := pac.NewFakePAC(0, pac.AcceptAll)

	res, err := client.Stamp(context.Background(), []byte("<cfdi/>"))
	require.NoError(t, err)

	_, err = uuid.Parse(res.UUID)
	assert.NoError(t, err, "el folio fiscal debe ser un UUID válido")
}

// Dos timbrados no comparten folio fiscal.
func TestStamp_FoliosDistintos(t *testing.T) {
	client := pac.NewFakePAC(0, pac.AcceptAll)
	ctx := context.Background()

	a, err := client.Stamp(ctx, nil)
	require.NoError(t, err)
	b, err := client.Stamp(ctx, nil)
	require.NoError(t, err)

	assert.NotEqual(t, a.UUID, b.UUID)
}

// El contexto vencido interrumpe la espera de la latencia simulada.
func TestStamp_ContextoVencido_RetornaError(t *testing.T) {
	client := pac.NewFakePAC(5*time.Second, pac.AcceptAll)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Stamp(ctx, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second, "no debe esperar la latencia completa")
}

func TestCancel_AplicaVeredicto(t *testing.T) {
	ctx := context.Background()

	acepta := pac.NewFakePAC(0, pac.AcceptAll)
	res, err := acepta.Cancel(ctx, "uuid-x", "02", "")
	require.NoError(t, err)
	assert.True(t, res.Accepted)

	rechaza := pac.NewFakePAC(0, func(string, string) bool { return false })
	res, err = rechaza.Cancel(ctx, "uuid-x", "02", "")
	require.NoError(t, err)
	assert.False(t, res.Accepted)
}

func TestQueryStatus_EstadoDelCatalogo(t *testing.T) {
	client := pac.NewFakePAC(0, nil)

	res, err := client.QueryStatus(context.Background(), "uuid-x")
	require.NoError(t, err)
	assert.Contains(t, []string{"vigente", "cancelado"}, res.Status)
}
