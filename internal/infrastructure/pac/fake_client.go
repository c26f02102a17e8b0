// Package pac implementa un cliente simulado del proveedor autorizado de
// certificación: latencia artificial, UUIDs aleatorios y veredicto de
// cancelación conectable. No habla ningún protocolo real.
package pac

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/cfdi-api/internal/application/billing"
	pkgcfdi "github.com/jhoicas/cfdi-api/pkg/cfdi"
)

var _ billing.PACClient = (*FakePAC)(nil)

// CancelVerdict decide si el PAC simulado acepta una cancelación.
type CancelVerdict func(motivo, sustituto string) bool

// AcceptAll veredicto por defecto: toda cancelación se acepta (comportamiento
// del sandbox original; sustituir por otro veredicto para simular rechazos).
func AcceptAll(string, string) bool { return true }

// FakePAC simula el PAC con latencia fija por llamada.
type FakePAC struct {
	latency time.Duration
	verdict CancelVerdict
}

// NewFakePAC construye el cliente simulado. verdict nil equivale a AcceptAll.
func NewFakePAC(latency time.Duration, verdict CancelVerdict) *FakePAC {
	if verdict == nil {
		verdict = AcceptAll
	}
	return &FakePAC{latency: latency, verdict: verdict}
}

// Stamp simula el timbrado: espera la latencia configurada y devuelve un
// folio fiscal aleatorio. Respeta la cancelación del contexto (timeout).
func (p *FakePAC) Stamp(ctx context.Context, _ []byte) (*billing.StampResult, error) {
	if err := p.sleep(ctx); err != nil {
		return nil, err
	}
	return &billing.StampResult{UUID: uuid.New().String()}, nil
}

// Cancel simula la cancelación y aplica el veredicto configurado.
func (p *FakePAC) Cancel(ctx context.Context, _, motivo, sustituto string) (*billing.CancelResult, error) {
	if err := p.sleep(ctx); err != nil {
		return nil, err
	}
	return &billing.CancelResult{Accepted: p.verdict(motivo, sustituto)}, nil
}

// QueryStatus simula la consulta de estado ante el SAT: vigente o cancelado al azar.
func (p *FakePAC) QueryStatus(ctx context.Context, _ string) (*billing.QueryResult, error) {
	if err := p.sleep(ctx); err != nil {
		return nil, err
	}
	status := pkgcfdi.SATStatusVigente
	if rand.Intn(2) == 1 {
		status = pkgcfdi.SATStatusCancelado
	}
	return &billing.QueryResult{Status: status}, nil
}

// sleep espera la latencia simulada o el vencimiento del contexto.
func (p *FakePAC) sleep(ctx context.Context) error {
	if p.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
