package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/cfdi-api/internal/domain"
	"github.com/jhoicas/cfdi-api/internal/domain/cfdi"
	"github.com/jhoicas/cfdi-api/internal/domain/entity"
	"github.com/jhoicas/cfdi-api/internal/domain/repository"
	pkgcfdi "github.com/jhoicas/cfdi-api/pkg/cfdi"
)

// Modos de timbrado.
const (
	StampModeInline = "inline" // el caller espera el resultado del PAC
	StampModeAsync  = "async"  // se responde pending y el timbrado corre en goroutine
)

const defaultStampTimeout = 30 * time.Second

// LifecycleConfig configuración del manager.
type LifecycleConfig struct {
	StampMode    string
	StampTimeout time.Duration
}

// InvoiceLifecycle orquesta el ciclo de vida de la factura frente al PAC:
// creación idempotente, timbrado, cancelación y consultas.
//
// Garantías del manager:
//   - Exactamente un registro por idempotency key, también bajo concurrencia:
//     la unicidad la impone el repositorio (constraint) y la carrera se
//     resuelve re-consultando por llave al recibir ErrDuplicate.
//   - El timbrado se dispara solo desde el caller que ganó la inserción,
//     por lo que el PAC se invoca a lo más una vez por llave.
//   - Las transiciones de estado son monótonas (entity.CanTransition).
type InvoiceLifecycle struct {
	repo    repository.InvoiceRepository
	pac     PACClient
	builder CFDIBuilder
	cfg     LifecycleConfig
	log     zerolog.Logger

	wg sync.WaitGroup // timbrados async en vuelo (drenados en shutdown y tests)
}

// NewInvoiceLifecycle construye el manager. StampMode vacío equivale a async.
func NewInvoiceLifecycle(
	repo repository.InvoiceRepository,
	pac PACClient,
	builder CFDIBuilder,
	cfg LifecycleConfig,
	log zerolog.Logger,
) *InvoiceLifecycle {
	if cfg.StampMode == "" {
		cfg.StampMode = StampModeAsync
	}
	if cfg.StampTimeout <= 0 {
		cfg.StampTimeout = defaultStampTimeout
	}
	return &InvoiceLifecycle{
		repo:    repo,
		pac:     pac,
		builder: builder,
		cfg:     cfg,
		log:     log.With().Str("component", "invoice_lifecycle").Logger(),
	}
}

// CreateInvoice procesa una submission con semántica idempotente por llave.
//
//  1. Si ya existe un registro con la llave, se retorna sin efectos (replay).
//  2. Si no, se persiste en pending; ante ErrDuplicate (otro caller ganó la
//     carrera) se descarta el intento local y se retorna el registro ganador.
//     El payload del primer escritor gana; los demás se descartan en silencio.
//  3. El ganador dispara el timbrado: inline (espera y retorna el estado
//     resultante) o async (retorna pending y el PAC corre en background).
//
// El comprobante debe venir ya validado (cfdi.ValidateComprobante).
func (uc *InvoiceLifecycle) CreateInvoice(ctx context.Context, idempotencyKey string, comp *cfdi.Comprobante) (*entity.Invoice, error) {
	if idempotencyKey == "" {
		return nil, fmt.Errorf("%w: idempotency-key requerida", domain.ErrInvalidInput)
	}

	existing, err := uc.repo.GetByIdempotencyKey(ctx, idempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("consultar por idempotency key: %w", err)
	}
	if existing != nil {
		uc.log.Debug().Str("idempotency_key", idempotencyKey).Str("invoice_id", existing.ID).
			Msg("replay idempotente, se retorna el registro existente")
		return existing, nil
	}

	payload, err := json.Marshal(comp)
	if err != nil {
		return nil, fmt.Errorf("%w: serializar payload: %v", domain.ErrInvalidInput, err)
	}

	now := time.Now().UTC()
	inv := &entity.Invoice{
		ID:             uuid.New().String(),
		IdempotencyKey: idempotencyKey,
		Status:         entity.StatusPending,
		Payload:        payload,
		SubTotal:       comp.SubTotal(),
		Total:          comp.Total(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.repo.Create(ctx, inv); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// Otro caller insertó primero con la misma llave: el intento local
			// se descarta y todos convergen al registro ganador.
			winner, ferr := uc.repo.GetByIdempotencyKey(ctx, idempotencyKey)
			if ferr != nil || winner == nil {
				return nil, fmt.Errorf("resolver carrera de idempotencia: %w", ferr)
			}
			uc.log.Info().Str("idempotency_key", idempotencyKey).Str("invoice_id", winner.ID).
				Msg("carrera de idempotencia resuelta hacia el registro ganador")
			return winner, nil
		}
		return nil, fmt.Errorf("persistir factura: %w", err)
	}

	// Solo el ganador de la inserción llega aquí: timbrado a lo más una vez por llave.
	if uc.cfg.StampMode == StampModeInline {
		uc.stamp(inv.ID)
		stamped, err := uc.repo.GetByID(ctx, inv.ID)
		if err != nil || stamped == nil {
			return inv, nil
		}
		return stamped, nil
	}

	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()
		uc.stamp(inv.ID)
	}()
	return inv, nil
}

// stamp ejecuta el timbrado de una factura pending contra el PAC.
// Corre desacoplado del ciclo HTTP: contexto propio acotado por StampTimeout.
// Siempre concluye persistiendo stamped o failed; una factura no se queda en
// pending salvo caída del proceso.
func (uc *InvoiceLifecycle) stamp(invoiceID string) {
	ctx, cancel := context.WithTimeout(context.Background(), uc.cfg.StampTimeout)
	defer cancel()

	inv, err := uc.repo.GetByID(ctx, invoiceID)
	if err != nil {
		uc.log.Error().Err(err).Str("invoice_id", invoiceID).Msg("timbrado: no se pudo leer la factura")
		return
	}
	if inv == nil {
		// El registro nunca llegó a persistirse: anomalía, no error fatal.
		uc.log.Warn().Str("invoice_id", invoiceID).Msg("timbrado: factura inexistente, se omite")
		return
	}
	if inv.Status != entity.StatusPending {
		uc.log.Warn().Str("invoice_id", invoiceID).Str("status", inv.Status).
			Msg("timbrado: estado inesperado (¿ya procesada?), se omite")
		return
	}

	var comp cfdi.Comprobante
	if err := json.Unmarshal(inv.Payload, &comp); err != nil {
		uc.markFailed(ctx, inv, fmt.Sprintf("payload corrupto: %v", err))
		return
	}

	xmlBytes, err := uc.builder.Build(&comp)
	if err != nil {
		uc.markFailed(ctx, inv, fmt.Sprintf("generación de XML: %v", err))
		return
	}

	res, err := uc.pac.Stamp(ctx, xmlBytes)
	if err != nil {
		uc.markFailed(ctx, inv, fmt.Sprintf("PAC: %v", err))
		return
	}

	inv.Status = entity.StatusStamped
	inv.UUID = res.UUID
	inv.XMLURL = fmt.Sprintf("/invoices/%s/xml", inv.ID)
	inv.XMLContent = string(xmlBytes)
	inv.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, inv); err != nil {
		uc.log.Error().Err(err).Str("invoice_id", invoiceID).Msg("timbrado: no se pudo persistir stamped")
		return
	}
	uc.log.Info().Str("invoice_id", invoiceID).Str("uuid", res.UUID).Msg("factura timbrada")
}

// markFailed transiciona la factura a failed y persiste el motivo.
// failed es terminal: no hay reintento automático (se requiere acción manual).
func (uc *InvoiceLifecycle) markFailed(ctx context.Context, inv *entity.Invoice, msg string) {
	inv.Status = entity.StatusFailed
	inv.PACErrors = msg
	inv.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, inv); err != nil {
		uc.log.Error().Err(err).Str("invoice_id", inv.ID).Msg("no se pudo persistir failed")
		return
	}
	uc.log.Error().Str("invoice_id", inv.ID).Str("reason", msg).Msg("timbrado fallido")
}

// CancelInvoice solicita al PAC la cancelación de una factura timbrada.
// El veredicto del PAC decide cancel_accepted o cancel_rejected; si el PAC
// falla, el estado no cambia y se retorna ErrProviderFailure.
func (uc *InvoiceLifecycle) CancelInvoice(ctx context.Context, certUUID, motivo, sustituto string) (*entity.Invoice, error) {
	if !pkgcfdi.IsValidCancelReason(motivo) {
		return nil, fmt.Errorf("%w: motivo de cancelación %q fuera de catálogo", domain.ErrInvalidInput, motivo)
	}

	inv, err := uc.repo.GetByUUID(ctx, certUUID)
	if err != nil {
		return nil, fmt.Errorf("consultar por uuid: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.Status != entity.StatusStamped {
		// Las pending no tienen UUID, así que aquí solo llegan terminales.
		return nil, fmt.Errorf("%w: la factura está en estado %s", domain.ErrConflict, inv.Status)
	}

	res, err := uc.pac.Cancel(ctx, certUUID, motivo, sustituto)
	if err != nil {
		uc.log.Error().Err(err).Str("invoice_id", inv.ID).Str("uuid", certUUID).Msg("cancelación: fallo del PAC")
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}

	next := entity.StatusCancelRejected
	if res.Accepted {
		next = entity.StatusCancelAccepted
	}
	if !entity.CanTransition(inv.Status, next) {
		return nil, fmt.Errorf("%w: transición %s → %s no permitida", domain.ErrConflict, inv.Status, next)
	}
	inv.Status = next
	inv.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("persistir cancelación: %w", err)
	}
	uc.log.Info().Str("invoice_id", inv.ID).Str("uuid", certUUID).Str("status", next).Msg("cancelación resuelta")
	return inv, nil
}

// GetInvoice busca por ID interno. ErrNotFound si no existe.
func (uc *InvoiceLifecycle) GetInvoice(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// GetInvoiceByUUID busca por folio fiscal. ErrNotFound si no existe.
func (uc *InvoiceLifecycle) GetInvoiceByUUID(ctx context.Context, certUUID string) (*entity.Invoice, error) {
	inv, err := uc.repo.GetByUUID(ctx, certUUID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// ListInvoices retorna la página solicitada, más recientes primero.
func (uc *InvoiceLifecycle) ListInvoices(ctx context.Context, limit, offset int) ([]*entity.Invoice, error) {
	return uc.repo.List(ctx, limit, offset)
}

// GetInvoiceXML retorna el XML timbrado de la factura.
// ErrNotFound si la factura no existe; ErrConflict si aún no está timbrada.
func (uc *InvoiceLifecycle) GetInvoiceXML(ctx context.Context, id string) (string, error) {
	inv, err := uc.GetInvoice(ctx, id)
	if err != nil {
		return "", err
	}
	if inv.XMLContent == "" {
		return "", fmt.Errorf("%w: la factura está en estado %s, aún sin XML timbrado", domain.ErrConflict, inv.Status)
	}
	return inv.XMLContent, nil
}

// Wait drena los timbrados async en vuelo. Se usa en el shutdown y en tests.
func (uc *InvoiceLifecycle) Wait() {
	uc.wg.Wait()
}
