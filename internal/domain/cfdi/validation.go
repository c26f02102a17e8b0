package cfdi

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	pkgcfdi "github.com/jhoicas/cfdi-api/pkg/cfdi"
)

// ErrInvalidComprobante agrupa errores de validación del comprobante.
var ErrInvalidComprobante = errors.New("comprobante inválido")

// Formatos de fecha aceptados: el del Anexo 20 y RFC3339 (clientes REST suelen mandar la Z).
var acceptedDateLayouts = []string{"2006-01-02T15:04:05", time.RFC3339}

// ValidateComprobante valida la submission antes de persistirla.
// Reglas principales:
//   - emisor y receptor con RFC bien formado y nombre no vacío
//   - al menos un concepto; cantidad > 0 y valorUnitario >= 0 por línea
//   - lugarExpedicion con forma de código postal (5 dígitos)
//   - coherencia moneda/tipoCambio: MXN exige 1 (0 se toma como 1);
//     cualquier otra moneda exige tipoCambio > 0
//
// Devuelve un errors.Join sobre ErrInvalidComprobante con un mensaje por campo.
func ValidateComprobante(c *Comprobante) error {
	if c == nil {
		return fmt.Errorf("%w: comprobante nulo", ErrInvalidComprobante)
	}
	var errs []error

	if err := pkgcfdi.ValidateRFC(c.Emisor.RFC); err != nil {
		errs = append(errs, fmt.Errorf("emisor: %w", err))
	}
	if c.Emisor.Nombre == "" {
		errs = append(errs, errors.New("emisor: nombre requerido"))
	}
	if err := pkgcfdi.ValidateRFC(c.Receptor.RFC); err != nil {
		errs = append(errs, fmt.Errorf("receptor: %w", err))
	}
	if c.Receptor.Nombre == "" {
		errs = append(errs, errors.New("receptor: nombre requerido"))
	}

	if c.Fecha == "" {
		errs = append(errs, errors.New("fecha requerida"))
	} else if _, err := parseFecha(c.Fecha); err != nil {
		errs = append(errs, fmt.Errorf("fecha %q no parseable: se espera AAAA-MM-DDTHH:MM:SS", c.Fecha))
	}

	if err := pkgcfdi.ValidatePostalCode(c.LugarExpedicion); err != nil {
		errs = append(errs, fmt.Errorf("lugarExpedicion: %w", err))
	}

	// Coherencia moneda / tipo de cambio.
	moneda := c.Moneda
	if moneda == "" {
		moneda = pkgcfdi.CurrencyMXN
	}
	if moneda == pkgcfdi.CurrencyMXN {
		if !c.TipoCambio.IsZero() && !c.TipoCambio.Equal(decimal.NewFromInt(1)) {
			errs = append(errs, fmt.Errorf("tipoCambio debe ser 1 para %s, se recibió %s", moneda, c.TipoCambio))
		}
	} else if !c.TipoCambio.GreaterThan(decimal.Zero) {
		errs = append(errs, fmt.Errorf("tipoCambio debe ser > 0 para moneda %s, se recibió %s", moneda, c.TipoCambio))
	}

	if len(c.Conceptos) == 0 {
		errs = append(errs, errors.New("el comprobante debe tener al menos un concepto"))
	}
	for i, con := range c.Conceptos {
		if con.ClaveProdServ == "" {
			errs = append(errs, fmt.Errorf("conceptos[%d]: claveProdServ requerida", i))
		}
		if con.Descripcion == "" {
			errs = append(errs, fmt.Errorf("conceptos[%d]: descripcion requerida", i))
		}
		if !con.Cantidad.GreaterThan(decimal.Zero) {
			errs = append(errs, fmt.Errorf("conceptos[%d]: cantidad debe ser > 0", i))
		}
		if con.ValorUnitario.LessThan(decimal.Zero) {
			errs = append(errs, fmt.Errorf("conceptos[%d]: valorUnitario no puede ser negativo", i))
		}
		if con.Descuento.LessThan(decimal.Zero) {
			errs = append(errs, fmt.Errorf("conceptos[%d]: descuento no puede ser negativo", i))
		}
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidComprobante}, errs...)...)
	}
	return nil
}

// parseFecha intenta los layouts aceptados en orden.
func parseFecha(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range acceptedDateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
