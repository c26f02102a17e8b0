package cfdi_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cfdi-api/internal/domain/cfdi"
)

func comprobanteBase() *cfdi.Comprobante {
	return &cfdi.Comprobante{
		Serie:           "A",
		Folio:           "1001",
		Fecha:           "2026-01-15T10:30:00",
		Moneda:          "MXN",
		TipoCambio:      decimal.NewFromInt(1),
		LugarExpedicion: "06500",
		Emisor: cfdi.Party{
			RFC:    "EKU9003173C9",
			Nombre: "ESCUELA KEMPER URGATE",
		},
		Receptor: cfdi.Party{
			RFC:    "XAXX010101000",
			Nombre: "PUBLICO EN GENERAL",
		},
		Conceptos: []cfdi.Concepto{
			{
				ClaveProdServ: "01010101",
				Cantidad:      decimal.NewFromInt(1),
				Descripcion:   "Producto",
				ValorUnitario: decimal.NewFromFloat(100),
			},
		},
	}
}

func TestValidateComprobante_Valido(t *testing.T) {
	require.NoError(t, cfdi.ValidateComprobante(comprobanteBase()))
}

// MXN sin tipoCambio explícito (cero) se toma como 1 y es válido.
func TestValidateComprobante_MXNSinTipoCambio_EsValido(t *testing.T) {
	c := comprobanteBase()
	c.TipoCambio = decimal.Zero
	assert.NoError(t, cfdi.ValidateComprobante(c))
}

func TestValidateComprobante_MXNConTipoCambioDistintoDeUno_Falla(t *testing.T) {
	c := comprobanteBase()
	c.TipoCambio = decimal.NewFromFloat(17.5)
	err := cfdi.ValidateComprobante(c)
	assert.ErrorIs(t, err, cfdi.ErrInvalidComprobante)
	assert.Contains(t, err.Error(), "tipoCambio")
}

// Moneda extranjera exige tipoCambio > 0.
func TestValidateComprobante_USDSinTipoCambio_Falla(t *testing.T) {
	c := comprobanteBase()
	c.Moneda = "USD"
	c.TipoCambio = decimal.Zero
	err := cfdi.ValidateComprobante(c)
	assert.ErrorIs(t, err, cfdi.ErrInvalidComprobante)
}

func TestValidateComprobante_USDConTipoCambio_EsValido(t *testing.T) {
	c := comprobanteBase()
	c.Moneda = "USD"
	c.TipoCambio = decimal.NewFromFloat(17.25)
	assert.NoError(t, cfdi.ValidateComprobante(c))
}

func TestValidateComprobante_RFCMalformado_Falla(t *testing.T) {
	c := comprobanteBase()
	c.Emisor.RFC = "NO-ES-RFC"
	err := cfdi.ValidateComprobante(c)
	assert.ErrorIs(t, err, cfdi.ErrInvalidComprobante)
	assert.Contains(t, err.Error(), "emisor")
}

func TestValidateComprobante_CodigoPostalInvalido_Falla(t *testing.T) {
	c := comprobanteBase()
	c.LugarExpedicion = "123" // deben ser 5 dígitos
	err := cfdi.ValidateComprobante(c)
	assert.ErrorIs(t, err, cfdi.ErrInvalidComprobante)
	assert.Contains(t, err.Error(), "lugarExpedicion")
}

func TestValidateComprobante_FechaNoParseable_Falla(t *testing.T) {
	c := comprobanteBase()
	c.Fecha = "15/01/2026"
	err := cfdi.ValidateComprobante(c)
	assert.ErrorIs(t, err, cfdi.ErrInvalidComprobante)
}

// RFC3339 con zona también se acepta (clientes REST suelen mandarla).
func TestValidateComprobante_FechaRFC3339_EsValida(t *testing.T) {
	c := comprobanteBase()
	c.Fecha = "2026-01-15T10:30:00Z"
	assert.NoError(t, cfdi.ValidateComprobante(c))
}

func TestValidateComprobante_SinConceptos_Falla(t *testing.T) {
	c := comprobanteBase()
	c.Conceptos = nil
	err := cfdi.ValidateComprobante(c)
	assert.ErrorIs(t, err, cfdi.ErrInvalidComprobante)
	assert.Contains(t, err.Error(), "concepto")
}

func TestValidateComprobante_CantidadCero_Falla(t *testing.T) {
	c := comprobanteBase()
	c.Conceptos[0].Cantidad = decimal.Zero
	err := cfdi.ValidateComprobante(c)
	assert.ErrorIs(t, err, cfdi.ErrInvalidComprobante)
	assert.Contains(t, err.Error(), "cantidad")
}

// Varios problemas a la vez: todos deben reportarse en el mismo error.
func TestValidateComprobante_AcumulaErrores(t *testing.T) {
	c := comprobanteBase()
	c.Emisor.RFC = "X"
	c.Receptor.Nombre = ""
	c.LugarExpedicion = "ABCDE"
	err := cfdi.ValidateComprobante(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "emisor")
	assert.Contains(t, err.Error(), "receptor")
	assert.Contains(t, err.Error(), "lugarExpedicion")
}

// SubTotal va antes de descuentos; el descuento se acumula aparte y el total
// es el neto, como los define el Anexo 20.
func TestImportes_SubTotalDescuentoYTotal(t *testing.T) {
	c := comprobanteBase()
	c.Conceptos = []cfdi.Concepto{
		{Cantidad: decimal.NewFromInt(2), ValorUnitario: decimal.NewFromFloat(150.50), ClaveProdServ: "x", Descripcion: "a"},
		{Cantidad: decimal.NewFromInt(1), ValorUnitario: decimal.NewFromFloat(100), Descuento: decimal.NewFromFloat(25), ClaveProdServ: "x", Descripcion: "b"},
	}
	assert.True(t, c.SubTotal().Equal(decimal.NewFromFloat(401.00)),
		"subtotal = 2*150.50 + 100 = 401.00, se obtuvo %s", c.SubTotal())
	assert.True(t, c.Descuento().Equal(decimal.NewFromFloat(25.00)),
		"descuento acumulado = 25.00, se obtuvo %s", c.Descuento())
	assert.True(t, c.Total().Equal(decimal.NewFromFloat(376.00)),
		"total neto = 401 - 25 = 376.00, se obtuvo %s", c.Total())
}
