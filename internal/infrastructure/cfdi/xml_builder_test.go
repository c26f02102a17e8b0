package cfdi_test

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domaincfdi "github.com/jhoicas/cfdi-api/internal/domain/cfdi"
	infracfdi "github.com/jhoicas/cfdi-api/internal/infrastructure/cfdi"
)

func comprobanteDemo() *domaincfdi.Comprobante {
	return &domaincfdi.Comprobante{
		Serie:           "A",
		Folio:           "1001",
		Fecha:           "2026-01-15T10:30:00",
		Moneda:          "MXN",
		TipoCambio:      decimal.NewFromInt(1),
		FormaPago:       "01",
		MetodoPago:      "PUE",
		LugarExpedicion: "06500",
		Emisor: domaincfdi.Party{
			RFC:           "EKU9003173C9",
			Nombre:        "Ñoño Compañía, S.A. de C.V.",
			RegimenFiscal: "601",
		},
		Receptor: domaincfdi.Party{
			RFC:                     "XAXX010101000",
			Nombre:                  "PUBLICO EN GENERAL",
			DomicilioFiscalReceptor: "06500",
			UsoCFDI:                 "G03",
		},
		Conceptos: []domaincfdi.Concepto{
			{
				ClaveProdServ: "01010101",
				Cantidad:      decimal.NewFromInt(2),
				ClaveUnidad:   "H87",
				Unidad:        "Pieza",
				Descripcion:   "Café de especialidad",
				ValorUnitario: decimal.NewFromFloat(150.50),
			},
			{
				ClaveProdServ: "01010101",
				Cantidad:      decimal.NewFromInt(1),
				ClaveUnidad:   "H87",
				Descripcion:   "Taza",
				ValorUnitario: decimal.NewFromFloat(100),
				Descuento:     decimal.NewFromFloat(25),
			},
		},
	}
}

// El XML generado debe ser parseable y con la estructura del Comprobante 4.0.
func TestBuild_EstructuraDelComprobante(t *testing.T) {
	out, err := infracfdi.NewXMLBuilderService().Build(comprobanteDemo())
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out), "la salida debe ser XML bien formado")

	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "Comprobante", root.Tag)
	assert.Equal(t, "4.0", root.SelectAttrValue("Version", ""))
	assert.Equal(t, "A", root.SelectAttrValue("Serie", ""))
	assert.Equal(t, "1001", root.SelectAttrValue("Folio", ""))
	assert.Equal(t, "MXN", root.SelectAttrValue("Moneda", ""))
	assert.Equal(t, "06500", root.SelectAttrValue("LugarExpedicion", ""))

	// SubTotal antes de descuentos = 2*150.50 + 100 = 401.00;
	// Descuento = 25.00; Total neto = 376.00
	assert.Equal(t, "401.00", root.SelectAttrValue("SubTotal", ""))
	assert.Equal(t, "25.00", root.SelectAttrValue("Descuento", ""))
	assert.Equal(t, "376.00", root.SelectAttrValue("Total", ""))

	emisor := root.FindElement("//Emisor")
	require.NotNil(t, emisor)
	assert.Equal(t, "EKU9003173C9", emisor.SelectAttrValue("Rfc", ""))

	conceptos := root.FindElements("//Concepto")
	require.Len(t, conceptos, 2)
	assert.Equal(t, "301.00", conceptos[0].SelectAttrValue("Importe", ""))
	assert.Equal(t, "75.00", conceptos[1].SelectAttrValue("Importe", ""))
	assert.Equal(t, "25.00", conceptos[1].SelectAttrValue("Descuento", ""))
}

// Los nombres se normalizan: sin acentos y con Ñ convertida.
func TestBuild_NormalizaNombres(t *testing.T) {
	out, err := infracfdi.NewXMLBuilderService().Build(comprobanteDemo())
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "Nono Compania, S.A. de C.V.")
	assert.Contains(t, s, "Cafe de especialidad")
	assert.NotContains(t, s, "Café")
}

// El mismo payload debe producir exactamente los mismos bytes (C14N): es lo
// que se envía al PAC y lo que se persiste como XML timbrado.
func TestBuild_EsDeterminista(t *testing.T) {
	svc := infracfdi.NewXMLBuilderService()

	a, err := svc.Build(comprobanteDemo())
	require.NoError(t, err)
	b, err := svc.Build(comprobanteDemo())
	require.NoError(t, err)

	assert.Equal(t, a, b, "dos construcciones del mismo comprobante deben ser byte a byte iguales")
}

// Moneda vacía se emite como MXN y el tipo de cambio cero se omite.
func TestBuild_MonedaPorDefecto(t *testing.T) {
	c := comprobanteDemo()
	c.Moneda = ""
	c.TipoCambio = decimal.Zero

	out, err := infracfdi.NewXMLBuilderService().Build(c)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.Root()
	assert.Equal(t, "MXN", root.SelectAttrValue("Moneda", ""))
	assert.Nil(t, root.SelectAttr("TipoCambio"))
}

// Sin descuentos no se emite el atributo Descuento y Total == SubTotal.
func TestBuild_SinDescuentos_OmiteAtributoDescuento(t *testing.T) {
	c := comprobanteDemo()
	c.Conceptos = c.Conceptos[:1] // solo la línea sin descuento

	out, err := infracfdi.NewXMLBuilderService().Build(c)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	root := doc.Root()
	assert.Nil(t, root.SelectAttr("Descuento"))
	assert.Equal(t, root.SelectAttrValue("SubTotal", ""), root.SelectAttrValue("Total", ""))
}

func TestBuild_ComprobanteNulo_RetornaError(t *testing.T) {
	_, err := infracfdi.NewXMLBuilderService().Build(nil)
	assert.Error(t, err)
}
