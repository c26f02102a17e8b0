// Package pdf implementa la representación impresa del CFDI timbrado.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor + RFC  │  Serie/Folio + Fecha               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: RFC / Régimen fiscal / Lugar de expedición          │
//	│  RECEPTOR: Nombre + RFC + Uso CFDI                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Desc. | Importe        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: SubTotal / TOTAL (moneda del comprobante)          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER SAT: Folio fiscal (UUID) + QR de verificación        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appbilling "github.com/jhoicas/cfdi-api/internal/application/billing"
	domaincfdi "github.com/jhoicas/cfdi-api/internal/domain/cfdi"
	"github.com/jhoicas/cfdi-api/internal/domain/entity"
	pkgcfdi "github.com/jhoicas/cfdi-api/pkg/cfdi"
)

// URL de verificación de CFDI del SAT (la representación impresa debe incluirla).
const satVerifyURL = "https://verificacfdi.facturaelectronica.sat.gob.mx/default.aspx"

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(
	_ context.Context,
	invoice *entity.Invoice,
	comp *domaincfdi.Comprobante,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura CFDI", true).
		WithAuthor(pkgcfdi.NormalizeText(comp.Emisor.Nombre), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(invoice, comp))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(emisorRow(comp))
	m.AddRows(receptorRow(comp))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Tabla de conceptos
	m.AddRows(tableHeaderRow())
	for _, r := range tableConceptoRows(comp) {
		m.AddRows(r)
	}

	// Totales
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(comp))

	// Footer SAT
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range satFooterRows(invoice, comp) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: emisor + RFC (izq) y Serie-Folio + Fecha (der).
func headerRow(invoice *entity.Invoice, comp *domaincfdi.Comprobante) core.Row {
	folio := comp.Serie + comp.Folio
	if folio == "" {
		folio = invoice.ID[:8]
	}

	return row.New(18).Add(
		col.New(7).Add(
			text.New(pkgcfdi.NormalizeText(comp.Emisor.Nombre), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("RFC: "+comp.Emisor.RFC, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FACTURA (CFDI DE INGRESO)", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(folio, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+comp.Fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// emisorRow: datos fiscales del emisor.
func emisorRow(comp *domaincfdi.Comprobante) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Régimen fiscal: %s   |   Lugar de expedición (CP): %s   |   Moneda: %s",
				nonEmpty(comp.Emisor.RegimenFiscal, "—"),
				comp.LugarExpedicion,
				nonEmpty(comp.Moneda, pkgcfdi.CurrencyMXN),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// receptorRow: datos del receptor.
func receptorRow(comp *domaincfdi.Comprobante) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("RECEPTOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(pkgcfdi.NormalizeText(comp.Receptor.Nombre), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("RFC: %s   |   Uso CFDI: %s   |   Domicilio fiscal (CP): %s",
				comp.Receptor.RFC,
				nonEmpty(comp.Receptor.UsoCFDI, "—"),
				nonEmpty(comp.Receptor.DomicilioFiscalReceptor, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de conceptos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción del concepto", 5, align.Left),
		h("Valor Unit.", 2, align.Right),
		h("Desc.", 1, align.Right),
		h("Importe", 3, align.Right),
	)
}

// tableConceptoRows: una fila por concepto.
func tableConceptoRows(comp *domaincfdi.Comprobante) []core.Row {
	result := make([]core.Row, 0, len(comp.Conceptos))
	for _, c := range comp.Conceptos {
		importe := c.Cantidad.Mul(c.ValorUnitario).Sub(c.Descuento)
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				c.Cantidad.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				pkgcfdi.NormalizeText(c.Descripcion),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				"$"+c.ValorUnitario.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				c.Descuento.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				"$"+importe.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque SubTotal / Descuento / TOTAL alineado a la derecha.
func totalsRow(comp *domaincfdi.Comprobante) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: top, Right: 2,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Top: top, Right: 1})
	}
	grand := func(s string, left bool) core.Component {
		right := float64(1)
		if left {
			right = 2
		}
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Top: 13, Right: right,
		})
	}

	return row.New(22).Add(
		col.New(6), // espacio izquierdo
		col.New(3).Add(
			label("SubTotal:", 0),
			label("Descuento:", 6),
			grand("TOTAL:", true),
		),
		col.New(3).Add(
			value("$"+comp.SubTotal().StringFixed(2), 0),
			value("-$"+comp.Descuento().StringFixed(2), 6),
			grand("$"+comp.Total().StringFixed(2), false),
		),
	)
}

// satFooterRows: folio fiscal + código QR de verificación SAT.
func satFooterRows(invoice *entity.Invoice, comp *domaincfdi.Comprobante) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("INFORMACIÓN FISCAL DIGITAL (SAT)", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}

	if invoice.UUID != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Folio fiscal (UUID): "+invoice.UUID, props.Text{
				Style: fontstyle.Bold, Size: 7, Top: 1,
			}),
		)))

		qrData := fmt.Sprintf("%s?id=%s&re=%s&rr=%s&tt=%s",
			satVerifyURL, invoice.UUID, comp.Emisor.RFC, comp.Receptor.RFC,
			comp.Total().StringFixed(2),
		)
		rows = append(rows, row.New(3))
		rows = append(rows, row.New(50).Add(
			col.New(4).Add(code.NewQr(qrData, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(8).Add(
				text.New("Escanea el código QR para verificar\neste comprobante en el portal del SAT.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
				text.New("Este documento es una representación\nimpresa de un CFDI.", props.Text{
					Style: fontstyle.Bold, Size: 10, Top: 22,
					Left: 3, Color: colorPrimary,
				}),
			),
		))
	} else {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New("Comprobante sin timbrar: representación no válida fiscalmente", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Center,
				Color: colorPrimary, Top: 2,
			}),
		)))
	}

	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
