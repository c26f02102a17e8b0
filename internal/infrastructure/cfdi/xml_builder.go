// Package cfdi construye el XML del comprobante (subconjunto demo del Anexo 20,
// sin sello ni certificado: la firma criptográfica queda fuera del alcance).
package cfdi

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	domaincfdi "github.com/jhoicas/cfdi-api/internal/domain/cfdi"
	pkgcfdi "github.com/jhoicas/cfdi-api/pkg/cfdi"
)

// Namespace CFDI 4.0 del SAT.
const (
	NsCFDI            = "http://www.sat.gob.mx/cfd/4"
	nsXsi             = "http://www.w3.org/2001/XMLSchema-instance"
	schemaLocationSAT = "http://www.sat.gob.mx/cfd/4 http://www.sat.gob.mx/sitio_internet/cfd/4/cfdv40.xsd"
)

// XMLBuilderService construye el XML del Comprobante a partir de la submission.
type XMLBuilderService struct{}

// NewXMLBuilderService crea el servicio.
func NewXMLBuilderService() *XMLBuilderService {
	return &XMLBuilderService{}
}

// Build genera los bytes canónicos (C14N) del documento Comprobante.
// Se canonicaliza para que el mismo payload produzca siempre los mismos bytes
// hacia el PAC, independientemente de indentación o orden de serialización.
func (s *XMLBuilderService) Build(c *domaincfdi.Comprobante) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("cfdi: comprobante nulo")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("cfdi:Comprobante")
	root.CreateAttr("xmlns:cfdi", NsCFDI)
	root.CreateAttr("xmlns:xsi", nsXsi)
	root.CreateAttr("xsi:schemaLocation", schemaLocationSAT)
	root.CreateAttr("Version", "4.0")
	if c.Serie != "" {
		root.CreateAttr("Serie", c.Serie)
	}
	if c.Folio != "" {
		root.CreateAttr("Folio", c.Folio)
	}
	root.CreateAttr("Fecha", c.Fecha)
	moneda := c.Moneda
	if moneda == "" {
		moneda = pkgcfdi.CurrencyMXN
	}
	root.CreateAttr("Moneda", moneda)
	if !c.TipoCambio.IsZero() {
		root.CreateAttr("TipoCambio", c.TipoCambio.String())
	}
	if c.FormaPago != "" {
		root.CreateAttr("FormaPago", c.FormaPago)
	}
	if c.MetodoPago != "" {
		root.CreateAttr("MetodoPago", c.MetodoPago)
	}
	root.CreateAttr("LugarExpedicion", c.LugarExpedicion)
	root.CreateAttr("SubTotal", c.SubTotal().StringFixed(2))
	if desc := c.Descuento(); !desc.IsZero() {
		root.CreateAttr("Descuento", desc.StringFixed(2))
	}
	root.CreateAttr("Total", c.Total().StringFixed(2))

	emisor := root.CreateElement("cfdi:Emisor")
	emisor.CreateAttr("Rfc", c.Emisor.RFC)
	emisor.CreateAttr("Nombre", pkgcfdi.NormalizeText(c.Emisor.Nombre))
	if c.Emisor.RegimenFiscal != "" {
		emisor.CreateAttr("RegimenFiscal", c.Emisor.RegimenFiscal)
	}

	receptor := root.CreateElement("cfdi:Receptor")
	receptor.CreateAttr("Rfc", c.Receptor.RFC)
	receptor.CreateAttr("Nombre", pkgcfdi.NormalizeText(c.Receptor.Nombre))
	if c.Receptor.DomicilioFiscalReceptor != "" {
		receptor.CreateAttr("DomicilioFiscalReceptor", c.Receptor.DomicilioFiscalReceptor)
	}
	if c.Receptor.UsoCFDI != "" {
		receptor.CreateAttr("UsoCFDI", c.Receptor.UsoCFDI)
	}

	conceptos := root.CreateElement("cfdi:Conceptos")
	for _, con := range c.Conceptos {
		el := conceptos.CreateElement("cfdi:Concepto")
		el.CreateAttr("ClaveProdServ", con.ClaveProdServ)
		if con.NoIdentificacion != "" {
			el.CreateAttr("NoIdentificacion", con.NoIdentificacion)
		}
		el.CreateAttr("Cantidad", con.Cantidad.String())
		el.CreateAttr("ClaveUnidad", con.ClaveUnidad)
		if con.Unidad != "" {
			el.CreateAttr("Unidad", con.Unidad)
		}
		el.CreateAttr("Descripcion", pkgcfdi.NormalizeText(con.Descripcion))
		el.CreateAttr("ValorUnitario", con.ValorUnitario.StringFixed(2))
		if !con.Descuento.IsZero() {
			el.CreateAttr("Descuento", con.Descuento.StringFixed(2))
		}
		el.CreateAttr("Importe", con.Cantidad.Mul(con.ValorUnitario).Sub(con.Descuento).StringFixed(2))
	}

	raw, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("cfdi: serializar comprobante: %w", err)
	}
	return canonicalize(raw)
}

// canonicalize aplica Canonical XML 1.0 sobre el documento serializado.
func canonicalize(raw []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	out, err := c14n.Canonicalize(dec)
	if err != nil {
		return nil, fmt.Errorf("cfdi: canonicalizar comprobante: %w", err)
	}
	return out, nil
}
