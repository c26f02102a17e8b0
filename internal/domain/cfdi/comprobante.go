// Package cfdi contiene el modelo del comprobante recibido por la API y sus
// validaciones de dominio, según el subconjunto del Anexo 20 que cubre esta demo.
package cfdi

import "github.com/shopspring/decimal"

// Party emisor o receptor del comprobante.
type Party struct {
	RFC                     string `json:"rfc"`
	Nombre                  string `json:"nombre"`
	RegimenFiscal           string `json:"regimenFiscal,omitempty"`
	DomicilioFiscalReceptor string `json:"domicilioFiscalReceptor,omitempty"`
	UsoCFDI                 string `json:"usoCFDI,omitempty"`
}

// Concepto línea del comprobante (producto o servicio).
type Concepto struct {
	ClaveProdServ    string          `json:"claveProdServ"`
	NoIdentificacion string          `json:"noIdentificacion,omitempty"`
	Cantidad         decimal.Decimal `json:"cantidad"`
	ClaveUnidad      string          `json:"claveUnidad"`
	Unidad           string          `json:"unidad,omitempty"`
	Descripcion      string          `json:"descripcion"`
	ValorUnitario    decimal.Decimal `json:"valorUnitario"`
	Descuento        decimal.Decimal `json:"descuento,omitempty"`
}

// Comprobante es la submission de factura tal como llega en POST /invoices.
// Se persiste como JSON crudo en la factura para auditoría y replay.
type Comprobante struct {
	Serie           string          `json:"serie,omitempty"`
	Folio           string          `json:"folio,omitempty"`
	Fecha           string          `json:"fecha"`
	Moneda          string          `json:"moneda"`
	TipoCambio      decimal.Decimal `json:"tipoCambio"`
	FormaPago       string          `json:"formaPago,omitempty"`
	MetodoPago      string          `json:"metodoPago,omitempty"`
	LugarExpedicion string          `json:"lugarExpedicion"`
	Emisor          Party           `json:"emisor"`
	Receptor        Party           `json:"receptor"`
	Conceptos       []Concepto      `json:"conceptos"`
}

// SubTotal suma de cantidad*valorUnitario de todos los conceptos, antes de
// descuentos (así lo define el Anexo 20: el descuento va aparte).
func (c *Comprobante) SubTotal() decimal.Decimal {
	var sum decimal.Decimal
	for _, con := range c.Conceptos {
		sum = sum.Add(con.Cantidad.Mul(con.ValorUnitario))
	}
	return sum
}

// Descuento suma de los descuentos de todos los conceptos.
func (c *Comprobante) Descuento() decimal.Decimal {
	var sum decimal.Decimal
	for _, con := range c.Conceptos {
		sum = sum.Add(con.Descuento)
	}
	return sum
}

// Total importe neto del comprobante: SubTotal - Descuento.
func (c *Comprobante) Total() decimal.Decimal {
	return c.SubTotal().Sub(c.Descuento())
}
