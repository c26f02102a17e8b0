package dto

// PageRequest paginación para listados. skip y offset son sinónimos
// (los clientes REST del sandbox original usan skip); si llegan ambos,
// skip tiene prioridad.
type PageRequest struct {
	Limit  int `query:"limit"`
	Skip   int `query:"skip"`
	Offset int `query:"offset"`
}

// DefaultPage resuelve skip/offset y aplica valores por defecto y topes.
func (p *PageRequest) DefaultPage() {
	if p.Skip > 0 {
		p.Offset = p.Skip
	}
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
