package dto

// PageRequest paginación y búsqueda para listados.
type PageRequest struct {
	Limit  int    `query:"limit" validate:"min=0,max=100"`
	Offset int    `query:"offset" validate:"min=0"`
	Search string `query:"search" validate:"max=100"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero o negativos.
func (p *PageRequest) DefaultPage() {
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

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// UserRef referencia poblada a un usuario (para respuestas desnormalizadas).
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProductRef referencia poblada a un producto.
type ProductRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	SKU   string `json:"sku,omitempty"`
	Unit  string `json:"unit,omitempty"`
}

// BulkIDsRequest entrada de operaciones masivas sobre pedidos.
type BulkIDsRequest struct {
	OrderIDs []string `json:"order_ids" validate:"required,min=1,max=200,dive,required"`
}
