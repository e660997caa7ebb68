package dto

// PageResponse metadatos de página en listados (limit/offset ya acotados por el handler).
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// ErrorResponse cuerpo de error HTTP. Code es estable para los clientes; Message es informativo.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
