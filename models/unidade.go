package models

import "time"

// UnidadeIdExterno referencia una unidad por su identificador visible (ej. "AP 15018").
type UnidadeIdExterno struct {
	IdentificadorUnid string `json:"identificador_unid"`
}

// AtualizarIdExternoRequest actualiza el id_externo de las unidades de un producto.
type AtualizarIdExternoRequest struct {
	IdProduto int                `json:"idProduto"`
	Unidades  []UnidadeIdExterno `json:"unidades"`
}

// AtualizarIdExternoResposta es la respuesta del Transacional para esa actualización.
type AtualizarIdExternoResposta struct {
	Success          bool      `json:"success"`
	Message          string    `json:"message"`
	TotalAtualizados int       `json:"totalAtualizados"`
	TotalRecebidos   int       `json:"totalRecebidos"`
	ProcessedAt      time.Time `json:"processedAt"`
	Error            *string   `json:"error,omitempty"`
	StatusCode       *int      `json:"statusCode,omitempty"`
}
