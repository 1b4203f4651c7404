package models

import "github.com/shopspring/decimal"

// UnidadeImportacao es la forma canónica de una unidad que el Transacional
// acepta, independiente del ERP de origen. Solo el código es obligatorio.
type UnidadeImportacao struct {
	CodigoUnidade    string           `json:"codigoUnidade"`
	DescricaoUnidade string           `json:"descricaoUnidade"`
	AreaPrivativa    *decimal.Decimal `json:"areaPrivativa,omitempty"`
	AreaTotal        *decimal.Decimal `json:"areaTotal,omitempty"`
	ValorVenda       *decimal.Decimal `json:"valorVenda,omitempty"`
	Status           string           `json:"status"`
	TipoUnidade      *string          `json:"tipoUnidade,omitempty"`
	Andar            *int             `json:"andar,omitempty"`
}

// ImportacaoProduto es el lote canónico de importación de un proyecto.
// Invariantes del contrato: código y nombre no vacíos, lista no vacía.
type ImportacaoProduto struct {
	CodigoEmpreendimento string              `json:"codigoEmpreendimento"`
	NomeEmpreendimento   string              `json:"nomeEmpreendimento"`
	Unidades             []UnidadeImportacao `json:"unidades"`
}

// TipologiaPropriedade es una característica cuantificada de una tipología.
type TipologiaPropriedade struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Torre describe una torre dentro de la estructura de un producto.
type Torre struct {
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	QtyFloors    int     `json:"qty_Floors"`
	QtyColumns   int     `json:"qty_Columns"`
	DeliveryDate string  `json:"delivery_Date"` // yyyy-MM-dd
	Status       string  `json:"status"`
	GroundFloor  string  `json:"ground_Floor"`
	UnitPattern  string  `json:"unit_Pattern"`
	IdExterno    *string `json:"id_Externo,omitempty"`
}

// Tipologia describe un tipo de unidad reutilizable dentro del producto.
type Tipologia struct {
	Name       string                 `json:"name"`
	Tipology   string                 `json:"tipology"`
	UsableArea string                 `json:"usable_Area"`
	TotalArea  string                 `json:"total_Area"`
	Padrao     int                    `json:"padrao"`
	IdExterno  *string                `json:"id_Externo,omitempty"`
	Properties []TipologiaPropriedade `json:"properties"`
}

// UnidadeEstrutura ubica una unidad dentro de la estructura. IdTorre e
// IdTipologia son índices posicionales sobre las listas del mismo request;
// el gateway los reenvía opacos y es el Transacional quien valida que existan.
type UnidadeEstrutura struct {
	IdTorre           string  `json:"id_Torre"`
	IdTipologia       string  `json:"id_Tipologia"`
	Floor             int     `json:"floor"`
	UnityNumber       string  `json:"unity_Number"`
	UnityNumberCustom *string `json:"unity_Number_Custom,omitempty"`
	Status            string  `json:"status"`
	Cadastrar         bool    `json:"cadastrar"`
	PercentageUnity   *string `json:"percentage_Unity,omitempty"`
	Fase              *string `json:"fase,omitempty"`
	Vaga              *string `json:"vaga,omitempty"`
	Deposito          *string `json:"deposito,omitempty"`
	AreaDeposito      *string `json:"area_Deposito,omitempty"`
	FracaoIdeal       *string `json:"fracao_Ideal,omitempty"`
	IdExterno         *string `json:"id_Externo,omitempty"`
}

// ImportacaoEstrutura es la creación inicial de torres, tipologías y unidades
// de un producto. Invariantes: IdProduto > 0 y las tres listas no vacías.
type ImportacaoEstrutura struct {
	IdProduto  int                `json:"idProduto"`
	Torres     []Torre            `json:"torres"`
	Tipologias []Tipologia        `json:"tipologias"`
	Unidades   []UnidadeEstrutura `json:"unidades"`
}

// ImportacaoEstruturaResultado es la respuesta del flujo de estructura.
type ImportacaoEstruturaResultado struct {
	Success       bool    `json:"success"`
	Message       string  `json:"message"`
	TotalUnidades *int    `json:"totalUnidades,omitempty"`
	Error         *string `json:"error,omitempty"`
}

// UnidadeRestricao es una unidad que el Transacional se negó a importar,
// con contexto suficiente para que un operador actúe manualmente.
type UnidadeRestricao struct {
	IdExterno     string `json:"idExterno,omitempty"`
	NumeroUnidade string `json:"numeroUnidade"`
	Torre         string `json:"torre"`
	CodigoStatus  string `json:"codigoStatus,omitempty"`
	NomeStatus    string `json:"nomeStatus"`
	Motivo        string `json:"motivo"`
}

// ImportacaoResultado consolida el resultado de una importación de unidades.
// Los contadores vienen del Transacional y se devuelven sin recalcular: él es
// la fuente de verdad, aunque parezcan inconsistentes.
type ImportacaoResultado struct {
	Success            bool               `json:"success"`
	Message            string             `json:"message"`
	TotalUnidades      int                `json:"totalUnidades"`
	UnidadesImportadas int                `json:"unidadesImportadas"`
	Restricoes         []UnidadeRestricao `json:"restricoes,omitempty"`
	Erros              []string           `json:"erros,omitempty"`
}
