package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UnidadeDetalhada es la unidad vendible tal como la entrega el ERP a través
// del CRM-API. Además de los campos conocidos, cada proveedor puede anexar
// campos propios que no son enumerables de antemano; esos sobrantes quedan en
// Extras y se leen pero jamás se reenvían al Transacional.
type UnidadeDetalhada struct {
	CodigoUnidade    string           `json:"codigoUnidade"`
	DescricaoUnidade string           `json:"descricaoUnidade"`
	CodigoObra       string           `json:"codigoObra"`
	NomeObra         string           `json:"nomeObra"`
	AreaPrivativa    *decimal.Decimal `json:"areaPrivativa,omitempty"`
	AreaTotal        *decimal.Decimal `json:"areaTotal,omitempty"`
	ValorVenda       *decimal.Decimal `json:"valorVenda,omitempty"`
	Status           string           `json:"status"`
	TipoUnidade      *string          `json:"tipoUnidade,omitempty"`
	Andar            *int             `json:"andar,omitempty"`

	// Extras captura los campos específicos del proveedor. Nunca se serializa.
	Extras map[string]any `json:"-"`
}

// unidadeDetalhadaAlias evita la recursión del UnmarshalJSON personalizado.
type unidadeDetalhadaAlias UnidadeDetalhada

var unidadeCamposConocidos = map[string]struct{}{
	"codigounidade":    {},
	"descricaounidade": {},
	"codigoobra":       {},
	"nomeobra":         {},
	"areaprivativa":    {},
	"areatotal":        {},
	"valorvenda":       {},
	"status":           {},
	"tipounidade":      {},
	"andar":            {},
}

// UnmarshalJSON decodifica los campos conocidos (insensible a mayúsculas, como
// hace encoding/json) y deja cualquier clave desconocida en Extras.
func (u *UnidadeDetalhada) UnmarshalJSON(data []byte) error {
	var known unidadeDetalhadaAlias
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key, value := range raw {
		if _, ok := unidadeCamposConocidos[strings.ToLower(key)]; ok {
			continue
		}
		var anyValue any
		if err := json.Unmarshal(value, &anyValue); err != nil {
			continue
		}
		if known.Extras == nil {
			known.Extras = make(map[string]any)
		}
		known.Extras[key] = anyValue
	}

	*u = UnidadeDetalhada(known)
	return nil
}

// ProvedorExterno es la configuración de un proveedor de ERP registrada por empresa.
type ProvedorExterno struct {
	Id          int       `json:"id"`
	Nome        string    `json:"nome"`
	UrlBase     string    `json:"urlBase"`
	Usuario     string    `json:"usuario"`
	Senha       string    `json:"senha"`
	Empresa     string    `json:"empresa"`
	Provedor    int       `json:"provedor"`
	DataCriacao time.Time `json:"dataCriacao"`
}

// ProvedorExternoFiltro es el cuerpo aceptado por el CRM-API al listar proveedores.
type ProvedorExternoFiltro struct {
	Empresa  string `json:"empresa,omitempty"`
	Provedor *int   `json:"provedor,omitempty"`
}

// EmpresaAtiva refleja el registro de empresa activa que expone el ERP.
type EmpresaAtiva struct {
	CodigoEmp     int    `json:"codigo_emp"`
	DescEmp       string `json:"desc_emp"`
	CGCEmp        string `json:"cgc_emp"`
	IEEmp         string `json:"ie_emp"`
	InscrMunicEmp string `json:"inscrMunic_emp"`
	EnderecoEmp   string `json:"endereco_emp"`
	FoneEmp       string `json:"fone_emp"`
}

// ObraAtiva es un proyecto/obra activo del ERP, ya mapeado por el CRM-API.
type ObraAtiva struct {
	CodigoObra          string     `json:"codigoObra"`
	EmpresaObra         int        `json:"empresaObra"`
	NomeObra            string     `json:"nomeObra"`
	StatusObra          string     `json:"statusObra"`
	DataInicio          *time.Time `json:"dataInicio,omitempty"`
	DataPrevisaoTermino *time.Time `json:"dataPrevisaoTermino,omitempty"`
	// IdProduto referencia el producto ya creado en el Transacional, si existe.
	IdProduto *int `json:"idProduto,omitempty"`
}

// CampoPersonalizado es un campo definido por el usuario sobre una obra del ERP.
type CampoPersonalizado struct {
	Codigo string `json:"codigo"`
	Nome   string `json:"nome"`
	Tipo   string `json:"tipo"`
	Valor  string `json:"valor"`
}
