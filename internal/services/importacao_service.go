package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/beego/beego/v2/core/logs"

	"github.com/hypnotools/erp_mid/helpers"
	"github.com/hypnotools/erp_mid/internal/clients"
	"github.com/hypnotools/erp_mid/models"
)

// TransformacaoRequest es el cuerpo del endpoint de transformación pura.
type TransformacaoRequest struct {
	CodigoObra string                    `json:"codigoObra"`
	NomeObra   string                    `json:"nomeObra"`
	Unidades   []models.UnidadeDetalhada `json:"unidades"`
}

// ImportacaoUnidadesRequest es el cuerpo del flujo de importación de unidades.
type ImportacaoUnidadesRequest struct {
	Empresa    string                    `json:"empresa"`
	CodigoObra string                    `json:"codigoObra"`
	Unidades   []models.UnidadeDetalhada `json:"unidades"`
}

// ImportacaoService orquesta transformación, reenvío y reconciliación de las
// importaciones de producto hacia el Transacional.
type ImportacaoService struct {
	trans *clients.TransacionalClient
}

var (
	importacaoSvc  *ImportacaoService
	importacaoOnce sync.Once
)

// Importacao devuelve el servicio singleton con el cliente por defecto.
func Importacao() *ImportacaoService {
	importacaoOnce.Do(func() {
		importacaoSvc = NewImportacao(clients.Transacional())
	})
	return importacaoSvc
}

// NewImportacao construye el servicio con un cliente explícito.
func NewImportacao(trans *clients.TransacionalClient) *ImportacaoService {
	return &ImportacaoService{trans: trans}
}

// TransformarDadosERP mapea las unidades con forma de ERP al esquema canónico
// que consume el Transacional. Es una función pura: copia campo a campo,
// preserva el orden y nunca falla sobre entrada bien tipada. La bolsa Extras
// de cada unidad se descarta aquí: los campos propios del proveedor no hacen
// parte del contrato canónico.
func TransformarDadosERP(codigoObra, nomeObra string, unidades []models.UnidadeDetalhada) models.ImportacaoProduto {
	canonicas := make([]models.UnidadeImportacao, 0, len(unidades))
	for _, u := range unidades {
		canonicas = append(canonicas, models.UnidadeImportacao{
			CodigoUnidade:    u.CodigoUnidade,
			DescricaoUnidade: u.DescricaoUnidade,
			AreaPrivativa:    u.AreaPrivativa,
			AreaTotal:        u.AreaTotal,
			ValorVenda:       u.ValorVenda,
			Status:           u.Status,
			TipoUnidade:      u.TipoUnidade,
			Andar:            u.Andar,
		})
	}
	return models.ImportacaoProduto{
		CodigoEmpreendimento: codigoObra,
		NomeEmpreendimento:   nomeObra,
		Unidades:             canonicas,
	}
}

// ValidarTransformacao revisa las precondiciones del transform; las
// violaciones son errores del caller, no del motor.
func ValidarTransformacao(req TransformacaoRequest) *helpers.AppError {
	switch {
	case req.CodigoObra == "":
		return helpers.NewAppError(http.StatusBadRequest, "Código da obra é obrigatório", nil)
	case req.NomeObra == "":
		return helpers.NewAppError(http.StatusBadRequest, "Nome da obra é obrigatório", nil)
	case len(req.Unidades) == 0:
		return helpers.NewAppError(http.StatusBadRequest, "Lista de unidades não pode estar vazia", nil)
	}
	return nil
}

// ValidarImportacaoUnidades revisa el cuerpo del flujo de importación antes de
// cualquier llamada saliente: fallar aquí cuesta cero viajes al Transacional.
func ValidarImportacaoUnidades(req ImportacaoUnidadesRequest) *helpers.AppError {
	switch {
	case req.Empresa == "":
		return helpers.NewAppError(http.StatusBadRequest, "Empresa é obrigatória", nil)
	case req.CodigoObra == "":
		return helpers.NewAppError(http.StatusBadRequest, "Código da obra é obrigatório", nil)
	case len(req.Unidades) == 0:
		return helpers.NewAppError(http.StatusBadRequest, "Lista de unidades não pode estar vazia", nil)
	}
	return nil
}

// ImportarProdutoERP transforma las unidades al esquema canónico, las reenvía
// con la identidad del tenant y reconcilia la respuesta. El AppError devuelto
// trae la clase HTTP con que el gateway debe responder; es nil en los 2xx,
// incluidos los éxitos parciales.
func (s *ImportacaoService) ImportarProdutoERP(ctx context.Context, tenant models.TenantContext, req ImportacaoUnidadesRequest) (models.ImportacaoResultado, *helpers.AppError) {
	if appErr := ValidarImportacaoUnidades(req); appErr != nil {
		return models.ImportacaoResultado{
			Success: false,
			Message: appErr.Message,
			Erros:   []string{appErr.Message},
		}, appErr
	}

	logs.Info("importacao: iniciando empresa=%s obra=%s unidades=%d", tenant.Empresa, req.CodigoObra, len(req.Unidades))

	lote := TransformarDadosERP(req.CodigoObra, "Obra_"+req.CodigoObra, req.Unidades)
	resp := s.trans.ImportarProduto(ctx, tenant, lote)
	resultado := Reconciliar(resp, len(req.Unidades))

	if appErr := appErrorPorTipo(resp, resultado.Message); appErr != nil {
		return resultado, appErr
	}

	logs.Info("importacao: concluida empresa=%s obra=%s importadas=%d/%d correlacao=%s",
		tenant.Empresa, req.CodigoObra, resultado.UnidadesImportadas, resultado.TotalUnidades, resp.Correlacao)
	return resultado, nil
}

// ValidarEstrutura revisa las precondiciones de la importación estructural.
func ValidarEstrutura(req models.ImportacaoEstrutura) *helpers.AppError {
	switch {
	case req.IdProduto <= 0:
		return helpers.NewAppError(http.StatusBadRequest, "ID do produto é obrigatório", nil)
	case len(req.Torres) == 0:
		return helpers.NewAppError(http.StatusBadRequest, "Pelo menos uma torre deve ser informada", nil)
	case len(req.Tipologias) == 0:
		return helpers.NewAppError(http.StatusBadRequest, "Pelo menos uma tipologia deve ser informada", nil)
	case len(req.Unidades) == 0:
		return helpers.NewAppError(http.StatusBadRequest, "Pelo menos uma unidade deve ser informada", nil)
	}
	return nil
}

// ImportarEstrutura reenvía la creación inicial de torres, tipologías y
// unidades. Los índices posicionales de torre/tipología no se validan aquí:
// el registro de estructuras vive en el Transacional y es él quien rechaza
// referencias fuera de rango.
func (s *ImportacaoService) ImportarEstrutura(ctx context.Context, tenant models.TenantContext, req models.ImportacaoEstrutura) (models.ImportacaoEstruturaResultado, *helpers.AppError) {
	if appErr := ValidarEstrutura(req); appErr != nil {
		return models.ImportacaoEstruturaResultado{Success: false, Message: appErr.Message}, appErr
	}

	logs.Info("importacao: estrutura produto=%d torres=%d tipologias=%d unidades=%d empresa=%s",
		req.IdProduto, len(req.Torres), len(req.Tipologias), len(req.Unidades), tenant.Empresa)

	resp := s.trans.ImportarEstrutura(ctx, tenant, req)
	switch resp.Tipo {
	case clients.ResultadoOk:
		total := len(req.Unidades)
		return models.ImportacaoEstruturaResultado{
			Success:       true,
			Message:       "Estrutura importada com sucesso",
			TotalUnidades: &total,
		}, nil
	default:
		body := string(resp.Body)
		if body == "" {
			body = errString(resp.Err)
		}
		resultado := models.ImportacaoEstruturaResultado{Success: false, Error: &body}
		appErr := appErrorPorTipo(resp, "")
		resultado.Message = appErr.Message
		return resultado, appErr
	}
}

// AtualizarIdExterno reenvía la actualización de id_externo de las unidades de
// un producto, con la misma disciplina de tenant y correlación.
func (s *ImportacaoService) AtualizarIdExterno(ctx context.Context, tenant models.TenantContext, req models.AtualizarIdExternoRequest) (models.AtualizarIdExternoResposta, *helpers.AppError) {
	if len(req.Unidades) == 0 {
		appErr := helpers.NewAppError(http.StatusBadRequest, "Lista de unidades não pode ser vazia", nil)
		return respostaAtualizacao(appErr.Message, 0, time.Now().UTC(), nil), appErr
	}
	if req.IdProduto <= 0 {
		appErr := helpers.NewAppError(http.StatusBadRequest, "IdProduto é obrigatório e deve ser maior que zero", nil)
		return respostaAtualizacao(appErr.Message, len(req.Unidades), time.Now().UTC(), nil), appErr
	}

	logs.Info("unidade: atualizando id_externo produto=%d unidades=%d empresa=%s", req.IdProduto, len(req.Unidades), tenant.Empresa)

	resp := s.trans.AtualizarIdExterno(ctx, tenant, req)
	switch resp.Tipo {
	case clients.ResultadoOk:
		var parsed models.AtualizarIdExternoResposta
		if len(resp.Body) > 0 {
			if err := json.Unmarshal(resp.Body, &parsed); err == nil {
				return parsed, nil
			}
		}
		// Cuerpo no estructurado con 2xx: mismo sesgo optimista del flujo de importación.
		return models.AtualizarIdExternoResposta{
			Success:        true,
			Message:        "Processamento concluído com sucesso",
			TotalRecebidos: len(req.Unidades),
			ProcessedAt:    time.Now().UTC(),
		}, nil
	case clients.ResultadoTimeout:
		appErr := helpers.NewAppError(http.StatusRequestTimeout, "Timeout na requisição para o serviço transacional", resp.Err)
		erro := errString(resp.Err)
		return respostaAtualizacao(appErr.Message, len(req.Unidades), time.Now().UTC(), &erro), appErr
	case clients.ResultadoFalhaRede:
		appErr := helpers.NewAppError(http.StatusServiceUnavailable, "Erro de comunicação com o serviço transacional", resp.Err)
		erro := errString(resp.Err)
		return respostaAtualizacao(appErr.Message, len(req.Unidades), time.Now().UTC(), &erro), appErr
	default: // ResultadoRecusado
		appErr := helpers.NewAppError(resp.Status, "Erro ao atualizar id_externo das unidades", nil)
		erro := string(resp.Body)
		resposta := respostaAtualizacao(appErr.Message, len(req.Unidades), time.Now().UTC(), &erro)
		resposta.StatusCode = &resp.Status
		return resposta, appErr
	}
}

func respostaAtualizacao(message string, recebidos int, when time.Time, erro *string) models.AtualizarIdExternoResposta {
	return models.AtualizarIdExternoResposta{
		Success:        false,
		Message:        message,
		TotalRecebidos: recebidos,
		ProcessedAt:    when,
		Error:          erro,
	}
}

// appErrorPorTipo traduce el desenlace del transporte a la clase HTTP del
// gateway. El status de un rechazo del Transacional se propaga tal cual para
// diagnóstico del operador.
func appErrorPorTipo(resp clients.RespostaTransacional, message string) *helpers.AppError {
	switch resp.Tipo {
	case clients.ResultadoOk:
		return nil
	case clients.ResultadoTimeout:
		if message == "" {
			message = "Timeout na requisição para o serviço transacional"
		}
		return helpers.NewAppError(http.StatusGatewayTimeout, message, resp.Err)
	case clients.ResultadoFalhaRede:
		if message == "" {
			message = "Erro de comunicação com o serviço transacional"
		}
		return helpers.NewAppError(http.StatusServiceUnavailable, message, resp.Err)
	default:
		if message == "" {
			message = fmt.Sprintf("Falha na importação. Status: %d", resp.Status)
		}
		return helpers.NewAppError(resp.Status, message, nil)
	}
}
