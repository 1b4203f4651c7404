// Package clients contiene los clientes HTTP hacia los servicios colaboradores.
// Cada llamada construye su *http.Request desde cero: ningún header queda
// colgado de un cliente compartido entre peticiones concurrentes.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/beego/beego/v2/core/logs"
	"github.com/google/uuid"

	"github.com/hypnotools/erp_mid/models"
	rootservices "github.com/hypnotools/erp_mid/services"
)

// Rutas del Transacional-Proposta.
const (
	rotaImportarEstrutura  = "api/Produto/ImportarEstruturaProdutoHypnotools"
	rotaAtualizarIdExterno = "api/unidade/atualizar-id-externo"
	rotaUnidadeHealth      = "api/unidade/health"
)

// TipoResultado clasifica el desenlace de una llamada saliente. Solo
// ResultadoOk sigue hacia la reconciliación; el resto se mapea directo a una
// respuesta de error del gateway, sin reintentos.
type TipoResultado int

const (
	ResultadoOk TipoResultado = iota
	ResultadoRecusado
	ResultadoFalhaRede
	ResultadoTimeout
)

// RespostaTransacional es el resultado crudo de una llamada al Transacional.
type RespostaTransacional struct {
	Tipo   TipoResultado
	Status int
	Body   []byte
	// Correlacao es el X-Correlation-ID generado para esta llamada; sirve solo
	// para correlacionar logs entre servicios, nunca para idempotencia.
	Correlacao string
	Err        error
}

// TransacionalClient reenvía escrituras al servicio transaccional de producto.
// Es apátrida: toda identidad viaja en los headers de cada llamada.
type TransacionalClient struct {
	base          string
	importTimeout time.Duration
	httpClient    *http.Client
}

var (
	transacional     *TransacionalClient
	transacionalOnce sync.Once
)

// Transacional devuelve el cliente singleton configurado desde el entorno.
func Transacional() *TransacionalClient {
	transacionalOnce.Do(func() {
		transacional = NewTransacional(rootservices.GetConfig())
	})
	return transacional
}

// NewTransacional construye un cliente con configuración explícita.
func NewTransacional(cfg rootservices.Config) *TransacionalClient {
	return &TransacionalClient{
		base:          cfg.TransacionalBaseURL,
		importTimeout: cfg.ImportTimeout,
		// El timeout es por llamada, vía contexto; el cliente no fija uno global.
		httpClient: &http.Client{},
	}
}

// ImportarProduto reenvía el lote canónico de unidades de un proyecto.
func (c *TransacionalClient) ImportarProduto(ctx context.Context, tenant models.TenantContext, lote models.ImportacaoProduto) RespostaTransacional {
	return c.postJSON(ctx, tenant, rotaImportarEstrutura, lote)
}

// ImportarEstrutura reenvía la creación inicial de torres, tipologías y unidades.
func (c *TransacionalClient) ImportarEstrutura(ctx context.Context, tenant models.TenantContext, req models.ImportacaoEstrutura) RespostaTransacional {
	return c.postJSON(ctx, tenant, rotaImportarEstrutura, req)
}

// AtualizarIdExterno reenvía la actualización de id_externo de unidades.
func (c *TransacionalClient) AtualizarIdExterno(ctx context.Context, tenant models.TenantContext, req models.AtualizarIdExternoRequest) RespostaTransacional {
	return c.postJSON(ctx, tenant, rotaAtualizarIdExterno, req)
}

// Health verifica conectividad con el Transacional con un timeout corto.
func (c *TransacionalClient) Health(ctx context.Context) (bool, string) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rootservices.BuildURL(c.base, rotaUnidadeHealth), nil)
	if err != nil {
		return false, err.Error()
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, err.Error()
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode < 300, resp.Status
}

// postJSON ejecuta un único intento contra el Transacional y clasifica el
// desenlace. El payload se trata como opaco más allá de su serialización.
func (c *TransacionalClient) postJSON(ctx context.Context, tenant models.TenantContext, rota string, payload any) RespostaTransacional {
	correlacao := uuid.NewString()

	body, err := json.Marshal(payload)
	if err != nil {
		return RespostaTransacional{Tipo: ResultadoFalhaRede, Correlacao: correlacao, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.importTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rootservices.BuildURL(c.base, rota), bytes.NewReader(body))
	if err != nil {
		return RespostaTransacional{Tipo: ResultadoFalhaRede, Correlacao: correlacao, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tenant.Token)
	// CRÍTICO: el header Empresa enruta la base de datos del Transacional.
	req.Header.Set("Empresa", tenant.Empresa)
	req.Header.Set("X-Correlation-ID", correlacao)

	logs.Info("transacional: POST %s empresa=%s correlacao=%s", rota, tenant.Empresa, correlacao)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			logs.Error("transacional: timeout empresa=%s correlacao=%s err=%v", tenant.Empresa, correlacao, err)
			return RespostaTransacional{Tipo: ResultadoTimeout, Correlacao: correlacao, Err: err}
		}
		logs.Error("transacional: falha de rede empresa=%s correlacao=%s err=%v", tenant.Empresa, correlacao, err)
		return RespostaTransacional{Tipo: ResultadoFalhaRede, Correlacao: correlacao, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return RespostaTransacional{Tipo: ResultadoFalhaRede, Correlacao: correlacao, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logs.Warn("transacional: recusado status=%d empresa=%s correlacao=%s", resp.StatusCode, tenant.Empresa, correlacao)
		return RespostaTransacional{Tipo: ResultadoRecusado, Status: resp.StatusCode, Body: respBody, Correlacao: correlacao}
	}
	return RespostaTransacional{Tipo: ResultadoOk, Status: resp.StatusCode, Body: respBody, Correlacao: correlacao}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
