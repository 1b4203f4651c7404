package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/beego/beego/v2/core/logs"
	"github.com/google/uuid"

	"github.com/hypnotools/erp_mid/models"
	rootservices "github.com/hypnotools/erp_mid/services"
)

// CRMClient consulta los catálogos del ERP a través del CRM-API. Todas las
// operaciones son de solo lectura y siguen la misma disciplina de headers que
// las escrituras: bearer reenviado, Empresa y correlación fresca por llamada.
type CRMClient struct {
	base       string
	timeout    time.Duration
	httpClient *http.Client
}

var (
	crm     *CRMClient
	crmOnce sync.Once
)

// CRM devuelve el cliente singleton configurado desde el entorno.
func CRM() *CRMClient {
	crmOnce.Do(func() {
		crm = NewCRM(rootservices.GetConfig())
	})
	return crm
}

// NewCRM construye un cliente con configuración explícita.
func NewCRM(cfg rootservices.Config) *CRMClient {
	return &CRMClient{
		base:       cfg.CRMAPIBaseURL,
		timeout:    cfg.RequestTimeout,
		httpClient: &http.Client{},
	}
}

// ProvedoresExternos lista los proveedores de ERP configurados para la empresa.
// Cuando el caller no filtra, se asume el proveedor UAU.
func (c *CRMClient) ProvedoresExternos(ctx context.Context, tenant models.TenantContext, empresa string, provedor *int) ([]models.ProvedorExterno, error) {
	if provedor == nil {
		padrao := rootservices.ProvedorUAU
		provedor = &padrao
	}
	filtro := models.ProvedorExternoFiltro{Empresa: empresa, Provedor: provedor}

	var provedores []models.ProvedorExterno
	err := c.doJSON(ctx, tenant, http.MethodPost, filtro, &provedores, "api/Integracao/GetAllProvedorExterno")
	return provedores, err
}

// EmpresasAtivas lista las empresas activas del ERP.
func (c *CRMClient) EmpresasAtivas(ctx context.Context, tenant models.TenantContext, empresa string) ([]models.EmpresaAtiva, error) {
	var empresas []models.EmpresaAtiva
	err := c.doJSON(ctx, tenant, http.MethodGet, nil, &empresas, "api/ERP/obter-empresas-ativas", empresa)
	return empresas, err
}

// ObrasAtivas lista las obras/proyectos activos del ERP.
func (c *CRMClient) ObrasAtivas(ctx context.Context, tenant models.TenantContext, empresa string) ([]models.ObraAtiva, error) {
	var obras []models.ObraAtiva
	err := c.doJSON(ctx, tenant, http.MethodGet, nil, &obras, "api/ERP/obter-obras-ativas", empresa)
	return obras, err
}

// UnidadesDetalhadas trae las unidades de una obra con su detalle completo.
func (c *CRMClient) UnidadesDetalhadas(ctx context.Context, tenant models.TenantContext, empresa, codigoObra string) ([]models.UnidadeDetalhada, error) {
	var unidades []models.UnidadeDetalhada
	err := c.doJSON(ctx, tenant, http.MethodGet, nil, &unidades, "api/ERP/buscar-unidades-detalhadas", empresa, codigoObra)
	return unidades, err
}

// CamposPersonalizados trae los campos definidos por el usuario sobre una obra.
func (c *CRMClient) CamposPersonalizados(ctx context.Context, tenant models.TenantContext, empresa, codigoObra string) ([]models.CampoPersonalizado, error) {
	var campos []models.CampoPersonalizado
	err := c.doJSON(ctx, tenant, http.MethodGet, nil, &campos, "api/ERP/buscar-campos-person", empresa, codigoObra)
	return campos, err
}

// doJSON arma una petición inmutable por llamada y decodifica la respuesta.
// encoding/json ya empareja nombres de campo sin distinguir mayúsculas, que es
// la tolerancia de casing que los upstreams requieren.
func (c *CRMClient) doJSON(ctx context.Context, tenant models.TenantContext, method string, in, out any, elems ...string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(body)
	}

	endpoint := rootservices.BuildURL(c.base, elems...)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+tenant.Token)
	req.Header.Set("Empresa", tenant.Empresa)
	req.Header.Set("X-Correlation-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		logs.Warn("crm: %s %s -> %d", method, endpoint, resp.StatusCode)
		return fmt.Errorf("%s %s -> %d: %s", method, endpoint, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
