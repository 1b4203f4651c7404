package services

import (
	"context"
	"sync"

	"github.com/beego/beego/v2/core/logs"

	"github.com/hypnotools/erp_mid/internal/clients"
	"github.com/hypnotools/erp_mid/models"
)

// ERPService es la fachada de solo lectura sobre los catálogos del ERP.
// Los caminos de lectura degradan con gracia: cualquier fallo aguas abajo se
// responde como lista vacía en lugar de propagar el error; solo el camino de
// escritura (importaciones) es sensible a fallos.
type ERPService struct {
	crm *clients.CRMClient
}

var (
	erpSvc  *ERPService
	erpOnce sync.Once
)

// ERP devuelve el servicio singleton con el cliente por defecto.
func ERP() *ERPService {
	erpOnce.Do(func() {
		erpSvc = NewERP(clients.CRM())
	})
	return erpSvc
}

// NewERP construye el servicio con un cliente explícito.
func NewERP(crm *clients.CRMClient) *ERPService {
	return &ERPService{crm: crm}
}

// ProvedoresExternos lista los proveedores de ERP configurados para la empresa.
func (s *ERPService) ProvedoresExternos(ctx context.Context, tenant models.TenantContext, empresa string, provedor *int) []models.ProvedorExterno {
	provedores, err := s.crm.ProvedoresExternos(ctx, tenant, empresa, provedor)
	if err != nil || provedores == nil {
		if err != nil {
			logs.Warn("erp: provedores externos empresa=%s err=%v", empresa, err)
		}
		return []models.ProvedorExterno{}
	}
	return provedores
}

// EmpresasAtivas lista las empresas activas del ERP.
func (s *ERPService) EmpresasAtivas(ctx context.Context, tenant models.TenantContext, empresa string) []models.EmpresaAtiva {
	empresas, err := s.crm.EmpresasAtivas(ctx, tenant, empresa)
	if err != nil || empresas == nil {
		if err != nil {
			logs.Warn("erp: empresas ativas empresa=%s err=%v", empresa, err)
		}
		return []models.EmpresaAtiva{}
	}
	return empresas
}

// ObrasAtivas lista las obras activas del ERP.
func (s *ERPService) ObrasAtivas(ctx context.Context, tenant models.TenantContext, empresa string) []models.ObraAtiva {
	obras, err := s.crm.ObrasAtivas(ctx, tenant, empresa)
	if err != nil || obras == nil {
		if err != nil {
			logs.Warn("erp: obras ativas empresa=%s err=%v", empresa, err)
		}
		return []models.ObraAtiva{}
	}
	return obras
}

// UnidadesDetalhadas lista las unidades de una obra con su detalle.
func (s *ERPService) UnidadesDetalhadas(ctx context.Context, tenant models.TenantContext, empresa, codigoObra string) []models.UnidadeDetalhada {
	unidades, err := s.crm.UnidadesDetalhadas(ctx, tenant, empresa, codigoObra)
	if err != nil || unidades == nil {
		if err != nil {
			logs.Warn("erp: unidades detalhadas empresa=%s obra=%s err=%v", empresa, codigoObra, err)
		}
		return []models.UnidadeDetalhada{}
	}
	return unidades
}

// CamposPersonalizados lista los campos definidos por el usuario de una obra.
func (s *ERPService) CamposPersonalizados(ctx context.Context, tenant models.TenantContext, empresa, codigoObra string) []models.CampoPersonalizado {
	campos, err := s.crm.CamposPersonalizados(ctx, tenant, empresa, codigoObra)
	if err != nil || campos == nil {
		if err != nil {
			logs.Warn("erp: campos personalizados empresa=%s obra=%s err=%v", empresa, codigoObra, err)
		}
		return []models.CampoPersonalizado{}
	}
	return campos
}
