package controllers

import (
	"net/http"
	"strconv"
	"strings"

	rootcontrollers "github.com/hypnotools/erp_mid/controllers"
	"github.com/hypnotools/erp_mid/helpers"
	internalhelpers "github.com/hypnotools/erp_mid/internal/helpers"
	internalservices "github.com/hypnotools/erp_mid/internal/services"
	"github.com/hypnotools/erp_mid/models"
)

// ERPController expone las consultas de solo lectura sobre los catálogos del
// ERP. Todas exigen tenant resoluble; todas degradan a lista vacía si el
// upstream falla.
type ERPController struct {
	rootcontrollers.BaseController
}

// requireTenant resuelve el tenant o responde el error de autorización.
func (c *ERPController) requireTenant() (models.TenantContext, bool) {
	tenant, err := internalhelpers.ResolveTenant(c.Ctx)
	if err != nil {
		c.RespondError(helpers.AuthAppError(err))
		return models.TenantContext{}, false
	}
	return tenant, true
}

// requireParam exige un parámetro de ruta no vacío.
func (c *ERPController) requireParam(key, message string) (string, bool) {
	value := strings.TrimSpace(c.Ctx.Input.Param(key))
	if value == "" {
		c.RespondError(helpers.NewAppError(http.StatusBadRequest, message, nil))
		return "", false
	}
	return value, true
}

// GetProvedores lista los proveedores externos configurados para la empresa.
// El filtro ?provedor= es opcional; sin él se asume UAU.
func (c *ERPController) GetProvedores() {
	empresa, ok := c.requireParam(":empresa", "Empresa é obrigatória")
	if !ok {
		return
	}
	tenant, ok := c.requireTenant()
	if !ok {
		return
	}

	var provedor *int
	if raw := strings.TrimSpace(c.GetString("provedor")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.RespondError(helpers.NewAppError(http.StatusBadRequest, "Parâmetro provedor deve ser numérico", err))
			return
		}
		provedor = &parsed
	}

	provedores := internalservices.ERP().ProvedoresExternos(c.Ctx.Request.Context(), tenant, empresa, provedor)
	c.RespondRaw(http.StatusOK, provedores)
}

// GetEmpresas lista las empresas activas del ERP.
func (c *ERPController) GetEmpresas() {
	empresa, ok := c.requireParam(":empresa", "Empresa é obrigatória")
	if !ok {
		return
	}
	tenant, ok := c.requireTenant()
	if !ok {
		return
	}

	empresas := internalservices.ERP().EmpresasAtivas(c.Ctx.Request.Context(), tenant, empresa)
	c.RespondRaw(http.StatusOK, empresas)
}

// GetObras lista las obras/proyectos activos del ERP.
func (c *ERPController) GetObras() {
	empresa, ok := c.requireParam(":empresa", "Empresa é obrigatória")
	if !ok {
		return
	}
	tenant, ok := c.requireTenant()
	if !ok {
		return
	}

	obras := internalservices.ERP().ObrasAtivas(c.Ctx.Request.Context(), tenant, empresa)
	c.RespondRaw(http.StatusOK, obras)
}

// GetUnidades lista las unidades detalladas de una obra.
func (c *ERPController) GetUnidades() {
	empresa, ok := c.requireParam(":empresa", "Empresa é obrigatória")
	if !ok {
		return
	}
	codigoObra, ok := c.requireParam(":codigoObra", "Código da obra é obrigatório")
	if !ok {
		return
	}
	tenant, ok := c.requireTenant()
	if !ok {
		return
	}

	unidades := internalservices.ERP().UnidadesDetalhadas(c.Ctx.Request.Context(), tenant, empresa, codigoObra)
	c.RespondRaw(http.StatusOK, unidades)
}

// GetCamposPersonalizados lista los campos definidos por el usuario de una obra.
func (c *ERPController) GetCamposPersonalizados() {
	empresa, ok := c.requireParam(":empresa", "Empresa é obrigatória")
	if !ok {
		return
	}
	codigoObra, ok := c.requireParam(":codigoObra", "Código da obra é obrigatório")
	if !ok {
		return
	}
	tenant, ok := c.requireTenant()
	if !ok {
		return
	}

	campos := internalservices.ERP().CamposPersonalizados(c.Ctx.Request.Context(), tenant, empresa, codigoObra)
	c.RespondRaw(http.StatusOK, campos)
}
