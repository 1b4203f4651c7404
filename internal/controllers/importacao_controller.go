package controllers

import (
	"net/http"

	rootcontrollers "github.com/hypnotools/erp_mid/controllers"
	"github.com/hypnotools/erp_mid/helpers"
	internalhelpers "github.com/hypnotools/erp_mid/internal/helpers"
	internalservices "github.com/hypnotools/erp_mid/internal/services"
	"github.com/hypnotools/erp_mid/models"
)

// ImportacaoController expone los flujos de importación de producto hacia el
// Transacional: transformación pura, importación de unidades y estructura.
type ImportacaoController struct {
	rootcontrollers.BaseController
}

// @Summary Transformar dados do ERP
// @Description Mapeia unidades com forma de ERP para o esquema canônico, sem reenviar nada.
// @Tags Importacao
// @Accept json
// @Produce json
// @Success 200 {object} models.ImportacaoProduto
// @Failure 400 {object} requestresponse.APIResponseDTO
// PostTransformar aplica el transform canónico y devuelve el lote resultante.
func (c *ImportacaoController) PostTransformar() {
	var req internalservices.TransformacaoRequest
	if err := c.ParseJSONBody(&req); err != nil {
		c.RespondError(helpers.NewAppError(http.StatusBadRequest, "JSON inválido", err))
		return
	}
	if appErr := internalservices.ValidarTransformacao(req); appErr != nil {
		c.RespondError(appErr)
		return
	}

	lote := internalservices.TransformarDadosERP(req.CodigoObra, req.NomeObra, req.Unidades)
	c.RespondRaw(http.StatusOK, lote)
}

// @Summary Importar unidades do ERP
// @Description Transforma, reenvia ao Transacional e reconcilia sucessos parciais por unidade.
// @Tags Importacao
// @Accept json
// @Produce json
// @Success 200 {object} models.ImportacaoResultado
// @Failure 400 {object} models.ImportacaoResultado
// @Failure 403 {object} models.ImportacaoResultado
// @Failure 503 {object} models.ImportacaoResultado
// @Failure 504 {object} models.ImportacaoResultado
// PostImportarUnidades ejecuta el pipeline completo de importación de unidades.
func (c *ImportacaoController) PostImportarUnidades() {
	var req internalservices.ImportacaoUnidadesRequest
	if err := c.ParseJSONBody(&req); err != nil {
		c.RespondError(helpers.NewAppError(http.StatusBadRequest, "JSON inválido", err))
		return
	}

	// Validación primero: fallar aquí no cuesta ningún viaje al Transacional.
	if appErr := internalservices.ValidarImportacaoUnidades(req); appErr != nil {
		c.RespondRaw(appErr.Status, models.ImportacaoResultado{
			Success: false,
			Message: appErr.Message,
			Erros:   []string{appErr.Message},
		})
		return
	}

	tenant, err := internalhelpers.ResolveTenant(c.Ctx)
	if err != nil {
		appErr := helpers.AuthAppError(err)
		c.RespondRaw(appErr.Status, models.ImportacaoResultado{
			Success: false,
			Message: appErr.Message,
			Erros:   []string{appErr.Error()},
		})
		return
	}

	resultado, appErr := internalservices.Importacao().ImportarProdutoERP(c.Ctx.Request.Context(), tenant, req)
	status := http.StatusOK
	if appErr != nil {
		status = appErr.Status
	}
	c.RespondRaw(status, resultado)
}

// @Summary Importar estrutura de produto
// @Description Cria torres, tipologias e unidades de um produto no Transacional.
// @Tags Importacao
// @Accept json
// @Produce json
// @Success 200 {object} models.ImportacaoEstruturaResultado
// @Failure 400 {object} models.ImportacaoEstruturaResultado
// PostImportarEstrutura reenvía la creación estructural completa de un producto.
func (c *ImportacaoController) PostImportarEstrutura() {
	var req models.ImportacaoEstrutura
	if err := c.ParseJSONBody(&req); err != nil {
		c.RespondError(helpers.NewAppError(http.StatusBadRequest, "JSON inválido", err))
		return
	}

	if appErr := internalservices.ValidarEstrutura(req); appErr != nil {
		c.RespondRaw(appErr.Status, models.ImportacaoEstruturaResultado{
			Success: false,
			Message: appErr.Message,
		})
		return
	}

	tenant, err := internalhelpers.ResolveTenant(c.Ctx)
	if err != nil {
		appErr := helpers.AuthAppError(err)
		c.RespondRaw(appErr.Status, models.ImportacaoEstruturaResultado{
			Success: false,
			Message: appErr.Message,
		})
		return
	}

	resultado, appErr := internalservices.Importacao().ImportarEstrutura(c.Ctx.Request.Context(), tenant, req)
	status := http.StatusOK
	if appErr != nil {
		status = appErr.Status
	}
	c.RespondRaw(status, resultado)
}
