package controllers

import (
	"net/http"
	"time"

	rootcontrollers "github.com/hypnotools/erp_mid/controllers"
	"github.com/hypnotools/erp_mid/helpers"
	"github.com/hypnotools/erp_mid/internal/clients"
	internalhelpers "github.com/hypnotools/erp_mid/internal/helpers"
	internalservices "github.com/hypnotools/erp_mid/internal/services"
	"github.com/hypnotools/erp_mid/models"
	rootservices "github.com/hypnotools/erp_mid/services"
)

// UnidadeController expone la actualización de id_externo de unidades y el
// probe de conectividad con el Transacional.
type UnidadeController struct {
	rootcontrollers.BaseController
}

// PostAtualizarIdExterno actúa como proxy: reenvía la actualización de
// id_externo de las unidades de un producto al Transacional con la identidad
// del tenant y una correlación fresca.
func (c *UnidadeController) PostAtualizarIdExterno() {
	var req models.AtualizarIdExternoRequest
	if err := c.ParseJSONBody(&req); err != nil {
		c.RespondError(helpers.NewAppError(http.StatusBadRequest, "JSON inválido", err))
		return
	}

	tenant, err := internalhelpers.ResolveTenant(c.Ctx)
	if err != nil {
		appErr := helpers.AuthAppError(err)
		mensagem := appErr.Message
		c.RespondRaw(appErr.Status, models.AtualizarIdExternoResposta{
			Success:        false,
			Message:        mensagem,
			TotalRecebidos: len(req.Unidades),
			ProcessedAt:    time.Now().UTC(),
		})
		return
	}

	resposta, appErr := internalservices.Importacao().AtualizarIdExterno(c.Ctx.Request.Context(), tenant, req)
	status := http.StatusOK
	if appErr != nil {
		status = appErr.Status
	}
	c.RespondRaw(status, resposta)
}

// GetHealth verifica la conectividad con el Transacional. Responde 200 siempre;
// el estado real va en el cuerpo.
func (c *UnidadeController) GetHealth() {
	connected, detail := clients.Transacional().Health(c.Ctx.Request.Context())
	c.RespondRaw(http.StatusOK, map[string]interface{}{
		"service":               rootservices.GetConfig().AppName,
		"transacionalConnected": connected,
		"transacionalStatus":    detail,
		"checkedAt":             time.Now().UTC(),
	})
}
