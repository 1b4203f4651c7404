package routers

import (
	beego "github.com/beego/beego/v2/server/web"

	"github.com/hypnotools/erp_mid/controllers/errorhandler"
	internalcontrollers "github.com/hypnotools/erp_mid/internal/controllers"
)

func init() {
	// Manejador de errores
	beego.ErrorController(&errorhandler.ErrorHandlerController{})

	beego.Router("/v1/importacao/transformar", &internalcontrollers.ImportacaoController{}, "post:PostTransformar")
	beego.Router("/v1/importacao/unidades", &internalcontrollers.ImportacaoController{}, "post:PostImportarUnidades")
	beego.Router("/v1/importacao/estrutura", &internalcontrollers.ImportacaoController{}, "post:PostImportarEstrutura")

	beego.Router("/v1/unidades/atualizar-id-externo", &internalcontrollers.UnidadeController{}, "post:PostAtualizarIdExterno")
	beego.Router("/v1/unidades/health", &internalcontrollers.UnidadeController{}, "get:GetHealth")
	beego.Router("/v1/health", &internalcontrollers.UnidadeController{}, "get:GetHealth")

	beego.Router("/v1/erp/provedores/:empresa", &internalcontrollers.ERPController{}, "get:GetProvedores")
	beego.Router("/v1/erp/empresas/:empresa", &internalcontrollers.ERPController{}, "get:GetEmpresas")
	beego.Router("/v1/erp/obras/:empresa", &internalcontrollers.ERPController{}, "get:GetObras")
	beego.Router("/v1/erp/unidades/:empresa/:codigoObra", &internalcontrollers.ERPController{}, "get:GetUnidades")
	beego.Router("/v1/erp/campos-personalizados/:empresa/:codigoObra", &internalcontrollers.ERPController{}, "get:GetCamposPersonalizados")
}
