package middlewares

import (
	"sync"

	beego "github.com/beego/beego/v2/server/web"
	"github.com/beego/beego/v2/server/web/context"

	internalhelpers "github.com/hypnotools/erp_mid/internal/helpers"
)

var authOnce sync.Once

// UseAuth registra el filtro de resolución de tenant una sola vez.
func UseAuth() {
	authOnce.Do(func() {
		beego.InsertFilter("/*", beego.BeforeRouter, authFilter)
	})
}

// AuthFilter expone el filtro para escenarios donde el registro manual sea preferido.
func AuthFilter(ctx *context.Context) {
	authFilter(ctx)
}

func authFilter(ctx *context.Context) {
	// Solo precalienta el caché del request. El fallo no se guarda: cada
	// controlador vuelve a resolver y decide su propio código HTTP, porque hay
	// rutas (health) que no exigen tenant.
	_, _ = internalhelpers.ResolveTenant(ctx)
}
