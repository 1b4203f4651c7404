package helpers

import (
	"fmt"
	"strings"

	"github.com/beego/beego/v2/server/web/context"
	"github.com/golang-jwt/jwt/v5"

	"github.com/hypnotools/erp_mid/helpers"
	"github.com/hypnotools/erp_mid/models"
)

const ctxTenantKey = "__erp_mid_tenant"

// tenantClaimKeys es la cadena de claims donde el Auth API ha guardado la
// empresa a lo largo del tiempo, en orden de prioridad. El primer valor no
// vacío gana. Es data y no código a propósito: cuando aparezca otra variante
// histórica basta con agregarla aquí.
var tenantClaimKeys = []string{
	// ClaimTypes.Role del Auth API original (.NET).
	"http://schemas.microsoft.com/ws/2008/06/identity/claims/role",
	"role",
	"empresa",
	"Empresa",
}

// ResolveTenant deriva el TenantContext de la petición actual a partir del
// header Authorization. El resultado se cachea en el contexto del request —
// nunca en estado global: la siguiente petición sobre la misma conexión puede
// pertenecer a otra empresa.
//
// La firma del token no se verifica aquí; eso ya ocurrió aguas arriba. Un
// token malformado no es un pánico sino un fallo de resolución.
func ResolveTenant(ctx *context.Context) (models.TenantContext, error) {
	if cached := ctx.Input.GetData(ctxTenantKey); cached != nil {
		if tenant, ok := cached.(models.TenantContext); ok {
			return tenant, nil
		}
	}

	token, err := ExtractBearer(ctx)
	if err != nil {
		return models.TenantContext{}, err
	}

	empresa, err := empresaFromToken(token)
	if err != nil {
		return models.TenantContext{}, err
	}

	tenant := models.TenantContext{Empresa: empresa, Token: token}
	ctx.Input.SetData(ctxTenantKey, tenant)
	return tenant, nil
}

// ExtractBearer obtiene la credencial cruda del header Authorization.
func ExtractBearer(ctx *context.Context) (string, error) {
	header := strings.TrimSpace(ctx.Input.Header("Authorization"))
	if header == "" {
		return "", helpers.ErrNoAuthHeader
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return "", helpers.ErrInvalidToken
	}
	return strings.TrimSpace(header[7:]), nil
}

// empresaFromToken decodifica los claims sin validar firma y recorre la cadena
// de claves candidatas.
func empresaFromToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("%w: %v", helpers.ErrTenantNotFound, err)
	}

	for _, key := range tenantClaimKeys {
		value, ok := claims[key]
		if !ok {
			continue
		}
		if empresa := firstNonEmptyClaim(value); empresa != "" {
			return empresa, nil
		}
	}
	return "", helpers.ErrTenantNotFound
}

// firstNonEmptyClaim tolera que el claim venga como string o como lista de
// strings (claims de rol repetidos se serializan como arreglo).
func firstNonEmptyClaim(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	case []string:
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}
