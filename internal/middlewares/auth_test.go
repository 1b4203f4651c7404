package middlewares

import (
	"net/http/httptest"
	"testing"

	webcontext "github.com/beego/beego/v2/server/web/context"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalhelpers "github.com/hypnotools/erp_mid/internal/helpers"
)

func newRequestContext(t *testing.T, authorization string) *webcontext.Context {
	t.Helper()
	req := httptest.NewRequest("POST", "/v1/importacao/unidades", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	ctx := webcontext.NewContext()
	ctx.Reset(httptest.NewRecorder(), req)
	return ctx
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("clave-de-prueba"))
	require.NoError(t, err)
	return token
}

func TestAuthFilterPrecalientaElCache(t *testing.T) {
	ctx := newRequestContext(t, "Bearer "+signedToken(t, jwt.MapClaims{"role": "acme"}))

	AuthFilter(ctx)

	// Mutar el header después del filtro no cambia nada: el controlador lee
	// el tenant ya cacheado en el contexto del request.
	ctx.Request.Header.Set("Authorization", "Bearer basura")
	tenant, err := internalhelpers.ResolveTenant(ctx)
	require.NoError(t, err)
	assert.Equal(t, "acme", tenant.Empresa)
}

func TestAuthFilterNoEnvenenaElCacheConFallos(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{"sin header", ""},
		{"token malformado", "Bearer no-es-un-jwt"},
		{"token sin empresa", ""},
	}
	cases[2].header = "Bearer " + signedToken(t, jwt.MapClaims{"sub": "user-1"})

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := newRequestContext(t, tc.header)

			assert.NotPanics(t, func() { AuthFilter(ctx) })

			// El fallo no queda guardado: cada controlador vuelve a resolver y
			// recibe el mismo error para decidir su código HTTP.
			_, err := internalhelpers.ResolveTenant(ctx)
			assert.Error(t, err)
		})
	}
}
