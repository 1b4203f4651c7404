package controllers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	beego "github.com/beego/beego/v2/server/web"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// llamadasSalientes cuenta todo lo que llegue a los servicios colaboradores.
// Los caminos de rechazo del gateway deben dejarlo intacto.
var llamadasSalientes atomic.Int32

func TestMain(m *testing.M) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		llamadasSalientes.Add(1)
	}))
	// Si algún camino de rechazo llegara a salir, saldría hacia este servidor
	// y el contador lo delataría.
	os.Setenv("TRANSACIONAL_BASE_URL", srv.URL)
	os.Setenv("CRM_API_BASE_URL", srv.URL)

	code := m.Run()
	srv.Close()
	os.Exit(code)
}

func registroDePrueba() *beego.ControllerRegister {
	reg := beego.NewControllerRegister()
	reg.Add("/v1/importacao/unidades", &ImportacaoController{},
		beego.WithRouterMethods(&ImportacaoController{}, "post:PostImportarUnidades"))
	reg.Add("/v1/erp/provedores/:empresa", &ERPController{},
		beego.WithRouterMethods(&ERPController{}, "get:GetProvedores"))
	return reg
}

func tokenFirmado(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	firmado, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secreto-de-prueba"))
	require.NoError(t, err)
	return firmado
}

// cuerpoImportacion pasa la validación de campos: lo único que puede frenar la
// petición después es la resolución del tenant.
const cuerpoImportacion = `{"empresa": "acme", "codigoObra": "OB-77", "unidades": [{"codigoUnidade": "AP 101", "status": "Disponivel"}]}`

func TestImportarTokenSinEmpresaNoSaleNada(t *testing.T) {
	antes := llamadasSalientes.Load()

	req := httptest.NewRequest(http.MethodPost, "/v1/importacao/unidades", strings.NewReader(cuerpoImportacion))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokenFirmado(t, jwt.MapClaims{"sub": "user-1", "name": "Ana"}))
	w := httptest.NewRecorder()
	registroDePrueba().ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "informação da empresa não encontrada no token de autenticação")
	assert.Equal(t, antes, llamadasSalientes.Load())
}

func TestImportarSinCredencialNoSaleNada(t *testing.T) {
	antes := llamadasSalientes.Load()

	cases := []struct {
		name   string
		header string
	}{
		{"sin header", ""},
		{"esquema no bearer", "Basic dXNlcjpwYXNz"},
		{"token no decodificable", "Bearer no-es-un-jwt"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/importacao/unidades", strings.NewReader(cuerpoImportacion))
			req.Header.Set("Content-Type", "application/json")
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			registroDePrueba().ServeHTTP(w, req)

			// Un token que no decodifica no identifica empresa (403); la
			// credencial ausente o con otro esquema es 401.
			if tc.name == "token no decodificable" {
				assert.Equal(t, http.StatusForbidden, w.Code)
				assert.Contains(t, w.Body.String(), "informação da empresa não encontrada no token de autenticação")
			} else {
				assert.Equal(t, http.StatusUnauthorized, w.Code)
				assert.Contains(t, w.Body.String(), "token de autenticação ausente ou inválido")
			}
		})
	}

	assert.Equal(t, antes, llamadasSalientes.Load())
}

func TestProvedoresFiltroNoNumerico(t *testing.T) {
	antes := llamadasSalientes.Load()

	req := httptest.NewRequest(http.MethodGet, "/v1/erp/provedores/acme?provedor=uau", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFirmado(t, jwt.MapClaims{"role": "acme"}))
	w := httptest.NewRecorder()
	registroDePrueba().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Parâmetro provedor deve ser numérico")
	assert.Equal(t, antes, llamadasSalientes.Load())
}
