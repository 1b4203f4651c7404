package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthAppErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"empresa no encontrada", ErrTenantNotFound, http.StatusForbidden, "informação da empresa não encontrada no token de autenticação"},
		// El resolver envuelve el error de decodificación; errors.Is debe atravesarlo.
		{"empresa no encontrada envuelta", fmt.Errorf("%w: token truncado", ErrTenantNotFound), http.StatusForbidden, "informação da empresa não encontrada no token de autenticação"},
		{"sin header", ErrNoAuthHeader, http.StatusUnauthorized, "token de autenticação ausente ou inválido"},
		{"token inválido", ErrInvalidToken, http.StatusUnauthorized, "token de autenticação ausente ou inválido"},
		{"error inesperado", errors.New("conexión perdida"), http.StatusInternalServerError, "falha ao resolver a empresa do token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appErr := AuthAppError(tc.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tc.status, appErr.Status)
			assert.Equal(t, tc.message, appErr.Message)
		})
	}
}

func TestAuthAppErrorNil(t *testing.T) {
	assert.Nil(t, AuthAppError(nil))
}
