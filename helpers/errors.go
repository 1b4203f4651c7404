package helpers

import (
	"errors"
	"fmt"
	"net/http"
)

// Errores centinela del pipeline de resolución de tenant. Se mantienen como
// valores para que los controladores puedan decidir el código HTTP con errors.Is.
var (
	// ErrNoAuthHeader se devuelve cuando no se encuentra el header Authorization.
	ErrNoAuthHeader = errors.New("authorization header missing")
	// ErrInvalidToken se devuelve cuando el token no tiene forma de JWT decodificable.
	ErrInvalidToken = errors.New("invalid bearer token")
	// ErrTenantNotFound indica que ningún claim reconocido trae la empresa.
	// Sin empresa no puede salir ninguna escritura: ese header enruta la base
	// de datos del Transacional y omitirlo arriesga corrupción entre tenants.
	ErrTenantNotFound = errors.New("empresa claim not found in token")
)

// AppError representa un error controlado con código HTTP y mensaje funcional.
type AppError struct {
	Status  int
	Message string
	Err     error
}

// Error implementa la interfaz error.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap permite extraer el error original cuando exista.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError construye un AppError con mensaje y status.
func NewAppError(status int, message string, err error) *AppError {
	return &AppError{Status: status, Message: message, Err: err}
}

// AsAppError convierte cualquier error en AppError con status 500 por defecto.
func AsAppError(err error, defaultMessage string) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	msg := defaultMessage
	if msg == "" {
		msg = "error inesperado"
	}
	return &AppError{Status: http.StatusInternalServerError, Message: msg, Err: err}
}

// AuthAppError traduce los fallos del resolver de tenant a su clase HTTP:
// 401 cuando la credencial falta o no se puede decodificar, 403 cuando se
// decodifica pero no identifica ninguna empresa.
func AuthAppError(err error) *AppError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrTenantNotFound):
		return NewAppError(http.StatusForbidden, "informação da empresa não encontrada no token de autenticação", err)
	case errors.Is(err, ErrNoAuthHeader), errors.Is(err, ErrInvalidToken):
		return NewAppError(http.StatusUnauthorized, "token de autenticação ausente ou inválido", err)
	default:
		return AsAppError(err, "falha ao resolver a empresa do token")
	}
}
