package services

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	beego "github.com/beego/beego/v2/server/web"
)

// ProvedorUAU es el id del proveedor ERP por defecto cuando el caller no filtra.
const ProvedorUAU = 2

// Config centraliza la configuración necesaria para los servicios externos.
// Se carga una sola vez y es de solo lectura después del arranque; ningún
// estado por petición vive aquí.
type Config struct {
	AppName             string
	HTTPPort            int
	RunMode             string
	AuthAPIBaseURL      string
	CRMAPIBaseURL       string
	TransacionalBaseURL string
	// RequestTimeout acota las lecturas al CRM-API.
	RequestTimeout time.Duration
	// ImportTimeout acota las escrituras al Transacional. Es deliberadamente
	// largo (minutos): los lotes de importación pueden ser grandes y el flujo
	// lo dispara un usuario, no un camino caliente.
	ImportTimeout time.Duration
}

var (
	cfg  Config
	once sync.Once
)

// GetConfig devuelve la configuración cargada desde variables de entorno o app.conf.
func GetConfig() Config {
	once.Do(func() {
		cfg = Config{
			AppName:             getString("APP_NAME", "appname", "erp_mid"),
			HTTPPort:            getInt("HTTP_PORT", "httpport", 8080),
			RunMode:             getString("RUN_MODE", "runmode", "dev"),
			AuthAPIBaseURL:      normalizeBase(getString("AUTH_API_BASE_URL", "auth_api_base_url", "")),
			CRMAPIBaseURL:       normalizeBase(getString("CRM_API_BASE_URL", "crm_api_base_url", "")),
			TransacionalBaseURL: normalizeBase(getString("TRANSACIONAL_BASE_URL", "transacional_base_url", "")),
			RequestTimeout:      time.Duration(getInt("REQUEST_TIMEOUT_MS", "request_timeout_ms", 20000)) * time.Millisecond,
			ImportTimeout:       time.Duration(getInt("IMPORT_TIMEOUT_MS", "import_timeout_ms", 180000)) * time.Millisecond,
		}

		if cfg.CRMAPIBaseURL == "" {
			panic("CRM_API_BASE_URL no configurado")
		}
		if cfg.TransacionalBaseURL == "" {
			panic("TRANSACIONAL_BASE_URL no configurado")
		}
	})
	return cfg
}

func getString(envKey, confKey, def string) string {
	if val := strings.TrimSpace(os.Getenv(envKey)); val != "" {
		return val
	}
	if val, err := beego.AppConfig.String(confKey); err == nil && strings.TrimSpace(val) != "" {
		return val
	}
	return def
}

func getInt(envKey, confKey string, def int) int {
	if val := strings.TrimSpace(os.Getenv(envKey)); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	if val, err := beego.AppConfig.Int(confKey); err == nil {
		return val
	}
	return def
}

func normalizeBase(value string) string {
	return strings.TrimRight(strings.TrimSpace(value), "/")
}

// BuildURL compone una URL asegurando que no haya dobles slashes.
func BuildURL(base string, elems ...string) string {
	parts := make([]string, 0, len(elems)+1)
	parts = append(parts, strings.TrimRight(base, "/"))
	for _, elem := range elems {
		trimmed := strings.Trim(elem, "/")
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, "/")
}
