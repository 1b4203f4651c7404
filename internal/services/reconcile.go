package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/beego/beego/v2/core/logs"

	"github.com/hypnotools/erp_mid/internal/clients"
	"github.com/hypnotools/erp_mid/models"
)

// respostaImportacao es la forma rica que el Transacional puede devolver en
// una importación: contadores más la lista de unidades con restricción.
// encoding/json la decodifica tolerando diferencias de casing.
type respostaImportacao struct {
	Success                bool                      `json:"success"`
	Message                string                    `json:"message"`
	TotalUnidades          int                       `json:"totalUnidades"`
	UnidadesImportadas     int                       `json:"unidadesImportadas"`
	UnidadesNaoAtualizadas int                       `json:"unidadesNaoAtualizadas"`
	UnidadesComRestricao   []models.UnidadeRestricao `json:"unidadesComRestricao"`
}

// Reconciliar interpreta el desenlace de una importación de unidades y lo
// convierte en un único resultado accionable. Es determinista: el mismo
// desenlace produce siempre el mismo resultado.
//
// Los contadores del Transacional se copian sin recalcular aunque parezcan
// inconsistentes; él es la fuente de verdad sobre lo que realmente importó.
func Reconciliar(resp clients.RespostaTransacional, totalEnviadas int) models.ImportacaoResultado {
	switch resp.Tipo {
	case clients.ResultadoOk:
		return reconciliarCuerpo(resp, totalEnviadas)
	case clients.ResultadoRecusado:
		return models.ImportacaoResultado{
			Success:            false,
			Message:            fmt.Sprintf("Falha na importação. Status: %d", resp.Status),
			TotalUnidades:      totalEnviadas,
			UnidadesImportadas: 0,
			Erros:              []string{string(resp.Body)},
		}
	case clients.ResultadoTimeout:
		return models.ImportacaoResultado{
			Success:            false,
			Message:            "Timeout na requisição para o serviço transacional",
			TotalUnidades:      totalEnviadas,
			UnidadesImportadas: 0,
			Erros:              []string{errString(resp.Err)},
		}
	default: // ResultadoFalhaRede
		return models.ImportacaoResultado{
			Success:            false,
			Message:            "Erro de comunicação com o serviço transacional",
			TotalUnidades:      totalEnviadas,
			UnidadesImportadas: 0,
			Erros:              []string{errString(resp.Err)},
		}
	}
}

// reconciliarCuerpo intenta el parse estructurado y, si el cuerpo no se
// entiende, cae en el resultado optimista: un 2xx del Transacional se confía
// aunque su cuerpo no se pueda interpretar. Esa asimetría (status sobre
// contenido) es una decisión de disponibilidad ya señalada a producto; el log
// con la correlación la deja observable.
func reconciliarCuerpo(resp clients.RespostaTransacional, totalEnviadas int) models.ImportacaoResultado {
	var parsed respostaImportacao
	if len(resp.Body) == 0 || json.Unmarshal(resp.Body, &parsed) != nil {
		logs.Warn("reconcile: corpo não estruturado do transacional, assumindo sucesso total correlacao=%s", resp.Correlacao)
		return models.ImportacaoResultado{
			Success:            true,
			Message:            "Importação realizada com sucesso",
			TotalUnidades:      totalEnviadas,
			UnidadesImportadas: totalEnviadas,
		}
	}

	resultado := models.ImportacaoResultado{
		Success:            parsed.Success,
		Message:            parsed.Message,
		TotalUnidades:      parsed.TotalUnidades,
		UnidadesImportadas: parsed.UnidadesImportadas,
		Restricoes:         parsed.UnidadesComRestricao,
	}

	if len(parsed.UnidadesComRestricao) > 0 {
		naoAtualizadas := parsed.UnidadesNaoAtualizadas
		if naoAtualizadas == 0 {
			naoAtualizadas = len(parsed.UnidadesComRestricao)
		}

		var msg strings.Builder
		msg.WriteString(parsed.Message)
		fmt.Fprintf(&msg, " %d unidade(s) não puderam ser atualizadas:", naoAtualizadas)
		for _, restricao := range parsed.UnidadesComRestricao {
			linha := fmt.Sprintf("Tower: %s, Unit: %s, Status: %s - %s",
				restricao.Torre, restricao.NumeroUnidade, restricao.NomeStatus, restricao.Motivo)
			msg.WriteString("\n" + linha)
			resultado.Erros = append(resultado.Erros, linha)
			logs.Warn("reconcile: unidade não atualizada correlacao=%s %s", resp.Correlacao, linha)
		}
		resultado.Message = msg.String()
	}

	return resultado
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
