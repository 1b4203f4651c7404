package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hypnotools/erp_mid/internal/clients"
	"github.com/hypnotools/erp_mid/models"
	rootservices "github.com/hypnotools/erp_mid/services"
)

func decimalPtr(t *testing.T, value string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	require.NoError(t, err)
	return &d
}

func unidadesDePrueba(t *testing.T) []models.UnidadeDetalhada {
	t.Helper()
	tipo := "Apartamento"
	andar := 15
	return []models.UnidadeDetalhada{
		{
			CodigoUnidade:    "AP 15018",
			DescricaoUnidade: "Apartamento 18 piso 15",
			CodigoObra:       "OB-77",
			NomeObra:         "Residencial Aurora",
			AreaPrivativa:    decimalPtr(t, "63.45"),
			AreaTotal:        decimalPtr(t, "81.20"),
			ValorVenda:       decimalPtr(t, "425000.00"),
			Status:           "Disponivel",
			TipoUnidade:      &tipo,
			Andar:            &andar,
			Extras:           map[string]any{"campoDoProvedor": "x"},
		},
		{CodigoUnidade: "AP 15019", Status: "Reservado"},
		{CodigoUnidade: "AP 15020", Status: "Disponivel"},
	}
}

// servicioConServidor arma un ImportacaoService apuntando a un servidor de
// prueba y devuelve el contador de llamadas salientes.
func servicioConServidor(t *testing.T, handler http.HandlerFunc) (*ImportacaoService, *atomic.Int32) {
	t.Helper()
	var llamadas atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		llamadas.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	svc := NewImportacao(clients.NewTransacional(rootservices.Config{
		TransacionalBaseURL: srv.URL,
		ImportTimeout:       2 * time.Second,
	}))
	return svc, &llamadas
}

func tenantDePrueba() models.TenantContext {
	return models.TenantContext{Empresa: "construtora-x", Token: "token-firmado"}
}

func TestTransformarDadosERPCampoACampo(t *testing.T) {
	unidades := unidadesDePrueba(t)

	lote := TransformarDadosERP("OB-77", "Residencial Aurora", unidades)

	assert.Equal(t, "OB-77", lote.CodigoEmpreendimento)
	assert.Equal(t, "Residencial Aurora", lote.NomeEmpreendimento)
	require.Len(t, lote.Unidades, len(unidades))

	primera := lote.Unidades[0]
	assert.Equal(t, "AP 15018", primera.CodigoUnidade)
	assert.Equal(t, "Apartamento 18 piso 15", primera.DescricaoUnidade)
	assert.True(t, primera.AreaPrivativa.Equal(decimal.RequireFromString("63.45")))
	assert.True(t, primera.ValorVenda.Equal(decimal.RequireFromString("425000.00")))
	assert.Equal(t, "Disponivel", primera.Status)
	require.NotNil(t, primera.Andar)
	assert.Equal(t, 15, *primera.Andar)
}

func TestTransformarDadosERPPreservaOrden(t *testing.T) {
	lote := TransformarDadosERP("OB-77", "Aurora", unidadesDePrueba(t))

	codigos := make([]string, 0, len(lote.Unidades))
	for _, u := range lote.Unidades {
		codigos = append(codigos, u.CodigoUnidade)
	}
	// Sin dedup y en el mismo orden de entrada.
	assert.Equal(t, []string{"AP 15018", "AP 15019", "AP 15020"}, codigos)
}

func TestImportarValidacionSinLlamadaSaliente(t *testing.T) {
	svc, llamadas := servicioConServidor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		name string
		req  ImportacaoUnidadesRequest
		want string
	}{
		{"empresa vacía", ImportacaoUnidadesRequest{CodigoObra: "X", Unidades: unidadesDePrueba(t)}, "Empresa é obrigatória"},
		{"obra vacía", ImportacaoUnidadesRequest{Empresa: "acme", Unidades: unidadesDePrueba(t)}, "Código da obra é obrigatório"},
		{"sin unidades", ImportacaoUnidadesRequest{Empresa: "acme", CodigoObra: "X"}, "Lista de unidades não pode estar vazia"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resultado, appErr := svc.ImportarProdutoERP(context.Background(), tenantDePrueba(), tc.req)
			require.NotNil(t, appErr)
			assert.Equal(t, http.StatusBadRequest, appErr.Status)
			assert.Equal(t, tc.want, appErr.Message)
			assert.False(t, resultado.Success)
		})
	}
	// Fallar en la validación no cuesta ningún viaje al Transacional.
	assert.Zero(t, llamadas.Load())
}

func TestImportarExitoParcial(t *testing.T) {
	svc, llamadas := servicioConServidor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "message": "Importação processada.", "totalUnidades": 3,
			"unidadesImportadas": 2, "unidadesNaoAtualizadas": 1,
			"unidadesComRestricao": [{"torre": "A", "numeroUnidade": "101", "nomeStatus": "Reserved", "motivo": "pending contract"}]}`))
	})

	req := ImportacaoUnidadesRequest{Empresa: "acme", CodigoObra: "OB-77", Unidades: unidadesDePrueba(t)}
	resultado, appErr := svc.ImportarProdutoERP(context.Background(), tenantDePrueba(), req)

	require.Nil(t, appErr)
	assert.True(t, resultado.Success)
	assert.Equal(t, 3, resultado.TotalUnidades)
	assert.Equal(t, 2, resultado.UnidadesImportadas)
	assert.Contains(t, resultado.Message, "Tower: A, Unit: 101, Status: Reserved - pending contract")
	assert.Equal(t, int32(1), llamadas.Load())
}

func TestImportarCuerpoNoEstructurado(t *testing.T) {
	svc, _ := servicioConServidor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK!"))
	})

	req := ImportacaoUnidadesRequest{Empresa: "acme", CodigoObra: "OB-77", Unidades: unidadesDePrueba(t)}
	resultado, appErr := svc.ImportarProdutoERP(context.Background(), tenantDePrueba(), req)

	require.Nil(t, appErr)
	assert.True(t, resultado.Success)
	assert.Equal(t, len(req.Unidades), resultado.TotalUnidades)
	assert.Equal(t, len(req.Unidades), resultado.UnidadesImportadas)
}

func TestImportarTimeout(t *testing.T) {
	var llamadas atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		llamadas.Add(1)
		time.Sleep(300 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	svc := NewImportacao(clients.NewTransacional(rootservices.Config{
		TransacionalBaseURL: srv.URL,
		ImportTimeout:       50 * time.Millisecond,
	}))

	req := ImportacaoUnidadesRequest{Empresa: "acme", CodigoObra: "OB-77", Unidades: unidadesDePrueba(t)}
	resultado, appErr := svc.ImportarProdutoERP(context.Background(), tenantDePrueba(), req)

	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusGatewayTimeout, appErr.Status)
	assert.False(t, resultado.Success)
	assert.Equal(t, len(req.Unidades), resultado.TotalUnidades)
	assert.Zero(t, resultado.UnidadesImportadas)
	// Un solo intento: no hay reintentos ante timeout.
	assert.Equal(t, int32(1), llamadas.Load())
}

func TestImportarFalhaRede(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	svc := NewImportacao(clients.NewTransacional(rootservices.Config{
		TransacionalBaseURL: base,
		ImportTimeout:       time.Second,
	}))

	req := ImportacaoUnidadesRequest{Empresa: "acme", CodigoObra: "OB-77", Unidades: unidadesDePrueba(t)}
	resultado, appErr := svc.ImportarProdutoERP(context.Background(), tenantDePrueba(), req)

	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.Status)
	assert.False(t, resultado.Success)
}

func estructuraDePrueba() models.ImportacaoEstrutura {
	return models.ImportacaoEstrutura{
		IdProduto:  42,
		Torres:     []models.Torre{{Name: "Torre A", QtyFloors: 20, QtyColumns: 4, DeliveryDate: "2027-06-30", Status: "planejada"}},
		Tipologias: []models.Tipologia{{Name: "2 dorms", Tipology: "2D", UsableArea: "63.45", TotalArea: "81.20", Padrao: 1}},
		Unidades: []models.UnidadeEstrutura{
			{IdTorre: "0", IdTipologia: "0", Floor: 15, UnityNumber: "15018", Status: "disponivel", Cadastrar: true},
		},
	}
}

func TestImportarEstruturaValidaciones(t *testing.T) {
	svc, llamadas := servicioConServidor(t, func(w http.ResponseWriter, r *http.Request) {})

	cases := []struct {
		name   string
		mutate func(*models.ImportacaoEstrutura)
		want   string
	}{
		{"sin producto", func(e *models.ImportacaoEstrutura) { e.IdProduto = 0 }, "ID do produto é obrigatório"},
		{"sin torres", func(e *models.ImportacaoEstrutura) { e.Torres = nil }, "Pelo menos uma torre deve ser informada"},
		{"sin tipologias", func(e *models.ImportacaoEstrutura) { e.Tipologias = nil }, "Pelo menos uma tipologia deve ser informada"},
		{"sin unidades", func(e *models.ImportacaoEstrutura) { e.Unidades = nil }, "Pelo menos uma unidade deve ser informada"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := estructuraDePrueba()
			tc.mutate(&req)
			resultado, appErr := svc.ImportarEstrutura(context.Background(), tenantDePrueba(), req)
			require.NotNil(t, appErr)
			assert.Equal(t, http.StatusBadRequest, appErr.Status)
			assert.Equal(t, tc.want, appErr.Message)
			assert.False(t, resultado.Success)
		})
	}
	assert.Zero(t, llamadas.Load())
}

func TestImportarEstruturaExito(t *testing.T) {
	svc, _ := servicioConServidor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	resultado, appErr := svc.ImportarEstrutura(context.Background(), tenantDePrueba(), estructuraDePrueba())

	require.Nil(t, appErr)
	assert.True(t, resultado.Success)
	assert.Equal(t, "Estrutura importada com sucesso", resultado.Message)
	require.NotNil(t, resultado.TotalUnidades)
	assert.Equal(t, 1, *resultado.TotalUnidades)
}

func TestImportarEstruturaRecusada(t *testing.T) {
	svc, _ := servicioConServidor(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("índice de torre fora do intervalo"))
	})

	resultado, appErr := svc.ImportarEstrutura(context.Background(), tenantDePrueba(), estructuraDePrueba())

	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.False(t, resultado.Success)
	require.NotNil(t, resultado.Error)
	assert.Equal(t, "índice de torre fora do intervalo", *resultado.Error)
}

func TestAtualizarIdExterno(t *testing.T) {
	svc, llamadas := servicioConServidor(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "message": "atualizado", "totalAtualizados": 2, "totalRecebidos": 2}`))
	})

	req := models.AtualizarIdExternoRequest{
		IdProduto: 7,
		Unidades:  []models.UnidadeIdExterno{{IdentificadorUnid: "AP 15018"}, {IdentificadorUnid: "AP 15019"}},
	}
	resposta, appErr := svc.AtualizarIdExterno(context.Background(), tenantDePrueba(), req)

	require.Nil(t, appErr)
	assert.True(t, resposta.Success)
	assert.Equal(t, 2, resposta.TotalAtualizados)

	// Validaciones antes de cualquier salida.
	_, appErr = svc.AtualizarIdExterno(context.Background(), tenantDePrueba(), models.AtualizarIdExternoRequest{IdProduto: 7})
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)

	_, appErr = svc.AtualizarIdExterno(context.Background(), tenantDePrueba(), models.AtualizarIdExternoRequest{
		Unidades: []models.UnidadeIdExterno{{IdentificadorUnid: "AP 1"}},
	})
	require.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)

	assert.Equal(t, int32(1), llamadas.Load())
}
