package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dan9191/deposit-service/internal/middleware"
	"github.com/Dan9191/deposit-service/internal/models"
	"github.com/Dan9191/deposit-service/internal/selector"
	"github.com/Dan9191/deposit-service/internal/service"
	"github.com/Dan9191/deposit-service/internal/tool"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogFunc func(ctx context.Context) ([]models.Offer, error)

func (f catalogFunc) Load(ctx context.Context) ([]models.Offer, error) { return f(ctx) }

type fixedRate struct {
	rate float64
	err  error
}

func (f fixedRate) KeyRate(context.Context) (float64, error) { return f.rate, f.err }

type fakeAuth struct{}

func (fakeAuth) Login(username, password string) (string, error) {
	if username == "operator" && password == "s3cret" {
		return "token-1", nil
	}
	return "", service.ErrInvalidCredentials
}

func (fakeAuth) Verify(token string) (string, error) {
	if token == "token-1" {
		return "operator", nil
	}
	return "", errors.New("bad token")
}

type sentMail struct{ to, text string }

func (m *sentMail) SendRecommendation(to, text string) error {
	m.to, m.text = to, text
	return nil
}

var catalog = []models.Offer{
	{Name: "A", Link: "https://bank.example/a", Currency: models.CurrencyRUB, TermDaysMin: 30, TermDaysMax: 90, MinAmount: 1000, InterestRate: 3.0},
	{Name: "B", Link: "https://bank.example/b", Currency: models.CurrencyRUB, TermDaysMin: 30, TermDaysMax: 90, MinAmount: 1000, InterestRate: 5.0},
}

func newTestRouter(t *testing.T, source catalogFunc, mail *sentMail) *mux.Router {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	var notifier service.Notifier
	if mail != nil {
		notifier = mail
	}
	deposits := service.NewDepositService(source, selector.New(), notifier, log)
	registry := tool.NewRegistry()
	registry.Register(tool.NewChooseDepositTool(deposits))

	h := NewHandler(registry, fixedRate{rate: 16}, deposits, fakeAuth{}, log)
	return NewRouter(h, middleware.AuthMiddleware(fakeAuth{}), middleware.RequestLogger(log))
}

func staticCatalog(context.Context) ([]models.Offer, error) { return catalog, nil }

func do(t *testing.T, r http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestCallTool_OK(t *testing.T) {
	r := newTestRouter(t, staticCatalog, nil)

	w := do(t, r, http.MethodPost, "/tools/choose_deposit",
		`{"deposit_term": 60, "amount": 2000, "currency": "RUB", "replenishment": false, "withdrawal": false, "capitalization": false}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp resultResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "Ideal option for you: A.\nLearn more: https://bank.example/a", resp.Result)
}

func TestCallTool_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source catalogFunc
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown tool", staticCatalog, "/tools/open_account", `{}`, http.StatusNotFound, "tool_not_found"},
		{"malformed json", staticCatalog, "/tools/choose_deposit", `{"amount":`, http.StatusBadRequest, "invalid_preferences"},
		{"unknown field", staticCatalog, "/tools/choose_deposit", `{"term": 30}`, http.StatusBadRequest, "invalid_preferences"},
		{"negative amount", staticCatalog, "/tools/choose_deposit", `{"amount": -5}`, http.StatusBadRequest, "invalid_preferences"},
		{"unsupported currency", staticCatalog, "/tools/choose_deposit", `{"currency": "GBP"}`, http.StatusBadRequest, "invalid_preferences"},
		{"currency absent from catalog", staticCatalog, "/tools/choose_deposit", `{"currency": "USD"}`, http.StatusNotFound, "no_match"},
		{
			"catalog schema error",
			func(context.Context) ([]models.Offer, error) {
				return nil, &models.CatalogSchemaError{Column: "interest_rate", Reason: "missing column"}
			},
			"/tools/choose_deposit", `{}`, http.StatusInternalServerError, "catalog_schema",
		},
		{
			"catalog unavailable",
			func(context.Context) ([]models.Offer, error) { return nil, errors.New("disk gone") },
			"/tools/choose_deposit", `{}`, http.StatusInternalServerError, "internal_error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, newTestRouter(t, tt.source, nil), http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)

			var resp errorResponse
			decodeBody(t, w, &resp)
			assert.Equal(t, tt.code, resp.Error)
		})
	}
}

func TestCallTool_InsufficientResults(t *testing.T) {
	one := func(context.Context) ([]models.Offer, error) { return catalog[:1], nil }

	w := do(t, newTestRouter(t, one, nil), http.MethodPost, "/tools/choose_deposit", `{"currency": "RUB"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp errorResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "no_match", resp.Error)
}

func TestListTools(t *testing.T) {
	w := do(t, newTestRouter(t, staticCatalog, nil), http.MethodGet, "/tools", "")
	require.Equal(t, http.StatusOK, w.Code)

	var tools []map[string]interface{}
	decodeBody(t, w, &tools)
	require.Len(t, tools, 1)
	assert.Equal(t, "choose_deposit", tools[0]["name"])
	assert.Contains(t, tools[0], "parameters")
}

func TestKeyRate(t *testing.T) {
	w := do(t, newTestRouter(t, staticCatalog, nil), http.MethodGet, "/key-rate", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"key_rate": 16}`, w.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	w := do(t, newTestRouter(t, staticCatalog, nil), http.MethodGet, "/tools/choose_deposit", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestLoginAndEmail(t *testing.T) {
	mail := &sentMail{}
	r := newTestRouter(t, staticCatalog, mail)

	w := do(t, r, http.MethodPost, "/login", `{"username": "operator", "password": "wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPost, "/login", `{"username": "operator"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/login", `{"username": "operator", "password": "s3cret"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var login map[string]string
	decodeBody(t, w, &login)
	token := login["token"]
	require.NotEmpty(t, token)

	body := `{"email": "client@mail.example", "preferences": {"currency": "RUB"}}`
	w = do(t, r, http.MethodPost, "/recommendations/email", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, mail.to)

	w = do(t, r, http.MethodPost, "/recommendations/email", `{"email": "not-an-address"}`, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/recommendations/email", body, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "client@mail.example", mail.to)
	assert.Equal(t, "Ideal option for you: A.\nLearn more: https://bank.example/a", mail.text)
}
