package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlagarde/ledgerlens/document"
	"github.com/mlagarde/ledgerlens/engine"
)

func TestNew(t *testing.T) {
	server := New(DefaultConfig())
	require.NotNil(t, server)
	require.NotNil(t, server.mux)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 3, cfg.Engine.MaxDateDelayDays)
}

func TestHealthEndpoint(t *testing.T) {
	server := New(DefaultConfig())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "ok", response["status"])
}

func TestConfigEndpoint(t *testing.T) {
	server := New(DefaultConfig())

	req := httptest.NewRequest(http.MethodGet, "/config", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.EqualValues(t, 3, response["max_date_delay_days"])
}

func TestAnalyzeEndpoint_MethodNotAllowed(t *testing.T) {
	server := New(DefaultConfig())

	req := httptest.NewRequest(http.MethodGet, "/analyze", nil)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestAnalyzeEndpoint_BadBody(t *testing.T) {
	server := New(DefaultConfig())

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBufferString("not json"))
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeEndpoint_NoDocuments(t *testing.T) {
	server := New(DefaultConfig())

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBufferString(`{"documents": []}`))
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func analyzeBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	req := AnalyzeRequest{
		Documents: []document.Document{
			{
				ID: "releve-1", Name: "releve.json",
				Type: document.TypeBankStatement, Status: document.StatusCompleted,
				Content: &document.Content{BankStatement: &document.BankStatement{
					Operations: []document.Operation{
						{Date: "15/01/2024", Label: "VIREMENT MYSTERE", Amount: "2000,00"},
					},
				}},
			},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(req))
	return &buf
}

func TestAnalyzeEndpoint_ReturnsReport(t *testing.T) {
	server := New(DefaultConfig())

	req := httptest.NewRequest(http.MethodPost, "/analyze", analyzeBody(t))
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var report engine.Report
	require.NoError(t, json.NewDecoder(w.Body).Decode(&report))
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 1, report.Documents.Total)
	assert.NotEmpty(t, report.Alerts)
}

func TestAnalyzeEndpoint_InvalidConfigOverride(t *testing.T) {
	server := New(DefaultConfig())

	body := bytes.NewBufferString(`{
		"documents": [{"id": "d1", "name": "x.json", "type": "facture", "status": "pending"}],
		"config": {"typo_key": 1}
	}`)
	req := httptest.NewRequest(http.MethodPost, "/analyze", body)
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// fakeStore records calls so persistence wiring can be checked without a
// database.
type fakeStore struct {
	saved []engine.Report
	keys  map[string]bool
}

func (f *fakeStore) SaveReport(_ context.Context, report engine.Report) error {
	f.saved = append(f.saved, report)
	return nil
}

func (f *fakeStore) SuppressedKeys(context.Context) (map[string]bool, error) {
	return f.keys, nil
}

func TestAnalyzeEndpoint_PersistsAndAppliesStoredSuppressions(t *testing.T) {
	store := &fakeStore{}
	cfg := DefaultConfig()
	cfg.Store = store
	server := New(cfg)

	req := httptest.NewRequest(http.MethodPost, "/analyze", analyzeBody(t))
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.saved, 1)

	// Reject one finding, then re-run: it must disappear.
	first := store.saved[0]
	require.NotEmpty(t, first.Alerts)
	store.keys = map[string]bool{first.Alerts[0].SuppressionKey(): true}

	w = httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/analyze", analyzeBody(t)))
	require.Equal(t, http.StatusOK, w.Code)

	var second engine.Report
	require.NoError(t, json.NewDecoder(w.Body).Decode(&second))
	assert.Equal(t, 1, second.Suppressed)
	assert.Len(t, second.Alerts, len(first.Alerts)-1)
}
