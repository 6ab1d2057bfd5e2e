package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexiusacademia/gopanel/internal/config"
	"github.com/alexiusacademia/gopanel/internal/laminate"
	"github.com/alexiusacademia/gopanel/internal/panel"
	"github.com/alexiusacademia/gopanel/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const stripJSON = `{
  "name": "strip",
  "length": 2,
  "width": 1,
  "divisions": [4, 1],
  "laminate": {"plies": [{"material": "D16", "thickness": 0.002}]},
  "constraints": [
    {"group": "left", "dofs": ["tx"]},
    {"group": "n00", "dofs": ["ty"]}
  ],
  "loads": [{"group": "right", "force": {"fx": 100}}]
}`

const crossPlyJSON = `{
  "name": "cross-ply",
  "plies": [
    {"material": "KMU4", "layers": 1, "angle": 0},
    {"material": "KMU4", "layers": 1, "angle": 90}
  ],
  "symmetric": true,
  "load": [10000, 0, 0, 0, 0, 0]
}`

type memRepo struct {
	mu   sync.Mutex
	runs []store.Run
}

func (m *memRepo) EnsureSchema(ctx context.Context) error { return nil }

func (m *memRepo) SaveRun(ctx context.Context, run store.Run) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run.ID = int64(len(m.runs) + 1)
	run.CreatedAt = time.Now()
	m.runs = append(m.runs, run)
	return run.ID, nil
}

func (m *memRepo) ListRuns(ctx context.Context, limit int) ([]store.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []store.Run{}
	for i := len(m.runs) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, m.runs[i])
	}
	return out, nil
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Rate = 1000
	cfg.Burst = 1000
	return cfg
}

func do(t *testing.T, h http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestMaterials(t *testing.T) {
	h := New(testConfig(), nil).Handler()

	rec := do(t, h, "GET", "/api/materials", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []struct {
		Key      string `json:"key"`
		Material struct {
			E1 float64 `json:"e1"`
		} `json:"material"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 4)
	assert.Equal(t, "D16", list[0].Key)
	assert.Equal(t, 7.2e10, list[0].Material.E1)

	rec = do(t, h, "GET", "/api/materials/kmu4", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"key":"KMU4"`)

	rec = do(t, h, "GET", "/api/materials/unobtainium", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyzeLaminate(t *testing.T) {
	h := New(testConfig(), nil).Handler()

	rec := do(t, h, "POST", "/api/laminate/analyze", crossPlyJSON, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Laminate struct {
			Plies []json.RawMessage `json:"plies"`
		} `json:"laminate"`
		Stress struct {
			Plies []struct {
				Criteria []struct {
					Type string `json:"type"`
				} `json:"criteria"`
			} `json:"plies"`
		} `json:"stress"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Laminate.Plies, 4)
	require.Len(t, resp.Stress.Plies, 4)
	assert.Equal(t, "tsai-wu", resp.Stress.Plies[0].Criteria[2].Type)

	rec = do(t, h, "POST", "/api/laminate/analyze", `{"plies": []}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "laminate must have at least one ply")
}

func TestAnalyzePanel(t *testing.T) {
	h := New(testConfig(), nil).Handler()

	rec := do(t, h, "POST", "/api/panel/analyze", stripJSON, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "strip", resp["name"])
	assert.Equal(t, 10.0, resp["nodes"])
	assert.Equal(t, 8.0, resp["elements"])
	assert.NotContains(t, resp, "run_id")
}

func TestAnalyzePanelErrors(t *testing.T) {
	srv := New(testConfig(), nil)
	h := srv.Handler()

	tests := []struct {
		name   string
		body   string
		status int
		want   string
	}{
		{"syntax", `{"name":`, http.StatusBadRequest, "error"},
		{"validation", `{"length": -1}`, http.StatusBadRequest, "length must be positive"},
		{"group", `{"constraints": [{"group": "middle"}]}`, http.StatusBadRequest, "middle"},
		{
			"huge mesh",
			strings.Replace(stripJSON, `"length": 2,
  "width": 1,
  "divisions": [4, 1],`, `"length": 4294967295,
  "width": 4294967295,
  "elem_size": 1,`, 1),
			http.StatusBadRequest, "divisions along a side",
		},
		{
			"singular",
			strings.Replace(stripJSON, `"constraints": [`, `"constraints": [], "unused": [`, 1),
			http.StatusUnprocessableEntity, "singular",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, "POST", "/api/panel/analyze", tt.body, nil)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}

	srv.MaxNodes = 4
	rec := do(t, srv.Handler(), "POST", "/api/panel/analyze", stripJSON, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "mesh has 10 nodes, the limit is 4")
}

func TestCheckMeshSizeDoesNotOverflow(t *testing.T) {
	srv := New(testConfig(), nil)
	tests := []struct {
		name string
		div  [2]int
		ok   bool
	}{
		{"at limit", [2]int{40, 40}, true},
		{"one row over", [2]int{40, 41}, false},
		{"long strip", [2]int{DefaultMaxNodes, 1}, false},
		{"wraps to zero", [2]int{4294967295, 4294967295}, false},
		{"wraps to small", [2]int{1 << 32, 1<<32 - 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			div := tt.div
			err := srv.checkMeshSize(&panel.Definition{Divisions: &div})
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			var v *laminate.ValidationError
			require.True(t, errors.As(err, &v))
			assert.Contains(t, v.Issues[0], "the limit is 1681")
		})
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = 0.001
	cfg.Burst = 1
	h := New(cfg, nil).Handler()

	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/api/materials", "", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, "GET", "/api/materials", "", nil).Code)
}

func TestTokenAuth(t *testing.T) {
	cfg := testConfig()
	cfg.TokenKey = []byte("panel-secret")
	h := New(cfg, nil).Handler()

	rec := do(t, h, "GET", "/api/materials", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	good, err := IssueToken(cfg.TokenKey, "analyst", time.Hour)
	require.NoError(t, err)
	rec = do(t, h, "GET", "/api/materials", "", map[string]string{"Authorization": "Bearer " + good})
	assert.Equal(t, http.StatusOK, rec.Code)

	foreign, err := IssueToken([]byte("other"), "analyst", time.Hour)
	require.NoError(t, err)
	rec = do(t, h, "GET", "/api/materials", "", map[string]string{"Authorization": "Bearer " + foreign})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "analyst",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}).SignedString(cfg.TokenKey)
	require.NoError(t, err)
	rec = do(t, h, "GET", "/api/materials", "", map[string]string{"Authorization": "Bearer " + expired})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "analyst"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	rec = do(t, h, "GET", "/api/materials", "", map[string]string{"Authorization": "Bearer " + none})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRuns(t *testing.T) {
	repo := &memRepo{}
	h := New(testConfig(), repo).Handler()

	for i := 0; i < 2; i++ {
		rec := do(t, h, "POST", "/api/panel/analyze", stripJSON, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"run_id":`)
	}

	rec := do(t, h, "GET", "/api/runs?limit=1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var runs []store.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, int64(2), runs[0].ID)
	assert.Equal(t, "strip", runs[0].Name)
	assert.Equal(t, 10, runs[0].Nodes)

	assert.Equal(t, http.StatusBadRequest, do(t, h, "GET", "/api/runs?limit=x", "", nil).Code)

	noStore := New(testConfig(), nil).Handler()
	assert.Equal(t, http.StatusNotFound, do(t, noStore, "GET", "/api/runs", "", nil).Code)
}

func TestPanelReportAndExport(t *testing.T) {
	h := New(testConfig(), nil).Handler()

	rec := do(t, h, "POST", "/api/panel/report", stripJSON, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = do(t, h, "POST", "/api/panel/export", stripJSON, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Displacements")

	rec = do(t, h, "POST", "/api/panel/export", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	assert.Equal(t, "10.0.0.7", clientIP(req))
	req.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", clientIP(req))
}
