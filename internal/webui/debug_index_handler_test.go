package webui

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qtdata.quanttide.cn/internal/appconf"
	"qtdata.quanttide.cn/internal/workspace"
)

func testWebUI(t *testing.T) *WebUI {
	t.Helper()

	m, err := workspace.InitManager(workspace.Config{
		Root: filepath.Join("..", "..", "testdata", "workspace"),
		Env:  appconf.Test,
	})
	require.NoError(t, err)
	return &WebUI{Workspace: m}
}

func TestDebugIndexHandler(t *testing.T) {
	webUI := testWebUI(t)

	mux := http.NewServeMux()
	SetWebUIRoutes(mux, webUI)

	tests := []struct {
		dataType string
		expect   string
	}{
		{"statistics", "Statistics"},
		{"plan", "Cleaning Plan"},
		{"schema", "Schema Document"},
		{"cleaned", "Cleaned Records"},
		{"manifest", "Dataset Manifest"},
		{"", "Please use one of the following"},
	}

	for _, tc := range tests {
		t.Run("dataType="+tc.dataType, func(t *testing.T) {
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/debug/?dataType="+tc.dataType, nil))

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "text/html", rr.Header().Get("Content-Type"))
			assert.Contains(t, rr.Body.String(), tc.expect)
		})
	}
}
