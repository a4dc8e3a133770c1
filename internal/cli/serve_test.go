package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/cladekit/phylogram/pkg/pipeline"
)

func testHandler(t *testing.T) http.Handler {
	t.Helper()
	c := &CLI{Logger: newLogger(io.Discard, log.ErrorLevel)}
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	t.Cleanup(func() { runner.Close() })
	return c.routes(runner)
}

func TestHealthz(t *testing.T) {
	handler := testHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	handler := testHandler(t)

	body := `{"tree": {"name": "root", "children": [{"name": "A"}, {"name": "B"}]}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/layout", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp layoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.RunID == "" {
		t.Error("run_id should be set")
	}
	if resp.NodeCount != 3 || resp.LeafCount != 2 {
		t.Errorf("counts = %d/%d, want 3/2", resp.NodeCount, resp.LeafCount)
	}
	if len(resp.Layout.Primitives) == 0 {
		t.Error("layout should contain primitives")
	}
	if got := resp.Layout.Orientation; got != "right" {
		t.Errorf("orientation = %q, want default right", got)
	}
}

func TestLayoutEndpointOptions(t *testing.T) {
	handler := testHandler(t)

	body := `{
	  "tree": {"name": "root", "children": [{"name": "A"}, {"name": "B"}]},
	  "options": {"orientation": "left", "formats": ["json", "dot"]}
	}`
	req := httptest.NewRequest(http.MethodPost, "/v1/layout", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp layoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Layout.Orientation != "left" {
		t.Errorf("orientation = %q, want left", resp.Layout.Orientation)
	}
	if _, ok := resp.Artifacts["dot"]; !ok {
		t.Error("dot artifact should be returned inline")
	}
	if _, ok := resp.Artifacts["json"]; ok {
		t.Error("json artifact is carried by the layout field, not artifacts")
	}
}

func TestLayoutEndpointErrors(t *testing.T) {
	handler := testHandler(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"malformed json", `{not json`, http.StatusBadRequest, "INVALID_INPUT"},
		{"missing tree", `{}`, http.StatusBadRequest, "EMPTY_TREE"},
		{"bad orientation", `{"tree": {"name": "root", "children": [{"name": "A"}]}, "options": {"orientation": "up"}}`, http.StatusBadRequest, "INVALID_ORIENTATION"},
		{"negative level", `{"tree": {"name": "root", "children": [{"name": "A"}]}, "options": {"display_level": -2}}`, http.StatusBadRequest, "INVALID_DISPLAY_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/layout", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
		})
	}
}
