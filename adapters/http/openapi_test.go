package http_test

import (
	"encoding/json"
	"net/http"
	"testing"

	apihttp "github.com/artpar/wizide/adapters/http"
)

func TestOpenAPI_DocJSON(t *testing.T) {
	env := setupTestEnv(t, func(cfg *apihttp.RouterConfig) {
		cfg.EnableOpenAPI = true
	})

	rec := env.do(t, http.MethodGet, "/swagger/doc.json", "")
	expectStatus(t, rec, http.StatusOK)

	var doc struct {
		Swagger string                    `json:"swagger"`
		Info    struct{ Title string }    `json:"info"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("doc.json is not valid JSON: %v", err)
	}
	if doc.Swagger != "2.0" || doc.Info.Title != "wizide API" {
		t.Errorf("doc header = %s %q", doc.Swagger, doc.Info.Title)
	}

	for _, path := range []string{
		"/api/editors",
		"/api/editors/{id}",
		"/api/editors/{id}/tabs/{index}",
		"/api/apps/{mode}",
		"/api/routes",
		"/api/sources/open",
		"/api/events",
	} {
		if _, ok := doc.Paths[path]; !ok {
			t.Errorf("doc.json missing %s", path)
		}
	}
}

func TestOpenAPI_UI(t *testing.T) {
	env := setupTestEnv(t, func(cfg *apihttp.RouterConfig) {
		cfg.EnableOpenAPI = true
	})

	rec := env.do(t, http.MethodGet, "/swagger/index.html", "")
	expectStatus(t, rec, http.StatusOK)
}

func TestOpenAPI_Disabled(t *testing.T) {
	env := setupTestEnv(t, nil)

	if rec := env.do(t, http.MethodGet, "/swagger/doc.json", ""); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
