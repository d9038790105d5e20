package settingsapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-metafields/pkg/catalog"
	"github.com/goliatone/go-metafields/pkg/meta"
	"github.com/goliatone/go-metafields/pkg/settings"
	"github.com/goliatone/go-metafields/pkg/testsupport"
)

type settingsResponse struct {
	Data struct {
		Values map[string]any  `json:"values"`
		Fields []meta.UIConfig `json:"fields"`
	} `json:"data"`
}

type fieldsResponse struct {
	Data []meta.UIConfig `json:"data"`
}

func testOptions(t *testing.T) []OptionFn {
	t.Helper()
	registry, err := settings.NewRegistry(testsupport.SettingsFixture(t)...)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	fields, err := catalog.New(
		meta.MustNew(meta.Options{Key: "project_status", ObjectSubtype: "project"}),
		meta.MustNew(meta.Options{Key: "subtitle"}),
		meta.MustNew(meta.Options{Key: "user_department", ObjectType: meta.ObjectTypeUser}),
	)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return []OptionFn{WithRegistry(registry), WithCatalog(fields)}
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_ListSettings(t *testing.T) {
	h := Handler(testOptions(t)...)

	rec := serve(h, http.MethodGet, "/settings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}

	var payload settingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]any{"enable_projects": true, "projects_per_page": float64(10), "archive_layout": "grid"}
	if diff := cmp.Diff(want, payload.Data.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if len(payload.Data.Fields) != 3 {
		t.Fatalf("expected 3 field configs, got %d", len(payload.Data.Fields))
	}
	if payload.Data.Fields[2].InputType != "select" {
		t.Fatalf("expected select widget for archive_layout, got %q", payload.Data.Fields[2].InputType)
	}
}

func TestHandler_UpdateSettings(t *testing.T) {
	h := Handler(testOptions(t)...)

	for _, method := range []string{http.MethodPost, http.MethodPut} {
		rec := serve(h, method, "/settings", `{"values":{"archive_layout":"list","projects_per_page":20}}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d: %s", method, rec.Code, rec.Body.String())
		}
		var payload settingsResponse
		if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if payload.Data.Values["archive_layout"] != "list" || payload.Data.Values["projects_per_page"] != float64(20) {
			t.Fatalf("%s: unexpected values %v", method, payload.Data.Values)
		}
	}
}

func TestHandler_UpdateSettingsRejectsInvalidValues(t *testing.T) {
	opts := testOptions(t)
	h := Handler(opts...)

	rec := serve(h, http.MethodPost, "/settings", `{"values":{"archive_layout":"masonry","enable_projects":false,"private_key":"x"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	var payload errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Error == "" {
		t.Fatalf("expected error message")
	}
	if len(payload.Fields["archive_layout"]) == 0 || len(payload.Fields["private_key"]) == 0 {
		t.Fatalf("expected field errors, got %v", payload.Fields)
	}

	rec = serve(h, http.MethodGet, "/settings", "")
	var current settingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&current); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if current.Data.Values["enable_projects"] != true {
		t.Fatalf("rejected update must not change values: %v", current.Data.Values)
	}
}

func TestHandler_UpdateSettingsMalformedBody(t *testing.T) {
	h := Handler(testOptions(t)...)

	cases := map[string]string{
		"not json":       `{"values":`,
		"missing values": `{"other":{}}`,
	}
	for name, body := range cases {
		rec := serve(h, http.MethodPost, "/settings", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status 400, got %d", name, rec.Code)
		}
	}

	small := Handler(append(testOptions(t), WithMaxBodyBytes(8))...)
	rec := serve(small, http.MethodPost, "/settings", `{"values":{"archive_layout":"list"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("oversized body: expected status 400, got %d", rec.Code)
	}
}

func TestHandler_ListFields(t *testing.T) {
	h := Handler(testOptions(t)...)

	cases := []struct {
		target string
		want   []string
	}{
		{target: "/fields?objectType=post&subtype=project", want: []string{"project_status", "subtitle"}},
		{target: "/fields?subtype=page", want: []string{"subtitle"}},
		{target: "/fields?objectType=user", want: []string{"user_department"}},
		{target: "/fields?objectType=term", want: []string{}},
	}
	for _, tc := range cases {
		rec := serve(h, http.MethodGet, tc.target, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", tc.target, rec.Code)
		}
		var payload fieldsResponse
		if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		got := []string{}
		for _, cfg := range payload.Data {
			got = append(got, cfg.Key)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("%s: keys mismatch (-want +got):\n%s", tc.target, diff)
		}
	}

	rec := serve(h, http.MethodGet, "/fields?objectType=comment", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown object type, got %d", rec.Code)
	}
}

func TestHandler_Schema(t *testing.T) {
	h := Handler(testOptions(t)...)

	rec := serve(h, http.MethodGet, "/schema", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var doc map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	paths, _ := doc["paths"].(map[string]any)
	if _, ok := paths[DefaultBasePath+"/settings"]; !ok {
		t.Fatalf("expected settings path in document, got %v", paths)
	}
}

func TestHandler_GuardRejects(t *testing.T) {
	h := Handler(append(testOptions(t), WithGuard(func(r *http.Request) error {
		return StatusError{Code: http.StatusUnauthorized, Err: errors.New("no session")}
	}))...)

	rec := serve(h, http.MethodGet, "/settings", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}

	plain := Handler(WithGuard(func(r *http.Request) error { return errors.New("denied") }))
	if rec := serve(plain, http.MethodGet, "/settings", ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := Handler(testOptions(t)...)

	rec := serve(h, http.MethodDelete, "/settings", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}

func TestHandler_LogsUpdates(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := Handler(append(testOptions(t), WithLogger(zap.New(core)))...)

	serve(h, http.MethodPost, "/settings", `{"values":{"archive_layout":"list"}}`)
	if logs.FilterMessage("settings updated").Len() != 1 {
		t.Fatalf("expected one update log entry, got %v", logs.All())
	}
}

func TestRegisterRoutes_ServeMuxAndChi(t *testing.T) {
	mux := http.NewServeMux()
	pattern, err := RegisterRoutes(mux, "/wp-json/acme/v1/", testOptions(t)...)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if pattern != "/wp-json/acme/v1" {
		t.Fatalf("unexpected pattern %q", pattern)
	}
	if rec := serve(mux, http.MethodGet, "/wp-json/acme/v1/settings", ""); rec.Code != http.StatusOK {
		t.Fatalf("serve mux: expected status 200, got %d", rec.Code)
	}

	router := chi.NewRouter()
	if _, err := New(testOptions(t)...).RegisterRoutes(router); err != nil {
		t.Fatalf("register chi: %v", err)
	}
	if rec := serve(router, http.MethodGet, DefaultBasePath+"/fields?subtype=project", ""); rec.Code != http.StatusOK {
		t.Fatalf("chi: expected status 200, got %d", rec.Code)
	}

	if _, err := RegisterRoutes(nil, ""); err == nil {
		t.Fatalf("expected missing mux error")
	}
}

func TestMountPath(t *testing.T) {
	cases := map[string]string{
		"":                   "",
		"/":                  "",
		"wp-json/acme/v1":    "/wp-json/acme/v1",
		" /wp-json/acme/v1/": "/wp-json/acme/v1",
	}
	for in, want := range cases {
		if got := MountPath(in); got != want {
			t.Fatalf("MountPath(%q) = %q, want %q", in, got, want)
		}
	}
}
