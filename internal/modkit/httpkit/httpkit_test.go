package httpkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	perrs "postfilter/internal/platform/errors"
	phttp "postfilter/internal/platform/net/http"
)

type saveIn struct {
	Name string `json:"name" validate:"required"`
}

func api(t *testing.T) http.Handler {
	t.Helper()
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	r.Use(RootStack()...)
	MountAPIV1(r, CommonStack(DefaultOwnerHeader), func(v1 Router) {
		v1.Route("/presets", func(pr Router) {
			pr.Use(Auth(NewHeaderPort("")))
			Get(pr, "/", func(r *http.Request) (any, error) { return Owner(r) })
			PostBound(pr, "/", func(_ *http.Request, in saveIn) (any, error) { return Created(in.Name), nil })
			Delete(pr, "/{id}", func(r *http.Request) (any, error) { return ParamInt64(r, "id") })
		})
	})
	return mux
}

func call(h http.Handler, method, path, body, owner string) (*httptest.ResponseRecorder, Envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if owner != "" {
		req.Header.Set("x-owner-id", owner)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestAPI_Routes(t *testing.T) {
	t.Parallel()
	h := api(t)
	cases := []struct {
		name   string
		method string
		path   string
		body   string
		owner  string
		status int
		data   any
		field  string
	}{
		{"owner echoed", http.MethodGet, "/api/v1/presets", "", " u-42 ", http.StatusOK, "u-42", ""},
		{"no owner", http.MethodGet, "/api/v1/presets", "", "", http.StatusUnauthorized, nil, ""},
		{"created", http.MethodPost, "/api/v1/presets", `{"name":"go"}`, "u-42", http.StatusCreated, "go", ""},
		{"invalid body", http.MethodPost, "/api/v1/presets", `{}`, "u-42", http.StatusBadRequest, nil, "name"},
		{"param", http.MethodDelete, "/api/v1/presets/9", "", "u-42", http.StatusOK, float64(9), ""},
		{"bad param", http.MethodDelete, "/api/v1/presets/x", "", "u-42", http.StatusUnprocessableEntity, nil, "id"},
	}
	for _, tc := range cases {
		rec, env := call(h, tc.method, tc.path, tc.body, tc.owner)
		if rec.Code != tc.status || env.Data != tc.data || env.Field != tc.field {
			t.Fatalf("%s: %d %+v", tc.name, rec.Code, env)
		}
		if env.RequestID == "" {
			t.Fatalf("%s: no request id", tc.name)
		}
	}
}

func TestRootStack_Heartbeat(t *testing.T) {
	t.Parallel()
	rec, _ := call(api(t), http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health = %d", rec.Code)
	}
}

func TestCommonStack_CORSAllowsOwnerHeader(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/presets", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", DefaultOwnerHeader)
	rec := httptest.NewRecorder()
	api(t).ServeHTTP(rec, req)

	if !strings.Contains(strings.ToLower(rec.Header().Get("Access-Control-Allow-Headers")), "x-owner-id") {
		t.Fatalf("allow headers = %q", rec.Header().Get("Access-Control-Allow-Headers"))
	}
}

func TestHeaderPort(t *testing.T) {
	t.Parallel()
	p := NewHeaderPort("x-tenant-user")
	if p.Header() != "X-Tenant-User" {
		t.Fatalf("header = %q", p.Header())
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := p.Parse(req); !perrs.IsCode(err, perrs.ErrorCodeUnauthorized) {
		t.Fatalf("err = %v", err)
	}
	req.Header.Set("X-Tenant-User", "u-1")
	if got, err := p.Parse(req); err != nil || got != "u-1" {
		t.Fatalf("Parse = %q, %v", got, err)
	}
}

func TestOwner_Unset(t *testing.T) {
	t.Parallel()
	if _, err := Owner(httptest.NewRequest(http.MethodGet, "/", nil)); !perrs.IsCode(err, perrs.ErrorCodeUnauthorized) {
		t.Fatalf("err = %v", err)
	}
}
