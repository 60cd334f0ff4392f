package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/switchyard-io/switchyard/pkg/routes"
)

func TestProtectWrapsAllRoutes(t *testing.T) {
	var wrapped int
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped++
			w.Header().Set("X-Guarded", "1")
			next.ServeHTTP(w, r)
		})
	}

	group := routes.Group{
		Prefix: "/api/things",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: func(w http.ResponseWriter, r *http.Request) {}},
		},
		Children: []routes.Group{
			{
				Prefix: "/nested",
				Routes: []routes.Route{
					{Method: "POST", Pattern: "/deep", Handler: func(w http.ResponseWriter, r *http.Request) {}},
				},
			},
		},
	}

	mux := http.NewServeMux()
	routes.Register(mux, protect(group, mw))

	for _, target := range []struct {
		method string
		path   string
	}{
		{"GET", "/api/things"},
		{"POST", "/api/things/nested/deep"},
	} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(target.method, target.path, nil))

		if rec.Code != http.StatusOK {
			t.Errorf("%s %s status = %d, want 200", target.method, target.path, rec.Code)
		}
		if rec.Header().Get("X-Guarded") != "1" {
			t.Errorf("%s %s did not pass through the middleware", target.method, target.path)
		}
	}

	if wrapped != 2 {
		t.Errorf("middleware invocations = %d, want 2", wrapped)
	}
}

func TestProtectPreservesShape(t *testing.T) {
	group := routes.Group{
		Prefix: "/api/x",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}", Handler: func(w http.ResponseWriter, r *http.Request) {}},
		},
		Children: []routes.Group{{Prefix: "/child"}},
	}

	got := protect(group, func(next http.Handler) http.Handler { return next })

	if got.Prefix != group.Prefix {
		t.Errorf("prefix = %q, want %q", got.Prefix, group.Prefix)
	}
	if len(got.Routes) != 1 || got.Routes[0].Method != "GET" || got.Routes[0].Pattern != "/{id}" {
		t.Errorf("routes reshaped: %+v", got.Routes)
	}
	if len(got.Children) != 1 || got.Children[0].Prefix != "/child" {
		t.Errorf("children reshaped: %+v", got.Children)
	}
}
