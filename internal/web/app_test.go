package web_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postbox/internal/web"
)

type routes func(r web.Router)

func (f routes) Routes(r web.Router) { f(r) }

func jsonErrorHandler(c web.Context, err error) error {
	if he, ok := web.AsHTTPError(err); ok {
		return c.JSON(he.Code, map[string]string{"error": he.Message})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal"})
}

func serve(app http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func TestApp_Routing(t *testing.T) {
	t.Parallel()

	app := web.New(
		web.WithErrorHandler(jsonErrorHandler),
		web.WithNotFoundHandler(func(c web.Context) error {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
		}),
		web.WithHandlers(routes(func(r web.Router) {
			r.Route("/api", func(r web.Router) {
				r.GET("/ok", func(c web.Context) error {
					return c.JSON(http.StatusOK, map[string]bool{"success": true})
				})
				r.GET("/bad", func(c web.Context) error {
					return c.Error(http.StatusBadRequest, "bad input")
				})
				r.GET("/boom", func(c web.Context) error {
					return errors.New("boom")
				})
				r.GET("/late", func(c web.Context) error {
					_ = c.NoContent(http.StatusAccepted)
					return errors.New("after write")
				})
				r.Handle(http.MethodGet, "/plain", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(http.StatusTeapot)
				}))
			})
		})),
	)

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/api/ok", http.StatusOK, `{"success":true}`},
		{"/api/bad", http.StatusBadRequest, `{"error":"bad input"}`},
		{"/api/boom", http.StatusInternalServerError, `{"error":"internal"}`},
		{"/api/late", http.StatusAccepted, ""},
		{"/api/plain", http.StatusTeapot, ""},
		{"/nope", http.StatusNotFound, `{"error":"not found"}`},
	}

	for _, tt := range tests {
		rec := serve(app, http.MethodGet, tt.path, "")
		assert.Equal(t, tt.status, rec.Code, tt.path)
		if tt.body != "" {
			assert.JSONEq(t, tt.body, rec.Body.String(), tt.path)
		}
	}
}

func TestApp_Middleware(t *testing.T) {
	t.Parallel()

	type key struct{}
	var order []string

	record := func(name string) web.Middleware {
		return func(next web.HandlerFunc) web.HandlerFunc {
			return func(c web.Context) error {
				order = append(order, name)
				return next(c)
			}
		}
	}

	app := web.New(
		web.WithErrorHandler(jsonErrorHandler),
		web.WithHTTPMiddleware(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, "http")
				next.ServeHTTP(w, r)
			})
		}),
		web.WithMiddleware(record("global"), func(next web.HandlerFunc) web.HandlerFunc {
			return func(c web.Context) error {
				c.Set(key{}, "value")
				return next(c)
			}
		}),
		web.WithHandlers(routes(func(r web.Router) {
			r.GET("/", func(c web.Context) error {
				order = append(order, "handler")
				return c.JSON(http.StatusOK, map[string]any{"value": c.Get(key{})})
			}, record("route-1"), record("route-2"))

			r.Group(func(r web.Router) {
				r.Use(func(next web.HandlerFunc) web.HandlerFunc {
					return func(c web.Context) error {
						return c.Error(http.StatusForbidden, "blocked")
					}
				})
				r.GET("/blocked", func(c web.Context) error { return nil })
			})
		})),
	)

	rec := serve(app, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"value":"value"}`, rec.Body.String())
	assert.Equal(t, []string{"http", "global", "route-1", "route-2", "handler"}, order)

	rec = serve(app, http.MethodGet, "/blocked", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestApp_DefaultErrorHandler(t *testing.T) {
	t.Parallel()

	app := web.New(web.WithHandlers(routes(func(r web.Router) {
		r.GET("/", func(c web.Context) error { return errors.New("boom") })
	})))

	rec := serve(app, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestApp_Run(t *testing.T) {
	t.Parallel()

	t.Run("serves until context is cancelled", func(t *testing.T) {
		t.Parallel()

		var stopped atomic.Bool
		app := web.New(
			web.WithHandlers(routes(func(r web.Router) {
				r.GET("/", func(c web.Context) error { return c.NoContent(http.StatusNoContent) })
			})),
			web.WithShutdownHook(func(context.Context) error {
				stopped.Store(true)
				return nil
			}),
		)

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- app.Run("", web.WithListener(ln), web.WithContext(ctx)) }()

		require.Eventually(t, func() bool {
			resp, err := http.Get("http://" + ln.Addr().String() + "/")
			if err != nil {
				return false
			}
			_ = resp.Body.Close()
			return resp.StatusCode == http.StatusNoContent
		}, 2*time.Second, 10*time.Millisecond)

		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("server did not stop")
		}
		assert.True(t, stopped.Load())
	})

	t.Run("startup hook failure aborts", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		app := web.New(web.WithStartupHook(func(context.Context) error { return boom }))

		err := app.Run("127.0.0.1:0")
		require.ErrorIs(t, err, boom)
	})
}
