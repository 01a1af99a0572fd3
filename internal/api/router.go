// Package api exposes the items gateway over HTTP.
package api

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"github.com/ruslano69/itemgate/internal/diaglog"
	"github.com/ruslano69/itemgate/internal/infra"
	"github.com/ruslano69/itemgate/pkg/adapters"
)

// Version is reported by GET /api.
const Version = "1.0.0"

// Backend is the operation set the routes and the gate need.
// *adapters.Dispatcher implements it.
type Backend interface {
	Kind() adapters.Kind
	Configured() bool
	Ping(ctx context.Context) error
	Tables(ctx context.Context) adapters.TablesResult
	Items(ctx context.Context) ([]adapters.Item, error)
	Item(ctx context.Context, id int64) (adapters.Item, error)
	Create(ctx context.Context, name string) (adapters.Item, error)
}

// Server carries the shared state of all handlers.
type Server struct {
	cfg     *infra.Config
	backend Backend
	diag    *diaglog.Ring

	// pingLogged latches the first successful ping so it is logged once per process.
	pingLogged atomic.Bool
}

// NewServer creates the handler set.
func NewServer(cfg *infra.Config, backend Backend, diag *diaglog.Ring) *Server {
	return &Server{cfg: cfg, backend: backend, diag: diag}
}

// NewRouter wires all dependencies and returns the chi router.
func NewRouter(cfg *infra.Config, backend Backend, diag *diaglog.Ring) http.Handler {
	return NewServer(cfg, backend, diag).Routes()
}

// Routes builds the router. /ok and /gateway-timeout bypass the gate;
// everything else, static files included, goes through it.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(zerologMiddleware)
	r.Use(recoverJSON)

	r.Get("/ok", handleOK)
	r.Get("/gateway-timeout", handleGatewayTimeout)

	r.Group(func(r chi.Router) {
		r.Use(s.gate)

		r.Get("/", s.servePublicFile("index.html"))
		r.Get("/sample", s.servePublicFile("sample.html"))
		r.Get("/api", handleInfo)

		r.Get("/api/config", s.handleConfig)
		r.Get("/api/tables", s.handleTables)
		r.Get("/api/health", handleHealth)
		r.Get("/api/items", s.handleListItems)
		r.Post("/api/items", s.handleCreateItem)
		r.Get("/api/items/{id:[0-9]+}", s.handleGetItem)

		r.Handle("/*", s.staticFiles())
	})

	return r
}

func handleOK(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "OK")
}

func handleGatewayTimeout(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusGatewayTimeout, "Gateway Timeout")
}
