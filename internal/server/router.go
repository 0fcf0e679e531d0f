package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Werneck0live/alca-hub/internal/handlers"
	"github.com/Werneck0live/alca-hub/internal/metrics"
	"github.com/Werneck0live/alca-hub/internal/utils"
)

const RequestIDHeader = "X-Request-ID"

type ctxKey struct{}

// RequestID devolve o id gerado (ou recebido) para a requisição atual.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}

// NewRouter monta as rotas da API. m pode ser nil (sem /metrics).
func NewRouter(h *handlers.Handler, m *metrics.Metrics, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(logMiddleware(log))
	if m != nil {
		r.Use(m.Middleware)
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Get("/healthz", h.Health)

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Post("/", h.CreateCategory)
	})

	r.Route("/providers", func(r chi.Router) {
		r.Get("/", h.ListProviders)
		r.Post("/", h.CreateProvider)
		// antes de /{id}, senão "stats" vira id
		r.Get("/stats", h.ProviderStats)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.ProviderByID)
			r.Patch("/", h.UpdateProvider)
			r.Delete("/", h.DeleteProvider)
			r.Get("/media", h.ListMedia)
			r.Post("/media", h.AddMedia)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		utils.WriteError(w, http.StatusNotFound, "not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		utils.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	return r
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

type statusRW struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusRW) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRW) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Loga método, rota, status, bytes e duração de cada requisição
func logMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			srw := &statusRW{ResponseWriter: w}
			next.ServeHTTP(srw, r)
			if srw.status == 0 {
				srw.status = http.StatusOK
			}
			log.Info("http_request",
				"method", r.Method, "path", r.URL.Path,
				"status", srw.status, "bytes", srw.bytes,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", RequestID(r.Context()),
				"remote", r.RemoteAddr,
			)
		})
	}
}
