package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Werneck0live/alca-hub/internal/broker"
	"github.com/Werneck0live/alca-hub/internal/metrics"
	"github.com/Werneck0live/alca-hub/internal/models"
	"github.com/Werneck0live/alca-hub/internal/repository"
	"github.com/Werneck0live/alca-hub/internal/utils"
)

const defaultTimeout = 5 * time.Second

type ProviderStore interface {
	Search(ctx context.Context, q repository.ProviderQuery) ([]models.Provider, int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Provider, error)
	Create(ctx context.Context, p *models.Provider) error
	Update(ctx context.Context, id primitive.ObjectID, upd *models.ProviderPatch) (*models.Provider, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Stats(ctx context.Context) (*models.ProviderStats, error)
}

type CategoryStore interface {
	FindByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, c *models.Category) error
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
	NamesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

type MediaStore interface {
	Create(ctx context.Context, m *models.ProviderMedia) error
	ListByProvider(ctx context.Context, providerID primitive.ObjectID) ([]models.ProviderMedia, error)
}

type Publisher interface {
	Publish(ctx context.Context, ev broker.Event) error
}

type StatsCache interface {
	Get(ctx context.Context) (*models.ProviderStats, error)
	Set(ctx context.Context, st *models.ProviderStats) error
	Invalidate(ctx context.Context) error
}

// Handler concentra os endpoints da API. Pub, Cache e Metrics são opcionais.
type Handler struct {
	Providers  ProviderStore
	Categories CategoryStore
	Media      MediaStore
	Pub        Publisher
	Cache      StatsCache
	Metrics    *metrics.Metrics
	Log        *slog.Logger
	Timeout    time.Duration
}

func (h *Handler) logger() *slog.Logger {
	if h.Log == nil {
		return slog.Default()
	}
	return h.Log
}

func (h *Handler) ctx(r *http.Request) (context.Context, context.CancelFunc) {
	t := h.Timeout
	if t <= 0 {
		t = defaultTimeout
	}
	return context.WithTimeout(r.Context(), t)
}

// fail loga o erro real e responde 500 genérico
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger().Error("handler_error", "op", op, "method", r.Method, "path", r.URL.Path, "err", err)
	utils.InternalError(w)
}

// pathID lê {id} da rota; formato inválido já responde 400.
func pathID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid_id", "invalid provider id format")
		return primitive.NilObjectID, false
	}
	return id, true
}

func (h *Handler) publish(ev broker.Event) {
	if h.Pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.Pub.Publish(ctx, ev); err != nil {
		h.logger().Warn("publish_failed", "action", ev.Action, "err", err)
	}
}

func (h *Handler) invalidateStats(ctx context.Context) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.Invalidate(ctx); err != nil {
		h.logger().Warn("stats_cache_invalidate_failed", "err", err)
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
