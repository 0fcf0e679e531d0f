package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Werneck0live/alca-hub/internal/broker"
	"github.com/Werneck0live/alca-hub/internal/cache"
	"github.com/Werneck0live/alca-hub/internal/models"
	"github.com/Werneck0live/alca-hub/internal/repository"
	"github.com/Werneck0live/alca-hub/internal/utils"
)

// populate resolve categoryIds -> {_id, name} de uma vez para a página inteira
func (h *Handler) populate(ctx context.Context, list []models.Provider) ([]models.ProviderView, error) {
	seen := map[primitive.ObjectID]bool{}
	ids := []primitive.ObjectID{}
	for _, p := range list {
		for _, id := range p.CategoryIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	names, err := h.Categories.NamesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.ProviderView, 0, len(list))
	for i := range list {
		out = append(out, list[i].View(names))
	}
	return out, nil
}

// GET /providers
func (h *Handler) ListProviders(w http.ResponseWriter, r *http.Request) {
	q, filters, err := parseProviderQuery(r.URL.Query())
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid_pagination", err.Error())
		return
	}

	ctx, cancel := h.ctx(r)
	defer cancel()

	if err := h.resolveCategory(ctx, filters.Category, &q); err != nil {
		h.fail(w, r, "resolve_category", err)
		return
	}

	list, total, err := h.Providers.Search(ctx, q)
	if err != nil {
		h.fail(w, r, "search_providers", err)
		return
	}
	views, err := h.populate(ctx, list)
	if err != nil {
		h.fail(w, r, "populate_categories", err)
		return
	}
	h.Metrics.ObserveSearch(total)

	utils.WriteJSON(w, http.StatusOK, ProviderListResponse{
		Providers:  views,
		Pagination: utils.BuildPagination(q.Page, q.Limit, total),
		Filters:    filters,
	})
}

// GET /providers/{id}
func (h *Handler) ProviderByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()

	p, err := h.Providers.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.NotFound(w, "provider not found")
		return
	}
	if err != nil {
		h.fail(w, r, "get_provider", err)
		return
	}
	views, err := h.populate(ctx, []models.Provider{*p})
	if err != nil {
		h.fail(w, r, "populate_categories", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ProviderResponse{Provider: views[0]})
}

// GET /providers/stats
func (h *Handler) ProviderStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	if h.Cache != nil {
		st, err := h.Cache.Get(ctx)
		switch {
		case err == nil:
			h.Metrics.StatsCache("hit")
			utils.WriteJSON(w, http.StatusOK, st)
			return
		case errors.Is(err, cache.ErrMiss):
			h.Metrics.StatsCache("miss")
		default:
			// cache fora do ar não derruba o endpoint
			h.Metrics.StatsCache("error")
			h.logger().Warn("stats_cache_get_failed", "err", err)
		}
	}

	st, err := h.Providers.Stats(ctx)
	if err != nil {
		h.fail(w, r, "provider_stats", err)
		return
	}
	if h.Cache != nil {
		if err := h.Cache.Set(ctx, st); err != nil {
			h.logger().Warn("stats_cache_set_failed", "err", err)
		}
	}
	utils.WriteJSON(w, http.StatusOK, st)
}

// confere se todos os ids de categoria existem
func (h *Handler) checkCategories(ctx context.Context, ids []primitive.ObjectID) (bool, error) {
	for _, id := range ids {
		ok, err := h.Categories.Exists(ctx, id)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// POST /providers
func (h *Handler) CreateProvider(w http.ResponseWriter, r *http.Request) {
	var dto ProviderCreateDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, utils.FormatDecodeError(err))
		return
	}
	if err := validateCreateDTO(dto); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}
	doc, err := normalizeDocument(dto.Document)
	if err != nil {
		utils.BadRequest(w, err.Error())
		return
	}
	catIDs, err := parseObjectIDs(dto.CategoryIDs)
	if err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := h.ctx(r)
	defer cancel()

	if ok, err := h.checkCategories(ctx, catIDs); err != nil {
		h.fail(w, r, "check_categories", err)
		return
	} else if !ok {
		utils.BadRequest(w, "unknown category id")
		return
	}

	p := models.Provider{
		Name:          strings.TrimSpace(dto.Name),
		Document:      doc,
		Email:         dto.Email,
		Phone:         dto.Phone,
		Whatsapp:      dto.Whatsapp,
		Description:   dto.Description,
		Rating:        dto.Rating,
		IsVerified:    dto.IsVerified,
		AddressStreet: dto.AddressStreet,
		AddressCity:   dto.AddressCity,
		AddressState:  dto.AddressState,
		AddressZip:    dto.AddressZip,
		CoverageArea:  dto.CoverageArea,
		CategoryIDs:   catIDs,
	}
	if err := h.Providers.Create(ctx, &p); err != nil {
		if errors.Is(err, repository.ErrDuplicateDocument) {
			utils.WriteError(w, http.StatusConflict, "conflict", "document already exists")
			return
		}
		h.fail(w, r, "create_provider", err)
		return
	}

	views, err := h.populate(ctx, []models.Provider{p})
	if err != nil {
		h.fail(w, r, "populate_categories", err)
		return
	}
	h.invalidateStats(ctx)
	h.publish(broker.NewEvent(broker.ActionProviderCreated, p.ID.Hex(),
		broker.ProviderMessage(broker.ActionProviderCreated, p.DisplayName()),
		map[string]any{"city": p.AddressCity, "isVerified": p.IsVerified}))
	utils.WriteJSON(w, http.StatusCreated, ProviderResponse{Provider: views[0]})
}

func toPatch(d ProviderPatchDTO) (*models.ProviderPatch, error) {
	upd := &models.ProviderPatch{
		Name:          d.Name,
		Email:         d.Email,
		Phone:         d.Phone,
		Whatsapp:      d.Whatsapp,
		Description:   d.Description,
		Rating:        d.Rating,
		IsVerified:    d.IsVerified,
		AddressStreet: d.AddressStreet,
		AddressCity:   d.AddressCity,
		AddressState:  d.AddressState,
		AddressZip:    d.AddressZip,
		CoverageArea:  d.CoverageArea,
	}
	if d.Name != nil {
		n := strings.TrimSpace(*d.Name)
		upd.Name = &n
	}
	if d.Document != nil {
		doc, err := normalizeDocument(*d.Document)
		if err != nil {
			return nil, err
		}
		upd.Document = &doc
	}
	if d.CategoryIDs != nil {
		ids, err := parseObjectIDs(*d.CategoryIDs)
		if err != nil {
			return nil, err
		}
		upd.CategoryIDs = &ids
	}
	return upd, nil
}

// PATCH /providers/{id}
func (h *Handler) UpdateProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var dto ProviderPatchDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, utils.FormatDecodeError(err))
		return
	}
	if err := validatePatchDTO(dto); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}
	upd, err := toPatch(dto)
	if err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := h.ctx(r)
	defer cancel()

	if upd.CategoryIDs != nil {
		if ok, err := h.checkCategories(ctx, *upd.CategoryIDs); err != nil {
			h.fail(w, r, "check_categories", err)
			return
		} else if !ok {
			utils.BadRequest(w, "unknown category id")
			return
		}
	}

	p, err := h.Providers.Update(ctx, id, upd)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		utils.NotFound(w, "provider not found")
		return
	case errors.Is(err, repository.ErrDuplicateDocument):
		utils.WriteError(w, http.StatusConflict, "conflict", "document already exists")
		return
	case err != nil:
		h.fail(w, r, "update_provider", err)
		return
	}

	views, err := h.populate(ctx, []models.Provider{*p})
	if err != nil {
		h.fail(w, r, "populate_categories", err)
		return
	}
	h.invalidateStats(ctx)
	h.publish(broker.NewEvent(broker.ActionProviderUpdated, p.ID.Hex(),
		broker.ProviderMessage(broker.ActionProviderUpdated, p.DisplayName()), nil))
	utils.WriteJSON(w, http.StatusOK, ProviderResponse{Provider: views[0]})
}

// DELETE /providers/{id}
func (h *Handler) DeleteProvider(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()

	// Busca antes de deletar para o nome na notificação
	p, err := h.Providers.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		utils.NotFound(w, "provider not found")
		return
	}
	if err != nil {
		h.fail(w, r, "get_provider", err)
		return
	}

	if err := h.Providers.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(w, "provider not found")
			return
		}
		h.fail(w, r, "delete_provider", err)
		return
	}

	h.invalidateStats(ctx)
	h.publish(broker.NewEvent(broker.ActionProviderDeleted, id.Hex(),
		broker.ProviderMessage(broker.ActionProviderDeleted, p.DisplayName()), nil))
	w.WriteHeader(http.StatusNoContent)
}
