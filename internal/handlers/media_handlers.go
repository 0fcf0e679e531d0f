package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Werneck0live/alca-hub/internal/broker"
	"github.com/Werneck0live/alca-hub/internal/models"
	"github.com/Werneck0live/alca-hub/internal/repository"
	"github.com/Werneck0live/alca-hub/internal/utils"
)

// GET /providers/{id}/media
func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.ctx(r)
	defer cancel()

	if _, err := h.Providers.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(w, "provider not found")
			return
		}
		h.fail(w, r, "get_provider", err)
		return
	}
	list, err := h.Media.ListByProvider(ctx, id)
	if err != nil {
		h.fail(w, r, "list_media", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, MediaListResponse{Media: list, Total: len(list)})
}

// POST /providers/{id}/media
func (h *Handler) AddMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var dto MediaCreateDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, utils.FormatDecodeError(err))
		return
	}
	if err := validateMediaDTO(dto); err != nil {
		utils.BadRequest(w, err.Error())
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

	m := models.ProviderMedia{
		ProviderID: id,
		Kind:       models.MediaKind(dto.Kind),
		URL:        strings.TrimSpace(dto.URL),
		Caption:    dto.Caption,
	}
	if err := h.Media.Create(ctx, &m); err != nil {
		h.fail(w, r, "create_media", err)
		return
	}
	h.publish(broker.NewEvent(broker.ActionMediaAdded, id.Hex(), "Nova mídia de "+p.DisplayName(),
		map[string]any{"kind": m.Kind}))
	utils.WriteJSON(w, http.StatusCreated, MediaResponse{Media: m})
}
