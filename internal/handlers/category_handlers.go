package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Werneck0live/alca-hub/internal/broker"
	"github.com/Werneck0live/alca-hub/internal/models"
	"github.com/Werneck0live/alca-hub/internal/repository"
	"github.com/Werneck0live/alca-hub/internal/utils"
)

// GET /categories (ordenado por nome)
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	list, err := h.Categories.List(ctx)
	if err != nil {
		h.fail(w, r, "list_categories", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, CategoryListResponse{Categories: list, Total: len(list)})
}

// POST /categories
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var dto CategoryCreateDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, utils.FormatDecodeError(err))
		return
	}
	if err := validateCategoryDTO(dto); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := h.ctx(r)
	defer cancel()

	c := models.Category{Name: strings.TrimSpace(dto.Name)}
	if dto.ParentID != "" {
		pid, err := primitive.ObjectIDFromHex(dto.ParentID)
		if err != nil {
			utils.BadRequest(w, "invalid parentId")
			return
		}
		ok, err := h.Categories.Exists(ctx, pid)
		if err != nil {
			h.fail(w, r, "check_parent", err)
			return
		}
		if !ok {
			utils.BadRequest(w, "parent category not found")
			return
		}
		c.ParentID = &pid
	}

	if err := h.Categories.Create(ctx, &c); err != nil {
		if errors.Is(err, repository.ErrDuplicateCategory) {
			utils.WriteError(w, http.StatusConflict, "conflict", "category already exists")
			return
		}
		h.fail(w, r, "create_category", err)
		return
	}
	h.publish(broker.NewEvent(broker.ActionCategoryCreated, c.ID.Hex(), "Nova categoria: "+c.Name, nil))
	utils.WriteJSON(w, http.StatusCreated, CategoryResponse{Category: c})
}
