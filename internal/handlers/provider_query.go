package handlers

import (
	"context"
	"errors"
	"net/url"

	"github.com/Werneck0live/alca-hub/internal/repository"
	"github.com/Werneck0live/alca-hub/internal/utils"
)

// parseProviderQuery traduz a query string; a categoria é resolvida à parte
// porque depende do banco.
func parseProviderQuery(qs url.Values) (repository.ProviderQuery, ProviderFilters, error) {
	page, limit, err := utils.ParsePageWindow(qs.Get("page"), qs.Get("limit"))
	if err != nil {
		return repository.ProviderQuery{}, ProviderFilters{}, err
	}

	sortBy := qs.Get("sortBy")
	if sortBy == "" {
		sortBy = repository.SortByVerified
	}
	sortOrder := qs.Get("sortOrder")
	if sortOrder == "" {
		sortOrder = repository.SortDesc
	}

	q := repository.ProviderQuery{
		City:      qs.Get("city"),
		Text:      qs.Get("q"),
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Page:      page,
		Limit:     limit,
	}
	// só "true" liga; qualquer outro valor (inclusive "false" ou lixo) vira false
	if qs.Has("verified") {
		v := qs.Get("verified") == "true"
		q.Verified = &v
	}

	f := ProviderFilters{
		Category:  rawParam(qs, "category"),
		City:      rawParam(qs, "city"),
		Verified:  rawParam(qs, "verified"),
		Q:         rawParam(qs, "q"),
		SortBy:    sortBy,
		SortOrder: sortOrder,
	}
	return q, f, nil
}

// rawParam: nil quando o parâmetro não veio; presente e vazio ecoa "".
func rawParam(qs url.Values, key string) *string {
	if !qs.Has(key) {
		return nil
	}
	v := qs.Get(key)
	return &v
}

// resolveCategory: nome desconhecido não filtra nada (mesmo resultado que sem categoria).
func (h *Handler) resolveCategory(ctx context.Context, raw *string, q *repository.ProviderQuery) error {
	if raw == nil || *raw == "" {
		return nil
	}
	name := *raw
	c, err := h.Categories.FindByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		h.logger().Warn("category_not_found", "category", name)
		return nil
	}
	if err != nil {
		return err
	}
	q.CategoryID = &c.ID
	return nil
}
