package handlers

import (
	"github.com/Werneck0live/alca-hub/internal/models"
	"github.com/Werneck0live/alca-hub/internal/utils"
)

// somente os campos do contrato; _id, createdAt e updatedAt são do servidor
type ProviderCreateDTO struct {
	Name          string   `json:"name"`
	Document      string   `json:"document"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	Whatsapp      string   `json:"whatsapp"`
	Description   string   `json:"description"`
	Rating        float64  `json:"rating"`
	IsVerified    bool     `json:"isVerified"`
	AddressStreet string   `json:"addressStreet"`
	AddressCity   string   `json:"addressCity"`
	AddressState  string   `json:"addressState"`
	AddressZip    string   `json:"addressZip"`
	CoverageArea  string   `json:"coverageArea"`
	CategoryIDs   []string `json:"categoryIds"`
}

// Update parcial; ponteiros distinguem "omitido" de "informado".
type ProviderPatchDTO struct {
	Name          *string   `json:"name,omitempty"`
	Document      *string   `json:"document,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Whatsapp      *string   `json:"whatsapp,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Rating        *float64  `json:"rating,omitempty"`
	IsVerified    *bool     `json:"isVerified,omitempty"`
	AddressStreet *string   `json:"addressStreet,omitempty"`
	AddressCity   *string   `json:"addressCity,omitempty"`
	AddressState  *string   `json:"addressState,omitempty"`
	AddressZip    *string   `json:"addressZip,omitempty"`
	CoverageArea  *string   `json:"coverageArea,omitempty"`
	CategoryIDs   *[]string `json:"categoryIds,omitempty"`
}

type CategoryCreateDTO struct {
	Name     string `json:"name"`
	ParentID string `json:"parentId"`
}

type MediaCreateDTO struct {
	Kind    string `json:"kind"`
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// Filtros ecoados na listagem (valores crus, como vieram na query; null quando ausentes)
type ProviderFilters struct {
	Category  *string `json:"category"`
	City      *string `json:"city"`
	Verified  *string `json:"verified"`
	Q         *string `json:"q"`
	SortBy    string  `json:"sortBy"`
	SortOrder string  `json:"sortOrder"`
}

type ProviderListResponse struct {
	Providers  []models.ProviderView `json:"providers"`
	Pagination utils.Pagination      `json:"pagination"`
	Filters    ProviderFilters       `json:"filters"`
}

type ProviderResponse struct {
	Provider models.ProviderView `json:"provider"`
}

type CategoryListResponse struct {
	Categories []models.Category `json:"categories"`
	Total      int               `json:"total"`
}

type CategoryResponse struct {
	Category models.Category `json:"category"`
}

type MediaListResponse struct {
	Media []models.ProviderMedia `json:"media"`
	Total int                    `json:"total"`
}

type MediaResponse struct {
	Media models.ProviderMedia `json:"media"`
}
