package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MinRating = 0.0
	MaxRating = 5.0
)

type Provider struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name          string               `bson:"name" json:"name"`
	Document      string               `bson:"document" json:"document"` // armazenado normalizado (apenas dígitos)
	Email         string               `bson:"email,omitempty" json:"email,omitempty"`
	Phone         string               `bson:"phone,omitempty" json:"phone,omitempty"`
	Whatsapp      string               `bson:"whatsapp,omitempty" json:"whatsapp,omitempty"`
	Description   string               `bson:"description,omitempty" json:"description,omitempty"`
	Rating        float64              `bson:"rating" json:"rating"`
	IsVerified    bool                 `bson:"isVerified" json:"isVerified"`
	AddressStreet string               `bson:"addressStreet,omitempty" json:"addressStreet,omitempty"`
	AddressCity   string               `bson:"addressCity,omitempty" json:"addressCity,omitempty"`
	AddressState  string               `bson:"addressState,omitempty" json:"addressState,omitempty"`
	AddressZip    string               `bson:"addressZip,omitempty" json:"addressZip,omitempty"`
	CoverageArea  string               `bson:"coverageArea,omitempty" json:"coverageArea,omitempty"`
	CategoryIDs   []primitive.ObjectID `bson:"categoryIds" json:"categoryIds"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// CategoryRef é a categoria "populada" dentro do provider (apenas _id e nome).
type CategoryRef struct {
	ID   primitive.ObjectID `bson:"_id" json:"_id"`
	Name string             `bson:"name" json:"name"`
}

// ProviderView é o formato de resposta: igual ao Provider, mas com categoryIds resolvidos.
type ProviderView struct {
	ID            primitive.ObjectID `json:"_id"`
	Name          string             `json:"name"`
	Document      string             `json:"document"`
	Email         string             `json:"email,omitempty"`
	Phone         string             `json:"phone,omitempty"`
	Whatsapp      string             `json:"whatsapp,omitempty"`
	Description   string             `json:"description,omitempty"`
	Rating        float64            `json:"rating"`
	IsVerified    bool               `json:"isVerified"`
	AddressStreet string             `json:"addressStreet,omitempty"`
	AddressCity   string             `json:"addressCity,omitempty"`
	AddressState  string             `json:"addressState,omitempty"`
	AddressZip    string             `json:"addressZip,omitempty"`
	CoverageArea  string             `json:"coverageArea,omitempty"`
	Categories    []CategoryRef      `json:"categoryIds"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// View monta a resposta usando o mapa id -> nome. Ids sem categoria correspondente são omitidos.
func (p *Provider) View(names map[primitive.ObjectID]string) ProviderView {
	refs := make([]CategoryRef, 0, len(p.CategoryIDs))
	for _, id := range p.CategoryIDs {
		if n, ok := names[id]; ok {
			refs = append(refs, CategoryRef{ID: id, Name: n})
		}
	}
	return ProviderView{
		ID:            p.ID,
		Name:          p.Name,
		Document:      p.Document,
		Email:         p.Email,
		Phone:         p.Phone,
		Whatsapp:      p.Whatsapp,
		Description:   p.Description,
		Rating:        p.Rating,
		IsVerified:    p.IsVerified,
		AddressStreet: p.AddressStreet,
		AddressCity:   p.AddressCity,
		AddressState:  p.AddressState,
		AddressZip:    p.AddressZip,
		CoverageArea:  p.CoverageArea,
		Categories:    refs,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// DisplayName é usado nos eventos publicados.
func (p *Provider) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Document
}

// ProviderPatch é o update parcial; ponteiros distinguem "omitido" de "informado".
type ProviderPatch struct {
	Name          *string
	Document      *string
	Email         *string
	Phone         *string
	Whatsapp      *string
	Description   *string
	Rating        *float64
	IsVerified    *bool
	AddressStreet *string
	AddressCity   *string
	AddressState  *string
	AddressZip    *string
	CoverageArea  *string
	CategoryIDs   *[]primitive.ObjectID
}
