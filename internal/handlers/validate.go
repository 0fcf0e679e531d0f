package handlers

import (
	"errors"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Werneck0live/alca-hub/internal/models"
	"github.com/Werneck0live/alca-hub/internal/utils"
)

var errInvalidDocument = errors.New("document must have 11 (CPF) or 14 (CNPJ) digits")

func validateRating(r float64) error {
	if r < models.MinRating || r > models.MaxRating {
		return errors.New("rating must be between 0 and 5")
	}
	return nil
}

// normaliza e valida; devolve só dígitos
func normalizeDocument(raw string) (string, error) {
	doc := utils.SanitizeDocument(raw)
	if !utils.ValidateDocument(doc) {
		return "", errInvalidDocument
	}
	return doc, nil
}

func parseObjectIDs(raw []string) ([]primitive.ObjectID, error) {
	out := make([]primitive.ObjectID, 0, len(raw))
	seen := make(map[primitive.ObjectID]bool, len(raw))
	for _, s := range raw {
		id, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
		if err != nil {
			return nil, errors.New("invalid category id: " + s)
		}
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out, nil
}

func validateCreateDTO(d ProviderCreateDTO) error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("name is required")
	}
	if d.Document == "" {
		return errors.New("document is required")
	}
	return validateRating(d.Rating)
}

func validatePatchDTO(d ProviderPatchDTO) error {
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if d.Rating != nil {
		return validateRating(*d.Rating)
	}
	return nil
}

func validateCategoryDTO(d CategoryCreateDTO) error {
	if len([]rune(strings.TrimSpace(d.Name))) < models.MinCategoryNameLen {
		return errors.New("name must have at least 2 characters")
	}
	return nil
}

func validateMediaDTO(d MediaCreateDTO) error {
	if !models.MediaKind(d.Kind).Valid() {
		return errors.New("kind must be one of photo, video, pdf, link")
	}
	u, err := url.ParseRequestURI(strings.TrimSpace(d.URL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("url must be an absolute http(s) url")
	}
	return nil
}
