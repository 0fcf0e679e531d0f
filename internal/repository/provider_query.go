package repository

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SortByVerified = "isVerified"
	SortByRating   = "rating"
	SortByName     = "name"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// ProviderQuery já chega validada (page/limit >= 1). CategoryID nil = sem filtro de categoria.
type ProviderQuery struct {
	CategoryID *primitive.ObjectID
	City       string
	Verified   *bool
	Text       string
	SortBy     string
	SortOrder  string
	Page       int64
	Limit      int64
}

// substring case-insensitive; a entrada do usuário é escapada
func containsCI(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func BuildProviderFilter(q ProviderQuery) bson.M {
	filter := bson.M{}
	if q.CategoryID != nil {
		filter["categoryIds"] = *q.CategoryID
	}
	if city := strings.TrimSpace(q.City); city != "" {
		filter["addressCity"] = containsCI(city)
	}
	if q.Verified != nil {
		filter["isVerified"] = *q.Verified
	}
	if text := strings.TrimSpace(q.Text); text != "" {
		re := containsCI(text)
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
			bson.M{"coverageArea": re},
		}
	}
	return filter
}

// BuildProviderSort devolve nil para sortBy desconhecido (ordem natural do Mongo).
// As chaves de desempate (rating desc, name asc) não seguem sortOrder.
func BuildProviderSort(sortBy, sortOrder string) bson.D {
	dir := -1
	if sortOrder == SortAsc {
		dir = 1
	}
	switch sortBy {
	case SortByVerified:
		return bson.D{{Key: "isVerified", Value: dir}, {Key: "rating", Value: -1}, {Key: "name", Value: 1}}
	case SortByRating:
		return bson.D{{Key: "rating", Value: dir}, {Key: "name", Value: 1}}
	case SortByName:
		return bson.D{{Key: "name", Value: dir}}
	default:
		return nil
	}
}
