package utils

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

var ErrInvalidPagination = errors.New("page and limit must be positive integers (limit <= 100)")

type Pagination struct {
	Page       int64  `json:"page"`
	Limit      int64  `json:"limit"`
	Total      int64  `json:"total"`
	TotalPages int64  `json:"totalPages"`
	HasNext    bool   `json:"hasNext"`
	HasPrev    bool   `json:"hasPrev"`
	NextPage   *int64 `json:"nextPage"`
	PrevPage   *int64 `json:"prevPage"`
}

// ParsePageWindow lê page/limit como vêm da query string. Vazio = default;
// não numérico, < 1, limit acima do máximo ou page cujo skip estoura int64 = ErrInvalidPagination.
func ParsePageWindow(pageRaw, limitRaw string) (page, limit int64, err error) {
	page, limit = DefaultPage, DefaultLimit
	if s := strings.TrimSpace(pageRaw); s != "" {
		if page, err = strconv.ParseInt(s, 10, 64); err != nil || page < 1 {
			return 0, 0, ErrInvalidPagination
		}
	}
	if s := strings.TrimSpace(limitRaw); s != "" {
		if limit, err = strconv.ParseInt(s, 10, 64); err != nil || limit < 1 || limit > MaxLimit {
			return 0, 0, ErrInvalidPagination
		}
	}
	if page > math.MaxInt64/limit+1 {
		return 0, 0, ErrInvalidPagination
	}
	return page, limit, nil
}

// Skip = (page-1)*limit
func Skip(page, limit int64) int64 {
	return (page - 1) * limit
}

func BuildPagination(page, limit, total int64) Pagination {
	p := Pagination{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		p.TotalPages = (total + limit - 1) / limit // ceil
	}
	p.HasNext = page < p.TotalPages
	p.HasPrev = page > 1
	if p.HasNext {
		n := page + 1
		p.NextPage = &n
	}
	if p.HasPrev {
		n := page - 1
		p.PrevPage = &n
	}
	return p
}
