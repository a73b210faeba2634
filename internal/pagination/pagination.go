package pagination

import (
	"github.com/gofiber/fiber/v2"
)

// MaxLimitPerPage caps list endpoints. Requests asking for more are clamped,
// not rejected.
const MaxLimitPerPage = 25

const defaultLimit = 10

type Params struct {
	Page  int
	Limit int
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Parse reads page and limit query params with clamping. Page starts at 1.
func Parse(c *fiber.Ctx) Params {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxLimitPerPage {
		limit = MaxLimitPerPage
	}
	return Params{Page: page, Limit: limit}
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int64 `json:"totalPages"`
}

func BuildMeta(p Params, totalItems int64) Meta {
	totalPages := totalItems / int64(p.Limit)
	if totalItems%int64(p.Limit) != 0 {
		totalPages++
	}
	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}
