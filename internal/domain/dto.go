package domain

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var Validate = validator.New()

// EventListDTO binds the list query parameters.
// Date is intentionally unconstrained: unknown buckets disable date filtering.
type EventListDTO struct {
	Search   string `json:"search" validate:"max=200"`
	Category string `json:"category" validate:"max=100"`
	Date     string `json:"date"`
}

// ToCriteria converts the DTO, applying the "All" default for an empty category.
func (d EventListDTO) ToCriteria() FilterCriteria {
	c := DefaultCriteria()
	c.SearchTerm = d.Search
	if cat := strings.TrimSpace(d.Category); cat != "" {
		c.Category = cat
	}
	c.DateBucket = DateBucket(strings.TrimSpace(d.Date))
	return c
}
