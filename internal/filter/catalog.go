// Package filter narrows an event catalog by search text, category and a
// relative date bucket. Every function here is pure: "now" is always passed
// in by the caller.
package filter

import (
	"event-catalog/internal/domain"
	"time"
)

// Filter returns the events of catalog matching criteria, in catalog order.
// The result is a new slice and is never nil.
func Filter(catalog []domain.Event, criteria domain.FilterCriteria, now time.Time) []domain.Event {
	p := NewPredicate(criteria, now)

	out := make([]domain.Event, 0)
	for _, e := range catalog {
		if p.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
