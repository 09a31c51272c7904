package filter

import (
	"event-catalog/internal/domain"
	"strings"
	"time"
)

// Predicate is FilterCriteria prepared for repeated evaluation: the bucket is
// resolved and the search term lowercased once per pass.
type Predicate struct {
	category string
	search   string
	dated    bool
	test     DateTest
	loc      *time.Location
}

func NewPredicate(criteria domain.FilterCriteria, now time.Time) Predicate {
	return Predicate{
		category: criteria.Category,
		search:   strings.ToLower(criteria.SearchTerm),
		dated:    criteria.DateBucket.Valid(),
		test:     Resolve(criteria.DateBucket, now),
		loc:      now.Location(),
	}
}

// Match evaluates category, then date, then the substring scan.
func (p Predicate) Match(e domain.Event) bool {
	if p.category != domain.CategoryAll && e.Category != p.category {
		return false
	}

	if p.dated {
		t, err := ParseEventDate(e.Date, p.loc)
		if err != nil {
			return false
		}
		if !p.test(t) {
			return false
		}
	}

	if p.search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Title), p.search) ||
		strings.Contains(strings.ToLower(e.Description), p.search) ||
		strings.Contains(strings.ToLower(e.Location), p.search)
}

// Matches reports whether a single event satisfies criteria at now.
func Matches(e domain.Event, criteria domain.FilterCriteria, now time.Time) bool {
	return NewPredicate(criteria, now).Match(e)
}
