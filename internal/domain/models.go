package domain

import "time"

// Event represents a single catalog record and its wire/database shape
type Event struct {
	ID          string `json:"id" yaml:"id" firestore:"id"`
	Title       string `json:"title" yaml:"title" firestore:"title"`
	Description string `json:"description" yaml:"description" firestore:"description"`
	Date        string `json:"date" yaml:"date" firestore:"date"` // YYYY-MM-DD, optional time-of-day
	Time        string `json:"time" yaml:"time" firestore:"time"` // display text, e.g. "19:00 - 21:00"
	Location    string `json:"location" yaml:"location" firestore:"location"`
	Address     string `json:"address,omitempty" yaml:"address" firestore:"address"`
	Category    string `json:"category" yaml:"category" firestore:"category"`
	Cost        string `json:"cost" yaml:"cost" firestore:"cost"`
	Organizer   string `json:"organizer,omitempty" yaml:"organizer" firestore:"organizer"`
	Source      string `json:"source,omitempty" yaml:"source" firestore:"source"`
	Image       string `json:"image,omitempty" yaml:"image" firestore:"image"`
	SourceURL   string `json:"source_url,omitempty" yaml:"source_url" firestore:"source_url"`
}

// CategoryAll disables category filtering.
const CategoryAll = "All"

// KnownCategories is the fixed set an event category is drawn from.
var KnownCategories = []string{
	"Art & Culture",
	"Community",
	"Entertainment",
	"Music",
	"Sports & Fitness",
	"Wellness",
}

// IsKnownCategory reports whether c is part of KnownCategories.
func IsKnownCategory(c string) bool {
	for _, k := range KnownCategories {
		if k == c {
			return true
		}
	}
	return false
}

// DateBucket names a relative time window.
type DateBucket string

const (
	BucketNone        DateBucket = ""
	BucketToday       DateBucket = "today"
	BucketTomorrow    DateBucket = "tomorrow"
	BucketThisWeek    DateBucket = "this-week"
	BucketThisWeekend DateBucket = "this-weekend"
)

// DateBuckets lists the selectable buckets in display order.
var DateBuckets = []DateBucket{BucketToday, BucketTomorrow, BucketThisWeek, BucketThisWeekend}

// Valid reports whether b is one of the enumerated bucket identifiers.
// BucketNone is not valid: it means "no date filtering".
func (b DateBucket) Valid() bool {
	switch b {
	case BucketToday, BucketTomorrow, BucketThisWeek, BucketThisWeekend:
		return true
	}
	return false
}

// FilterCriteria is the caller-owned narrowing state.
type FilterCriteria struct {
	SearchTerm string     `json:"search_term"`
	Category   string     `json:"category"`
	DateBucket DateBucket `json:"date_bucket"`
}

// DefaultCriteria returns criteria that match every event.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{Category: CategoryAll}
}

// Reset clears all three fields back to their defaults.
func (c *FilterCriteria) Reset() {
	*c = DefaultCriteria()
}

// HasActiveFilters reports whether any field differs from its default.
func (c FilterCriteria) HasActiveFilters() bool {
	return c.SearchTerm != "" || c.Category != CategoryAll || c.DateBucket != BucketNone
}

// CatalogStatus describes the snapshot currently served
type CatalogStatus struct {
	Version      string    `json:"version"`
	ActiveEvents int       `json:"active_events"`
	Source       string    `json:"source"`
	LoadedAt     time.Time `json:"loaded_at"`
	LastError    string    `json:"last_error,omitempty"`
	NextRefresh  time.Time `json:"next_refresh,omitempty"`
}

// ListMeta is attached to list responses.
type ListMeta struct {
	Total         int            `json:"total"`
	ActiveFilters bool           `json:"active_filters"`
	Criteria      FilterCriteria `json:"criteria"`
}

// APIResponse is a standard wrapper for responses
type APIResponse struct {
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
	Meta  interface{} `json:"meta,omitempty"`
}
