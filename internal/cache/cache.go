// Package cache shares filtered results between function instances.
package cache

import (
	"context"
	"time"
)

// ResultCache stores the ordered event IDs of a filter result under the
// memoization key. A miss is (nil, false, nil).
type ResultCache interface {
	Get(ctx context.Context, key string) ([]string, bool, error)
	Set(ctx context.Context, key string, ids []string, ttl time.Duration) error
}
