package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"event-catalog/internal/cache"
	"event-catalog/internal/domain"
	"event-catalog/internal/filter"
	"event-catalog/internal/log"
	"event-catalog/internal/metrics"
	"event-catalog/internal/repository"
	"fmt"
	"sort"
	"sync"
	"time"
)

type CatalogService interface {
	ListEvents(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Event, error)
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	Categories(ctx context.Context) []string
	KnownCategories() []string
	Reload(ctx context.Context) (domain.CatalogStatus, error)
	Status() domain.CatalogStatus
}

// snapshot is an immutable view of the catalog; reloads swap the pointer.
type snapshot struct {
	events   []domain.Event
	byID     map[string]int
	version  string
	loadedAt time.Time
	// shareable is false for the empty initial snapshot and for catalogs with
	// duplicate ids, where cached id lists cannot be mapped back reliably.
	shareable bool
}

type catalogService struct {
	repo repository.CatalogRepository
	now  func() time.Time

	memo     *filter.Memo
	results  cache.ResultCache
	cacheTTL time.Duration

	mu        sync.RWMutex
	snap      *snapshot
	lastError string

	reloadMu sync.Mutex
}

type Option func(*catalogService)

// WithClock sets the source of "now". The returned time's location decides
// which calendar day "today" is.
func WithClock(now func() time.Time) Option {
	return func(s *catalogService) { s.now = now }
}

// WithMemo enables in-process memoization of filter results.
func WithMemo(m *filter.Memo) Option {
	return func(s *catalogService) { s.memo = m }
}

// WithResultCache enables the shared result cache.
func WithResultCache(c cache.ResultCache, ttl time.Duration) Option {
	return func(s *catalogService) {
		s.results = c
		s.cacheTTL = ttl
	}
}

func NewCatalogService(repo repository.CatalogRepository, opts ...Option) CatalogService {
	s := &catalogService{
		repo: repo,
		now:  time.Now,
		snap: &snapshot{events: []domain.Event{}, byID: map[string]int{}},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *catalogService) current() *snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *catalogService) ListEvents(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Event, error) {
	start := time.Now()
	snap := s.current()
	now := s.now()
	key := filter.Key(snap.version, criteria, now)

	shared := s.results != nil && snap.shareable
	if shared {
		ids, ok, err := s.results.Get(ctx, key)
		if err != nil {
			log.Error("result cache get failed", err, "key", key)
		} else if ok {
			if events, complete := snap.lookup(ids); complete {
				metrics.TrackFilter(string(criteria.DateBucket), criteria.DateBucket.Valid(), "shared", len(events), time.Since(start))
				return events, nil
			}
		}
	}

	var (
		res     []domain.Event
		outcome = "miss"
	)
	if s.memo != nil {
		var hit bool
		res, hit = s.memo.Filter(snap.version, snap.events, criteria, now)
		if hit {
			outcome = "memo"
		}
		res = cloneEvents(res)
	} else {
		res = filter.Filter(snap.events, criteria, now)
	}

	if shared && outcome == "miss" {
		if err := s.results.Set(ctx, key, eventIDs(res), s.cacheTTL); err != nil {
			log.Error("result cache set failed", err, "key", key)
		}
	}

	metrics.TrackFilter(string(criteria.DateBucket), criteria.DateBucket.Valid(), outcome, len(res), time.Since(start))
	log.Debug("filter pass",
		"search", criteria.SearchTerm,
		"category", criteria.Category,
		"date", criteria.DateBucket,
		"results", len(res),
		"cache", outcome,
	)
	return res, nil
}

func (s *catalogService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	if id == "" {
		return nil, domain.ErrValidation("id is required")
	}
	snap := s.current()
	i, ok := snap.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e := snap.events[i]
	return &e, nil
}

// Categories returns "All" followed by the distinct categories present in the
// catalog, sorted.
func (s *catalogService) Categories(ctx context.Context) []string {
	snap := s.current()
	seen := make(map[string]struct{})
	var cats []string
	for _, e := range snap.events {
		if e.Category == "" {
			continue
		}
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		cats = append(cats, e.Category)
	}
	sort.Strings(cats)
	return append([]string{domain.CategoryAll}, cats...)
}

func (s *catalogService) KnownCategories() []string {
	return append([]string{domain.CategoryAll}, domain.KnownCategories...)
}

// Reload replaces the snapshot with a fresh read of the repository. On error
// the previous snapshot keeps serving.
func (s *catalogService) Reload(ctx context.Context) (domain.CatalogStatus, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	events, err := s.repo.List(ctx)
	if err != nil {
		err = fmt.Errorf("reload catalog from %s: %w", s.repo.Name(), err)
		s.mu.Lock()
		s.lastError = err.Error()
		s.mu.Unlock()
		metrics.TrackReload(err, 0)
		log.Error("catalog reload failed", err, "source", s.repo.Name())
		return s.Status(), err
	}

	next, dupes := buildSnapshot(events, s.now())

	s.mu.Lock()
	prev := s.snap.version
	s.snap = next
	s.lastError = ""
	s.mu.Unlock()

	if s.memo != nil && prev != next.version {
		s.memo.Purge()
	}

	metrics.TrackReload(nil, len(next.events))
	log.Info("catalog reloaded",
		"source", s.repo.Name(),
		"events", len(next.events),
		"version", next.version,
		"duplicate_ids", dupes,
	)
	return s.Status(), nil
}

func (s *catalogService) Status() domain.CatalogStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CatalogStatus{
		Version:      s.snap.version,
		ActiveEvents: len(s.snap.events),
		Source:       s.repo.Name(),
		LoadedAt:     s.snap.loadedAt,
		LastError:    s.lastError,
	}
}

// buildSnapshot indexes events by id (first occurrence wins) and derives a
// content version, so instances serving the same catalog share cache keys.
func buildSnapshot(events []domain.Event, now time.Time) (*snapshot, int) {
	snap := &snapshot{
		events:   events,
		byID:     make(map[string]int, len(events)),
		version:  catalogVersion(events),
		loadedAt: now,
	}
	dupes := 0
	for i, e := range events {
		if _, ok := snap.byID[e.ID]; ok {
			dupes++
			continue
		}
		snap.byID[e.ID] = i
	}
	snap.shareable = dupes == 0
	return snap, dupes
}

func catalogVersion(events []domain.Event) string {
	h := sha256.New()
	_ = json.NewEncoder(h).Encode(events)
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// lookup maps cached ids back to events. complete is false when an id is not
// in this snapshot, which makes the caller recompute.
func (s *snapshot) lookup(ids []string) ([]domain.Event, bool) {
	out := make([]domain.Event, 0, len(ids))
	for _, id := range ids {
		i, ok := s.byID[id]
		if !ok {
			return nil, false
		}
		out = append(out, s.events[i])
	}
	return out, true
}

func eventIDs(events []domain.Event) []string {
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	return ids
}

func cloneEvents(events []domain.Event) []domain.Event {
	out := make([]domain.Event, len(events))
	copy(out, events)
	return out
}
