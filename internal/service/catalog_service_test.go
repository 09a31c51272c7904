package service_test

import (
	"context"
	"errors"
	"event-catalog/internal/domain"
	"event-catalog/internal/filter"
	"event-catalog/internal/service"
	"reflect"
	"testing"
	"time"
)

// MockRepository manually implements CatalogRepository for testing
type MockRepository struct {
	ListFunc func(ctx context.Context) ([]domain.Event, error)
	calls    int
}

func (m *MockRepository) List(ctx context.Context) ([]domain.Event, error) {
	m.calls++
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockRepository) Name() string { return "mock" }

// MockResultCache records what the service stores.
type MockResultCache struct {
	GetFunc func(ctx context.Context, key string) ([]string, bool, error)
	SetFunc func(ctx context.Context, key string, ids []string, ttl time.Duration) error
}

func (m *MockResultCache) Get(ctx context.Context, key string) ([]string, bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return nil, false, nil
}

func (m *MockResultCache) Set(ctx context.Context, key string, ids []string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, ids, ttl)
	}
	return nil
}

// Tuesday 2025-06-10.
func fixedClock() time.Time {
	return time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
}

func sampleEvents() []domain.Event {
	return []domain.Event{
		{ID: "1", Title: "Canal Tour", Date: "2025-06-10", Category: "Entertainment"},
		{ID: "2", Title: "Jazz in the Park", Date: "2025-06-11", Category: "Music"},
		{ID: "3", Title: "Museum Night", Date: "2025-06-14", Category: "Art & Culture"},
		{ID: "4", Title: "Open Mic", Date: "2025-06-21", Category: "Music"},
	}
}

func newLoadedService(t *testing.T, opts ...service.Option) (service.CatalogService, *MockRepository) {
	t.Helper()
	repo := &MockRepository{
		ListFunc: func(ctx context.Context) ([]domain.Event, error) {
			return sampleEvents(), nil
		},
	}
	opts = append([]service.Option{service.WithClock(fixedClock)}, opts...)
	svc := service.NewCatalogService(repo, opts...)
	if _, err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	return svc, repo
}

func ids(events []domain.Event) []string {
	out := []string{}
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func TestListEvents_BeforeReloadIsEmpty(t *testing.T) {
	svc := service.NewCatalogService(&MockRepository{}, service.WithClock(fixedClock))
	events, err := svc.ListEvents(context.Background(), domain.DefaultCriteria())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if events == nil || len(events) != 0 {
		t.Errorf("Expected empty non-nil list, got %#v", events)
	}
}

func TestListEvents_UsesInjectedClock(t *testing.T) {
	svc, _ := newLoadedService(t)

	events, err := svc.ListEvents(context.Background(), domain.FilterCriteria{Category: "All", DateBucket: domain.BucketTomorrow})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := ids(events); !reflect.DeepEqual(got, []string{"2"}) {
		t.Errorf("Expected [2], got %v", got)
	}
}

func TestListEvents_WithMemo(t *testing.T) {
	memo := filter.NewMemo(4)
	svc, _ := newLoadedService(t, service.WithMemo(memo))
	criteria := domain.FilterCriteria{Category: "Music"}

	first, _ := svc.ListEvents(context.Background(), criteria)
	second, _ := svc.ListEvents(context.Background(), criteria)

	if !reflect.DeepEqual(ids(first), []string{"2", "4"}) || !reflect.DeepEqual(first, second) {
		t.Errorf("Unexpected results %v / %v", ids(first), ids(second))
	}
	if memo.Len() != 1 {
		t.Errorf("Expected 1 memoized result, got %d", memo.Len())
	}

	// Callers get their own copy.
	first[0].Title = "mutated"
	third, _ := svc.ListEvents(context.Background(), criteria)
	if third[0].Title == "mutated" {
		t.Error("Memoized result was mutated through a returned slice")
	}
}

func TestListEvents_SharedCacheHit(t *testing.T) {
	setCalled := false
	rc := &MockResultCache{
		GetFunc: func(ctx context.Context, key string) ([]string, bool, error) {
			return []string{"3", "1"}, true, nil
		},
		SetFunc: func(ctx context.Context, key string, ids []string, ttl time.Duration) error {
			setCalled = true
			return nil
		},
	}
	svc, _ := newLoadedService(t, service.WithResultCache(rc, time.Minute))

	events, err := svc.ListEvents(context.Background(), domain.DefaultCriteria())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := ids(events); !reflect.DeepEqual(got, []string{"3", "1"}) {
		t.Errorf("Expected cached order [3 1], got %v", got)
	}
	if setCalled {
		t.Error("Set should not be called on a cache hit")
	}
}

func TestListEvents_SharedCacheMissStoresIDs(t *testing.T) {
	var storedKey string
	var stored []string
	rc := &MockResultCache{
		SetFunc: func(ctx context.Context, key string, ids []string, ttl time.Duration) error {
			storedKey, stored = key, ids
			if ttl != time.Minute {
				t.Errorf("Expected TTL 1m, got %v", ttl)
			}
			return nil
		},
	}
	svc, _ := newLoadedService(t, service.WithResultCache(rc, time.Minute))
	criteria := domain.FilterCriteria{Category: "All", DateBucket: domain.BucketThisWeekend}

	if _, err := svc.ListEvents(context.Background(), criteria); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !reflect.DeepEqual(stored, []string{"3"}) {
		t.Errorf("Expected stored [3], got %v", stored)
	}
	if want := filter.Key(svc.Status().Version, criteria, fixedClock()); storedKey != want {
		t.Errorf("Expected key %q, got %q", want, storedKey)
	}
}

func TestListEvents_SharedCacheFailureFallsBack(t *testing.T) {
	rc := &MockResultCache{
		GetFunc: func(ctx context.Context, key string) ([]string, bool, error) {
			return nil, false, errors.New("redis down")
		},
		SetFunc: func(ctx context.Context, key string, ids []string, ttl time.Duration) error {
			return errors.New("redis down")
		},
	}
	svc, _ := newLoadedService(t, service.WithResultCache(rc, time.Minute))

	events, err := svc.ListEvents(context.Background(), domain.FilterCriteria{Category: "Music"})
	if err != nil {
		t.Fatalf("Cache failure must not fail the request, got %v", err)
	}
	if got := ids(events); !reflect.DeepEqual(got, []string{"2", "4"}) {
		t.Errorf("Expected [2 4], got %v", got)
	}
}

func TestListEvents_StaleCachedIDsRecompute(t *testing.T) {
	rc := &MockResultCache{
		GetFunc: func(ctx context.Context, key string) ([]string, bool, error) {
			return []string{"1", "does-not-exist"}, true, nil
		},
	}
	svc, _ := newLoadedService(t, service.WithResultCache(rc, time.Minute))

	events, _ := svc.ListEvents(context.Background(), domain.DefaultCriteria())
	if len(events) != 4 {
		t.Errorf("Expected recomputed full catalog, got %v", ids(events))
	}
}

func TestGetEvent(t *testing.T) {
	svc, _ := newLoadedService(t)

	if _, err := svc.GetEvent(context.Background(), ""); err == nil {
		t.Error("Expected error for empty ID")
	} else if _, ok := err.(*domain.ValidationError); !ok {
		t.Errorf("Expected ValidationError, got %T", err)
	}

	if _, err := svc.GetEvent(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	e, err := svc.GetEvent(context.Background(), "3")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if e.Title != "Museum Night" {
		t.Errorf("Expected Museum Night, got %s", e.Title)
	}
}

func TestCategories(t *testing.T) {
	svc, _ := newLoadedService(t)

	want := []string{"All", "Art & Culture", "Entertainment", "Music"}
	if got := svc.Categories(context.Background()); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	known := svc.KnownCategories()
	if known[0] != domain.CategoryAll || len(known) != len(domain.KnownCategories)+1 {
		t.Errorf("Unexpected known categories %v", known)
	}
}

func TestReload_FailureKeepsSnapshot(t *testing.T) {
	svc, repo := newLoadedService(t)
	before := svc.Status()

	repo.ListFunc = func(ctx context.Context) ([]domain.Event, error) {
		return nil, errors.New("source unavailable")
	}

	status, err := svc.Reload(context.Background())
	if err == nil {
		t.Fatal("Expected reload error")
	}
	if status.ActiveEvents != 4 || status.Version != before.Version {
		t.Errorf("Expected previous snapshot to keep serving, got %+v", status)
	}
	if status.LastError == "" {
		t.Error("Expected LastError to be recorded")
	}

	events, _ := svc.ListEvents(context.Background(), domain.DefaultCriteria())
	if len(events) != 4 {
		t.Errorf("Expected 4 events after failed reload, got %d", len(events))
	}
}

func TestReload_NewVersion(t *testing.T) {
	svc, repo := newLoadedService(t)
	v1 := svc.Status().Version

	// Same content, same version.
	if _, err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if svc.Status().Version != v1 {
		t.Error("Identical catalog should keep its version")
	}

	repo.ListFunc = func(ctx context.Context) ([]domain.Event, error) {
		return sampleEvents()[:2], nil
	}
	status, err := svc.Reload(context.Background())
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if status.Version == v1 || status.ActiveEvents != 2 || status.LastError != "" {
		t.Errorf("Unexpected status after reload: %+v", status)
	}
	if repo.calls != 3 {
		t.Errorf("Expected 3 repository reads, got %d", repo.calls)
	}
}
