package service

import (
	"context"
	"event-catalog/internal/domain"
	"event-catalog/internal/log"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Reloader is the part of CatalogService the refresher drives.
type Reloader interface {
	Reload(ctx context.Context) (domain.CatalogStatus, error)
}

// Refresher reloads the catalog snapshot on a cron schedule.
type Refresher struct {
	reloader Reloader
	cron     *cron.Cron
	entry    cron.EntryID
	timeout  time.Duration
}

// NewRefresher parses spec (standard 5-field cron) in loc. Overlapping runs
// are skipped.
func NewRefresher(reloader Reloader, spec string, loc *time.Location) (*Refresher, error) {
	if loc == nil {
		loc = time.UTC
	}
	r := &Refresher{
		reloader: reloader,
		timeout:  time.Minute,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
	}
	id, err := r.cron.AddFunc(spec, r.run)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	r.entry = id
	return r, nil
}

func (r *Refresher) Start() {
	r.cron.Start()
	log.Info("catalog refresher started", "next", r.Next())
}

// Stop halts the schedule and waits for a running reload, bounded by ctx.
func (r *Refresher) Stop(ctx context.Context) {
	done := r.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// Next returns the next scheduled reload. Zero until Start.
func (r *Refresher) Next() time.Time {
	if r == nil {
		return time.Time{}
	}
	return r.cron.Entry(r.entry).Next
}

func (r *Refresher) run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	status, err := r.reloader.Reload(ctx)
	if err != nil {
		// Reload already logged and kept the previous snapshot.
		return
	}
	log.Debug("scheduled reload done", "version", status.Version, "events", status.ActiveEvents)
}
