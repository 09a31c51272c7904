package transport

import (
	"encoding/json"
	"errors"
	"event-catalog/internal/domain"
	"event-catalog/internal/service"
	"net/http"
	"time"
)

// RouterConfig carries the collaborators that are not part of CatalogService.
type RouterConfig struct {
	// Location is the zone the iCalendar feed is rendered in.
	Location *time.Location
	// Refresher is optional; when set, /health and reload report its next run.
	Refresher *service.Refresher
	Now       func() time.Time
}

// NewRouter initializes the main HTTP handler using Go 1.22+ ServeMux
func NewRouter(svc service.CatalogService, cfg RouterConfig) http.Handler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	mux := http.NewServeMux()

	// Mount Event Handler at /events and /events/
	eventHandler := NewEventHandler(svc, cfg)
	mux.Handle("/events", http.StripPrefix("/events", eventHandler))
	mux.Handle("/events/", http.StripPrefix("/events", eventHandler))
	mux.HandleFunc("GET /events.ics", eventHandler.handleICS)

	catalogHandler := NewCatalogHandler(svc, cfg.Refresher)
	mux.HandleFunc("GET /categories", catalogHandler.handleCategories)
	mux.HandleFunc("GET /categories/known", catalogHandler.handleKnownCategories)
	mux.HandleFunc("GET /health", catalogHandler.handleHealth)
	mux.HandleFunc("POST /catalog/reload", catalogHandler.handleReload)

	return mux
}

func writeJSON(w http.ResponseWriter, status int, resp domain.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func respondError(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, domain.APIResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, domain.APIResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, domain.APIResponse{Error: err.Error()})
	}
}
