package transport

import (
	"encoding/json"
	"event-catalog/internal/calendar"
	"event-catalog/internal/domain"
	"event-catalog/internal/service"
	"net/http"
	"net/url"
	"time"
)

type EventHandler struct {
	service service.CatalogService
	loc     *time.Location
	now     func() time.Time
	mux     *http.ServeMux
}

func NewEventHandler(svc service.CatalogService, cfg RouterConfig) *EventHandler {
	h := &EventHandler{
		service: svc,
		loc:     cfg.Location,
		now:     cfg.Now,
		mux:     http.NewServeMux(),
	}
	h.routes()
	return h
}

func (h *EventHandler) routes() {
	// Collection routes (matched at root of stripped prefix)
	h.mux.HandleFunc("GET /{$}", h.handleList)

	// Item routes (matched with path value)
	h.mux.HandleFunc("GET /{id}", h.handleGet)
}

func (h *EventHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	// "/events" strips to an empty path.
	if r.URL.Path == "" {
		r.URL.Path = "/"
	}
	h.mux.ServeHTTP(w, r)
}

// criteriaFromQuery binds and validates the shared list/feed parameters.
func criteriaFromQuery(q url.Values) (domain.FilterCriteria, error) {
	dto := domain.EventListDTO{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Date:     q.Get("date"),
	}
	if err := domain.Validate.Struct(dto); err != nil {
		return domain.FilterCriteria{}, domain.ErrValidation(err.Error())
	}
	return dto.ToCriteria(), nil
}

// handleList lists the events matching the current filter criteria
// @Summary List Events
// @Description Get the catalog narrowed by free-text search, category and date bucket
// @Tags events
// @Accept json
// @Produce json
// @Param search query string false "Case-insensitive text in title, description or location"
// @Param category query string false "Category name, or All (default)"
// @Param date query string false "Date bucket" Enums(today, tomorrow, this-week, this-weekend)
// @Success 200 {object} domain.APIResponse{data=[]domain.Event,meta=domain.ListMeta}
// @Failure 400 {object} domain.APIResponse{error=string}
// @Router /events [get]
func (h *EventHandler) handleList(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r.URL.Query())
	if err != nil {
		respondError(w, err)
		return
	}

	events, err := h.service.ListEvents(r.Context(), criteria)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := domain.APIResponse{
		Data: events,
		Meta: domain.ListMeta{
			Total:         len(events),
			ActiveFilters: criteria.HasActiveFilters(),
			Criteria:      criteria,
		},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// handleGet retrieves a single event
// @Summary Get Event
// @Description Get details of a specific event by Id
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event Id"
// @Success 200 {object} domain.APIResponse{data=domain.Event}
// @Failure 400 {object} domain.APIResponse{error=string}
// @Failure 404 {object} domain.APIResponse{error=string}
// @Router /events/{id} [get]
func (h *EventHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondError(w, domain.ErrValidation("Missing id path parameter"))
		return
	}

	event, err := h.service.GetEvent(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	_ = json.NewEncoder(w).Encode(domain.APIResponse{Data: event})
}

// handleICS exports the filtered events as a calendar feed
// @Summary Events Calendar Feed
// @Description iCalendar (RFC 5545) feed of the events matching the same filters as the list endpoint
// @Tags events
// @Produce text/calendar
// @Param search query string false "Case-insensitive text in title, description or location"
// @Param category query string false "Category name, or All (default)"
// @Param date query string false "Date bucket" Enums(today, tomorrow, this-week, this-weekend)
// @Success 200 {string} string "VCALENDAR document"
// @Failure 400 {object} domain.APIResponse{error=string}
// @Router /events.ics [get]
func (h *EventHandler) handleICS(w http.ResponseWriter, r *http.Request) {
	criteria, err := criteriaFromQuery(r.URL.Query())
	if err != nil {
		respondError(w, err)
		return
	}

	events, err := h.service.ListEvents(r.Context(), criteria)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="events.ics"`)
	_, _ = w.Write([]byte(calendar.Render(events, h.loc, h.now())))
}
