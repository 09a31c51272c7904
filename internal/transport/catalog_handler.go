package transport

import (
	"event-catalog/internal/domain"
	"event-catalog/internal/service"
	"net/http"
)

type CatalogHandler struct {
	service   service.CatalogService
	refresher *service.Refresher
}

func NewCatalogHandler(svc service.CatalogService, refresher *service.Refresher) *CatalogHandler {
	return &CatalogHandler{service: svc, refresher: refresher}
}

func (h *CatalogHandler) status() domain.CatalogStatus {
	st := h.service.Status()
	st.NextRefresh = h.refresher.Next()
	return st
}

// handleCategories lists the categories present in the catalog
// @Summary List Categories
// @Description "All" followed by the distinct categories of the loaded catalog, sorted
// @Tags catalog
// @Produce json
// @Success 200 {object} domain.APIResponse{data=[]string}
// @Router /categories [get]
func (h *CatalogHandler) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.APIResponse{Data: h.service.Categories(r.Context())})
}

// handleKnownCategories lists the fixed category set
// @Summary List Known Categories
// @Description "All" followed by the fixed set event categories are drawn from
// @Tags catalog
// @Produce json
// @Success 200 {object} domain.APIResponse{data=[]string}
// @Router /categories/known [get]
func (h *CatalogHandler) handleKnownCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.APIResponse{Data: h.service.KnownCategories()})
}

// handleHealth reports the snapshot being served
// @Summary Health
// @Description Catalog version, size and reload state. 503 until the first successful load.
// @Tags catalog
// @Produce json
// @Success 200 {object} domain.APIResponse{data=domain.CatalogStatus}
// @Failure 503 {object} domain.APIResponse{data=domain.CatalogStatus}
// @Router /health [get]
func (h *CatalogHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := h.status()
	code := http.StatusOK
	if st.LoadedAt.IsZero() {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, domain.APIResponse{Data: st})
}

// handleReload re-reads the catalog source
// @Summary Reload Catalog
// @Description Replace the served snapshot with a fresh read of the source. On failure the previous snapshot keeps serving.
// @Tags catalog
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.APIResponse{data=domain.CatalogStatus}
// @Failure 401 {object} domain.APIResponse{error=string}
// @Failure 500 {object} domain.APIResponse{error=string}
// @Router /catalog/reload [post]
func (h *CatalogHandler) handleReload(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.Reload(r.Context()); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.APIResponse{Data: h.status()})
}
