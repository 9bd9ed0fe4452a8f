// Roster HTTP handlers.
//
// This file exposes the windowed roster view and the stateless page view:
//   - GET  /roster          (current visible-window snapshot)
//   - POST /roster/query    (search text changed; settles through debounce)
//   - POST /roster/sort     (toggle sort on a field)
//   - POST /roster/reveal   (near-bottom signal; extends the loaded window)
//   - GET  /roster/page     (stateless filter→sort→slice page view)
//   - GET  /roster/count    (full dataset size)
//
// Handlers are transport-thin: they validate input, post events to the
// window controller, and translate snapshots into HTTP responses. While the
// roster is still generating, the data endpoints answer 503 with a
// "generating" code, mirroring /health.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-roster-backend/internal/dataset"
	"github.com/tbourn/go-roster-backend/internal/domain"
	"github.com/tbourn/go-roster-backend/internal/utils"
	"github.com/tbourn/go-roster-backend/internal/window"
)

//
// Service contracts
//

// WindowController is the controller surface the handlers consume. The
// concrete implementation mutates state on a single run loop; these methods
// are safe to call from any request goroutine.
type WindowController interface {
	// OnQueryChange submits raw search text (debounced downstream).
	OnQueryChange(text string)
	// OnSortToggle applies a validated sort key toggle.
	OnSortToggle(key domain.SortKey)
	// OnNearBottom extends the loaded window by one page.
	OnNearBottom()
	// Snapshot returns the latest published window state.
	Snapshot() *window.Snapshot
	// Sync waits until previously posted events have been applied.
	Sync(ctx context.Context) error
}

// Handlers groups the roster HTTP endpoints.
type Handlers struct {
	ctrl WindowController
	ds   *dataset.Dataset
}

// New constructs Handlers bound to the given controller and dataset handle.
func New(ctrl WindowController, ds *dataset.Dataset) *Handlers {
	return &Handlers{ctrl: ctrl, ds: ds}
}

//
// DTOs
//

// QueryRequest is the JSON payload for a search text change.
type QueryRequest struct {
	// Q is the raw search text. Empty clears the filter.
	Q string `json:"q"`
}

// SortRequest is the JSON payload for a sort toggle.
type SortRequest struct {
	// Key is the field to sort by: id, name, email, score,
	// lastMessageAt, or addedBy.
	Key string `json:"key" binding:"required"`
}

// WindowResponse wraps a window snapshot.
type WindowResponse struct {
	Window *window.Snapshot `json:"window"`
}

// CountResponse reports the full dataset size.
type CountResponse struct {
	Total int `json:"total"`
}

//
// Helpers
//

// guardReady rejects data requests while the roster is still generating.
func (h *Handlers) guardReady(c *gin.Context) bool {
	if h.ds.Ready() {
		return true
	}
	fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "roster is still generating")
	return false
}

//
// Handlers
//

// GetWindow returns the current visible-window snapshot: exactly the rows
// to render (sorted, truncated to the loaded count), the match total, and
// the reveal/empty flags.
func (h *Handlers) GetWindow(c *gin.Context) {
	if !h.guardReady(c) {
		return
	}
	ok(c, http.StatusOK, WindowResponse{Window: h.ctrl.Snapshot()})
}

// PostQuery submits new search text. The value settles through the
// debounce gate, so the response snapshot still reflects the previous
// match set; clients poll GetWindow (or watch Generation) for the result.
func (h *Handlers) PostQuery(c *gin.Context) {
	if !h.guardReady(c) {
		return
	}
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid query payload")
		return
	}
	h.ctrl.OnQueryChange(req.Q)
	ok(c, http.StatusAccepted, WindowResponse{Window: h.ctrl.Snapshot()})
}

// PostSort toggles sorting on a field: same key flips direction, a new key
// resets to ascending. Unknown keys are a configuration error and are
// rejected with 400 rather than silently ignored.
func (h *Handlers) PostSort(c *gin.Context) {
	if !h.guardReady(c) {
		return
	}
	var req SortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "sort key required")
		return
	}
	key, err := domain.ParseSortKey(req.Key)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown sort key")
		return
	}
	h.ctrl.OnSortToggle(key)
	if err := h.ctrl.Sync(c.Request.Context()); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, WindowResponse{Window: h.ctrl.Snapshot()})
}

// PostReveal handles a near-bottom signal: the loaded window grows by one
// page, clamped to the match set size. Signals at the end are no-ops, so
// clients may fire redundantly without side effects.
func (h *Handlers) PostReveal(c *gin.Context) {
	if !h.guardReady(c) {
		return
	}
	h.ctrl.OnNearBottom()
	if err := h.ctrl.Sync(c.Request.Context()); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, WindowResponse{Window: h.ctrl.Snapshot()})
}

// GetPage serves the stateless page view: filter, sort, slice — computed
// per request against the shared read-only dataset and independent of the
// window controller state.
//
// Query parameters: page (1-based, default 1), limit (default 30, max
// 1000), search, sort_by, sort_order (asc|desc).
func (h *Handlers) GetPage(c *gin.Context) {
	if !h.guardReady(c) {
		return
	}

	req := window.PageRequest{
		Page:    utils.AtoiDefault(c.Query("page"), 1),
		Limit:   utils.AtoiDefault(c.Query("limit"), 30),
		Search:  c.Query("search"),
		SortDir: domain.ParseDirection(c.Query("sort_order")),
	}
	if raw := c.Query("sort_by"); raw != "" {
		key, err := domain.ParseSortKey(raw)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown sort key")
			return
		}
		req.SortKey = key
	}

	ok(c, http.StatusOK, window.PageView(c.Request.Context(), h.ds.Records(), req))
}

// GetCount reports the full dataset size. Available even while the roster
// is generating, when it reports the target count.
func (h *Handlers) GetCount(c *gin.Context) {
	ok(c, http.StatusOK, CountResponse{Total: h.ds.Total()})
}
