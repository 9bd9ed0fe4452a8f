package window

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-roster-backend/internal/domain"
	"github.com/tbourn/go-roster-backend/internal/engine"
)

// PageRequest is a stateless roster page query: filter, then sort, then
// slice. Unlike the windowed view, it touches no controller state, so any
// number of page requests can run concurrently against the read-only
// dataset.
type PageRequest struct {
	Page    int // 1-based
	Limit   int
	Search  string
	SortKey domain.SortKey // empty means dataset order
	SortDir domain.Direction
}

// PageResult carries one page plus the filtered total.
type PageResult struct {
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
	Total int             `json:"total"`
	Items []domain.Record `json:"items"`
}

// PageView evaluates req synchronously over records. Sorting operates on a
// copy of the match indices; the shared dataset order is never mutated.
// Here the full match set is sorted (unlike the windowed view): a stateless
// page has no materialized prefix to scope the sort to.
func PageView(ctx context.Context, records []domain.Record, req PageRequest) PageResult {
	_, span := tracer().Start(ctx, "window.PageView",
		trace.WithAttributes(
			attribute.Int("page", req.Page),
			attribute.Int("limit", req.Limit),
			attribute.String("search", req.Search),
		))
	defer span.End()

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit <= 0 || req.Limit > 1000 {
		req.Limit = 30
	}

	matched := engine.FilterSync(records, engine.SubstringPredicate(req.Search))
	if req.SortKey != "" {
		sortIndices(matched, records, req.SortKey, req.SortDir)
	}

	start := (req.Page - 1) * req.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + req.Limit
	if end > len(matched) {
		end = len(matched)
	}

	items := make([]domain.Record, end-start)
	for i, idx := range matched[start:end] {
		items[i] = records[idx]
	}
	return PageResult{Page: req.Page, Limit: req.Limit, Total: len(matched), Items: items}
}
