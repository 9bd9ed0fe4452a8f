package window

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-roster-backend/internal/dataset"
	"github.com/tbourn/go-roster-backend/internal/domain"
	"github.com/tbourn/go-roster-backend/internal/engine"
)

// initialWindowFactor sizes the first materialized window as a multiple of
// the page size when a match set resolves.
const initialWindowFactor = 2

// Config carries the tunables of the windowing pipeline.
type Config struct {
	PageSize      int           // rows added per reveal
	ChunkSize     int           // records scanned per filter slice
	FrameBudget   time.Duration // max wall-clock work per slice
	DebounceDelay time.Duration // query quiescence window
}

// Normalize substitutes defaults for unset values.
func (c Config) Normalize() Config {
	if c.PageSize <= 0 {
		c.PageSize = 30
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = 50_000
	}
	if c.FrameBudget <= 0 {
		c.FrameBudget = 12 * time.Millisecond
	}
	if c.DebounceDelay <= 0 {
		c.DebounceDelay = 250 * time.Millisecond
	}
	return c
}

// Snapshot is the immutable view handed to the presentation layer. A new
// snapshot is published after every committed state transition; readers
// never observe intermediate state.
type Snapshot struct {
	// Rows are exactly the records to render, already sorted and
	// truncated to the loaded window.
	Rows []domain.Record `json:"rows"`
	// TotalCount is the match set size (the full dataset size when no
	// query is active, since an empty query matches everything).
	TotalCount int `json:"totalCount"`
	// LoadedCount is the number of materialized rows, len(Rows).
	LoadedCount int `json:"loadedCount"`
	// HasMore reports whether a further reveal can add rows.
	HasMore bool `json:"hasMore"`
	// IsEmpty reports that the current query matched nothing.
	IsEmpty bool `json:"isEmpty"`
	// Query is the settled (debounced, normalized) query the match set
	// was computed from.
	Query string `json:"query"`
	// Filtering reports that a newer filter pass is still in flight;
	// Rows then still reflect the previous generation.
	Filtering bool `json:"filtering"`

	SortKey       string `json:"sortKey,omitempty"`
	SortDirection string `json:"sortDirection"`
	Generation    uint64 `json:"generation"`
}

// Controller owns the visible-window state. All mutation happens on the
// run loop goroutine; the public methods below are safe to call from any
// goroutine because they only post events onto the loop and read the
// atomically published snapshot.
//
// Three independent events drive the state machine: query change, sort
// toggle, and reveal. Each filter pass carries a generation token; reveal
// events and sort toggles arriving while a pass is in flight apply to the
// committed (previous) match set, and results of a superseded pass are
// dropped on arrival rather than cancelled mid-scan.
type Controller struct {
	lp  *engine.Loop
	ds  *dataset.Dataset
	cfg Config
	deb *engine.Debounce

	// Everything below is touched only on the loop goroutine.
	records    []domain.Record
	rawQuery   string
	query      string  // debounced, normalized
	matchSet   []int32 // scan-order indices into records
	windowIdx  []int32 // materialized prefix of matchSet, sorted
	sortKey    domain.SortKey
	sortDir    domain.Direction
	generation uint64 // newest issued filter generation
	inFlight   bool

	snap atomic.Pointer[Snapshot]
}

// NewController wires a controller to the loop and dataset handle. The
// dataset may still be generating; call AttachDataset once it is ready.
func NewController(lp *engine.Loop, ds *dataset.Dataset, cfg Config) *Controller {
	c := &Controller{
		lp:      lp,
		ds:      ds,
		cfg:     cfg.Normalize(),
		sortDir: domain.Ascending,
	}
	c.deb = engine.NewDebounce(lp, c.cfg.DebounceDelay, c.commitQuery)
	c.snap.Store(&Snapshot{SortDirection: domain.Ascending.String()})
	return c
}

// AttachDataset binds the generated records and materializes the initial
// window (empty query, full dataset). Must be called exactly once, after
// the dataset reports ready.
func (c *Controller) AttachDataset() {
	_ = c.lp.Post(func() {
		c.records = c.ds.Records()
		log.Info().Int("total", len(c.records)).Msg("window controller attached to roster")
		if c.query != "" {
			// A query settled while the roster was still generating;
			// materialize against it instead of the full set.
			c.runPass()
			return
		}
		c.matchSet = identityIndices(len(c.records))
		c.resetWindow()
	})
}

// OnQueryChange receives raw search text. The value settles through the
// debounce gate; only the last value of a burst triggers a filter pass.
func (c *Controller) OnQueryChange(text string) {
	_ = c.lp.Post(func() {
		c.rawQuery = text
	})
	c.deb.Signal(text)
}

// OnSortToggle applies a sort event: toggling the active key flips the
// direction, a new key resets to ascending. Only the currently
// materialized rows are re-sorted, not the full match set; rows revealed
// later keep scan order relative to the sorted prefix. That is observed
// reference behavior, preserved deliberately (see DESIGN.md).
func (c *Controller) OnSortToggle(key domain.SortKey) {
	_ = c.lp.Post(func() {
		_, span := tracer().Start(context.Background(), "window.SortToggle",
			trace.WithAttributes(attribute.String("sort.key", string(key))))
		defer span.End()

		if key == c.sortKey {
			c.sortDir = c.sortDir.Flip()
		} else {
			c.sortKey = key
			c.sortDir = domain.Ascending
		}
		sortIndices(c.windowIdx, c.records, c.sortKey, c.sortDir)
		c.publish()
	})
}

// OnNearBottom extends the loaded window by one page, clamped to the match
// set size. Signals arriving when everything is already materialized are
// no-ops, so repeated near-bottom events at the end are idempotent.
func (c *Controller) OnNearBottom() {
	_ = c.lp.Post(func() {
		if len(c.windowIdx) >= len(c.matchSet) {
			return
		}
		end := len(c.windowIdx) + c.cfg.PageSize
		if end > len(c.matchSet) {
			end = len(c.matchSet)
		}
		c.windowIdx = append(c.windowIdx, c.matchSet[len(c.windowIdx):end]...)
		if c.sortKey != "" {
			sortIndices(c.windowIdx, c.records, c.sortKey, c.sortDir)
		}
		c.publish()
	})
}

// Snapshot returns the latest published window state.
func (c *Controller) Snapshot() *Snapshot {
	return c.snap.Load()
}

// Sync blocks until every event posted before the call has been applied,
// then returns. It does not wait for debounce timers or in-flight filter
// passes, only for queue drain.
func (c *Controller) Sync(ctx context.Context) error {
	return c.lp.Barrier(ctx)
}

// commitQuery runs on the loop when a query value survives the debounce
// window. It issues a generation-tagged filter pass over the full dataset.
func (c *Controller) commitQuery(text string) {
	normalized := domain.NormalizeQuery(text)
	if c.records == nil {
		// Dataset not attached yet; remember the query, AttachDataset
		// materializes against it.
		c.query = normalized
		return
	}
	if normalized == c.query && c.matchSet != nil {
		return
	}
	c.query = normalized
	c.runPass()
}

// runPass issues a generation-tagged filter pass for the current settled
// query over the full dataset.
func (c *Controller) runPass() {
	_, span := tracer().Start(context.Background(), "window.FilterPass",
		trace.WithAttributes(attribute.String("query", c.query)))
	normalized := c.query

	c.generation++
	gen := c.generation
	c.inFlight = true
	c.publish()

	fcfg := engine.FilterConfig{ChunkSize: c.cfg.ChunkSize, FrameBudget: c.cfg.FrameBudget}
	engine.FilterSliced(c.lp, c.records, engine.SubstringPredicate(normalized), fcfg, func(matched []int32) {
		defer span.End()
		if gen != c.generation {
			// A newer query superseded this pass while it was
			// scanning; its result must not touch state.
			supersededPasses.Inc()
			return
		}
		c.matchSet = matched
		c.inFlight = false
		c.resetWindow()
		log.Debug().Str("query", normalized).Int("matches", len(matched)).Uint64("generation", gen).Msg("filter pass committed")
	})
}

// resetWindow rebuilds the materialized prefix after a match set change:
// loadedCount restarts at a small multiple of the page size and the
// current sort, if any, is applied to the fresh window.
func (c *Controller) resetWindow() {
	initial := initialWindowFactor * c.cfg.PageSize
	if initial > len(c.matchSet) {
		initial = len(c.matchSet)
	}
	c.windowIdx = append([]int32(nil), c.matchSet[:initial]...)
	if c.sortKey != "" {
		sortIndices(c.windowIdx, c.records, c.sortKey, c.sortDir)
	}
	c.publish()
}

// publish materializes the loaded rows and swaps in a fresh snapshot.
func (c *Controller) publish() {
	rows := make([]domain.Record, len(c.windowIdx))
	for i, idx := range c.windowIdx {
		rows[i] = c.records[idx]
	}
	c.snap.Store(&Snapshot{
		Rows:          rows,
		TotalCount:    len(c.matchSet),
		LoadedCount:   len(rows),
		HasMore:       len(rows) < len(c.matchSet),
		IsEmpty:       len(c.matchSet) == 0,
		Query:         c.query,
		Filtering:     c.inFlight,
		SortKey:       string(c.sortKey),
		SortDirection: c.sortDir.String(),
		Generation:    c.generation,
	})
	loadedRows.Set(float64(len(rows)))
}

func tracer() trace.Tracer { return otel.Tracer("window/Controller") }

func identityIndices(n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(i)
	}
	return out
}
