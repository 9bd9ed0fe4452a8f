package engine

import (
	"time"

	"github.com/tbourn/go-roster-backend/internal/domain"
)

// FilterConfig bounds one uninterrupted slice of filter work.
//
// A slice processes at most ChunkSize records and stops early once
// FrameBudget of wall-clock time has elapsed, whichever comes first. The
// scan then yields by re-posting its continuation, so input handling posted
// to the same loop is never delayed by more than one slice.
type FilterConfig struct {
	ChunkSize   int
	FrameBudget time.Duration
}

// Normalize substitutes working defaults for zero or negative values.
func (c FilterConfig) Normalize() FilterConfig {
	if c.ChunkSize <= 0 {
		c.ChunkSize = 50_000
	}
	if c.FrameBudget <= 0 {
		c.FrameBudget = 12 * time.Millisecond
	}
	return c
}

// Predicate decides whether a record belongs to the match set.
type Predicate func(*domain.Record) bool

// FilterSliced scans records against match in bounded slices on lp,
// preserving original relative order, and finally invokes done (on the
// loop) with the indices of matching records.
//
// There is no cancellation primitive: a superseded scan runs to completion
// and wastes its work. Callers discard stale results by tagging each pass
// with a generation token and ignoring a done callback whose generation
// has been superseded (the window controller does exactly this).
func FilterSliced(lp *Loop, records []domain.Record, match Predicate, cfg FilterConfig, done func(matched []int32)) {
	cfg = cfg.Normalize()
	matched := make([]int32, 0, 1024)
	start := time.Now()

	var step func(pos int)
	step = func(pos int) {
		sliceStart := time.Now()
		limit := pos + cfg.ChunkSize
		if limit > len(records) {
			limit = len(records)
		}
		i := pos
		for i < limit {
			if match(&records[i]) {
				matched = append(matched, int32(i))
			}
			i++
			// Checking the clock every iteration would dominate the
			// scan; every 1024 records keeps overshoot negligible.
			if i&1023 == 0 && time.Since(sliceStart) >= cfg.FrameBudget {
				break
			}
		}
		filterSlices.Inc()
		if i < len(records) {
			_ = lp.Post(func() { step(i) })
			return
		}
		filterPassSeconds.Observe(time.Since(start).Seconds())
		done(matched)
	}

	_ = lp.Post(func() { step(0) })
}

// FilterSync is the single-pass reference scan: same predicate, same order,
// no slicing. The sliced scan must produce an identical result set; tests
// hold the two implementations to that equivalence. It also serves the
// stateless page endpoint, which filters per request outside the loop.
func FilterSync(records []domain.Record, match Predicate) []int32 {
	matched := make([]int32, 0, 1024)
	for i := range records {
		if match(&records[i]) {
			matched = append(matched, int32(i))
		}
	}
	return matched
}

// SubstringPredicate returns the canonical roster predicate: a substring
// test of the lower-cased, trimmed query against each record's immutable
// search index.
func SubstringPredicate(query string) Predicate {
	needle := domain.NormalizeQuery(query)
	return func(r *domain.Record) bool {
		return r.Matches(needle)
	}
}
