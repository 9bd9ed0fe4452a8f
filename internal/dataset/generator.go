// Package dataset produces and holds the synthetic roster the rest of the
// application windows over. Generation is a pure function of (count, seed):
// the same inputs always yield the same record sequence, which makes tests
// reproducible down to individual field values.
//
// The full set is generated once, in chunks, and is immutable afterwards.
// All consumers share the same read-only slice.
package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-roster-backend/internal/domain"
)

// generateChunk is the number of records produced between progress log
// lines. It matters only for logging cadence, not for determinism.
const generateChunk = 50_000

// Rosters the generator draws from. The draw ORDER per record is part of
// the generator contract (first name, last name, score, ten phone digits,
// email domain, recency offset, attribution, avatar); tests may assert
// exact output for a given seed, so reordering draws is a breaking change.
var (
	firstNames = []string{
		"alex", "sam", "taylor", "jordan", "chris", "pat", "morgan", "jamie", "casey", "riley",
		"avery", "quinn", "drew", "hayden", "cameron", "devin", "skyler", "parker", "rowan", "kendall",
	}
	lastNames = []string{
		"patel", "sharma", "dubey", "singh", "kumar", "gupta", "malhotra", "mehta", "joshi", "desai",
		"johnson", "smith", "brown", "miller", "davis", "garcia", "rodriguez", "wilson", "martinez", "anderson",
	}
	emailDomains = []string{"example.com", "mail.com", "demo.net", "sample.org"}
	attributions = []string{"admin", "importer", "john.doe", "jane.smith", "system"}
)

// avatarSetSize bounds the fixed icon set referenced by Record.Avatar.
const avatarSetSize = 70

// xorshift32 is the 32-bit xorshift PRNG used for all draws. It is tiny,
// fast, and fully determined by its seed.
type xorshift32 struct{ state uint32 }

func newXorshift32(seed uint32) *xorshift32 {
	if seed == 0 {
		// A zero state is a fixed point of xorshift; substitute a
		// non-zero constant so seed=0 still yields a usable stream.
		seed = 0x9E3779B9
	}
	return &xorshift32{state: seed}
}

func (x *xorshift32) next() uint32 {
	s := x.state
	s ^= s << 13
	s ^= s >> 17
	s ^= s << 5
	x.state = s
	return s
}

// intn returns a draw in [0, n).
func (x *xorshift32) intn(n int) int {
	return int(x.next() % uint32(n))
}

// Generate produces count records from the given seed. It is a pure
// function of (count, seed, now): no global state is read or mutated.
// The now instant anchors LastMessageAt offsets so the "past 365 days"
// window is relative to a caller-chosen reference.
func Generate(count int, seed uint32, now time.Time) []domain.Record {
	rng := newXorshift32(seed)
	titler := cases.Title(language.English)
	records := make([]domain.Record, count)
	for i := range records {
		records[i] = generateOne(i+1, rng, titler, now)
	}
	return records
}

// generateOne draws one record. Draw order is fixed; see the roster
// comment above.
func generateOne(id int, rng *xorshift32, titler cases.Caser, now time.Time) domain.Record {
	first := firstNames[rng.intn(len(firstNames))]
	last := lastNames[rng.intn(len(lastNames))]
	score := 1 + rng.intn(100)

	var phone strings.Builder
	phone.WriteString("+1")
	for d := 0; d < 10; d++ {
		phone.WriteByte(byte('0' + rng.intn(10)))
	}

	domainIdx := rng.intn(len(emailDomains))
	offsetSec := rng.intn(365 * 24 * 3600)
	addedBy := attributions[rng.intn(len(attributions))]
	avatar := fmt.Sprintf("avatar-%02d", rng.intn(avatarSetSize)+1)

	name := titler.String(first + " " + last)
	email := emailLocalPart(name) + "." + strconv.Itoa(id) + "@" + emailDomains[domainIdx]

	rec := domain.Record{
		ID:            id,
		Name:          name,
		Phone:         phone.String(),
		Email:         email,
		Score:         score,
		LastMessageAt: now.Add(-time.Duration(offsetSec) * time.Second).UTC(),
		AddedBy:       addedBy,
		Avatar:        avatar,
	}
	rec.SearchIndex = domain.BuildSearchIndex(rec.Name, rec.Email, rec.Phone)
	return rec
}

// emailLocalPart keeps the first 12 alphanumeric runes of the lower-cased
// name, falling back to "user" when nothing survives.
func emailLocalPart(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() >= 12 {
				break
			}
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}

// Dataset is the process-scoped, read-only handle to the generated roster.
// It is constructed once at startup and passed by reference into every
// consumer; there is no package-level singleton.
//
// Records() must not be called before Ready() reports true; Populate flips
// the flag only after the full set exists.
type Dataset struct {
	total   int
	seed    uint32
	records []domain.Record
	ready   atomic.Bool
}

// New returns an empty dataset handle targeting total records from seed.
func New(total int, seed uint32) *Dataset {
	return &Dataset{total: total, seed: seed}
}

// Populate generates the full record set and marks the dataset ready.
// It is intended to run once, typically on a startup goroutine so the
// HTTP listener can come up and report "generating" in the meantime.
func (d *Dataset) Populate(now time.Time) {
	start := time.Now()
	lg := log.With().Str("component", "dataset").Logger()
	lg.Info().Int("total", d.total).Uint32("seed", d.seed).Msg("generating roster")

	rng := newXorshift32(d.seed)
	titler := cases.Title(language.English)
	records := make([]domain.Record, d.total)
	for base := 0; base < d.total; base += generateChunk {
		end := base + generateChunk
		if end > d.total {
			end = d.total
		}
		for i := base; i < end; i++ {
			records[i] = generateOne(i+1, rng, titler, now)
		}
		if (base/generateChunk)%4 == 0 {
			lg.Debug().Int("generated", end).Int("total", d.total).Msg("generation progress")
		}
	}

	d.records = records
	d.ready.Store(true)
	elapsed := time.Since(start)
	generationSeconds.Set(elapsed.Seconds())
	lg.Info().Dur("elapsed", elapsed).Int("total", d.total).Msg("roster ready")
}

// Ready reports whether Populate has completed.
func (d *Dataset) Ready() bool { return d.ready.Load() }

// Total returns the target dataset size, valid even while generating.
func (d *Dataset) Total() int { return d.total }

// Records returns the shared read-only record slice. Callers must treat
// the slice and its elements as immutable.
func (d *Dataset) Records() []domain.Record { return d.records }
