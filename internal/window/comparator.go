// Package window implements the visible-window controller: the state
// machine that owns the current query, sort configuration, and loaded-row
// count, and coalesces query changes, sort toggles, and reveal events into
// a single consistent snapshot for the presentation layer.
package window

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tbourn/go-roster-backend/internal/domain"
)

// compare orders a before b for the given key and direction, returning a
// negative, zero, or positive value. Textual fields compare
// case-insensitively; score and id numerically; lastMessageAt by instant,
// never by its serialized string form (string order and chronological
// order disagree across format boundaries).
//
// Keys are validated at the edge via domain.ParseSortKey; an unknown key
// reaching this point is a programming error and panics.
func compare(a, b *domain.Record, key domain.SortKey, dir domain.Direction) int {
	var c int
	switch key {
	case domain.SortByID:
		c = intCompare(a.ID, b.ID)
	case domain.SortByName:
		c = foldCompare(a.Name, b.Name)
	case domain.SortByEmail:
		c = foldCompare(a.Email, b.Email)
	case domain.SortByAddedBy:
		c = foldCompare(a.AddedBy, b.AddedBy)
	case domain.SortByScore:
		c = intCompare(a.Score, b.Score)
	case domain.SortByLastMessageAt:
		c = a.LastMessageAt.Compare(b.LastMessageAt)
	default:
		panic(fmt.Sprintf("window: unknown sort key %q", key))
	}
	return c * int(dir)
}

func intCompare(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// foldCompare is a case-insensitive lexicographic comparison.
func foldCompare(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// sortIndices stably orders record indices by the configured key. The
// stable algorithm is load-bearing: records with equal keys must preserve
// their pre-sort relative order.
func sortIndices(indices []int32, records []domain.Record, key domain.SortKey, dir domain.Direction) {
	sort.SliceStable(indices, func(i, j int) bool {
		return compare(&records[indices[i]], &records[indices[j]], key, dir) < 0
	})
}
