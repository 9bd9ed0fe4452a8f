// Package domain defines the core data model of the roster backend: the
// immutable synthetic Record and the sort vocabulary used by the visible
// window. Records are generated once at startup and never mutated, so the
// types here carry no persistence concerns.
package domain

import (
	"errors"
	"strings"
	"time"
)

// Record is one synthetic roster entry.
//
// Fields:
//   - ID: unique, 1-based, monotonic with creation order.
//   - Name: composed "First Last" display name.
//   - Phone: country-code-prefixed numeric string.
//   - Email: lower-cased address derived from the name.
//   - Score: integer in [1,100].
//   - LastMessageAt: instant within the past 365 days of generation.
//   - AddedBy: attribution handle from a fixed roster.
//   - Avatar: identifier into a fixed small icon set.
//   - SearchIndex: lower-cased concatenation of name, email, and phone.
//     Computed exactly once at creation and immutable thereafter; all
//     substring search runs against this field, never the live fields.
type Record struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Score         int       `json:"score"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	AddedBy       string    `json:"addedBy"`
	Avatar        string    `json:"avatar"`
	SearchIndex   string    `json:"-"`
}

// BuildSearchIndex derives the immutable search index for a record from its
// name, email, and phone. Callers must invoke it exactly once per record,
// at creation time.
func BuildSearchIndex(name, email, phone string) string {
	return strings.ToLower(name) + "\n" + strings.ToLower(email) + "\n" + phone
}

// NormalizeQuery lower-cases and trims raw search text into the canonical
// needle form used against SearchIndex.
func NormalizeQuery(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Matches reports whether the record's search index contains the given
// needle. The needle must already be lower-cased and trimmed; an empty
// needle matches every record.
func (r *Record) Matches(needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(r.SearchIndex, needle)
}

// SortKey identifies a sortable record field.
type SortKey string

// Recognized sort keys.
const (
	SortByID            SortKey = "id"
	SortByName          SortKey = "name"
	SortByEmail         SortKey = "email"
	SortByScore         SortKey = "score"
	SortByLastMessageAt SortKey = "lastMessageAt"
	SortByAddedBy       SortKey = "addedBy"
)

// ErrUnknownSortKey indicates a sort key outside the recognized set. An
// unrecognized key is a configuration error and is rejected at the edge
// rather than silently no-op sorting.
var ErrUnknownSortKey = errors.New("unknown sort key")

// ParseSortKey validates a raw field identifier against the recognized
// sort keys.
func ParseSortKey(raw string) (SortKey, error) {
	switch k := SortKey(strings.TrimSpace(raw)); k {
	case SortByID, SortByName, SortByEmail, SortByScore, SortByLastMessageAt, SortByAddedBy:
		return k, nil
	default:
		return "", ErrUnknownSortKey
	}
}

// Direction is a sort direction.
type Direction int

const (
	// Ascending orders smallest first.
	Ascending Direction = 1
	// Descending orders largest first.
	Descending Direction = -1
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

// String returns "asc" or "desc".
func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ParseDirection maps "asc"/"desc" (case-insensitive) to a Direction,
// defaulting to Ascending for anything else.
func ParseDirection(raw string) Direction {
	if strings.EqualFold(strings.TrimSpace(raw), "desc") {
		return Descending
	}
	return Ascending
}
