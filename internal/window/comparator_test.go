package window

import (
	"testing"
	"time"

	"github.com/tbourn/go-roster-backend/internal/domain"
)

func TestCompareTextualCaseInsensitive(t *testing.T) {
	a := &domain.Record{Name: "alex Patel"}
	b := &domain.Record{Name: "Alex patel"}
	if c := compare(a, b, domain.SortByName, domain.Ascending); c != 0 {
		t.Fatalf("case-insensitive compare = %d, want 0", c)
	}

	a = &domain.Record{Name: "Avery"}
	b = &domain.Record{Name: "brown"}
	if c := compare(a, b, domain.SortByName, domain.Ascending); c >= 0 {
		t.Fatalf("'Avery' should sort before 'brown' ascending, got %d", c)
	}
	if c := compare(a, b, domain.SortByName, domain.Descending); c <= 0 {
		t.Fatalf("descending must invert the comparison, got %d", c)
	}
}

func TestCompareScoreNumeric(t *testing.T) {
	a := &domain.Record{Score: 9}
	b := &domain.Record{Score: 80}
	if c := compare(a, b, domain.SortByScore, domain.Ascending); c >= 0 {
		t.Fatalf("9 must order before 80 numerically, got %d", c)
	}
}

func TestCompareLastMessageAtChronological(t *testing.T) {
	// Two instants whose serialized forms order OPPOSITE to their
	// chronological order: "2024-02-01T00:00:00+09:00" is the string
	// 2024-01-31T15:00:00Z in time, which precedes 2024-01-31T20:00:00Z,
	// yet its RFC3339 text sorts after it (month boundary in the text).
	plus9 := time.FixedZone("plus9", 9*3600)
	earlier := time.Date(2024, 2, 1, 0, 0, 0, 0, plus9)    // 2024-01-31T15:00Z
	later := time.Date(2024, 1, 31, 20, 0, 0, 0, time.UTC) // 2024-01-31T20:00Z

	if !(earlier.Format(time.RFC3339) > later.Format(time.RFC3339)) {
		t.Fatalf("test premise broken: string order must disagree with time order")
	}
	if !earlier.Before(later) {
		t.Fatalf("test premise broken: %v must precede %v", earlier, later)
	}

	a := &domain.Record{LastMessageAt: earlier}
	b := &domain.Record{LastMessageAt: later}
	if c := compare(a, b, domain.SortByLastMessageAt, domain.Ascending); c >= 0 {
		t.Fatalf("chronological order must win over string order, got %d", c)
	}
	if c := compare(a, b, domain.SortByLastMessageAt, domain.Descending); c <= 0 {
		t.Fatalf("descending must invert the chronological comparison, got %d", c)
	}
}

func TestCompareUnknownKeyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("unknown sort key must panic")
		}
	}()
	a := &domain.Record{}
	compare(a, a, domain.SortKey("phone_suffix"), domain.Ascending)
}

func TestSortIndicesStable(t *testing.T) {
	records := []domain.Record{
		{ID: 1, Score: 50},
		{ID: 2, Score: 10},
		{ID: 3, Score: 50},
		{ID: 4, Score: 10},
		{ID: 5, Score: 50},
	}
	indices := []int32{0, 1, 2, 3, 4}
	sortIndices(indices, records, domain.SortByScore, domain.Ascending)

	gotIDs := make([]int, len(indices))
	for i, idx := range indices {
		gotIDs[i] = records[idx].ID
	}
	// Equal scores keep their input order: 2 before 4, then 1, 3, 5.
	want := []int{2, 4, 1, 3, 5}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("stable sort violated: got %v, want %v", gotIDs, want)
		}
	}
}
