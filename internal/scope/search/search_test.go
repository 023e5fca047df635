package search

import (
	"context"
	"testing"

	"github.com/dsjohal14/peoplepicker/internal/scope/record"
)

func ids(records []record.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sampleRecords() []record.Record {
	return []record.Record{
		{ID: "1", Name: "Petrov", Surname: "Ivan", Domain: "ipetrov"},
		{ID: "2", Name: "Петров", Surname: "Сергей", Domain: "spetrov"},
		{ID: "3", Name: "Anna", Surname: "Smith", Domain: "hr-office"},
		{ID: "4", Name: "Петрова", Surname: "Ольга"},
		{ID: "5", Name: "Zhanna", Surname: "Kim", Domain: "zkim"},
	}
}

func TestMatchEmptyQueryIsIdentity(t *testing.T) {
	records := sampleRecords()

	for _, q := range []string{"", " ", "\t  \n"} {
		got := Match(q, records, NameSurname)
		if !equalIDs(ids(got), ids(records)) {
			t.Errorf("Match(%q) reordered records: %v", q, ids(got))
		}
	}
}

func TestParseQuery(t *testing.T) {
	q := ParseQuery("Gtnhjd Bdfy")

	if q.Direct != "gtnhjdbdfy" {
		t.Errorf("expected direct gtnhjdbdfy, got %q", q.Direct)
	}
	if q.Swapped != "петровиван" {
		t.Errorf("expected swapped петровиван, got %q", q.Swapped)
	}
	if q.SwappedLatin != "petrovivan" {
		t.Errorf("expected swapped latin petrovivan, got %q", q.SwappedLatin)
	}
	if q.Empty() {
		t.Error("query should not be empty")
	}
	if !ParseQuery("   ").Empty() {
		t.Error("whitespace query should be empty")
	}
}

// Scenario A: a Cyrillic query finds Latin data through transliteration, behind direct hits.
func TestTransliteratedRanksBehindDirect(t *testing.T) {
	hits := Rank("петров", sampleRecords(), NameSurname)

	expected := []struct {
		id   string
		tier Tier
	}{
		{"2", TierDirect},
		{"4", TierDirect},
		{"1", TierTransliterated},
	}

	if len(hits) != len(expected) {
		t.Fatalf("expected %d hits, got %d: %+v", len(expected), len(hits), hits)
	}
	for i, e := range expected {
		if hits[i].Record.ID != e.id || hits[i].Tier != e.tier {
			t.Errorf("hit %d: expected %s/%s, got %s/%s", i, e.id, e.tier, hits[i].Record.ID, hits[i].Tier)
		}
	}
}

// Scenario B: input typed on QWERTY while meaning ЙЦУКЕН.
func TestLayoutSwappedMatch(t *testing.T) {
	records := []record.Record{
		{ID: "a", Name: "Петров", Surname: "Иван"},
		{ID: "b", Name: "Сидоров", Surname: "Пётр"},
	}

	hits := Rank("gtnhjd", records, NameSurname)
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].Record.ID != "a" || hits[0].Tier != TierLayoutSwapped {
		t.Errorf("expected a via layout-swapped, got %s via %s", hits[0].Record.ID, hits[0].Tier)
	}
}

func TestLayoutSwappedTransliteratedMatch(t *testing.T) {
	records := []record.Record{{ID: "c", Name: "Петров", Surname: "Олег"}}

	// "petrov" typed with the Russian layout active
	hits := Rank("зуекщм", records, NameSurname)
	if len(hits) != 1 || hits[0].Tier != TierLayoutSwappedTransliterated {
		t.Fatalf("expected one layout-swapped-transliterated hit, got %+v", hits)
	}
}

func TestTierOrderBeatsInputOrder(t *testing.T) {
	records := []record.Record{
		{ID: "t3", Name: "zuekshm"},
		{ID: "t2", Name: "Петров"},
		{ID: "t1", Name: "зуекщм"},
		{ID: "t0", Name: "xxpetrovxx"},
		{ID: "t0b", Name: "Petrov"},
	}

	got := ids(Match("petrov", records, NameSurname))
	expected := []string{"t0", "t0b", "t1", "t2", "t3"}
	if !equalIDs(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestEveryHitHasExactlyOneTierInOrder(t *testing.T) {
	queries := []string{"pet", "петр", "gtn", "ivan", "Smith", "zh", "ж"}
	for _, q := range queries {
		hits := Rank(q, sampleRecords(), NameSurnameDomain)
		seen := make(map[string]bool)
		last := TierDirect
		for _, h := range hits {
			if seen[h.Record.ID] {
				t.Errorf("query %q: record %s appears twice", q, h.Record.ID)
			}
			seen[h.Record.ID] = true
			if h.Tier < last {
				t.Errorf("query %q: tier %s after %s", q, h.Tier, last)
			}
			last = h.Tier
		}
	}
}

func TestTransliterationSkippedWhenNoOp(t *testing.T) {
	// "123" transliterates to itself; tier 3 must not re-test the same string.
	q := ParseQuery("123")
	if q.Latin != q.Direct || q.Cyrillic != q.Direct {
		t.Fatalf("expected no-op transliteration, got %+v", q)
	}
	if tier, ok := q.Classify("abc123"); !ok || tier != TierDirect {
		t.Errorf("expected direct match, got %s %v", tier, ok)
	}
	if _, ok := q.Classify("abc"); ok {
		t.Error("expected no match")
	}
}

func TestDomainOnlyMatchesWithDomainFields(t *testing.T) {
	records := sampleRecords()

	if got := Match("office", records, NameSurname); len(got) != 0 {
		t.Errorf("name/surname search should ignore domain, got %v", ids(got))
	}
	if got := Match("office", records, NameSurnameDomain); len(got) != 1 || got[0].ID != "3" {
		t.Errorf("expected domain hit on 3, got %v", ids(got))
	}
}

func TestMultiWordQuery(t *testing.T) {
	got := Match("Anna Smith", sampleRecords(), NameSurname)
	if len(got) != 1 || got[0].ID != "3" {
		t.Errorf("expected record 3, got %v", ids(got))
	}
}

func TestTierString(t *testing.T) {
	tests := []struct {
		tier     Tier
		expected string
	}{
		{TierDirect, "direct"},
		{TierLayoutSwapped, "layout-swapped"},
		{TierTransliterated, "transliterated"},
		{TierLayoutSwappedTransliterated, "layout-swapped-transliterated"},
		{Tier(9), "unknown"},
	}
	for _, tt := range tests {
		if tt.tier.String() != tt.expected {
			t.Errorf("expected %s, got %s", tt.expected, tt.tier.String())
		}
	}
}

type sliceCorpus []record.Record

func (s sliceCorpus) All() []record.Record { return s }

func TestEngineSearch(t *testing.T) {
	engine := NewEngine(sliceCorpus(sampleRecords()), nil)

	tests := []struct {
		name       string
		query      string
		offset     int
		count      int
		totalCount int
		expected   []string
	}{
		{"all records", "", 0, 10, 5, []string{"1", "2", "3", "4", "5"}},
		{"first page", "", 0, 2, 5, []string{"1", "2"}},
		{"second page", "", 2, 2, 5, []string{"3", "4"}},
		{"ranked query", "петров", 0, 10, 3, []string{"2", "4", "1"}},
		{"slice of ranked query", "петров", 1, 1, 3, []string{"4"}},
		{"domain match", "zkim", 0, 10, 1, []string{"5"}},
		{"offset past end", "", 50, 10, 5, []string{}},
		{"no match", "qqqqq", 0, 10, 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := engine.Search(tt.query, tt.offset, tt.count)
			if page.TotalCount != tt.totalCount {
				t.Errorf("expected total %d, got %d", tt.totalCount, page.TotalCount)
			}
			if page.Offset != tt.offset || page.Count != tt.count {
				t.Errorf("page echoes wrong offset/count: %d/%d", page.Offset, page.Count)
			}
			if page.Data == nil {
				t.Error("data should never be nil")
			}
			if !equalIDs(ids(page.Data), tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, ids(page.Data))
			}
			if page.SearchExecutionTime == "" {
				t.Error("expected execution time")
			}
		})
	}
}

func TestEngineFetchPageHonorsContext(t *testing.T) {
	engine := NewEngine(sliceCorpus(sampleRecords()), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := engine.FetchPage(ctx, record.PageRequest{Count: 10}); err == nil {
		t.Error("expected error for cancelled context")
	}

	tests := []struct {
		search string
		want   []string
	}{
		{"smith", []string{"3"}},
		// "Zhanna" contains "anna" as well
		{"anna", []string{"3", "5"}},
	}
	for _, tt := range tests {
		page, err := engine.FetchPage(context.Background(), record.PageRequest{Search: tt.search, Count: 10})
		if err != nil {
			t.Fatalf("FetchPage(%q) failed: %v", tt.search, err)
		}
		if page.TotalCount != len(tt.want) || !equalIDs(ids(page.Data), tt.want) {
			t.Errorf("FetchPage(%q) = %v (total %d), want %v", tt.search, ids(page.Data), page.TotalCount, tt.want)
		}
	}
}
