// Package search ranks user records against a free-text query using four fallback match
// strategies: direct, keyboard-layout swapped, transliterated, and swapped plus
// transliterated.
package search

import (
	"strings"
	"unicode"

	"github.com/dsjohal14/peoplepicker/internal/scope/keymap"
	"github.com/dsjohal14/peoplepicker/internal/scope/record"
	"github.com/dsjohal14/peoplepicker/internal/scope/translit"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Tier is the strategy a record matched with. Lower tiers rank first.
type Tier int

// Match tiers in rank order
const (
	TierDirect Tier = iota
	TierLayoutSwapped
	TierTransliterated
	TierLayoutSwappedTransliterated
)

// NumTiers is the number of match tiers
const NumTiers = 4

func (t Tier) String() string {
	switch t {
	case TierDirect:
		return "direct"
	case TierLayoutSwapped:
		return "layout-swapped"
	case TierTransliterated:
		return "transliterated"
	case TierLayoutSwappedTransliterated:
		return "layout-swapped-transliterated"
	default:
		return "unknown"
	}
}

// Fields builds the searchable text of a record
type Fields func(record.Record) string

// NameSurname is the searchable text used by the dropdown's local pass
func NameSurname(r record.Record) string {
	return r.Name + r.Surname
}

// NameSurnameDomain is the searchable text used by the search service
func NameSurnameDomain(r record.Record) string {
	return r.Name + r.Surname + r.Domain
}

// Query holds the derived forms of a user query, all lower-cased
type Query struct {
	Raw             string
	Direct          string
	Swapped         string
	Latin           string
	Cyrillic        string
	SwappedLatin    string
	SwappedCyrillic string
}

// ParseQuery derives the six comparison strings from raw user input.
// Whitespace is stripped first so multi-word input matches the concatenated fields.
func ParseQuery(raw string) Query {
	q := Query{Raw: raw}
	compact := stripSpace(norm.NFC.String(raw))
	if compact == "" {
		return q
	}

	swapped := lower(keymap.Swap(compact))
	q.Direct = lower(compact)
	q.Swapped = swapped
	q.Latin = lower(translit.ToLatin(compact))
	q.Cyrillic = lower(translit.ToCyrillic(compact))
	q.SwappedLatin = lower(translit.ToLatin(swapped))
	q.SwappedCyrillic = lower(translit.ToCyrillic(swapped))
	return q
}

// Empty reports whether the query filters nothing
func (q Query) Empty() bool {
	return q.Direct == ""
}

// Classify returns the first tier whose derived query is contained in text.
// text must already be lower-cased.
func (q Query) Classify(text string) (Tier, bool) {
	switch {
	case strings.Contains(text, q.Direct):
		return TierDirect, true
	case strings.Contains(text, q.Swapped):
		return TierLayoutSwapped, true
	case (q.Latin != q.Direct && strings.Contains(text, q.Latin)) ||
		(q.Cyrillic != q.Direct && strings.Contains(text, q.Cyrillic)):
		return TierTransliterated, true
	case strings.Contains(text, q.SwappedLatin) || strings.Contains(text, q.SwappedCyrillic):
		return TierLayoutSwappedTransliterated, true
	}
	return 0, false
}

// Hit is a matched record with the tier it matched on
type Hit struct {
	Record record.Record
	Tier   Tier
}

// Rank classifies every record and returns hits grouped by tier.
// Within a tier records keep their input order; unmatched records are dropped.
func Rank(query string, records []record.Record, fields Fields) []Hit {
	q := ParseQuery(query)
	if q.Empty() {
		hits := make([]Hit, len(records))
		for i, r := range records {
			hits[i] = Hit{Record: r, Tier: TierDirect}
		}
		return hits
	}

	var buckets [NumTiers][]Hit
	for _, r := range records {
		tier, ok := q.Classify(lower(fields(r)))
		if !ok {
			continue
		}
		buckets[tier] = append(buckets[tier], Hit{Record: r, Tier: tier})
	}

	hits := make([]Hit, 0, len(buckets[0])+len(buckets[1])+len(buckets[2])+len(buckets[3]))
	for _, b := range buckets {
		hits = append(hits, b...)
	}
	return hits
}

// Match returns the records matching query in rank order.
// An empty or whitespace-only query returns records unchanged.
func Match(query string, records []record.Record, fields Fields) []record.Record {
	if strings.TrimSpace(query) == "" {
		return records
	}

	hits := Rank(query, records, fields)
	result := make([]record.Record, len(hits))
	for i, h := range hits {
		result[i] = h.Record
	}
	return result
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// lower builds a fresh Caser per call; a Caser must not be shared across goroutines.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
