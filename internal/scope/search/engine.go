package search

import (
	"context"
	"fmt"
	"time"

	"github.com/dsjohal14/peoplepicker/internal/libs/paging"
	"github.com/dsjohal14/peoplepicker/internal/scope/record"
)

// Corpus provides a consistent snapshot of all records in store order
type Corpus interface {
	All() []record.Record
}

// Engine serves ranked pages over a record corpus
type Engine struct {
	corpus Corpus
	fields Fields
}

// NewEngine creates an engine matching on the given fields.
// A nil fields function defaults to NameSurnameDomain.
func NewEngine(corpus Corpus, fields Fields) *Engine {
	if fields == nil {
		fields = NameSurnameDomain
	}
	return &Engine{
		corpus: corpus,
		fields: fields,
	}
}

// Search ranks the whole corpus and returns the [offset, offset+count) slice
func (e *Engine) Search(query string, offset, count int) record.Page {
	start := time.Now()

	matched := Match(query, e.corpus.All(), e.fields)
	lo, hi := paging.Bounds(len(matched), offset, count)

	data := make([]record.Record, hi-lo)
	copy(data, matched[lo:hi])

	return record.Page{
		TotalCount:          len(matched),
		Offset:              offset,
		Count:               count,
		SearchExecutionTime: formatElapsed(time.Since(start)),
		Data:                data,
	}
}

// FetchPage implements record.DataSource for in-process use
func (e *Engine) FetchPage(ctx context.Context, req record.PageRequest) (record.Page, error) {
	if err := ctx.Err(); err != nil {
		return record.Page{}, err
	}
	return e.Search(req.Search, req.Offset, req.Count), nil
}

func formatElapsed(d time.Duration) string {
	return fmt.Sprintf("%gms", float64(d.Nanoseconds())/1e6)
}
