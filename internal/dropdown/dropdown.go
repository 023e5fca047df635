// Package dropdown implements the selection and filter state machine of a people picker
// together with its windowed list renderer.
//
// A Dropdown is owned by one goroutine. Every exported method must run there, and
// page fetches report back through the configured Dispatcher.
package dropdown

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dsjohal14/peoplepicker/internal/libs/jobs"
	"github.com/dsjohal14/peoplepicker/internal/libs/obs"
	"github.com/dsjohal14/peoplepicker/internal/scope/record"
	"github.com/dsjohal14/peoplepicker/internal/scope/search"
)

const (
	localTitle   = "[local]"
	noAvatar     = "placeholder"
	fetchHistory = 64
)

// Dropdown is a searchable, virtualized record picker
type Dropdown struct {
	cfg    Config
	logger zerolog.Logger

	items    []record.Record
	filtered []record.Record

	selKeys []string
	selByID map[string]record.Record

	text     string
	open     bool
	loading  bool
	notFound bool

	page    PageState
	fetches *jobs.Queue

	scrollTop           int
	lastRenderScrollTop int
	window              Window
	rows                []Row
	focused             int
}

// New creates a dropdown and renders it once
func New(cfg Config) (*Dropdown, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger := obs.Logger("dropdown")
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	if cfg.ShowAvatar && cfg.PictureURL == "" {
		logger.Warn().Msg("avatars enabled without a picture url")
	}

	d := &Dropdown{
		cfg:      cfg,
		logger:   logger,
		items:    make([]record.Record, 0),
		filtered: make([]record.Record, 0),
		selByID:  make(map[string]record.Record),
		fetches:  jobs.NewQueue(),
		window:   Window{First: 0, Last: -1, VisibleLast: -1},
		focused:  -1,
	}

	if cfg.Items != nil {
		d.Update(cfg.Items)
	} else {
		d.paint()
	}
	return d, nil
}

// Update replaces the backing items and re-renders
func (d *Dropdown) Update(items []record.Record) {
	d.items = append(make([]record.Record, 0, len(items)), items...)
	d.runFilter()
	d.Render()
}

// Render recomputes the window and paints
func (d *Dropdown) Render() {
	d.renderMenu()
	d.paint()
}

// Open shows the menu, filters the staged text and focuses the first row
func (d *Dropdown) Open() {
	if d.open {
		return
	}
	d.open = true
	d.restart()
	d.paint()
}

// Close hides the menu
func (d *Dropdown) Close() {
	if !d.open {
		return
	}
	d.open = false
	d.paint()
}

// Toggle opens a closed menu and closes an open one
func (d *Dropdown) Toggle() {
	if d.open {
		d.Close()
		return
	}
	d.Open()
}

// SetText changes the filter text. While open it starts a new filter pass.
func (d *Dropdown) SetText(text string) {
	d.text = text
	if d.open {
		d.restart()
	}
	d.paint()
}

// Text returns the current filter text
func (d *Dropdown) Text() string {
	return d.text
}

// Scroll moves the menu to scrollTop, clamped to the content
func (d *Dropdown) Scroll(scrollTop int) {
	d.scrollTop = d.clampScroll(scrollTop)
	if ShouldRerender(d.lastRenderScrollTop, d.scrollTop, d.cfg.ItemHeight, d.cfg.ItemsBuffer) {
		d.renderMenu()
	}
	d.paint()
}

// ScrollBy moves the menu by delta
func (d *Dropdown) ScrollBy(delta int) {
	d.Scroll(d.scrollTop + delta)
}

// Resize re-renders after the surface viewport changed
func (d *Dropdown) Resize() {
	d.scrollTop = d.clampScroll(d.scrollTop)
	d.Render()
}

// MoveFocus moves focus by delta rows, clamped to the list without wrapping
func (d *Dropdown) MoveFocus(delta int) {
	if d.focused < 0 {
		d.SetFocusedIndex(0)
		return
	}
	d.SetFocusedIndex(d.focused + delta)
}

// SetFocusedIndex focuses row i, clamped to the filtered list, scrolling it into view
func (d *Dropdown) SetFocusedIndex(i int) {
	i = d.clampFocus(i)
	if i == d.focused {
		return
	}
	d.focusIndex(i)
	d.paint()
}

// FocusRow focuses a row taken from the last painted view.
// A row that no longer describes the current list is logged and ignored.
func (d *Dropdown) FocusRow(row Row) {
	d.focusRow(row)
}

func (d *Dropdown) focusRow(row Row) bool {
	if !d.window.Contains(row.Index) || row.Index >= len(d.filtered) ||
		d.cfg.KeyFunc(d.filtered[row.Index]) != row.Key {
		d.logger.Error().
			Int("index", row.Index).
			Str("key", row.Key).
			Msg("focus requested for a row that is not rendered")
		return false
	}
	if row.Index != d.focused {
		d.focused = row.Index
		d.paint()
	}
	return true
}

// Commit selects the focused record and closes the menu.
// In single-select mode the previous selection is dropped first.
func (d *Dropdown) Commit() {
	if d.focused < 0 || d.focused >= len(d.filtered) {
		d.logger.Debug().Msg("commit without a focused row")
		return
	}
	if !d.cfg.Multiselect {
		d.selKeys = d.selKeys[:0]
		clear(d.selByID)
	}

	rec := d.filtered[d.focused]
	key := d.cfg.KeyFunc(rec)
	d.selKeys = append(d.selKeys, key)
	d.selByID[key] = rec

	d.filtered = append(d.filtered[:d.focused], d.filtered[d.focused+1:]...)
	// Appended pages are not deduplicated, so other copies may remain
	d.filtered = d.withoutSelected(d.filtered)

	d.open = false
	d.focused = d.clampFocus(d.focused)
	d.layout()
	d.paint()

	if d.cfg.OnSelect != nil {
		d.cfg.OnSelect(rec)
	}
}

// CommitRow focuses and commits a row taken from the last painted view
func (d *Dropdown) CommitRow(row Row) {
	if d.focusRow(row) {
		d.Commit()
	}
}

// RemoveToken drops a selected record. While open, the record becomes a candidate again.
func (d *Dropdown) RemoveToken(key string) bool {
	if _, ok := d.selByID[key]; !ok {
		return false
	}
	delete(d.selByID, key)
	for i, k := range d.selKeys {
		if k == key {
			d.selKeys = append(d.selKeys[:i], d.selKeys[i+1:]...)
			break
		}
	}

	if d.open {
		d.runFilter()
		d.renderMenu()
	}
	d.paint()
	return true
}

// Value returns the selected records in selection order
func (d *Dropdown) Value() []record.Record {
	out := make([]record.Record, 0, len(d.selKeys))
	for _, key := range d.selKeys {
		out = append(out, d.selByID[key])
	}
	return out
}

// IsSelected reports whether key is selected
func (d *Dropdown) IsSelected(key string) bool {
	_, ok := d.selByID[key]
	return ok
}

// Filtered returns a copy of the candidate list
func (d *Dropdown) Filtered() []record.Record {
	return append([]record.Record(nil), d.filtered...)
}

// Items returns a copy of the backing list
func (d *Dropdown) Items() []record.Record {
	return append([]record.Record(nil), d.items...)
}

// Flags returns the open, loading and not-found bits
func (d *Dropdown) Flags() Flags {
	return Flags{Open: d.open, Loading: d.loading, NotFound: d.notFound}
}

// Page returns the paging state of the current filter pass
func (d *Dropdown) Page() PageState {
	return d.page
}

// Focused returns the focused filtered index, or -1
func (d *Dropdown) Focused() int {
	return d.focused
}

// Fetches returns the fetch ledger in issue order
func (d *Dropdown) Fetches() []jobs.Job {
	return d.fetches.All()
}

// View builds the current view model
func (d *Dropdown) View() View {
	tokens := make([]Token, 0, len(d.selKeys))
	for _, key := range d.selKeys {
		tokens = append(tokens, Token{Key: key, Label: d.cfg.DisplayFunc(d.selByID[key])})
	}

	rows := make([]Row, len(d.rows))
	copy(rows, d.rows)
	for i := range rows {
		rows[i].Focused = rows[i].Index == d.focused
	}

	return View{
		Open:            d.open,
		Loading:         d.loading,
		NotFound:        d.notFound,
		SingleSelect:    !d.cfg.Multiselect,
		WithSelection:   len(d.selKeys) > 0,
		Placeholder:     d.cfg.Placeholder,
		NotFoundMessage: d.cfg.NotFoundMessage,
		Text:            d.text,
		Tokens:          tokens,
		ContentHeight:   len(d.filtered) * d.cfg.ItemHeight,
		ScrollTop:       d.scrollTop,
		Window:          d.window,
		Rows:            rows,
		Focused:         d.focused,
	}
}

func (d *Dropdown) paint() {
	d.cfg.Surface.Paint(d.View())
}

// restart runs a filter pass from the top of the list
func (d *Dropdown) restart() {
	d.runFilter()
	d.scrollTop = 0
	d.renderMenu()
	d.focused = -1
	d.focusIndex(d.clampFocus(0))
}

func (d *Dropdown) runFilter() {
	d.page = PageState{Pass: d.page.Pass + 1}
	d.notFound = false

	matched := d.items
	if d.text != "" {
		matched = search.Match(d.text, d.items, d.cfg.Fields)
	}
	d.filtered = d.withoutSelected(matched)
	d.loading = d.fetches.Pending(d.page.Pass)

	if d.text == "" {
		return
	}
	if d.cfg.Source == nil {
		d.notFound = len(d.filtered) == 0
		return
	}
	if !d.open {
		return
	}

	threshold := float64(d.viewportHeight())/float64(d.cfg.ItemHeight) + float64(d.cfg.ItemsBuffer)
	if float64(len(d.filtered)) < threshold {
		d.fetch(jobs.KindFirstPage, 0, d.cfg.PageSize, d.applyFirstPage)
	}
}

// renderMenu lays out the window and asks for more data once the last row is materialized
func (d *Dropdown) renderMenu() {
	d.layout()
	if d.window.Last == len(d.filtered)-1 {
		d.tryInfiniteScroll()
	}
}

// layout recomputes the window and materializes its rows
func (d *Dropdown) layout() {
	d.scrollTop = d.clampScroll(d.scrollTop)
	d.lastRenderScrollTop = d.scrollTop
	d.window = ComputeWindow(len(d.filtered), d.cfg.ItemHeight, d.scrollTop, d.viewportHeight(), d.cfg.ItemsBuffer)

	d.rows = d.rows[:0]
	for i := d.window.First; i <= d.window.Last; i++ {
		d.rows = append(d.rows, d.row(i))
	}
	if d.focused >= len(d.filtered) {
		d.focused = len(d.filtered) - 1
	}
}

func (d *Dropdown) row(i int) Row {
	rec := d.filtered[i]
	row := Row{
		Index:  i,
		Key:    d.cfg.KeyFunc(rec),
		Top:    i * d.cfg.ItemHeight,
		Height: d.cfg.ItemHeight,
		Name:   d.cfg.DisplayFunc(rec),
		Info:   rec.Info,
		Title:  rec.Domain,
	}
	if row.Title == "" {
		row.Title = localTitle
	}
	if d.cfg.ShowAvatar {
		avatar := rec.Avatar
		if avatar == "" {
			avatar = noAvatar
		}
		row.Avatar = d.cfg.PictureURL + avatar
	}
	return row
}

func (d *Dropdown) tryInfiniteScroll() {
	if d.cfg.Source == nil || !d.open || d.loading {
		return
	}
	if !d.page.ServerSearchPerformed {
		d.fetch(jobs.KindCatchUp, 0, len(d.filtered), d.applyCatchUp)
		return
	}
	if d.page.Exhausted {
		return
	}
	if !d.page.TotalKnown || d.page.TotalCount > len(d.filtered) {
		d.fetch(jobs.KindNextPage, len(d.filtered), d.cfg.PageSize, d.applyNextPage)
	}
}

// fetch issues a page request in the background. The continuation runs on the
// dispatch goroutine and is dropped when the filter pass has moved on.
func (d *Dropdown) fetch(kind jobs.Kind, offset, count int, apply func(record.Page)) {
	job := d.fetches.Enqueue(d.page.Pass, kind, d.text, offset, count)
	d.page.LastFetchOffset = offset
	d.loading = true

	req := record.PageRequest{Search: d.text, Offset: offset, Count: count}
	source, dispatcher, timeout := d.cfg.Source, d.cfg.Dispatcher, d.cfg.FetchTimeout

	d.logger.Debug().
		Str("kind", string(kind)).
		Str("search", req.Search).
		Int("offset", offset).
		Int("count", count).
		Msg("fetching page")

	go func() {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		page, err := source.FetchPage(ctx, req)
		dispatcher.Dispatch(func() {
			d.complete(job, page, err, apply)
		})
	}()
}

func (d *Dropdown) complete(job *jobs.Job, page record.Page, err error, apply func(record.Page)) {
	defer d.fetches.Trim(fetchHistory)

	if job.Pass != d.page.Pass {
		d.fetches.Finish(job, jobs.StatusStale, err)
		d.loading = d.fetches.Pending(d.page.Pass)
		d.logger.Debug().Str("job", job.ID).Msg("discarding stale page")
		d.paint()
		return
	}

	if err != nil {
		d.fetches.Finish(job, jobs.StatusFailed, err)
		d.loading = d.fetches.Pending(d.page.Pass)
		d.logger.Error().
			Err(err).
			Str("job", job.ID).
			Str("search", job.Search).
			Int("offset", job.Offset).
			Msg("page fetch failed")
		d.paint()
		return
	}

	d.fetches.Finish(job, jobs.StatusDone, nil)
	d.loading = d.fetches.Pending(d.page.Pass)
	apply(page)
	d.paint()
}

func (d *Dropdown) applyFirstPage(page record.Page) {
	d.page.ServerSearchPerformed = true
	d.page.TotalCount = page.TotalCount
	d.page.TotalKnown = true

	d.items = Merge(d.items, page.Data, d.cfg.KeyFunc)
	d.filtered = Merge(d.filtered, d.withoutSelected(page.Data), d.cfg.KeyFunc)
	d.notFound = len(d.filtered) == 0

	d.renderMenu()
	d.focused = -1
	d.focusIndex(d.clampFocus(0))
}

func (d *Dropdown) applyCatchUp(page record.Page) {
	d.page.ServerSearchPerformed = true

	d.items = Merge(d.items, page.Data, d.cfg.KeyFunc)
	d.filtered = Merge(d.filtered, d.withoutSelected(page.Data), d.cfg.KeyFunc)
	d.notFound = d.text != "" && len(d.filtered) == 0

	d.renderMenu()
}

func (d *Dropdown) applyNextPage(page record.Page) {
	fresh := d.withoutSelected(page.Data)
	d.filtered = append(d.filtered, fresh...)
	d.page.TotalCount = page.TotalCount
	d.page.TotalKnown = true
	// A page that adds nothing would request the same offset forever
	d.page.Exhausted = len(fresh) == 0
	d.notFound = d.text != "" && len(d.filtered) == 0

	d.renderMenu()
}

// focusIndex moves focus to i, scrolling it into view and re-rendering when the
// target row is not materialized
func (d *Dropdown) focusIndex(i int) {
	d.focused = i
	if i < 0 {
		return
	}
	d.scrollToFocused()
	if ShouldRerender(d.lastRenderScrollTop, d.scrollTop, d.cfg.ItemHeight, d.cfg.ItemsBuffer) ||
		!d.window.Contains(i) {
		d.renderMenu()
	}
}

func (d *Dropdown) scrollToFocused() {
	ih := d.cfg.ItemHeight
	vh := d.viewportHeight()
	first := roundDiv(d.scrollTop, ih)
	last := ceilDiv(d.scrollTop+vh, ih)

	if d.focused <= first {
		d.scrollTop = d.focused * ih
	}
	if d.focused >= last {
		d.scrollTop = (d.focused+1)*ih - vh
	}
	d.scrollTop = d.clampScroll(d.scrollTop)
}

func (d *Dropdown) clampFocus(i int) int {
	if len(d.filtered) == 0 {
		return -1
	}
	return min(max(i, 0), len(d.filtered)-1)
}

func (d *Dropdown) clampScroll(scrollTop int) int {
	limit := max(0, len(d.filtered)*d.cfg.ItemHeight-d.viewportHeight())
	return min(max(scrollTop, 0), limit)
}

func (d *Dropdown) viewportHeight() int {
	return max(0, d.cfg.Surface.ViewportHeight())
}

func (d *Dropdown) withoutSelected(recs []record.Record) []record.Record {
	out := make([]record.Record, 0, len(recs))
	for _, rec := range recs {
		if _, ok := d.selByID[d.cfg.KeyFunc(rec)]; !ok {
			out = append(out, rec)
		}
	}
	return out
}
