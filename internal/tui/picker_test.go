package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/dsjohal14/peoplepicker/internal/dropdown"
	"github.com/dsjohal14/peoplepicker/internal/scope/record"
)

func staff() []record.Record {
	return []record.Record{
		{ID: "a", Name: "Анна", Surname: "Смирнова", Info: "hr"},
		{ID: "b", Name: "Борис", Surname: "Козлов", Info: "dev", Domain: "bkozlov"},
		{ID: "c", Name: "Вера", Surname: "Лебедева", Info: "qa"},
	}
}

func newTestPicker(t *testing.T) *Picker {
	t.Helper()
	return newPickerWith(t, nil)
}

func newPickerWith(t *testing.T, mutate func(*dropdown.Config)) *Picker {
	t.Helper()
	cfg := dropdown.DefaultConfig()
	cfg.Items = staff()
	if mutate != nil {
		mutate(&cfg)
	}
	p, err := NewPicker(nil, cfg)
	if err != nil {
		t.Fatalf("NewPicker: %v", err)
	}
	// Border takes one cell on each side: 38x10 inner, 9 menu lines
	p.SetRect(0, 0, 40, 12)
	p.Dropdown().Resize()
	return p
}

func typeText(p *Picker, s string) {
	for _, r := range s {
		p.handleKey(tcell.KeyRune, r)
	}
}

func ids(recs []record.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func TestPickerViewportHeight(t *testing.T) {
	p := newTestPicker(t)
	if got := p.ViewportHeight(); got != 9 {
		t.Errorf("ViewportHeight() = %d, want 9", got)
	}

	p.SetRect(0, 0, 10, 2)
	if got := p.ViewportHeight(); got != 0 {
		t.Errorf("ViewportHeight() on a tiny rect = %d, want 0", got)
	}
}

func TestPickerTypingOpensAndFilters(t *testing.T) {
	p := newTestPicker(t)
	if p.view.Open {
		t.Fatal("picker starts open")
	}

	typeText(p, "коз")

	if !p.view.Open {
		t.Fatal("typing should open the menu")
	}
	if p.view.Text != "коз" {
		t.Errorf("Text = %q, want %q", p.view.Text, "коз")
	}
	got := ids(p.Dropdown().Filtered())
	if len(got) != 1 || got[0] != "b" {
		t.Errorf("Filtered() = %v, want [b]", got)
	}
	if len(p.view.Rows) != 1 || p.view.Rows[0].Height != LinesPerRow {
		t.Errorf("Rows = %+v, want one row of height %d", p.view.Rows, LinesPerRow)
	}
}

type searchLog struct {
	mu       sync.Mutex
	searches []string
}

func (l *searchLog) FetchPage(_ context.Context, req record.PageRequest) (record.Page, error) {
	l.mu.Lock()
	l.searches = append(l.searches, req.Search)
	l.mu.Unlock()
	return record.Page{Offset: req.Offset, Count: req.Count, Data: []record.Record{}}, nil
}

func (l *searchLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.searches...)
}

func TestPickerTypingWhileClosedFetchesOnce(t *testing.T) {
	loop := dropdown.NewLoop()
	source := &searchLog{}
	p := newPickerWith(t, func(c *dropdown.Config) {
		c.Source = source
		c.Dispatcher = loop
	})

	wait := func() {
		t.Helper()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := loop.Next(ctx); err != nil {
			t.Fatalf("waiting for fetch: %v", err)
		}
	}

	typeText(p, "к")
	wait()
	p.handleKey(tcell.KeyEscape, 0)
	if p.view.Open {
		t.Fatal("escape should close the menu")
	}

	// Reopening by typing searches the new text only
	typeText(p, "о")
	wait()
	loop.RunPending()

	got := source.all()
	want := []string{"к", "ко"}
	if len(got) != len(want) {
		t.Fatalf("searches = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("search %d = %q, want %q", i, got[i], want[i])
		}
	}
	if !p.view.Open || p.view.Text != "ко" {
		t.Errorf("view open=%v text=%q, want open with %q", p.view.Open, p.view.Text, "ко")
	}
}

func TestPickerBackspace(t *testing.T) {
	p := newTestPicker(t)
	typeText(p, "коз")

	p.handleKey(tcell.KeyBackspace2, 0)
	if got := p.Dropdown().Text(); got != "ко" {
		t.Errorf("Text() after backspace = %q, want %q", got, "ко")
	}

	p.handleKey(tcell.KeyCtrlU, 0)
	if got := p.Dropdown().Text(); got != "" {
		t.Errorf("Text() after ctrl-u = %q, want empty", got)
	}
	if got := len(p.Dropdown().Filtered()); got != 3 {
		t.Errorf("len(Filtered()) = %d, want 3", got)
	}
}

func TestPickerEnterCommitsAndBackspaceRemovesToken(t *testing.T) {
	p := newTestPicker(t)
	typeText(p, "коз")
	p.handleKey(tcell.KeyEnter, 0)

	if p.view.Open {
		t.Error("commit should close the menu")
	}
	if got := ids(p.Dropdown().Value()); len(got) != 1 || got[0] != "b" {
		t.Fatalf("Value() = %v, want [b]", got)
	}
	if len(p.view.Tokens) != 1 || p.view.Tokens[0].Label != "Борис Козлов" {
		t.Errorf("Tokens = %+v", p.view.Tokens)
	}

	// Non-empty text is edited first
	p.handleKey(tcell.KeyBackspace, 0)
	if got := len(p.Dropdown().Value()); got != 1 {
		t.Fatalf("backspace with text removed a token, Value() has %d records", got)
	}

	p.handleKey(tcell.KeyCtrlU, 0)
	p.handleKey(tcell.KeyBackspace, 0)
	if got := len(p.Dropdown().Value()); got != 0 {
		t.Errorf("backspace on empty text should remove the last token, Value() has %d records", got)
	}
}

func TestPickerNavigationKeys(t *testing.T) {
	p := newTestPicker(t)

	p.handleKey(tcell.KeyDown, 0)
	if !p.view.Open {
		t.Fatal("down should open a closed menu")
	}
	if p.view.Focused != 0 {
		t.Errorf("Focused after open = %d, want 0", p.view.Focused)
	}

	p.handleKey(tcell.KeyDown, 0)
	p.handleKey(tcell.KeyDown, 0)
	if p.view.Focused != 2 {
		t.Errorf("Focused after two downs = %d, want 2", p.view.Focused)
	}
	p.handleKey(tcell.KeyDown, 0)
	if p.view.Focused != 2 {
		t.Errorf("Focused past the end = %d, want 2", p.view.Focused)
	}

	p.handleKey(tcell.KeyHome, 0)
	if p.view.Focused != 0 {
		t.Errorf("Focused after home = %d, want 0", p.view.Focused)
	}
	p.handleKey(tcell.KeyEnd, 0)
	if p.view.Focused != 2 {
		t.Errorf("Focused after end = %d, want 2", p.view.Focused)
	}
	p.handleKey(tcell.KeyUp, 0)
	if p.view.Focused != 1 {
		t.Errorf("Focused after up = %d, want 1", p.view.Focused)
	}

	p.handleKey(tcell.KeyEscape, 0)
	if p.view.Open {
		t.Error("escape should close the menu")
	}
}

func TestPickerMouse(t *testing.T) {
	p := newTestPicker(t)

	if !p.handleMouse(tview.MouseLeftClick, 5, 0, nil) {
		t.Fatal("header click not consumed")
	}
	if !p.view.Open {
		t.Fatal("header click should open the menu")
	}

	// Line 4 is the second line of the second row
	p.handleMouse(tview.MouseMove, 0, 4, nil)
	if p.view.Focused != 1 {
		t.Errorf("Focused after hover = %d, want 1", p.view.Focused)
	}

	p.handleMouse(tview.MouseLeftClick, 0, 3, nil)
	if got := ids(p.Dropdown().Value()); len(got) != 1 || got[0] != "b" {
		t.Fatalf("Value() after row click = %v, want [b]", got)
	}
	if p.view.Open {
		t.Error("row click should close the menu")
	}

	// Draw records the token spans, headerLine computes the same ones
	_, spans := headerLine(p.view)
	p.spans = spans
	if !p.handleMouse(tview.MouseLeftClick, spans[0].from, 0, nil) {
		t.Fatal("token click not consumed")
	}
	if got := len(p.Dropdown().Value()); got != 0 {
		t.Errorf("clicking the remove mark left %d selected", got)
	}
	if p.view.Open {
		t.Error("clicking the remove mark should not open the menu")
	}

	if p.handleMouse(tview.MouseRightClick, 0, 0, nil) {
		t.Error("right click should not be consumed")
	}
}

func TestHeaderLine(t *testing.T) {
	tokens := []dropdown.Token{{Key: "a", Label: "Анна"}, {Key: "b", Label: "Борис"}}

	tests := []struct {
		name string
		view dropdown.View
		want string
	}{
		{
			name: "placeholder",
			view: dropdown.View{Placeholder: "type"},
			want: "type",
		},
		{
			name: "text",
			view: dropdown.View{Placeholder: "type", Text: "ан"},
			want: "ан",
		},
		{
			name: "tokens and placeholder",
			view: dropdown.View{Placeholder: "type", Tokens: tokens},
			want: "[Анна ×] [Борис ×] type",
		},
		{
			name: "single select hides the placeholder",
			view: dropdown.View{Placeholder: "type", Tokens: tokens[:1], SingleSelect: true},
			want: "[Анна ×] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, spans := headerLine(tt.view)
			if got != tt.want {
				t.Errorf("headerLine() = %q, want %q", got, tt.want)
			}
			if len(spans) != len(tt.view.Tokens) {
				t.Errorf("got %d spans, want %d", len(spans), len(tt.view.Tokens))
			}
		})
	}
}

func TestHeaderLineSpansCoverRemoveMark(t *testing.T) {
	tokens := []dropdown.Token{{Key: "a", Label: "Анна"}, {Key: "b", Label: "Борис"}}
	line, spans := headerLine(dropdown.View{Tokens: tokens})

	cells := []rune(line)
	mark := []rune(removeMark)[0]
	for i, span := range spans {
		if span.key != tokens[i].Key {
			t.Errorf("span %d key = %q, want %q", i, span.key, tokens[i].Key)
		}
		found := false
		for col := span.from; col < span.to; col++ {
			if col < len(cells) && cells[col] == mark {
				found = true
			}
		}
		if !found {
			t.Errorf("span %d [%d,%d) does not cover the remove mark in %q", i, span.from, span.to, line)
		}
	}
}

func TestRowLines(t *testing.T) {
	row := dropdown.Row{Name: "Борис Козлов", Info: "dev", Title: "bkozlov", Avatar: "https://x/placeholder"}

	got := rowLines(row, true)
	want := []string{"@ Борис Козлов", "  dev · bkozlov"}
	if len(got) != len(want) {
		t.Fatalf("rowLines() = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}

	if got := rowLines(row, false)[0]; got != "Борис Козлов" {
		t.Errorf("name without avatar = %q", got)
	}
	if got := rowLines(dropdown.Row{Name: "x", Title: "[local]"}, false)[1]; got != "  [local]" {
		t.Errorf("info without text = %q", got)
	}
}
