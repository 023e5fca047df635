// Package tui hosts a dropdown inside a tview application.
package tui

import (
	"strings"

	"github.com/dsjohal14/peoplepicker/internal/dropdown"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/tview"
)

// LinesPerRow is the item height used by the terminal picker: a name line and an info line.
const LinesPerRow = 2

const removeMark = "×"

// tokenSpan is the column range of a token's remove mark on the header line.
type tokenSpan struct {
	from, to int
	key      string
}

// Picker is a tview primitive that draws a dropdown and feeds it keys and mouse events.
type Picker struct {
	*tview.Box

	dd   *dropdown.Dropdown
	view dropdown.View

	spans        []tokenSpan
	lastViewport int

	textStyle  tcell.Style
	dimStyle   tcell.Style
	focusStyle tcell.Style
	tokenStyle tcell.Style
	showAvatar bool
}

// NewPicker builds the dropdown with the picker as its surface. When app is set and
// cfg carries no dispatcher, fetch results are queued onto the application's event loop.
func NewPicker(app *tview.Application, cfg dropdown.Config) (*Picker, error) {
	box := tview.NewBox()
	box.SetBorder(true)

	p := &Picker{
		Box:          box,
		lastViewport: -1,
		textStyle:    tcell.StyleDefault,
		dimStyle:     tcell.StyleDefault.Foreground(tcell.ColorGray),
		focusStyle:   tcell.StyleDefault.Reverse(true),
		tokenStyle:   tcell.StyleDefault.Foreground(tcell.ColorAqua),
		showAvatar:   cfg.ShowAvatar,
	}

	cfg.Surface = p
	cfg.ItemHeight = LinesPerRow
	if cfg.Dispatcher == nil && app != nil {
		cfg.Dispatcher = dropdown.DispatchFunc(func(fn func()) {
			app.QueueUpdateDraw(fn)
		})
	}

	dd, err := dropdown.New(cfg)
	if err != nil {
		return nil, err
	}
	p.dd = dd
	return p, nil
}

// Dropdown exposes the driven state machine.
func (p *Picker) Dropdown() *dropdown.Dropdown { return p.dd }

// ViewportHeight is the number of menu lines below the header.
func (p *Picker) ViewportHeight() int {
	_, _, _, height := p.GetInnerRect()
	return max(0, height-1)
}

// Paint stores the latest view; the next Draw shows it.
func (p *Picker) Paint(v dropdown.View) {
	p.view = v
}

// Draw renders the header line and, while open, the visible rows.
func (p *Picker) Draw(screen tcell.Screen) {
	p.DrawForSubclass(screen, p)

	x, y, width, height := p.GetInnerRect()
	if width <= 0 || height <= 0 {
		return
	}

	if vh := p.ViewportHeight(); vh != p.lastViewport {
		p.lastViewport = vh
		if p.dd != nil {
			p.dd.Resize()
		}
	}

	v := p.view
	p.drawHeader(screen, x, y, width, v)
	if !v.Open {
		return
	}

	menuTop := y + 1
	menuHeight := height - 1
	if v.NotFound && len(v.Rows) == 0 {
		drawText(screen, x, menuTop, width, v.NotFoundMessage, p.dimStyle)
		return
	}

	for _, row := range v.Rows {
		lines := rowLines(row, p.showAvatar)
		for i, line := range lines {
			cy := row.Top + i - v.ScrollTop
			if cy < 0 || cy >= menuHeight {
				continue
			}
			style := p.textStyle
			if i > 0 {
				style = p.dimStyle
			}
			if row.Focused {
				style = p.focusStyle
				fill(screen, x, menuTop+cy, width, style)
			}
			drawText(screen, x, menuTop+cy, width, line, style)
		}
	}

	if v.Loading && menuHeight > 0 {
		drawText(screen, x, menuTop+menuHeight-1, width, "загрузка…", p.dimStyle)
	}
}

func (p *Picker) drawHeader(screen tcell.Screen, x, y, width int, v dropdown.View) {
	line, spans := headerLine(v)
	p.spans = spans

	col := 0
	for _, tok := range v.Tokens {
		seg := tokenLabel(tok)
		col += drawText(screen, x+col, y, width-col, seg, p.tokenStyle)
		col += drawText(screen, x+col, y, width-col, " ", p.textStyle)
	}

	rest := strings.TrimPrefix(line, tokensPrefix(v))
	style := p.textStyle
	if v.Text == "" {
		style = p.dimStyle
	}
	col += drawText(screen, x+col, y, width-col, rest, style)

	if p.HasFocus() && col < width {
		caret := col
		if v.Text == "" {
			caret = runewidth.StringWidth(tokensPrefix(v))
		}
		if caret < width {
			screen.SetContent(x+caret, y, ' ', nil, p.focusStyle)
		}
	}
}

// InputHandler maps keys onto dropdown operations.
func (p *Picker) InputHandler() func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
	return p.WrapInputHandler(func(event *tcell.EventKey, setFocus func(tview.Primitive)) {
		p.handleKey(event.Key(), event.Rune())
	})
}

func (p *Picker) handleKey(key tcell.Key, ch rune) {
	dd := p.dd
	switch key {
	case tcell.KeyRune:
		// Text set while closed is filtered once, by Open
		dd.SetText(dd.Text() + string(ch))
		if !dd.Flags().Open {
			dd.Open()
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		text := dd.Text()
		if text == "" {
			if tokens := p.view.Tokens; len(tokens) > 0 {
				dd.RemoveToken(tokens[len(tokens)-1].Key)
			}
			return
		}
		r := []rune(text)
		dd.SetText(string(r[:len(r)-1]))
	case tcell.KeyCtrlU:
		dd.SetText("")
	case tcell.KeyUp:
		dd.MoveFocus(-1)
	case tcell.KeyDown:
		if !dd.Flags().Open {
			dd.Open()
			return
		}
		dd.MoveFocus(1)
	case tcell.KeyPgUp:
		dd.MoveFocus(-p.pageRows())
	case tcell.KeyPgDn:
		dd.MoveFocus(p.pageRows())
	case tcell.KeyHome:
		dd.SetFocusedIndex(0)
	case tcell.KeyEnd:
		dd.SetFocusedIndex(len(dd.Filtered()) - 1)
	case tcell.KeyEnter:
		if !dd.Flags().Open {
			dd.Open()
			return
		}
		dd.Commit()
	case tcell.KeyEscape:
		dd.Close()
	}
}

func (p *Picker) pageRows() int {
	return max(1, p.ViewportHeight()/LinesPerRow)
}

// MouseHandler handles wheel scrolling, row clicks, hover focus and token removal.
func (p *Picker) MouseHandler() func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (consumed bool, capture tview.Primitive) {
	return p.WrapMouseHandler(func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(tview.Primitive)) (bool, tview.Primitive) {
		mx, my := event.Position()
		if !p.InRect(mx, my) {
			return false, nil
		}
		x, y, _, _ := p.GetInnerRect()
		return p.handleMouse(action, mx-x, my-y, setFocus), nil
	})
}

// handleMouse takes coordinates relative to the inner rect.
func (p *Picker) handleMouse(action tview.MouseAction, col, line int, setFocus func(tview.Primitive)) bool {
	dd := p.dd
	switch action {
	case tview.MouseScrollUp:
		dd.ScrollBy(-LinesPerRow)
		return true
	case tview.MouseScrollDown:
		dd.ScrollBy(LinesPerRow)
		return true
	case tview.MouseMove:
		if line < 1 {
			return false
		}
		if row, ok := p.view.RowAt(p.view.ScrollTop + line - 1); ok && !row.Focused {
			dd.FocusRow(row)
			return true
		}
		return false
	case tview.MouseLeftClick:
		if setFocus != nil {
			setFocus(p)
		}
		if line == 0 {
			for _, span := range p.spans {
				if col >= span.from && col < span.to {
					dd.RemoveToken(span.key)
					return true
				}
			}
			dd.Toggle()
			return true
		}
		if row, ok := p.view.RowAt(p.view.ScrollTop + line - 1); ok {
			dd.CommitRow(row)
		}
		return true
	}
	return false
}

// headerLine is the plain text of the header and the columns of each remove mark.
func headerLine(v dropdown.View) (string, []tokenSpan) {
	var b strings.Builder
	spans := make([]tokenSpan, 0, len(v.Tokens))
	col := 0
	for _, tok := range v.Tokens {
		seg := tokenLabel(tok)
		w := runewidth.StringWidth(seg)
		mark := runewidth.StringWidth(removeMark)
		spans = append(spans, tokenSpan{from: col + w - mark - 1, to: col + w, key: tok.Key})
		b.WriteString(seg)
		b.WriteByte(' ')
		col += w + 1
	}
	if v.Text != "" {
		b.WriteString(v.Text)
	} else if len(v.Tokens) == 0 || !v.SingleSelect {
		b.WriteString(v.Placeholder)
	}
	return b.String(), spans
}

func tokensPrefix(v dropdown.View) string {
	var b strings.Builder
	for _, tok := range v.Tokens {
		b.WriteString(tokenLabel(tok))
		b.WriteByte(' ')
	}
	return b.String()
}

func tokenLabel(tok dropdown.Token) string {
	return "[" + tok.Label + " " + removeMark + "]"
}

// rowLines is the text of each line of a row.
func rowLines(row dropdown.Row, withAvatar bool) []string {
	name := row.Name
	if withAvatar && row.Avatar != "" {
		name = "@ " + name
	}
	info := row.Info
	if row.Title != "" {
		if info != "" {
			info += " · "
		}
		info += row.Title
	}
	return []string{name, "  " + info}
}

// drawText prints s truncated to width and returns the columns used.
func drawText(screen tcell.Screen, x, y, width int, s string, style tcell.Style) int {
	if width <= 0 {
		return 0
	}
	s = runewidth.Truncate(s, width, "…")
	col := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		screen.SetContent(x+col, y, r, nil, style)
		col += w
	}
	return col
}

func fill(screen tcell.Screen, x, y, width int, style tcell.Style) {
	for i := 0; i < width; i++ {
		screen.SetContent(x+i, y, ' ', nil, style)
	}
}
