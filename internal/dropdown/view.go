package dropdown

// Token is one selected record shown in the button area
type Token struct {
	Key   string
	Label string
}

// Row is one materialized menu row. Index is the position in the filtered list.
type Row struct {
	Index   int
	Key     string
	Top     int
	Height  int
	Name    string
	Info    string
	Avatar  string
	Title   string
	Focused bool
}

// View is everything a surface needs to draw a dropdown
type View struct {
	Open          bool
	Loading       bool
	NotFound      bool
	SingleSelect  bool
	WithSelection bool

	Placeholder     string
	NotFoundMessage string
	Text            string

	Tokens []Token

	ContentHeight int
	ScrollTop     int
	Window        Window
	Rows          []Row
	// Focused is the filtered index carrying focus, or -1
	Focused int
}

// RowAt returns the materialized row covering content offset y
func (v View) RowAt(y int) (Row, bool) {
	for _, row := range v.Rows {
		if y >= row.Top && y < row.Top+row.Height {
			return row, true
		}
	}
	return Row{}, false
}

// Flags are the three independent state bits
type Flags struct {
	Open     bool
	Loading  bool
	NotFound bool
}

// PageState is the paging bookkeeping of the current filter pass
type PageState struct {
	Pass                  uint64
	TotalCount            int
	TotalKnown            bool
	LastFetchOffset       int
	ServerSearchPerformed bool
	Exhausted             bool
}
