package dropdown

// Window is the buffered index range of materialized rows.
// An empty list yields First 0, Last -1.
type Window struct {
	First int
	Last  int
	// VisibleFirst and VisibleLast bound the strictly visible rows
	VisibleFirst int
	VisibleLast  int
}

// Len returns the number of materialized rows
func (w Window) Len() int {
	if w.Last < w.First {
		return 0
	}
	return w.Last - w.First + 1
}

// Contains reports whether row i is materialized
func (w Window) Contains(i int) bool {
	return i >= w.First && i <= w.Last
}

// ComputeWindow returns the rows to materialize for a scroll position.
// The range grows by buffer rows on each side, and by a further 2*buffer when the
// visible rows touch either end of the list.
func ComputeWindow(length, itemHeight, scrollTop, viewportHeight, buffer int) Window {
	if length <= 0 {
		return Window{First: 0, Last: -1, VisibleFirst: 0, VisibleLast: -1}
	}
	if itemHeight <= 0 {
		itemHeight = 1
	}
	scrollTop = max(scrollTop, 0)
	viewportHeight = max(viewportHeight, 0)
	buffer = max(buffer, 0)

	first := ceilDiv(scrollTop, itemHeight)
	last := roundDiv(scrollTop+viewportHeight, itemHeight)

	extra := buffer
	if first == 0 || last == length-1 {
		extra += 2 * buffer
	}

	w := Window{
		Last:         min(length-1, last+extra),
		VisibleFirst: first,
		VisibleLast:  min(length-1, last),
	}
	w.First = min(max(0, first-extra), w.Last)
	return w
}

// ShouldRerender reports whether a scroll from lastScrollTop to scrollTop has moved
// far enough to need a new window
func ShouldRerender(lastScrollTop, scrollTop, itemHeight, buffer int) bool {
	delta := scrollTop - lastScrollTop
	if delta < 0 {
		delta = -delta
	}
	return delta > itemHeight*max(0, buffer-1)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// roundDiv rounds half up, like Math.round on non-negative values
func roundDiv(a, b int) int {
	return (2*a + b) / (2 * b)
}
