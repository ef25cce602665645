package view

const (
	// HeaderLines is the number of rows above the deck grid.
	HeaderLines = 2
	// FooterLines is the number of rows below the deck grid.
	FooterLines = 3

	minCardWidth  = 30
	maxColumns    = 3
	maxReaderWide = 88
)

// DeckLayout places post cards on a row-major grid below the header.
type DeckLayout struct {
	Width      int
	Height     int
	Columns    int
	CardWidth  int
	CardHeight int
	FirstRow   int
	Rows       int
	Total      int
}

func NewDeckLayout(width, height, total int, compact bool) DeckLayout {
	columns := width / minCardWidth
	if columns < 1 {
		columns = 1
	}
	if columns > maxColumns {
		columns = maxColumns
	}
	cardWidth := width / columns
	if cardWidth < 8 {
		cardWidth = 8
	}
	cardHeight := 6
	if compact {
		cardHeight = 4
	}
	rows := (height - HeaderLines - FooterLines) / cardHeight
	if rows < 1 {
		rows = 1
	}
	return DeckLayout{
		Width:      width,
		Height:     height,
		Columns:    columns,
		CardWidth:  cardWidth,
		CardHeight: cardHeight,
		Rows:       rows,
		Total:      total,
	}
}

// ScrollTo returns a copy whose visible rows include the card at index.
func (l DeckLayout) ScrollTo(index int) DeckLayout {
	if l.Columns < 1 || l.Rows < 1 {
		return l
	}
	row := index / l.Columns
	if row < l.FirstRow {
		l.FirstRow = row
	}
	if row >= l.FirstRow+l.Rows {
		l.FirstRow = row - l.Rows + 1
	}
	if l.FirstRow < 0 {
		l.FirstRow = 0
	}
	return l
}

// VisibleRange is the half-open range of card indices on screen.
func (l DeckLayout) VisibleRange() (int, int) {
	start := l.FirstRow * l.Columns
	end := start + l.Rows*l.Columns
	if end > l.Total {
		end = l.Total
	}
	if start > end {
		start = end
	}
	return start, end
}

// CardAt maps a screen cell to a card index, or -1.
func (l DeckLayout) CardAt(x, y int) int {
	if x < 0 || y < HeaderLines || l.CardWidth <= 0 || l.CardHeight <= 0 {
		return -1
	}
	col := x / l.CardWidth
	if col >= l.Columns {
		return -1
	}
	row := (y - HeaderLines) / l.CardHeight
	if row >= l.Rows {
		return -1
	}
	index := (l.FirstRow+row)*l.Columns + col
	if index >= l.Total {
		return -1
	}
	return index
}

// Region identifies what a click inside the reader overlay landed on.
type Region int

const (
	RegionBackdrop Region = iota
	RegionCard
	RegionClose
	RegionOlder
	RegionNewer
)

func (r Region) String() string {
	switch r {
	case RegionCard:
		return "card"
	case RegionClose:
		return "close"
	case RegionOlder:
		return "older"
	case RegionNewer:
		return "newer"
	default:
		return "backdrop"
	}
}

const (
	olderLabel = "← older"
	newerLabel = "newer →"
	closeLabel = "✕"
)

// ReaderLayout is the geometry of the expanded card overlay when it is not
// shifted by a drag or slide.
type ReaderLayout struct {
	Left   int
	Top    int
	Width  int
	Height int
}

func NewReaderLayout(width, height int) ReaderLayout {
	w := width - 4
	if w > maxReaderWide {
		w = maxReaderWide
	}
	if w < 20 {
		w = width
	}
	h := height - 2
	if h < 8 {
		h = height
	}
	return ReaderLayout{
		Left:   (width - w) / 2,
		Top:    (height - h) / 2,
		Width:  w,
		Height: h,
	}
}

// InnerLeft is the first content column: border plus horizontal padding.
func (l ReaderLayout) InnerLeft() int {
	return l.Left + 3
}

// InnerWidth is the usable text width inside border and padding.
func (l ReaderLayout) InnerWidth() int {
	w := l.Width - 6
	if w < 1 {
		return 1
	}
	return w
}

// InnerHeight is the number of content rows inside the border.
func (l ReaderLayout) InnerHeight() int {
	h := l.Height - 2
	if h < 1 {
		return 1
	}
	return h
}

func (l ReaderLayout) HitTest(x, y int) Region {
	if x < l.Left || x >= l.Left+l.Width || y < l.Top || y >= l.Top+l.Height {
		return RegionBackdrop
	}
	if y == l.Top+1 {
		inner := l.InnerLeft()
		olderEnd := inner + len([]rune(olderLabel))
		newerStart := olderEnd + 2
		newerEnd := newerStart + len([]rune(newerLabel))
		closeX := inner + l.InnerWidth() - 1
		switch {
		case x >= inner && x < olderEnd:
			return RegionOlder
		case x >= newerStart && x < newerEnd:
			return RegionNewer
		case x >= closeX-1 && x <= closeX:
			return RegionClose
		}
	}
	return RegionCard
}
