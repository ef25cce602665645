package state

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

// PageStep is how many body lines a page scroll moves in the reader.
func PageStep(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	headerLines := 8
	if hasStatus {
		headerLines += 2
	}
	step := height - headerLines
	if step < 3 {
		step = 3
	}
	return step
}

func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}

// GridMove moves cursor across a row-major grid with the given column
// count. Moves that would leave the grid keep the cursor in place, except
// moving down onto a short last row which lands on its final cell.
func GridMove(cursor, size, columns, dRow, dCol int) int {
	if size <= 0 {
		return 0
	}
	if columns < 1 {
		columns = 1
	}
	cursor = ClampCursor(cursor, size)
	row, col := cursor/columns, cursor%columns
	col += dCol
	if col < 0 || col >= columns {
		return cursor
	}
	row += dRow
	if row < 0 {
		return cursor
	}
	next := row*columns + col
	if next >= size {
		lastRow := (size - 1) / columns
		if row > lastRow || dRow == 0 {
			return cursor
		}
		return size - 1
	}
	return next
}

// ClampScroll keeps a scroll offset within [0, total-visible].
func ClampScroll(offset, total, visible int) int {
	maxOffset := total - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		return maxOffset
	}
	if offset < 0 {
		return 0
	}
	return offset
}
