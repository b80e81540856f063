package backend

import "github.com/mattn/go-runewidth"

// DrawText writes s starting at (x, y), clipped to the target width, and
// returns the number of columns used. Wide runes occupy two columns.
func DrawText(t RenderTarget, x, y int, s string, style Style) int {
	w, h := t.Size()
	if y < 0 || y >= h {
		return 0
	}
	col := x
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if col+rw > w {
			break
		}
		if col >= 0 {
			t.SetContent(col, y, r, nil, style)
		}
		col += rw
	}
	return col - x
}

// DrawTextCentered writes s centered on row y.
func DrawTextCentered(t RenderTarget, y int, s string, style Style) int {
	w, _ := t.Size()
	x := (w - runewidth.StringWidth(s)) / 2
	if x < 0 {
		x = 0
	}
	return DrawText(t, x, y, s, style)
}

// Fill paints a rectangle with r.
func Fill(t RenderTarget, x, y, w, h int, r rune, style Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			t.SetContent(col, row, r, nil, style)
		}
	}
}

// DrawBox draws a single-line border around the w by h rectangle at (x, y)
// with an optional title on the top edge.
func DrawBox(t RenderTarget, x, y, w, h int, title string, style Style) {
	if w < 2 || h < 2 {
		return
	}
	right, bottom := x+w-1, y+h-1
	for col := x + 1; col < right; col++ {
		t.SetContent(col, y, '─', nil, style)
		t.SetContent(col, bottom, '─', nil, style)
	}
	for row := y + 1; row < bottom; row++ {
		t.SetContent(x, row, '│', nil, style)
		t.SetContent(right, row, '│', nil, style)
	}
	t.SetContent(x, y, '┌', nil, style)
	t.SetContent(right, y, '┐', nil, style)
	t.SetContent(x, bottom, '└', nil, style)
	t.SetContent(right, bottom, '┘', nil, style)
	if title != "" && w > 4 {
		DrawText(NewSubTarget(t, x+1, y, w-2, 1), 1, 0, title, style)
	}
}
