package internal

// Caret geometry and overlay placement. The pill is anchored to the text
// caret when its position can be measured, and to the input element's box
// when it cannot.

// CursorPosition is the screen position of the text caret, in viewport
// coordinates. Ephemeral; recomputed on every relevant event.
type CursorPosition struct {
	X           float64
	Y           float64
	CaretHeight float64
}

const (
	defaultCaretHeight = 20.0

	// Overlay footprint and placement offsets.
	pillSize       = 32.0
	caretGap       = 10.0
	caretRaise     = 40.0
	viewportMargin = 10.0

	// Element-box fallback offsets.
	fallbackInsetX = 45.0
	fallbackHalf   = 16.0
)

// ResolveCaret computes the caret position inside an input element. Rich
// editors are measured through their active selection; value controls have
// no native caret-rectangle API, so a measurement surface mirroring the
// control's metrics is built, the pre-caret substring written into it and a
// marker measured. Returns false when no caret geometry is available.
func ResolveCaret(doc Document, el Element, adapter Adapter) (CursorPosition, bool) {
	switch v := el.(type) {
	case RichEditor:
		return resolveEditorCaret(v)
	case ValueControl:
		return resolveControlCaret(doc, v, adapter)
	}
	return CursorPosition{}, false
}

func resolveEditorCaret(ed RichEditor) (CursorPosition, bool) {
	sel, ok := ed.Selection()
	if !ok {
		return CursorPosition{}, false
	}

	r := sel.BoundingRect()
	if r.W == 0 && r.H == 0 {
		// Collapsed caret: the range rect is the caret itself.
		return CursorPosition{X: r.X, Y: r.Y, CaretHeight: caretHeightOr(r.H)}, true
	}

	// Text selection: measure the range collapsed to its end.
	end := sel.EndRect()
	return CursorPosition{X: end.X, Y: end.Y, CaretHeight: caretHeightOr(end.H)}, true
}

func resolveControlCaret(doc Document, ctrl ValueControl, adapter Adapter) (CursorPosition, bool) {
	surface := doc.NewSurface(ctrl, adapter.Measure)
	if surface == nil {
		return CursorPosition{}, false
	}
	defer surface.Remove()

	runes := []rune(ctrl.Value())
	start := ctrl.SelectionStart()
	if start < 0 {
		start = 0
	}
	if start > len(runes) {
		start = len(runes)
	}

	m := surface.Measure(string(runes[:start]))
	rect := ctrl.Rect()
	return CursorPosition{
		X:           rect.X + m.DX,
		Y:           rect.Y + m.DY,
		CaretHeight: caretHeightOr(m.Height),
	}, true
}

func caretHeightOr(h float64) float64 {
	if h <= 0 {
		return defaultCaretHeight
	}
	return h
}

// PlaceOverlay positions the pill relative to a caret: offset right and
// above by default, flipped left of the caret when the right viewport edge
// would overflow, flipped below the caret when the top edge would. The final
// footprint is clamped to a 10px margin inside every viewport edge.
func PlaceOverlay(pos CursorPosition, vp Viewport) (x, y float64) {
	x = pos.X + caretGap
	y = pos.Y - caretRaise

	if x+pillSize > vp.W-viewportMargin {
		x = pos.X - pillSize - caretGap
	}
	if y < viewportMargin {
		y = pos.Y + caretHeightOr(pos.CaretHeight) + viewportMargin
	}

	return clampToViewport(x, y, vp)
}

// PlaceFallback positions the pill relative to an input element's bounding
// box when caret geometry is unavailable: right-aligned, vertically
// centered, clamped to the viewport.
func PlaceFallback(r Rect, vp Viewport) (x, y float64) {
	x = r.Right() - fallbackInsetX
	y = r.Y + r.H/2 - fallbackHalf
	return clampToViewport(x, y, vp)
}

func clampToViewport(x, y float64, vp Viewport) (float64, float64) {
	maxX := vp.W - pillSize - viewportMargin
	maxY := vp.H - pillSize - viewportMargin

	if x > maxX {
		x = maxX
	}
	if x < viewportMargin {
		x = viewportMargin
	}
	if y > maxY {
		y = maxY
	}
	if y < viewportMargin {
		y = viewportMargin
	}
	return x, y
}
