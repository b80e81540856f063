package event

// Rect is a screen region in cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

type area[C comparable] struct {
	id   C
	rect Rect
}

// Context is the ambient routing state: focus, pointer, modifiers,
// component areas and the modal stack.
//
// Areas are ordered by registration; the most recently set area is the
// topmost. While a modal is open, only the modal's area can be hit.
type Context[C comparable] struct {
	focused    C
	hasFocus   bool
	pointerX   int
	pointerY   int
	hasPointer bool
	modifiers  Modifiers
	areas      []area[C]

	modals     []C
	focusStack []focusSave[C]
}

type focusSave[C comparable] struct {
	id  C
	set bool
}

// NewContext creates an empty context.
func NewContext[C comparable]() *Context[C] {
	return &Context[C]{}
}

// Focused returns the focused component.
func (c *Context[C]) Focused() (C, bool) {
	return c.focused, c.hasFocus
}

// IsFocused reports whether id has focus.
func (c *Context[C]) IsFocused(id C) bool {
	return c.hasFocus && c.focused == id
}

// SetFocus focuses id.
func (c *Context[C]) SetFocus(id C) {
	c.focused = id
	c.hasFocus = true
}

// ClearFocus removes focus.
func (c *Context[C]) ClearFocus() {
	var zero C
	c.focused = zero
	c.hasFocus = false
}

// Pointer returns the last known pointer position.
func (c *Context[C]) Pointer() (x, y int, ok bool) {
	return c.pointerX, c.pointerY, c.hasPointer
}

// Modifiers returns the modifiers held at the last key or mouse event.
func (c *Context[C]) Modifiers() Modifiers {
	return c.modifiers
}

// SetArea records id's screen area and moves it to the top.
func (c *Context[C]) SetArea(id C, r Rect) {
	c.RemoveArea(id)
	c.areas = append(c.areas, area[C]{id: id, rect: r})
}

// Area returns id's recorded area.
func (c *Context[C]) Area(id C) (Rect, bool) {
	for _, a := range c.areas {
		if a.id == id {
			return a.rect, true
		}
	}
	return Rect{}, false
}

// RemoveArea forgets id's area.
func (c *Context[C]) RemoveArea(id C) {
	for i, a := range c.areas {
		if a.id == id {
			c.areas = append(c.areas[:i], c.areas[i+1:]...)
			return
		}
	}
}

// ClearAreas forgets every area, typically before a frame re-registers them.
func (c *Context[C]) ClearAreas() {
	c.areas = c.areas[:0]
}

// PointIn reports whether (x, y) is inside id's area.
func (c *Context[C]) PointIn(id C, x, y int) bool {
	r, ok := c.Area(id)
	return ok && r.Contains(x, y)
}

// ComponentAt returns the component that receives pointer input at (x, y).
func (c *Context[C]) ComponentAt(x, y int) (C, bool) {
	var zero C
	if modal, ok := c.ActiveModal(); ok {
		if c.PointIn(modal, x, y) {
			return modal, true
		}
		return zero, false
	}
	for i := len(c.areas) - 1; i >= 0; i-- {
		if c.areas[i].rect.Contains(x, y) {
			return c.areas[i].id, true
		}
	}
	return zero, false
}

// PushModal opens a modal on top of any open modal and focuses it.
func (c *Context[C]) PushModal(id C) {
	c.focusStack = append(c.focusStack, focusSave[C]{id: c.focused, set: c.hasFocus})
	c.modals = append(c.modals, id)
	c.SetFocus(id)
}

// PopModal closes the top modal and restores the focus it replaced.
func (c *Context[C]) PopModal() (C, bool) {
	var zero C
	if len(c.modals) == 0 {
		return zero, false
	}
	top := c.modals[len(c.modals)-1]
	c.modals = c.modals[:len(c.modals)-1]

	saved := c.focusStack[len(c.focusStack)-1]
	c.focusStack = c.focusStack[:len(c.focusStack)-1]
	c.focused, c.hasFocus = saved.id, saved.set
	return top, true
}

// ActiveModal returns the top modal.
func (c *Context[C]) ActiveModal() (C, bool) {
	var zero C
	if len(c.modals) == 0 {
		return zero, false
	}
	return c.modals[len(c.modals)-1], true
}

// IsModalOpen reports whether any modal is open.
func (c *Context[C]) IsModalOpen() bool {
	return len(c.modals) > 0
}
