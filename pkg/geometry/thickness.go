package geometry

// Thickness describes the four edges of a frame, such as a margin.
type Thickness struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// Uniform returns a Thickness with the same value on every side.
func Uniform(all float64) Thickness {
	return Thickness{Left: all, Top: all, Right: all, Bottom: all}
}

// Symmetric returns a Thickness with horizontal and vertical values.
func Symmetric(horizontal, vertical float64) Thickness {
	return Thickness{Left: horizontal, Top: vertical, Right: horizontal, Bottom: vertical}
}

// Horizontal returns Left + Right.
func (t Thickness) Horizontal() float64 {
	return t.Left + t.Right
}

// Vertical returns Top + Bottom.
func (t Thickness) Vertical() float64 {
	return t.Top + t.Bottom
}
