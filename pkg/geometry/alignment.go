package geometry

import "fmt"

// HorizontalAlignment positions an element along the x axis of its slot.
type HorizontalAlignment int

const (
	AlignLeft HorizontalAlignment = iota
	AlignHCenter
	AlignRight
	AlignHStretch
)

func (a HorizontalAlignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignHCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignHStretch:
		return "stretch"
	default:
		return fmt.Sprintf("HorizontalAlignment(%d)", int(a))
	}
}

// ParseHorizontalAlignment parses the names produced by String.
func ParseHorizontalAlignment(s string) (HorizontalAlignment, error) {
	switch s {
	case "", "left":
		return AlignLeft, nil
	case "center":
		return AlignHCenter, nil
	case "right":
		return AlignRight, nil
	case "stretch":
		return AlignHStretch, nil
	}
	return 0, fmt.Errorf("unknown horizontal alignment %q", s)
}

// VerticalAlignment positions an element along the y axis of its slot.
type VerticalAlignment int

const (
	AlignTop VerticalAlignment = iota
	AlignVCenter
	AlignBottom
	AlignVStretch
)

func (a VerticalAlignment) String() string {
	switch a {
	case AlignTop:
		return "top"
	case AlignVCenter:
		return "center"
	case AlignBottom:
		return "bottom"
	case AlignVStretch:
		return "stretch"
	default:
		return fmt.Sprintf("VerticalAlignment(%d)", int(a))
	}
}

// ParseVerticalAlignment parses the names produced by String.
func ParseVerticalAlignment(s string) (VerticalAlignment, error) {
	switch s {
	case "", "top":
		return AlignTop, nil
	case "center":
		return AlignVCenter, nil
	case "bottom":
		return AlignBottom, nil
	case "stretch":
		return AlignVStretch, nil
	}
	return 0, fmt.Errorf("unknown vertical alignment %q", s)
}
