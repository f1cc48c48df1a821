package glyph

// SortKey selects the field glyphs are ordered by.
type SortKey int

const (
	SortDate SortKey = iota
	SortImageWidth
	SortImageHeight
	SortAltitude
	SortHue
	numSortKeys
)

// SortKeys lists every key in cycling order.
var SortKeys = []SortKey{SortDate, SortImageWidth, SortImageHeight, SortAltitude, SortHue}

func (k SortKey) String() string {
	switch k {
	case SortDate:
		return "date"
	case SortImageWidth:
		return "imageWidth"
	case SortImageHeight:
		return "imageHeight"
	case SortAltitude:
		return "altitude"
	case SortHue:
		return "hue"
	}
	return "unknown"
}

// Title is the human label used in headlines.
func (k SortKey) Title() string {
	switch k {
	case SortDate:
		return "Date"
	case SortImageWidth:
		return "Image Width"
	case SortImageHeight:
		return "Image Height"
	case SortAltitude:
		return "Altitude"
	case SortHue:
		return "Hue"
	}
	return ""
}

func (k SortKey) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k SortKey) next() SortKey { return (k + 1) % numSortKeys }

// LayoutMode selects how glyphs are placed on the canvas.
type LayoutMode int

const (
	LayoutMatrix LayoutMode = iota
	LayoutLine
	LayoutMap
	numLayouts
)

// LayoutModes lists every layout in cycling order.
var LayoutModes = []LayoutMode{LayoutMatrix, LayoutLine, LayoutMap}

func (m LayoutMode) String() string {
	switch m {
	case LayoutMatrix:
		return "matrix"
	case LayoutLine:
		return "line"
	case LayoutMap:
		return "map"
	}
	return "unknown"
}

// Title is the human label used in headlines.
func (m LayoutMode) Title() string {
	switch m {
	case LayoutMatrix:
		return "Images"
	case LayoutLine:
		return "Order"
	case LayoutMap:
		return "Places"
	}
	return ""
}

func (m LayoutMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m LayoutMode) next() LayoutMode { return (m + 1) % numLayouts }

// ShapeStyle selects how a single glyph is drawn.
type ShapeStyle int

const (
	StyleStackedBar ShapeStyle = iota
	StyleCircle
)

func (s ShapeStyle) String() string {
	if s == StyleCircle {
		return "circle"
	}
	return "stackedBar"
}

func (s ShapeStyle) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// NumColorSlots is the modulus of the colour index.
const NumColorSlots = MaxPalette

// State is the engine's mode selection.
type State struct {
	SortKey    SortKey    `json:"sortKey"`
	Layout     LayoutMode `json:"layout"`
	ColorIndex int        `json:"colorIndex"`
	Style      ShapeStyle `json:"style"`
}

// InitialState is Matrix layout sorted by date, colour 0, stacked bars.
func InitialState() State {
	return State{SortKey: SortDate, Layout: LayoutMatrix, Style: StyleStackedBar}
}
