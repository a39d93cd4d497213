package dte

// Attribute represents text styling attributes that can be combined as
// terminal SGR attributes.
type Attribute uint8

const (
	AttrNone Attribute = 0
	AttrBold Attribute = 1 << (iota - 1)
	AttrDim
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrInverse
	AttrStrikethrough
	AttrKeep // in Style.Merge: keep the base style's attributes and add the others on top
)

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// With returns a new attribute set with the given attribute added.
func (a Attribute) With(attr Attribute) Attribute {
	return a | attr
}

// Without returns a new attribute set with the given attribute removed.
func (a Attribute) Without(attr Attribute) Attribute {
	return a &^ attr
}

// ColorMode represents the color mode for a color value.
type ColorMode uint8

const (
	ColorDefault ColorMode = iota // explicit terminal default (reset to term fg/bg)
	ColorKeep                     // don't touch whatever color is already on screen
	Color16                       // basic 16 colors (0-15)
	Color256                      // 256 color palette (0-255)
	ColorRGB                      // 24-bit true color
)

// Color represents a terminal color.
type Color struct {
	Mode    ColorMode
	R, G, B uint8 // for RGB mode
	Index   uint8 // for 16/256 mode
}

// DefaultColor returns the terminal's default color.
func DefaultColor() Color { return Color{Mode: ColorDefault} }

// KeepColor returns the "leave as-is" pseudo-color used by syntax themes
// that only want to override one of foreground/background.
func KeepColor() Color { return Color{Mode: ColorKeep} }

// BasicColor returns one of the 16 basic terminal colors.
func BasicColor(index uint8) Color { return Color{Mode: Color16, Index: index} }

// PaletteColor returns one of the 256 palette colors.
func PaletteColor(index uint8) Color { return Color{Mode: Color256, Index: index} }

// RGB returns a 24-bit true color.
func RGB(r, g, b uint8) Color { return Color{Mode: ColorRGB, R: r, G: g, B: b} }

// Standard basic colors for convenience.
var (
	Black   = BasicColor(0)
	Red     = BasicColor(1)
	Green   = BasicColor(2)
	Yellow  = BasicColor(3)
	Blue    = BasicColor(4)
	Magenta = BasicColor(5)
	Cyan    = BasicColor(6)
	White   = BasicColor(7)

	BrightBlack   = BasicColor(8)
	BrightRed     = BasicColor(9)
	BrightGreen   = BasicColor(10)
	BrightYellow  = BasicColor(11)
	BrightBlue    = BasicColor(12)
	BrightMagenta = BasicColor(13)
	BrightCyan    = BasicColor(14)
	BrightWhite   = BasicColor(15)
)

// Equal returns true if two colors are equal.
func (c Color) Equal(other Color) bool { return c == other }

// Style combines foreground, background colors and attributes for one
// cell or highlighter emit name.
type Style struct {
	FG   Color
	BG   Color
	Attr Attribute
}

// DefaultStyle returns a style with default colors and no attributes.
func DefaultStyle() Style {
	return Style{FG: DefaultColor(), BG: DefaultColor()}
}

// Foreground returns a new style with the given foreground color.
func (s Style) Foreground(c Color) Style { s.FG = c; return s }

// Background returns a new style with the given background color.
func (s Style) Background(c Color) Style { s.BG = c; return s }

// Bold returns a new style with bold enabled.
func (s Style) Bold() Style { s.Attr = s.Attr.With(AttrBold); return s }

// Dim returns a new style with dim enabled.
func (s Style) Dim() Style { s.Attr = s.Attr.With(AttrDim); return s }

// Italic returns a new style with italic enabled.
func (s Style) Italic() Style { s.Attr = s.Attr.With(AttrItalic); return s }

// Underline returns a new style with underline enabled.
func (s Style) Underline() Style { s.Attr = s.Attr.With(AttrUnderline); return s }

// Inverse returns a new style with inverse enabled.
func (s Style) Inverse() Style { s.Attr = s.Attr.With(AttrInverse); return s }

// Strikethrough returns a new style with strikethrough enabled.
func (s Style) Strikethrough() Style { s.Attr = s.Attr.With(AttrStrikethrough); return s }

// Equal returns true if two styles are equal.
func (s Style) Equal(other Style) bool { return s == other }

// Merge layers `over` on top of s: a ColorKeep color in `over` leaves s's
// color untouched, and AttrKeep in `over` keeps s's attributes and adds
// over's other attributes to them; anything else replaces s's field
// outright. This is how a syntax highlight style composes with the line's
// base style.
func (s Style) Merge(over Style) Style {
	out := s
	if over.FG.Mode != ColorKeep {
		out.FG = over.FG
	}
	if over.BG.Mode != ColorKeep {
		out.BG = over.BG
	}
	if over.Attr.Has(AttrKeep) {
		out.Attr |= over.Attr.Without(AttrKeep)
	} else {
		out.Attr = over.Attr
	}
	return out
}

// stripNCV removes ncv from a style's attributes when the terminal's
// "no_color_video" capability (terminfo ncv) reports those attributes
// can't be combined with a non-default color, to avoid e.g. bold text
// silently losing its custom foreground on some terminals.
func (s Style) stripNCV(ncv Attribute) Style {
	if ncv == 0 {
		return s
	}
	if s.FG.Mode == ColorDefault && s.BG.Mode == ColorDefault {
		return s
	}
	s.Attr = s.Attr.Without(ncv)
	return s
}

// Cell represents a single character cell on the terminal.
type Cell struct {
	Rune  rune
	Width int // display width of Rune: 0/1/2, or 4 for a control rune (see CodepointWidth)
	Style Style
}

// EmptyCell returns a cell with a space and default style.
func EmptyCell() Cell { return Cell{Rune: ' ', Width: 1, Style: DefaultStyle()} }

// NewCell creates a cell with the given rune and style.
func NewCell(r rune, style Style) Cell {
	return Cell{Rune: r, Width: CodepointWidth(r), Style: style}
}

// Equal returns true if two cells are equal.
func (c Cell) Equal(other Cell) bool { return c == other }
