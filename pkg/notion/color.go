package notion

import "github.com/devmaxde/notion-client/pkg/variant"

// Color is an option or block color.
type Color string

const (
	ColorDefault Color = "default"
	ColorGray    Color = "gray"
	ColorBrown   Color = "brown"
	ColorRed     Color = "red"
	ColorOrange  Color = "orange"
	ColorYellow  Color = "yellow"
	ColorGreen   Color = "green"
	ColorBlue    Color = "blue"
	ColorPurple  Color = "purple"
	ColorPink    Color = "pink"
)

var colors = variant.NewEnum("color",
	ColorDefault, ColorGray, ColorBrown, ColorRed, ColorOrange,
	ColorYellow, ColorGreen, ColorBlue, ColorPurple, ColorPink,
)

// ParseColor returns the Color for a wire string.
func ParseColor(s string) (Color, error) { return colors.Parse(s) }

// Valid reports whether c is a known color.
func (c Color) Valid() bool { return colors.Valid(c) }

// Background returns the background variant of c used in text annotations.
// The default color has no background variant and is returned unchanged.
func (c Color) Background() TextColor {
	if c == ColorDefault {
		return TextColor(c)
	}
	return TextColor(c) + "_background"
}

// TextColor is a rich text annotation color: any Color, or a Color's
// background variant such as "red_background".
type TextColor string

var textColors = func() *variant.Enum[TextColor] {
	values := make([]TextColor, 0, 2*len(colors.Values()))
	for _, c := range colors.Values() {
		values = append(values, TextColor(c))
	}
	for _, c := range colors.Values() {
		if c != ColorDefault {
			values = append(values, c.Background())
		}
	}
	return variant.NewEnum("color", values...)
}()

// Valid reports whether t is a known text color.
func (t TextColor) Valid() bool { return textColors.Valid(t) }
