package fractal

import (
	errs "github.com/matzehuels/trifractal/pkg/errors"
)

// Color is a hex colour string such as "#1a237e".
type Color string

// Palette is an ordered list of colours cycled by depth.
type Palette []Color

// DefaultPalette is a twelve step indigo/violet ramp.
var DefaultPalette = Palette{
	"#1a237e", "#283593", "#3949ab",
	"#5c6bc0", "#7986cb", "#9fa8da",
	"#c5cae9", "#e8eaf6", "#d1c4e9",
	"#b39ddb", "#9575cd", "#7e57c2",
}

// At returns the colour for depth. An empty palette yields black.
func (p Palette) At(depth int) Color {
	if len(p) == 0 {
		return "#000000"
	}
	i := depth % len(p)
	if i < 0 {
		i += len(p)
	}
	return p[i]
}

// ParsePalette converts raw strings into a Palette, rejecting anything that
// is not a #rgb or #rrggbb colour.
func ParsePalette(raw []string) (Palette, error) {
	if err := errs.ValidatePalette(raw); err != nil {
		return nil, err
	}
	p := make(Palette, len(raw))
	for i, s := range raw {
		p[i] = Color(s)
	}
	return p, nil
}

// Strings returns the palette as plain strings.
func (p Palette) Strings() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = string(c)
	}
	return out
}
