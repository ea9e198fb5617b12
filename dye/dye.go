package dye

import (
	"fmt"
	"math"
)

// RGB is a 24-bit color in the sRGB cube.
type RGB struct {
	R, G, B uint8
}

// ParseHex parses a "#RRGGBB" string (leading '#' optional, case
// insensitive) into an RGB value.
func ParseHex(s string) (RGB, error) {
	raw := s
	if len(raw) > 0 && raw[0] == '#' {
		raw = raw[1:]
	}
	if len(raw) != 6 {
		return RGB{}, fmt.Errorf("dye: invalid hex color %q", s)
	}
	var channels [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexNibble(raw[i*2])
		lo, ok2 := hexNibble(raw[i*2+1])
		if !ok1 || !ok2 {
			return RGB{}, fmt.Errorf("dye: invalid hex color %q", s)
		}
		channels[i] = hi<<4 | lo
	}
	return RGB{R: channels[0], G: channels[1], B: channels[2]}, nil
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Hex renders the color as "#RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Coord maps the color onto the coordinate space used by the spatial index.
func (c RGB) Coord() [3]float64 {
	return [3]float64{float64(c.R), float64(c.G), float64(c.B)}
}

// DistanceTo returns the Euclidean distance between two colors in RGB space.
func (c RGB) DistanceTo(o RGB) float64 {
	dr := float64(c.R) - float64(o.R)
	dg := float64(c.G) - float64(o.G)
	db := float64(c.B) - float64(o.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// Dye is one catalog entry: an in-game dye item and its color.
type Dye struct {
	ItemID   int
	Name     string
	Color    RGB
	Category string
}

func (d Dye) String() string {
	return fmt.Sprintf("%s (%d, %s)", d.Name, d.ItemID, d.Color.Hex())
}
