package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Color is an RGBA color as reported by the browser.
type Color struct {
	R, G, B uint8
	A       float64
}

// RGB builds an opaque color.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 1} }

// Hex formats the color as #rrggbb, the form color inputs accept.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// Equal compares channels exactly and alpha within a small tolerance.
func (c Color) Equal(o Color) bool {
	return c.R == o.R && c.G == o.G && c.B == o.B && math.Abs(c.A-o.A) < 1e-3
}

var (
	hexColorRe = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	rgbColorRe = regexp.MustCompile(`^rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*(?:,\s*([0-9]*\.?[0-9]+)\s*)?\)$`)
)

// ParseColor accepts #rgb, #rrggbb, rgb(r, g, b) and rgba(r, g, b, a).
func ParseColor(s string) (Color, error) {
	in := strings.TrimSpace(strings.ToLower(s))

	if m := hexColorRe.FindStringSubmatch(in); m != nil {
		h := m[1]
		if len(h) == 3 {
			h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
		}
		v, _ := strconv.ParseUint(h, 16, 32)
		return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
	}

	if m := rgbColorRe.FindStringSubmatch(in); m != nil {
		var ch [3]uint8
		for i := 0; i < 3; i++ {
			n, err := strconv.Atoi(m[i+1])
			if err != nil || n > 255 {
				return Color{}, invalidColor(s)
			}
			ch[i] = uint8(n)
		}
		c := RGB(ch[0], ch[1], ch[2])
		if m[4] != "" {
			a, err := strconv.ParseFloat(m[4], 64)
			if err != nil || a > 1 {
				return Color{}, invalidColor(s)
			}
			c.A = a
		}
		return c, nil
	}

	return Color{}, invalidColor(s)
}

func invalidColor(s string) error {
	return &OpError{
		Op:   "color.parse",
		Kind: KindInvalidConfig,
		Err:  fmt.Errorf("unrecognized color %q: %w", s, ErrInvalidConfig),
	}
}
