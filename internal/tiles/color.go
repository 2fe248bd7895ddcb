package tiles

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ParseColor accepts "#rgb", "#rrggbb" or a CSS/SVG color name.
func ParseColor(s string) (color.Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return nil, fmt.Errorf("empty color")
	}
	if strings.HasPrefix(name, "#") {
		if len(name) == 4 {
			name = string([]byte{'#', name[1], name[1], name[2], name[2], name[3], name[3]})
		}
		c, err := colorful.Hex(name)
		if err != nil {
			return nil, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		return c.Clamped(), nil
	}
	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("unknown color %q", s)
}

// Shade darkens c toward black by v in [0, 1], blending in Lab space.
func Shade(c color.Color, v float64) color.Color {
	return blend(c, colorful.Color{}, v)
}

// Tint lightens c toward white by v in [0, 1].
func Tint(c color.Color, v float64) color.Color {
	return blend(c, colorful.Color{R: 1, G: 1, B: 1}, v)
}

func blend(c color.Color, toward colorful.Color, v float64) color.Color {
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return c
	}
	v = max(0, min(1, v))
	return cc.BlendLab(toward, v).Clamped()
}

// IsLight reports whether c is light enough to need dark text.
func IsLight(c color.Color) bool {
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return false
	}
	l, _, _ := cc.Lab()
	return l > 0.6
}

// Contrast returns black or white, whichever reads better on bg.
func Contrast(bg color.Color) color.Color {
	if IsLight(bg) {
		return color.Black
	}
	return color.White
}

// BorderColor is a slightly shaded or tinted variant of bg.
func BorderColor(bg color.Color) color.Color {
	if IsLight(bg) {
		return Shade(bg, 0.35)
	}
	return Tint(bg, 0.35)
}
