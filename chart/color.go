package chart

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color 采用 0-255 的 RGBA 数值。只有 HasAlpha 为 true 时才使用 A，
// 否则按不透明处理，因此 Color{R: 1} 这样的字面量默认不透明。
type Color struct {
	R        int  `json:"r"`
	G        int  `json:"g"`
	B        int  `json:"b"`
	A        int  `json:"a,omitempty"`
	HasAlpha bool `json:"hasAlpha,omitempty"`
}

var (
	Transparent = Color{HasAlpha: true}

	Black   = Color{R: 0, G: 0, B: 0}
	White   = Color{R: 255, G: 255, B: 255}
	DimGray = Color{R: 105, G: 105, B: 105}

	// GridGray 是网格线颜色（#B0B0B0）。
	GridGray = Color{R: 176, G: 176, B: 176}
)

var namedColors = map[string]Color{
	"black":   Black,
	"white":   White,
	"dimgray": DimGray,
	"dimgrey": DimGray,
	"gray":    {R: 128, G: 128, B: 128},
	"grey":    {R: 128, G: 128, B: 128},

	"transparent": Transparent,
	"none":        Transparent,
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// NRGBA returns the non-premultiplied form used by image encoders.
func (c Color) NRGBA() color.NRGBA {
	a := 255
	if c.HasAlpha {
		a = c.A
	}
	return color.NRGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: uint8(a)}
}

// ParseColor accepts #RGB, #RRGGBB, #RRGGBBAA or a CSS colour name.
func ParseColor(s string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[v]; ok {
		return c, nil
	}
	if !strings.HasPrefix(v, "#") {
		return Color{}, fmt.Errorf("unknown color %q", s)
	}
	hex := v[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		return Color{R: int(n >> 16 & 0xff), G: int(n >> 8 & 0xff), B: int(n & 0xff)}, nil
	}
	return Color{R: int(n >> 24 & 0xff), G: int(n >> 16 & 0xff), B: int(n >> 8 & 0xff), A: int(n & 0xff), HasAlpha: true}, nil
}
