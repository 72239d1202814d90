// Package config loads the app configuration and theme from a YAML
// file. A missing file yields the defaults; a malformed one is an error
// so a typo never silently reverts the theme.
package config

import (
	"fmt"
	"image/color"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Theme Theme `yaml:"theme"`

	Zoom struct {
		Min float64 `yaml:"min"`
		Max float64 `yaml:"max"`
	} `yaml:"zoom"`

	BrushSize int  `yaml:"brush_size"`
	Hint      bool `yaml:"hint"`

	// debounce for progress recompute and project saves, milliseconds
	DebounceMS int `yaml:"debounce_ms"`
}

// Theme holds every color the renderer needs. Colors are "#rrggbb"
// strings in YAML and parsed once at load.
type Theme struct {
	Background     string  `yaml:"background"`
	CellUnfilled   string  `yaml:"cell_unfilled"`
	Border         string  `yaml:"border"`
	OuterBorder    string  `yaml:"outer_border"`
	Highlight      string  `yaml:"highlight"`
	Numeral        string  `yaml:"numeral"`
	IncorrectAlpha float64 `yaml:"incorrect_alpha"`
}

func Default() Config {
	var c Config
	c.Theme = Theme{
		Background:     "#1e1e28",
		CellUnfilled:   "#f2f2ec",
		Border:         "#b4b4aa",
		OuterBorder:    "#323232",
		Highlight:      "#ffd24b",
		Numeral:        "#464646",
		IncorrectAlpha: 0.35,
	}
	c.Zoom.Min = 0.1
	c.Zoom.Max = 12
	c.BrushSize = 1
	c.Hint = true
	c.DebounceMS = 300
	return c
}

// Load reads path, layering the file over the defaults. A missing file
// is not an error.
func Load(path string) (Config, error) {
	c := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Theme.IncorrectAlpha <= 0 || c.Theme.IncorrectAlpha > 1 {
		c.Theme.IncorrectAlpha = Default().Theme.IncorrectAlpha
	}
	return c, nil
}

// ParseHexColor parses a color in the form #rrggbb. Returns an opaque
// fallback if the parse fails.
func ParseHexColor(s string) color.RGBA {
	var r, g, b uint8 = 0x00, 0x00, 0xff
	if len(s) == 7 && s[0] == '#' {
		var ri, gi, bi uint32
		if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &ri, &gi, &bi); err == nil {
			r = uint8(ri)
			g = uint8(gi)
			b = uint8(bi)
		}
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
