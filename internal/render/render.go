// Package render draws chart decks as PNG/SVG images with gonum/plot
// or as interactive HTML pages with go-echarts.
package render

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/huangsam/statdeck/internal/contract"
	"github.com/huangsam/statdeck/schema"
)

// New returns the renderer for a format.
func New(format schema.RenderFormat) (contract.Renderer, error) {
	switch format {
	case schema.PNGFormat, schema.SVGFormat, "":
		return NewImageRenderer(format)
	case schema.HTMLFormat:
		return NewHTMLRenderer(), nil
	default:
		return nil, fmt.Errorf("unsupported render format %q", format)
	}
}

// RenderFile renders a deck into path, replacing any existing file.
func RenderFile(r contract.Renderer, deck schema.Deck, theme contract.Theme, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := r.Render(deck, theme, file); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to render %s: %w", deck.Name, err)
	}
	return file.Close()
}

// DeckPath names the output file of a deck.
// A single deck goes to out as given; several decks share out as a prefix.
func DeckPath(out string, deck schema.Deck, ext string, multi bool) string {
	if out == "" {
		return deck.Name + "." + ext
	}
	if !multi {
		if strings.HasSuffix(strings.ToLower(out), "."+ext) {
			return out
		}
		return out + "." + ext
	}
	return strings.TrimSuffix(out, "."+ext) + "-" + deck.Name + "." + ext
}

// parseHex converts #RRGGBB or #RGB into a color, using fallback when malformed.
func parseHex(hex string, fallback color.Color) color.Color {
	s := strings.TrimPrefix(hex, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// withAlpha returns c with its opacity set. Zero alpha means opaque.
func withAlpha(c color.Color, alpha float64) color.Color {
	if alpha <= 0 || alpha >= 1 {
		return c
	}
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(alpha * 255)}
}
