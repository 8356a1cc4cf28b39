package render

import (
	"fmt"
	"image/color"
	"os"

	"github.com/huangsam/statdeck/internal/contract"
	"golang.org/x/image/font/opentype"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// themeTypeface names the font loaded from Theme.FontFile.
const themeTypeface font.Typeface = "StatdeckTheme"

// style is the gonum/plot form of a theme.
type style struct {
	handler  text.Handler
	font     font.Font
	title    vg.Length
	label    vg.Length
	fallback color.Color
	width    vg.Length
	height   vg.Length
}

// newStyle resolves a theme, loading its font file if one is set.
func newStyle(theme contract.Theme) (style, error) {
	def := contract.DefaultTheme()
	st := style{
		handler:  plot.DefaultTextHandler,
		font:     plot.DefaultFont,
		title:    vg.Points(orDefault(theme.TitleSize, def.TitleSize)),
		label:    vg.Points(orDefault(theme.LabelSize, def.LabelSize)),
		fallback: parseHex(theme.FallbackColor, parseHex(def.FallbackColor, color.Gray{Y: 0x9e})),
		width:    vg.Points(orDefault(theme.PanelWidth, def.PanelWidth)),
		height:   vg.Points(orDefault(theme.PanelHeight, def.PanelHeight)),
	}
	if theme.FontFile == "" {
		return st, nil
	}

	data, err := os.ReadFile(theme.FontFile)
	if err != nil {
		return st, fmt.Errorf("failed to read font file: %w", err)
	}
	face, err := opentype.Parse(data)
	if err != nil {
		return st, fmt.Errorf("failed to parse font file %s: %w", theme.FontFile, err)
	}
	st.font = font.Font{Typeface: themeTypeface}
	// A single-face cache makes every lookup fall back to the theme font
	st.handler = text.Plain{Fonts: font.NewCache(font.Collection{{Font: st.font, Face: face}})}
	return st, nil
}

func orDefault(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}

// textStyle returns a black text style of the given size.
func (st style) textStyle(size vg.Length) text.Style {
	return text.Style{
		Color:   color.Black,
		Font:    font.From(st.font, size),
		XAlign:  draw.XCenter,
		YAlign:  draw.YCenter,
		Handler: st.handler,
	}
}

// newPlot creates a plot with the theme fonts applied to every text element.
func (st style) newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.TextHandler = st.handler
	p.Title.TextStyle.Handler = st.handler
	p.Title.TextStyle.Font = font.From(st.font, st.title)

	small := st.label - 1
	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.Label.TextStyle.Handler = st.handler
		ax.Label.TextStyle.Font = font.From(st.font, st.label)
		ax.Tick.Label.Handler = st.handler
		ax.Tick.Label.Font = font.From(st.font, small)
	}
	p.Legend.TextStyle.Handler = st.handler
	p.Legend.TextStyle.Font = font.From(st.font, small)
	p.Legend.Top = true
	return p
}

// colorOf parses a hex color with the theme fallback.
func (st style) colorOf(hex string) color.Color {
	return parseHex(hex, st.fallback)
}
