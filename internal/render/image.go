package render

import (
	"fmt"
	"image/color"
	"io"

	"github.com/huangsam/statdeck/internal/contract"
	"github.com/huangsam/statdeck/schema"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// deckTitleBand is the height reserved above the panels for the deck title.
const deckTitleBand = vg.Length(36)

// ImageRenderer draws decks into PNG or SVG images with gonum/plot.
type ImageRenderer struct {
	format schema.RenderFormat
}

var _ contract.Renderer = &ImageRenderer{} // Compile-time check

// NewImageRenderer returns an image renderer for png or svg.
func NewImageRenderer(format schema.RenderFormat) (*ImageRenderer, error) {
	switch format {
	case "":
		format = schema.PNGFormat
	case schema.PNGFormat, schema.SVGFormat:
	default:
		return nil, fmt.Errorf("image renderer does not support %q", format)
	}
	return &ImageRenderer{format: format}, nil
}

// Extension implements the Renderer interface.
func (r *ImageRenderer) Extension() string {
	return string(r.format)
}

// Render implements the Renderer interface.
// Each panel becomes one plot drawn into its grid cells of a single canvas.
func (r *ImageRenderer) Render(deck schema.Deck, theme contract.Theme, w io.Writer) error {
	if deck.Rows < 1 || deck.Cols < 1 {
		return fmt.Errorf("deck %s has an empty grid", deck.Name)
	}
	st, err := newStyle(theme)
	if err != nil {
		return err
	}

	width := vg.Length(deck.Cols) * st.width
	height := vg.Length(deck.Rows)*st.height + deckTitleBand
	cw, err := draw.NewFormattedCanvas(width, height, string(r.format))
	if err != nil {
		return err
	}
	dc := draw.New(cw)
	dc.FillPolygon(color.White, []vg.Point{
		{X: 0, Y: 0}, {X: 0, Y: height}, {X: width, Y: height}, {X: width, Y: 0},
	})

	if deck.Title != "" {
		titleStyle := st.textStyle(st.title + 4)
		titleStyle.YAlign = draw.YCenter
		dc.FillText(titleStyle, vg.Point{X: width / 2, Y: height - deckTitleBand/2}, deck.Title)
	}

	for _, panel := range deck.Panels {
		p, err := buildPlot(panel.Chart, st)
		if err != nil {
			return fmt.Errorf("panel %q: %w", panel.Chart.Title, err)
		}
		p.Draw(panelCanvas(dc, panel, st, height-deckTitleBand))
	}

	if _, err := cw.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write %s: %w", r.format, err)
	}
	return nil
}

// panelCanvas returns the padded sub-canvas covering a panel's grid cells.
// Rows count downward from the top of the grid area.
func panelCanvas(dc draw.Canvas, panel schema.Panel, st style, gridTop vg.Length) draw.Canvas {
	rowSpan, colSpan := max(panel.RowSpan, 1), max(panel.ColSpan, 1)
	pad := vg.Points(8)
	minX := vg.Length(panel.Col)*st.width + pad
	maxX := vg.Length(panel.Col+colSpan)*st.width - pad
	maxY := gridTop - vg.Length(panel.Row)*st.height - pad
	minY := gridTop - vg.Length(panel.Row+rowSpan)*st.height + pad
	return draw.Canvas{
		Canvas:    dc.Canvas,
		Rectangle: vg.Rectangle{Min: vg.Point{X: minX, Y: minY}, Max: vg.Point{X: maxX, Y: maxY}},
	}
}
