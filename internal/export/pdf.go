// Package export writes drawings to print formats.
package export

import (
	"errors"
	"io"
	"math"

	"cadterm/internal/geom"

	"github.com/jung-kurt/gofpdf"
)

var ErrEmpty = errors.New("nothing to export")

const (
	pageW   = 297.0 // A4 landscape, mm
	pageH   = 210.0
	margin  = 10.0
	ptPerMM = 72 / 25.4
)

// PDF renders shapes onto one A4 landscape page, scaled to fit the margins.
func PDF(w io.Writer, shapes []geom.Shape) error {
	p, err := build(shapes)
	if err != nil {
		return err
	}
	return p.Output(w)
}

func PDFFile(path string, shapes []geom.Shape) error {
	p, err := build(shapes)
	if err != nil {
		return err
	}
	return p.OutputFileAndClose(path)
}

func build(shapes []geom.Shape) (*gofpdf.Fpdf, error) {
	r, ok := geom.Bounds(shapes)
	if !ok {
		return nil, ErrEmpty
	}
	bw, bh := math.Max(r.Width(), 1e-9), math.Max(r.Height(), 1e-9)
	scale := math.Min((pageW-2*margin)/bw, (pageH-2*margin)/bh)
	tx := func(pt geom.Point) (float64, float64) {
		return margin + (pt.X-r.Min.X)*scale, margin + (pt.Y-r.Min.Y)*scale
	}

	p := gofpdf.New("L", "mm", "A4", "")
	p.AddPage()
	p.SetDrawColor(0, 0, 0)
	p.SetFillColor(0, 0, 0)
	p.SetFont("Helvetica", "", 10)

	line := func(a, b geom.Point) {
		x1, y1 := tx(a)
		x2, y2 := tx(b)
		p.Line(x1, y1, x2, y2)
	}
	for _, s := range shapes {
		switch s.Kind {
		case geom.KindPoint:
			x, y := tx(geom.Point{X: s.X, Y: s.Y})
			p.Circle(x, y, 0.8, "F")
		case geom.KindLine:
			p.SetLineWidth(0.3 * math.Max(s.Thickness, 1))
			line(s.Start(), s.End())
		case geom.KindPolyline:
			p.SetLineWidth(0.3 * math.Max(s.Thickness, 1))
			for i := 1; i < len(s.Points); i++ {
				line(s.Points[i-1], s.Points[i])
			}
			if s.Closed && len(s.Points) > 2 {
				line(s.Points[len(s.Points)-1], s.Points[0])
			}
		case geom.KindText:
			x, y := tx(geom.Point{X: s.X, Y: s.Y})
			p.SetFontSize(math.Max(s.FontSize*scale*ptPerMM, 4))
			p.Text(x, y, s.Text)
		}
	}
	if err := p.Error(); err != nil {
		return nil, err
	}
	return p, nil
}
