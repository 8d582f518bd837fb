package export

import "fmt"

// PageSlice is the vertical band of the raster shown on one page.
// Rows [Top, Bottom) are visible; the full image is drawn shifted by Offset.
type PageSlice struct {
	Index  int
	Top    int
	Bottom int
	Offset int
}

// Height returns the number of raster rows on the page
func (s PageSlice) Height() int {
	return s.Bottom - s.Top
}

// Plan splits a raster of height h into pages of height p.
// It returns ceil(h/p) slices; the last one may be shorter.
func Plan(h, p int) ([]PageSlice, error) {
	if h <= 0 {
		return nil, fmt.Errorf("raster height must be positive, got %d", h)
	}
	if p <= 0 {
		return nil, fmt.Errorf("page height must be positive, got %d", p)
	}

	n := (h + p - 1) / p
	slices := make([]PageSlice, n)
	for i := range slices {
		bottom := (i + 1) * p
		if bottom > h {
			bottom = h
		}
		slices[i] = PageSlice{
			Index:  i,
			Top:    i * p,
			Bottom: bottom,
			Offset: -i * p,
		}
	}
	return slices, nil
}

// PageLayout is the physical page in millimetres
type PageLayout struct {
	WidthMM  float64
	HeightMM float64
	MarginMM float64
}

// A4 is the default portrait layout
var A4 = PageLayout{WidthMM: 210, HeightMM: 297, MarginMM: 10}

// Validate checks that the margins leave a content box
func (l PageLayout) Validate() error {
	if l.WidthMM <= 0 || l.HeightMM <= 0 || l.MarginMM < 0 {
		return fmt.Errorf("invalid page layout %vx%v mm, margin %v", l.WidthMM, l.HeightMM, l.MarginMM)
	}
	if l.ContentWidth() <= 0 || l.ContentHeight() <= 0 {
		return fmt.Errorf("margin %v mm leaves no content on a %vx%v mm page", l.MarginMM, l.WidthMM, l.HeightMM)
	}
	return nil
}

// ContentWidth is the printable width in millimetres
func (l PageLayout) ContentWidth() float64 {
	return l.WidthMM - 2*l.MarginMM
}

// ContentHeight is the printable height in millimetres
func (l PageLayout) ContentHeight() float64 {
	return l.HeightMM - 2*l.MarginMM
}

// PagePixels returns how many raster rows fit on one page when an image
// imageWidth pixels wide is scaled to the content width.
func (l PageLayout) PagePixels(imageWidth int) int {
	if imageWidth <= 0 || l.ContentWidth() <= 0 {
		return 0
	}
	return int(l.ContentHeight() / l.ContentWidth() * float64(imageWidth))
}
