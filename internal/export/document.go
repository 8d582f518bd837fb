package export

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png" // DecodeConfig for registered rasters

	"github.com/go-pdf/fpdf"
)

const rasterName = "report"

// Document assembles a paginated PDF from one PNG raster
type Document struct {
	layout     PageLayout
	pageNumber bool
}

// NewDocument creates a document assembler for layout
func NewDocument(layout PageLayout, pageNumbers bool) (*Document, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &Document{layout: layout, pageNumber: pageNumbers}, nil
}

// Assemble registers the raster once and places it on ceil(H/P) pages. Each
// page clips to the content box and draws the full image shifted up by i*P rows.
func (d *Document) Assemble(raster []byte) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raster))
	if err != nil {
		return nil, fmt.Errorf("decode raster: %w", err)
	}

	slices, err := Plan(cfg.Height, d.layout.PagePixels(cfg.Width))
	if err != nil {
		return nil, err
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: d.layout.WidthMM, Ht: d.layout.HeightMM},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(d.layout.MarginMM, d.layout.MarginMM, d.layout.MarginMM)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(rasterName, opts, bytes.NewReader(raster))
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("register raster: %w", err)
	}

	m := d.layout.MarginMM
	cw, ch := d.layout.ContentWidth(), d.layout.ContentHeight()
	mmPerPixel := cw / float64(cfg.Width)
	imageHeight := float64(cfg.Height) * mmPerPixel

	for _, s := range slices {
		pdf.AddPage()
		pdf.ClipRect(m, m, cw, ch, false)
		pdf.ImageOptions(rasterName, m, m+float64(s.Offset)*mmPerPixel, cw, imageHeight, false, opts, 0, "")
		pdf.ClipEnd()

		if d.pageNumber && len(slices) > 1 {
			pdf.SetFont("Helvetica", "", 8)
			pdf.SetTextColor(0x6b, 0x72, 0x80)
			label := fmt.Sprintf("%d / %d", s.Index+1, len(slices))
			pdf.Text(d.layout.WidthMM-m-pdf.GetStringWidth(label), d.layout.HeightMM-m/2, label)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
