package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/ideajudge/internal/cache"
	"github.com/ppiankov/ideajudge/internal/model"
)

// countingRasterizer returns a solid image of a fixed height
type countingRasterizer struct {
	width, height int
	delay         time.Duration
	err           error
	calls         atomic.Int32
}

func (r *countingRasterizer) Rasterize(report *model.Report) (image.Image, error) {
	r.calls.Add(1)
	time.Sleep(r.delay)
	if r.err != nil {
		return nil, r.err
	}
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	for y := 0; y < r.height; y++ {
		img.Set(0, y, color.Black)
	}
	return img, nil
}

func testReport() *model.Report {
	r := &model.Report{
		ID:   "report-1",
		Idea: model.Idea{Title: "Smart Cane", Track: model.TrackHigherEdu, Category: "MED_DEVICE_ROBOT"},
		Result: model.EvaluationResult{
			OverallScore:  70,
			TopicPivots:   []model.TopicPivot{{NewTitle: "Home care", Logic: "scale down", Potential: "large"}},
			ExpertComment: strings.Repeat("A solid idea with a clear clinical path. ", 20),
		},
	}
	for _, key := range model.DimensionKeys {
		r.Result.Dimensions.Set(key, model.DimensionDetail{
			Score:         7,
			MaxScore:      10,
			ScoringPoints: []string{"point"},
			Weakness:      "weak",
			Improvement:   "improve",
		})
	}
	return r
}

func newTestExporter(t *testing.T, r Rasterizer) *Exporter {
	t.Helper()
	doc, err := NewDocument(A4, true)
	if err != nil {
		t.Fatal(err)
	}
	return New(r, doc, cache.NewMemoryCache(time.Minute, time.Minute), 600)
}

func pageCount(pdf []byte) int {
	return bytes.Count(pdf, []byte("/Type /Page")) - bytes.Count(pdf, []byte("/Type /Pages"))
}

func TestExporter_Export(t *testing.T) {
	// 600px wide on A4 gives 874 rows per page; 2000 rows need 3 pages
	r := &countingRasterizer{width: 600, height: 2000}
	e := newTestExporter(t, r)
	dir := t.TempDir()

	path, err := e.Export(context.Background(), testReport(), dir)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if path != filepath.Join(dir, "Smart_Cane.pdf") {
		t.Errorf("Unexpected path %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("Expected a PDF header")
	}
	if n := pageCount(data); n != 3 {
		t.Errorf("Expected 3 pages, got %d", n)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected only the PDF in dir, got %d entries", len(entries))
	}
}

func TestExporter_SinglePage(t *testing.T) {
	e := newTestExporter(t, &countingRasterizer{width: 600, height: 500})

	path, err := e.Export(context.Background(), testReport(), t.TempDir())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if n := pageCount(data); n != 1 {
		t.Errorf("Expected 1 page, got %d", n)
	}
}

func TestExporter_ConcurrentExportsShareRaster(t *testing.T) {
	r := &countingRasterizer{width: 600, height: 1200, delay: 50 * time.Millisecond}
	e := newTestExporter(t, r)
	dir := t.TempDir()
	report := testReport()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.Export(context.Background(), report, dir); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Export failed: %v", err)
	}
	if n := r.calls.Load(); n != 1 {
		t.Errorf("Expected one rasterization, got %d", n)
	}
}

func TestExporter_WriteFailureRetriesWithoutRasterizing(t *testing.T) {
	r := &countingRasterizer{width: 600, height: 900}
	e := newTestExporter(t, r)
	report := testReport()

	missing := filepath.Join(t.TempDir(), "does-not-exist")
	_, err := e.Export(context.Background(), report, missing)
	if !errors.Is(err, ErrExport) {
		t.Fatalf("Expected ErrExport, got %v", err)
	}
	var exportErr *ExportError
	if !errors.As(err, &exportErr) || exportErr.Stage != "write" {
		t.Errorf("Expected write stage, got %v", err)
	}

	dir := t.TempDir()
	if _, err := e.Export(context.Background(), report, dir); err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if n := r.calls.Load(); n != 1 {
		t.Errorf("Expected cached raster on retry, got %d rasterizations", n)
	}
}

func TestExporter_RasterizeFailure(t *testing.T) {
	boom := errors.New("no glyphs")
	e := newTestExporter(t, &countingRasterizer{err: boom})
	dir := t.TempDir()

	_, err := e.Export(context.Background(), testReport(), dir)
	if !errors.Is(err, ErrExport) || !errors.Is(err, boom) {
		t.Fatalf("Expected wrapped rasterize error, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Expected no files after failure, got %d", len(entries))
	}
}

func TestExporter_CancelledContext(t *testing.T) {
	r := &countingRasterizer{width: 600, height: 900}
	e := newTestExporter(t, r)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Export(ctx, testReport(), t.TempDir()); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if r.calls.Load() != 0 {
		t.Error("Expected no rasterization after cancellation")
	}
}

func TestExporter_NilReport(t *testing.T) {
	e := newTestExporter(t, &countingRasterizer{width: 600, height: 900})
	if _, err := e.Export(context.Background(), nil, t.TempDir()); !errors.Is(err, ErrExport) {
		t.Errorf("Expected ErrExport, got %v", err)
	}
}

func TestTextRasterizer(t *testing.T) {
	r, err := NewTextRasterizer(600, "", 0)
	if err != nil {
		t.Fatalf("NewTextRasterizer failed: %v", err)
	}

	img, err := r.Rasterize(testReport())
	if err != nil {
		t.Fatalf("Rasterize failed: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 600 {
		t.Errorf("Expected width 600, got %d", b.Dx())
	}
	if b.Dy() < 600 {
		t.Errorf("Expected a tall raster, got height %d", b.Dy())
	}

	// Something other than background was drawn
	inked := false
	for y := b.Min.Y; y < b.Max.Y && !inked; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if cr, cg, cb, _ := img.At(x, y).RGBA(); cr != 0xffff || cg != 0xffff || cb != 0xffff {
				inked = true
				break
			}
		}
	}
	if !inked {
		t.Error("Expected drawn content")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	doc, _ := NewDocument(A4, false)
	if _, err := doc.Assemble(buf.Bytes()); err != nil {
		t.Errorf("Assemble failed: %v", err)
	}
}

func TestReportBlocks_Implementation(t *testing.T) {
	report := testReport()
	report.Result.Implementation = model.ImplementationDetail{
		PainPoint:          "falls go unnoticed",
		TechnicalBreakdown: []model.TechnicalDiagnostic{{Component: "IMU", Issue: "drift", Optimization: "fusion"}},
		Business: model.BusinessFramework{
			Framework:       "B2B2C",
			RevenueModels:   []string{"hardware"},
			OperationLogic:  "hospital channel",
			Benchmarks:      []string{"Brand X cane"},
			Advantages:      []string{"cheaper"},
			MarketProspect:  "ageing population",
			CompetitiveMoat: "clinical data moat",
		},
	}

	var outline strings.Builder
	for _, b := range reportBlocks(report) {
		outline.WriteString(b.text)
		outline.WriteString("\n")
	}
	text := outline.String()

	for _, want := range []string{
		"对标案例：", "• Brand X cane",
		"竞争壁垒：clinical data moat",
		"运营逻辑：hospital channel",
		"市场前景：ageing population",
		"• IMU：drift → fusion",
		"痛点：falls go unnoticed",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected outline to contain %q", want)
		}
	}
}

func TestTextRasterizer_Errors(t *testing.T) {
	if _, err := NewTextRasterizer(100, "", 0); err == nil {
		t.Error("Expected error for narrow raster")
	}
	if _, err := NewTextRasterizer(600, filepath.Join(t.TempDir(), "missing.ttf"), 16); err == nil {
		t.Error("Expected error for missing font")
	}

	bogus := filepath.Join(t.TempDir(), "bogus.ttf")
	_ = os.WriteFile(bogus, []byte("not a font"), 0o644)
	if _, err := NewTextRasterizer(600, bogus, 16); err == nil {
		t.Error("Expected error for unparseable font")
	}
}

func TestTextRasterizer_Wrap(t *testing.T) {
	r, _ := NewTextRasterizer(600, "", 0)
	// basicfont advances 7px per rune
	lines := r.wrap(strings.Repeat("x", 25), 70<<6)
	if len(lines) != 3 || lines[0] != strings.Repeat("x", 10) || lines[2] != "xxxxx" {
		t.Errorf("Unexpected wrap: %q", lines)
	}
	if got := r.wrap("a\nb", 70<<6); len(got) != 2 {
		t.Errorf("Expected explicit newlines kept, got %q", got)
	}
}

func TestDocument_InvalidRaster(t *testing.T) {
	doc, _ := NewDocument(A4, true)
	if _, err := doc.Assemble([]byte("not a png")); err == nil {
		t.Error("Expected decode error")
	}
}
