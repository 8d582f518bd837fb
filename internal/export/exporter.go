// Package export renders an evaluated report to a paginated PDF.
package export

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/ppiankov/ideajudge/internal/cache"
	"github.com/ppiankov/ideajudge/internal/model"
	"github.com/ppiankov/ideajudge/internal/util"
)

// Exporter rasterizes, paginates and writes reports. Concurrent exports of the
// same report share one rasterization; rasters stay cached so a failed
// assembly or write can be retried without rasterizing again.
type Exporter struct {
	rasterizer Rasterizer
	document   *Document
	cache      cache.Cache
	width      int
	group      singleflight.Group
}

// NewExporter builds an exporter from configuration
func NewExporter(cfg model.ExportConfig) (*Exporter, error) {
	rasterizer, err := NewTextRasterizer(cfg.RasterWidth, cfg.FontPath, cfg.FontSize)
	if err != nil {
		return nil, fmt.Errorf("create rasterizer: %w", err)
	}

	layout := PageLayout{WidthMM: cfg.PageWidthMM, HeightMM: cfg.PageHeightMM, MarginMM: cfg.MarginMM}
	document, err := NewDocument(layout, true)
	if err != nil {
		return nil, fmt.Errorf("page layout: %w", err)
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	return New(rasterizer, document, cache.NewMemoryCache(ttl, ttl), cfg.RasterWidth), nil
}

// New creates an exporter from its parts; width only distinguishes cache entries
func New(rasterizer Rasterizer, document *Document, c cache.Cache, width int) *Exporter {
	return &Exporter{
		rasterizer: rasterizer,
		document:   document,
		cache:      c,
		width:      width,
	}
}

// Export writes the report PDF into dir and returns its path.
// On failure no partial file is left behind.
func (e *Exporter) Export(ctx context.Context, report *model.Report, dir string) (string, error) {
	if report == nil {
		return "", &ExportError{Stage: "rasterize", Err: fmt.Errorf("nil report")}
	}
	if err := ctx.Err(); err != nil {
		return "", &ExportError{Stage: "rasterize", Err: err}
	}

	log := util.Log.WithFields(logrus.Fields{"report_id": report.ID})

	raster, err := e.raster(report)
	if err != nil {
		return "", &ExportError{Stage: "rasterize", Err: err}
	}
	if err := ctx.Err(); err != nil {
		return "", &ExportError{Stage: "assemble", Err: err}
	}

	data, err := e.document.Assemble(raster)
	if err != nil {
		return "", &ExportError{Stage: "assemble", Err: err}
	}

	path := filepath.Join(dir, FileName(report.Idea.Title))
	if err := writeAtomic(path, data); err != nil {
		return "", &ExportError{Stage: "write", Err: err}
	}

	log.WithFields(logrus.Fields{"path": path, "bytes": len(data)}).Info("Exported PDF")
	return path, nil
}

// raster returns the PNG raster for report, rasterizing at most once at a time
func (e *Exporter) raster(report *model.Report) ([]byte, error) {
	key := cache.CacheKey("raster", report.ID, strconv.Itoa(e.width))

	v, err, shared := e.group.Do(key, func() (interface{}, error) {
		if data, ok := e.cache.Get(key); ok {
			util.Log.WithField("report_id", report.ID).Debug("Raster cache hit")
			return data, nil
		}

		img, err := e.rasterizer.Rasterize(report)
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode raster: %w", err)
		}
		data := buf.Bytes()
		_ = e.cache.Set(key, data, 0)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		util.Log.WithField("report_id", report.ID).Debug("Shared in-flight rasterization")
	}
	return v.([]byte), nil
}

// writeAtomic writes data to a temp file in the target directory and renames it into place
func writeAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".ideajudge-*.pdf.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
