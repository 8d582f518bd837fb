package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ppiankov/ideajudge/internal/model"
)

// Rasterizer turns a report into one tall image. Pagination is independent
// of how the image is produced.
type Rasterizer interface {
	Rasterize(report *model.Report) (image.Image, error)
}

// MinRasterWidth is the narrowest raster the text layout supports
const MinRasterWidth = 320

var (
	colorText    = color.RGBA{0x1f, 0x29, 0x37, 0xff}
	colorHeading = color.RGBA{0x1e, 0x3a, 0x8a, 0xff}
	colorMuted   = color.RGBA{0x6b, 0x72, 0x80, 0xff}
	colorBar     = color.RGBA{0x25, 0x63, 0xeb, 0xff}
	colorTrack   = color.RGBA{0xe5, 0xe7, 0xeb, 0xff}
)

// TextRasterizer draws the report as headings, wrapped paragraphs and score bars
type TextRasterizer struct {
	mu      sync.Mutex // font.Face is not safe for concurrent use
	width   int
	face    font.Face
	padding int
	line    int
	ascent  int
}

// NewTextRasterizer creates a rasterizer. An empty fontPath uses the built-in
// bitmap face, which has no CJK glyphs; configure a CJK font for real reports.
func NewTextRasterizer(width int, fontPath string, size float64) (*TextRasterizer, error) {
	if width < MinRasterWidth {
		return nil, fmt.Errorf("raster width %d below minimum %d", width, MinRasterWidth)
	}

	var face font.Face = basicfont.Face7x13
	if fontPath != "" {
		loaded, err := loadFace(fontPath, size)
		if err != nil {
			return nil, err
		}
		face = loaded
	}

	m := face.Metrics()
	return &TextRasterizer{
		width:   width,
		face:    face,
		padding: width / 24,
		line:    m.Height.Ceil() + m.Height.Ceil()/3,
		ascent:  m.Ascent.Ceil(),
	}, nil
}

func loadFace(path string, size float64) (font.Face, error) {
	if size <= 0 {
		size = 16
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}

	f, err := opentype.Parse(data)
	if err != nil {
		// CJK fonts often ship as collections
		coll, cerr := opentype.ParseCollection(data)
		if cerr != nil {
			return nil, fmt.Errorf("parse font %s: %w", path, err)
		}
		if f, err = coll.Font(0); err != nil {
			return nil, fmt.Errorf("parse font %s: %w", path, err)
		}
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}

type blockKind int

const (
	blockHeading blockKind = iota
	blockText
	blockMuted
	blockBar
	blockGap
)

type block struct {
	kind  blockKind
	text  string
	value float64
	max   float64
}

// op is a positioned drawing instruction
type op struct {
	block
	y int
}

// Rasterize lays out and draws report
func (r *TextRasterizer) Rasterize(report *model.Report) (image.Image, error) {
	if report == nil {
		return nil, fmt.Errorf("nil report")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ops, height := r.layout(reportBlocks(report))

	img := image.NewRGBA(image.Rect(0, 0, r.width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	for _, o := range ops {
		switch o.kind {
		case blockHeading:
			r.drawText(img, o.text, o.y, colorHeading)
		case blockText:
			r.drawText(img, o.text, o.y, colorText)
		case blockMuted:
			r.drawText(img, o.text, o.y, colorMuted)
		case blockBar:
			r.drawBar(img, o)
		}
	}
	return img, nil
}

func (r *TextRasterizer) layout(blocks []block) ([]op, int) {
	maxWidth := fixed.I(r.width - 2*r.padding)
	y := r.padding

	var ops []op
	for _, b := range blocks {
		switch b.kind {
		case blockGap:
			y += r.line / 2
		case blockBar:
			ops = append(ops, op{block: b, y: y})
			y += r.line
		default:
			if b.kind == blockHeading {
				y += r.line / 2
			}
			for _, line := range r.wrap(b.text, maxWidth) {
				ops = append(ops, op{block: block{kind: b.kind, text: line}, y: y})
				y += r.line
			}
		}
	}
	return ops, y + r.padding
}

// wrap breaks text at rune granularity, which suits CJK text without spaces
func (r *TextRasterizer) wrap(text string, maxWidth fixed.Int26_6) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		var line []rune
		var w fixed.Int26_6
		for _, c := range para {
			adv, ok := r.face.GlyphAdvance(c)
			if !ok {
				adv, _ = r.face.GlyphAdvance('?')
			}
			if w+adv > maxWidth && len(line) > 0 {
				lines = append(lines, string(line))
				line = line[:0]
				w = 0
			}
			line = append(line, c)
			w += adv
		}
		lines = append(lines, string(line))
	}
	return lines
}

func (r *TextRasterizer) drawText(img *image.RGBA, text string, y int, c color.Color) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: r.face,
		Dot:  fixed.P(r.padding, y+r.ascent),
	}
	d.DrawString(text)
}

// drawBar draws "label  score/max" followed by a proportional bar
func (r *TextRasterizer) drawBar(img *image.RGBA, o op) {
	label := fmt.Sprintf("%s %g/%g", o.text, o.value, o.max)
	r.drawText(img, label, o.y, colorText)

	left := r.padding + (r.width-2*r.padding)*2/5
	right := r.width - r.padding
	top := o.y + r.line/5
	bottom := o.y + r.line*4/5

	draw.Draw(img, image.Rect(left, top, right, bottom), image.NewUniform(colorTrack), image.Point{}, draw.Src)

	fill := 0.0
	if o.max > 0 {
		fill = o.value / o.max
	}
	if fill > 1 {
		fill = 1
	}
	if fill > 0 {
		w := int(float64(right-left) * fill)
		draw.Draw(img, image.Rect(left, top, left+w, bottom), image.NewUniform(colorBar), image.Point{}, draw.Src)
	}
}

// reportBlocks is the document outline of a report
func reportBlocks(report *model.Report) []block {
	res := &report.Result
	var bs []block
	add := func(kind blockKind, text string) {
		if strings.TrimSpace(text) != "" {
			bs = append(bs, block{kind: kind, text: text})
		}
	}

	add(blockHeading, report.Idea.Title)
	add(blockMuted, fmt.Sprintf("%s · %s · %s", report.Idea.Track, report.Idea.Category, report.CreatedAt.Format("2006-01-02")))
	add(blockText, fmt.Sprintf("综合得分 %g / 100", res.OverallScore))
	bs = append(bs, block{kind: blockGap})

	add(blockHeading, "五维评估")
	for _, key := range model.DimensionKeys {
		d, _ := res.Dimensions.Get(key)
		bs = append(bs, block{kind: blockBar, text: key.Label(), value: d.Score, max: d.MaxScore})
	}

	for _, key := range model.DimensionKeys {
		d, _ := res.Dimensions.Get(key)
		add(blockHeading, fmt.Sprintf("%s（%g/%g）", key.Label(), d.Score, d.MaxScore))
		for _, p := range d.ScoringPoints {
			add(blockText, "• "+p)
		}
		if d.HasBridge() {
			add(blockText, "桥接策略："+d.BridgeStrategy)
		} else {
			add(blockText, "不足："+d.Weakness)
			add(blockText, "改进："+d.Improvement)
		}
	}

	if len(res.TopicPivots) > 0 {
		add(blockHeading, "选题升维建议")
		for i, p := range res.TopicPivots {
			add(blockText, fmt.Sprintf("%d. %s", i+1, p.NewTitle))
			add(blockMuted, p.Logic)
			add(blockMuted, p.Potential)
		}
	}

	impl := &res.Implementation
	add(blockHeading, "落地方案")
	if impl.PainPoint != "" {
		add(blockText, "痛点："+impl.PainPoint)
	}
	if len(impl.Scenarios) > 0 {
		add(blockHeading, "应用场景")
		for _, s := range impl.Scenarios {
			add(blockText, "• "+strings.TrimSuffix(s.Scenario+"："+s.ProblemSolved, "："))
		}
	}
	if len(impl.TechnicalBreakdown) > 0 {
		add(blockHeading, "技术诊断")
		for _, t := range impl.TechnicalBreakdown {
			line := t.Issue
			if t.Component != "" {
				line = t.Component + "：" + line
			}
			if t.Optimization != "" {
				line += " → " + t.Optimization
			}
			add(blockText, "• "+line)
		}
	}
	if impl.ResearchRoadmap != "" {
		add(blockText, "研究路线："+impl.ResearchRoadmap)
	}

	biz := &impl.Business
	add(blockHeading, "商业框架")
	add(blockText, biz.Framework)
	addList := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		add(blockText, title+"：")
		for _, item := range items {
			add(blockText, "• "+item)
		}
	}
	addList("盈利模式", biz.RevenueModels)
	if biz.OperationLogic != "" {
		add(blockText, "运营逻辑："+biz.OperationLogic)
	}
	addList("对标案例", biz.Benchmarks)
	addList("竞争优势", biz.Advantages)
	if biz.MarketProspect != "" {
		add(blockText, "市场前景："+biz.MarketProspect)
	}
	if biz.CompetitiveMoat != "" {
		add(blockText, "竞争壁垒："+biz.CompetitiveMoat)
	}

	add(blockHeading, "专家点评")
	add(blockText, res.ExpertComment)

	return bs
}
