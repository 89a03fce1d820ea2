package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/interplot/chart"
	"github.com/ByLCY/interplot/fonts"
	"github.com/ByLCY/interplot/layout"
	"github.com/ByLCY/interplot/renderer"
)

// Renderer draws figures via github.com/tdewolff/canvas.
type Renderer struct {
	fontOpts fonts.Options

	fontMu       sync.Mutex
	fontFamilies map[string]*fontFamilyEntry
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Typesetter = (*Renderer)(nil)
)

type fontFamilyEntry struct {
	family *canvas.FontFamily
	source string
}

// Options configures the canvas renderer.
type Options struct {
	SystemFonts bool     // 允许使用宿主机字体，关闭时输出与宿主机无关
	FontDirs    []string // 系统字体目录，为空时使用平台默认目录
}

// NewRenderer creates a canvas-based renderer that only uses embedded fonts.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer with the given font lookup options.
func NewRendererWithOptions(opts Options) *Renderer {
	return &Renderer{
		fontOpts:     fonts.Options{System: opts.SystemFonts, SearchDirs: opts.FontDirs},
		fontFamilies: map[string]*fontFamilyEntry{},
	}
}

// Layout 计算图表布局，CLI 的 --debug 用它导出场景 JSON。
func (r *Renderer) Layout(fig *chart.Figure, debug layout.DebugOptions) (*layout.Scene, error) {
	return layout.Build(fig, layout.BuildOptions{Typesetter: r, Debug: debug})
}

// FontSource 返回该字体描述实际解析到的来源，例如 "embed:Liberation Serif"。
func (r *Renderer) FontSource(spec chart.FontSpec) (string, error) {
	entry, err := r.ensureFontFamily(spec)
	if err != nil {
		return "", err
	}
	return entry.source, nil
}

// Render 渲染图表并按 format 编码。
func (r *Renderer) Render(fig *chart.Figure, format renderer.Format) ([]byte, error) {
	if fig == nil {
		return nil, renderer.NewRenderError(renderer.OpInit, "", fmt.Errorf("图表为空"))
	}
	if _, err := r.ensureFontFamily(fig.Font); err != nil {
		return nil, renderer.NewRenderError(renderer.OpInit, "", err)
	}
	scene, err := r.Layout(fig, layout.DebugOptions{})
	if err != nil {
		return nil, renderer.NewRenderError(renderer.OpDraw, "", err)
	}

	c := canvas.New(scene.Width, scene.Height)
	ctx := canvas.NewContext(c)
	if err := r.drawScene(ctx, scene); err != nil {
		return nil, renderer.NewRenderError(renderer.OpDraw, "", err)
	}

	data, err := encode(c, scene, format)
	if err != nil {
		return nil, renderer.NewRenderError(renderer.OpEncode, "", err)
	}
	return data, nil
}

func encode(c *canvas.Canvas, scene *layout.Scene, format renderer.Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case renderer.FormatPNG, "":
		img := rasterizer.Draw(c, canvas.DPI(scene.DPI), canvas.DefaultColorSpace)
		if err := png.Encode(&buf, flatten(img, scene.Background)); err != nil {
			return nil, fmt.Errorf("写入 PNG 失败: %w", err)
		}
	case renderer.FormatPDF:
		writer := pdf.New(&buf, scene.Width, scene.Height, nil)
		applyMeta(writer, scene.Meta)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	case renderer.FormatSVG:
		writer := svg.New(&buf, scene.Width, scene.Height, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 SVG 失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的输出格式 %q", format)
	}
	return buf.Bytes(), nil
}

// flatten 将栅格结果合成到不透明背景上，输出不带 alpha。
// 背景本身带透明度时保留 alpha 通道。
func flatten(src image.Image, bg chart.Color) image.Image {
	base := bg.NRGBA()
	if base.A != 255 {
		return src
	}
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, &image.Uniform{C: base}, image.Point{}, draw.Src)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Over)
	return dst
}

func applyMeta(writer *pdf.PDF, meta chart.Meta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

// Measure 实现 layout.Typesetter 接口：返回单行文字的宽度与上升/下降部（mm）。
func (r *Renderer) Measure(content string, font chart.FontSpec, sizePt float64) (layout.TextMetrics, error) {
	face, err := r.fontFace(font, sizePt, chart.Black)
	if err != nil {
		return layout.TextMetrics{}, err
	}
	m := face.Metrics()
	return layout.TextMetrics{
		Width:   face.TextWidth(content),
		Ascent:  m.Ascent,
		Descent: m.Descent,
	}, nil
}

func (r *Renderer) fontFace(spec chart.FontSpec, sizePt float64, col chart.Color) (*canvas.FontFace, error) {
	entry, err := r.ensureFontFamily(spec)
	if err != nil {
		return nil, err
	}
	return entry.family.Face(sizePt, col, canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(spec chart.FontSpec) (*fontFamilyEntry, error) {
	candidates := spec.Candidates()
	key := strings.Join(candidates, "|")
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if entry, ok := r.fontFamilies[key]; ok {
		return entry, nil
	}
	face, err := fonts.Resolve(candidates, r.fontOpts)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily(face.Family)
	if err := family.LoadFont(face.Data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", face.Source, err)
	}
	entry := &fontFamilyEntry{family: family, source: face.Source}
	r.fontFamilies[key] = entry
	return entry, nil
}
