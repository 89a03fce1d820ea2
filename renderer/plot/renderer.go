// Package plotrenderer 使用 gonum.org/v1/plot 渲染同一张图表，作为 canvas 后端之外的备选实现。
// 它不经过 layout 包：坐标轴、刻度与图例交给 gonum 自己排布，只复用刻度与线型的约定。
package plotrenderer

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/ByLCY/interplot/chart"
	"github.com/ByLCY/interplot/fonts"
	"github.com/ByLCY/interplot/layout"
	"github.com/ByLCY/interplot/renderer"
)

// 与 canvas 后端一致的刻度与图例间距（pt，图例按字号倍数）。
const (
	tickLength   = 3.5
	tickWidth    = 0.8
	gridWidth    = 0.8
	labelPad     = 4
	axesPad      = 0.5
	borderPad    = 0.4
	handleLength = 2.0
	labelSpacing = 0.5
)

// Renderer draws figures with gonum/plot.
type Renderer struct {
	fontOpts fonts.Options

	mu    sync.Mutex
	faces map[string]fonts.Face
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer creates a gonum/plot renderer. system 为 true 时允许使用宿主机字体。
func NewRenderer(system bool, dirs ...string) *Renderer {
	return &Renderer{
		fontOpts: fonts.Options{System: system, SearchDirs: dirs},
		faces:    map[string]fonts.Face{},
	}
}

// Render 构建 plot.Plot 并按 format 编码。Tight 裁剪不适用于该后端，画布始终为 Output 尺寸。
func (r *Renderer) Render(fig *chart.Figure, format renderer.Format) ([]byte, error) {
	if fig == nil {
		return nil, renderer.NewRenderError(renderer.OpInit, "", fmt.Errorf("图表为空"))
	}
	face, err := r.face(fig.Font)
	if err != nil {
		return nil, renderer.NewRenderError(renderer.OpInit, "", err)
	}
	if err := fig.Validate(); err != nil {
		return nil, renderer.NewRenderError(renderer.OpDraw, "", err)
	}
	p, err := Plot(fig, face)
	if err != nil {
		return nil, renderer.NewRenderError(renderer.OpDraw, "", err)
	}

	w := vg.Points(fig.Output.Width.PT())
	h := vg.Points(fig.Output.Height.PT())
	var wt io.WriterTo
	switch format {
	case renderer.FormatPNG, "":
		c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(int(fig.Output.DPI)), vgimg.UseBackgroundColor(fig.Background))
		p.Draw(draw.New(c))
		wt = vgimg.PngCanvas{Canvas: c}
	case renderer.FormatPDF:
		c := vgpdf.New(w, h)
		c.EmbedFonts(true)
		p.Draw(draw.New(c))
		wt = c
	case renderer.FormatSVG:
		c := vgsvg.New(w, h)
		p.Draw(draw.New(c))
		wt = c
	default:
		return nil, renderer.NewRenderError(renderer.OpEncode, "", fmt.Errorf("不支持的输出格式 %q", format))
	}

	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, renderer.NewRenderError(renderer.OpEncode, "", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) face(spec chart.FontSpec) (fonts.Face, error) {
	key := fmt.Sprint(spec.Candidates())
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.faces[key]; ok {
		return f, nil
	}
	f, err := fonts.Resolve(spec.Candidates(), r.fontOpts)
	if err != nil {
		return fonts.Face{}, err
	}
	r.faces[key] = f
	return f, nil
}

// Plot 把图表转换为 gonum 的 plot.Plot；face 为已解析的字体。
func Plot(fig *chart.Figure, face fonts.Face) (*plot.Plot, error) {
	typeface := font.Font{Typeface: font.Typeface(face.Family)}
	cache := font.NewCache(font.Collection{{Font: typeface, Face: face.Font}})
	hdlr := text.Plain{Fonts: cache}
	style := func(size chart.Length) text.Style {
		return text.Style{Color: chart.Black, Font: font.From(typeface, vg.Points(size.PT())), Handler: hdlr}
	}

	p := plot.New()
	p.TextHandler = hdlr
	p.BackgroundColor = fig.Background
	p.Title.TextStyle.Handler = hdlr
	p.Title.TextStyle.Font = font.From(typeface, 12)

	configureAxis(&p.X, fig.XAxis, fig.Spines.Bottom, fig.Spines, style)
	configureAxis(&p.Y, fig.YAxis, fig.Spines.Left, fig.Spines, style)

	if fig.Grid {
		grid := plotter.NewGrid()
		grid.Horizontal.Color = chart.GridGray
		grid.Horizontal.Width = vg.Points(gridWidth)
		grid.Vertical.Width = grid.Horizontal.Width
		grid.Vertical.Color = grid.Horizontal.Color
		p.Add(grid)
	}
	p.Add(&spines{top: fig.Spines.Top, right: fig.Spines.Right, style: spineStyle(fig.Spines)})

	legendSize := fig.Legend.FontSize.PT()
	p.Legend.TextStyle = style(fig.Legend.FontSize)
	p.Legend.ThumbnailWidth = vg.Points(handleLength * legendSize)
	p.Legend.Padding = vg.Points(labelSpacing * legendSize)
	p.Legend.YPosition = draw.PosCenter
	p.Legend.Top = fig.Legend.Position == chart.LegendUpperLeft || fig.Legend.Position == chart.LegendUpperRight || fig.Legend.Position == ""
	p.Legend.Left = fig.Legend.Position == chart.LegendUpperLeft || fig.Legend.Position == chart.LegendLowerLeft || fig.Legend.Position == ""
	inset := vg.Points((axesPad + borderPad) * legendSize)
	p.Legend.XOffs, p.Legend.YOffs = inset, -inset
	if !p.Legend.Left {
		p.Legend.XOffs = -inset
	}
	if !p.Legend.Top {
		p.Legend.YOffs = inset
	}

	frame := &legendFrame{legend: &p.Legend, pad: vg.Points(borderPad * legendSize), cfg: fig.Legend}

	for _, s := range fig.Series {
		xys := make(plotter.XYs, len(s.Points))
		for i, pt := range s.Points {
			xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("折线 %q: %w", s.Label, err)
		}
		line.LineStyle = draw.LineStyle{Color: s.Style.Color, Width: vg.Points(s.Style.LineWidth.PT())}
		for _, d := range layout.DashPattern(s.Style.Line, s.Style.LineWidth) {
			line.LineStyle.Dashes = append(line.LineStyle.Dashes, vg.Length(d)*vg.Millimeter)
		}
		points, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("折线 %q: %w", s.Label, err)
		}
		points.GlyphStyle = draw.GlyphStyle{
			Color:  s.Style.Color,
			Radius: vg.Points(s.Style.MarkerSize.PT() / 2),
			Shape:  glyph(s.Style.Marker),
		}
		p.Add(line, points)
		p.Legend.Add(s.Label, line, points)
		frame.labels = append(frame.labels, s.Label)
	}
	// 图例底色盖住折线，图例条目随后由 p.Legend 绘制。
	p.Add(frame)

	// plot.Add 会按数据扩展坐标范围，这里恢复为固定范围。
	p.X.Min, p.X.Max = fig.XAxis.Min, fig.XAxis.Max
	p.Y.Min, p.Y.Max = fig.YAxis.Min, fig.YAxis.Max
	return p, nil
}

func configureAxis(a *plot.Axis, ax chart.Axis, visible bool, sp chart.Spines, style func(chart.Length) text.Style) {
	a.Min, a.Max = ax.Min, ax.Max
	a.Padding = 0
	a.LineStyle = spineStyle(sp)
	if !visible {
		a.LineStyle.Width = 0
	}
	a.Label.Text = ax.Label
	a.Label.TextStyle = style(ax.LabelSize)
	a.Label.Padding = vg.Points(labelPad)
	a.Tick.Label = style(ax.TickLabelSize)
	a.Tick.Length = vg.Points(tickLength)
	a.Tick.LineStyle = draw.LineStyle{Color: chart.Black, Width: vg.Points(tickWidth)}
	a.Tick.Marker = ticks(layout.VisibleTicks(ax))
}

// ticks 把刻度转换为固定刻度，空标签用数值代替，避免被 gonum 当作次刻度。
func ticks(ts []chart.Tick) plot.ConstantTicks {
	out := make(plot.ConstantTicks, 0, len(ts))
	for _, t := range ts {
		label := t.Label
		if label == "" {
			label = fmt.Sprint(t.Value)
		}
		out = append(out, plot.Tick{Value: t.Value, Label: label})
	}
	return out
}

func spineStyle(sp chart.Spines) draw.LineStyle {
	return draw.LineStyle{Color: sp.Color, Width: vg.Points(sp.Width.PT())}
}

func glyph(m chart.Marker) draw.GlyphDrawer {
	switch m {
	case chart.MarkerSquare:
		return draw.BoxGlyph{}
	case chart.MarkerTriangle:
		return draw.PyramidGlyph{}
	default:
		return draw.CircleGlyph{}
	}
}

// spines 绘制 gonum 坐标轴不负责的上边框与右边框。
type spines struct {
	top, right bool
	style      draw.LineStyle
}

func (s *spines) Plot(c draw.Canvas, _ *plot.Plot) {
	if s.style.Width <= 0 {
		return
	}
	if s.top {
		c.StrokeLine2(s.style, c.Min.X, c.Max.Y, c.Max.X, c.Max.Y)
	}
	if s.right {
		c.StrokeLine2(s.style, c.Max.X, c.Min.Y, c.Max.X, c.Max.Y)
	}
}

// legendFrame 在图例条目下方绘制边框与底色，位置按 plot.Legend.Draw 的排布规则计算。
type legendFrame struct {
	legend *plot.Legend
	pad    vg.Length
	cfg    chart.Legend
	labels []string
}

func (f *legendFrame) Plot(c draw.Canvas, _ *plot.Plot) {
	if len(f.labels) == 0 {
		return
	}
	r := f.rect(c)
	path := r.Path()

	c.SetColor(f.cfg.Fill)
	c.Fill(path)
	if f.cfg.BorderWidth.IsZero() {
		return
	}
	c.SetLineStyle(draw.LineStyle{Color: f.cfg.BorderColor, Width: vg.Points(f.cfg.BorderWidth.PT())})
	c.Stroke(path)
}

func (f *legendFrame) rect(c draw.Canvas) vg.Rectangle {
	l := f.legend
	sty := l.TextStyle
	em := sty.Rectangle(" ").Max.X

	var enth, textW vg.Length
	for _, lbl := range f.labels {
		rc := sty.Rectangle(lbl)
		enth = max(enth, rc.Max.Y)
		textW = max(textW, rc.Max.X)
	}
	n := vg.Length(len(f.labels))
	descent := sty.FontExtents().Descent

	firstY := c.Max.Y - enth - descent
	if !l.Top {
		firstY = c.Min.Y + (enth+l.Padding)*(n-1)
	}
	firstY += l.YOffs
	top := firstY + enth
	bottom := firstY - (enth+l.Padding)*(n-1)

	var left, right vg.Length
	if l.Left {
		left = c.Min.X + l.XOffs
		right = left + l.ThumbnailWidth + em + textW
	} else {
		right = c.Max.X + l.XOffs
		left = right - l.ThumbnailWidth - em - textW
	}
	return vg.Rectangle{
		Min: vg.Point{X: left - f.pad, Y: bottom - f.pad},
		Max: vg.Point{X: right + f.pad, Y: top + f.pad},
	}
}
