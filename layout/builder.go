package layout

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"

	"github.com/ByLCY/interplot/chart"
)

// 以下间距沿用常见绘图库的默认值，单位为 pt。
const (
	tickLength = 3.5
	tickWidth  = 0.8
	gridWidth  = 0.8
	tickPad    = 3.5
	labelPad   = 4.0
)

// 图例间距，单位为图例字号的倍数。
const (
	legendAxesPad       = 0.5
	legendBorderPad     = 0.4
	legendHandleLength  = 2.0
	legendHandleTextPad = 0.8
	legendLabelSpacing  = 0.5
	legendCornerRadius  = 0.2
)

// Build 根据 Figure 计算绘图区、刻度、折线、标记、文字与图例的位置。
// 坐标轴范围始终取 Figure 中的固定值，不随数据缩放。
func Build(fig *chart.Figure, opts BuildOptions) (*Scene, error) {
	if fig == nil {
		return nil, fmt.Errorf("图表为空")
	}
	if opts.Typesetter == nil {
		return nil, fmt.Errorf("layout: 缺少排版后端 Typesetter")
	}
	if err := fig.Validate(); err != nil {
		return nil, err
	}
	b := &builder{fig: fig, ts: opts.Typesetter, debug: opts.Debug}
	return b.build()
}

type builder struct {
	fig   *chart.Figure
	ts    Typesetter
	debug DebugOptions
}

// measured 是测量过的一段文字。
type measured struct {
	text string
	size chart.Length
	m    TextMetrics
}

func (b *builder) measure(text string, size chart.Length) (measured, error) {
	if text == "" {
		return measured{size: size}, nil
	}
	m, err := b.ts.Measure(text, b.fig.Font, size.PT())
	if err != nil {
		return measured{}, fmt.Errorf("测量文字 %q 失败: %w", text, err)
	}
	return measured{text: text, size: size, m: m}, nil
}

func (b *builder) measureTicks(ticks []chart.Tick, size chart.Length) ([]measured, error) {
	out := make([]measured, len(ticks))
	for i, t := range ticks {
		var err error
		if out[i], err = b.measure(t.Label, size); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (b *builder) textBox(lbl measured, role string, x, y float64, rotated bool) TextBox {
	tb := TextBox{
		Content:  lbl.text,
		Role:     role,
		X:        x,
		Y:        y,
		Width:    lbl.m.Width,
		Height:   lbl.m.Height(),
		Ascent:   lbl.m.Ascent,
		FontSize: lbl.size.PT(),
		Color:    chart.Black,
		Rotated:  rotated,
	}
	if rotated {
		tb.Width, tb.Height = tb.Height, tb.Width
	}
	if b.debug.RawUnits {
		size := lbl.size
		tb.Debug = &TextBoxDebug{FontSize: &size}
	}
	return tb
}

func (b *builder) build() (*Scene, error) {
	fig := b.fig
	width, height := fig.Output.Width.MM(), fig.Output.Height.MM()
	pad := fig.Output.Pad.MM()

	s := &Scene{
		Width:      width,
		Height:     height,
		Background: fig.Background,
		Font:       fig.Font,
		Meta:       fig.Meta,
		DPI:        fig.Output.DPI,
		XAxis:      Span{Min: fig.XAxis.Min, Max: fig.XAxis.Max},
		YAxis:      Span{Min: fig.YAxis.Min, Max: fig.YAxis.Max},
	}

	xTicks := VisibleTicks(fig.XAxis)
	yTicks := VisibleTicks(fig.YAxis)
	xTickLabels, err := b.measureTicks(xTicks, fig.XAxis.TickLabelSize)
	if err != nil {
		return nil, err
	}
	yTickLabels, err := b.measureTicks(yTicks, fig.YAxis.TickLabelSize)
	if err != nil {
		return nil, err
	}
	xTitle, err := b.measure(fig.XAxis.Label, fig.XAxis.LabelSize)
	if err != nil {
		return nil, err
	}
	yTitle, err := b.measure(fig.YAxis.Label, fig.YAxis.LabelSize)
	if err != nil {
		return nil, err
	}

	tickLen, tp, lp := ptToMm(tickLength), ptToMm(tickPad), ptToMm(labelPad)
	var xTickH, yTickW, yTickH float64
	for _, l := range xTickLabels {
		xTickH = math.Max(xTickH, l.m.Height())
	}
	for _, l := range yTickLabels {
		yTickW = math.Max(yTickW, l.m.Width)
		yTickH = math.Max(yTickH, l.m.Height())
	}

	// 紧凑布局：边距由实际测量的刻度文字与坐标轴标签决定。
	left := pad + yTickW + tp + tickLen
	if yTitle.text != "" {
		left += yTitle.m.Height() + lp
	}
	bottom := pad + xTickH + tp + tickLen
	if xTitle.text != "" {
		bottom += xTitle.m.Height() + lp
	}
	top := pad + yTickH/2
	right := pad

	// x 刻度文字以刻度为中心，可能越过画布左右边缘，需要收缩绘图区。
	// 刻度位置 cx = left + u*(width-left-right) 对 left、right 都是线性的，
	// 固定一侧即可直接解出另一侧的最小边距；两侧交替求解直到不再变化。
	xSpan := fig.XAxis.Max - fig.XAxis.Min
	for pass := 0; pass < 64; pass++ {
		prevLeft, prevRight := left, right
		for i, t := range xTicks {
			u := (t.Value - fig.XAxis.Min) / xSpan
			half := xTickLabels[i].m.Width / 2
			if u < 1 {
				left = math.Max(left, (pad+half-u*(width-right))/(1-u))
			}
		}
		for i, t := range xTicks {
			u := (t.Value - fig.XAxis.Min) / xSpan
			half := xTickLabels[i].m.Width / 2
			if u > 0 {
				right = math.Max(right, width-(width-pad-half-left*(1-u))/u)
			}
		}
		if width-left-right <= 0 || (left-prevLeft < 1e-12 && right-prevRight < 1e-12) {
			break
		}
	}

	s.Frame = Rect{X: left, Y: top, Width: width - left - right, Height: height - top - bottom}
	if s.Frame.Width <= 0 || s.Frame.Height <= 0 {
		return nil, fmt.Errorf("画布 %s x %s 过小，放不下坐标轴与标签", fig.Output.Width, fig.Output.Height)
	}
	f := s.Frame

	// 网格线位于刻度处，绘制在所有元素之下。
	if fig.Grid {
		gw := ptToMm(gridWidth)
		for _, t := range xTicks {
			x := s.Transform(chart.Point{X: t.Value, Y: fig.YAxis.Min}).X
			s.Grid = append(s.Grid, Line{X1: x, Y1: f.Y, X2: x, Y2: f.Y + f.Height, Color: chart.GridGray, Width: gw})
		}
		for _, t := range yTicks {
			y := s.Transform(chart.Point{X: fig.XAxis.Min, Y: t.Value}).Y
			s.Grid = append(s.Grid, Line{X1: f.X, Y1: y, X2: f.X + f.Width, Y2: y, Color: chart.GridGray, Width: gw})
		}
	}

	// 边框
	sc, sw := fig.Spines.Color, fig.Spines.Width.MM()
	if fig.Spines.Left {
		s.Spines = append(s.Spines, Line{X1: f.X, Y1: f.Y, X2: f.X, Y2: f.Y + f.Height, Color: sc, Width: sw})
	}
	if fig.Spines.Bottom {
		s.Spines = append(s.Spines, Line{X1: f.X, Y1: f.Y + f.Height, X2: f.X + f.Width, Y2: f.Y + f.Height, Color: sc, Width: sw})
	}
	if fig.Spines.Top {
		s.Spines = append(s.Spines, Line{X1: f.X, Y1: f.Y, X2: f.X + f.Width, Y2: f.Y, Color: sc, Width: sw})
	}
	if fig.Spines.Right {
		s.Spines = append(s.Spines, Line{X1: f.X + f.Width, Y1: f.Y, X2: f.X + f.Width, Y2: f.Y + f.Height, Color: sc, Width: sw})
	}

	// 刻度与刻度文字
	tw := ptToMm(tickWidth)
	axisBottom := f.Y + f.Height
	for i, t := range xTicks {
		x := s.Transform(chart.Point{X: t.Value, Y: fig.YAxis.Min}).X
		s.Ticks = append(s.Ticks, Line{X1: x, Y1: axisBottom, X2: x, Y2: axisBottom + tickLen, Color: sc, Width: tw})
		lbl := xTickLabels[i]
		s.Texts = append(s.Texts, b.textBox(lbl, RoleXTickLabel, x-lbl.m.Width/2, axisBottom+tickLen+tp, false))
	}
	for i, t := range yTicks {
		y := s.Transform(chart.Point{X: fig.XAxis.Min, Y: t.Value}).Y
		s.Ticks = append(s.Ticks, Line{X1: f.X - tickLen, Y1: y, X2: f.X, Y2: y, Color: sc, Width: tw})
		lbl := yTickLabels[i]
		s.Texts = append(s.Texts, b.textBox(lbl, RoleYTickLabel, f.X-tickLen-tp-lbl.m.Width, y-lbl.m.Height()/2, false))
	}

	// 坐标轴标签：x 居中于刻度文字下方，y 逆时针旋转 90° 居中于刻度文字左侧。
	if xTitle.text != "" {
		y := axisBottom + tickLen + tp + xTickH + lp
		s.Texts = append(s.Texts, b.textBox(xTitle, RoleXLabel, f.X+f.Width/2-xTitle.m.Width/2, y, false))
	}
	if yTitle.text != "" {
		x := f.X - tickLen - tp - yTickW - lp - yTitle.m.Height()
		s.Texts = append(s.Texts, b.textBox(yTitle, RoleYLabel, x, f.Y+f.Height/2-yTitle.m.Width/2, true))
	}

	// 折线先画，标记叠在折线之上。
	for _, series := range fig.Series {
		st := series.Style
		pl := Polyline{
			Series: series.Label,
			Color:  st.Color,
			Width:  st.LineWidth.MM(),
			Dashes: DashPattern(st.Line, st.LineWidth),
		}
		for _, p := range series.Points {
			pl.Points = append(pl.Points, s.Transform(p))
		}
		s.Polylines = append(s.Polylines, pl)
	}
	for _, series := range fig.Series {
		for _, p := range series.Points {
			pt := s.Transform(p)
			s.Markers = append(s.Markers, Marker{
				Series: series.Label,
				Shape:  series.Style.Marker,
				X:      pt.X,
				Y:      pt.Y,
				Size:   series.Style.MarkerSize.MM(),
				Color:  series.Style.Color,
			})
		}
	}

	legend, err := b.legend(s)
	if err != nil {
		return nil, err
	}
	s.Legend = legend

	if fig.Output.Tight {
		s.crop(pad)
	}
	return s, nil
}

func (b *builder) legend(s *Scene) (*LegendBox, error) {
	lg := b.fig.Legend
	fs := lg.FontSize.MM()
	labels := make([]measured, len(b.fig.Series))
	var labelW, rowH float64
	for i, series := range b.fig.Series {
		var err error
		if labels[i], err = b.measure(series.Label, lg.FontSize); err != nil {
			return nil, err
		}
		labelW = math.Max(labelW, labels[i].m.Width)
		rowH = math.Max(rowH, labels[i].m.Height())
		rowH = math.Max(rowH, series.Style.MarkerSize.MM())
	}

	bp := legendBorderPad * fs
	handle := legendHandleLength * fs
	gap := legendHandleTextPad * fs
	spacing := legendLabelSpacing * fs
	n := float64(len(labels))
	w := 2*bp + handle + gap + labelW
	h := 2*bp + n*rowH + (n-1)*spacing

	f := s.Frame
	axesPad := legendAxesPad * fs
	x, y := f.X+axesPad, f.Y+axesPad
	switch lg.Position {
	case chart.LegendUpperRight:
		x = f.X + f.Width - axesPad - w
	case chart.LegendLowerLeft:
		y = f.Y + f.Height - axesPad - h
	case chart.LegendLowerRight:
		x = f.X + f.Width - axesPad - w
		y = f.Y + f.Height - axesPad - h
	}

	fill := lg.Fill
	box := &LegendBox{Frame: Rect{
		X:           x,
		Y:           y,
		Width:       w,
		Height:      h,
		StrokeColor: lg.BorderColor,
		StrokeWidth: lg.BorderWidth.MM(),
		FillColor:   &fill,
	}}
	if lg.Rounded {
		box.Frame.Radius = legendCornerRadius * fs
	}

	for i, series := range b.fig.Series {
		cy := y + bp + float64(i)*(rowH+spacing) + rowH/2
		hx := x + bp
		st := series.Style
		lbl := labels[i]
		box.Entries = append(box.Entries, LegendEntry{
			Series: series.Label,
			Line: Polyline{
				Series: series.Label,
				Points: []Point{{X: hx, Y: cy}, {X: hx + handle, Y: cy}},
				Color:  st.Color,
				Width:  st.LineWidth.MM(),
				Dashes: DashPattern(st.Line, st.LineWidth),
			},
			Marker: Marker{
				Series: series.Label,
				Shape:  st.Marker,
				X:      hx + handle/2,
				Y:      cy,
				Size:   st.MarkerSize.MM(),
				Color:  st.Color,
			},
			Label: b.textBox(lbl, RoleLegend, hx+handle+gap, cy-lbl.m.Height()/2, false),
		})
	}
	return box, nil
}

// Transform 将数据坐标映射到画布坐标（mm），使用固定的坐标轴范围。
func (s *Scene) Transform(p chart.Point) Point {
	f := s.Frame
	return Point{
		X: f.X + (p.X-s.XAxis.Min)/(s.XAxis.Max-s.XAxis.Min)*f.Width,
		Y: f.Y + f.Height - (p.Y-s.YAxis.Min)/(s.YAxis.Max-s.YAxis.Min)*f.Height,
	}
}

// VisibleTicks 返回坐标轴范围内的刻度。未显式给出刻度时使用 gonum/plot 的默认刻度（仅主刻度）。
func VisibleTicks(ax chart.Axis) []chart.Tick {
	ticks := ax.Ticks
	if len(ticks) == 0 {
		for _, t := range (plot.DefaultTicks{}).Ticks(ax.Min, ax.Max) {
			if t.IsMinor() {
				continue
			}
			ticks = append(ticks, chart.Tick{Value: t.Value, Label: t.Label})
		}
	}
	const eps = 1e-9
	out := make([]chart.Tick, 0, len(ticks))
	for _, t := range ticks {
		if t.Value < ax.Min-eps || t.Value > ax.Max+eps {
			continue
		}
		out = append(out, t)
	}
	return out
}

// DashPattern 返回线型对应的虚线长度（mm），随线宽等比缩放；实线返回 nil。
func DashPattern(style chart.LineStyle, width chart.Length) []float64 {
	lw := width.MM()
	switch style {
	case chart.LineDashed:
		return []float64{3.7 * lw, 1.6 * lw}
	case chart.LineDotted:
		return []float64{1 * lw, 1.65 * lw}
	default:
		return nil
	}
}

func ptToMm(v float64) float64 { return v * chart.PtToMm }
