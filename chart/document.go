package chart

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/interplot/binding"
	"github.com/ByLCY/interplot/dsl"
)

// FromDocument 根据图表描述文件的 AST 构建 Figure。
// 所有字符串都会经过 binding.Interpolate，data 为 --data 传入的 JSON。
// 未声明的样式沿用 Figure2 的 APA 默认值。
func FromDocument(doc *dsl.Document, data any) (*Figure, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	b := &docBuilder{
		data:   data,
		fonts:  map[string]FontSpec{},
		colors: map[string]Color{},
	}
	fig := baseFigure()
	fig.Name = doc.Name

	var plot *dsl.PlotSection
	for _, sec := range doc.Sections {
		switch {
		case sec.Meta != nil:
			b.meta(sec.Meta, &fig.Meta)
		case sec.Resources != nil:
			if err := b.resources(sec.Resources); err != nil {
				return nil, err
			}
		case sec.Plot != nil:
			if plot != nil {
				return nil, fmt.Errorf("只支持一个 plot 段落")
			}
			plot = sec.Plot
		}
	}
	if plot == nil {
		return nil, fmt.Errorf("文档中缺少 plot 段落")
	}
	if err := b.plot(plot, fig); err != nil {
		return nil, err
	}
	return fig, nil
}

// baseFigure 返回只保留样式默认值的 Figure2。
func baseFigure() *Figure {
	fig := Figure2()
	fig.Meta = Meta{}
	fig.Series = nil
	fig.XAxis.Label, fig.XAxis.Ticks = "", nil
	fig.YAxis.Label, fig.YAxis.Ticks = "", nil
	return fig
}

type docBuilder struct {
	data   any
	fonts  map[string]FontSpec
	colors map[string]Color
}

func (b *docBuilder) expand(s string) string {
	return binding.Interpolate(s, b.data)
}

func (b *docBuilder) text(v *dsl.Value) string {
	s, _ := v.Text()
	return b.expand(s)
}

func (b *docBuilder) texts(v *dsl.Value) []string {
	items := v.Strings()
	for i := range items {
		items[i] = b.expand(items[i])
	}
	return items
}

func (b *docBuilder) meta(block *dsl.Block, m *Meta) {
	attrs := block.Assignments()
	if v, ok := attrs["title"]; ok {
		m.Title = b.text(v)
	}
	if v, ok := attrs["author"]; ok {
		m.Author = b.text(v)
	}
	if v, ok := attrs["subject"]; ok {
		m.Subject = b.text(v)
	}
	if v, ok := attrs["creator"]; ok {
		m.Creator = b.text(v)
	}
	if v, ok := attrs["keywords"]; ok {
		m.Keywords = b.texts(v)
	}
}

func (b *docBuilder) resources(block *dsl.Block) error {
	for _, cmd := range block.Commands("font") {
		name := cmd.Arg(0)
		if name == "" {
			return fmt.Errorf("font 资源缺少名称")
		}
		attrs := cmd.Block.Assignments()
		spec := FontSpec{Family: name}
		if v, ok := attrs["family"]; ok {
			spec.Family = b.text(v)
		}
		if v, ok := attrs["fallback"]; ok {
			spec.Fallback = b.texts(v)
		}
		b.fonts[name] = spec
	}
	for _, cmd := range block.Commands("color") {
		// color Name = #RRGGBB
		name := cmd.Arg(0)
		raw := cmd.Arg(len(cmd.Args) - 1)
		if name == "" || len(cmd.Args) < 2 {
			return fmt.Errorf("color 资源格式应为 color Name = #RRGGBB")
		}
		c, err := ParseColor(raw)
		if err != nil {
			return fmt.Errorf("color 资源 %s: %w", name, err)
		}
		b.colors[name] = c
	}
	return nil
}

func (b *docBuilder) color(v *dsl.Value) (Color, error) {
	s, ok := v.Text()
	if !ok {
		return Color{}, fmt.Errorf("缺少颜色值")
	}
	if c, ok := b.colors[s]; ok {
		return c, nil
	}
	return ParseColor(s)
}

func (b *docBuilder) plot(sec *dsl.PlotSection, fig *Figure) error {
	if err := b.plotSpec(sec.Params, &fig.Output); err != nil {
		return err
	}
	if sec.Block == nil {
		return fmt.Errorf("plot 段落缺少内容")
	}
	attrs := sec.Block.Assignments()
	if v, ok := attrs["output"]; ok {
		fig.Output.Path = b.text(v)
	}
	if v, ok := attrs["pad"]; ok {
		l, err := length(v)
		if err != nil {
			return fmt.Errorf("pad: %w", err)
		}
		fig.Output.Pad = l
	}
	if v, ok := attrs["tight"]; ok {
		fig.Output.Tight = truthy(v)
	}
	if v, ok := attrs["grid"]; ok {
		fig.Grid = truthy(v)
	}
	if v, ok := attrs["background"]; ok {
		c, err := b.color(v)
		if err != nil {
			return fmt.Errorf("background: %w", err)
		}
		fig.Background = c
	}
	if v, ok := attrs["font"]; ok {
		name := b.text(v)
		if spec, ok := b.fonts[name]; ok {
			fig.Font = spec
		} else {
			fig.Font = FontSpec{Family: name, Fallback: append([]string(nil), SerifFallback...)}
		}
	}

	for _, cmd := range sec.Block.Commands("axis") {
		var ax *Axis
		switch strings.ToLower(cmd.Arg(0)) {
		case "x":
			ax = &fig.XAxis
		case "y":
			ax = &fig.YAxis
		default:
			return fmt.Errorf("未知坐标轴 %q（仅支持 x/y）", cmd.Arg(0))
		}
		if err := b.axis(cmd.Block, ax); err != nil {
			return fmt.Errorf("axis %s: %w", cmd.Arg(0), err)
		}
	}

	for _, cmd := range sec.Block.Commands("series") {
		s, err := b.series(cmd, fig)
		if err != nil {
			return fmt.Errorf("series %q: %w", cmd.Arg(0), err)
		}
		fig.Series = append(fig.Series, s)
	}

	for _, cmd := range sec.Block.Commands("legend") {
		if err := b.legend(cmd.Block, &fig.Legend); err != nil {
			return fmt.Errorf("legend: %w", err)
		}
	}
	for _, cmd := range sec.Block.Commands("spines") {
		if err := b.spines(cmd.Block, &fig.Spines); err != nil {
			return fmt.Errorf("spines: %w", err)
		}
	}
	return nil
}

// plotSpec 解析 `plot 8in 6in dpi 300` 头部。
func (b *docBuilder) plotSpec(params []*dsl.Lexeme, out *Output) error {
	var sizes []Length
	for i := 0; i < len(params); i++ {
		p := params[i]
		if strings.EqualFold(p.Value, "dpi") {
			if i+1 >= len(params) {
				return fmt.Errorf("dpi 缺少数值")
			}
			dpi, err := strconv.ParseFloat(params[i+1].Value, 64)
			if err != nil {
				return fmt.Errorf("无效的 dpi %q", params[i+1].Value)
			}
			out.DPI = dpi
			i++
			continue
		}
		l, ok := ParseLength(p.Value)
		if !ok {
			return fmt.Errorf("无法解析 plot 参数 %q", p.Value)
		}
		sizes = append(sizes, l)
	}
	switch len(sizes) {
	case 0:
	case 2:
		out.Width, out.Height = sizes[0], sizes[1]
	default:
		return fmt.Errorf("plot 尺寸应为 <宽> <高>，得到 %d 个值", len(sizes))
	}
	return nil
}

func (b *docBuilder) axis(block *dsl.Block, ax *Axis) error {
	attrs := block.Assignments()
	if v, ok := attrs["label"]; ok {
		ax.Label = b.text(v)
	}
	if v, ok := attrs["label-size"]; ok {
		l, err := length(v)
		if err != nil {
			return err
		}
		ax.LabelSize = l
	}
	if v, ok := attrs["tick-label-size"]; ok {
		l, err := length(v)
		if err != nil {
			return err
		}
		ax.TickLabelSize = l
	}
	if v, ok := attrs["limits"]; ok {
		lim, err := v.Floats(b.expand)
		if err != nil {
			return fmt.Errorf("limits: %w", err)
		}
		if len(lim) != 2 {
			return fmt.Errorf("limits 需要两个值，得到 %d 个", len(lim))
		}
		ax.Min, ax.Max = lim[0], lim[1]
	}
	var values []float64
	if v, ok := attrs["ticks"]; ok {
		var err error
		if values, err = v.Floats(b.expand); err != nil {
			return fmt.Errorf("ticks: %w", err)
		}
	}
	var labels []string
	if v, ok := attrs["tick-labels"]; ok {
		labels = b.texts(v)
	}
	if len(values) > 0 || len(labels) > 0 {
		if len(values) == 0 {
			for i := range labels {
				values = append(values, float64(i))
			}
		}
		if len(labels) != 0 && len(labels) != len(values) {
			return fmt.Errorf("ticks 与 tick-labels 数量不一致: %d != %d", len(values), len(labels))
		}
		ax.Ticks = make([]Tick, len(values))
		for i, val := range values {
			label := strconv.FormatFloat(val, 'f', -1, 64)
			if len(labels) != 0 {
				label = labels[i]
			}
			ax.Ticks[i] = Tick{Value: val, Label: label}
		}
	}
	return nil
}

func (b *docBuilder) series(cmd *dsl.Command, fig *Figure) (Series, error) {
	attrs := cmd.Block.Assignments()
	s := Series{
		Label: b.expand(cmd.Arg(0)),
		Style: SeriesStyle{
			Line:       LineSolid,
			Marker:     MarkerCircle,
			Color:      Black,
			LineWidth:  Pt(2),
			MarkerSize: Pt(10),
		},
	}
	s.Name = s.Label
	if v, ok := attrs["name"]; ok {
		s.Name = b.text(v)
	}

	v, ok := attrs["y"]
	if !ok {
		return Series{}, fmt.Errorf("缺少 y 值")
	}
	ys, err := v.Floats(b.expand)
	if err != nil {
		return Series{}, fmt.Errorf("y: %w", err)
	}
	var xs []float64
	if v, ok := attrs["x"]; ok {
		if xs, err = v.Floats(b.expand); err != nil {
			return Series{}, fmt.Errorf("x: %w", err)
		}
	} else {
		// 默认与 x 轴刻度对齐；没有刻度时使用 0..n-1。
		for i := range ys {
			if i < len(fig.XAxis.Ticks) {
				xs = append(xs, fig.XAxis.Ticks[i].Value)
			} else {
				xs = append(xs, float64(i))
			}
		}
	}
	if len(xs) != len(ys) {
		return Series{}, fmt.Errorf("x 与 y 数量不一致: %d != %d", len(xs), len(ys))
	}
	for i := range ys {
		s.Points = append(s.Points, Point{X: xs[i], Y: ys[i]})
	}

	if v, ok := attrs["line"]; ok {
		s.Style.Line = LineStyle(strings.ToLower(b.text(v)))
	}
	if v, ok := attrs["marker"]; ok {
		s.Style.Marker = Marker(strings.ToLower(b.text(v)))
	}
	if v, ok := attrs["color"]; ok {
		if s.Style.Color, err = b.color(v); err != nil {
			return Series{}, err
		}
	}
	if v, ok := attrs["line-width"]; ok {
		if s.Style.LineWidth, err = length(v); err != nil {
			return Series{}, err
		}
	}
	if v, ok := attrs["marker-size"]; ok {
		if s.Style.MarkerSize, err = length(v); err != nil {
			return Series{}, err
		}
	}
	return s, nil
}

func (b *docBuilder) legend(block *dsl.Block, lg *Legend) error {
	attrs := block.Assignments()
	var err error
	if v, ok := attrs["position"]; ok {
		pos := LegendPosition(strings.ToLower(b.text(v)))
		switch pos {
		case LegendUpperLeft, LegendUpperRight, LegendLowerLeft, LegendLowerRight:
			lg.Position = pos
		default:
			return fmt.Errorf("未知图例位置 %q", pos)
		}
	}
	if v, ok := attrs["font-size"]; ok {
		if lg.FontSize, err = length(v); err != nil {
			return err
		}
	}
	if v, ok := attrs["border"]; ok {
		if lg.BorderColor, err = b.color(v); err != nil {
			return err
		}
	}
	if v, ok := attrs["border-width"]; ok {
		if lg.BorderWidth, err = length(v); err != nil {
			return err
		}
	}
	if v, ok := attrs["fill"]; ok {
		if lg.Fill, err = b.color(v); err != nil {
			return err
		}
	}
	if v, ok := attrs["rounded"]; ok {
		lg.Rounded = truthy(v)
	}
	return nil
}

func (b *docBuilder) spines(block *dsl.Block, sp *Spines) error {
	attrs := block.Assignments()
	set := func(v *dsl.Value, visible bool) error {
		for _, side := range v.Strings() {
			switch strings.ToLower(side) {
			case "top":
				sp.Top = visible
			case "right":
				sp.Right = visible
			case "bottom":
				sp.Bottom = visible
			case "left":
				sp.Left = visible
			default:
				return fmt.Errorf("未知边框 %q", side)
			}
		}
		return nil
	}
	if v, ok := attrs["show"]; ok {
		if err := set(v, true); err != nil {
			return err
		}
	}
	if v, ok := attrs["hide"]; ok {
		if err := set(v, false); err != nil {
			return err
		}
	}
	var err error
	if v, ok := attrs["color"]; ok {
		if sp.Color, err = b.color(v); err != nil {
			return err
		}
	}
	if v, ok := attrs["width"]; ok {
		if sp.Width, err = length(v); err != nil {
			return err
		}
	}
	return nil
}

func length(v *dsl.Value) (Length, error) {
	s, _ := v.Text()
	l, ok := ParseLength(s)
	if !ok {
		return Length{}, fmt.Errorf("无效的长度 %q", s)
	}
	return l, nil
}

func truthy(v *dsl.Value) bool {
	s, _ := v.Text()
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true
	}
	return false
}
