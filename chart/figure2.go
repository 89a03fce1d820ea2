package chart

// DefaultOutput 是内置图表的输出文件名。
const DefaultOutput = "figure_2.png"

// SerifFallback 是首选衬线字体之后依次尝试的字体族；"serif" 总能解析到内置字体。
var SerifFallback = []string{"DejaVu Serif", "Liberation Serif", "serif"}

// Figure2 返回 AI Use × Task Ambiguity 交互效应图（±1 SD 处的组均值）。
// 每次调用都返回新的副本，调用方可以自由修改。
func Figure2() *Figure {
	x := [2]float64{0, 1}
	series := func(name, label string, low, high float64, line LineStyle, marker Marker, col Color) Series {
		return Series{
			Name:   name,
			Label:  label,
			Points: []Point{{X: x[0], Y: low}, {X: x[1], Y: high}},
			Style: SeriesStyle{
				Line:       line,
				Marker:     marker,
				Color:      col,
				LineWidth:  Pt(2),
				MarkerSize: Pt(10),
			},
		}
	}

	return &Figure{
		Name: "Figure2",
		Meta: Meta{
			Title:    "Interaction of AI Use and Task Ambiguity on Moral Relativism",
			Subject:  "Simple slopes at ±1 SD",
			Creator:  "interplot",
			Keywords: []string{"moderation", "interaction", "APA"},
		},
		Series: []Series{
			series("Low Moderator Level", "Low Task Ambiguity", 2.60, 3.84, LineDotted, MarkerSquare, DimGray),
			series("Mean Moderator Level", "Mean Task Ambiguity", 2.42, 4.16, LineDashed, MarkerCircle, Black),
			series("High Moderator Level", "High Task Ambiguity", 2.17, 4.41, LineSolid, MarkerTriangle, Black),
		},
		XAxis: Axis{
			Label:     "AI Use",
			LabelSize: Pt(12),
			Min:       -0.1,
			Max:       1.1,
			Ticks: []Tick{
				{Value: x[0], Label: "Low AI Use (-1 SD)"},
				{Value: x[1], Label: "High AI Use (+1 SD)"},
			},
			TickLabelSize: Pt(10),
		},
		YAxis: Axis{
			Label:         "Moral Relativism",
			LabelSize:     Pt(12),
			Min:           1.5,
			Max:           5.0,
			TickLabelSize: Pt(10),
		},
		Font: FontSpec{
			Family:   "Times New Roman",
			Fallback: append([]string(nil), SerifFallback...),
		},
		Spines: Spines{
			Bottom: true,
			Left:   true,
			Color:  Black,
			Width:  Pt(1),
		},
		Legend: Legend{
			Position:    LegendUpperLeft,
			FontSize:    Pt(10),
			BorderColor: Black,
			BorderWidth: Pt(0.8),
			Fill:        White,
		},
		Background: White,
		Output: Output{
			Path:   DefaultOutput,
			Width:  In(8),
			Height: In(6),
			DPI:    300,
			Pad:    In(0.1),
			Tight:  true,
		},
	}
}
