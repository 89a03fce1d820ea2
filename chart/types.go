package chart

// 该文件定义图表的数据与样式描述，供布局、渲染与调试 JSON 共用。

// Figure 描述一张完整的交互效应折线图：数据、样式与输出设置。
type Figure struct {
	Name       string   `json:"name"`
	Meta       Meta     `json:"meta"`
	Series     []Series `json:"series"`
	XAxis      Axis     `json:"xAxis"`
	YAxis      Axis     `json:"yAxis"`
	Font       FontSpec `json:"font"`
	Spines     Spines   `json:"spines"`
	Legend     Legend   `json:"legend"`
	Grid       bool     `json:"grid"`
	Background Color    `json:"background"`
	Output     Output   `json:"output"`
}

// Meta 保存 PDF/SVG 输出时写入的文档信息。
type Meta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}

// Series 是一条调节变量水平对应的折线。
// Name 为数据集中的名称，Label 为图例文字。
type Series struct {
	Name   string      `json:"name"`
	Label  string      `json:"label"`
	Points []Point     `json:"points"`
	Style  SeriesStyle `json:"style"`
}

// Point 为数据坐标系中的一个点。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LineStyle 是折线的线型。
type LineStyle string

const (
	LineSolid  LineStyle = "solid"
	LineDashed LineStyle = "dashed"
	LineDotted LineStyle = "dotted"
)

// Marker 是数据点的标记形状。
type Marker string

const (
	MarkerSquare   Marker = "square"
	MarkerCircle   Marker = "circle"
	MarkerTriangle Marker = "triangle"
)

// SeriesStyle 描述单条折线的线型、标记、颜色与尺寸。
type SeriesStyle struct {
	Line       LineStyle `json:"line"`
	Marker     Marker    `json:"marker"`
	Color      Color     `json:"color"`
	LineWidth  Length    `json:"lineWidth"`
	MarkerSize Length    `json:"markerSize"`
}

// Axis 描述坐标轴：标签、固定范围与刻度。
// Ticks 为空时由布局阶段自动生成（仅限于 Min..Max 之内）。
type Axis struct {
	Label         string  `json:"label"`
	LabelSize     Length  `json:"labelSize"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	Ticks         []Tick  `json:"ticks,omitempty"`
	TickLabelSize Length  `json:"tickLabelSize"`
}

// Tick 为一个带文字的刻度。
type Tick struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// FontSpec 给出首选字体族与回退列表，"serif" 表示内置衬线字体。
type FontSpec struct {
	Family   string   `json:"family"`
	Fallback []string `json:"fallback"`
}

// Candidates 返回按优先级排列的字体族名称（去重）。
func (f FontSpec) Candidates() []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(f.Fallback)+1)
	for _, name := range append([]string{f.Family}, f.Fallback...) {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Spines 控制四条边框是否可见以及可见边框的颜色与线宽。
type Spines struct {
	Top    bool   `json:"top"`
	Right  bool   `json:"right"`
	Bottom bool   `json:"bottom"`
	Left   bool   `json:"left"`
	Color  Color  `json:"color"`
	Width  Length `json:"width"`
}

// LegendPosition 为图例在绘图区内的位置。
type LegendPosition string

const (
	LegendUpperLeft  LegendPosition = "upper-left"
	LegendUpperRight LegendPosition = "upper-right"
	LegendLowerLeft  LegendPosition = "lower-left"
	LegendLowerRight LegendPosition = "lower-right"
)

// Legend 描述图例框。
type Legend struct {
	Position    LegendPosition `json:"position"`
	FontSize    Length         `json:"fontSize"`
	BorderColor Color          `json:"borderColor"`
	BorderWidth Length         `json:"borderWidth"`
	Fill        Color          `json:"fill"`
	Rounded     bool           `json:"rounded"`
}

// Output 描述输出文件与画布尺寸。
type Output struct {
	Path   string  `json:"path"`
	Width  Length  `json:"width"`
	Height Length  `json:"height"`
	DPI    float64 `json:"dpi"`
	Pad    Length  `json:"pad"`
	Tight  bool    `json:"tight"`
}
