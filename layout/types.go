package layout

import "github.com/ByLCY/interplot/chart"

// 该文件定义布局结果，供渲染与调试 JSON 共用。
// 所有坐标与尺寸单位均为 mm，原点位于画布左上角，y 轴向下。

// Scene 保存布局后可以直接绘制的全部元素。
type Scene struct {
	Width      float64        `json:"width"`
	Height     float64        `json:"height"`
	Background chart.Color    `json:"background"`
	Font       chart.FontSpec `json:"font"`
	Meta       chart.Meta     `json:"meta"`
	DPI        float64        `json:"dpi"`

	// Frame 为绘图区（数据坐标范围映射到的矩形），只用于定位，不绘制。
	Frame Rect `json:"frame"`
	XAxis Span `json:"xAxis"`
	YAxis Span `json:"yAxis"`

	Grid      []Line     `json:"grid,omitempty"`
	Spines    []Line     `json:"spines"`
	Ticks     []Line     `json:"ticks"`
	Polylines []Polyline `json:"polylines"`
	Markers   []Marker   `json:"markers"`
	Texts     []TextBox  `json:"texts"`
	Legend    *LegendBox `json:"legend,omitempty"`
}

// Span 记录坐标轴的固定数据范围。
type Span struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Point 为画布坐标中的一个点。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Line 表示一条线段。
type Line struct {
	X1    float64     `json:"x1"`
	Y1    float64     `json:"y1"`
	X2    float64     `json:"x2"`
	Y2    float64     `json:"y2"`
	Color chart.Color `json:"color"`
	Width float64     `json:"width"`
}

// Polyline 是一条折线，Dashes 为空表示实线。
type Polyline struct {
	Series string      `json:"series"`
	Points []Point     `json:"points"`
	Color  chart.Color `json:"color"`
	Width  float64     `json:"width"`
	Dashes []float64   `json:"dashes,omitempty"`
}

// Marker 是一个以 (X, Y) 为中心、外接尺寸为 Size 的实心标记。
type Marker struct {
	Series string       `json:"series"`
	Shape  chart.Marker `json:"shape"`
	X      float64      `json:"x"`
	Y      float64      `json:"y"`
	Size   float64      `json:"size"`
	Color  chart.Color  `json:"color"`
}

// Rect 表示一个矩形。
type Rect struct {
	X           float64      `json:"x"`
	Y           float64      `json:"y"`
	Width       float64      `json:"width"`
	Height      float64      `json:"height"`
	StrokeColor chart.Color  `json:"strokeColor"`
	StrokeWidth float64      `json:"strokeWidth"`
	FillColor   *chart.Color `json:"fillColor,omitempty"` // 为空表示不填充
	Radius      float64      `json:"radius,omitempty"`
}

// TextBox 表示一个已经排好坐标的单行文本。
// X/Y/Width/Height 为文本在画布上占据的外接框；Rotated 时文字逆时针旋转 90°，
// 自下而上阅读，此时 Width 对应行高，Height 对应文字宽度。
type TextBox struct {
	Content  string        `json:"content"`
	Role     string        `json:"role"`
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	Ascent   float64       `json:"ascent"`
	FontSize float64       `json:"fontSize"` // pt
	Color    chart.Color   `json:"color"`
	Rotated  bool          `json:"rotated,omitempty"`
	Debug    *TextBoxDebug `json:"debug,omitempty"`
}

// TextBoxDebug holds optional debug info displayed only when enabled by BuildOptions.
type TextBoxDebug struct {
	FontSize *chart.Length `json:"fontSize,omitempty"`
}

// 文本角色，便于测试与调试 JSON 定位。
const (
	RoleXLabel     = "x-label"
	RoleYLabel     = "y-label"
	RoleXTickLabel = "x-tick-label"
	RoleYTickLabel = "y-tick-label"
	RoleLegend     = "legend"
)

// LegendBox 描述图例框及其条目。
type LegendBox struct {
	Frame   Rect          `json:"frame"`
	Entries []LegendEntry `json:"entries"`
}

// LegendEntry 为图例中的一行：线段样例、标记与文字。
type LegendEntry struct {
	Series string   `json:"series"`
	Line   Polyline `json:"line"`
	Marker Marker   `json:"marker"`
	Label  TextBox  `json:"label"`
}

// TextsByRole 返回指定角色的文本框。
func (s *Scene) TextsByRole(role string) []TextBox {
	var out []TextBox
	for _, tb := range s.Texts {
		if tb.Role == role {
			out = append(out, tb)
		}
	}
	return out
}
