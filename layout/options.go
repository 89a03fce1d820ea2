package layout

import "github.com/ByLCY/interplot/chart"

// BuildOptions 配置布局阶段所需的依赖，例如排版后端。
type BuildOptions struct {
	Typesetter Typesetter
	Debug      DebugOptions
}

// DebugOptions 控制调试相关输出。
type DebugOptions struct {
	RawUnits bool // 在调试 JSON 中输出 debug.fontSize 影子字段（作者书写的原始单位）
}

// TextMetrics 为单行文本的测量结果（mm）。
type TextMetrics struct {
	Width   float64
	Ascent  float64
	Descent float64
}

// Height 返回单行文字的墨迹高度。
func (m TextMetrics) Height() float64 { return m.Ascent + m.Descent }

// Typesetter 负责按字体与字号测量单行文本。sizePt 以 pt 为单位。
type Typesetter interface {
	Measure(content string, font chart.FontSpec, sizePt float64) (TextMetrics, error)
}
