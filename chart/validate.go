package chart

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot/plotter"
)

// ErrInvalidFigure 是所有校验失败的根错误。
var ErrInvalidFigure = errors.New("invalid figure")

// Validate 检查图表在渲染前必须满足的约束：
// 至少一条折线；所有折线共享第一条折线的 x 位置；
// 数值有限；坐标轴范围合法；任意两条折线的 (线型, 标记) 组合不同。
func (f *Figure) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: figure is nil", ErrInvalidFigure)
	}
	if len(f.Series) == 0 {
		return fmt.Errorf("%w: no series", ErrInvalidFigure)
	}

	base := f.Series[0].Points
	if len(base) == 0 {
		return fmt.Errorf("%w: series %q has no points", ErrInvalidFigure, f.Series[0].Label)
	}
	type combo struct {
		line   LineStyle
		marker Marker
	}
	seen := make(map[combo]string, len(f.Series))
	for _, s := range f.Series {
		if len(s.Points) != len(base) {
			return fmt.Errorf("%w: series %q has %d points, want %d", ErrInvalidFigure, s.Label, len(s.Points), len(base))
		}
		for i, p := range s.Points {
			if err := plotter.CheckFloats(p.X, p.Y); err != nil {
				return fmt.Errorf("%w: series %q point %d: %v", ErrInvalidFigure, s.Label, i, err)
			}
			if p.X != base[i].X {
				return fmt.Errorf("%w: series %q point %d at x=%g, want x=%g", ErrInvalidFigure, s.Label, i, p.X, base[i].X)
			}
		}
		if !validLine(s.Style.Line) {
			return fmt.Errorf("%w: series %q: unknown line style %q", ErrInvalidFigure, s.Label, s.Style.Line)
		}
		if !validMarker(s.Style.Marker) {
			return fmt.Errorf("%w: series %q: unknown marker %q", ErrInvalidFigure, s.Label, s.Style.Marker)
		}
		key := combo{s.Style.Line, s.Style.Marker}
		if other, dup := seen[key]; dup {
			return fmt.Errorf("%w: series %q and %q both use %s/%s", ErrInvalidFigure, other, s.Label, key.line, key.marker)
		}
		seen[key] = s.Label
	}

	for _, ax := range []struct {
		name string
		a    Axis
	}{{"x", f.XAxis}, {"y", f.YAxis}} {
		if err := plotter.CheckFloats(ax.a.Min, ax.a.Max); err != nil {
			return fmt.Errorf("%w: %s axis limits: %v", ErrInvalidFigure, ax.name, err)
		}
		if !(ax.a.Max > ax.a.Min) {
			return fmt.Errorf("%w: %s axis range [%g, %g] is empty", ErrInvalidFigure, ax.name, ax.a.Min, ax.a.Max)
		}
	}

	if f.Output.Width.MM() <= 0 || f.Output.Height.MM() <= 0 {
		return fmt.Errorf("%w: output size %s x %s", ErrInvalidFigure, f.Output.Width, f.Output.Height)
	}
	if err := plotter.CheckFloats(f.Output.DPI); err != nil {
		return fmt.Errorf("%w: output dpi: %v", ErrInvalidFigure, err)
	}
	if f.Output.DPI <= 0 {
		return fmt.Errorf("%w: output dpi %g", ErrInvalidFigure, f.Output.DPI)
	}
	return nil
}

func validLine(l LineStyle) bool {
	switch l {
	case LineSolid, LineDashed, LineDotted:
		return true
	}
	return false
}

func validMarker(m Marker) bool {
	switch m {
	case MarkerSquare, MarkerCircle, MarkerTriangle:
		return true
	}
	return false
}
