package canvasrenderer

import (
	"image/color"
	"math"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/interplot/chart"
	"github.com/ByLCY/interplot/layout"
)

// 布局坐标以左上角为原点、y 轴向下；canvas 默认 y 轴向上，绘制时统一翻转。

var transparent = color.RGBA{0, 0, 0, 0}

// 四段三次贝塞尔近似圆弧的控制点系数。
const kappa = 0.5522847498307936

func (r *Renderer) drawScene(ctx *canvas.Context, scene *layout.Scene) error {
	flip := func(y float64) float64 { return scene.Height - y }

	// 背景
	ctx.SetFillColor(scene.Background)
	ctx.SetStrokeColor(transparent)
	ctx.DrawPath(0, 0, canvas.Rectangle(scene.Width, scene.Height))

	for _, ln := range scene.Grid {
		drawLine(ctx, ln, flip)
	}
	for _, ln := range scene.Spines {
		drawLine(ctx, ln, flip)
	}
	for _, ln := range scene.Ticks {
		drawLine(ctx, ln, flip)
	}
	for _, pl := range scene.Polylines {
		drawPolyline(ctx, pl, flip)
	}
	for _, m := range scene.Markers {
		drawMarker(ctx, m, flip)
	}
	for _, tb := range scene.Texts {
		if err := r.drawText(ctx, scene.Font, tb, flip); err != nil {
			return err
		}
	}

	if lg := scene.Legend; lg != nil {
		drawRect(ctx, lg.Frame, flip)
		for _, e := range lg.Entries {
			drawPolyline(ctx, e.Line, flip)
			drawMarker(ctx, e.Marker, flip)
			if err := r.drawText(ctx, scene.Font, e.Label, flip); err != nil {
				return err
			}
		}
	}
	return nil
}

func drawLine(ctx *canvas.Context, ln layout.Line, flip func(float64) float64) {
	ctx.SetFillColor(transparent)
	ctx.SetStrokeColor(ln.Color)
	ctx.SetStrokeWidth(ln.Width)
	p := &canvas.Path{}
	p.MoveTo(ln.X1, flip(ln.Y1))
	p.LineTo(ln.X2, flip(ln.Y2))
	ctx.DrawPath(0, 0, p)
}

func drawPolyline(ctx *canvas.Context, pl layout.Polyline, flip func(float64) float64) {
	if len(pl.Points) < 2 {
		return
	}
	ctx.SetFillColor(transparent)
	ctx.SetStrokeColor(pl.Color)
	ctx.SetStrokeWidth(pl.Width)
	ctx.SetDashes(0, pl.Dashes...)
	p := &canvas.Path{}
	p.MoveTo(pl.Points[0].X, flip(pl.Points[0].Y))
	for _, pt := range pl.Points[1:] {
		p.LineTo(pt.X, flip(pt.Y))
	}
	ctx.DrawPath(0, 0, p)
	ctx.SetDashes(0)
}

func drawMarker(ctx *canvas.Context, m layout.Marker, flip func(float64) float64) {
	ctx.SetFillColor(m.Color)
	ctx.SetStrokeColor(transparent)
	ctx.DrawPath(m.X, flip(m.Y), markerPath(m.Shape, m.Size))
}

// markerPath 返回以原点为中心的标记轮廓。正方形与圆面积相同，三角形尖端朝上。
func markerPath(shape chart.Marker, size float64) *canvas.Path {
	r := size / 2
	p := &canvas.Path{}
	switch shape {
	case chart.MarkerSquare:
		h := r * math.Sqrt(math.Pi) / 2
		p.MoveTo(-h, -h)
		p.LineTo(h, -h)
		p.LineTo(h, h)
		p.LineTo(-h, h)
		p.Close()
	case chart.MarkerTriangle:
		p.MoveTo(0, r)
		p.LineTo(-r, -r)
		p.LineTo(r, -r)
		p.Close()
	default:
		k := r * kappa
		p.MoveTo(r, 0)
		p.CubeTo(r, k, k, r, 0, r)
		p.CubeTo(-k, r, -r, k, -r, 0)
		p.CubeTo(-r, -k, -k, -r, 0, -r)
		p.CubeTo(k, -r, r, -k, r, 0)
		p.Close()
	}
	return p
}

func drawRect(ctx *canvas.Context, rc layout.Rect, flip func(float64) float64) {
	if rc.FillColor != nil {
		ctx.SetFillColor(*rc.FillColor)
	} else {
		ctx.SetFillColor(transparent)
	}
	ctx.SetStrokeColor(rc.StrokeColor)
	ctx.SetStrokeWidth(rc.StrokeWidth)
	shape := canvas.Rectangle(rc.Width, rc.Height)
	if rc.Radius > 0 {
		shape = canvas.RoundedRectangle(rc.Width, rc.Height, rc.Radius)
	}
	ctx.DrawPath(rc.X, flip(rc.Y+rc.Height), shape)
}

func (r *Renderer) drawText(ctx *canvas.Context, font chart.FontSpec, tb layout.TextBox, flip func(float64) float64) error {
	if tb.Content == "" {
		return nil
	}
	face, err := r.fontFace(font, tb.FontSize, tb.Color)
	if err != nil {
		return err
	}
	text := canvas.NewTextLine(face, tb.Content, canvas.Left)
	if !tb.Rotated {
		// 基线位置：文本框顶部加上字体上升部
		ctx.DrawText(tb.X, flip(tb.Y+tb.Ascent), text)
		return nil
	}
	// 逆时针旋转 90°：文字自下而上，上升部朝左。
	ctx.Push()
	ctx.ComposeView(canvas.Identity.Translate(tb.X+tb.Ascent, flip(tb.Y+tb.Height)).Rotate(90))
	ctx.DrawText(0, 0, text)
	ctx.Pop()
	return nil
}
