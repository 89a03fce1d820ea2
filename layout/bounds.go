package layout

import "math"

// Bounds 是画布坐标中的轴对齐外接框。
type Bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

func emptyBounds() Bounds {
	return Bounds{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
}

func (b *Bounds) add(x0, y0, x1, y1 float64) {
	b.MinX = math.Min(b.MinX, math.Min(x0, x1))
	b.MinY = math.Min(b.MinY, math.Min(y0, y1))
	b.MaxX = math.Max(b.MaxX, math.Max(x0, x1))
	b.MaxY = math.Max(b.MaxY, math.Max(y0, y1))
}

func (b *Bounds) addLine(l Line) {
	hw := l.Width / 2
	b.add(l.X1-hw, l.Y1-hw, l.X2+hw, l.Y2+hw)
}

func (b *Bounds) addPolyline(p Polyline) {
	hw := p.Width / 2
	for _, pt := range p.Points {
		b.add(pt.X-hw, pt.Y-hw, pt.X+hw, pt.Y+hw)
	}
}

func (b *Bounds) addMarker(m Marker) {
	r := m.Size / 2
	b.add(m.X-r, m.Y-r, m.X+r, m.Y+r)
}

func (b *Bounds) addRect(r Rect) {
	hw := r.StrokeWidth / 2
	b.add(r.X-hw, r.Y-hw, r.X+r.Width+hw, r.Y+r.Height+hw)
}

func (b *Bounds) addText(t TextBox) {
	b.add(t.X, t.Y, t.X+t.Width, t.Y+t.Height)
}

// Width/Height 返回外接框尺寸。
func (b Bounds) Width() float64  { return b.MaxX - b.MinX }
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Contains 判断 o 是否完全位于 b 内（允许 eps 误差）。
func (b Bounds) Contains(o Bounds, eps float64) bool {
	return o.MinX >= b.MinX-eps && o.MinY >= b.MinY-eps && o.MaxX <= b.MaxX+eps && o.MaxY <= b.MaxY+eps
}

// ContentBounds 返回所有可见元素（含绘图区）的外接框。
func (s *Scene) ContentBounds() Bounds {
	b := emptyBounds()
	b.addRect(s.Frame)
	for _, l := range s.Grid {
		b.addLine(l)
	}
	for _, l := range s.Spines {
		b.addLine(l)
	}
	for _, l := range s.Ticks {
		b.addLine(l)
	}
	for _, p := range s.Polylines {
		b.addPolyline(p)
	}
	for _, m := range s.Markers {
		b.addMarker(m)
	}
	for _, t := range s.Texts {
		b.addText(t)
	}
	if s.Legend != nil {
		b.addRect(s.Legend.Frame)
	}
	return b
}

// crop 将画布裁剪为内容外接框外加 pad 的留白。
func (s *Scene) crop(pad float64) {
	b := s.ContentBounds()
	s.translate(pad-b.MinX, pad-b.MinY)
	s.Width = b.Width() + 2*pad
	s.Height = b.Height() + 2*pad
}

func (s *Scene) translate(dx, dy float64) {
	moveLine := func(l *Line) {
		l.X1 += dx
		l.X2 += dx
		l.Y1 += dy
		l.Y2 += dy
	}
	movePolyline := func(p *Polyline) {
		for i := range p.Points {
			p.Points[i].X += dx
			p.Points[i].Y += dy
		}
	}
	s.Frame.X += dx
	s.Frame.Y += dy
	for i := range s.Grid {
		moveLine(&s.Grid[i])
	}
	for i := range s.Spines {
		moveLine(&s.Spines[i])
	}
	for i := range s.Ticks {
		moveLine(&s.Ticks[i])
	}
	for i := range s.Polylines {
		movePolyline(&s.Polylines[i])
	}
	for i := range s.Markers {
		s.Markers[i].X += dx
		s.Markers[i].Y += dy
	}
	for i := range s.Texts {
		s.Texts[i].X += dx
		s.Texts[i].Y += dy
	}
	if lg := s.Legend; lg != nil {
		lg.Frame.X += dx
		lg.Frame.Y += dy
		for i := range lg.Entries {
			e := &lg.Entries[i]
			movePolyline(&e.Line)
			e.Marker.X += dx
			e.Marker.Y += dy
			e.Label.X += dx
			e.Label.Y += dy
		}
	}
}
