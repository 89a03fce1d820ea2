package plotrenderer

import (
	"bytes"
	"errors"
	"image/png"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/recorder"

	"github.com/ByLCY/interplot/chart"
	"github.com/ByLCY/interplot/fonts"
	"github.com/ByLCY/interplot/renderer"
)

func embeddedFace(t *testing.T) fonts.Face {
	t.Helper()
	face, err := fonts.Resolve(chart.Figure2().Font.Candidates(), fonts.Options{})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	return face
}

func TestPlotKeepsStaticLimits(t *testing.T) {
	fig := chart.Figure2()
	p, err := Plot(fig, embeddedFace(t))
	if err != nil {
		t.Fatalf("Plot error: %v", err)
	}
	if p.X.Min != fig.XAxis.Min || p.X.Max != fig.XAxis.Max {
		t.Fatalf("x limits = [%g, %g], want [%g, %g]", p.X.Min, p.X.Max, fig.XAxis.Min, fig.XAxis.Max)
	}
	if p.Y.Min != fig.YAxis.Min || p.Y.Max != fig.YAxis.Max {
		t.Fatalf("y limits = [%g, %g], want [%g, %g]", p.Y.Min, p.Y.Max, fig.YAxis.Min, fig.YAxis.Max)
	}
	if p.X.Label.Text != fig.XAxis.Label || p.Y.Label.Text != fig.YAxis.Label {
		t.Fatalf("axis labels = %q / %q", p.X.Label.Text, p.Y.Label.Text)
	}
	if !p.Legend.Top || !p.Legend.Left {
		t.Fatalf("legend should sit in the upper-left corner")
	}
}

func TestPlotTicks(t *testing.T) {
	fig := chart.Figure2()
	p, err := Plot(fig, embeddedFace(t))
	if err != nil {
		t.Fatalf("Plot error: %v", err)
	}
	xt := p.X.Tick.Marker.Ticks(p.X.Min, p.X.Max)
	if len(xt) != len(fig.XAxis.Ticks) {
		t.Fatalf("got %d x ticks, want %d", len(xt), len(fig.XAxis.Ticks))
	}
	for i, tk := range xt {
		if tk.Value != fig.XAxis.Ticks[i].Value || tk.Label != fig.XAxis.Ticks[i].Label {
			t.Fatalf("x tick %d = %+v", i, tk)
		}
	}
	for _, tk := range p.Y.Tick.Marker.Ticks(p.Y.Min, p.Y.Max) {
		if tk.IsMinor() {
			t.Fatalf("y tick %g has no label", tk.Value)
		}
		if tk.Value < fig.YAxis.Min || tk.Value > fig.YAxis.Max {
			t.Fatalf("y tick %g outside limits", tk.Value)
		}
	}
}

func TestTicksFillMissingLabels(t *testing.T) {
	got := ticks([]chart.Tick{{Value: 2}, {Value: 2.5, Label: "2.5"}})
	want := plot.ConstantTicks{{Value: 2, Label: "2"}, {Value: 2.5, Label: "2.5"}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("ticks = %+v, want %+v", got, want)
	}
}

func TestHiddenSpinesHaveNoAxisLine(t *testing.T) {
	fig := chart.Figure2()
	fig.Spines.Left = false
	p, err := Plot(fig, embeddedFace(t))
	if err != nil {
		t.Fatalf("Plot error: %v", err)
	}
	if p.Y.LineStyle.Width != 0 {
		t.Fatalf("hidden left spine should have zero width, got %v", p.Y.LineStyle.Width)
	}
	if p.X.LineStyle.Width == 0 {
		t.Fatalf("bottom spine should stay visible")
	}
}

func TestRenderFormats(t *testing.T) {
	r := NewRenderer(false)

	data, err := r.Render(chart.Figure2(), renderer.FormatPNG)
	if err != nil {
		t.Fatalf("Render png error: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if cfg.Width != 2400 || cfg.Height != 1800 {
		t.Fatalf("unexpected pixel size %dx%d", cfg.Width, cfg.Height)
	}

	data, err = r.Render(chart.Figure2(), renderer.FormatPDF)
	if err != nil {
		t.Fatalf("Render pdf error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected PDF header")
	}

	data, err = r.Render(chart.Figure2(), renderer.FormatSVG)
	if err != nil {
		t.Fatalf("Render svg error: %v", err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Fatalf("expected svg document")
	}
}

func TestRenderErrors(t *testing.T) {
	r := NewRenderer(false)
	var re *renderer.RenderError

	if _, err := r.Render(nil, renderer.FormatPNG); !errors.As(err, &re) || re.Op != renderer.OpInit {
		t.Fatalf("expected init RenderError, got %v", err)
	}
	fig := chart.Figure2()
	fig.Series = nil
	if _, err := r.Render(fig, renderer.FormatPNG); !errors.As(err, &re) || re.Op != renderer.OpDraw || !errors.Is(err, chart.ErrInvalidFigure) {
		t.Fatalf("expected draw RenderError, got %v", err)
	}
	if _, err := r.Render(chart.Figure2(), renderer.Format("bmp")); !errors.As(err, &re) || re.Op != renderer.OpEncode {
		t.Fatalf("expected encode RenderError, got %v", err)
	}
	nan := chart.Figure2()
	nan.Output.DPI = math.NaN()
	if _, err := r.Render(nan, renderer.FormatPNG); !errors.As(err, &re) || re.Op != renderer.OpDraw || !errors.Is(err, chart.ErrInvalidFigure) {
		t.Fatalf("expected draw RenderError for NaN dpi, got %v", err)
	}
}

// TestLegendFillCoversData 检查图例底色在折线之后绘制。
func TestLegendFillCoversData(t *testing.T) {
	fig := chart.Figure2()
	fill := chart.Color{R: 1, G: 2, B: 3}
	line := chart.Color{R: 250, G: 10, B: 10}
	fig.Legend.Fill = fill
	fig.Series[0].Style.Color = line
	p, err := Plot(fig, embeddedFace(t))
	if err != nil {
		t.Fatalf("Plot error: %v", err)
	}

	rec := &recorder.Canvas{}
	p.Draw(draw.NewCanvas(rec, 8*vg.Inch, 6*vg.Inch))
	first := func(want chart.Color) int {
		for i, a := range rec.Actions {
			if sc, ok := a.(*recorder.SetColor); ok && sc.Color == want {
				return i
			}
		}
		return -1
	}
	lineAt, fillAt := first(line), first(fill)
	if lineAt < 0 || fillAt < 0 {
		t.Fatalf("missing draw calls: line=%d fill=%d", lineAt, fillAt)
	}
	if fillAt < lineAt {
		t.Fatalf("legend fill (action %d) painted before the data line (action %d)", fillAt, lineAt)
	}
}
