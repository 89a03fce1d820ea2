package chart

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/interplot/dsl"
)

func loadExample(t *testing.T) *dsl.Document {
	t.Helper()
	f, err := os.Open(filepath.Join("..", "examples", "figure_2.figure"))
	if err != nil {
		t.Fatalf("open example: %v", err)
	}
	defer f.Close()
	doc, err := dsl.Parse(f)
	if err != nil {
		t.Fatalf("parse example: %v", err)
	}
	return doc
}

func TestExampleDocumentMatchesFigure2(t *testing.T) {
	fig, err := FromDocument(loadExample(t), nil)
	if err != nil {
		t.Fatalf("FromDocument failed: %v", err)
	}
	if diff := cmp.Diff(Figure2(), fig); diff != "" {
		t.Fatalf("document differs from built-in figure (-want +got):\n%s", diff)
	}
}

func TestFromDocumentBindsData(t *testing.T) {
	var data any
	if err := json.Unmarshal([]byte(`{"predictor":"Chatbot Use","outcome":"Relativism"}`), &data); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	fig, err := FromDocument(loadExample(t), data)
	if err != nil {
		t.Fatalf("FromDocument failed: %v", err)
	}
	if fig.XAxis.Label != "Chatbot Use" || fig.YAxis.Label != "Relativism" {
		t.Fatalf("labels not bound: %q / %q", fig.XAxis.Label, fig.YAxis.Label)
	}
	if got := fig.XAxis.Ticks[1].Label; got != "High Chatbot Use (+1 SD)" {
		t.Fatalf("tick label not bound: %q", got)
	}
}

func TestFromDocumentBindsNumbers(t *testing.T) {
	src := `figure Bound v1 {
  plot 8in 6in {
    axis x { ticks: [0, 1] }
    series "Low" {
      y: [${cells.low[0]|2.60}, ${cells.low[1]|3.84}]
    }
  }
}`
	doc, err := dsl.ParseString(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	fig, err := FromDocument(doc, nil)
	if err != nil {
		t.Fatalf("FromDocument failed: %v", err)
	}
	if diff := cmp.Diff([]Point{{0, 2.60}, {1, 3.84}}, fig.Series[0].Points); diff != "" {
		t.Fatalf("defaults not used (-want +got):\n%s", diff)
	}

	var data any
	if err := json.Unmarshal([]byte(`{"cells":{"low":[2.5, 3.5]}}`), &data); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	fig, err = FromDocument(doc, data)
	if err != nil {
		t.Fatalf("FromDocument failed: %v", err)
	}
	if diff := cmp.Diff([]Point{{0, 2.5}, {1, 3.5}}, fig.Series[0].Points); diff != "" {
		t.Fatalf("data not bound (-want +got):\n%s", diff)
	}
}

func TestFromDocumentDefaults(t *testing.T) {
	src := `figure Tiny v1 {
  plot 4in 3in {
    axis x {
      limits: [0, 2]
    }
    series "A" {
      y: [1, 2, 3]
    }
  }
}`
	doc, err := dsl.ParseString(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	fig, err := FromDocument(doc, nil)
	if err != nil {
		t.Fatalf("FromDocument failed: %v", err)
	}
	if fig.Output.Width != In(4) || fig.Output.Height != In(3) || fig.Output.DPI != 300 {
		t.Fatalf("unexpected output: %+v", fig.Output)
	}
	want := []Point{{0, 1}, {1, 2}, {2, 3}}
	if diff := cmp.Diff(want, fig.Series[0].Points); diff != "" {
		t.Fatalf("points (-want +got):\n%s", diff)
	}
	if fig.Series[0].Name != "A" || fig.Series[0].Style.Line != LineSolid {
		t.Fatalf("unexpected series defaults: %+v", fig.Series[0])
	}
	if err := fig.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestFromDocumentErrors(t *testing.T) {
	cases := map[string]string{
		"no plot":        `figure A v1 { meta { title: "x" } }`,
		"bad axis":       "figure A v1 {\n plot {\n axis z {\n limits: [0, 1]\n }\n }\n}",
		"bad color":      "figure A v1 {\n plot {\n background: nope\n }\n}",
		"missing y":      "figure A v1 {\n plot {\n series \"A\" {\n line: solid\n }\n }\n}",
		"ticks mismatch": "figure A v1 {\n plot {\n axis x {\n ticks: [0, 1]\n tick-labels: [\"a\"]\n }\n }\n}",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			doc, err := dsl.ParseString(src)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if _, err := FromDocument(doc, nil); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestValidateFigure2(t *testing.T) {
	if err := Figure2().Validate(); err != nil {
		t.Fatalf("Figure2 should be valid: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(f *Figure){
		"no series":        func(f *Figure) { f.Series = nil },
		"uneven points":    func(f *Figure) { f.Series[1].Points = f.Series[1].Points[:1] },
		"shifted x":        func(f *Figure) { f.Series[2].Points[1].X = 2 },
		"duplicate style":  func(f *Figure) { f.Series[1].Style = f.Series[0].Style },
		"unknown marker":   func(f *Figure) { f.Series[0].Style.Marker = "star" },
		"empty axis range": func(f *Figure) { f.YAxis.Max = f.YAxis.Min },
		"zero dpi":         func(f *Figure) { f.Output.DPI = 0 },
		"NaN dpi":          func(f *Figure) { f.Output.DPI = math.NaN() },
		"infinite dpi":     func(f *Figure) { f.Output.DPI = math.Inf(1) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			fig := Figure2()
			mutate(fig)
			err := fig.Validate()
			if !errors.Is(err, ErrInvalidFigure) {
				t.Fatalf("expected ErrInvalidFigure, got %v", err)
			}
		})
	}
}

func TestFigure2ReturnsCopies(t *testing.T) {
	a := Figure2()
	a.Series[0].Points[0].Y = 0
	a.Font.Fallback[0] = "x"
	b := Figure2()
	if b.Series[0].Points[0].Y != 2.60 || b.Font.Fallback[0] != "DejaVu Serif" {
		t.Fatalf("Figure2 shares state between calls")
	}
}

func TestParseLengthAndColor(t *testing.T) {
	l, ok := ParseLength("8in")
	if !ok || l.MM() != 203.2 {
		t.Fatalf("8in -> %v %v", l, ok)
	}
	if l, ok := ParseLength("12"); !ok || l.PT() != 12 {
		t.Fatalf("bare number should be points: %v", l)
	}
	if _, ok := ParseLength("wide"); ok {
		t.Fatalf("expected failure")
	}
	c, err := ParseColor("#696969")
	if err != nil || c != DimGray {
		t.Fatalf("parse color: %v %v", c, err)
	}
	if _, err := ParseColor("#12345"); err == nil {
		t.Fatalf("expected invalid color error")
	}
}

func TestParseColorAlpha(t *testing.T) {
	cases := map[string]uint8{
		"#00000000":   0,
		"#FF000080":   0x80,
		"#ff0000ff":   0xff,
		"#F00":        0xff,
		"#696969":     0xff,
		"transparent": 0,
		"black":       0xff,
	}
	for in, want := range cases {
		c, err := ParseColor(in)
		if err != nil {
			t.Fatalf("ParseColor(%q) error: %v", in, err)
		}
		if got := c.NRGBA().A; got != want {
			t.Fatalf("ParseColor(%q) alpha = %d, want %d", in, got, want)
		}
	}
	if _, _, _, a := (Color{R: 10}).RGBA(); a != 0xffff {
		t.Fatalf("colour literal without alpha should be opaque, got a=%#x", a)
	}
}

func TestCandidatesDeduplicates(t *testing.T) {
	got := FontSpec{Family: "serif", Fallback: []string{"DejaVu Serif", "serif", ""}}.Candidates()
	want := []string{"serif", "DejaVu Serif"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("candidates (-want +got):\n%s", diff)
	}
}
