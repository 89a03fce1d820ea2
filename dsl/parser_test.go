package dsl_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ByLCY/interplot/dsl"
)

const sampleDSL = `
figure Slopes v1 {
  meta {
    title: "Simple slopes"
    keywords: [
      "moderation"
      "APA"
    ]
  }

  resources {
    font Serif {
      family: "Times New Roman"
    }

    color DimGray = #696969
  }

  plot 8in 6in dpi 300 {
    pad: 0.1in
    background: #FFF

    axis x {
      label: "${predictor|AI Use}"
      limits: [-0.1, 1.1]
    }

    series "Low Task Ambiguity" {
      x: [${x.low|0}, 1]
      y: [2.60, 3.84]
      line: dotted
      color: DimGray
    }

    legend { position: upper-left; font-size: 10pt }

    spines {
      hide: [top, right]
    }
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.Name != "Slopes" {
		t.Fatalf("expected document name Slopes, got %s", doc.Name)
	}
	if doc.Version != "v1" {
		t.Fatalf("expected version v1, got %s", doc.Version)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(doc.Sections))
	}
	kinds := []string{doc.Sections[0].Kind(), doc.Sections[1].Kind(), doc.Sections[2].Kind()}
	if strings.Join(kinds, ",") != "meta,resources,plot" {
		t.Fatalf("unexpected section kinds: %v", kinds)
	}

	meta := doc.Sections[0].Meta
	title := meta.Statements[0].Assignment
	if title == nil || title.Key != "title" {
		t.Fatalf("expected title assignment, got %+v", meta.Statements[0])
	}
	if got := string(*title.Value.String); got != "Simple slopes" {
		t.Fatalf("expected title Simple slopes, got %s", got)
	}
	keywords := meta.Assignments()["keywords"]
	if keywords == nil || keywords.Array == nil || len(keywords.Array.Values) != 2 {
		t.Fatalf("expected 2 keywords, got %+v", keywords)
	}

	res := doc.Sections[1].Resources
	colors := res.Commands("color")
	if len(colors) != 1 {
		t.Fatalf("expected 1 color resource, got %d", len(colors))
	}
	if got := tokensToString(colors[0].Args); got != "DimGray = #696969" {
		t.Fatalf("unexpected color args: %s", got)
	}
	if colors[0].Args[2].Type != "Color" {
		t.Fatalf("expected Color token, got %s", colors[0].Args[2].Type)
	}
	fonts := res.Commands("font")
	if len(fonts) != 1 || fonts[0].Arg(0) != "Serif" || fonts[0].Block == nil {
		t.Fatalf("unexpected font resource: %+v", fonts)
	}

	plot := doc.Sections[2].Plot
	if got := tokensToString(plot.Params); got != "8in 6in dpi 300" {
		t.Fatalf("unexpected plot params: %s", got)
	}
	attrs := plot.Block.Assignments()
	if got, _ := attrs["pad"].Text(); got != "0.1in" {
		t.Fatalf("expected pad 0.1in, got %s", got)
	}
	if attrs["background"].Color == nil || *attrs["background"].Color != "#FFF" {
		t.Fatalf("expected short color, got %+v", attrs["background"])
	}

	axis := plot.Block.Commands("axis")
	if len(axis) != 1 || axis[0].Arg(0) != "x" {
		t.Fatalf("unexpected axis commands: %+v", axis)
	}
	axisAttrs := axis[0].Block.Assignments()
	if got, _ := axisAttrs["label"].Text(); got != "${predictor|AI Use}" {
		t.Fatalf("placeholder should be kept verbatim, got %s", got)
	}
	limits, err := axisAttrs["limits"].Floats(nil)
	if err != nil || len(limits) != 2 || limits[0] != -0.1 || limits[1] != 1.1 {
		t.Fatalf("unexpected limits: %v %v", limits, err)
	}

	series := plot.Block.Commands("series")
	if len(series) != 1 || series[0].Arg(0) != "Low Task Ambiguity" {
		t.Fatalf("unexpected series: %+v", series)
	}
	seriesAttrs := series[0].Block.Assignments()
	if line, _ := seriesAttrs["line"].Text(); line != "dotted" {
		t.Fatalf("expected dotted line, got %s", line)
	}
	if seriesAttrs["line"].Word == nil {
		t.Fatalf("bare word should be captured as Word")
	}
	y, err := seriesAttrs["y"].Floats(nil)
	if err != nil || len(y) != 2 || y[1] != 3.84 {
		t.Fatalf("unexpected y values: %v %v", y, err)
	}
	if got, _ := seriesAttrs["x"].List()[0].Text(); got != "${x.low|0}" {
		t.Fatalf("binding should be kept verbatim, got %s", got)
	}

	legend := plot.Block.Commands("legend")
	if len(legend) != 1 {
		t.Fatalf("expected legend command")
	}
	legendAttrs := legend[0].Block.Assignments()
	if pos, _ := legendAttrs["position"].Text(); pos != "upper-left" {
		t.Fatalf("unexpected legend position %s", pos)
	}
	if size, _ := legendAttrs["font-size"].Text(); size != "10pt" {
		t.Fatalf("unexpected legend font size %s", size)
	}

	spines := plot.Block.Commands("spines")[0].Block.Assignments()
	if got := strings.Join(spines["hide"].Strings(), ","); got != "top,right" {
		t.Fatalf("unexpected hidden spines: %s", got)
	}
}

func TestParseRejectsMissingHeader(t *testing.T) {
	if _, err := dsl.ParseString(`plot 8in 6in { }`); err == nil {
		t.Fatalf("expected error for document without figure header")
	}
}

func TestWordJoinsDottedPath(t *testing.T) {
	doc, err := dsl.ParseString("figure A v1 {\n plot {\n label: data.meta.outcome\n }\n}")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	v := doc.Sections[0].Plot.Block.Assignments()["label"]
	if v == nil || v.Word == nil {
		t.Fatalf("expected word value")
	}
	if got := tokensToString(v.Word.Parts); got != "data . meta . outcome" {
		t.Fatalf("unexpected word tokens: %s", got)
	}
	if got, _ := v.Text(); got != "data.meta.outcome" {
		t.Fatalf("unexpected joined text: %s", got)
	}
}

func TestFloatsExpandBindings(t *testing.T) {
	doc, err := dsl.ParseString("figure A v1 {\n plot {\n y: [${low|2.6}, 3]\n }\n}")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	v := doc.Sections[0].Plot.Block.Assignments()["y"]
	if _, err := v.Floats(nil); err == nil {
		t.Fatalf("unexpanded binding should not parse as a number")
	}
	got, err := v.Floats(func(s string) string { return strings.TrimSuffix(strings.TrimPrefix(s, "${low|"), "}") })
	if err != nil || len(got) != 2 || got[0] != 2.6 || got[1] != 3 {
		t.Fatalf("unexpected floats: %v %v", got, err)
	}
}

func TestParseErrorHasPosition(t *testing.T) {
	_, err := dsl.ParseString("figure A v1 {\n  plot {\n    label: ?\n  }\n}")
	var pe *dsl.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T %v", err, err)
	}
	if pe.Pos.Line != 3 {
		t.Fatalf("expected error on line 3, got %d (%v)", pe.Pos.Line, err)
	}
}

func TestParseFileNamesErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.figure")
	if err := os.WriteFile(path, []byte("figure A v1 {\n  legend ]\n}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := dsl.ParseFile(path)
	if err == nil || !strings.HasPrefix(err.Error(), path+":") {
		t.Fatalf("expected error prefixed with file name, got %v", err)
	}
	if _, err := dsl.ParseFile(filepath.Join(t.TempDir(), "missing.figure")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func tokensToString(parts []*dsl.Lexeme) string {
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, p.Value)
	}
	return strings.Join(values, " ")
}
