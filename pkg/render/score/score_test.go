package score

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/graph"
)

func sample() *graph.Graph {
	g := graph.New()
	for _, pc := range []string{"C", "F#", "Bb", "E", "Eb"} {
		g.AddNode(graph.Node{ID: "pc_" + pc, Type: graph.PitchClass, Label: pc})
	}
	g.AddNode(graph.Node{ID: "pc_x", Type: graph.PitchClass, Label: "x"})
	g.AddNode(graph.Node{ID: "t", Type: graph.Transformation, Label: "T7"})
	return g
}

func render(t *testing.T, f Format, opts Options) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Write(&buf, sample(), f, opts); err != nil {
		t.Fatalf("Write(%s) error = %v", f, err)
	}
	return buf.String()
}

func TestHumdrum(t *testing.T) {
	want := "!!!COM: Music Theory Graph\n" +
		"**kern\t**dynam\n" +
		"4c\t.\n" +
		"4f#\t.\n" +
		"4b-\t.\n" +
		"4e\t.\n" +
		"4e-\t.\n" +
		".\tT7\n" +
		"*-\t*-\n"
	if got := render(t, Humdrum, Options{}); got != want {
		t.Errorf("Humdrum =\n%s\nwant\n%s", got, want)
	}
}

func TestLilyPond(t *testing.T) {
	got := render(t, LilyPond, Options{Title: `The "Tonnetz"`})
	for _, want := range []string{
		`title = "The \"Tonnetz\""`,
		"    c'4 fis'4 bes'4 e'4 es'4\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("LilyPond missing %q:\n%s", want, got)
		}
	}
}

func TestMusicXML(t *testing.T) {
	got := render(t, MusicXML, Options{})
	for _, want := range []string{
		`<score-partwise version="4.0">`,
		`<measure number="2">`,
		"<step>F</step>\n          <alter>1</alter>",
		"<step>C</step>\n          <octave>4</octave>",
		"<beats>4</beats>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("MusicXML missing %q:\n%s", want, got)
		}
	}
	if n := strings.Count(got, "<note>"); n != 5 {
		t.Errorf("MusicXML has %d notes, want 5", n)
	}
}

func TestMEI(t *testing.T) {
	got := render(t, MEI, Options{})
	for _, want := range []string{
		`<mei xmlns="http://www.music-encoding.org/ns/mei" meiversion="5.0">`,
		`<title>Music Theory Graph</title>`,
		`<note pname="f" accid="s" oct="4" dur="4"></note>`,
		`<note pname="b" accid="f" oct="4" dur="4"></note>`,
		`<note pname="c" oct="4" dur="4"></note>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("MEI missing %q:\n%s", want, got)
		}
	}
}

func TestEmptyGraph(t *testing.T) {
	for _, f := range Formats() {
		var buf bytes.Buffer
		if err := Write(&buf, graph.New(), f, Options{}); err != nil {
			t.Errorf("Write(%s, empty) error = %v", f, err)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("MusicXML"); err != nil || f != MusicXML {
		t.Errorf("ParseFormat(MusicXML) = %q, %v", f, err)
	}
	if _, err := ParseFormat("abc"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ParseFormat(abc) error = %v, want INVALID_FORMAT", err)
	}
	if err := Write(&bytes.Buffer{}, graph.New(), "abc", Options{}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Write(abc) error = %v, want INVALID_FORMAT", err)
	}
	if Humdrum.Extension() != ".krn" {
		t.Errorf("Extension() = %q", Humdrum.Extension())
	}
}
