package score

import (
	"bufio"
	"io"
	"strings"

	"github.com/matzehuels/tonegraph/pkg/graph"
	"github.com/matzehuels/tonegraph/pkg/pitch"
)

// kern spells s as a **kern quarter note in the octave above middle C.
func kern(s pitch.Spelling) string {
	acc := ""
	switch {
	case s.Alter > 0:
		acc = strings.Repeat("#", s.Alter)
	case s.Alter < 0:
		acc = strings.Repeat("-", -s.Alter)
	}
	return "4" + strings.ToLower(string(s.Step)) + acc
}

func writeHumdrum(w io.Writer, g *graph.Graph, opts Options) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("!!!COM: " + opts.title() + "\n")
	bw.WriteString("**kern\t**dynam\n")
	for _, n := range g.Nodes() {
		switch n.Type {
		case graph.PitchClass:
			if s, ok := pitch.Spell(n.Label); ok {
				bw.WriteString(kern(s) + "\t.\n")
			}
		case graph.Transformation:
			bw.WriteString(".\t" + n.Label + "\n")
		}
	}
	bw.WriteString("*-\t*-\n")
	return bw.Flush()
}

// lily spells s in LilyPond's Dutch note names with an absolute octave mark
// for the octave above middle C.
func lily(s pitch.Spelling) string {
	acc := ""
	switch {
	case s.Alter > 0:
		acc = strings.Repeat("is", s.Alter)
	case s.Alter < 0:
		acc = strings.Repeat("es", -s.Alter)
	}
	name := strings.ToLower(string(s.Step)) + acc
	switch name {
	case "ees":
		name = "es"
	case "aes":
		name = "as"
	}
	return name + "'4"
}

func writeLilyPond(w io.Writer, g *graph.Graph, opts Options) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("\\version \"2.24.0\"\n")
	bw.WriteString("\\header {\n")
	bw.WriteString("  title = \"" + strings.ReplaceAll(opts.title(), `"`, `\"`) + "\"\n")
	bw.WriteString("}\n")
	bw.WriteString("\\score {\n")
	bw.WriteString("  \\new Staff {\n")
	if notes := Notes(g); len(notes) > 0 {
		names := make([]string, len(notes))
		for i, s := range notes {
			names[i] = lily(s)
		}
		bw.WriteString("    " + strings.Join(names, " ") + "\n")
	}
	bw.WriteString("  }\n")
	bw.WriteString("}\n")
	return bw.Flush()
}
