package score

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/tonegraph/pkg/graph"
)

const (
	beatsPerMeasure = 4
	meiNamespace    = "http://www.music-encoding.org/ns/mei"
)

type scorePartwise struct {
	XMLName  xml.Name `xml:"score-partwise"`
	Version  string   `xml:"version,attr"`
	Work     work     `xml:"work"`
	PartList partList `xml:"part-list"`
	Part     part     `xml:"part"`
}

type work struct {
	Title string `xml:"work-title"`
}

type partList struct {
	ScorePart scorePart `xml:"score-part"`
}

type scorePart struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"part-name"`
}

type part struct {
	ID       string    `xml:"id,attr"`
	Measures []measure `xml:"measure"`
}

type measure struct {
	Number     int               `xml:"number,attr"`
	Attributes *measureAttribute `xml:"attributes,omitempty"`
	Notes      []note            `xml:"note"`
}

type measureAttribute struct {
	Divisions int      `xml:"divisions"`
	Time      timeSig  `xml:"time"`
	Clef      clefSign `xml:"clef"`
}

type timeSig struct {
	Beats    int `xml:"beats"`
	BeatType int `xml:"beat-type"`
}

type clefSign struct {
	Sign string `xml:"sign"`
	Line int    `xml:"line"`
}

type note struct {
	Pitch    xmlPitch `xml:"pitch"`
	Duration int      `xml:"duration"`
	Type     string   `xml:"type"`
}

type xmlPitch struct {
	Step   string `xml:"step"`
	Alter  int    `xml:"alter,omitempty"`
	Octave int    `xml:"octave"`
}

func writeMusicXML(w io.Writer, g *graph.Graph, opts Options) error {
	doc := scorePartwise{
		Version:  "4.0",
		Work:     work{Title: opts.title()},
		PartList: partList{ScorePart: scorePart{ID: "P1", Name: opts.title()}},
		Part:     part{ID: "P1"},
	}
	notes := Notes(g)
	for i := 0; i == 0 || i < len(notes); i += beatsPerMeasure {
		m := measure{Number: i/beatsPerMeasure + 1}
		if i == 0 {
			m.Attributes = &measureAttribute{
				Divisions: 1,
				Time:      timeSig{Beats: beatsPerMeasure, BeatType: 4},
				Clef:      clefSign{Sign: "G", Line: 2},
			}
		}
		for _, s := range notes[i:min(i+beatsPerMeasure, len(notes))] {
			m.Notes = append(m.Notes, note{
				Pitch:    xmlPitch{Step: string(s.Step), Alter: s.Alter, Octave: 4},
				Duration: 1,
				Type:     "quarter",
			})
		}
		doc.Part.Measures = append(doc.Part.Measures, m)
	}
	return encodeXML(w, doc, MusicXML)
}

type meiDoc struct {
	XMLName xml.Name `xml:"mei"`
	XMLNS   string   `xml:"xmlns,attr"`
	Version string   `xml:"meiversion,attr"`
	Head    meiHead  `xml:"meiHead"`
	Music   meiMusic `xml:"music"`
}

type meiHead struct {
	Title string `xml:"fileDesc>titleStmt>title"`
}

type meiMusic struct {
	Layer meiLayer `xml:"body>mdiv>score>section>measure>staff>layer"`
}

type meiLayer struct {
	N     int       `xml:"n,attr"`
	Notes []meiNote `xml:"note"`
}

type meiNote struct {
	PName string `xml:"pname,attr"`
	Accid string `xml:"accid,attr,omitempty"`
	Oct   int    `xml:"oct,attr"`
	Dur   int    `xml:"dur,attr"`
}

func meiAccidental(alter int) string {
	switch {
	case alter > 0:
		return strings.Repeat("s", alter)
	case alter < 0:
		return strings.Repeat("f", -alter)
	}
	return ""
}

func writeMEI(w io.Writer, g *graph.Graph, opts Options) error {
	doc := meiDoc{
		XMLNS:   meiNamespace,
		Version: "5.0",
		Head:    meiHead{Title: opts.title()},
		Music:   meiMusic{Layer: meiLayer{N: 1}},
	}
	for _, s := range Notes(g) {
		doc.Music.Layer.Notes = append(doc.Music.Layer.Notes, meiNote{
			PName: strings.ToLower(string(s.Step)),
			Accid: meiAccidental(s.Alter),
			Oct:   4,
			Dur:   4,
		})
	}
	return encodeXML(w, doc, MEI)
}

func encodeXML(w io.Writer, v any, format Format) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
