// Package render holds the output renderers for music graphs.
//
//   - [nodelink]: Graphviz DOT and SVG node-link diagrams
//   - [score]: notation export of pitch-class content (MusicXML, MEI,
//     Humdrum, LilyPond)
//
// [nodelink]: github.com/matzehuels/tonegraph/pkg/render/nodelink
// [score]: github.com/matzehuels/tonegraph/pkg/render/score
package render
