// Package layout assigns 2D positions to graph nodes.
//
// # Overview
//
// Music theory has its own spatial conventions: pitch classes around the
// circle of fifths, triads on the Tonnetz lattice, transformation networks
// drawn as rings or layers. Each convention is a named strategy. [Apply]
// looks one up by name and returns a new graph with [graph.Node.Position]
// set; the input graph is never modified:
//
//	out, err := layout.Apply(g, layout.CircleOfFifths, layout.Params{"radius": 2.0})
//
// An unknown name fails with an INVALID_LAYOUT error. [Names] lists the
// registered strategies for help text and shell completion.
//
// # Strategies
//
//   - circle_of_fifths: pitch classes at angle 2π·i/12 in fifths order.
//     Labels that are not pitch classes go to the origin.
//   - tonnetz: pitch classes on the lattice in [TonnetzCoords], fifths along
//     x and major thirds along y. Other nodes keep no position.
//   - transformation_network: pitch classes on an outer ring with
//     transformations on an inner one (circular), or one row per node type
//     (hierarchical, the default).
//   - hierarchical: rows by depth below the root nodes, those without
//     incoming edges. Each row is centered on x = 0.
//   - gis_network: fixed bands for GIS spaces, network nodes and
//     transformations.
//   - isomorphic_network: sub-networks found by [SplitNetworks] laid out side
//     by side, with isomorphism edges drawn dashed and heavier.
//
// Strategies may leave some nodes without a position. Renderers fall back to
// their own placement for those.
//
// # Parameters
//
// [Params] is a loose key/value map so that the same parameters can come
// from TOML config, CLI flags and HTTP query strings. [ParseParams] reads
// "key=value" pairs, and the typed getters fall back to the strategy default
// when a key is missing or has the wrong type. Recognized keys:
//
//	radius, scale, spacing, vertical_spacing
//	node_width, level_height, node_spacing, level_spacing
//	layout_style (circular), hierarchical, center_transformations
package layout
