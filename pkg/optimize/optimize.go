package optimize

import (
	"strings"

	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/graph"
)

// Pass is a single graph rewrite.
type Pass func(g *graph.Graph) *graph.Graph

// Strategy names.
const (
	StrategyMergeSimilarNodes   = "merge_similar_nodes"
	StrategyRemoveRedundant     = "remove_redundant_edges"
	StrategySimplifyChains      = "simplify_transformation_chains"
	StrategyCompressPaths       = "compress_paths"
	strategySimplifyChainsShort = "simplify_transformations"
)

var passes = []struct {
	name string
	pass Pass
}{
	{StrategyMergeSimilarNodes, MergeSimilarNodes},
	{StrategyRemoveRedundant, RemoveRedundantEdges},
	{StrategySimplifyChains, SimplifyTransformationChains},
	{StrategyCompressPaths, CompressPaths},
}

// Strategies returns the strategy names in default order.
func Strategies() []string {
	out := make([]string, len(passes))
	for i, p := range passes {
		out[i] = p.name
	}
	return out
}

// Lookup returns the pass registered under name.
func Lookup(name string) (Pass, error) {
	if name == strategySimplifyChainsShort {
		name = StrategySimplifyChains
	}
	for _, p := range passes {
		if p.name == name {
			return p.pass, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidStrategy,
		"unknown optimization strategy %q (available: %s)", name, strings.Join(Strategies(), ", "))
}

// Optimize applies the named passes in order, or all passes when none are
// named. Names are resolved before any pass runs.
func Optimize(g *graph.Graph, strategies ...string) (*graph.Graph, error) {
	if len(strategies) == 0 {
		strategies = Strategies()
	}
	run := make([]Pass, len(strategies))
	for i, name := range strategies {
		p, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		run[i] = p
	}
	out := g.Clone()
	for _, p := range run {
		out = p(out)
	}
	return out, nil
}
