package cache

import (
	"fmt"
	"sort"
)

// Keyer derives cache keys for each cached pipeline stage.
type Keyer interface {
	// ParseKey identifies the graph a parser extracted from an input.
	ParseKey(parser, inputHash string) string

	// LayoutKey identifies a positioned graph.
	LayoutKey(graphHash, name string, params map[string]any) string

	// CompareKey identifies a comparison report for an ordered graph pair.
	CompareKey(firstHash, secondHash string, opts CompareKeyOpts) string
}

// CompareKeyOpts holds the comparator settings that change its result.
type CompareKeyOpts struct {
	MaxSteps int `json:"max_steps"`
}

// DefaultKeyer builds keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ParseKey hashes the parser name together with the input hash.
func (DefaultKeyer) ParseKey(parser, inputHash string) string {
	return hashKey("parse", parser, inputHash)
}

// LayoutKey hashes the layout name and its parameters in key order.
func (DefaultKeyer) LayoutKey(graphHash, name string, params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	flat := make([]string, 0, len(keys))
	for _, k := range keys {
		flat = append(flat, fmt.Sprintf("%s=%v", k, params[k]))
	}
	return hashKey("layout", graphHash, name, flat)
}

// CompareKey hashes both graph hashes in argument order.
func (DefaultKeyer) CompareKey(firstHash, secondHash string, opts CompareKeyOpts) string {
	return hashKey("compare", firstHash, secondHash, opts)
}
