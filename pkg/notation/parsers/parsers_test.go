package parsers

import (
	"testing"

	"github.com/matzehuels/tonegraph/pkg/errors"
)

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		p, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q) error = %v", name, err)
		}
		if !p.AcceptsText() && !p.AcceptsImage() {
			t.Errorf("parser %q accepts no input", name)
		}
	}

	_, err := Lookup("ocr")
	if !errors.Is(err, errors.ErrCodeInvalidParser) {
		t.Errorf("Lookup(ocr) error = %v, want INVALID_PARSER", err)
	}
}

func TestPatternAcceptsBoth(t *testing.T) {
	p, _ := Lookup("pattern")
	if !p.AcceptsText() || !p.AcceptsImage() {
		t.Error("pattern should accept text and images")
	}
	g := p.Text.Parse("T1 ∘ T2")
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
}
