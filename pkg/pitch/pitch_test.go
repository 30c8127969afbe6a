package pitch

import "testing"

func TestIndex(t *testing.T) {
	tests := []struct {
		label string
		want  int
		ok    bool
	}{
		{"C", 0, true},
		{"C#", 1, true},
		{"Db", 1, true},
		{"D♭", 1, true},
		{"C♯", 1, true},
		{"B#", 0, true},
		{"Cb", 11, true},
		{"Ebb", 2, true},
		{"H", 0, false},
		{"Cx", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := Index(tt.label)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Index(%q) = %d, %v, want %d, %v", tt.label, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTransposeRoundTrip(t *testing.T) {
	g, _ := Transpose("C", 7)
	if g != "G" {
		t.Fatalf("Transpose(C, 7) = %q, want G", g)
	}
	if c, _ := Transpose(g, 5); c != "C" {
		t.Errorf("Transpose(G, 5) = %q, want C", c)
	}
	if b, _ := Transpose("C", -1); b != "B" {
		t.Errorf("Transpose(C, -1) = %q, want B", b)
	}
}

func TestInvert(t *testing.T) {
	tests := []struct {
		label string
		n     int
		want  string
	}{
		{"C", 0, "C"},
		{"E", 0, "G#"},
		{"E", 7, "D#"},
		{"Bb", 0, "D"},
	}
	for _, tt := range tests {
		if got, _ := Invert(tt.label, tt.n); got != tt.want {
			t.Errorf("Invert(%q, %d) = %q, want %q", tt.label, tt.n, got, tt.want)
		}
	}
}

func TestSpell(t *testing.T) {
	tests := []struct {
		label string
		want  Spelling
		ok    bool
	}{
		{"C", Spelling{'C', 0}, true},
		{"Db", Spelling{'D', -1}, true},
		{"F♯", Spelling{'F', 1}, true},
		{"Bbb", Spelling{'B', -2}, true},
		{"X", Spelling{}, false},
	}
	for _, tt := range tests {
		got, ok := Spell(tt.label)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Spell(%q) = %+v, %v, want %+v, %v", tt.label, got, ok, tt.want, tt.ok)
		}
	}
}
