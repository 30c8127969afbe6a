// Package pitch implements pitch-class arithmetic over the 12-tone chromatic
// scale.
//
// Pitch classes are spelled with sharps on output. Input may use sharps or
// flats, written in ASCII (#, b) or Unicode (♯, ♭), so enharmonic spellings
// such as Db and C♯ resolve to the same class.
package pitch

import "strings"

// Chromatic is the canonical sharp spelling of the twelve pitch classes,
// indexed by semitones above C.
var Chromatic = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Fifths orders the pitch classes around the circle of fifths starting at C.
var Fifths = [12]string{"C", "G", "D", "A", "E", "B", "F#", "C#", "G#", "D#", "A#", "F"}

var letters = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// Index returns the semitone index of a pitch-class label.
func Index(label string) (int, bool) {
	sp, ok := Spell(label)
	if !ok {
		return 0, false
	}
	return Mod(letters[sp.Step] + sp.Alter), true
}

// Normalize returns the canonical sharp spelling of label.
func Normalize(label string) (string, bool) {
	i, ok := Index(label)
	if !ok {
		return "", false
	}
	return Chromatic[i], true
}

// Transpose applies Tn: (i + n) mod 12.
func Transpose(label string, n int) (string, bool) {
	i, ok := Index(label)
	if !ok {
		return "", false
	}
	return Chromatic[Mod(i+n)], true
}

// Invert applies In: (12 - i + n) mod 12.
func Invert(label string, n int) (string, bool) {
	i, ok := Index(label)
	if !ok {
		return "", false
	}
	return Chromatic[Mod(12-i+n)], true
}

// Mod reduces n into [0, 12).
func Mod(n int) int {
	return ((n % 12) + 12) % 12
}

// Spelling is a pitch class as written: a letter plus a signed count of
// sharps (positive) or flats (negative).
type Spelling struct {
	Step  byte // 'A'..'G'
	Alter int
}

// Spell parses label without normalizing its enharmonic spelling.
func Spell(label string) (Spelling, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return Spelling{}, false
	}
	if _, ok := letters[label[0]]; !ok {
		return Spelling{}, false
	}
	s := Spelling{Step: label[0]}
	for _, r := range label[1:] {
		switch r {
		case '#', '♯':
			s.Alter++
		case 'b', '♭':
			s.Alter--
		default:
			return Spelling{}, false
		}
	}
	return s, true
}
