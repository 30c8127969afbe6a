package diagram

import "math"

// Segment is a detected straight stroke in image coordinates.
type Segment struct {
	X1, Y1, X2, Y2 float64
	// Support is the fraction of sampled positions along the segment that lie
	// on ink.
	Support float64
}

// Length returns the Euclidean length of the segment.
func (s Segment) Length() float64 {
	return math.Hypot(s.X2-s.X1, s.Y2-s.Y1)
}

// hough is a progressive probabilistic line detector. The strongest
// accumulator cell is examined first; ink runs along its line that are long
// enough become segments, and their pixels are removed (with their votes)
// before the next peak is chosen.
type hough struct {
	m         *mask
	cos, sin  []float64
	rhoMax    int
	nRho      int
	acc       []int
	threshold int
	minLength float64
	maxGap    float64
}

const houghThetas = 180

// houghSample is one on-ink position visited while walking a candidate line.
type houghSample struct {
	u    float64 // offset along the line
	x, y float64
}

func newHough(m *mask, threshold int, minLength, maxGap float64) *hough {
	h := &hough{
		m:         m.clone(),
		cos:       make([]float64, houghThetas),
		sin:       make([]float64, houghThetas),
		rhoMax:    int(math.Ceil(math.Hypot(float64(m.w), float64(m.h)))),
		threshold: threshold,
		minLength: minLength,
		maxGap:    maxGap,
	}
	h.nRho = 2*h.rhoMax + 1
	h.acc = make([]int, houghThetas*h.nRho)
	for t := 0; t < houghThetas; t++ {
		a := float64(t) * math.Pi / houghThetas
		h.cos[t], h.sin[t] = math.Cos(a), math.Sin(a)
	}
	for i, v := range h.m.px {
		if v {
			h.vote(i%m.w, i/m.w, 1)
		}
	}
	return h
}

func (h *hough) vote(x, y, delta int) {
	for t := 0; t < houghThetas; t++ {
		r := int(math.Round(float64(x)*h.cos[t]+float64(y)*h.sin[t])) + h.rhoMax
		h.acc[t*h.nRho+r] += delta
	}
}

func (h *hough) peak() (int, int, int) {
	best, bi := 0, -1
	for i, v := range h.acc {
		if v > best {
			best, bi = v, i
		}
	}
	if bi < 0 {
		return 0, 0, 0
	}
	return best, bi / h.nRho, bi%h.nRho - h.rhoMax
}

// segments runs the detector to exhaustion.
func (h *hough) segments() []Segment {
	var out []Segment
	for {
		votes, t, rho := h.peak()
		if votes < h.threshold {
			return out
		}
		found := h.extract(t, rho)
		if len(found) == 0 {
			h.acc[t*h.nRho+rho+h.rhoMax] = 0
			continue
		}
		out = append(out, found...)
	}
}

// extract walks the line (t, rho) across the image and returns the ink runs
// that satisfy the length constraint, erasing their pixels.
func (h *hough) extract(t, rho int) []Segment {
	c, s := h.cos[t], h.sin[t]
	x0, y0 := float64(rho)*c, float64(rho)*s
	dx, dy := -s, c
	limit := float64(h.rhoMax)

	var out []Segment
	var run []houghSample
	gap := 0.0

	flush := func() {
		if len(run) >= 2 {
			a, b := run[0], run[len(run)-1]
			length := b.u - a.u
			if length >= h.minLength {
				seg := Segment{X1: a.x, Y1: a.y, X2: b.x, Y2: b.y, Support: float64(len(run)) / (length + 1)}
				out = append(out, seg)
				h.erase(run, c, s)
			}
		}
		run, gap = run[:0], 0
	}

	for u := -limit; u <= limit; u++ {
		x, y := x0+u*dx, y0+u*dy
		if x < -1 || y < -1 || x > float64(h.m.w) || y > float64(h.m.h) {
			if len(run) > 0 {
				flush()
			}
			continue
		}
		if h.inkNear(x, y, c, s, 1) {
			gap = 0
			run = append(run, houghSample{u: u, x: x, y: y})
			continue
		}
		if len(run) > 0 {
			gap++
			if gap > h.maxGap {
				flush()
			}
		}
	}
	if len(run) > 0 {
		flush()
	}
	return out
}

// inkNear reports whether an ink pixel lies within width pixels of (x, y)
// along the line normal (c, s).
func (h *hough) inkNear(x, y, c, s float64, width int) bool {
	for k := -width; k <= width; k++ {
		px := int(math.Round(x + float64(k)*c))
		py := int(math.Round(y + float64(k)*s))
		if h.m.at(px, py) {
			return true
		}
	}
	return false
}

// erase clears ink within two pixels of the run and withdraws its votes.
func (h *hough) erase(run []houghSample, c, s float64) {
	for _, p := range run {
		for k := -2; k <= 2; k++ {
			for j := -1; j <= 1; j++ {
				px := int(math.Round(p.x + float64(k)*c - float64(j)*s))
				py := int(math.Round(p.y + float64(k)*s + float64(j)*c))
				if h.m.at(px, py) {
					h.m.set(px, py, false)
					h.vote(px, py, -1)
				}
			}
		}
	}
}
