package diagram

import (
	"image"

	"github.com/disintegration/imaging"
)

// mask is a binary image where true marks foreground ink.
type mask struct {
	w, h int
	px   []bool
}

func newMask(w, h int) *mask {
	return &mask{w: w, h: h, px: make([]bool, w*h)}
}

func (m *mask) at(x, y int) bool {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return false
	}
	return m.px[y*m.w+x]
}

func (m *mask) set(x, y int, v bool) {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return
	}
	m.px[y*m.w+x] = v
}

func (m *mask) clone() *mask {
	c := newMask(m.w, m.h)
	copy(c.px, m.px)
	return c
}

// binarize converts img to grayscale and thresholds it. The polarity is chosen
// so that the minority side of the threshold is foreground: dark ink on a light
// page and light ink on a dark page both come out as true pixels.
func binarize(img image.Image, threshold uint8) *mask {
	gray := imaging.Grayscale(img)
	b := gray.Bounds()
	m := newMask(b.Dx(), b.Dy())
	bright := 0
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			if gray.Pix[y*gray.Stride+x*4] > threshold {
				bright++
			}
		}
	}
	inkIsDark := bright*2 >= m.w*m.h
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			v := gray.Pix[y*gray.Stride+x*4] > threshold
			m.px[y*m.w+x] = v != inkIsDark
		}
	}
	return m
}

// erode keeps pixels whose full 3x3 neighborhood is set.
func (m *mask) erode() *mask {
	out := newMask(m.w, m.h)
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			if !m.at(x, y) {
				continue
			}
			keep := true
			for dy := -1; dy <= 1 && keep; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if !m.at(x+dx, y+dy) {
						keep = false
						break
					}
				}
			}
			out.px[y*m.w+x] = keep
		}
	}
	return out
}

// dilate sets every pixel with at least one set pixel in its 3x3 neighborhood.
func (m *mask) dilate() *mask {
	out := newMask(m.w, m.h)
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			if !m.at(x, y) {
				continue
			}
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					out.set(x+dx, y+dy, true)
				}
			}
		}
	}
	return out
}

// open applies n erosions followed by n dilations, removing strokes thinner
// than 2n+1 pixels while preserving filled shapes.
func (m *mask) open(n int) *mask {
	out := m
	for i := 0; i < n; i++ {
		out = out.erode()
	}
	for i := 0; i < n; i++ {
		out = out.dilate()
	}
	return out
}

// without returns m with every pixel set in other cleared.
func (m *mask) without(other *mask) *mask {
	out := m.clone()
	for i, v := range other.px {
		if v {
			out.px[i] = false
		}
	}
	return out
}

// component is one 8-connected region of a mask.
type component struct {
	pixels                 []int
	minX, minY, maxX, maxY int
	sumX, sumY             float64
}

func (c *component) area() int { return len(c.pixels) }

func (c *component) centroid() (float64, float64) {
	n := float64(len(c.pixels))
	return c.sumX / n, c.sumY / n
}

func (c *component) bboxArea() int {
	return (c.maxX - c.minX + 1) * (c.maxY - c.minY + 1)
}

// components labels the 8-connected regions of m in row-major discovery order
// using an explicit queue.
func (m *mask) components() []*component {
	seen := make([]bool, len(m.px))
	var out []*component
	queue := make([]int, 0, 64)
	for start, v := range m.px {
		if !v || seen[start] {
			continue
		}
		c := &component{minX: m.w, minY: m.h, maxX: -1, maxY: -1}
		seen[start] = true
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			i := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			x, y := i%m.w, i/m.w
			c.pixels = append(c.pixels, i)
			c.sumX += float64(x)
			c.sumY += float64(y)
			c.minX, c.maxX = min(c.minX, x), max(c.maxX, x)
			c.minY, c.maxY = min(c.minY, y), max(c.maxY, y)
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if !m.at(nx, ny) {
						continue
					}
					j := ny*m.w + nx
					if !seen[j] {
						seen[j] = true
						queue = append(queue, j)
					}
				}
			}
		}
		out = append(out, c)
	}
	return out
}
