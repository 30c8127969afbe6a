package diagram

import "math"

// discTemplate is a filled disc of radius r centered in a window with a one
// pixel background margin, so that correlation rewards an isolated dot.
type discTemplate struct {
	r, size int
	cells   []float64 // zero-mean template values
	norm    float64
}

func newDiscTemplate(r int) *discTemplate {
	size := 2*r + 3
	raw := make([]float64, size*size)
	c := float64(size / 2)
	var mean float64
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-c, float64(y)-c
			if dx*dx+dy*dy <= float64(r*r)+0.5 {
				raw[y*size+x] = 1
				mean++
			}
		}
	}
	mean /= float64(len(raw))
	t := &discTemplate{r: r, size: size, cells: raw}
	for i, v := range raw {
		t.cells[i] = v - mean
		t.norm += t.cells[i] * t.cells[i]
	}
	return t
}

// score returns the zero-mean normalized cross-correlation of the template
// centered at (cx, cy). Uniform windows score 0.
func (t *discTemplate) score(m *mask, cx, cy int) float64 {
	half := t.size / 2
	var sum, mean float64
	n := float64(t.size * t.size)
	win := make([]float64, t.size*t.size)
	for y := 0; y < t.size; y++ {
		for x := 0; x < t.size; x++ {
			if m.at(cx-half+x, cy-half+y) {
				win[y*t.size+x] = 1
				sum++
			}
		}
	}
	mean = sum / n
	var cross, wnorm float64
	for i, v := range win {
		d := v - mean
		cross += d * t.cells[i]
		wnorm += d * d
	}
	if wnorm == 0 || t.norm == 0 {
		return 0
	}
	return cross / math.Sqrt(wnorm*t.norm)
}

// best searches the 3x3 neighborhood around (cx, cy) for the highest score.
func (t *discTemplate) best(m *mask, cx, cy int) (float64, int, int) {
	bestScore, bx, by := math.Inf(-1), cx, cy
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if s := t.score(m, cx+dx, cy+dy); s > bestScore {
				bestScore, bx, by = s, cx+dx, cy+dy
			}
		}
	}
	return bestScore, bx, by
}
