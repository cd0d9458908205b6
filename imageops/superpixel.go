// Copyright (c) 2024, Painty Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imageops

import (
	"math/rand"

	"github.com/chewxy/math32"

	"github.com/painty/painty/colorspace"
	"github.com/painty/painty/vecf"
)

// SeedStrategy selects how SLICO cluster centers are initially placed.
type SeedStrategy int

const (
	// SeedUniformGrid places centers on a regular grid.
	SeedUniformGrid SeedStrategy = iota
	// SeedJitteredGrid places centers on a grid with random per-cell jitter.
	SeedJitteredGrid
	// SeedPoissonDisk places centers with density weighted by a saliency
	// map (spec default: per-pixel difference between target and
	// current canvas).
	SeedPoissonDisk
)

// SuperpixelParams bundles the SLICO clustering parameters of spec
// section 4.I.
type SuperpixelParams struct {
	CellWidth    float32 // nominal superpixel width in pixels
	Seed         SeedStrategy
	Saliency     *vecf.Matrix[float32] // used only by SeedPoissonDisk
	ColorWeight  float32               // weight on the optional color-difference term
	ColorDiff    *vecf.Matrix[float32] // optional extra per-pixel color-difference weight
	MaxIters     int
	MinMoveColor float32 // convergence threshold on movement + color error
	RandSeed     int64
}

// Region is a connected superpixel: a label, its member pixel
// coordinates, and an active flag, per spec section 3.
type Region struct {
	Label  int
	Pixels []vecf.Vector2 // (x, y) integer positions stored as float32
	Active bool

	meanColorValid bool
	meanColor      vecf.Vector3
	inscribedValid bool
	inscribedC     vecf.Vector2
	inscribedR     float32
	boundsValid    bool
	boundsMin      vecf.Vector2
	boundsMax      vecf.Vector2
}

// MeanColor lazily computes and caches the mean linear-RGB color of the
// region's pixels in img.
func (r *Region) MeanColor(img *vecf.Matrix[vecf.Vector3]) vecf.Vector3 {
	if r.meanColorValid {
		return r.meanColor
	}
	var sum vecf.Vector3
	for _, p := range r.Pixels {
		sum = sum.Add(img.AtUnchecked(int(p.Y), int(p.X)))
	}
	if len(r.Pixels) > 0 {
		r.meanColor = sum.MulScalar(1 / float32(len(r.Pixels)))
	}
	r.meanColorValid = true
	return r.meanColor
}

// BoundingRect lazily computes and caches the axis-aligned bounding box
// of the region's pixels.
func (r *Region) BoundingRect() (min, max vecf.Vector2) {
	if r.boundsValid {
		return r.boundsMin, r.boundsMax
	}
	if len(r.Pixels) == 0 {
		return vecf.Vector2{}, vecf.Vector2{}
	}
	min, max = r.Pixels[0], r.Pixels[0]
	for _, p := range r.Pixels[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	r.boundsMin, r.boundsMax = min, max
	r.boundsValid = true
	return min, max
}

// InscribedCircle lazily computes and caches the largest disk, centered
// at the region's pixel whose distance to the nearest non-member pixel
// is maximal, that fits inside the region (approximated via a distance
// transform over the region's own raster).
func (r *Region) InscribedCircle() (center vecf.Vector2, radius float32) {
	if r.inscribedValid {
		return r.inscribedC, r.inscribedR
	}
	if len(r.Pixels) == 0 {
		return vecf.Vector2{}, 0
	}
	min, max := r.BoundingRect()
	w := int(max.X-min.X) + 1
	h := int(max.Y-min.Y) + 1
	member := make([][]bool, h)
	for i := range member {
		member[i] = make([]bool, w)
	}
	for _, p := range r.Pixels {
		member[int(p.Y-min.Y)][int(p.X-min.X)] = true
	}
	dist := make([][]float32, h)
	for y := 0; y < h; y++ {
		dist[y] = make([]float32, w)
		for x := 0; x < w; x++ {
			if !member[y][x] {
				dist[y][x] = 0
				continue
			}
			dist[y][x] = distToBoundary(member, x, y, w, h)
		}
	}
	var best float32 = -1
	var bestX, bestY int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if dist[y][x] > best {
				best = dist[y][x]
				bestX, bestY = x, y
			}
		}
	}
	r.inscribedC = vecf.Vec2(float32(bestX)+min.X, float32(bestY)+min.Y)
	r.inscribedR = best
	r.inscribedValid = true
	return r.inscribedC, r.inscribedR
}

func distToBoundary(member [][]bool, x, y, w, h int) float32 {
	best := float32(1e9)
	for dy := -y - 1; dy <= h-y; dy++ {
		for dx := -x - 1; dx <= w-x; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || ny < 0 || nx >= w || ny >= h || !member[ny][nx] {
				d := math32.Sqrt(float32(dx*dx + dy*dy))
				if d < best {
					best = d
				}
			}
		}
	}
	if best > 1e8 {
		return 1 // fully interior small region, fallback radius
	}
	return best
}

// RMSDifference computes the root-mean-square of a per-pixel difference
// field (such as the canvas/target color-difference matrix) over the
// region's pixels.
func (r *Region) RMSDifference(diff *vecf.Matrix[float32]) float32 {
	if len(r.Pixels) == 0 {
		return 0
	}
	var sum float32
	for _, p := range r.Pixels {
		d := diff.AtUnchecked(int(p.Y), int(p.X))
		sum += d * d
	}
	return math32.Sqrt(sum / float32(len(r.Pixels)))
}

type slicCenter struct {
	x, y float32
	lab  colorspace.Lab
}

// Segment runs SLICO-style superpixel clustering over img (expected in
// CIELab, packed as a Vector3(L, a, b) matrix), per spec section 4.I. It
// returns one Region per final label, plus a Rows x Cols label matrix.
func Segment(lab *vecf.Matrix[vecf.Vector3], params SuperpixelParams) ([]*Region, *vecf.Matrix[int]) {
	rows, cols := lab.Rows, lab.Cols
	cellWidth := params.CellWidth
	if cellWidth < 1 {
		cellWidth = 1
	}
	centers := seedCenters(lab, params)
	labels := vecf.NewMatrix[int](rows, cols, func(a, b int, t float32) int {
		if t < 0.5 {
			return a
		}
		return b
	})
	labels.Fill(-1)
	distField := vecf.NewFloat32Matrix(rows, cols)

	maxIters := params.MaxIters
	if maxIters <= 0 {
		maxIters = 100
	}
	threshold := params.MinMoveColor
	if threshold <= 0 {
		threshold = 0.001
	}

	for iter := 0; iter < maxIters; iter++ {
		distField.Fill(1e18)
		searchRadius := cellWidth * 1.5
		for ci, ctr := range centers {
			x0 := maxInt(0, int(ctr.x-searchRadius))
			x1 := minInt(cols-1, int(ctr.x+searchRadius))
			y0 := maxInt(0, int(ctr.y-searchRadius))
			y1 := minInt(rows-1, int(ctr.y+searchRadius))
			for y := y0; y <= y1; y++ {
				for x := x0; x <= x1; x++ {
					v := lab.AtUnchecked(y, x)
					pxLab := colorspace.Lab{L: v.X, A: v.Y, B: v.Z}
					dc := math32.Sqrt((pxLab.L-ctr.lab.L)*(pxLab.L-ctr.lab.L) + (pxLab.A-ctr.lab.A)*(pxLab.A-ctr.lab.A) + (pxLab.B-ctr.lab.B)*(pxLab.B-ctr.lab.B))
					ds := math32.Sqrt((float32(x)-ctr.x)*(float32(x)-ctr.x) + (float32(y)-ctr.y)*(float32(y)-ctr.y))
					extra := float32(0)
					if params.ColorDiff != nil {
						extra = params.ColorWeight * params.ColorDiff.AtUnchecked(y, x)
					}
					d := dc*dc + (ds*ds)/(cellWidth*cellWidth)*math32.Max(1, dc) + extra
					if d < distField.AtUnchecked(y, x) {
						distField.SetUnchecked(y, x, d)
						labels.SetUnchecked(y, x, ci)
					}
				}
			}
		}

		moved, colorErr := recomputeCenters(lab, labels, centers)
		if moved+colorErr < threshold {
			break
		}
	}

	enforceConnectivity(labels, rows, cols, int(cellWidth*cellWidth/4))
	return buildRegions(labels, rows, cols), labels
}

func seedCenters(lab *vecf.Matrix[vecf.Vector3], params SuperpixelParams) []slicCenter {
	rows, cols := lab.Rows, lab.Cols
	cellWidth := params.CellWidth
	if cellWidth < 1 {
		cellWidth = 1
	}
	var centers []slicCenter
	rng := rand.New(rand.NewSource(params.RandSeed))

	addCenter := func(x, y float32) {
		xi, yi := clampF(x, 0, float32(cols-1)), clampF(y, 0, float32(rows-1))
		v := lab.AtUnchecked(int(yi), int(xi))
		centers = append(centers, slicCenter{x: xi, y: yi, lab: colorspace.Lab{L: v.X, A: v.Y, B: v.Z}})
	}

	switch params.Seed {
	case SeedJitteredGrid:
		for y := cellWidth / 2; y < float32(rows); y += cellWidth {
			for x := cellWidth / 2; x < float32(cols); x += cellWidth {
				jx := x + (rng.Float32()-0.5)*cellWidth*0.5
				jy := y + (rng.Float32()-0.5)*cellWidth*0.5
				addCenter(jx, jy)
			}
		}
	case SeedPoissonDisk:
		target := int(float32(rows*cols) / (cellWidth * cellWidth))
		if target < 1 {
			target = 1
		}
		attempts := target * 30
		placed := 0
		for a := 0; a < attempts && placed < target; a++ {
			x := rng.Float32() * float32(cols-1)
			y := rng.Float32() * float32(rows-1)
			w := float32(1)
			if params.Saliency != nil {
				w = 0.1 + params.Saliency.Sample(x, y, vecf.BorderClamp)
			}
			if rng.Float32() > w {
				continue
			}
			if tooClose(centers, x, y, cellWidth*0.6) {
				continue
			}
			addCenter(x, y)
			placed++
		}
	default: // SeedUniformGrid
		for y := cellWidth / 2; y < float32(rows); y += cellWidth {
			for x := cellWidth / 2; x < float32(cols); x += cellWidth {
				addCenter(x, y)
			}
		}
	}
	if len(centers) == 0 {
		addCenter(float32(cols)/2, float32(rows)/2)
	}
	return centers
}

func tooClose(centers []slicCenter, x, y, minDist float32) bool {
	for _, c := range centers {
		dx, dy := c.x-x, c.y-y
		if dx*dx+dy*dy < minDist*minDist {
			return true
		}
	}
	return false
}

func clampF(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func recomputeCenters(lab *vecf.Matrix[vecf.Vector3], labels *vecf.Matrix[int], centers []slicCenter) (moved, colorErr float32) {
	sums := make([]struct {
		x, y, l, a, b float32
		n             int
	}, len(centers))
	rows, cols := labels.Rows, labels.Cols
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			ci := labels.AtUnchecked(y, x)
			if ci < 0 || ci >= len(centers) {
				continue
			}
			v := lab.AtUnchecked(y, x)
			s := &sums[ci]
			s.x += float32(x)
			s.y += float32(y)
			s.l += v.X
			s.a += v.Y
			s.b += v.Z
			s.n++
		}
	}
	for i := range centers {
		s := sums[i]
		if s.n == 0 {
			continue
		}
		nx, ny := s.x/float32(s.n), s.y/float32(s.n)
		nl, na, nb := s.l/float32(s.n), s.a/float32(s.n), s.b/float32(s.n)
		dx, dy := nx-centers[i].x, ny-centers[i].y
		moved += math32.Sqrt(dx*dx + dy*dy)
		dl, da, db := nl-centers[i].lab.L, na-centers[i].lab.A, nb-centers[i].lab.B
		colorErr += math32.Sqrt(dl*dl + da*da + db*db)
		centers[i].x, centers[i].y = nx, ny
		centers[i].lab = colorspace.Lab{L: nl, A: na, B: nb}
	}
	if len(centers) == 0 {
		return 0, 0
	}
	return moved / float32(len(centers)), colorErr / float32(len(centers))
}

// enforceConnectivity relabels 4-connected components and merges
// components smaller than minSize into their strongest (most frequent)
// 4-connected neighbor label, per spec section 4.I.
func enforceConnectivity(labels *vecf.Matrix[int], rows, cols, minSize int) {
	visited := make([]bool, rows*cols)
	newLabels := make([]int, rows*cols)
	for i := range newLabels {
		newLabels[i] = -1
	}
	nextLabel := 0
	type comp struct {
		cells []int
		label int
	}
	var comps []comp

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			idx := y*cols + x
			if visited[idx] {
				continue
			}
			origLabel := labels.AtUnchecked(y, x)
			cells := floodFill(labels, visited, x, y, rows, cols, origLabel)
			for _, c := range cells {
				newLabels[c] = nextLabel
			}
			comps = append(comps, comp{cells: cells, label: nextLabel})
			nextLabel++
		}
	}

	for i := range newLabels {
		labels.SetUnchecked(i/cols, i%cols, newLabels[i])
	}

	if minSize <= 0 {
		return
	}
	for _, cm := range comps {
		if len(cm.cells) >= minSize {
			continue
		}
		neighborCounts := map[int]int{}
		for _, idx := range cm.cells {
			x, y := idx%cols, idx/cols
			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || ny < 0 || nx >= cols || ny >= rows {
					continue
				}
				nl := labels.AtUnchecked(ny, nx)
				if nl != cm.label {
					neighborCounts[nl]++
				}
			}
		}
		best, bestCount := cm.label, -1
		for l, cnt := range neighborCounts {
			if cnt > bestCount {
				best, bestCount = l, cnt
			}
		}
		if bestCount < 0 {
			continue
		}
		for _, idx := range cm.cells {
			labels.SetUnchecked(idx/cols, idx%cols, best)
		}
	}
}

func floodFill(labels *vecf.Matrix[int], visited []bool, x, y, rows, cols, target int) []int {
	cols2 := cols
	stack := []int{y*cols2 + x}
	visited[y*cols2+x] = true
	var cells []int
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cells = append(cells, idx)
		cx, cy := idx%cols2, idx/cols2
		for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := cx+d[0], cy+d[1]
			if nx < 0 || ny < 0 || nx >= cols || ny >= rows {
				continue
			}
			nidx := ny*cols2 + nx
			if visited[nidx] {
				continue
			}
			if labels.AtUnchecked(ny, nx) != target {
				continue
			}
			visited[nidx] = true
			stack = append(stack, nidx)
		}
	}
	return cells
}

func buildRegions(labels *vecf.Matrix[int], rows, cols int) []*Region {
	byLabel := map[int]*Region{}
	var order []int
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			l := labels.AtUnchecked(y, x)
			r, ok := byLabel[l]
			if !ok {
				r = &Region{Label: l, Active: true}
				byLabel[l] = r
				order = append(order, l)
			}
			r.Pixels = append(r.Pixels, vecf.Vec2(float32(x), float32(y)))
		}
	}
	out := make([]*Region, 0, len(order))
	for _, l := range order {
		out = append(out, byLabel[l])
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
