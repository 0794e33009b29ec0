package shape

import (
	"image"
	"math"
	"sort"
)

// Defect is a concave region between a contour and its convex hull. Start,
// End and Far index into the contour; Depth is the distance from Far to the
// hull edge Start-End.
type Defect struct {
	Start int
	End   int
	Far   int
	Depth float64
}

// ConvexHullIndices returns the indices of the convex hull vertices of
// points, in ascending index order. Collinear points on a hull edge are not
// included and repeated points are represented by their first occurrence.
// Fewer than three distinct non-collinear points yield fewer than three
// indices.
func ConvexHullIndices(points []image.Point) []int {
	idx := make([]int, 0, len(points))
	seen := make(map[image.Point]bool, len(points))
	for i, p := range points {
		if seen[p] {
			continue
		}
		seen[p] = true
		idx = append(idx, i)
	}
	if len(idx) < 3 {
		return idx
	}

	sort.Slice(idx, func(a, b int) bool {
		pa, pb := points[idx[a]], points[idx[b]]
		if pa.X != pb.X {
			return pa.X < pb.X
		}
		return pa.Y < pb.Y
	})

	// Andrew's monotone chain.
	hull := make([]int, 0, 2*len(idx))
	for _, i := range idx {
		for len(hull) >= 2 && cross(points[hull[len(hull)-2]], points[hull[len(hull)-1]], points[i]) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, i)
	}
	lower := len(hull) + 1
	for k := len(idx) - 2; k >= 0; k-- {
		i := idx[k]
		for len(hull) >= lower && cross(points[hull[len(hull)-2]], points[hull[len(hull)-1]], points[i]) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, i)
	}
	hull = hull[:len(hull)-1]

	sort.Ints(hull)
	return hull
}

// cross is the z component of (b-a) x (c-a).
func cross(a, b, c image.Point) int {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// ConvexityDefects walks the contour between each pair of consecutive hull
// indices and reports the deepest point of every stretch that leaves the
// hull edge. hull must be in ascending order, as returned by
// ConvexHullIndices.
func ConvexityDefects(contour []image.Point, hull []int) []Defect {
	n := len(contour)
	if n < 3 || len(hull) < 3 {
		return nil
	}

	var defects []Defect
	for k, start := range hull {
		end := hull[(k+1)%len(hull)]
		p0, p1 := contour[start], contour[end]
		dx0 := float64(p1.X - p0.X)
		dy0 := float64(p1.Y - p0.Y)
		if dx0 == 0 && dy0 == 0 {
			continue
		}
		scale := 1 / math.Hypot(dx0, dy0)

		far, depth := -1, 0.0
		for j := (start + 1) % n; j != end; j = (j + 1) % n {
			dx := float64(contour[j].X - p0.X)
			dy := float64(contour[j].Y - p0.Y)
			d := math.Abs(-dy0*dx+dx0*dy) * scale
			if d > depth {
				far, depth = j, d
			}
		}
		if far >= 0 {
			defects = append(defects, Defect{Start: start, End: end, Far: far, Depth: depth})
		}
	}
	return defects
}
