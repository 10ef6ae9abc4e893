package dem

import (
	"sort"

	"github.com/banshee-data/terrain.report/internal/pointcloud"
)

// hullPoint is a 2D sample projection used by the convex hull mask.
type hullPoint struct {
	x, y float64
}

// convexHull computes the convex hull of the cloud's (x, y)
// projections with Andrew's monotone chain, returned in
// counter-clockwise order. Collinear or single-point clouds yield a
// degenerate hull with fewer than three vertices.
func convexHull(c *pointcloud.Cloud) []hullPoint {
	pts := make([]hullPoint, c.Len())
	for i := range pts {
		pts[i] = hullPoint{c.X[i], c.Y[i]}
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].x != pts[j].x {
			return pts[i].x < pts[j].x
		}
		return pts[i].y < pts[j].y
	})
	// Drop duplicates so the chain never stalls on repeated points.
	uniq := pts[:0]
	for i, p := range pts {
		if i == 0 || p != pts[i-1] {
			uniq = append(uniq, p)
		}
	}
	pts = uniq
	if len(pts) < 3 {
		return pts
	}

	var lower, upper []hullPoint
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// cross returns the z component of (b-a) x (c-a): positive when c lies
// left of the directed line a->b.
func cross(a, b, c hullPoint) float64 {
	return (b.x-a.x)*(c.y-a.y) - (b.y-a.y)*(c.x-a.x)
}

// inHull reports whether p lies inside or on the hull boundary. Hulls
// with fewer than three vertices accept only points on the remaining
// segment or vertex.
func inHull(hull []hullPoint, p hullPoint) bool {
	switch len(hull) {
	case 0:
		return false
	case 1:
		return p == hull[0]
	case 2:
		return onSegment(hull[0], hull[1], p)
	}
	for i := range hull {
		j := (i + 1) % len(hull)
		if cross(hull[i], hull[j], p) < 0 {
			return false
		}
	}
	return true
}

// onSegment reports whether p lies on the closed segment ab.
func onSegment(a, b, p hullPoint) bool {
	if cross(a, b, p) != 0 {
		return false
	}
	return min(a.x, b.x) <= p.x && p.x <= max(a.x, b.x) &&
		min(a.y, b.y) <= p.y && p.y <= max(a.y, b.y)
}
