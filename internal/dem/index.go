package dem

import (
	"math"

	"github.com/banshee-data/terrain.report/internal/pointcloud"
)

// maxBuckets bounds the spatial index memory regardless of cloud size.
const maxBuckets = 1 << 20

// bucketIndex is a uniform-grid spatial index over the (x, y)
// projections of a cloud's samples. Nearest-neighbour queries scan
// buckets in expanding Chebyshev rings around the query cell, stopping
// once no unscanned bucket can hold a closer sample.
type bucketIndex struct {
	cloud *pointcloud.Cloud

	minX, minY float64
	cell       float64
	nx, ny     int
	buckets    [][]int32
}

// newBucketIndex builds the index. The bucket edge length targets a
// couple of samples per occupied bucket; degenerate extents (all
// samples on one point or line) collapse to a single row or column.
func newBucketIndex(c *pointcloud.Cloud, b pointcloud.Bounds) *bucketIndex {
	n := c.Len()
	spanX, spanY := b.SpanX(), b.SpanY()

	cell := math.Sqrt(spanX * spanY * 2 / float64(n))
	if cell <= 0 || math.IsNaN(cell) {
		// Zero-area extent: fall back to the larger span, or a unit
		// cell when the cloud is a single point.
		cell = math.Max(spanX, spanY)
		if cell <= 0 {
			cell = 1
		}
	}

	idx := &bucketIndex{cloud: c, minX: b.XMin, minY: b.YMin, cell: cell}
	idx.nx = bucketDim(spanX, cell)
	idx.ny = bucketDim(spanY, cell)
	for idx.nx*idx.ny > maxBuckets {
		idx.cell *= 2
		idx.nx = bucketDim(spanX, idx.cell)
		idx.ny = bucketDim(spanY, idx.cell)
	}

	idx.buckets = make([][]int32, idx.nx*idx.ny)
	for i := 0; i < n; i++ {
		bx, by := idx.bucketOf(c.X[i], c.Y[i])
		k := by*idx.nx + bx
		idx.buckets[k] = append(idx.buckets[k], int32(i))
	}
	return idx
}

func bucketDim(span, cell float64) int {
	d := int(math.Ceil(span / cell))
	if d < 1 {
		d = 1
	}
	return d
}

// bucketOf maps a coordinate to its bucket, clamped to the index edge.
func (idx *bucketIndex) bucketOf(x, y float64) (int, int) {
	bx := int((x - idx.minX) / idx.cell)
	by := int((y - idx.minY) / idx.cell)
	if bx < 0 {
		bx = 0
	} else if bx >= idx.nx {
		bx = idx.nx - 1
	}
	if by < 0 {
		by = 0
	} else if by >= idx.ny {
		by = idx.ny - 1
	}
	return bx, by
}

// nearest returns the index of the sample whose (x, y) projection is
// closest to the query point by Euclidean distance. The cloud must be
// non-empty.
func (idx *bucketIndex) nearest(x, y float64) int {
	qx, qy := idx.bucketOf(x, y)
	best := -1
	bestD := math.Inf(1)

	maxRing := idx.nx
	if idx.ny > maxRing {
		maxRing = idx.ny
	}
	for r := 0; r <= maxRing; r++ {
		// A sample in a ring-r bucket can sit no closer than
		// (r-1)*cell, so once the best hit is within that reach no
		// unscanned ring can beat it.
		if best >= 0 && r >= 2 {
			reach := float64(r-1) * idx.cell
			if bestD <= reach*reach {
				break
			}
		}
		idx.scanRing(qx, qy, r, x, y, &best, &bestD)
	}
	return best
}

// scanRing visits every bucket whose Chebyshev distance from (qx, qy)
// is exactly r and updates the running best.
func (idx *bucketIndex) scanRing(qx, qy, r int, x, y float64, best *int, bestD *float64) {
	x0, x1 := qx-r, qx+r
	y0, y1 := qy-r, qy+r
	for by := y0; by <= y1; by++ {
		if by < 0 || by >= idx.ny {
			continue
		}
		for bx := x0; bx <= x1; bx++ {
			if bx < 0 || bx >= idx.nx {
				continue
			}
			// Interior buckets belong to smaller rings.
			if r > 0 && bx != x0 && bx != x1 && by != y0 && by != y1 {
				continue
			}
			for _, i := range idx.buckets[by*idx.nx+bx] {
				dx := idx.cloud.X[i] - x
				dy := idx.cloud.Y[i] - y
				d := dx*dx + dy*dy
				if d < *bestD {
					*bestD = d
					*best = int(i)
				}
			}
		}
	}
}
