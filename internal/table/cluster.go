package table

import (
	"math"

	"github.com/joseph-ayodele/invoice-pipeline/internal/geometry"
	"github.com/joseph-ayodele/invoice-pipeline/internal/ocr"
)

// Clusterer groups OCR boxes into candidate table regions by proximity.
type Clusterer struct {
	distanceThreshold float64
	minTableCells     int
}

func NewClusterer(distanceThreshold float64, minTableCells int) *Clusterer {
	if distanceThreshold <= 0 {
		distanceThreshold = 50.0
	}
	if minTableCells <= 0 {
		minTableCells = 4
	}
	return &Clusterer{distanceThreshold: distanceThreshold, minTableCells: minTableCells}
}

// Cluster groups boxes transitively: a box joins a cluster when it is near
// any box already in it. Single left-to-right pass, matching reading order.
func (c *Clusterer) Cluster(boxes []ocr.Box) [][]ocr.Box {
	if len(boxes) == 0 {
		return nil
	}

	var clusters [][]ocr.Box
	used := make([]bool, len(boxes))

	for i := range boxes {
		if used[i] {
			continue
		}
		cluster := []ocr.Box{boxes[i]}
		used[i] = true

		for j := i + 1; j < len(boxes); j++ {
			if used[j] {
				continue
			}
			for _, member := range cluster {
				if c.nearby(boxes[j].Bounds, member.Bounds) {
					cluster = append(cluster, boxes[j])
					used[j] = true
					break
				}
			}
		}
		clusters = append(clusters, cluster)
	}
	return clusters
}

// nearby requires closeness on both axes. Distances are measured edge-to-edge
// and center-to-center, whichever is smallest.
func (c *Clusterer) nearby(a, b geometry.BoundingBox) bool {
	hDist := math.Min(
		math.Min(math.Abs(a.XMin-b.XMax), math.Abs(b.XMin-a.XMax)),
		math.Abs(a.CenterX()-b.CenterX()),
	)
	vDist := math.Min(
		math.Min(math.Abs(a.YMin-b.YMax), math.Abs(b.YMin-a.YMax)),
		math.Abs(a.CenterY()-b.CenterY()),
	)
	return hDist < c.distanceThreshold && vDist < c.distanceThreshold
}

// DetectRegion returns the envelope of a cluster, or false when the cluster
// is too small to be a table.
func (c *Clusterer) DetectRegion(cluster []ocr.Box) (geometry.BoundingBox, bool) {
	if len(cluster) < c.minTableCells {
		return geometry.BoundingBox{}, false
	}
	bounds := make([]geometry.BoundingBox, len(cluster))
	for i, b := range cluster {
		bounds[i] = b.Bounds
	}
	return geometry.Envelope(bounds)
}
