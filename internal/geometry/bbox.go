// Package geometry holds the spatial value types shared by the extraction
// engines. A BoundingBox is an immutable axis-aligned rectangle in page
// coordinates; all derived quantities are computed, never stored.
package geometry

// BoundingBox locates a piece of OCR text on a page.
type BoundingBox struct {
	XMin float64 `json:"x_min"`
	YMin float64 `json:"y_min"`
	XMax float64 `json:"x_max"`
	YMax float64 `json:"y_max"`
}

// Width returns the horizontal extent of the box.
func (b BoundingBox) Width() float64 {
	return b.XMax - b.XMin
}

// Height returns the vertical extent of the box.
func (b BoundingBox) Height() float64 {
	return b.YMax - b.YMin
}

// CenterX returns the horizontal center of the box.
func (b BoundingBox) CenterX() float64 {
	return (b.XMin + b.XMax) / 2
}

// CenterY returns the vertical center of the box.
func (b BoundingBox) CenterY() float64 {
	return (b.YMin + b.YMax) / 2
}

// OverlapsX reports whether the boxes overlap horizontally by more than the
// given fraction of the narrower box.
func (b BoundingBox) OverlapsX(other BoundingBox, threshold float64) bool {
	overlapStart := max(b.XMin, other.XMin)
	overlapEnd := min(b.XMax, other.XMax)
	overlap := max(0, overlapEnd-overlapStart)
	minWidth := min(b.Width(), other.Width())
	if minWidth <= 0 {
		return false
	}
	return overlap > minWidth*threshold
}

// OverlapsY reports whether the boxes overlap vertically by more than the
// given fraction of the shorter box.
func (b BoundingBox) OverlapsY(other BoundingBox, threshold float64) bool {
	overlapStart := max(b.YMin, other.YMin)
	overlapEnd := min(b.YMax, other.YMax)
	overlap := max(0, overlapEnd-overlapStart)
	minHeight := min(b.Height(), other.Height())
	if minHeight <= 0 {
		return false
	}
	return overlap > minHeight*threshold
}

// Contains reports whether the box lies entirely inside region.
func (b BoundingBox) Contains(region BoundingBox) bool {
	return region.XMin >= b.XMin && region.XMax <= b.XMax &&
		region.YMin >= b.YMin && region.YMax <= b.YMax
}

// Union returns the smallest box covering both b and other.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	return BoundingBox{
		XMin: min(b.XMin, other.XMin),
		YMin: min(b.YMin, other.YMin),
		XMax: max(b.XMax, other.XMax),
		YMax: max(b.YMax, other.YMax),
	}
}

// Envelope returns the bounding envelope of all given boxes. The second
// return value is false when boxes is empty.
func Envelope(boxes []BoundingBox) (BoundingBox, bool) {
	if len(boxes) == 0 {
		return BoundingBox{}, false
	}
	env := boxes[0]
	for _, b := range boxes[1:] {
		env = env.Union(b)
	}
	return env, true
}
